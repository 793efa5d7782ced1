package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/domain"
	"github.com/leituraapp/leitura-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new user account and returns tokens",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates by username or email and returns tokens",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for a new token pair",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the session behind a refresh token",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get my profile",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update my profile",
		Description: "Updates display name, bio, or avatar color",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30" doc:"Unique username"`
	Email    string `json:"email" validate:"required,email,max=254" doc:"User email address"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"User password"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body          RegisterRequest
	UserAgent     string `header:"User-Agent"`
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required,max=254" doc:"Username or email"`
	Password string `json:"password" validate:"required,max=1024" doc:"User password"`
}

// LoginInput wraps the login request with headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	UserAgent     string `header:"User-Agent"`
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" doc:"Refresh token"`
}

// RefreshInput wraps the refresh request for Huma.
type RefreshInput struct {
	Body      RefreshRequest
	UserAgent string `header:"User-Agent"`
}

// LogoutRequest is the request body for logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" doc:"Refresh token to revoke"`
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body LogoutRequest
}

// UserResponse contains user information in API responses.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Username    string    `json:"username" doc:"Username"`
	Email       string    `json:"email" doc:"User email"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	Bio         string    `json:"bio" doc:"Profile bio"`
	AvatarColor string    `json:"avatar_color" doc:"Avatar color"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// AuthResponse contains authentication tokens and user info.
type AuthResponse struct {
	AccessToken  string       `json:"access_token" doc:"PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Refresh token"`
	TokenType    string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn    int64        `json:"expires_in" doc:"Access token expiry in seconds"`
	User         UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateProfileRequest is the request body for profile updates.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100" doc:"Display name"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500" doc:"Profile bio"`
	AvatarColor *string `json:"avatar_color,omitempty" validate:"omitempty,max=20" doc:"Avatar color"`
}

// UpdateProfileInput wraps the profile update request for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	if !s.authRateLimiter.Allow(extractIP(input.XForwardedFor, input.XRealIP)) {
		return nil, huma.Error429TooManyRequests("Too many requests. Please try again later.")
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	pair, err := s.services.Auth.Register(ctx, input.Body.Username, input.Body.Email, input.Body.Password, input.UserAgent)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: mapAuthResponse(pair)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	if !s.authRateLimiter.Allow(extractIP(input.XForwardedFor, input.XRealIP)) {
		return nil, huma.Error429TooManyRequests("Too many requests. Please try again later.")
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	pair, err := s.services.Auth.Login(ctx, input.Body.Login, input.Body.Password, input.UserAgent)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: mapAuthResponse(pair)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	pair, err := s.services.Auth.Refresh(ctx, input.Body.RefreshToken, input.UserAgent)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: mapAuthResponse(pair)}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.Body.RefreshToken); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Logged out successfully"}}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	user, err := s.services.Auth.UpdateProfile(ctx, userID, input.Body.DisplayName, input.Body.Bio, input.Body.AvatarColor)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUserResponse(user)}, nil
}

// === Helpers ===

func mapAuthResponse(pair *service.TokenPair) AuthResponse {
	return AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		User:         mapUserResponse(pair.User),
	}
}

func mapUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarColor: user.AvatarColor,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		if i := strings.IndexByte(xForwardedFor, ','); i >= 0 {
			return strings.TrimSpace(xForwardedFor[:i])
		}
		return xForwardedFor
	}
	return xRealIP
}
