package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leituraapp/leitura-server/internal/auth"
	"github.com/leituraapp/leitura-server/internal/color"
	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/id"
	"github.com/leituraapp/leitura-server/internal/store"
)

// AuthService handles registration, login, and token refresh.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store *store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, logger: logger}
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

// Register creates a new user account and logs them in.
func (s *AuthService) Register(ctx context.Context, username, email, password, userAgent string) (*TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		AvatarColor:  color.ForUser(userID),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
	)
	return s.issueTokens(ctx, user, userAgent)
}

// Login authenticates a user by username (or email) and password.
func (s *AuthService) Login(ctx context.Context, login, password, userAgent string) (*TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, login)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		user, err = s.store.GetUserByEmail(ctx, login)
	}
	if err != nil {
		// Indistinguishable from a bad password on purpose.
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	return s.issueTokens(ctx, user, userAgent)
}

// Refresh exchanges a valid refresh token for a new token pair.
// The old session is rotated out.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, userAgent string) (*TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := s.store.GetSessionByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, err
	}

	if sess.Expired(time.Now()) {
		_ = s.store.DeleteSession(ctx, sess.ID)
		return nil, domainerrors.TokenExpired("refresh token expired")
	}

	user, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteSession(ctx, sess.ID); err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}
	return s.issueTokens(ctx, user, userAgent)
}

// Logout revokes the session behind a refresh token. Unknown tokens are a
// no-op; logout must always succeed from the client's point of view.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sess, err := s.store.GetSessionByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.store.DeleteSession(ctx, sess.ID)
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *AuthService) VerifyAccessToken(token string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

// GetProfile returns a user's profile.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, userID)
}

// UpdateProfile updates a user's display name, bio, and avatar color.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, displayName, bio, avatarColor *string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if displayName != nil {
		user.DisplayName = *displayName
	}
	if bio != nil {
		user.Bio = *bio
	}
	if avatarColor != nil {
		user.AvatarColor = *avatarColor
	}
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// issueTokens creates an access token and a fresh refresh session.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, userAgent string) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := time.Now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: auth.HashRefreshToken(refreshToken),
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.RefreshTokenDuration()),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &TokenPair{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}
