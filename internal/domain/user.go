package domain

import "time"

// User represents a registered reader.
type User struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	AvatarColor  string    `json:"avatar_color,omitempty"`
}

// Session represents a refresh token session for a user. The token itself is
// stored hashed; only the hash ever touches the database.
type Session struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
