package store

import (
	"context"
	"strings"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, username, email,
	password_hash, display_name, bio, avatar_color`

// scanUser scans a row into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	var createdAt, updatedAt string

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&u.Bio,
		&u.AvatarColor,
	)
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user.
// Returns an already-exists error when the username or email is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, created_at, updated_at, username, username_lower, email, email_lower,
			password_hash, display_name, bio, avatar_color
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		user.Username,
		strings.ToLower(strings.TrimSpace(user.Username)),
		user.Email,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.PasswordHash,
		user.DisplayName,
		user.Bio,
		user.AvatarColor,
	)
	if isUniqueViolation(err) {
		return domainerrors.AlreadyExists("username or email is already taken")
	}
	return err
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username, case-insensitively.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	lower := strings.ToLower(strings.TrimSpace(username))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username_lower = ?`, lower)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	lower := strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, lower)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// UpdateUser updates a user's mutable profile fields.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?, display_name = ?, bio = ?, avatar_color = ?, password_hash = ?
		WHERE id = ?`,
		formatTime(user.UpdatedAt),
		user.DisplayName,
		user.Bio,
		user.AvatarColor,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("user not found")
	}
	return nil
}
