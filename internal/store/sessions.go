package store

import (
	"context"
	"time"

	"github.com/leituraapp/leitura-server/internal/domain"
)

const sessionColumns = `id, user_id, token_hash, user_agent, created_at, expires_at`

func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session
	var createdAt, expiresAt string

	err := scanner.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.TokenHash,
		&sess.UserAgent,
		&createdAt,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

// CreateSession inserts a new refresh token session.
func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, user_agent, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.UserID,
		sess.TokenHash,
		sess.UserAgent,
		formatTime(sess.CreatedAt),
		formatTime(sess.ExpiresAt),
	)
	return err
}

// GetSessionByTokenHash retrieves a session by refresh token hash.
func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token_hash = ?`, tokenHash)

	sess, err := scanSession(row)
	if err != nil {
		return nil, notFound(err, "session")
	}
	return sess, nil
}

// DeleteSession removes a session by ID.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteUserSessions removes all of a user's sessions.
func (s *Store) DeleteUserSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry. Returns the
// number of sessions removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
