package store

import (
	"context"

	"github.com/leituraapp/leitura-server/internal/domain"
)

const goalColumns = `id, user_id, year, target_books, created_at, updated_at`

func scanGoal(scanner interface{ Scan(dest ...any) error }) (*domain.Goal, error) {
	var g domain.Goal
	var createdAt, updatedAt string

	err := scanner.Scan(
		&g.ID,
		&g.UserID,
		&g.Year,
		&g.TargetBooks,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertGoal inserts or updates a user's goal for a year. A second upsert for
// the same (user, year) replaces the target, keeping the original row ID.
func (s *Store) UpsertGoal(ctx context.Context, g *domain.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, year, target_books, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, year) DO UPDATE SET
			target_books = excluded.target_books,
			updated_at = excluded.updated_at`,
		g.ID,
		g.UserID,
		g.Year,
		g.TargetBooks,
		formatTime(g.CreatedAt),
		formatTime(g.UpdatedAt),
	)
	return err
}

// GetGoal retrieves a user's goal for a year.
func (s *Store) GetGoal(ctx context.Context, userID string, year int) (*domain.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? AND year = ?`, userID, year)

	g, err := scanGoal(row)
	if err != nil {
		return nil, notFound(err, "goal")
	}
	return g, nil
}

// ListGoals returns all of a user's goals, newest year first.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY year DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
