package store

import (
	"context"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

const progressColumns = `id, user_id, book_id, reading_date, pages_read,
	minutes_read, current_page, note, created_at`

func scanProgressEntry(scanner interface{ Scan(dest ...any) error }) (*domain.ProgressEntry, error) {
	var p domain.ProgressEntry
	var createdAt string

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.BookID,
		&p.ReadingDate,
		&p.PagesRead,
		&p.MinutesRead,
		&p.CurrentPage,
		&p.Note,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProgressEntry inserts a reading session log.
func (s *Store) CreateProgressEntry(ctx context.Context, p *domain.ProgressEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress_entries (
			id, user_id, book_id, reading_date, pages_read,
			minutes_read, current_page, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		p.BookID,
		p.ReadingDate,
		p.PagesRead,
		p.MinutesRead,
		p.CurrentPage,
		p.Note,
		formatTime(p.CreatedAt),
	)
	return err
}

// ListProgress returns a user's progress entries, newest first.
// A non-empty bookID limits results to one book.
func (s *Store) ListProgress(ctx context.Context, userID, bookID string) ([]*domain.ProgressEntry, error) {
	query := `SELECT ` + progressColumns + ` FROM progress_entries WHERE user_id = ?`
	args := []any{userID}
	if bookID != "" {
		query += ` AND book_id = ?`
		args = append(args, bookID)
	}
	query += ` ORDER BY reading_date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ProgressEntry
	for rows.Next() {
		p, err := scanProgressEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, p)
	}
	return entries, rows.Err()
}

// ListReadingDates returns all of a user's reading dates, including
// duplicates, for streak computation.
func (s *Store) ListReadingDates(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reading_date FROM progress_entries WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// DeleteProgressEntry removes one of a user's progress entries.
func (s *Store) DeleteProgressEntry(ctx context.Context, userID, entryID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM progress_entries WHERE id = ? AND user_id = ?`, entryID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("progress entry not found")
	}
	return nil
}
