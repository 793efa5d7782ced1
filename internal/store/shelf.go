package store

import (
	"context"
	"database/sql"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

const shelfColumns = `ub.id, ub.user_id, ub.book_id, ub.status, ub.rating, ub.review,
	ub.started_at, ub.finished_at, ub.created_at, ub.updated_at`

func scanShelfEntry(scanner interface{ Scan(dest ...any) error }) (*domain.ShelfEntry, error) {
	var e domain.ShelfEntry
	var rating sql.NullInt64
	var startedAt, finishedAt sql.NullString
	var createdAt, updatedAt, status string

	err := scanner.Scan(
		&e.ID,
		&e.UserID,
		&e.BookID,
		&status,
		&rating,
		&e.Review,
		&startedAt,
		&finishedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Status = domain.Status(status)
	e.Rating = intPtr(rating)
	if e.StartedAt, err = parseNullableTime(startedAt); err != nil {
		return nil, err
	}
	if e.FinishedAt, err = parseNullableTime(finishedAt); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// scanShelfEntryWithBook scans a shelf row joined with its book columns.
func scanShelfEntryWithBook(scanner interface{ Scan(dest ...any) error }) (*domain.ShelfEntry, error) {
	var e domain.ShelfEntry
	var b domain.Book
	var rating sql.NullInt64
	var startedAt, finishedAt sql.NullString
	var createdAt, updatedAt, status string
	var bCreatedAt, bUpdatedAt string

	err := scanner.Scan(
		&e.ID,
		&e.UserID,
		&e.BookID,
		&status,
		&rating,
		&e.Review,
		&startedAt,
		&finishedAt,
		&createdAt,
		&updatedAt,
		&b.ID,
		&bCreatedAt,
		&bUpdatedAt,
		&b.ExternalID,
		&b.Title,
		&b.Author,
		&b.CoverURL,
		&b.Description,
		&b.ISBN,
		&b.YearPublished,
		&b.Pages,
	)
	if err != nil {
		return nil, err
	}

	e.Status = domain.Status(status)
	e.Rating = intPtr(rating)
	if e.StartedAt, err = parseNullableTime(startedAt); err != nil {
		return nil, err
	}
	if e.FinishedAt, err = parseNullableTime(finishedAt); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(bCreatedAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(bUpdatedAt); err != nil {
		return nil, err
	}
	e.Book = &b
	return &e, nil
}

// CreateShelfEntry inserts a new shelf entry.
// Returns an already-exists error when the book is already on the user's shelf.
func (s *Store) CreateShelfEntry(ctx context.Context, e *domain.ShelfEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_books (
			id, user_id, book_id, status, rating, review,
			started_at, finished_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.UserID,
		e.BookID,
		string(e.Status),
		nullInt(e.Rating),
		e.Review,
		nullTimeString(e.StartedAt),
		nullTimeString(e.FinishedAt),
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domainerrors.AlreadyExists("book is already on your shelf")
	}
	return err
}

// GetShelfEntry retrieves a user's shelf entry for a book.
func (s *Store) GetShelfEntry(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shelfColumns+` FROM user_books ub WHERE ub.user_id = ? AND ub.book_id = ?`,
		userID, bookID)

	e, err := scanShelfEntry(row)
	if err != nil {
		return nil, notFound(err, "shelf entry")
	}
	return e, nil
}

// ListShelf returns a user's shelf entries with books attached, newest first.
// An empty status returns the whole shelf.
func (s *Store) ListShelf(ctx context.Context, userID string, status domain.Status) ([]*domain.ShelfEntry, error) {
	query := `SELECT ` + shelfColumns + `, ` + bookColumnsPrefixed + `
		FROM user_books ub
		JOIN books b ON b.id = ub.book_id
		WHERE ub.user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND ub.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY ub.updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ShelfEntry
	for rows.Next() {
		e, err := scanShelfEntryWithBook(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// bookColumnsPrefixed mirrors bookColumns with the join alias.
const bookColumnsPrefixed = `b.id, b.created_at, b.updated_at, b.external_id, b.title, b.author,
	b.cover_url, b.description, b.isbn, b.year_published, b.pages`

// UpdateShelfEntry updates a shelf entry's status, rating, review and timeline.
func (s *Store) UpdateShelfEntry(ctx context.Context, e *domain.ShelfEntry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_books SET
			status = ?, rating = ?, review = ?, started_at = ?, finished_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		string(e.Status),
		nullInt(e.Rating),
		e.Review,
		nullTimeString(e.StartedAt),
		nullTimeString(e.FinishedAt),
		formatTime(e.UpdatedAt),
		e.ID,
		e.UserID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("shelf entry not found")
	}
	return nil
}

// DeleteShelfEntry removes a book from a user's shelf.
func (s *Store) DeleteShelfEntry(ctx context.Context, userID, bookID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_books WHERE user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("shelf entry not found")
	}
	return nil
}
