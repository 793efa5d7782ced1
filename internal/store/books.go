package store

import (
	"context"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, external_id, title, author,
	cover_url, description, isbn, year_published, pages`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book
	var createdAt, updatedAt string

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
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

	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBook inserts a new book.
// Returns an already-exists error when the external ID is already known.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, external_id, title, author,
			cover_url, description, isbn, year_published, pages
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.ExternalID,
		book.Title,
		book.Author,
		book.CoverURL,
		book.Description,
		book.ISBN,
		book.YearPublished,
		book.Pages,
	)
	if isUniqueViolation(err) {
		return domainerrors.AlreadyExistsf("book with external ID %q already exists", book.ExternalID)
	}
	return err
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err != nil {
		return nil, notFound(err, "book")
	}
	return b, nil
}

// GetBookByExternalID retrieves a book by its catalog provider ID.
func (s *Store) GetBookByExternalID(ctx context.Context, externalID string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE external_id = ? AND external_id <> ''`, externalID)

	b, err := scanBook(row)
	if err != nil {
		return nil, notFound(err, "book")
	}
	return b, nil
}

// GetBookByTitleAuthor retrieves a book by exact title and author match.
// The oldest match wins when duplicates slipped in.
func (s *Store) GetBookByTitleAuthor(ctx context.Context, title, author string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE title = ? AND author = ?
		 ORDER BY created_at ASC LIMIT 1`, title, author)

	b, err := scanBook(row)
	if err != nil {
		return nil, notFound(err, "book")
	}
	return b, nil
}

// UpdateBook updates a book's metadata.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			updated_at = ?, title = ?, author = ?, cover_url = ?,
			description = ?, isbn = ?, year_published = ?, pages = ?
		WHERE id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		book.CoverURL,
		book.Description,
		book.ISBN,
		book.YearPublished,
		book.Pages,
		book.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("book not found")
	}
	return nil
}
