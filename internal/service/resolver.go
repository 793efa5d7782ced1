// Package service contains the business logic layer between the HTTP API and the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/id"
	"github.com/leituraapp/leitura-server/internal/store"
)

// ResolverService maps loosely-structured book metadata to canonical book
// records, creating them on first sight.
type ResolverService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewResolverService creates a new resolver service.
func NewResolverService(store *store.Store, logger *slog.Logger) *ResolverService {
	return &ResolverService{store: store, logger: logger}
}

// Resolve finds or creates the canonical book for a candidate.
//
// Matching is tiered: a provider external ID wins when present, then an exact
// (title, author) match, and only then is a new record created. Two users
// adding the same catalog result therefore converge on one book, while books
// typed in by hand only merge on an exact match. Near-duplicates from
// differing editions are accepted rather than guessed at.
func (s *ResolverService) Resolve(ctx context.Context, candidate domain.BookCandidate) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidate = candidate.Normalize()
	if !candidate.Valid() {
		return nil, domainerrors.Validation("book title cannot be empty")
	}

	if candidate.ExternalID != "" {
		book, err := s.store.GetBookByExternalID(ctx, candidate.ExternalID)
		if err == nil {
			return book, nil
		}
		if !domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, fmt.Errorf("lookup by external ID: %w", err)
		}
	}

	book, err := s.store.GetBookByTitleAuthor(ctx, candidate.Title, candidate.Author)
	if err == nil {
		return book, nil
	}
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return nil, fmt.Errorf("lookup by title and author: %w", err)
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book = &domain.Book{
		ID:            bookID,
		CreatedAt:     now,
		UpdatedAt:     now,
		ExternalID:    candidate.ExternalID,
		Title:         candidate.Title,
		Author:        candidate.Author,
		CoverURL:      candidate.CoverURL,
		Description:   candidate.Description,
		ISBN:          candidate.ISBN,
		YearPublished: candidate.YearPublished,
		Pages:         candidate.Pages,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		// Concurrent resolve of the same external ID: the other insert won.
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) && candidate.ExternalID != "" {
			return s.store.GetBookByExternalID(ctx, candidate.ExternalID)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", book.ID,
		"title", book.Title,
		"external_id", book.ExternalID,
	)
	return book, nil
}
