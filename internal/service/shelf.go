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

// ShelfService manages users' shelves.
type ShelfService struct {
	store    *store.Store
	resolver *ResolverService
	logger   *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(store *store.Store, resolver *ResolverService, logger *slog.Logger) *ShelfService {
	return &ShelfService{store: store, resolver: resolver, logger: logger}
}

// ShelfUpdate holds optional changes to a shelf entry. Nil fields are left
// untouched.
type ShelfUpdate struct {
	Status *domain.Status
	Rating *int
	Review *string
}

// Add resolves a candidate to a canonical book and puts it on the user's
// shelf with the given status.
func (s *ShelfService) Add(ctx context.Context, userID string, candidate domain.BookCandidate, status domain.Status) (*domain.ShelfEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, domainerrors.Validationf("invalid shelf status %q", status)
	}

	book, err := s.resolver.Resolve(ctx, candidate)
	if err != nil {
		return nil, err
	}

	entryID, err := id.Generate("shelf")
	if err != nil {
		return nil, fmt.Errorf("generate shelf entry ID: %w", err)
	}

	now := time.Now()
	entry := &domain.ShelfEntry{
		ID:        entryID,
		UserID:    userID,
		BookID:    book.ID,
		CreatedAt: now,
	}
	entry.SetStatus(status, now)

	if err := s.store.CreateShelfEntry(ctx, entry); err != nil {
		return nil, err
	}
	entry.Book = book

	s.logger.Info("book shelved",
		"user_id", userID,
		"book_id", book.ID,
		"status", status,
	)
	return entry, nil
}

// Update applies status, rating, or review changes to a shelf entry.
// Status transitions stamp the reading timeline.
func (s *ShelfService) Update(ctx context.Context, userID, bookID string, update ShelfUpdate) (*domain.ShelfEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := s.store.GetShelfEntry(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, domainerrors.Validationf("invalid shelf status %q", *update.Status)
		}
		entry.SetStatus(*update.Status, now)
	}
	if update.Rating != nil {
		if !domain.ValidRating(*update.Rating) {
			return nil, domainerrors.Validation("rating must be between 1 and 5")
		}
		entry.Rating = update.Rating
	}
	if update.Review != nil {
		entry.Review = *update.Review
	}
	entry.UpdatedAt = now

	if err := s.store.UpdateShelfEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove takes a book off the user's shelf.
func (s *ShelfService) Remove(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteShelfEntry(ctx, userID, bookID)
}

// List returns the user's shelf, optionally filtered by status.
func (s *ShelfService) List(ctx context.Context, userID string, status domain.Status) ([]*domain.ShelfEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, domainerrors.Validationf("invalid shelf status %q", status)
	}
	return s.store.ListShelf(ctx, userID, status)
}

// Get returns a user's shelf entry for one book, with the book attached.
func (s *ShelfService) Get(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := s.store.GetShelfEntry(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	entry.Book = book
	return entry, nil
}
