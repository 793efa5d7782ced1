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

// ProgressService logs reading sessions and derives stats and streaks.
type ProgressService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProgressService creates a new progress service.
func NewProgressService(store *store.Store, logger *slog.Logger) *ProgressService {
	return &ProgressService{store: store, logger: logger}
}

// LogInput describes a reading session to record.
type LogInput struct {
	BookID      string
	ReadingDate string // defaults to today when empty
	PagesRead   int
	MinutesRead int
	CurrentPage int
	Note        string
}

// Log records a reading session. The book must be on the user's shelf.
func (s *ProgressService) Log(ctx context.Context, userID string, in LogInput) (*domain.ProgressEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if in.ReadingDate == "" {
		in.ReadingDate = time.Now().Format(domain.DateLayout)
	}
	if !domain.ValidReadingDate(in.ReadingDate) {
		return nil, domainerrors.Validationf("invalid reading date %q, want YYYY-MM-DD", in.ReadingDate)
	}
	if in.PagesRead < 0 || in.MinutesRead < 0 || in.CurrentPage < 0 {
		return nil, domainerrors.Validation("pages and minutes cannot be negative")
	}

	if _, err := s.store.GetShelfEntry(ctx, userID, in.BookID); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Validation("book is not on your shelf")
		}
		return nil, err
	}

	entryID, err := id.Generate("prog")
	if err != nil {
		return nil, fmt.Errorf("generate progress entry ID: %w", err)
	}

	entry := &domain.ProgressEntry{
		ID:          entryID,
		UserID:      userID,
		BookID:      in.BookID,
		ReadingDate: in.ReadingDate,
		PagesRead:   in.PagesRead,
		MinutesRead: in.MinutesRead,
		CurrentPage: in.CurrentPage,
		Note:        in.Note,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateProgressEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create progress entry: %w", err)
	}
	return entry, nil
}

// List returns a user's progress log, optionally limited to one book.
func (s *ProgressService) List(ctx context.Context, userID, bookID string) ([]*domain.ProgressEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListProgress(ctx, userID, bookID)
}

// Delete removes one of the user's progress entries.
func (s *ProgressService) Delete(ctx context.Context, userID, entryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteProgressEntry(ctx, userID, entryID)
}

// Streak computes the user's reading streak from their full progress log.
// All inputs are read in one request so the result is a consistent snapshot.
func (s *ProgressService) Streak(ctx context.Context, userID string) (domain.Streak, error) {
	if err := ctx.Err(); err != nil {
		return domain.Streak{}, err
	}

	dates, err := s.store.ListReadingDates(ctx, userID)
	if err != nil {
		return domain.Streak{}, fmt.Errorf("list reading dates: %w", err)
	}
	return domain.ComputeStreak(dates, time.Now()), nil
}

// YearStats aggregates a user's reading activity for one year.
func (s *ProgressService) YearStats(ctx context.Context, userID string, year int) (domain.YearStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.YearStats{}, err
	}
	if year < 1000 || year > 9999 {
		return domain.YearStats{}, domainerrors.Validationf("invalid year %d", year)
	}

	shelf, err := s.store.ListShelf(ctx, userID, "")
	if err != nil {
		return domain.YearStats{}, fmt.Errorf("list shelf: %w", err)
	}
	progress, err := s.store.ListProgress(ctx, userID, "")
	if err != nil {
		return domain.YearStats{}, fmt.Errorf("list progress: %w", err)
	}

	entries := make([]domain.ShelfEntry, len(shelf))
	for i, e := range shelf {
		entries[i] = *e
	}
	values := make([]domain.ProgressEntry, len(progress))
	for i, p := range progress {
		values[i] = *p
	}
	return domain.AggregateYear(entries, values, year), nil
}
