package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/goodreads"
	"github.com/leituraapp/leitura-server/internal/id"
	"github.com/leituraapp/leitura-server/internal/store"
)

// ImportService brings library exports from other services onto a shelf.
type ImportService struct {
	store    *store.Store
	resolver *ResolverService
	logger   *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(store *store.Store, resolver *ResolverService, logger *slog.Logger) *ImportService {
	return &ImportService{store: store, resolver: resolver, logger: logger}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// ImportError records why a single row could not be imported.
type ImportError struct {
	Line  int    `json:"line"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// ImportGoodreads reads a Goodreads export CSV and shelves every book in it.
// Books already on the shelf are skipped rather than overwritten, so a
// re-import never clobbers local ratings or timeline stamps. Rows are
// processed in file order and a bad row fails alone.
func (s *ImportService) ImportGoodreads(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := goodreads.Parse(r)
	if err != nil {
		return nil, domainerrors.Validationf("parse export: %v", err)
	}

	result := &ImportResult{}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.importRow(ctx, userID, row); err != nil {
			if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
				result.Skipped++
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Line:  row.LineNumber,
				Title: row.Title,
				Error: err.Error(),
			})
			continue
		}
		result.Imported++
	}

	s.logger.Info("goodreads import finished",
		"user_id", userID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, userID string, row goodreads.Row) error {
	book, err := s.resolver.Resolve(ctx, row.Candidate())
	if err != nil {
		return err
	}

	if _, err := s.store.GetShelfEntry(ctx, userID, book.ID); err == nil {
		return domainerrors.AlreadyExists("already on shelf")
	} else if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return err
	}

	entryID, err := id.Generate("shelf")
	if err != nil {
		return fmt.Errorf("generate shelf entry ID: %w", err)
	}

	now := time.Now()
	entry := &domain.ShelfEntry{
		ID:        entryID,
		UserID:    userID,
		BookID:    book.ID,
		Rating:    row.Rating,
		CreatedAt: now,
	}
	entry.SetStatus(row.Status, now)

	// The export's own dates beat our stamps where present.
	if row.DateRead != nil && row.Status == domain.StatusRead {
		entry.FinishedAt = row.DateRead
	}
	if row.DateAdded != nil {
		entry.CreatedAt = *row.DateAdded
	}
	entry.UpdatedAt = now

	return s.store.CreateShelfEntry(ctx, entry)
}
