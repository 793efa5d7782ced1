package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/metadata/googlebooks"
	"github.com/leituraapp/leitura-server/internal/metadata/openlibrary"
)

// Search kinds accepted by CatalogService.Search.
const (
	SearchAny    = ""
	SearchTitle  = "title"
	SearchAuthor = "author"
	SearchISBN   = "isbn"
)

// CatalogService searches external book catalogs.
type CatalogService struct {
	google  *googlebooks.Client
	openlib *openlibrary.Client
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(google *googlebooks.Client, openlib *openlibrary.Client, logger *slog.Logger) *CatalogService {
	return &CatalogService{google: google, openlib: openlib, logger: logger}
}

// Search queries both providers concurrently and merges results, Google
// Books first. One provider failing degrades the search instead of killing
// it; the search only errors when both providers fail.
func (s *CatalogService) Search(ctx context.Context, query, kind string) ([]domain.BookCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query cannot be empty")
	}

	var googleResults, openlibResults []domain.BookCandidate
	var googleErr, openlibErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		switch kind {
		case SearchTitle:
			googleResults, googleErr = s.google.SearchTitle(gctx, query)
		case SearchAuthor:
			googleResults, googleErr = s.google.SearchAuthor(gctx, query)
		case SearchISBN:
			googleResults, googleErr = s.google.SearchISBN(gctx, query)
		default:
			googleResults, googleErr = s.google.Search(gctx, query)
		}
		return nil
	})
	g.Go(func() error {
		// Open Library has no fielded search worth using here; free text
		// works well enough for all kinds except ISBN.
		if kind == SearchISBN {
			return nil
		}
		openlibResults, openlibErr = s.openlib.Search(gctx, query)
		return nil
	})
	// Provider errors are collected, not returned, so Wait never fails.
	_ = g.Wait()

	if googleErr != nil {
		s.logger.Warn("Google Books search failed", "error", googleErr)
	}
	if openlibErr != nil {
		s.logger.Warn("Open Library search failed", "error", openlibErr)
	}
	if googleErr != nil && (openlibErr != nil || kind == SearchISBN) {
		return nil, domainerrors.Unavailable("all catalog providers failed").WithCause(googleErr)
	}

	return mergeCandidates(googleResults, openlibResults), nil
}

// Lookup fetches full metadata for a Google Books volume ID.
func (s *CatalogService) Lookup(ctx context.Context, volumeID string) (domain.BookCandidate, error) {
	if err := ctx.Err(); err != nil {
		return domain.BookCandidate{}, err
	}
	return s.google.GetVolume(ctx, volumeID)
}

// mergeCandidates concatenates provider results, dropping Open Library
// entries whose title and author duplicate a Google Books result.
func mergeCandidates(google, openlib []domain.BookCandidate) []domain.BookCandidate {
	seen := make(map[string]struct{}, len(google))
	key := func(c domain.BookCandidate) string {
		return strings.ToLower(c.Title) + "\x00" + strings.ToLower(c.Author)
	}

	merged := make([]domain.BookCandidate, 0, len(google)+len(openlib))
	for _, c := range google {
		seen[key(c)] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range openlib {
		if _, dup := seen[key(c)]; dup {
			continue
		}
		merged = append(merged, c)
	}
	return merged
}
