package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search book catalogs",
		Description: "Searches external book catalogs and merges the results",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "lookupVolume",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/volumes/{id}",
		Summary:     "Look up a catalog volume",
		Description: "Fetches full metadata for a Google Books volume",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLookupVolume)
}

// === DTOs ===

// SearchCatalogInput contains catalog search parameters.
type SearchCatalogInput struct {
	Query string `query:"q" required:"true" doc:"Search query"`
	Kind  string `query:"kind" enum:",title,author,isbn" doc:"Fielded search kind, empty for free text"`
}

// BookCandidateResponse is one catalog search result.
type BookCandidateResponse struct {
	ExternalID    string `json:"external_id,omitempty" doc:"Provider volume ID, when available"`
	Title         string `json:"title" doc:"Book title"`
	Author        string `json:"author" doc:"Primary author"`
	CoverURL      string `json:"cover_url,omitempty" doc:"Cover image URL"`
	Description   string `json:"description,omitempty" doc:"Book description"`
	ISBN          string `json:"isbn,omitempty" doc:"ISBN, 13-digit preferred"`
	YearPublished int    `json:"year_published,omitempty" doc:"First publication year"`
	Pages         int    `json:"pages,omitempty" doc:"Page count"`
}

// SearchCatalogResponse contains catalog search results.
type SearchCatalogResponse struct {
	Results []BookCandidateResponse `json:"results" doc:"Merged search results"`
}

// SearchCatalogOutput wraps the search response for Huma.
type SearchCatalogOutput struct {
	Body SearchCatalogResponse
}

// LookupVolumeInput contains parameters for a volume lookup.
type LookupVolumeInput struct {
	ID string `path:"id" doc:"Google Books volume ID"`
}

// LookupVolumeOutput wraps a single candidate for Huma.
type LookupVolumeOutput struct {
	Body BookCandidateResponse
}

// === Handlers ===

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	candidates, err := s.services.Catalog.Search(ctx, input.Query, input.Kind)
	if err != nil {
		return nil, err
	}

	results := make([]BookCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, mapCandidateResponse(c))
	}
	return &SearchCatalogOutput{Body: SearchCatalogResponse{Results: results}}, nil
}

func (s *Server) handleLookupVolume(ctx context.Context, input *LookupVolumeInput) (*LookupVolumeOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	candidate, err := s.services.Catalog.Lookup(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LookupVolumeOutput{Body: mapCandidateResponse(candidate)}, nil
}

// === Helpers ===

func mapCandidateResponse(c domain.BookCandidate) BookCandidateResponse {
	return BookCandidateResponse{
		ExternalID:    c.ExternalID,
		Title:         c.Title,
		Author:        c.Author,
		CoverURL:      c.CoverURL,
		Description:   c.Description,
		ISBN:          c.ISBN,
		YearPublished: c.YearPublished,
		Pages:         c.Pages,
	}
}

func candidateFromRequest(req BookCandidateRequest) domain.BookCandidate {
	return domain.BookCandidate{
		ExternalID:    req.ExternalID,
		Title:         req.Title,
		Author:        req.Author,
		CoverURL:      req.CoverURL,
		Description:   req.Description,
		ISBN:          req.ISBN,
		YearPublished: req.YearPublished,
		Pages:         req.Pages,
	}
}

// BookCandidateRequest carries book metadata in write requests. It feeds the
// resolver, so either a catalog result or hand-typed details work.
type BookCandidateRequest struct {
	ExternalID    string `json:"external_id,omitempty" validate:"omitempty,max=100" doc:"Provider volume ID from catalog search"`
	Title         string `json:"title" validate:"required,min=1,max=500" doc:"Book title"`
	Author        string `json:"author,omitempty" validate:"omitempty,max=500" doc:"Primary author"`
	CoverURL      string `json:"cover_url,omitempty" validate:"omitempty,url,max=2000" doc:"Cover image URL"`
	Description   string `json:"description,omitempty" validate:"omitempty,max=10000" doc:"Book description"`
	ISBN          string `json:"isbn,omitempty" validate:"omitempty,max=17" doc:"ISBN"`
	YearPublished int    `json:"year_published,omitempty" validate:"omitempty,gte=0" doc:"First publication year"`
	Pages         int    `json:"pages,omitempty" validate:"omitempty,gte=0" doc:"Page count"`
}
