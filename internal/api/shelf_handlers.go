package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/domain"
	"github.com/leituraapp/leitura-server/internal/service"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listShelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf",
		Summary:     "List my shelf",
		Description: "Returns the user's shelf, optionally filtered by status",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToShelf",
		Method:      http.MethodPost,
		Path:        "/api/v1/shelf",
		Summary:     "Add book to shelf",
		Description: "Resolves the book and adds it to the user's shelf",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShelfEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf/{bookId}",
		Summary:     "Get shelf entry",
		Description: "Returns the user's shelf entry for one book",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShelfEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateShelfEntry",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shelf/{bookId}",
		Summary:     "Update shelf entry",
		Description: "Updates status, rating, or review for a shelved book",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateShelfEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromShelf",
		Method:      http.MethodDelete,
		Path:        "/api/v1/shelf/{bookId}",
		Summary:     "Remove book from shelf",
		Description: "Takes a book off the user's shelf",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromShelf)
}

// === DTOs ===

// BookResponse contains canonical book data in API responses.
type BookResponse struct {
	ID            string    `json:"id" doc:"Book ID"`
	ExternalID    string    `json:"external_id,omitempty" doc:"Catalog provider ID"`
	Title         string    `json:"title" doc:"Book title"`
	Author        string    `json:"author" doc:"Primary author"`
	CoverURL      string    `json:"cover_url,omitempty" doc:"Cover image URL"`
	Description   string    `json:"description,omitempty" doc:"Book description"`
	ISBN          string    `json:"isbn,omitempty" doc:"ISBN"`
	YearPublished int       `json:"year_published,omitempty" doc:"First publication year"`
	Pages         int       `json:"pages,omitempty" doc:"Page count"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation timestamp"`
}

// ShelfEntryResponse contains one shelf entry in API responses.
type ShelfEntryResponse struct {
	ID         string        `json:"id" doc:"Shelf entry ID"`
	Status     string        `json:"status" doc:"Shelf status: want, reading, read, or abandoned"`
	Rating     *int          `json:"rating,omitempty" doc:"Star rating 1-5"`
	Review     string        `json:"review,omitempty" doc:"Review text"`
	StartedAt  *time.Time    `json:"started_at,omitempty" doc:"When reading started"`
	FinishedAt *time.Time    `json:"finished_at,omitempty" doc:"When reading finished"`
	CreatedAt  time.Time     `json:"created_at" doc:"When the book was shelved"`
	Book       *BookResponse `json:"book,omitempty" doc:"The shelved book"`
}

// ListShelfInput contains shelf listing parameters.
type ListShelfInput struct {
	Status string `query:"status" enum:",want,reading,read,abandoned" doc:"Filter by status, empty for all"`
}

// ListShelfResponse contains a user's shelf.
type ListShelfResponse struct {
	Entries []ShelfEntryResponse `json:"entries" doc:"Shelf entries, newest first"`
}

// ListShelfOutput wraps the shelf listing for Huma.
type ListShelfOutput struct {
	Body ListShelfResponse
}

// AddToShelfRequest is the request body for shelving a book.
type AddToShelfRequest struct {
	Book   BookCandidateRequest `json:"book" doc:"Book to shelve"`
	Status string               `json:"status" validate:"required,oneof=want reading read abandoned" doc:"Initial shelf status"`
}

// AddToShelfInput wraps the add request for Huma.
type AddToShelfInput struct {
	Body AddToShelfRequest
}

// ShelfEntryOutput wraps a single shelf entry for Huma.
type ShelfEntryOutput struct {
	Body ShelfEntryResponse
}

// BookIDInput identifies a book in path parameters.
type BookIDInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
}

// UpdateShelfEntryRequest is the request body for shelf entry updates.
// Absent fields are left untouched.
type UpdateShelfEntryRequest struct {
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=want reading read abandoned" doc:"New shelf status"`
	Rating *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5" doc:"Star rating 1-5"`
	Review *string `json:"review,omitempty" validate:"omitempty,max=10000" doc:"Review text"`
}

// UpdateShelfEntryInput wraps the update request for Huma.
type UpdateShelfEntryInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
	Body   UpdateShelfEntryRequest
}

// === Handlers ===

func (s *Server) handleListShelf(ctx context.Context, input *ListShelfInput) (*ListShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Shelf.List(ctx, userID, domain.Status(input.Status))
	if err != nil {
		return nil, err
	}

	resp := ListShelfResponse{Entries: make([]ShelfEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, mapShelfEntryResponse(e))
	}
	return &ListShelfOutput{Body: resp}, nil
}

func (s *Server) handleAddToShelf(ctx context.Context, input *AddToShelfInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	entry, err := s.services.Shelf.Add(ctx, userID, candidateFromRequest(input.Body.Book), domain.Status(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: mapShelfEntryResponse(entry)}, nil
}

func (s *Server) handleGetShelfEntry(ctx context.Context, input *BookIDInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelf.Get(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: mapShelfEntryResponse(entry)}, nil
}

func (s *Server) handleUpdateShelfEntry(ctx context.Context, input *UpdateShelfEntryInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	update := service.ShelfUpdate{
		Rating: input.Body.Rating,
		Review: input.Body.Review,
	}
	if input.Body.Status != nil {
		status := domain.Status(*input.Body.Status)
		update.Status = &status
	}

	entry, err := s.services.Shelf.Update(ctx, userID, input.BookID, update)
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: mapShelfEntryResponse(entry)}, nil
}

func (s *Server) handleRemoveFromShelf(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.Remove(ctx, userID, input.BookID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book removed from shelf"}}, nil
}

// === Helpers ===

func mapBookResponse(b *domain.Book) *BookResponse {
	if b == nil {
		return nil
	}
	return &BookResponse{
		ID:            b.ID,
		ExternalID:    b.ExternalID,
		Title:         b.Title,
		Author:        b.Author,
		CoverURL:      b.CoverURL,
		Description:   b.Description,
		ISBN:          b.ISBN,
		YearPublished: b.YearPublished,
		Pages:         b.Pages,
		CreatedAt:     b.CreatedAt,
	}
}

func mapShelfEntryResponse(e *domain.ShelfEntry) ShelfEntryResponse {
	return ShelfEntryResponse{
		ID:         e.ID,
		Status:     string(e.Status),
		Rating:     e.Rating,
		Review:     e.Review,
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
		CreatedAt:  e.CreatedAt,
		Book:       mapBookResponse(e.Book),
	}
}
