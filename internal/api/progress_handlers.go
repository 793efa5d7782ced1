package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/domain"
	"github.com/leituraapp/leitura-server/internal/service"
)

func (s *Server) registerProgressRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "logProgress",
		Method:      http.MethodPost,
		Path:        "/api/v1/progress",
		Summary:     "Log reading progress",
		Description: "Records a reading session for a shelved book",
		Tags:        []string{"Progress"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "listProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/progress",
		Summary:     "List progress entries",
		Description: "Returns the user's progress log, optionally for one book",
		Tags:        []string{"Progress"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProgress",
		Method:      http.MethodDelete,
		Path:        "/api/v1/progress/{id}",
		Summary:     "Delete progress entry",
		Description: "Removes one of the user's progress entries",
		Tags:        []string{"Progress"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStreak",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/streak",
		Summary:     "Get reading streak",
		Description: "Returns the user's current and longest reading streaks",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStreak)

	huma.Register(s.api, huma.Operation{
		OperationID: "getYearStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/years/{year}",
		Summary:     "Get yearly stats",
		Description: "Returns aggregated reading statistics for one year",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetYearStats)
}

// === DTOs ===

// LogProgressRequest is the request body for recording a reading session.
type LogProgressRequest struct {
	BookID      string `json:"book_id" validate:"required" doc:"Shelved book ID"`
	ReadingDate string `json:"reading_date,omitempty" validate:"omitempty,len=10" doc:"Reading date YYYY-MM-DD, defaults to today"`
	PagesRead   int    `json:"pages_read,omitempty" validate:"omitempty,gte=0" doc:"Pages read this session"`
	MinutesRead int    `json:"minutes_read,omitempty" validate:"omitempty,gte=0" doc:"Minutes read this session"`
	CurrentPage int    `json:"current_page,omitempty" validate:"omitempty,gte=0" doc:"Page reached"`
	Note        string `json:"note,omitempty" validate:"omitempty,max=2000" doc:"Session note"`
}

// LogProgressInput wraps the log request for Huma.
type LogProgressInput struct {
	Body LogProgressRequest
}

// ProgressEntryResponse contains one progress entry in API responses.
type ProgressEntryResponse struct {
	ID          string    `json:"id" doc:"Progress entry ID"`
	BookID      string    `json:"book_id" doc:"Book ID"`
	ReadingDate string    `json:"reading_date" doc:"Reading date YYYY-MM-DD"`
	PagesRead   int       `json:"pages_read" doc:"Pages read"`
	MinutesRead int       `json:"minutes_read" doc:"Minutes read"`
	CurrentPage int       `json:"current_page" doc:"Page reached"`
	Note        string    `json:"note,omitempty" doc:"Session note"`
	CreatedAt   time.Time `json:"created_at" doc:"When the entry was logged"`
}

// ProgressEntryOutput wraps one progress entry for Huma.
type ProgressEntryOutput struct {
	Body ProgressEntryResponse
}

// ListProgressInput contains progress listing parameters.
type ListProgressInput struct {
	BookID string `query:"book_id" doc:"Limit to one book, empty for all"`
}

// ListProgressResponse contains a user's progress log.
type ListProgressResponse struct {
	Entries []ProgressEntryResponse `json:"entries" doc:"Progress entries, newest first"`
}

// ListProgressOutput wraps the progress listing for Huma.
type ListProgressOutput struct {
	Body ListProgressResponse
}

// ProgressIDInput identifies a progress entry in path parameters.
type ProgressIDInput struct {
	ID string `path:"id" doc:"Progress entry ID"`
}

// StreakResponse contains reading streak data.
type StreakResponse struct {
	Current     int    `json:"current" doc:"Current streak in days"`
	Longest     int    `json:"longest" doc:"Longest streak in days"`
	LastReadDay string `json:"last_read_day,omitempty" doc:"Most recent reading date YYYY-MM-DD"`
}

// StreakOutput wraps the streak response for Huma.
type StreakOutput struct {
	Body StreakResponse
}

// YearStatsInput identifies the year in path parameters.
type YearStatsInput struct {
	Year int `path:"year" minimum:"1000" maximum:"9999" doc:"Calendar year"`
}

// YearStatsResponse contains aggregated yearly reading statistics.
type YearStatsResponse struct {
	Year             int     `json:"year" doc:"Calendar year"`
	BooksRead        int     `json:"books_read" doc:"Books finished this year"`
	TotalPages       int     `json:"total_pages" doc:"Combined page count of books finished this year"`
	TotalPagesLogged int     `json:"total_pages_logged" doc:"Pages recorded in reading sessions this year"`
	TotalMinutes     int     `json:"total_minutes" doc:"Minutes read this year"`
	ReadingDays      int     `json:"reading_days" doc:"Distinct days with logged reading"`
	AverageRating    float64 `json:"average_rating" doc:"Average rating over rated finished books"`
	MonthlyBooks     [12]int `json:"monthly_books" doc:"Books finished per month, January first"`
}

// YearStatsOutput wraps the yearly stats for Huma.
type YearStatsOutput struct {
	Body YearStatsResponse
}

// === Handlers ===

func (s *Server) handleLogProgress(ctx context.Context, input *LogProgressInput) (*ProgressEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	entry, err := s.services.Progress.Log(ctx, userID, service.LogInput{
		BookID:      input.Body.BookID,
		ReadingDate: input.Body.ReadingDate,
		PagesRead:   input.Body.PagesRead,
		MinutesRead: input.Body.MinutesRead,
		CurrentPage: input.Body.CurrentPage,
		Note:        input.Body.Note,
	})
	if err != nil {
		return nil, err
	}
	return &ProgressEntryOutput{Body: mapProgressEntryResponse(entry)}, nil
}

func (s *Server) handleListProgress(ctx context.Context, input *ListProgressInput) (*ListProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Progress.List(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}

	resp := ListProgressResponse{Entries: make([]ProgressEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, mapProgressEntryResponse(e))
	}
	return &ListProgressOutput{Body: resp}, nil
}

func (s *Server) handleDeleteProgress(ctx context.Context, input *ProgressIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Progress.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Progress entry deleted"}}, nil
}

func (s *Server) handleGetStreak(ctx context.Context, _ *struct{}) (*StreakOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	streak, err := s.services.Progress.Streak(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StreakOutput{Body: StreakResponse{
		Current:     streak.Current,
		Longest:     streak.Longest,
		LastReadDay: streak.LastReadDay,
	}}, nil
}

func (s *Server) handleGetYearStats(ctx context.Context, input *YearStatsInput) (*YearStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Progress.YearStats(ctx, userID, input.Year)
	if err != nil {
		return nil, err
	}
	return &YearStatsOutput{Body: YearStatsResponse{
		Year:             stats.Year,
		BooksRead:        stats.BooksRead,
		TotalPages:       stats.TotalPages,
		TotalPagesLogged: stats.TotalPagesLogged,
		TotalMinutes:     stats.TotalMinutes,
		ReadingDays:      stats.ReadingDays,
		AverageRating:    stats.AverageRating,
		MonthlyBooks:     stats.MonthlyBooks,
	}}, nil
}

// === Helpers ===

func mapProgressEntryResponse(e *domain.ProgressEntry) ProgressEntryResponse {
	return ProgressEntryResponse{
		ID:          e.ID,
		BookID:      e.BookID,
		ReadingDate: e.ReadingDate,
		PagesRead:   e.PagesRead,
		MinutesRead: e.MinutesRead,
		CurrentPage: e.CurrentPage,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}
