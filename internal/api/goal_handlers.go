package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/domain"
)

func (s *Server) registerGoalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "setGoal",
		Method:      http.MethodPut,
		Path:        "/api/v1/goals/{year}",
		Summary:     "Set yearly goal",
		Description: "Creates or replaces the user's reading goal for a year",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGoal",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals/{year}",
		Summary:     "Get yearly goal",
		Description: "Returns the user's goal for a year with progress",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGoals",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals",
		Summary:     "List goals",
		Description: "Returns all the user's goals with progress, newest first",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGoals)
}

// === DTOs ===

// SetGoalRequest is the request body for setting a yearly goal.
type SetGoalRequest struct {
	TargetBooks int `json:"target_books" validate:"required,gte=1,lte=10000" doc:"Books to read this year"`
}

// SetGoalInput wraps the set goal request for Huma.
type SetGoalInput struct {
	Year int `path:"year" minimum:"1000" maximum:"9999" doc:"Calendar year"`
	Body SetGoalRequest
}

// GoalYearInput identifies a goal year in path parameters.
type GoalYearInput struct {
	Year int `path:"year" minimum:"1000" maximum:"9999" doc:"Calendar year"`
}

// GoalResponse contains a goal with progress in API responses.
type GoalResponse struct {
	ID          string  `json:"id" doc:"Goal ID"`
	Year        int     `json:"year" doc:"Calendar year"`
	TargetBooks int     `json:"target_books" doc:"Books to read"`
	BooksRead   int     `json:"books_read" doc:"Books finished so far"`
	Percent     float64 `json:"percent" doc:"Progress percentage, capped at 100"`
	Completed   bool    `json:"completed" doc:"Whether the goal is met"`
}

// GoalOutput wraps a single goal for Huma.
type GoalOutput struct {
	Body GoalResponse
}

// ListGoalsResponse contains all the user's goals.
type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals" doc:"Goals with progress, newest first"`
}

// ListGoalsOutput wraps the goals listing for Huma.
type ListGoalsOutput struct {
	Body ListGoalsResponse
}

// === Handlers ===

func (s *Server) handleSetGoal(ctx context.Context, input *SetGoalInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	if _, err := s.services.Goal.Set(ctx, userID, input.Year, input.Body.TargetBooks); err != nil {
		return nil, err
	}

	progress, err := s.services.Goal.Get(ctx, userID, input.Year)
	if err != nil {
		return nil, err
	}
	return &GoalOutput{Body: mapGoalResponse(*progress)}, nil
}

func (s *Server) handleGetGoal(ctx context.Context, input *GoalYearInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.services.Goal.Get(ctx, userID, input.Year)
	if err != nil {
		return nil, err
	}
	return &GoalOutput{Body: mapGoalResponse(*progress)}, nil
}

func (s *Server) handleListGoals(ctx context.Context, _ *struct{}) (*ListGoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goals, err := s.services.Goal.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ListGoalsResponse{Goals: make([]GoalResponse, 0, len(goals))}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, mapGoalResponse(g))
	}
	return &ListGoalsOutput{Body: resp}, nil
}

// === Helpers ===

func mapGoalResponse(p domain.GoalProgress) GoalResponse {
	return GoalResponse{
		ID:          p.Goal.ID,
		Year:        p.Goal.Year,
		TargetBooks: p.Goal.TargetBooks,
		BooksRead:   p.BooksRead,
		Percent:     p.Percent,
		Completed:   p.Completed,
	}
}
