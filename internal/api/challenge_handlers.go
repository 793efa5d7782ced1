package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/domain"
	"github.com/leituraapp/leitura-server/internal/service"
)

func (s *Server) registerChallengeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createChallenge",
		Method:      http.MethodPost,
		Path:        "/api/v1/challenges",
		Summary:     "Create bingo challenge",
		Description: "Creates a 5x5 bingo reading challenge",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateChallenge)

	huma.Register(s.api, huma.Operation{
		OperationID: "listChallenges",
		Method:      http.MethodGet,
		Path:        "/api/v1/challenges",
		Summary:     "List challenges",
		Description: "Returns challenges, filtered by club when given",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListChallenges)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChallenge",
		Method:      http.MethodGet,
		Path:        "/api/v1/challenges/{id}",
		Summary:     "Get challenge",
		Description: "Returns a challenge with the caller's bingo board",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetChallenge)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeChallengeCell",
		Method:      http.MethodPut,
		Path:        "/api/v1/challenges/{id}/cells/{index}",
		Summary:     "Complete bingo cell",
		Description: "Marks a board cell done, optionally recording the book",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCompleteChallengeCell)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearChallengeCell",
		Method:      http.MethodDelete,
		Path:        "/api/v1/challenges/{id}/cells/{index}",
		Summary:     "Clear bingo cell",
		Description: "Reverts a board cell. The free cell cannot be cleared",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearChallengeCell)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChallengeLeaderboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/challenges/{id}/leaderboard",
		Summary:     "Challenge leaderboard",
		Description: "Returns all participants' boards, finishers first",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChallengeLeaderboard)
}

// === DTOs ===

// CreateChallengeRequest is the request body for creating a challenge.
type CreateChallengeRequest struct {
	ClubID      string    `json:"club_id,omitempty" doc:"Club to attach the challenge to, empty for standalone"`
	Title       string    `json:"title" validate:"required,min=1,max=200" doc:"Challenge title"`
	Description string    `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Challenge description"`
	Prompts     []string  `json:"prompts" validate:"required,len=25,dive,required,max=200" doc:"25 cell prompts in row-major order"`
	StartsAt    time.Time `json:"starts_at" doc:"When the challenge opens"`
	EndsAt      time.Time `json:"ends_at" doc:"When the challenge closes"`
}

// CreateChallengeInput wraps the create request for Huma.
type CreateChallengeInput struct {
	Body CreateChallengeRequest
}

// ChallengeResponse contains challenge data in API responses.
type ChallengeResponse struct {
	ID          string    `json:"id" doc:"Challenge ID"`
	ClubID      string    `json:"club_id,omitempty" doc:"Owning club, empty for standalone"`
	CreatedBy   string    `json:"created_by" doc:"Creator user ID"`
	Title       string    `json:"title" doc:"Challenge title"`
	Description string    `json:"description,omitempty" doc:"Challenge description"`
	Prompts     []string  `json:"prompts" doc:"25 cell prompts in row-major order"`
	StartsAt    time.Time `json:"starts_at" doc:"When the challenge opens"`
	EndsAt      time.Time `json:"ends_at" doc:"When the challenge closes"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
}

// ChallengeOutput wraps a challenge for Huma.
type ChallengeOutput struct {
	Body ChallengeResponse
}

// ListChallengesInput contains challenge listing parameters.
type ListChallengesInput struct {
	ClubID string `query:"club_id" doc:"Filter by club, empty for standalone challenges"`
}

// ListChallengesResponse contains a challenge listing.
type ListChallengesResponse struct {
	Challenges []ChallengeResponse `json:"challenges" doc:"Challenges, newest first"`
}

// ListChallengesOutput wraps the listing for Huma.
type ListChallengesOutput struct {
	Body ListChallengesResponse
}

// ChallengeIDInput identifies a challenge in path parameters.
type ChallengeIDInput struct {
	ID string `path:"id" doc:"Challenge ID"`
}

// BingoCellResponse contains one board cell.
type BingoCellResponse struct {
	Completed bool   `json:"completed" doc:"Whether the cell is done"`
	BookID    string `json:"book_id,omitempty" doc:"Book used for this cell"`
	BookTitle string `json:"book_title,omitempty" doc:"Title of the book used"`
}

// BoardResponse contains a participant's bingo board.
type BoardResponse struct {
	UserID      string              `json:"user_id" doc:"Board owner"`
	Cells       []BingoCellResponse `json:"cells" doc:"25 cells in row-major order"`
	Completed   bool                `json:"completed" doc:"Whether the board has a bingo"`
	CompletedAt *time.Time          `json:"completed_at,omitempty" doc:"When the first bingo landed"`
	UpdatedAt   time.Time           `json:"updated_at" doc:"Last board change"`
}

// ChallengeDetailResponse pairs a challenge with the caller's board.
type ChallengeDetailResponse struct {
	Challenge ChallengeResponse `json:"challenge" doc:"The challenge"`
	Board     BoardResponse     `json:"board" doc:"The caller's board"`
}

// ChallengeDetailOutput wraps the detail response for Huma.
type ChallengeDetailOutput struct {
	Body ChallengeDetailResponse
}

// CompleteCellRequest is the request body for completing a cell.
type CompleteCellRequest struct {
	BookID    string `json:"book_id,omitempty" validate:"omitempty,max=100" doc:"Book used for this cell"`
	BookTitle string `json:"book_title,omitempty" validate:"omitempty,max=500" doc:"Title of the book used"`
}

// CompleteCellInput wraps the complete request for Huma.
type CompleteCellInput struct {
	ID    string `path:"id" doc:"Challenge ID"`
	Index int    `path:"index" minimum:"0" maximum:"24" doc:"Cell index 0-24, row-major"`
	Body  CompleteCellRequest
}

// ClearCellInput identifies a cell to clear.
type ClearCellInput struct {
	ID    string `path:"id" doc:"Challenge ID"`
	Index int    `path:"index" minimum:"0" maximum:"24" doc:"Cell index 0-24, row-major"`
}

// BoardOutput wraps a single board for Huma.
type BoardOutput struct {
	Body BoardResponse
}

// LeaderboardResponse contains all boards for a challenge.
type LeaderboardResponse struct {
	Boards []BoardResponse `json:"boards" doc:"Participant boards, finishers first"`
}

// LeaderboardOutput wraps the leaderboard for Huma.
type LeaderboardOutput struct {
	Body LeaderboardResponse
}

// === Handlers ===

func (s *Server) handleCreateChallenge(ctx context.Context, input *CreateChallengeInput) (*ChallengeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	challenge, err := s.services.Challenge.Create(ctx, userID, service.CreateChallengeInput{
		ClubID:      input.Body.ClubID,
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Prompts:     input.Body.Prompts,
		StartsAt:    input.Body.StartsAt,
		EndsAt:      input.Body.EndsAt,
	})
	if err != nil {
		return nil, err
	}
	return &ChallengeOutput{Body: mapChallengeResponse(challenge)}, nil
}

func (s *Server) handleListChallenges(ctx context.Context, input *ListChallengesInput) (*ListChallengesOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	challenges, err := s.services.Challenge.List(ctx, input.ClubID)
	if err != nil {
		return nil, err
	}

	resp := ListChallengesResponse{Challenges: make([]ChallengeResponse, 0, len(challenges))}
	for _, c := range challenges {
		resp.Challenges = append(resp.Challenges, mapChallengeResponse(c))
	}
	return &ListChallengesOutput{Body: resp}, nil
}

func (s *Server) handleGetChallenge(ctx context.Context, input *ChallengeIDInput) (*ChallengeDetailOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	challenge, progress, err := s.services.Challenge.Get(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	return &ChallengeDetailOutput{Body: ChallengeDetailResponse{
		Challenge: mapChallengeResponse(challenge),
		Board:     mapBoardResponse(progress),
	}}, nil
}

func (s *Server) handleCompleteChallengeCell(ctx context.Context, input *CompleteCellInput) (*BoardOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	progress, err := s.services.Challenge.CompleteCell(ctx, input.ID, userID, input.Index, input.Body.BookID, input.Body.BookTitle)
	if err != nil {
		return nil, err
	}
	return &BoardOutput{Body: mapBoardResponse(progress)}, nil
}

func (s *Server) handleClearChallengeCell(ctx context.Context, input *ClearCellInput) (*BoardOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.services.Challenge.ClearCell(ctx, input.ID, userID, input.Index)
	if err != nil {
		return nil, err
	}
	return &BoardOutput{Body: mapBoardResponse(progress)}, nil
}

func (s *Server) handleChallengeLeaderboard(ctx context.Context, input *ChallengeIDInput) (*LeaderboardOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	boards, err := s.services.Challenge.Leaderboard(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := LeaderboardResponse{Boards: make([]BoardResponse, 0, len(boards))}
	for _, b := range boards {
		resp.Boards = append(resp.Boards, mapBoardResponse(b))
	}
	return &LeaderboardOutput{Body: resp}, nil
}

// === Helpers ===

func mapChallengeResponse(c *domain.Challenge) ChallengeResponse {
	return ChallengeResponse{
		ID:          c.ID,
		ClubID:      c.ClubID,
		CreatedBy:   c.CreatedBy,
		Title:       c.Title,
		Description: c.Description,
		Prompts:     c.Prompts,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
		CreatedAt:   c.CreatedAt,
	}
}

func mapBoardResponse(p *domain.ChallengeProgress) BoardResponse {
	cells := make([]BingoCellResponse, len(p.Cells))
	for i, cell := range p.Cells {
		cells[i] = BingoCellResponse{
			Completed: cell.Completed,
			BookID:    cell.BookID,
			BookTitle: cell.BookTitle,
		}
	}
	return BoardResponse{
		UserID:      p.UserID,
		Cells:       cells,
		Completed:   p.Completed,
		CompletedAt: p.CompletedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
