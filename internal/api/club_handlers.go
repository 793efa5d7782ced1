package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/domain"
)

func (s *Server) registerClubRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createClub",
		Method:      http.MethodPost,
		Path:        "/api/v1/clubs",
		Summary:     "Create club",
		Description: "Creates a reading club with the caller as owner",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateClub)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyClubs",
		Method:      http.MethodGet,
		Path:        "/api/v1/clubs",
		Summary:     "List my clubs",
		Description: "Returns the clubs the caller belongs to",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyClubs)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinClub",
		Method:      http.MethodPost,
		Path:        "/api/v1/clubs/join",
		Summary:     "Join club",
		Description: "Joins a club by invite code",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinClub)

	huma.Register(s.api, huma.Operation{
		OperationID: "getClub",
		Method:      http.MethodGet,
		Path:        "/api/v1/clubs/{id}",
		Summary:     "Get club",
		Description: "Returns a club. Members only",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetClub)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveClub",
		Method:      http.MethodDelete,
		Path:        "/api/v1/clubs/{id}/membership",
		Summary:     "Leave club",
		Description: "Leaves a club. The owner cannot leave",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLeaveClub)

	huma.Register(s.api, huma.Operation{
		OperationID: "listClubMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/clubs/{id}/members",
		Summary:     "List club members",
		Description: "Returns a club's member list. Members only",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListClubMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "startClubReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/clubs/{id}/readings",
		Summary:     "Start club reading",
		Description: "Begins a club reading. One active reading per club",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStartClubReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "finishClubReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/clubs/{id}/readings/finish",
		Summary:     "Finish club reading",
		Description: "Marks the club's active reading as finished",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFinishClubReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "listClubReadings",
		Method:      http.MethodGet,
		Path:        "/api/v1/clubs/{id}/readings",
		Summary:     "List club readings",
		Description: "Returns a club's reading history, newest first",
		Tags:        []string{"Clubs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListClubReadings)
}

// === DTOs ===

// CreateClubRequest is the request body for creating a club.
type CreateClubRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"Club name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Club description"`
	CoverURL    string `json:"cover_url,omitempty" validate:"omitempty,url,max=2000" doc:"Club cover image URL"`
}

// CreateClubInput wraps the create request for Huma.
type CreateClubInput struct {
	Body CreateClubRequest
}

// ClubResponse contains club data in API responses.
type ClubResponse struct {
	ID          string    `json:"id" doc:"Club ID"`
	Name        string    `json:"name" doc:"Club name"`
	Description string    `json:"description,omitempty" doc:"Club description"`
	CoverURL    string    `json:"cover_url,omitempty" doc:"Club cover image URL"`
	InviteCode  string    `json:"invite_code" doc:"Code for inviting new members"`
	CreatedBy   string    `json:"created_by" doc:"Owner user ID"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
}

// ClubOutput wraps a club for Huma.
type ClubOutput struct {
	Body ClubResponse
}

// ListClubsResponse contains the caller's clubs.
type ListClubsResponse struct {
	Clubs []ClubResponse `json:"clubs" doc:"Clubs the caller belongs to"`
}

// ListClubsOutput wraps the club listing for Huma.
type ListClubsOutput struct {
	Body ListClubsResponse
}

// JoinClubRequest is the request body for joining a club.
type JoinClubRequest struct {
	InviteCode string `json:"invite_code" validate:"required,max=20" doc:"Club invite code"`
}

// JoinClubInput wraps the join request for Huma.
type JoinClubInput struct {
	Body JoinClubRequest
}

// ClubIDInput identifies a club in path parameters.
type ClubIDInput struct {
	ID string `path:"id" doc:"Club ID"`
}

// ClubMemberResponse contains one club member.
type ClubMemberResponse struct {
	UserID      string    `json:"user_id" doc:"Member user ID"`
	Username    string    `json:"username" doc:"Member username"`
	DisplayName string    `json:"display_name,omitempty" doc:"Member display name"`
	Role        string    `json:"role" doc:"Member role: owner or member"`
	JoinedAt    time.Time `json:"joined_at" doc:"When the member joined"`
}

// ListClubMembersResponse contains a club's member list.
type ListClubMembersResponse struct {
	Members []ClubMemberResponse `json:"members" doc:"Club members, owner first"`
}

// ListClubMembersOutput wraps the member listing for Huma.
type ListClubMembersOutput struct {
	Body ListClubMembersResponse
}

// StartReadingRequest is the request body for starting a club reading.
type StartReadingRequest struct {
	Book       BookCandidateRequest `json:"book" doc:"Book to read together"`
	TargetDate *time.Time           `json:"target_date,omitempty" doc:"Optional target finish date"`
}

// StartReadingInput wraps the start reading request for Huma.
type StartReadingInput struct {
	ID   string `path:"id" doc:"Club ID"`
	Body StartReadingRequest
}

// ClubReadingResponse contains one club reading.
type ClubReadingResponse struct {
	ID         string        `json:"id" doc:"Reading ID"`
	Status     string        `json:"status" doc:"Reading status: active or finished"`
	StartedAt  time.Time     `json:"started_at" doc:"When the reading started"`
	TargetDate *time.Time    `json:"target_date,omitempty" doc:"Target finish date"`
	FinishedAt *time.Time    `json:"finished_at,omitempty" doc:"When the reading finished"`
	Book       *BookResponse `json:"book,omitempty" doc:"The book being read"`
}

// ClubReadingOutput wraps a single reading for Huma.
type ClubReadingOutput struct {
	Body ClubReadingResponse
}

// ListClubReadingsResponse contains a club's reading history.
type ListClubReadingsResponse struct {
	Readings []ClubReadingResponse `json:"readings" doc:"Readings, newest first"`
}

// ListClubReadingsOutput wraps the reading history for Huma.
type ListClubReadingsOutput struct {
	Body ListClubReadingsResponse
}

// === Handlers ===

func (s *Server) handleCreateClub(ctx context.Context, input *CreateClubInput) (*ClubOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	club, err := s.services.Club.Create(ctx, userID, input.Body.Name, input.Body.Description, input.Body.CoverURL)
	if err != nil {
		return nil, err
	}
	return &ClubOutput{Body: mapClubResponse(club)}, nil
}

func (s *Server) handleListMyClubs(ctx context.Context, _ *struct{}) (*ListClubsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	clubs, err := s.services.Club.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ListClubsResponse{Clubs: make([]ClubResponse, 0, len(clubs))}
	for _, c := range clubs {
		resp.Clubs = append(resp.Clubs, mapClubResponse(c))
	}
	return &ListClubsOutput{Body: resp}, nil
}

func (s *Server) handleJoinClub(ctx context.Context, input *JoinClubInput) (*ClubOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	club, err := s.services.Club.Join(ctx, userID, input.Body.InviteCode)
	if err != nil {
		return nil, err
	}
	return &ClubOutput{Body: mapClubResponse(club)}, nil
}

func (s *Server) handleGetClub(ctx context.Context, input *ClubIDInput) (*ClubOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	club, err := s.services.Club.Get(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	return &ClubOutput{Body: mapClubResponse(club)}, nil
}

func (s *Server) handleLeaveClub(ctx context.Context, input *ClubIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Club.Leave(ctx, input.ID, userID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Left the club"}}, nil
}

func (s *Server) handleListClubMembers(ctx context.Context, input *ClubIDInput) (*ListClubMembersOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	members, err := s.services.Club.Members(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	resp := ListClubMembersResponse{Members: make([]ClubMemberResponse, 0, len(members))}
	for _, m := range members {
		resp.Members = append(resp.Members, ClubMemberResponse{
			UserID:      m.UserID,
			Username:    m.Username,
			DisplayName: m.DisplayName,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		})
	}
	return &ListClubMembersOutput{Body: resp}, nil
}

func (s *Server) handleStartClubReading(ctx context.Context, input *StartReadingInput) (*ClubReadingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body.Book); err != nil {
		return nil, err
	}

	reading, err := s.services.Club.StartReading(ctx, input.ID, userID, candidateFromRequest(input.Body.Book), input.Body.TargetDate)
	if err != nil {
		return nil, err
	}
	return &ClubReadingOutput{Body: mapClubReadingResponse(reading)}, nil
}

func (s *Server) handleFinishClubReading(ctx context.Context, input *ClubIDInput) (*ClubReadingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reading, err := s.services.Club.FinishReading(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	return &ClubReadingOutput{Body: mapClubReadingResponse(reading)}, nil
}

func (s *Server) handleListClubReadings(ctx context.Context, input *ClubIDInput) (*ListClubReadingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	readings, err := s.services.Club.Readings(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	resp := ListClubReadingsResponse{Readings: make([]ClubReadingResponse, 0, len(readings))}
	for _, r := range readings {
		resp.Readings = append(resp.Readings, mapClubReadingResponse(r))
	}
	return &ListClubReadingsOutput{Body: resp}, nil
}

// === Helpers ===

func mapClubResponse(c *domain.Club) ClubResponse {
	return ClubResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CoverURL:    c.CoverURL,
		InviteCode:  c.InviteCode,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}

func mapClubReadingResponse(r *domain.ClubReading) ClubReadingResponse {
	return ClubReadingResponse{
		ID:         r.ID,
		Status:     r.Status,
		StartedAt:  r.StartedAt,
		TargetDate: r.TargetDate,
		FinishedAt: r.FinishedAt,
		Book:       mapBookResponse(r.Book),
	}
}
