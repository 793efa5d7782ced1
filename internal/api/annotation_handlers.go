package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/domain"
	"github.com/leituraapp/leitura-server/internal/service"
)

func (s *Server) registerAnnotationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createAnnotation",
		Method:      http.MethodPost,
		Path:        "/api/v1/annotations",
		Summary:     "Create annotation",
		Description: "Records a note on a book, private or shared with a club",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAnnotations",
		Method:      http.MethodGet,
		Path:        "/api/v1/annotations",
		Summary:     "List annotations",
		Description: "Returns the caller's notes on a book, plus club posts when a club is given",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAnnotations)

	huma.Register(s.api, huma.Operation{
		OperationID: "getClubFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/clubs/{id}/feed",
		Summary:     "Club annotation feed",
		Description: "Returns a club's shared annotations, newest first. Members only",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClubFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAnnotation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/annotations/{id}",
		Summary:     "Delete annotation",
		Description: "Removes one of the caller's annotations",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "reactToAnnotation",
		Method:      http.MethodPost,
		Path:        "/api/v1/annotations/{id}/reactions",
		Summary:     "React to annotation",
		Description: "Adds an emoji reaction to an annotation",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReactToAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeAnnotationReaction",
		Method:      http.MethodDelete,
		Path:        "/api/v1/annotations/{id}/reactions/{emoji}",
		Summary:     "Remove reaction",
		Description: "Removes the caller's reaction from an annotation",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveAnnotationReaction)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAnnotationReactions",
		Method:      http.MethodGet,
		Path:        "/api/v1/annotations/{id}/reactions",
		Summary:     "List reactions",
		Description: "Returns the reactions on an annotation",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAnnotationReactions)

	huma.Register(s.api, huma.Operation{
		OperationID: "replyToAnnotation",
		Method:      http.MethodPost,
		Path:        "/api/v1/annotations/{id}/replies",
		Summary:     "Reply to annotation",
		Description: "Adds a threaded reply to an annotation",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplyToAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAnnotationReplies",
		Method:      http.MethodGet,
		Path:        "/api/v1/annotations/{id}/replies",
		Summary:     "List replies",
		Description: "Returns the replies on an annotation, oldest first",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAnnotationReplies)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAnnotationReply",
		Method:      http.MethodDelete,
		Path:        "/api/v1/annotations/replies/{id}",
		Summary:     "Delete reply",
		Description: "Removes one of the caller's replies",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAnnotationReply)
}

// === DTOs ===

// CreateAnnotationRequest is the request body for creating an annotation.
type CreateAnnotationRequest struct {
	BookID     string `json:"book_id" validate:"required" doc:"Book being annotated"`
	ClubID     string `json:"club_id,omitempty" doc:"Club to share with, empty for a private note"`
	Content    string `json:"content" validate:"required,min=1,max=10000" doc:"Annotation text"`
	Chapter    string `json:"chapter,omitempty" validate:"omitempty,max=200" doc:"Chapter label"`
	PageNumber int    `json:"page_number,omitempty" validate:"omitempty,gte=0" doc:"Page the note refers to"`
	IsSpoiler  bool   `json:"is_spoiler,omitempty" doc:"Whether the note spoils the plot"`
}

// CreateAnnotationInput wraps the create request for Huma.
type CreateAnnotationInput struct {
	Body CreateAnnotationRequest
}

// AnnotationResponse contains one annotation in API responses.
type AnnotationResponse struct {
	ID          string    `json:"id" doc:"Annotation ID"`
	UserID      string    `json:"user_id" doc:"Author user ID"`
	Username    string    `json:"username,omitempty" doc:"Author username"`
	DisplayName string    `json:"display_name,omitempty" doc:"Author display name"`
	BookID      string    `json:"book_id" doc:"Annotated book"`
	ClubID      string    `json:"club_id,omitempty" doc:"Club the note is shared with"`
	Content     string    `json:"content" doc:"Annotation text"`
	Chapter     string    `json:"chapter,omitempty" doc:"Chapter label"`
	PageNumber  int       `json:"page_number,omitempty" doc:"Page the note refers to"`
	IsSpoiler   bool      `json:"is_spoiler" doc:"Whether the note spoils the plot"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
}

// AnnotationOutput wraps one annotation for Huma.
type AnnotationOutput struct {
	Body AnnotationResponse
}

// ListAnnotationsInput contains annotation listing parameters.
type ListAnnotationsInput struct {
	BookID string `query:"book_id" required:"true" doc:"Book to list notes for"`
	ClubID string `query:"club_id" doc:"Include this club's shared notes"`
}

// ListAnnotationsResponse contains an annotation listing.
type ListAnnotationsResponse struct {
	Annotations []AnnotationResponse `json:"annotations" doc:"Annotations, newest first"`
}

// ListAnnotationsOutput wraps the listing for Huma.
type ListAnnotationsOutput struct {
	Body ListAnnotationsResponse
}

// AnnotationIDInput identifies an annotation in path parameters.
type AnnotationIDInput struct {
	ID string `path:"id" doc:"Annotation ID"`
}

// ReactRequest is the request body for reacting to an annotation.
type ReactRequest struct {
	Emoji string `json:"emoji" validate:"required" doc:"Reaction emoji from the allowed set"`
}

// ReactInput wraps the reaction request for Huma.
type ReactInput struct {
	ID   string `path:"id" doc:"Annotation ID"`
	Body ReactRequest
}

// UnreactInput identifies a reaction to remove.
type UnreactInput struct {
	ID    string `path:"id" doc:"Annotation ID"`
	Emoji string `path:"emoji" doc:"Reaction emoji to remove"`
}

// ReactionResponse contains one reaction.
type ReactionResponse struct {
	UserID    string    `json:"user_id" doc:"Reacting user"`
	Emoji     string    `json:"emoji" doc:"Reaction emoji"`
	CreatedAt time.Time `json:"created_at" doc:"When the reaction was added"`
}

// ListReactionsResponse contains an annotation's reactions.
type ListReactionsResponse struct {
	Reactions []ReactionResponse `json:"reactions" doc:"Reactions, oldest first"`
}

// ListReactionsOutput wraps the reactions listing for Huma.
type ListReactionsOutput struct {
	Body ListReactionsResponse
}

// ReplyRequest is the request body for replying to an annotation.
type ReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=10000" doc:"Reply text"`
}

// ReplyInput wraps the reply request for Huma.
type ReplyInput struct {
	ID   string `path:"id" doc:"Annotation ID"`
	Body ReplyRequest
}

// ReplyResponse contains one reply.
type ReplyResponse struct {
	ID           string    `json:"id" doc:"Reply ID"`
	AnnotationID string    `json:"annotation_id" doc:"Parent annotation"`
	UserID       string    `json:"user_id" doc:"Author user ID"`
	Username     string    `json:"username,omitempty" doc:"Author username"`
	DisplayName  string    `json:"display_name,omitempty" doc:"Author display name"`
	Content      string    `json:"content" doc:"Reply text"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation timestamp"`
}

// ReplyOutput wraps one reply for Huma.
type ReplyOutput struct {
	Body ReplyResponse
}

// ListRepliesResponse contains an annotation's replies.
type ListRepliesResponse struct {
	Replies []ReplyResponse `json:"replies" doc:"Replies, oldest first"`
}

// ListRepliesOutput wraps the replies listing for Huma.
type ListRepliesOutput struct {
	Body ListRepliesResponse
}

// === Handlers ===

func (s *Server) handleCreateAnnotation(ctx context.Context, input *CreateAnnotationInput) (*AnnotationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	annotation, err := s.services.Annotation.Create(ctx, userID, service.CreateAnnotationInput{
		BookID:     input.Body.BookID,
		ClubID:     input.Body.ClubID,
		Content:    input.Body.Content,
		Chapter:    input.Body.Chapter,
		PageNumber: input.Body.PageNumber,
		IsSpoiler:  input.Body.IsSpoiler,
	})
	if err != nil {
		return nil, err
	}
	return &AnnotationOutput{Body: mapAnnotationResponse(annotation)}, nil
}

func (s *Server) handleListAnnotations(ctx context.Context, input *ListAnnotationsInput) (*ListAnnotationsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	annotations, err := s.services.Annotation.ListForBook(ctx, userID, input.BookID, input.ClubID)
	if err != nil {
		return nil, err
	}
	return &ListAnnotationsOutput{Body: mapAnnotationList(annotations)}, nil
}

func (s *Server) handleClubFeed(ctx context.Context, input *ClubIDInput) (*ListAnnotationsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	annotations, err := s.services.Annotation.ClubFeed(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &ListAnnotationsOutput{Body: mapAnnotationList(annotations)}, nil
}

func (s *Server) handleDeleteAnnotation(ctx context.Context, input *AnnotationIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Annotation.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Annotation deleted"}}, nil
}

func (s *Server) handleReactToAnnotation(ctx context.Context, input *ReactInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Annotation.React(ctx, userID, input.ID, input.Body.Emoji); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Reaction added"}}, nil
}

func (s *Server) handleRemoveAnnotationReaction(ctx context.Context, input *UnreactInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Annotation.Unreact(ctx, userID, input.ID, input.Emoji); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Reaction removed"}}, nil
}

func (s *Server) handleListAnnotationReactions(ctx context.Context, input *AnnotationIDInput) (*ListReactionsOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	reactions, err := s.services.Annotation.Reactions(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := ListReactionsResponse{Reactions: make([]ReactionResponse, 0, len(reactions))}
	for _, r := range reactions {
		resp.Reactions = append(resp.Reactions, ReactionResponse{
			UserID:    r.UserID,
			Emoji:     r.Emoji,
			CreatedAt: r.CreatedAt,
		})
	}
	return &ListReactionsOutput{Body: resp}, nil
}

func (s *Server) handleReplyToAnnotation(ctx context.Context, input *ReplyInput) (*ReplyOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	reply, err := s.services.Annotation.Reply(ctx, userID, input.ID, input.Body.Content)
	if err != nil {
		return nil, err
	}
	return &ReplyOutput{Body: mapReplyResponse(reply)}, nil
}

func (s *Server) handleListAnnotationReplies(ctx context.Context, input *AnnotationIDInput) (*ListRepliesOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	replies, err := s.services.Annotation.Replies(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := ListRepliesResponse{Replies: make([]ReplyResponse, 0, len(replies))}
	for _, r := range replies {
		resp.Replies = append(resp.Replies, mapReplyResponse(r))
	}
	return &ListRepliesOutput{Body: resp}, nil
}

func (s *Server) handleDeleteAnnotationReply(ctx context.Context, input *AnnotationIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Annotation.DeleteReply(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Reply deleted"}}, nil
}

// === Helpers ===

func mapAnnotationResponse(a *domain.Annotation) AnnotationResponse {
	return AnnotationResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		BookID:      a.BookID,
		ClubID:      a.ClubID,
		Content:     a.Content,
		Chapter:     a.Chapter,
		PageNumber:  a.PageNumber,
		IsSpoiler:   a.IsSpoiler,
		CreatedAt:   a.CreatedAt,
	}
}

func mapAnnotationList(annotations []*domain.Annotation) ListAnnotationsResponse {
	resp := ListAnnotationsResponse{Annotations: make([]AnnotationResponse, 0, len(annotations))}
	for _, a := range annotations {
		resp.Annotations = append(resp.Annotations, mapAnnotationResponse(a))
	}
	return resp
}

func mapReplyResponse(r *domain.Reply) ReplyResponse {
	return ReplyResponse{
		ID:           r.ID,
		AnnotationID: r.AnnotationID,
		UserID:       r.UserID,
		Username:     r.Username,
		DisplayName:  r.DisplayName,
		Content:      r.Content,
		CreatedAt:    r.CreatedAt,
	}
}
