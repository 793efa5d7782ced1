package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/id"
	"github.com/leituraapp/leitura-server/internal/store"
)

// AnnotationService manages book annotations, reactions, and replies.
type AnnotationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAnnotationService creates a new annotation service.
func NewAnnotationService(store *store.Store, logger *slog.Logger) *AnnotationService {
	return &AnnotationService{store: store, logger: logger}
}

// CreateAnnotationInput describes a new annotation.
type CreateAnnotationInput struct {
	BookID     string
	ClubID     string // empty for a personal note
	Content    string
	Chapter    string
	PageNumber int
	IsSpoiler  bool
}

// Create posts an annotation. Posting to a club requires membership.
func (s *AnnotationService) Create(ctx context.Context, userID string, in CreateAnnotationInput) (*domain.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Content) == "" {
		return nil, domainerrors.Validation("annotation content cannot be empty")
	}
	if _, err := s.store.GetBook(ctx, in.BookID); err != nil {
		return nil, err
	}
	if in.ClubID != "" {
		if _, err := s.store.GetClubMember(ctx, in.ClubID, userID); err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.Forbidden("not a member of this club")
			}
			return nil, err
		}
	}

	annotationID, err := id.Generate("ann")
	if err != nil {
		return nil, fmt.Errorf("generate annotation ID: %w", err)
	}

	now := time.Now()
	a := &domain.Annotation{
		ID:         annotationID,
		CreatedAt:  now,
		UpdatedAt:  now,
		UserID:     userID,
		BookID:     in.BookID,
		ClubID:     in.ClubID,
		Content:    in.Content,
		Chapter:    in.Chapter,
		PageNumber: in.PageNumber,
		IsSpoiler:  in.IsSpoiler,
	}
	if err := s.store.CreateAnnotation(ctx, a); err != nil {
		return nil, fmt.Errorf("create annotation: %w", err)
	}
	return s.store.GetAnnotation(ctx, a.ID)
}

// ListForBook returns annotations on a book visible to the user: their own
// notes plus, when clubID is set and they belong to it, the club's posts.
func (s *AnnotationService) ListForBook(ctx context.Context, userID, bookID, clubID string) ([]*domain.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if clubID != "" {
		if _, err := s.store.GetClubMember(ctx, clubID, userID); err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.Forbidden("not a member of this club")
			}
			return nil, err
		}
	}
	return s.store.ListBookAnnotations(ctx, bookID, userID, clubID)
}

// ClubFeed returns all annotations posted to a club. Members only.
func (s *AnnotationService) ClubFeed(ctx context.Context, userID, clubID string) ([]*domain.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetClubMember(ctx, clubID, userID); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Forbidden("not a member of this club")
		}
		return nil, err
	}
	return s.store.ListClubAnnotations(ctx, clubID)
}

// Delete removes the user's own annotation.
func (s *AnnotationService) Delete(ctx context.Context, userID, annotationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteAnnotation(ctx, userID, annotationID)
}

// React adds an emoji reaction to an annotation. Only a small fixed set of
// emoji is accepted.
func (s *AnnotationService) React(ctx context.Context, userID, annotationID, emoji string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !domain.ValidReaction(emoji) {
		return domainerrors.Validationf("unsupported reaction, allowed: %s", strings.Join(domain.AllowedReactions, " "))
	}
	if _, err := s.store.GetAnnotation(ctx, annotationID); err != nil {
		return err
	}

	return s.store.AddReaction(ctx, &domain.Reaction{
		AnnotationID: annotationID,
		UserID:       userID,
		Emoji:        emoji,
		CreatedAt:    time.Now(),
	})
}

// Unreact removes the user's emoji reaction.
func (s *AnnotationService) Unreact(ctx context.Context, userID, annotationID, emoji string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveReaction(ctx, annotationID, userID, emoji)
}

// Reactions returns all reactions on an annotation.
func (s *AnnotationService) Reactions(ctx context.Context, annotationID string) ([]*domain.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListReactions(ctx, annotationID)
}

// Reply posts a reply to an annotation.
func (s *AnnotationService) Reply(ctx context.Context, userID, annotationID, content string) (*domain.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, domainerrors.Validation("reply content cannot be empty")
	}
	if _, err := s.store.GetAnnotation(ctx, annotationID); err != nil {
		return nil, err
	}

	replyID, err := id.Generate("reply")
	if err != nil {
		return nil, fmt.Errorf("generate reply ID: %w", err)
	}

	reply := &domain.Reply{
		ID:           replyID,
		AnnotationID: annotationID,
		UserID:       userID,
		Content:      content,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return reply, nil
}

// Replies returns an annotation's replies, oldest first.
func (s *AnnotationService) Replies(ctx context.Context, annotationID string) ([]*domain.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListReplies(ctx, annotationID)
}

// DeleteReply removes the user's own reply.
func (s *AnnotationService) DeleteReply(ctx context.Context, userID, replyID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteReply(ctx, userID, replyID)
}
