package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

func seedAnnotation(t *testing.T, s *Store, id, userID, clubID string) *domain.Annotation {
	t.Helper()
	now := time.Now()
	a := &domain.Annotation{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
		BookID:    "book-1",
		ClubID:    clubID,
		Content:   "fear is the mind-killer",
	}
	require.NoError(t, s.CreateAnnotation(context.Background(), a))
	return a
}

func TestAnnotations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")
	seedUser(t, s, "user-2", "pedro")
	seedBook(t, s, "book-1", "Dune")

	seedAnnotation(t, s, "ann-1", "user-1", "")       // personal
	seedAnnotation(t, s, "ann-2", "user-2", "")       // someone else's personal
	seedAnnotation(t, s, "ann-3", "user-2", "club-1") // club post

	got, err := s.GetAnnotation(ctx, "ann-1")
	require.NoError(t, err)
	assert.Equal(t, "marina", got.Username)

	// Without a club, only the user's own notes are visible.
	mine, err := s.ListBookAnnotations(ctx, "book-1", "user-1", "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ann-1", mine[0].ID)

	// With a club, club posts are included too.
	withClub, err := s.ListBookAnnotations(ctx, "book-1", "user-1", "club-1")
	require.NoError(t, err)
	assert.Len(t, withClub, 2)

	clubFeed, err := s.ListClubAnnotations(ctx, "club-1")
	require.NoError(t, err)
	require.Len(t, clubFeed, 1)
	assert.Equal(t, "ann-3", clubFeed[0].ID)

	// Users can only delete their own annotations.
	err = s.DeleteAnnotation(ctx, "user-1", "ann-2")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	require.NoError(t, s.DeleteAnnotation(ctx, "user-1", "ann-1"))
}

func TestReactions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")
	seedUser(t, s, "user-2", "pedro")
	seedBook(t, s, "book-1", "Dune")
	seedAnnotation(t, s, "ann-1", "user-1", "")

	now := time.Now()
	require.NoError(t, s.AddReaction(ctx, &domain.Reaction{
		AnnotationID: "ann-1", UserID: "user-2", Emoji: "❤️", CreatedAt: now,
	}))
	require.NoError(t, s.AddReaction(ctx, &domain.Reaction{
		AnnotationID: "ann-1", UserID: "user-2", Emoji: "💡", CreatedAt: now,
	}))

	// Same emoji twice from the same user is rejected.
	err := s.AddReaction(ctx, &domain.Reaction{
		AnnotationID: "ann-1", UserID: "user-2", Emoji: "❤️", CreatedAt: now,
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	reactions, err := s.ListReactions(ctx, "ann-1")
	require.NoError(t, err)
	assert.Len(t, reactions, 2)

	require.NoError(t, s.RemoveReaction(ctx, "ann-1", "user-2", "❤️"))
	err = s.RemoveReaction(ctx, "ann-1", "user-2", "❤️")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestReplies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")
	seedUser(t, s, "user-2", "pedro")
	seedBook(t, s, "book-1", "Dune")
	seedAnnotation(t, s, "ann-1", "user-1", "club-1")

	now := time.Now()
	require.NoError(t, s.CreateReply(ctx, &domain.Reply{
		ID: "reply-1", AnnotationID: "ann-1", UserID: "user-2",
		Content: "chills every time", CreatedAt: now,
	}))
	require.NoError(t, s.CreateReply(ctx, &domain.Reply{
		ID: "reply-2", AnnotationID: "ann-1", UserID: "user-1",
		Content: "right?", CreatedAt: now.Add(time.Second),
	}))

	replies, err := s.ListReplies(ctx, "ann-1")
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "reply-1", replies[0].ID, "oldest first")
	assert.Equal(t, "pedro", replies[0].Username)

	err = s.DeleteReply(ctx, "user-2", "reply-2")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	require.NoError(t, s.DeleteReply(ctx, "user-1", "reply-2"))
}
