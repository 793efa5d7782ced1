package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/store"
)

func newTestAnnotations(t *testing.T) (*AnnotationService, *ClubService, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	seedTestUser(t, s, "user-1", "alice")
	seedTestUser(t, s, "user-2", "bob")
	resolver := NewResolverService(s, testLogger())
	clubs := NewClubService(s, resolver, testLogger())
	return NewAnnotationService(s, testLogger()), clubs, s
}

func TestAnnotationCreatePersonalNote(t *testing.T) {
	svc, _, s := newTestAnnotations(t)
	ctx := context.Background()
	book := shelveBook(t, s, "user-1", "Dune", domain.StatusReading)

	a, err := svc.Create(ctx, "user-1", CreateAnnotationInput{
		BookID:     book.ID,
		Content:    "The spice must flow.",
		Chapter:    "1",
		PageNumber: 12,
	})
	require.NoError(t, err)
	assert.Empty(t, a.ClubID)
	assert.Equal(t, "alice", a.Username)
}

func TestAnnotationCreateEmptyContent(t *testing.T) {
	svc, _, s := newTestAnnotations(t)
	book := shelveBook(t, s, "user-1", "Dune", domain.StatusReading)

	_, err := svc.Create(context.Background(), "user-1", CreateAnnotationInput{BookID: book.ID, Content: "   "})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestAnnotationClubPostRequiresMembership(t *testing.T) {
	svc, clubs, s := newTestAnnotations(t)
	ctx := context.Background()
	book := shelveBook(t, s, "user-1", "Dune", domain.StatusReading)

	club, err := clubs.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)

	in := CreateAnnotationInput{BookID: book.ID, ClubID: club.ID, Content: "Chapter 3 twist!", IsSpoiler: true}
	_, err = svc.Create(ctx, "user-2", in)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	a, err := svc.Create(ctx, "user-1", in)
	require.NoError(t, err)
	assert.True(t, a.IsSpoiler)
}

func TestAnnotationVisibility(t *testing.T) {
	svc, clubs, s := newTestAnnotations(t)
	ctx := context.Background()
	book := shelveBook(t, s, "user-1", "Dune", domain.StatusReading)

	club, err := clubs.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)
	_, err = clubs.Join(ctx, "user-2", club.InviteCode)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-1", CreateAnnotationInput{BookID: book.ID, Content: "private note"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", CreateAnnotationInput{BookID: book.ID, ClubID: club.ID, Content: "club post"})
	require.NoError(t, err)

	// user-2 sees only the club post.
	visible, err := svc.ListForBook(ctx, "user-2", book.ID, club.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "club post", visible[0].Content)

	// user-1 sees both.
	visible, err = svc.ListForBook(ctx, "user-1", book.ID, club.ID)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	// Without a club only own notes show up.
	visible, err = svc.ListForBook(ctx, "user-2", book.ID, "")
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestAnnotationClubFeed(t *testing.T) {
	svc, clubs, s := newTestAnnotations(t)
	ctx := context.Background()
	book := shelveBook(t, s, "user-1", "Dune", domain.StatusReading)

	club, err := clubs.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-1", CreateAnnotationInput{BookID: book.ID, ClubID: club.ID, Content: "first"})
	require.NoError(t, err)

	feed, err := svc.ClubFeed(ctx, "user-1", club.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	_, err = svc.ClubFeed(ctx, "user-2", club.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}

func TestAnnotationReactions(t *testing.T) {
	svc, _, s := newTestAnnotations(t)
	ctx := context.Background()
	book := shelveBook(t, s, "user-1", "Dune", domain.StatusReading)

	a, err := svc.Create(ctx, "user-1", CreateAnnotationInput{BookID: book.ID, Content: "note"})
	require.NoError(t, err)

	require.NoError(t, svc.React(ctx, "user-2", a.ID, "❤️"))

	err = svc.React(ctx, "user-2", a.ID, "👍")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	// Same user, same emoji twice is a conflict.
	err = svc.React(ctx, "user-2", a.ID, "❤️")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	reactions, err := svc.Reactions(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, reactions, 1)

	require.NoError(t, svc.Unreact(ctx, "user-2", a.ID, "❤️"))
	reactions, err = svc.Reactions(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, reactions)
}

func TestAnnotationReplies(t *testing.T) {
	svc, _, s := newTestAnnotations(t)
	ctx := context.Background()
	book := shelveBook(t, s, "user-1", "Dune", domain.StatusReading)

	a, err := svc.Create(ctx, "user-1", CreateAnnotationInput{BookID: book.ID, Content: "note"})
	require.NoError(t, err)

	reply, err := svc.Reply(ctx, "user-2", a.ID, "Agreed!")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.ID)

	_, err = svc.Reply(ctx, "user-2", a.ID, "")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	replies, err := svc.Replies(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "Agreed!", replies[0].Content)

	// Only the author can delete their reply.
	err = svc.DeleteReply(ctx, "user-1", reply.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	require.NoError(t, svc.DeleteReply(ctx, "user-2", reply.ID))
}

func TestAnnotationDelete(t *testing.T) {
	svc, _, s := newTestAnnotations(t)
	ctx := context.Background()
	book := shelveBook(t, s, "user-1", "Dune", domain.StatusReading)

	a, err := svc.Create(ctx, "user-1", CreateAnnotationInput{BookID: book.ID, Content: "note"})
	require.NoError(t, err)

	// Someone else's annotation is out of reach.
	err = svc.Delete(ctx, "user-2", a.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, "user-1", a.ID))
}
