package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

func newTestShelf(t *testing.T) (*ShelfService, *ResolverService) {
	t.Helper()
	s := newTestStore(t)
	seedTestUser(t, s, "user-1", "alice")
	resolver := NewResolverService(s, testLogger())
	return NewShelfService(s, resolver, testLogger()), resolver
}

func TestShelfAdd(t *testing.T) {
	shelf, _ := newTestShelf(t)
	ctx := context.Background()

	entry, err := shelf.Add(ctx, "user-1", domain.BookCandidate{Title: "Dune", Author: "Frank Herbert"}, domain.StatusWant)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWant, entry.Status)
	assert.Nil(t, entry.StartedAt)
	assert.Nil(t, entry.FinishedAt)
	require.NotNil(t, entry.Book)
	assert.Equal(t, "Dune", entry.Book.Title)
}

func TestShelfAddReadingStampsStart(t *testing.T) {
	shelf, _ := newTestShelf(t)

	entry, err := shelf.Add(context.Background(), "user-1", domain.BookCandidate{Title: "Dune"}, domain.StatusReading)
	require.NoError(t, err)
	assert.NotNil(t, entry.StartedAt)
	assert.Nil(t, entry.FinishedAt)
}

func TestShelfAddDuplicate(t *testing.T) {
	shelf, _ := newTestShelf(t)
	ctx := context.Background()

	candidate := domain.BookCandidate{Title: "Dune", Author: "Frank Herbert"}
	_, err := shelf.Add(ctx, "user-1", candidate, domain.StatusWant)
	require.NoError(t, err)

	_, err = shelf.Add(ctx, "user-1", candidate, domain.StatusReading)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestShelfAddInvalidStatus(t *testing.T) {
	shelf, _ := newTestShelf(t)

	_, err := shelf.Add(context.Background(), "user-1", domain.BookCandidate{Title: "Dune"}, domain.Status("dnf"))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestShelfUpdateLifecycle(t *testing.T) {
	shelf, _ := newTestShelf(t)
	ctx := context.Background()

	entry, err := shelf.Add(ctx, "user-1", domain.BookCandidate{Title: "Dune"}, domain.StatusWant)
	require.NoError(t, err)
	bookID := entry.BookID

	reading := domain.StatusReading
	entry, err = shelf.Update(ctx, "user-1", bookID, ShelfUpdate{Status: &reading})
	require.NoError(t, err)
	require.NotNil(t, entry.StartedAt)
	startedAt := *entry.StartedAt

	read := domain.StatusRead
	rating := 5
	review := "A classic."
	entry, err = shelf.Update(ctx, "user-1", bookID, ShelfUpdate{Status: &read, Rating: &rating, Review: &review})
	require.NoError(t, err)
	assert.NotNil(t, entry.FinishedAt)
	assert.Equal(t, 5, *entry.Rating)
	assert.Equal(t, "A classic.", entry.Review)
	// Moving to read keeps the original start stamp.
	assert.Equal(t, startedAt.Unix(), entry.StartedAt.Unix())
}

func TestShelfUpdateInvalidRating(t *testing.T) {
	shelf, _ := newTestShelf(t)
	ctx := context.Background()

	entry, err := shelf.Add(ctx, "user-1", domain.BookCandidate{Title: "Dune"}, domain.StatusWant)
	require.NoError(t, err)

	rating := 6
	_, err = shelf.Update(ctx, "user-1", entry.BookID, ShelfUpdate{Rating: &rating})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestShelfListFilter(t *testing.T) {
	shelf, _ := newTestShelf(t)
	ctx := context.Background()

	_, err := shelf.Add(ctx, "user-1", domain.BookCandidate{Title: "Dune"}, domain.StatusReading)
	require.NoError(t, err)
	_, err = shelf.Add(ctx, "user-1", domain.BookCandidate{Title: "Piranesi"}, domain.StatusWant)
	require.NoError(t, err)

	all, err := shelf.List(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	reading, err := shelf.List(ctx, "user-1", domain.StatusReading)
	require.NoError(t, err)
	require.Len(t, reading, 1)
	assert.Equal(t, "Dune", reading[0].Book.Title)

	_, err = shelf.List(ctx, "user-1", domain.Status("bogus"))
	require.Error(t, err)
}

func TestShelfRemove(t *testing.T) {
	shelf, _ := newTestShelf(t)
	ctx := context.Background()

	entry, err := shelf.Add(ctx, "user-1", domain.BookCandidate{Title: "Dune"}, domain.StatusWant)
	require.NoError(t, err)

	require.NoError(t, shelf.Remove(ctx, "user-1", entry.BookID))

	_, err = shelf.Get(ctx, "user-1", entry.BookID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	err = shelf.Remove(ctx, "user-1", entry.BookID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
