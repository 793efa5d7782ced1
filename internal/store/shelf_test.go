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

func TestBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	book := &domain.Book{
		ID:            "book-1",
		CreatedAt:     now,
		UpdatedAt:     now,
		ExternalID:    "gk6PEAAAQBAJ",
		Title:         "Dune",
		Author:        "Frank Herbert",
		ISBN:          "9780441013593",
		YearPublished: 1965,
		Pages:         412,
	}
	require.NoError(t, s.CreateBook(ctx, book))

	got, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 412, got.Pages)

	byExt, err := s.GetBookByExternalID(ctx, "gk6PEAAAQBAJ")
	require.NoError(t, err)
	assert.Equal(t, "book-1", byExt.ID)

	byTitle, err := s.GetBookByTitleAuthor(ctx, "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, "book-1", byTitle.ID)

	_, err = s.GetBookByTitleAuthor(ctx, "Dune", "Someone Else")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCreateBook_DuplicateExternalID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	first := &domain.Book{ID: "book-1", CreatedAt: now, UpdatedAt: now, ExternalID: "ext-1", Title: "A", Author: "B"}
	require.NoError(t, s.CreateBook(ctx, first))

	dup := &domain.Book{ID: "book-2", CreatedAt: now, UpdatedAt: now, ExternalID: "ext-1", Title: "A", Author: "B"}
	err := s.CreateBook(ctx, dup)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	// Books without external IDs never collide with each other.
	local1 := &domain.Book{ID: "book-3", CreatedAt: now, UpdatedAt: now, Title: "C", Author: "D"}
	local2 := &domain.Book{ID: "book-4", CreatedAt: now, UpdatedAt: now, Title: "E", Author: "F"}
	require.NoError(t, s.CreateBook(ctx, local1))
	require.NoError(t, s.CreateBook(ctx, local2))
}

func TestShelfEntryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")
	seedBook(t, s, "book-1", "Dune")

	now := time.Now()
	rating := 5
	started := now.Add(-72 * time.Hour)
	e := &domain.ShelfEntry{
		ID:        "ub-1",
		UserID:    "user-1",
		BookID:    "book-1",
		Status:    domain.StatusReading,
		StartedAt: &started,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateShelfEntry(ctx, e))

	// Duplicate (user, book) pairs are rejected.
	dup := &domain.ShelfEntry{ID: "ub-2", UserID: "user-1", BookID: "book-1",
		Status: domain.StatusWant, CreatedAt: now, UpdatedAt: now}
	err := s.CreateShelfEntry(ctx, dup)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	got, err := s.GetShelfEntry(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReading, got.Status)
	assert.Nil(t, got.Rating)
	require.NotNil(t, got.StartedAt)

	finished := now
	got.SetStatus(domain.StatusRead, finished)
	got.Rating = &rating
	got.Review = "the spice must flow"
	require.NoError(t, s.UpdateShelfEntry(ctx, got))

	updated, err := s.GetShelfEntry(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRead, updated.Status)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 5, *updated.Rating)
	require.NotNil(t, updated.FinishedAt)
	assert.Equal(t, started.Unix(), updated.StartedAt.Unix(), "original start preserved")

	require.NoError(t, s.DeleteShelfEntry(ctx, "user-1", "book-1"))
	_, err = s.GetShelfEntry(ctx, "user-1", "book-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestListShelf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")
	seedBook(t, s, "book-1", "Dune")
	seedBook(t, s, "book-2", "The Hobbit")

	now := time.Now()
	require.NoError(t, s.CreateShelfEntry(ctx, &domain.ShelfEntry{
		ID: "ub-1", UserID: "user-1", BookID: "book-1",
		Status: domain.StatusRead, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, s.CreateShelfEntry(ctx, &domain.ShelfEntry{
		ID: "ub-2", UserID: "user-1", BookID: "book-2",
		Status: domain.StatusWant, CreatedAt: now, UpdatedAt: now.Add(time.Second),
	}))

	all, err := s.ListShelf(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].Book)
	assert.Equal(t, "The Hobbit", all[0].Book.Title, "newest update first")

	read, err := s.ListShelf(ctx, "user-1", domain.StatusRead)
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, "book-1", read[0].BookID)

	other, err := s.ListShelf(ctx, "user-2", "")
	require.NoError(t, err)
	assert.Empty(t, other)
}
