package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/leituraapp/leitura-server/internal/domain"
	"github.com/leituraapp/leitura-server/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(dbPath, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTestUser(t *testing.T, s *store.Store, userID, username string) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		ID:           userID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$fake",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// shelveBook resolves a candidate and puts it on the user's shelf, returning
// the canonical book. Shortcut for tests that need a shelved book.
func shelveBook(t *testing.T, s *store.Store, userID, title string, status domain.Status) *domain.Book {
	t.Helper()
	ctx := context.Background()

	resolver := NewResolverService(s, testLogger())
	shelf := NewShelfService(s, resolver, testLogger())

	entry, err := shelf.Add(ctx, userID, domain.BookCandidate{Title: title, Author: "Test Author"}, status)
	require.NoError(t, err)
	return entry.Book
}
