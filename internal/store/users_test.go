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

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		ID:           "user-1",
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     "Marina",
		Email:        "Marina@Example.com",
		PasswordHash: "$argon2id$fake",
		DisplayName:  "Marina S.",
		Bio:          "slow reader, fast judge",
		AvatarColor:  "#7c3aed",
	}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Marina", got.Username)
	assert.Equal(t, "Marina@Example.com", got.Email)
	assert.Equal(t, "$argon2id$fake", got.PasswordHash)
	assert.Equal(t, "Marina S.", got.DisplayName)
	assert.Equal(t, user.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestGetUserByUsername_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "user-1", "Marina")

	got, err := s.GetUserByUsername(context.Background(), "mArInA")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "user-1", "marina")

	got, err := s.GetUserByEmail(context.Background(), "MARINA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")

	now := time.Now()
	dup := &domain.User{
		ID: "user-2", CreatedAt: now, UpdatedAt: now,
		Username: "MARINA", Email: "other@example.com", PasswordHash: "x",
	}
	err := s.CreateUser(ctx, dup)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "user-1", "marina")

	u.DisplayName = "New Name"
	u.Bio = "updated"
	u.UpdatedAt = time.Now().Add(time.Minute)
	require.NoError(t, s.UpdateUser(ctx, u))

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.DisplayName)
	assert.Equal(t, "updated", got.Bio)
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")

	now := time.Now()
	sess := &domain.Session{
		ID:        "b6c8d0aa-0000-0000-0000-000000000001",
		UserID:    "user-1",
		TokenHash: "hash-1",
		UserAgent: "leitura-ios/1.0",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSessionByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.False(t, got.Expired(now))
	assert.True(t, got.Expired(now.Add(2*time.Hour)))

	require.NoError(t, s.DeleteSession(ctx, sess.ID))
	_, err = s.GetSessionByTokenHash(ctx, "hash-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")

	now := time.Now()
	expired := &domain.Session{
		ID: "b6c8d0aa-0000-0000-0000-000000000002", UserID: "user-1",
		TokenHash: "old", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}
	live := &domain.Session{
		ID: "b6c8d0aa-0000-0000-0000-000000000003", UserID: "user-1",
		TokenHash: "new", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, s.CreateSession(ctx, expired))
	require.NoError(t, s.CreateSession(ctx, live))

	n, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.GetSessionByTokenHash(ctx, "new")
	assert.NoError(t, err)
}
