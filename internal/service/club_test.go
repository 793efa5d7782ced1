package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/store"
)

func newTestClubs(t *testing.T) (*ClubService, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	seedTestUser(t, s, "user-1", "alice")
	seedTestUser(t, s, "user-2", "bob")
	resolver := NewResolverService(s, testLogger())
	return NewClubService(s, resolver, testLogger()), s
}

func TestClubCreate(t *testing.T) {
	svc, _ := newTestClubs(t)
	ctx := context.Background()

	club, err := svc.Create(ctx, "user-1", "Dune Club", "All things Arrakis", "")
	require.NoError(t, err)
	assert.NotEmpty(t, club.InviteCode)

	members, err := svc.Members(ctx, club.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, domain.RoleOwner, members[0].Role)
	assert.Equal(t, "alice", members[0].Username)
}

func TestClubCreateEmptyName(t *testing.T) {
	svc, _ := newTestClubs(t)

	_, err := svc.Create(context.Background(), "user-1", "", "", "")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestClubJoinByInviteCode(t *testing.T) {
	svc, _ := newTestClubs(t)
	ctx := context.Background()

	club, err := svc.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)

	joined, err := svc.Join(ctx, "user-2", club.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, club.ID, joined.ID)

	members, err := svc.Members(ctx, club.ID, "user-2")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	// Joining twice is a conflict, not a second membership.
	_, err = svc.Join(ctx, "user-2", club.InviteCode)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestClubJoinBadCode(t *testing.T) {
	svc, _ := newTestClubs(t)

	_, err := svc.Join(context.Background(), "user-2", "XXXXXX")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestClubLeave(t *testing.T) {
	svc, _ := newTestClubs(t)
	ctx := context.Background()

	club, err := svc.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, "user-2", club.InviteCode)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, club.ID, "user-2"))

	// Former members lose access.
	_, err = svc.Get(ctx, club.ID, "user-2")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}

func TestClubOwnerCannotLeave(t *testing.T) {
	svc, _ := newTestClubs(t)
	ctx := context.Background()

	club, err := svc.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)

	err = svc.Leave(ctx, club.ID, "user-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestClubGetNonMember(t *testing.T) {
	svc, _ := newTestClubs(t)
	ctx := context.Background()

	club, err := svc.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)

	_, err = svc.Get(ctx, club.ID, "user-2")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}

func TestClubListMine(t *testing.T) {
	svc, _ := newTestClubs(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "user-2", "Piranesi Club", "", "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, "user-1", second.InviteCode)
	require.NoError(t, err)

	clubs, err := svc.ListMine(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, clubs, 2)

	ids := []string{clubs[0].ID, clubs[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}

func TestClubReadingLifecycle(t *testing.T) {
	svc, _ := newTestClubs(t)
	ctx := context.Background()

	club, err := svc.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)

	target := time.Now().AddDate(0, 1, 0)
	reading, err := svc.StartReading(ctx, club.ID, "user-1", domain.BookCandidate{Title: "Dune", Author: "Frank Herbert"}, &target)
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingActive, reading.Status)
	require.NotNil(t, reading.Book)

	// One active reading at a time.
	_, err = svc.StartReading(ctx, club.ID, "user-1", domain.BookCandidate{Title: "Piranesi"}, nil)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	finished, err := svc.FinishReading(ctx, club.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingFinished, finished.Status)
	assert.NotNil(t, finished.FinishedAt)

	// With the first one finished a new reading can start.
	_, err = svc.StartReading(ctx, club.ID, "user-1", domain.BookCandidate{Title: "Piranesi"}, nil)
	require.NoError(t, err)

	readings, err := svc.Readings(ctx, club.ID, "user-1")
	require.NoError(t, err)
	assert.Len(t, readings, 2)
}

func TestClubFinishWithoutActiveReading(t *testing.T) {
	svc, _ := newTestClubs(t)
	ctx := context.Background()

	club, err := svc.Create(ctx, "user-1", "Dune Club", "", "")
	require.NoError(t, err)

	_, err = svc.FinishReading(ctx, club.ID, "user-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}
