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

func seedClub(t *testing.T, s *Store, id, inviteCode string) *domain.Club {
	t.Helper()
	now := time.Now()
	c := &domain.Club{
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		Name:       "Desert Power Book Club",
		InviteCode: inviteCode,
		CreatedBy:  "user-1",
	}
	require.NoError(t, s.CreateClub(context.Background(), c))
	return c
}

func TestClubs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")
	seedClub(t, s, "club-1", "ABC234")

	got, err := s.GetClub(ctx, "club-1")
	require.NoError(t, err)
	assert.Equal(t, "Desert Power Book Club", got.Name)

	byCode, err := s.GetClubByInviteCode(ctx, "ABC234")
	require.NoError(t, err)
	assert.Equal(t, "club-1", byCode.ID)

	_, err = s.GetClubByInviteCode(ctx, "ZZZZZZ")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	// Invite codes are unique.
	now := time.Now()
	err = s.CreateClub(ctx, &domain.Club{
		ID: "club-2", CreatedAt: now, UpdatedAt: now,
		Name: "Other", InviteCode: "ABC234", CreatedBy: "user-1",
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestClubMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")
	seedUser(t, s, "user-2", "pedro")
	seedClub(t, s, "club-1", "ABC234")

	now := time.Now()
	require.NoError(t, s.AddClubMember(ctx, &domain.ClubMember{
		ClubID: "club-1", UserID: "user-1", Role: domain.RoleOwner, JoinedAt: now,
	}))
	require.NoError(t, s.AddClubMember(ctx, &domain.ClubMember{
		ClubID: "club-1", UserID: "user-2", Role: domain.RoleMember, JoinedAt: now.Add(time.Second),
	}))

	err := s.AddClubMember(ctx, &domain.ClubMember{
		ClubID: "club-1", UserID: "user-2", Role: domain.RoleMember, JoinedAt: now,
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	members, err := s.ListClubMembers(ctx, "club-1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "marina", members[0].Username)
	assert.Equal(t, domain.RoleOwner, members[0].Role)

	member, err := s.GetClubMember(ctx, "club-1", "user-2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, member.Role)

	clubs, err := s.ListUserClubs(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "club-1", clubs[0].ID)

	require.NoError(t, s.RemoveClubMember(ctx, "club-1", "user-2"))
	_, err = s.GetClubMember(ctx, "club-1", "user-2")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestClubReadings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "marina")
	seedClub(t, s, "club-1", "ABC234")
	seedBook(t, s, "book-1", "Dune")

	now := time.Now()
	reading := &domain.ClubReading{
		ID:        "reading-1",
		ClubID:    "club-1",
		BookID:    "book-1",
		Status:    domain.ReadingActive,
		StartedAt: now,
		CreatedAt: now,
	}
	require.NoError(t, s.CreateClubReading(ctx, reading))

	active, err := s.GetActiveClubReading(ctx, "club-1")
	require.NoError(t, err)
	assert.Equal(t, "reading-1", active.ID)

	finished := now.Add(time.Hour)
	active.Status = domain.ReadingFinished
	active.FinishedAt = &finished
	require.NoError(t, s.UpdateClubReading(ctx, active))

	_, err = s.GetActiveClubReading(ctx, "club-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	readings, err := s.ListClubReadings(ctx, "club-1")
	require.NoError(t, err)
	require.Len(t, readings, 1)
	require.NotNil(t, readings[0].FinishedAt)
}
