package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/id"
	"github.com/leituraapp/leitura-server/internal/store"
)

// inviteCodeAttempts bounds retries on invite code collisions. With a 6-char
// code over a 31-letter alphabet a collision is already vanishingly rare.
const inviteCodeAttempts = 5

// ClubService manages reading clubs.
type ClubService struct {
	store    *store.Store
	resolver *ResolverService
	logger   *slog.Logger
}

// NewClubService creates a new club service.
func NewClubService(store *store.Store, resolver *ResolverService, logger *slog.Logger) *ClubService {
	return &ClubService{store: store, resolver: resolver, logger: logger}
}

// Create sets up a new club with the creator as owner.
func (s *ClubService) Create(ctx context.Context, userID, name, description, coverURL string) (*domain.Club, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("club name cannot be empty")
	}

	clubID, err := id.Generate("club")
	if err != nil {
		return nil, fmt.Errorf("generate club ID: %w", err)
	}

	now := time.Now()
	club := &domain.Club{
		ID:          clubID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		Description: description,
		CoverURL:    coverURL,
		CreatedBy:   userID,
	}

	for attempt := 0; ; attempt++ {
		club.InviteCode, err = id.InviteCode()
		if err != nil {
			return nil, fmt.Errorf("generate invite code: %w", err)
		}
		err = s.store.CreateClub(ctx, club)
		if err == nil {
			break
		}
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) && attempt < inviteCodeAttempts {
			continue
		}
		return nil, fmt.Errorf("create club: %w", err)
	}

	if err := s.store.AddClubMember(ctx, &domain.ClubMember{
		ClubID:   club.ID,
		UserID:   userID,
		Role:     domain.RoleOwner,
		JoinedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("add owner: %w", err)
	}

	s.logger.Info("club created",
		"club_id", club.ID,
		"name", name,
	)
	return club, nil
}

// Join adds the user to the club behind an invite code.
func (s *ClubService) Join(ctx context.Context, userID, inviteCode string) (*domain.Club, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	club, err := s.store.GetClubByInviteCode(ctx, inviteCode)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("no club with that invite code")
		}
		return nil, err
	}

	if err := s.store.AddClubMember(ctx, &domain.ClubMember{
		ClubID:   club.ID,
		UserID:   userID,
		Role:     domain.RoleMember,
		JoinedAt: time.Now(),
	}); err != nil {
		return nil, err
	}
	return club, nil
}

// Leave removes the user from a club. The owner cannot leave; clubs are not
// transferable yet.
// TODO: ownership transfer so owners can leave without orphaning the club.
func (s *ClubService) Leave(ctx context.Context, clubID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	member, err := s.store.GetClubMember(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if member.Role == domain.RoleOwner {
		return domainerrors.Conflict("the owner cannot leave the club")
	}
	return s.store.RemoveClubMember(ctx, clubID, userID)
}

// Get returns a club. Only members can see it.
func (s *ClubService) Get(ctx context.Context, clubID, userID string) (*domain.Club, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, clubID, userID); err != nil {
		return nil, err
	}
	return s.store.GetClub(ctx, clubID)
}

// ListMine returns the clubs the user belongs to.
func (s *ClubService) ListMine(ctx context.Context, userID string) ([]*domain.Club, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListUserClubs(ctx, userID)
}

// Members returns a club's member list. Only members can see it.
func (s *ClubService) Members(ctx context.Context, clubID, userID string) ([]*domain.ClubMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, clubID, userID); err != nil {
		return nil, err
	}
	return s.store.ListClubMembers(ctx, clubID)
}

// StartReading begins a club reading of a resolved book. A club reads one
// book at a time.
func (s *ClubService) StartReading(ctx context.Context, clubID, userID string, candidate domain.BookCandidate, targetDate *time.Time) (*domain.ClubReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, clubID, userID); err != nil {
		return nil, err
	}

	if _, err := s.store.GetActiveClubReading(ctx, clubID); err == nil {
		return nil, domainerrors.Conflict("the club already has an active reading")
	} else if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	book, err := s.resolver.Resolve(ctx, candidate)
	if err != nil {
		return nil, err
	}

	readingID, err := id.Generate("reading")
	if err != nil {
		return nil, fmt.Errorf("generate reading ID: %w", err)
	}

	now := time.Now()
	reading := &domain.ClubReading{
		ID:         readingID,
		ClubID:     clubID,
		BookID:     book.ID,
		Status:     domain.ReadingActive,
		StartedAt:  now,
		TargetDate: targetDate,
		CreatedAt:  now,
	}
	if err := s.store.CreateClubReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("create club reading: %w", err)
	}
	reading.Book = book
	return reading, nil
}

// FinishReading marks the club's active reading as finished.
func (s *ClubService) FinishReading(ctx context.Context, clubID, userID string) (*domain.ClubReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, clubID, userID); err != nil {
		return nil, err
	}

	reading, err := s.store.GetActiveClubReading(ctx, clubID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Conflict("the club has no active reading")
		}
		return nil, err
	}

	now := time.Now()
	reading.Status = domain.ReadingFinished
	reading.FinishedAt = &now
	if err := s.store.UpdateClubReading(ctx, reading); err != nil {
		return nil, err
	}
	return reading, nil
}

// Readings returns a club's reading history, newest first.
func (s *ClubService) Readings(ctx context.Context, clubID, userID string) ([]*domain.ClubReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, clubID, userID); err != nil {
		return nil, err
	}
	return s.store.ListClubReadings(ctx, clubID)
}

func (s *ClubService) requireMember(ctx context.Context, clubID, userID string) error {
	_, err := s.store.GetClubMember(ctx, clubID, userID)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.Forbidden("not a member of this club")
	}
	return err
}
