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

// ChallengeService manages bingo reading challenges.
type ChallengeService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewChallengeService creates a new challenge service.
func NewChallengeService(store *store.Store, logger *slog.Logger) *ChallengeService {
	return &ChallengeService{store: store, logger: logger}
}

// CreateInput describes a new bingo challenge.
type CreateChallengeInput struct {
	ClubID      string
	Title       string
	Description string
	Prompts     []string
	StartsAt    time.Time
	EndsAt      time.Time
}

// Create sets up a new challenge. A challenge attached to a club may only be
// created by a member.
func (s *ChallengeService) Create(ctx context.Context, userID string, in CreateChallengeInput) (*domain.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if in.Title == "" {
		return nil, domainerrors.Validation("challenge title cannot be empty")
	}
	if len(in.Prompts) != domain.BingoCells {
		return nil, domainerrors.Validationf("a bingo board needs exactly %d prompts, got %d", domain.BingoCells, len(in.Prompts))
	}
	if !in.EndsAt.After(in.StartsAt) {
		return nil, domainerrors.Validation("challenge must end after it starts")
	}
	if in.ClubID != "" {
		if _, err := s.store.GetClubMember(ctx, in.ClubID, userID); err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.Forbidden("only club members can create club challenges")
			}
			return nil, err
		}
	}

	challengeID, err := id.Generate("chal")
	if err != nil {
		return nil, fmt.Errorf("generate challenge ID: %w", err)
	}

	challenge := &domain.Challenge{
		ID:          challengeID,
		CreatedAt:   time.Now(),
		ClubID:      in.ClubID,
		CreatedBy:   userID,
		Title:       in.Title,
		Description: in.Description,
		Prompts:     in.Prompts,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
	}
	if err := s.store.CreateChallenge(ctx, challenge); err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	s.logger.Info("challenge created",
		"challenge_id", challenge.ID,
		"club_id", in.ClubID,
	)
	return challenge, nil
}

// Get returns a challenge together with the caller's board. Users who have
// not joined yet see a fresh board.
func (s *ChallengeService) Get(ctx context.Context, challengeID, userID string) (*domain.Challenge, *domain.ChallengeProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	challenge, err := s.store.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, nil, err
	}

	progress, err := s.store.GetChallengeProgress(ctx, challengeID, userID)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		progress = &domain.ChallengeProgress{
			ChallengeID: challengeID,
			UserID:      userID,
			Cells:       domain.NewBoard(),
			UpdatedAt:   time.Now(),
		}
		err = nil
	}
	if err != nil {
		return nil, nil, err
	}
	return challenge, progress, nil
}

// List returns challenges for a club, or standalone ones with an empty clubID.
func (s *ChallengeService) List(ctx context.Context, clubID string) ([]*domain.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListChallenges(ctx, clubID)
}

// CompleteCell marks a board cell done for the user, creating their board on
// first touch. The whole board is persisted as a unit.
func (s *ChallengeService) CompleteCell(ctx context.Context, challengeID, userID string, cellIndex int, bookID, bookTitle string) (*domain.ChallengeProgress, error) {
	return s.updateCell(ctx, challengeID, userID, cellIndex, func(p *domain.ChallengeProgress, now time.Time) {
		p.CompleteCell(cellIndex, bookID, bookTitle, now)
	})
}

// ClearCell reverts a board cell for the user. The free cell cannot be
// cleared.
func (s *ChallengeService) ClearCell(ctx context.Context, challengeID, userID string, cellIndex int) (*domain.ChallengeProgress, error) {
	if cellIndex == domain.FreeCellIndex {
		return nil, domainerrors.Validation("the free cell cannot be cleared")
	}
	return s.updateCell(ctx, challengeID, userID, cellIndex, func(p *domain.ChallengeProgress, now time.Time) {
		p.ClearCell(cellIndex, now)
	})
}

func (s *ChallengeService) updateCell(ctx context.Context, challengeID, userID string, cellIndex int, apply func(*domain.ChallengeProgress, time.Time)) (*domain.ChallengeProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !domain.ValidCellIndex(cellIndex) {
		return nil, domainerrors.Validationf("cell index must be 0-%d", domain.BingoCells-1)
	}

	challenge, err := s.store.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !challenge.Active(now) {
		return nil, domainerrors.Conflict("challenge is not active")
	}

	progress, err := s.store.GetChallengeProgress(ctx, challengeID, userID)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		progress = &domain.ChallengeProgress{
			ChallengeID: challengeID,
			UserID:      userID,
			Cells:       domain.NewBoard(),
		}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	wasComplete := progress.Completed
	apply(progress, now)

	if err := s.store.UpsertChallengeProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("upsert challenge progress: %w", err)
	}

	if progress.Completed && !wasComplete {
		s.logger.Info("bingo",
			"challenge_id", challengeID,
			"user_id", userID,
		)
	}
	return progress, nil
}

// Leaderboard returns all participants' boards for a challenge, finishers
// first.
func (s *ChallengeService) Leaderboard(ctx context.Context, challengeID string) ([]*domain.ChallengeProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetChallenge(ctx, challengeID); err != nil {
		return nil, err
	}
	return s.store.ListChallengeProgress(ctx, challengeID)
}
