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

// GoalService manages yearly reading goals.
type GoalService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(store *store.Store, logger *slog.Logger) *GoalService {
	return &GoalService{store: store, logger: logger}
}

// Set creates or updates the user's goal for a year. Setting a goal twice
// replaces the target.
func (s *GoalService) Set(ctx context.Context, userID string, year, targetBooks int) (*domain.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if year < 1000 || year > 9999 {
		return nil, domainerrors.Validationf("invalid year %d", year)
	}
	if targetBooks < 1 {
		return nil, domainerrors.Validation("target must be at least 1 book")
	}

	goalID, err := id.Generate("goal")
	if err != nil {
		return nil, fmt.Errorf("generate goal ID: %w", err)
	}

	now := time.Now()
	goal := &domain.Goal{
		ID:          goalID,
		UserID:      userID,
		Year:        year,
		TargetBooks: targetBooks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.UpsertGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("upsert goal: %w", err)
	}

	// Re-read: an upsert over an existing year keeps the original row.
	return s.store.GetGoal(ctx, userID, year)
}

// Get returns the user's goal for a year with progress attached.
func (s *GoalService) Get(ctx context.Context, userID string, year int) (*domain.GoalProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	goal, err := s.store.GetGoal(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	booksRead, err := s.booksReadInYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	progress := domain.NewGoalProgress(*goal, booksRead)
	return &progress, nil
}

// List returns all the user's goals with progress attached, newest first.
func (s *GoalService) List(ctx context.Context, userID string) ([]domain.GoalProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One shelf read covers every year.
	shelf, err := s.store.ListShelf(ctx, userID, domain.StatusRead)
	if err != nil {
		return nil, err
	}

	result := make([]domain.GoalProgress, 0, len(goals))
	for _, goal := range goals {
		result = append(result, domain.NewGoalProgress(*goal, countFinishedInYear(shelf, goal.Year)))
	}
	return result, nil
}

func (s *GoalService) booksReadInYear(ctx context.Context, userID string, year int) (int, error) {
	shelf, err := s.store.ListShelf(ctx, userID, domain.StatusRead)
	if err != nil {
		return 0, fmt.Errorf("list shelf: %w", err)
	}
	return countFinishedInYear(shelf, year), nil
}

func countFinishedInYear(shelf []*domain.ShelfEntry, year int) int {
	lo := fmt.Sprintf("%04d-01-01", year)
	hi := fmt.Sprintf("%04d-12-31", year)

	count := 0
	for _, e := range shelf {
		if e.FinishedAt == nil {
			continue
		}
		date := e.FinishedAt.Format(domain.DateLayout)
		if date >= lo && date <= hi {
			count++
		}
	}
	return count
}
