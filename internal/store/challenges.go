package store

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"

	"github.com/leituraapp/leitura-server/internal/domain"
)

const challengeColumns = `id, created_at, club_id, created_by, title, description,
	prompts, starts_at, ends_at`

func scanChallenge(scanner interface{ Scan(dest ...any) error }) (*domain.Challenge, error) {
	var c domain.Challenge
	var createdAt, startsAt, endsAt, prompts string

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&c.ClubID,
		&c.CreatedBy,
		&c.Title,
		&c.Description,
		&prompts,
		&startsAt,
		&endsAt,
	)
	if err != nil {
		return nil, err
	}

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.StartsAt, err = parseTime(startsAt); err != nil {
		return nil, err
	}
	if c.EndsAt, err = parseTime(endsAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(prompts), &c.Prompts); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	return &c, nil
}

// CreateChallenge inserts a new bingo challenge.
func (s *Store) CreateChallenge(ctx context.Context, c *domain.Challenge) error {
	prompts, err := json.Marshal(c.Prompts)
	if err != nil {
		return fmt.Errorf("marshal prompts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO challenges (
			id, created_at, club_id, created_by, title, description,
			prompts, starts_at, ends_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		formatTime(c.CreatedAt),
		c.ClubID,
		c.CreatedBy,
		c.Title,
		c.Description,
		string(prompts),
		formatTime(c.StartsAt),
		formatTime(c.EndsAt),
	)
	return err
}

// GetChallenge retrieves a challenge by ID.
func (s *Store) GetChallenge(ctx context.Context, id string) (*domain.Challenge, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = ?`, id)

	c, err := scanChallenge(row)
	if err != nil {
		return nil, notFound(err, "challenge")
	}
	return c, nil
}

// ListChallenges returns challenges, optionally filtered by club. With an
// empty clubID, standalone challenges are returned.
func (s *Store) ListChallenges(ctx context.Context, clubID string) ([]*domain.Challenge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE club_id = ? ORDER BY created_at DESC`,
		clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []*domain.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

// UpsertChallengeProgress writes a participant's full board state, keyed by
// (challenge, user). The whole cell array is replaced on conflict.
func (s *Store) UpsertChallengeProgress(ctx context.Context, p *domain.ChallengeProgress) error {
	cells, err := json.Marshal(p.Cells)
	if err != nil {
		return fmt.Errorf("marshal cells: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO challenge_progress (
			challenge_id, user_id, cells, completed, completed_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (challenge_id, user_id) DO UPDATE SET
			cells = excluded.cells,
			completed = excluded.completed,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at`,
		p.ChallengeID,
		p.UserID,
		string(cells),
		boolToInt(p.Completed),
		nullTimeString(p.CompletedAt),
		formatTime(p.UpdatedAt),
	)
	return err
}

func scanChallengeProgress(scanner interface{ Scan(dest ...any) error }) (*domain.ChallengeProgress, error) {
	var p domain.ChallengeProgress
	var cells, updatedAt string
	var completed int
	var completedAt sql.NullString

	err := scanner.Scan(
		&p.ChallengeID,
		&p.UserID,
		&cells,
		&completed,
		&completedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Completed = completed != 0
	if p.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cells), &p.Cells); err != nil {
		return nil, fmt.Errorf("parse cells: %w", err)
	}
	return &p, nil
}

const challengeProgressColumns = `challenge_id, user_id, cells, completed, completed_at, updated_at`

// GetChallengeProgress retrieves a participant's board state.
func (s *Store) GetChallengeProgress(ctx context.Context, challengeID, userID string) (*domain.ChallengeProgress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+challengeProgressColumns+` FROM challenge_progress
		 WHERE challenge_id = ? AND user_id = ?`, challengeID, userID)

	p, err := scanChallengeProgress(row)
	if err != nil {
		return nil, notFound(err, "challenge progress")
	}
	return p, nil
}

// ListChallengeProgress returns all participants' boards for a challenge,
// finishers first.
func (s *Store) ListChallengeProgress(ctx context.Context, challengeID string) ([]*domain.ChallengeProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+challengeProgressColumns+` FROM challenge_progress
		 WHERE challenge_id = ? ORDER BY completed DESC, updated_at DESC`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []*domain.ChallengeProgress
	for rows.Next() {
		p, err := scanChallengeProgress(rows)
		if err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
