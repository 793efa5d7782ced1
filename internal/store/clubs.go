package store

import (
	"context"
	"database/sql"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

const clubColumns = `id, created_at, updated_at, name, description, cover_url,
	invite_code, created_by`

func scanClub(scanner interface{ Scan(dest ...any) error }) (*domain.Club, error) {
	var c domain.Club
	var createdAt, updatedAt string

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&c.Name,
		&c.Description,
		&c.CoverURL,
		&c.InviteCode,
		&c.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClub inserts a new club.
// Returns an already-exists error on an invite code collision; callers may
// regenerate the code and retry.
func (s *Store) CreateClub(ctx context.Context, c *domain.Club) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clubs (
			id, created_at, updated_at, name, description, cover_url,
			invite_code, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
		c.Name,
		c.Description,
		c.CoverURL,
		c.InviteCode,
		c.CreatedBy,
	)
	if isUniqueViolation(err) {
		return domainerrors.AlreadyExists("invite code collision")
	}
	return err
}

// GetClub retrieves a club by ID.
func (s *Store) GetClub(ctx context.Context, id string) (*domain.Club, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE id = ?`, id)

	c, err := scanClub(row)
	if err != nil {
		return nil, notFound(err, "club")
	}
	return c, nil
}

// GetClubByInviteCode retrieves a club by its invite code.
func (s *Store) GetClubByInviteCode(ctx context.Context, code string) (*domain.Club, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE invite_code = ?`, code)

	c, err := scanClub(row)
	if err != nil {
		return nil, notFound(err, "club")
	}
	return c, nil
}

// ListUserClubs returns the clubs a user belongs to, oldest first.
func (s *Store) ListUserClubs(ctx context.Context, userID string) ([]*domain.Club, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.created_at, c.updated_at, c.name, c.description, c.cover_url,
			c.invite_code, c.created_by
		FROM clubs c
		JOIN club_members m ON m.club_id = c.id
		WHERE m.user_id = ?
		ORDER BY m.joined_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []*domain.Club
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

// AddClubMember adds a user to a club.
// Returns an already-exists error when the user is already a member.
func (s *Store) AddClubMember(ctx context.Context, m *domain.ClubMember) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO club_members (club_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)`,
		m.ClubID,
		m.UserID,
		m.Role,
		formatTime(m.JoinedAt),
	)
	if isUniqueViolation(err) {
		return domainerrors.AlreadyExists("already a member of this club")
	}
	return err
}

// RemoveClubMember removes a user from a club.
func (s *Store) RemoveClubMember(ctx context.Context, clubID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM club_members WHERE club_id = ? AND user_id = ?`, clubID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("not a member of this club")
	}
	return nil
}

// GetClubMember retrieves a user's membership in a club.
func (s *Store) GetClubMember(ctx context.Context, clubID, userID string) (*domain.ClubMember, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.club_id, m.user_id, m.role, m.joined_at, u.username, u.display_name
		FROM club_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.club_id = ? AND m.user_id = ?`, clubID, userID)

	m, err := scanClubMember(row)
	if err != nil {
		return nil, notFound(err, "club member")
	}
	return m, nil
}

func scanClubMember(scanner interface{ Scan(dest ...any) error }) (*domain.ClubMember, error) {
	var m domain.ClubMember
	var joinedAt string

	err := scanner.Scan(
		&m.ClubID,
		&m.UserID,
		&m.Role,
		&joinedAt,
		&m.Username,
		&m.DisplayName,
	)
	if err != nil {
		return nil, err
	}

	if m.JoinedAt, err = parseTime(joinedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListClubMembers returns a club's members with usernames attached.
func (s *Store) ListClubMembers(ctx context.Context, clubID string) ([]*domain.ClubMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.club_id, m.user_id, m.role, m.joined_at, u.username, u.display_name
		FROM club_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.club_id = ?
		ORDER BY m.joined_at ASC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.ClubMember
	for rows.Next() {
		m, err := scanClubMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

const clubReadingColumns = `r.id, r.club_id, r.book_id, r.status, r.started_at,
	r.target_date, r.finished_at, r.created_at`

func scanClubReading(scanner interface{ Scan(dest ...any) error }) (*domain.ClubReading, error) {
	var r domain.ClubReading
	var startedAt, createdAt string
	var targetDate, finishedAt sql.NullString

	err := scanner.Scan(
		&r.ID,
		&r.ClubID,
		&r.BookID,
		&r.Status,
		&startedAt,
		&targetDate,
		&finishedAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if r.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if r.TargetDate, err = parseNullableTime(targetDate); err != nil {
		return nil, err
	}
	if r.FinishedAt, err = parseNullableTime(finishedAt); err != nil {
		return nil, err
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateClubReading starts a new club reading.
func (s *Store) CreateClubReading(ctx context.Context, r *domain.ClubReading) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO club_readings (
			id, club_id, book_id, status, started_at, target_date, finished_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.ClubID,
		r.BookID,
		r.Status,
		formatTime(r.StartedAt),
		nullTimeString(r.TargetDate),
		nullTimeString(r.FinishedAt),
		formatTime(r.CreatedAt),
	)
	return err
}

// GetActiveClubReading returns a club's current active reading.
func (s *Store) GetActiveClubReading(ctx context.Context, clubID string) (*domain.ClubReading, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clubReadingColumns+` FROM club_readings r
		 WHERE r.club_id = ? AND r.status = ? ORDER BY r.started_at DESC LIMIT 1`,
		clubID, domain.ReadingActive)

	r, err := scanClubReading(row)
	if err != nil {
		return nil, notFound(err, "active reading")
	}
	return r, nil
}

// ListClubReadings returns a club's readings, newest first.
func (s *Store) ListClubReadings(ctx context.Context, clubID string) ([]*domain.ClubReading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clubReadingColumns+` FROM club_readings r
		 WHERE r.club_id = ? ORDER BY r.started_at DESC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []*domain.ClubReading
	for rows.Next() {
		r, err := scanClubReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// UpdateClubReading updates a reading's status and finish time.
func (s *Store) UpdateClubReading(ctx context.Context, r *domain.ClubReading) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE club_readings SET status = ?, target_date = ?, finished_at = ?
		WHERE id = ?`,
		r.Status,
		nullTimeString(r.TargetDate),
		nullTimeString(r.FinishedAt),
		r.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("club reading not found")
	}
	return nil
}
