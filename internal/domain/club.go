package domain

import "time"

// Club is a reading group. Members join via the invite code.
type Club struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	InviteCode  string    `json:"invite_code"`
	CreatedBy   string    `json:"created_by"`
}

// Club member roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// ClubMember is a user's membership in a club.
type ClubMember struct {
	JoinedAt time.Time `json:"joined_at"`
	ClubID   string    `json:"club_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	// Denormalized for member listings.
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Club reading statuses.
const (
	ReadingActive   = "active"
	ReadingFinished = "finished"
)

// ClubReading is a book the club is reading together. A club has at most one
// active reading at a time.
type ClubReading struct {
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  time.Time  `json:"started_at"`
	TargetDate *time.Time `json:"target_date,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Book       *Book      `json:"book,omitempty"`
	ID         string     `json:"id"`
	ClubID     string     `json:"club_id"`
	BookID     string     `json:"book_id"`
	Status     string     `json:"status"`
}
