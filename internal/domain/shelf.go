package domain

import "time"

// Status is the shelf status of a book for a user.
type Status string

const (
	StatusWant      Status = "want"
	StatusReading   Status = "reading"
	StatusRead      Status = "read"
	StatusAbandoned Status = "abandoned"
)

// Valid reports whether s is a known shelf status.
func (s Status) Valid() bool {
	switch s {
	case StatusWant, StatusReading, StatusRead, StatusAbandoned:
		return true
	}
	return false
}

// ShelfEntry is a user's relationship to a book: its shelf status, optional
// rating and review, and the reading timeline. At most one entry exists per
// (user, book) pair.
type ShelfEntry struct {
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Book       *Book      `json:"book,omitempty"`
	Rating     *int       `json:"rating,omitempty"` // 1-5, only meaningful once read
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	Status     Status     `json:"status"`
	Review     string     `json:"review,omitempty"`
}

// SetStatus transitions the entry to a new status, stamping the reading
// timeline as a side effect. Moving to reading records started_at and moving
// to read records finished_at, but existing stamps are never overwritten so
// re-shelving keeps the original dates.
func (e *ShelfEntry) SetStatus(status Status, now time.Time) {
	e.Status = status
	switch status {
	case StatusReading:
		if e.StartedAt == nil {
			t := now
			e.StartedAt = &t
		}
	case StatusRead:
		if e.StartedAt == nil {
			t := now
			e.StartedAt = &t
		}
		if e.FinishedAt == nil {
			t := now
			e.FinishedAt = &t
		}
	}
	e.UpdatedAt = now
}

// ValidRating reports whether r is an acceptable star rating.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
