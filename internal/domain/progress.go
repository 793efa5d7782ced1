package domain

import "time"

// DateLayout is the calendar-date form used for reading dates. Reading days
// are compared as plain dates so a session logged late at night counts for
// the day the reader saw on the clock, independent of server timezone.
const DateLayout = "2006-01-02"

// ProgressEntry is a single logged reading session. Pages and minutes are
// both optional; an entry with neither still marks the day as a reading day.
type ProgressEntry struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	BookID      string    `json:"book_id"`
	ReadingDate string    `json:"reading_date"` // calendar date, DateLayout
	Note        string    `json:"note,omitempty"`
	PagesRead   int       `json:"pages_read,omitempty"`
	MinutesRead int       `json:"minutes_read,omitempty"`
	CurrentPage int       `json:"current_page,omitempty"`
}

// ValidReadingDate reports whether s parses as a calendar date.
func ValidReadingDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Goal is a user's yearly reading target. One goal per (user, year).
type Goal struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Year        int       `json:"year"`
	TargetBooks int       `json:"target_books"`
}

// GoalProgress pairs a goal with the number of books finished in its year.
type GoalProgress struct {
	Goal      Goal    `json:"goal"`
	BooksRead int     `json:"books_read"`
	Percent   float64 `json:"percent"`
	Completed bool    `json:"completed"`
}

// NewGoalProgress computes progress toward a goal from a finished-book count.
func NewGoalProgress(goal Goal, booksRead int) GoalProgress {
	p := GoalProgress{Goal: goal, BooksRead: booksRead}
	if goal.TargetBooks > 0 {
		p.Percent = float64(booksRead) / float64(goal.TargetBooks) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
		p.Completed = booksRead >= goal.TargetBooks
	}
	return p
}
