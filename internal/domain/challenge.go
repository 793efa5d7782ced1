package domain

import "time"

// Bingo board geometry. Cells are stored row-major, so the cell at
// row r and column c lives at index r*BingoSize+c.
const (
	BingoSize     = 5
	BingoCells    = BingoSize * BingoSize
	FreeCellIndex = 12 // center of the board, completed for everyone
)

// Challenge is a bingo reading challenge: a 5x5 board of prompts that
// participants fill by finishing matching books. A challenge may belong to a
// club or stand alone.
type Challenge struct {
	CreatedAt   time.Time `json:"created_at"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Prompts     []string  `json:"prompts"` // exactly BingoCells entries, row-major
}

// Active reports whether the challenge accepts progress updates at t.
func (c *Challenge) Active(t time.Time) bool {
	return !t.Before(c.StartsAt) && !t.After(c.EndsAt)
}

// BingoCell is a participant's state for one board cell.
type BingoCell struct {
	Completed bool   `json:"completed"`
	BookID    string `json:"book_id,omitempty"`
	BookTitle string `json:"book_title,omitempty"`
}

// ChallengeProgress is one participant's board state for a challenge.
// The full cell array is persisted as a unit keyed by (challenge, user).
type ChallengeProgress struct {
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	ChallengeID string      `json:"challenge_id"`
	UserID      string      `json:"user_id"`
	Cells       []BingoCell `json:"cells"` // exactly BingoCells entries
	Completed   bool        `json:"completed"`
}

// NewBoard returns a fresh cell array with only the free cell completed.
func NewBoard() []BingoCell {
	cells := make([]BingoCell, BingoCells)
	cells[FreeCellIndex].Completed = true
	return cells
}

// ValidCellIndex reports whether i addresses a board cell.
func ValidCellIndex(i int) bool {
	return i >= 0 && i < BingoCells
}

// CompleteCell marks cell i done, optionally recording the book that earned
// it, and refreshes the board's bingo state.
func (p *ChallengeProgress) CompleteCell(i int, bookID, bookTitle string, now time.Time) {
	p.Cells[i].Completed = true
	p.Cells[i].BookID = bookID
	p.Cells[i].BookTitle = bookTitle
	p.refresh(now)
}

// ClearCell reverts cell i to incomplete. The free cell is left alone.
func (p *ChallengeProgress) ClearCell(i int, now time.Time) {
	if i == FreeCellIndex {
		return
	}
	p.Cells[i] = BingoCell{}
	p.refresh(now)
}

// refresh recomputes Completed and CompletedAt after a cell change.
// CompletedAt records the first time the board reached bingo; clearing cells
// can take the bingo away again.
func (p *ChallengeProgress) refresh(now time.Time) {
	p.UpdatedAt = now
	if HasBingo(p.Cells) {
		p.Completed = true
		if p.CompletedAt == nil {
			t := now
			p.CompletedAt = &t
		}
		return
	}
	p.Completed = false
	p.CompletedAt = nil
}

// HasBingo reports whether any full row, column, or diagonal is completed.
// The free cell counts like any completed cell. Boards of the wrong size
// never have bingo.
func HasBingo(cells []BingoCell) bool {
	if len(cells) != BingoCells {
		return false
	}
	done := func(r, c int) bool { return cells[r*BingoSize+c].Completed }

	for r := range BingoSize {
		full := true
		for c := range BingoSize {
			if !done(r, c) {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}
	for c := range BingoSize {
		full := true
		for r := range BingoSize {
			if !done(r, c) {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}

	diag, anti := true, true
	for i := range BingoSize {
		if !done(i, i) {
			diag = false
		}
		if !done(i, BingoSize-1-i) {
			anti = false
		}
	}
	return diag || anti
}
