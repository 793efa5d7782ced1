package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	cells := NewBoard()
	require.Len(t, cells, BingoCells)
	for i, c := range cells {
		if i == FreeCellIndex {
			assert.True(t, c.Completed, "free cell starts completed")
		} else {
			assert.False(t, c.Completed, "cell %d", i)
		}
	}
}

func TestHasBingo_FreshBoard(t *testing.T) {
	assert.False(t, HasBingo(NewBoard()))
}

func TestHasBingo_Rows(t *testing.T) {
	for r := range BingoSize {
		cells := NewBoard()
		for c := range BingoSize {
			cells[r*BingoSize+c].Completed = true
		}
		assert.True(t, HasBingo(cells), "row %d", r)
	}
}

func TestHasBingo_Columns(t *testing.T) {
	for c := range BingoSize {
		cells := NewBoard()
		for r := range BingoSize {
			cells[r*BingoSize+c].Completed = true
		}
		assert.True(t, HasBingo(cells), "column %d", c)
	}
}

func TestHasBingo_Diagonals(t *testing.T) {
	cells := NewBoard()
	for i := range BingoSize {
		cells[i*BingoSize+i].Completed = true
	}
	assert.True(t, HasBingo(cells), "main diagonal")

	cells = NewBoard()
	for i := range BingoSize {
		cells[i*BingoSize+(BingoSize-1-i)].Completed = true
	}
	assert.True(t, HasBingo(cells), "anti diagonal")
}

func TestHasBingo_FreeCellCountsTowardLines(t *testing.T) {
	// Middle row needs only the four non-free cells.
	cells := NewBoard()
	for _, i := range []int{10, 11, 13, 14} {
		cells[i].Completed = true
	}
	assert.True(t, HasBingo(cells))
}

func TestHasBingo_FourInARowIsNotBingo(t *testing.T) {
	cells := NewBoard()
	for c := range 4 {
		cells[c].Completed = true
	}
	assert.False(t, HasBingo(cells))
}

func TestHasBingo_WrongSizeBoard(t *testing.T) {
	assert.False(t, HasBingo(make([]BingoCell, 24)))
	assert.False(t, HasBingo(nil))
}

func TestChallengeProgress_CompleteAndClear(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := &ChallengeProgress{Cells: NewBoard()}

	p.CompleteCell(0, "book-1", "Dune", now)
	assert.True(t, p.Cells[0].Completed)
	assert.Equal(t, "Dune", p.Cells[0].BookTitle)
	assert.False(t, p.Completed)

	p.ClearCell(0, now)
	assert.False(t, p.Cells[0].Completed)
	assert.Empty(t, p.Cells[0].BookID)
}

func TestChallengeProgress_ClearFreeCellIgnored(t *testing.T) {
	p := &ChallengeProgress{Cells: NewBoard()}
	p.ClearCell(FreeCellIndex, time.Now())
	assert.True(t, p.Cells[FreeCellIndex].Completed)
}

func TestChallengeProgress_BingoLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := &ChallengeProgress{Cells: NewBoard()}

	// Complete the middle row around the free cell.
	for _, i := range []int{10, 11, 13} {
		p.CompleteCell(i, "", "", now)
		assert.False(t, p.Completed)
	}
	p.CompleteCell(14, "", "", now)
	require.True(t, p.Completed)
	require.NotNil(t, p.CompletedAt)
	first := *p.CompletedAt

	// Completing another cell keeps the original completion time.
	later := now.Add(time.Hour)
	p.CompleteCell(0, "", "", later)
	assert.Equal(t, first, *p.CompletedAt)

	// Clearing a line cell takes the bingo away.
	p.ClearCell(11, later)
	assert.False(t, p.Completed)
	assert.Nil(t, p.CompletedAt)
}

func TestChallengeActive(t *testing.T) {
	ch := Challenge{
		StartsAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	assert.True(t, ch.Active(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ch.Active(ch.StartsAt))
	assert.True(t, ch.Active(ch.EndsAt))
	assert.False(t, ch.Active(ch.StartsAt.Add(-time.Second)))
	assert.False(t, ch.Active(ch.EndsAt.Add(time.Second)))
}

func TestValidCellIndex(t *testing.T) {
	assert.True(t, ValidCellIndex(0))
	assert.True(t, ValidCellIndex(24))
	assert.False(t, ValidCellIndex(-1))
	assert.False(t, ValidCellIndex(25))
}
