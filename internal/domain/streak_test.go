package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestComputeStreak_Empty(t *testing.T) {
	got := ComputeStreak(nil, mustDay(t, "2026-03-10"))
	assert.Equal(t, 0, got.Current)
	assert.Equal(t, 0, got.Longest)
	assert.Empty(t, got.LastReadDay)
}

func TestComputeStreak_SingleDayToday(t *testing.T) {
	got := ComputeStreak([]string{"2026-03-10"}, mustDay(t, "2026-03-10"))
	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 1, got.Longest)
}

func TestComputeStreak_SingleDayYesterday(t *testing.T) {
	// Nothing logged today yet; yesterday's lone entry still counts.
	got := ComputeStreak([]string{"2026-03-09"}, mustDay(t, "2026-03-10"))
	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 1, got.Longest)
	assert.Equal(t, "2026-03-09", got.LastReadDay)
}

func TestComputeStreak_YesterdayKeepsStreakAlive(t *testing.T) {
	dates := []string{"2026-03-07", "2026-03-08", "2026-03-09"}
	got := ComputeStreak(dates, mustDay(t, "2026-03-10"))
	assert.Equal(t, 3, got.Current)
	assert.Equal(t, 3, got.Longest)
}

func TestComputeStreak_TwoDayGapBreaks(t *testing.T) {
	dates := []string{"2026-03-06", "2026-03-07", "2026-03-08"}
	got := ComputeStreak(dates, mustDay(t, "2026-03-10"))
	assert.Equal(t, 0, got.Current)
	assert.Equal(t, 3, got.Longest, "broken run still counts toward longest")
	assert.Equal(t, "2026-03-08", got.LastReadDay)
}

func TestComputeStreak_GapInsideRun(t *testing.T) {
	// Run of 2 ending today, older run of 3 behind a gap.
	dates := []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-09", "2026-03-10"}
	got := ComputeStreak(dates, mustDay(t, "2026-03-10"))
	assert.Equal(t, 2, got.Current)
	assert.Equal(t, 3, got.Longest)
}

func TestComputeStreak_DuplicatesIgnored(t *testing.T) {
	dates := []string{"2026-03-10", "2026-03-10", "2026-03-09", "2026-03-09"}
	got := ComputeStreak(dates, mustDay(t, "2026-03-10"))
	assert.Equal(t, 2, got.Current)
}

func TestComputeStreak_UnsortedInput(t *testing.T) {
	dates := []string{"2026-03-09", "2026-03-10", "2026-03-08"}
	got := ComputeStreak(dates, mustDay(t, "2026-03-10"))
	assert.Equal(t, 3, got.Current)
}

func TestComputeStreak_MalformedDatesSkipped(t *testing.T) {
	dates := []string{"not-a-date", "2026-03-10"}
	got := ComputeStreak(dates, mustDay(t, "2026-03-10"))
	assert.Equal(t, 1, got.Current)
}

func TestComputeStreak_MonthBoundary(t *testing.T) {
	dates := []string{"2026-02-28", "2026-03-01"}
	got := ComputeStreak(dates, mustDay(t, "2026-03-01"))
	assert.Equal(t, 2, got.Current)
}

func TestComputeStreak_YearBoundary(t *testing.T) {
	dates := []string{"2025-12-31", "2026-01-01"}
	got := ComputeStreak(dates, mustDay(t, "2026-01-01"))
	assert.Equal(t, 2, got.Current)
}
