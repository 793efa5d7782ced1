package domain

import "fmt"

// YearStats summarizes a user's reading activity for one calendar year.
//
// TotalPages and TotalPagesLogged measure different things: the former sums
// page counts of books finished during the year, the latter sums the pages
// recorded in progress sessions. A book finished without logged sessions
// contributes only to the first; a half-read book only to the second.
type YearStats struct {
	Year             int     `json:"year"`
	BooksRead        int     `json:"books_read"`
	TotalPages       int     `json:"total_pages"`
	TotalPagesLogged int     `json:"total_pages_logged"`
	TotalMinutes     int     `json:"total_minutes"`
	ReadingDays      int     `json:"reading_days"`
	AverageRating    float64 `json:"average_rating,omitempty"`
	// MonthlyBooks counts finished books per month, index 0 = January.
	MonthlyBooks [12]int `json:"monthly_books"`
}

// AggregateYear computes YearStats from a user's full shelf and progress log.
// It is a pure function of its inputs; callers pass a consistent snapshot.
//
// Year membership is decided on calendar-date strings rather than parsed
// timestamps, so a book finished at 23:50 on Dec 31 stays in its year
// regardless of the server timezone.
func AggregateYear(entries []ShelfEntry, progress []ProgressEntry, year int) YearStats {
	stats := YearStats{Year: year}

	lo := fmt.Sprintf("%04d-01-01", year)
	hi := fmt.Sprintf("%04d-12-31", year)

	var ratingSum, ratingCount int
	for _, e := range entries {
		if e.Status != StatusRead || e.FinishedAt == nil {
			continue
		}
		date := e.FinishedAt.Format(DateLayout)
		if date < lo || date > hi {
			continue
		}
		stats.BooksRead++
		stats.MonthlyBooks[int(e.FinishedAt.Month())-1]++
		if e.Book != nil {
			stats.TotalPages += e.Book.Pages
		}
		if e.Rating != nil {
			ratingSum += *e.Rating
			ratingCount++
		}
	}
	if ratingCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(ratingCount)
	}

	days := make(map[string]struct{})
	for _, p := range progress {
		if p.ReadingDate < lo || p.ReadingDate > hi {
			continue
		}
		stats.TotalPagesLogged += p.PagesRead
		stats.TotalMinutes += p.MinutesRead
		days[p.ReadingDate] = struct{}{}
	}
	stats.ReadingDays = len(days)

	return stats
}
