package domain

import (
	"sort"
	"time"
)

// Streak describes a user's run of consecutive reading days.
type Streak struct {
	Current     int    `json:"current"`
	Longest     int    `json:"longest"`
	LastReadDay string `json:"last_read_day,omitempty"`
}

// ComputeStreak derives the current and longest reading streaks from a set of
// reading dates (DateLayout strings, duplicates allowed, any order). It is a
// pure function of its inputs and the supplied "today".
//
// The current streak counts consecutive days ending today or yesterday; a run
// whose last day is yesterday is still alive, since the reader may simply not
// have logged today yet. Any older last day means the streak is broken and
// the current streak is zero, even though the longest streak remembers it.
func ComputeStreak(dates []string, today time.Time) Streak {
	seen := make(map[string]struct{}, len(dates))
	unique := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			continue
		}
		unique = append(unique, t)
	}
	if len(unique) == 0 {
		return Streak{}
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].After(unique[j]) })

	streak := Streak{LastReadDay: unique[0].Format(DateLayout)}

	// Longest: walk newest to oldest counting consecutive runs.
	run := 1
	for i := 1; i < len(unique); i++ {
		if unique[i-1].Sub(unique[i]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > streak.Longest {
			streak.Longest = run
		}
	}
	if streak.Longest < 1 {
		streak.Longest = 1
	}

	todayStr := today.Format(DateLayout)
	yesterdayStr := today.AddDate(0, 0, -1).Format(DateLayout)
	last := streak.LastReadDay
	if last != todayStr && last != yesterdayStr {
		return streak
	}

	streak.Current = 1
	for i := 1; i < len(unique); i++ {
		if unique[i-1].Sub(unique[i]) != 24*time.Hour {
			break
		}
		streak.Current++
	}
	if streak.Current > streak.Longest {
		streak.Longest = streak.Current
	}
	return streak
}
