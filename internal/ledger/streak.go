package ledger

import (
	"github.com/julianstephens/kindling/internal/models"
)

// daySet indexes completion records by day for O(1) consecutive-run walks.
type daySet map[models.Day]models.Completion

func indexByDay(completions []models.Completion) daySet {
	set := make(daySet, len(completions))
	for _, c := range completions {
		set[c.Day] = c
	}
	return set
}

// currentStreak walks backwards from the anchor day counting consecutive
// filled days (completed or skipped). The streak is live when its most
// recent day is today or yesterday; otherwise it has lapsed and counts as
// zero. The walk is capped at lookback days so a pathological history
// cannot make the computation unbounded.
func currentStreak(set daySet, today models.Day, lookback int) int {
	anchor := today
	if _, ok := set[anchor]; !ok {
		anchor = today.Prev()
		if _, ok := set[anchor]; !ok {
			return 0
		}
	}

	streak := 0
	day := anchor
	for streak < lookback {
		if _, ok := set[day]; !ok {
			break
		}
		streak++
		day = day.Prev()
	}
	return streak
}

// runHasSkip reports whether the live run ending at today or yesterday
// contains a credit-funded skip. The walk is capped like currentStreak's.
func runHasSkip(set daySet, today models.Day, lookback int) bool {
	anchor := today
	if _, ok := set[anchor]; !ok {
		anchor = today.Prev()
		if _, ok := set[anchor]; !ok {
			return false
		}
	}

	day := anchor
	for steps := 0; steps < lookback; steps++ {
		c, ok := set[day]
		if !ok {
			return false
		}
		if c.Skipped {
			return true
		}
		day = day.Prev()
	}
	return false
}

// longestStreak scans the whole history for the longest consecutive run of
// filled days, regardless of whether that run is still live.
func longestStreak(set daySet) int {
	longest := 0
	for day := range set {
		// Only start counting from the first day of a run.
		if _, ok := set[day.Prev()]; ok {
			continue
		}
		run := 0
		for d := day; ; d = d.Next() {
			if _, ok := set[d]; !ok {
				break
			}
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// lastCompletedDay returns the most recent day with a genuine (non-skipped)
// completion, or the zero Day when none exists.
func lastCompletedDay(completions []models.Completion) models.Day {
	var last models.Day
	for _, c := range completions {
		if c.Skipped {
			continue
		}
		if last.IsZero() || c.Day.After(last) {
			last = c.Day
		}
	}
	return last
}
