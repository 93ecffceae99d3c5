// Package clock provides the calendar-day source used for streak accounting.
// The ledger engine and lapse sweeper take a Clock by injection so tests can
// supply deterministic days instead of reading ambient system time.
package clock

import (
	"time"

	"github.com/julianstephens/kindling/internal/models"
)

type Clock interface {
	Now() time.Time
	Today() models.Day
	Yesterday() models.Day
}

// System reads the real wall clock, normalized to UTC calendar days.
type System struct{}

func NewSystem() System { return System{} }

func (System) Now() time.Time { return time.Now() }

func (s System) Today() models.Day { return models.DayOf(s.Now()) }

func (s System) Yesterday() models.Day { return s.Today().Prev() }

// Fixed is pinned to a single calendar day.
type Fixed struct {
	Day models.Day
}

func NewFixed(day models.Day) Fixed { return Fixed{Day: day} }

func (f Fixed) Now() time.Time { return f.Day.Time() }

func (f Fixed) Today() models.Day { return f.Day }

func (f Fixed) Yesterday() models.Day { return f.Day.Prev() }
