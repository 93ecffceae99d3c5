package models

import (
	"fmt"
	"time"
)

// Day is a calendar day in YYYY-MM-DD format with no time-of-day component.
// Days are always derived from UTC wall-clock time; storage and comparison use
// the same normalization, so two Days are equal iff their strings are equal,
// and lexicographic order is chronological order.
type Day string

// DayOf normalizes a timestamp to its UTC calendar day.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format("2006-01-02"))
}

// ParseDay validates a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Day(s), nil
}

// Time returns the day's UTC midnight. Zero Days return the zero time.
func (d Day) Time() time.Time {
	if d == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Prev returns the previous calendar day.
func (d Day) Prev() Day {
	return DayOf(d.Time().AddDate(0, 0, -1))
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return DayOf(d.Time().AddDate(0, 0, 1))
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return string(d) > string(other)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return string(d) < string(other)
}

func (d Day) IsZero() bool {
	return d == ""
}

func (d Day) String() string {
	return string(d)
}
