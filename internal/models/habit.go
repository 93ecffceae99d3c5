package models

import "time"

// Habit represents a recurring practice to track. The streak and credit
// fields are a persisted snapshot owned by the ledger engine; they are only
// mutated through ledger operations, never ad hoc.
type Habit struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Icon            string     `json:"icon,omitempty"`
	Color           string     `json:"color,omitempty"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	Credits         int        `json:"credits"`
	LastCompletedAt Day        `json:"last_completed_at,omitempty"` // empty when never completed
	CreatedAt       time.Time  `json:"created_at"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// Active reports whether the habit participates in daily tracking and the
// lapse sweep.
func (h Habit) Active() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}

// Completion is a single day's record for a habit: either a genuine
// completion or a credit-funded skip. At most one exists per (habit, day).
// Completions are never updated in place; a change of kind is delete+recreate.
type Completion struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Day       Day       `json:"day"`
	Skipped   bool      `json:"skipped"` // true = credit-funded skip
	CreatedAt time.Time `json:"created_at"`
}

// Settings holds user-tunable application settings.
type Settings struct {
	StreakLookbackDays int `json:"streak_lookback_days"`
	MaxBackups         int `json:"max_backups"`
}
