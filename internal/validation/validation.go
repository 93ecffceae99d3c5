// Package validation detects drift between a habit's persisted streak/credit
// snapshot and its underlying completion history. The snapshot is a cache;
// direct edits or interrupted writes can leave it stale, and the doctor and
// validate commands use this package to find (and optionally heal) that.
package validation

import (
	"fmt"

	"github.com/julianstephens/kindling/internal/ledger"
	"github.com/julianstephens/kindling/internal/models"
)

// ConflictType classifies a detected inconsistency.
type ConflictType string

const (
	ConflictStreakDrift        ConflictType = "streak_drift"
	ConflictLongestBelowCur    ConflictType = "longest_below_current"
	ConflictNegativeCredits    ConflictType = "negative_credits"
	ConflictDuplicateDay       ConflictType = "duplicate_day"
	ConflictLastCompletedDrift ConflictType = "last_completed_drift"
)

// Conflict is one detected inconsistency on one habit.
type Conflict struct {
	Type        ConflictType
	HabitID     string
	HabitName   string
	Description string
}

// Result collects all conflicts found in a validation pass.
type Result struct {
	Conflicts []Conflict
}

func (r *Result) HasConflicts() bool { return len(r.Conflicts) > 0 }

// FormatReport returns a human-readable summary of all conflicts.
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No inconsistencies detected."
	}
	report := "Inconsistencies detected:\n"
	for _, c := range r.Conflicts {
		report += fmt.Sprintf("- [%s] %s: %s\n", c.Type, c.HabitName, c.Description)
	}
	return report
}

// FixAction describes one repair applied by AutoFix.
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// Validator checks habit snapshots against completion history.
type Validator struct {
	store ledger.Store
	svc   *ledger.Service
}

func New(store ledger.Store, svc *ledger.Service) *Validator {
	return &Validator{store: store, svc: svc}
}

// ValidateAll checks every non-deleted habit, archived included; an archived
// habit's history can drift too.
func (v *Validator) ValidateAll() (Result, error) {
	habits, err := v.store.GetAllHabits(true, false)
	if err != nil {
		return Result{}, fmt.Errorf("listing habits: %w", err)
	}

	var result Result
	for _, habit := range habits {
		conflicts, err := v.validateHabit(habit)
		if err != nil {
			return result, err
		}
		result.Conflicts = append(result.Conflicts, conflicts...)
	}
	return result, nil
}

func (v *Validator) validateHabit(habit models.Habit) ([]Conflict, error) {
	var conflicts []Conflict

	if habit.LongestStreak < habit.CurrentStreak {
		conflicts = append(conflicts, Conflict{
			Type:      ConflictLongestBelowCur,
			HabitID:   habit.ID,
			HabitName: habit.Name,
			Description: fmt.Sprintf("longest streak %d is below current streak %d",
				habit.LongestStreak, habit.CurrentStreak),
		})
	}
	if habit.Credits < 0 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictNegativeCredits,
			HabitID:     habit.ID,
			HabitName:   habit.Name,
			Description: fmt.Sprintf("credit balance is negative (%d)", habit.Credits),
		})
	}

	completions, err := v.store.ListCompletions(habit.ID)
	if err != nil {
		return nil, fmt.Errorf("listing completions for %q: %w", habit.Name, err)
	}

	seen := make(map[models.Day]int, len(completions))
	for _, c := range completions {
		seen[c.Day]++
	}
	for day, n := range seen {
		if n > 1 {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateDay,
				HabitID:     habit.ID,
				HabitName:   habit.Name,
				Description: fmt.Sprintf("%d records exist for %s, want at most 1", n, day),
			})
		}
	}

	// Only unarchived habits are held to the live-streak rule; an archived
	// habit's snapshot is frozen at archive time.
	if habit.Active() {
		recomputed := v.svc.RecomputeSnapshot(habit, completions)
		// A stored streak below the derived one is expected when the live run
		// is held by skips: skips fill the day without advancing the habit's
		// last-completed pointer, so the next genuine completion restarts the
		// stored count while the record walk keeps the full run.
		tolerated := habit.CurrentStreak <= recomputed.CurrentStreak &&
			v.svc.StreakHeldBySkips(completions)
		if recomputed.CurrentStreak != habit.CurrentStreak && !tolerated {
			conflicts = append(conflicts, Conflict{
				Type:      ConflictStreakDrift,
				HabitID:   habit.ID,
				HabitName: habit.Name,
				Description: fmt.Sprintf("stored streak %d does not match history-derived streak %d",
					habit.CurrentStreak, recomputed.CurrentStreak),
			})
		}
		if recomputed.LastCompletedAt != habit.LastCompletedAt {
			conflicts = append(conflicts, Conflict{
				Type:      ConflictLastCompletedDrift,
				HabitID:   habit.ID,
				HabitName: habit.Name,
				Description: fmt.Sprintf("stored last-completed day %q does not match history (%q)",
					habit.LastCompletedAt, recomputed.LastCompletedAt),
			})
		}
	}

	return conflicts, nil
}

// AutoFix recalculates every habit named in the conflicts, deduplicated. The
// recalculation is the single repair path: it rebuilds the snapshot from
// history with the same rules every other write uses.
func (v *Validator) AutoFix(conflicts []Conflict) ([]FixAction, error) {
	fixed := make(map[string]bool)
	var actions []FixAction
	for _, c := range conflicts {
		if fixed[c.HabitID] {
			continue
		}
		summary, err := v.svc.Recalculate(c.HabitID)
		if err != nil {
			return actions, fmt.Errorf("recalculating %q: %w", c.HabitName, err)
		}
		fixed[c.HabitID] = true
		actions = append(actions, FixAction{
			Action: fmt.Sprintf("recalculated %q: streak %d -> %d, credits %d -> %d",
				c.HabitName, summary.PrevStreak, summary.Habit.CurrentStreak,
				summary.PrevCredits, summary.Habit.Credits),
			SourceConflict: c,
		})
	}
	return actions, nil
}
