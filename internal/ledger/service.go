package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/kindling/internal/clock"
	"github.com/julianstephens/kindling/internal/constants"
	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/storage"
)

// Store is the storage surface the ledger engine needs. storage.Provider
// satisfies it; tests supply an in-memory fake.
type Store interface {
	GetSettings() (models.Settings, error)
	GetHabit(id string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	GetCompletion(habitID string, day models.Day) (models.Completion, error)
	ListCompletions(habitID string) ([]models.Completion, error)
	ApplyCompletion(habit models.Habit, completion models.Completion) error
	ApplyUndo(habit models.Habit, completionID string) error
	ApplyBackfill(habit models.Habit, add []models.Completion, removeIDs []string) error
}

// Service coordinates every streak/credit mutation. All writes to a habit's
// streak, credit, and completion state go through here so the persisted habit
// snapshot and its completion history can never commit separately.
type Service struct {
	store Store
	clock clock.Clock
}

func NewService(store Store, clk clock.Clock) *Service {
	return &Service{store: store, clock: clk}
}

// CompleteResult is returned by Complete and Skip. Milestone is non-nil only
// when the completion landed exactly on a milestone threshold, for
// celebratory display.
type CompleteResult struct {
	Habit      models.Habit
	Completion models.Completion
	Milestone  *Milestone
}

// RecalcSummary reports what Recalculate changed about a habit snapshot.
type RecalcSummary struct {
	Habit       models.Habit
	PrevStreak  int
	PrevCredits int
}

func (r RecalcSummary) Changed() bool {
	return r.PrevStreak != r.Habit.CurrentStreak || r.PrevCredits != r.Habit.Credits
}

// Complete records a genuine completion for today.
//
// The streak grows by one when yesterday was the last completed day, restarts
// at one after a gap, and a milestone landed on exactly adds its bonus
// credits. The habit snapshot and the completion record commit in a single
// transaction; if another writer got to today's slot first, the uniqueness
// constraint makes this call the loser and nothing is applied.
func (s *Service) Complete(habitID string) (*CompleteResult, error) {
	habit, err := s.getHabit(habitID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	state, _, err := s.slot(habitID, today)
	if err != nil {
		return nil, err
	}
	if state != SlotEmpty {
		return nil, ErrAlreadyCompletedToday
	}

	newStreak := 1
	switch habit.LastCompletedAt {
	case s.clock.Yesterday():
		newStreak = habit.CurrentStreak + 1
	case today:
		// Should be unreachable given the slot guard above.
		newStreak = habit.CurrentStreak
	}

	crossed := MilestoneAt(newStreak)
	if crossed != nil {
		habit.Credits += crossed.Credits
	}
	habit.CurrentStreak = newStreak
	if newStreak > habit.LongestStreak {
		habit.LongestStreak = newStreak
	}
	habit.LastCompletedAt = today

	completion := models.Completion{
		ID:        uuid.NewString(),
		HabitID:   habit.ID,
		Day:       today,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.ApplyCompletion(habit, completion); err != nil {
		if errors.Is(err, storage.ErrDuplicateCompletion) {
			return nil, ErrAlreadyCompletedToday
		}
		return nil, fmt.Errorf("recording completion: %w", err)
	}

	return &CompleteResult{Habit: habit, Completion: completion, Milestone: crossed}, nil
}

// Skip spends one credit to fill today's slot without a genuine completion.
// The streak is held constant: a skip neither grows nor resets it, and it
// does not advance LastCompletedAt or trigger milestones.
func (s *Service) Skip(habitID string) (*CompleteResult, error) {
	habit, err := s.getHabit(habitID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	state, _, err := s.slot(habitID, today)
	if err != nil {
		return nil, err
	}
	if state != SlotEmpty {
		return nil, ErrAlreadyCompletedToday
	}
	if habit.Credits < 1 {
		return nil, ErrInsufficientCredits
	}

	habit.Credits--
	completion := models.Completion{
		ID:        uuid.NewString(),
		HabitID:   habit.ID,
		Day:       today,
		Skipped:   true,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.ApplyCompletion(habit, completion); err != nil {
		if errors.Is(err, storage.ErrDuplicateCompletion) {
			return nil, ErrAlreadyCompletedToday
		}
		return nil, fmt.Errorf("recording skip: %w", err)
	}

	return &CompleteResult{Habit: habit, Completion: completion}, nil
}

// Undo removes today's record, whichever kind it is. Undoing a skip refunds
// the credit; undoing a genuine completion steps the streak back one and, if
// that completion had landed on a milestone, takes the milestone's bonus back
// (never below zero). LastCompletedAt is restored from the most recent
// remaining genuine completion.
func (s *Service) Undo(habitID string) (models.Habit, error) {
	habit, err := s.getHabit(habitID)
	if err != nil {
		return models.Habit{}, err
	}

	today := s.clock.Today()
	state, completion, err := s.slot(habitID, today)
	if err != nil {
		return models.Habit{}, err
	}
	if state == SlotEmpty {
		return models.Habit{}, ErrNoCompletionToday
	}

	if state == SlotSkipped {
		habit.Credits++
	} else {
		undone := habit.CurrentStreak
		if undone > 0 {
			habit.CurrentStreak = undone - 1
		}
		if m := MilestoneAt(undone); m != nil {
			habit.Credits -= m.Credits
			if habit.Credits < 0 {
				habit.Credits = 0
			}
		}

		completions, err := s.store.ListCompletions(habitID)
		if err != nil {
			return models.Habit{}, fmt.Errorf("listing completions: %w", err)
		}
		remaining := completions[:0]
		for _, c := range completions {
			if c.ID != completion.ID {
				remaining = append(remaining, c)
			}
		}
		habit.LastCompletedAt = lastCompletedDay(remaining)
	}

	if err := s.store.ApplyUndo(habit, completion.ID); err != nil {
		return models.Habit{}, fmt.Errorf("undoing completion: %w", err)
	}
	return habit, nil
}

// BackfillAdd records genuine completions for the given past days and then
// fully recomputes the habit snapshot from history. Future days and days
// already recorded are silently ignored, so re-supplying a day is a no-op.
func (s *Service) BackfillAdd(habitID string, days []models.Day) (models.Habit, error) {
	habit, err := s.getHabit(habitID)
	if err != nil {
		return models.Habit{}, err
	}

	today := s.clock.Today()
	completions, err := s.store.ListCompletions(habitID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("listing completions: %w", err)
	}
	set := indexByDay(completions)

	var add []models.Completion
	for _, day := range days {
		if day.After(today) {
			continue
		}
		if _, exists := set[day]; exists {
			continue
		}
		c := models.Completion{
			ID:        uuid.NewString(),
			HabitID:   habit.ID,
			Day:       day,
			CreatedAt: s.clock.Now(),
		}
		add = append(add, c)
		set[day] = c
		completions = append(completions, c)
	}

	habit = s.recompute(habit, completions, set, today)
	if err := s.store.ApplyBackfill(habit, add, nil); err != nil {
		return models.Habit{}, fmt.Errorf("applying backfill: %w", err)
	}
	return habit, nil
}

// BackfillRemove deletes the record for the given day, if any, and fully
// recomputes the streak. Credits are never reduced by a removal; bonuses
// earned stay earned. Removing an absent day is a no-op.
func (s *Service) BackfillRemove(habitID string, day models.Day) (models.Habit, error) {
	habit, err := s.getHabit(habitID)
	if err != nil {
		return models.Habit{}, err
	}

	removed, err := s.store.GetCompletion(habitID, day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return habit, nil
		}
		return models.Habit{}, err
	}

	completions, err := s.store.ListCompletions(habitID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("listing completions: %w", err)
	}
	remaining := completions[:0]
	for _, c := range completions {
		if c.ID != removed.ID {
			remaining = append(remaining, c)
		}
	}

	habit = s.recompute(habit, remaining, indexByDay(remaining), s.clock.Today())
	if err := s.store.ApplyBackfill(habit, nil, []string{removed.ID}); err != nil {
		return models.Habit{}, fmt.Errorf("applying removal: %w", err)
	}
	return habit, nil
}

// Recalculate rebuilds the habit snapshot from its completion history. It is
// idempotent and exists to self-heal a snapshot that has drifted from the
// underlying records.
func (s *Service) Recalculate(habitID string) (RecalcSummary, error) {
	habit, err := s.getHabit(habitID)
	if err != nil {
		return RecalcSummary{}, err
	}
	summary := RecalcSummary{PrevStreak: habit.CurrentStreak, PrevCredits: habit.Credits}

	completions, err := s.store.ListCompletions(habitID)
	if err != nil {
		return RecalcSummary{}, fmt.Errorf("listing completions: %w", err)
	}
	habit = s.recompute(habit, completions, indexByDay(completions), s.clock.Today())

	if err := s.store.UpdateHabit(habit); err != nil {
		return RecalcSummary{}, fmt.Errorf("saving habit: %w", err)
	}
	summary.Habit = habit
	return summary, nil
}

// SweepLapsed zeroes the streak of every active habit with no record for
// today or yesterday. Longest streak, credits, and LastCompletedAt are
// untouched; only the live streak lapses. It runs before any read path that
// shows today's habit state, and returns the habits it swept.
func (s *Service) SweepLapsed() ([]models.Habit, error) {
	habits, err := s.store.GetAllHabits(false, false)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}

	today := s.clock.Today()
	yesterday := s.clock.Yesterday()

	var swept []models.Habit
	for _, habit := range habits {
		if habit.CurrentStreak == 0 {
			continue
		}
		live, err := s.hasRecord(habit.ID, today)
		if err != nil {
			return swept, err
		}
		if !live {
			live, err = s.hasRecord(habit.ID, yesterday)
			if err != nil {
				return swept, err
			}
		}
		if live {
			continue
		}

		habit.CurrentStreak = 0
		if err := s.store.UpdateHabit(habit); err != nil {
			return swept, fmt.Errorf("sweeping habit %q: %w", habit.Name, err)
		}
		swept = append(swept, habit)
	}
	return swept, nil
}

// RecomputeSnapshot derives what the habit snapshot should be from the given
// completion history, without persisting anything. The validation package
// uses it to detect snapshot drift.
func (s *Service) RecomputeSnapshot(habit models.Habit, completions []models.Completion) models.Habit {
	return s.recompute(habit, completions, indexByDay(completions), s.clock.Today())
}

// StreakHeldBySkips reports whether the habit's live run includes a
// credit-funded skip. A skip holds the streak without advancing
// LastCompletedAt, so the next genuine completion after skip days restarts
// the stored streak at 1 while the history-derived run keeps the full length.
// A stored streak below the derived one is therefore legal in that state, and
// the validator tolerates it.
func (s *Service) StreakHeldBySkips(completions []models.Completion) bool {
	return runHasSkip(indexByDay(completions), s.clock.Today(), s.lookback())
}

// recompute derives a fresh snapshot from completion history: current streak
// from the backward walk, longest from the longest run anywhere in history,
// credits via the monotonic max policy, and LastCompletedAt from the latest
// genuine completion.
func (s *Service) recompute(habit models.Habit, completions []models.Completion, set daySet, today models.Day) models.Habit {
	habit.CurrentStreak = currentStreak(set, today, s.lookback())
	if run := longestStreak(set); run > habit.LongestStreak {
		habit.LongestStreak = run
	}
	if earned := CreditsForStreak(habit.CurrentStreak); earned > habit.Credits {
		habit.Credits = earned
	}
	habit.LastCompletedAt = lastCompletedDay(completions)
	return habit
}

func (s *Service) lookback() int {
	settings, err := s.store.GetSettings()
	if err != nil || settings.StreakLookbackDays <= 0 {
		return constants.DefaultStreakLookbackDays
	}
	return settings.StreakLookbackDays
}

func (s *Service) getHabit(id string) (models.Habit, error) {
	habit, err := s.store.GetHabit(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, ErrHabitNotFound
		}
		return models.Habit{}, fmt.Errorf("loading habit: %w", err)
	}
	return habit, nil
}

func (s *Service) slot(habitID string, day models.Day) (SlotState, models.Completion, error) {
	c, err := s.store.GetCompletion(habitID, day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return SlotEmpty, models.Completion{}, nil
		}
		return SlotEmpty, models.Completion{}, fmt.Errorf("checking day slot: %w", err)
	}
	return slotStateOf(c), c, nil
}

func (s *Service) hasRecord(habitID string, day models.Day) (bool, error) {
	_, err := s.store.GetCompletion(habitID, day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking day slot: %w", err)
	}
	return true, nil
}
