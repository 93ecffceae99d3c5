package validation

import (
	"sort"
	"testing"

	"github.com/julianstephens/kindling/internal/clock"
	"github.com/julianstephens/kindling/internal/ledger"
	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/storage"
)

const testToday = models.Day("2026-08-31")

type memStore struct {
	habits      map[string]models.Habit
	completions []models.Completion
}

func newMemStore() *memStore {
	return &memStore{habits: make(map[string]models.Habit)}
}

func (m *memStore) GetSettings() (models.Settings, error) {
	return models.Settings{StreakLookbackDays: 365}, nil
}

func (m *memStore) GetHabit(id string) (models.Habit, error) {
	h, ok := m.habits[id]
	if !ok {
		return models.Habit{}, storage.ErrNotFound
	}
	return h, nil
}

func (m *memStore) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	var out []models.Habit
	for _, h := range m.habits {
		if h.ArchivedAt != nil && !includeArchived {
			continue
		}
		if h.DeletedAt != nil && !includeDeleted {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateHabit(h models.Habit) error {
	m.habits[h.ID] = h
	return nil
}

func (m *memStore) GetCompletion(habitID string, day models.Day) (models.Completion, error) {
	for _, c := range m.completions {
		if c.HabitID == habitID && c.Day == day {
			return c, nil
		}
	}
	return models.Completion{}, storage.ErrNotFound
}

func (m *memStore) ListCompletions(habitID string) ([]models.Completion, error) {
	var out []models.Completion
	for _, c := range m.completions {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ApplyCompletion(habit models.Habit, completion models.Completion) error {
	m.completions = append(m.completions, completion)
	m.habits[habit.ID] = habit
	return nil
}

func (m *memStore) ApplyUndo(habit models.Habit, completionID string) error {
	for i, c := range m.completions {
		if c.ID == completionID {
			m.completions = append(m.completions[:i], m.completions[i+1:]...)
			break
		}
	}
	m.habits[habit.ID] = habit
	return nil
}

func (m *memStore) ApplyBackfill(habit models.Habit, add []models.Completion, removeIDs []string) error {
	m.completions = append(m.completions, add...)
	m.habits[habit.ID] = habit
	return nil
}

func newTestValidator() (*Validator, *memStore) {
	store := newMemStore()
	svc := ledger.NewService(store, clock.NewFixed(testToday))
	return New(store, svc), store
}

func addCompletion(store *memStore, habitID string, day models.Day) {
	store.completions = append(store.completions, models.Completion{
		ID: habitID + string(day), HabitID: habitID, Day: day,
	})
}

func addSkip(store *memStore, habitID string, day models.Day) {
	store.completions = append(store.completions, models.Completion{
		ID: habitID + string(day), HabitID: habitID, Day: day, Skipped: true,
	})
}

func TestValidateCleanHabit(t *testing.T) {
	v, store := newTestValidator()
	store.habits["h1"] = models.Habit{
		ID: "h1", Name: "read",
		CurrentStreak: 2, LongestStreak: 5,
		LastCompletedAt: testToday,
	}
	addCompletion(store, "h1", testToday.Prev())
	addCompletion(store, "h1", testToday)

	result, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got: %s", result.FormatReport())
	}
}

func TestValidateDetectsStreakDrift(t *testing.T) {
	v, store := newTestValidator()
	store.habits["h1"] = models.Habit{
		ID: "h1", Name: "read",
		CurrentStreak: 9, LongestStreak: 9,
		LastCompletedAt: testToday,
	}
	addCompletion(store, "h1", testToday)

	result, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if !hasType(result, ConflictStreakDrift) {
		t.Errorf("expected %s conflict, got: %s", ConflictStreakDrift, result.FormatReport())
	}
}

func TestValidateToleratesSkipHeldStreak(t *testing.T) {
	v, store := newTestValidator()
	// Two genuine days, two credit-funded skips, then a genuine completion
	// today. The completion after the skips restarts the stored streak at 1
	// while the record walk sees the unbroken five-day run; that gap is a
	// known consequence of skips, not drift.
	store.habits["h1"] = models.Habit{
		ID: "h1", Name: "read",
		CurrentStreak: 1, LongestStreak: 2,
		LastCompletedAt: testToday,
	}
	addCompletion(store, "h1", models.Day("2026-08-27"))
	addCompletion(store, "h1", models.Day("2026-08-28"))
	addSkip(store, "h1", models.Day("2026-08-29"))
	addSkip(store, "h1", models.Day("2026-08-30"))
	addCompletion(store, "h1", testToday)

	result, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if hasType(result, ConflictStreakDrift) {
		t.Errorf("skip-held streak flagged as drift: %s", result.FormatReport())
	}
}

func TestValidateStillFlagsInflatedStreakWithSkips(t *testing.T) {
	v, store := newTestValidator()
	// A stored streak above anything the history supports is drift even when
	// the run contains a skip.
	store.habits["h1"] = models.Habit{
		ID: "h1", Name: "read",
		CurrentStreak: 30, LongestStreak: 30,
		LastCompletedAt: testToday,
	}
	addSkip(store, "h1", testToday.Prev())
	addCompletion(store, "h1", testToday)

	result, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if !hasType(result, ConflictStreakDrift) {
		t.Errorf("expected %s conflict, got: %s", ConflictStreakDrift, result.FormatReport())
	}
}

func TestValidateDetectsInvariantViolations(t *testing.T) {
	v, store := newTestValidator()
	store.habits["h1"] = models.Habit{
		ID: "h1", Name: "read",
		CurrentStreak: 3, LongestStreak: 1, Credits: -2,
	}

	result, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if !hasType(result, ConflictLongestBelowCur) {
		t.Errorf("expected %s conflict", ConflictLongestBelowCur)
	}
	if !hasType(result, ConflictNegativeCredits) {
		t.Errorf("expected %s conflict", ConflictNegativeCredits)
	}
}

func TestValidateDetectsDuplicateDays(t *testing.T) {
	v, store := newTestValidator()
	store.habits["h1"] = models.Habit{
		ID: "h1", Name: "read",
		CurrentStreak: 1, LongestStreak: 1, LastCompletedAt: testToday,
	}
	addCompletion(store, "h1", testToday)
	store.completions = append(store.completions, models.Completion{
		ID: "dup", HabitID: "h1", Day: testToday,
	})

	result, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if !hasType(result, ConflictDuplicateDay) {
		t.Errorf("expected %s conflict, got: %s", ConflictDuplicateDay, result.FormatReport())
	}
}

func TestValidateSkipsArchivedStreakCheck(t *testing.T) {
	v, store := newTestValidator()
	archived := testToday.Prev().Time()
	store.habits["h1"] = models.Habit{
		ID: "h1", Name: "old",
		CurrentStreak: 40, LongestStreak: 40,
		LastCompletedAt: models.Day("2026-01-01"),
		ArchivedAt:      &archived,
	}

	result, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if hasType(result, ConflictStreakDrift) {
		t.Errorf("archived habits should not be checked for streak drift")
	}
}

func TestAutoFixRecalculatesOncePerHabit(t *testing.T) {
	v, store := newTestValidator()
	store.habits["h1"] = models.Habit{
		ID: "h1", Name: "read",
		CurrentStreak: 9, LongestStreak: 9,
	}
	addCompletion(store, "h1", testToday)

	result, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if !result.HasConflicts() {
		t.Fatal("expected conflicts to fix")
	}

	actions, err := v.AutoFix(result.Conflicts)
	if err != nil {
		t.Fatalf("AutoFix failed: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("AutoFix applied %d actions, want 1", len(actions))
	}

	after, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if after.HasConflicts() {
		t.Errorf("conflicts remain after AutoFix: %s", after.FormatReport())
	}

	got := store.habits["h1"]
	if got.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d after fix, want 1", got.CurrentStreak)
	}
}

func hasType(r Result, ct ConflictType) bool {
	for _, c := range r.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}
