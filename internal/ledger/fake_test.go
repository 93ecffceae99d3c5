package ledger

import (
	"sort"

	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/storage"
)

// fakeStore is an in-memory Store with the same uniqueness and atomicity
// behavior as the real backends: Apply* either applies everything or nothing,
// and a second record for the same (habit, day) is rejected.
type fakeStore struct {
	settings    models.Settings
	habits      map[string]models.Habit
	completions map[string]models.Completion
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		settings:    models.Settings{StreakLookbackDays: 365, MaxBackups: 14},
		habits:      make(map[string]models.Habit),
		completions: make(map[string]models.Completion),
	}
}

func (f *fakeStore) GetSettings() (models.Settings, error) { return f.settings, nil }

func (f *fakeStore) GetHabit(id string) (models.Habit, error) {
	h, ok := f.habits[id]
	if !ok {
		return models.Habit{}, storage.ErrNotFound
	}
	return h, nil
}

func (f *fakeStore) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	var habits []models.Habit
	for _, h := range f.habits {
		if h.ArchivedAt != nil && !includeArchived {
			continue
		}
		if h.DeletedAt != nil && !includeDeleted {
			continue
		}
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].Name < habits[j].Name })
	return habits, nil
}

func (f *fakeStore) UpdateHabit(h models.Habit) error {
	f.habits[h.ID] = h
	return nil
}

func (f *fakeStore) GetCompletion(habitID string, day models.Day) (models.Completion, error) {
	for _, c := range f.completions {
		if c.HabitID == habitID && c.Day == day {
			return c, nil
		}
	}
	return models.Completion{}, storage.ErrNotFound
}

func (f *fakeStore) ListCompletions(habitID string) ([]models.Completion, error) {
	var out []models.Completion
	for _, c := range f.completions {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.After(out[j].Day) })
	return out, nil
}

func (f *fakeStore) ApplyCompletion(habit models.Habit, completion models.Completion) error {
	if _, err := f.GetCompletion(completion.HabitID, completion.Day); err == nil {
		return storage.ErrDuplicateCompletion
	}
	f.completions[completion.ID] = completion
	f.habits[habit.ID] = habit
	return nil
}

func (f *fakeStore) ApplyUndo(habit models.Habit, completionID string) error {
	if _, ok := f.completions[completionID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.completions, completionID)
	f.habits[habit.ID] = habit
	return nil
}

func (f *fakeStore) ApplyBackfill(habit models.Habit, add []models.Completion, removeIDs []string) error {
	for _, c := range add {
		if _, err := f.GetCompletion(c.HabitID, c.Day); err == nil {
			return storage.ErrDuplicateCompletion
		}
	}
	for _, c := range add {
		f.completions[c.ID] = c
	}
	for _, id := range removeIDs {
		delete(f.completions, id)
	}
	f.habits[habit.ID] = habit
	return nil
}
