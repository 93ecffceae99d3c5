package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "kindling.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testHabit(name string) models.Habit {
	return models.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      "🔥",
		Color:     "#ff6600",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func testCompletion(habitID string, day models.Day, skipped bool) models.Completion {
	return models.Completion{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		Day:       day,
		Skipped:   skipped,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestInitCreatesDefaultSettings(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.StreakLookbackDays != 365 {
		t.Errorf("StreakLookbackDays = %d, want 365", settings.StreakLookbackDays)
	}
	if settings.MaxBackups != 14 {
		t.Errorf("MaxBackups = %d, want 14", settings.MaxBackups)
	}
}

func TestLoadFailsWithoutInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load should fail when the database file does not exist")
	}
}

func TestSaveAndGetSettings(t *testing.T) {
	store := newTestStore(t)

	want := models.Settings{StreakLookbackDays: 90, MaxBackups: 5}
	if err := store.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestHabitRoundTrip(t *testing.T) {
	store := newTestStore(t)

	h := testHabit("read")
	h.CurrentStreak = 3
	h.LongestStreak = 5
	h.Credits = 2
	h.LastCompletedAt = models.Day("2026-08-31")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	got, err := store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != h.Name || got.Icon != h.Icon || got.Color != h.Color {
		t.Errorf("GetHabit() = %+v, want %+v", got, h)
	}
	if got.CurrentStreak != 3 || got.LongestStreak != 5 || got.Credits != 2 {
		t.Errorf("streak fields = (%d, %d, %d), want (3, 5, 2)",
			got.CurrentStreak, got.LongestStreak, got.Credits)
	}
	if got.LastCompletedAt != h.LastCompletedAt {
		t.Errorf("LastCompletedAt = %q, want %q", got.LastCompletedAt, h.LastCompletedAt)
	}

	byName, err := store.GetHabitByName("read")
	if err != nil {
		t.Fatalf("GetHabitByName failed: %v", err)
	}
	if byName.ID != h.ID {
		t.Errorf("GetHabitByName returned ID %q, want %q", byName.ID, h.ID)
	}
}

func TestGetHabitNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetHabit(uuid.NewString()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit error = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := store.GetHabitByName("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabitByName error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestArchiveAndDeleteFiltering(t *testing.T) {
	store := newTestStore(t)

	active := testHabit("active")
	archived := testHabit("archived")
	deleted := testHabit("deleted")
	for _, h := range []models.Habit{active, archived, deleted} {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("AddHabit failed: %v", err)
		}
	}
	if err := store.ArchiveHabit(archived.ID); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}
	if err := store.DeleteHabit(deleted.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	habits, err := store.GetAllHabits(false, false)
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 1 || habits[0].ID != active.ID {
		t.Errorf("GetAllHabits(false, false) returned %d habits, want just the active one", len(habits))
	}

	habits, err = store.GetAllHabits(true, false)
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 2 {
		t.Errorf("GetAllHabits(true, false) returned %d habits, want 2", len(habits))
	}

	// A soft-deleted habit is invisible to lookups until restored.
	if _, err := store.GetHabit(deleted.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit(deleted) error = %v, want %v", err, storage.ErrNotFound)
	}
	if err := store.RestoreHabit(deleted.ID); err != nil {
		t.Fatalf("RestoreHabit failed: %v", err)
	}
	if _, err := store.GetHabit(deleted.ID); err != nil {
		t.Errorf("GetHabit after restore failed: %v", err)
	}

	if err := store.UnarchiveHabit(archived.ID); err != nil {
		t.Fatalf("UnarchiveHabit failed: %v", err)
	}
	got, err := store.GetHabit(archived.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.ArchivedAt != nil {
		t.Error("ArchivedAt should be nil after unarchive")
	}
}

func TestArchiveMissingHabit(t *testing.T) {
	store := newTestStore(t)
	if err := store.ArchiveHabit(uuid.NewString()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("ArchiveHabit error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestMutationsOnMissingHabitReturnNotFound(t *testing.T) {
	store := newTestStore(t)
	id := uuid.NewString()

	if err := store.UnarchiveHabit(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UnarchiveHabit error = %v, want %v", err, storage.ErrNotFound)
	}
	if err := store.DeleteHabit(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteHabit error = %v, want %v", err, storage.ErrNotFound)
	}
	if err := store.RestoreHabit(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("RestoreHabit error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestApplyCompletionCommitsBothRows(t *testing.T) {
	store := newTestStore(t)

	h := testHabit("read")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	day := models.Day("2026-08-31")
	h.CurrentStreak = 1
	h.LongestStreak = 1
	h.LastCompletedAt = day
	if err := store.ApplyCompletion(h, testCompletion(h.ID, day, false)); err != nil {
		t.Fatalf("ApplyCompletion failed: %v", err)
	}

	got, err := store.GetCompletion(h.ID, day)
	if err != nil {
		t.Fatalf("GetCompletion failed: %v", err)
	}
	if got.Skipped {
		t.Error("completion should not be marked skipped")
	}
	habit, err := store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if habit.CurrentStreak != 1 || habit.LastCompletedAt != day {
		t.Errorf("habit snapshot not updated: %+v", habit)
	}
}

func TestApplyCompletionDuplicateRollsBack(t *testing.T) {
	store := newTestStore(t)

	h := testHabit("read")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	day := models.Day("2026-08-31")

	h.CurrentStreak = 1
	if err := store.ApplyCompletion(h, testCompletion(h.ID, day, false)); err != nil {
		t.Fatalf("first ApplyCompletion failed: %v", err)
	}

	// Second write for the same day must fail and leave the habit untouched.
	h.CurrentStreak = 2
	err := store.ApplyCompletion(h, testCompletion(h.ID, day, false))
	if !errors.Is(err, storage.ErrDuplicateCompletion) {
		t.Fatalf("ApplyCompletion error = %v, want %v", err, storage.ErrDuplicateCompletion)
	}

	habit, err := store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if habit.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d after failed write, want 1", habit.CurrentStreak)
	}
	list, err := store.ListCompletions(h.ID)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListCompletions returned %d records, want 1", len(list))
	}
}

func TestApplyUndoRemovesCompletion(t *testing.T) {
	store := newTestStore(t)

	h := testHabit("read")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	day := models.Day("2026-08-31")
	c := testCompletion(h.ID, day, true)
	h.Credits = 1
	if err := store.ApplyCompletion(h, c); err != nil {
		t.Fatalf("ApplyCompletion failed: %v", err)
	}

	h.Credits = 2
	if err := store.ApplyUndo(h, c.ID); err != nil {
		t.Fatalf("ApplyUndo failed: %v", err)
	}

	if _, err := store.GetCompletion(h.ID, day); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetCompletion error = %v, want %v", err, storage.ErrNotFound)
	}
	habit, err := store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if habit.Credits != 2 {
		t.Errorf("Credits = %d, want 2", habit.Credits)
	}

	if err := store.ApplyUndo(h, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second ApplyUndo error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestApplyBackfillBatches(t *testing.T) {
	store := newTestStore(t)

	h := testHabit("read")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	c1 := testCompletion(h.ID, models.Day("2026-08-29"), false)
	c2 := testCompletion(h.ID, models.Day("2026-08-30"), false)
	h.CurrentStreak = 2
	if err := store.ApplyBackfill(h, []models.Completion{c1, c2}, nil); err != nil {
		t.Fatalf("ApplyBackfill failed: %v", err)
	}

	list, err := store.ListCompletions(h.ID)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListCompletions returned %d records, want 2", len(list))
	}
	// Most recent day first.
	if list[0].Day != c2.Day {
		t.Errorf("first listed day = %q, want %q", list[0].Day, c2.Day)
	}

	h.CurrentStreak = 1
	if err := store.ApplyBackfill(h, nil, []string{c1.ID}); err != nil {
		t.Fatalf("ApplyBackfill remove failed: %v", err)
	}
	list, err = store.ListCompletions(h.ID)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != c2.ID {
		t.Errorf("after removal, ListCompletions = %+v, want only %q", list, c2.ID)
	}
}

func TestDeleteHabitCascadesCompletions(t *testing.T) {
	store := newTestStore(t)

	h := testHabit("read")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if err := store.ApplyCompletion(h, testCompletion(h.ID, models.Day("2026-08-31"), false)); err != nil {
		t.Fatalf("ApplyCompletion failed: %v", err)
	}

	// Soft delete keeps history.
	if err := store.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	list, err := store.ListCompletions(h.ID)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("completions should survive a soft delete, got %d", len(list))
	}
}
