package storage

import (
	"errors"
	"net/url"
	"strings"

	"github.com/julianstephens/kindling/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateCompletion is returned when a completion already exists
	// for the same (habit, day). The database uniqueness constraint is the
	// concurrency guard: the loser of a race on the same day gets this error
	// and the transaction it rode in on is rolled back.
	ErrDuplicateCompletion = errors.New("completion already exists for this day")
)

// Provider is the storage surface the rest of the application depends on.
// Both the SQLite and PostgreSQL stores implement it.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Completions. Reads only; all writes go through the Apply* methods so
	// a completion mutation and its habit snapshot commit atomically.
	GetCompletion(habitID string, day models.Day) (models.Completion, error)
	ListCompletions(habitID string) ([]models.Completion, error)

	// Ledger transactions. Each commits the completion change(s) and the
	// habit row in a single database transaction; on any error nothing is
	// applied.
	ApplyCompletion(habit models.Habit, completion models.Completion) error
	ApplyUndo(habit models.Habit, completionID string) error
	ApplyBackfill(habit models.Habit, add []models.Completion, removeIDs []string) error

	// Utils
	GetConfigPath() string
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password. Embedded credentials are rejected at startup; the OS
// keyring or environment must be used instead.
func HasEmbeddedCredentials(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			// Unparseable strings are treated as suspect.
			return true
		}
		if u.User != nil {
			if _, isSet := u.User.Password(); isSet {
				return true
			}
		}
		return false
	}

	// DSN format: space-separated key=value pairs.
	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return true
		}
	}
	return false
}
