package cli

import (
	"fmt"

	"github.com/julianstephens/kindling/internal/backup"
	"github.com/julianstephens/kindling/internal/clock"
	"github.com/julianstephens/kindling/internal/ledger"
	"github.com/julianstephens/kindling/internal/logger"
	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/storage"
	"github.com/julianstephens/kindling/internal/storage/sqlite"
)

// Context carries the shared dependencies every command runs against.
type Context struct {
	Store  storage.Provider
	Ledger *ledger.Service
	Clock  clock.Clock
}

// PerformAutomaticBackup creates a backup of the SQLite database and logs
// rather than interrupts on failure. Postgres storage has its own backup
// story and is skipped.
func (c *Context) PerformAutomaticBackup() {
	if !IsSQLiteStore(c.Store) {
		return
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		settings = models.Settings{}
	}
	mgr := backup.NewManager(c.Store.GetConfigPath(), settings.MaxBackups)
	if _, err := mgr.Create(); err != nil {
		logger.Warn("automatic backup failed", "error", err)
	}
}

// FindHabit resolves a habit by name, searching active habits first and
// archived ones as a fallback.
func (c *Context) FindHabit(name string) (models.Habit, error) {
	habit, err := c.Store.GetHabitByName(name)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q not found", name)
	}
	return habit, nil
}

func IsSQLiteStore(store storage.Provider) bool {
	_, ok := store.(*sqlite.Store)
	return ok
}
