package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/kindling/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "kindling.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO habits (id, name) VALUES ('h1', 'read'), ('h2', 'run')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		t.Fatalf("failed to query database %s: %v", path, err)
	}
	return count
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath, 0)
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Fatalf("backup file was not created: %s", backupPath)
	}
	if got := countHabits(t, backupPath); got != 2 {
		t.Errorf("backup has %d habits, want 2", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nope.db"), 0)
	if _, err := mgr.Create(); err == nil {
		t.Error("Create should fail when the database does not exist")
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 0)

	// Write backup files with known timestamps directly.
	if err := os.MkdirAll(mgr.BackupDir(), 0700); err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}
	stamps := []string{"20260101-120000", "20260301-120000", "20260201-120000"}
	for _, s := range stamps {
		name := constants.BackupFilePrefix + s + constants.BackupFileSuffix
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write backup file: %v", err)
		}
	}
	// Noise that must be ignored.
	if err := os.WriteFile(filepath.Join(mgr.BackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write noise file: %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("List returned %d backups, want 3", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first: %v before %v",
				backups[i-1].Timestamp, backups[i].Timestamp)
		}
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !backups[0].Timestamp.Equal(want) {
		t.Errorf("newest backup timestamp = %v, want %v", backups[0].Timestamp, want)
	}
}

func TestListEmptyWhenNoBackupDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "kindling.db"), 0)
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List returned %d backups, want 0", len(backups))
	}
}

func TestRotationKeepsNewest(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 3)

	if err := os.MkdirAll(mgr.BackupDir(), 0700); err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}
	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("%s2026010%d-120000%s", constants.BackupFilePrefix, i, constants.BackupFileSuffix)
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write backup file: %v", err)
		}
	}

	// A fresh backup triggers rotation down to the limit.
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("after rotation got %d backups, want 3", len(backups))
	}
	// The newest entry must be the backup just created.
	if got := countHabits(t, backups[0].Path); got != 2 {
		t.Errorf("newest backup has %d habits, want 2", got)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 0)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutate the live database after the backup.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("DELETE FROM habits"); err != nil {
		t.Fatalf("failed to delete rows: %v", err)
	}
	db.Close()
	if got := countHabits(t, dbPath); got != 0 {
		t.Fatalf("live database has %d habits before restore, want 0", got)
	}

	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("restored database has %d habits, want 2", got)
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 0)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to write bogus file: %v", err)
	}

	if err := mgr.Restore(bogus); err == nil {
		t.Error("Restore should reject a non-SQLite file")
	}
	if err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("Restore should fail for a missing backup file")
	}
	// Live database untouched either way.
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("live database has %d habits, want 2", got)
	}
}
