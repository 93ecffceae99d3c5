// Package backup creates and restores rotating file backups of the SQLite
// database. Backups live in a backups/ directory next to the database file.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/kindling/internal/constants"
	"github.com/julianstephens/kindling/internal/logger"
)

// Info describes one backup file on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup creation, listing, rotation, and restore for a
// single SQLite database file.
type Manager struct {
	dbPath     string
	backupDir  string
	maxBackups int
}

func NewManager(dbPath string, maxBackups int) *Manager {
	if maxBackups <= 0 {
		maxBackups = constants.MaxBackups
	}
	return &Manager{
		dbPath:     dbPath,
		backupDir:  filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		maxBackups: maxBackups,
	}
}

func (m *Manager) BackupDir() string { return m.backupDir }

// Create backs up the database and rotates out backups beyond the retention
// limit. Returns the path of the new backup file.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		// Rotation failure should not invalidate a successful backup.
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	stamp := time.Now().UTC().Format(stampFormat)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		if n > 100 {
			return "", fmt.Errorf("could not find a free backup filename for %s", stamp)
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s",
			constants.BackupFilePrefix, stamp, n, constants.BackupFileSuffix))
	}

	if err := m.snapshot(path); err != nil {
		return "", fmt.Errorf("backing up database: %w", err)
	}
	return path, nil
}

const stampFormat = "20060102-150405"

// snapshot writes a consistent copy of the live database to destPath using
// VACUUM INTO, which is safe against concurrent readers. Falls back to a
// plain file copy if the driver rejects it.
func (m *Manager) snapshot(destPath string) error {
	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("opening source database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := db.Exec("VACUUM INTO ?", destPath); err != nil {
		return copyFile(m.dbPath, destPath)
	}
	return nil
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Info, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []Info{}, nil
	}
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
		// Strip the collision counter if present (stamp-N).
		if len(stamp) > len(stampFormat) {
			stamp = stamp[:len(stampFormat)]
		}
		ts, err := time.Parse(stampFormat, stamp)
		if err != nil {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		backups = append(backups, Info{Path: path, Timestamp: ts, Size: fi.Size()})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("removing old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the live database with the given backup. The current
// database is backed up first (without rotation, so the safety copy cannot
// itself rotate anything out), then the backup is copied into place with an
// atomic rename.
func (m *Manager) Restore(backupPath string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verify(backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.dbPath); err == nil {
		safety, err := m.create()
		if err != nil {
			return fmt.Errorf("backing up current database before restore: %w", err)
		}
		logger.Info("backed up current database before restore", "file", filepath.Base(safety))
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("copying backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replacing database: %w", err)
	}
	return nil
}

func verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
