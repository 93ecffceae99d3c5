package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/storage"
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func scanCompletion(row interface{ Scan(...any) error }) (models.Completion, error) {
	var c models.Completion
	var day, createdAt string
	var skipped bool

	err := row.Scan(&c.ID, &c.HabitID, &day, &skipped, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Completion{}, storage.ErrNotFound
		}
		return models.Completion{}, err
	}

	c.Day = models.Day(day)
	c.Skipped = skipped
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return c, nil
}

func (s *Store) GetCompletion(habitID string, day models.Day) (models.Completion, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, skipped, created_at
		FROM completions WHERE habit_id = ? AND day = ?`,
		habitID, day.String())
	return scanCompletion(row)
}

func (s *Store) ListCompletions(habitID string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, skipped, created_at
		FROM completions WHERE habit_id = ?
		ORDER BY day DESC`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

func insertCompletionTx(tx *sql.Tx, c models.Completion) error {
	_, err := tx.Exec(`
		INSERT INTO completions (id, habit_id, day, skipped, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.HabitID, c.Day.String(), c.Skipped, c.CreatedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return storage.ErrDuplicateCompletion
	}
	return err
}

func updateHabitTx(tx *sql.Tx, h models.Habit) error {
	_, err := tx.Exec(habitUpsert, habitArgs(h)...)
	return err
}

// ApplyCompletion inserts a completion and writes the habit snapshot in one
// transaction. A uniqueness violation rolls everything back and surfaces as
// storage.ErrDuplicateCompletion, so the loser of a same-day race never
// mutates the habit.
func (s *Store) ApplyCompletion(habit models.Habit, completion models.Completion) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertCompletionTx(tx, completion); err != nil {
		return err
	}
	if err := updateHabitTx(tx, habit); err != nil {
		return err
	}

	return tx.Commit()
}

// ApplyUndo deletes a completion and writes the habit snapshot in one
// transaction.
func (s *Store) ApplyUndo(habit models.Habit, completionID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM completions WHERE id = ?", completionID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	if err := updateHabitTx(tx, habit); err != nil {
		return err
	}

	return tx.Commit()
}

// ApplyBackfill inserts and/or deletes a batch of completions and writes the
// habit snapshot, all in one transaction.
func (s *Store) ApplyBackfill(habit models.Habit, add []models.Completion, removeIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range add {
		if err := insertCompletionTx(tx, c); err != nil {
			return err
		}
	}
	for _, id := range removeIDs {
		if _, err := tx.Exec("DELETE FROM completions WHERE id = ?", id); err != nil {
			return err
		}
	}

	if err := updateHabitTx(tx, habit); err != nil {
		return err
	}

	return tx.Commit()
}
