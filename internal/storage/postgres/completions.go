package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/storage"
)

// uniqueViolation is the PostgreSQL error code for a uniqueness constraint
// violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
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
		FROM completions WHERE habit_id = $1 AND day = $2`,
		habitID, day.String())
	return scanCompletion(row)
}

func (s *Store) ListCompletions(habitID string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, skipped, created_at
		FROM completions WHERE habit_id = $1
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
		VALUES ($1, $2, $3, $4, $5)`,
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

func (s *Store) ApplyUndo(habit models.Habit, completionID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM completions WHERE id = $1", completionID)
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
		if _, err := tx.Exec("DELETE FROM completions WHERE id = $1", id); err != nil {
			return err
		}
	}

	if err := updateHabitTx(tx, habit); err != nil {
		return err
	}

	return tx.Commit()
}
