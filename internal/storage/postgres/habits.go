package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/kindling/internal/models"
	"github.com/julianstephens/kindling/internal/storage"
)

const habitColumns = `id, name, icon, color, current_streak, longest_streak, credits,
	last_completed_at, created_at, archived_at, deleted_at`

const habitUpsert = `
	INSERT INTO habits (id, name, icon, color, current_streak, longest_streak, credits,
		last_completed_at, created_at, archived_at, deleted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		icon = excluded.icon,
		color = excluded.color,
		current_streak = excluded.current_streak,
		longest_streak = excluded.longest_streak,
		credits = excluded.credits,
		last_completed_at = excluded.last_completed_at,
		archived_at = excluded.archived_at,
		deleted_at = excluded.deleted_at`

func scanHabit(row interface{ Scan(...any) error }) (models.Habit, error) {
	var h models.Habit
	var createdAt string
	var lastCompletedAt, archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &h.Icon, &h.Color, &h.CurrentStreak, &h.LongestStreak,
		&h.Credits, &lastCompletedAt, &createdAt, &archivedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, storage.ErrNotFound
		}
		return models.Habit{}, err
	}

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lastCompletedAt.Valid {
		h.LastCompletedAt = models.Day(lastCompletedAt.String)
	}
	if archivedAt.Valid {
		t, err := time.Parse(time.RFC3339, archivedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse archived_at: %w", err)
		}
		h.ArchivedAt = &t
	}
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse deleted_at: %w", err)
		}
		h.DeletedAt = &t
	}

	return h, nil
}

func habitArgs(h models.Habit) []any {
	var lastCompletedAt, archivedAt, deletedAt sql.NullString
	if !h.LastCompletedAt.IsZero() {
		lastCompletedAt = sql.NullString{String: h.LastCompletedAt.String(), Valid: true}
	}
	if h.ArchivedAt != nil {
		archivedAt = sql.NullString{String: h.ArchivedAt.Format(time.RFC3339), Valid: true}
	}
	if h.DeletedAt != nil {
		deletedAt = sql.NullString{String: h.DeletedAt.Format(time.RFC3339), Valid: true}
	}
	return []any{h.ID, h.Name, h.Icon, h.Color, h.CurrentStreak, h.LongestStreak, h.Credits,
		lastCompletedAt, h.CreatedAt.Format(time.RFC3339), archivedAt, deletedAt}
}

func (s *Store) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT `+habitColumns+`
		FROM habits WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanHabit(row)
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT `+habitColumns+`
		FROM habits WHERE name = $1 AND deleted_at IS NULL`, name)
	return scanHabit(row)
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE TRUE"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	_, err := s.db.Exec(habitUpsert, habitArgs(habit)...)
	return err
}

func (s *Store) ArchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = $1 WHERE id = $2 AND deleted_at IS NULL AND archived_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRows(result, "habit not found or already archived/deleted")
}

func (s *Store) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NULL WHERE id = $1 AND deleted_at IS NULL AND archived_at IS NOT NULL`,
		id)
	if err != nil {
		return err
	}
	return requireRows(result, "habit not found or not archived")
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRows(result, "habit not found or already deleted")
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`,
		id)
	if err != nil {
		return err
	}
	return requireRows(result, "habit not found or not deleted")
}

func requireRows(result sql.Result, msg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, msg)
	}
	return nil
}
