package postgres

import (
	"fmt"

	"github.com/julianstephens/kindling/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case "streak_lookback_days":
			if _, err := fmt.Sscanf(value, "%d", &settings.StreakLookbackDays); err != nil {
				return models.Settings{}, fmt.Errorf("parsing streak_lookback_days: %w", err)
			}
		case "max_backups":
			if _, err := fmt.Sscanf(value, "%d", &settings.MaxBackups); err != nil {
				return models.Settings{}, fmt.Errorf("parsing max_backups: %w", err)
			}
		}
		count++
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("streak_lookback_days", fmt.Sprintf("%d", settings.StreakLookbackDays)); err != nil {
		return err
	}
	if _, err := stmt.Exec("max_backups", fmt.Sprintf("%d", settings.MaxBackups)); err != nil {
		return err
	}

	return tx.Commit()
}
