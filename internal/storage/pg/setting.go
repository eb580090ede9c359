package pg

import (
	"database/sql"
	"errors"
	"fmt"

	internal_errors "github.com/hardiksingla/insightboard/internal/errors"
)

// Setting returns the value stored under key. Missing keys map to 404 so the
// sync service can distinguish first-run bootstrap from real failures.
func (s *Storage) Setting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &internal_errors.ErrorWithStatusCode{Message: "Setting not found", StatusCode: 404}
		}
		return "", fmt.Errorf("failed to query setting: %w", err)
	}
	return value, nil
}

// UpsertSetting stores or replaces the value under key.
func (s *Storage) UpsertSetting(key, value string) error {
	_, err := s.db.Exec(`
        INSERT INTO settings(key, value) VALUES($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}
