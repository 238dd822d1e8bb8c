package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiosk/internal/settings"
)

// GetTheme returns the stored theme for a visitor or settings.ErrNotFound.
func (db *DB) GetTheme(ctx context.Context, visitorID string) (settings.Theme, error) {
	var raw string
	err := db.QueryRowContext(ctx,
		`SELECT theme FROM theme_preferences WHERE visitor_id = ?`, visitorID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", settings.ErrNotFound
		}
		return "", fmt.Errorf("get theme: %w", err)
	}
	return settings.ParseTheme(raw)
}

// SetTheme creates or updates a visitor's theme.
func (db *DB) SetTheme(ctx context.Context, visitorID string, theme settings.Theme) error {
	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO theme_preferences (visitor_id, theme, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor_id) DO UPDATE SET
			theme = excluded.theme,
			updated_at = excluded.updated_at`,
		visitorID, string(theme), now, now)
	if err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}

// DeleteStalePreferences removes preferences untouched for longer than olderThan.
// Returns the number of deleted rows.
func (db *DB) DeleteStalePreferences(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := db.ExecContext(ctx,
		`DELETE FROM theme_preferences WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
