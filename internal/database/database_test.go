package database

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk/internal/settings"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(filepath.Join(t.TempDir(), "data", "kiosk.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestThemePreferences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.GetTheme(ctx, "visitor-1")
	assert.True(t, errors.Is(err, settings.ErrNotFound))

	require.NoError(t, db.SetTheme(ctx, "visitor-1", settings.ThemeLight))
	theme, err := db.GetTheme(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeLight, theme)

	require.NoError(t, db.SetTheme(ctx, "visitor-1", settings.ThemeDark))
	theme, err = db.GetTheme(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, theme)
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	db := newTestDB(t)
	err := db.SetTheme(context.Background(), "visitor-2", settings.Theme("sepia"))
	assert.Error(t, err)
}

func TestSettingsServiceOverSQLite(t *testing.T) {
	db := newTestDB(t)
	svc := settings.NewService(db, zerolog.New(io.Discard))
	ctx := context.Background()

	first, err := svc.Toggle(ctx, "visitor-3", true)
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, first.Theme)

	again, err := svc.Load(ctx, "visitor-3", true)
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, again.Theme)
}

func TestDeleteStalePreferences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetTheme(ctx, "old", settings.ThemeLight))
	_, err := db.ExecContext(ctx, `UPDATE theme_preferences SET updated_at = ? WHERE visitor_id = 'old'`,
		time.Now().Add(-400*24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, db.SetTheme(ctx, "fresh", settings.ThemeDark))

	deleted, err := db.DeleteStalePreferences(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = db.GetTheme(ctx, "fresh")
	assert.NoError(t, err)
}

func TestTransitions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, time.June, 8, 8, 0, 0, 0, time.UTC)

	require.NoError(t, db.RecordTransition(ctx, true, "Mo 00:00", base))
	require.NoError(t, db.RecordTransition(ctx, false, "", base.Add(16*time.Hour)))

	got, err := db.RecentTransitions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, got[0].Open)
	assert.Empty(t, got[0].NextChange)
	assert.True(t, got[1].Open)
	assert.Equal(t, "Mo 00:00", got[1].NextChange)
}

func TestBackupService(t *testing.T) {
	db := newTestDB(t)
	logger := zerolog.New(io.Discard)
	dir := filepath.Join(t.TempDir(), "backups")
	svc := NewBackupService(db, BackupConfig{Enabled: true, Path: dir, Retention: 24 * time.Hour}, &logger)

	require.NoError(t, db.SetTheme(context.Background(), "visitor", settings.ThemeLight))

	dest, err := svc.PerformBackup(context.Background())
	require.NoError(t, err)
	_, err = os.Stat(dest)
	require.NoError(t, err)

	old := filepath.Join(dir, backupPrefix+"old.db")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))
	require.NoError(t, os.Chtimes(unrelated, past, past))

	deleted, err := svc.CleanupOldBackups(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dest)
	assert.NoError(t, err)
	_, err = os.Stat(unrelated)
	assert.NoError(t, err)
}
