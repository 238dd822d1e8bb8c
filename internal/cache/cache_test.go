package cache

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk/internal/hours"
	"kiosk/internal/settings"
	"kiosk/internal/status"
)

type countingStore struct {
	themes map[string]settings.Theme
	gets   int
}

func (s *countingStore) GetTheme(_ context.Context, id string) (settings.Theme, error) {
	s.gets++
	theme, ok := s.themes[id]
	if !ok {
		return "", settings.ErrNotFound
	}
	return theme, nil
}

func (s *countingStore) SetTheme(_ context.Context, id string, theme settings.Theme) error {
	s.themes[id] = theme
	return nil
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestThemeStoreReadThrough(t *testing.T) {
	mr, client := newRedis(t)
	backing := &countingStore{themes: map[string]settings.Theme{"v1": settings.ThemeLight}}
	store := NewThemeStore(backing, client, time.Hour, zerolog.New(io.Discard))
	ctx := context.Background()

	theme, err := store.GetTheme(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeLight, theme)
	assert.Equal(t, 1, backing.gets)

	val, err := mr.Get(themeKeyPrefix + "v1")
	require.NoError(t, err)
	assert.Equal(t, "light", val)

	theme, err = store.GetTheme(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeLight, theme)
	assert.Equal(t, 1, backing.gets, "second read served from redis")

	mr.FastForward(2 * time.Hour)
	_, err = store.GetTheme(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.gets, "expired entry falls through")
}

func TestThemeStoreWriteThrough(t *testing.T) {
	mr, client := newRedis(t)
	backing := &countingStore{themes: map[string]settings.Theme{}}
	store := NewThemeStore(backing, client, time.Hour, zerolog.New(io.Discard))

	require.NoError(t, store.SetTheme(context.Background(), "v2", settings.ThemeDark))
	assert.Equal(t, settings.ThemeDark, backing.themes["v2"])
	val, err := mr.Get(themeKeyPrefix + "v2")
	require.NoError(t, err)
	assert.Equal(t, "dark", val)
}

func TestThemeStoreNotFound(t *testing.T) {
	_, client := newRedis(t)
	store := NewThemeStore(&countingStore{themes: map[string]settings.Theme{}}, client, time.Hour, zerolog.New(io.Discard))

	_, err := store.GetTheme(context.Background(), "missing")
	assert.True(t, errors.Is(err, settings.ErrNotFound))
}

func TestThemeStoreFallsBackWhenRedisDown(t *testing.T) {
	mr, client := newRedis(t)
	backing := &countingStore{themes: map[string]settings.Theme{"v3": settings.ThemeDark}}
	store := NewThemeStore(backing, client, time.Hour, zerolog.New(io.Discard))
	mr.Close()

	theme, err := store.GetTheme(context.Background(), "v3")
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, theme)
	require.NoError(t, store.SetTheme(context.Background(), "v3", settings.ThemeLight))
}

func TestStatusCache(t *testing.T) {
	_, client := newRedis(t)
	c := NewStatusCache(client)
	ctx := context.Background()

	_, ok := c.GetStatus(ctx)
	assert.False(t, ok)

	snap := status.Snapshot{
		Badge: status.Compose(true, "Mo 00:00", true),
		At:    time.Date(2026, time.June, 8, 8, 20, 0, 0, time.UTC),
	}
	require.NoError(t, c.SetStatus(ctx, snap))

	got, ok := c.GetStatus(ctx)
	require.True(t, ok)
	assert.True(t, got.Open)
	assert.Equal(t, "Mo 00:00", got.NextChange)
	assert.True(t, snap.At.Equal(got.At))
}

func TestStatusCacheSeedsRestartedTicker(t *testing.T) {
	_, client := newRedis(t)
	c := NewStatusCache(client)
	ctx := context.Background()

	// Published at Monday 23:50 before the restart.
	require.NoError(t, c.SetStatus(ctx, status.Snapshot{Badge: status.Compose(true, "Mo 00:00", true)}))

	// Back up on Tuesday 07:00: closed.
	now := time.Date(2026, time.June, 9, 7, 0, 0, 0, time.UTC)
	weekday := hours.DaySchedule{{Start: "08:00", End: "00:00"}}
	ev := hours.NewEvaluator(hours.WeeklySchedule{weekday, weekday}, time.UTC,
		hours.ClockFunc(func() time.Time { return now }))
	ticker := status.NewTicker(ev, time.Minute, zerolog.New(io.Discard))

	prev, ok := c.GetStatus(ctx)
	require.True(t, ok)
	ticker.Seed(prev)

	snap := ticker.Refresh(ctx)
	assert.False(t, snap.Open)
	assert.True(t, snap.Transition)
	assert.Equal(t, "Di 08:00", snap.NextChange)
}
