package settings

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu     sync.Mutex
	themes map[string]Theme
	getErr error
	sets   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{themes: make(map[string]Theme)}
}

func (m *memoryStore) GetTheme(_ context.Context, visitorID string) (Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	theme, ok := m.themes[visitorID]
	if !ok {
		return "", ErrNotFound
	}
	return theme, nil
}

func (m *memoryStore) SetTheme(_ context.Context, visitorID string, theme Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[visitorID] = theme
	m.sets++
	return nil
}

func newTestService(store Store) *Service {
	return NewService(store, zerolog.New(io.Discard))
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme(" Light ")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	theme, err = ParseTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	_, err = ParseTheme("auto")
	assert.True(t, errors.Is(err, ErrInvalidTheme))
}

func TestThemeAttributes(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, "Light", ThemeLight.Label())
	assert.Equal(t, "Dark", ThemeDark.Label())
	assert.Equal(t, "#f7f8fb", ThemeLight.MetaColor())
	assert.Equal(t, "#0b0f19", ThemeDark.MetaColor())
}

func TestServiceLoadDefaultsAndPersists(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	got, err := svc.Load(ctx, "v1", true)
	require.NoError(t, err)
	assert.Equal(t, Settings{VisitorID: "v1", Theme: ThemeLight, Label: "Light", MetaColor: "#f7f8fb"}, got)
	assert.Equal(t, 1, store.sets)

	// the hint is ignored once a theme is stored
	got, err = svc.Load(ctx, "v1", false)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, got.Theme)
	assert.Equal(t, 1, store.sets)
}

func TestServiceToggle(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	got, err := svc.Toggle(ctx, "v2", false)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, got.Theme, "dark default toggles to light")

	got, err = svc.Toggle(ctx, "v2", false)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, got.Theme)
	assert.Equal(t, ThemeDark, store.themes["v2"])
}

func TestServiceSet(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	got, err := svc.Set(context.Background(), "v3", ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, "Dark", got.Label)

	_, err = svc.Set(context.Background(), "v3", Theme("sepia"))
	assert.True(t, errors.Is(err, ErrInvalidTheme))
	assert.Equal(t, ThemeDark, store.themes["v3"])
}

func TestServiceLoadStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("disk on fire")
	svc := newTestService(store)

	_, err := svc.Load(context.Background(), "v4", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Zero(t, store.sets)
}
