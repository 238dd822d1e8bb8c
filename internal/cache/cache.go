// Package cache puts Redis in front of the theme store and keeps the last published status.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"kiosk/internal/settings"
	"kiosk/internal/status"
)

const (
	themeKeyPrefix = "kiosk:theme:"
	statusKey      = "kiosk:status:last"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ThemeStore is a read-through cache over another settings.Store.
// Redis errors are logged and the backing store is used instead.
type ThemeStore struct {
	next   settings.Store
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewThemeStore(next settings.Store, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *ThemeStore {
	return &ThemeStore{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: logger.With().Str("component", "theme_cache").Logger(),
	}
}

func (s *ThemeStore) GetTheme(ctx context.Context, visitorID string) (settings.Theme, error) {
	if s.enabled() {
		val, err := s.redis.Get(ctx, themeKeyPrefix+visitorID).Result()
		switch {
		case err == nil:
			if theme, perr := settings.ParseTheme(val); perr == nil {
				return theme, nil
			}
		case !errors.Is(err, redis.Nil):
			s.logger.Warn().Err(err).Msg("redis get failed")
		}
	}

	theme, err := s.next.GetTheme(ctx, visitorID)
	if err != nil {
		return "", err
	}
	s.write(ctx, visitorID, theme)
	return theme, nil
}

func (s *ThemeStore) SetTheme(ctx context.Context, visitorID string, theme settings.Theme) error {
	if err := s.next.SetTheme(ctx, visitorID, theme); err != nil {
		return err
	}
	s.write(ctx, visitorID, theme)
	return nil
}

func (s *ThemeStore) write(ctx context.Context, visitorID string, theme settings.Theme) {
	if !s.enabled() {
		return
	}
	if err := s.redis.Set(ctx, themeKeyPrefix+visitorID, string(theme), s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("redis set failed")
	}
}

func (s *ThemeStore) enabled() bool {
	return s.redis != nil && s.ttl > 0
}

// StatusCache keeps the most recent status snapshot so a restarted instance
// can serve it before the first tick.
type StatusCache struct {
	redis *redis.Client
}

func NewStatusCache(client *redis.Client) *StatusCache {
	return &StatusCache{redis: client}
}

func (c *StatusCache) SetStatus(ctx context.Context, snap status.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, statusKey, data, 0).Err()
}

// GetStatus returns false when nothing is cached or the entry is unreadable.
func (c *StatusCache) GetStatus(ctx context.Context) (status.Snapshot, bool) {
	var snap status.Snapshot
	val, err := c.redis.Get(ctx, statusKey).Result()
	if err != nil {
		return snap, false
	}
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return snap, false
	}
	return snap, true
}
