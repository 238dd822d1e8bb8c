// Package settings holds per-visitor preferences. The only preference today is the theme.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Store persists one theme per visitor.
type Store interface {
	// GetTheme returns ErrNotFound when the visitor has no stored theme.
	GetTheme(ctx context.Context, visitorID string) (Theme, error)
	SetTheme(ctx context.Context, visitorID string, theme Theme) error
}

// Settings is the resolved preference set handed to the rendering layer.
type Settings struct {
	VisitorID string `json:"visitor_id"`
	Theme     Theme  `json:"theme"`
	Label     string `json:"label"`
	MetaColor string `json:"meta_color"`
}

func newSettings(visitorID string, theme Theme) Settings {
	return Settings{
		VisitorID: visitorID,
		Theme:     theme,
		Label:     theme.Label(),
		MetaColor: theme.MetaColor(),
	}
}

// Service loads settings once per request and saves them on every change.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a settings service over store.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "settings").Logger(),
	}
}

// Load returns the stored theme. Without one, the colour scheme hint decides and
// the result is saved so the next visit is stable.
func (s *Service) Load(ctx context.Context, visitorID string, prefersLight bool) (Settings, error) {
	theme, err := s.store.GetTheme(ctx, visitorID)
	if err == nil {
		return newSettings(visitorID, theme), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Settings{}, fmt.Errorf("load theme: %w", err)
	}

	theme = DefaultTheme(prefersLight)
	if err := s.store.SetTheme(ctx, visitorID, theme); err != nil {
		return Settings{}, fmt.Errorf("save default theme: %w", err)
	}
	s.logger.Debug().Str("visitor_id", visitorID).Str("theme", string(theme)).Msg("default theme stored")
	return newSettings(visitorID, theme), nil
}

// Set stores an explicit theme.
func (s *Service) Set(ctx context.Context, visitorID string, theme Theme) (Settings, error) {
	if _, err := ParseTheme(string(theme)); err != nil {
		return Settings{}, err
	}
	if err := s.store.SetTheme(ctx, visitorID, theme); err != nil {
		return Settings{}, fmt.Errorf("save theme: %w", err)
	}
	return newSettings(visitorID, theme), nil
}

// Toggle flips the visitor's current theme and stores the result.
func (s *Service) Toggle(ctx context.Context, visitorID string, prefersLight bool) (Settings, error) {
	current, err := s.Load(ctx, visitorID, prefersLight)
	if err != nil {
		return Settings{}, err
	}
	next := current.Theme.Toggle()
	if err := s.store.SetTheme(ctx, visitorID, next); err != nil {
		return Settings{}, fmt.Errorf("save theme: %w", err)
	}
	s.logger.Info().Str("visitor_id", visitorID).Str("theme", string(next)).Msg("theme toggled")
	return newSettings(visitorID, next), nil
}
