package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTheme = errors.New("invalid theme")
	ErrNotFound     = errors.New("preference not found")
)

// Theme is the visitor's colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, raw)
	}
}

// DefaultTheme follows the visitor's colour scheme preference when nothing is stored.
func DefaultTheme(prefersLight bool) Theme {
	if prefersLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle flips between light and dark. Anything but light becomes light.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Label is the text shown on the theme toggle.
func (t Theme) Label() string {
	if t == ThemeLight {
		return "Light"
	}
	return "Dark"
}

// MetaColor is the value for <meta name="theme-color">.
func (t Theme) MetaColor() string {
	if t == ThemeLight {
		return "#f7f8fb"
	}
	return "#0b0f19"
}
