// Package prefs handles folio user preferences persistence.
// Preferences are stored in $XDG_CONFIG_HOME/folio/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
)

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Fallback selects the theme used when no valid preference is stored.
type Fallback int

const (
	// FallbackSystem follows the host's reported background.
	FallbackSystem Fallback = iota
	// FallbackDark always uses the dark theme.
	FallbackDark
)

// ParseFallback maps a config value to a Fallback. Empty means system.
func ParseFallback(s string) (Fallback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "system":
		return FallbackSystem, nil
	case "dark":
		return FallbackDark, nil
	default:
		return FallbackSystem, fmt.Errorf("unknown theme fallback %q", s)
	}
}

// Prefs holds user preferences for folio.
type Prefs struct {
	Theme string `toml:"theme"`
}

// Store gets and sets the persisted theme.
type Store interface {
	Get() (string, bool)
	Set(theme string) error
}

// File is a Store backed by a TOML file.
type File struct {
	Path string // empty uses DefaultPath
}

var _ Store = File{}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "folio", "prefs.toml")
}

// Get returns the stored theme when it is "light" or "dark".
func (f File) Get() (string, bool) {
	p, err := Load(f.Path)
	if err != nil {
		return "", false
	}
	if !Valid(p.Theme) {
		return "", false
	}
	return p.Theme, true
}

// Set persists theme, which must be "light" or "dark".
func (f File) Set(theme string) error {
	if !Valid(theme) {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return Save(f.Path, Prefs{Theme: theme})
}

// Valid reports whether theme is a supported value.
func Valid(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

// ResolveTheme returns the stored theme, or the fallback when none is stored.
// prefersLight is the host's ambient preference and is only consulted for
// FallbackSystem.
func ResolveTheme(store Store, fallback Fallback, prefersLight func() bool) string {
	if store != nil {
		if theme, ok := store.Get(); ok {
			return theme
		}
	}
	if fallback == FallbackSystem && prefersLight != nil && prefersLight() {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the opposite theme. An unset or unknown value counts as dark.
func Toggle(current string) string {
	if current == ThemeDark || !Valid(current) {
		return ThemeLight
	}
	return ThemeDark
}

// Load reads preferences from the given path. A missing file yields empty
// preferences; unreadable or invalid files are errors.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, nil
		}
		return Prefs{}, fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Prefs{}, fmt.Errorf("read prefs: %w", err)
	}

	var prefs Prefs
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs: %w", err)
	}
	prefs.Theme = strings.ToLower(strings.TrimSpace(prefs.Theme))
	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPath(), nil
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
