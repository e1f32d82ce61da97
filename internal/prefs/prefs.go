// Package prefs persists commons user preferences that the TUI changes at
// runtime. Preferences live in ~/.config/commons/prefs.toml, apart from the
// hand-edited config file.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds the remembered UI choices.
type Prefs struct {
	Theme string `toml:"theme"`
	// ShowHints toggles the known-tag hints under the composer.
	ShowHints *bool `toml:"show_hints,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/commons/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used before anything was saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// HintsEnabled reports whether composer hints are shown. Unset means on.
func (p Prefs) HintsEnabled() bool {
	return p.ShowHints == nil || *p.ShowHints
}

// WithHints returns a copy with the hint toggle set.
func (p Prefs) WithHints(on bool) Prefs {
	p.ShowHints = &on
	return p
}

// Load reads preferences from path. Preferences are never worth failing
// startup over, so unreadable or invalid files yield defaults.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Default(), nil
	}

	p := Default()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	return p, nil
}

// Save writes preferences to path, creating parent directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	// The file is replaced atomically.
	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultPrefsPath
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
