package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs are settings changed from inside the terminal UI and remembered
// between runs. They override the matching Config fields.
type Prefs struct {
	Theme string `toml:"theme"`
}

const defaultPrefsPath = "~/.config/leaderboard/prefs.toml"

// DefaultPrefsPath returns the prefs file used when no path is given.
func DefaultPrefsPath() string {
	return defaultPrefsPath
}

// LoadPrefs reads prefs from path. A missing or unreadable file yields empty
// prefs; the UI should start even when the file is damaged.
func LoadPrefs(path string) Prefs {
	resolved, err := resolvePrefsPath(path)
	if err != nil {
		return Prefs{}
	}
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Prefs{}
	}
	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Prefs{}
	}
	p.Theme = strings.TrimSpace(p.Theme)
	return p
}

// SavePrefs writes prefs to path, creating directories as needed.
func SavePrefs(path string, p Prefs) error {
	resolved, err := resolvePrefsPath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
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

// Apply returns cfg with any preference overrides applied.
func (p Prefs) Apply(cfg Config) Config {
	if p.Theme != "" {
		cfg.Theme = p.Theme
	}
	return cfg
}

func resolvePrefsPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}
