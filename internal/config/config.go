package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the runner settings.
type Config struct {
	// WWLURL is the World-Wide-Lab base URL. Empty leaves the remote client
	// uninitialized, so remote trials fail validation.
	WWLURL            string
	RequestsPerSecond float64
	Theme             string
	LogFile           string
	ResultsPath       string
}

const (
	defaultConfigPath        = "~/.config/leaderboard/config.toml"
	defaultDataDir           = "~/.local/share/leaderboard"
	defaultTheme             = "Nightfox"
	defaultRequestsPerSecond = 2
)

// DefaultPath returns the config file used when no path is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the settings used when no config file exists.
func Default() Config {
	dataDir := mustExpand(defaultDataDir)
	return Config{
		RequestsPerSecond: defaultRequestsPerSecond,
		Theme:             defaultTheme,
		LogFile:           filepath.Join(dataDir, "leaderboard.log"),
		ResultsPath:       filepath.Join(dataDir, "results.db"),
	}
}

// Load reads the config at path, falling back to defaults when it is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		WWLURL            string   `toml:"wwl_url"`
		RequestsPerSecond *float64 `toml:"requests_per_second"`
		Theme             string   `toml:"theme"`
		LogFile           string   `toml:"log_file"`
		ResultsPath       string   `toml:"results_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.WWLURL = strings.TrimSpace(raw.WWLURL)
	if raw.RequestsPerSecond != nil {
		if *raw.RequestsPerSecond < 0 {
			return Config{}, fmt.Errorf("parse config: requests_per_second must not be negative")
		}
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		cfg.Theme = theme
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if results := strings.TrimSpace(raw.ResultsPath); results != "" {
		cfg.ResultsPath = mustExpand(results)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
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
