// Package config loads the leaderboard runner's TOML configuration and the
// preferences the terminal UI remembers between runs.
//
// # Overview
//
// Config carries the few settings the runner needs outside of a trial file:
// where the World-Wide-Lab API lives, how fast it may be called, which theme
// to draw with, and where logs and results are written.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/leaderboard/config.toml
//  3. If the file doesn't exist, use Default()
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Default Values
//
//   - wwl_url: empty (remote trials fail validation until it is set)
//   - requests_per_second: 2 (0 disables the limiter)
//   - theme: Nightfox
//   - log_file: ~/.local/share/leaderboard/leaderboard.log
//   - results_path: ~/.local/share/leaderboard/results.db
//
// # TOML Format
//
//	wwl_url = "https://wwl.example.org"
//	requests_per_second = 2
//	theme = "Slate"
//	log_file = "~/.local/share/leaderboard/leaderboard.log"
//	results_path = "~/.local/share/leaderboard/results.db"
//
// Tilde expansion is applied to the config path, log_file, and results_path.
//
// # Preferences
//
// Prefs live in ~/.config/leaderboard/prefs.toml and are written by the UI
// when the user cycles the theme. LoadPrefs never fails; a damaged file reads
// as empty prefs. Prefs.Apply layers them over a loaded Config.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and a negative requests_per_second
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//	cfg = config.LoadPrefs("").Apply(cfg)
//	client, err := wwl.NewClient(cfg.WWLURL, wwl.Options{
//		RequestsPerSecond: cfg.RequestsPerSecond,
//	})
package config
