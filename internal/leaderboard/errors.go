package leaderboard

import "fmt"

// ConfigurationError reports trial options that are missing, conflicting, or
// malformed. It is always fatal to the trial.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// FetchError wraps a failed remote score request.
type FetchError struct {
	LeaderboardID string
	Err           error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch leaderboard %q: %v", e.LeaderboardID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
