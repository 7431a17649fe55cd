package wwl

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/five82/leaderboard/internal/leaderboard"
)

// ScoresResponse is the body of a scores request. The API answers either with
// a bare JSON array of score objects or with {"scores": [...]}.
type ScoresResponse struct {
	Scores []leaderboard.Row `json:"scores"`
}

// UnmarshalJSON accepts both response shapes.
func (r *ScoresResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty scores response")
	}
	switch trimmed[0] {
	case '[':
		var rows []leaderboard.Row
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return err
		}
		r.Scores = rows
	case '{':
		var wrapper struct {
			Scores *[]leaderboard.Row `json:"scores"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return err
		}
		if wrapper.Scores == nil {
			return fmt.Errorf("scores response has no \"scores\" field")
		}
		r.Scores = *wrapper.Scores
	default:
		return fmt.Errorf("unexpected scores response starting with %q", trimmed[0])
	}
	if r.Scores == nil {
		r.Scores = []leaderboard.Row{}
	}
	return nil
}

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}
