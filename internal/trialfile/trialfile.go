package trialfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/five82/leaderboard/internal/leaderboard"
)

// Trial is one leaderboard trial read from a file. Params.Remote is left nil;
// the caller supplies the client.
type Trial struct {
	Name   string
	Params leaderboard.Params
}

// Remote reports whether the trial fetches scores from a leaderboard.
func (t Trial) Remote() bool {
	return strings.TrimSpace(t.Params.LeaderboardID) != ""
}

// aliases maps accepted alternative spellings to their canonical key.
var aliases = map[string]string{
	"wwl_leaderboard_id": "leaderboard_id",
	"wwl_score_level":    "score_level",
	"wwl_score_options":  "fetch_options",
}

var knownKeys = map[string]bool{
	"name":             true,
	"data":             true,
	"leaderboard_id":   true,
	"columns":          true,
	"score_level":      true,
	"fetch_options":    true,
	"refresh_interval": true,
	"loading_message":  true,
	"table_styles":     true,
	"duration":         true,
}

// Load reads a trial file from disk.
func Load(path string) ([]Trial, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trial file: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read trial file: %w", err)
	}
	return Parse(bytes)
}

// Parse decodes a trial file. The document is either a single trial mapping
// or a mapping with a "trials" sequence. Shape problems are reported as
// *leaderboard.ConfigurationError; malformed YAML is wrapped as is.
func Parse(data []byte) ([]Trial, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse trial file: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, shapeError(&doc, "trial file is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, shapeError(root, "trial file must be a mapping")
	}

	if list := lookup(root, "trials"); list != nil {
		if len(root.Content) != 2 {
			return nil, shapeError(root, "'trials' cannot be combined with trial parameters")
		}
		if list.Kind != yaml.SequenceNode {
			return nil, shapeError(list, "'trials' must be a list")
		}
		if len(list.Content) == 0 {
			return nil, shapeError(list, "'trials' is empty")
		}
		trials := make([]Trial, 0, len(list.Content))
		for i, item := range list.Content {
			t, err := parseTrial(item)
			if err != nil {
				return nil, fmt.Errorf("trial %d: %w", i+1, err)
			}
			if t.Name == "" {
				t.Name = fmt.Sprintf("trial-%d", i+1)
			}
			trials = append(trials, t)
		}
		return trials, nil
	}

	t, err := parseTrial(root)
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = "trial-1"
	}
	return []Trial{t}, nil
}

func parseTrial(node *yaml.Node) (Trial, error) {
	if node.Kind != yaml.MappingNode {
		return Trial{}, shapeError(node, "trial must be a mapping")
	}

	var t Trial
	seen := map[string]bool{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, value := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if !knownKeys[key] {
			return Trial{}, shapeError(keyNode, "unknown parameter %q", keyNode.Value)
		}
		if seen[key] {
			return Trial{}, shapeError(keyNode, "parameter %q given more than once", key)
		}
		seen[key] = true

		if err := applyParam(&t, key, value); err != nil {
			return Trial{}, err
		}
	}
	return t, nil
}

func applyParam(t *Trial, key string, value *yaml.Node) error {
	p := &t.Params
	switch key {
	case "name":
		return decodeString(value, key, &t.Name)
	case "data":
		if isNull(value) {
			return nil
		}
		rows, err := decodeRows(value)
		if err != nil {
			return err
		}
		p.Data = rows
	case "leaderboard_id":
		return decodeString(value, key, &p.LeaderboardID)
	case "columns":
		cols, err := decodeColumns(value)
		if err != nil {
			return err
		}
		p.Columns = cols
	case "score_level":
		var level string
		if err := decodeString(value, key, &level); err != nil {
			return err
		}
		p.ScoreLevel = leaderboard.ScoreLevel(level)
	case "fetch_options":
		if isNull(value) {
			return nil
		}
		if value.Kind != yaml.MappingNode {
			return shapeError(value, "Parameter 'fetch_options' must be a mapping")
		}
		opts := map[string]any{}
		if err := value.Decode(&opts); err != nil {
			return shapeError(value, "Parameter 'fetch_options': %v", err)
		}
		p.FetchOptions = opts
	case "refresh_interval":
		secs, err := decodeNumber(value, key)
		if err != nil || secs == nil {
			return err
		}
		p.RefreshInterval = time.Duration(*secs * float64(time.Second))
	case "loading_message":
		return decodeString(value, key, &p.LoadingMessage)
	case "table_styles":
		return decodeString(value, key, &p.TableStyles)
	case "duration":
		ms, err := decodeNumber(value, key)
		if err != nil || ms == nil {
			return err
		}
		d := time.Duration(math.Round(*ms * float64(time.Millisecond)))
		p.Duration = &d
	}
	return nil
}

// decodeRows keeps the key order of every row mapping.
func decodeRows(node *yaml.Node) ([]leaderboard.Row, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, shapeError(node, "Parameter 'data' must be a list of rows")
	}
	rows := make([]leaderboard.Row, 0, len(node.Content))
	for i, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, shapeError(item, "row %d must be a mapping", i)
		}
		fields := make([]leaderboard.Field, 0, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			var v any
			if err := item.Content[j+1].Decode(&v); err != nil {
				return nil, shapeError(item.Content[j+1], "row %d: %v", i, err)
			}
			fields = append(fields, leaderboard.Field{Key: item.Content[j].Value, Value: v})
		}
		rows = append(rows, leaderboard.NewRow(fields...))
	}
	return rows, nil
}

// decodeColumns accepts a list whose items are either a bare key or a
// mapping with key|col and an optional label|name.
func decodeColumns(node *yaml.Node) ([]leaderboard.ColumnSpec, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, shapeError(node, "Parameter 'columns' must be a list")
	}
	cols := make([]leaderboard.ColumnSpec, 0, len(node.Content))
	for i, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			cols = append(cols, leaderboard.Column(item.Value))
		case yaml.MappingNode:
			col, err := decodeColumn(item, i)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col)
		default:
			return nil, shapeError(item, "column %d must be a key or a mapping", i)
		}
	}
	return cols, nil
}

func decodeColumn(node *yaml.Node, index int) (leaderboard.ColumnSpec, error) {
	var col leaderboard.ColumnSpec
	for j := 0; j+1 < len(node.Content); j += 2 {
		k, v := node.Content[j], node.Content[j+1]
		if v.Kind != yaml.ScalarNode {
			return col, shapeError(v, "column %d: %q must be a scalar", index, k.Value)
		}
		switch k.Value {
		case "key", "col":
			col.Key = v.Value
		case "label", "name":
			if isNull(v) {
				continue
			}
			label := v.Value
			col.Label = &label
		default:
			return col, shapeError(k, "column %d: unknown field %q", index, k.Value)
		}
	}
	return col, nil
}

func decodeString(node *yaml.Node, key string, dest *string) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.ScalarNode {
		return shapeError(node, "Parameter '%s' must be a string", key)
	}
	*dest = node.Value
	return nil
}

func decodeNumber(node *yaml.Node, key string) (*float64, error) {
	if isNull(node) {
		return nil, nil
	}
	var f float64
	if node.Kind != yaml.ScalarNode || node.Decode(&f) != nil {
		return nil, shapeError(node, "Parameter '%s' must be a number", key)
	}
	return &f, nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func shapeError(node *yaml.Node, format string, args ...any) error {
	reason := fmt.Sprintf(format, args...)
	if node != nil && node.Line > 0 {
		reason = fmt.Sprintf("line %d: %s", node.Line, reason)
	}
	return &leaderboard.ConfigurationError{Reason: reason}
}

// IsConfigurationError reports whether err came from a malformed trial file.
func IsConfigurationError(err error) bool {
	var cfgErr *leaderboard.ConfigurationError
	return errors.As(err, &cfgErr)
}
