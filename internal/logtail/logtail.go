package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Filter selects log lines written by the runner's text handler. The zero
// Filter matches every line.
type Filter struct {
	TrialID  string
	MinLevel slog.Leveler // nil keeps every level
}

// Match reports whether line passes the filter.
func (f Filter) Match(line string) bool {
	if f.TrialID != "" {
		v, ok := Attr(line, "trial")
		if !ok || v != f.TrialID {
			return false
		}
	}
	if f.MinLevel != nil {
		if lvl, ok := Level(line); ok && lvl < f.MinLevel.Level() {
			return false
		}
	}
	return true
}

// Read returns at most maxLines matching lines from the end of the file at
// path. maxLines <= 0 returns every matching line. A missing file yields no
// lines.
func Read(path string, maxLines int, filter Filter) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			if line := scanner.Text(); filter.Match(line) {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !filter.Match(line) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Attr returns the value of key in a slog text line. Quoted values are
// unquoted.
func Attr(line, key string) (string, bool) {
	prefix := key + "="
	for rest := line; rest != ""; {
		i := strings.Index(rest, prefix)
		if i < 0 {
			return "", false
		}
		if i > 0 && rest[i-1] != ' ' {
			rest = rest[i+len(prefix):]
			continue
		}
		value := rest[i+len(prefix):]
		if strings.HasPrefix(value, `"`) {
			quoted, err := strconv.QuotedPrefix(value)
			if err != nil {
				return "", false
			}
			unquoted, err := strconv.Unquote(quoted)
			if err != nil {
				return "", false
			}
			return unquoted, true
		}
		if end := strings.IndexByte(value, ' '); end >= 0 {
			value = value[:end]
		}
		return value, true
	}
	return "", false
}

// Level returns the level recorded in a slog text line.
func Level(line string) (slog.Level, bool) {
	raw, ok := Attr(line, "level")
	if !ok {
		return 0, false
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return 0, false
	}
	return lvl, true
}

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c94f6d")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dbc074"))
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#738091"))
)

// Highlight colors a line by its level for terminal output. Lines without a
// level, and info lines, are returned unchanged.
func Highlight(line string) string {
	lvl, ok := Level(line)
	if !ok {
		return line
	}
	switch {
	case lvl >= slog.LevelError:
		return errorStyle.Render(line)
	case lvl >= slog.LevelWarn:
		return warnStyle.Render(line)
	case lvl < slog.LevelInfo:
		return debugStyle.Render(line)
	default:
		return line
	}
}
