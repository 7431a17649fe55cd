package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines, Filter{})
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10, Filter{})
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestRead_FiltersByTrialAndLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "runner.log")

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := logger.With("trial", "aaa")
	b := logger.With("trial", "b b")
	a.Info("loading leaderboard", "leaderboard", "lb")
	b.Info("trial finished")
	a.Debug("leaderboard refreshed", "rows", 3)
	a.Warn("leaderboard refresh failed; keeping previous table", "error", "boom")
	logger.Info("timeline started")
	if err := os.WriteFile(logPath, []byte(buf.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Read(logPath, 0, Filter{TrialID: "aaa"})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Read(trial=aaa) returned %d lines, want 3: %v", len(got), got)
	}

	got, err = Read(logPath, 1, Filter{TrialID: "aaa"})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0], "refresh failed") {
		t.Fatalf("Read(trial=aaa, 1) = %v, want the warning", got)
	}

	got, err = Read(logPath, 0, Filter{TrialID: "b b"})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0], "trial finished") {
		t.Fatalf("Read(trial=\"b b\") = %v, want one line", got)
	}

	got, err = Read(logPath, 0, Filter{MinLevel: slog.LevelWarn})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Read(min=warn) returned %d lines, want 1: %v", len(got), got)
	}
}

func TestAttr(t *testing.T) {
	line := `time=2024-01-01T09:00:00.000Z level=INFO msg="trial finished" trial=abc rows=3 subtrial=zzz`
	tests := []struct {
		key   string
		want  string
		found bool
	}{
		{"level", "INFO", true},
		{"msg", "trial finished", true},
		{"trial", "abc", true},
		{"rows", "3", true},
		{"missing", "", false},
	}
	for _, tt := range tests {
		got, ok := Attr(line, tt.key)
		if ok != tt.found || got != tt.want {
			t.Errorf("Attr(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.found)
		}
	}
}

func TestLevel(t *testing.T) {
	if lvl, ok := Level("time=x level=WARN msg=hi"); !ok || lvl != slog.LevelWarn {
		t.Fatalf("Level = %v, %v; want WARN", lvl, ok)
	}
	if _, ok := Level("plain text"); ok {
		t.Fatalf("Level on plain text reported a level")
	}
}

func TestHighlight_LeavesPlainLinesAlone(t *testing.T) {
	for _, line := range []string{"plain text", "time=x level=INFO msg=hi"} {
		if got := Highlight(line); got != line {
			t.Errorf("Highlight(%q) = %q, want unchanged", line, got)
		}
	}
	if got := Highlight("time=x level=ERROR msg=boom"); !strings.Contains(got, "msg=boom") {
		t.Errorf("Highlight dropped content: %q", got)
	}
}
