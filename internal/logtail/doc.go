// Package logtail reads the tail of the runner's log file.
//
// # Overview
//
// The runner writes slog text lines to a file because the terminal belongs to
// the UI. This package pulls the last N of those lines back out, optionally
// keeping only one trial's lines or only lines at or above a level, and can
// color them by level for printing.
//
// Example usage:
//
//	lines, err := logtail.Read(cfg.LogFile, 200, logtail.Filter{TrialID: id})
//	if err != nil {
//		return err
//	}
//	for _, line := range lines {
//		fmt.Println(logtail.Highlight(line))
//	}
//
// # Ring Buffer Algorithm
//
// Read keeps a circular buffer of size maxLines:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each matching line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines kept
//	3. If total < maxLines:
//	   - Return first 'count' entries from buffer
//	4. If total >= maxLines:
//	   - Return buffer starting from current index (oldest line)
//
// Filtering happens before a line enters the ring, so "the last 50 lines of
// trial X" means 50 of X's lines, not X's share of the last 50.
//
// # Following
//
// Follow watches the log's directory with fsnotify and emits lines appended
// after it started, applying the same Filter. A partial last line is held
// until its newline arrives. When the file is truncated or recreated,
// reading restarts at offset zero.
//
// # Line Format
//
// Lines are expected in slog's text format:
//
//	time=2024-01-01T09:00:00.000Z level=WARN msg="leaderboard refresh failed; keeping previous table" trial=3f2a... error="..."
//
// Attr and Level pick values out of such lines; quoted values are unquoted.
// Lines in any other format are kept by a level filter and dropped by a
// trial filter.
//
// # Error Handling
//
// Read returns nil, nil for non-existent files. Other errors (permission
// denied, I/O errors, lines over 1MB) are returned wrapped.
package logtail
