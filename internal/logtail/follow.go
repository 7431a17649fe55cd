package logtail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Follow calls emit for every matching line appended to the file at path
// until ctx is done. Lines already in the file are skipped. The file does not
// need to exist yet; a recreated or truncated file is read from the start.
func Follow(ctx context.Context, path string, filter Filter, emit func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so creates and renames of the file are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch log dir: %w", err)
	}

	t := &tailer{path: path, filter: filter, emit: emit}
	if info, err := os.Stat(path); err == nil {
		t.offset = info.Size()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create):
				t.offset = 0
				t.partial = ""
				fallthrough
			case event.Has(fsnotify.Write):
				if err := t.drain(); err != nil {
					return err
				}
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				t.offset = 0
				t.partial = ""
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch log: %w", err)
		}
	}
}

type tailer struct {
	path    string
	filter  Filter
	emit    func(string)
	offset  int64
	partial string // bytes after the last newline
}

// drain emits complete lines written since the last call.
func (t *tailer) drain() error {
	file, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < t.offset {
		t.offset = 0
		t.partial = ""
	}
	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek log: %w", err)
	}

	reader := bufio.NewReader(file)
	for {
		chunk, err := reader.ReadString('\n')
		t.offset += int64(len(chunk))
		if strings.HasSuffix(chunk, "\n") {
			line := strings.TrimRight(t.partial+chunk, "\r\n")
			t.partial = ""
			if t.filter.Match(line) {
				t.emit(line)
			}
		} else {
			t.partial += chunk
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read log: %w", err)
		}
	}
}
