package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
)

// Watch calls onChange whenever the file at path (or a sidecar such as a
// SQLite WAL) is written, created or replaced. It blocks until ctx is done.
// The parent directory is watched so atomic renames are seen.
func Watch(ctx context.Context, path string, onChange func()) error {
	if path == "" {
		return fmt.Errorf("storage: nothing to watch for an in-memory backend")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("storage: create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return unavailable("watch "+dir, err)
	}

	base := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			pterm.DefaultLogger.Warn("storage watcher error", pterm.DefaultLogger.Args("path", path, "error", err))
		}
	}
}
