package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pitrseek/internal/logger"
)

// watchDebounce collapses the burst of events a single save produces.
const watchDebounce = 100 * time.Millisecond

// Watch calls onChange after the file at path is written, created, renamed
// or removed, until ctx is done. The parent directory is watched so
// editors that replace the file by renaming are seen too. onChange runs on
// the watcher goroutine, so calls never overlap.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	go watch(ctx, watcher, path, onChange)
	return nil
}

func watch(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func()) {
	defer watcher.Close()

	// fire is nil while no change is pending.
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path || !isConfigChange(event.Op) {
				continue
			}
			logger.Trace("Config event: %s", event)

			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if ctx.Err() == nil {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Config watcher: %v", err)
		}
	}
}

// isConfigChange reports whether op may have changed the file contents.
// Chmod alone does not.
func isConfigChange(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) ||
		op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}
