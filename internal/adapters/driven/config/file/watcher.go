package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.ConfigWatcher = (*Watcher)(nil)

const defaultDebounce = 200 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes. Editors and Set
// replace the file by rename, so the parent directory is watched and
// events are filtered by name.
type Watcher struct {
	store    *ConfigStore
	debounce time.Duration
}

// NewWatcher creates a watcher for store.
func NewWatcher(store *ConfigStore) *Watcher {
	return &Watcher{store: store, debounce: defaultDebounce}
}

// Watch blocks until ctx is cancelled. Bursts of events within the
// debounce interval cause a single reload. A file that fails to parse
// is logged and the previous values stay active.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.store.Path())
	name := filepath.Base(w.store.Path())
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}
	logger.Debug("config: watching %s", w.store.Path())

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.store.Load(); err != nil {
				logger.Warn("config: reload failed, keeping previous settings: %v", err)
				continue
			}
			logger.Info("config: reloaded %s", w.store.Path())
			if onChange != nil {
				onChange()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			logger.Warn("config: file watcher error: %v", err)
		}
	}
}
