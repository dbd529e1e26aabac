package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/smartprint/comanda/internal/ports"
)

// DefaultDebounceDelay is the delay to wait after a file change before
// reloading, so editors that write in several steps trigger one reload.
const DefaultDebounceDelay = 100 * time.Millisecond

// Watcher monitors the config file for changes and reports reloaded
// file configs to a callback. Only fields that are safe to apply at
// runtime (broker endpoint, topic) are expected to be acted on; the rest
// of the config is read once at wiring time.
type Watcher struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration
	logger        ports.Logger
	onChange      func(FileConfig)
	debounce      *time.Timer
}

// NewWatcher creates a watcher for the config file at path. onChange is
// invoked with the reloaded file config after each (debounced) change.
func NewWatcher(path string, logger ports.Logger, onChange func(FileConfig)) *Watcher {
	return &Watcher{
		path:          path,
		debounceDelay: DefaultDebounceDelay,
		logger:        logger,
		onChange:      onChange,
	}
}

// Run watches until the context is canceled. Watch setup failures are
// logged and disable watching; they never take the client down.
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("config watcher disabled", ports.Err(err))
		return
	}
	defer watcher.Close()

	// Watch the directory: editors typically replace the file, which
	// would invalidate a watch on the file itself.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Warn("config watcher disabled", ports.Err(err))
		return
	}

	base := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", ports.Err(err))
		return
	}
	w.logger.Info("config file reloaded", ports.String("path", w.path))
	if w.onChange != nil {
		w.onChange(fc)
	}
}
