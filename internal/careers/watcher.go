package careers

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"careercompass/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// CatalogWatcher watches the career catalog file and reloads the
// catalog when it changes. Events are debounced because editors tend
// to emit several write events per save.
type CatalogWatcher struct {
	mu sync.Mutex

	path          string
	catalog       *Catalog
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	stopChan      chan struct{}
	logger        *errors.Logger
	running       bool
}

// NewCatalogWatcher creates a watcher for the given catalog file.
func NewCatalogWatcher(path string, catalog *Catalog, debounceDelay time.Duration, logger *errors.Logger) *CatalogWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}
	return &CatalogWatcher{
		path:          path,
		catalog:       catalog,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		logger:        logger,
	}
}

// Start loads the file once and begins watching its directory.
// Watching the directory rather than the file survives rename-based
// atomic saves.
func (w *CatalogWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("catalog watcher is already running")
	}

	if err := w.catalog.LoadFile(w.path); err != nil {
		return err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		if closeErr := fsWatcher.Close(); closeErr != nil && w.logger != nil {
			w.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	w.fsWatcher = fsWatcher
	w.running = true
	go w.watchLoop()

	if w.logger != nil {
		w.logger.Info("Career catalog watcher started",
			"path", w.path,
			"debounce_delay", w.debounceDelay.String())
	}
	return nil
}

// Stop stops the watcher.
func (w *CatalogWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	close(w.stopChan)
	w.running = false
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	return w.fsWatcher.Close()
}

func (w *CatalogWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Career catalog watcher error")
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *CatalogWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		if err := w.catalog.LoadFile(w.path); err != nil {
			if w.logger != nil {
				w.logger.LogError(err, "Failed to reload career catalog, keeping previous data",
					"path", w.path)
			}
			return
		}
		if w.logger != nil {
			w.logger.Info("Career catalog reloaded", "path", w.path)
		}
	})
}
