package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"trainprep/internal/logging"
	"trainprep/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a dataset root for changes. A dataset that changes
// while a training run is pulling batches from it silently invalidates
// the resolved file list and class index, so the watcher flags the
// dataset as dirty and leaves the decision to rescan to the caller.
type Watcher struct {
	root     string
	dirty    atomic.Bool
	stopChan chan struct{}
}

// New creates a watcher for the dataset under root.
func New(root string) *Watcher {
	return &Watcher{
		root:     root,
		stopChan: make(chan struct{}),
	}
}

// Dirty reports whether the dataset changed since the last Clear.
func (w *Watcher) Dirty() bool {
	return w.dirty.Load()
}

// Clear resets the dirty flag, typically after a rescan.
func (w *Watcher) Clear() {
	w.dirty.Store(false)
	metrics.DatasetDirty.Set(0)
}

// Stop terminates the watch loop.
func (w *Watcher) Stop() {
	close(w.stopChan)
}

// Watch blocks, processing filesystem events until Stop is called.
// Run it on its own goroutine.
func (w *Watcher) Watch() {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("Failed to create dataset watcher: %v", err)
		metrics.WatcherErrors.Inc()
		return
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			logging.Error("failed to close dataset watcher: %v", err)
		}
	}()

	watchCount := w.addDirectories(fsw)
	logging.Debug("Dataset watcher started, watching %d directories under %s", watchCount, w.root)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logging.Error("Dataset watcher error: %v", err)
			metrics.WatcherErrors.Inc()
		}
	}
}

// addDirectories registers the root and every class directory with the
// watcher.
func (w *Watcher) addDirectories(fsw *fsnotify.Watcher) int {
	count := 0
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			if addErr := fsw.Add(path); addErr != nil {
				logging.Warn("failed to watch %s: %v", path, addErr)
				metrics.WatcherErrors.Inc()
			} else {
				count++
			}
		}
		return nil
	})
	if err != nil {
		logging.Error("failed to walk dataset root for watcher: %v", err)
		metrics.WatcherErrors.Inc()
	}
	return count
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	// Hidden files never affect the resolved dataset.
	if strings.Contains(event.Name, "/.") {
		return
	}

	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	if !w.dirty.Swap(true) {
		logging.Warn("Dataset %s changed (%s on %s); resolved file lists are stale until a rescan",
			w.root, eventType(event.Op), event.Name)
		metrics.DatasetDirty.Set(1)
	}

	// New class directories need to be watched too.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if addErr := fsw.Add(event.Name); addErr != nil {
				logging.Warn("failed to watch new directory %s: %v", event.Name, addErr)
				metrics.WatcherErrors.Inc()
			}
		}
	}
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
