package handlers

import (
	"time"

	"trainprep/internal/batch"
	"trainprep/internal/manifest"
	"trainprep/internal/startup"
	"trainprep/internal/watcher"
)

// Handlers carries the shared dependencies of the HTTP layer.
type Handlers struct {
	store     *manifest.Store
	watch     *watcher.Watcher // nil when watching is disabled
	pipeline  *batch.Pipeline  // resolved once at startup
	config    *startup.Config
	startTime time.Time
}

// New creates the handler set.
func New(store *manifest.Store, watch *watcher.Watcher, pipeline *batch.Pipeline, config *startup.Config) *Handlers {
	return &Handlers{
		store:     store,
		watch:     watch,
		pipeline:  pipeline,
		config:    config,
		startTime: time.Now(),
	}
}
