package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainprep/internal/batch"
	"trainprep/internal/codec"
	"trainprep/internal/handlers"
	"trainprep/internal/logging"
	"trainprep/internal/manifest"
	"trainprep/internal/metrics"
	"trainprep/internal/middleware"
	"trainprep/internal/startup"
	"trainprep/internal/watcher"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	if config.MetricsEnabled {
		metrics.InitializeMetrics()
	}

	if config.UseVips {
		if err := codec.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using pure-Go decode path: %v", err)
		}
	}

	store, err := manifest.New(context.Background(), config.ManifestPath)
	if err != nil {
		startup.LogFatal("Failed to initialize manifest store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error("failed to close manifest store: %v", err)
		}
	}()

	// Record the state of the dataset the service came up with. A
	// dataset with zero classes cannot feed the pipeline at all, so
	// that fails startup rather than limping along.
	snap, err := manifest.Take(config.TrainDir)
	if err != nil {
		startup.LogFatal("Failed to scan training dataset: %v", err)
	}
	if len(snap.Classes) == 0 {
		startup.LogFatal("No class directories found under %s; expected one subdirectory per class", config.TrainDir)
	}
	if _, err := store.RecordSnapshot(context.Background(), snap); err != nil {
		logging.Warn("Failed to record initial snapshot: %v", err)
	}
	logging.Info("Training dataset: %d classes, %d images", len(snap.Classes), snap.FileCount())

	// Resolve the batch pipeline up front so a misconfigured dataset
	// fails startup, not the first training pull. The seeded RNG drives
	// the train policy's randomized transforms.
	rng := rand.New(rand.NewSource(config.Seed))
	pipeline, err := batch.NewPipeline(config.TrainDir, config.ValDir, batch.Config{
		BatchSize:     config.BatchSize,
		TargetSize:    config.TargetSize,
		KeepRemainder: config.KeepRemainder,
	}, rng)
	if err != nil {
		startup.LogFatal("Failed to resolve batch pipeline: %v", err)
	}
	logging.Info("Batch pipeline ready: %d batches per epoch at batch size %d (seed %d)",
		pipeline.Train.BatchesPerEpoch(), config.BatchSize, config.Seed)
	if pipeline.Val != nil {
		logging.Info("Validation pipeline ready: %d batches per epoch", pipeline.Val.BatchesPerEpoch())
	}

	var watch *watcher.Watcher
	if config.WatchEnabled {
		watch = watcher.New(config.TrainDir)
		go watch.Watch()
		logging.Info("Dataset watcher started for %s", config.TrainDir)
	}

	h := handlers.New(store, watch, pipeline, config)
	router := setupRouter(h, config)

	startup.LogHTTPRoutes(router)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, watch)

	logging.Info("Server listening on :%s (started in %s)", config.Port, time.Since(startTime).Round(time.Millisecond))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dataset/classes", h.GetClasses).Methods("GET")
	api.HandleFunc("/dataset/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/dataset/rescan", h.TriggerRescan).Methods("POST")
	api.HandleFunc("/preprocess", h.Preprocess).Methods("POST")
	api.HandleFunc("/validate", h.ValidateText).Methods("POST")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	return r
}

func handleShutdown(srv *http.Server, watch *watcher.Watcher) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watch != nil {
		watch.Stop()
	}

	codec.ShutdownVips()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	logging.Info("Shutdown complete")
}
