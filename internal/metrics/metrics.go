package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainprep_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trainprep_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trainprep_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Codec metrics
var (
	DecodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainprep_decodes_total",
			Help: "Total number of image decode attempts",
		},
		[]string{"status"},
	)

	DecodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trainprep_decode_duration_seconds",
			Help:    "Image decode and resize duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)

// Batch generator metrics
var (
	BatchesProducedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainprep_batches_produced_total",
			Help: "Total number of batches produced, by policy",
		},
		[]string{"policy"},
	)

	BatchAssemblyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trainprep_batch_assembly_duration_seconds",
			Help:    "Time to decode, augment and stack one batch",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"policy"},
	)

	EpochsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainprep_epochs_completed_total",
			Help: "Total number of completed passes over a dataset, by policy",
		},
		[]string{"policy"},
	)
)

// Manifest metrics
var (
	ManifestQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainprep_manifest_queries_total",
			Help: "Total number of manifest database queries",
		},
		[]string{"operation", "status"},
	)

	ManifestQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trainprep_manifest_query_duration_seconds",
			Help:    "Manifest database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainprep_snapshots_total",
			Help: "Total number of dataset snapshots taken",
		},
		[]string{"status"},
	)

	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trainprep_snapshot_duration_seconds",
			Help:    "Time to walk the dataset and record a snapshot",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainprep_watcher_events_total",
			Help: "Total number of filesystem events seen on the dataset root",
		},
		[]string{"event"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trainprep_watcher_errors_total",
			Help: "Total number of dataset watcher errors",
		},
	)

	DatasetDirty = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trainprep_dataset_dirty",
			Help: "Whether the dataset changed since the last snapshot (1 = dirty)",
		},
	)
)
