// Package metrics defines the Prometheus metrics exported by the
// training data preparation service: HTTP traffic, image decodes,
// batch production, manifest queries, and dataset watcher activity.
package metrics
