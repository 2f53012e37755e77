// Package workers sizes worker pools for containerized environments.
//
// Go 1.19+ sets GOMAXPROCS from the container CPU limit, while
// runtime.NumCPU still reports the host CPU count; these helpers use
// GOMAXPROCS so dataset scans don't oversubscribe a limited pod. The
// SCAN_WORKERS environment variable overrides the computed count.
package workers
