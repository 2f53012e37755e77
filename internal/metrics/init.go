package metrics

// InitializeMetrics pre-populates expected label combinations so every
// metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error"} {
		DecodesTotal.WithLabelValues(status)
		SnapshotsTotal.WithLabelValues(status)
	}

	for _, policy := range []string{"train", "val", "test"} {
		BatchesProducedTotal.WithLabelValues(policy)
		BatchAssemblyDuration.WithLabelValues(policy)
		EpochsCompletedTotal.WithLabelValues(policy)
	}

	for _, op := range []string{"initialize_schema", "record_snapshot", "latest_snapshot"} {
		ManifestQueriesTotal.WithLabelValues(op, "success")
		ManifestQueriesTotal.WithLabelValues(op, "error")
		ManifestQueryDuration.WithLabelValues(op)
	}

	for _, event := range []string{"create", "write", "remove", "rename", "chmod", "unknown"} {
		WatcherEventsTotal.WithLabelValues(event)
	}
}
