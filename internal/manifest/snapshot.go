package manifest

import (
	"path/filepath"
	"sync"
	"time"

	"trainprep/internal/dataset"
	"trainprep/internal/metrics"
	"trainprep/internal/workers"
)

// ClassCount is the per-class file count inside a snapshot. Class order
// matches the resolved class index.
type ClassCount struct {
	Name      string `json:"name"`
	FileCount int    `json:"fileCount"`
}

// Snapshot captures the observable state of a dataset root at a point
// in time: its class index and how many images each class holds.
type Snapshot struct {
	Root    string       `json:"root"`
	TakenAt time.Time    `json:"takenAt"`
	Classes []ClassCount `json:"classes"`
}

// FileCount returns the total number of images in the snapshot.
func (s *Snapshot) FileCount() int {
	total := 0
	for _, c := range s.Classes {
		total += c.FileCount
	}
	return total
}

// ClassNames returns the ordered class names.
func (s *Snapshot) ClassNames() []string {
	names := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		names[i] = c.Name
	}
	return names
}

// Take walks the dataset under root and builds a snapshot. Class
// directories are scanned in parallel; the scan is read-only.
func Take(root string) (*Snapshot, error) {
	start := time.Now()

	classes, err := dataset.Classes(root)
	if err != nil {
		metrics.SnapshotsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	snap := &Snapshot{
		Root:    root,
		TakenAt: time.Now(),
		Classes: make([]ClassCount, len(classes)),
	}

	// One scan job per class directory, bounded by the I/O worker
	// count.
	sem := make(chan struct{}, workers.ForIO(16))
	var wg sync.WaitGroup
	errs := make([]error, len(classes))

	for i, class := range classes {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, class string) {
			defer wg.Done()
			defer func() { <-sem }()

			files, scanErr := dataset.Scan(filepath.Join(root, class))
			if scanErr != nil {
				errs[i] = scanErr
				return
			}
			snap.Classes[i] = ClassCount{Name: class, FileCount: len(files)}
		}(i, class)
	}
	wg.Wait()

	for _, scanErr := range errs {
		if scanErr != nil {
			metrics.SnapshotsTotal.WithLabelValues("error").Inc()
			return nil, scanErr
		}
	}

	metrics.SnapshotsTotal.WithLabelValues("success").Inc()
	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	return snap, nil
}
