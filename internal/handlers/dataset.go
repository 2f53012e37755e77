package handlers

import (
	"net/http"
	"strconv"

	"trainprep/internal/dataset"
	"trainprep/internal/logging"
	"trainprep/internal/manifest"
	"trainprep/internal/schema"
)

// GetClasses returns the resolved class index for the training dataset.
func (h *Handlers) GetClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := dataset.Classes(h.config.TrainDir)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(classes) == 0 {
		writeError(w, &dataset.ConfigError{
			Field:  "train_dir",
			Reason: "no class directories found under " + h.config.TrainDir,
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"root":    h.config.TrainDir,
		"classes": classes,
	})
}

// GetStats returns the latest recorded dataset snapshot, taking one
// first if none exists yet, plus the resolved batch generator numbers.
// Generator figures reflect the file lists resolved at startup; the
// dirty flag tells the caller when those lists are stale.
//
// An optional batch_size query parameter recomputes batches-per-epoch
// for a hypothetical batch size without touching the live generators.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	batchSize := h.config.BatchSize
	if v := r.URL.Query().Get("batch_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = 0
		}
		if err := schema.BatchSize(n); err != nil {
			writeError(w, err)
			return
		}
		batchSize = n
	}

	snap, err := h.store.LatestSnapshot(r.Context(), h.config.TrainDir)
	if err != nil {
		writeError(w, err)
		return
	}

	if snap == nil {
		snap, err = h.takeAndRecord(r)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	stats := map[string]interface{}{
		"snapshot":  snap,
		"fileCount": snap.FileCount(),
		"dirty":     h.watch != nil && h.watch.Dirty(),
	}

	if h.pipeline != nil {
		gen := map[string]interface{}{
			"classes":         h.pipeline.TrainSource.Classes(),
			"imageCount":      h.pipeline.TrainSource.Len(),
			"batchSize":       batchSize,
			"keepRemainder":   h.config.KeepRemainder,
			"batchesPerEpoch": h.pipeline.TrainSource.BatchesFor(batchSize),
			"epochsCompleted": h.pipeline.Train.Epoch(),
		}
		if h.pipeline.ValSource != nil {
			gen["valImageCount"] = h.pipeline.ValSource.Len()
			gen["valBatchesPerEpoch"] = h.pipeline.ValSource.BatchesFor(batchSize)
		}
		stats["generator"] = gen
	}

	writeJSON(w, stats)
}

// TriggerRescan walks the dataset again, records a fresh snapshot and
// clears the dirty flag.
func (h *Handlers) TriggerRescan(w http.ResponseWriter, r *http.Request) {
	snap, err := h.takeAndRecord(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.watch != nil {
		h.watch.Clear()
	}

	logging.Info("Dataset rescan complete: %d classes, %d images",
		len(snap.Classes), snap.FileCount())

	writeJSON(w, map[string]interface{}{
		"status":   "rescanned",
		"snapshot": snap,
	})
}

func (h *Handlers) takeAndRecord(r *http.Request) (*manifest.Snapshot, error) {
	snap, err := manifest.Take(h.config.TrainDir)
	if err != nil {
		return nil, err
	}
	if _, err := h.store.RecordSnapshot(r.Context(), snap); err != nil {
		return nil, err
	}
	return snap, nil
}
