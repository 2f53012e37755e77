package batch

import (
	"fmt"
	"time"

	"trainprep/internal/augment"
	"trainprep/internal/codec"
	"trainprep/internal/logging"
	"trainprep/internal/metrics"
	"trainprep/internal/tensor"
)

// Generator pulls labeled batches from a resolved Source. The sequence
// is infinite: when the cursor reaches the end of the item list it
// wraps to the start, which marks an epoch boundary.
//
// A Generator holds a mutable cursor and is NOT safe for concurrent
// use. Consumers that need independent progress call Source.Generator
// again to mint their own; the underlying source is shared and
// immutable.
type Generator struct {
	source *Source
	policy augment.Policy
	cursor int
	epoch  int
}

// Generator returns a fresh generator over the source with its own
// cursor, starting at the first item.
func (s *Source) Generator(policy augment.Policy) *Generator {
	return &Generator{
		source: s,
		policy: policy,
	}
}

// BatchesPerEpoch returns how many batches one full pass over the
// dataset yields under the configured trailing-batch policy.
func (g *Generator) BatchesPerEpoch() int {
	return g.source.BatchesFor(g.source.config.BatchSize)
}

// Epoch returns the number of completed passes over the dataset.
func (g *Generator) Epoch() int {
	return g.epoch
}

// Reset rewinds the generator to the first item of the dataset.
func (g *Generator) Reset() {
	g.cursor = 0
	g.epoch = 0
}

// Next produces the next (images, labels) pair. Images come back as an
// (N, H, W, 3) batch of normalized float32 values; labels as an
// (N, numClasses) one-hot batch aligned with the source's class index.
//
// A decode failure on any file aborts the whole batch and surfaces the
// offending path; skipping bad files silently is never the default.
func (g *Generator) Next() (*tensor.Batch, *tensor.LabelBatch, error) {
	items := g.source.items
	size := g.source.config.BatchSize

	if len(items) == 0 {
		return nil, nil, fmt.Errorf("dataset %s contains no images", g.source.root)
	}

	// Drop a trailing partial batch by wrapping early. A dataset
	// smaller than one batch still yields its short batch; wrapping
	// forever and producing nothing would be worse.
	if !g.source.config.KeepRemainder && len(items)-g.cursor < size {
		g.wrap()
	}

	start := time.Now()

	count := size
	if remaining := len(items) - g.cursor; count > remaining {
		count = remaining
	}

	tensors := make([]*tensor.Tensor, 0, count)
	labels := tensor.NewLabelBatch(count, len(g.source.classes))

	for i := 0; i < count; i++ {
		it := items[g.cursor+i]

		t, err := codec.Decode(it.path, g.source.config.TargetSize)
		if err != nil {
			return nil, nil, fmt.Errorf("batch aborted at %s: %w", it.path, err)
		}

		t, err = g.policy.Apply(t)
		if err != nil {
			return nil, nil, fmt.Errorf("augmentation policy %q failed on %s: %w", g.policy.Name(), it.path, err)
		}

		if err := labels.SetOneHot(i, it.classIndex); err != nil {
			return nil, nil, err
		}
		tensors = append(tensors, t)
	}

	images, err := tensor.Stack(tensors)
	if err != nil {
		return nil, nil, err
	}

	g.cursor += count
	if g.cursor >= len(items) {
		g.wrap()
	}

	metrics.BatchesProducedTotal.WithLabelValues(g.policy.Name()).Inc()
	metrics.BatchAssemblyDuration.WithLabelValues(g.policy.Name()).Observe(time.Since(start).Seconds())

	return images, labels, nil
}

// wrap moves the cursor back to the first item and records the epoch
// boundary.
func (g *Generator) wrap() {
	if g.cursor == 0 {
		return
	}
	g.cursor = 0
	g.epoch++
	metrics.EpochsCompletedTotal.WithLabelValues(g.policy.Name()).Inc()
	logging.Debug("Epoch %d complete for %s (%s policy)", g.epoch, g.source.root, g.policy.Name())
}
