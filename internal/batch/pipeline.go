package batch

import (
	"math/rand"

	"trainprep/internal/augment"
	"trainprep/internal/logging"
)

// Pipeline bundles the training generator with an optional validation
// generator. Val is nil when no validation directory was configured;
// callers treat a nil Val as "skip validation", never as an error.
type Pipeline struct {
	Train *Generator
	Val   *Generator

	TrainSource *Source
	ValSource   *Source
}

// NewPipeline resolves the training dataset under trainDir and, when
// valDir is non-empty, the validation dataset under valDir. Training
// batches go through the randomized train policy seeded from rng;
// validation batches go through the deterministic val policy.
func NewPipeline(trainDir, valDir string, config Config, rng *rand.Rand) (*Pipeline, error) {
	trainSource, err := NewSource(trainDir, config)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Train:       trainSource.Generator(augment.Train(rng)),
		TrainSource: trainSource,
	}

	if valDir == "" {
		logging.Info("No validation directory configured, validation disabled")
		return p, nil
	}

	valSource, err := NewSource(valDir, config)
	if err != nil {
		return nil, err
	}

	p.Val = valSource.Generator(augment.Val())
	p.ValSource = valSource
	return p, nil
}
