package augment

import (
	"fmt"
	"math/rand"

	"trainprep/internal/tensor"
)

// Policy transforms a decoded tensor before it is batched. The batch
// generator depends only on this contract, never on what a policy does
// internally. Every policy normalizes as its final step, so the tensors
// it returns are always in [0, 1].
type Policy interface {
	Apply(t *tensor.Tensor) (*tensor.Tensor, error)
	Name() string
}

// trainPolicy applies randomized transforms and then normalizes.
// The RNG is injected so training runs can be made reproducible and
// tests can pin the sequence of transforms.
type trainPolicy struct {
	rng *rand.Rand
}

// Train returns the training policy: random horizontal flip (p=0.5)
// and brightness jitter within ±10%, followed by normalization.
func Train(rng *rand.Rand) Policy {
	return &trainPolicy{rng: rng}
}

func (p *trainPolicy) Name() string { return "train" }

func (p *trainPolicy) Apply(t *tensor.Tensor) (*tensor.Tensor, error) {
	if t.Normalized {
		return nil, fmt.Errorf("train policy expects raw pixel values, got a normalized tensor")
	}

	out := t.Clone()

	if p.rng.Float64() < 0.5 {
		flipHorizontal(out)
	}

	// Brightness jitter: scale all channels by a factor in [0.9, 1.1],
	// clamped back into the raw pixel range.
	factor := float32(0.9 + p.rng.Float64()*0.2)
	for i, v := range out.Data {
		v *= factor
		if v > 255 {
			v = 255
		}
		out.Data[i] = v
	}

	if err := out.Normalize(); err != nil {
		return nil, err
	}
	return out, nil
}

// flipHorizontal mirrors the tensor around its vertical axis in place.
func flipHorizontal(t *tensor.Tensor) {
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width/2; x++ {
			mx := t.Width - 1 - x
			for c := 0; c < tensor.Channels; c++ {
				a, b := t.At(y, x, c), t.At(y, mx, c)
				t.Set(y, x, c, b)
				t.Set(y, mx, c, a)
			}
		}
	}
}

// deterministicPolicy performs only normalization. Used for validation
// and test data, where randomness would make evaluation unrepeatable.
type deterministicPolicy struct {
	name string
}

// Val returns the validation policy: deterministic, normalize only.
func Val() Policy {
	return &deterministicPolicy{name: "val"}
}

// Test returns the test policy: deterministic, normalize only. Unlike
// val data, test data carries no label requirement, but the tensor
// transform is identical.
func Test() Policy {
	return &deterministicPolicy{name: "test"}
}

func (p *deterministicPolicy) Name() string { return p.name }

func (p *deterministicPolicy) Apply(t *tensor.Tensor) (*tensor.Tensor, error) {
	out := t.Clone()
	if err := out.Normalize(); err != nil {
		return nil, err
	}
	return out, nil
}
