package inference

import (
	"trainprep/internal/codec"
	"trainprep/internal/tensor"
)

// Prepare loads the image at path for a single prediction: decode and
// resize via the codec, normalize into [0, 1], and wrap in a batch with
// a leading dimension of 1.
//
// This path never applies augmentation; inference input must be
// deterministic. Decode failures propagate unchanged as
// *dataset.DecodeError.
func Prepare(path string, size codec.Size) (*tensor.Batch, error) {
	t, err := codec.Decode(path, size)
	if err != nil {
		return nil, err
	}

	if err := t.Normalize(); err != nil {
		return nil, err
	}

	return tensor.Stack([]*tensor.Tensor{t})
}
