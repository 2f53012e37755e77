package tensor

import "fmt"

// Channels is the number of color channels in every decoded tensor.
const Channels = 3

// Tensor is a single decoded image in channel-last (H, W, C) layout.
//
// Values are raw pixel intensities in [0, 255] until Normalize is
// called, after which they lie in [0, 1]. The Normalized flag makes
// that state explicit so downstream code never has to guess.
type Tensor struct {
	Height     int
	Width      int
	Data       []float32
	Normalized bool
}

// New allocates a zero-filled tensor of the given dimensions.
func New(height, width int) *Tensor {
	return &Tensor{
		Height: height,
		Width:  width,
		Data:   make([]float32, height*width*Channels),
	}
}

// At returns the value at (y, x, c).
func (t *Tensor) At(y, x, c int) float32 {
	return t.Data[(y*t.Width+x)*Channels+c]
}

// Set stores a value at (y, x, c).
func (t *Tensor) Set(y, x, c int, v float32) {
	t.Data[(y*t.Width+x)*Channels+c] = v
}

// Normalize maps raw [0, 255] values into [0, 1] by dividing by 255.
// Calling it on an already-normalized tensor is an error so that a
// tensor can never be silently normalized twice.
func (t *Tensor) Normalize() error {
	if t.Normalized {
		return fmt.Errorf("tensor is already normalized")
	}
	for i, v := range t.Data {
		t.Data[i] = v / 255.0
	}
	t.Normalized = true
	return nil
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{
		Height:     t.Height,
		Width:      t.Width,
		Data:       make([]float32, len(t.Data)),
		Normalized: t.Normalized,
	}
	copy(out.Data, t.Data)
	return out
}

// Batch is a stack of N same-shaped tensors in (N, H, W, C) layout.
type Batch struct {
	N          int
	Height     int
	Width      int
	Data       []float32
	Normalized bool
}

// Stack combines tensors into a batch. All tensors must share the same
// dimensions and the same normalization state; a mixed batch would feed
// the model values on two different scales.
func Stack(tensors []*Tensor) (*Batch, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("cannot stack an empty tensor list")
	}

	first := tensors[0]
	b := &Batch{
		N:          len(tensors),
		Height:     first.Height,
		Width:      first.Width,
		Data:       make([]float32, 0, len(tensors)*len(first.Data)),
		Normalized: first.Normalized,
	}

	for i, t := range tensors {
		if t.Height != first.Height || t.Width != first.Width {
			return nil, fmt.Errorf("tensor %d has shape %dx%d, want %dx%d",
				i, t.Height, t.Width, first.Height, first.Width)
		}
		if t.Normalized != first.Normalized {
			return nil, fmt.Errorf("tensor %d normalization state differs from tensor 0", i)
		}
		b.Data = append(b.Data, t.Data...)
	}

	return b, nil
}

// Shape returns the batch dimensions as (N, H, W, C).
func (b *Batch) Shape() [4]int {
	return [4]int{b.N, b.Height, b.Width, Channels}
}

// LabelBatch is a stack of N one-hot label rows, shape (N, NumClasses).
type LabelBatch struct {
	N          int
	NumClasses int
	Data       []float32
}

// NewLabelBatch allocates a zero-filled label batch.
func NewLabelBatch(n, numClasses int) *LabelBatch {
	return &LabelBatch{
		N:          n,
		NumClasses: numClasses,
		Data:       make([]float32, n*numClasses),
	}
}

// SetOneHot marks class classIndex as the label for row i.
func (lb *LabelBatch) SetOneHot(i, classIndex int) error {
	if classIndex < 0 || classIndex >= lb.NumClasses {
		return fmt.Errorf("class index %d out of range [0, %d)", classIndex, lb.NumClasses)
	}
	lb.Data[i*lb.NumClasses+classIndex] = 1
	return nil
}

// Row returns the one-hot vector for row i.
func (lb *LabelBatch) Row(i int) []float32 {
	return lb.Data[i*lb.NumClasses : (i+1)*lb.NumClasses]
}

// OneHot returns a standalone one-hot vector of length n with a 1 at
// index.
func OneHot(index, n int) ([]float32, error) {
	if index < 0 || index >= n {
		return nil, fmt.Errorf("class index %d out of range [0, %d)", index, n)
	}
	v := make([]float32, n)
	v[index] = 1
	return v, nil
}
