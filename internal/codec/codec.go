package codec

import (
	"image"
	"os"
	"time"

	"trainprep/internal/dataset"
	"trainprep/internal/logging"
	"trainprep/internal/metrics"
	"trainprep/internal/tensor"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP support for the upload path
)

// Size is a target image size in pixels.
type Size struct {
	Height int
	Width  int
}

// DefaultSize is the standard input size for the classifier.
var DefaultSize = Size{Height: 224, Width: 224}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Height > 0 && s.Width > 0
}

// Decode loads the image at path, resizes it to exactly size (the
// aspect ratio is not preserved; no cropping or padding), and converts
// it to a 3-channel tensor with raw pixel values in [0, 255].
//
// Normalization is deliberately not performed here: augmentation
// policies that expect raw pixel ranges would otherwise see
// double-normalized values. Callers normalize explicitly, usually via
// the augmentation policy or inference preprocessor.
func Decode(path string, size Size) (*tensor.Tensor, error) {
	if !size.Valid() {
		return nil, &dataset.ConfigError{
			Field:  "target_size",
			Reason: "height and width must be positive",
		}
	}

	start := time.Now()

	img, err := loadResized(path, size)
	if err != nil {
		metrics.DecodesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	t := toTensor(img, size)

	metrics.DecodesTotal.WithLabelValues("success").Inc()
	metrics.DecodeDuration.Observe(time.Since(start).Seconds())

	return t, nil
}

// loadResized returns the image at path scaled to exactly size, using
// the libvips fast path when available and the pure-Go imaging path
// otherwise.
func loadResized(path string, size Size) (image.Image, error) {
	if IsVipsAvailable() {
		img, err := loadWithVips(path, size)
		if err == nil {
			return img, nil
		}
		logging.Debug("vips decode failed for %s: %v, falling back to imaging", path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &dataset.DecodeError{Path: path, Err: err}
	}

	return imaging.Resize(img, size.Width, size.Height, imaging.Lanczos), nil
}

// toTensor converts a resized image into a channel-last float32 tensor.
func toTensor(img image.Image, size Size) *tensor.Tensor {
	// Clone gives us an NRGBA image with a flat Pix slice, which is
	// much faster to walk than per-pixel At() calls.
	nrgba := imaging.Clone(img)

	t := tensor.New(size.Height, size.Width)
	for y := 0; y < size.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < size.Width; x++ {
			px := row[x*4:]
			t.Set(y, x, 0, float32(px[0]))
			t.Set(y, x, 1, float32(px[1]))
			t.Set(y, x, 2, float32(px[2]))
		}
	}
	return t
}

// Dimensions returns the pixel dimensions of the image at path without
// decoding the full pixel data.
func Dimensions(path string) (width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, &dataset.DecodeError{Path: path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logging.Warn("failed to close image file %s: %v", path, closeErr)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, &dataset.DecodeError{Path: path, Err: err}
	}

	return config.Width, config.Height, nil
}
