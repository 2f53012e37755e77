package codec

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"trainprep/internal/dataset"
	"trainprep/internal/tensor"
)

// writePNG creates a solid-color PNG fixture.
func writePNG(t *testing.T, path string, width, height int, c color.NRGBA) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeShape(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{name: "square input", width: 64, height: 64},
		{name: "wide input", width: 320, height: 60},
		{name: "tall input", width: 30, height: 400},
		{name: "tiny input", width: 2, height: 2},
	}

	size := Size{Height: 224, Width: 224}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "img.png")
			writePNG(t, path, tt.width, tt.height, color.NRGBA{R: 120, G: 60, B: 200, A: 255})

			tn, err := Decode(path, size)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if tn.Height != 224 || tn.Width != 224 {
				t.Errorf("decoded shape = %dx%d, want 224x224", tn.Height, tn.Width)
			}
			if len(tn.Data) != 224*224*tensor.Channels {
				t.Errorf("len(Data) = %d, want %d", len(tn.Data), 224*224*tensor.Channels)
			}
			if tn.Normalized {
				t.Error("Decode() returned a normalized tensor; normalization must be explicit")
			}
		})
	}
}

func TestDecodeRawRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	writePNG(t, path, 32, 32, color.NRGBA{R: 255, G: 0, B: 128, A: 255})

	tn, err := Decode(path, Size{Height: 8, Width: 8})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	for i, v := range tn.Data {
		if v < 0 || v > 255 {
			t.Fatalf("Data[%d] = %v, outside raw range [0, 255]", i, v)
		}
	}

	// A solid-color image survives resizing with its color intact.
	if r := tn.At(4, 4, 0); r != 255 {
		t.Errorf("red channel = %v, want 255", r)
	}
	if g := tn.At(4, 4, 1); g != 0 {
		t.Errorf("green channel = %v, want 0", g)
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.jpg")},
		{name: "corrupt file", path: corrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.path, Size{Height: 8, Width: 8})
			if err == nil {
				t.Fatal("Decode() succeeded, want error")
			}

			var decodeErr *dataset.DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("Decode() error = %T, want *DecodeError", err)
			}
			if decodeErr != nil && decodeErr.Path != tt.path {
				t.Errorf("DecodeError.Path = %q, want %q", decodeErr.Path, tt.path)
			}
		})
	}
}

func TestDecodeInvalidSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	writePNG(t, path, 8, 8, color.NRGBA{A: 255})

	tests := []struct {
		name string
		size Size
	}{
		{name: "zero height", size: Size{Height: 0, Width: 8}},
		{name: "zero width", size: Size{Height: 8, Width: 0}},
		{name: "negative", size: Size{Height: -1, Width: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(path, tt.size)
			if err == nil {
				t.Fatal("Decode() succeeded, want error")
			}

			var configErr *dataset.ConfigError
			if !errors.As(err, &configErr) {
				t.Errorf("Decode() error = %T, want *ConfigError", err)
			}
		})
	}
}

func TestDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	writePNG(t, path, 48, 32, color.NRGBA{A: 255})

	w, h, err := Dimensions(path)
	if err != nil {
		t.Fatalf("Dimensions() error = %v", err)
	}
	if w != 48 || h != 32 {
		t.Errorf("Dimensions() = %dx%d, want 48x32", w, h)
	}
}
