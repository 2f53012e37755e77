package batch

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"trainprep/internal/augment"
	"trainprep/internal/codec"
	"trainprep/internal/dataset"
)

// makeDataset builds a one-folder-per-class fixture. Each image is a
// solid color whose red channel encodes its position within the class,
// so tests can identify which file a batch row came from.
func makeDataset(t *testing.T, counts map[string]int) string {
	t.Helper()
	root := t.TempDir()

	for class, n := range counts {
		dir := filepath.Join(root, class)
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < n; i++ {
			writeSolidPNG(t, filepath.Join(dir, fmt.Sprintf("img_%02d.png", i)), uint8(i*10))
		}
	}

	return root
}

func writeSolidPNG(t *testing.T, path string, red uint8) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: red, A: 255})
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

func testConfig(batchSize int) Config {
	return Config{
		BatchSize:  batchSize,
		TargetSize: codec.Size{Height: 8, Width: 8},
	}
}

func TestNewSourceResolvesClassesAndItems(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 12, "dogs": 8})

	source, err := NewSource(root, testConfig(5))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	if want := []string{"cats", "dogs"}; !reflect.DeepEqual(source.Classes(), want) {
		t.Errorf("Classes() = %v, want %v", source.Classes(), want)
	}
	if source.Len() != 20 {
		t.Errorf("Len() = %d, want 20", source.Len())
	}
}

func TestNewSourceErrors(t *testing.T) {
	empty := t.TempDir()

	tests := []struct {
		name    string
		root    string
		config  Config
		wantCfg bool
	}{
		{
			name:    "zero classes",
			root:    empty,
			config:  testConfig(5),
			wantCfg: true,
		},
		{
			name:    "invalid batch size",
			root:    empty,
			config:  testConfig(0),
			wantCfg: true,
		},
		{
			name:    "invalid target size",
			root:    empty,
			config:  Config{BatchSize: 5},
			wantCfg: true,
		},
		{
			name:   "missing root",
			root:   filepath.Join(empty, "nope"),
			config: testConfig(5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource(tt.root, tt.config)
			if err == nil {
				t.Fatal("NewSource() succeeded, want error")
			}

			var configErr *dataset.ConfigError
			if got := errors.As(err, &configErr); got != tt.wantCfg {
				t.Errorf("errors.As(*ConfigError) = %v, want %v (err: %v)", got, tt.wantCfg, err)
			}
		})
	}
}

func TestGeneratorExactEpoch(t *testing.T) {
	// 12 + 8 images with batch size 5: one epoch is exactly 4 batches,
	// no remainder.
	root := makeDataset(t, map[string]int{"cats": 12, "dogs": 8})

	source, err := NewSource(root, testConfig(5))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	gen := source.Generator(augment.Val())
	if got := gen.BatchesPerEpoch(); got != 4 {
		t.Fatalf("BatchesPerEpoch() = %d, want 4", got)
	}

	var firstRow []float32
	for i := 0; i < 4; i++ {
		images, labels, err := gen.Next()
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if images.N != 5 {
			t.Errorf("batch %d size = %d, want 5", i, images.N)
		}
		if got := images.Shape(); got != [4]int{5, 8, 8, 3} {
			t.Errorf("batch %d shape = %v", i, got)
		}
		if labels.N != 5 || labels.NumClasses != 2 {
			t.Errorf("label batch %d = %dx%d, want 5x2", i, labels.N, labels.NumClasses)
		}
		if i == 0 {
			firstRow = append([]float32(nil), images.Data[:8*8*3]...)
		}
	}

	if gen.Epoch() != 1 {
		t.Errorf("Epoch() = %d after one full pass, want 1", gen.Epoch())
	}

	// The next pull wraps to the first image of the dataset.
	images, _, err := gen.Next()
	if err != nil {
		t.Fatalf("Next() after wrap error = %v", err)
	}
	if !reflect.DeepEqual(images.Data[:8*8*3], firstRow) {
		t.Error("first image after epoch wrap differs from first image of the dataset")
	}
}

func TestGeneratorLabelsFollowClassIndex(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 3, "dogs": 2})

	source, err := NewSource(root, testConfig(5))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	_, labels, err := source.Generator(augment.Val()).Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	// Items are resolved class by class in index order: three cats
	// (index 0) then two dogs (index 1).
	wantIdx := []int{0, 0, 0, 1, 1}
	for i, want := range wantIdx {
		row := labels.Row(i)
		if row[want] != 1 {
			t.Errorf("row %d = %v, want one-hot at %d", i, row, want)
		}
		var sum float32
		for _, v := range row {
			sum += v
		}
		if sum != 1 {
			t.Errorf("row %d sums to %v, want exactly one hot entry", i, sum)
		}
	}
}

func TestGeneratorDropRemainder(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 7})

	source, err := NewSource(root, testConfig(5))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	gen := source.Generator(augment.Val())
	if got := gen.BatchesPerEpoch(); got != 1 {
		t.Fatalf("BatchesPerEpoch() = %d, want 1", got)
	}

	// Every pull yields a full batch; the trailing 2 images are
	// dropped at each epoch boundary.
	for i := 0; i < 3; i++ {
		images, _, err := gen.Next()
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if images.N != 5 {
			t.Errorf("batch %d size = %d, want 5", i, images.N)
		}
	}
	// The wrap that drops the remainder happens lazily, at the pull
	// that finds fewer than batchSize items left.
	if gen.Epoch() != 2 {
		t.Errorf("Epoch() = %d, want 2", gen.Epoch())
	}
}

func TestGeneratorKeepRemainder(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 7})

	config := testConfig(5)
	config.KeepRemainder = true

	source, err := NewSource(root, config)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	gen := source.Generator(augment.Val())
	if got := gen.BatchesPerEpoch(); got != 2 {
		t.Fatalf("BatchesPerEpoch() = %d, want 2", got)
	}

	wantSizes := []int{5, 2, 5}
	for i, want := range wantSizes {
		images, labels, err := gen.Next()
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if images.N != want {
			t.Errorf("batch %d size = %d, want %d", i, images.N, want)
		}
		if labels.N != want {
			t.Errorf("label batch %d size = %d, want %d", i, labels.N, want)
		}
	}
}

func TestSourceBatchesFor(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 7})

	drop, err := NewSource(root, testConfig(5))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	keepConfig := testConfig(5)
	keepConfig.KeepRemainder = true
	keep, err := NewSource(root, keepConfig)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	tests := []struct {
		name      string
		source    *Source
		batchSize int
		want      int
	}{
		{name: "drop remainder", source: drop, batchSize: 5, want: 1},
		{name: "drop exact", source: drop, batchSize: 7, want: 1},
		{name: "drop smaller batches", source: drop, batchSize: 3, want: 2},
		{name: "keep remainder", source: keep, batchSize: 5, want: 2},
		{name: "keep smaller batches", source: keep, batchSize: 3, want: 3},
		{name: "invalid size", source: drop, batchSize: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.source.BatchesFor(tt.batchSize); got != tt.want {
				t.Errorf("BatchesFor(%d) = %d, want %d", tt.batchSize, got, tt.want)
			}
		})
	}
}

func TestGeneratorReset(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 4})

	source, err := NewSource(root, testConfig(2))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	gen := source.Generator(augment.Val())

	first, _, err := gen.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, _, err := gen.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	gen.Reset()
	if gen.Epoch() != 0 {
		t.Errorf("Epoch() after Reset = %d, want 0", gen.Epoch())
	}

	again, _, err := gen.Next()
	if err != nil {
		t.Fatalf("Next() after Reset error = %v", err)
	}
	if !reflect.DeepEqual(first.Data, again.Data) {
		t.Error("Reset() did not rewind to the first image")
	}
}

func TestIndependentGeneratorsFromOneSource(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 4})

	source, err := NewSource(root, testConfig(2))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	a := source.Generator(augment.Val())
	b := source.Generator(augment.Val())

	// Advance a; b must still start at the beginning.
	if _, _, err := a.Next(); err != nil {
		t.Fatalf("a.Next() error = %v", err)
	}

	firstA, _, err := source.Generator(augment.Val()).Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	firstB, _, err := b.Next()
	if err != nil {
		t.Fatalf("b.Next() error = %v", err)
	}
	if !reflect.DeepEqual(firstA.Data, firstB.Data) {
		t.Error("second generator did not start from the first image")
	}
}

func TestGeneratorAbortsOnCorruptFile(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 3})

	// Corrupt the middle file after resolution.
	bad := filepath.Join(root, "cats", "img_01.png")
	if err := os.WriteFile(bad, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	source, err := NewSource(root, testConfig(3))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	_, _, err = source.Generator(augment.Val()).Next()
	if err == nil {
		t.Fatal("Next() succeeded with a corrupt file in the batch")
	}

	var decodeErr *dataset.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("Next() error = %T, want wrapped *DecodeError", err)
	}
	if decodeErr != nil && decodeErr.Path != bad {
		t.Errorf("DecodeError.Path = %q, want %q", decodeErr.Path, bad)
	}
}

func TestGeneratorTrainPolicyOutputNormalized(t *testing.T) {
	root := makeDataset(t, map[string]int{"cats": 4})

	source, err := NewSource(root, testConfig(4))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	gen := source.Generator(augment.Train(rand.New(rand.NewSource(7))))
	images, _, err := gen.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	if !images.Normalized {
		t.Error("train batch not normalized")
	}
	for i, v := range images.Data {
		if v < 0 || v > 1 {
			t.Fatalf("Data[%d] = %v, outside [0, 1]", i, v)
		}
	}
}
