package batch

import (
	"math/rand"
	"testing"
)

func TestNewPipelineWithoutValDir(t *testing.T) {
	trainDir := makeDataset(t, map[string]int{"cats": 2, "dogs": 2})

	p, err := NewPipeline(trainDir, "", testConfig(2), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}

	if p.Train == nil {
		t.Fatal("Train generator is nil")
	}
	// No validation directory means no validation generator, not an
	// error.
	if p.Val != nil {
		t.Error("Val generator is non-nil without a validation directory")
	}
}

func TestNewPipelineWithValDir(t *testing.T) {
	trainDir := makeDataset(t, map[string]int{"cats": 4, "dogs": 4})
	valDir := makeDataset(t, map[string]int{"cats": 2, "dogs": 2})

	p, err := NewPipeline(trainDir, valDir, testConfig(2), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}

	if p.Val == nil {
		t.Fatal("Val generator is nil with a validation directory configured")
	}

	images, _, err := p.Val.Next()
	if err != nil {
		t.Fatalf("Val.Next() error = %v", err)
	}
	if !images.Normalized {
		t.Error("validation batch not normalized")
	}
}

func TestNewPipelineMissingValDir(t *testing.T) {
	trainDir := makeDataset(t, map[string]int{"cats": 2})

	if _, err := NewPipeline(trainDir, trainDir+"/nope", testConfig(2), rand.New(rand.NewSource(1))); err == nil {
		t.Error("NewPipeline() succeeded with a missing validation directory")
	}
}
