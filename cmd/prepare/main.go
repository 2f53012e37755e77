// Command prepare preprocesses a single image for inference and writes
// the resulting tensor batch as JSON, ready to feed an external
// classifier.
//
// Usage:
//
//	prepare -in photo.jpg -out tensor.json [-size 224x224]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"trainprep/internal/codec"
	"trainprep/internal/inference"
)

type output struct {
	Source     string    `json:"source"`
	Shape      [4]int    `json:"shape"`
	Normalized bool      `json:"normalized"`
	Values     []float32 `json:"values"`
}

func main() {
	in := flag.String("in", "", "input image path")
	out := flag.String("out", "", "output JSON path (default: stdout)")
	sizeFlag := flag.String("size", "224x224", "target size as HxW")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "prepare: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	size, err := parseSize(*sizeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prepare: invalid -size: %v\n", err)
		os.Exit(2)
	}

	batch, err := inference.Prepare(*in, size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prepare: %v\n", err)
		os.Exit(1)
	}

	result := output{
		Source:     *in,
		Shape:      batch.Shape(),
		Normalized: batch.Normalized,
		Values:     batch.Data,
	}

	var enc *json.Encoder
	if *out == "" {
		enc = json.NewEncoder(os.Stdout)
	} else {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "prepare: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "prepare: close %s: %v\n", *out, err)
				os.Exit(1)
			}
		}()
		enc = json.NewEncoder(f)
	}

	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "prepare: %v\n", err)
		os.Exit(1)
	}
}

func parseSize(s string) (codec.Size, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return codec.Size{}, fmt.Errorf("expected HxW, got %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return codec.Size{}, err
	}
	w, err := strconv.Atoi(parts[1])
	if err != nil {
		return codec.Size{}, err
	}
	size := codec.Size{Height: h, Width: w}
	if !size.Valid() {
		return codec.Size{}, fmt.Errorf("dimensions must be positive")
	}
	return size, nil
}
