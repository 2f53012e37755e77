package batch

import (
	"path/filepath"

	"trainprep/internal/codec"
	"trainprep/internal/dataset"
	"trainprep/internal/logging"
)

// item pairs an image path with the integer index of its class. The
// pairing is built exactly once, at source construction, by walking
// class directories in class-index order. Nothing downstream ever
// re-derives a label from a path.
type item struct {
	path       string
	classIndex int
}

// Config holds the tunable parameters of a batch source.
type Config struct {
	BatchSize  int
	TargetSize codec.Size

	// KeepRemainder emits the short trailing batch of an epoch instead
	// of dropping it. Off by default: most training loops want
	// constant batch shapes.
	KeepRemainder bool
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:  32,
		TargetSize: codec.DefaultSize,
	}
}

// Source is a resolved dataset: the class index and the full
// (path, classIndex) list for one directory root. Both are computed
// once at construction and never mutated afterwards, so any number of
// generators can share a source.
type Source struct {
	root    string
	classes []string
	items   []item
	config  Config
}

// NewSource resolves the dataset under root, which must follow the
// one-folder-per-class layout. It fails with *dataset.NotFoundError if
// root is missing and *dataset.ConfigError if no class directories are
// found or the configuration is invalid.
func NewSource(root string, config Config) (*Source, error) {
	if config.BatchSize <= 0 {
		return nil, &dataset.ConfigError{Field: "batch_size", Reason: "must be positive"}
	}
	if !config.TargetSize.Valid() {
		return nil, &dataset.ConfigError{Field: "target_size", Reason: "height and width must be positive"}
	}

	classes, err := dataset.Classes(root)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, &dataset.ConfigError{
			Field:  "root",
			Reason: "no class directories found under " + root,
		}
	}

	s := &Source{
		root:    root,
		classes: classes,
		config:  config,
	}

	for i, class := range classes {
		files, err := dataset.Scan(filepath.Join(root, class))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			s.items = append(s.items, item{path: f.Path, classIndex: i})
		}
	}

	logging.Info("Resolved dataset %s: %d classes, %d images", root, len(classes), len(s.items))
	return s, nil
}

// Classes returns the ordered class names. The slice must not be
// modified; its ordering defines the one-hot label layout.
func (s *Source) Classes() []string {
	return s.classes
}

// Len returns the total number of images in the source.
func (s *Source) Len() int {
	return len(s.items)
}

// BatchesFor returns how many batches one full pass over the source
// yields at the given batch size under the configured trailing-batch
// policy.
func (s *Source) BatchesFor(batchSize int) int {
	if batchSize <= 0 {
		return 0
	}
	if s.config.KeepRemainder {
		return (len(s.items) + batchSize - 1) / batchSize
	}
	return len(s.items) / batchSize
}

// Root returns the dataset root directory.
func (s *Source) Root() string {
	return s.root
}
