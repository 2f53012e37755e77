package dataset

import (
	"os"
	"sort"
)

// Classes returns the class names for a one-folder-per-class dataset
// root: the names of the immediate subdirectories of dir, sorted
// lexicographically ascending. Files directly in dir are ignored.
//
// The returned ordering defines the class-to-index mapping for a
// training run, so callers must resolve it once and hold on to it;
// re-deriving it per batch risks silent label misalignment if the
// directory changes underneath a run.
//
// A root with no subdirectories yields an empty slice, not an error.
// Callers treat zero classes as a configuration error.
func Classes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &NotFoundError{Path: dir, Err: err}
	}

	var classes []string
	for _, entry := range entries {
		if entry.IsDir() {
			classes = append(classes, entry.Name())
		}
	}

	sort.Strings(classes)
	return classes, nil
}
