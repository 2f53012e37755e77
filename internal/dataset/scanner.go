package dataset

import (
	"os"
	"path/filepath"
	"strings"
)

// ImageExtensions maps the file extensions the pipeline accepts to true.
// Matching is case-insensitive on the extension.
var ImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".gif": true,
}

// FileEntry is one discovered image file.
type FileEntry struct {
	Name string // base filename
	Path string // full path, directory joined with Name
}

// Scan lists the image files directly inside dir, filtered to the
// supported extensions. Subdirectories and unrecognized files are
// silently excluded. Entries come back in lexicographic filename order,
// which is stable across platforms.
func Scan(dir string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &NotFoundError{Path: dir, Err: err}
	}

	// os.ReadDir sorts by filename, so the ordering here is already
	// deterministic.
	var files []FileEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !IsImageFile(entry.Name()) {
			continue
		}
		files = append(files, FileEntry{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}

	return files, nil
}

// IsImageFile reports whether name carries a supported image extension.
func IsImageFile(name string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(name))]
}
