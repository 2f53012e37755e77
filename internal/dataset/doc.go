// Package dataset discovers training data on disk: it scans directories
// for supported image files, derives the class index from the standard
// one-folder-per-class layout, and defines the error taxonomy shared by
// the preprocessing pipeline (NotFoundError, DecodeError, ConfigError).
package dataset
