package schema

import (
	"strings"

	"trainprep/internal/dataset"
)

// Text validates a required free-text request field. Empty and
// whitespace-only values are rejected.
func Text(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &dataset.ConfigError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// TargetSize validates a requested target size.
func TargetSize(height, width int) error {
	if height <= 0 {
		return &dataset.ConfigError{Field: "height", Reason: "must be positive"}
	}
	if width <= 0 {
		return &dataset.ConfigError{Field: "width", Reason: "must be positive"}
	}
	return nil
}

// BatchSize validates a requested batch size.
func BatchSize(n int) error {
	if n <= 0 {
		return &dataset.ConfigError{Field: "batch_size", Reason: "must be positive"}
	}
	return nil
}
