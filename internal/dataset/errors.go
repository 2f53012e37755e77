package dataset

import "fmt"

// NotFoundError reports a directory or file that does not exist or
// could not be read.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// DecodeError reports an image file that was unreadable, corrupt, or in
// an unsupported format. The path identifies the offending file so the
// caller can report it rather than a bare unwind.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConfigError reports an invalid configuration value: zero classes
// discovered, an invalid target size, or a rejected request field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
