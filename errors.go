// FILE: lixenwraith/config/errors.go
package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile is returned when a required configuration file does not exist.
	ErrMissingFile = errors.New("configuration file not found")

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("configuration parse error")

	// ErrPath is matched by every *PathError.
	ErrPath = errors.New("invalid configuration path")

	// ErrEmptyPath is returned for an empty key where a path is required.
	ErrEmptyPath = errors.New("empty configuration path")

	// ErrNotFound is returned when reading a key that is not present.
	ErrNotFound = errors.New("configuration key not found")

	// ErrIndexOutOfRange is returned when reading a sequence index that does not exist.
	ErrIndexOutOfRange = errors.New("sequence index out of range")

	// ErrFileTooLarge is returned when a file exceeds Options.MaxFileSize.
	ErrFileTooLarge = errors.New("configuration file exceeds maximum size")

	// ErrUnknownFormat is returned when a file format cannot be determined.
	ErrUnknownFormat = errors.New("unknown configuration format")
)

// ParseError reports a source whose content violates its format's grammar.
type ParseError struct {
	Path   string // file path, empty for in-memory content
	Format Format
	Err    error // underlying parser diagnostic
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse %s content: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("failed to parse %s config file '%s': %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// PathError reports a path-targeted override that cannot be applied.
type PathError struct {
	Key     string // raw key as given by the caller
	Segment string // offending segment, empty when the whole key is at fault
	Reason  string
	Err     error // optional cause, e.g. ErrEmptyPath
}

func (e *PathError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("invalid path %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid path %q at segment %q: %s", e.Key, e.Segment, e.Reason)
}

func (e *PathError) Unwrap() error { return e.Err }

func (e *PathError) Is(target error) bool { return target == ErrPath }
