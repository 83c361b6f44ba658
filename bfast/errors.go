package bfast

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedContainer is returned when the header is structurally invalid.
	ErrMalformedContainer = errors.New("bfast: malformed container")

	// ErrTruncatedStream is returned when the input ends before the declared size.
	ErrTruncatedStream = errors.New("bfast: truncated stream")

	// ErrSizeMismatch is returned when a component writes a different number
	// of bytes than its declared size.
	ErrSizeMismatch = errors.New("bfast: component size mismatch")

	// ErrEntryNotFound is returned when a named entry does not exist.
	ErrEntryNotFound = errors.New("bfast: entry not found")

	// ErrDuplicateEntry is returned when a name is added twice to a Builder.
	ErrDuplicateEntry = errors.New("bfast: duplicate entry")
)

// ContainerError attaches the offending entry name and offset to a container error.
type ContainerError struct {
	Name   string
	Offset int64
	Err    error
}

func (e *ContainerError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v (offset %d)", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v: entry %q (offset %d)", e.Err, e.Name, e.Offset)
}

func (e *ContainerError) Unwrap() error { return e.Err }

func malformed(name string, offset int64, format string, args ...any) error {
	return &ContainerError{
		Name:   name,
		Offset: offset,
		Err:    fmt.Errorf("%w: %s", ErrMalformedContainer, fmt.Sprintf(format, args...)),
	}
}

func truncated(name string, offset int64, cause error) error {
	err := ErrTruncatedStream
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrTruncatedStream, cause)
	}
	return &ContainerError{Name: name, Offset: offset, Err: err}
}
