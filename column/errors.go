package column

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeMismatch is returned when a buffer length is not a multiple of
	// the element stride.
	ErrSizeMismatch = errors.New("column: buffer size is not a multiple of the element size")

	// ErrRowCountMismatch is returned when columns of one table disagree on
	// their length.
	ErrRowCountMismatch = errors.New("column: row count mismatch")
)

// Error attaches the column name to a column error.
type Error struct {
	Column string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: column %q", e.Err, e.Column)
}

func (e *Error) Unwrap() error { return e.Err }
