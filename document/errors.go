package document

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/strtable"
)

var (
	// ErrMalformedColumnName is returned when an index column name is not
	// of the form "<RelatedTable>:<Field>".
	ErrMalformedColumnName = errors.New("malformed index column name")

	// ErrRelationOutOfRange is returned by relation validation.
	ErrRelationOutOfRange = errors.New("relation out of range")

	// ErrTableNotFound is returned when a table lookup fails.
	ErrTableNotFound = errors.New("table not found")

	// ErrColumnNotFound is returned when a column lookup fails.
	ErrColumnNotFound = errors.New("column not found")

	// ErrMalformedHeader is returned for an unparsable header buffer.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrDuplicateColumn is returned when a column name is added twice.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrDuplicateTable is returned by CreateTable for an existing table and
	// when two tables of a file share a key.
	ErrDuplicateTable = errors.New("duplicate table")

	// ErrRemapWithProperties is returned when copying a table with a row
	// remapping while the table carries properties.
	ErrRemapWithProperties = errors.New("cannot remap a table with properties")

	// ErrGeometryNotLoaded is returned by Geometry when the buffer was
	// skipped or absent.
	ErrGeometryNotLoaded = errors.New("geometry not loaded")
)

// Re-exported for callers that only import document.
var (
	ErrRowCountMismatch = column.ErrRowCountMismatch
	ErrSizeMismatch     = column.ErrSizeMismatch
	ErrIndexOutOfRange  = strtable.ErrIndexOutOfRange
)

// TableError attaches a table and optional column name to an error.
type TableError struct {
	Table  string
	Column string
	Err    error
}

func (e *TableError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("table %q: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("table %q column %q: %v", e.Table, e.Column, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// RelationError describes an index column value outside its related table.
type RelationError struct {
	Table        string
	Column       string
	RelatedTable string
	Row          int
	Value        int32
	// Max is the largest accepted value.
	Max int
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("table %q column %q row %d: value %d out of range [-1, %d] of %q",
		e.Table, e.Column, e.Row, e.Value, e.Max, e.RelatedTable)
}

func (e *RelationError) Unwrap() error { return ErrRelationOutOfRange }
