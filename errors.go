package vimgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vimgo/archive"
	"github.com/hupe1980/vimgo/bfast"
	"github.com/hupe1980/vimgo/blobstore"
	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/scene"
)

var (
	// ErrNotFound is returned when a document does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrNilSource is returned by Save when there is nothing to write.
	ErrNilSource = errors.New("nil document source")
)

// Sentinels of the underlying packages, for callers that only import vimgo.
var (
	ErrMalformedContainer  = bfast.ErrMalformedContainer
	ErrTruncatedStream     = bfast.ErrTruncatedStream
	ErrSizeMismatch        = column.ErrSizeMismatch
	ErrRowCountMismatch    = column.ErrRowCountMismatch
	ErrIndexOutOfRange     = document.ErrIndexOutOfRange
	ErrMalformedColumnName = document.ErrMalformedColumnName
	ErrRelationOutOfRange  = document.ErrRelationOutOfRange
	ErrTableNotFound       = document.ErrTableNotFound
	ErrMalformedHeader     = document.ErrMalformedHeader
	ErrDuplicateColumn     = document.ErrDuplicateColumn
	ErrDuplicateTable      = document.ErrDuplicateTable
	ErrRemapWithProperties = document.ErrRemapWithProperties
	ErrCyclicInstanceGraph = scene.ErrCyclicInstanceGraph
	ErrChecksumMismatch    = archive.ErrChecksumMismatch
)

// OpenError records the document name and operation that failed.
type OpenError struct {
	Op   string
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("vimgo: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func translateError(op, name string, err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if blobstore.IsNotFound(err) && !errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return &OpenError{Op: op, Name: name, Err: err}
}
