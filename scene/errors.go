package scene

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vimgo/document"
)

var (
	// ErrCyclicInstanceGraph is returned when expanding an instance would
	// re-enter a source that is already being expanded on the same path.
	ErrCyclicInstanceGraph = errors.New("cyclic instance graph")

	// ErrIndexOutOfRange is returned for an instance index outside the node
	// array.
	ErrIndexOutOfRange = document.ErrIndexOutOfRange
)

// ExpansionError identifies the node at which expansion failed.
type ExpansionError struct {
	Node     int
	Instance int32
	Err      error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("node %d (instance %d): %v", e.Node, e.Instance, e.Err)
}

func (e *ExpansionError) Unwrap() error { return e.Err }
