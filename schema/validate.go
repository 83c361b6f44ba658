package schema

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/document"
)

var (
	// ErrKindMismatch is returned when a column is stored with a different
	// kind than its descriptor declares.
	ErrKindMismatch = errors.New("column kind mismatch")
	// ErrRelationMismatch is returned when an index column points into a
	// different table than its descriptor declares.
	ErrRelationMismatch = errors.New("relation target mismatch")
)

// FieldError reports a column that does not conform to its descriptor.
type FieldError struct {
	Table  string
	Column string
	Want   FieldDescriptor
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("table %q column %q: %v (want %s)", e.Table, e.Column, e.Err, e.Want)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Validate checks the tables of doc that have a descriptor. Columns a
// descriptor does not name are accepted, as are missing columns; only
// conflicting columns are errors. All conflicts are returned, joined.
func Validate(doc *document.Document, descriptors []TableDescriptor) error {
	var errs []error
	for _, td := range descriptors {
		t, err := doc.Table(td.Name)
		if err != nil {
			continue
		}
		for _, c := range t.Columns() {
			if err := checkColumn(td, c); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func checkColumn(td TableDescriptor, c column.Column) error {
	if c.Kind() == column.Index {
		related, field, err := document.SplitIndexName(c.Name())
		if err != nil {
			return &FieldError{Table: td.Name, Column: c.Name(), Err: err}
		}
		for _, f := range td.Fields {
			if f.Name != field {
				continue
			}
			if f.Kind != column.Index {
				return &FieldError{Table: td.Name, Column: c.Name(), Want: f, Err: ErrKindMismatch}
			}
			if f.RelatedTable != related {
				return &FieldError{Table: td.Name, Column: c.Name(), Want: f, Err: ErrRelationMismatch}
			}
			return nil
		}
		return nil
	}

	f, ok := td.Field(c.Name())
	if !ok || f.Kind == c.Kind() {
		return nil
	}
	// Object model bools and ints are numeric; a string column under a
	// numeric name, or the reverse, is a conflict.
	return &FieldError{Table: td.Name, Column: c.Name(), Want: f, Err: ErrKindMismatch}
}

// ValidateObjectModel is Validate against ObjectModel().
func ValidateObjectModel(doc *document.Document) error {
	return Validate(doc, objectModel)
}
