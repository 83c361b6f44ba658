package document

import (
	"fmt"

	"github.com/hupe1980/vimgo/column"
)

func remapRows[T any](values []T, remap []int) ([]T, error) {
	if remap == nil {
		return values, nil
	}
	out := make([]T, len(remap))
	for i, src := range remap {
		if src < 0 || src >= len(values) {
			return nil, fmt.Errorf("%w: remap entry %d points at row %d of %d", ErrIndexOutOfRange, i, src, len(values))
		}
		out[i] = values[src]
	}
	return out, nil
}

// CopyTable creates a table with the same name and contents as t. When
// remap is non-nil, row i of the copy is row remap[i] of t. Relations held
// by other tables are not adjusted. Tables with properties cannot be
// remapped.
func (db *DocumentBuilder) CopyTable(t *EntityTable, remap []int) (*TableBuilder, error) {
	if remap != nil && len(t.Properties()) > 0 {
		return nil, &TableError{Table: t.Name(), Err: ErrRemapWithProperties}
	}
	tb, err := db.CreateTable(t.Name())
	if err != nil {
		return nil, err
	}

	for _, c := range t.Columns() {
		if err := copyColumn(tb, t, c, remap); err != nil {
			return nil, err
		}
	}
	for _, p := range t.Properties() {
		rp := t.Resolve(p)
		tb.AddProperty(rp.EntityIndex, rp.Name, rp.Value)
	}
	return tb, nil
}

func copyColumn(tb *TableBuilder, t *EntityTable, c column.Column, remap []int) error {
	wrap := func(err error) error {
		if err == nil {
			return nil
		}
		return &TableError{Table: t.Name(), Column: c.Name(), Err: err}
	}

	switch c.Kind() {
	case column.Numeric:
		values, err := remapRows(c.Float64s(), remap)
		if err != nil {
			return wrap(err)
		}
		return tb.AddNumericColumn(c.Name(), values)

	case column.Index:
		related, field, err := SplitIndexName(c.Name())
		if err != nil {
			return wrap(err)
		}
		values, err := remapRows(c.Int32s(), remap)
		if err != nil {
			return wrap(err)
		}
		return tb.AddIndexColumn(related, field, values)

	case column.String:
		strs, err := t.Strings(c.Name())
		if err != nil {
			return err
		}
		values, err := remapRows(strs, remap)
		if err != nil {
			return wrap(err)
		}
		return tb.AddStringColumn(c.Name(), values)
	}
	return nil
}

// CopyTablesFrom copies every table of doc except computed ones. nodeRemap,
// if non-nil, is applied to the Vim.Node table only.
func (db *DocumentBuilder) CopyTablesFrom(doc *Document, nodeRemap []int) error {
	for _, t := range doc.Tables() {
		if ComputedTables[t.Name()] {
			continue
		}
		var remap []int
		if t.Name() == TableNode {
			remap = nodeRemap
		}
		if _, err := db.CopyTable(t, remap); err != nil {
			return err
		}
	}
	return nil
}
