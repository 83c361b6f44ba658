package schema

import (
	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/document"
)

// Column is one column of a table schema. Name is the full column name,
// "Rvt.Level:Level" for a relation.
type Column struct {
	Name string      `json:"name" yaml:"name" cbor:"name"`
	Kind column.Kind `json:"kind" yaml:"kind" cbor:"kind"`
}

// Table is the schema of one entity table.
type Table struct {
	Name    string   `json:"name" yaml:"name" cbor:"name"`
	Columns []Column `json:"columns" yaml:"columns" cbor:"columns"`
}

// FindColumn returns the column with the given name.
func (t Table) FindColumn(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// VimSchema is the shape of a document.
type VimSchema struct {
	Version string  `json:"version" yaml:"version" cbor:"version"`
	Tables  []Table `json:"tables" yaml:"tables" cbor:"tables"`
}

// FindTable returns the table with the given name.
func (s VimSchema) FindTable(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// FromDocument returns the schema of doc. Tables keep document order;
// within a table index columns come first, then numeric, then string.
func FromDocument(doc *document.Document) VimSchema {
	s := VimSchema{Version: doc.Header().ObjectModelVersion.String()}
	for _, et := range doc.Tables() {
		t := Table{Name: document.SimplifiedName(et.Name())}
		for _, kind := range []column.Kind{column.Index, column.Numeric, column.String} {
			for _, c := range et.ColumnsOf(kind) {
				t.Columns = append(t.Columns, Column{Name: c.Name(), Kind: kind})
			}
		}
		s.Tables = append(s.Tables, t)
	}
	return s
}

// Diff holds the differences between two schemas. Each part only contains
// the tables that have at least one entry.
type Diff struct {
	// Added holds tables and columns absent from the previous schema.
	Added VimSchema `json:"added" yaml:"added"`
	// Removed holds tables and columns absent from the current schema.
	Removed VimSchema `json:"removed" yaml:"removed"`
	// Modified holds columns whose kind changed, with their current kind.
	Modified VimSchema `json:"modified" yaml:"modified"`
}

// IsEmpty reports whether the schemas were equal.
func (d Diff) IsEmpty() bool {
	return len(d.Added.Tables) == 0 && len(d.Removed.Tables) == 0 && len(d.Modified.Tables) == 0
}

// Diff compares s against previous.
func (s VimSchema) Diff(previous VimSchema) Diff {
	return Diff{
		Added:    s.Added(previous),
		Removed:  s.Removed(previous),
		Modified: s.Modified(previous),
	}
}

// Added returns the tables and columns of s missing from previous. A new
// table is reported whole.
func (s VimSchema) Added(previous VimSchema) VimSchema {
	return s.addedOrChanged(previous, false)
}

// Removed returns the tables and columns of previous missing from s.
func (s VimSchema) Removed(previous VimSchema) VimSchema {
	return previous.addedOrChanged(s, false)
}

// Modified returns the columns present in both schemas whose kind changed.
func (s VimSchema) Modified(previous VimSchema) VimSchema {
	return s.addedOrChanged(previous, true)
}

// IsSame reports whether s and other have the same tables and columns.
// The version is not compared.
func (s VimSchema) IsSame(other VimSchema) bool {
	return s.Diff(other).IsEmpty()
}

func (s VimSchema) addedOrChanged(previous VimSchema, changedOnly bool) VimSchema {
	out := VimSchema{Version: previous.Version + " => " + s.Version}
	for _, t := range s.Tables {
		prev, ok := previous.FindTable(t.Name)
		if !ok {
			if !changedOnly {
				out.Tables = append(out.Tables, t)
			}
			continue
		}

		nt := Table{Name: t.Name}
		for _, c := range t.Columns {
			pc, ok := prev.FindColumn(c.Name)
			switch {
			case !ok && !changedOnly:
				nt.Columns = append(nt.Columns, c)
			case ok && changedOnly && pc.Kind != c.Kind:
				nt.Columns = append(nt.Columns, c)
			}
		}
		if len(nt.Columns) > 0 {
			out.Tables = append(out.Tables, nt)
		}
	}
	return out
}
