package schema

import (
	"fmt"

	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/document"
)

// FieldDescriptor describes one column of an object model table.
type FieldDescriptor struct {
	Name string      `json:"name" yaml:"name"`
	Kind column.Kind `json:"kind" yaml:"kind"`
	// RelatedTable is the full name of the table an index field points
	// into. Empty for other kinds.
	RelatedTable string `json:"related_table,omitempty" yaml:"related_table,omitempty"`
}

// ColumnName returns the stored column name: "<RelatedTable>:<Name>" for
// relations, Name otherwise.
func (f FieldDescriptor) ColumnName() string {
	if f.Kind == column.Index {
		return document.IndexColumnName(f.RelatedTable, f.Name)
	}
	return f.Name
}

func (f FieldDescriptor) String() string {
	return fmt.Sprintf("%s %s", f.Kind, f.ColumnName())
}

// TableDescriptor describes an object model table.
type TableDescriptor struct {
	Name   string            `json:"name" yaml:"name"`
	Fields []FieldDescriptor `json:"fields" yaml:"fields"`
}

// Field returns the field whose column name or plain name matches name.
func (t TableDescriptor) Field(name string) (FieldDescriptor, bool) {
	for _, f := range t.Fields {
		if f.ColumnName() == name || f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Relations returns the index fields of the table.
func (t TableDescriptor) Relations() []FieldDescriptor {
	var out []FieldDescriptor
	for _, f := range t.Fields {
		if f.Kind == column.Index {
			out = append(out, f)
		}
	}
	return out
}

// Schema returns the table schema the descriptor produces.
func (t TableDescriptor) Schema() Table {
	out := Table{Name: t.Name}
	for _, kind := range []column.Kind{column.Index, column.Numeric, column.String} {
		for _, f := range t.Fields {
			if f.Kind == kind {
				out.Columns = append(out.Columns, Column{Name: f.ColumnName(), Kind: kind})
			}
		}
	}
	return out
}

// CreateTable adds an empty table for the descriptor to db. Columns are
// added by the caller; the descriptor only fixes the table name.
func (t TableDescriptor) CreateTable(db *document.DocumentBuilder) (*document.TableBuilder, error) {
	return db.CreateTable(t.Name)
}

func numeric(names ...string) []FieldDescriptor {
	out := make([]FieldDescriptor, len(names))
	for i, n := range names {
		out[i] = FieldDescriptor{Name: n, Kind: column.Numeric}
	}
	return out
}

func strs(names ...string) []FieldDescriptor {
	out := make([]FieldDescriptor, len(names))
	for i, n := range names {
		out[i] = FieldDescriptor{Name: n, Kind: column.String}
	}
	return out
}

func relation(table, name string) FieldDescriptor {
	return FieldDescriptor{Name: name, Kind: column.Index, RelatedTable: table}
}

// vector expands a composite field into one numeric field per component.
func vector(name string, components ...string) []FieldDescriptor {
	out := make([]FieldDescriptor, len(components))
	for i, c := range components {
		out[i] = FieldDescriptor{Name: name + "." + c, Kind: column.Numeric}
	}
	return out
}

func dvector2(name string) []FieldDescriptor { return vector(name, "X", "Y") }

func dvector3(name string) []FieldDescriptor { return vector(name, "X", "Y", "Z") }

func daabox(name string) []FieldDescriptor {
	return vector(name, "Min.X", "Min.Y", "Min.Z", "Max.X", "Max.Y", "Max.Z")
}

func fields(groups ...[]FieldDescriptor) []FieldDescriptor {
	var out []FieldDescriptor
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func one(f FieldDescriptor) []FieldDescriptor { return []FieldDescriptor{f} }

// withElement is the relation of every table that describes an element.
func withElement(groups ...[]FieldDescriptor) []FieldDescriptor {
	return fields(append(groups, one(relation(document.TableElement, "Element")))...)
}
