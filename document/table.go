package document

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/hupe1980/vimgo/column"
)

// EntityTable is an immutable, validated table owned by a Document.
type EntityTable struct {
	doc  *Document
	name string
	rows int

	// numeric, index, string; each sorted by name.
	columns []column.Column
	byKey   map[column.Key]int
	// simplified field name ("Level") to column position.
	byField map[string]int

	properties []Property
	propsOnce  sync.Once
	propsBy    map[int32][]Property
}

func newEntityTable(doc *Document, st *SerializableTable) (*EntityTable, error) {
	rows, err := st.NumRows()
	if err != nil {
		return nil, err
	}

	cols := slices.Clone(st.Columns)
	slices.SortStableFunc(cols, func(a, b column.Column) int {
		return cmp.Or(cmp.Compare(kindOrder(a.Kind()), kindOrder(b.Kind())), cmp.Compare(a.Name(), b.Name()))
	})

	t := &EntityTable{
		doc:        doc,
		name:       st.Name,
		rows:       rows,
		columns:    cols,
		byKey:      make(map[column.Key]int, len(cols)),
		byField:    make(map[string]int),
		properties: st.Properties,
	}
	for i, c := range cols {
		if _, dup := t.byKey[c.Key]; dup {
			return nil, &TableError{Table: st.Name, Column: c.Name(), Err: ErrDuplicateColumn}
		}
		t.byKey[c.Key] = i
		if c.Kind() == column.Index {
			field := SimplifiedName(c.Name())
			if _, dup := t.byField[field]; !dup {
				t.byField[field] = i
			}
		}
	}
	return t, nil
}

func kindOrder(k column.Kind) int {
	return slices.Index(column.Kinds[:], k)
}

// Document returns the owning document.
func (t *EntityTable) Document() *Document { return t.doc }

// Name returns the full table name, e.g. "Rvt.Element".
func (t *EntityTable) Name() string { return t.name }

// Key returns the lookup key, e.g. "Element".
func (t *EntityTable) Key() string { return TableKey(t.name) }

// NumRows returns the row count, zero for a table without columns.
func (t *EntityTable) NumRows() int { return t.rows }

// Columns returns all columns: numeric, then index, then string, each sorted
// by name. The slice must not be modified.
func (t *EntityTable) Columns() []column.Column { return t.columns }

// Column returns the column with the given key.
func (t *EntityTable) Column(key column.Key) (column.Column, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return column.Column{}, false
	}
	return t.columns[i], true
}

// ColumnsOf returns the columns of one kind.
func (t *EntityTable) ColumnsOf(kind column.Kind) []column.Column {
	var out []column.Column
	for _, c := range t.columns {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Numeric returns the values of a numeric column.
func (t *EntityTable) Numeric(name string) ([]float64, bool) {
	c, ok := t.Column(column.Key{Kind: column.Numeric, Name: name})
	if !ok {
		return nil, false
	}
	return c.Float64s(), true
}

// indexColumn accepts a field name ("Level") or a full index column name
// ("Rvt.Level:Level").
func (t *EntityTable) indexColumn(name string) (column.Column, bool) {
	if c, ok := t.Column(column.Key{Kind: column.Index, Name: name}); ok {
		return c, true
	}
	i, ok := t.byField[SimplifiedName(name)]
	if !ok {
		return column.Column{}, false
	}
	return t.columns[i], true
}

// Index returns the values of an index column looked up by field name.
func (t *EntityTable) Index(field string) ([]int32, bool) {
	c, ok := t.indexColumn(field)
	if !ok {
		return nil, false
	}
	return c.Int32s(), true
}

// IndexColumnName returns the stored "<RelatedTable>:<Field>" name of a
// relation.
func (t *EntityTable) IndexColumnName(field string) (string, bool) {
	c, ok := t.indexColumn(field)
	if !ok {
		return "", false
	}
	return c.Name(), true
}

// StringIDs returns the string table ids of a string column.
func (t *EntityTable) StringIDs(name string) ([]int32, bool) {
	c, ok := t.Column(column.Key{Kind: column.String, Name: name})
	if !ok {
		return nil, false
	}
	return c.Int32s(), true
}

// Strings returns the resolved values of a string column.
func (t *EntityTable) Strings(name string) ([]string, error) {
	ids, ok := t.StringIDs(name)
	if !ok {
		return nil, &TableError{Table: t.name, Column: name, Err: ErrColumnNotFound}
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		s, err := t.doc.strings.Get(id)
		if err != nil {
			return nil, &TableError{Table: t.name, Column: name, Err: fmt.Errorf("row %d: %w", i, err)}
		}
		out[i] = s
	}
	return out, nil
}

// String returns one resolved value of a string column.
func (t *EntityTable) String(name string, row int) (string, error) {
	ids, ok := t.StringIDs(name)
	if !ok {
		return "", &TableError{Table: t.name, Column: name, Err: ErrColumnNotFound}
	}
	if row < 0 || row >= len(ids) {
		return "", &TableError{Table: t.name, Column: name, Err: fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, row, len(ids))}
	}
	return t.doc.strings.Get(ids[row])
}

// RelatedTable resolves the table an index column points at.
func (t *EntityTable) RelatedTable(field string) (*EntityTable, error) {
	name, ok := t.IndexColumnName(field)
	if !ok {
		return nil, &TableError{Table: t.name, Column: field, Err: ErrColumnNotFound}
	}
	return t.relatedTable(name)
}

func (t *EntityTable) relatedTable(columnName string) (*EntityTable, error) {
	related, _, err := SplitIndexName(columnName)
	if err != nil {
		return nil, &TableError{Table: t.name, Column: columnName, Err: err}
	}
	rt, err := t.doc.Table(related)
	if err != nil {
		return nil, &TableError{Table: t.name, Column: columnName, Err: err}
	}
	return rt, nil
}

// Properties returns the raw properties in file order.
func (t *EntityTable) Properties() []Property { return t.properties }

// PropertiesOf returns the properties of one row, in file order.
func (t *EntityTable) PropertiesOf(entity int32) []Property {
	t.propsOnce.Do(func() {
		t.propsBy = make(map[int32][]Property)
		for _, p := range t.properties {
			t.propsBy[p.EntityIndex] = append(t.propsBy[p.EntityIndex], p)
		}
	})
	return t.propsBy[entity]
}

// Resolve looks up the name and value strings of a property. Unknown ids
// resolve to the empty string.
func (t *EntityTable) Resolve(p Property) ResolvedProperty {
	return ResolvedProperty{
		EntityIndex: p.EntityIndex,
		Name:        t.doc.strings.GetOrEmpty(p.Name),
		Value:       t.doc.strings.GetOrEmpty(p.Value),
	}
}

// ResolvedPropertiesOf returns the resolved properties of one row.
func (t *EntityTable) ResolvedPropertiesOf(entity int32) []ResolvedProperty {
	props := t.PropertiesOf(entity)
	out := make([]ResolvedProperty, len(props))
	for i, p := range props {
		out[i] = t.Resolve(p)
	}
	return out
}

// serializable returns the on-disk form, reusing the decoded columns.
func (t *EntityTable) serializable() *SerializableTable {
	return &SerializableTable{
		Name:       t.name,
		Columns:    t.columns,
		Properties: t.properties,
	}
}
