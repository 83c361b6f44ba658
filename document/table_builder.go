package document

import (
	"fmt"

	"github.com/hupe1980/vimgo/bfast"
	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/math3d"
	"github.com/hupe1980/vimgo/strtable"
)

type stringColumn struct {
	name   string
	values []string
}

type propertyBuilder struct {
	entity int32
	name   string
	value  string
}

// TableBuilder accumulates the columns and properties of one table. Every
// column must have the same length; the first column added fixes the row
// count.
type TableBuilder struct {
	name    string
	rows    int
	hasRows bool

	numeric []column.Column
	index   []column.Column
	strs    []stringColumn
	keys    map[column.Key]struct{}
	props   []propertyBuilder
}

// NewTableBuilder creates an empty table.
func NewTableBuilder(name string) *TableBuilder {
	return &TableBuilder{
		name: name,
		keys: make(map[column.Key]struct{}),
	}
}

// Name returns the table name, e.g. "Rvt.Element".
func (tb *TableBuilder) Name() string { return tb.name }

// NumRows returns the row count, zero until a column is added.
func (tb *TableBuilder) NumRows() int { return tb.rows }

// NumColumns returns the number of columns of all kinds.
func (tb *TableBuilder) NumColumns() int { return len(tb.keys) }

// NumProperties returns the number of properties added.
func (tb *TableBuilder) NumProperties() int { return len(tb.props) }

func (tb *TableBuilder) check(n int, keys ...column.Key) error {
	for _, k := range keys {
		if _, dup := tb.keys[k]; dup {
			return &TableError{Table: tb.name, Column: k.Name, Err: ErrDuplicateColumn}
		}
	}
	if tb.hasRows && n != tb.rows {
		return &TableError{
			Table:  tb.name,
			Column: keys[0].Name,
			Err:    fmt.Errorf("%w: %d values, expected %d rows", ErrRowCountMismatch, n, tb.rows),
		}
	}
	return nil
}

func (tb *TableBuilder) commit(n int, keys ...column.Key) {
	tb.rows, tb.hasRows = n, true
	for _, k := range keys {
		tb.keys[k] = struct{}{}
	}
}

// AddNumericColumn adds a column of doubles.
func (tb *TableBuilder) AddNumericColumn(name string, values []float64) error {
	return tb.addNumeric([]string{name}, [][]float64{values})
}

// addNumeric adds several numeric columns of equal length, all or none.
func (tb *TableBuilder) addNumeric(names []string, values [][]float64) error {
	keys := make([]column.Key, len(names))
	for i, n := range names {
		keys[i] = column.Key{Kind: column.Numeric, Name: n}
	}
	n := len(values[0])
	if err := tb.check(n, keys...); err != nil {
		return err
	}
	for i, name := range names {
		tb.numeric = append(tb.numeric, column.NewNumeric(name, values[i]))
	}
	tb.commit(n, keys...)
	return nil
}

// AddColumn widens values to doubles and adds them as a numeric column.
func AddColumn[T column.Number](tb *TableBuilder, name string, values []T) error {
	return tb.AddNumericColumn(name, column.Widen(values))
}

// AddBoolColumn stores booleans as 1.0 and 0.0.
func (tb *TableBuilder) AddBoolColumn(name string, values []bool) error {
	return tb.AddNumericColumn(name, column.FromBools(values))
}

// AddStringColumn adds a column of strings, resolved to string ids at build
// time.
func (tb *TableBuilder) AddStringColumn(name string, values []string) error {
	key := column.Key{Kind: column.String, Name: name}
	if err := tb.check(len(values), key); err != nil {
		return err
	}
	tb.strs = append(tb.strs, stringColumn{name: name, values: values})
	tb.commit(len(values), key)
	return nil
}

// AddNullableStringColumn adds a string column where nil means empty.
func (tb *TableBuilder) AddNullableStringColumn(name string, values []*string) error {
	strs := make([]string, len(values))
	for i, v := range values {
		if v != nil {
			strs[i] = *v
		}
	}
	return tb.AddStringColumn(name, strs)
}

// AddIndexColumn adds a relation to rows of relatedTable, stored under
// "<relatedTable>:<field>". -1 means no relation.
func (tb *TableBuilder) AddIndexColumn(relatedTable, field string, ids []int32) error {
	name := IndexColumnName(relatedTable, field)
	if _, _, err := SplitIndexName(name); err != nil {
		return &TableError{Table: tb.name, Column: name, Err: err}
	}
	key := column.Key{Kind: column.Index, Name: name}
	if err := tb.check(len(ids), key); err != nil {
		return err
	}
	tb.index = append(tb.index, column.NewIndex(name, ids))
	tb.commit(len(ids), key)
	return nil
}

// AddProperty attaches a name/value pair to a row.
func (tb *TableBuilder) AddProperty(entity int32, name, value string) {
	tb.props = append(tb.props, propertyBuilder{entity: entity, name: name, value: value})
}

// AddVector2Column adds "<name>.X" and "<name>.Y".
func (tb *TableBuilder) AddVector2Column(name string, values []math3d.Vector2) error {
	x, y := make([]float64, len(values)), make([]float64, len(values))
	for i, v := range values {
		x[i], y[i] = float64(v.X), float64(v.Y)
	}
	return tb.addNumeric([]string{name + ".X", name + ".Y"}, [][]float64{x, y})
}

// AddDVector2Column adds "<name>.X" and "<name>.Y".
func (tb *TableBuilder) AddDVector2Column(name string, values []math3d.DVector2) error {
	x, y := make([]float64, len(values)), make([]float64, len(values))
	for i, v := range values {
		x[i], y[i] = v.X, v.Y
	}
	return tb.addNumeric([]string{name + ".X", name + ".Y"}, [][]float64{x, y})
}

func vector3Names(name string) []string {
	return []string{name + ".X", name + ".Y", name + ".Z"}
}

// AddVector3Column adds "<name>.X", "<name>.Y" and "<name>.Z".
func (tb *TableBuilder) AddVector3Column(name string, values []math3d.Vector3) error {
	cols := splitVector3(len(values), func(i int) math3d.DVector3 { return values[i].ToDouble() })
	return tb.addNumeric(vector3Names(name), cols)
}

// AddDVector3Column adds "<name>.X", "<name>.Y" and "<name>.Z".
func (tb *TableBuilder) AddDVector3Column(name string, values []math3d.DVector3) error {
	cols := splitVector3(len(values), func(i int) math3d.DVector3 { return values[i] })
	return tb.addNumeric(vector3Names(name), cols)
}

// AddVector4Column adds "<name>.X" through "<name>.W".
func (tb *TableBuilder) AddVector4Column(name string, values []math3d.Vector4) error {
	cols := make([][]float64, 4)
	for c := range cols {
		cols[c] = make([]float64, len(values))
	}
	for i, v := range values {
		cols[0][i], cols[1][i], cols[2][i], cols[3][i] = float64(v.X), float64(v.Y), float64(v.Z), float64(v.W)
	}
	return tb.addNumeric([]string{name + ".X", name + ".Y", name + ".Z", name + ".W"}, cols)
}

// AddDVector4Column adds "<name>.X" through "<name>.W".
func (tb *TableBuilder) AddDVector4Column(name string, values []math3d.DVector4) error {
	cols := make([][]float64, 4)
	for c := range cols {
		cols[c] = make([]float64, len(values))
	}
	for i, v := range values {
		cols[0][i], cols[1][i], cols[2][i], cols[3][i] = v.X, v.Y, v.Z, v.W
	}
	return tb.addNumeric([]string{name + ".X", name + ".Y", name + ".Z", name + ".W"}, cols)
}

// AddAABoxColumn adds "<name>.Min.X" through "<name>.Max.Z".
func (tb *TableBuilder) AddAABoxColumn(name string, values []math3d.AABox) error {
	boxes := make([]math3d.DAABox, len(values))
	for i, b := range values {
		boxes[i] = b.ToDouble()
	}
	return tb.AddDAABoxColumn(name, boxes)
}

// AddDAABoxColumn adds "<name>.Min.X" through "<name>.Max.Z".
func (tb *TableBuilder) AddDAABoxColumn(name string, values []math3d.DAABox) error {
	mins := splitVector3(len(values), func(i int) math3d.DVector3 { return values[i].Min })
	maxs := splitVector3(len(values), func(i int) math3d.DVector3 { return values[i].Max })
	names := append(vector3Names(name+".Min"), vector3Names(name+".Max")...)
	return tb.addNumeric(names, append(mins, maxs...))
}

func splitVector3(n int, at func(int) math3d.DVector3) [][]float64 {
	x, y, z := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range n {
		v := at(i)
		x[i], y[i], z[i] = v.X, v.Y, v.Z
	}
	return [][]float64{x, y, z}
}

// Clear drops every column and property. Used for computed tables.
func (tb *TableBuilder) Clear() {
	tb.rows, tb.hasRows = 0, false
	tb.numeric = nil
	tb.index = nil
	tb.strs = nil
	tb.props = nil
	tb.keys = make(map[column.Key]struct{})
}

// Strings returns every string value in interning order: string columns in
// insertion order, then property names, then property values.
func (tb *TableBuilder) Strings() []string {
	var out []string
	for _, c := range tb.strs {
		out = append(out, c.values...)
	}
	for _, p := range tb.props {
		out = append(out, p.name)
	}
	for _, p := range tb.props {
		out = append(out, p.value)
	}
	return out
}

// Build resolves strings against the document's string table and returns
// the serializable form.
func (tb *TableBuilder) Build(strings *strtable.Builder) (*SerializableTable, error) {
	t := &SerializableTable{Name: tb.name}
	t.Columns = append(t.Columns, tb.numeric...)
	t.Columns = append(t.Columns, tb.index...)
	for _, c := range tb.strs {
		ids := make([]int32, len(c.values))
		for i, s := range c.values {
			ids[i] = strings.Intern(s)
		}
		t.Columns = append(t.Columns, column.NewString(c.name, ids))
	}
	if _, err := t.NumRows(); err != nil {
		return nil, err
	}

	t.Properties = make([]Property, len(tb.props))
	for i, p := range tb.props {
		t.Properties[i] = Property{
			EntityIndex: p.entity,
			Name:        strings.Intern(p.name),
			Value:       strings.Intern(p.value),
		}
	}
	return t, nil
}

// SerializableTable is the on-disk form of a table: columns in numeric,
// index, string order followed by the properties buffer.
type SerializableTable struct {
	Name       string
	Columns    []column.Column
	Properties []Property
}

// NumRows verifies that all columns agree and returns the row count.
func (t *SerializableTable) NumRows() (int, error) {
	rows, err := column.CheckRowCount(t.Columns)
	if err != nil {
		return 0, &TableError{Table: t.Name, Err: err}
	}
	return rows, nil
}

// Container returns the table as a nested bfast container.
func (t *SerializableTable) Container() (*bfast.Builder, error) {
	b := bfast.NewBuilder()
	for _, c := range t.Columns {
		if err := b.Add(c.Key.EntryName(), c); err != nil {
			return nil, &TableError{Table: t.Name, Column: c.Name(), Err: err}
		}
	}
	if err := b.AddBytes(column.PropertiesName, encodeProperties(t.Properties)); err != nil {
		return nil, &TableError{Table: t.Name, Err: err}
	}
	return b, nil
}
