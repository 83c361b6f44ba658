package document

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// RelationIndex answers "which rows of table A point at row r of table B"
// for one index column of A.
type RelationIndex struct {
	table   *EntityTable
	related *EntityTable
	field   string
	rows    map[int32]*roaring.Bitmap
	// rows of A whose relation is -1
	none *roaring.Bitmap
}

// NewRelationIndex builds the reverse index of t's relation field.
func NewRelationIndex(t *EntityTable, field string) (*RelationIndex, error) {
	name, ok := t.IndexColumnName(field)
	if !ok {
		return nil, &TableError{Table: t.Name(), Column: field, Err: ErrColumnNotFound}
	}
	related, err := t.relatedTable(name)
	if err != nil {
		return nil, err
	}
	values, _ := t.Index(name)

	ri := &RelationIndex{
		table:   t,
		related: related,
		field:   SimplifiedName(name),
		rows:    make(map[int32]*roaring.Bitmap),
		none:    roaring.New(),
	}
	for row, v := range values {
		if v < 0 {
			ri.none.Add(uint32(row))
			continue
		}
		bm, ok := ri.rows[v]
		if !ok {
			bm = roaring.New()
			ri.rows[v] = bm
		}
		bm.Add(uint32(row))
	}
	for _, bm := range ri.rows {
		bm.RunOptimize()
	}
	return ri, nil
}

// Table returns the referencing table.
func (ri *RelationIndex) Table() *EntityTable { return ri.table }

// RelatedTable returns the referenced table.
func (ri *RelationIndex) RelatedTable() *EntityTable { return ri.related }

// Field returns the simplified relation field name.
func (ri *RelationIndex) Field() string { return ri.field }

// Referencing returns the rows pointing at target. The bitmap is a copy.
func (ri *RelationIndex) Referencing(target int32) *roaring.Bitmap {
	if bm, ok := ri.rows[target]; ok {
		return bm.Clone()
	}
	return roaring.New()
}

// ReferencingRows returns the rows pointing at target in ascending order.
func (ri *RelationIndex) ReferencingRows(target int32) []uint32 {
	if bm, ok := ri.rows[target]; ok {
		return bm.ToArray()
	}
	return nil
}

// ReferencingAny returns the rows pointing at any of targets.
func (ri *RelationIndex) ReferencingAny(targets ...int32) *roaring.Bitmap {
	bms := make([]*roaring.Bitmap, 0, len(targets))
	for _, t := range targets {
		if bm, ok := ri.rows[t]; ok {
			bms = append(bms, bm)
		}
	}
	return roaring.FastOr(bms...)
}

// Count returns how many rows point at target.
func (ri *RelationIndex) Count(target int32) uint64 {
	if bm, ok := ri.rows[target]; ok {
		return bm.GetCardinality()
	}
	return 0
}

// Unrelated returns the rows whose relation is -1. The bitmap is a copy.
func (ri *RelationIndex) Unrelated() *roaring.Bitmap {
	return ri.none.Clone()
}

// Targets returns the number of distinct referenced rows.
func (ri *RelationIndex) Targets() int {
	return len(ri.rows)
}
