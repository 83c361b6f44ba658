package document

import "github.com/hupe1980/vimgo/column"

// ValidateRelations checks every index column of every table. A value v is
// accepted when -1 <= v <= rows of the related table; the upper bound is
// inclusive for compatibility with existing files. Use
// ValidateRelationsStrict to reject v == rows.
func (d *Document) ValidateRelations() error {
	return d.validateRelations(false)
}

// ValidateRelationsStrict is ValidateRelations with -1 <= v < rows.
func (d *Document) ValidateRelationsStrict() error {
	return d.validateRelations(true)
}

func (d *Document) validateRelations(strict bool) error {
	for _, t := range d.tableOrder {
		for _, c := range t.ColumnsOf(column.Index) {
			related, err := t.relatedTable(c.Name())
			if err != nil {
				return err
			}
			limit := related.NumRows()
			if strict {
				limit--
			}
			for row, v := range c.Int32s() {
				if v < -1 || int(v) > limit {
					return &RelationError{
						Table:        t.Name(),
						Column:       c.Name(),
						RelatedTable: related.Name(),
						Row:          row,
						Value:        v,
						Max:          limit,
					}
				}
			}
		}
	}
	return nil
}
