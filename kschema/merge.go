package kschema

import "github.com/birdayz/kblocks/kmodel"

// MergeSchemas unions two schemas for union-style blocks. Columns of a come
// first, followed by columns only present in b. A column with conflicting
// types becomes unknown; a column missing on one side becomes nullable.
func MergeSchemas(a, b kmodel.DataSchema) kmodel.DataSchema {
	columns := make([]kmodel.Column, 0, a.Len()+b.Len())
	for _, ca := range a.Columns {
		merged := ca
		if cb, ok := b.Column(ca.Name); ok {
			if ca.Type != cb.Type {
				merged.Type = kmodel.ColumnTypeUnknown
			}
			merged.Nullable = ca.Nullable || cb.Nullable
		} else {
			merged.Nullable = true
		}
		columns = append(columns, merged)
	}
	for _, cb := range b.Columns {
		if a.Has(cb.Name) {
			continue
		}
		cb.Nullable = true
		columns = append(columns, cb)
	}
	return kmodel.DataSchema{Columns: columns}
}
