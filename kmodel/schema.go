package kmodel

// ColumnType is the inferred or declared type of a column.
type ColumnType string

const (
	ColumnTypeString  ColumnType = "string"
	ColumnTypeNumber  ColumnType = "number"
	ColumnTypeBoolean ColumnType = "boolean"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeNull    ColumnType = "null"
	ColumnTypeUnknown ColumnType = "unknown"
)

// Column describes one field of a row.
type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
}

// DataSchema is an ordered list of uniquely named columns. The order defines
// the default projection order.
type DataSchema struct {
	Columns []Column `json:"columns"`
}

// NewSchema creates a schema from the given columns.
func NewSchema(columns ...Column) DataSchema {
	return DataSchema{Columns: columns}
}

// Len returns the number of columns.
func (s DataSchema) Len() int {
	return len(s.Columns)
}

// Names returns the column names in schema order.
func (s DataSchema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name.
func (s DataSchema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Has reports whether the schema contains a column with the given name.
func (s DataSchema) Has(name string) bool {
	_, ok := s.Column(name)
	return ok
}
