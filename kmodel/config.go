package kmodel

// BlockConfig is the type-specific payload of a block. The set of
// implementations is closed: one payload per BlockType.
type BlockConfig interface {
	BlockType() BlockType
	sealed()
}

// SourceConfig configures a source block. Reading Path is the caller's job;
// Rows may carry inline data instead. Columns orders the columns of a schema
// inferred from rows.
type SourceConfig struct {
	Path    string      `json:"path,omitempty"`
	Format  string      `json:"format,omitempty"`
	Schema  *DataSchema `json:"schema,omitempty"`
	Columns []string    `json:"columns,omitempty"`
	Rows    []Row       `json:"rows,omitempty"`
}

// SinkConfig configures a sink block.
type SinkConfig struct {
	Target string `json:"target,omitempty"`
	Format string `json:"format,omitempty"`
}

// FilterConfig configures a filter block.
type FilterConfig struct {
	Condition string `json:"condition"`
}

// ColumnMapping maps a source column to a target column, optionally through
// an expression.
type ColumnMapping struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Expression string `json:"expression,omitempty"`
}

// MapConfig configures a map block.
type MapConfig struct {
	Mappings []ColumnMapping `json:"mappings"`
}

// DerivedColumn is a new column computed from an expression.
type DerivedColumn struct {
	Name       string     `json:"name"`
	Expression string     `json:"expression"`
	Type       ColumnType `json:"type,omitempty"`
}

// DeriveConfig configures a derive block.
type DeriveConfig struct {
	Columns []DerivedColumn `json:"columns"`
}

// Aggregation is one aggregate function applied to a column.
type Aggregation struct {
	Function   string `json:"function"`
	Column     string `json:"column"`
	OutputName string `json:"outputName"`
}

// AggregateConfig configures an aggregate block.
type AggregateConfig struct {
	GroupBy      []string      `json:"groupBy"`
	Aggregations []Aggregation `json:"aggregations"`
}

// UnionConfig configures a union block.
type UnionConfig struct {
	Distinct bool `json:"distinct"`
}

// SplitConfig configures a split block. Each condition feeds the output port
// with the same index.
type SplitConfig struct {
	Conditions []string `json:"conditions"`
}

// LookupConfig configures a lookup block.
type LookupConfig struct {
	Keys          []JoinKey `json:"keys"`
	ReturnColumns []string  `json:"returnColumns"`
}

// SQLConfig configures a sql block.
type SQLConfig struct {
	Query string `json:"query"`
}

// UDFConfig configures a user-defined function block.
type UDFConfig struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

func (SourceConfig) BlockType() BlockType    { return BlockTypeSource }
func (SinkConfig) BlockType() BlockType      { return BlockTypeSink }
func (FilterConfig) BlockType() BlockType    { return BlockTypeFilter }
func (MapConfig) BlockType() BlockType       { return BlockTypeMap }
func (DeriveConfig) BlockType() BlockType    { return BlockTypeDerive }
func (AggregateConfig) BlockType() BlockType { return BlockTypeAggregate }
func (JoinConfig) BlockType() BlockType      { return BlockTypeJoin }
func (UnionConfig) BlockType() BlockType     { return BlockTypeUnion }
func (SplitConfig) BlockType() BlockType     { return BlockTypeSplit }
func (LookupConfig) BlockType() BlockType    { return BlockTypeLookup }
func (SQLConfig) BlockType() BlockType       { return BlockTypeSQL }
func (UDFConfig) BlockType() BlockType       { return BlockTypeUDF }

func (SourceConfig) sealed()    {}
func (SinkConfig) sealed()      {}
func (FilterConfig) sealed()    {}
func (MapConfig) sealed()       {}
func (DeriveConfig) sealed()    {}
func (AggregateConfig) sealed() {}
func (JoinConfig) sealed()      {}
func (UnionConfig) sealed()     {}
func (SplitConfig) sealed()     {}
func (LookupConfig) sealed()    {}
func (SQLConfig) sealed()       {}
func (UDFConfig) sealed()       {}
