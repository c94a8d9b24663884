package kmodel

// BlockType tags a block with its execution semantics.
type BlockType string

const (
	BlockTypeSource    BlockType = "source"
	BlockTypeSink      BlockType = "sink"
	BlockTypeFilter    BlockType = "filter"
	BlockTypeMap       BlockType = "map"
	BlockTypeDerive    BlockType = "derive"
	BlockTypeAggregate BlockType = "aggregate"
	BlockTypeJoin      BlockType = "join"
	BlockTypeUnion     BlockType = "union"
	BlockTypeSplit     BlockType = "split"
	BlockTypeLookup    BlockType = "lookup"
	BlockTypeSQL       BlockType = "sql"
	BlockTypeUDF       BlockType = "udf"
)

// BlockTypes lists every recognized block type.
var BlockTypes = []BlockType{
	BlockTypeSource,
	BlockTypeSink,
	BlockTypeFilter,
	BlockTypeMap,
	BlockTypeDerive,
	BlockTypeAggregate,
	BlockTypeJoin,
	BlockTypeUnion,
	BlockTypeSplit,
	BlockTypeLookup,
	BlockTypeSQL,
	BlockTypeUDF,
}

// Known reports whether t is one of the recognized block types.
func (t BlockType) Known() bool {
	for _, known := range BlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Implemented reports whether blocks of type t can be executed.
func (t BlockType) Implemented() bool {
	return t == BlockTypeSource || t == BlockTypeJoin
}

func (t BlockType) String() string {
	return string(t)
}

// Port is a named attachment point on a block.
type Port struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Schema *DataSchema `json:"schema,omitempty"`
}

// Position is canvas metadata. It is never consumed during execution.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Block is one node of a pipeline.
type Block struct {
	ID       string
	Type     BlockType
	Name     string
	Inputs   []Port
	Outputs  []Port
	Config   BlockConfig
	Position *Position
}

// InputIndex returns the position of the given port within the block's
// declared inputs.
func (b *Block) InputIndex(portID string) (int, bool) {
	for i, p := range b.Inputs {
		if p.ID == portID {
			return i, true
		}
	}
	return -1, false
}
