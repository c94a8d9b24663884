package kmodel

// JoinType selects the relational join semantics.
type JoinType string

const (
	JoinTypeInner JoinType = "inner"
	JoinTypeLeft  JoinType = "left"
	JoinTypeRight JoinType = "right"
	JoinTypeFull  JoinType = "full"
	JoinTypeCross JoinType = "cross"
)

// JoinKey pairs a left column with a right column that must be equal.
type JoinKey struct {
	LeftKey  string `json:"leftKey"`
	RightKey string `json:"rightKey"`
}

// OutputColumn projects one input column into the join output.
// SourceColumn is prefixed with "left." or "right."; unprefixed names refer
// to the left side.
type OutputColumn struct {
	SourceColumn string `json:"sourceColumn"`
	OutputName   string `json:"outputName"`
	Rename       string `json:"rename,omitempty"`
}

// JoinOptions tune join execution.
type JoinOptions struct {
	// Broadcast is a hint only.
	Broadcast    bool `json:"broadcast,omitempty"`
	NullEquality bool `json:"nullEquality,omitempty"`
	Dedupe       bool `json:"dedupe,omitempty"`
}

// JoinConfig configures a join block.
type JoinConfig struct {
	JoinType JoinType  `json:"joinType"`
	Keys     []JoinKey `json:"keys"`
	// Predicate is reserved and never evaluated.
	Predicate     string         `json:"predicate,omitempty"`
	OutputColumns []OutputColumn `json:"outputColumns,omitempty"`
	Options       JoinOptions    `json:"options"`
}
