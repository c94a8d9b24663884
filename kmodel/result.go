package kmodel

// Row maps column names to values. Nil and absent values are null.
type Row map[string]any

// ExecutionResult is the output of one block in one run.
type ExecutionResult struct {
	BlockID    string     `json:"blockId"`
	Schema     DataSchema `json:"schema"`
	SampleData []Row      `json:"sampleData"`
	RowCount   *int       `json:"rowCount,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// NewResult creates a successful result.
func NewResult(blockID string, schema DataSchema, rows []Row) ExecutionResult {
	n := len(rows)
	return ExecutionResult{
		BlockID:    blockID,
		Schema:     schema,
		SampleData: rows,
		RowCount:   &n,
	}
}

// ErrorResult creates a failed result with an empty schema and no rows.
func ErrorResult(blockID, msg string) ExecutionResult {
	return ExecutionResult{
		BlockID:    blockID,
		SampleData: []Row{},
		Error:      msg,
	}
}

// Failed reports whether the block failed.
func (r ExecutionResult) Failed() bool {
	return r.Error != ""
}

// Rows returns the row count, falling back to the sample size.
func (r ExecutionResult) Rows() int {
	if r.RowCount != nil {
		return *r.RowCount
	}
	return len(r.SampleData)
}
