package kmodel

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RowSet is a list of rows together with the column order of the first row
// as it appeared in the encoded document.
type RowSet struct {
	Columns []string
	Rows    []Row
}

func (s *RowSet) UnmarshalJSON(b []byte) error {
	var rows []Row
	if err := json.Unmarshal(b, &rows); err != nil {
		return err
	}
	columns, err := FirstRowColumns(b)
	if err != nil {
		return err
	}
	s.Rows, s.Columns = rows, columns
	return nil
}

func (s RowSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Rows)
}

// FirstRowColumns returns the keys of the first object of an encoded JSON
// array in document order. It returns nil when the array is empty or its
// first element is not an object.
func FirstRowColumns(b []byte) ([]string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return nil, err
	}
	if len(elems) == 0 || !bytes.HasPrefix(bytes.TrimSpace(elems[0]), []byte("{")) {
		return nil, nil
	}

	first := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(elems[0], first); err != nil {
		return nil, err
	}
	columns := make([]string, 0, first.Len())
	for pair := first.Oldest(); pair != nil; pair = pair.Next() {
		columns = append(columns, pair.Key)
	}
	return columns, nil
}

// UnmarshalJSON fills Columns from the key order of the first inline row
// when no column order is configured.
func (c *SourceConfig) UnmarshalJSON(b []byte) error {
	type plain SourceConfig
	var raw struct {
		plain
		Rows json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = SourceConfig(raw.plain)

	if len(raw.Rows) == 0 || string(raw.Rows) == "null" {
		return nil
	}
	var rows RowSet
	if err := json.Unmarshal(raw.Rows, &rows); err != nil {
		return err
	}
	c.Rows = rows.Rows
	if len(c.Columns) == 0 {
		c.Columns = rows.Columns
	}
	return nil
}
