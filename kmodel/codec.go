package kmodel

import (
	"encoding/json"
	"fmt"
)

type blockJSON struct {
	ID       string          `json:"id"`
	Type     BlockType       `json:"type"`
	Name     string          `json:"name"`
	Inputs   []Port          `json:"inputs"`
	Outputs  []Port          `json:"outputs"`
	Config   json.RawMessage `json:"config,omitempty"`
	Position *Position       `json:"position,omitempty"`
}

// MarshalJSON encodes the block with its config payload inline.
func (b Block) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	if b.Config != nil {
		encoded, err := json.Marshal(b.Config)
		if err != nil {
			return nil, fmt.Errorf("block %s: encode config: %w", b.ID, err)
		}
		raw = encoded
	}
	return json.Marshal(blockJSON{
		ID:       b.ID,
		Type:     b.Type,
		Name:     b.Name,
		Inputs:   b.Inputs,
		Outputs:  b.Outputs,
		Config:   raw,
		Position: b.Position,
	})
}

// UnmarshalJSON decodes the config payload according to the type tag. An
// unrecognized tag leaves Config nil.
func (b *Block) UnmarshalJSON(data []byte) error {
	var w blockJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	cfg, err := DecodeConfig(w.Type, w.Config)
	if err != nil {
		return fmt.Errorf("block %s: decode %s config: %w", w.ID, w.Type, err)
	}
	*b = Block{
		ID:       w.ID,
		Type:     w.Type,
		Name:     w.Name,
		Inputs:   w.Inputs,
		Outputs:  w.Outputs,
		Config:   cfg,
		Position: w.Position,
	}
	return nil
}

// DecodeConfig decodes raw into the payload type matching t. Empty input
// yields the zero payload. Unknown types yield a nil config and no error.
func DecodeConfig(t BlockType, raw json.RawMessage) (BlockConfig, error) {
	switch t {
	case BlockTypeSource:
		return decodeInto[SourceConfig](raw)
	case BlockTypeSink:
		return decodeInto[SinkConfig](raw)
	case BlockTypeFilter:
		return decodeInto[FilterConfig](raw)
	case BlockTypeMap:
		return decodeInto[MapConfig](raw)
	case BlockTypeDerive:
		return decodeInto[DeriveConfig](raw)
	case BlockTypeAggregate:
		return decodeInto[AggregateConfig](raw)
	case BlockTypeJoin:
		return decodeInto[JoinConfig](raw)
	case BlockTypeUnion:
		return decodeInto[UnionConfig](raw)
	case BlockTypeSplit:
		return decodeInto[SplitConfig](raw)
	case BlockTypeLookup:
		return decodeInto[LookupConfig](raw)
	case BlockTypeSQL:
		return decodeInto[SQLConfig](raw)
	case BlockTypeUDF:
		return decodeInto[UDFConfig](raw)
	default:
		return nil, nil
	}
}

func decodeInto[C BlockConfig](raw json.RawMessage) (BlockConfig, error) {
	var c C
	if len(raw) == 0 || string(raw) == "null" {
		return c, nil
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return c, nil
}
