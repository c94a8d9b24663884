package kserde

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// YAMLDeserializer decodes YAML by way of JSON, so types with custom JSON
// decoding (such as pipeline blocks) decode the same from both formats.
// Mapping keys keep their document order.
func YAMLDeserializer[T any]() Deserializer[T] {
	return func(b []byte) (T, error) {
		var doc yaml.Node
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return *new(T), err
		}
		v, err := fromNode(&doc)
		if err != nil {
			return *new(T), err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return *new(T), err
		}
		return JSONDeserializer[T]()(data)
	}
}

func YAMLSerializer[T any]() Serializer[T] {
	return func(t T) ([]byte, error) {
		data, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	}
}

func YAML[T any]() Serde[T] {
	return Serde[T]{
		Serializer:   YAMLSerializer[T](),
		Deserializer: YAMLDeserializer[T](),
	}
}

// fromNode converts a YAML node into values encoding/json can write.
// Mappings become ordered maps keyed by the scalar text of their keys, which
// YAML allows to be non-strings.
func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		m := orderedmap.New[string, any](len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(n.Content[i].Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
