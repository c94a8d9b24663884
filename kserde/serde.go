// Package kserde converts pipelines, rows and results to and from bytes.
package kserde

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Serde[T any] struct {
	Serializer   Serializer[T]
	Deserializer Deserializer[T]
}

type Serializer[T any] func(T) ([]byte, error)

type Deserializer[T any] func([]byte) (T, error)

// ForPath picks the serde by file extension: YAML for .yaml and .yml, JSON
// otherwise.
func ForPath[T any](path string) Serde[T] {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML[T]()
	default:
		return JSON[T]()
	}
}

// ReadFile decodes the file at path with the serde for its extension.
func ReadFile[T any](path string) (T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return *new(T), err
	}
	v, err := ForPath[T](path).Deserializer(data)
	if err != nil {
		return *new(T), fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}
