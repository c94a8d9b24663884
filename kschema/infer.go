// Package kschema infers, validates and combines row schemas.
package kschema

import (
	"encoding/json"
	"reflect"
	"regexp"
	"time"

	"github.com/birdayz/kblocks/kmodel"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// dateLayouts are tried in order when a string starts with YYYY-MM-DD.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// InferSchema derives a schema from sample rows. Columns come from the keys of
// the first row, in lexical order; later rows are assumed to carry the same
// keys. A column is nullable if any row holds a null or lacks the key. The
// type comes from the first non-null value. Empty input yields an empty
// schema.
func InferSchema(rows []kmodel.Row) kmodel.DataSchema {
	return InferSchemaOrdered(rows, nil)
}

// InferSchemaOrdered is InferSchema with the column order taken from order.
// Names in order that the first row lacks are skipped, keys of the first row
// missing from order follow in lexical order.
func InferSchemaOrdered(rows []kmodel.Row, order []string) kmodel.DataSchema {
	if len(rows) == 0 {
		return kmodel.DataSchema{Columns: []kmodel.Column{}}
	}

	keys := make([]string, 0, len(rows[0]))
	seen := make(map[string]bool, len(rows[0]))
	for _, name := range order {
		if _, ok := rows[0][name]; ok && !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	rest := maps.Keys(rows[0])
	slices.Sort(rest)
	for _, name := range rest {
		if !seen[name] {
			keys = append(keys, name)
		}
	}

	columns := make([]kmodel.Column, 0, len(keys))
	for _, key := range keys {
		col := kmodel.Column{Name: key, Type: kmodel.ColumnTypeNull}
		typed := false
		for _, row := range rows {
			v, ok := row[key]
			if !ok || IsNull(v) {
				col.Nullable = true
				continue
			}
			if !typed {
				col.Type = InferType(v)
				typed = true
			}
		}
		columns = append(columns, col)
	}
	return kmodel.DataSchema{Columns: columns}
}

// InferType returns the column type of a single non-null value.
func InferType(v any) kmodel.ColumnType {
	switch val := v.(type) {
	case nil:
		return kmodel.ColumnTypeNull
	case bool:
		return kmodel.ColumnTypeBoolean
	case json.Number:
		return kmodel.ColumnTypeNumber
	case time.Time, *time.Time:
		return kmodel.ColumnTypeDate
	case string:
		if IsDateString(val) {
			return kmodel.ColumnTypeDate
		}
		return kmodel.ColumnTypeString
	}
	if IsNumber(v) {
		return kmodel.ColumnTypeNumber
	}
	return kmodel.ColumnTypeUnknown
}

// IsDateString reports whether s starts with a YYYY-MM-DD pattern and parses
// as a real calendar date.
func IsDateString(s string) bool {
	if !datePrefix.MatchString(s) {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// IsNull reports whether v is null, including typed nil pointers.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// IsNumber reports whether v is of any Go numeric kind.
func IsNumber(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
