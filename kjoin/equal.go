package kjoin

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/birdayz/kblocks/kmodel"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Equal reports whether two non-null key values are strictly equal. Numbers
// compare by value across Go numeric kinds, times by instant. Values that are
// not comparable never match.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := asTime(a); ok {
		tb, ok := asTime(b)
		return ok && ta.Equal(tb)
	}

	if na, ok := asNumber(a); ok {
		nb, ok := asNumber(b)
		return ok && na.equal(nb)
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() || !ra.Comparable() {
		return false
	}
	return a == b
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

type numberKind int

const (
	kindInt numberKind = iota
	kindUint
	kindFloat
)

type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func asNumber(v any) (number, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return number{kind: kindInt, i: i}, true
		}
		f, err := n.Float64()
		if err != nil {
			return number{}, false
		}
		return number{kind: kindFloat, f: f}, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: kindInt, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return number{kind: kindUint, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: kindFloat, f: rv.Float()}, true
	}
	return number{}, false
}

func (n number) float() float64 {
	switch n.kind {
	case kindInt:
		return float64(n.i)
	case kindUint:
		return float64(n.u)
	default:
		return n.f
	}
}

func (n number) equal(o number) bool {
	switch {
	case n.kind == kindInt && o.kind == kindInt:
		return n.i == o.i
	case n.kind == kindUint && o.kind == kindUint:
		return n.u == o.u
	case n.kind == kindInt && o.kind == kindUint:
		return n.i >= 0 && uint64(n.i) == o.u
	case n.kind == kindUint && o.kind == kindInt:
		return o.i >= 0 && n.u == uint64(o.i)
	default:
		return n.float() == o.float()
	}
}

// Dedupe removes structurally equal rows, keeping the first occurrence of
// each. Applying it twice yields the same rows as applying it once.
func Dedupe(rows []kmodel.Row) []kmodel.Row {
	seen := make(map[string]struct{}, len(rows))
	out := make([]kmodel.Row, 0, len(rows))
	for _, row := range rows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

// rowKey renders a row canonically: keys sorted, numbers of any kind printed
// by value.
func rowKey(row kmodel.Row) string {
	keys := maps.Keys(row)
	slices.Sort(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(strconv.Quote(k))
		sb.WriteByte(':')
		sb.WriteString(valueKey(row[k]))
		sb.WriteByte(',')
	}
	return sb.String()
}

func valueKey(v any) string {
	if n, ok := asNumber(v); ok {
		switch {
		case n.kind == kindInt:
			return strconv.FormatInt(n.i, 10)
		case n.kind == kindUint:
			return strconv.FormatUint(n.u, 10)
		case n.f == math.Trunc(n.f) && math.Abs(n.f) < 1<<53:
			return strconv.FormatInt(int64(n.f), 10)
		default:
			return strconv.FormatFloat(n.f, 'g', -1, 64)
		}
	}
	if t, ok := asTime(v); ok {
		return "t:" + t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%#v", v)
}
