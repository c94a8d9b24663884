package kschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/birdayz/kblocks/kmodel"
	"go.uber.org/multierr"
)

// Side identifies one input of a join.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Prefix returns the column prefix used by the default projection.
func (s Side) Prefix() string {
	return s.String() + "_"
}

// ParseColumnRef splits a "left.col" or "right.col" reference. Unprefixed
// references belong to the left side.
func ParseColumnRef(ref string) (Side, string) {
	if col, ok := strings.CutPrefix(ref, "left."); ok {
		return SideLeft, col
	}
	if col, ok := strings.CutPrefix(ref, "right."); ok {
		return SideRight, col
	}
	return SideLeft, ref
}

// OutputName returns the name an explicit output column is written under.
func OutputName(oc kmodel.OutputColumn) string {
	switch {
	case oc.OutputName != "":
		return oc.OutputName
	case oc.Rename != "":
		return oc.Rename
	default:
		_, col := ParseColumnRef(oc.SourceColumn)
		return col
	}
}

// KeyValidation is the outcome of ValidateJoinKeys.
type KeyValidation struct {
	Valid  bool
	Errors []string
}

// Err combines all validation errors, or returns nil when valid.
func (v KeyValidation) Err() error {
	var err error
	for _, msg := range v.Errors {
		err = multierr.Append(err, errors.New(msg))
	}
	return err
}

// ValidateJoinKeys checks that every key pair exists in its input schema.
// All missing keys are reported. An empty key list is valid.
func ValidateJoinKeys(left, right kmodel.DataSchema, cfg kmodel.JoinConfig) KeyValidation {
	var err error
	for _, key := range cfg.Keys {
		if !left.Has(key.LeftKey) {
			err = multierr.Append(err, fmt.Errorf("left key %q not found in left schema (columns: %s)",
				key.LeftKey, strings.Join(left.Names(), ", ")))
		}
		if !right.Has(key.RightKey) {
			err = multierr.Append(err, fmt.Errorf("right key %q not found in right schema (columns: %s)",
				key.RightKey, strings.Join(right.Names(), ", ")))
		}
	}

	errs := multierr.Errors(err)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return KeyValidation{Valid: len(msgs) == 0, Errors: msgs}
}

// forcedNullable reports whether the join type makes every column of the
// given side nullable.
func forcedNullable(joinType kmodel.JoinType, side Side) bool {
	switch joinType {
	case kmodel.JoinTypeFull:
		return true
	case kmodel.JoinTypeLeft:
		return side == SideRight
	case kmodel.JoinTypeRight:
		return side == SideLeft
	default:
		return false
	}
}

// ComputeJoinOutputSchema returns the schema of a join's output. Explicit
// output columns are used when configured; otherwise every input column is
// emitted with a left_ or right_ prefix. Outer joins force the columns of the
// optional side(s) to be nullable.
func ComputeJoinOutputSchema(left, right kmodel.DataSchema, cfg kmodel.JoinConfig) kmodel.DataSchema {
	if len(cfg.OutputColumns) > 0 {
		columns := make([]kmodel.Column, 0, len(cfg.OutputColumns))
		for _, oc := range cfg.OutputColumns {
			side, name := ParseColumnRef(oc.SourceColumn)
			src := left
			if side == SideRight {
				src = right
			}
			col, ok := src.Column(name)
			if !ok {
				columns = append(columns, kmodel.Column{
					Name:     OutputName(oc),
					Type:     kmodel.ColumnTypeUnknown,
					Nullable: true,
				})
				continue
			}
			columns = append(columns, kmodel.Column{
				Name:     OutputName(oc),
				Type:     col.Type,
				Nullable: col.Nullable || forcedNullable(cfg.JoinType, side),
			})
		}
		return kmodel.DataSchema{Columns: columns}
	}

	columns := make([]kmodel.Column, 0, left.Len()+right.Len())
	for _, col := range left.Columns {
		columns = append(columns, kmodel.Column{
			Name:     SideLeft.Prefix() + col.Name,
			Type:     col.Type,
			Nullable: col.Nullable || forcedNullable(cfg.JoinType, SideLeft),
		})
	}
	for _, col := range right.Columns {
		columns = append(columns, kmodel.Column{
			Name:     SideRight.Prefix() + col.Name,
			Type:     col.Type,
			Nullable: col.Nullable || forcedNullable(cfg.JoinType, SideRight),
		})
	}
	return kmodel.DataSchema{Columns: columns}
}
