// Package kjoin joins two in-memory row sets.
//
// All join types use a nested loop over both inputs, which is O(|left|·|right|).
// Inputs are expected to be sample-sized.
package kjoin

import (
	"fmt"

	"github.com/birdayz/kblocks/kmodel"
	"github.com/birdayz/kblocks/kschema"
	"github.com/go-logr/logr"
)

// Option configures an Executor.
type Option func(*Executor)

// WithLogr sets the logger of the executor.
var WithLogr = func(log logr.Logger) Option {
	return func(e *Executor) {
		e.log = log
	}
}

// Executor runs joins. The zero value is not usable; use New.
type Executor struct {
	log logr.Logger
}

// New creates a join executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		log: logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute validates the join keys, computes the output schema and joins the
// rows. It never panics on malformed data: failures are reported through the
// Error field of the result. BlockID is left empty for the caller to fill.
func (e *Executor) Execute(left, right []kmodel.Row, leftSchema, rightSchema kmodel.DataSchema, cfg kmodel.JoinConfig) kmodel.ExecutionResult {
	if v := kschema.ValidateJoinKeys(leftSchema, rightSchema, cfg); !v.Valid {
		return kmodel.ErrorResult("", v.Err().Error())
	}

	schema := kschema.ComputeJoinOutputSchema(leftSchema, rightSchema, cfg)
	j := joiner{cfg: cfg}

	var rows []kmodel.Row
	switch cfg.JoinType {
	case kmodel.JoinTypeInner:
		rows = j.inner(left, right)
	case kmodel.JoinTypeLeft:
		rows = j.left(left, right)
	case kmodel.JoinTypeRight:
		rows = j.right(left, right)
	case kmodel.JoinTypeFull:
		rows = j.full(left, right)
	case kmodel.JoinTypeCross:
		rows = j.cross(left, right)
	default:
		return kmodel.ErrorResult("", fmt.Sprintf("unknown join type %q", cfg.JoinType))
	}

	if cfg.Options.Dedupe {
		before := len(rows)
		rows = Dedupe(rows)
		e.log.V(1).Info("Deduplicated join output", "before", before, "after", len(rows))
	}

	e.log.V(1).Info("Joined", "type", cfg.JoinType, "left", len(left), "right", len(right), "out", len(rows))
	return kmodel.NewResult("", schema, rows)
}

type joiner struct {
	cfg kmodel.JoinConfig
}

func (j joiner) inner(left, right []kmodel.Row) []kmodel.Row {
	rows := []kmodel.Row{}
	for _, l := range left {
		for _, r := range right {
			if j.matches(l, r) {
				rows = append(rows, j.merge(l, r))
			}
		}
	}
	return rows
}

func (j joiner) left(left, right []kmodel.Row) []kmodel.Row {
	rows := []kmodel.Row{}
	for _, l := range left {
		matched := false
		for _, r := range right {
			if j.matches(l, r) {
				rows = append(rows, j.merge(l, r))
				matched = true
			}
		}
		if !matched {
			rows = append(rows, j.merge(l, nil))
		}
	}
	return rows
}

func (j joiner) right(left, right []kmodel.Row) []kmodel.Row {
	rows := []kmodel.Row{}
	for _, r := range right {
		matched := false
		for _, l := range left {
			if j.matches(l, r) {
				rows = append(rows, j.merge(l, r))
				matched = true
			}
		}
		if !matched {
			rows = append(rows, j.merge(nil, r))
		}
	}
	return rows
}

func (j joiner) full(left, right []kmodel.Row) []kmodel.Row {
	rows := []kmodel.Row{}
	matchedRight := make([]bool, len(right))
	for _, l := range left {
		matched := false
		for ri, r := range right {
			if j.matches(l, r) {
				rows = append(rows, j.merge(l, r))
				matched = true
				matchedRight[ri] = true
			}
		}
		if !matched {
			rows = append(rows, j.merge(l, nil))
		}
	}
	for ri, r := range right {
		if !matchedRight[ri] {
			rows = append(rows, j.merge(nil, r))
		}
	}
	return rows
}

func (j joiner) cross(left, right []kmodel.Row) []kmodel.Row {
	rows := make([]kmodel.Row, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			rows = append(rows, j.merge(l, r))
		}
	}
	return rows
}

// matches reports whether every key pair matches. Nulls only match each other
// when null equality is enabled.
func (j joiner) matches(l, r kmodel.Row) bool {
	for _, key := range j.cfg.Keys {
		lv, rv := l[key.LeftKey], r[key.RightKey]
		lnull, rnull := kschema.IsNull(lv), kschema.IsNull(rv)
		if lnull || rnull {
			if j.cfg.Options.NullEquality && lnull && rnull {
				continue
			}
			return false
		}
		if !Equal(lv, rv) {
			return false
		}
	}
	return true
}

// merge builds one output row. A nil side is an unmatched outer-join partner.
func (j joiner) merge(l, r kmodel.Row) kmodel.Row {
	if len(j.cfg.OutputColumns) > 0 {
		out := make(kmodel.Row, len(j.cfg.OutputColumns))
		for _, oc := range j.cfg.OutputColumns {
			side, col := kschema.ParseColumnRef(oc.SourceColumn)
			src := l
			if side == kschema.SideRight {
				src = r
			}
			var v any
			if src != nil {
				v = src[col]
			}
			out[kschema.OutputName(oc)] = v
		}
		return out
	}

	out := make(kmodel.Row, len(l)+len(r))
	for k, v := range l {
		out[kschema.SideLeft.Prefix()+k] = v
	}
	for k, v := range r {
		out[kschema.SideRight.Prefix()+k] = v
	}
	return out
}
