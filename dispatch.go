package kblocks

import (
	"fmt"

	"github.com/birdayz/kblocks/internal/fingerprint"
	"github.com/birdayz/kblocks/kmodel"
	"github.com/birdayz/kblocks/kschema"
	"golang.org/x/exp/slices"
)

type inputs struct {
	results      []kmodel.ExecutionResult
	fingerprints []fingerprint.Fingerprint

	// All upstream results have a fingerprint.
	fingerprinted bool
}

// gatherInputs collects the upstream results of a block ordered by the
// position of the target port in the block's declared inputs. Connections to
// undeclared ports come last, in pipeline order. Connections whose source
// has no result yet are skipped.
func (e *Engine) gatherInputs(p *kmodel.Pipeline, block *kmodel.Block) inputs {
	conns := p.IncomingConnections(block.ID)
	slices.SortStableFunc(conns, func(a, b kmodel.Connection) int {
		return portIndex(block, a.TargetPortID) - portIndex(block, b.TargetPortID)
	})

	e.mu.RLock()
	defer e.mu.RUnlock()

	in := inputs{fingerprinted: true}
	for _, c := range conns {
		r, ok := e.results[c.SourceBlockID]
		if !ok {
			continue
		}
		in.results = append(in.results, r)

		fp, ok := e.fingerprints[c.SourceBlockID]
		if !ok {
			in.fingerprinted = false
		}
		in.fingerprints = append(in.fingerprints, fp)
	}
	return in
}

func portIndex(block *kmodel.Block, portID string) int {
	if i, ok := block.InputIndex(portID); ok {
		return i
	}
	return len(block.Inputs)
}

// dispatch executes a block. reused reports that the result was recorded by
// an earlier run rather than computed now.
func (e *Engine) dispatch(block *kmodel.Block, in []kmodel.ExecutionResult) (result kmodel.ExecutionResult, reused bool) {
	switch {
	case block.Type == kmodel.BlockTypeJoin:
		return e.join(block, in), false
	case block.Type == kmodel.BlockTypeSource:
		return e.source(block)
	case block.Type.Known():
		return kmodel.ErrorResult(block.ID, fmt.Sprintf("block type %s is not yet implemented", block.Type)), false
	default:
		return kmodel.ErrorResult(block.ID, fmt.Sprintf("unknown block type %q", block.Type)), false
	}
}

func (e *Engine) join(block *kmodel.Block, in []kmodel.ExecutionResult) kmodel.ExecutionResult {
	if len(in) != 2 {
		return kmodel.ErrorResult(block.ID, fmt.Sprintf("Join requires exactly 2 inputs, got %d", len(in)))
	}
	left, right := in[0], in[1]
	if left.Failed() {
		return kmodel.ErrorResult(block.ID, fmt.Sprintf("left input %s failed: %s", left.BlockID, left.Error))
	}
	if right.Failed() {
		return kmodel.ErrorResult(block.ID, fmt.Sprintf("right input %s failed: %s", right.BlockID, right.Error))
	}

	cfg, ok := block.Config.(kmodel.JoinConfig)
	if !ok {
		return kmodel.ErrorResult(block.ID, fmt.Sprintf("join block has %T config", block.Config))
	}

	return e.joins.Execute(left.SampleData, right.SampleData, left.Schema, right.Schema, cfg)
}

// source returns, in order of precedence: the result recorded by an earlier
// run, the rows supplied through LoadSource, the rows inlined in the config,
// or an empty result shaped by the configured schema.
func (e *Engine) source(block *kmodel.Block) (kmodel.ExecutionResult, bool) {
	e.mu.RLock()
	prior, hasPrior := e.results[block.ID]
	supplied, hasSupplied := e.sources[block.ID]
	e.mu.RUnlock()

	if hasPrior {
		return prior, true
	}

	var cfg kmodel.SourceConfig
	switch c := block.Config.(type) {
	case kmodel.SourceConfig:
		cfg = c
	case nil:
	default:
		return kmodel.ErrorResult(block.ID, fmt.Sprintf("source block has %T config", block.Config)), false
	}

	rows, columns := cfg.Rows, cfg.Columns
	if hasSupplied {
		rows = supplied.Rows
		if len(supplied.Columns) > 0 {
			columns = supplied.Columns
		}
	}
	if rows == nil {
		rows = []kmodel.Row{}
	}

	schema := kschema.InferSchemaOrdered(rows, columns)
	if cfg.Schema != nil && (cfg.Schema.Len() > 0 || len(rows) == 0) {
		schema = *cfg.Schema
	}
	return kmodel.NewResult(block.ID, schema, rows), false
}
