package kblocks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/birdayz/kblocks/internal/fingerprint"
	"github.com/birdayz/kblocks/kdag"
	"github.com/birdayz/kblocks/kjoin"
	"github.com/birdayz/kblocks/kmodel"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

// Engine executes pipelines and keeps the result of every executed block.
// It is safe for concurrent use, but runs of the same engine share one
// result map.
type Engine struct {
	log         logr.Logger
	joins       *kjoin.Executor
	parallelism int
	cache       *fingerprint.Cache

	mu           sync.RWMutex
	results      map[string]kmodel.ExecutionResult
	fingerprints map[string]fingerprint.Fingerprint
	sources      map[string]kmodel.RowSet
}

// ErrNilPipeline is returned when ExecutePipeline is called without a pipeline.
var ErrNilPipeline = errors.New("kblocks: nil pipeline")

// New creates an engine. Without options it logs nothing, runs one block at
// a time and caches nothing across runs.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:          logr.Discard(),
		joins:        kjoin.New(),
		parallelism:  1,
		results:      make(map[string]kmodel.ExecutionResult),
		fingerprints: make(map[string]fingerprint.Fingerprint),
		sources:      make(map[string]kmodel.RowSet),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExecutePipeline runs every block of p in topological order and returns the
// result map.
//
// Unless preserveExisting is set, results of earlier runs are dropped first.
// With preserveExisting, a source block that already has a result returns it
// again, and results of blocks not in p stay in the map. No invalidation
// takes place; see WithFingerprintCache for reuse that tracks changes.
//
// Duplicate block ids, connections to unknown blocks and cycles are
// structural errors: no block runs and the map is nil. The errors wrap
// kdag.ErrNodeAlreadyExists, kdag.ErrNodeNotFound and kdag.ErrCycleDetected.
func (e *Engine) ExecutePipeline(ctx context.Context, p *kmodel.Pipeline, preserveExisting bool) (map[string]kmodel.ExecutionResult, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}

	runID := uuid.New()
	log := e.log.WithValues("run", runID.String(), "pipeline", p.ID)

	if !preserveExisting {
		e.Clear()
	}

	g, err := kdag.FromPipeline(p)
	if err != nil {
		log.Error(err, "Invalid pipeline")
		return nil, fmt.Errorf("pipeline %s: %w", p.ID, err)
	}

	order, err := g.TopologicalSort()
	if err != nil {
		log.Error(err, "Pipeline is not acyclic")
		return nil, fmt.Errorf("pipeline %s: %w", p.ID, err)
	}

	log.Info("Executing pipeline", "blocks", len(order), "parallelism", e.parallelism)

	if e.parallelism <= 1 {
		for _, id := range order {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			e.executeBlock(log, p, string(id))
		}
	} else if err := e.executeLevels(ctx, log, p, g); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	out := maps.Clone(e.results)

	log.Info("Pipeline executed", "results", len(out))
	return out, nil
}

// executeLevels runs one level at a time. Blocks of a level only depend on
// blocks of earlier levels.
func (e *Engine) executeLevels(ctx context.Context, log logr.Logger, p *kmodel.Pipeline, g *kdag.Graph) error {
	levels, err := g.Levels()
	if err != nil {
		return err
	}
	for _, level := range levels {
		grp, gctx := errgroup.WithContext(ctx)
		grp.SetLimit(e.parallelism)
		for _, id := range level {
			id := string(id)
			grp.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				e.executeBlock(log, p, id)
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// Result returns the recorded result of a block.
func (e *Engine) Result(blockID string) (kmodel.ExecutionResult, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.results[blockID]
	return r, ok
}

// Clear drops all recorded results. Loaded source rows and the fingerprint
// cache are kept.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.results = make(map[string]kmodel.ExecutionResult)
	e.fingerprints = make(map[string]fingerprint.Fingerprint)
}

// LoadSource supplies the rows of a source block for subsequent runs.
// columns orders the inferred schema; without it the column order of the
// source config applies. A result already recorded for the block is dropped
// so the next run picks up the new rows even with preserveExisting.
func (e *Engine) LoadSource(blockID string, rows []kmodel.Row, columns ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources[blockID] = kmodel.RowSet{Columns: columns, Rows: rows}
	delete(e.results, blockID)
	delete(e.fingerprints, blockID)
	if e.cache != nil {
		e.cache.Invalidate(blockID)
	}
}

// ClearCache empties the fingerprint cache and its counters.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Reset()
	}
}

// CacheStats returns the fingerprint cache hits and misses. Both are zero
// without WithFingerprintCache.
func (e *Engine) CacheStats() (hits, misses int) {
	if e.cache == nil {
		return 0, 0
	}
	return e.cache.Stats()
}

func (e *Engine) executeBlock(log logr.Logger, p *kmodel.Pipeline, blockID string) {
	block, ok := p.Block(blockID)
	if !ok {
		return
	}
	log = log.WithValues("block", block.ID, "type", block.Type)

	in := e.gatherInputs(p, block)

	fp, cacheable := e.fingerprint(log, block, in)
	if cacheable {
		if result, ok := e.cache.Get(block.ID, fp); ok {
			log.V(1).Info("Reusing cached result")
			e.store(block.ID, result, fp, true)
			return
		}
	}

	result, reused := e.dispatch(block, in.results)
	result.BlockID = block.ID

	if result.Failed() {
		log.V(1).Info("Block failed", "error", result.Error)
	} else {
		log.V(1).Info("Block executed", "rows", result.Rows())
	}

	// A result carried over from an earlier run was not derived from fp.
	if reused {
		cacheable = false
	}
	if cacheable {
		e.cache.Put(block.ID, fp, result)
	}
	e.store(block.ID, result, fp, cacheable)
}

func (e *Engine) fingerprint(log logr.Logger, block *kmodel.Block, in inputs) (fingerprint.Fingerprint, bool) {
	if e.cache == nil || !in.fingerprinted {
		return 0, false
	}
	e.mu.RLock()
	var supplied *kmodel.RowSet
	if set, ok := e.sources[block.ID]; ok {
		supplied = &set
	}
	e.mu.RUnlock()

	fp, err := fingerprint.Compute(block, supplied, in.fingerprints)
	if err != nil {
		log.V(1).Info("Block not cacheable", "reason", err.Error())
		return 0, false
	}
	return fp, true
}

func (e *Engine) store(blockID string, result kmodel.ExecutionResult, fp fingerprint.Fingerprint, fingerprinted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.results[blockID] = result
	if fingerprinted {
		e.fingerprints[blockID] = fp
	} else {
		delete(e.fingerprints, blockID)
	}
}
