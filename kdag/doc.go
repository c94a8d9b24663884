// Package kdag provides the structural graph of a block pipeline.
//
// # Overview
//
// A Graph is built from a kmodel.Pipeline: every block becomes a Node and
// every connection an edge from its source block to its target block. The
// graph carries no configs and no data; it only answers ordering questions:
//
//   - **TopologicalSort**: Kahn's algorithm, ties broken by block declaration order
//   - **Levels**: groups of nodes that may execute concurrently
//   - **Validate**: DFS cycle detection reporting the offending path
//
// # Basic Usage
//
//	g, err := kdag.FromPipeline(pipeline)
//	if err != nil {
//	    // duplicate block ids, or a connection to a block that does not exist
//	}
//
//	order, err := g.TopologicalSort()
//	if errors.Is(err, kdag.ErrCycleDetected) {
//	    // the pipeline is not a DAG
//	}
//
// # Error Handling
//
// All errors wrap sentinel errors (ErrCycleDetected, ErrNodeNotFound, ...)
// that can be checked with errors.Is().
//
// # Thread Safety
//
// Graph is NOT safe for concurrent mutation. Once built, read-only access
// from multiple goroutines is safe.
//
// Complexity: O(V log V + E) where V is vertices and E is edges.
package kdag
