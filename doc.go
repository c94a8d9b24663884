// Package kblocks executes block pipelines.
//
// A pipeline is a directed acyclic graph of blocks connected port to port.
// The Engine orders the blocks topologically, feeds every block the results
// of its upstream blocks in input port order and records one
// kmodel.ExecutionResult per block.
//
//	engine := kblocks.New(kblocks.WithLogr(log))
//	engine.LoadSource("employees", rows)
//
//	results, err := engine.ExecutePipeline(ctx, pipeline, false)
//	if errors.Is(err, kdag.ErrCycleDetected) {
//	    // the pipeline is not a DAG, no block ran
//	}
//	for id, r := range results {
//	    if r.Failed() {
//	        fmt.Println(id, r.Error)
//	    }
//	}
//
// Block failures (wrong join cardinality, invalid join keys, failed upstream
// blocks, unimplemented block types) never abort a run. They are reported
// through the Error field of the block's result, and downstream blocks
// re-surface them.
package kblocks
