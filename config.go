package kblocks

import (
	"github.com/birdayz/kblocks/internal/fingerprint"
	"github.com/birdayz/kblocks/kjoin"
	"github.com/go-logr/logr"
)

// Option is a function that configures an Engine
type Option func(*Engine)

// WithLogr sets the logger of the engine and its join executor
var WithLogr = func(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = log
		e.joins = kjoin.New(kjoin.WithLogr(log.WithName("join")))
	}
}

// WithParallelism runs up to n independent blocks of the same level
// concurrently. n <= 1 executes blocks one at a time in topological order.
var WithParallelism = func(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// WithFingerprintCache reuses a block's result from an earlier run when its
// type, config, supplied rows and upstream results are unchanged.
var WithFingerprintCache = func() Option {
	return func(e *Engine) {
		e.cache = fingerprint.NewCache()
	}
}
