// Command kblocks executes a pipeline file and prints the result of every
// block as JSON.
//
//	kblocks -pipeline pipeline.yaml [-sources rows.json] [-parallel N] [-cache] [-v N]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/birdayz/kblocks"
	"github.com/birdayz/kblocks/kmodel"
	"github.com/birdayz/kblocks/kserde"
	"github.com/birdayz/kblocks/pkg/log"
	"github.com/go-logr/logr"
)

const (
	exitOK         = 0
	exitPipeline   = 1
	exitInvocation = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil))
}

// run executes the command. A zero logger is replaced by a zerolog logger on
// stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, logger *logr.Logger) int {
	fs := flag.NewFlagSet("kblocks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		pipelinePath = fs.String("pipeline", "", "pipeline file (.json, .yaml or .yml)")
		sourcesPath  = fs.String("sources", "", "JSON or YAML object mapping source block ids to rows")
		parallel     = fs.Int("parallel", 1, "number of blocks executed concurrently")
		cache        = fs.Bool("cache", false, "reuse results of unchanged blocks")
		verbosity    = fs.Int("v", 0, "log verbosity")
	)
	if err := fs.Parse(args); err != nil {
		return exitInvocation
	}
	if *pipelinePath == "" {
		fmt.Fprintln(stderr, "kblocks: -pipeline is required")
		fs.Usage()
		return exitInvocation
	}

	var l logr.Logger
	if logger != nil {
		l = *logger
	} else {
		l = log.NewLogr(*verbosity)
	}

	pipeline, err := kserde.ReadFile[kmodel.Pipeline](*pipelinePath)
	if err != nil {
		fmt.Fprintf(stderr, "kblocks: %v\n", err)
		return exitInvocation
	}

	opts := []kblocks.Option{kblocks.WithLogr(l), kblocks.WithParallelism(*parallel)}
	if *cache {
		opts = append(opts, kblocks.WithFingerprintCache())
	}
	engine := kblocks.New(opts...)

	if *sourcesPath != "" {
		sources, err := kserde.ReadFile[map[string]kmodel.RowSet](*sourcesPath)
		if err != nil {
			fmt.Fprintf(stderr, "kblocks: %v\n", err)
			return exitInvocation
		}
		for id, set := range sources {
			engine.LoadSource(id, set.Rows, set.Columns...)
		}
	}

	results, err := engine.ExecutePipeline(ctx, &pipeline, false)
	if err != nil {
		fmt.Fprintf(stderr, "kblocks: %v\n", err)
		if errors.Is(err, context.Canceled) {
			return exitInvocation
		}
		return exitPipeline
	}

	// Map keys are encoded in sorted order.
	data, err := kserde.JSONIndentSerializer[map[string]kmodel.ExecutionResult]()(results)
	if err != nil {
		fmt.Fprintf(stderr, "kblocks: encode results: %v\n", err)
		return exitInvocation
	}
	fmt.Fprintln(stdout, string(data))
	return exitOK
}
