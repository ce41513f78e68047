package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lutforge/lutforge/pkg/cube"
	"github.com/lutforge/lutforge/pkg/errors"
	"github.com/lutforge/lutforge/pkg/lut"
)

// Process is the one-call combine entry: resolve the input pair into
// items and run them. Structural problems (two directories, bad output
// target) fail before any work; per-item failures come back as
// error-status results.
func Process(ctx context.Context, logger *log.Logger, first, second, output string, workers int) ([]Result, error) {
	items, err := Resolve(first, second, output)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{Workers: workers, Logger: logger}
	run, err := o.Run(ctx, items)
	if err != nil {
		return nil, err
	}
	return run.Results, nil
}

// Orchestrator runs combine items across a bounded worker pool.
type Orchestrator struct {
	// Workers bounds concurrent items. Zero means runtime.NumCPU().
	Workers int

	// Logger receives per-item progress. Nil uses the package default.
	Logger *log.Logger

	// OnResult, when set, observes each result as it lands. Called from
	// worker goroutines under an internal lock, so implementations need
	// no synchronization of their own.
	OnResult func(Result)
}

// Run executes all items. Item failures become error results, not run
// errors; the returned error is reserved for cancellation. Results keep
// item order regardless of completion order.
func (o *Orchestrator) Run(ctx context.Context, items []Item) (*Run, error) {
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := o.Logger
	if logger == nil {
		logger = log.Default()
	}

	run := &Run{ID: newRunID(), Results: make([]Result, len(items))}
	logger.Info("starting batch", "run", run.ID, "items", len(items), "workers", workers)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			res := combineSafe(item)
			if res.Status == StatusOK {
				logger.Info("combined", "run", run.ID, "name", res.Name,
					"output", res.OutputPath,
					"duration", time.Since(start).Round(time.Millisecond))
			} else {
				logger.Error("combine failed", "run", run.ID, "name", res.Name,
					"error", res.Message)
			}

			mu.Lock()
			run.Results[i] = res
			cb := o.OnResult
			if cb != nil {
				cb(res)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return run, err
	}
	return run, nil
}

// combineSafe contains a panicking item to its own error result so one
// hostile input never takes down the sibling workers.
func combineSafe(item Item) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(item.Name, fmt.Errorf("combine panicked: %v", r))
		}
	}()
	return combineOne(item)
}

// combineOne reads both inputs, applies the second after the first, and
// writes the combined table. Any failure folds into an error result.
func combineOne(item Item) Result {
	first, err := cube.ReadFile(item.First)
	if err != nil {
		return failed(item.Name, err)
	}
	second, err := cube.ReadFile(item.Second)
	if err != nil {
		return failed(item.Name, err)
	}

	combined, err := lut.Compose(first, second)
	if err != nil {
		return failed(item.Name, err)
	}
	combined.Name = item.Name

	stats := lut.Analyze(combined)

	if err := cube.WriteFile(item.Output, combined); err != nil {
		return failed(item.Name, errors.Wrap(errors.ErrCodeIO, err, "writing %s", item.Output))
	}
	return ok(item.Name, item.Output, stats)
}
