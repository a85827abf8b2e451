package train

import (
	"context"
	"errors"
	"fmt"

	"github.com/born-ml/micrograd/internal/ctxlog"
	"github.com/born-ml/micrograd/internal/parallel"
)

// SweepResult is the outcome of one run of a sweep.
type SweepResult struct {
	Seed   int64
	Result Result
	Err    error
}

// Sweep trains one model per seed, running up to pcfg.Workers trainers at
// once. Every trainer owns its graph sessions, so runs share nothing.
// Results come back in seed order; the returned error joins the errors of
// all failed runs.
func Sweep(ctx context.Context, cfg Config, seeds []int64, pcfg parallel.Config) ([]SweepResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	results := make([]SweepResult, len(seeds))

	parallel.For(len(seeds), func(i int) {
		c := cfg
		c.Seed = seeds[i]
		results[i].Seed = c.Seed

		tr, err := New(c)
		if err != nil {
			results[i].Err = err
			return
		}
		runCtx := ctxlog.WithLogger(ctx, logger.With("seed", c.Seed))
		results[i].Result, results[i].Err = tr.Run(runCtx)
	}, pcfg)

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("seed %d: %w", r.Seed, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

// Seeds returns n consecutive seeds starting at first.
func Seeds(first int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = first + int64(i)
	}
	return seeds
}
