// Package sweep runs indicator parameter grids over a base price series.
// Runs are independent and stateless, so they fan out across a bounded
// worker pool; the base series is validated once up front and the individual
// computations skip re-validation.
package sweep

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/amirphl/simple-indicators/internal/indicator"
	"github.com/amirphl/simple-indicators/internal/series"
)

// Job is one indicator instance to compute.
type Job struct {
	Entry  indicator.Entry
	Params indicator.Params
}

// Outcome is one labeled result of a sweep.
type Outcome struct {
	Indicator string
	Params    indicator.Params
	Label     string
	Series    []series.Series
}

// GridJobs expands registry entries into one job per typical grid point.
func GridJobs(entries []indicator.Entry) []Job {
	var jobs []Job
	for _, e := range entries {
		for _, p := range e.Grid {
			jobs = append(jobs, Job{Entry: e, Params: p})
		}
	}
	return jobs
}

// Run computes every job against the base series with up to workers
// goroutines. Results arrive in job order. A job whose parameters cannot fit
// the series (e.g. a window longer than the data) still returns its labeled,
// possibly empty, output; only validation and parameter errors abort the
// sweep.
func Run(ctx context.Context, base series.Series, jobs []Job, workers int, opts indicator.Options) ([]Outcome, error) {
	validated, err := series.Validate(base)
	if err != nil {
		return nil, fmt.Errorf("validating base series: %w", err)
	}
	opts.SkipValidate = true

	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			ind := job.Entry.Build(job.Params)
			res, err := ind.Compute(validated, opts)
			if err != nil {
				return fmt.Errorf("%s %v: %w", job.Entry.Name, job.Params, err)
			}

			// Each job owns its slot, so no locking is needed.
			outcomes[i] = Outcome{
				Indicator: job.Entry.Name,
				Params:    job.Params,
				Label:     res.Label,
				Series:    res.Series,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
