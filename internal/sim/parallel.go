package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job builds and runs one independent simulation.
type Job func(ctx context.Context) (*Result, error)

// Ensemble runs independent simulations concurrently, at most Limit at a
// time. Results keep the order of the jobs.
type Ensemble struct {
	Limit int
}

func NewEnsemble(limit int) *Ensemble {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return &Ensemble{Limit: limit}
}

func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Limit)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := job(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
