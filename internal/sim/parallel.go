package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
)

// Job builds one independent loop. Build is called on the worker that runs
// the job, so each loop gets its own simulator, clock and controller state.
type Job struct {
	Name  string
	Build func() (*Simulator, Loop, error)
}

// Loop is the controller output a job pulls once per step, with the
// initial state and timing to run it from.
type Loop struct {
	Output stream.Stream[float64]
	X0     plant.State
	Config Config
}

// RunAll runs jobs concurrently with at most workers in flight (GOMAXPROCS
// when workers ≤ 0). Results are in job order. The first failure cancels
// the rest.
func RunAll(ctx context.Context, jobs []Job, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			s, loop, err := job.Build()
			if err != nil {
				return err
			}
			res, err := s.Run(ctx, loop.Output, loop.X0, loop.Config)
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
