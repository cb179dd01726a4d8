package sim

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/integrators"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
)

func decayJob(x0 float64) Job {
	return Job{
		Name: "decay",
		Build: func() (*Simulator, Loop, error) {
			s := New(&decay{}, integrators.NewEuler(), nil, WithLogger(logging.Nop()))
			return s, Loop{
				Output: stream.Const(0.0),
				X0:     plant.State{x0},
				Config: Config{Dt: 0.1, Duration: 0.5},
			}, nil
		},
	}
}

func TestRunAll(t *testing.T) {
	jobs := []Job{decayJob(1), decayJob(2), decayJob(3)}

	results, err := RunAll(context.Background(), jobs, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Measurements[0] != float64(i+1) {
			t.Errorf("result %d out of order: starts at %v", i, r.Measurements[0])
		}
	}
}

func TestRunAll_Error(t *testing.T) {
	errBuild := errors.New("build failed")
	jobs := []Job{
		decayJob(1),
		{Name: "broken", Build: func() (*Simulator, Loop, error) { return nil, Loop{}, errBuild }},
	}

	if _, err := RunAll(context.Background(), jobs, 0); !errors.Is(err, errBuild) {
		t.Errorf("expected build error, got %v", err)
	}
}
