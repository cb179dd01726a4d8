package tui

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"

	"github.com/StuyPulse/StuyLib-sub001/internal/experiment"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

const pausePoll = 50 * time.Millisecond

// Frame is one loop step with the metric values after it.
type Frame struct {
	sim.Sample
	Metrics map[string]float64
}

// Runner drives an experiment on its own goroutine and hands each sample
// to the UI. Steps are paced against a wall clock so the loop plays back
// in real time, scaled by the speed factor.
type Runner struct {
	exp     *experiment.Experiment
	clock   clock.Clock
	samples chan Frame
	done    chan struct{}
	err     error
	paused  *atomic.Bool
	speed   *atomic.Float64
	cancel  context.CancelFunc
}

type RunnerOption func(*Runner)

// WithPacing sets the wall clock used between steps.
func WithPacing(c clock.Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithSpeed sets the playback factor. Zero or less runs unpaced.
func WithSpeed(x float64) RunnerOption {
	return func(r *Runner) { r.speed.Store(x) }
}

func NewRunner(exp *experiment.Experiment, opts ...RunnerOption) *Runner {
	r := &Runner{
		exp:     exp,
		clock:   clock.New(),
		samples: make(chan Frame, 1),
		done:    make(chan struct{}),
		paused:  atomic.NewBool(false),
		speed:   atomic.NewFloat64(1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the loop until it finishes, ctx is canceled, or Stop is
// called. The sample channel is closed when the run ends.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	dt := r.exp.Config().Sim.Dt
	metrics := r.exp.GetSimulator().Metrics()

	go func() {
		err := r.exp.RunWithCallback(ctx, func(s sim.Sample) bool {
			for r.paused.Load() {
				select {
				case <-ctx.Done():
					return false
				case <-r.clock.After(pausePoll):
				}
			}
			f := Frame{Sample: s, Metrics: make(map[string]float64, len(metrics))}
			for _, m := range metrics {
				f.Metrics[m.Name()] = m.Value()
			}
			select {
			case <-ctx.Done():
				return false
			case r.samples <- f:
			}
			if speed := r.speed.Load(); speed > 0 {
				r.clock.Sleep(time.Duration(dt / speed * float64(time.Second)))
			}
			return true
		})
		if ctx.Err() != nil {
			err = nil
		}
		r.err = err
		close(r.done)
		close(r.samples)
	}()
}

func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Next blocks for the next frame. ok is false once the run has ended, and
// err then holds its result.
func (r *Runner) Next() (f Frame, ok bool, err error) {
	f, ok = <-r.samples
	if !ok {
		<-r.done
		return f, false, r.err
	}
	return f, true, nil
}

func (r *Runner) TogglePause() bool {
	return !r.paused.Toggle()
}

func (r *Runner) Paused() bool { return r.paused.Load() }

func (r *Runner) Speed() float64 { return r.speed.Load() }

func (r *Runner) SetSpeed(x float64) { r.speed.Store(x) }
