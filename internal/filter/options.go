package filter

import (
	"github.com/benbjohnson/clock"

	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
)

// DefaultProfileSteps is the number of integration substeps a motion
// profile takes per call.
const DefaultProfileSteps = 64

type options struct {
	clock clock.Clock
	steps int
}

// Option configures a filter.
type Option func(*options)

// WithClock sets the time source used to measure the interval between
// calls. Tests pass a clock.Mock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithSteps sets the number of motion profile substeps. Values below one
// are ignored.
func WithSteps(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.steps = n
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		clock: clock.New(),
		steps: DefaultProfileSteps,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	return o
}

func (o *options) timer() *timing.StopWatch {
	return timing.New(o.clock)
}
