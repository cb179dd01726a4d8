package control

import (
	"github.com/benbjohnson/clock"

	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
)

type options struct {
	clock clock.Clock
}

// Option configures a time-aware controller.
type Option func(*options)

// WithClock sets the time source used to measure the interval between
// updates.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
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

func (o *options) filter() []filter.Option {
	return []filter.Option{filter.WithClock(o.clock)}
}

func (o *options) derivative() *filter.DerivativeFilter {
	return filter.Derivative(o.filter()...)
}

func (o *options) angleVelocity() *filter.AngleVelocityFilter {
	return filter.AngleVelocity(o.filter()...)
}
