package stream

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
)

type options struct {
	clock  clock.Clock
	logger *zap.SugaredLogger
}

// Option configures a polling stream or a fuser.
type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = logger
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
	o.logger = logging.OrGlobal(o.logger)
	return o
}

func (o *options) filterOptions() []filter.Option {
	return []filter.Option{filter.WithClock(o.clock)}
}
