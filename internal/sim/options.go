package sim

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
)

type Option func(*Simulator)

// WithClock replaces the simulator's mock clock, for pipelines that were
// built before the simulator.
func WithClock(c *clock.Mock) Option {
	return func(s *Simulator) {
		s.clock = c
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

func WithMetrics(metrics ...Metric) Option {
	return func(s *Simulator) {
		s.metrics = append(s.metrics, metrics...)
	}
}

func WithObservers(observers ...Observer) Option {
	return func(s *Simulator) {
		s.observers = append(s.observers, observers...)
	}
}

func defaultLogger() *zap.SugaredLogger {
	return logging.Global().Named("sim")
}
