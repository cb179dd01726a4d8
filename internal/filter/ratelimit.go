package filter

import (
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// RateLimitFilter limits how fast its output may change, in units per
// second. The limit is cumulative over time, not per call.
type RateLimitFilter[T any] struct {
	rate  tunable.Number
	timer *timing.StopWatch
	step  func(last, next T, maxStep float64) T
	last  T
}

func newRateLimit[T any](rate tunable.Number, step func(last, next T, maxStep float64) T, opts []Option) (*RateLimitFilter[T], error) {
	if err := requirePositive("rate limit", rate); err != nil {
		return nil, err
	}
	return &RateLimitFilter[T]{
		rate:  rate,
		timer: newOptions(opts).timer(),
		step:  step,
	}, nil
}

// RateLimit rejects a non-positive rate.
func RateLimit(rate tunable.Number, opts ...Option) (*RateLimitFilter[float64], error) {
	return newRateLimit(rate, func(last, next, maxStep float64) float64 {
		return last + geom.ClampMagnitude(next-last, maxStep)
	}, opts)
}

// AngleRateLimit limits angular speed in radians per second along the
// shortest arc.
func AngleRateLimit(rate tunable.Number, opts ...Option) (*RateLimitFilter[geom.Angle], error) {
	return newRateLimit(rate, func(last, next geom.Angle, maxStep float64) geom.Angle {
		return last.AddRadians(geom.ClampMagnitude(next.Sub(last).Radians(), maxStep))
	}, opts)
}

// VectorRateLimit limits the magnitude of the change per second.
func VectorRateLimit(rate tunable.Number, opts ...Option) (*RateLimitFilter[geom.Vector2D], error) {
	return newRateLimit(rate, func(last, next geom.Vector2D, maxStep float64) geom.Vector2D {
		return last.Add(next.Sub(last).Clamp(maxStep))
	}, opts)
}

func (f *RateLimitFilter[T]) Get(next T) T {
	dt := f.timer.Reset()
	f.last = f.step(f.last, next, tunable.NonNegative(f.rate)*dt)
	return f.last
}

func (f *RateLimitFilter[T]) Reset(value T) {
	f.last = value
	f.timer.Reset()
}
