package filter

import (
	"math"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// LowPassFilter is a first order IIR filter with time constant RC:
//
//	last += (next - last) * (1 - exp(-dt/RC))
//
// A non-positive RC disables filtering and the input passes through.
type LowPassFilter[T any] struct {
	rc    tunable.Number
	timer *timing.StopWatch
	lerp  func(from, to T, k float64) T
	last  T
}

func newLowPass[T any](rc tunable.Number, lerp func(from, to T, k float64) T, opts []Option) *LowPassFilter[T] {
	return &LowPassFilter[T]{
		rc:    tunable.Of(rc),
		timer: newOptions(opts).timer(),
		lerp:  lerp,
	}
}

func LowPass(rc tunable.Number, opts ...Option) *LowPassFilter[float64] {
	return newLowPass(rc, func(from, to, k float64) float64 {
		return from + (to-from)*k
	}, opts)
}

// AngleLowPass smooths along the shortest arc between angles.
func AngleLowPass(rc tunable.Number, opts ...Option) *LowPassFilter[geom.Angle] {
	return newLowPass(rc, func(from, to geom.Angle, k float64) geom.Angle {
		return from.Add(to.Sub(from).Mul(k))
	}, opts)
}

func VectorLowPass(rc tunable.Number, opts ...Option) *LowPassFilter[geom.Vector2D] {
	return newLowPass(rc, func(from, to geom.Vector2D, k float64) geom.Vector2D {
		return from.Add(to.Sub(from).Scale(k))
	}, opts)
}

func (f *LowPassFilter[T]) Get(next T) T {
	dt := f.timer.Reset()
	rc := f.rc.Value()
	if rc <= 0 {
		f.last = next
		return next
	}
	f.last = f.lerp(f.last, next, 1.0-math.Exp(-dt/rc))
	return f.last
}

// Last returns the previous output.
func (f *LowPassFilter[T]) Last() T {
	return f.last
}

// Reset sets the output to value and restarts the timer.
func (f *LowPassFilter[T]) Reset(value T) {
	f.last = value
	f.timer.Reset()
}

// HighPassFilter returns next minus a low-pass of next.
type HighPassFilter[T any] struct {
	low *LowPassFilter[T]
	sub func(a, b T) T
}

func HighPass(rc tunable.Number, opts ...Option) *HighPassFilter[float64] {
	return &HighPassFilter[float64]{
		low: LowPass(rc, opts...),
		sub: func(a, b float64) float64 { return a - b },
	}
}

func AngleHighPass(rc tunable.Number, opts ...Option) *HighPassFilter[geom.Angle] {
	return &HighPassFilter[geom.Angle]{
		low: AngleLowPass(rc, opts...),
		sub: geom.Angle.Sub,
	}
}

func VectorHighPass(rc tunable.Number, opts ...Option) *HighPassFilter[geom.Vector2D] {
	return &HighPassFilter[geom.Vector2D]{
		low: VectorLowPass(rc, opts...),
		sub: geom.Vector2D.Sub,
	}
}

func (f *HighPassFilter[T]) Get(next T) T {
	return f.sub(next, f.low.Get(next))
}

// Reset restarts the underlying low-pass at value.
func (f *HighPassFilter[T]) Reset(value T) {
	f.low.Reset(value)
}
