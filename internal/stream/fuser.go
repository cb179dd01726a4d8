package stream

import (
	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// Fuser is a complementary filter. It low-passes an accurate but slow base
// signal and high-passes a fast but drifting one, then sums them. The fast
// signal is shifted by the offset between the two captured at construction
// or at the last Reset.
type Fuser[T any] struct {
	base Stream[T]
	fast Stream[T]

	newLow  func() filter.Filter[T]
	newHigh func() filter.Filter[T]
	add     func(a, b T) T
	sub     func(a, b T) T

	low    filter.Filter[T]
	high   filter.Filter[T]
	offset T
}

func newFuser[T any](base, fast Stream[T], newLow, newHigh func() filter.Filter[T], add, sub func(a, b T) T) *Fuser[T] {
	f := &Fuser[T]{
		base:    base,
		fast:    fast,
		newLow:  newLow,
		newHigh: newHigh,
		add:     add,
		sub:     sub,
	}
	f.Reset()
	return f
}

// NewFuser fuses two scalar streams with time constant rc.
func NewFuser(rc tunable.Number, base, fast Stream[float64], opts ...Option) *Fuser[float64] {
	fo := newOptions(opts).filterOptions()
	return newFuser(base, fast,
		func() filter.Filter[float64] { return filter.LowPass(rc, fo...) },
		func() filter.Filter[float64] { return filter.HighPass(rc, fo...) },
		func(a, b float64) float64 { return a + b },
		func(a, b float64) float64 { return a - b },
	)
}

// NewAngleFuser fuses two heading streams, e.g. an absolute encoder with a
// gyro.
func NewAngleFuser(rc tunable.Number, base, fast Stream[geom.Angle], opts ...Option) *Fuser[geom.Angle] {
	fo := newOptions(opts).filterOptions()
	return newFuser(base, fast,
		func() filter.Filter[geom.Angle] { return filter.AngleLowPass(rc, fo...) },
		func() filter.Filter[geom.Angle] { return filter.AngleHighPass(rc, fo...) },
		geom.Angle.Add,
		geom.Angle.Sub,
	)
}

func NewVectorFuser(rc tunable.Number, base, fast Stream[geom.Vector2D], opts ...Option) *Fuser[geom.Vector2D] {
	fo := newOptions(opts).filterOptions()
	return newFuser(base, fast,
		func() filter.Filter[geom.Vector2D] { return filter.VectorLowPass(rc, fo...) },
		func() filter.Filter[geom.Vector2D] { return filter.VectorHighPass(rc, fo...) },
		geom.Vector2D.Add,
		geom.Vector2D.Sub,
	)
}

// Reset replaces both filters and captures a new offset between the base
// and fast streams.
func (f *Fuser[T]) Reset() {
	f.low = f.newLow()
	f.high = f.newHigh()
	f.offset = f.sub(f.base.Get(), f.fast.Get())
}

// Offset returns the anchor added to the fast stream.
func (f *Fuser[T]) Offset() T {
	return f.offset
}

func (f *Fuser[T]) Get() T {
	return f.add(
		f.low.Get(f.base.Get()),
		f.high.Get(f.add(f.fast.Get(), f.offset)),
	)
}
