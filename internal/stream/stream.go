// Package stream provides lazy pull sources of scalars, booleans, angles
// and vectors, plus the combinators used to build sensor pipelines:
// filtering, pointwise combination, background polling and complementary
// fusion.
//
// Combinators call their inputs on every Get; nothing is memoized.
package stream

import (
	"sync"

	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
)

// Stream produces the current value of a signal.
type Stream[T any] interface {
	Get() T
}

// Func adapts a function to a Stream.
type Func[T any] func() T

func (f Func[T]) Get() T { return f() }

// Const returns a stream that always yields v.
func Const[T any](v T) Stream[T] {
	return Func[T](func() T { return v })
}

// Filtered threads every value of s through filters, in order.
func Filtered[T any](s Stream[T], filters ...filter.Filter[T]) Stream[T] {
	f := filter.Chain(filters...)
	return Func[T](func() T { return f.Get(s.Get()) })
}

// Map converts every value of s with fn.
func Map[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	return Func[U](func() U { return fn(s.Get()) })
}

// Combine calls both streams and merges the results with op.
func Combine[T any](a, b Stream[T], op func(x, y T) T) Stream[T] {
	return Func[T](func() T { return op(a.Get(), b.Get()) })
}

func Add(a, b Stream[float64]) Stream[float64] {
	return Combine(a, b, func(x, y float64) float64 { return x + y })
}

func Sub(a, b Stream[float64]) Stream[float64] {
	return Combine(a, b, func(x, y float64) float64 { return x - y })
}

func Scale(s Stream[float64], k float64) Stream[float64] {
	return Map(s, func(x float64) float64 { return x * k })
}

func AddAngles(a, b Stream[geom.Angle]) Stream[geom.Angle] {
	return Combine(a, b, geom.Angle.Add)
}

// SubAngles yields the shortest signed angle from b to a.
func SubAngles(a, b Stream[geom.Angle]) Stream[geom.Angle] {
	return Combine(a, b, geom.Angle.Sub)
}

func AddVectors(a, b Stream[geom.Vector2D]) Stream[geom.Vector2D] {
	return Combine(a, b, geom.Vector2D.Add)
}

func SubVectors(a, b Stream[geom.Vector2D]) Stream[geom.Vector2D] {
	return Combine(a, b, geom.Vector2D.Sub)
}

func Dot(a, b Stream[geom.Vector2D]) Stream[float64] {
	return Func[float64](func() float64 { return a.Get().Dot(b.Get()) })
}

func And(a, b Stream[bool]) Stream[bool] {
	return Combine(a, b, func(x, y bool) bool { return x && y })
}

func Or(a, b Stream[bool]) Stream[bool] {
	return Combine(a, b, func(x, y bool) bool { return x || y })
}

func Xor(a, b Stream[bool]) Stream[bool] {
	return Combine(a, b, func(x, y bool) bool { return x != y })
}

func Not(s Stream[bool]) Stream[bool] {
	return Map(s, func(b bool) bool { return !b })
}

// AngleOf interprets a scalar stream as radians.
func AngleOf(radians Stream[float64]) Stream[geom.Angle] {
	return Map(radians, geom.FromRadians)
}

func RadiansOf(s Stream[geom.Angle]) Stream[float64] {
	return Map(s, geom.Angle.Radians)
}

func DegreesOf(s Stream[geom.Angle]) Stream[float64] {
	return Map(s, geom.Angle.Degrees)
}

func VectorOf(x, y Stream[float64]) Stream[geom.Vector2D] {
	return Func[geom.Vector2D](func() geom.Vector2D { return geom.Vec(x.Get(), y.Get()) })
}

func AngleOfVector(s Stream[geom.Vector2D]) Stream[geom.Angle] {
	return Map(s, geom.Vector2D.Angle)
}

func VectorOfAngle(s Stream[geom.Angle]) Stream[geom.Vector2D] {
	return Map(s, geom.Angle.Vector)
}

func MagnitudeOf(s Stream[geom.Vector2D]) Stream[float64] {
	return Map(s, geom.Vector2D.Magnitude)
}

// NumberOfBool yields 1 for true and 0 for false.
func NumberOfBool(s Stream[bool]) Stream[float64] {
	return Map(s, func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	})
}

// BoolOf yields true while s is above threshold.
func BoolOf(s Stream[float64], threshold float64) Stream[bool] {
	return Map(s, func(x float64) bool { return x > threshold })
}

type synchronized[T any] struct {
	mu sync.Mutex
	s  Stream[T]
}

func (s *synchronized[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.s.Get()
}

// Synchronized serializes calls to s so that a stateful pipeline can be
// shared between goroutines.
func Synchronized[T any](s Stream[T]) Stream[T] {
	return &synchronized[T]{s: s}
}
