// Package tunable provides numeric parameters that are read at the moment
// of use, so a gain changed while a loop is running takes effect on the
// next update.
package tunable

import (
	"go.uber.org/atomic"
)

// Number is a source of a float64 parameter.
type Number interface {
	Value() float64
}

// Const is a Number that never changes.
type Const float64

func (c Const) Value() float64 { return float64(c) }

// Func adapts a function to a Number.
type Func func() float64

func (f Func) Value() float64 { return f() }

// Value is a Number that can be changed concurrently with readers.
type Value struct {
	v *atomic.Float64
}

func NewValue(initial float64) *Value {
	return &Value{v: atomic.NewFloat64(initial)}
}

func (v *Value) Value() float64 { return v.v.Load() }

func (v *Value) Set(x float64) { v.v.Store(x) }

// Add increments the value by delta and returns the result.
func (v *Value) Add(delta float64) float64 { return v.v.Add(delta) }

// Of returns n unless it is nil, in which case it returns Const(0).
func Of(n Number) Number {
	if n == nil {
		return Const(0)
	}
	return n
}

// NonNegative reads n and clamps negative values to zero.
func NonNegative(n Number) float64 {
	if n == nil {
		return 0
	}
	if x := n.Value(); x > 0 {
		return x
	}
	return 0
}
