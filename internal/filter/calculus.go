package filter

import (
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
)

// DerivativeFilter returns the rate of change of its input per second. The
// previous input starts at zero.
type DerivativeFilter struct {
	timer *timing.StopWatch
	last  float64
}

func Derivative(opts ...Option) *DerivativeFilter {
	return &DerivativeFilter{timer: newOptions(opts).timer()}
}

func (f *DerivativeFilter) Get(next float64) float64 {
	dt := f.timer.Reset()
	d := (next - f.last) / dt
	f.last = next
	return d
}

// Reset sets the previous input without producing an output.
func (f *DerivativeFilter) Reset(last float64) {
	f.last = last
	f.timer.Reset()
}

// IntegralFilter accumulates its input times the elapsed time.
type IntegralFilter struct {
	timer *timing.StopWatch
	total float64
}

func Integral(opts ...Option) *IntegralFilter {
	return &IntegralFilter{timer: newOptions(opts).timer()}
}

func (f *IntegralFilter) Get(next float64) float64 {
	f.total += next * f.timer.Reset()
	return f.total
}

func (f *IntegralFilter) Reset(total float64) {
	f.total = total
	f.timer.Reset()
}

// AngleVelocityFilter converts a sequence of angles into an angular
// velocity in radians per second, taking the shortest arc between samples.
type AngleVelocityFilter struct {
	timer *timing.StopWatch
	last  geom.Angle
}

func AngleVelocity(opts ...Option) *AngleVelocityFilter {
	return &AngleVelocityFilter{timer: newOptions(opts).timer()}
}

func (f *AngleVelocityFilter) Get(next geom.Angle) float64 {
	v := next.VelocityRadians(f.last, f.timer.Reset())
	f.last = next
	return v
}

func (f *AngleVelocityFilter) Reset(last geom.Angle) {
	f.last = last
	f.timer.Reset()
}

type VectorDerivativeFilter struct {
	timer *timing.StopWatch
	last  geom.Vector2D
}

func VectorDerivative(opts ...Option) *VectorDerivativeFilter {
	return &VectorDerivativeFilter{timer: newOptions(opts).timer()}
}

func (f *VectorDerivativeFilter) Get(next geom.Vector2D) geom.Vector2D {
	dt := f.timer.Reset()
	d := next.Sub(f.last).Scale(1 / dt)
	f.last = next
	return d
}

type VectorIntegralFilter struct {
	timer *timing.StopWatch
	total geom.Vector2D
}

func VectorIntegral(opts ...Option) *VectorIntegralFilter {
	return &VectorIntegralFilter{timer: newOptions(opts).timer()}
}

func (f *VectorIntegralFilter) Get(next geom.Vector2D) geom.Vector2D {
	f.total = f.total.Add(next.Scale(f.timer.Reset()))
	return f.total
}
