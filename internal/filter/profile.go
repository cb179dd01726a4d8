package filter

import (
	"math"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// profileVelocity advances a scalar velocity by one substep of length dt.
// towards(offset, t) returns the velocity needed to reach the target in t
// seconds starting from the current output moved by offset. A
// non-positive limit is treated as unlimited.
func profileVelocity(vel, dt, velLimit, accelLimit float64, towards func(offset, t float64) float64) float64 {
	if accelLimit > 0 {
		// time needed to bring the current velocity to zero
		windup := math.Abs(vel) / accelLimit

		var accel float64
		if windup < dt {
			accel = towards(0, dt) - vel
		} else {
			// aim so that stopping from here lands on the target
			accel = towards(0.5*vel*(dt+windup), windup)
		}
		vel += geom.ClampMagnitude(accel, dt*accelLimit)
	} else {
		vel = towards(0, dt)
	}

	if velLimit > 0 {
		vel = geom.ClampMagnitude(vel, velLimit)
	}
	return vel
}

// MotionProfileFilter moves its output toward the target while limiting
// velocity and acceleration. Each call integrates over several substeps.
type MotionProfileFilter struct {
	velLimit   tunable.Number
	accelLimit tunable.Number
	steps      int
	timer      *timing.StopWatch

	output   float64
	velocity float64
}

func MotionProfile(velLimit, accelLimit tunable.Number, opts ...Option) *MotionProfileFilter {
	o := newOptions(opts)
	return &MotionProfileFilter{
		velLimit:   tunable.Of(velLimit),
		accelLimit: tunable.Of(accelLimit),
		steps:      o.steps,
		timer:      o.timer(),
	}
}

func (f *MotionProfileFilter) Get(target float64) float64 {
	dt := f.timer.Reset() / float64(f.steps)
	velLimit, accelLimit := f.velLimit.Value(), f.accelLimit.Value()

	for i := 0; i < f.steps; i++ {
		out := f.output
		f.velocity = profileVelocity(f.velocity, dt, velLimit, accelLimit, func(offset, t float64) float64 {
			return (target - (out + offset)) / t
		})
		f.output += dt * f.velocity
	}
	return f.output
}

// Velocity returns the profile's current velocity.
func (f *MotionProfileFilter) Velocity() float64 {
	return f.velocity
}

// Reset places the profile at rest at position.
func (f *MotionProfileFilter) Reset(position float64) {
	f.output = position
	f.velocity = 0
	f.timer.Reset()
}

// AngleMotionProfileFilter is a motion profile over angles. It always moves
// along the shortest arc, so it never fights the wraparound at ±π.
// Limits are in radians per second and radians per second squared.
type AngleMotionProfileFilter struct {
	velLimit   tunable.Number
	accelLimit tunable.Number
	steps      int
	timer      *timing.StopWatch

	output   geom.Angle
	velocity float64
}

func AngleMotionProfile(velLimit, accelLimit tunable.Number, opts ...Option) *AngleMotionProfileFilter {
	o := newOptions(opts)
	return &AngleMotionProfileFilter{
		velLimit:   tunable.Of(velLimit),
		accelLimit: tunable.Of(accelLimit),
		steps:      o.steps,
		timer:      o.timer(),
	}
}

func (f *AngleMotionProfileFilter) Get(target geom.Angle) geom.Angle {
	dt := f.timer.Reset() / float64(f.steps)
	velLimit, accelLimit := f.velLimit.Value(), f.accelLimit.Value()

	for i := 0; i < f.steps; i++ {
		out := f.output
		f.velocity = profileVelocity(f.velocity, dt, velLimit, accelLimit, func(offset, t float64) float64 {
			return target.VelocityRadians(out.AddRadians(offset), t)
		})
		f.output = f.output.AddRadians(dt * f.velocity)
	}
	return f.output
}

func (f *AngleMotionProfileFilter) Velocity() float64 {
	return f.velocity
}

func (f *AngleMotionProfileFilter) Reset(position geom.Angle) {
	f.output = position
	f.velocity = 0
	f.timer.Reset()
}

// VectorMotionProfileFilter limits the magnitude of the velocity and of the
// acceleration of a 2D output.
type VectorMotionProfileFilter struct {
	velLimit   tunable.Number
	accelLimit tunable.Number
	steps      int
	timer      *timing.StopWatch

	output   geom.Vector2D
	velocity geom.Vector2D
}

func VectorMotionProfile(velLimit, accelLimit tunable.Number, opts ...Option) *VectorMotionProfileFilter {
	o := newOptions(opts)
	return &VectorMotionProfileFilter{
		velLimit:   tunable.Of(velLimit),
		accelLimit: tunable.Of(accelLimit),
		steps:      o.steps,
		timer:      o.timer(),
	}
}

func (f *VectorMotionProfileFilter) Get(target geom.Vector2D) geom.Vector2D {
	dt := f.timer.Reset() / float64(f.steps)
	velLimit, accelLimit := f.velLimit.Value(), f.accelLimit.Value()

	for i := 0; i < f.steps; i++ {
		if accelLimit > 0 {
			windup := f.velocity.Magnitude() / accelLimit

			var accel geom.Vector2D
			if windup < dt {
				accel = target.Sub(f.output).Scale(1 / dt).Sub(f.velocity)
			} else {
				future := f.output.Add(f.velocity.Scale(0.5 * (dt + windup)))
				accel = target.Sub(future).Scale(1 / windup)
			}
			f.velocity = f.velocity.Add(accel.Clamp(dt * accelLimit))
		} else {
			f.velocity = target.Sub(f.output).Scale(1 / dt)
		}

		if velLimit > 0 {
			f.velocity = f.velocity.Clamp(velLimit)
		}
		f.output = f.output.Add(f.velocity.Scale(dt))
	}
	return f.output
}

func (f *VectorMotionProfileFilter) Velocity() geom.Vector2D {
	return f.velocity
}

func (f *VectorMotionProfileFilter) Reset(position geom.Vector2D) {
	f.output = position
	f.velocity = geom.Origin
	f.timer.Reset()
}
