package control

import (
	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// Model is a feedforward model of a mechanism: the output needed to hold a
// velocity and acceleration.
type Model interface {
	Calculate(velocity, acceleration float64) float64
}

// MotorModel is kS·sign(v) + kV·v + kA·a.
type MotorModel struct {
	KS, KV, KA tunable.Number
}

func (m MotorModel) Calculate(velocity, acceleration float64) float64 {
	return tunable.Of(m.KS).Value()*geom.Sign(velocity) +
		tunable.Of(m.KV).Value()*velocity +
		tunable.Of(m.KA).Value()*acceleration
}

// ElevatorModel adds a constant gravity term kG to a motor model.
type ElevatorModel struct {
	KG tunable.Number
	MotorModel
}

func (m ElevatorModel) Calculate(velocity, acceleration float64) float64 {
	return tunable.Of(m.KG).Value() + m.MotorModel.Calculate(velocity, acceleration)
}

// Feedforward drives a Model from a velocity alone. Acceleration is the
// derivative of successive velocities.
type Feedforward struct {
	model Model
	opts  []Option
	accel *filter.DerivativeFilter
}

func NewFeedforward(model Model, opts ...Option) *Feedforward {
	return &Feedforward{
		model: model,
		opts:  opts,
		accel: newOptions(opts).derivative(),
	}
}

func MotorFeedforward(kS, kV, kA tunable.Number, opts ...Option) *Feedforward {
	return NewFeedforward(MotorModel{KS: kS, KV: kV, KA: kA}, opts...)
}

func ElevatorFeedforward(kG, kS, kV, kA tunable.Number, opts ...Option) *Feedforward {
	return NewFeedforward(ElevatorModel{KG: kG, MotorModel: MotorModel{KS: kS, KV: kV, KA: kA}}, opts...)
}

// Calculate returns the output for the target velocity.
func (f *Feedforward) Calculate(velocity float64) float64 {
	return f.model.Calculate(velocity, f.accel.Get(velocity))
}

// fork returns a feedforward on the same model with its own acceleration
// state.
func (f *Feedforward) fork() *Feedforward {
	return NewFeedforward(f.model, f.opts...)
}

// Velocity returns a controller whose setpoint is the target velocity. The
// measurement is ignored.
func (f *Feedforward) Velocity() Controller {
	ff := f.fork()
	return Func(func(setpoint, _ float64) float64 {
		return ff.Calculate(setpoint)
	})
}

// Position returns a controller whose setpoint is a target position. The
// target velocity is the derivative of the setpoint.
func (f *Feedforward) Position() Controller {
	ff := f.fork()
	velocity := newOptions(f.opts).derivative()
	return Func(func(setpoint, _ float64) float64 {
		return ff.Calculate(velocity.Get(setpoint))
	})
}

// Angle returns a controller whose setpoint is a target angle. The target
// velocity, in radians per second, follows the shortest arc between
// setpoints.
func (f *Feedforward) Angle() AngleController {
	ff := f.fork()
	velocity := newOptions(f.opts).angleVelocity()
	return AngleFunc(func(setpoint, _ geom.Angle) float64 {
		return ff.Calculate(velocity.Get(setpoint))
	})
}

// ArmFeedforward models a rotating arm under gravity:
//
//	kG·cos(θ) + kS·sign(ω) + kV·ω + kA·α
//
// where ω and α are derived from successive target angles.
type ArmFeedforward struct {
	kG    tunable.Number
	motor MotorModel
	opts  []Option

	velocity *filter.AngleVelocityFilter
	accel    *filter.DerivativeFilter
}

func NewArmFeedforward(kG, kS, kV, kA tunable.Number, opts ...Option) *ArmFeedforward {
	o := newOptions(opts)
	return &ArmFeedforward{
		kG:       tunable.Of(kG),
		motor:    MotorModel{KS: kS, KV: kV, KA: kA},
		opts:     opts,
		velocity: o.angleVelocity(),
		accel:    o.derivative(),
	}
}

// Calculate returns the output for the target angle.
func (a *ArmFeedforward) Calculate(position geom.Angle) float64 {
	v := a.velocity.Get(position)
	return a.kG.Value()*position.Cos() + a.motor.Calculate(v, a.accel.Get(v))
}

// Angle returns a controller whose setpoint is the target arm angle.
func (a *ArmFeedforward) Angle() AngleController {
	arm := NewArmFeedforward(a.kG, a.motor.KS, a.motor.KV, a.motor.KA, a.opts...)
	return AngleFunc(func(setpoint, _ geom.Angle) float64 {
		return arm.Calculate(setpoint)
	})
}
