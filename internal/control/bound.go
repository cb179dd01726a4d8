package control

import (
	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
)

// Bound is a controller wired to setpoint and measurement streams so that
// the output can be pulled like any other stream.
type Bound struct {
	c           Controller
	setpoint    stream.Stream[float64]
	measurement stream.Stream[float64]
}

func Bind(c Controller) *Bound {
	return &Bound{c: c}
}

func (b *Bound) WithSetpoint(s stream.Stream[float64]) *Bound {
	b.setpoint = s
	return b
}

func (b *Bound) WithMeasurement(s stream.Stream[float64]) *Bound {
	b.measurement = s
	return b
}

// Get reads both streams and updates the controller. Calling Get before
// both streams are wired is a programming error and panics.
func (b *Bound) Get() float64 {
	switch {
	case isNil(b.c):
		panic(ErrNilController)
	case b.setpoint == nil:
		panic(errors.Wrap(ErrUnwired, "missing setpoint"))
	case b.measurement == nil:
		panic(errors.Wrap(ErrUnwired, "missing measurement"))
	}
	return b.c.Update(b.setpoint.Get(), b.measurement.Get())
}

// BoundAngle is the angular form of Bound.
type BoundAngle struct {
	c           AngleController
	setpoint    stream.Stream[geom.Angle]
	measurement stream.Stream[geom.Angle]
}

func BindAngle(c AngleController) *BoundAngle {
	return &BoundAngle{c: c}
}

func (b *BoundAngle) WithSetpoint(s stream.Stream[geom.Angle]) *BoundAngle {
	b.setpoint = s
	return b
}

func (b *BoundAngle) WithMeasurement(s stream.Stream[geom.Angle]) *BoundAngle {
	b.measurement = s
	return b
}

func (b *BoundAngle) Get() float64 {
	switch {
	case isNil(b.c):
		panic(ErrNilController)
	case b.setpoint == nil:
		panic(errors.Wrap(ErrUnwired, "missing setpoint"))
	case b.measurement == nil:
		panic(errors.Wrap(ErrUnwired, "missing measurement"))
	}
	return b.c.UpdateAngle(b.setpoint.Get(), b.measurement.Get())
}
