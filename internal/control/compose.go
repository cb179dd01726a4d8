package control

import (
	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
)

// GroupController runs every member on the same setpoint and measurement
// and sums their outputs.
type GroupController []Controller

func (g GroupController) Update(setpoint, measurement float64) float64 {
	var out float64
	for _, c := range g {
		out += c.Update(setpoint, measurement)
	}
	return out
}

// Group sums first and rest. A nil member is rejected, typed or not.
func Group(first Controller, rest ...Controller) (GroupController, error) {
	members := append([]Controller{first}, rest...)
	for i, c := range members {
		if isNil(c) {
			return nil, errors.Wrapf(ErrNilController, "member %d", i)
		}
	}
	return GroupController(members), nil
}

// Combine sums two controllers.
func Combine(a, b Controller) (Controller, error) {
	g, err := Group(a, b)
	if err != nil {
		return nil, err
	}
	return g, nil
}

type AngleGroupController []AngleController

func (g AngleGroupController) UpdateAngle(setpoint, measurement geom.Angle) float64 {
	var out float64
	for _, c := range g {
		out += c.UpdateAngle(setpoint, measurement)
	}
	return out
}

// AngleGroup sums angular controllers, e.g. an AnglePID with an arm
// feedforward. A nil member is rejected.
func AngleGroup(first AngleController, rest ...AngleController) (AngleGroupController, error) {
	members := append([]AngleController{first}, rest...)
	for i, c := range members {
		if isNil(c) {
			return nil, errors.Wrapf(ErrNilController, "member %d", i)
		}
	}
	return AngleGroupController(members), nil
}

// DerivativeController differentiates the setpoint and the measurement
// before passing them on, turning a position controller into one that
// acts on velocity.
type DerivativeController struct {
	c           Controller
	setpoint    *filter.DerivativeFilter
	measurement *filter.DerivativeFilter
}

func NewDerivative(c Controller, opts ...Option) (*DerivativeController, error) {
	if isNil(c) {
		return nil, ErrNilController
	}
	o := newOptions(opts)
	return &DerivativeController{
		c:           c,
		setpoint:    o.derivative(),
		measurement: o.derivative(),
	}, nil
}

func (d *DerivativeController) Update(setpoint, measurement float64) float64 {
	return d.c.Update(d.setpoint.Get(setpoint), d.measurement.Get(measurement))
}
