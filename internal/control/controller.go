package control

import (
	"reflect"
	"sync"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
)

// Controller computes an output from a setpoint and a measurement. Update
// is called once per control cycle.
type Controller interface {
	Update(setpoint, measurement float64) float64
}

// Func adapts a function to a Controller.
type Func func(setpoint, measurement float64) float64

func (f Func) Update(setpoint, measurement float64) float64 { return f(setpoint, measurement) }

// AngleController computes an output from an angular setpoint and
// measurement.
type AngleController interface {
	UpdateAngle(setpoint, measurement geom.Angle) float64
}

// isNil reports whether c is nil, including a nil pointer or func held in
// a non-nil interface.
func isNil(c any) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Interface, reflect.Map, reflect.Chan:
		return v.IsNil()
	}
	return false
}

type AngleFunc func(setpoint, measurement geom.Angle) float64

func (f AngleFunc) UpdateAngle(setpoint, measurement geom.Angle) float64 {
	return f(setpoint, measurement)
}

// Units converts an angular error into the number a numeric controller
// works in.
type Units func(err geom.Angle) float64

var (
	Radians Units = geom.Angle.Radians
	Degrees Units = geom.Angle.Degrees
)

// AngleAdapter runs a numeric controller on the shortest angular error
// between setpoint and measurement. The underlying controller sees the
// error as its setpoint and zero as its measurement.
type AngleAdapter struct {
	c     Controller
	units Units
}

// NewAngle adapts c to angles, working in radians.
func NewAngle(c Controller) *AngleAdapter {
	return &AngleAdapter{c: c, units: Radians}
}

// WithUnits changes the unit the error is expressed in.
func (a *AngleAdapter) WithUnits(u Units) *AngleAdapter {
	if u != nil {
		a.units = u
	}
	return a
}

func (a *AngleAdapter) UpdateAngle(setpoint, measurement geom.Angle) float64 {
	return a.c.Update(a.units(setpoint.Sub(measurement)), 0)
}

type synchronized struct {
	mu sync.Mutex
	c  Controller
}

func (s *synchronized) Update(setpoint, measurement float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Update(setpoint, measurement)
}

// Synchronized serializes calls to c.
func Synchronized(c Controller) Controller {
	return &synchronized{c: c}
}

type synchronizedAngle struct {
	mu sync.Mutex
	c  AngleController
}

func (s *synchronizedAngle) UpdateAngle(setpoint, measurement geom.Angle) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.UpdateAngle(setpoint, measurement)
}

func SynchronizedAngle(c AngleController) AngleController {
	return &synchronizedAngle{c: c}
}
