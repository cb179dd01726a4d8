package metrics

import (
	"math"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

// ErrorFunc returns the tracking error of a sample.
type ErrorFunc func(setpoint, measurement float64) float64

// Linear is setpoint − measurement.
func Linear(setpoint, measurement float64) float64 {
	return setpoint - measurement
}

// Angular is the shortest signed arc from measurement to setpoint, both in
// radians.
func Angular(setpoint, measurement float64) float64 {
	return geom.FromRadians(setpoint).Sub(geom.FromRadians(measurement)).Radians()
}

func orLinear(fn ErrorFunc) ErrorFunc {
	if fn == nil {
		return Linear
	}
	return fn
}

// IntegratedAbsError is ∫|e|dt, using the spacing between samples as dt.
type IntegratedAbsError struct {
	name     string
	errorFn  ErrorFunc
	sum      float64
	lastTime float64
	started  bool
}

func NewIntegratedAbsError(fn ErrorFunc) *IntegratedAbsError {
	return &IntegratedAbsError{name: "iae", errorFn: orLinear(fn)}
}

func (m *IntegratedAbsError) Name() string { return m.name }

func (m *IntegratedAbsError) Observe(s sim.Sample) {
	if m.started {
		m.sum += math.Abs(m.errorFn(s.Setpoint, s.Measurement)) * (s.Time - m.lastTime)
	}
	m.lastTime = s.Time
	m.started = true
}

func (m *IntegratedAbsError) Value() float64 { return m.sum }

func (m *IntegratedAbsError) Reset() {
	m.sum = 0
	m.lastTime = 0
	m.started = false
}

// Overshoot is the largest distance the measurement passed the setpoint,
// in the direction it was approaching from. The direction is taken again
// whenever the setpoint changes.
type Overshoot struct {
	name      string
	errorFn   ErrorFunc
	direction float64
	setpoint  float64
	max       float64
	started   bool
}

func NewOvershoot(fn ErrorFunc) *Overshoot {
	return &Overshoot{name: "overshoot", errorFn: orLinear(fn)}
}

func (m *Overshoot) Name() string { return m.name }

func (m *Overshoot) Observe(s sim.Sample) {
	e := m.errorFn(s.Setpoint, s.Measurement)
	if !m.started || s.Setpoint != m.setpoint {
		m.direction = geom.Sign(e)
		m.setpoint = s.Setpoint
		m.started = true
	}
	if m.direction == 0 {
		m.direction = geom.Sign(e)
		return
	}
	m.max = math.Max(m.max, -m.direction*e)
}

func (m *Overshoot) Value() float64 { return m.max }

func (m *Overshoot) Reset() {
	m.direction = 0
	m.setpoint = 0
	m.max = 0
	m.started = false
}

// NeverSettled is the SettlingTime of a run that ends outside the band.
const NeverSettled = -1.0

// SettlingTime is the time after which the error stays within tolerance.
type SettlingTime struct {
	name      string
	errorFn   ErrorFunc
	tolerance float64
	settledAt float64
	inBand    bool
}

func NewSettlingTime(tolerance float64, fn ErrorFunc) *SettlingTime {
	return &SettlingTime{
		name:      "settling_time",
		errorFn:   orLinear(fn),
		tolerance: math.Abs(tolerance),
	}
}

func (m *SettlingTime) Name() string { return m.name }

func (m *SettlingTime) Observe(s sim.Sample) {
	within := math.Abs(m.errorFn(s.Setpoint, s.Measurement)) <= m.tolerance
	if within && !m.inBand {
		m.settledAt = s.Time
	}
	m.inBand = within
}

func (m *SettlingTime) Value() float64 {
	if !m.inBand {
		return NeverSettled
	}
	return m.settledAt
}

func (m *SettlingTime) Reset() {
	m.settledAt = 0
	m.inBand = false
}
