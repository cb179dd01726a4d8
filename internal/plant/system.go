package plant

import "github.com/StuyPulse/StuyLib-sub001/internal/geom"

// System is a mechanism driven by a single motor command in volts.
type System interface {
	Name() string
	StateDim() int
	// Derive returns dx/dt for state x under command u at time t.
	Derive(x State, u float64, t float64) State
	// Measure returns what a sensor on the mechanism would read.
	Measure(x State) float64
}

// Angular is a mechanism whose sensor reads a heading.
type Angular interface {
	System
	MeasureAngle(x State) geom.Angle
}

// Constrained mechanisms have hard stops, applied after every step.
type Constrained interface {
	Constrain(x State) State
}

// Configurable mechanisms expose their parameters for live adjustment.
type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Integrator advances a system by one time step.
type Integrator interface {
	Step(sys System, x State, u, t, dt float64) State
}
