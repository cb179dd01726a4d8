package control

import (
	"math"

	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// StaleThreshold is the gap between updates, in seconds, after which a PID
// controller treats its input as stale.
const StaleThreshold = 0.5

// State is the lifecycle state of a PID controller.
type State int

const (
	// Fresh means the controller was just created, reset, or saw a stale
	// gap on its last update.
	Fresh State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Running:
		return "running"
	}
	return "unknown"
}

// pid holds the gains, integrator and derivative filtering shared by the
// scalar and angular PID controllers.
type pid struct {
	p, i, d tunable.Number

	iRange  tunable.Number
	iLimit  tunable.Number
	dFilter filter.Filter[float64]

	integral float64
	state    State
}

func newPID(p, i, d tunable.Number) pid {
	return pid{
		p:       tunable.Of(p),
		i:       tunable.Of(i),
		d:       tunable.Of(d),
		iRange:  tunable.Const(0),
		iLimit:  tunable.Const(0),
		dFilter: filter.Identity[float64](),
	}
}

// integrate adds err*dt to the integral, then zeroes it when err is outside
// the integrator range and clamps it to the integrator limit.
func (c *pid) integrate(err, dt float64) {
	c.integral += err * dt

	if r := c.iRange.Value(); r > 0 && !(math.Abs(err) < r) {
		c.integral = 0
	}
	if l := c.iLimit.Value(); l > 0 {
		c.integral = geom.ClampMagnitude(c.integral, l)
	}
}

func (c *pid) calculate(err, rate, dt float64) float64 {
	pOut := err * tunable.NonNegative(c.p)

	c.integrate(err, dt)
	iOut := c.integral * tunable.NonNegative(c.i)

	dOut := c.dFilter.Get(rate) * tunable.NonNegative(c.d)

	if dt < StaleThreshold {
		c.state = Running
		return pOut + iOut + dOut
	}

	c.integral = 0
	c.state = Fresh
	return pOut
}

func (c *pid) gains() map[string]float64 {
	return map[string]float64{
		"kP": tunable.NonNegative(c.p),
		"kI": tunable.NonNegative(c.i),
		"kD": tunable.NonNegative(c.d),
	}
}

// PIDController is a time-step aware PID controller. Gains are read on
// every update and negative gains are treated as zero.
//
// If more than StaleThreshold seconds pass between updates the integral is
// cleared and only the proportional term is returned for that update.
type PIDController struct {
	pid
	timer     *timing.StopWatch
	lastError float64
}

func PID(p, i, d tunable.Number, opts ...Option) *PIDController {
	return &PIDController{
		pid:   newPID(p, i, d),
		timer: newOptions(opts).timer(),
	}
}

func (c *PIDController) Update(setpoint, measurement float64) float64 {
	err := setpoint - measurement
	dt := c.timer.Reset()

	rate := (err - c.lastError) / dt
	c.lastError = err

	return c.calculate(err, rate, dt)
}

// SetIntegratorFilter keeps the integral only while |error| < rng and
// clamps it to ±limit. Non-positive values disable either stage.
func (c *PIDController) SetIntegratorFilter(rng, limit tunable.Number) *PIDController {
	c.iRange, c.iLimit = tunable.Of(rng), tunable.Of(limit)
	return c
}

// SetDerivativeFilter filters the error rate before it is scaled by kD.
func (c *PIDController) SetDerivativeFilter(filters ...filter.Filter[float64]) *PIDController {
	c.dFilter = filter.Chain(filters...)
	return c
}

// Reset clears the integral and the stored error.
func (c *PIDController) Reset() {
	c.integral = 0
	c.lastError = 0
	c.state = Fresh
	c.timer.Reset()
}

func (c *PIDController) State() State { return c.state }

func (c *PIDController) Integral() float64 { return c.integral }

// Gains returns the effective gains for display.
func (c *PIDController) Gains() map[string]float64 { return c.gains() }

// AnglePIDController is a PID controller on the shortest angular error, in
// radians. Its derivative follows the error across the ±π seam.
type AnglePIDController struct {
	pid
	timer     *timing.StopWatch
	lastError geom.Angle
}

func AnglePID(p, i, d tunable.Number, opts ...Option) *AnglePIDController {
	return &AnglePIDController{
		pid:   newPID(p, i, d),
		timer: newOptions(opts).timer(),
	}
}

func (c *AnglePIDController) UpdateAngle(setpoint, measurement geom.Angle) float64 {
	err := setpoint.Sub(measurement)
	dt := c.timer.Reset()

	rate := err.VelocityRadians(c.lastError, dt)
	c.lastError = err

	return c.calculate(err.Radians(), rate, dt)
}

func (c *AnglePIDController) SetIntegratorFilter(rng, limit tunable.Number) *AnglePIDController {
	c.iRange, c.iLimit = tunable.Of(rng), tunable.Of(limit)
	return c
}

func (c *AnglePIDController) SetDerivativeFilter(filters ...filter.Filter[float64]) *AnglePIDController {
	c.dFilter = filter.Chain(filters...)
	return c
}

func (c *AnglePIDController) Reset() {
	c.integral = 0
	c.lastError = geom.Zero
	c.state = Fresh
	c.timer.Reset()
}

func (c *AnglePIDController) State() State { return c.state }

func (c *AnglePIDController) Gains() map[string]float64 { return c.gains() }
