package plant

import "github.com/StuyPulse/StuyLib-sub001/internal/geom"

// Turret rotates freely. Its sensor reports the heading wrapped to
// (-π, π], so a controller has to handle the seam.
type Turret struct {
	Motor
}

func NewTurret() *Turret {
	return &Turret{Motor: Motor{KS: 0.15, KV: 1.5, KA: 0.08, MaxVoltage: DefaultMaxVoltage}}
}

func (r *Turret) Name() string  { return "turret" }
func (r *Turret) StateDim() int { return 2 }

func (r *Turret) Derive(x State, u float64, t float64) State {
	return State{x[1], r.accel(u, x[1], 0)}
}

func (r *Turret) Measure(x State) float64 { return r.MeasureAngle(x).Radians() }

func (r *Turret) MeasureAngle(x State) geom.Angle { return geom.FromRadians(x[0]) }

func (r *Turret) Params() map[string]float64 {
	return r.params(map[string]float64{})
}

func (r *Turret) SetParam(name string, value float64) error {
	return r.setParam(name, value)
}
