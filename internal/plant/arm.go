package plant

import (
	"math"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
)

// Arm is a single jointed arm. Gravity produces kG·cos(θ) volts of load,
// with θ = 0 horizontal. Measure reads θ in radians.
type Arm struct {
	Motor
	KG float64
}

func NewArm() *Arm {
	return &Arm{
		Motor: Motor{KS: 0.1, KV: 1.2, KA: 0.05, MaxVoltage: DefaultMaxVoltage},
		KG:    0.8,
	}
}

func (a *Arm) Name() string  { return "arm" }
func (a *Arm) StateDim() int { return 2 }

func (a *Arm) Derive(x State, u float64, t float64) State {
	return State{x[1], a.accel(u, x[1], a.KG*math.Cos(x[0]))}
}

func (a *Arm) Measure(x State) float64 { return a.MeasureAngle(x).Radians() }

func (a *Arm) MeasureAngle(x State) geom.Angle { return geom.FromRadians(x[0]) }

func (a *Arm) Params() map[string]float64 {
	p := a.params(map[string]float64{})
	p["kG"] = a.KG
	return p
}

func (a *Arm) SetParam(name string, value float64) error {
	if name == "kG" {
		a.KG = value
		return nil
	}
	return a.setParam(name, value)
}
