package plant

import "github.com/pkg/errors"

// Elevator is a carriage lifted against gravity. Gravity appears as a
// constant voltage kG. Measure reads the height.
type Elevator struct {
	Motor
	KG        float64
	MinHeight float64
	MaxHeight float64
}

func NewElevator() *Elevator {
	return &Elevator{
		Motor:     Motor{KS: 0.2, KV: 3.0, KA: 0.4, MaxVoltage: DefaultMaxVoltage},
		KG:        0.6,
		MinHeight: 0,
		MaxHeight: 2.0,
	}
}

func (e *Elevator) Name() string  { return "elevator" }
func (e *Elevator) StateDim() int { return 2 }

func (e *Elevator) Derive(x State, u float64, t float64) State {
	return State{x[1], e.accel(u, x[1], e.KG)}
}

func (e *Elevator) Measure(x State) float64 { return x[0] }

// Constrain stops the carriage at the ends of its travel.
func (e *Elevator) Constrain(x State) State {
	switch {
	case x[0] < e.MinHeight:
		return State{e.MinHeight, max(x[1], 0)}
	case e.MaxHeight > e.MinHeight && x[0] > e.MaxHeight:
		return State{e.MaxHeight, min(x[1], 0)}
	}
	return x
}

func (e *Elevator) Params() map[string]float64 {
	p := e.params(map[string]float64{})
	p["kG"] = e.KG
	p["minHeight"] = e.MinHeight
	p["maxHeight"] = e.MaxHeight
	return p
}

func (e *Elevator) SetParam(name string, value float64) error {
	switch name {
	case "kG":
		e.KG = value
	case "minHeight":
		e.MinHeight = value
	case "maxHeight":
		if value < e.MinHeight {
			return errors.Wrapf(ErrParameterBounds, "maxHeight %v below minHeight %v", value, e.MinHeight)
		}
		e.MaxHeight = value
	default:
		return e.setParam(name, value)
	}
	return nil
}
