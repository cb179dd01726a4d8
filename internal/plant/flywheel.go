package plant

// Flywheel is a spinning wheel driven by a motor. Measure reads its
// velocity.
type Flywheel struct {
	Motor
}

func NewFlywheel() *Flywheel {
	return &Flywheel{Motor: Motor{KS: 0.1, KV: 0.12, KA: 0.02, MaxVoltage: DefaultMaxVoltage}}
}

func (f *Flywheel) Name() string  { return "flywheel" }
func (f *Flywheel) StateDim() int { return 1 }

func (f *Flywheel) Derive(x State, u float64, t float64) State {
	return State{f.accel(u, x[0], 0)}
}

func (f *Flywheel) Measure(x State) float64 { return x[0] }

func (f *Flywheel) Params() map[string]float64 {
	return f.params(map[string]float64{})
}

func (f *Flywheel) SetParam(name string, value float64) error {
	return f.setParam(name, value)
}
