package control

// None always outputs zero. It stands in for a missing feedback or
// feedforward stage.
type None struct{}

func (None) Update(setpoint, measurement float64) float64 { return 0 }
