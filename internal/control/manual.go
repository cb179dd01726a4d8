package control

import (
	"go.uber.org/atomic"
)

// ManualController ignores its inputs and outputs a value set by the
// operator. The live view uses it to take over a running loop.
type ManualController struct {
	output *atomic.Float64
}

func NewManual() *ManualController {
	return &ManualController{output: atomic.NewFloat64(0)}
}

// SetOutput sets the value returned by Update. Safe for concurrent use.
func (c *ManualController) SetOutput(u float64) {
	c.output.Store(u)
}

func (c *ManualController) Update(setpoint, measurement float64) float64 {
	return c.output.Load()
}
