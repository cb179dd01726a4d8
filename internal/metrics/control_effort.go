package metrics

import (
	"math"

	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

// ControlEffort is the mean absolute command.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s sim.Sample) {
	c.sum += math.Abs(s.Output)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Saturation is the fraction of samples where the command reached the
// limit.
type Saturation struct {
	name      string
	limit     float64
	saturated int
	samples   int
}

func NewSaturation(limit float64) *Saturation {
	return &Saturation{
		name:  "saturation",
		limit: math.Abs(limit),
	}
}

func (s *Saturation) Name() string {
	return s.name
}

func (s *Saturation) Observe(sample sim.Sample) {
	s.samples++
	if math.Abs(sample.Output) >= s.limit {
		s.saturated++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.saturated) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.saturated = 0
	s.samples = 0
}
