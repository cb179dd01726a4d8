package control

import (
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// BangBangController outputs Positive while the measurement is below the
// setpoint and Negative otherwise.
type BangBangController struct {
	Positive float64
	Negative float64
}

func BangBang(positive, negative float64) *BangBangController {
	return &BangBangController{Positive: positive, Negative: negative}
}

func (b *BangBangController) Update(setpoint, measurement float64) float64 {
	if setpoint > measurement {
		return b.Positive
	}
	return b.Negative
}

// TBHController is a take-back-half velocity controller. The output
// integrates the error; each time the error changes sign the output is
// set halfway between its current value and its value at the previous
// crossing.
type TBHController struct {
	gain  tunable.Number
	timer *timing.StopWatch

	tbh       float64
	prevError float64
	output    float64
}

func TBH(gain tunable.Number, opts ...Option) *TBHController {
	return &TBHController{
		gain:  tunable.Of(gain),
		timer: newOptions(opts).timer(),
	}
}

func (c *TBHController) Update(setpoint, measurement float64) float64 {
	err := setpoint - measurement
	c.output += c.gain.Value() * err * c.timer.Reset()

	if (err < 0) != (c.prevError < 0) {
		c.output = 0.5 * (c.output + c.tbh)
		c.tbh = c.output
		c.prevError = err
	}
	return c.output
}

func (c *TBHController) Reset() {
	c.tbh = 0
	c.prevError = 0
	c.output = 0
	c.timer.Reset()
}
