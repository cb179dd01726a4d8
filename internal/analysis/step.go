package analysis

import (
	"math"

	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

// NotReached marks a rise time that never completed.
const NotReached = -1.0

// StepResponse describes how a run answered its last setpoint change.
type StepResponse struct {
	Start    float64 `json:"start"`
	Target   float64 `json:"target"`
	StepTime float64 `json:"step_time"`
	// RiseTime is the 10% to 90% time, or NotReached.
	RiseTime float64 `json:"rise_time"`
	PeakTime float64 `json:"peak_time"`
	// Peak is the furthest the measurement went toward and past the target.
	Peak             float64 `json:"peak"`
	SteadyStateError float64 `json:"steady_state_error"`
}

// NewStepResponse measures the response after the last setpoint change of
// result. The steady-state error is the mean |error| over the final tenth
// of the run. It returns false for an empty result.
func NewStepResponse(result *sim.Result) (StepResponse, bool) {
	n := 0
	if result != nil {
		n = result.Len()
	}
	if n == 0 {
		return StepResponse{}, false
	}

	first := 0
	for i := n - 1; i > 0; i-- {
		if result.Setpoints[i] != result.Setpoints[i-1] {
			first = i
			break
		}
	}

	r := StepResponse{
		Start:    result.Measurements[max(first-1, 0)],
		Target:   result.Setpoints[n-1],
		StepTime: result.Times[first],
		RiseTime: NotReached,
	}

	span := r.Target - r.Start
	dir := 1.0
	if span < 0 {
		dir = -1
	}

	low, high := NotReached, NotReached
	r.Peak = r.Start
	for i := first; i < n; i++ {
		m, t := result.Measurements[i], result.Times[i]
		progress := 0.0
		if span != 0 {
			progress = (m - r.Start) / span
		}
		if low == NotReached && progress >= 0.1 {
			low = t
		}
		if high == NotReached && progress >= 0.9 {
			high = t
		}
		if (m-r.Peak)*dir > 0 {
			r.Peak, r.PeakTime = m, t
		}
	}
	if low != NotReached && high != NotReached {
		r.RiseTime = high - low
	}

	tail := max(n/10, 1)
	sum := 0.0
	for i := n - tail; i < n; i++ {
		sum += math.Abs(result.Setpoints[i] - result.Measurements[i])
	}
	r.SteadyStateError = sum / float64(tail)
	return r, true
}

// Overshoot is how far Peak went past Target, as a fraction of the step.
func (r StepResponse) Overshoot() float64 {
	span := r.Target - r.Start
	if span == 0 {
		return 0
	}
	return math.Max(0, (r.Peak-r.Target)/span)
}
