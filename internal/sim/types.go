package sim

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
)

var ErrInvalidState = errors.New("sim: invalid state")

// Step changes the setpoint to Value at time At.
type Step struct {
	At    float64 `yaml:"at" json:"at"`
	Value float64 `yaml:"value" json:"value"`
}

// Schedule is a piecewise constant setpoint. Before the first step the
// setpoint is zero.
type Schedule []Step

func (s Schedule) At(t float64) float64 {
	v := 0.0
	for _, step := range s.sorted() {
		if step.At > t {
			break
		}
		v = step.Value
	}
	return v
}

// Final returns the last value the schedule settles to.
func (s Schedule) Final() float64 {
	sorted := s.sorted()
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)-1].Value
}

func (s Schedule) sorted() Schedule {
	if sort.SliceIsSorted(s, func(i, j int) bool { return s[i].At < s[j].At }) {
		return s
	}
	c := make(Schedule, len(s))
	copy(c, s)
	sort.SliceStable(c, func(i, j int) bool { return c[i].At < c[j].At })
	return c
}

// Sample is one iteration of the loop: what the controller saw and what
// it commanded.
type Sample struct {
	Step        int
	Time        float64
	Setpoint    float64
	Measurement float64
	Output      float64
	State       plant.State
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

type Config struct {
	Dt            float64 `yaml:"dt" json:"dt"`
	Duration      float64 `yaml:"duration" json:"duration"`
	ValidateState bool    `yaml:"validate_state" json:"validate_state"`
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.02,
		Duration:      5.0,
		ValidateState: true,
	}
}

type Result struct {
	Times        []float64
	Setpoints    []float64
	Measurements []float64
	Outputs      []float64
	States       []plant.State
	Metrics      map[string]float64
	StepsTaken   int
}

// Len returns the number of recorded samples.
func (r *Result) Len() int { return len(r.Times) }

// Sample returns the i-th recorded sample.
func (r *Result) Sample(i int) Sample {
	return Sample{
		Step:        i,
		Time:        r.Times[i],
		Setpoint:    r.Setpoints[i],
		Measurement: r.Measurements[i],
		Output:      r.Outputs[i],
		State:       r.States[i],
	}
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidState.
func (e SimError) Unwrap() error { return ErrInvalidState }
