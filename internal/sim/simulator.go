package sim

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
)

// Simulator runs one mechanism against a controller output stream. It is
// not safe for concurrent use; run independent loops on separate
// simulators (see RunAll).
type Simulator struct {
	sys        plant.System
	integrator plant.Integrator
	schedule   Schedule
	clock      *clock.Mock
	logger     *zap.SugaredLogger
	metrics    []Metric
	observers  []Observer

	x plant.State
	t float64
}

func New(sys plant.System, integrator plant.Integrator, schedule Schedule, opts ...Option) *Simulator {
	s := &Simulator{
		sys:        sys,
		integrator: integrator,
		schedule:   schedule,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		x:          make(plant.State, sys.StateDim()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.NewMock()
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Metrics returns the attached metrics. Their values are only meaningful
// from the goroutine running the loop, or after it returns.
func (s *Simulator) Metrics() []Metric { return s.metrics }

// Clock is the time source controllers in this loop must be built with.
func (s *Simulator) Clock() clock.Clock { return s.clock }

func (s *Simulator) System() plant.System { return s.sys }

// Setpoint streams the scheduled setpoint at the current simulated time.
func (s *Simulator) Setpoint() stream.Stream[float64] {
	return stream.Func[float64](func() float64 {
		return s.schedule.At(s.t)
	})
}

// Measurement streams the mechanism's sensor reading.
func (s *Simulator) Measurement() stream.Stream[float64] {
	return stream.Func[float64](func() float64 {
		return s.sys.Measure(s.x)
	})
}

// SetpointAngle streams the scheduled setpoint as an angle in radians.
func (s *Simulator) SetpointAngle() stream.Stream[geom.Angle] {
	return stream.AngleOf(s.Setpoint())
}

// MeasurementAngle streams the heading of an angular mechanism. Other
// mechanisms have their reading interpreted as radians.
func (s *Simulator) MeasurementAngle() stream.Stream[geom.Angle] {
	if a, ok := s.sys.(plant.Angular); ok {
		return stream.Func[geom.Angle](func() geom.Angle {
			return a.MeasureAngle(s.x)
		})
	}
	return stream.AngleOf(s.Measurement())
}

// Run steps the loop from x0 for cfg.Duration. The output stream is pulled
// once per step, after the clock has advanced by dt.
func (s *Simulator) Run(ctx context.Context, output stream.Stream[float64], x0 plant.State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.reset(x0); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		Times:        make([]float64, 0, steps),
		Setpoints:    make([]float64, 0, steps),
		Measurements: make([]float64, 0, steps),
		Outputs:      make([]float64, 0, steps),
		States:       make([]plant.State, 0, steps),
		Metrics:      make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Debugw("run started", "system", s.sys.Name(), "dt", cfg.Dt, "steps", steps)

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		sample := s.step(i, output, cfg.Dt)

		result.Times = append(result.Times, sample.Time)
		result.Setpoints = append(result.Setpoints, sample.Setpoint)
		result.Measurements = append(result.Measurements, sample.Measurement)
		result.Outputs = append(result.Outputs, sample.Output)
		result.States = append(result.States, sample.State)
		result.StepsTaken++

		if cfg.ValidateState && !s.x.IsValid() {
			runErr = SimError{Time: s.t, Step: i, Message: "state is NaN or Inf"}
			s.logger.Warnw("invalid state", "system", s.sys.Name(), "step", i, "t", s.t)
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debugw("run finished", "system", s.sys.Name(), "steps", result.StepsTaken, "metrics", result.Metrics)
	return result, runErr
}

// RunWithCallback steps the loop until the duration elapses or callback
// returns false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, output stream.Stream[float64], x0 plant.State, cfg Config, callback func(Sample) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.reset(x0); err != nil {
		return err
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.step(i, output, cfg.Dt)) {
			return nil
		}

		if cfg.ValidateState && !s.x.IsValid() {
			return SimError{Time: s.t, Step: i, Message: "state is NaN or Inf"}
		}
	}
	return nil
}

func (s *Simulator) reset(x0 plant.State) error {
	dim := s.sys.StateDim()
	switch {
	case x0 == nil:
		s.x = make(plant.State, dim)
	case len(x0) != dim:
		return errors.Wrapf(ErrInvalidState, "%s has %d states, got %d", s.sys.Name(), dim, len(x0))
	default:
		s.x = x0.Clone()
	}
	s.t = 0
	return nil
}

// step samples the loop at the current time, integrates over dt and
// returns the sample taken before integration.
func (s *Simulator) step(i int, output stream.Stream[float64], dt float64) Sample {
	s.clock.Add(seconds(dt))

	u := output.Get()
	sample := Sample{
		Step:        i,
		Time:        s.t,
		Setpoint:    s.schedule.At(s.t),
		Measurement: s.sys.Measure(s.x),
		Output:      u,
		State:       s.x.Clone(),
	}

	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}

	x := s.integrator.Step(s.sys, s.x, u, s.t, dt)
	if c, ok := s.sys.(plant.Constrained); ok {
		x = c.Constrain(x)
	}
	s.x = x
	s.t = float64(i+1) * dt
	return sample
}

// Steps returns the number of loop iterations in the configured duration.
func (c Config) Steps() int {
	return int(c.Duration/c.Dt + 1e-9)
}

func (c Config) Validate() error {
	var err error
	if c.Dt <= 0 {
		err = multierr.Append(err, errors.Errorf("dt must be positive, got %f", c.Dt))
	}
	if c.Duration <= 0 {
		err = multierr.Append(err, errors.Errorf("duration must be positive, got %f", c.Duration))
	}
	if err == nil && c.Dt > c.Duration {
		err = errors.Errorf("dt %f is longer than the duration %f", c.Dt, c.Duration)
	}
	return err
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
