package experiment

import (
	"context"
	"math"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/StuyPulse/StuyLib-sub001/internal/config"
	"github.com/StuyPulse/StuyLib-sub001/internal/control"
	"github.com/StuyPulse/StuyLib-sub001/internal/integrators"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
	"github.com/StuyPulse/StuyLib-sub001/internal/metrics"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// Experiment is one configured closed loop, ready to run.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	output    stream.Stream[float64]
	filtered  *control.Filtered
	tunables  *tunable.Table
	manual    *control.ManualController
	override  *atomic.Bool
	x0        plant.State
	logger    *zap.SugaredLogger
}

type Option func(*options)

type options struct {
	registry *Registry
	tunables *tunable.Table
	logger   *zap.SugaredLogger
	metrics  []sim.Metric
}

// WithRegistry builds controllers from r instead of the default registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithTunables shares a tunable table with the caller, so gains can be
// changed while the loop runs.
func WithTunables(t *tunable.Table) Option {
	return func(o *options) { o.tunables = t }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics replaces the default metrics.
func WithMetrics(m ...sim.Metric) Option {
	return func(o *options) { o.metrics = m }
}

func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = NewRegistry()
	}
	o.logger = logging.OrGlobal(o.logger).Named("experiment")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sys, err := plant.New(cfg.Mechanism)
	if err != nil {
		return nil, err
	}
	if p, ok := sys.(plant.Configurable); ok {
		for name, v := range cfg.Plant {
			if err := p.SetParam(name, v); err != nil {
				return nil, err
			}
		}
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	x0 := cfg.GetInitState()
	if x0 == nil {
		x0 = make(plant.State, sys.StateDim())
	}

	if o.metrics == nil {
		o.metrics = DefaultMetrics(cfg, sys)
	}

	mock := clock.NewMock()
	simulator := sim.New(sys, integ, cfg.Setpoints,
		sim.WithClock(mock),
		sim.WithLogger(o.logger.Named("sim")),
		sim.WithMetrics(o.metrics...),
	)

	e := &Experiment{
		cfg:       cfg,
		simulator: simulator,
		tunables:  cfg.Tunables(o.tunables),
		manual:    control.NewManual(),
		override:  atomic.NewBool(false),
		x0:        x0,
		logger:    o.logger,
	}

	bc := &Context{
		Config:   cfg,
		System:   sys,
		X0:       x0,
		Clock:    mock,
		Tunables: e.tunables,
		Manual:   e.manual,
	}
	linear, angular, err := o.registry.Build(cfg.Controller, bc)
	if err != nil {
		return nil, err
	}

	var out stream.Stream[float64]
	switch {
	case linear != nil:
		out, e.filtered, err = wireLinear(bc, simulator, linear)
	case angular != nil:
		out, err = wireAngular(bc, simulator, angular)
	default:
		err = errors.Wrapf(ErrUnsupported, "%s built no controller", cfg.Controller)
	}
	if err != nil {
		return nil, err
	}

	e.output = stream.Func[float64](func() float64 {
		if e.override.Load() {
			return e.manual.Update(0, 0)
		}
		return out.Get()
	})

	e.logger.Debugw("experiment ready", "mechanism", cfg.Mechanism, "controller", cfg.Controller, "integrator", cfg.Integrator)
	return e, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.output, e.x0, e.cfg.Sim)
}

func (e *Experiment) RunWithCallback(ctx context.Context, callback func(sim.Sample) bool) error {
	return e.simulator.RunWithCallback(ctx, e.output, e.x0, e.cfg.Sim, callback)
}

// Loop returns the experiment as a sim job loop.
func (e *Experiment) Loop() sim.Loop {
	return sim.Loop{Output: e.output, X0: e.x0, Config: e.cfg.Sim}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Tunables() *tunable.Table { return e.tunables }

// Filtered is the wrapper around a linear controller, nil for angular
// mechanisms.
func (e *Experiment) Filtered() *control.Filtered { return e.filtered }

// Override hands the loop to the manual controller until released. While
// overridden, the configured controller is not updated, so it sees a long
// gap on release.
func (e *Experiment) Override(on bool) { e.override.Store(on) }

func (e *Experiment) Overridden() bool { return e.override.Load() }

// SetManualOutput sets the command used while overridden.
func (e *Experiment) SetManualOutput(u float64) { e.manual.SetOutput(u) }

// DefaultMetrics scores tracking against the configured tolerance, with
// the error measured along the shortest arc for angular mechanisms.
func DefaultMetrics(cfg *config.Config, sys plant.System) []sim.Metric {
	errFn := metrics.Linear
	if _, ok := sys.(plant.Angular); ok {
		errFn = metrics.Angular
	}
	tol := cfg.Metrics.Tolerance
	if tol <= 0 {
		tol = math.Abs(cfg.Setpoints.Final()) * 0.02
	}
	return []sim.Metric{
		metrics.NewIntegratedAbsError(errFn),
		metrics.NewOvershoot(errFn),
		metrics.NewSettlingTime(tol, errFn),
		metrics.NewControlEffort(),
		metrics.NewSaturation(plant.DefaultMaxVoltage),
	}
}
