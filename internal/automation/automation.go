// Package automation runs batches of loops: scripted scenarios, sweeps of
// a plant parameter, and Monte Carlo robustness checks against plant
// mismatch.
package automation

import (
	"context"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/StuyPulse/StuyLib-sub001/internal/config"
	"github.com/StuyPulse/StuyLib-sub001/internal/experiment"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
	"github.com/StuyPulse/StuyLib-sub001/internal/metrics"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted list of loops, loaded from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep names a preset as mechanism/preset, or gives a full
// config. Gains and Plant override either.
type ScenarioStep struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset,omitempty"`
	Config *config.Config     `yaml:"config,omitempty"`
	Gains  map[string]float64 `yaml:"gains,omitempty"`
	Plant  map[string]float64 `yaml:"plant,omitempty"`
}

// StepResult pairs a step with the config it ran and its result.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &scenario, nil
}

// Resolve builds the config a step runs.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != nil:
		cfg = s.Config.Clone()
	case s.Preset != "":
		mech, name, ok := strings.Cut(s.Preset, "/")
		if !ok {
			return nil, errors.Wrapf(config.ErrInvalidConfig, "preset %q is not mechanism/preset", s.Preset)
		}
		cfg = config.GetPreset(mech, name)
		if cfg == nil {
			return nil, errors.Wrapf(config.ErrInvalidConfig, "unknown preset %q", s.Preset)
		}
	default:
		return nil, errors.Wrapf(config.ErrInvalidConfig, "step %q has neither preset nor config", s.Name)
	}

	for name, v := range s.Gains {
		if err := cfg.SetGain(name, v); err != nil {
			return nil, err
		}
	}
	if len(s.Plant) > 0 && cfg.Plant == nil {
		cfg.Plant = make(map[string]float64, len(s.Plant))
	}
	for name, v := range s.Plant {
		cfg.Plant[name] = v
	}
	return cfg, cfg.Validate()
}

// RunScenario runs every step, at most workers at a time. Results are in
// step order. The first failing step cancels the rest.
func RunScenario(ctx context.Context, scenario *Scenario, workers int, logger *zap.SugaredLogger) ([]StepResult, error) {
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	logger = logging.OrGlobal(logger).Named("automation")

	out := make([]StepResult, len(scenario.Steps))
	jobs := make([]sim.Job, len(scenario.Steps))
	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i+1)
		}
		name := step.Name
		if name == "" {
			name = cfg.Mechanism + "/" + cfg.Controller
		}
		out[i] = StepResult{Name: name, Config: cfg}
		jobs[i] = job(name, cfg, logger)
	}

	logger.Infow("running scenario", "name", scenario.Name, "steps", len(jobs))
	results, err := sim.RunAll(ctx, jobs, workers)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Result = results[i]
	}
	return out, nil
}

func job(name string, cfg *config.Config, logger *zap.SugaredLogger) sim.Job {
	return sim.Job{
		Name: name,
		Build: func() (*sim.Simulator, sim.Loop, error) {
			exp, err := experiment.New(cfg, experiment.WithLogger(logger))
			if err != nil {
				return nil, sim.Loop{}, err
			}
			return exp.GetSimulator(), exp.Loop(), nil
		},
	}
}

// ParameterSweep runs one loop across a range of a plant parameter, to see
// how far the real mechanism may drift from the model the gains were
// tuned on.
type ParameterSweep struct {
	Base   *config.Config
	Param  string
	Values []float64
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
	// Err is set when the loop went unstable at this value.
	Err error
}

// Run sweeps Param. Unstable points are reported in their SweepResult,
// not as an error.
func (s *ParameterSweep) Run(ctx context.Context, logger *zap.SugaredLogger) ([]SweepResult, error) {
	logger = logging.OrGlobal(logger).Named("automation")
	if err := checkParam(s.Base.Mechanism, s.Param); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, len(s.Values))
	for _, v := range s.Values {
		cfg := s.Base.Clone()
		if cfg.Plant == nil {
			cfg.Plant = make(map[string]float64, 1)
		}
		cfg.Plant[s.Param] = v

		r := SweepResult{Value: v}
		exp, err := experiment.New(cfg, experiment.WithLogger(logger))
		if err != nil {
			return nil, errors.Wrapf(err, "%s=%g", s.Param, v)
		}
		res, err := exp.Run(ctx)
		switch {
		case errors.Is(err, sim.ErrInvalidState):
			r.Err = err
		case err != nil:
			return nil, err
		}
		if res != nil {
			r.Metrics = res.Metrics
		}
		results = append(results, r)
		logger.Debugw("sweep point", s.Param, v, "metrics", r.Metrics)
	}
	return results, nil
}

func checkParam(mechanism, param string) error {
	sys, err := plant.New(mechanism)
	if err != nil {
		return err
	}
	c, ok := sys.(plant.Configurable)
	if !ok {
		return errors.Wrapf(plant.ErrUnknownParam, "%s has no parameters", mechanism)
	}
	if _, ok := c.Params()[param]; !ok {
		return errors.Wrapf(plant.ErrUnknownParam, "%s has no parameter %q", mechanism, param)
	}
	return nil
}

// MonteCarloConfig scales each perturbed plant parameter by a uniform
// factor in [1-Spread, 1+Spread] per trial.
type MonteCarloConfig struct {
	Base   *config.Config
	Spread float64
	Trials int
	Seed   uint64
	// Params to perturb. Empty means every gain-like parameter, the ones
	// whose names start with "k".
	Params  []string
	Workers int
}

type MonteCarloResult struct {
	Trial   int
	Plant   map[string]float64
	Metrics map[string]float64
	Stable  bool
	Settled bool
}

// RunMonteCarlo draws every trial's plant up front from one seeded source,
// so a seed reproduces the same trials regardless of scheduling.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *zap.SugaredLogger) ([]MonteCarloResult, error) {
	logger = logging.OrGlobal(logger).Named("automation")

	base, err := basePlant(cfg.Base)
	if err != nil {
		return nil, err
	}
	params := append([]string(nil), cfg.Params...)
	if len(params) == 0 {
		for name := range base {
			if strings.HasPrefix(name, "k") {
				params = append(params, name)
			}
		}
	}
	sort.Strings(params)
	for _, p := range params {
		if _, ok := base[p]; !ok {
			return nil, errors.Wrapf(plant.ErrUnknownParam, "%s has no parameter %q", cfg.Base.Mechanism, p)
		}
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	results := make([]MonteCarloResult, cfg.Trials)
	for i := range results {
		perturbed := make(map[string]float64, len(params))
		for _, p := range params {
			perturbed[p] = base[p] * (1 + (rng.Float64()*2-1)*cfg.Spread)
		}
		results[i] = MonteCarloResult{Trial: i, Plant: perturbed}
	}

	if err := runTrials(ctx, cfg.Base, results, cfg.Workers, logger); err != nil {
		return nil, err
	}

	stable, settled := MonteCarloStats(results)
	logger.Infow("monte carlo finished", "trials", len(results), "stable", stable, "settled", settled)
	return results, nil
}

// runTrials runs one loop per trial. State validation is off, so an
// unstable trial runs to the end and is marked by bounded instead of
// cancelling the others.
func runTrials(ctx context.Context, base *config.Config, trials []MonteCarloResult, workers int, logger *zap.SugaredLogger) error {
	jobs := make([]sim.Job, len(trials))
	for i := range trials {
		c := base.Clone()
		c.Sim.ValidateState = false
		if c.Plant == nil {
			c.Plant = make(map[string]float64, len(trials[i].Plant))
		}
		for name, v := range trials[i].Plant {
			c.Plant[name] = v
		}
		jobs[i] = job("trial", c, logger)
	}

	results, err := sim.RunAll(ctx, jobs, workers)
	if err != nil {
		return err
	}
	for i, res := range results {
		trials[i].Metrics = res.Metrics
		trials[i].Stable = bounded(res)
		st, ok := res.Metrics["settling_time"]
		trials[i].Settled = trials[i].Stable && ok && st != metrics.NeverSettled
	}
	return nil
}

// maxStateNorm bounds the state of a trial that is still considered stable.
const maxStateNorm = 1e6

// bounded reports whether every state stayed finite and within
// maxStateNorm.
func bounded(res *sim.Result) bool {
	for _, s := range res.States {
		if !s.IsValid() || s.Norm() > maxStateNorm {
			return false
		}
	}
	return true
}

func basePlant(cfg *config.Config) (map[string]float64, error) {
	sys, err := plant.New(cfg.Mechanism)
	if err != nil {
		return nil, err
	}
	c, ok := sys.(plant.Configurable)
	if !ok {
		return nil, errors.Wrapf(plant.ErrUnknownParam, "%s has no parameters", cfg.Mechanism)
	}
	for name, v := range cfg.Plant {
		if err := c.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return c.Params(), nil
}

// MonteCarloStats counts stable and settled trials.
func MonteCarloStats(results []MonteCarloResult) (stable, settled int) {
	for _, r := range results {
		if r.Stable {
			stable++
		}
		if r.Settled {
			settled++
		}
	}
	return
}
