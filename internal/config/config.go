package config

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/StuyPulse/StuyLib-sub001/internal/integrators"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 3.0
	DefaultKp       = 0.5
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Controllers lists the accepted values of Config.Controller.
var Controllers = []string{"pid", "pidff", "feedforward", "bangbang", "tbh", "manual", "none"}

// Config describes one closed-loop experiment.
type Config struct {
	Mechanism  string             `yaml:"mechanism"`
	Integrator string             `yaml:"integrator"`
	Controller string             `yaml:"controller"`
	Sim        sim.Config         `yaml:"sim"`
	Setpoints  sim.Schedule       `yaml:"setpoints"`
	InitState  []float64          `yaml:"init_state,omitempty"`
	Plant      map[string]float64 `yaml:"plant,omitempty"`
	Gains      GainsConfig        `yaml:"gains"`
	Profile    ProfileConfig      `yaml:"profile"`
	Filters    FilterConfig       `yaml:"filters"`
	Metrics    MetricsConfig      `yaml:"metrics"`
}

// GainsConfig holds every controller constant. Unused ones are ignored by
// the selected controller.
type GainsConfig struct {
	Kp           float64 `yaml:"kp"`
	Ki           float64 `yaml:"ki"`
	Kd           float64 `yaml:"kd"`
	IRange       float64 `yaml:"i_range"`
	ILimit       float64 `yaml:"i_limit"`
	DerivativeRC float64 `yaml:"derivative_rc"`
	Ks           float64 `yaml:"ks"`
	Kv           float64 `yaml:"kv"`
	Ka           float64 `yaml:"ka"`
	Kg           float64 `yaml:"kg"`
	TBH          float64 `yaml:"tbh"`
	BangBang     float64 `yaml:"bang_bang"`
}

// ProfileConfig limits how fast the setpoint moves. Zero disables the
// profile.
type ProfileConfig struct {
	MaxVelocity     float64 `yaml:"max_velocity"`
	MaxAcceleration float64 `yaml:"max_acceleration"`
}

func (p ProfileConfig) Enabled() bool {
	return p.MaxVelocity > 0 || p.MaxAcceleration > 0
}

type FilterConfig struct {
	MeasurementRC   float64 `yaml:"measurement_rc"`
	OutputRateLimit float64 `yaml:"output_rate_limit"`
}

type MetricsConfig struct {
	Tolerance float64 `yaml:"tolerance"`
}

func DefaultConfig() *Config {
	return &Config{
		Mechanism:  "flywheel",
		Integrator: integrators.Default,
		Controller: "pidff",
		Sim: sim.Config{
			Dt:            DefaultDt,
			Duration:      DefaultDuration,
			ValidateState: true,
		},
		Setpoints: sim.Schedule{{At: 0, Value: 50}},
		Gains: GainsConfig{
			Kp: DefaultKp,
			Ks: 0.1,
			Kv: 0.12,
			Ka: 0.02,
		},
		Metrics: MetricsConfig{Tolerance: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var err error

	sys, sysErr := plant.New(c.Mechanism)
	err = multierr.Append(err, sysErr)
	if _, integErr := integrators.New(c.Integrator); integErr != nil {
		err = multierr.Append(err, integErr)
	}
	if !knownController(c.Controller) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "unknown controller %q", c.Controller))
	}
	err = multierr.Append(err, c.Sim.Validate())

	if sys != nil {
		if c.InitState != nil && len(c.InitState) != sys.StateDim() {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig,
				"%s has %d states, init_state has %d", c.Mechanism, sys.StateDim(), len(c.InitState)))
		}
		if p, ok := sys.(plant.Configurable); ok {
			for name, value := range c.Plant {
				err = multierr.Append(err, p.SetParam(name, value))
			}
		}
	}

	for name, v := range map[string]float64{
		"gains.kp":                  c.Gains.Kp,
		"gains.ki":                  c.Gains.Ki,
		"gains.kd":                  c.Gains.Kd,
		"gains.i_range":             c.Gains.IRange,
		"gains.i_limit":             c.Gains.ILimit,
		"gains.derivative_rc":       c.Gains.DerivativeRC,
		"gains.tbh":                 c.Gains.TBH,
		"profile.max_velocity":      c.Profile.MaxVelocity,
		"profile.max_acceleration":  c.Profile.MaxAcceleration,
		"filters.measurement_rc":    c.Filters.MeasurementRC,
		"filters.output_rate_limit": c.Filters.OutputRateLimit,
		"metrics.tolerance":         c.Metrics.Tolerance,
	} {
		if v < 0 {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "%s must not be negative, got %v", name, v))
		}
	}
	return err
}

func knownController(name string) bool {
	for _, c := range Controllers {
		if c == name {
			return true
		}
	}
	return false
}

// GetInitState returns the initial state, zero when none is configured.
func (c *Config) GetInitState() plant.State {
	if c.InitState == nil {
		return nil
	}
	return plant.State(c.InitState).Clone()
}

// Tunables seeds t with the gains so they can be adjusted while a loop
// runs. Existing entries keep their values.
func (c *Config) Tunables(t *tunable.Table) *tunable.Table {
	if t == nil {
		t = tunable.NewTable()
	}
	for name, v := range c.GainsMap() {
		t.Number(name, v)
	}
	return t
}

// GainsMap names every gain the way the tunable table and the grid search
// refer to it.
func (c *Config) GainsMap() map[string]float64 {
	g := c.Gains
	return map[string]float64{
		"kp":        g.Kp,
		"ki":        g.Ki,
		"kd":        g.Kd,
		"i_range":   g.IRange,
		"i_limit":   g.ILimit,
		"ks":        g.Ks,
		"kv":        g.Kv,
		"ka":        g.Ka,
		"kg":        g.Kg,
		"tbh":       g.TBH,
		"bang_bang": g.BangBang,
	}
}

// SetGain sets a gain by its GainsMap name.
func (c *Config) SetGain(name string, v float64) error {
	g := &c.Gains
	switch name {
	case "kp":
		g.Kp = v
	case "ki":
		g.Ki = v
	case "kd":
		g.Kd = v
	case "i_range":
		g.IRange = v
	case "i_limit":
		g.ILimit = v
	case "ks":
		g.Ks = v
	case "kv":
		g.Kv = v
	case "ka":
		g.Ka = v
	case "kg":
		g.Kg = v
	case "tbh":
		g.TBH = v
	case "bang_bang":
		g.BangBang = v
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown gain %q", name)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Setpoints = append(sim.Schedule(nil), c.Setpoints...)
	if c.InitState != nil {
		cp.InitState = append([]float64(nil), c.InitState...)
	}
	if c.Plant != nil {
		cp.Plant = make(map[string]float64, len(c.Plant))
		for k, v := range c.Plant {
			cp.Plant[k] = v
		}
	}
	return &cp
}
