package experiment

import (
	"sort"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/config"
	"github.com/StuyPulse/StuyLib-sub001/internal/control"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

var (
	ErrUnknownController = errors.New("experiment: unknown controller")
	ErrUnsupported       = errors.New("experiment: controller not supported for mechanism")
)

// Context is what a controller builder draws on: the loop's clock, the
// mechanism and the live gains.
type Context struct {
	Config   *config.Config
	System   plant.System
	X0       plant.State
	Clock    clock.Clock
	Tunables *tunable.Table
	Manual   *control.ManualController
}

func (c *Context) Options() []control.Option {
	return []control.Option{control.WithClock(c.Clock)}
}

// Gain returns the live tunable for a gain, seeded from the config.
func (c *Context) Gain(name string) tunable.Number {
	return c.Tunables.Number(name, c.Config.GainsMap()[name])
}

func (c *Context) angular() bool {
	_, ok := c.System.(plant.Angular)
	return ok
}

// Builders produce either a linear or an angular controller for a
// mechanism. Exactly one of the results is non-nil on success.
type Builder func(c *Context) (control.Controller, control.AngleController, error)

type Registry struct {
	controllers map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{controllers: make(map[string]Builder)}

	r.controllers["none"] = adapt(func(*Context) (control.Controller, error) { return control.None{}, nil })
	r.controllers["manual"] = adapt(func(c *Context) (control.Controller, error) { return c.Manual, nil })
	r.controllers["bangbang"] = adapt(func(c *Context) (control.Controller, error) {
		g := c.Config.Gains.BangBang
		return control.BangBang(g, -g), nil
	})
	r.controllers["tbh"] = adapt(func(c *Context) (control.Controller, error) {
		return control.TBH(c.Gain("tbh"), c.Options()...), nil
	})
	r.controllers["pid"] = buildPID
	r.controllers["feedforward"] = buildFeedforward
	r.controllers["pidff"] = buildPIDFeedforward

	return r
}

// Register adds or replaces a controller builder.
func (r *Registry) Register(name string, b Builder) {
	r.controllers[name] = b
}

func (r *Registry) Build(name string, c *Context) (control.Controller, control.AngleController, error) {
	b, ok := r.controllers[name]
	if !ok {
		return nil, nil, errors.Wrap(ErrUnknownController, name)
	}
	return b(c)
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// adapt lifts a linear controller to angular mechanisms, where it sees
// the wrapped error in radians.
func adapt(fn func(c *Context) (control.Controller, error)) Builder {
	return func(c *Context) (control.Controller, control.AngleController, error) {
		ctrl, err := fn(c)
		if err != nil {
			return nil, nil, err
		}
		if c.angular() {
			return nil, control.NewAngle(ctrl), nil
		}
		return ctrl, nil, nil
	}
}

func buildPID(c *Context) (control.Controller, control.AngleController, error) {
	g := c.Config.Gains
	var dFilter []filterFloat
	if g.DerivativeRC > 0 {
		dFilter = append(dFilter, lowPass(g.DerivativeRC, c.Clock))
	}

	if c.angular() {
		pid := control.AnglePID(c.Gain("kp"), c.Gain("ki"), c.Gain("kd"), c.Options()...).
			SetIntegratorFilter(c.Gain("i_range"), c.Gain("i_limit")).
			SetDerivativeFilter(dFilter...)
		return nil, pid, nil
	}
	pid := control.PID(c.Gain("kp"), c.Gain("ki"), c.Gain("kd"), c.Options()...).
		SetIntegratorFilter(c.Gain("i_range"), c.Gain("i_limit")).
		SetDerivativeFilter(dFilter...)
	return pid, nil, nil
}

func buildFeedforward(c *Context) (control.Controller, control.AngleController, error) {
	ks, kv, ka, kg := c.Gain("ks"), c.Gain("kv"), c.Gain("ka"), c.Gain("kg")

	switch c.System.Name() {
	case "flywheel":
		return control.MotorFeedforward(ks, kv, ka, c.Options()...).Velocity(), nil, nil
	case "elevator":
		return control.ElevatorFeedforward(kg, ks, kv, ka, c.Options()...).Position(), nil, nil
	case "arm":
		return nil, control.NewArmFeedforward(kg, ks, kv, ka, c.Options()...).Angle(), nil
	case "turret":
		return nil, control.MotorFeedforward(ks, kv, ka, c.Options()...).Angle(), nil
	}
	return nil, nil, errors.Wrapf(ErrUnsupported, "feedforward for %s", c.System.Name())
}

func buildPIDFeedforward(c *Context) (control.Controller, control.AngleController, error) {
	pid, anglePID, err := buildPID(c)
	if err != nil {
		return nil, nil, err
	}
	ff, angleFF, err := buildFeedforward(c)
	if err != nil {
		return nil, nil, err
	}

	if anglePID != nil {
		group, err := control.AngleGroup(anglePID, angleFF)
		return nil, group, err
	}
	group, err := control.Group(pid, ff)
	return group, nil, err
}
