package integrators

import (
	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// Default is used when a configuration leaves the integrator blank.
const Default = "rk4"

// New returns a fresh integrator by name.
func New(name string) (plant.Integrator, error) {
	switch name {
	case "", "rk4":
		return NewRK4(), nil
	case "euler":
		return NewEuler(), nil
	case "verlet":
		return NewVerlet(), nil
	}
	return nil, errors.Wrap(ErrUnknownIntegrator, name)
}
