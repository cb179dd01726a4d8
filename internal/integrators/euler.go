package integrators

import "github.com/StuyPulse/StuyLib-sub001/internal/plant"

// Euler is the explicit first-order method. It is only here for
// comparison; the loop runner defaults to RK4.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys plant.System, x plant.State, u, t, dt float64) plant.State {
	return x.Add(sys.Derive(x, u, t).Scale(dt))
}
