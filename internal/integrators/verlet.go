package integrators

import "github.com/StuyPulse/StuyLib-sub001/internal/plant"

// Verlet is velocity Verlet for states laid out as [positions...,
// velocities...]. Single-element states (a flywheel) have no position half
// and fall back to a trapezoidal velocity update.
type Verlet struct {
	scratch plant.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys plant.System, x plant.State, u, t, dt float64) plant.State {
	n := len(x)
	if len(v.scratch) != n {
		v.scratch = make(plant.State, n)
	}

	dx := sys.Derive(x, u, t)
	if n%2 != 0 {
		copy(v.scratch, x.Add(dx.Scale(dt)))
		dxNew := sys.Derive(v.scratch, u, t+dt)
		return x.Add(dx.Add(dxNew).Scale(0.5 * dt))
	}

	half := n / 2
	result := make(plant.State, n)
	dt2 := dt * dt
	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*dx[half+i]*dt2
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i] + dx[half+i]*dt
	}

	dxNew := sys.Derive(v.scratch, u, t+dt)
	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + (dx[half+i]+dxNew[half+i])*halfDt
	}
	return result
}
