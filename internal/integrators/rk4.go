package integrators

import "github.com/StuyPulse/StuyLib-sub001/internal/plant"

// RK4 holds its stage buffers between steps. It is not safe for use by
// more than one loop at a time.
type RK4 struct {
	k1, k2, k3, k4 plant.State
	scratch        plant.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(plant.State, n)
		r.k2 = make(plant.State, n)
		r.k3 = make(plant.State, n)
		r.k4 = make(plant.State, n)
		r.scratch = make(plant.State, n)
	}
}

// stage fills scratch with x + h·k.
func (r *RK4) stage(x, k plant.State, h float64) plant.State {
	for i := range x {
		r.scratch[i] = x[i] + h*k[i]
	}
	return r.scratch
}

// Step holds u constant over the interval, as a motor controller would
// between loop iterations.
func (r *RK4) Step(sys plant.System, x plant.State, u, t, dt float64) plant.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, u, t))
	copy(r.k2, sys.Derive(r.stage(x, r.k1, dt*0.5), u, t+dt*0.5))
	copy(r.k3, sys.Derive(r.stage(x, r.k2, dt*0.5), u, t+dt*0.5))
	copy(r.k4, sys.Derive(r.stage(x, r.k3, dt), u, t+dt))

	result := make(plant.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result
}
