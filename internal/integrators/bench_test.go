package integrators

import (
	"testing"

	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
)

func benchmarkStep(b *testing.B, name string, sys plant.System, x plant.State) {
	integ, err := New(name)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 1, 0, 0.02)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchmarkStep(b, "euler", plant.NewArm(), plant.State{0, 0})
}

func BenchmarkRK4(b *testing.B) {
	benchmarkStep(b, "rk4", plant.NewArm(), plant.State{0, 0})
}

func BenchmarkVerlet(b *testing.B) {
	benchmarkStep(b, "verlet", plant.NewArm(), plant.State{0, 0})
}

func BenchmarkRK4_Flywheel(b *testing.B) {
	benchmarkStep(b, "rk4", plant.NewFlywheel(), plant.State{0})
}
