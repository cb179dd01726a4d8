package control_test

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StuyPulse/StuyLib-sub001/internal/control"
	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

const loop = 20 * time.Millisecond

var _ = Describe("PID", func() {
	var mock *clock.Mock

	BeforeEach(func() {
		mock = clock.NewMock()
	})

	It("returns the proportional step response exactly", func() {
		pid := control.PID(tunable.Const(1), tunable.Const(0), tunable.Const(0), control.WithClock(mock))
		Expect(pid.State()).To(Equal(control.Fresh))

		mock.Add(loop)
		Expect(pid.Update(10, 0)).To(Equal(10.0))
		Expect(pid.State()).To(Equal(control.Running))
	})

	It("drops to proportional only after a stale gap", func() {
		pid := control.PID(tunable.Const(2), tunable.Const(1), tunable.Const(1), control.WithClock(mock))

		for i := 0; i < 10; i++ {
			mock.Add(loop)
			pid.Update(5, float64(i))
		}
		Expect(pid.Integral()).NotTo(BeZero())

		mock.Add(600 * time.Millisecond)
		Expect(pid.Update(10, 7)).To(Equal(6.0))
		Expect(pid.Integral()).To(BeZero())
		Expect(pid.State()).To(Equal(control.Fresh))

		mock.Add(loop)
		pid.Update(10, 7)
		Expect(pid.State()).To(Equal(control.Running))
	})

	It("treats exactly the threshold as stale", func() {
		pid := control.PID(tunable.Const(1), tunable.Const(5), tunable.Const(5), control.WithClock(mock))
		mock.Add(500 * time.Millisecond)
		Expect(pid.Update(3, 0)).To(Equal(3.0))
	})

	It("integrates and differentiates the error", func() {
		pid := control.PID(tunable.Const(0), tunable.Const(1), tunable.Const(0), control.WithClock(mock))
		mock.Add(100 * time.Millisecond)
		Expect(pid.Update(2, 0)).To(BeNumerically("~", 0.2, 1e-12))
		mock.Add(100 * time.Millisecond)
		Expect(pid.Update(2, 0)).To(BeNumerically("~", 0.4, 1e-12))

		d := control.PID(tunable.Const(0), tunable.Const(0), tunable.Const(1), control.WithClock(mock))
		mock.Add(100 * time.Millisecond)
		Expect(d.Update(1, 0)).To(BeNumerically("~", 10, 1e-9))
		mock.Add(100 * time.Millisecond)
		Expect(d.Update(1, 0)).To(BeNumerically("~", 0, 1e-9))
	})

	It("clamps negative gains to zero", func() {
		pid := control.PID(tunable.Const(-3), tunable.Const(-1), tunable.Const(-1), control.WithClock(mock))
		mock.Add(loop)
		Expect(pid.Update(10, 0)).To(BeZero())
		Expect(pid.Gains()).To(HaveKeyWithValue("kP", 0.0))
	})

	It("reads live gains at the moment of use", func() {
		kP := tunable.NewValue(1)
		pid := control.PID(kP, nil, nil, control.WithClock(mock))

		mock.Add(loop)
		Expect(pid.Update(4, 0)).To(Equal(4.0))

		kP.Set(2)
		mock.Add(loop)
		Expect(pid.Update(4, 0)).To(Equal(8.0))
	})

	It("gates and clamps the integrator", func() {
		pid := control.PID(tunable.Const(0), tunable.Const(1), tunable.Const(0), control.WithClock(mock)).
			SetIntegratorFilter(tunable.Const(1), tunable.Const(0.05))

		mock.Add(100 * time.Millisecond)
		Expect(pid.Update(5, 0)).To(BeZero())

		for i := 0; i < 10; i++ {
			mock.Add(100 * time.Millisecond)
			pid.Update(0.5, 0)
		}
		Expect(pid.Integral()).To(BeNumerically("~", 0.05, 1e-12))
	})

	It("filters the derivative", func() {
		pid := control.PID(tunable.Const(0), tunable.Const(0), tunable.Const(1), control.WithClock(mock)).
			SetDerivativeFilter(filter.Clamp(tunable.Const(1)))

		mock.Add(loop)
		Expect(pid.Update(10, 0)).To(Equal(1.0))
	})

	It("resets", func() {
		pid := control.PID(tunable.Const(0), tunable.Const(1), tunable.Const(0), control.WithClock(mock))
		mock.Add(loop)
		pid.Update(1, 0)
		pid.Reset()
		Expect(pid.Integral()).To(BeZero())
		Expect(pid.State()).To(Equal(control.Fresh))
		Expect(pid.State().String()).To(Equal("fresh"))
	})
})

var _ = Describe("AnglePID", func() {
	It("works on the shortest arc", func() {
		mock := clock.NewMock()
		pid := control.AnglePID(tunable.Const(1), tunable.Const(0), tunable.Const(0), control.WithClock(mock))

		mock.Add(loop)
		out := pid.UpdateAngle(geom.FromDegrees(-179), geom.FromDegrees(179))
		Expect(out).To(BeNumerically("~", geom.FromDegrees(2).Radians(), 1e-9))
	})

	It("differentiates across the seam", func() {
		mock := clock.NewMock()
		pid := control.AnglePID(tunable.Const(0), tunable.Const(0), tunable.Const(1), control.WithClock(mock))

		mock.Add(loop)
		pid.UpdateAngle(geom.FromDegrees(179), geom.Zero)
		mock.Add(loop)
		out := pid.UpdateAngle(geom.FromDegrees(-179), geom.Zero)

		Expect(out).To(BeNumerically("~", geom.FromDegrees(2).Radians()/loop.Seconds(), 1e-6))
	})

	It("resets after a stale gap", func() {
		mock := clock.NewMock()
		pid := control.AnglePID(tunable.Const(2), tunable.Const(1), tunable.Const(1), control.WithClock(mock))

		mock.Add(time.Second)
		out := pid.UpdateAngle(geom.HalfPi, geom.Zero)
		Expect(out).To(BeNumerically("~", math.Pi, 1e-12))
		Expect(pid.State()).To(Equal(control.Fresh))
	})
})
