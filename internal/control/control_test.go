package control_test

import (
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StuyPulse/StuyLib-sub001/internal/control"
	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

var errorController = control.Func(func(setpoint, measurement float64) float64 {
	return setpoint - measurement
})

var _ = Describe("Feedforward", func() {
	var mock *clock.Mock

	BeforeEach(func() {
		mock = clock.NewMock()
	})

	It("computes the motor model from a velocity", func() {
		ff := control.MotorFeedforward(tunable.Const(0.5), tunable.Const(2), tunable.Const(0), control.WithClock(mock))
		c := ff.Velocity()

		mock.Add(loop)
		Expect(c.Update(3, 100)).To(Equal(6.5))
		Expect(c.Update(-3, 100)).To(Equal(-6.5))
		Expect(c.Update(0, 100)).To(Equal(0.0))
	})

	It("derives acceleration from successive velocities", func() {
		ff := control.MotorFeedforward(tunable.Const(0), tunable.Const(0), tunable.Const(1), control.WithClock(mock))
		Expect(ff.Calculate(0)).To(BeZero())

		mock.Add(500 * time.Millisecond)
		Expect(ff.Calculate(1)).To(Equal(2.0))
	})

	It("gives every decoration its own acceleration state", func() {
		ff := control.MotorFeedforward(tunable.Const(0), tunable.Const(0), tunable.Const(1), control.WithClock(mock))
		a, b := ff.Velocity(), ff.Velocity()

		mock.Add(500 * time.Millisecond)
		Expect(a.Update(1, 0)).To(Equal(2.0))
		Expect(b.Update(1, 0)).To(Equal(2.0))
	})

	It("differentiates a position setpoint", func() {
		ff := control.MotorFeedforward(tunable.Const(0), tunable.Const(1), tunable.Const(0), control.WithClock(mock))
		c := ff.Position()

		mock.Add(500 * time.Millisecond)
		Expect(c.Update(2, 0)).To(Equal(4.0))
		mock.Add(500 * time.Millisecond)
		Expect(c.Update(2, 0)).To(Equal(0.0))
	})

	It("adds gravity for an elevator", func() {
		ff := control.ElevatorFeedforward(tunable.Const(1.5), tunable.Const(0.1), tunable.Const(1), tunable.Const(0), control.WithClock(mock))
		c := ff.Velocity()

		mock.Add(loop)
		Expect(c.Update(0, 0)).To(Equal(1.5))
		Expect(c.Update(2, 0)).To(BeNumerically("~", 3.6, 1e-12))
	})

	It("differentiates an angle setpoint along the shortest arc", func() {
		ff := control.MotorFeedforward(tunable.Const(0), tunable.Const(1), tunable.Const(0), control.WithClock(mock))
		c := ff.Angle()

		mock.Add(time.Second)
		c.UpdateAngle(geom.FromDegrees(175), geom.Zero)
		mock.Add(time.Second)
		Expect(c.UpdateAngle(geom.FromDegrees(-175), geom.Zero)).
			To(BeNumerically("~", geom.FromDegrees(10).Radians(), 1e-9))
	})

	It("holds an arm against gravity", func() {
		arm := control.NewArmFeedforward(tunable.Const(2), tunable.Const(0), tunable.Const(0), tunable.Const(0), control.WithClock(mock))
		c := arm.Angle()

		mock.Add(loop)
		Expect(c.UpdateAngle(geom.FromDegrees(60), geom.Zero)).To(BeNumerically("~", 1, 1e-9))
		Expect(arm.Calculate(geom.Deg90)).To(BeNumerically("~", 0, 1e-9))
	})
})

var _ = Describe("Composition", func() {
	It("sums group members", func() {
		one := control.Func(func(_, _ float64) float64 { return 1 })
		g, err := control.Group(errorController, one, one)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Update(5, 2)).To(Equal(5.0))

		c, err := control.Combine(errorController, one)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Update(5, 2)).To(Equal(4.0))
	})

	It("rejects nil members", func() {
		_, err := control.Group(errorController, nil)
		Expect(err).To(MatchError(control.ErrNilController))

		_, err = control.Combine(nil, errorController)
		Expect(err).To(MatchError(control.ErrNilController))

		_, err = control.AngleGroup(nil)
		Expect(err).To(MatchError(control.ErrNilController))

		_, err = control.NewDerivative(nil)
		Expect(err).To(MatchError(control.ErrNilController))
	})

	It("rejects typed nil members", func() {
		var pid *control.PIDController
		_, err := control.Group(errorController, pid)
		Expect(err).To(MatchError(control.ErrNilController))

		var anglePID *control.AnglePIDController
		_, err = control.AngleGroup(anglePID)
		Expect(err).To(MatchError(control.ErrNilController))

		var fn control.Func
		_, err = control.NewDerivative(fn)
		Expect(err).To(MatchError(control.ErrNilController))

		_, err = control.NewFiltered(pid)
		Expect(err).To(MatchError(control.ErrNilController))

		Expect(func() { control.Bind(pid).Get() }).To(PanicWith(control.ErrNilController))
	})

	It("adapts a numeric controller to angles", func() {
		rad := control.NewAngle(errorController)
		Expect(rad.UpdateAngle(geom.FromDegrees(10), geom.FromDegrees(350))).
			To(BeNumerically("~", geom.FromDegrees(20).Radians(), 1e-9))

		deg := control.NewAngle(errorController).WithUnits(control.Degrees)
		Expect(deg.UpdateAngle(geom.FromDegrees(10), geom.FromDegrees(350))).To(BeNumerically("~", 20, 1e-9))

		g, err := control.AngleGroup(deg, deg)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.UpdateAngle(geom.FromDegrees(10), geom.FromDegrees(350))).To(BeNumerically("~", 40, 1e-9))
	})

	It("differentiates setpoint and measurement", func() {
		mock := clock.NewMock()
		d, err := control.NewDerivative(errorController, control.WithClock(mock))
		Expect(err).NotTo(HaveOccurred())

		mock.Add(500 * time.Millisecond)
		Expect(d.Update(1, 0.5)).To(Equal(1.0))
	})

	It("serializes shared controllers", func() {
		Expect(control.Synchronized(errorController).Update(3, 1)).To(Equal(2.0))
		sa := control.SynchronizedAngle(control.NewAngle(errorController).WithUnits(control.Degrees))
		Expect(sa.UpdateAngle(geom.Deg90, geom.Zero)).To(BeNumerically("~", 90, 1e-9))
	})
})

var _ = Describe("Bound", func() {
	It("panics when a stream is not wired", func() {
		b := control.Bind(errorController)
		Expect(func() { b.Get() }).To(PanicWith(MatchError(control.ErrUnwired)))

		b.WithSetpoint(stream.Const(1.0))
		Expect(func() { b.Get() }).To(PanicWith(MatchError(control.ErrUnwired)))

		a := control.BindAngle(control.NewAngle(errorController)).WithMeasurement(stream.Const(geom.Zero))
		Expect(func() { a.Get() }).To(PanicWith(MatchError(control.ErrUnwired)))
	})

	It("pulls both streams when wired", func() {
		b := control.Bind(errorController).
			WithSetpoint(stream.Const(5.0)).
			WithMeasurement(stream.Const(2.0))
		Expect(b.Get()).To(Equal(3.0))

		a := control.BindAngle(control.NewAngle(errorController).WithUnits(control.Degrees)).
			WithSetpoint(stream.Const(geom.Deg90)).
			WithMeasurement(stream.Const(geom.Zero))
		Expect(a.Get()).To(BeNumerically("~", 90, 1e-9))
	})
})

var _ = Describe("Simple controllers", func() {
	It("bangs between two outputs", func() {
		bb := control.BangBang(1, -0.5)
		Expect(bb.Update(5, 0)).To(Equal(1.0))
		Expect(bb.Update(0, 5)).To(Equal(-0.5))
		Expect(bb.Update(5, 5)).To(Equal(-0.5))
	})

	It("takes back half on a zero crossing", func() {
		mock := clock.NewMock()
		tbh := control.TBH(tunable.Const(1), control.WithClock(mock))

		mock.Add(time.Second)
		Expect(tbh.Update(1, 0)).To(Equal(1.0))
		mock.Add(time.Second)
		Expect(tbh.Update(1, 0)).To(Equal(2.0))
		mock.Add(time.Second)
		Expect(tbh.Update(0, 0.5)).To(Equal(0.75))

		tbh.Reset()
		mock.Add(time.Second)
		Expect(tbh.Update(1, 0)).To(Equal(1.0))
	})

	It("follows the operator in manual mode", func() {
		m := control.NewManual()
		Expect(m.Update(5, 0)).To(BeZero())
		m.SetOutput(0.3)
		Expect(m.Update(5, 0)).To(Equal(0.3))
		Expect(control.None{}.Update(5, 0)).To(BeZero())
	})

	It("filters and records the last update", func() {
		mock := clock.NewMock()
		f, err := control.NewFiltered(errorController, control.WithClock(mock))
		Expect(err).NotTo(HaveOccurred())
		f.SetOutputFilter(filter.Clamp(tunable.Const(1))).
			SetSetpointFilter(filter.Scale(tunable.Const(2)))

		mock.Add(500 * time.Millisecond)
		Expect(f.Update(2.5, 0)).To(Equal(1.0))
		Expect(f.Setpoint()).To(Equal(5.0))
		Expect(f.Measurement()).To(Equal(0.0))
		Expect(f.Output()).To(Equal(1.0))
		Expect(f.Error()).To(Equal(5.0))
		Expect(f.ErrorVelocity()).To(Equal(10.0))

		Expect(f.IsDone(6)).To(BeTrue())
		Expect(f.IsDone(1)).To(BeFalse())
		Expect(f.IsDoneWithVelocity(6, 20)).To(BeTrue())
		Expect(f.IsDoneWithVelocity(6, 5)).To(BeFalse())
	})
})
