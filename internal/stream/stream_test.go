package stream_test

import (
	"errors"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/atomic"

	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// counter yields 1, 2, 3, ... and records how often it was read.
func counter() (stream.Stream[float64], *atomic.Int64) {
	calls := atomic.NewInt64(0)
	return stream.Func[float64](func() float64 {
		return float64(calls.Inc())
	}), calls
}

var _ = Describe("Combinators", func() {
	It("threads values through filters in order", func() {
		s := stream.Filtered(stream.Const(3.0), filter.Scale(tunable.Const(2)), filter.Negate())
		Expect(s.Get()).To(Equal(-6.0))
	})

	It("passes values through with no filters", func() {
		Expect(stream.Filtered(stream.Const(3.0)).Get()).To(Equal(3.0))
	})

	It("evaluates both sides on every call", func() {
		a, aCalls := counter()
		b, bCalls := counter()
		sum := stream.Add(a, b)

		Expect(sum.Get()).To(Equal(2.0))
		Expect(sum.Get()).To(Equal(4.0))
		Expect(aCalls.Load()).To(Equal(int64(2)))
		Expect(bCalls.Load()).To(Equal(int64(2)))

		Expect(stream.Sub(stream.Const(5.0), stream.Const(2.0)).Get()).To(Equal(3.0))
	})

	It("subtracts angles along the shortest arc", func() {
		d := stream.SubAngles(stream.Const(geom.FromRadians(3)), stream.Const(geom.FromRadians(-3))).Get()
		Expect(math.Abs(d.Radians())).To(BeNumerically("<", math.Pi))
	})

	It("combines vectors and booleans", func() {
		v := stream.AddVectors(stream.Const(geom.Vec(1, 2)), stream.Const(geom.Vec(3, 4)))
		Expect(v.Get()).To(Equal(geom.Vec(4, 6)))
		Expect(stream.Dot(v, stream.Const(geom.Vec(1, 1))).Get()).To(Equal(10.0))
		Expect(stream.MagnitudeOf(stream.Const(geom.Vec(3, 4))).Get()).To(Equal(5.0))

		t, f := stream.Const(true), stream.Const(false)
		Expect(stream.And(t, f).Get()).To(BeFalse())
		Expect(stream.Or(t, f).Get()).To(BeTrue())
		Expect(stream.Xor(t, t).Get()).To(BeFalse())
		Expect(stream.Not(f).Get()).To(BeTrue())
		Expect(stream.NumberOfBool(t).Get()).To(Equal(1.0))
		Expect(stream.BoolOf(stream.Const(0.6), 0.5).Get()).To(BeTrue())
	})

	It("converts between angles, numbers and vectors", func() {
		a := stream.AngleOf(stream.Const(math.Pi / 2))
		Expect(stream.DegreesOf(a).Get()).To(BeNumerically("~", 90, 1e-9))
		Expect(stream.RadiansOf(a).Get()).To(BeNumerically("~", math.Pi/2, 1e-12))

		v := stream.VectorOfAngle(a).Get()
		Expect(v.X).To(BeNumerically("~", 0, 1e-12))
		Expect(v.Y).To(BeNumerically("~", 1, 1e-12))

		xy := stream.VectorOf(stream.Const(0.0), stream.Const(-2.0))
		Expect(stream.AngleOfVector(xy).Get().Degrees()).To(BeNumerically("~", -90, 1e-9))
	})

	It("serializes a shared pipeline", func() {
		src, calls := counter()
		s := stream.Synchronized(src)

		done := make(chan struct{})
		for i := 0; i < 4; i++ {
			go func() {
				defer GinkgoRecover()
				for j := 0; j < 25; j++ {
					s.Get()
				}
				done <- struct{}{}
			}()
		}
		for i := 0; i < 4; i++ {
			Eventually(done).Should(Receive())
		}
		Expect(calls.Load()).To(Equal(int64(100)))
	})
})

var _ = Describe("Polling", func() {
	var (
		mock   *clock.Mock
		source *atomic.Float64
	)

	BeforeEach(func() {
		mock = clock.NewMock()
		source = atomic.NewFloat64(0)
	})

	newPolling := func() *stream.Polling[float64] {
		p, err := stream.NewPolling[float64](
			stream.Func[float64](source.Load),
			20*time.Millisecond,
			stream.WithClock(mock),
			stream.WithLogger(logging.NewTest(GinkgoT())),
		)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	It("rejects a non-positive period", func() {
		for _, period := range []time.Duration{0, -time.Second} {
			_, err := stream.NewPolling[float64](stream.Const(1.0), period)
			Expect(errors.Is(err, stream.ErrInvalidPeriod)).To(BeTrue())
		}
	})

	It("serves the zero value before the first tick", func() {
		source.Store(4)
		p := newPolling()
		defer p.Close()

		Expect(p.Get()).To(Equal(0.0))
	})

	It("publishes a new snapshot on every tick", func() {
		p := newPolling()
		defer p.Close()

		source.Store(4)
		mock.Add(20 * time.Millisecond)
		Eventually(p.Get).Should(Equal(4.0))

		source.Store(7)
		Consistently(p.Get, "30ms", "5ms").Should(Equal(4.0))

		mock.Add(20 * time.Millisecond)
		Eventually(p.Get).Should(Equal(7.0))
	})

	It("stops writing and resets after close", func() {
		p := newPolling()
		source.Store(4)
		mock.Add(20 * time.Millisecond)
		Eventually(p.Get).Should(Equal(4.0))

		Expect(p.Close()).To(Succeed())
		Expect(p.Closed()).To(BeTrue())
		Expect(p.Get()).To(Equal(0.0))

		source.Store(9)
		mock.Add(100 * time.Millisecond)
		Consistently(p.Get, "30ms", "5ms").Should(Equal(0.0))

		Expect(p.Close()).To(Succeed())
		Expect(errors.Is(p.Refresh(), stream.ErrClosed)).To(BeTrue())
	})

	It("can be refreshed synchronously", func() {
		p := newPolling()
		defer p.Close()

		source.Store(2.5)
		Expect(p.Refresh()).To(Succeed())
		Expect(p.Get()).To(Equal(2.5))
		Expect(p.Period()).To(Equal(20 * time.Millisecond))
	})

	It("does not publish a refresh that overlaps close", func() {
		entered := make(chan struct{})
		release := make(chan struct{})
		p, err := stream.NewPolling[float64](
			stream.Func[float64](func() float64 {
				close(entered)
				<-release
				return 5
			}),
			20*time.Millisecond,
			stream.WithClock(mock),
		)
		Expect(err).NotTo(HaveOccurred())

		refreshed := make(chan error, 1)
		go func() { refreshed <- p.Refresh() }()
		Eventually(entered).Should(BeClosed())

		closed := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			defer close(closed)
			Expect(p.Close()).To(Succeed())
		}()
		Consistently(closed, "30ms", "5ms").ShouldNot(BeClosed())

		close(release)
		Eventually(refreshed).Should(Receive(BeNil()))
		Eventually(closed).Should(BeClosed())
		Expect(p.Get()).To(Equal(0.0))
		Expect(errors.Is(p.Refresh(), stream.ErrClosed)).To(BeTrue())
	})
})

var _ = Describe("Fuser", func() {
	var mock *clock.Mock

	BeforeEach(func() {
		mock = clock.NewMock()
	})

	It("stays anchored when both inputs agree", func() {
		f := stream.NewFuser(tunable.Const(0.5), stream.Const(5.0), stream.Const(5.0), stream.WithClock(mock))
		Expect(f.Offset()).To(Equal(0.0))

		for i := 0; i < 200; i++ {
			mock.Add(20 * time.Millisecond)
			Expect(f.Get()).To(BeNumerically("~", 5.0, 1e-9))
		}
	})

	It("anchors a drifting fast stream to the base", func() {
		fast := atomic.NewFloat64(100)
		f := stream.NewFuser(tunable.Const(0.5),
			stream.Const(5.0),
			stream.Func[float64](fast.Load),
			stream.WithClock(mock),
		)
		Expect(f.Offset()).To(Equal(-95.0))

		mock.Add(20 * time.Millisecond)
		Expect(f.Get()).To(BeNumerically("~", 5.0, 1e-9))

		// a quick move on the fast stream shows up immediately
		fast.Store(101)
		mock.Add(20 * time.Millisecond)
		Expect(f.Get()).To(BeNumerically(">", 5.9))

		// and fades back to the base reading
		for i := 0; i < 500; i++ {
			mock.Add(20 * time.Millisecond)
			f.Get()
		}
		Expect(f.Get()).To(BeNumerically("~", 5.0, 1e-3))

		f.Reset()
		Expect(f.Offset()).To(Equal(-96.0))
	})

	It("fuses angles across the wraparound", func() {
		heading := geom.FromDegrees(179)
		f := stream.NewAngleFuser(tunable.Const(0.5),
			stream.Const(heading),
			stream.Const(geom.FromDegrees(-10)),
			stream.WithClock(mock),
		)

		for i := 0; i < 50; i++ {
			mock.Add(20 * time.Millisecond)
			Expect(f.Get().Sub(heading).Degrees()).To(BeNumerically("~", 0, 1e-6))
		}
	})

	It("fuses vectors", func() {
		pos := geom.Vec(1, 2)
		f := stream.NewVectorFuser(tunable.Const(0.5), stream.Const(pos), stream.Const(geom.Vec(5, 5)), stream.WithClock(mock))
		mock.Add(20 * time.Millisecond)
		Expect(f.Get().Distance(pos)).To(BeNumerically("<", 1e-9))
	})
})

var _ = Describe("Stick", func() {
	It("holds the last heading inside the deadzone", func() {
		v := geom.Origin
		s := stream.Stick(stream.Func[geom.Vector2D](func() geom.Vector2D { return v }), tunable.Const(0.2))

		Expect(s.Get().IsNull()).To(BeTrue())

		v = geom.Vec(0, 1)
		Expect(s.Get().Degrees()).To(BeNumerically("~", 90, 1e-9))

		v = geom.Vec(0.1, 0)
		Expect(s.Get().Degrees()).To(BeNumerically("~", 90, 1e-9))

		v = geom.Vec(-1, 0)
		Expect(s.Get().Degrees()).To(BeNumerically("~", 180, 1e-9))
	})
})
