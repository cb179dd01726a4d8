package filter

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

const loopPeriod = 20 * time.Millisecond

func TestChain(t *testing.T) {
	inc := Func[float64](func(x float64) float64 { return x + 1 })

	for n := 0; n <= 6; n++ {
		fs := make([]Filter[float64], n)
		for i := range fs {
			fs[i] = inc
		}
		if got := Chain(fs...).Get(0); got != float64(n) {
			t.Errorf("Chain of %d: expected %d, got %v", n, n, got)
		}
	}

	if got := Chain[float64](nil, inc, nil).Get(1); got != 2 {
		t.Errorf("nil filters should be skipped, got %v", got)
	}
}

func TestChain_Order(t *testing.T) {
	double := Func[float64](func(x float64) float64 { return x * 2 })
	inc := Func[float64](func(x float64) float64 { return x + 1 })

	if got := Then[float64](double, inc).Get(3); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
	if got := Chain[float64](inc, double, inc, double, inc).Get(0); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestSumDifferenceInvert(t *testing.T) {
	add := func(a, b float64) float64 { return a + b }
	sub := func(a, b float64) float64 { return a - b }
	double := Func[float64](func(x float64) float64 { return x * 2 })
	inc := Func[float64](func(x float64) float64 { return x + 1 })

	if got := Sum[float64](double, inc, add).Get(3); got != 10 {
		t.Errorf("Sum: expected 10, got %v", got)
	}
	if got := Difference[float64](double, inc, sub).Get(3); got != 2 {
		t.Errorf("Difference: expected 2, got %v", got)
	}
	if got := Invert[float64](double, sub).Get(3); got != -3 {
		t.Errorf("Invert: expected -3, got %v", got)
	}
}

func TestLowPass_IdempotentAtZeroDt(t *testing.T) {
	mock := clock.NewMock()
	lp := LowPass(tunable.Const(0.5), WithClock(mock))

	mock.Add(loopPeriod)
	prev := lp.Get(10)

	got := lp.Get(100)
	if math.Abs(got-prev) > 1e-6 {
		t.Errorf("expected output to stay at %v, got %v", prev, got)
	}
}

func TestLowPass_TimeConstant(t *testing.T) {
	mock := clock.NewMock()
	lp := LowPass(tunable.Const(1.0), WithClock(mock))

	var out float64
	for i := 0; i < 100; i++ {
		mock.Add(10 * time.Millisecond)
		out = lp.Get(1.0)
	}

	expected := 1 - 1/math.E
	if math.Abs(out-expected) > 1e-6 {
		t.Errorf("expected %v after one RC, got %v", expected, out)
	}

	for i := 0; i < 2000; i++ {
		mock.Add(10 * time.Millisecond)
		out = lp.Get(1.0)
	}
	if math.Abs(out-1) > 1e-6 {
		t.Errorf("expected convergence to 1, got %v", out)
	}
}

func TestLowPass_PassThrough(t *testing.T) {
	tests := []struct {
		name string
		rc   float64
	}{
		{"zero", 0},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := clock.NewMock()
			lp := LowPass(tunable.Const(tt.rc), WithClock(mock))
			mock.Add(loopPeriod)
			if got := lp.Get(7); got != 7 {
				t.Errorf("expected pass-through 7, got %v", got)
			}
			if lp.Last() != 7 {
				t.Errorf("expected last to follow input, got %v", lp.Last())
			}
		})
	}
}

func TestLowHighComplementary(t *testing.T) {
	mock := clock.NewMock()
	rc := tunable.Const(0.2)
	lp := LowPass(rc, WithClock(mock))
	hp := HighPass(rc, WithClock(mock))

	inputs := []float64{1, 5, -3, 2.5, 100, 0, 0, -7, 3.25}
	for _, x := range inputs {
		mock.Add(loopPeriod)
		if got := lp.Get(x) + hp.Get(x); math.Abs(got-x) > 1e-12 {
			t.Errorf("low + high = %v, want %v", got, x)
		}
	}
}

func TestRateLimit_Bounded(t *testing.T) {
	mock := clock.NewMock()
	rl, err := RateLimit(tunable.Const(2.0), WithClock(mock))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inputs := []float64{10, -10, 0.01, 5, 5, 5, -3, 100}
	periods := []time.Duration{20, 5, 100, 20, 1000, 20, 50, 20}

	last := 0.0
	for i, x := range inputs {
		dt := periods[i] * time.Millisecond
		mock.Add(dt)
		out := rl.Get(x)
		if math.Abs(out-last) > 2.0*dt.Seconds()+1e-12 {
			t.Errorf("step %d moved %v in %v", i, out-last, dt)
		}
		last = out
	}
}

func TestRateLimit_NegativeLiveRate(t *testing.T) {
	mock := clock.NewMock()
	rate := tunable.NewValue(2)
	rl, err := RateLimit(rate, WithClock(mock))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.Add(loopPeriod)
	first := rl.Get(10)

	rate.Set(-5)
	for i := 0; i < 3; i++ {
		mock.Add(loopPeriod)
		if out := rl.Get(10); out != first {
			t.Errorf("step %d: expected output held at %v, got %v", i, first, out)
		}
	}
}

func TestRejectedParameters(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"rate zero", func() error { _, err := RateLimit(tunable.Const(0)); return err }},
		{"rate negative", func() error { _, err := RateLimit(tunable.Const(-1)); return err }},
		{"rate nil", func() error { _, err := RateLimit(nil); return err }},
		{"angle rate", func() error { _, err := AngleRateLimit(tunable.Const(0)); return err }},
		{"vector rate", func() error { _, err := VectorRateLimit(tunable.Const(-2)); return err }},
		{"moving average", func() error { _, err := MovingAverage(0); return err }},
		{"vector moving average", func() error { _, err := VectorMovingAverage(-1); return err }},
		{"weight below one", func() error { _, err := WeightedMovingAverage(tunable.Const(0.5)); return err }},
		{"timed window", func() error { _, err := TimedMovingAverage(tunable.Const(0)); return err }},
		{"median", func() error { _, err := Median(0); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestMovingAverage(t *testing.T) {
	ma, err := MovingAverage(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ma.Get(2.5); got != 0.5 {
		t.Errorf("expected zero-biased 0.5, got %v", got)
	}
	for i := 0; i < 3; i++ {
		ma.Get(2.5)
	}
	if got := ma.Get(2.5); got != 2.5 {
		t.Errorf("expected 2.5 once the window is full, got %v", got)
	}
	for i := 0; i < 3; i++ {
		if got := ma.Get(2.5); got != 2.5 {
			t.Errorf("expected 2.5, got %v", got)
		}
	}
}

func TestWeightedMovingAverage(t *testing.T) {
	passthrough, err := WeightedMovingAverage(tunable.Const(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := passthrough.Get(4); got != 4 {
		t.Errorf("weight 1 should pass through, got %v", got)
	}

	ema, _ := WeightedMovingAverage(tunable.Const(4))
	if got := ema.Get(8); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := ema.Get(8); got != 3.5 {
		t.Errorf("expected 3.5, got %v", got)
	}
}

func TestTimedMovingAverage(t *testing.T) {
	mock := clock.NewMock()
	tma, err := TimedMovingAverage(tunable.Const(1.0), WithClock(mock))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{2, 3, 4, 6}
	for i, x := range []float64{2, 4, 6, 8} {
		mock.Add(500 * time.Millisecond)
		if got := tma.Get(x); math.Abs(got-expected[i]) > 1e-9 {
			t.Errorf("step %d: expected %v, got %v", i, expected[i], got)
		}
	}
}

func TestMedian(t *testing.T) {
	m, err := Median(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inputs := []float64{1, 5, 3, 10, -4}
	expected := []float64{1, 3, 3, 5, 3}
	for i, x := range inputs {
		if got := m.Get(x); got != expected[i] {
			t.Errorf("step %d: expected %v, got %v", i, expected[i], got)
		}
	}
}

func TestDerivativeAndIntegral(t *testing.T) {
	mock := clock.NewMock()
	d := Derivative(WithClock(mock))
	i := Integral(WithClock(mock))

	mock.Add(500 * time.Millisecond)
	if got := d.Get(1); got != 2 {
		t.Errorf("expected derivative 2, got %v", got)
	}
	if got := i.Get(4); got != 2 {
		t.Errorf("expected integral 2, got %v", got)
	}

	mock.Add(250 * time.Millisecond)
	if got := d.Get(0); got != -4 {
		t.Errorf("expected derivative -4, got %v", got)
	}
	if got := i.Get(4); got != 3 {
		t.Errorf("expected integral 3, got %v", got)
	}
}

func TestAngleVelocity_Wraparound(t *testing.T) {
	mock := clock.NewMock()
	av := AngleVelocity(WithClock(mock))
	av.Reset(geom.FromDegrees(179))

	mock.Add(time.Second)
	got := av.Get(geom.FromDegrees(-179))
	if math.Abs(got-geom.FromDegrees(2).Radians()) > 1e-9 {
		t.Errorf("expected +2 deg/s in radians, got %v", got)
	}
}

func TestScalingFilters(t *testing.T) {
	tests := []struct {
		name     string
		f        Filter[float64]
		in       float64
		expected float64
	}{
		{"clamp high", Clamp(tunable.Const(1)), 3, 1},
		{"clamp low", Clamp(tunable.Const(1)), -3, -1},
		{"deadband inside", Deadband(tunable.Const(0.1)), 0.05, 0},
		{"deadband rescale", Deadband(tunable.Const(0.1)), 0.55, 0.5},
		{"square", Square, -0.5, -0.25},
		{"cube", Cube, 0.5, 0.125},
		{"pow", Pow(2), -0.5, -0.25},
		{"scale", Scale(tunable.Const(3)), 2, 6},
		{"negate", Negate(), 2, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Get(tt.in); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
