package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestAngle_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		degrees  float64
		expected float64
	}{
		{"zero", 0, 0},
		{"three quarters", 270, -90},
		{"full turn", 360, 0},
		{"many turns", 725, 5},
		{"negative many turns", -725, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDegrees(tt.degrees).Degrees()
			if math.Abs(got-tt.expected) > 1e-7 {
				t.Errorf("FromDegrees(%v) = %v, want %v", tt.degrees, got, tt.expected)
			}
		})
	}
}

func TestAngle_Range(t *testing.T) {
	if got := FromRadians(math.Pi).Radians(); got != math.Pi {
		t.Errorf("FromRadians(pi) = %v, want pi", got)
	}
	if got := FromRadians(-math.Pi).Radians(); got != math.Pi {
		t.Errorf("FromRadians(-pi) = %v, want pi", got)
	}

	inputs := []float64{-59.690260418206066, 241.90263432641407}
	for r := -20.0; r <= 20.0; r += 0.01 {
		inputs = append(inputs, r)
	}
	for k := -199; k <= 199; k += 2 {
		inputs = append(inputs, float64(k)*math.Pi)
	}
	for _, r := range inputs {
		a := FromRadians(r)
		if a.Radians() <= -math.Pi || a.Radians() > math.Pi {
			t.Fatalf("FromRadians(%v) = %v, outside (-pi, pi]", r, a.Radians())
		}
		d := FromDegrees(r * 180 / math.Pi)
		if d.Radians() <= -math.Pi || d.Radians() > math.Pi {
			t.Fatalf("FromDegrees(%v) = %v rad, outside (-pi, pi]", r*180/math.Pi, d.Radians())
		}
	}
	for k := -199; k <= 199; k += 2 {
		if got := normalizeDegrees(float64(k)*180, 0); got <= -180 || got > 180 {
			t.Fatalf("normalizeDegrees(%d*180) = %v, outside (-180, 180]", k, got)
		}
	}
}

func TestAngle_SubWraparound(t *testing.T) {
	diff := FromRadians(3.0).Sub(FromRadians(-3.0))

	if math.Abs(diff.Radians()) >= math.Pi {
		t.Errorf("expected shortest path below pi, got %v", diff.Radians())
	}
	expected := 6.0 - 2*math.Pi
	if math.Abs(diff.Radians()-expected) > eps {
		t.Errorf("expected %v, got %v", expected, diff.Radians())
	}
}

func TestAngle_Arithmetic(t *testing.T) {
	a := FromDegrees(170)
	b := FromDegrees(20)

	if got := a.Add(b).Degrees(); math.Abs(got-(-170)) > 1e-7 {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a).Degrees(); math.Abs(got-(-150)) > 1e-7 {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := b.Mul(3).Degrees(); math.Abs(got-60) > 1e-7 {
		t.Errorf("Mul failed: got %v", got)
	}
	if got := b.Negative().Degrees(); math.Abs(got+20) > 1e-7 {
		t.Errorf("Negative failed: got %v", got)
	}
	if got := Deg90.Cos(); math.Abs(got) > eps {
		t.Errorf("cos(90) = %v", got)
	}
}

func TestAngle_Around(t *testing.T) {
	a := FromDegrees(-90)
	if got := a.DegreesAround(180); math.Abs(got-270) > 1e-7 {
		t.Errorf("DegreesAround(180) = %v, want 270", got)
	}
	if got := a.RadiansAround(math.Pi); math.Abs(got-1.5*math.Pi) > eps {
		t.Errorf("RadiansAround(pi) = %v", got)
	}
}

func TestAngle_Velocity(t *testing.T) {
	prev := FromDegrees(179)
	next := FromDegrees(-179)

	v := next.VelocityDegrees(prev, 0.5)
	if math.Abs(v-4) > 1e-6 {
		t.Errorf("expected 4 deg/s across the seam, got %v", v)
	}
}

func TestAngle_Null(t *testing.T) {
	if !NullAngle.IsNull() {
		t.Fatal("NullAngle should be null")
	}
	if Zero.IsNull() {
		t.Error("Zero should not be null")
	}
	if !NullAngle.Add(Deg90).IsNull() {
		t.Error("arithmetic on null should stay null")
	}
	if NullAngle.String() != "Angle(null)" {
		t.Errorf("unexpected string %q", NullAngle.String())
	}
}

func TestVector2D(t *testing.T) {
	v := Vec(3, 4)

	if v.Magnitude() != 5 {
		t.Errorf("expected magnitude 5, got %v", v.Magnitude())
	}
	if v.Dot(Vec(1, 1)) != 7 {
		t.Errorf("expected dot 7, got %v", v.Dot(Vec(1, 1)))
	}
	if got := v.Add(Origin); got != v {
		t.Errorf("origin should be additive identity, got %v", got)
	}
	if got := Vec(0, 2).Angle().Degrees(); math.Abs(got-90) > 1e-7 {
		t.Errorf("expected 90 deg, got %v", got)
	}
	if got := v.Clamp(1).Magnitude(); math.Abs(got-1) > eps {
		t.Errorf("clamp failed: %v", got)
	}
	if got := v.Clamp(10); got != v {
		t.Errorf("clamp should not change short vectors: %v", got)
	}
	if got := Origin.Normalize(); got != Origin {
		t.Errorf("normalizing origin should give origin, got %v", got)
	}

	r := Vec(1, 0).Rotate(Deg90)
	if math.Abs(r.X) > eps || math.Abs(r.Y-1) > eps {
		t.Errorf("rotate failed: %v", r)
	}
	r = Vec(2, 1).RotateAround(Deg180, Vec(1, 1))
	if math.Abs(r.X) > eps || math.Abs(r.Y-1) > eps {
		t.Errorf("rotate around failed: %v", r)
	}
}

func TestPolar2D(t *testing.T) {
	p := NewPolar(-2, Zero)
	if p.Magnitude != 2 {
		t.Errorf("expected positive magnitude, got %v", p.Magnitude)
	}
	v := p.Vector()
	if math.Abs(v.X+2) > eps || math.Abs(v.Y) > eps {
		t.Errorf("negative magnitude should point backwards, got %v", v)
	}
	if d := NewPolar(1, Zero).Distance(NewPolar(1, Deg90)); math.Abs(d-math.Sqrt2) > eps {
		t.Errorf("expected sqrt2, got %v", d)
	}
}

func TestClampAndDeadband(t *testing.T) {
	if Clamp(5, 1, -1) != 1 {
		t.Error("clamp should accept reversed bounds")
	}
	if ClampMagnitude(-3, 2) != -2 {
		t.Error("clamp magnitude failed")
	}

	tests := []struct {
		x, window, expected float64
	}{
		{0.05, 0.1, 0},
		{-0.05, 0.1, 0},
		{0.55, 0.1, 0.5},
		{1, 0.1, 1},
		{-1, 0.1, -1},
		{0.5, 1.0, 0},
	}
	for _, tt := range tests {
		if got := Deadband(tt.x, tt.window); math.Abs(got-tt.expected) > eps {
			t.Errorf("Deadband(%v, %v) = %v, want %v", tt.x, tt.window, got, tt.expected)
		}
	}
}

func TestInputCurves(t *testing.T) {
	curves := map[string]func(float64) float64{
		"square":   Square,
		"cube":     Cube,
		"pow3":     func(x float64) float64 { return Pow(x, 3) },
		"circular": Circular,
	}

	for name, fn := range curves {
		for x := -1.0; x <= 1.0; x += 0.05 {
			y := fn(x)
			if y < -1 || y > 1 {
				t.Errorf("%s(%v) = %v out of range", name, x, y)
			}
			if Sign(y) != Sign(x) && y != 0 {
				t.Errorf("%s(%v) = %v changed sign", name, x, y)
			}
		}
		if got := fn(1); math.Abs(got-1) > eps {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}

	expected := 1 - math.Sqrt(0.75)
	if got := Circular(0.5); math.Abs(got-expected) > eps {
		t.Errorf("Circular(0.5) = %v, want %v", got, expected)
	}
	if got := Circular(-0.5); math.Abs(got+expected) > eps {
		t.Errorf("Circular(-0.5) = %v, want %v", got, -expected)
	}
	if got := Square(-0.5); got != -0.25 {
		t.Errorf("Square(-0.5) = %v", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(3.14159, 3); got != 3.14 {
		t.Errorf("expected 3.14, got %v", got)
	}
	if got := Round(0.0012345, 2); math.Abs(got-0.0012) > 1e-12 {
		t.Errorf("expected 0.0012, got %v", got)
	}
}
