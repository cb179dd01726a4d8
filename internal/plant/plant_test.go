package plant

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestFlywheel_SteadyState(t *testing.T) {
	fw := NewFlywheel()
	// kS + kV·ω volts hold ω.
	omega := 40.0
	u := fw.KS + fw.KV*omega

	dx := fw.Derive(State{omega}, u, 0)
	if math.Abs(dx[0]) > 1e-9 {
		t.Errorf("expected zero acceleration, got %v", dx[0])
	}
	if fw.Measure(State{omega}) != omega {
		t.Errorf("expected measure %v, got %v", omega, fw.Measure(State{omega}))
	}
}

func TestMotor_VoltageClamp(t *testing.T) {
	fw := NewFlywheel()
	fw.KS = 0

	a := fw.Derive(State{0}, 100, 0)[0]
	b := fw.Derive(State{0}, fw.MaxVoltage, 0)[0]
	if a != b {
		t.Errorf("expected command clipped to %v V, got %v vs %v", fw.MaxVoltage, a, b)
	}
}

func TestElevator_HoldAgainstGravity(t *testing.T) {
	e := NewElevator()
	dx := e.Derive(State{1, 0}, e.KG, 0)
	if dx[0] != 0 || math.Abs(dx[1]) > 1e-9 {
		t.Errorf("kG volts should hold the carriage, got %v", dx)
	}

	dx = e.Derive(State{1, 0}, 0, 0)
	if dx[1] >= 0 {
		t.Errorf("carriage should fall without power, got accel %v", dx[1])
	}
}

func TestElevator_Constrain(t *testing.T) {
	e := NewElevator()

	tests := []struct {
		name     string
		in       State
		expected State
	}{
		{"below floor", State{-0.1, -2}, State{0, 0}},
		{"below floor moving up", State{-0.1, 1}, State{0, 1}},
		{"above ceiling", State{2.5, 3}, State{2, 0}},
		{"in travel", State{1, -1}, State{1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Constrain(tt.in)
			if got[0] != tt.expected[0] || got[1] != tt.expected[1] {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestArm_Gravity(t *testing.T) {
	a := NewArm()

	horizontal := a.Derive(State{0, 0}, 0, 0)[1]
	vertical := a.Derive(State{math.Pi / 2, 0}, 0, 0)[1]

	if horizontal >= 0 {
		t.Errorf("horizontal arm should fall, got %v", horizontal)
	}
	if math.Abs(vertical) > 1e-9 {
		t.Errorf("vertical arm should balance, got %v", vertical)
	}

	hold := a.Derive(State{math.Pi / 4, 0}, a.KG*math.Cos(math.Pi/4), 0)[1]
	if math.Abs(hold) > 1e-9 {
		t.Errorf("kG·cos(θ) should hold the arm, got %v", hold)
	}
}

func TestTurret_MeasureWraps(t *testing.T) {
	r := NewTurret()
	x := State{3 * math.Pi / 2, 0}

	got := r.Measure(x)
	if math.Abs(got-(-math.Pi/2)) > 1e-9 {
		t.Errorf("expected -pi/2, got %v", got)
	}
	if got := r.MeasureAngle(x).Degrees(); math.Abs(got+90) > 1e-7 {
		t.Errorf("expected -90 deg, got %v", got)
	}

	var _ Angular = r
	var _ Angular = NewArm()
}

func TestParams(t *testing.T) {
	e := NewElevator()

	if err := e.SetParam("kG", 1.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Params()["kG"] != 1.5 {
		t.Errorf("expected kG 1.5, got %v", e.Params()["kG"])
	}
	if err := e.SetParam("kV", 2); err != nil || e.KV != 2 {
		t.Errorf("motor params should pass through, got %v", err)
	}
	if err := e.SetParam("kA", 0); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := e.SetParam("maxHeight", -1); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := e.SetParam("mass", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		sys, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if sys.Name() != name {
			t.Errorf("expected %q, got %q", name, sys.Name())
		}
		if _, ok := sys.(Configurable); !ok {
			t.Errorf("%s should be configurable", name)
		}
		x := make(State, sys.StateDim())
		if !sys.Derive(x, 1, 0).IsValid() {
			t.Errorf("%s produced an invalid derivative", name)
		}
	}

	if _, err := New("swerve"); !errors.Is(err, ErrUnknownSystem) {
		t.Errorf("expected ErrUnknownSystem, got %v", err)
	}
}

func TestState(t *testing.T) {
	s := State{3, 4}
	if s.Norm() != 5 {
		t.Errorf("expected norm 5, got %v", s.Norm())
	}
	c := s.Clone()
	c[0] = 0
	if s[0] != 3 {
		t.Error("clone should not share storage")
	}
	if got := s.Add(State{-1, -1}).Scale(2); got[0] != 4 || got[1] != 6 {
		t.Errorf("unexpected %v", got)
	}
	if (State{math.NaN()}).IsValid() {
		t.Error("NaN state should be invalid")
	}
}
