package tunable

import (
	"sync"
	"testing"
)

func TestConstAndFunc(t *testing.T) {
	if Const(2.5).Value() != 2.5 {
		t.Error("const value mismatch")
	}

	n := 0.0
	f := Func(func() float64 { n++; return n })
	if f.Value() != 1 || f.Value() != 2 {
		t.Error("func should be read on every call")
	}
}

func TestNonNegative(t *testing.T) {
	tests := []struct {
		in       Number
		expected float64
	}{
		{Const(3), 3},
		{Const(-3), 0},
		{Const(0), 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := NonNegative(tt.in); got != tt.expected {
			t.Errorf("NonNegative(%v) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}

func TestValue_Concurrent(t *testing.T) {
	v := NewValue(0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v.Add(1)
			}
		}()
	}
	wg.Wait()

	if v.Value() != 1000 {
		t.Errorf("expected 1000, got %v", v.Value())
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable()

	kp := tbl.Number("kP", 0.5)
	if kp.Value() != 0.5 {
		t.Errorf("expected default 0.5, got %v", kp.Value())
	}

	tbl.Set("kP", 1.5)
	if kp.Value() != 1.5 {
		t.Errorf("handle should observe Set, got %v", kp.Value())
	}
	if again := tbl.Number("kP", 9); again != kp || again.Value() != 1.5 {
		t.Error("existing entry should keep its value")
	}

	tbl.Set("kD", 0.1)
	if keys := tbl.Keys(); len(keys) != 2 || keys[0] != "kD" || keys[1] != "kP" {
		t.Errorf("unexpected keys %v", keys)
	}

	snap := tbl.Snapshot()
	if snap["kP"] != 1.5 || snap["kD"] != 0.1 {
		t.Errorf("unexpected snapshot %v", snap)
	}

	if _, ok := tbl.Get("missing"); ok {
		t.Error("missing key should not be found")
	}
	tbl.Remove("kD")
	if tbl.Has("kD") || tbl.Len() != 1 {
		t.Error("remove failed")
	}
}
