package timing

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestStopWatch_Reset(t *testing.T) {
	mock := clock.NewMock()
	sw := New(mock)

	mock.Add(20 * time.Millisecond)
	if got := sw.Reset(); got != 0.02 {
		t.Errorf("expected 0.02, got %v", got)
	}

	mock.Add(500 * time.Millisecond)
	if got := sw.Elapsed(); got != 0.5 {
		t.Errorf("expected elapsed 0.5, got %v", got)
	}
	if got := sw.Reset(); got != 0.5 {
		t.Errorf("expected 0.5 after peek, got %v", got)
	}
}

func TestStopWatch_NeverZero(t *testing.T) {
	mock := clock.NewMock()
	sw := New(mock)

	got := sw.Reset()
	if got <= 0 {
		t.Fatalf("expected positive dt, got %v", got)
	}
	if got != MinElapsed.Seconds() {
		t.Errorf("expected %v, got %v", MinElapsed.Seconds(), got)
	}
}

func TestStopWatch_DefaultClock(t *testing.T) {
	sw := New(nil)
	if sw.Clock() == nil {
		t.Fatal("expected a wall clock")
	}
	if sw.Elapsed() <= 0 {
		t.Error("elapsed should be positive")
	}
}
