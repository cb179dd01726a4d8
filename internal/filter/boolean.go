package filter

import (
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// DebounceRisingFilter reports true only once its input has been true for
// longer than the debounce time. False passes through immediately.
type DebounceRisingFilter struct {
	debounce tunable.Number
	timer    *timing.StopWatch
}

func DebounceRising(seconds tunable.Number, opts ...Option) *DebounceRisingFilter {
	return &DebounceRisingFilter{debounce: tunable.Of(seconds), timer: newOptions(opts).timer()}
}

func (f *DebounceRisingFilter) Get(next bool) bool {
	if !next {
		f.timer.Reset()
		return false
	}
	return f.debounce.Value() < f.timer.Elapsed()
}

// DebounceFallingFilter reports false only once its input has been false
// for longer than the debounce time. True passes through immediately.
type DebounceFallingFilter struct {
	debounce tunable.Number
	timer    *timing.StopWatch
}

func DebounceFalling(seconds tunable.Number, opts ...Option) *DebounceFallingFilter {
	return &DebounceFallingFilter{debounce: tunable.Of(seconds), timer: newOptions(opts).timer()}
}

func (f *DebounceFallingFilter) Get(next bool) bool {
	if next {
		f.timer.Reset()
		return true
	}
	return !(f.debounce.Value() < f.timer.Elapsed())
}

// DebounceBothFilter changes its output only after the input has held a new
// value for longer than the debounce time.
type DebounceBothFilter struct {
	debounce tunable.Number
	timer    *timing.StopWatch
	last     bool
}

func DebounceBoth(seconds tunable.Number, opts ...Option) *DebounceBothFilter {
	return &DebounceBothFilter{debounce: tunable.Of(seconds), timer: newOptions(opts).timer()}
}

func (f *DebounceBothFilter) Get(next bool) bool {
	switch {
	case next == f.last:
		f.timer.Reset()
	case f.debounce.Value() < f.timer.Elapsed():
		f.timer.Reset()
		f.last = next
	}
	return f.last
}

// edge reports a transition between consecutive inputs.
type edge struct {
	last   bool
	detect func(last, next bool) bool
}

func (e *edge) Get(next bool) bool {
	out := e.detect(e.last, next)
	e.last = next
	return out
}

// Pressed is true on the call where the input goes from false to true.
func Pressed() Filter[bool] {
	return &edge{detect: func(last, next bool) bool { return next && !last }}
}

// Released is true on the call where the input goes from true to false.
func Released() Filter[bool] {
	return &edge{detect: func(last, next bool) bool { return !next && last }}
}

// Changed is true whenever the input differs from the previous one.
func Changed() Filter[bool] {
	return &edge{detect: func(last, next bool) bool { return next != last }}
}

func Not() Filter[bool] {
	return Func[bool](func(b bool) bool { return !b })
}
