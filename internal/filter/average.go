package filter

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/timing"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// MovingAverageFilter averages the last n inputs. The window starts filled
// with zeros, so the output climbs from zero until n values have been seen.
type MovingAverageFilter struct {
	window []float64
	index  int
	total  float64
}

func MovingAverage(size int) (*MovingAverageFilter, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "moving average size must be positive, got %d", size)
	}
	return &MovingAverageFilter{window: make([]float64, size)}, nil
}

func (f *MovingAverageFilter) Get(next float64) float64 {
	f.total += next - f.window[f.index]
	f.window[f.index] = next
	f.index = (f.index + 1) % len(f.window)
	if f.index == 0 {
		f.resum()
	}
	return f.total / float64(len(f.window))
}

// resum recomputes the running total once per lap to keep rounding error
// from accumulating.
func (f *MovingAverageFilter) resum() {
	f.total = 0
	for _, v := range f.window {
		f.total += v
	}
}

// WeightedMovingAverageFilter is an exponential moving average:
//
//	out += (next - out) / weight
//
// A weight of one passes the input through.
type WeightedMovingAverageFilter struct {
	weight tunable.Number
	last   float64
}

func WeightedMovingAverage(weight tunable.Number) (*WeightedMovingAverageFilter, error) {
	if weight == nil || !(weight.Value() >= 1) {
		return nil, errors.Wrapf(ErrInvalidParameter, "weight must be at least 1, got %v", tunable.Of(weight).Value())
	}
	return &WeightedMovingAverageFilter{weight: weight}, nil
}

func (f *WeightedMovingAverageFilter) Get(next float64) float64 {
	w := f.weight.Value()
	if w < 1 {
		w = 1
	}
	f.last += (next - f.last) / w
	return f.last
}

type timedSample struct {
	weighted float64
	duration float64
}

// TimedMovingAverageFilter averages its inputs over a sliding time window.
// Each input is weighted by the time since the previous call.
type TimedMovingAverageFilter struct {
	window  tunable.Number
	timer   *timing.StopWatch
	samples []timedSample
	total   float64
	elapsed float64
}

func TimedMovingAverage(seconds tunable.Number, opts ...Option) (*TimedMovingAverageFilter, error) {
	if err := requirePositive("window", seconds); err != nil {
		return nil, err
	}
	return &TimedMovingAverageFilter{
		window: seconds,
		timer:  newOptions(opts).timer(),
	}, nil
}

func (f *TimedMovingAverageFilter) Get(next float64) float64 {
	for len(f.samples) > 0 && f.window.Value() < f.elapsed {
		s := f.samples[0]
		f.samples = f.samples[1:]
		f.total -= s.weighted
		f.elapsed -= s.duration
	}

	dt := f.timer.Reset()
	f.samples = append(f.samples, timedSample{weighted: next * dt, duration: dt})
	f.total += next * dt
	f.elapsed += dt

	if f.elapsed <= 0 {
		return 0
	}
	return f.total / f.elapsed
}

// MedianFilter returns the median of the last n inputs. Until n inputs have
// been seen the median is taken over the ones available.
type MedianFilter struct {
	size   int
	buffer []float64
	sorted []float64
}

func Median(size int) (*MedianFilter, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "median size must be positive, got %d", size)
	}
	return &MedianFilter{
		size:   size,
		buffer: make([]float64, 0, size),
		sorted: make([]float64, 0, size),
	}, nil
}

func (f *MedianFilter) Get(next float64) float64 {
	if len(f.buffer) == f.size {
		copy(f.buffer, f.buffer[1:])
		f.buffer = f.buffer[:f.size-1]
	}
	f.buffer = append(f.buffer, next)

	f.sorted = append(f.sorted[:0], f.buffer...)
	sort.Float64s(f.sorted)

	n := len(f.sorted)
	if n%2 == 0 {
		return (f.sorted[n/2-1] + f.sorted[n/2]) / 2.0
	}
	return f.sorted[n/2]
}

// VectorMovingAverage averages each component over the last n inputs.
func VectorMovingAverage(size int) (Filter[geom.Vector2D], error) {
	x, err := MovingAverage(size)
	if err != nil {
		return nil, err
	}
	y, err := MovingAverage(size)
	if err != nil {
		return nil, err
	}
	return XY(x, y), nil
}

// VectorTimedMovingAverage averages each component over a time window.
func VectorTimedMovingAverage(seconds tunable.Number, opts ...Option) (Filter[geom.Vector2D], error) {
	x, err := TimedMovingAverage(seconds, opts...)
	if err != nil {
		return nil, err
	}
	y, err := TimedMovingAverage(seconds, opts...)
	if err != nil {
		return nil, err
	}
	return XY(x, y), nil
}
