// Package timing measures the time between successive filter and
// controller updates.
package timing

import (
	"time"

	"github.com/benbjohnson/clock"
)

// MinElapsed is the smallest interval a StopWatch reports. Callers divide by
// the elapsed time, so it is never zero.
const MinElapsed = time.Nanosecond

// StopWatch reports the time since it was last reset. It is not safe for
// concurrent use.
type StopWatch struct {
	clock clock.Clock
	last  time.Time
}

// New creates a stopwatch started at the current time of c. A nil clock
// uses the wall clock.
func New(c clock.Clock) *StopWatch {
	if c == nil {
		c = clock.New()
	}
	return &StopWatch{clock: c, last: c.Now()}
}

// Reset returns the seconds elapsed since the previous reset and restarts
// the watch.
func (s *StopWatch) Reset() float64 {
	now := s.clock.Now()
	dt := now.Sub(s.last)
	s.last = now
	return seconds(dt)
}

// Elapsed returns the seconds since the previous reset without restarting.
func (s *StopWatch) Elapsed() float64 {
	return seconds(s.clock.Since(s.last))
}

// Clock returns the clock the stopwatch reads.
func (s *StopWatch) Clock() clock.Clock {
	return s.clock
}

func seconds(d time.Duration) float64 {
	if d < MinElapsed {
		d = MinElapsed
	}
	return d.Seconds()
}
