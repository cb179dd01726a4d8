package stream

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Polling samples a source on a background ticker and serves the latest
// sample without blocking. It must be closed to stop the ticker.
//
// Get returns the zero value until the first tick has completed and again
// after Close.
type Polling[T any] struct {
	source Stream[T]
	period time.Duration
	logger *zap.SugaredLogger

	value  *atomic.Pointer[T]
	closed *atomic.Bool
	ticker *clock.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	// mu orders Refresh against Close.
	mu sync.Mutex
}

// NewPolling starts polling s every period.
func NewPolling[T any](s Stream[T], period time.Duration, opts ...Option) (*Polling[T], error) {
	if period <= 0 {
		return nil, errors.Wrapf(ErrInvalidPeriod, "got %v", period)
	}
	if s == nil {
		return nil, errors.New("stream: polling source is nil")
	}

	o := newOptions(opts)
	var zero T
	p := &Polling[T]{
		source: s,
		period: period,
		logger: o.logger,
		value:  atomic.NewPointer(&zero),
		closed: atomic.NewBool(false),
		ticker: o.clock.Ticker(period),
		done:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.run()
	p.logger.Debugw("polling started", "period", period)
	return p, nil
}

func (p *Polling[T]) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			v := p.source.Get()
			select {
			case <-p.done:
				return
			default:
				p.value.Store(&v)
			}
		}
	}
}

// Get returns the most recent sample.
func (p *Polling[T]) Get() T {
	return *p.value.Load()
}

// Refresh samples the source immediately on the calling goroutine.
func (p *Polling[T]) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return ErrClosed
	}
	v := p.source.Get()
	p.value.Store(&v)
	return nil
}

func (p *Polling[T]) Period() time.Duration {
	return p.period
}

func (p *Polling[T]) Closed() bool {
	return p.closed.Load()
}

// Close stops the ticker, waits for an in-flight sample or Refresh to
// finish and resets the stored value. Calling Close more than once is a
// no-op.
func (p *Polling[T]) Close() error {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed.Store(true)
		p.mu.Unlock()

		p.ticker.Stop()
		close(p.done)
		p.wg.Wait()

		var zero T
		p.value.Store(&zero)
		p.logger.Debugw("polling stopped", "period", p.period)
	})
	return nil
}
