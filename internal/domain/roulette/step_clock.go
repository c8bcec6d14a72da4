package roulette

import (
	"sync"
	"sync/atomic"
	"time"
)

// StepClock is a virtual Clock for tests and simulations. Its tickers fire
// back to back without sleeping; tick k of a ticker created at time t carries
// t + k*period and moves the clock forward to that instant.
type StepClock struct {
	mu    sync.Mutex
	now   time.Time
	stops atomic.Int64
}

// NewStepClock creates a StepClock starting at start.
func NewStepClock(start time.Time) *StepClock {
	return &StepClock{now: start}
}

// Now returns the current virtual time.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// StopCalls reports how many times Stop was called on tickers of this clock.
func (c *StepClock) StopCalls() int {
	return int(c.stops.Load())
}

func (c *StepClock) moveTo(t time.Time) {
	c.mu.Lock()
	if t.After(c.now) {
		c.now = t
	}
	c.mu.Unlock()
}

// NewTicker starts a ticker that delivers ticks as fast as they are received.
func (c *StepClock) NewTicker(d time.Duration) Ticker {
	t := &stepTicker{
		clock:  c,
		period: d,
		origin: c.Now(),
		ch:     make(chan time.Time),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

type stepTicker struct {
	clock  *StepClock
	period time.Duration
	origin time.Time
	ch     chan time.Time
	done   chan struct{}
	once   sync.Once
}

func (t *stepTicker) run() {
	for k := 1; ; k++ {
		at := t.origin.Add(time.Duration(k) * t.period)
		select {
		case t.ch <- at:
			t.clock.moveTo(at)
		case <-t.done:
			return
		}
	}
}

func (t *stepTicker) C() <-chan time.Time { return t.ch }

func (t *stepTicker) Stop() {
	t.clock.stops.Add(1)
	t.once.Do(func() { close(t.done) })
}
