// Package refresh coalesces bursts of layout-changing events into one redraw.
//
// Every [Scheduler.Request] clears the drawn connectors at once and pushes the
// redraw back by the settle delay. Only the last request of a burst draws:
//
//	s := refresh.New(50*time.Millisecond, renderer.ClearAll, overlay.DrawPass)
//	defer s.Close()
//	for range scrollEvents {
//	    s.Request()
//	}
//
// Clearing eagerly and drawing lazily keeps stale lines from jumping during a
// fast scroll without re-reading layout on every tick.
package refresh

import (
	"sync"
	"time"
)

// DefaultDelay is the settle delay used when none is configured.
const DefaultDelay = 50 * time.Millisecond

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(c Clock) Option { return func(s *Scheduler) { s.clock = c } }

// Scheduler debounces redraw requests.
//
// It is safe for concurrent use. The clear and draw callbacks are invoked
// while the scheduler's lock is held, so they never overlap each other and
// must not call back into the scheduler.
type Scheduler struct {
	delay time.Duration
	clear func()
	draw  func()
	clock Clock

	mu      sync.Mutex
	pending Timer
	gen     uint64
	closed  bool
}

// New returns a scheduler that calls clear on every request and draw once a
// request has settled for delay. A non-positive delay selects DefaultDelay.
// Nil callbacks are treated as no-ops.
func New(delay time.Duration, clear, draw func(), opts ...Option) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if clear == nil {
		clear = func() {}
	}
	if draw == nil {
		draw = func() {}
	}
	s := &Scheduler{
		delay: delay,
		clear: clear,
		draw:  draw,
		clock: SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the settle delay.
func (s *Scheduler) Delay() time.Duration { return s.delay }

// Request clears immediately, cancels any pending redraw and schedules a new
// one after the settle delay. It reports false once the scheduler is closed.
func (s *Scheduler) Request() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.clear()
	s.cancelLocked()

	s.gen++
	gen := s.gen
	s.pending = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
	return true
}

// fire runs the draw for generation gen unless it has been superseded.
// Stop cannot recall a callback that is already running, so the generation
// check is what guarantees superseded redraws never draw.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		return
	}
	s.pending = nil
	s.draw()
}

// Flush runs the pending redraw immediately, if there is one, and reports
// whether it ran.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.pending == nil {
		return false
	}
	s.cancelLocked()
	s.draw()
	return true
}

// Pending reports whether a redraw is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Close cancels any pending redraw. Once Close returns no draw will run and
// further requests are ignored. Close is idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.gen++
}
