// Package refreshtest provides a manual clock for driving schedulers in tests.
package refreshtest

import (
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/relline/pkg/refresh"
)

// Clock is a refresh.Clock whose time only moves on Advance.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*timer
}

type timer struct {
	c       *Clock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewClock returns a clock at time zero.
func NewClock() *Clock { return &Clock{} }

// AfterFunc implements refresh.Clock.
func (c *Clock) AfterFunc(d time.Duration, f func()) refresh.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d and runs every callback that came due, in
// deadline order. Callbacks run without the clock's lock held.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*timer
	var rest []*timer
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case t.at <= c.now:
			t.fired = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.f()
	}
}

// Pending returns the number of scheduled, unstopped callbacks.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// FireStopped runs the callbacks of stopped timers, as if Stop had lost the
// race with an already-firing timer.
func (c *Clock) FireStopped() {
	c.mu.Lock()
	var stopped []*timer
	var rest []*timer
	for _, t := range c.timers {
		if t.stopped {
			stopped = append(stopped, t)
		} else {
			rest = append(rest, t)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	for _, t := range stopped {
		t.f()
	}
}
