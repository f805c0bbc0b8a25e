package syncer

import (
	"sync"
	"time"
)

// Timer is a cancellable delayed call.
type Timer interface {
	// Stop cancels the call and reports whether it was still pending.
	Stop() bool
}

// Scheduler creates delayed calls.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules calls on the runtime timer.
var SystemScheduler Scheduler = clockScheduler{}

// Debouncer coalesces bursts of triggers into a single call made once the
// window passes without a new trigger.
type Debouncer struct {
	mu     sync.Mutex
	sched  Scheduler
	window time.Duration
	fn     func()
	timer  Timer
	gen    uint64
}

// NewDebouncer creates a debouncer that calls fn after window of quiet.
func NewDebouncer(sched Scheduler, window time.Duration, fn func()) *Debouncer {
	if sched == nil {
		sched = SystemScheduler
	}
	return &Debouncer{sched: sched, window: window, fn: fn}
}

// Trigger (re)arms the window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.window, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A stale timer may still fire after Stop lost the race.
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

// Pending reports whether a call is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels a pending call and reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Flush runs a pending call immediately on the caller's goroutine.
func (d *Debouncer) Flush() bool {
	if !d.Stop() {
		return false
	}
	d.fn()
	return true
}
