// Package scheduler provides cancellable delayed tasks and a debouncer built on them.
package scheduler

import (
	"sync"
	"time"
)

// Handle is a pending scheduled task.
type Handle struct {
	timer *time.Timer
}

// Schedule runs fn once after delay unless the returned handle is cancelled first.
func Schedule(delay time.Duration, fn func()) *Handle {
	return &Handle{timer: time.AfterFunc(delay, fn)}
}

// Cancel stops the task. It reports false if the task already fired or was cancelled.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}
	return h.timer.Stop()
}

// Debouncer fires the most recent trigger once the input has been quiet for Delay.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending *Handle
	gen     uint64
}

// NewDebouncer creates a debouncer with the given settle period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger cancels any pending task and schedules fn for the end of a fresh settle period.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending.Cancel()
	d.gen++
	gen := d.gen
	d.pending = Schedule(d.delay, func() {
		d.mu.Lock()
		// a Trigger that raced with the timer firing supersedes this run
		stale := gen != d.gen
		if !stale {
			d.pending = nil
		}
		d.mu.Unlock()
		if !stale {
			fn()
		}
	})
}

// Stop cancels the pending task, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending.Cancel()
	d.pending = nil
	d.gen++
}
