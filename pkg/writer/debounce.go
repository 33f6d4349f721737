// Package writer coalesces bursts of in-memory document mutations into a
// single persisted write after a quiet period.
package writer

import (
	"sync"
	"time"

	"kitlocal/pkg/logger"
)

// Debounced schedules a write after a quiet interval, canceling any
// previously scheduled write on each trigger. The write callback runs at
// fire time and must serialize the current in-memory state, not a snapshot
// taken when scheduling. Background write failures are logged and swallowed;
// Flush returns them to the caller.
type Debounced struct {
	name  string
	quiet time.Duration
	write func() error

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebounced(name string, quiet time.Duration, write func() error) *Debounced {
	return &Debounced{name: name, quiet: quiet, write: write}
}

// Trigger cancels any pending scheduled write and schedules a new one after
// the quiet interval.
func (d *Debounced) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

func (d *Debounced) fire() {
	d.mu.Lock()
	d.timer = nil
	d.mu.Unlock()
	if err := d.write(); err != nil {
		logger.Warn("debounced_write_failed", "doc", d.name, "error", err)
		return
	}
	logger.Debug("debounced_write_ok", "doc", d.name)
}

// Flush cancels any pending scheduled write and writes immediately. Used on
// navigation-away and app-background, where the failure must surface.
func (d *Debounced) Flush() error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	return d.write()
}

// Stop cancels any pending scheduled write without writing.
func (d *Debounced) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a write is currently scheduled.
func (d *Debounced) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
