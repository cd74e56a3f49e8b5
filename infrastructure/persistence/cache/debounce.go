package cache

import (
	"sync"
	"time"
)

// Debouncer implements ports.Debouncer: coalesces repeated persistence
// requests into a single delayed call, canceling any pending timer on a new
// schedule (§4.D).
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates an idle debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Schedule implements ports.Debouncer.
func (d *Debouncer) Schedule(fn func(), delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

// Cancel implements ports.Debouncer, discarding any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
