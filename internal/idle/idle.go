// Package idle provides an inactivity watchdog.
package idle

import (
	"sync"
	"time"
)

// DefaultTimeout is used when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Watchdog fires once after Timeout without a Reset. A stopped watchdog
// never fires again.
type Watchdog struct {
	timeout time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	fired   bool
	stopped bool

	expired chan struct{}
	done    chan struct{}
}

// New returns a watchdog that is not yet running. A non-positive timeout
// falls back to DefaultTimeout.
func New(timeout time.Duration) *Watchdog {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Watchdog{
		timeout: timeout,
		expired: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Timeout returns the configured inactivity period.
func (w *Watchdog) Timeout() time.Duration {
	return w.timeout
}

// Start arms the timer. Calling Start on a running watchdog restarts it.
func (w *Watchdog) Start() {
	w.Reset()
}

// Reset restarts the countdown. It is a no-op after Stop or expiry.
func (w *Watchdog) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || w.fired {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.timer = time.AfterFunc(w.timeout, func() { w.fire(gen) })
}

// Stop disarms the watchdog and releases anyone waiting on Done.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
}

// Expired is closed when the timeout elapses.
func (w *Watchdog) Expired() <-chan struct{} {
	return w.expired
}

// Done is closed by Stop.
func (w *Watchdog) Done() <-chan struct{} {
	return w.done
}

// fire ignores callbacks from timers replaced by a later Reset.
func (w *Watchdog) fire(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || w.fired || gen != w.gen {
		return
	}
	w.fired = true
	close(w.expired)
}
