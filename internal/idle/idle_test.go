package idle

import (
	"testing"
	"time"
)

func TestWatchdogFires(t *testing.T) {
	w := New(20 * time.Millisecond)
	w.Start()
	select {
	case <-w.Expired():
	case <-time.After(time.Second):
		t.Fatalf("watchdog did not fire")
	}
}

func TestWatchdogResetPostpones(t *testing.T) {
	w := New(80 * time.Millisecond)
	w.Start()
	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case <-w.Expired():
			t.Fatalf("watchdog fired despite resets")
		case <-time.After(20 * time.Millisecond):
			w.Reset()
		}
	}
	select {
	case <-w.Expired():
	case <-time.After(time.Second):
		t.Fatalf("watchdog did not fire after resets stopped")
	}
}

func TestWatchdogStop(t *testing.T) {
	w := New(20 * time.Millisecond)
	w.Start()
	w.Stop()
	w.Stop()
	w.Reset()
	select {
	case <-w.Done():
	default:
		t.Fatalf("expected done to be closed")
	}
	select {
	case <-w.Expired():
		t.Fatalf("stopped watchdog fired")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestWatchdogDefaultTimeout(t *testing.T) {
	if got := New(0).Timeout(); got != DefaultTimeout {
		t.Fatalf("expected default timeout %v, got %v", DefaultTimeout, got)
	}
}
