package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("One."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var calls atomic.Int32
	fired := make(chan string, 4)
	w, err := New(path, 100*time.Millisecond, nil, func(p string) {
		calls.Add(1)
		fired <- p
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	for _, text := range []string{"One. Two.", "One. Two. Three?"} {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}

	select {
	case got := <-fired:
		if got != w.Path() {
			t.Fatalf("callback path = %q, want %q", got, w.Path())
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change callback")
	}
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one debounced callback, got %d", n)
	}
}

func TestCloseCancelsPendingCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("One."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var calls atomic.Int32
	w, err := New(path, 50*time.Millisecond, nil, func(string) { calls.Add(1) })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.schedule()
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("expected no callback after close, got %d", n)
	}
}

func TestCloseWaitsForRunningCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("One."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	w, err := New(path, 10*time.Millisecond, nil, func(string) {
		close(started)
		<-release
		finished.Store(true)
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.schedule()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for callback")
	}

	closed := make(chan struct{})
	go func() {
		_ = w.Close()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatalf("Close returned while the callback was running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for Close")
	}
	if !finished.Load() {
		t.Fatalf("expected callback to finish before Close returned")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "a.txt"), 0, nil, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
