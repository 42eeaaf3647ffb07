// Package watch calls back when a single file settles after changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/verte-zerg/textan/internal/logging"
)

// DefaultDebounce is the quiet period after the last write event.
const DefaultDebounce = 200 * time.Millisecond

// Watcher follows one file. The parent directory is watched so editors that
// replace the file through a rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(path string)
	log      *logging.Logger
	fsw      *fsnotify.Watcher

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	// held while onChange runs
	running sync.Mutex
}

// New starts watching path. onChange runs on the timer goroutine and must not
// call Close.
func New(path string, debounce time.Duration, log *logging.Logger, onChange func(path string)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logging.Discard()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     filepath.Clean(abs),
		debounce: debounce,
		onChange: onChange,
		log:      log.WithComponent("watch"),
		fsw:      fsw,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run consumes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			w.log.Debugf("event %s %s", e.Op, e.Name)
			switch {
			case e.Op&(fsnotify.Write|fsnotify.Create) != 0:
				w.schedule()
			case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.log.Warnf("%s was moved or removed; waiting for it to come back", w.path)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				w.log.Errorf("watcher error: %v", err)
			}
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.running.Lock()
	defer w.running.Unlock()
	w.mu.Lock()
	closed := w.closed
	w.timer = nil
	w.mu.Unlock()
	if closed || w.onChange == nil {
		return
	}
	w.onChange(w.path)
}

// Close stops pending callbacks, waits for a running one and releases the OS
// watch. No callback starts after Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	w.running.Lock()
	defer w.running.Unlock()
	return w.fsw.Close()
}
