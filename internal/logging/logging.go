// Package logging provides a small levelled logger tagged by component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelTags = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel maps a config string to a Level. Unknown values yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type sink struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// Logger writes "[15:04:05.000] LEVEL [component] message" lines.
type Logger struct {
	component string
	level     Level
	out       *sink
}

// New returns a logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		component: "main",
		level:     level,
		out:       &sink{w: w, now: time.Now},
	}
}

// Stderr returns a logger writing to standard error.
func Stderr(level Level) *Logger {
	return New(os.Stderr, level)
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelError)
}

// OpenFile returns a logger appending to path and a close function.
func OpenFile(path string, level Level) (*Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(file, level), file.Close, nil
}

// WithComponent returns a logger sharing the same output under another tag.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{component: component, level: l.level, out: l.out}
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, format, args...)
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	line := fmt.Sprintf("[%s] %s [%s] %s\n", l.out.now().Format("15:04:05.000"), levelTags[level], l.component, msg)
	if _, err := io.WriteString(l.out.w, line); err != nil {
		// Best-effort logging.
		_ = err
	}
}
