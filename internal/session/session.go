// Package session tracks the text buffer and the last analysis result.
package session

import (
	"errors"
	"strings"

	"github.com/verte-zerg/textan/internal/analyzer"
	"github.com/verte-zerg/textan/internal/model"
)

// ErrNothingToExport is returned by Export when there is no text, no
// analysis, or an all-zero result.
var ErrNothingToExport = errors.New("nothing to export: enter text and run the analysis first")

// State is the lifecycle stage of a session.
type State int

const (
	// Empty means no usable text is loaded.
	Empty State = iota
	// Loaded means text is present but not analyzed since the last load.
	Loaded
	// Analyzed means the current text has a result.
	Analyzed
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Analyzed:
		return "analyzed"
	default:
		return "empty"
	}
}

// Option configures a Session.
type Option func(*Session)

// WithKeepStale keeps the previous result when new text is loaded.
func WithKeepStale(keep bool) Option {
	return func(s *Session) {
		s.keepStale = keep
	}
}

// Session owns the editable text and the last analysis result. It is not
// safe for concurrent use.
type Session struct {
	rawText    string
	lastResult *model.AnalysisResult
	state      State
	keepStale  bool
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the text buffer. It never runs the analysis.
func (s *Session) Load(text string) {
	s.rawText = text
	if !s.keepStale {
		s.lastResult = nil
	}
	if strings.TrimSpace(text) == "" {
		s.state = Empty
		return
	}
	s.state = Loaded
}

// Analyze recomputes the result from the current text.
func (s *Session) Analyze() (model.AnalysisResult, error) {
	res, err := analyzer.Analyze(s.rawText)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	s.lastResult = &res
	s.state = Analyzed
	return res, nil
}

// Clear resets the session to its initial state.
func (s *Session) Clear() {
	s.rawText = ""
	s.lastResult = nil
	s.state = Empty
}

// Export returns the payload for an export file.
func (s *Session) Export() (model.ExportPayload, error) {
	text := strings.TrimSpace(s.rawText)
	if text == "" || s.lastResult == nil || s.lastResult.IsZero() {
		return model.ExportPayload{}, ErrNothingToExport
	}
	return model.ExportPayload{Text: text, Result: *s.lastResult}, nil
}

// Text returns the current buffer.
func (s *Session) Text() string {
	return s.rawText
}

// Result returns the last analysis result, if any.
func (s *Session) Result() (model.AnalysisResult, bool) {
	if s.lastResult == nil {
		return model.AnalysisResult{}, false
	}
	return *s.lastResult, true
}

// State returns the lifecycle stage.
func (s *Session) State() State {
	return s.state
}
