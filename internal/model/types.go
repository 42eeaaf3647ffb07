// Package model defines shared data structures.
package model

import "time"

// SentenceKind classifies a fragment by its terminal character.
type SentenceKind int

const (
	// Incomplete marks a trailing fragment without terminal punctuation.
	Incomplete SentenceKind = iota
	// Declarative sentences end with '.'.
	Declarative
	// Question sentences end with '?'.
	Question
	// Exclamatory sentences end with '!'.
	Exclamatory
)

func (k SentenceKind) String() string {
	switch k {
	case Declarative:
		return "declarative"
	case Question:
		return "question"
	case Exclamatory:
		return "exclamatory"
	default:
		return "incomplete"
	}
}

// Fragment is a single segment of analyzed text. Start and End are byte
// offsets into the trimmed input.
type Fragment struct {
	Text  string
	Start int
	End   int
	Kind  SentenceKind
}

// AnalysisResult holds sentence and word counts for one analysis run.
type AnalysisResult struct {
	SentenceCount    int `json:"sentences" yaml:"sentences"`
	WordCount        int `json:"words" yaml:"words"`
	DeclarativeCount int `json:"declarative" yaml:"declarative"`
	QuestionCount    int `json:"question" yaml:"question"`
	ExclamatoryCount int `json:"exclamatory" yaml:"exclamatory"`
}

// IsZero reports whether every count is zero.
func (r AnalysisResult) IsZero() bool {
	return r.SentenceCount == 0 &&
		r.WordCount == 0 &&
		r.DeclarativeCount == 0 &&
		r.QuestionCount == 0 &&
		r.ExclamatoryCount == 0
}

// ExportPayload is the data written to an export file.
type ExportPayload struct {
	Text   string         `json:"text" yaml:"text"`
	Result AnalysisResult `json:"result" yaml:"result"`
}

// AppConfig defines interactive session settings.
type AppConfig struct {
	IdleTimeout time.Duration
	KeepStale   bool
	LogoPath    string
	ExportDir   string
	Author      string
	Contact     string
	InitialFile string
}

// HistoryFilter narrows the saved export history.
type HistoryFilter struct {
	Since *time.Time
	Last  int
}

// HistoryEntry describes one saved export.
type HistoryEntry struct {
	ID        int64
	SavedAt   time.Time
	Path      string
	TextChars int
	Result    AnalysisResult
}

// HistoryTotals aggregates counts across saved exports.
type HistoryTotals struct {
	Exports   int
	Sentences int
	Words     int
}
