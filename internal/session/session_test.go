package session

import (
	"errors"
	"testing"

	"github.com/verte-zerg/textan/internal/analyzer"
	"github.com/verte-zerg/textan/internal/model"
)

func TestNewSessionIsEmpty(t *testing.T) {
	s := New()
	if s.State() != Empty {
		t.Fatalf("expected empty state, got %v", s.State())
	}
	if s.Text() != "" {
		t.Fatalf("expected empty text")
	}
	if _, ok := s.Result(); ok {
		t.Fatalf("expected no result")
	}
}

func TestLoadAnalyzeExport(t *testing.T) {
	s := New()
	s.Load("Is it raining? Yes it is. Run!")
	if s.State() != Loaded {
		t.Fatalf("expected loaded state, got %v", s.State())
	}
	if _, ok := s.Result(); ok {
		t.Fatalf("load must not analyze")
	}
	res, err := s.Analyze()
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if s.State() != Analyzed {
		t.Fatalf("expected analyzed state, got %v", s.State())
	}
	if res.SentenceCount != 3 || res.WordCount != 7 {
		t.Fatalf("unexpected result: %+v", res)
	}
	payload, err := s.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if payload.Text != "Is it raining? Yes it is. Run!" || payload.Result != res {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLoadBlankStaysEmpty(t *testing.T) {
	s := New()
	s.Load("")
	if s.State() != Empty {
		t.Fatalf("expected empty state, got %v", s.State())
	}
	s.Load("   \n")
	if s.State() != Empty {
		t.Fatalf("expected empty state for whitespace, got %v", s.State())
	}
}

func TestAnalyzeEmptyKeepsPreviousResult(t *testing.T) {
	s := New(WithKeepStale(true))
	s.Load("First.")
	prev, err := s.Analyze()
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, text := range []string{"", "   "} {
		s.Load(text)
		if _, err := s.Analyze(); !errors.Is(err, analyzer.ErrEmptyInput) {
			t.Fatalf("expected ErrEmptyInput for %q, got %v", text, err)
		}
		got, ok := s.Result()
		if !ok || got != prev {
			t.Fatalf("previous result changed: %+v (ok=%v)", got, ok)
		}
		if s.State() != Empty {
			t.Fatalf("expected empty state, got %v", s.State())
		}
	}
}

func TestLoadClearsStaleResultByDefault(t *testing.T) {
	s := New()
	s.Load("One. Two.")
	if _, err := s.Analyze(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	s.Load("Different text!")
	if _, ok := s.Result(); ok {
		t.Fatalf("expected stale result to be cleared")
	}
	if s.State() != Loaded {
		t.Fatalf("expected loaded state, got %v", s.State())
	}
	if _, err := s.Export(); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestKeepStaleExportsOldCounts(t *testing.T) {
	s := New(WithKeepStale(true))
	s.Load("One. Two.")
	old, err := s.Analyze()
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	s.Load("Different text!")
	if s.State() != Loaded {
		t.Fatalf("expected loaded state, got %v", s.State())
	}
	payload, err := s.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if payload.Text != "Different text!" || payload.Result != old {
		t.Fatalf("expected stale counts paired with new text, got %+v", payload)
	}
}

func TestClearIdempotent(t *testing.T) {
	s := New()
	s.Load("Hello.")
	if _, err := s.Analyze(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	s.Clear()
	first := *s
	s.Clear()
	if *s != first {
		t.Fatalf("second clear changed state: %+v vs %+v", *s, first)
	}
	if s.State() != Empty || s.Text() != "" {
		t.Fatalf("expected empty session after clear")
	}
}

func TestExportGuards(t *testing.T) {
	s := New()
	if _, err := s.Export(); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("fresh session: expected ErrNothingToExport, got %v", err)
	}

	s.Load("text")
	if _, err := s.Export(); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("loaded without analyze: expected ErrNothingToExport, got %v", err)
	}

	s.Load("Hello.")
	if _, err := s.Analyze(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	s.Clear()
	if _, err := s.Export(); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("after clear: expected ErrNothingToExport, got %v", err)
	}
}

func TestExportRejectsZeroResult(t *testing.T) {
	s := New()
	s.rawText = "something"
	s.lastResult = &model.AnalysisResult{}
	s.state = Analyzed
	if _, err := s.Export(); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport for zero result, got %v", err)
	}
}
