// Package analyzer counts words and classifies sentences by terminal punctuation.
package analyzer

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/textan/internal/model"
)

// ErrEmptyInput is returned when the text is blank after trimming.
var ErrEmptyInput = errors.New("text is empty")

// Analyze segments the trimmed text into sentences and counts words.
// Fragments without terminal punctuation are not counted as sentences,
// but their words are.
func Analyze(text string) (model.AnalysisResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.AnalysisResult{}, ErrEmptyInput
	}
	var res model.AnalysisResult
	for _, frag := range segmentTrimmed(trimmed) {
		switch frag.Kind {
		case model.Declarative:
			res.DeclarativeCount++
		case model.Question:
			res.QuestionCount++
		case model.Exclamatory:
			res.ExclamatoryCount++
		default:
			continue
		}
		res.SentenceCount++
	}
	res.WordCount = len(strings.Fields(trimmed))
	return res, nil
}

// Segment splits text into fragments, including a trailing incomplete one.
// Offsets refer to the trimmed text.
func Segment(text string) []model.Fragment {
	return segmentTrimmed(strings.TrimSpace(text))
}

func segmentTrimmed(text string) []model.Fragment {
	var out []model.Fragment
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		kind, ok := terminalKind(r)
		if !ok {
			continue
		}
		out = appendFragment(out, text, start, i, kind)
		for i < len(text) {
			next, nsize := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(next) {
				break
			}
			i += nsize
		}
		start = i
	}
	if start < len(text) {
		out = appendFragment(out, text, start, len(text), model.Incomplete)
	}
	return out
}

func appendFragment(out []model.Fragment, text string, start, end int, kind model.SentenceKind) []model.Fragment {
	raw := text[start:end]
	body := strings.TrimSpace(raw)
	if body == "" {
		return out
	}
	lead := strings.Index(raw, body)
	return append(out, model.Fragment{
		Text:  body,
		Start: start + lead,
		End:   start + lead + len(body),
		Kind:  kind,
	})
}

func terminalKind(r rune) (model.SentenceKind, bool) {
	switch r {
	case '.':
		return model.Declarative, true
	case '?':
		return model.Question, true
	case '!':
		return model.Exclamatory, true
	default:
		return model.Incomplete, false
	}
}
