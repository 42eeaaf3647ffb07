// Package report renders analysis results for terminals and files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/textan/internal/model"
)

// Format selects the output encoding of Render.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text, json or yaml)", s)
	}
}

const (
	barChar     = '#'
	minBarWidth = 10
	labelWidth  = 12
)

// Render writes the payload in the requested format. width bounds the text
// bar chart; zero means the terminal width.
func Render(w io.Writer, p model.ExportPayload, format Format, width int) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	default:
		return RenderResult(w, p.Result, width)
	}
}

// RenderResult prints the counts followed by a sentence-type bar chart.
func RenderResult(w io.Writer, res model.AnalysisResult, width int) error {
	lines := []string{
		fmt.Sprintf("Sentences:   %d", res.SentenceCount),
		fmt.Sprintf("Words:       %d", res.WordCount),
		fmt.Sprintf("Declarative: %d", res.DeclarativeCount),
		fmt.Sprintf("Questions:   %d", res.QuestionCount),
		fmt.Sprintf("Exclamatory: %d", res.ExclamatoryCount),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if res.SentenceCount == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	for _, bar := range Bars(res, width) {
		if _, err := fmt.Fprintln(w, bar); err != nil {
			return err
		}
	}
	return nil
}

// Bars renders one proportional bar per sentence kind.
func Bars(res model.AnalysisResult, width int) []string {
	if width <= 0 {
		width = TerminalWidth()
	}
	barWidth := width - labelWidth - 8
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	kinds := []struct {
		label string
		count int
	}{
		{"declarative", res.DeclarativeCount},
		{"question", res.QuestionCount},
		{"exclamatory", res.ExclamatoryCount},
	}
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		n := 0
		if res.SentenceCount > 0 {
			n = int(math.Round(float64(k.count) / float64(res.SentenceCount) * float64(barWidth)))
		}
		out = append(out, fmt.Sprintf("%-*s %s %d", labelWidth, k.label, strings.Repeat(string(barChar), n), k.count))
	}
	return out
}

// RenderHistory prints saved exports as a table.
func RenderHistory(w io.Writer, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No saved exports found.")
		return err
	}
	cols := []column{
		{header: "Saved"},
		{header: "Sentences", right: true},
		{header: "Words", right: true},
		{header: "Decl", right: true},
		{header: "Quest", right: true},
		{header: "Excl", right: true},
		{header: "Path"},
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.SavedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", e.Result.SentenceCount),
			fmt.Sprintf("%d", e.Result.WordCount),
			fmt.Sprintf("%d", e.Result.DeclarativeCount),
			fmt.Sprintf("%d", e.Result.QuestionCount),
			fmt.Sprintf("%d", e.Result.ExclamatoryCount),
			e.Path,
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
