// Package export writes and reads analysis export files.
//
// The layout matches files produced by earlier releases of the tool, so the
// labels stay in Russian:
//
//	Текст:
//
//	<text>
//
//
//	Результаты анализа:
//
//	Количество предложений: N
//	Количество слов: N
//	Повествовательные предложения: N
//	Вопросительные предложения: N
//	Восклицательные предложения: N
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/textan/internal/model"
)

// Labels used in export files, in file order.
const (
	TextHeader        = "Текст:"
	ResultsHeader     = "Результаты анализа:"
	SentencesLabel    = "Количество предложений"
	WordsLabel        = "Количество слов"
	DeclarativeLabel  = "Повествовательные предложения"
	QuestionLabel     = "Вопросительные предложения"
	ExclamatoryLabel  = "Восклицательные предложения"
	textPrefix        = TextHeader + "\n\n"
	resultsSeparator  = "\n\n\n" + ResultsHeader + "\n\n"
	countLineTemplate = "%s: %d\n"
)

// ErrMalformed is returned by Parse when the input does not follow the layout.
var ErrMalformed = errors.New("malformed export file")

// Write renders the payload in the export layout.
func Write(w io.Writer, p model.ExportPayload) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(textPrefix + p.Text + resultsSeparator); err != nil {
		return err
	}
	for _, line := range countLines(&p.Result) {
		if _, err := fmt.Fprintf(bw, countLineTemplate, line.label, *line.value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Parse reads an export file back into a payload.
func Parse(r io.Reader) (model.ExportPayload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.ExportPayload{}, err
	}
	content := string(data)
	if !strings.HasPrefix(content, textPrefix) {
		return model.ExportPayload{}, fmt.Errorf("%w: missing %q header", ErrMalformed, TextHeader)
	}
	body := strings.TrimPrefix(content, textPrefix)
	idx := strings.LastIndex(body, resultsSeparator)
	if idx < 0 {
		return model.ExportPayload{}, fmt.Errorf("%w: missing %q section", ErrMalformed, ResultsHeader)
	}

	var payload model.ExportPayload
	payload.Text = body[:idx]
	lines := strings.Split(strings.TrimRight(body[idx+len(resultsSeparator):], "\n"), "\n")
	expected := countLines(&payload.Result)
	if len(lines) != len(expected) {
		return model.ExportPayload{}, fmt.Errorf("%w: expected %d result lines, got %d", ErrMalformed, len(expected), len(lines))
	}
	for i, line := range expected {
		label, value, ok := strings.Cut(lines[i], ": ")
		if !ok || label != line.label {
			return model.ExportPayload{}, fmt.Errorf("%w: line %d: expected %q", ErrMalformed, i+1, line.label)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return model.ExportPayload{}, fmt.Errorf("%w: line %d: invalid count %q", ErrMalformed, i+1, value)
		}
		*line.value = n
	}
	return payload, nil
}

type countLine struct {
	label string
	value *int
}

func countLines(res *model.AnalysisResult) []countLine {
	return []countLine{
		{label: SentencesLabel, value: &res.SentenceCount},
		{label: WordsLabel, value: &res.WordCount},
		{label: DeclarativeLabel, value: &res.DeclarativeCount},
		{label: QuestionLabel, value: &res.QuestionCount},
		{label: ExclamatoryLabel, value: &res.ExclamatoryCount},
	}
}
