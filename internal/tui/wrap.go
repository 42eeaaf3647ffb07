package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/textan/internal/model"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	isBreak bool
}

// buildStyledRunes colours text by the fragment each rune belongs to.
// text must be the trimmed input the fragments were computed from.
func buildStyledRunes(text string, fragments []model.Fragment) []styledRune {
	out := make([]styledRune, 0, utf8.RuneCountInString(text))
	fragIdx := 0
	for i, r := range text {
		for fragIdx < len(fragments) && i >= fragments[fragIdx].End {
			fragIdx++
		}
		style := gapStyle
		if fragIdx < len(fragments) && i >= fragments[fragIdx].Start {
			style = kindStyle(fragments[fragIdx].Kind)
		}
		switch r {
		case '\n':
			out = append(out, styledRune{isBreak: true})
			continue
		case '\r':
			continue
		case '\t':
			r = ' '
		}
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

func kindStyle(kind model.SentenceKind) lipgloss.Style {
	switch kind {
	case model.Declarative:
		return declarativeStyle
	case model.Question:
		return questionStyle
	case model.Exclamatory:
		return exclamatoryStyle
	default:
		return incompleteStyle
	}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		if item.isBreak {
			b.WriteRune('\n')
			continue
		}
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if item.isBreak {
			out.WriteString(renderStyledRunes(line))
			out.WriteRune('\n')
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
