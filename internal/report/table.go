package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const cellGap = "  "

type column struct {
	header string
	right  bool
}

// formatTable lays rows out under a header and a dashed rule. Widths are
// measured in terminal cells and trailing padding is dropped.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
		widths[i] = runewidth.StringWidth(c.header)
	}
	for _, row := range rows {
		for i := 0; i < len(cols) && i < len(row); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	rule := make([]string, len(cols))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinCells(cols, widths, headers), joinCells(cols, widths, rule))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, cells []string) string {
	var b strings.Builder
	for i, c := range cols {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			b.WriteString(cellGap)
		}
		pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
		if c.right {
			b.WriteString(pad + cell)
		} else {
			b.WriteString(cell + pad)
		}
	}
	return strings.TrimRight(b.String(), " ")
}
