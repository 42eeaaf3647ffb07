package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/textan/internal/model"
)

// Trend is a named series of per-export values.
type Trend struct {
	Name   string
	Values []float64
}

type dashPattern struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	axisTop           = "max"
	axisBottom        = "min"
	axisSep           = " │ "
	ansiReset         = "\x1b[0m"
)

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var trendColors = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m"}

// HistoryTrends extracts words and sentences per export in chronological order.
func HistoryTrends(entries []model.HistoryEntry) []Trend {
	words := make([]float64, 0, len(entries))
	sentences := make([]float64, 0, len(entries))
	for _, e := range entries {
		words = append(words, float64(e.Result.WordCount))
		sentences = append(sentences, float64(e.Result.SentenceCount))
	}
	return []Trend{
		{Name: "words", Values: words},
		{Name: "sentences", Values: sentences},
	}
}

// PlotTrends draws the trends as an overlaid braille chart. Every trend is
// scaled to its own min/max. width and height count terminal cells; zero
// picks defaults.
func PlotTrends(w io.Writer, title string, trends []Trend, width, height int) error {
	trends = nonEmptyTrends(trends)
	if len(trends) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(TerminalWidth())
	}
	width = max(width, minPlotWidth)

	ranges := make([][2]float64, len(trends))
	layers := make([][][]uint8, len(trends))
	for i, tr := range trends {
		lo, hi := minMax(tr.Values)
		ranges[i] = [2]float64{lo, hi}
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		layers[i] = plotLayer(resample(tr.Values, width), lo, hi, width, height, dashPatterns[i%len(dashPatterns)])
	}

	color := useColor(w)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, tr := range trends {
		if _, err := fmt.Fprintf(w, "%s: min=%.0f max=%.0f\n", tr.Name, ranges[i][0], ranges[i][1]); err != nil {
			return err
		}
	}
	axisWidth := utf8.RuneCountInString(axisTop)
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = axisTop
		case height - 1:
			label = axisBottom
		}
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisWidth, label, axisSep)
		for x := 0; x < width; x++ {
			mask, owner := mergeCell(layers, x, y)
			ch := brailleRune(mask)
			if color && owner >= 0 {
				row.WriteString(trendColors[owner%len(trendColors)])
				row.WriteRune(ch)
				row.WriteString(ansiReset)
				continue
			}
			row.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, legend(trends, color))
	return err
}

// PlotWidthFor returns the chart width that fits beside the axis in totalWidth.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axis := utf8.RuneCountInString(axisTop) + utf8.RuneCountInString(axisSep)
	return max(totalWidth-axis, minPlotWidth)
}

func nonEmptyTrends(trends []Trend) []Trend {
	out := make([]Trend, 0, len(trends))
	for _, tr := range trends {
		if len(tr.Values) > 0 {
			out = append(out, tr)
		}
	}
	return out
}

// plotLayer rasterizes one trend into braille dot masks. Each cell holds a
// 2x4 dot grid.
func plotLayer(values []float64, lo, hi float64, width, height int, dash dashPattern) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	dotRows := height * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		px := x * 2
		py := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(dotRows-1)))
		py = max(0, min(py, dotRows-1))
		plot := func(dx, dy int) {
			if dash.visible(dx) {
				setDot(cells, dx, dy)
			}
		}
		if prevX < 0 {
			plot(px, py)
		} else {
			bresenham(prevX, prevY, px, py, plot)
		}
		prevX, prevY = px, py
	}
	return cells
}

func (d dashPattern) visible(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

func mergeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, cells := range layers {
		if m := cells[y][x]; m != 0 {
			if owner < 0 {
				owner = i
			}
			mask |= m
		}
	}
	return mask, owner
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := max((i+1)*n/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Dot bits per braille column, top to bottom.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if y < 0 || x < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleBits[x%2][y%4]
}

func brailleRune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func legend(trends []Trend, color bool) string {
	parts := make([]string, 0, len(trends))
	for i, tr := range trends {
		label := fmt.Sprintf("%c %s (%s)", brailleRune(0x01), tr.Name, dashPatterns[i%len(dashPatterns)].name)
		if color {
			label = trendColors[i%len(trendColors)] + label + ansiReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}
