package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface)
	return style.Render(cli.RenderSparkline(values))
}

// Bars is a vertical bar chart over a daily or hourly series.
type Bars struct {
	Values []float64
	Labels []string
	Color  lipgloss.Color
	// Reference draws a dashed line at this value, e.g. the series mean.
	Reference float64
	// Highlight is the index drawn in the warning color, -1 for none.
	Highlight int
}

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Render draws the chart into width x height cells. Narrow or short areas
// fall back to a sparkline.
func (c Bars) Render(width, height int) string {
	if len(c.Values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(c.Values, c.Color)
	}
	t := theme.Active

	hi := c.Reference
	for _, v := range c.Values {
		hi = max(hi, v)
	}
	if hi == 0 {
		hi = 1
	}

	step := tickStep(hi)
	for math.Ceil(hi/step) > float64(max(2, height/2)) {
		step *= 2
	}
	ceiling := math.Ceil(hi/step) * step
	ticks := max(1, int(math.Round(ceiling/step)))
	rowsPerTick := max(2, height/ticks)
	rows := rowsPerTick * ticks

	axisW := max(4, len(axisLabel(ceiling))+1)
	values, labels, highlight := c.fit(width - axisW - 1)
	n := len(values)
	barW := 6
	if n > 1 {
		barW = min(6, (width-axisW-1-(n-1))/n)
	} else {
		barW = min(barW, width-axisW-1)
	}
	axisLen := n*barW + n - 1

	bg := lipgloss.NewStyle().Background(t.Surface)
	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(c.Color).Background(t.Surface)
	peak := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	ref := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	refRow := -1
	if c.Reference > 0 {
		refRow = int(math.Round(c.Reference / ceiling * float64(rows)))
	}

	var b strings.Builder
	for row := rows; row >= 1; row-- {
		top := ceiling * float64(row) / float64(rows)
		bottom := ceiling * float64(row-1) / float64(rows)

		label := ""
		if row%rowsPerTick == 0 {
			label = axisLabel(step * float64(row/rowsPerTick))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", axisW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(gapCell(bg, ref, row == refRow))
			}
			style := bar
			if i == highlight {
				style = peak
			}
			switch {
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := max(1, min(8, int((v-bottom)/(top-bottom)*8)))
				b.WriteString(style.Render(strings.Repeat(string(eighths[idx]), barW)))
			case row == refRow:
				b.WriteString(ref.Render(strings.Repeat("╌", barW)))
			default:
				b.WriteString(bg.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└", axisW, "0")))
	b.WriteString(axis.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(bg.Render(strings.Repeat(" ", axisW+1)))
		b.WriteString(axis.Render(xAxis(labels, barW+1, axisLen)))
	}
	return b.String()
}

func gapCell(bg, ref lipgloss.Style, onReference bool) string {
	if onReference {
		return ref.Render("╌")
	}
	return bg.Render(" ")
}

// fit samples the series down when bars would be narrower than two cells.
func (c Bars) fit(chartW int) ([]float64, []string, int) {
	n := len(c.Values)
	if n <= 1 || (chartW-(n-1))/n >= 2 {
		return c.Values, c.Labels, c.Highlight
	}
	keep := max(2, (chartW+1)/3)
	values := make([]float64, keep)
	var labels []string
	if len(c.Labels) == n {
		labels = make([]string, keep)
	}
	highlight := -1
	for i := range values {
		src := i * (n - 1) / (keep - 1)
		values[i] = c.Values[src]
		if labels != nil {
			labels[i] = c.Labels[src]
		}
		if src == c.Highlight {
			highlight = i
		}
	}
	return values, labels, highlight
}

// xAxis places labels under their bars, skipping any that would overlap.
// The last label is always shown.
func xAxis(labels []string, pitch, axisLen int) string {
	line := []rune(strings.Repeat(" ", axisLen))
	place := func(pos int, lbl string) {
		for j, r := range []rune(lbl) {
			if pos+j < axisLen {
				line[pos+j] = r
			}
		}
	}

	n := len(labels)
	lastEnd := -1
	lastPos := (n - 1) * pitch
	for i := 0; i < n-1; i++ {
		pos := i * pitch
		end := pos + len([]rune(labels[i]))
		if pos <= lastEnd || end >= lastPos {
			continue
		}
		place(pos, labels[i])
		lastEnd = end
	}
	last := labels[n-1]
	place(max(0, min(lastPos, axisLen-len([]rune(last)))), last)
	return strings.TrimRight(string(line), " ")
}

// tickStep picks a 1/2/5 interval targeting about five ticks.
func tickStep(hi float64) float64 {
	if hi <= 0 {
		return 1
	}
	rough := hi / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func axisLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	default:
		return trimZero(fmt.Sprintf("%.2f", v))
	}
}

func trimZero(s string) string {
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
