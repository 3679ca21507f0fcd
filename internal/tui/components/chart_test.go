package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/tui/theme"
)

func TestBarsRenderFitsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	c := Bars{Values: []float64{1, 2, 3}, Labels: []string{"a", "b", "c"}, Color: theme.Active.Blue, Highlight: -1}
	out := c.Render(40, 6)
	lines := strings.Split(out, "\n")

	// 6 plot rows, the axis and the labels.
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w > 40 {
			t.Errorf("line %d is %d wide, want <= 40", i, w)
		}
	}
}

func TestBarsReferenceLine(t *testing.T) {
	theme.SetActive("flexoki-dark")

	with := Bars{Values: []float64{1, 3}, Color: theme.Active.Blue, Reference: 2, Highlight: -1}.Render(30, 6)
	without := Bars{Values: []float64{1, 3}, Color: theme.Active.Blue, Highlight: -1}.Render(30, 6)
	if !strings.Contains(with, "╌") {
		t.Error("reference line missing")
	}
	if strings.Contains(without, "╌") {
		t.Error("reference line drawn without a reference")
	}
}

func TestBarsNarrowFallsBackToSparkline(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := Bars{Values: []float64{1, 2, 3}, Color: theme.Active.Blue}.Render(10, 6)
	if strings.Contains(out, "\n") {
		t.Fatalf("narrow chart should be a single sparkline, got:\n%s", out)
	}
}

func TestBarsFitKeepsHighlight(t *testing.T) {
	values := make([]float64, 100)
	c := Bars{Values: values, Highlight: 99}

	got, _, hl := c.fit(35)
	if len(got) != 12 {
		t.Fatalf("sampled %d bars, want 12", len(got))
	}
	if hl != 11 {
		t.Fatalf("highlight = %d, want 11", hl)
	}
}

func TestXAxisLabels(t *testing.T) {
	if got := xAxis([]string{"a", "b", "c"}, 3, 8); got != "a  b  c" {
		t.Fatalf("xAxis = %q", got)
	}
	// "2" would overlap "Jan" and is dropped.
	if got := xAxis([]string{"Jan", "2", "3", "4"}, 2, 7); got != "Jan 3 4" {
		t.Fatalf("xAxis = %q", got)
	}
}
