package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestShareBarClampsAndLabels(t *testing.T) {
	over := ShareBar("Feed", 1.7, 10, 20, "R$ 10,00")
	if !strings.Contains(over, "100.0%") {
		t.Errorf("share above 1 not clamped: %q", over)
	}
	under := ShareBar("Stories", -0.2, 10, 20, "")
	if !strings.Contains(under, "0.0%") {
		t.Errorf("negative share not clamped: %q", under)
	}

	long := ShareBar("instagram_explore_grid_home", 0.3, 10, 20, "x")
	if strings.Contains(long, "instagram_explore") {
		t.Errorf("label not truncated: %q", long)
	}
	if !strings.Contains(long, "…") {
		t.Errorf("truncated label missing ellipsis: %q", long)
	}
}

func TestShareBarWidthIsStable(t *testing.T) {
	a := lipgloss.Width(ShareBar("Feed", 0.1, 12, 20, ""))
	b := lipgloss.Width(ShareBar("Reels", 0.9, 12, 20, ""))
	if a != b {
		t.Errorf("bar widths differ: %d vs %d", a, b)
	}
}
