package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/tui/theme"
)

// Status is what the bottom bar reports about the loaded data.
type Status struct {
	Preset  string
	Loaded  string // load duration or age
	Sample  bool   // at least one table is sample data
	Running bool   // a report run is in progress
	Message string // result of the last action
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := base.Render(" [?]help  [r]eload  [x]run  [q]uit")
	if s.Running {
		left += accent.Render("  running reports…")
	} else if s.Message != "" {
		left += base.Render("  " + s.Message)
	}

	var right []string
	if s.Sample {
		right = append(right, warn.Render("sample data"))
	}
	if s.Preset != "" {
		right = append(right, accent.Render(s.Preset))
	}
	if s.Loaded != "" {
		right = append(right, base.Render("loaded "+s.Loaded))
	}
	r := strings.Join(right, base.Render("  ")) + base.Render(" ")

	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(r))
	return left + base.Render(strings.Repeat(" ", gap)) + r
}
