package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/tui/components"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	d := a.data.Dashboard
	e := a.data.Executive

	perRow := 4
	if a.isCompactLayout() {
		perRow = 2
	}

	var b strings.Builder
	b.WriteString(components.KPIGrid(d.KPIs.Items, perRow, cw))
	b.WriteString("\n")

	// Daily CPV trend next to the headline insights.
	values := make([]float64, len(a.data.DailyCPV))
	for i, r := range a.data.DailyCPV {
		values[i] = r.CPV
	}
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	trend := components.Sparkline(values, t.Accent) + "\n" +
		muted.Render(fmt.Sprintf("mean %s over %d days", a.loc.Decimals(d.MeanDailyCPV, 4), len(values))) + "\n" +
		muted.Render(fmt.Sprintf("peak hour %02d:00, %s clicks", d.PeakHour.Hour, a.loc.Int(d.PeakHour.Clicks)))

	insights := renderInsights(e, components.CardInnerWidth(cw))

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Daily CPV", trend, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Insights", insights, cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Daily CPV", trend, widths[0]),
			components.ContentCard("Insights", insights, widths[1]),
		}))
	}

	if notes := sampleNotes(a.data); notes != "" {
		b.WriteString("\n")
		b.WriteString(notes)
	}
	return b.String()
}

func sampleNotes(d *Data) string {
	t := theme.Active
	var names []string
	for name, sample := range d.Dashboard.Sample {
		if sample {
			names = append(names, strings.TrimSuffix(name, ".csv"))
		}
	}
	if len(names) == 0 {
		return ""
	}
	slices.Sort(names)
	return lipgloss.NewStyle().Foreground(t.Orange).Background(t.Background).
		Render(" sample data: " + strings.Join(names, ", "))
}
