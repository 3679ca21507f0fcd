package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/tui/components"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

func (a App) renderExecutiveTab(cw int) string {
	e := a.data.Executive

	var b strings.Builder

	// Scenario cards side by side.
	cards := make([]string, 0, len(e.Cards))
	widths := components.LayoutRow(cw, max(1, len(e.Cards)))
	for i, c := range e.Cards {
		note := "ROAS " + cli.FormatRatio(c.ROAS)
		if c.Scenario.Realistic {
			note += " · realistic"
		}
		cards = append(cards, components.MetricCard(
			fmt.Sprintf("%s (%d%%)", c.Scenario.Name, business.RatePercent(c.Scenario)),
			a.loc.MoneyWhole(c.Revenue), note, widths[i]))
	}
	b.WriteString(components.CardRow(cards))
	b.WriteString("\n")

	b.WriteString(components.ContentCard(sampleTitle("Cohorts", e.CohortsSample), a.cohortsBody(), cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard(sampleTitle("Waste", e.WasteSample), a.wasteBody(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Insights", renderInsights(e, components.CardInnerWidth(cw)), cw))
	} else {
		half := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard(sampleTitle("Waste", e.WasteSample), a.wasteBody(half[0]), half[0]),
			components.ContentCard("Insights", renderInsights(e, components.CardInnerWidth(half[1])), half[1]),
		}))
	}
	return b.String()
}

func sampleTitle(title string, sample bool) string {
	if sample {
		return title + "  sample data"
	}
	return title
}

func (a App) cohortsBody() string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cell := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	format := "%-22s %14s %8s %9s %12s %7s"
	lines := []string{head.Render(fmt.Sprintf(format, "Cohort", "Spend", "Leads", "Purchases", "CPV", "ROAS"))}
	for _, c := range a.data.Executive.Cohorts {
		lines = append(lines, cell.Render(fmt.Sprintf(format,
			truncStr(c.Name, 22),
			a.loc.Money(c.Spend),
			a.loc.Int(c.Leads),
			a.loc.Int(c.Purchases),
			a.loc.Money(business.CohortCPV(c)),
			cli.FormatRatio(business.CohortROAS(c)),
		)))
	}
	return strings.Join(lines, "\n")
}

func (a App) wasteBody(outer int) string {
	t := theme.Active
	w := a.data.Executive.Waste
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(w.Top) == 0 {
		return muted.Render("No campaign spent without converting.")
	}

	nameW := max(10, components.CardInnerWidth(outer)-18)
	value := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	lines := make([]string, 0, len(w.Top)+1)
	for _, r := range w.Top {
		lines = append(lines, muted.Render(fmt.Sprintf("%-*s ", nameW, truncStr(r.Name, nameW)))+
			value.Render(fmt.Sprintf("%16s", a.loc.Money(r.Spend))))
	}
	summary := fmt.Sprintf("total %s across %d campaigns", a.loc.Money(w.Total), w.Count)
	if w.Truncated() {
		summary += fmt.Sprintf(", top %d shown", len(w.Top))
	}
	lines = append(lines, muted.Render(summary))
	return strings.Join(lines, "\n")
}

// renderInsights renders executive insights with a colored severity marker.
func renderInsights(e *business.Executive, width int) string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	detail := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(max(10, width-2))

	parts := make([]string, 0, len(e.Insights))
	for _, in := range e.Insights {
		marker := lipgloss.NewStyle().Foreground(t.ForSeverity(in.Severity)).Background(t.Surface).Render("● ")
		parts = append(parts, marker+title.Render(truncStr(in.Title, width-2))+"\n"+detail.Render(in.Detail))
	}
	return strings.Join(parts, "\n")
}
