package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/pipeline"
	"github.com/theirongolddev/adburn/internal/tui/components"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

func (a App) renderAudienceTab(cw int) string {
	d := a.data

	var placements strings.Builder
	var total float64
	for _, p := range d.Placements {
		total += p.Spend
	}
	barW := max(10, components.CardInnerWidth(cw)/3)
	for i, p := range d.Placements {
		if i > 0 {
			placements.WriteString("\n")
		}
		share := 0.0
		if total > 0 {
			share = p.Spend / total
		}
		placements.WriteString(components.ShareBar(p.Placement, share, 28, barW,
			fmt.Sprintf("%s · %s impr.", a.loc.Money(p.Spend), a.loc.Int(p.Impressions))))
	}

	var funnel strings.Builder
	shares := pipeline.FunnelShare(d.Funnel)
	for i, st := range d.Funnel {
		if i > 0 {
			funnel.WriteString("\n")
		}
		funnel.WriteString(components.ShareBar(st.Name, shares[i]/100, 28, barW, a.loc.Int(st.Count)))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Spend by placement", placements.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Funnel (share of impressions)", funnel.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Age and gender", a.demographicsBody(), cw))
	return b.String()
}

func (a App) demographicsBody() string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cell := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	row := func(style lipgloss.Style, cols ...string) string {
		return style.Render(fmt.Sprintf("%-8s %-8s %14s %12s %9s %7s", cols[0], cols[1], cols[2], cols[3], cols[4], cols[5]))
	}

	lines := []string{row(head, "Age", "Gender", "Spend", "Impressions", "Clicks", "CTR")}
	for _, r := range a.data.Demographics {
		ctr := 0.0
		if r.Impressions > 0 {
			ctr = float64(r.Clicks) / float64(r.Impressions) * 100
		}
		lines = append(lines, row(cell,
			truncStr(r.Age, 8), truncStr(r.Gender, 8),
			a.loc.Money(r.Spend), a.loc.Int(r.Impressions), a.loc.Int(r.Clicks),
			a.loc.Decimals(ctr, 2)+"%"))
	}
	return strings.Join(lines, "\n")
}
