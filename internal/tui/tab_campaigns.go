package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/tui/components"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

// Fixed widths of the numeric campaign columns; the name column takes the rest.
var campaignColumnWidths = []int{14, 12, 9, 7, 9, 7}

func newCampaignTable() table.Model {
	t := theme.Active
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(t.Accent).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	styles.Cell = styles.Cell.Foreground(t.TextPrimary)
	styles.Selected = styles.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(true)

	return table.New(
		table.WithColumns(campaignColumns(40)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(styles),
	)
}

func campaignColumns(nameWidth int) []table.Column {
	titles := []string{"Spend", "Impressions", "Clicks", "CTR", "CPV", "Conv."}
	cols := []table.Column{{Title: "Campaign", Width: nameWidth}}
	for i, title := range titles {
		cols = append(cols, table.Column{Title: title, Width: campaignColumnWidths[i]})
	}
	return cols
}

func campaignRows(rows []model.CampaignRow, loc cli.Locale) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{
			r.Campaign,
			loc.Money(r.Spend),
			loc.Int(r.Impressions),
			loc.Int(r.Clicks),
			loc.Decimals(r.CTR, 2) + "%",
			loc.Decimals(r.CPV, 4),
			loc.Int(r.Conversions),
		}
	}
	return out
}

// resizeCampaignTable fits the table to the terminal, leaving room for the
// detail card below it.
func (a *App) resizeCampaignTable() {
	cw := a.contentWidth()
	fixed := 0
	for _, w := range campaignColumnWidths {
		fixed += w + 2 // cell padding
	}
	nameW := max(16, components.CardInnerWidth(cw)-fixed-2)
	a.campaigns.SetColumns(campaignColumns(nameW))
	a.campaigns.SetWidth(components.CardInnerWidth(cw))
	a.campaigns.SetHeight(max(5, a.height-16))
}

func (a App) renderCampaignsTab(cw int) string {
	t := theme.Active
	rows := a.data.Campaigns.Rows
	if len(rows) == 0 {
		return components.ContentCard("Campaigns", "No campaigns in this period.", cw)
	}

	title := fmt.Sprintf("Campaigns (%d)", len(rows))
	if a.data.Campaigns.Sample {
		title += "  sample data"
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(title, a.campaigns.View(), cw))
	b.WriteString("\n")

	idx := a.campaigns.Cursor()
	if idx < 0 || idx >= len(rows) {
		return b.String()
	}
	r := rows[idx]
	sum := a.data.Dashboard.Summary

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	line := func(k, v string) string {
		return label.Render(fmt.Sprintf("%-16s", k)) + value.Render(v)
	}

	share := 0.0
	if sum.Spend > 0 {
		share = r.Spend / sum.Spend
	}
	detail := strings.Join([]string{
		line("Type", business.ClassifyCampaign(r.Campaign)),
		line("Cohort", cohortOf(a, r.Campaign)),
		components.ShareBar("Share of spend", share, 16, 24, a.loc.Money(r.Spend)),
		line("CPV vs mean", fmt.Sprintf("%s vs %s", a.loc.Decimals(r.CPV, 4), a.loc.Decimals(sum.CPV, 4))),
		line("CTR vs mean", fmt.Sprintf("%s%% vs %s%%", a.loc.Decimals(r.CTR, 2), a.loc.Decimals(sum.CTR, 2))),
	}, "\n")
	b.WriteString(components.ContentCard(truncStr(r.Campaign, cw-6), detail, cw))
	return b.String()
}

func cohortOf(a App, campaign string) string {
	re, err := a.data.Executive.Params.CohortRegexp()
	if err != nil {
		return "-"
	}
	return business.CohortName(re, campaign)
}
