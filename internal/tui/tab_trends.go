package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/tui/components"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

func (a App) renderTrendsTab(cw int) string {
	t := theme.Active
	d := a.data

	chartW := components.CardInnerWidth(cw)
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}

	cpv := make([]float64, len(d.DailyCPV))
	for i, r := range d.DailyCPV {
		cpv[i] = r.CPV
	}
	clicks := make([]float64, len(d.Hourly))
	hourLabels := make([]string, len(d.Hourly))
	for i, h := range d.Hourly {
		clicks[i] = float64(h.Clicks)
		hourLabels[i] = fmt.Sprintf("%02d", h.Hour)
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	daily := components.Bars{
		Values:    cpv,
		Labels:    dateLabels(d.DailyCPV),
		Color:     t.Blue,
		Reference: d.Dashboard.MeanDailyCPV,
		Highlight: -1,
	}
	dailyBody := daily.Render(chartW, chartH)
	if len(cpv) > 0 {
		dailyBody += "\n" + muted.Render(fmt.Sprintf("╌ mean %s, days above mean: %d",
			a.loc.Decimals(d.Dashboard.MeanDailyCPV, 4), daysAbove(d.DailyCPV, d.Dashboard.MeanDailyCPV)))
	}
	b.WriteString(components.ContentCard("Daily CPV", dailyBody, cw))
	b.WriteString("\n")

	peak := d.Dashboard.PeakHour
	hourly := components.Bars{Values: clicks, Labels: hourLabels, Color: t.Green, Highlight: -1}
	for i, h := range d.Hourly {
		if h.Hour == peak.Hour && h.Clicks > 0 {
			hourly.Highlight = i
		}
	}
	hourlyBody := hourly.Render(chartW, chartH)
	if len(clicks) > 0 {
		hourlyBody += "\n" + muted.Render(fmt.Sprintf("peak %02d:00 with %s clicks and %s spend (account time zone)",
			peak.Hour, a.loc.Int(peak.Clicks), a.loc.Money(peak.Spend)))
	}
	b.WriteString(components.ContentCard("Clicks by hour", hourlyBody, cw))
	return b.String()
}

// dateLabels builds compact X-axis labels: the month at the first day and
// at month boundaries, the day number elsewhere.
func dateLabels(days []model.DailyCPVRow) []string {
	labels := make([]string, len(days))
	prevMonth := time.Month(0)
	for i, d := range days {
		dt, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			labels[i] = d.Date
			continue
		}
		if i == 0 || dt.Month() != prevMonth {
			labels[i] = dt.Format("Jan")
		} else {
			labels[i] = fmt.Sprintf("%d", dt.Day())
		}
		prevMonth = dt.Month()
	}
	return labels
}

func daysAbove(days []model.DailyCPVRow, mean float64) int {
	n := 0
	for _, d := range days {
		if d.CPV > mean {
			n++
		}
	}
	return n
}
