package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/store"
	"github.com/theirongolddev/adburn/internal/tui/components"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

func (a App) renderRunsTab(cw int) string {
	t := theme.Active
	d := a.data
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	switch {
	case d.RunsErr != nil:
		return components.ContentCard("Runs", muted.Render("History unavailable: "+d.RunsErr.Error()), cw)
	case len(d.Runs) == 0:
		return components.ContentCard("Runs", muted.Render("No runs recorded yet. Press x to run the reports."), cw)
	}

	head := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	format := "%-17s %-10s %-8s %-9s %-9s %16s  %s"
	lines := []string{head.Render(fmt.Sprintf(format, "Started", "Trigger", "Data", "Reports", "Duration", "Spend", "Failed"))}
	for _, r := range d.Runs {
		data := "api"
		if r.Sample {
			data = "sample"
		}
		lines = append(lines, runLine(r, format, data, a.loc.Money(r.Spend)))
	}

	body := strings.Join(lines, "\n") + "\n" +
		muted.Render(fmt.Sprintf("last run %s", sinceLabel(d.Runs[0].StartedAt)))
	return components.ContentCard(fmt.Sprintf("Runs (latest %d)", len(d.Runs)), body, cw)
}

func runLine(r store.Run, format, data, spend string) string {
	t := theme.Active
	var failed []string
	for _, rep := range r.Reports {
		if rep.Status == store.StatusFailed {
			failed = append(failed, rep.Name)
		}
	}
	style := lipgloss.NewStyle().Foreground(t.ForRun(r.Succeeded, r.Total)).Background(t.Surface)
	return style.Render(fmt.Sprintf(format,
		r.StartedAt.Local().Format("2006-01-02 15:04"),
		r.Trigger,
		data,
		fmt.Sprintf("%d/%d", r.Succeeded, r.Total),
		r.Duration.Round(time.Millisecond).String(),
		spend,
		strings.Join(failed, ","),
	))
}
