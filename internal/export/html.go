package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/dashboard"
	"github.com/theirongolddev/adburn/internal/model"
)

// Dashboard file names.
const (
	DashboardName = "dashboard.html"
	ExecutiveName = "executive.html"
	SummaryName   = "executive.md"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var severityColors = map[model.Severity]string{
	model.SeveritySuccess: "#10b981",
	model.SeverityWarning: "#f59e0b",
	model.SeverityDanger:  "#ef4444",
	model.SeverityInfo:    "#6366f1",
}

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"severityColor": func(s model.Severity) string {
		if c, ok := severityColors[s]; ok {
			return c
		}
		return severityColors[model.SeverityInfo]
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

type dashboardPage struct {
	Generated string
	KPIs      []model.KPI
	Charts    []model.Chart
	Scatter   []model.ScatterPoint
	Funnel    []dashboard.FunnelBar
	Sample    []string
	PeakHour  model.HourlyRow
}

type wasteItem struct {
	Name  string
	Spend string
}

type scenarioCard struct {
	Name    string
	Rate    int
	Revenue string
	ROAS    string
}

type executivePage struct {
	Generated string
	CPVOK     bool
	Cards     []model.KPI
	Insights  []model.Insight
	Charts    []model.Chart
	Scenarios []scenarioCard
	Waste     []wasteItem
	WasteNote string
	Summary   template.HTML
	Sample    []string
}

// RenderDashboard renders the marketing dashboard page.
func RenderDashboard(d *dashboard.Dashboard, now time.Time) ([]byte, error) {
	page := dashboardPage{
		Generated: now.Format("2006-01-02 15:04"),
		KPIs:      d.KPIs.Items,
		Charts:    d.Charts(),
		Scatter:   d.Scatter,
		Funnel:    d.Funnel,
		PeakHour:  d.PeakHour,
	}
	for name, s := range d.Sample {
		if s {
			page.Sample = append(page.Sample, name)
		}
	}
	sort.Strings(page.Sample)
	return render("dashboard.html.tmpl", page)
}

// RenderExecutive renders the executive page. summary is an HTML fragment
// embedded verbatim.
func RenderExecutive(e *business.Executive, summary template.HTML, now time.Time) ([]byte, error) {
	loc := e.Params.Locale
	page := executivePage{
		Generated: now.Format("2006-01-02"),
		CPVOK:     e.KPIs.Raw(business.KeyCPVOK) == 1,
		Insights:  e.Insights,
		Charts:    e.Charts.All(),
		Summary:   summary,
	}
	for _, key := range business.CardKeys {
		if k, ok := e.KPIs.Get(key); ok {
			page.Cards = append(page.Cards, k)
		}
	}
	for _, c := range e.Cards {
		page.Scenarios = append(page.Scenarios, scenarioCard{
			Name:    c.Scenario.Name,
			Rate:    business.RatePercent(c.Scenario),
			Revenue: loc.MoneyWhole(c.Revenue),
			ROAS:    cli.FormatRatio(c.ROAS),
		})
	}
	for i, w := range e.Waste.Top {
		if i == 5 {
			break
		}
		page.Waste = append(page.Waste, wasteItem{Name: w.Name, Spend: loc.Money(w.Spend)})
	}
	if e.Waste.Truncated() {
		page.WasteNote = fmt.Sprintf("Showing %d of %d campaigns; total waste %s.",
			len(e.Waste.Top), e.Waste.Count, loc.Money(e.Waste.Total))
	}
	if e.CohortsSample {
		page.Sample = append(page.Sample, "cohorts")
	}
	if e.TypesSample {
		page.Sample = append(page.Sample, "campaign types")
	}
	if e.WasteSample {
		page.Sample = append(page.Sample, "waste")
	}
	if e.AudiencesSample {
		page.Sample = append(page.Sample, "audiences")
	}
	return render("executive.html.tmpl", page)
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to dir/name, creating dir when needed.
func WriteFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // output dir is user-facing
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // reports are meant to be shared
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
