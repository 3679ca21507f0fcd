// Package export writes report tables and dashboards to disk.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/pipeline"
	"github.com/theirongolddev/adburn/internal/source"
)

// Table is a named, typed table ready for a sink. Cells hold string, int,
// int64 or float64 values.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// SheetName derives a worksheet name from the file name.
func (t Table) SheetName() string {
	name := strings.TrimSuffix(t.Name, ".csv")
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// Records formats every row as strings.
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = formatCell(v)
		}
		out[i] = rec
	}
	return out
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// CampaignTable converts the campaign report.
func CampaignTable(rows []model.CampaignRow) Table {
	t := Table{Name: source.FileCampaigns, Header: []string{
		source.ColCampaign, source.ColSpend, source.ColImpressions, source.ColClicks,
		source.ColCTR, source.ColCPV, source.ColConversions,
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Campaign, r.Spend, r.Impressions, r.Clicks, r.CTR, r.CPV, r.Conversions})
	}
	return t
}

// DailyCPVTable converts the daily CPV report.
func DailyCPVTable(rows []model.DailyCPVRow) Table {
	t := Table{Name: source.FileDailyCPV, Header: []string{source.ColDate, source.ColCPV}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Date, r.CPV})
	}
	return t
}

// PlacementTable converts the placement report.
func PlacementTable(rows []model.PlacementRow) Table {
	t := Table{Name: source.FilePlacements, Header: []string{source.ColPlacement, source.ColSpend, source.ColImpressions}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Placement, r.Spend, r.Impressions})
	}
	return t
}

// DemographicTable converts the age and gender report.
func DemographicTable(rows []model.DemographicRow) Table {
	t := Table{Name: source.FileDemographics, Header: []string{
		source.ColAge, source.ColGender, source.ColSpend, source.ColImpressions, source.ColClicks,
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Age, r.Gender, r.Spend, r.Impressions, r.Clicks})
	}
	return t
}

// HourlyTable converts the hour-of-day report.
func HourlyTable(rows []model.HourlyRow) Table {
	t := Table{Name: source.FileHourly, Header: []string{
		source.ColHour, source.ColClicks, source.ColImpressions, source.ColSpend,
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Hour, r.Clicks, r.Impressions, r.Spend})
	}
	return t
}

// FunnelTable converts the funnel stages.
func FunnelTable(stages []model.FunnelStage) Table {
	t := Table{Name: source.FileFunnel, Header: []string{source.ColStage, source.ColCount}}
	for _, s := range stages {
		t.Rows = append(t.Rows, []any{s.Name, s.Count})
	}
	return t
}

// ExecutiveTable converts the per-cohort executive figures.
func ExecutiveTable(cohorts []model.CohortRow) Table {
	t := Table{Name: source.FileExecutive, Header: []string{
		"cohort", source.ColSpend, "leads", "page_views", "checkouts", "purchases",
		"direct_revenue", source.ColCPV, "roas_direct",
	}}
	for _, c := range cohorts {
		t.Rows = append(t.Rows, []any{
			c.Name,
			pipeline.Round(c.Spend, 2),
			c.Leads,
			c.PageViews,
			c.Checkouts,
			c.Purchases,
			pipeline.Round(c.DirectRevenue, 2),
			pipeline.Round(business.CohortCPV(c), 2),
			pipeline.Round(business.CohortROAS(c), 4),
		})
	}
	return t
}

// AudienceTable converts the per-audience figures.
func AudienceTable(rows []model.AudienceRow) Table {
	t := Table{Name: source.FileExecutiveAudience, Header: []string{
		"audience", "type", source.ColSpend, "leads", "purchases", source.ColCPV,
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Audience, r.Type, r.Spend, r.Leads, r.Purchases, r.CPV})
	}
	return t
}
