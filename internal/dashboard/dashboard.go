// Package dashboard assembles the marketing performance dashboard from the
// exported report tables.
package dashboard

import (
	"fmt"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/dataset"
	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/pipeline"
	"github.com/theirongolddev/adburn/internal/source"
)

// KPI keys of the marketing dashboard.
const (
	KeySpend       = "spend"
	KeyImpressions = "impressions"
	KeyCTR         = "ctr"
	KeyCPV         = "cpv"
	KeyWeightedCPV = "weighted_cpv"
)

// FunnelBar is one funnel stage with its share of the top stage.
type FunnelBar struct {
	Name  string
	Count int64
	Share float64
}

// Dashboard is the chart-ready marketing view. Sample lists the tables that
// were filled with sample data.
type Dashboard struct {
	KPIs    model.KPIReport
	Summary pipeline.CampaignSummary

	Campaigns    model.Chart
	DailyCPV     model.Chart
	Placements   model.Chart
	Demographics model.Chart
	Hourly       model.Chart
	Scatter      []model.ScatterPoint
	Funnel       []FunnelBar

	PeakHour     model.HourlyRow
	MeanDailyCPV float64
	Sample       map[string]bool
}

// Charts returns every chart in display order.
func (d *Dashboard) Charts() []model.Chart {
	return []model.Chart{d.Campaigns, d.DailyCPV, d.Placements, d.Demographics, d.Hourly}
}

// AnySample reports whether any table came from sample data.
func (d *Dashboard) AnySample() bool {
	for _, s := range d.Sample {
		if s {
			return true
		}
	}
	return false
}

// Build loads every table from ds and derives the dashboard.
func Build(ds dataset.Dataset, loc cli.Locale) (*Dashboard, error) {
	d := &Dashboard{Sample: make(map[string]bool)}

	camp, err := ds.Campaigns()
	if err != nil {
		return nil, fmt.Errorf("loading campaigns: %w", err)
	}
	daily, err := ds.DailyCPV()
	if err != nil {
		return nil, fmt.Errorf("loading daily cpv: %w", err)
	}
	placements, err := ds.Placements()
	if err != nil {
		return nil, fmt.Errorf("loading placements: %w", err)
	}
	demo, err := ds.Demographics()
	if err != nil {
		return nil, fmt.Errorf("loading demographics: %w", err)
	}
	hourly, err := ds.Hourly()
	if err != nil {
		return nil, fmt.Errorf("loading hourly: %w", err)
	}
	funnel, err := ds.Funnel()
	if err != nil {
		return nil, fmt.Errorf("loading funnel: %w", err)
	}

	d.Sample[source.FileCampaigns] = camp.Sample
	d.Sample[source.FileDailyCPV] = daily.Sample
	d.Sample[source.FilePlacements] = placements.Sample
	d.Sample[source.FileDemographics] = demo.Sample
	d.Sample[source.FileHourly] = hourly.Sample
	d.Sample[source.FileFunnel] = funnel.Sample

	d.Summary = pipeline.CampaignKPIs(camp.Rows, camp.Has(source.ColCTR), camp.Has(source.ColCPV))
	d.KPIs = campaignKPIs(d.Summary, loc)
	d.Campaigns = campaignChart(camp.Rows)
	d.Scatter = scatter(camp.Rows)
	d.DailyCPV = dailyChart(daily.Rows)
	d.MeanDailyCPV = pipeline.MeanDailyCPV(daily.Rows)
	d.Placements = placementChart(placements.Rows)
	d.Demographics = demographicChart(demo.Rows)

	hours := fillHours(hourly.Rows)
	d.Hourly = hourlyChart(hours)
	d.PeakHour = pipeline.PeakHour(hours)
	d.Funnel = funnelBars(funnel.Rows)

	for _, c := range d.Charts() {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func campaignKPIs(s pipeline.CampaignSummary, loc cli.Locale) model.KPIReport {
	var r model.KPIReport
	r.Add(model.KPI{Key: KeySpend, Label: "Total Spend", Display: loc.Money(s.Spend), Raw: s.Spend})
	r.Add(model.KPI{Key: KeyImpressions, Label: "Impressions", Display: loc.Int(s.Impressions), Raw: float64(s.Impressions)})
	r.Add(model.KPI{Key: KeyCTR, Label: "Average CTR", Display: cli.FormatRate(s.CTR, 2), Raw: s.CTR})
	r.Add(model.KPI{Key: KeyCPV, Label: "Average CPV", Display: loc.Currency + loc.Decimals(s.CPV, 4), Raw: s.CPV})
	r.Add(model.KPI{Key: KeyWeightedCPV, Label: "Spend-weighted CPV", Display: loc.Currency + loc.Decimals(s.WeightedCPV, 4), Raw: s.WeightedCPV})
	return r
}

func campaignChart(rows []model.CampaignRow) model.Chart {
	c := model.Chart{ID: "chartCampaigns", Kind: model.ChartBar, Title: "Spend by Campaign", Labels: make([]string, len(rows))}
	data := make([]float64, len(rows))
	for i, r := range rows {
		c.Labels[i] = r.Campaign
		data[i] = r.Spend
	}
	c.Datasets = []model.Series{{Label: "Spend", Data: data}}
	return c
}

func scatter(rows []model.CampaignRow) []model.ScatterPoint {
	pts := make([]model.ScatterPoint, len(rows))
	for i, r := range rows {
		pts[i] = model.ScatterPoint{
			Label: r.Campaign,
			X:     pipeline.Round(r.CTR, 3),
			Y:     pipeline.Round(r.CPV, 5),
		}
	}
	return pts
}

func dailyChart(rows []model.DailyCPVRow) model.Chart {
	c := model.Chart{ID: "chartCPV", Kind: model.ChartLine, Title: "Daily CPV", Labels: make([]string, len(rows))}
	data := make([]float64, len(rows))
	for i, r := range rows {
		c.Labels[i] = r.Date
		data[i] = r.CPV
	}
	c.Datasets = []model.Series{{Label: "CPV", Data: data}}
	return c
}

func placementChart(rows []model.PlacementRow) model.Chart {
	c := model.Chart{ID: "chartPlacements", Kind: model.ChartDoughnut, Title: "Spend by Placement", Labels: make([]string, len(rows))}
	data := make([]float64, len(rows))
	for i, r := range rows {
		c.Labels[i] = r.Placement
		data[i] = r.Spend
	}
	c.Datasets = []model.Series{{Label: "Spend", Data: data}}
	return c
}

// demographicChart pivots spend to one dataset per gender over age labels,
// both in first-occurrence order. Missing pairs are zero.
func demographicChart(rows []model.DemographicRow) model.Chart {
	var ages, genders []string
	seenAge := make(map[string]int)
	seenGender := make(map[string]int)
	for _, r := range rows {
		if _, ok := seenAge[r.Age]; !ok {
			seenAge[r.Age] = len(ages)
			ages = append(ages, r.Age)
		}
		if _, ok := seenGender[r.Gender]; !ok {
			seenGender[r.Gender] = len(genders)
			genders = append(genders, r.Gender)
		}
	}

	c := model.Chart{ID: "chartDemographics", Kind: model.ChartBar, Title: "Spend by Age and Gender", Labels: ages}
	c.Datasets = make([]model.Series, len(genders))
	for i, g := range genders {
		c.Datasets[i] = model.Series{Label: g, Data: make([]float64, len(ages))}
	}
	for _, r := range rows {
		c.Datasets[seenGender[r.Gender]].Data[seenAge[r.Age]] += r.Spend
	}
	return c
}

// fillHours returns 24 rows indexed by hour; rows outside 0-23 are ignored.
func fillHours(rows []model.HourlyRow) []model.HourlyRow {
	hours := make([]model.HourlyRow, 24)
	for h := range hours {
		hours[h].Hour = h
	}
	for _, r := range rows {
		if r.Hour < 0 || r.Hour > 23 {
			continue
		}
		hours[r.Hour].Clicks = model.AddCount(hours[r.Hour].Clicks, r.Clicks)
		hours[r.Hour].Impressions = model.AddCount(hours[r.Hour].Impressions, r.Impressions)
		hours[r.Hour].Spend += r.Spend
	}
	return hours
}

func hourlyChart(hours []model.HourlyRow) model.Chart {
	c := model.Chart{ID: "chartHourly", Kind: model.ChartBar, Title: "Clicks by Hour", Labels: make([]string, len(hours))}
	data := make([]float64, len(hours))
	for i, h := range hours {
		c.Labels[i] = fmt.Sprintf("%dh", h.Hour)
		data[i] = float64(h.Clicks)
	}
	c.Datasets = []model.Series{{Label: "Clicks", Data: data}}
	return c
}

func funnelBars(stages []model.FunnelStage) []FunnelBar {
	shares := pipeline.FunnelShare(stages)
	out := make([]FunnelBar, len(stages))
	for i, s := range stages {
		out[i] = FunnelBar{Name: s.Name, Count: s.Count, Share: shares[i]}
	}
	return out
}
