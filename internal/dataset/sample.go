package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/pipeline"
	"github.com/theirongolddev/adburn/internal/source"
)

// sampleSeed fixes the daily CPV noise so sample output is reproducible.
const sampleSeed = 42

// SampleDataset generates a fixed demonstration dataset.
type SampleDataset struct{}

func sampleTable[T any](rows []T, cols ...string) Table[T] {
	return Table[T]{Rows: rows, Columns: cols, Sample: true}
}

// Campaigns returns five campaigns of mixed objective.
func (SampleDataset) Campaigns() (Table[model.CampaignRow], error) {
	rows := []model.CampaignRow{
		{Campaign: "Remarketing Q1", Spend: 12400, Impressions: 480000, Clicks: 9200, CTR: 1.92, CPV: 0.026, Conversions: 340},
		{Campaign: "Prospecting BR", Spend: 9800, Impressions: 620000, Clicks: 6800, CTR: 1.10, CPV: 0.016, Conversions: 210},
		{Campaign: "Video Views", Spend: 7300, Impressions: 890000, Clicks: 4100, CTR: 0.46, CPV: 0.008, Conversions: 95},
		{Campaign: "Lead Gen", Spend: 15200, Impressions: 310000, Clicks: 12400, CTR: 4.00, CPV: 0.049, Conversions: 520},
		{Campaign: "Brand Awareness", Spend: 5600, Impressions: 740000, Clicks: 3200, CTR: 0.43, CPV: 0.008, Conversions: 88},
	}
	return sampleTable(rows,
		source.ColCampaign, source.ColSpend, source.ColImpressions, source.ColClicks,
		source.ColCTR, source.ColCPV, source.ColConversions,
	), nil
}

// DailyCPV returns twelve weekly points over the first quarter of 2024.
func (SampleDataset) DailyCPV() (Table[model.DailyCPVRow], error) {
	rng := rand.New(rand.NewSource(sampleSeed)) //nolint:gosec // deterministic sample data
	var rows []model.DailyCPVRow
	for m := 1; m <= 3; m++ {
		for _, d := range []int{1, 8, 15, 22} {
			cpv := math.Round((0.02+rng.NormFloat64()*0.005)*1e4) / 1e4
			rows = append(rows, model.DailyCPVRow{
				Date: fmt.Sprintf("2024-%02d-%02d", m, d),
				CPV:  cpv,
			})
		}
	}
	return sampleTable(rows, source.ColDate, source.ColCPV), nil
}

func (SampleDataset) Placements() (Table[model.PlacementRow], error) {
	rows := []model.PlacementRow{
		{Placement: "Feed Mobile", Spend: 18400, Impressions: 620000},
		{Placement: "Feed Desktop", Spend: 11200, Impressions: 380000},
		{Placement: "Stories", Spend: 8700, Impressions: 290000},
		{Placement: "Reels", Spend: 6300, Impressions: 210000},
		{Placement: "Audience Network", Spend: 3800, Impressions: 180000},
		{Placement: "Messenger", Spend: 2100, Impressions: 95000},
	}
	return sampleTable(rows, source.ColPlacement, source.ColSpend, source.ColImpressions), nil
}

func (SampleDataset) Demographics() (Table[model.DemographicRow], error) {
	spend := map[string][2]float64{
		"18-24": {4200, 5100},
		"25-34": {8700, 9400},
		"35-44": {7200, 6800},
		"45-54": {4100, 3900},
		"55-64": {2300, 2100},
		"65+":   {1100, 900},
	}
	var rows []model.DemographicRow
	for _, age := range source.AgeOrder {
		s := spend[age]
		rows = append(rows,
			model.DemographicRow{Age: age, Gender: source.GenderLabel("male"), Spend: s[0]},
			model.DemographicRow{Age: age, Gender: source.GenderLabel("female"), Spend: s[1]},
		)
	}
	return sampleTable(rows, source.ColAge, source.ColGender, source.ColSpend), nil
}

var sampleHourlyClicks = [24]int64{
	120, 80, 60, 45, 55, 110, 280, 540, 720, 810, 890, 950,
	870, 820, 760, 830, 950, 1020, 980, 880, 740, 620, 430, 260,
}

// Hourly returns a 24-hour click curve peaking at 17h.
func (SampleDataset) Hourly() (Table[model.HourlyRow], error) {
	rows := make([]model.HourlyRow, 0, len(sampleHourlyClicks))
	for h, c := range sampleHourlyClicks {
		rows = append(rows, model.HourlyRow{Hour: h, Clicks: c})
	}
	return sampleTable(rows, source.ColHour, source.ColClicks), nil
}

func (SampleDataset) Funnel() (Table[model.FunnelStage], error) {
	stages := []struct {
		name  string
		count int64
	}{
		{pipeline.StageImpressions, 3040000},
		{pipeline.StageReach, 1820000},
		{pipeline.StageClicks, 35700},
		{pipeline.StagePageViews, 18400},
		{pipeline.StageLeads, 2800},
		{pipeline.StageConversions, 1253},
	}
	rows := make([]model.FunnelStage, len(stages))
	for i, s := range stages {
		rows[i] = model.FunnelStage{Name: s.name, Position: i + 1, Count: s.count}
	}
	return sampleTable(rows, source.ColStage, source.ColCount), nil
}

// SampleCohorts returns four launch cohorts; direct revenue follows ticket.
func SampleCohorts(ticket float64) []model.CohortRow {
	rows := []model.CohortRow{
		{Name: "Imersao Jan/25", Spend: 18500, Leads: 1240, PageViews: 3800, Checkouts: 420, Purchases: 85},
		{Name: "Imersao Fev/25", Spend: 22300, Leads: 1680, PageViews: 5200, Checkouts: 580, Purchases: 112},
		{Name: "Imersao Mar/25", Spend: 31400, Leads: 2340, PageViews: 7100, Checkouts: 780, Purchases: 156},
		{Name: "Imersao Abr/25", Spend: 27440, Leads: 1890, PageViews: 6300, Checkouts: 650, Purchases: 130},
	}
	for i := range rows {
		rows[i].DirectRevenue = float64(rows[i].Purchases) * ticket
	}
	return rows
}

// SampleTypes returns spend by campaign type.
func SampleTypes() []model.CampaignTypeRow {
	return []model.CampaignTypeRow{
		{Type: "Remarketing", Spend: 28400, Purchases: 220, Leads: 3800},
		{Type: "Prospecting LAL", Spend: 24600, Purchases: 145, Leads: 2900},
		{Type: "Brand Awareness", Spend: 12800, Purchases: 18, Leads: 890},
		{Type: "Video Views", Spend: 8900, Purchases: 8, Leads: 420},
		{Type: "Lead Generation", Spend: 24940, Purchases: 92, Leads: 4100},
	}
}

// SampleWaste returns ad sets that spent without a purchase.
func SampleWaste() []model.WasteRow {
	return []model.WasteRow{
		{Name: "Brand Awareness - Wide - 18-34", Spend: 4200, Leads: 42},
		{Name: "Video Views - Prospecting BR", Spend: 3800, Leads: 28},
		{Name: "Interest - Empreendedorismo", Spend: 2900, Leads: 15},
		{Name: "Broad - Mobile - Stories", Spend: 2100, Leads: 8},
		{Name: "LAL 5pct - Video Viewers", Spend: 1800, Leads: 31},
		{Name: "Awareness - Reels - 25-44", Spend: 1500, Leads: 19},
		{Name: "Interest - Marketing Digital", Spend: 1200, Leads: 22},
		{Name: "LAL 10pct - Purchase", Spend: 980, Leads: 14},
		{Name: "Stories - Cold - 35-54", Spend: 870, Leads: 11},
		{Name: "Video - Brand - Desktop", Spend: 750, Leads: 7},
		{Name: "Feed - Interest - Coaches", Spend: 680, Leads: 18},
		{Name: "Reels - Broad - 18-24", Spend: 620, Leads: 9},
		{Name: "LAL 3pct - Engajamento", Spend: 540, Leads: 12},
		{Name: "Stories - Remarketing - 7d", Spend: 480, Leads: 6},
		{Name: "Feed - Cold - Interesse", Spend: 420, Leads: 8},
	}
}

// SampleAudiences returns per-audience results.
func SampleAudiences() []model.AudienceRow {
	return []model.AudienceRow{
		{Audience: "Remarketing Visitantes 7d", Type: "Remarketing", Spend: 8400, Leads: 980, Purchases: 78, CPV: 107.7},
		{Audience: "Remarketing Visitantes 30d", Type: "Remarketing", Spend: 11200, Leads: 1240, Purchases: 98, CPV: 114.3},
		{Audience: "LAL 1pct Compradores", Type: "LAL", Spend: 9800, Leads: 820, Purchases: 65, CPV: 150.8},
		{Audience: "LAL 3pct Compradores", Type: "LAL", Spend: 7600, Leads: 640, Purchases: 42, CPV: 181.0},
		{Audience: "Interesse Empreendedorismo", Type: "Interesse", Spend: 6200, Leads: 520, Purchases: 28, CPV: 221.4},
		{Audience: "LAL 5pct Engajamento", Type: "LAL", Spend: 5400, Leads: 480, Purchases: 22, CPV: 245.5},
		{Audience: "Broad 25-44", Type: "Broad", Spend: 4800, Leads: 380, Purchases: 15, CPV: 320.0},
		{Audience: "Interesse Marketing", Type: "Interesse", Spend: 4200, Leads: 320, Purchases: 12, CPV: 350.0},
	}
}
