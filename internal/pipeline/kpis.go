package pipeline

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/theirongolddev/adburn/internal/model"
)

// CampaignSummary holds the headline figures of the marketing dashboard.
type CampaignSummary struct {
	Spend       float64
	Impressions int64
	Clicks      int64
	Conversions int64

	// CTR and CPV are simple means of the per-campaign values when the
	// table carries those columns, not spend-weighted.
	CTR float64
	CPV float64

	// WeightedCPV is the spend-weighted mean CPV, reported for comparison.
	WeightedCPV float64
}

// CampaignKPIs summarizes campaign rows. hasCTR and hasCPV tell whether the
// rows carry per-campaign values; when they do not, CTR falls back to
// clicks/impressions*100 and CPV to spend/impressions.
func CampaignKPIs(rows []model.CampaignRow, hasCTR, hasCPV bool) CampaignSummary {
	var s CampaignSummary
	ctrs := make([]float64, 0, len(rows))
	cpvs := make([]float64, 0, len(rows))
	weights := make([]float64, 0, len(rows))

	for _, r := range rows {
		s.Spend += r.Spend
		s.Impressions = model.AddCount(s.Impressions, r.Impressions)
		s.Clicks = model.AddCount(s.Clicks, r.Clicks)
		s.Conversions = model.AddCount(s.Conversions, r.Conversions)
		ctrs = append(ctrs, r.CTR)
		cpvs = append(cpvs, r.CPV)
		weights = append(weights, r.Spend)
	}

	if hasCTR && len(rows) > 0 {
		s.CTR = mean(ctrs)
	} else {
		s.CTR = safeDiv(float64(s.Clicks), float64(s.Impressions)) * 100
	}

	if hasCPV && len(rows) > 0 {
		s.CPV = mean(cpvs)
		if s.Spend > 0 {
			s.WeightedCPV = stat.Mean(cpvs, weights)
		}
	} else {
		s.CPV = safeDiv(s.Spend, float64(s.Impressions))
		s.WeightedCPV = s.CPV
	}

	return s
}

// MeanDailyCPV returns the mean CPV over the given days, 0 when empty.
func MeanDailyCPV(days []model.DailyCPVRow) float64 {
	vals := make([]float64, len(days))
	for i, d := range days {
		vals[i] = d.CPV
	}
	return mean(vals)
}

func mean(vals []float64) float64 {
	m, err := stats.Mean(vals)
	if err != nil {
		return 0
	}
	return m
}
