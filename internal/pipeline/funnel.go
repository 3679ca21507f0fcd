package pipeline

import (
	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/source"
)

// Funnel stage names, top to bottom.
const (
	StageImpressions = "Impressions"
	StageReach       = "Reach"
	StageClicks      = "Clicks"
	StagePageViews   = "Page views"
	StageLeads       = "Leads"
	StageConversions = "Conversions"
)

// FunnelTotals holds the raw, unclamped funnel inputs.
type FunnelTotals struct {
	Impressions int64
	Reach       int64
	Clicks      int64
	PageViews   int64
	Leads       int64
	Conversions int64
}

// AccumulateFunnel sums funnel inputs over account-level records. Action
// groups count each action type once per record.
func AccumulateFunnel(records []model.MetricRecord) FunnelTotals {
	var t FunnelTotals
	for _, r := range records {
		t.Impressions = model.AddCount(t.Impressions, r.Impressions)
		t.Reach = model.AddCount(t.Reach, r.Reach)
		t.Clicks = model.AddCount(t.Clicks, r.Clicks)
		t.PageViews = model.AddCount(t.PageViews, source.SumActionValues(r.Actions, source.PageViewActions))
		t.Leads = model.AddCount(t.Leads, source.SumActionValues(r.Actions, source.LeadActions))
		t.Conversions = model.AddCount(t.Conversions, source.SumActionValues(r.Actions, source.ConversionActions))
	}
	return t
}

// BuildFunnel clamps the totals left to right and returns the six stages.
//
// Reach is capped by impressions and clicks by reach (or impressions when
// reach is zero). Page views are capped by clicks. Leads are capped by page
// views, or by clicks when no page view was attributed; conversions are
// capped by leads, or by clicks when no lead was attributed.
func BuildFunnel(t FunnelTotals) []model.FunnelStage {
	reach := min(t.Reach, t.Impressions)
	clicks := min(t.Clicks, positiveOr(reach, t.Impressions))
	pageViews := min(t.PageViews, clicks)
	leads := min(t.Leads, positiveOr(pageViews, clicks))
	conversions := min(t.Conversions, positiveOr(leads, clicks))

	counts := []struct {
		name  string
		count int64
	}{
		{StageImpressions, t.Impressions},
		{StageReach, reach},
		{StageClicks, clicks},
		{StagePageViews, pageViews},
		{StageLeads, leads},
		{StageConversions, conversions},
	}

	stages := make([]model.FunnelStage, len(counts))
	for i, c := range counts {
		stages[i] = model.FunnelStage{Name: c.name, Position: i + 1, Count: c.count}
	}
	return stages
}

// FunnelShare returns each stage as a percentage of the first stage,
// rounded to one decimal.
func FunnelShare(stages []model.FunnelStage) []float64 {
	out := make([]float64, len(stages))
	if len(stages) == 0 {
		return out
	}
	top := float64(stages[0].Count)
	for i, s := range stages {
		out[i] = Round(safeDiv(float64(s.Count), top)*100, 1)
	}
	return out
}

func positiveOr(v, fallback int64) int64 {
	if v > 0 {
		return v
	}
	return fallback
}
