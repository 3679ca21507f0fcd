package business

import (
	"fmt"

	"github.com/theirongolddev/adburn/internal/dataset"
	"github.com/theirongolddev/adburn/internal/model"
)

// Executive is the assembled executive report. The Sample flags mark parts
// built from sample data.
type Executive struct {
	Params    Params
	Cohorts   []model.CohortRow
	Types     []model.CampaignTypeRow
	Waste     WasteReport
	Audiences []model.AudienceRow
	KPIs      model.KPIReport
	Insights  []model.Insight
	Cards     []ScenarioCard
	BreakEven []BreakEvenPoint
	Charts    Charts

	CohortsSample   bool
	TypesSample     bool
	WasteSample     bool
	AudiencesSample bool
}

// AnySample reports whether any part of the report uses sample data.
func (e *Executive) AnySample() bool {
	return e.CohortsSample || e.TypesSample || e.WasteSample || e.AudiencesSample
}

// BuildExecutive derives the executive report from the campaign table.
// Cohorts fall back to sample data when real cohort spend does not exceed
// MinRealSpend; campaign types and waste follow the campaign table.
func BuildExecutive(campaigns dataset.Table[model.CampaignRow], p Params) (*Executive, error) {
	if err := p.ScenarioSet().Validate(); err != nil {
		return nil, err
	}
	re, err := p.CohortRegexp()
	if err != nil {
		return nil, fmt.Errorf("cohort pattern: %w", err)
	}

	e := &Executive{
		Params:          p,
		Audiences:       dataset.SampleAudiences(),
		AudiencesSample: true,
	}

	hasReal := !campaigns.Sample && len(campaigns.Rows) > 0
	if hasReal {
		e.Cohorts = DeriveCohorts(campaigns.Rows, re, p.Estimates, p.TicketPrice)
		e.Types = AggregateTypes(campaigns.Rows)
		e.Waste = DetectWaste(WasteFromCampaigns(campaigns.Rows), p.WasteTopN)
	} else {
		e.TypesSample, e.WasteSample = true, true
		e.Types = dataset.SampleTypes()
		e.Waste = DetectWaste(dataset.SampleWaste(), p.WasteTopN)
	}
	if !hasReal || CohortSpend(e.Cohorts) <= p.MinRealSpend {
		e.Cohorts = dataset.SampleCohorts(p.TicketPrice)
		e.CohortsSample = true
	}

	set := p.ScenarioSet()
	spend := CohortSpend(e.Cohorts)

	e.KPIs = ComputeKPIs(e.Cohorts, e.Waste, p)
	e.Insights = GenerateInsights(e.Cohorts, e.KPIs, e.Waste, p)
	e.Cards = set.Cards(e.Cohorts, spend)
	e.BreakEven = set.BreakEven(p.TicketPrice)
	e.Charts = BuildCharts(e.Cohorts, e.Types, e.Waste, e.KPIs, p)
	if err := e.Charts.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
