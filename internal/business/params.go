// Package business derives the executive unit-economics view: cohorts,
// campaign types, waste, KPIs, insights and upsell scenario projections.
package business

import (
	"regexp"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/model"
)

// DefaultCohortPattern extracts the launch cohort from a campaign name.
const DefaultCohortPattern = `(Imer[sS][aã][oO]\s+\S+)`

// Estimates converts purchases into the upper funnel stages when only
// purchases are known.
type Estimates struct {
	LeadsPerPurchase     float64
	PageViewsPerPurchase float64
	CheckoutsPerPurchase float64
}

// Params holds the business constants of the executive report.
type Params struct {
	TargetCPV     float64
	TicketPrice   float64
	UpsellPrice   float64
	WasteTopN     int
	MinRealSpend  float64
	CohortPattern string
	Estimates     Estimates
	Scenarios     []model.Scenario
	Locale        cli.Locale
}

// DefaultScenarios returns the conservative, realistic and optimistic
// upsell conversion rates.
func DefaultScenarios() []model.Scenario {
	return []model.Scenario{
		{Name: "Conservative", Rate: 0.07},
		{Name: "Realistic", Rate: 0.10, Realistic: true},
		{Name: "Optimistic", Rate: 0.14},
	}
}

// DefaultParams returns the stock business constants.
func DefaultParams() Params {
	return Params{
		TargetCPV:     150,
		TicketPrice:   297,
		UpsellPrice:   28_000,
		WasteTopN:     15,
		MinRealSpend:  100,
		CohortPattern: DefaultCohortPattern,
		Estimates: Estimates{
			LeadsPerPurchase:     8.5,
			PageViewsPerPurchase: 3.8,
			CheckoutsPerPurchase: 1.3,
		},
		Scenarios: DefaultScenarios(),
		Locale:    cli.PtBR,
	}
}

// ScenarioSet returns the configured scenarios priced at the upsell price.
func (p Params) ScenarioSet() ScenarioSet {
	return ScenarioSet{Scenarios: p.Scenarios, Price: p.UpsellPrice}
}

// CohortRegexp compiles the cohort pattern.
func (p Params) CohortRegexp() (*regexp.Regexp, error) {
	return regexp.Compile(p.CohortPattern)
}
