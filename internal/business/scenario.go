package business

import (
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/adburn/internal/model"
)

var (
	// ErrNoRealistic is returned when a scenario set does not flag exactly
	// one realistic scenario.
	ErrNoRealistic = errors.New("business: exactly one realistic scenario required")
	// ErrBadRate is returned for a conversion rate outside (0, 1].
	ErrBadRate = errors.New("business: scenario rate must be in (0, 1]")
)

// ScenarioSet projects upsell revenue from leads at a fixed price.
type ScenarioSet struct {
	Scenarios []model.Scenario
	Price     float64
}

// Validate checks rates and the realistic flag.
func (s ScenarioSet) Validate() error {
	realistic := 0
	for _, sc := range s.Scenarios {
		if sc.Rate <= 0 || sc.Rate > 1 || math.IsNaN(sc.Rate) {
			return fmt.Errorf("scenario %q: %w", sc.Name, ErrBadRate)
		}
		if sc.Realistic {
			realistic++
		}
	}
	if realistic != 1 {
		return ErrNoRealistic
	}
	return nil
}

// Realistic returns the scenario flagged realistic. An unvalidated set with
// no flag falls back to the middle scenario.
func (s ScenarioSet) Realistic() model.Scenario {
	for _, sc := range s.Scenarios {
		if sc.Realistic {
			return sc
		}
	}
	if len(s.Scenarios) == 0 {
		return model.Scenario{}
	}
	return s.Scenarios[len(s.Scenarios)/2]
}

// Project returns leads × rate × price.
func (s ScenarioSet) Project(leads int64, sc model.Scenario) float64 {
	return float64(leads) * sc.Rate * s.Price
}

// ProjectCohorts sums the projection over every cohort.
func (s ScenarioSet) ProjectCohorts(cohorts []model.CohortRow, sc model.Scenario) float64 {
	var total float64
	for _, c := range cohorts {
		total += s.Project(c.Leads, sc)
	}
	return total
}

// RatePercent returns the rate as a whole percentage, e.g. 0.07 -> 7.
func RatePercent(sc model.Scenario) int {
	return int(math.Round(sc.Rate * 100))
}

// BreakEvenPoint is one bar of the break-even comparison.
type BreakEvenPoint struct {
	Label string
	Value float64
}

// BreakEven returns base + price × rate for every scenario, in order.
func (s ScenarioSet) BreakEven(base float64) []BreakEvenPoint {
	out := make([]BreakEvenPoint, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		out = append(out, BreakEvenPoint{
			Label: fmt.Sprintf("BEP + Upsell %d%%", RatePercent(sc)),
			Value: round(base+s.Price*sc.Rate, 2),
		})
	}
	return out
}

// ScenarioCard summarizes one scenario over all cohorts.
type ScenarioCard struct {
	Scenario model.Scenario
	Revenue  float64
	ROAS     float64
}

// Cards returns projected revenue and ROAS, direct revenue included, per
// scenario.
func (s ScenarioSet) Cards(cohorts []model.CohortRow, spend float64) []ScenarioCard {
	var direct float64
	for _, c := range cohorts {
		direct += c.DirectRevenue
	}

	out := make([]ScenarioCard, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		rev := s.ProjectCohorts(cohorts, sc)
		out = append(out, ScenarioCard{
			Scenario: sc,
			Revenue:  rev,
			ROAS:     safeDiv(direct+rev, spend),
		})
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
