package business

import (
	"fmt"

	"github.com/theirongolddev/adburn/internal/model"
)

// GenerateInsights returns findings in fixed order: best CPV, highest CPV,
// waste, CPV against target. Cohorts without purchases are not ranked.
func GenerateInsights(cohorts []model.CohortRow, kpis model.KPIReport, waste WasteReport, p Params) []model.Insight {
	loc := p.Locale
	var out []model.Insight

	best, worst, ranked := rankCPV(cohorts)
	if ranked {
		out = append(out, model.Insight{
			Severity: model.SeveritySuccess,
			Title:    "Best CPV",
			Detail:   fmt.Sprintf("%s with CPV of %s", best.Name, loc.Money(CohortCPV(best))),
		})
		sev := model.SeverityWarning
		if CohortCPV(worst) > p.TargetCPV {
			sev = model.SeverityDanger
		}
		out = append(out, model.Insight{
			Severity: sev,
			Title:    "Highest CPV",
			Detail:   fmt.Sprintf("%s with CPV of %s", worst.Name, loc.Money(CohortCPV(worst))),
		})
	}

	if waste.Total > 0 {
		pct := safeDiv(waste.Total, kpis.Raw(KeySpend)) * 100
		out = append(out, model.Insight{
			Severity: model.SeverityWarning,
			Title:    "Waste detected",
			Detail: fmt.Sprintf("%s in %d campaigns without conversion (%.1f%% of total spend)",
				loc.Money(waste.Total), waste.Count, pct),
		})
	}

	cpv, target := kpis.Display(KeyCPV), kpis.Display(KeyTargetCPV)
	if kpis.Raw(KeyCPVOK) == 0 {
		out = append(out, model.Insight{
			Severity: model.SeverityDanger,
			Title:    "CPV above target",
			Detail: fmt.Sprintf("Average CPV of %s exceeds the target of %s. Review targeting and creatives.",
				cpv, target),
		})
	} else {
		out = append(out, model.Insight{
			Severity: model.SeveritySuccess,
			Title:    "CPV within target",
			Detail: fmt.Sprintf("Average CPV of %s is within the target of %s. Scale the best ad sets.",
				cpv, target),
		})
	}
	return out
}

// rankCPV returns the cohorts with the lowest and highest CPV. Ties keep
// the earliest cohort.
func rankCPV(cohorts []model.CohortRow) (best, worst model.CohortRow, ok bool) {
	for _, c := range cohorts {
		if c.Purchases <= 0 {
			continue
		}
		if !ok {
			best, worst, ok = c, c, true
			continue
		}
		v := CohortCPV(c)
		if v < CohortCPV(best) {
			best = c
		}
		if v > CohortCPV(worst) {
			worst = c
		}
	}
	return best, worst, ok
}
