package business

import (
	"regexp"

	"github.com/theirongolddev/adburn/internal/model"
)

// CurrentCohort groups campaigns whose name carries no cohort marker.
const CurrentCohort = "Current Campaign"

// CohortName extracts the cohort from a campaign name. The first capture
// group is used when the pattern has one.
func CohortName(re *regexp.Regexp, campaign string) string {
	m := re.FindStringSubmatch(campaign)
	switch {
	case m == nil:
		return CurrentCohort
	case len(m) > 1 && m[1] != "":
		return m[1]
	default:
		return m[0]
	}
}

// DeriveCohorts groups campaign rows by cohort in first-occurrence order.
// Leads, page views and checkouts are estimated from purchases.
func DeriveCohorts(rows []model.CampaignRow, re *regexp.Regexp, est Estimates, ticket float64) []model.CohortRow {
	index := make(map[string]int)
	var out []model.CohortRow

	for _, r := range rows {
		name := CohortName(re, r.Campaign)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, model.CohortRow{Name: name})
		}
		out[i].Spend += r.Spend
		out[i].Purchases = model.AddCount(out[i].Purchases, r.Conversions)
	}

	for i := range out {
		p := float64(out[i].Purchases)
		out[i].Leads = model.ToCount(p * est.LeadsPerPurchase)
		out[i].PageViews = model.ToCount(p * est.PageViewsPerPurchase)
		out[i].Checkouts = model.ToCount(p * est.CheckoutsPerPurchase)
		out[i].DirectRevenue = p * ticket
	}
	return out
}

// CohortSpend sums spend over cohorts.
func CohortSpend(cohorts []model.CohortRow) float64 {
	var total float64
	for _, c := range cohorts {
		total += c.Spend
	}
	return total
}

// CohortCPV is spend per purchase, 0 without purchases.
func CohortCPV(c model.CohortRow) float64 {
	if c.Purchases == 0 {
		return 0
	}
	return c.Spend / float64(c.Purchases)
}

// CohortROAS is direct revenue over spend.
func CohortROAS(c model.CohortRow) float64 {
	return safeDiv(c.DirectRevenue, c.Spend)
}
