package business

import (
	"fmt"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/model"
)

// KPI keys of the executive report.
const (
	KeySpend            = "spend"
	KeyPurchases        = "purchases"
	KeyCPV              = "cpv"
	KeyTargetCPV        = "target_cpv"
	KeyCPVOK            = "cpv_ok"
	KeyROASDirect       = "roas_direct"
	KeyROASUpsell       = "roas_upsell"
	KeyProjectedRevenue = "projected_revenue"
	KeyLeads            = "leads"
	KeyPageViews        = "page_views"
	KeyDirectRevenue    = "direct_revenue"
	KeyPVPurchaseRate   = "pv_purchase_rate"
	KeyWaste            = "waste"
)

// CardKeys lists the KPIs rendered as cards, in display order.
var CardKeys = []string{
	KeySpend, KeyPurchases, KeyCPV, KeyTargetCPV, KeyROASDirect,
	KeyROASUpsell, KeyProjectedRevenue, KeyLeads, KeyPVPurchaseRate, KeyWaste,
}

// ComputeKPIs derives the executive KPIs. Raw values carry every figure
// used by later arithmetic; display strings are formatted for loc.
func ComputeKPIs(cohorts []model.CohortRow, waste WasteReport, p Params) model.KPIReport {
	var (
		spend, direct        float64
		purchases, leads, pv int64
	)
	for _, c := range cohorts {
		spend += c.Spend
		purchases = model.AddCount(purchases, c.Purchases)
		leads = model.AddCount(leads, c.Leads)
		pv = model.AddCount(pv, c.PageViews)
		direct += c.DirectRevenue
	}

	set := p.ScenarioSet()
	realistic := set.Realistic()
	projected := set.Project(leads, realistic)

	cpv := safeDiv(spend, float64(purchases))
	roasDirect := safeDiv(direct, spend)
	roasUpsell := safeDiv(direct+projected, spend)
	pvRate := safeDiv(float64(purchases), float64(pv)) * 100
	ok := cpv <= p.TargetCPV

	loc := p.Locale
	var r model.KPIReport
	r.Add(model.KPI{Key: KeySpend, Label: "Total Spend", Display: loc.Money(spend), Raw: spend})
	r.Add(model.KPI{Key: KeyPurchases, Label: "Total Purchases", Display: loc.Int(purchases), Raw: float64(purchases)})
	r.Add(model.KPI{Key: KeyCPV, Label: "Average CPV", Display: loc.Money(cpv), Raw: cpv})
	r.Add(model.KPI{Key: KeyTargetCPV, Label: "Target CPV", Display: loc.Money(p.TargetCPV), Raw: p.TargetCPV})
	r.Add(model.KPI{Key: KeyCPVOK, Label: "CPV Within Target", Display: yesNo(ok), Raw: boolRaw(ok)})
	r.Add(model.KPI{Key: KeyROASDirect, Label: "Direct ROAS", Display: cli.FormatRatio(roasDirect), Raw: roasDirect})
	r.Add(model.KPI{
		Key:     KeyROASUpsell,
		Label:   fmt.Sprintf("ROAS + Upsell %d%%", RatePercent(realistic)),
		Display: cli.FormatRatio(roasUpsell),
		Raw:     roasUpsell,
	})
	r.Add(model.KPI{Key: KeyProjectedRevenue, Label: "Projected Revenue", Display: loc.Money(projected), Raw: projected})
	r.Add(model.KPI{Key: KeyLeads, Label: "Total Leads", Display: loc.Int(leads), Raw: float64(leads)})
	r.Add(model.KPI{Key: KeyPageViews, Label: "Total Page Views", Display: loc.Int(pv), Raw: float64(pv)})
	r.Add(model.KPI{Key: KeyDirectRevenue, Label: "Direct Revenue", Display: loc.Money(direct), Raw: direct})
	r.Add(model.KPI{Key: KeyPVPurchaseRate, Label: "Page View → Purchase", Display: cli.FormatRate(pvRate, 2), Raw: pvRate})
	r.Add(model.KPI{Key: KeyWaste, Label: "Waste", Display: loc.Money(waste.Total), Raw: waste.Total})
	return r
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func boolRaw(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
