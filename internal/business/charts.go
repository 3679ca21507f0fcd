package business

import (
	"fmt"

	"github.com/theirongolddev/adburn/internal/model"
)

// Charts is the full chart set of the executive report.
type Charts struct {
	SpendRevenue     model.Chart
	CPVByCohort      model.Chart
	FunnelByCohort   model.Chart
	FunnelTotal      model.Chart
	StageRates       model.Chart
	TypeSpend        model.Chart
	TypeByCohort     model.Chart
	WastePreview     model.Chart
	ScenarioByCohort model.Chart
	BreakEven        model.Chart
	CheckoutRate     model.Chart
	ROASByCohort     model.Chart
	WasteTop         model.Chart
}

// All returns every chart in display order.
func (c Charts) All() []model.Chart {
	return []model.Chart{
		c.SpendRevenue, c.CPVByCohort, c.FunnelByCohort, c.FunnelTotal,
		c.StageRates, c.TypeSpend, c.TypeByCohort, c.WastePreview,
		c.ScenarioByCohort, c.BreakEven, c.CheckoutRate, c.ROASByCohort,
		c.WasteTop,
	}
}

// Validate checks every chart.
func (c Charts) Validate() error {
	for _, ch := range c.All() {
		if err := ch.Validate(); err != nil {
			return err
		}
	}
	return nil
}

const (
	wastePreviewN     = 5
	wastePreviewWidth = 30
	wasteTopWidth     = 40
)

// BuildCharts computes every chart series from the executive figures.
func BuildCharts(cohorts []model.CohortRow, types []model.CampaignTypeRow, waste WasteReport, kpis model.KPIReport, p Params) Charts {
	set := p.ScenarioSet()
	realistic := set.Realistic()

	names := make([]string, len(cohorts))
	for i, c := range cohorts {
		names[i] = c.Name
	}
	perCohort := func(fn func(model.CohortRow) float64) []float64 {
		out := make([]float64, len(cohorts))
		for i, c := range cohorts {
			out[i] = fn(c)
		}
		return out
	}

	var ch Charts

	ch.SpendRevenue = model.Chart{
		ID: "c1", Kind: model.ChartBar, Title: "Spend vs Revenue by Cohort", Labels: names,
		Datasets: []model.Series{
			{Label: "Spend", Data: perCohort(func(c model.CohortRow) float64 { return c.Spend })},
			{Label: "Direct Revenue", Data: perCohort(func(c model.CohortRow) float64 { return c.DirectRevenue })},
			{Label: fmt.Sprintf("Projected Revenue (%d%%)", RatePercent(realistic)), Data: perCohort(func(c model.CohortRow) float64 {
				return round(set.Project(c.Leads, realistic), 0)
			})},
		},
	}

	ch.CPVByCohort = model.Chart{
		ID: "c2", Kind: model.ChartBar, Title: "CPV by Cohort vs Target", Labels: names,
		Datasets: []model.Series{
			{Label: "CPV", Data: perCohort(func(c model.CohortRow) float64 { return round(CohortCPV(c), 2) })},
			{Label: "Target CPV", Data: perCohort(func(model.CohortRow) float64 { return p.TargetCPV })},
		},
	}

	ch.FunnelByCohort = model.Chart{
		ID: "c3", Kind: model.ChartBar, Title: "Funnel by Cohort", Labels: names,
		Datasets: []model.Series{
			{Label: "Leads", Data: perCohort(func(c model.CohortRow) float64 { return float64(c.Leads) })},
			{Label: "Page Views", Data: perCohort(func(c model.CohortRow) float64 { return float64(c.PageViews) })},
			{Label: "Checkouts", Data: perCohort(func(c model.CohortRow) float64 { return float64(c.Checkouts) })},
			{Label: "Purchases", Data: perCohort(func(c model.CohortRow) float64 { return float64(c.Purchases) })},
		},
	}

	var leads, pv, ck, buys int64
	for _, c := range cohorts {
		leads = model.AddCount(leads, c.Leads)
		pv = model.AddCount(pv, c.PageViews)
		ck = model.AddCount(ck, c.Checkouts)
		buys = model.AddCount(buys, c.Purchases)
	}
	ch.FunnelTotal = model.Chart{
		ID: "c4", Kind: model.ChartBar, Horizontal: true, Title: "Total Funnel",
		Labels: []string{"Leads", "Page Views", "Checkouts", "Purchases"},
		Datasets: []model.Series{{Label: "Total", Data: []float64{
			float64(leads), float64(pv), float64(ck), float64(buys),
		}}},
	}

	ch.StageRates = model.Chart{
		ID: "c5", Kind: model.ChartBar, Title: "Stage Conversion Rates",
		Labels: []string{"Lead → Page View", "Page View → Checkout", "Checkout → Purchase"},
		Datasets: []model.Series{{Label: "Rate (%)", Data: []float64{
			round(float64(pv)/float64(orOne(leads))*100, 1),
			round(float64(ck)/float64(orOne(pv))*100, 1),
			round(float64(buys)/float64(orOne(ck))*100, 1),
		}}},
	}

	typeLabels := make([]string, len(types))
	typeSpend := make([]float64, len(types))
	var typeTotal float64
	for i, t := range types {
		typeLabels[i] = t.Type
		typeSpend[i] = t.Spend
		typeTotal += t.Spend
	}
	if typeTotal == 0 {
		typeTotal = 1
	}
	ch.TypeSpend = model.Chart{
		ID: "c6", Kind: model.ChartDoughnut, Title: "Spend by Campaign Type", Labels: typeLabels,
		Datasets: []model.Series{{Label: "Spend", Data: typeSpend}},
	}

	ch.TypeByCohort = model.Chart{ID: "c7", Kind: model.ChartBar, Stacked: true, Title: "Spend by Type per Cohort", Labels: names}
	for _, t := range types {
		share := t.Spend / typeTotal
		ch.TypeByCohort.Datasets = append(ch.TypeByCohort.Datasets, model.Series{
			Label: t.Type,
			Data:  perCohort(func(c model.CohortRow) float64 { return round(c.Spend*share, 2) }),
		})
	}

	ch.WastePreview = wasteChart("c8", "Waste Preview", waste.Top, wastePreviewN, wastePreviewWidth)

	ch.ScenarioByCohort = model.Chart{ID: "c9", Kind: model.ChartBar, Title: "Upsell Projection by Cohort", Labels: names}
	for _, sc := range set.Scenarios {
		ch.ScenarioByCohort.Datasets = append(ch.ScenarioByCohort.Datasets, model.Series{
			Label: ScenarioLabel(sc),
			Data:  perCohort(func(c model.CohortRow) float64 { return round(set.Project(c.Leads, sc), 0) }),
		})
	}

	ch.BreakEven = model.Chart{
		ID: "c10", Kind: model.ChartBar, Title: "Break-even Analysis",
		Labels: []string{"Current CPV", "Target CPV", fmt.Sprintf("Direct BEP (%s)", p.Locale.MoneyWhole(p.TicketPrice))},
		Datasets: []model.Series{{Label: "Value", Data: []float64{
			round(kpis.Raw(KeyCPV), 2), p.TargetCPV, p.TicketPrice,
		}}},
	}
	for _, bep := range set.BreakEven(p.TicketPrice) {
		ch.BreakEven.Labels = append(ch.BreakEven.Labels, bep.Label)
		ch.BreakEven.Datasets[0].Data = append(ch.BreakEven.Datasets[0].Data, bep.Value)
	}

	ch.CheckoutRate = model.Chart{
		ID: "c11", Kind: model.ChartBar, Title: "Checkout → Purchase Rate by Cohort", Labels: names,
		Datasets: []model.Series{{Label: "Rate (%)", Data: perCohort(func(c model.CohortRow) float64 {
			if c.Checkouts == 0 {
				return 0
			}
			return round(float64(c.Purchases)/float64(c.Checkouts)*100, 2)
		})}},
	}

	ch.ROASByCohort = model.Chart{
		ID: "c12", Kind: model.ChartBar, Title: "Direct ROAS vs ROAS with Upsell", Labels: names,
		Datasets: []model.Series{
			{Label: "Direct ROAS", Data: perCohort(func(c model.CohortRow) float64 { return round(CohortROAS(c), 4) })},
			{Label: fmt.Sprintf("ROAS + Upsell %d%%", RatePercent(realistic)), Data: perCohort(func(c model.CohortRow) float64 {
				return round(safeDiv(c.DirectRevenue+set.Project(c.Leads, realistic), c.Spend), 4)
			})},
		},
	}

	ch.WasteTop = wasteChart("c13", "Top Waste: High Spend, Zero Conversions", waste.Top, p.WasteTopN, wasteTopWidth)
	return ch
}

// ScenarioLabel names a scenario by its rate, e.g. "Scenario 7%".
func ScenarioLabel(sc model.Scenario) string {
	return fmt.Sprintf("Scenario %d%%", RatePercent(sc))
}

func wasteChart(id, title string, rows []model.WasteRow, n, width int) model.Chart {
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	c := model.Chart{ID: id, Title: title, Kind: model.ChartBar, Horizontal: true, Labels: make([]string, len(rows))}
	data := make([]float64, len(rows))
	for i, r := range rows {
		c.Labels[i] = Truncate(r.Name, width)
		data[i] = r.Spend
	}
	c.Datasets = []model.Series{{Label: "Spend", Data: data}}
	return c
}

// Truncate shortens s to width runes followed by an ellipsis.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width]) + "…"
}

func orOne(n int64) int64 {
	if n == 0 {
		return 1
	}
	return n
}
