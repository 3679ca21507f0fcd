package business

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/adburn/internal/dataset"
	"github.com/theirongolddev/adburn/internal/model"
)

func TestDetectWasteTopNVersusTotal(t *testing.T) {
	var entries []model.WasteRow
	for i := range 20 {
		entries = append(entries, model.WasteRow{Name: fmt.Sprintf("ad set %02d", i), Spend: 500})
	}

	w := DetectWaste(entries, 15)
	assert.Len(t, w.Top, 15)
	assert.InDelta(t, 10000.0, w.Total, 1e-9)
	assert.Equal(t, 20, w.Count)
	assert.True(t, w.Truncated())
}

func TestDetectWasteOrdersBySpendAndSkipsConverting(t *testing.T) {
	w := DetectWaste([]model.WasteRow{
		{Name: "a", Spend: 10},
		{Name: "b", Spend: 30},
		{Name: "converted", Spend: 99, Purchases: 2},
		{Name: "c", Spend: 20},
	}, 15)

	require.Len(t, w.Top, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{w.Top[0].Name, w.Top[1].Name, w.Top[2].Name})
	assert.InDelta(t, 60.0, w.Total, 1e-9)
	assert.False(t, w.Truncated())
}

func TestWasteFromCampaigns(t *testing.T) {
	got := WasteFromCampaigns([]model.CampaignRow{
		{Campaign: "zero", Spend: 40, Clicks: 7},
		{Campaign: "sold", Spend: 90, Clicks: 3, Conversions: 1},
	})
	require.Len(t, got, 1)
	assert.Equal(t, model.WasteRow{Name: "zero", Spend: 40, Leads: 7}, got[0])
}

func TestClassifyCampaign(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Remarketing 7d", TypeRemarketing},
		{"RETARGET cart", TypeRemarketing},
		{"LAL 1% buyers", TypeLookalike},
		{"Lookalike BR", TypeLookalike},
		{"Brand lift", TypeBrand},
		{"Awareness Q3", TypeBrand},
		{"Video Views", TypeVideo},
		{"Lead Gen form", TypeLeadGen},
		{"Remarketing Video", TypeRemarketing},
		{"Broad 25-44", TypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCampaign(tt.name), tt.name)
	}
}

func TestAggregateTypesFirstOccurrenceOrder(t *testing.T) {
	got := AggregateTypes([]model.CampaignRow{
		{Campaign: "Video A", Spend: 10, Clicks: 5, Conversions: 1},
		{Campaign: "Remarketing A", Spend: 20, Clicks: 6},
		{Campaign: "Video B", Spend: 5, Clicks: 1, Conversions: 2},
	})
	require.Len(t, got, 2)
	assert.Equal(t, model.CampaignTypeRow{Type: TypeVideo, Spend: 15, Purchases: 3, Leads: 6}, got[0])
	assert.Equal(t, TypeRemarketing, got[1].Type)
}

func TestDeriveCohorts(t *testing.T) {
	re := regexp.MustCompile(DefaultCohortPattern)
	rows := []model.CampaignRow{
		{Campaign: "Imersao Jan/25 - Remarketing", Spend: 100, Conversions: 10},
		{Campaign: "Generic prospecting", Spend: 40, Conversions: 2},
		{Campaign: "Imersão Fev/25 LAL", Spend: 60, Conversions: 0},
		{Campaign: "IMERSAO Jan/25 video", Spend: 1, Conversions: 0},
		{Campaign: "Imersao Jan/25 - Video", Spend: 50, Conversions: 10},
	}

	got := DeriveCohorts(rows, re, DefaultParams().Estimates, 297)
	require.Len(t, got, 3)

	assert.Equal(t, "Imersao Jan/25", got[0].Name)
	assert.InDelta(t, 150.0, got[0].Spend, 1e-9)
	assert.Equal(t, int64(20), got[0].Purchases)
	assert.Equal(t, int64(170), got[0].Leads)
	assert.Equal(t, int64(76), got[0].PageViews)
	assert.Equal(t, int64(26), got[0].Checkouts)
	assert.InDelta(t, 20*297.0, got[0].DirectRevenue, 1e-9)

	assert.Equal(t, CurrentCohort, got[1].Name, "unmatched names share one cohort")
	assert.InDelta(t, 41.0, got[1].Spend, 1e-9, "upper-case IMERSAO does not match the pattern")
	assert.Equal(t, "Imersão Fev/25", got[2].Name)
}

func TestCohortNameWithoutGroup(t *testing.T) {
	re := regexp.MustCompile(`Launch \d+`)
	assert.Equal(t, "Launch 7", CohortName(re, "Launch 7 - Feed"))
	assert.Equal(t, CurrentCohort, CohortName(re, "Feed"))
}

func TestScenarioSetValidate(t *testing.T) {
	ok := ScenarioSet{Scenarios: DefaultScenarios(), Price: 28000}
	require.NoError(t, ok.Validate())

	none := ScenarioSet{Scenarios: []model.Scenario{{Name: "a", Rate: 0.1}}}
	assert.ErrorIs(t, none.Validate(), ErrNoRealistic)

	bad := ScenarioSet{Scenarios: []model.Scenario{{Name: "a", Rate: 0, Realistic: true}}}
	assert.ErrorIs(t, bad.Validate(), ErrBadRate)
}

func TestScenarioRealisticIsExplicit(t *testing.T) {
	set := ScenarioSet{Scenarios: []model.Scenario{
		{Name: "low", Rate: 0.05, Realistic: true},
		{Name: "mid", Rate: 0.10},
		{Name: "high", Rate: 0.20},
	}}
	assert.Equal(t, "low", set.Realistic().Name)
}

func TestBreakEven(t *testing.T) {
	set := ScenarioSet{Scenarios: DefaultScenarios(), Price: 28000}
	got := set.BreakEven(297)
	require.Len(t, got, 3)
	assert.Equal(t, "BEP + Upsell 7%", got[0].Label)
	assert.InDelta(t, 2257.0, got[0].Value, 1e-9)
	assert.InDelta(t, 3097.0, got[1].Value, 1e-9)
	assert.InDelta(t, 4217.0, got[2].Value, 1e-9)
}

func TestScenarioCards(t *testing.T) {
	set := ScenarioSet{Scenarios: DefaultScenarios(), Price: 1000}
	cohorts := []model.CohortRow{{Name: "a", Spend: 500, Leads: 100, DirectRevenue: 250}}

	cards := set.Cards(cohorts, 500)
	require.Len(t, cards, 3)
	assert.InDelta(t, 7000.0, cards[0].Revenue, 1e-9)
	assert.InDelta(t, (250.0+7000)/500, cards[0].ROAS, 1e-9)

	zero := set.Cards(cohorts, 0)
	assert.Zero(t, zero[0].ROAS)
}

func TestComputeKPIsSampleCohorts(t *testing.T) {
	p := DefaultParams()
	cohorts := dataset.SampleCohorts(p.TicketPrice)
	waste := DetectWaste(dataset.SampleWaste(), p.WasteTopN)

	k := ComputeKPIs(cohorts, waste, p)

	assert.InDelta(t, 99640.0, k.Raw(KeySpend), 1e-9)
	assert.InDelta(t, 483.0, k.Raw(KeyPurchases), 1e-9)
	assert.InDelta(t, 99640.0/483, k.Raw(KeyCPV), 1e-9)
	assert.InDelta(t, 7150*0.10*28000, k.Raw(KeyProjectedRevenue), 1e-6)
	assert.InDelta(t, 22840.0, k.Raw(KeyWaste), 1e-9)
	assert.Zero(t, k.Raw(KeyCPVOK))
	assert.Equal(t, "R$ 99.640,00", k.Display(KeySpend))
	assert.Equal(t, "7.150", k.Display(KeyLeads))
	assert.Equal(t, "ROAS + Upsell 10%", mustKPI(t, k, KeyROASUpsell).Label)
}

func TestComputeKPIsNoPurchases(t *testing.T) {
	k := ComputeKPIs([]model.CohortRow{{Name: "a", Spend: 100}}, WasteReport{}, DefaultParams())
	assert.Zero(t, k.Raw(KeyCPV))
	assert.Zero(t, k.Raw(KeyPVPurchaseRate))
	assert.InDelta(t, 1.0, k.Raw(KeyCPVOK), 0)
}

func TestGenerateInsightsOrder(t *testing.T) {
	p := DefaultParams()
	cohorts := dataset.SampleCohorts(p.TicketPrice)
	waste := DetectWaste(dataset.SampleWaste(), p.WasteTopN)
	k := ComputeKPIs(cohorts, waste, p)

	got := GenerateInsights(cohorts, k, waste, p)
	require.Len(t, got, 4)

	assert.Equal(t, model.SeveritySuccess, got[0].Severity)
	assert.True(t, strings.HasPrefix(got[0].Detail, "Imersao Fev/25 with CPV of R$ 199,11"), got[0].Detail)

	assert.Equal(t, model.SeverityDanger, got[1].Severity)
	assert.True(t, strings.HasPrefix(got[1].Detail, "Imersao Jan/25"), got[1].Detail)

	assert.Equal(t, model.SeverityWarning, got[2].Severity)
	assert.Equal(t, "R$ 22.840,00 in 15 campaigns without conversion (22.9% of total spend)", got[2].Detail)

	assert.Equal(t, model.SeverityDanger, got[3].Severity)
	assert.Equal(t, "CPV above target", got[3].Title)
}

func TestGenerateInsightsWithinTargetAndNoWaste(t *testing.T) {
	p := DefaultParams()
	cohorts := []model.CohortRow{
		{Name: "a", Spend: 1000, Purchases: 10},
		{Name: "b", Spend: 1200, Purchases: 10},
		{Name: "none", Spend: 500},
	}
	k := ComputeKPIs(cohorts, WasteReport{}, p)

	got := GenerateInsights(cohorts, k, WasteReport{}, p)
	require.Len(t, got, 3)
	assert.Equal(t, model.SeverityWarning, got[1].Severity, "highest CPV under target is a warning")
	assert.Equal(t, "CPV within target", got[2].Title)
}

func TestBuildExecutiveFallsBackToSample(t *testing.T) {
	camp, err := dataset.SampleDataset{}.Campaigns()
	require.NoError(t, err)

	e, err := BuildExecutive(camp, DefaultParams())
	require.NoError(t, err)

	assert.True(t, e.CohortsSample)
	assert.True(t, e.TypesSample)
	assert.True(t, e.WasteSample)
	assert.True(t, e.AudiencesSample)
	assert.Len(t, e.Cohorts, 4)
	assert.Len(t, e.Waste.Top, 15)
	assert.Len(t, e.Cards, 3)
	assert.Len(t, e.BreakEven, 3)
}

func TestBuildExecutiveRealCampaigns(t *testing.T) {
	camp := dataset.Table[model.CampaignRow]{Rows: []model.CampaignRow{
		{Campaign: "Imersao Mai/25 Remarketing", Spend: 800, Clicks: 90, Conversions: 6},
		{Campaign: "Imersao Mai/25 Video", Spend: 300, Clicks: 40},
	}}

	e, err := BuildExecutive(camp, DefaultParams())
	require.NoError(t, err)

	assert.False(t, e.CohortsSample)
	assert.False(t, e.WasteSample)
	require.Len(t, e.Cohorts, 1)
	assert.Equal(t, "Imersao Mai/25", e.Cohorts[0].Name)
	assert.Equal(t, 1, e.Waste.Count)
	assert.InDelta(t, 300.0, e.Waste.Total, 1e-9)
}

func TestBuildExecutiveLowSpendUsesSampleCohorts(t *testing.T) {
	camp := dataset.Table[model.CampaignRow]{Rows: []model.CampaignRow{
		{Campaign: "Tiny test", Spend: 50, Clicks: 3, Conversions: 1},
	}}

	e, err := BuildExecutive(camp, DefaultParams())
	require.NoError(t, err)
	assert.True(t, e.CohortsSample)
	assert.False(t, e.TypesSample)
	assert.Empty(t, e.Waste.Top)
}

func TestBuildExecutiveRejectsBadPattern(t *testing.T) {
	p := DefaultParams()
	p.CohortPattern = "("
	_, err := BuildExecutive(dataset.Table[model.CampaignRow]{}, p)
	assert.Error(t, err)
}

func TestChartsHaveEqualLengths(t *testing.T) {
	camp, err := dataset.SampleDataset{}.Campaigns()
	require.NoError(t, err)
	e, err := BuildExecutive(camp, DefaultParams())
	require.NoError(t, err)

	charts := e.Charts.All()
	require.Len(t, charts, 13)
	for _, c := range charts {
		for _, ds := range c.Datasets {
			assert.Len(t, ds.Data, len(c.Labels), "%s/%s", c.ID, ds.Label)
		}
	}

	assert.Len(t, e.Charts.WastePreview.Labels, 5)
	assert.Len(t, e.Charts.BreakEven.Labels, 6)
	assert.Equal(t, "Scenario 14%", e.Charts.ScenarioByCohort.Datasets[2].Label)
}

func TestStageRatesWithEmptyFunnel(t *testing.T) {
	c := BuildCharts([]model.CohortRow{{Name: "empty"}}, nil, WasteReport{}, model.KPIReport{}, DefaultParams())
	assert.Equal(t, []float64{0, 0, 0}, c.StageRates.Datasets[0].Data)
	assert.Equal(t, []float64{0}, c.CPVByCohort.Datasets[0].Data)
	assert.Empty(t, c.TypeSpend.Labels)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 31)
	got := Truncate(long, 30)
	assert.Equal(t, strings.Repeat("é", 30)+"…", got)
	assert.Equal(t, "short", Truncate("short", 30))
}

func mustKPI(t *testing.T, r model.KPIReport, key string) model.KPI {
	t.Helper()
	k, ok := r.Get(key)
	require.True(t, ok, key)
	return k
}
