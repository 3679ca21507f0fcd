package pipeline

import (
	"math"
	"reflect"
	"testing"

	"github.com/theirongolddev/adburn/internal/model"
)

func rec(platform, position string, spend float64, impressions int64) model.MetricRecord {
	return model.MetricRecord{Platform: platform, Position: position, Spend: spend, Impressions: impressions}
}

func TestGroupBy_InsertionOrderAndSums(t *testing.T) {
	records := []model.MetricRecord{
		{Campaign: "b", Spend: 1, Clicks: 1},
		{Campaign: "a", Spend: 2, Clicks: 2},
		{Campaign: "b", Spend: 3, Clicks: 3},
		{Campaign: "skip", Spend: 100},
	}
	buckets := GroupBy(records, func(r model.MetricRecord) (string, bool) {
		return r.Campaign, r.Campaign != "skip"
	})

	if len(buckets) != 2 {
		t.Fatalf("len = %d, want 2", len(buckets))
	}
	if buckets[0].Key != "b" || buckets[1].Key != "a" {
		t.Errorf("order = %s,%s, want b,a", buckets[0].Key, buckets[1].Key)
	}
	if buckets[0].Spend != 4 || buckets[0].Clicks != 4 || buckets[0].Records != 2 {
		t.Errorf("bucket b = %+v", buckets[0])
	}
}

func TestAggregatePlacements_SumInvariantAndStableSort(t *testing.T) {
	records := []model.MetricRecord{
		rec("instagram", "", 50, 500),
		rec("facebook", "", 80, 800),
		rec("messenger", "", 50, 100),
		rec("facebook", "feed", 20.004, 200),
		rec("", "", 1, 1),
	}

	rows := AggregatePlacements(records)

	var spend float64
	var impressions int64
	for _, r := range rows {
		spend += r.Spend
		impressions += r.Impressions
	}
	total := Totals(records)
	if math.Abs(spend-total.Spend) > 0.01 || impressions != total.Impressions {
		t.Errorf("sum = %.2f/%d, want %.2f/%d", spend, impressions, total.Spend, total.Impressions)
	}

	want := []string{"Facebook Feed", "Instagram Feed", "Messenger", "Other"}
	var got []string
	for _, r := range rows {
		got = append(got, r.Placement)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if rows[0].Spend != 100 {
		t.Errorf("Facebook Feed spend = %v, want 100", rows[0].Spend)
	}
}

func TestAggregateDemographics_AgeOrdering(t *testing.T) {
	records := []model.MetricRecord{
		{Age: "45-54", Gender: "male", Spend: 1},
		{Age: "18-24", Gender: "male", Spend: 1},
		{Age: "unknown", Gender: "female", Spend: 1},
		{Age: "25-34", Gender: "male", Spend: 1},
		{Age: "18-24", Gender: "female", Spend: 2},
	}

	rows := AggregateDemographics(records)

	var got []string
	for _, r := range rows {
		got = append(got, r.Age+"/"+r.Gender)
	}
	want := []string{"18-24/Female", "18-24/Male", "25-34/Male", "45-54/Male", "unknown/Female"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAggregateHourly_Completeness(t *testing.T) {
	records := []model.MetricRecord{
		{HourInterval: "09:00:00 - 09:59:59", Clicks: 10, Impressions: 100, Spend: 1.111},
		{HourInterval: "17:00:00 - 17:59:59", Clicks: 20, Impressions: 200, Spend: 2},
		{HourInterval: "09:00:00 - 09:59:59", Clicks: 5, Impressions: 50, Spend: 1},
		{HourInterval: "garbage", Clicks: 99},
	}

	hours, skipped := AggregateHourly(records)

	if len(hours) != 24 {
		t.Fatalf("len = %d, want 24", len(hours))
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	for i, h := range hours {
		if h.Hour != i {
			t.Errorf("hours[%d].Hour = %d", i, h.Hour)
		}
		if i != 9 && i != 17 && (h.Clicks != 0 || h.Impressions != 0 || h.Spend != 0) {
			t.Errorf("hour %d not zero: %+v", i, h)
		}
	}
	if hours[9].Clicks != 15 || hours[9].Spend != 2.11 {
		t.Errorf("hour 9 = %+v, want clicks 15 spend 2.11", hours[9])
	}
	if peak := PeakHour(hours); peak.Hour != 17 {
		t.Errorf("PeakHour = %d, want 17", peak.Hour)
	}
}

func TestAggregateDailyCPV_DropsZeroAndSorts(t *testing.T) {
	records := []model.MetricRecord{
		{Date: "2024-03-02", Spend: 10, Actions: []model.ActionValue{{Type: "video_view", Value: 100}}},
		{Date: "2024-03-01", CostPerAction: []model.ActionValue{{Type: "video_view", Value: 0.0212345678}}},
		{Date: "2024-03-03", Spend: 10},
	}

	rows := AggregateDailyCPV(records)
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Date != "2024-03-01" || rows[0].CPV != 0.021235 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].CPV != 0.1 {
		t.Errorf("rows[1].CPV = %v, want 0.1", rows[1].CPV)
	}
}

func TestAggregateCampaigns_FallbacksAndRounding(t *testing.T) {
	records := []model.MetricRecord{
		{Campaign: "Zero", Spend: 10},
		{
			Campaign:    "Video",
			Spend:       100.456,
			Impressions: 1000,
			Clicks:      25,
			Actions: []model.ActionValue{
				{Type: "video_view", Value: 50},
				{Type: "lead", Value: 4},
			},
		},
		{Campaign: "Reported", HasCTR: true, CTR: 1.234567},
	}

	rows := AggregateCampaigns(records)

	if rows[0].Campaign != "Zero" || rows[1].Campaign != "Video" {
		t.Fatal("source order not kept")
	}
	if rows[0].CTR != 0 {
		t.Errorf("CTR with zero impressions = %v, want 0", rows[0].CTR)
	}
	if rows[1].CTR != 2.5 || rows[1].Spend != 100.46 {
		t.Errorf("Video = %+v", rows[1])
	}
	if rows[1].CPV != 2.00912 {
		t.Errorf("Video CPV = %v, want 2.00912", rows[1].CPV)
	}
	if rows[1].Conversions != 4 {
		t.Errorf("Conversions = %d, want 4", rows[1].Conversions)
	}
	if rows[2].CTR != 1.2346 {
		t.Errorf("reported CTR = %v, want 1.2346", rows[2].CTR)
	}
}

func TestAggregation_Idempotent(t *testing.T) {
	records := []model.MetricRecord{
		rec("facebook", "", 10.5, 100),
		rec("instagram", "", 10.5, 90),
		{Age: "25-34", Gender: "male", Spend: 3, HourInterval: "01:00:00 - 01:59:59"},
	}

	if a, b := AggregatePlacements(records), AggregatePlacements(records); !reflect.DeepEqual(a, b) {
		t.Errorf("placements differ between runs: %v vs %v", a, b)
	}
	if a, b := AggregateDemographics(records), AggregateDemographics(records); !reflect.DeepEqual(a, b) {
		t.Errorf("demographics differ between runs")
	}
	h1, _ := AggregateHourly(records)
	h2, _ := AggregateHourly(records)
	if !reflect.DeepEqual(h1, h2) {
		t.Errorf("hourly differs between runs")
	}
}
