// Package pipeline groups normalized records into report rows and derives
// campaign-level figures from them.
package pipeline

import (
	"errors"
	"math"
	"sort"

	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/source"
)

// ErrEmptyDataset marks a report whose source returned no usable rows. The
// report is skipped and no file is written.
var ErrEmptyDataset = errors.New("pipeline: empty dataset")

// Bucket accumulates the measures of every record that shares a key.
type Bucket[K comparable] struct {
	Key         K
	Records     int
	Spend       float64
	Impressions int64
	Clicks      int64
	Reach       int64
}

func (b *Bucket[K]) add(r model.MetricRecord) {
	b.Records++
	b.Spend += r.Spend
	b.Impressions = model.AddCount(b.Impressions, r.Impressions)
	b.Clicks = model.AddCount(b.Clicks, r.Clicks)
	b.Reach = model.AddCount(b.Reach, r.Reach)
}

// GroupBy buckets records by key, in order of each key's first occurrence.
// Records for which key reports false are left out.
func GroupBy[K comparable](records []model.MetricRecord, key func(model.MetricRecord) (K, bool)) []Bucket[K] {
	idx := make(map[K]int)
	var buckets []Bucket[K]
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := idx[k]
		if !seen {
			i = len(buckets)
			idx[k] = i
			buckets = append(buckets, Bucket[K]{Key: k})
		}
		buckets[i].add(r)
	}
	return buckets
}

// Totals sums the measures of all records.
func Totals(records []model.MetricRecord) Bucket[struct{}] {
	var b Bucket[struct{}]
	for _, r := range records {
		b.add(r)
	}
	return b
}

// AggregateCampaigns produces one row per campaign record in source order.
func AggregateCampaigns(records []model.MetricRecord) []model.CampaignRow {
	rows := make([]model.CampaignRow, 0, len(records))
	for _, r := range records {
		ctr := r.CTR
		if !r.HasCTR {
			ctr = safeDiv(float64(r.Clicks), float64(r.Impressions)) * 100
		}
		rows = append(rows, model.CampaignRow{
			Campaign:    r.Campaign,
			Spend:       Round(r.Spend, 2),
			Impressions: r.Impressions,
			Clicks:      r.Clicks,
			CTR:         Round(ctr, 4),
			CPV:         Round(source.ResolveVideoCPV(r), 6),
			Conversions: source.ResolveConversions(r.Actions),
		})
	}
	return rows
}

// AggregateDailyCPV returns the video CPV of each day, ascending by date.
// Days without a CPV are dropped.
func AggregateDailyCPV(records []model.MetricRecord) []model.DailyCPVRow {
	var rows []model.DailyCPVRow
	for _, r := range records {
		cpv := source.ResolveVideoCPV(r)
		if cpv <= 0 {
			continue
		}
		rows = append(rows, model.DailyCPVRow{Date: r.Date, CPV: Round(cpv, 6)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return rows
}

// AggregatePlacements sums spend and impressions per placement label,
// highest spend first. Ties keep encounter order.
func AggregatePlacements(records []model.MetricRecord) []model.PlacementRow {
	buckets := GroupBy(records, func(r model.MetricRecord) (string, bool) {
		return source.PlacementLabel(r.Platform, r.Position), true
	})

	rows := make([]model.PlacementRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, model.PlacementRow{
			Placement:   b.Key,
			Spend:       Round(b.Spend, 2),
			Impressions: b.Impressions,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Spend > rows[j].Spend
	})
	return rows
}

type demoKey struct {
	age    string
	gender string
}

// AggregateDemographics sums measures per age bracket and gender, ordered
// by canonical age bracket and then gender label.
func AggregateDemographics(records []model.MetricRecord) []model.DemographicRow {
	buckets := GroupBy(records, func(r model.MetricRecord) (demoKey, bool) {
		return demoKey{age: r.Age, gender: source.GenderLabel(r.Gender)}, true
	})

	rows := make([]model.DemographicRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, model.DemographicRow{
			Age:         b.Key.age,
			Gender:      b.Key.gender,
			Spend:       Round(b.Spend, 2),
			Impressions: b.Impressions,
			Clicks:      b.Clicks,
		})
	}
	SortDemographics(rows)
	return rows
}

// SortDemographics orders rows by canonical age bracket, unknown brackets
// last, then by gender label.
func SortDemographics(rows []model.DemographicRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := source.AgeRank(rows[i].Age), source.AgeRank(rows[j].Age)
		if ri != rj {
			return ri < rj
		}
		return rows[i].Gender < rows[j].Gender
	})
}

// AggregateHourly returns exactly 24 rows, one per hour of day. Records
// whose interval label has no parseable hour are skipped and counted.
func AggregateHourly(records []model.MetricRecord) ([]model.HourlyRow, int) {
	hours := make([]model.HourlyRow, 24)
	for i := range hours {
		hours[i].Hour = i
	}

	skipped := 0
	for _, r := range records {
		h, ok := source.ParseHour(r.HourInterval)
		if !ok {
			skipped++
			continue
		}
		hours[h].Clicks = model.AddCount(hours[h].Clicks, r.Clicks)
		hours[h].Impressions = model.AddCount(hours[h].Impressions, r.Impressions)
		hours[h].Spend += r.Spend
	}

	for i := range hours {
		hours[i].Spend = Round(hours[i].Spend, 2)
	}
	return hours, skipped
}

// PeakHour returns the hour with the most clicks; the earliest wins ties.
func PeakHour(hours []model.HourlyRow) model.HourlyRow {
	var peak model.HourlyRow
	for i, h := range hours {
		if i == 0 || h.Clicks > peak.Clicks {
			peak = h
		}
	}
	return peak
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
