package business

import (
	"sort"

	"github.com/theirongolddev/adburn/internal/model"
)

// WasteReport separates the entries shown from the waste total, which
// always covers the entire zero-conversion set.
type WasteReport struct {
	Top   []model.WasteRow
	Total float64
	Count int
}

// Truncated reports whether Top omits part of the set.
func (w WasteReport) Truncated() bool {
	return len(w.Top) < w.Count
}

// WasteFromCampaigns returns campaigns without conversions. Clicks stand in
// for leads.
func WasteFromCampaigns(rows []model.CampaignRow) []model.WasteRow {
	var out []model.WasteRow
	for _, r := range rows {
		if r.Conversions != 0 {
			continue
		}
		out = append(out, model.WasteRow{Name: r.Campaign, Spend: r.Spend, Leads: r.Clicks})
	}
	return out
}

// DetectWaste keeps zero-purchase entries, ordered by spend descending, and
// retains the topN largest. A topN below 1 keeps every entry.
func DetectWaste(entries []model.WasteRow, topN int) WasteReport {
	var set []model.WasteRow
	var total float64
	for _, e := range entries {
		if e.Purchases != 0 {
			continue
		}
		set = append(set, e)
		total += e.Spend
	}

	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Spend > set[j].Spend
	})

	top := set
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	return WasteReport{Top: top, Total: total, Count: len(set)}
}
