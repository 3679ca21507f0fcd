package business

import (
	"strings"

	"github.com/theirongolddev/adburn/internal/model"
)

// Campaign types.
const (
	TypeRemarketing = "Remarketing"
	TypeLookalike   = "Prospecting LAL"
	TypeBrand       = "Brand Awareness"
	TypeVideo       = "Video Views"
	TypeLeadGen     = "Lead Generation"
	TypeOther       = "Others"
)

var typeRules = []struct {
	keywords []string
	typ      string
}{
	{[]string{"remarketing", "retarget"}, TypeRemarketing},
	{[]string{"lal", "lookalike"}, TypeLookalike},
	{[]string{"brand", "awareness"}, TypeBrand},
	{[]string{"video"}, TypeVideo},
	{[]string{"lead"}, TypeLeadGen},
}

// ClassifyCampaign assigns a type from keywords in the campaign name. The
// first matching rule wins.
func ClassifyCampaign(name string) string {
	n := strings.ToLower(name)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(n, kw) {
				return rule.typ
			}
		}
	}
	return TypeOther
}

// AggregateTypes sums campaigns per type in first-occurrence order. Clicks
// stand in for leads.
func AggregateTypes(rows []model.CampaignRow) []model.CampaignTypeRow {
	index := make(map[string]int)
	var out []model.CampaignTypeRow
	for _, r := range rows {
		typ := ClassifyCampaign(r.Campaign)
		i, ok := index[typ]
		if !ok {
			i = len(out)
			index[typ] = i
			out = append(out, model.CampaignTypeRow{Type: typ})
		}
		out[i].Spend += r.Spend
		out[i].Purchases = model.AddCount(out[i].Purchases, r.Conversions)
		out[i].Leads = model.AddCount(out[i].Leads, r.Clicks)
	}
	return out
}
