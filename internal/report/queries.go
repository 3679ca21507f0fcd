package report

import "github.com/theirongolddev/adburn/internal/source"

// Insights queries for the extraction reports.
var (
	CampaignsQuery = source.Query{
		Level: "campaign",
		Fields: []string{
			source.FieldCampaignName, source.FieldSpend, source.FieldImpressions,
			source.FieldClicks, source.FieldCTR, source.FieldActions, source.FieldCostPerAction,
		},
	}
	DailyCPVQuery = source.Query{
		Level:         "account",
		Fields:        []string{source.FieldDateStart, source.FieldSpend, source.FieldActions, source.FieldCostPerAction},
		TimeIncrement: 1,
	}
	PlacementsQuery = source.Query{
		Level:      "ad",
		Fields:     []string{source.FieldSpend, source.FieldImpressions},
		Breakdowns: []string{source.FieldPlatform, source.FieldPosition},
	}
	DemographicsQuery = source.Query{
		Level:      "ad",
		Fields:     []string{source.FieldSpend, source.FieldImpressions, source.FieldClicks},
		Breakdowns: []string{source.FieldAge, source.FieldGender},
	}
	HourlyQuery = source.Query{
		Level:      "account",
		Fields:     []string{source.FieldClicks, source.FieldImpressions, source.FieldSpend},
		Breakdowns: []string{source.FieldHourly},
	}
	FunnelQuery = source.Query{
		Level:  "account",
		Fields: []string{source.FieldImpressions, source.FieldReach, source.FieldClicks, source.FieldActions},
	}
)
