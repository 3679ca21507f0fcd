package model

// CampaignRow is one line of the campaign report.
type CampaignRow struct {
	Campaign    string
	Spend       float64
	Impressions int64
	Clicks      int64
	CTR         float64
	CPV         float64
	Conversions int64
}

// DailyCPVRow holds the video cost-per-view for a single day.
type DailyCPVRow struct {
	Date string
	CPV  float64
}

// PlacementRow aggregates spend and impressions for a friendly placement label.
type PlacementRow struct {
	Placement   string
	Spend       float64
	Impressions int64
}

// DemographicRow aggregates one age bracket and gender pair.
type DemographicRow struct {
	Age         string
	Gender      string
	Spend       float64
	Impressions int64
	Clicks      int64
}

// HourlyRow holds totals for one hour of day (0-23).
type HourlyRow struct {
	Hour        int
	Clicks      int64
	Impressions int64
	Spend       float64
}

// FunnelStage is one step of the conversion funnel. Counts never increase
// from one stage to the next.
type FunnelStage struct {
	Name     string
	Position int
	Count    int64
}

// CohortRow holds the executive figures for one launch cohort.
type CohortRow struct {
	Name          string
	Spend         float64
	Leads         int64
	PageViews     int64
	Checkouts     int64
	Purchases     int64
	DirectRevenue float64
}

// CampaignTypeRow aggregates campaigns sharing a classified type.
type CampaignTypeRow struct {
	Type      string
	Spend     float64
	Purchases int64
	Leads     int64
}

// WasteRow is a campaign that spent without converting.
type WasteRow struct {
	Name      string
	Spend     float64
	Leads     int64
	Purchases int64
}

// AudienceRow holds per-audience results.
type AudienceRow struct {
	Audience  string
	Type      string
	Spend     float64
	Leads     int64
	Purchases int64
	CPV       float64
}
