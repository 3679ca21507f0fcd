package source

import "encoding/json"

// RawRow is one insights row as decoded from the API or a JSON dump:
// field name to the undecoded value. Values are loosely typed; numbers may
// arrive as JSON numbers or strings.
type RawRow map[string]json.RawMessage

// rawAction mirrors an element of "actions" or "cost_per_action_type".
type rawAction struct {
	ActionType string          `json:"action_type"`
	Value      json.RawMessage `json:"value"`
}

// Insights field names.
const (
	FieldCampaignName  = "campaign_name"
	FieldDateStart     = "date_start"
	FieldPlatform      = "publisher_platform"
	FieldPosition      = "platform_position"
	FieldAge           = "age"
	FieldGender        = "gender"
	FieldHourly        = "hourly_stats_aggregated_by_advertiser_time_zone"
	FieldSpend         = "spend"
	FieldImpressions   = "impressions"
	FieldClicks        = "clicks"
	FieldReach         = "reach"
	FieldCTR           = "ctr"
	FieldActions       = "actions"
	FieldCostPerAction = "cost_per_action_type"
)

// Dimension defaults for missing values.
const (
	DefaultCampaign = "Unknown"
	DefaultPlatform = "other"
	DefaultAge      = "unknown"
	DefaultGender   = "unknown"
)
