// Package model defines the domain types shared by the report pipeline.
package model

// ActionValue is one entry of an insights action list, e.g. ("purchase", 3).
type ActionValue struct {
	Type  string
	Value float64
}

// MetricRecord is one normalized insights row for a dimensional slice
// (a campaign, a day, a placement, an age/gender pair or an hour interval).
// Records are read-only once produced by the normalizer.
type MetricRecord struct {
	Campaign     string
	Date         string // YYYY-MM-DD, from date_start
	Platform     string
	Position     string
	Age          string
	Gender       string
	HourInterval string // "HH:MM:SS - HH:MM:SS"

	Spend       float64
	Impressions int64
	Clicks      int64
	Reach       int64
	CTR         float64 // percentage as reported by the source
	HasCTR      bool

	Actions       []ActionValue
	CostPerAction []ActionValue
}
