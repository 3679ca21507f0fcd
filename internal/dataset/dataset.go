// Package dataset provides the report tables consumed by the dashboards,
// either read back from exported CSV files or generated as sample data.
package dataset

import (
	"errors"
	"slices"

	"github.com/theirongolddev/adburn/internal/model"
)

// ErrMissing is returned when a table has not been exported yet.
var ErrMissing = errors.New("dataset: table not found")

// Table is a typed report table. Sample marks synthetic rows; a table is
// never a mix of real and sample rows.
type Table[T any] struct {
	Rows    []T
	Columns []string
	Sample  bool
	Invalid int
}

// Has reports whether the source table carried the named column.
func (t Table[T]) Has(col string) bool {
	return slices.Contains(t.Columns, col)
}

// Len returns the row count.
func (t Table[T]) Len() int {
	return len(t.Rows)
}

// Dataset yields the six extraction tables.
type Dataset interface {
	Campaigns() (Table[model.CampaignRow], error)
	DailyCPV() (Table[model.DailyCPVRow], error)
	Placements() (Table[model.PlacementRow], error)
	Demographics() (Table[model.DemographicRow], error)
	Hourly() (Table[model.HourlyRow], error)
	Funnel() (Table[model.FunnelStage], error)
}
