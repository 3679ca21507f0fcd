package tui

import (
	"fmt"
	"time"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/dashboard"
	"github.com/theirongolddev/adburn/internal/dataset"
	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/store"
)

// historyLimit is the number of runs the Runs tab lists.
const historyLimit = 50

// Data is everything the tabs display, read once per load.
type Data struct {
	Dashboard    *dashboard.Dashboard
	Campaigns    dataset.Table[model.CampaignRow]
	DailyCPV     []model.DailyCPVRow
	Placements   []model.PlacementRow
	Demographics []model.DemographicRow
	Hourly       []model.HourlyRow
	Funnel       []model.FunnelStage
	Executive    *business.Executive

	Runs     []store.Run
	RunsErr  error
	LoadedAt time.Time
	LoadTime time.Duration
}

// Source tells Load where to read from.
type Source struct {
	Dataset func() dataset.Dataset
	Params  business.Params
	Locale  cli.Locale
	History func() (*store.History, error) // optional
}

// Load reads the report tables and the run history. A failing history is
// recorded in RunsErr and does not fail the load.
func Load(src Source) (*Data, error) {
	start := time.Now()
	ds := src.Dataset()

	d := &Data{}
	var err error
	if d.Dashboard, err = dashboard.Build(ds, src.Locale); err != nil {
		return nil, err
	}
	if d.Campaigns, err = ds.Campaigns(); err != nil {
		return nil, fmt.Errorf("loading campaigns: %w", err)
	}
	daily, err := ds.DailyCPV()
	if err != nil {
		return nil, fmt.Errorf("loading daily cpv: %w", err)
	}
	placements, err := ds.Placements()
	if err != nil {
		return nil, fmt.Errorf("loading placements: %w", err)
	}
	demo, err := ds.Demographics()
	if err != nil {
		return nil, fmt.Errorf("loading demographics: %w", err)
	}
	hourly, err := ds.Hourly()
	if err != nil {
		return nil, fmt.Errorf("loading hourly: %w", err)
	}
	funnel, err := ds.Funnel()
	if err != nil {
		return nil, fmt.Errorf("loading funnel: %w", err)
	}
	d.DailyCPV, d.Placements, d.Demographics = daily.Rows, placements.Rows, demo.Rows
	d.Hourly, d.Funnel = hourly.Rows, funnel.Rows

	if d.Executive, err = business.BuildExecutive(d.Campaigns, src.Params); err != nil {
		return nil, fmt.Errorf("building executive report: %w", err)
	}

	if src.History != nil {
		d.Runs, d.RunsErr = loadRuns(src.History)
	}

	d.LoadedAt = time.Now()
	d.LoadTime = time.Since(start)
	return d, nil
}

func loadRuns(open func() (*store.History, error)) ([]store.Run, error) {
	h, err := open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = h.Close() }()
	return h.ListRuns(historyLimit)
}
