// Package report runs the extraction reports and renders the dashboards.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/dashboard"
	"github.com/theirongolddev/adburn/internal/dataset"
	"github.com/theirongolddev/adburn/internal/export"
	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/pipeline"
	"github.com/theirongolddev/adburn/internal/source"
)

// Report names, in run order.
const (
	Campaigns    = "campaigns"
	DailyCPV     = "daily_cpv"
	Placements   = "placements"
	Demographics = "demographics"
	Hourly       = "hourly"
	Funnel       = "funnel"
	Dashboard    = "dashboard"
	Executive    = "executive"
	Workbook     = "workbook"
)

// ErrNoFetcher is returned by extraction reports when no API client is
// configured.
var ErrNoFetcher = errors.New("report: no insights client configured")

// Options configures a Service.
type Options struct {
	OutputDir string
	UseSample bool
	XLSX      bool
	Params    business.Params
	Now       func() time.Time
}

// Service produces the report files in one output directory.
type Service struct {
	fetcher source.Fetcher
	opts    Options
	logger  *zap.Logger
}

// New creates a service. fetcher may be nil when only the dashboards are
// rendered from previously exported files or sample data.
func New(fetcher source.Fetcher, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{fetcher: fetcher, opts: opts, logger: logger}
}

// Output is the result of one extraction report.
type Output[T any] struct {
	Rows  []T
	Path  string
	Table export.Table
}

// fetch runs q and normalizes the rows, warning once about unparseable fields.
func (s *Service) fetch(ctx context.Context, name string, q source.Query) ([]model.MetricRecord, error) {
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}
	raw, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	recs, bad := source.NormalizeAll(raw)
	if bad > 0 {
		s.logger.Warn("unparseable fields", zap.String("report", name), zap.Int("rows", bad))
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: %w", name, pipeline.ErrEmptyDataset)
	}
	return recs, nil
}

func write[T any](s *Service, rows []T, t export.Table) (Output[T], error) {
	path, err := export.WriteCSV(s.opts.OutputDir, t)
	if err != nil {
		return Output[T]{}, err
	}
	return Output[T]{Rows: rows, Path: path, Table: t}, nil
}

// Campaigns writes campaigns.csv.
func (s *Service) Campaigns(ctx context.Context) (Output[model.CampaignRow], error) {
	recs, err := s.fetch(ctx, Campaigns, CampaignsQuery)
	if err != nil {
		return Output[model.CampaignRow]{}, err
	}
	rows := pipeline.AggregateCampaigns(recs)
	return write(s, rows, export.CampaignTable(rows))
}

// DailyCPV writes daily_cpv.csv.
func (s *Service) DailyCPV(ctx context.Context) (Output[model.DailyCPVRow], error) {
	recs, err := s.fetch(ctx, DailyCPV, DailyCPVQuery)
	if err != nil {
		return Output[model.DailyCPVRow]{}, err
	}
	rows := pipeline.AggregateDailyCPV(recs)
	return write(s, rows, export.DailyCPVTable(rows))
}

// Placements writes placements.csv.
func (s *Service) Placements(ctx context.Context) (Output[model.PlacementRow], error) {
	recs, err := s.fetch(ctx, Placements, PlacementsQuery)
	if err != nil {
		return Output[model.PlacementRow]{}, err
	}
	rows := pipeline.AggregatePlacements(recs)
	return write(s, rows, export.PlacementTable(rows))
}

// Demographics writes demographics.csv.
func (s *Service) Demographics(ctx context.Context) (Output[model.DemographicRow], error) {
	recs, err := s.fetch(ctx, Demographics, DemographicsQuery)
	if err != nil {
		return Output[model.DemographicRow]{}, err
	}
	rows := pipeline.AggregateDemographics(recs)
	return write(s, rows, export.DemographicTable(rows))
}

// Hourly writes hourly.csv with all 24 hours. A day with no clicks in any
// hour counts as an empty dataset and writes nothing.
func (s *Service) Hourly(ctx context.Context) (Output[model.HourlyRow], error) {
	recs, err := s.fetch(ctx, Hourly, HourlyQuery)
	if err != nil {
		return Output[model.HourlyRow]{}, err
	}
	rows, skipped := pipeline.AggregateHourly(recs)
	if skipped > 0 {
		s.logger.Warn("rows without hour skipped", zap.String("report", Hourly), zap.Int("rows", skipped))
	}
	var clicks int64
	for _, r := range rows {
		clicks = model.AddCount(clicks, r.Clicks)
	}
	if clicks == 0 {
		return Output[model.HourlyRow]{}, fmt.Errorf("%s: no clicks in any hour: %w", Hourly, pipeline.ErrEmptyDataset)
	}
	return write(s, rows, export.HourlyTable(rows))
}

// Funnel writes funnel.csv.
func (s *Service) Funnel(ctx context.Context) (Output[model.FunnelStage], error) {
	recs, err := s.fetch(ctx, Funnel, FunnelQuery)
	if err != nil {
		return Output[model.FunnelStage]{}, err
	}
	stages := pipeline.BuildFunnel(pipeline.AccumulateFunnel(recs))
	return write(s, stages, export.FunnelTable(stages))
}

// Dataset returns the tables the dashboards read: exported files with
// per-table sample fallback, or sample data only.
func (s *Service) Dataset() dataset.Dataset {
	return dataset.Open(s.opts.OutputDir, s.opts.UseSample, s.logger)
}

// Dashboard renders dashboard.html.
func (s *Service) Dashboard() (*dashboard.Dashboard, string, error) {
	d, err := dashboard.Build(s.Dataset(), s.opts.Params.Locale)
	if err != nil {
		return nil, "", fmt.Errorf("building dashboard: %w", err)
	}
	html, err := export.RenderDashboard(d, s.opts.Now())
	if err != nil {
		return nil, "", err
	}
	path, err := export.WriteFile(s.opts.OutputDir, export.DashboardName, html)
	if err != nil {
		return nil, "", err
	}
	return d, path, nil
}

// ExecutiveResult lists the executive report files.
type ExecutiveResult struct {
	Report  *business.Executive
	Paths   []string
	Tables  []export.Table
	Summary []byte
}

// Executive renders executive.html and executive.md and writes the cohort
// and audience tables.
func (s *Service) Executive() (*ExecutiveResult, error) {
	camp, err := s.Dataset().Campaigns()
	if err != nil {
		return nil, fmt.Errorf("reading campaigns: %w", err)
	}
	e, err := business.BuildExecutive(camp, s.opts.Params)
	if err != nil {
		return nil, fmt.Errorf("building executive report: %w", err)
	}

	now := s.opts.Now()
	md := export.ExecutiveMarkdown(e, now)
	html, err := export.RenderExecutive(e, export.MarkdownToHTML(md), now)
	if err != nil {
		return nil, err
	}

	res := &ExecutiveResult{Report: e, Summary: md}
	for _, f := range []struct {
		name string
		data []byte
	}{{export.ExecutiveName, html}, {export.SummaryName, md}} {
		path, err := export.WriteFile(s.opts.OutputDir, f.name, f.data)
		if err != nil {
			return nil, err
		}
		res.Paths = append(res.Paths, path)
	}

	for _, t := range []export.Table{export.ExecutiveTable(e.Cohorts), export.AudienceTable(e.Audiences)} {
		path, err := export.WriteCSV(s.opts.OutputDir, t)
		if errors.Is(err, pipeline.ErrEmptyDataset) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res.Paths = append(res.Paths, path)
		res.Tables = append(res.Tables, t)
	}
	return res, nil
}

// Steps returns the reports of a full run for pipeline.Runner. In sample
// mode the extraction reports are left out. With XLSX set a final step
// writes report.xlsx from the tables produced earlier in the same run.
func (s *Service) Steps() []pipeline.Step {
	var tables []export.Table
	collect := func(t export.Table, err error) (int, error) {
		if err != nil {
			return 0, err
		}
		tables = append(tables, t)
		return len(t.Rows), nil
	}

	var steps []pipeline.Step
	if !s.opts.UseSample {
		steps = append(steps,
			pipeline.Step{Name: Campaigns, Run: func(ctx context.Context) (int, error) {
				out, err := s.Campaigns(ctx)
				return collect(out.Table, err)
			}},
			pipeline.Step{Name: DailyCPV, Run: func(ctx context.Context) (int, error) {
				out, err := s.DailyCPV(ctx)
				return collect(out.Table, err)
			}},
			pipeline.Step{Name: Placements, Run: func(ctx context.Context) (int, error) {
				out, err := s.Placements(ctx)
				return collect(out.Table, err)
			}},
			pipeline.Step{Name: Demographics, Run: func(ctx context.Context) (int, error) {
				out, err := s.Demographics(ctx)
				return collect(out.Table, err)
			}},
			pipeline.Step{Name: Hourly, Run: func(ctx context.Context) (int, error) {
				out, err := s.Hourly(ctx)
				return collect(out.Table, err)
			}},
			pipeline.Step{Name: Funnel, Run: func(ctx context.Context) (int, error) {
				out, err := s.Funnel(ctx)
				return collect(out.Table, err)
			}},
		)
	}

	steps = append(steps,
		pipeline.Step{Name: Dashboard, Run: func(context.Context) (int, error) {
			d, _, err := s.Dashboard()
			if err != nil {
				return 0, err
			}
			return len(d.Campaigns.Labels), nil
		}},
		pipeline.Step{Name: Executive, Run: func(context.Context) (int, error) {
			res, err := s.Executive()
			if err != nil {
				return 0, err
			}
			n := 0
			for _, t := range res.Tables {
				tables = append(tables, t)
				n += len(t.Rows)
			}
			return n, nil
		}},
	)

	if s.opts.XLSX {
		steps = append(steps, pipeline.Step{Name: Workbook, Run: func(context.Context) (int, error) {
			if _, err := export.WriteXLSX(s.opts.OutputDir, tables); err != nil {
				return 0, err
			}
			return len(tables), nil
		}})
	}
	return steps
}

// Summary describes a finished run in one line, e.g. "6/8 reports succeeded".
func Summary(sum pipeline.RunSummary) string {
	return fmt.Sprintf("%d/%d reports succeeded", sum.Succeeded(), len(sum.Results))
}

// AllFailed reports whether no step of the run produced output.
func AllFailed(sum pipeline.RunSummary) bool {
	return len(sum.Results) > 0 && sum.Succeeded() == 0
}
