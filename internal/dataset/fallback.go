package dataset

import (
	"errors"

	"go.uber.org/zap"

	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/source"
)

// Fallback serves tables from Primary and substitutes the sample table for
// any table Primary reports as missing.
type Fallback struct {
	Primary Dataset
	Sample  Dataset
	logger  *zap.Logger
}

// Open returns the sample dataset when useSample is set, otherwise the
// exported files in dir with per-table sample fallback.
func Open(dir string, useSample bool, logger *zap.Logger) Dataset {
	if useSample {
		return SampleDataset{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{Primary: NewFileDataset(dir), Sample: SampleDataset{}, logger: logger}
}

func withFallback[T any](f *Fallback, name string, primary, sample func() (Table[T], error)) (Table[T], error) {
	t, err := primary()
	if err == nil {
		if t.Invalid > 0 {
			f.logger.Warn("unparseable fields",
				zap.String("table", name),
				zap.Int("rows", t.Invalid),
			)
		}
		return t, nil
	}
	if !errors.Is(err, ErrMissing) {
		return Table[T]{}, err
	}
	f.logger.Warn("using sample data", zap.String("table", name))
	return sample()
}

// Campaigns reads campaigns from Primary, or from Sample when the file is missing.
func (f *Fallback) Campaigns() (Table[model.CampaignRow], error) {
	return withFallback(f, source.FileCampaigns, f.Primary.Campaigns, f.Sample.Campaigns)
}

// DailyCPV falls back to Sample like Campaigns.
func (f *Fallback) DailyCPV() (Table[model.DailyCPVRow], error) {
	return withFallback(f, source.FileDailyCPV, f.Primary.DailyCPV, f.Sample.DailyCPV)
}

// Placements falls back to Sample like Campaigns.
func (f *Fallback) Placements() (Table[model.PlacementRow], error) {
	return withFallback(f, source.FilePlacements, f.Primary.Placements, f.Sample.Placements)
}

// Demographics falls back to Sample like Campaigns.
func (f *Fallback) Demographics() (Table[model.DemographicRow], error) {
	return withFallback(f, source.FileDemographics, f.Primary.Demographics, f.Sample.Demographics)
}

// Hourly falls back to Sample like Campaigns.
func (f *Fallback) Hourly() (Table[model.HourlyRow], error) {
	return withFallback(f, source.FileHourly, f.Primary.Hourly, f.Sample.Hourly)
}

// Funnel falls back to Sample like Campaigns.
func (f *Fallback) Funnel() (Table[model.FunnelStage], error) {
	return withFallback(f, source.FileFunnel, f.Primary.Funnel, f.Sample.Funnel)
}
