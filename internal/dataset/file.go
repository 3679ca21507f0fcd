package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/source"
)

// FileDataset reads tables exported by the extraction reports.
type FileDataset struct {
	Dir string
}

// NewFileDataset returns a dataset reading from dir.
func NewFileDataset(dir string) *FileDataset {
	return &FileDataset{Dir: dir}
}

// readFile maps a missing or headerless file to ErrMissing.
func readFile[T any](dir, name string, parse func(*source.Table) source.Parsed[T]) (Table[T], error) {
	path := filepath.Join(dir, name)
	t, err := source.ReadTableFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, source.ErrNoHeader):
		return Table[T]{}, fmt.Errorf("%s: %w", name, ErrMissing)
	case err != nil:
		return Table[T]{}, fmt.Errorf("reading %s: %w", name, err)
	}

	parsed := parse(t)
	return Table[T]{Rows: parsed.Rows, Columns: t.Columns, Invalid: parsed.Invalid}, nil
}

// Campaigns reads the per-campaign insights table.
func (d *FileDataset) Campaigns() (Table[model.CampaignRow], error) {
	return readFile(d.Dir, source.FileCampaigns, source.ParseCampaigns)
}

// DailyCPV reads the daily cost-per-view table.
func (d *FileDataset) DailyCPV() (Table[model.DailyCPVRow], error) {
	return readFile(d.Dir, source.FileDailyCPV, source.ParseDailyCPV)
}

// Placements reads spend and impressions per placement label.
func (d *FileDataset) Placements() (Table[model.PlacementRow], error) {
	return readFile(d.Dir, source.FilePlacements, source.ParsePlacements)
}

// Demographics reads the age and gender breakdown.
func (d *FileDataset) Demographics() (Table[model.DemographicRow], error) {
	return readFile(d.Dir, source.FileDemographics, source.ParseDemographics)
}

// Hourly reads the hour-of-day table.
func (d *FileDataset) Hourly() (Table[model.HourlyRow], error) {
	return readFile(d.Dir, source.FileHourly, source.ParseHourly)
}

// Funnel reads the conversion funnel stages.
func (d *FileDataset) Funnel() (Table[model.FunnelStage], error) {
	return readFile(d.Dir, source.FileFunnel, source.ParseFunnel)
}
