package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/adburn/internal/model"
)

// Report file names inside the output directory.
const (
	FileCampaigns         = "campaigns.csv"
	FileDailyCPV          = "daily_cpv.csv"
	FilePlacements        = "placements.csv"
	FileDemographics      = "demographics.csv"
	FileHourly            = "hourly.csv"
	FileFunnel            = "funnel.csv"
	FileExecutive         = "executive.csv"
	FileExecutiveAudience = "executive_audiences.csv"
)

// ReportFiles lists every table the tool writes, in run order.
var ReportFiles = []string{
	FileCampaigns, FileDailyCPV, FilePlacements, FileDemographics,
	FileHourly, FileFunnel, FileExecutive, FileExecutiveAudience,
}

// Column names of the exported tables.
const (
	ColCampaign    = "campaign"
	ColSpend       = "spend"
	ColImpressions = "impressions"
	ColClicks      = "clicks"
	ColCTR         = "ctr"
	ColCPV         = "cpv"
	ColConversions = "conversions"
	ColDate        = "date"
	ColPlacement   = "placement"
	ColAge         = "age"
	ColGender      = "gender"
	ColHour        = "hour"
	ColStage       = "stage"
	ColCount       = "count"
)

// columnAliases maps legacy Portuguese headers to current column names.
var columnAliases = map[string]string{
	"campanha":       ColCampaign,
	"gasto":          ColSpend,
	"impressoes":     ColImpressions,
	"cliques":        ColClicks,
	"conversoes":     ColConversions,
	"data":           ColDate,
	"posicionamento": ColPlacement,
	"idade":          ColAge,
	"genero":         ColGender,
	"hora":           ColHour,
	"estagio":        ColStage,
	"quantidade":     ColCount,
}

// ErrNoHeader is returned for a table without a header row.
var ErrNoHeader = errors.New("source: table has no header row")

// Table is a CSV table with normalized column names.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// ReadTable reads a CSV table. Header names are trimmed, lower-cased and
// resolved through the legacy alias table. Rows with a wrong field count
// are kept and padded on access.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("source: reading header: %w", err)
	}

	t := &Table{index: make(map[string]int, len(header))}
	for i, h := range header {
		name := NormalizeColumn(h)
		t.Columns = append(t.Columns, name)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: reading row %d: %w", len(t.Rows)+2, err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadTableFile opens and reads a CSV file.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured output dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadTable(f)
}

// NormalizeColumn trims and lower-cases a header, mapping legacy names.
func NormalizeColumn(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	if alias, ok := columnAliases[h]; ok {
		return alias
	}
	return h
}

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *Table) str(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// num returns the numeric cell and false when it is present but invalid.
func (t *Table) num(row []string, col string) (float64, bool) {
	return ParseCell(t.str(row, col))
}

// Parsed is the result of a typed table parse. Invalid counts rows that had
// at least one unparseable numeric cell (read as zero).
type Parsed[T any] struct {
	Rows    []T
	Invalid int
}

type rowParser struct {
	t     *Table
	clean bool
}

func (p *rowParser) f(row []string, col string) float64 {
	v, ok := p.t.num(row, col)
	if !ok {
		p.clean = false
	}
	return v
}

func (p *rowParser) i(row []string, col string) int64 {
	return model.ToCount(p.f(row, col))
}

func parseRows[T any](t *Table, fn func(p *rowParser, row []string) T) Parsed[T] {
	out := Parsed[T]{Rows: make([]T, 0, len(t.Rows))}
	for _, row := range t.Rows {
		p := &rowParser{t: t, clean: true}
		out.Rows = append(out.Rows, fn(p, row))
		if !p.clean {
			out.Invalid++
		}
	}
	return out
}

// ParseCampaigns reads campaign rows.
func ParseCampaigns(t *Table) Parsed[model.CampaignRow] {
	return parseRows(t, func(p *rowParser, row []string) model.CampaignRow {
		name := t.str(row, ColCampaign)
		if name == "" {
			name = DefaultCampaign
		}
		return model.CampaignRow{
			Campaign:    name,
			Spend:       p.f(row, ColSpend),
			Impressions: p.i(row, ColImpressions),
			Clicks:      p.i(row, ColClicks),
			CTR:         p.f(row, ColCTR),
			CPV:         p.f(row, ColCPV),
			Conversions: p.i(row, ColConversions),
		}
	})
}

// ParseDailyCPV reads daily CPV rows.
func ParseDailyCPV(t *Table) Parsed[model.DailyCPVRow] {
	return parseRows(t, func(p *rowParser, row []string) model.DailyCPVRow {
		return model.DailyCPVRow{Date: t.str(row, ColDate), CPV: p.f(row, ColCPV)}
	})
}

// ParsePlacements reads placement rows.
func ParsePlacements(t *Table) Parsed[model.PlacementRow] {
	return parseRows(t, func(p *rowParser, row []string) model.PlacementRow {
		return model.PlacementRow{
			Placement:   t.str(row, ColPlacement),
			Spend:       p.f(row, ColSpend),
			Impressions: p.i(row, ColImpressions),
		}
	})
}

// ParseDemographics reads age and gender rows.
func ParseDemographics(t *Table) Parsed[model.DemographicRow] {
	return parseRows(t, func(p *rowParser, row []string) model.DemographicRow {
		return model.DemographicRow{
			Age:         t.str(row, ColAge),
			Gender:      t.str(row, ColGender),
			Spend:       p.f(row, ColSpend),
			Impressions: p.i(row, ColImpressions),
			Clicks:      p.i(row, ColClicks),
		}
	})
}

// ParseHourly reads hour-of-day rows.
func ParseHourly(t *Table) Parsed[model.HourlyRow] {
	return parseRows(t, func(p *rowParser, row []string) model.HourlyRow {
		return model.HourlyRow{
			Hour:        int(p.i(row, ColHour)),
			Clicks:      p.i(row, ColClicks),
			Impressions: p.i(row, ColImpressions),
			Spend:       p.f(row, ColSpend),
		}
	})
}

// ParseFunnel reads funnel stages; positions follow row order.
func ParseFunnel(t *Table) Parsed[model.FunnelStage] {
	pos := 0
	return parseRows(t, func(p *rowParser, row []string) model.FunnelStage {
		pos++
		return model.FunnelStage{
			Name:     t.str(row, ColStage),
			Position: pos,
			Count:    p.i(row, ColCount),
		}
	})
}
