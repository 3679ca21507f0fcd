package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/dashboard"
	"github.com/theirongolddev/adburn/internal/dataset"
	"github.com/theirongolddev/adburn/internal/model"
	"github.com/theirongolddev/adburn/internal/pipeline"
	"github.com/theirongolddev/adburn/internal/source"
)

var fixedNow = time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)

func TestWriteCSVEmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteCSV(dir, CampaignTable(nil))
	require.ErrorIs(t, err, pipeline.ErrEmptyDataset)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteCSVRoundTrips(t *testing.T) {
	dir := t.TempDir()
	rows := []model.CampaignRow{{Campaign: "Lead, Gen", Spend: 15200.5, Impressions: 310000, Clicks: 12400, CTR: 4, CPV: 0.049, Conversions: 520}}

	path, err := WriteCSV(dir, CampaignTable(rows))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, source.FileCampaigns), path)

	tbl, err := source.ReadTableFile(path)
	require.NoError(t, err)
	parsed := source.ParseCampaigns(tbl)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, rows[0], parsed.Rows[0])
	assert.Zero(t, parsed.Invalid)
}

func TestWriteCSVIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	tbl := DailyCPVTable([]model.DailyCPVRow{{Date: "2025-01-01", CPV: 0.02}})

	p1, err := WriteCSV(dir, tbl)
	require.NoError(t, err)
	first, err := os.ReadFile(p1)
	require.NoError(t, err)

	_, err = WriteCSV(dir, tbl)
	require.NoError(t, err)
	second, err := os.ReadFile(p1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestExecutiveTableRounding(t *testing.T) {
	tbl := ExecutiveTable([]model.CohortRow{{Name: "a", Spend: 1000.004, Purchases: 3, DirectRevenue: 891}})
	require.Len(t, tbl.Rows, 1)
	rec := tbl.Records()[0]
	assert.Equal(t, "1000", rec[1])
	assert.Equal(t, "333.33", rec[7])
	assert.Equal(t, "0.891", rec[8])
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	tables := []Table{
		PlacementTable([]model.PlacementRow{{Placement: "Reels", Spend: 10, Impressions: 100}}),
		HourlyTable(nil),
		FunnelTable([]model.FunnelStage{{Name: "Impressions", Position: 1, Count: 10}}),
	}

	path, err := WriteXLSX(dir, tables)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"placements", "funnel"}, f.GetSheetList())
	rows, err := f.GetRows("placements")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"placement", "spend", "impressions"}, rows[0])
	assert.Equal(t, "Reels", rows[1][0])
}

func TestWriteXLSXAllEmpty(t *testing.T) {
	_, err := WriteXLSX(t.TempDir(), []Table{HourlyTable(nil)})
	assert.ErrorIs(t, err, pipeline.ErrEmptyDataset)
}

func sampleExecutive(t *testing.T) *business.Executive {
	t.Helper()
	camp, err := dataset.SampleDataset{}.Campaigns()
	require.NoError(t, err)
	e, err := business.BuildExecutive(camp, business.DefaultParams())
	require.NoError(t, err)
	return e
}

func TestRenderExecutive(t *testing.T) {
	e := sampleExecutive(t)
	summary := MarkdownToHTML(ExecutiveMarkdown(e, fixedNow))

	out, err := RenderExecutive(e, summary, fixedNow)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Executive Dashboard")
	assert.Contains(t, html, "R$ 99.640,00")
	assert.Contains(t, html, "Sample data in use for")
	assert.Contains(t, html, "Brand Awareness - Wide - 18-34")
	assert.Contains(t, html, `id="c13"`)
	assert.Contains(t, html, "<table>")
}

func TestRenderDashboardEscapesNames(t *testing.T) {
	ds := dataset.SampleDataset{}
	d, err := dashboard.Build(ds, cli.PtBR)
	require.NoError(t, err)
	d.Campaigns.Labels[0] = "</script><b>x</b>"

	out, err := RenderDashboard(d, fixedNow)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Ads Performance Dashboard")
	assert.NotContains(t, html, "</script><b>x</b>")
	assert.Contains(t, html, `id="chartHourly"`)
}

func TestExecutiveMarkdown(t *testing.T) {
	md := string(ExecutiveMarkdown(sampleExecutive(t), fixedNow))
	assert.True(t, strings.HasPrefix(md, "# Executive Summary"))
	assert.Contains(t, md, "Realistic (realistic)")
	assert.Contains(t, md, "across 15 campaigns")
	assert.Contains(t, md, "sample data")
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path, err := WriteFile(dir, SummaryName, []byte("# hi\n"))
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hi\n", string(b))
}
