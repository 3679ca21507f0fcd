package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/adburn/internal/pipeline"
)

func openTemp(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func summaryAt(start time.Time) pipeline.RunSummary {
	return pipeline.RunSummary{
		Started:  start,
		Duration: 1500 * time.Millisecond,
		Results: []pipeline.StepResult{
			{Name: "campaigns", Rows: 12, Duration: 200 * time.Millisecond},
			{Name: "hourly", Skipped: true},
			{Name: "funnel", Err: errors.New("fetching funnel: graph: rate limited")},
		},
	}
}

func TestNewRun(t *testing.T) {
	r := NewRun(summaryAt(time.Now()), TriggerCLI, "reports", false)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, 1, r.Succeeded)
	assert.Equal(t, 3, r.Total)
	require.Len(t, r.Reports, 3)
	assert.Equal(t, StatusOK, r.Reports[0].Status)
	assert.Equal(t, StatusSkipped, r.Reports[1].Status)
	assert.Equal(t, StatusFailed, r.Reports[2].Status)
	assert.Contains(t, r.Reports[2].Error, "rate limited")
}

func TestSaveAndListRuns(t *testing.T) {
	h := openTemp(t)
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		r := NewRun(summaryAt(base.Add(time.Duration(i)*24*time.Hour)), TriggerSchedule, "reports", i == 1)
		r.Spend = float64(100 * (i + 1))
		require.NoError(t, h.SaveRun(r))
	}

	runs, err := h.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(48*time.Hour)), "newest first")
	assert.InDelta(t, 300.0, runs[0].Spend, 1e-9)
	assert.True(t, runs[1].Sample)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)

	require.Len(t, runs[0].Reports, 3)
	assert.Equal(t, "campaigns", runs[0].Reports[0].Name)
	assert.Equal(t, 12, runs[0].Reports[0].Rows)
	assert.Equal(t, "funnel", runs[0].Reports[2].Name)
	assert.Contains(t, runs[0].Reports[2].Error, "rate limited")
	assert.Empty(t, runs[0].Reports[0].Error)

	limited, err := h.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSaveRunReplaces(t *testing.T) {
	h := openTemp(t)
	r := NewRun(summaryAt(time.Now()), TriggerCLI, "out", false)
	require.NoError(t, h.SaveRun(r))
	r.Reports = r.Reports[:1]
	require.NoError(t, h.SaveRun(r))

	n, err := h.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	last, err := h.LastRun()
	require.NoError(t, err)
	assert.Len(t, last.Reports, 1)
}

func TestLastRunEmpty(t *testing.T) {
	_, err := openTemp(t).LastRun()
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestPrune(t *testing.T) {
	h := openTemp(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.SaveRun(NewRun(summaryAt(base.Add(time.Duration(i)*time.Hour)), TriggerCLI, "out", false)))
	}

	removed, err := h.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	runs, err := h.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[1].StartedAt.Equal(base.Add(3*time.Hour)))
	for _, r := range runs {
		assert.Len(t, r.Reports, 3, "cascade keeps reports of kept runs")
	}
}
