package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/config"
	"github.com/theirongolddev/adburn/internal/dataset"
	"github.com/theirongolddev/adburn/internal/store"
)

func sampleSource(t *testing.T) Source {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	return Source{
		Dataset: func() dataset.Dataset { return dataset.SampleDataset{} },
		Params:  business.DefaultParams(),
		Locale:  cli.PtBR,
		History: func() (*store.History, error) { return store.Open(dbPath) },
	}
}

func loadedApp(t *testing.T, run func(context.Context) (store.Run, error)) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, config.Save(config.DefaultConfig()))

	src := sampleSource(t)
	a := NewApp(Options{Source: src, Preset: "last_30d", Run: run})
	require.False(t, a.needSetup)

	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	d, err := Load(src)
	require.NoError(t, err)
	m, _ = m.Update(DataLoadedMsg{Data: d})
	return m.(App)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadSampleData(t *testing.T) {
	d, err := Load(sampleSource(t))
	require.NoError(t, err)

	assert.NotEmpty(t, d.Campaigns.Rows)
	assert.True(t, d.Campaigns.Sample)
	assert.Len(t, d.Hourly, 24)
	assert.NotEmpty(t, d.Executive.Cohorts)
	assert.NoError(t, d.RunsErr)
	assert.Empty(t, d.Runs)
}

func TestLoadHistoryFailureIsNotFatal(t *testing.T) {
	src := sampleSource(t)
	src.History = func() (*store.History, error) { return nil, errors.New("locked") }

	d, err := Load(src)
	require.NoError(t, err)
	assert.EqualError(t, d.RunsErr, "locked")
}

func TestEveryTabRenders(t *testing.T) {
	a := loadedApp(t, nil)

	want := map[string]string{
		"o": "Insights",
		"c": "Campaigns (",
		"t": "Clicks by hour",
		"a": "Spend by placement",
		"e": "Cohorts",
		"h": "No runs recorded yet",
	}
	for k, text := range want {
		m, _ := a.Update(key(k))
		view := m.(App).View()
		assert.Contains(t, view, text, "tab %q", k)
	}
}

func TestTabCycleWraps(t *testing.T) {
	a := loadedApp(t, nil)

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabRuns, m.(App).activeTab)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOverview, m.(App).activeTab)
}

func TestCampaignCursorMoves(t *testing.T) {
	a := loadedApp(t, nil)

	m, _ := a.Update(key("c"))
	m, _ = m.Update(key("j"))
	app := m.(App)
	assert.Equal(t, 1, app.campaigns.Cursor())
	assert.Equal(t, 0, app.scroll, "list keys must not scroll the page")
}

func TestRunActionReloads(t *testing.T) {
	a := loadedApp(t, func(context.Context) (store.Run, error) {
		return store.Run{Succeeded: 7, Total: 8}, nil
	})

	m, cmd := a.Update(key("x"))
	require.NotNil(t, cmd)
	assert.True(t, m.(App).running)

	// A second press while running is ignored.
	_, again := m.Update(key("x"))
	assert.Nil(t, again)

	m, reload := m.Update(RunFinishedMsg{Run: store.Run{Succeeded: 7, Total: 8}})
	app := m.(App)
	assert.False(t, app.running)
	assert.Equal(t, "run finished: 7/8 reports", app.message)
	assert.NotNil(t, reload)
}

func TestRunDisabledWithoutRunner(t *testing.T) {
	a := loadedApp(t, nil)
	m, cmd := a.Update(key("x"))
	assert.Nil(t, cmd)
	assert.False(t, m.(App).running)
}

func TestLoadErrorShown(t *testing.T) {
	a := loadedApp(t, nil)
	m, _ := a.Update(DataLoadedMsg{Err: errors.New("campaigns.csv: bad header")})
	assert.Contains(t, m.(App).View(), "campaigns.csv: bad header")
}
