package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/store"
	"github.com/theirongolddev/adburn/internal/tui"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Source: tui.Source{
			Dataset: newService().Dataset,
			Params:  appCfg.BusinessParams(),
			Locale:  appCfg.Locale(),
			History: openHistory,
		},
		Preset: appCfg.General.DatePreset,
		Run: func(ctx context.Context) (store.Run, error) {
			r := runReports(ctx, store.TriggerCLI, nil)
			saveRun(r)
			return r, nil
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
