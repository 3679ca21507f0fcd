package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/export"
	"github.com/theirongolddev/adburn/internal/pipeline"
	"github.com/theirongolddev/adburn/internal/report"
	"github.com/theirongolddev/adburn/internal/store"
)

var flagOpen bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every report and render both dashboards (default command)",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagOpen, "open", false, "Open the dashboard in a browser when done")
	rootCmd.Flags().BoolVar(&flagOpen, "open", false, "Open the dashboard in a browser when done")
	rootCmd.AddCommand(runCmd)
}

func runRun(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if !flagQuiet {
		mode := "preset " + appCfg.General.DatePreset
		if appCfg.General.UseSample {
			mode = "sample data"
		}
		printTitle(fmt.Sprintf("ADBURN RUN  %s", mode))
	}

	r := runReports(ctx, store.TriggerCLI, func(res pipeline.StepResult) {
		if flagQuiet {
			return
		}
		fmt.Println(stepLine(res))
	})
	saveRun(r)

	fmt.Printf("\n  %d/%d reports succeeded in %s. Output: %s\n",
		r.Succeeded, r.Total, r.Duration.Round(1e6), absPath(r.OutputDir))

	if flagOpen && r.Succeeded > 0 {
		openBrowser(absPath(filepath.Join(r.OutputDir, export.DashboardName)))
	}
	if r.Total > 0 && r.Succeeded == 0 {
		return fmt.Errorf("all %d reports failed", r.Total)
	}
	return nil
}

// runReports runs the full report set and summarizes it as a ledger entry.
func runReports(ctx context.Context, trigger string, progress func(pipeline.StepResult)) store.Run {
	svc := newService()
	runner := pipeline.NewRunner(logger.Named("run"))
	if progress != nil {
		runner.OnStep(progress)
	}
	sum := runner.Run(ctx, svc.Steps())
	logger.Info("run finished",
		zap.String("trigger", trigger),
		zap.String("summary", report.Summary(sum)),
		zap.Duration("duration", sum.Duration),
	)

	r := store.NewRun(sum, trigger, appCfg.General.OutputDir, appCfg.General.UseSample)
	if camp, err := svc.Dataset().Campaigns(); err == nil {
		r.Spend = pipeline.CampaignKPIs(camp.Rows, false, false).Spend
	}
	return r
}

// saveRun records r in the run history. The history is best effort: a
// ledger failure is logged, not returned.
func saveRun(r store.Run) {
	h, err := openHistory()
	if err != nil {
		logger.Warn("run history unavailable", zap.Error(err))
		return
	}
	defer func() { _ = h.Close() }()
	if err := h.SaveRun(r); err != nil {
		logger.Warn("saving run history", zap.Error(err))
	}
}

func stepLine(res pipeline.StepResult) string {
	switch {
	case res.Err != nil:
		return fmt.Sprintf("  %s %-13s %s", mark(false), res.Name, explain(res.Err))
	case res.Skipped:
		return fmt.Sprintf("  %s %-13s no data", cli.RenderNote("-"), res.Name)
	default:
		return fmt.Sprintf("  %s %-13s %s rows  %s", mark(true), res.Name,
			cli.FormatNumber(int64(res.Rows)), res.Duration.Round(1e6))
	}
}

func mark(ok bool) string {
	if ok {
		return lipgloss.NewStyle().Foreground(cli.ColorGreen).Render("✓")
	}
	return lipgloss.NewStyle().Foreground(cli.ColorRed).Render("✗")
}

func openBrowser(path string) {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", path)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		c = exec.Command("xdg-open", path)
	}
	if err := c.Start(); err != nil {
		logger.Warn("opening browser", zap.Error(err))
	}
}
