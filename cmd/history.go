package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/store"
)

var (
	flagHistoryLimit   int
	flagHistoryDetails bool
	flagHistoryPrune   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded report runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryDetails, "details", false, "Show per-report outcomes")
	historyCmd.Flags().IntVar(&flagHistoryPrune, "prune", 0, "Keep only the newest N runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	if flagHistoryPrune > 0 {
		n, err := h.Prune(flagHistoryPrune)
		if err != nil {
			return err
		}
		fmt.Printf("  Removed %d runs\n", n)
	}

	runs, err := h.ListRuns(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  No runs recorded yet. Run `adburn` first.")
		return nil
	}

	loc := appCfg.Locale()
	rows := make([][]string, 0, len(runs))
	for i, r := range runs {
		change := "-"
		if i+1 < len(runs) {
			change = loc.Delta(r.Spend, runs[i+1].Spend)
		}
		source := "api"
		if r.Sample {
			source = "sample"
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Trigger,
			source,
			fmt.Sprintf("%d/%d", r.Succeeded, r.Total),
			r.Duration.Round(time.Millisecond).String(),
			loc.Money(r.Spend),
			change,
		})
	}

	printTitle("RUN HISTORY")
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Started", "Trigger", "Data", "Reports", "Duration", "Spend", "vs previous"},
		Rows:    rows,
		Left:    3,
	}))

	if flagHistoryDetails {
		for _, r := range runs {
			fmt.Println()
			fmt.Print(runDetails(r))
		}
	}
	fmt.Println()
	return nil
}

func runDetails(r store.Run) string {
	rows := make([][]string, 0, len(r.Reports))
	for _, rep := range r.Reports {
		rows = append(rows, []string{
			rep.Name,
			rep.Status,
			cli.FormatNumber(int64(rep.Rows)),
			rep.Duration.Round(time.Millisecond).String(),
			rep.Error,
		})
	}
	table := cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%s  %s", r.ID[:8], r.StartedAt.Local().Format("2006-01-02 15:04")),
		Headers: []string{"Report", "Status", "Rows", "Duration", "Error"},
		Rows:    rows,
		Left:    2,
	})
	return table + "  " + cli.RenderProgressBar(r.Succeeded, r.Total, 24) + " succeeded\n"
}
