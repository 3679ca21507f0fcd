package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/pipeline"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Video cost per view by day",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	out, err := newService().DailyCPV(ctx)
	if show, err := reportDone("daily CPV", out.Path, err); !show {
		return err
	}

	loc := appCfg.Locale()
	mean := pipeline.MeanDailyCPV(out.Rows)

	printTitle(fmt.Sprintf("DAILY CPV  %s", appCfg.General.DatePreset))

	values := make([]float64, len(out.Rows))
	rows := make([][]string, 0, len(out.Rows))
	for i, d := range out.Rows {
		values[i] = d.CPV
		day := ""
		if t, err := time.Parse("2006-01-02", d.Date); err == nil {
			day = cli.FormatDayOfWeek(int(t.Weekday()))
		}
		marker := ""
		if d.CPV > mean {
			marker = "▲"
		}
		rows = append(rows, []string{d.Date, day, loc.Decimals(d.CPV, 4), marker})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "CPV", ""},
		Rows:    rows,
		Left:    2,
	}))
	fmt.Printf("\n  Trend: %s\n", cli.RenderSparkline(values))
	fmt.Printf("  Mean CPV: %s over %d days (▲ above mean)\n\n", loc.Decimals(mean, 4), len(out.Rows))
	return nil
}
