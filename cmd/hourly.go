package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/pipeline"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Clicks by hour of day",
	RunE:  runHourly,
}

func init() {
	rootCmd.AddCommand(hourlyCmd)
}

func runHourly(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	out, err := newService().Hourly(ctx)
	if show, err := reportDone("hourly", out.Path, err); !show {
		return err
	}

	loc := appCfg.Locale()
	printTitle(fmt.Sprintf("CLICKS BY HOUR  %s (account time zone)", appCfg.General.DatePreset))

	peak := pipeline.PeakHour(out.Rows)
	maxBarWidth := 40
	for _, h := range out.Rows {
		barLen := 0
		if peak.Clicks > 0 {
			barLen = int(h.Clicks * int64(maxBarWidth) / peak.Clicks)
		}
		fmt.Printf("  %02d:00 │ %7s │ %s\n", h.Hour, loc.Int(h.Clicks), strings.Repeat("█", barLen))
	}

	fmt.Printf("\n  Peak: %02d:00 (%s clicks, %s spend)\n\n",
		peak.Hour, loc.Int(peak.Clicks), loc.Money(peak.Spend))
	return nil
}
