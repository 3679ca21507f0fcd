package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/cli"
)

var demographicsCmd = &cobra.Command{
	Use:   "demographics",
	Short: "Spend and clicks by age bracket and gender",
	RunE:  runDemographics,
}

func init() {
	rootCmd.AddCommand(demographicsCmd)
}

func runDemographics(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	out, err := newService().Demographics(ctx)
	if show, err := reportDone("demographics", out.Path, err); !show {
		return err
	}

	loc := appCfg.Locale()
	var total float64
	for _, d := range out.Rows {
		total += d.Spend
	}

	printTitle(fmt.Sprintf("AGE AND GENDER  %s", appCfg.General.DatePreset))

	rows := make([][]string, 0, len(out.Rows))
	for _, d := range out.Rows {
		ctr := 0.0
		if d.Impressions > 0 {
			ctr = float64(d.Clicks) / float64(d.Impressions) * 100
		}
		rows = append(rows, []string{
			d.Age,
			d.Gender,
			loc.Money(d.Spend),
			share(d.Spend, total),
			loc.Int(d.Impressions),
			loc.Int(d.Clicks),
			loc.Decimals(ctr, 2) + "%",
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Age", "Gender", "Spend", "Share", "Impressions", "Clicks", "CTR"},
		Rows:    rows,
		Left:    2,
	}))
	fmt.Println()
	return nil
}
