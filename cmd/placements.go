package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/cli"
)

var placementsCmd = &cobra.Command{
	Use:   "placements",
	Short: "Spend and impressions by placement",
	RunE:  runPlacements,
}

func init() {
	rootCmd.AddCommand(placementsCmd)
}

func runPlacements(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	out, err := newService().Placements(ctx)
	if show, err := reportDone("placements", out.Path, err); !show {
		return err
	}

	loc := appCfg.Locale()
	var total float64
	var impressions int64
	labelWidth := 0
	for _, p := range out.Rows {
		total += p.Spend
		impressions += p.Impressions
		labelWidth = max(labelWidth, len([]rune(p.Placement)))
	}

	printTitle(fmt.Sprintf("PLACEMENTS  %s", appCfg.General.DatePreset))

	maxSpend := 0.0
	if len(out.Rows) > 0 {
		maxSpend = out.Rows[0].Spend
	}
	for _, p := range out.Rows {
		fmt.Println(cli.RenderHorizontalBar(p.Placement, labelWidth, p.Spend, maxSpend, 30,
			fmt.Sprintf("%s (%s)", loc.Money(p.Spend), share(p.Spend, total))))
	}
	fmt.Printf("\n  Total: %s across %s impressions\n\n", loc.Money(total), loc.Int(impressions))
	return nil
}
