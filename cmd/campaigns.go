package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/pipeline"
)

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Spend, reach and conversions per campaign",
	RunE:  runCampaigns,
}

func init() {
	rootCmd.AddCommand(campaignsCmd)
}

func runCampaigns(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	out, err := newService().Campaigns(ctx)
	if show, err := reportDone("campaigns", out.Path, err); !show {
		return err
	}

	loc := appCfg.Locale()
	sum := pipeline.CampaignKPIs(out.Rows, true, true)

	printTitle(fmt.Sprintf("CAMPAIGNS  %s", appCfg.General.DatePreset))

	rows := make([][]string, 0, len(out.Rows)+2)
	for _, r := range out.Rows {
		rows = append(rows, []string{
			business.Truncate(r.Campaign, 40),
			loc.Money(r.Spend),
			loc.Int(r.Impressions),
			loc.Int(r.Clicks),
			loc.Decimals(r.CTR, 2) + "%",
			loc.Decimals(r.CPV, 4),
			loc.Int(r.Conversions),
		})
	}
	rows = append(rows, []string{"---"}, []string{
		"Total",
		loc.Money(sum.Spend),
		loc.Int(sum.Impressions),
		loc.Int(sum.Clicks),
		loc.Decimals(sum.CTR, 2) + "%",
		loc.Decimals(sum.CPV, 4),
		loc.Int(sum.Conversions),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Campaign", "Spend", "Impressions", "Clicks", "CTR", "CPV", "Conv."},
		Rows:    rows,
	}))
	fmt.Printf("\n  Mean CTR and CPV are simple averages; spend-weighted CPV: %s\n\n",
		loc.Decimals(sum.WeightedCPV, 4))
	return nil
}
