package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/pipeline"
)

var funnelCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Conversion funnel from impressions to conversions",
	RunE:  runFunnel,
}

func init() {
	rootCmd.AddCommand(funnelCmd)
}

func runFunnel(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	out, err := newService().Funnel(ctx)
	if show, err := reportDone("funnel", out.Path, err); !show {
		return err
	}

	loc := appCfg.Locale()
	shares := pipeline.FunnelShare(out.Rows)

	printTitle(fmt.Sprintf("FUNNEL  %s", appCfg.General.DatePreset))

	rows := make([][]string, 0, len(out.Rows))
	for i, st := range out.Rows {
		step := "-"
		if i > 0 && out.Rows[i-1].Count > 0 {
			step = cli.FormatRate(float64(st.Count)/float64(out.Rows[i-1].Count)*100, 1)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d. %s", st.Position, st.Name),
			loc.Int(st.Count),
			cli.FormatRate(shares[i], 1),
			step,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Stage", "Count", "Of impressions", "From previous"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
