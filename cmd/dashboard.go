package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/source"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render dashboard.html from the exported tables",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	d, path, err := newService().Dashboard()
	if err != nil {
		return err
	}

	if !flagQuiet {
		printTitle("MARKETING DASHBOARD")
		fmt.Print(cli.RenderKPIs(d.KPIs.Items))
		fmt.Println()
		loc := appCfg.Locale()
		fmt.Printf("  Peak hour %02d:00 with %s clicks. Mean daily CPV %s.\n",
			d.PeakHour.Hour, loc.Int(d.PeakHour.Clicks), loc.Decimals(d.MeanDailyCPV, 4))
		for _, name := range sortedSample(d.Sample) {
			fmt.Println(cli.RenderNote("sample data: " + name))
		}
		fmt.Println()
	}
	fmt.Printf("  Wrote %s\n", path)
	return nil
}

func sortedSample(flags map[string]bool) []string {
	var names []string
	for _, n := range []string{
		source.FileCampaigns, source.FileDailyCPV, source.FilePlacements,
		source.FileDemographics, source.FileHourly, source.FileFunnel,
	} {
		if flags[n] {
			names = append(names, n)
		}
	}
	return names
}
