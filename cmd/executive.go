package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
)

var executiveCmd = &cobra.Command{
	Use:   "executive",
	Short: "Render the executive report with cohorts and upsell scenarios",
	RunE:  runExecutive,
}

func init() {
	rootCmd.AddCommand(executiveCmd)
}

func runExecutive(_ *cobra.Command, _ []string) error {
	res, err := newService().Executive()
	if err != nil {
		return err
	}
	e := res.Report

	if !flagQuiet {
		loc := appCfg.Locale()
		printTitle("EXECUTIVE REPORT")
		fmt.Print(cli.RenderKPIs(e.KPIs.Items))
		fmt.Println()

		rows := make([][]string, 0, len(e.Cohorts))
		for _, c := range e.Cohorts {
			rows = append(rows, []string{
				c.Name,
				loc.Money(c.Spend),
				loc.Int(c.Leads),
				loc.Int(c.Purchases),
				loc.Money(business.CohortCPV(c)),
				cli.FormatRatio(business.CohortROAS(c)),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Cohorts",
			Headers: []string{"Cohort", "Spend", "Leads", "Purchases", "CPV", "ROAS"},
			Rows:    rows,
		}))
		fmt.Println()

		cardRows := make([][]string, 0, len(e.Cards))
		for _, c := range e.Cards {
			name := fmt.Sprintf("%s (%s)", c.Scenario.Name, business.ScenarioLabel(c.Scenario))
			if c.Scenario.Realistic {
				name += " *"
			}
			cardRows = append(cardRows, []string{name, loc.Money(c.Revenue), cli.FormatRatio(c.ROAS)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Upsell scenarios (* realistic)",
			Headers: []string{"Scenario", "Projected revenue", "ROAS"},
			Rows:    cardRows,
		}))
		fmt.Println()

		if len(e.Waste.Top) > 0 {
			fmt.Printf("  Waste: %s across %d campaigns without conversions",
				loc.Money(e.Waste.Total), e.Waste.Count)
			if e.Waste.Truncated() {
				fmt.Printf(" (top %d listed)", len(e.Waste.Top))
			}
			fmt.Print("\n\n")
		}

		fmt.Print(cli.RenderInsights(e.Insights))
		fmt.Println()
		for _, part := range []struct {
			name   string
			sample bool
		}{
			{"cohorts", e.CohortsSample},
			{"campaign types", e.TypesSample},
			{"waste", e.WasteSample},
			{"audiences", e.AudiencesSample},
		} {
			if part.sample {
				fmt.Println(cli.RenderNote("sample data: " + part.name))
			}
		}
		fmt.Println()
	}

	for _, p := range res.Paths {
		fmt.Printf("  Wrote %s\n", p)
	}
	return nil
}
