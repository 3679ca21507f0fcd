package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/adburn/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}

	fmt.Printf("  Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problem: %v\n", err)
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Output directory: %s\n", absPath(cfg.General.OutputDir))
	fmt.Printf("    Date preset:      %s\n", cfg.General.DatePreset)
	fmt.Printf("    Sample data:      %v\n", cfg.General.UseSample)
	fmt.Printf("    Locale:           %s\n", cfg.Locale().Name)
	fmt.Println()

	fmt.Println("  [Graph]")
	fmt.Printf("    API version:  %s\n", cfg.Graph.APIVersion)
	if cfg.Graph.AccessToken != "" {
		fmt.Printf("    Access token: %s\n", maskAPIKey(cfg.Graph.AccessToken))
	} else {
		fmt.Printf("    Access token: not configured (%s)\n", config.EnvAccessToken)
	}
	if cfg.Graph.AdAccountID != "" {
		fmt.Printf("    Ad account:   %s\n", cfg.Graph.AdAccountID)
	} else {
		fmt.Printf("    Ad account:   not configured (%s)\n", config.EnvAdAccountID)
	}
	if cfg.Graph.AppSecret != "" {
		fmt.Println("    App secret:   set (appsecret_proof enabled)")
	}
	fmt.Printf("    Timeout:      %s\n", cfg.Graph.Timeout.Duration)
	fmt.Println()

	loc := cfg.Locale()
	b := cfg.Business
	fmt.Println("  [Business]")
	fmt.Printf("    Target CPV:     %s\n", loc.Money(b.TargetCPV))
	fmt.Printf("    Ticket price:   %s\n", loc.Money(b.TicketPrice))
	fmt.Printf("    Upsell price:   %s\n", loc.Money(b.UpsellPrice))
	fmt.Printf("    Waste top N:    %d\n", b.WasteTopN)
	fmt.Printf("    Cohort pattern: %s\n", b.CohortPattern)
	for _, s := range b.Scenarios {
		mark := ""
		if s.Realistic {
			mark = " (realistic)"
		}
		fmt.Printf("    Scenario:       %s %.0f%%%s\n", s.Name, s.Rate*100, mark)
	}
	fmt.Println()

	fmt.Println("  [Schedule]")
	fmt.Printf("    Daily at: %s\n", cfg.Schedule.DailyAt)
	fmt.Printf("    Address:  %s\n", cfg.Schedule.Addr)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Printf("    File:   %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `adburn setup` to reconfigure.")
	return nil
}
