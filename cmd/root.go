// Package cmd implements the adburn CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/adburn/internal/config"
	"github.com/theirongolddev/adburn/internal/graph"
	"github.com/theirongolddev/adburn/internal/logging"
	"github.com/theirongolddev/adburn/internal/report"
	"github.com/theirongolddev/adburn/internal/source"
	"github.com/theirongolddev/adburn/internal/store"
)

var (
	flagOutput string
	flagPreset string
	flagSample bool
	flagQuiet  bool
	flagXLSX   bool
	flagConfig string
)

var (
	appCfg config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "adburn",
	Short: "Ads insights reports",
	Long: "Extract ads platform insights into CSV tables and render the marketing\n" +
		"and executive dashboards.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRun,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output directory (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagPreset, "preset", "p", "", "Insights date preset, e.g. last_7d (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagSample, "sample", false, "Use sample data instead of exported files")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress terminal summaries")
	rootCmd.PersistentFlags().BoolVar(&flagXLSX, "xlsx", false, "Also write report.xlsx")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.ConfigPath()+")")
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	if flagOutput != "" {
		cfg.General.OutputDir = flagOutput
	}
	if flagPreset != "" {
		cfg.General.DatePreset = flagPreset
	}
	if flagSample {
		cfg.General.UseSample = true
	}

	// config and setup must work on a broken file so it can be fixed.
	switch cmd.Name() {
	case "config", "setup":
	default:
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	appCfg = cfg

	l, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger = l
	return nil
}

// newFetcher builds the insights client, or nil when credentials are missing.
func newFetcher() *graph.Client {
	g := appCfg.Graph
	c, err := graph.NewClient(graph.Options{
		APIVersion:  g.APIVersion,
		AdAccountID: g.AdAccountID,
		AccessToken: g.AccessToken,
		AppSecret:   g.AppSecret,
		DatePreset:  appCfg.General.DatePreset,
		Timeout:     g.Timeout.Duration,
		Logger:      logger.Named("graph"),
	})
	if err != nil {
		return nil
	}
	return c
}

// newService wires the report service from the loaded config.
func newService() *report.Service {
	opts := report.Options{
		OutputDir: appCfg.General.OutputDir,
		UseSample: appCfg.General.UseSample,
		XLSX:      flagXLSX,
		Params:    appCfg.BusinessParams(),
	}
	// A typed nil *graph.Client must not reach the interface.
	var fetcher source.Fetcher
	if c := newFetcher(); c != nil {
		fetcher = c
	}
	return report.New(fetcher, opts, logger)
}

// explain adds a hint to errors the user can fix.
func explain(err error) error {
	switch {
	case errors.Is(err, report.ErrNoFetcher):
		return fmt.Errorf("%w\n  Set %s and %s (or run `adburn setup`), or use --sample",
			err, config.EnvAccessToken, config.EnvAdAccountID)
	case errors.Is(err, graph.ErrUnauthorized):
		return fmt.Errorf("%w\n  Refresh the access token with `adburn setup`", err)
	default:
		return err
	}
}

func openHistory() (*store.History, error) {
	return store.Open(store.DefaultPath(config.DataDir()))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
