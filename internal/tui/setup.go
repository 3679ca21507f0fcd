package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/config"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

// SetupValues holds the answers of the setup form.
type SetupValues struct {
	AccessToken string
	AdAccountID string
	DatePreset  string
	Locale      string
	Theme       string
}

// Presets offered by the setup form.
var Presets = []huh.Option[string]{
	huh.NewOption("Last 7 days", "last_7d"),
	huh.NewOption("Last 14 days", "last_14d"),
	huh.NewOption("Last 30 days", "last_30d"),
	huh.NewOption("Last 90 days", "last_90d"),
	huh.NewOption("This month", "this_month"),
	huh.NewOption("Last month", "last_month"),
	huh.NewOption("Maximum", "maximum"),
}

// SetupValuesFrom prefills the form from cfg. Secrets are left blank so an
// empty answer keeps the current value.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		AdAccountID: cfg.Graph.AdAccountID,
		DatePreset:  cfg.General.DatePreset,
		Locale:      cfg.General.Locale,
		Theme:       cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the setup form bound to v. hasToken tells whether a
// token is already configured so the field may be left blank.
func NewSetupForm(v *SetupValues, hasToken bool) *huh.Form {
	tokenDesc := "Graph API token with ads_read permission."
	if hasToken {
		tokenDesc += " Leave blank to keep the current one."
	}

	themes := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themes[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Access token").
				Description(tokenDesc).
				EchoMode(huh.EchoModePassword).
				Value(&v.AccessToken).
				Validate(func(s string) error {
					if !hasToken && strings.TrimSpace(s) == "" {
						return errors.New("a token is required (or use --sample)")
					}
					return nil
				}),
			huh.NewInput().
				Title("Ad account ID").
				Description("Numeric ID, with or without the act_ prefix.").
				Value(&v.AdAccountID).
				Validate(func(s string) error {
					s = strings.TrimPrefix(strings.TrimSpace(s), "act_")
					if s == "" || strings.Trim(s, "0123456789") != "" {
						return errors.New("account ID must be numeric")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default date range").
				Options(Presets...).
				Value(&v.DatePreset),
			huh.NewSelect[string]().
				Title("Number format").
				Options(
					huh.NewOption("Brazilian (R$ 1.234,56)", cli.PtBR.Name),
					huh.NewOption("US ($1,234.56)", cli.EnUS.Name),
				).
				Value(&v.Locale),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	)
}

// ApplySetup writes the answers into cfg.
func ApplySetup(cfg *config.Config, v SetupValues) {
	if tok := strings.TrimSpace(v.AccessToken); tok != "" {
		cfg.Graph.AccessToken = tok
	}
	if id := strings.TrimSpace(v.AdAccountID); id != "" {
		cfg.Graph.AdAccountID = id
	}
	if v.DatePreset != "" {
		cfg.General.DatePreset = v.DatePreset
	}
	if v.Locale != "" {
		cfg.General.Locale = v.Locale
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
}

// saveSetupConfig stores the form answers and applies the theme.
func (a *App) saveSetupConfig() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	ApplySetup(&cfg, a.setupVals)
	theme.SetActive(cfg.Appearance.Theme)
	a.preset = cfg.General.DatePreset
	return config.Save(cfg)
}
