// Package config loads and saves the adburn configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/adburn/internal/business"
	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/model"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Environment variables overriding the Graph credentials.
const (
	EnvAppID       = "FACEBOOK_APP_ID"
	EnvAppSecret   = "FACEBOOK_APP_SECRET"
	EnvAccessToken = "FACEBOOK_ACCESS_TOKEN"
	EnvAdAccountID = "FACEBOOK_AD_ACCOUNT_ID"
)

// Config holds all adburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Graph      GraphConfig      `toml:"graph"`
	Business   BusinessConfig   `toml:"business"`
	Schedule   ScheduleConfig   `toml:"schedule"`
	Log        LogConfig        `toml:"log"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	OutputDir  string `toml:"output_dir"`
	DatePreset string `toml:"date_preset"`
	UseSample  bool   `toml:"use_sample"`
	Locale     string `toml:"locale"`
}

// GraphConfig holds the ads platform API settings.
type GraphConfig struct {
	APIVersion  string   `toml:"api_version"`
	AdAccountID string   `toml:"ad_account_id,omitempty"`
	AccessToken string   `toml:"access_token,omitempty"`
	AppID       string   `toml:"app_id,omitempty"`
	AppSecret   string   `toml:"app_secret,omitempty"`
	Timeout     Duration `toml:"timeout"`
}

// BusinessConfig holds the executive report constants.
type BusinessConfig struct {
	TargetCPV     float64          `toml:"target_cpv"`
	TicketPrice   float64          `toml:"ticket_price"`
	UpsellPrice   float64          `toml:"upsell_price"`
	WasteTopN     int              `toml:"waste_top_n"`
	MinRealSpend  float64          `toml:"min_real_spend"`
	CohortPattern string           `toml:"cohort_pattern"`
	Estimates     EstimatesConfig  `toml:"estimates"`
	Scenarios     []ScenarioConfig `toml:"scenarios"`
}

// EstimatesConfig holds the purchase multipliers for upper funnel stages.
type EstimatesConfig struct {
	LeadsPerPurchase     float64 `toml:"leads_per_purchase"`
	PageViewsPerPurchase float64 `toml:"page_views_per_purchase"`
	CheckoutsPerPurchase float64 `toml:"checkouts_per_purchase"`
}

// ScenarioConfig is one upsell conversion scenario.
type ScenarioConfig struct {
	Name      string  `toml:"name"`
	Rate      float64 `toml:"rate"`
	Realistic bool    `toml:"realistic,omitempty"`
}

// ScheduleConfig holds daemon settings.
type ScheduleConfig struct {
	DailyAt string `toml:"daily_at"`
	Addr    string `toml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file,omitempty"`
}

// AppearanceConfig holds TUI preferences.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// Duration is a time.Duration encoded as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	p := business.DefaultParams()
	scenarios := make([]ScenarioConfig, len(p.Scenarios))
	for i, s := range p.Scenarios {
		scenarios[i] = ScenarioConfig{Name: s.Name, Rate: s.Rate, Realistic: s.Realistic}
	}
	return Config{
		General: GeneralConfig{
			OutputDir:  "reports",
			DatePreset: "last_30d",
			Locale:     cli.PtBR.Name,
		},
		Graph: GraphConfig{
			APIVersion: "v19.0",
			Timeout:    Duration{30 * time.Second},
		},
		Business: BusinessConfig{
			TargetCPV:     p.TargetCPV,
			TicketPrice:   p.TicketPrice,
			UpsellPrice:   p.UpsellPrice,
			WasteTopN:     p.WasteTopN,
			MinRealSpend:  p.MinRealSpend,
			CohortPattern: p.CohortPattern,
			Estimates: EstimatesConfig{
				LeadsPerPurchase:     p.Estimates.LeadsPerPurchase,
				PageViewsPerPurchase: p.Estimates.PageViewsPerPurchase,
				CheckoutsPerPurchase: p.Estimates.CheckoutsPerPurchase,
			},
			Scenarios: scenarios,
		},
		Schedule: ScheduleConfig{
			DailyAt: "08:00",
			Addr:    "127.0.0.1:8787",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "adburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "adburn")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Variables from a .env file in the working directory are loaded first and
// credentials in the environment override the file.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	_ = godotenv.Load()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	for env, dst := range map[string]*string{
		EnvAppID:       &cfg.Graph.AppID,
		EnvAppSecret:   &cfg.Graph.AppSecret,
		EnvAccessToken: &cfg.Graph.AccessToken,
		EnvAdAccountID: &cfg.Graph.AdAccountID,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // config dir is user-owned
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

var dailyAtPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Validate checks values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	b := c.Business
	switch {
	case b.TargetCPV <= 0:
		return fmt.Errorf("%w: business.target_cpv must be positive", ErrInvalid)
	case b.TicketPrice <= 0:
		return fmt.Errorf("%w: business.ticket_price must be positive", ErrInvalid)
	case b.UpsellPrice <= 0:
		return fmt.Errorf("%w: business.upsell_price must be positive", ErrInvalid)
	case b.WasteTopN < 1:
		return fmt.Errorf("%w: business.waste_top_n must be at least 1", ErrInvalid)
	case !dailyAtPattern.MatchString(c.Schedule.DailyAt):
		return fmt.Errorf("%w: schedule.daily_at %q is not HH:MM", ErrInvalid, c.Schedule.DailyAt)
	}
	if _, err := regexp.Compile(b.CohortPattern); err != nil {
		return fmt.Errorf("%w: business.cohort_pattern: %v", ErrInvalid, err)
	}
	if err := c.BusinessParams().ScenarioSet().Validate(); err != nil {
		return fmt.Errorf("%w: business.scenarios: %v", ErrInvalid, err)
	}
	return nil
}

// BusinessParams converts the business section for the executive report.
func (c Config) BusinessParams() business.Params {
	b := c.Business
	scenarios := make([]model.Scenario, len(b.Scenarios))
	for i, s := range b.Scenarios {
		scenarios[i] = model.Scenario{Name: s.Name, Rate: s.Rate, Realistic: s.Realistic}
	}
	return business.Params{
		TargetCPV:     b.TargetCPV,
		TicketPrice:   b.TicketPrice,
		UpsellPrice:   b.UpsellPrice,
		WasteTopN:     b.WasteTopN,
		MinRealSpend:  b.MinRealSpend,
		CohortPattern: b.CohortPattern,
		Estimates: business.Estimates{
			LeadsPerPurchase:     b.Estimates.LeadsPerPurchase,
			PageViewsPerPurchase: b.Estimates.PageViewsPerPurchase,
			CheckoutsPerPurchase: b.Estimates.CheckoutsPerPurchase,
		},
		Scenarios: scenarios,
		Locale:    c.Locale(),
	}
}

// Locale returns the configured number formatting locale.
func (c Config) Locale() cli.Locale {
	return cli.LocaleByName(c.General.Locale)
}

// DailyTime parses schedule.daily_at into hour and minute.
func (c Config) DailyTime() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.Schedule.DailyAt)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: schedule.daily_at: %v", ErrInvalid, err)
	}
	return t.Hour(), t.Minute(), nil
}

// DataDir returns the directory holding the run history database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "adburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "adburn")
}
