package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/adburn/internal/cli"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	t.Setenv(EnvAccessToken, "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Business.TargetCPV != 150 {
		t.Errorf("TargetCPV = %v, want 150", cfg.Business.TargetCPV)
	}
	if cfg.Graph.Timeout.Duration != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Graph.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvAccessToken, "")
	path := filepath.Join(t.TempDir(), "adburn", "config.toml")

	cfg := DefaultConfig()
	cfg.General.Locale = "en-US"
	cfg.Business.TargetCPV = 120
	cfg.Graph.Timeout = Duration{5 * time.Second}
	cfg.Schedule.DailyAt = "06:15"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Business.TargetCPV != 120 || got.Graph.Timeout.Duration != 5*time.Second {
		t.Errorf("round trip lost values: %+v", got)
	}
	if len(got.Business.Scenarios) != 3 {
		t.Errorf("scenarios = %d, want 3", len(got.Business.Scenarios))
	}
	if got.Locale() != cli.EnUS {
		t.Errorf("Locale() = %v, want en-US", got.Locale())
	}
	h, m, err := got.DailyTime()
	if err != nil || h != 6 || m != 15 {
		t.Errorf("DailyTime() = %d, %d, %v", h, m, err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[graph]\naccess_token = \"from-file\"\nad_account_id = \"act_1\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAccessToken, "from-env")
	t.Setenv(EnvAdAccountID, "")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Graph.AccessToken != "from-env" {
		t.Errorf("AccessToken = %q, want from-env", cfg.Graph.AccessToken)
	}
	if cfg.Graph.AdAccountID != "act_1" {
		t.Errorf("AdAccountID = %q, want act_1", cfg.Graph.AdAccountID)
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero target", func(c *Config) { c.Business.TargetCPV = 0 }},
		{"negative ticket", func(c *Config) { c.Business.TicketPrice = -1 }},
		{"zero top n", func(c *Config) { c.Business.WasteTopN = 0 }},
		{"bad daily_at", func(c *Config) { c.Schedule.DailyAt = "25:00" }},
		{"bad pattern", func(c *Config) { c.Business.CohortPattern = "(" }},
		{"no realistic", func(c *Config) {
			for i := range c.Business.Scenarios {
				c.Business.Scenarios[i].Realistic = false
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestBusinessParamsMatchesDefaults(t *testing.T) {
	p := DefaultConfig().BusinessParams()
	if p.UpsellPrice != 28000 || p.WasteTopN != 15 {
		t.Errorf("unexpected params: %+v", p)
	}
	if r := p.ScenarioSet().Realistic(); r.Rate != 0.10 {
		t.Errorf("realistic rate = %v, want 0.10", r.Rate)
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != "/tmp/xdg/adburn" {
		t.Errorf("ConfigDir() = %q", got)
	}
}
