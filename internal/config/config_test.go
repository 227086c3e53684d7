package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"RISKLAB_PROVIDER", "RISKLAB_BASE_URL", "RISKLAB_API_KEY", "CRON_DAILY", "SQLITE_PATH", "RISKLAB_CONCURRENCY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != "yahoo" {
		t.Errorf("expected yahoo provider by default, got %q", cfg.DataSource.Provider)
	}
	if cfg.Analysis.EWMALambda != 0.94 || cfg.Analysis.AnnualizationDays != 252 {
		t.Errorf("unexpected analysis defaults %+v", cfg.Analysis)
	}
	if cfg.Analysis.RegimeLowPct != 25 || cfg.Analysis.RegimeHighPct != 75 {
		t.Errorf("unexpected regime defaults %+v", cfg.Analysis)
	}
	if cfg.Volatility.Window != 20 || cfg.Portfolio.Confidence != 95 {
		t.Errorf("unexpected request defaults: window=%d confidence=%d", cfg.Volatility.Window, cfg.Portfolio.Confidence)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
data_source:
  provider: rest
  base_url: http://bars.local
  concurrency: 8
analysis:
  ewma_lambda: 0.97
portfolio:
  tickers: [AAPL, MSFT]
  weights: [0.5, 0.5]
  value: 250000
  horizon: 10
  confidence: 99
volatility:
  tickers: [SPY]
  window: 30
  model: ewma
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RISKLAB_API_KEY", "k-123")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != "rest" || cfg.DataSource.BaseURL != "http://bars.local" || cfg.DataSource.Concurrency != 8 {
		t.Errorf("unexpected data source %+v", cfg.DataSource)
	}
	if cfg.DataSource.APIKey != "k-123" || cfg.Database.SQLitePath != "/tmp/x.db" {
		t.Errorf("environment overrides not applied: key=%q db=%q", cfg.DataSource.APIKey, cfg.Database.SQLitePath)
	}
	if cfg.Analysis.EWMALambda != 0.97 {
		t.Errorf("expected lambda 0.97, got %v", cfg.Analysis.EWMALambda)
	}
	if cfg.Portfolio.Lookback != 252 || cfg.Portfolio.Horizon != 10 || cfg.Portfolio.Confidence != 99 {
		t.Errorf("unexpected portfolio %+v", cfg.Portfolio)
	}
	if cfg.Volatility.Model != "ewma" || cfg.Volatility.Window != 30 {
		t.Errorf("unexpected volatility %+v", cfg.Volatility)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data_source: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest"; c.DataSource.BaseURL = "" }},
		{"lambda one", func(c *Config) { c.Analysis.EWMALambda = 1 }},
		{"inverted regimes", func(c *Config) { c.Analysis.RegimeLowPct = 80 }},
		{"telegram token only", func(c *Config) { c.Telegram.BotToken = "t" }},
	}
	for _, tt := range tests {
		cfg := base()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestTelegramFromEnv(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled without credentials")
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100")
	cfg, err = Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.TelegramEnabled() {
		t.Error("telegram should be enabled from environment")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidate_IgnoresPortfolioShape(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	// checked where the portfolio is used, not for every command
	cfg.Portfolio.Tickers = []string{"A", "B"}
	cfg.Portfolio.Weights = []float64{1}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
