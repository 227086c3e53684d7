package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider    string `yaml:"provider"` // yahoo, rest or mock
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"data_source"`
	Analysis struct {
		EWMALambda        float64 `yaml:"ewma_lambda"`
		AnnualizationDays float64 `yaml:"annualization_days"`
		RegimeLowPct      float64 `yaml:"regime_low_pct"`
		RegimeHighPct     float64 `yaml:"regime_high_pct"`
	} `yaml:"analysis"`
	Portfolio struct {
		Tickers    []string  `yaml:"tickers"`
		Weights    []float64 `yaml:"weights"`
		Value      float64   `yaml:"value"`
		Lookback   int       `yaml:"lookback"`
		Horizon    int       `yaml:"horizon"`
		Confidence int       `yaml:"confidence"`
	} `yaml:"portfolio"`
	Volatility struct {
		Tickers  []string `yaml:"tickers"`
		Lookback int      `yaml:"lookback"`
		Window   int      `yaml:"window"`
		Model    string   `yaml:"model"`
	} `yaml:"volatility"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("RISKLAB_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("RISKLAB_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("RISKLAB_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("RISKLAB_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.Concurrency = n
		}
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Provider = "rest"
		} else {
			cfg.DataSource.Provider = "yahoo"
		}
	}
	if cfg.DataSource.Concurrency == 0 {
		cfg.DataSource.Concurrency = 4
	}
	if cfg.Analysis.EWMALambda == 0 {
		cfg.Analysis.EWMALambda = 0.94
	}
	if cfg.Analysis.AnnualizationDays == 0 {
		cfg.Analysis.AnnualizationDays = 252
	}
	if cfg.Analysis.RegimeLowPct == 0 && cfg.Analysis.RegimeHighPct == 0 {
		cfg.Analysis.RegimeLowPct = 25
		cfg.Analysis.RegimeHighPct = 75
	}
	if cfg.Portfolio.Value == 0 {
		cfg.Portfolio.Value = 100000
	}
	if cfg.Portfolio.Lookback == 0 {
		cfg.Portfolio.Lookback = 252
	}
	if cfg.Portfolio.Horizon == 0 {
		cfg.Portfolio.Horizon = 1
	}
	if cfg.Portfolio.Confidence == 0 {
		cfg.Portfolio.Confidence = 95
	}
	if cfg.Volatility.Lookback == 0 {
		cfg.Volatility.Lookback = 252
	}
	if cfg.Volatility.Window == 0 {
		cfg.Volatility.Window = 20
	}
	if cfg.Volatility.Model == "" {
		cfg.Volatility.Model = "realized"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/risklab.db"
	}

	return cfg, nil
}

// TelegramEnabled reports whether scheduled reports should also go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks the configuration for values no calculation could use.
// Request-level rules (weights, lookback vs window) are checked per request.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, mock", c.DataSource.Provider)
	}
	if c.DataSource.Concurrency < 0 {
		return fmt.Errorf("data_source.concurrency must not be negative")
	}
	if c.Analysis.EWMALambda <= 0 || c.Analysis.EWMALambda >= 1 {
		return fmt.Errorf("analysis.ewma_lambda must be in (0,1)")
	}
	if c.Analysis.AnnualizationDays <= 0 {
		return fmt.Errorf("analysis.annualization_days must be positive")
	}
	if c.Analysis.RegimeLowPct < 0 || c.Analysis.RegimeHighPct > 100 || c.Analysis.RegimeLowPct >= c.Analysis.RegimeHighPct {
		return fmt.Errorf("analysis regime percentiles must satisfy 0 <= low < high <= 100")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
