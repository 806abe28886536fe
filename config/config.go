// Package config loads and validates engine configuration from YAML or
// JSON, with secrets overlaid from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dxbquant/orb/lifecycle"
	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/regime"
	"github.com/dxbquant/orb/risk"
	"github.com/dxbquant/orb/session"
	"github.com/dxbquant/orb/volume"
)

// Config is the complete engine configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Risk     risk.Policy    `json:"risk" yaml:"risk"`
	Sessions SessionConfig  `json:"sessions" yaml:"sessions"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`

	// SnapshotPath is where portfolio state is persisted for crash
	// recovery.
	SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Equity   float64 `json:"equity" yaml:"equity"`
}

// SessionConfig holds the clock: timezone plus trading and formation
// windows per session, as "HH:MM-HH:MM" local-time strings.
type SessionConfig struct {
	Timezone  string            `json:"timezone" yaml:"timezone"`
	Trading   map[string]string `json:"trading" yaml:"trading"`
	Formation map[string]string `json:"formation" yaml:"formation"`
}

// Scheduler builds the session scheduler from the configured windows.
func (s SessionConfig) Scheduler() (*session.Scheduler, error) {
	trading := make(map[market.Session]session.Window, len(s.Trading))
	formation := make(map[market.Session]session.Window, len(s.Formation))

	for name, spec := range s.Trading {
		w, err := session.ParseWindow(spec)
		if err != nil {
			return nil, fmt.Errorf("sessions.trading.%s: %w", name, err)
		}
		trading[market.Session(name)] = w
	}
	for name, spec := range s.Formation {
		w, err := session.ParseWindow(spec)
		if err != nil {
			return nil, fmt.Errorf("sessions.formation.%s: %w", name, err)
		}
		formation[market.Session(name)] = w
	}
	return session.New(s.Timezone, trading, formation)
}

// StrategyConfig contains the signal-generation parameters.
type StrategyConfig struct {
	OpeningRangeBars int `json:"opening_range_bars" yaml:"opening_range_bars"`

	BiasShortEMA  int `json:"bias_short_ema" yaml:"bias_short_ema"`
	BiasMediumEMA int `json:"bias_medium_ema" yaml:"bias_medium_ema"`

	VolumeShortPeriod int `json:"volume_short_period" yaml:"volume_short_period"`
	VolumeLongPeriod  int `json:"volume_long_period" yaml:"volume_long_period"`

	Regime regime.Thresholds `json:"regime" yaml:"regime"`
	Volume volume.Thresholds `json:"volume" yaml:"volume"`
	Exits  lifecycle.Config  `json:"exits" yaml:"exits"`
}

// JournalConfig selects the performance journal backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "memory"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// TelegramConfig carries bot credentials. Both fields are normally left
// empty in the file and injected from the environment.
type TelegramConfig struct {
	BotToken string `json:"bot_token,omitempty" yaml:"bot_token,omitempty"`
	ChatID   string `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// Load reads configuration from a file, overlays environment secrets,
// and validates the result. A .env file next to the process is honored
// if present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays secrets from the environment. Missing .env is fine.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
}

// SaveToFile writes the configuration, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Equity <= 0 {
		return fmt.Errorf("account.equity must be positive")
	}
	if c.Risk.RiskPerTrade <= 0 || c.Risk.RiskPerTrade > 0.1 {
		return fmt.Errorf("risk.risk_per_trade must be in (0, 0.1]")
	}
	if c.Risk.MaxDailyTrades <= 0 {
		return fmt.Errorf("risk.max_daily_trades must be positive")
	}
	if c.Risk.MaxDailyLossPct <= 0 || c.Risk.MaxDailyLossPct >= 1 {
		return fmt.Errorf("risk.max_daily_loss_pct must be in (0, 1)")
	}
	if c.Risk.CorrelationThreshold <= 0 || c.Risk.CorrelationThreshold > 1 {
		return fmt.Errorf("risk.correlation_threshold must be in (0, 1]")
	}
	if _, err := c.Sessions.Scheduler(); err != nil {
		return err
	}
	if c.Strategy.OpeningRangeBars <= 0 {
		return fmt.Errorf("strategy.opening_range_bars must be positive")
	}
	if c.Strategy.BiasShortEMA <= 0 || c.Strategy.BiasMediumEMA <= c.Strategy.BiasShortEMA {
		return fmt.Errorf("strategy bias EMAs must satisfy 0 < short < medium")
	}
	if c.Strategy.VolumeShortPeriod <= 0 || c.Strategy.VolumeLongPeriod <= c.Strategy.VolumeShortPeriod {
		return fmt.Errorf("strategy volume periods must satisfy 0 < short < long")
	}
	if f := c.Strategy.Exits.TP1Fraction + c.Strategy.Exits.TP2Fraction; f <= 0 || f >= 1 {
		return fmt.Errorf("strategy.exits TP fractions must leave a final tranche")
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" {
			return fmt.Errorf("journal.trades_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "memory":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'memory'")
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr required when metrics.enabled")
	}
	if c.SnapshotPath == "" {
		return fmt.Errorf("snapshot_path is required")
	}
	return nil
}

// Default returns the standard UK/US session configuration.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "PAPER-001",
			Currency: "USD",
			Equity:   50000,
		},
		Risk: risk.DefaultPolicy(),
		Sessions: SessionConfig{
			Timezone: "Asia/Dubai",
			Trading: map[string]string{
				"UK": "12:00-20:30",
				"US": "18:30-01:00",
			},
			Formation: map[string]string{
				"UK": "12:00-12:30",
				"US": "18:30-19:00",
			},
		},
		Strategy: StrategyConfig{
			OpeningRangeBars:  6,
			BiasShortEMA:      9,
			BiasMediumEMA:     21,
			VolumeShortPeriod: 5,
			VolumeLongPeriod:  20,
			Regime:            regime.DefaultThresholds(),
			Volume:            volume.DefaultThresholds(),
			Exits:             lifecycle.DefaultConfig(),
		},
		Journal: JournalConfig{
			Type:       "sqlite",
			TradesFile: "./trades.csv",
			DBPath:     "./trades.db",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9109",
		},
		SnapshotPath: "./portfolio.json",
	}
}
