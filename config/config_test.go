package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxbquant/orb/market"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestSchedulerFromConfig(t *testing.T) {
	t.Parallel()

	sched, err := Default().Sessions.Scheduler()
	require.NoError(t, err)

	dubai, err := time.LoadLocation("Asia/Dubai")
	require.NoError(t, err)

	// 18:45 Dubai: both sessions trading, US still forming its range.
	at := time.Date(2025, 6, 2, 18, 45, 0, 0, dubai)
	assert.True(t, sched.Eligible(market.SessionUK, at))
	assert.True(t, sched.Eligible(market.SessionUS, at))
	assert.True(t, sched.InFormation(market.SessionUS, at))
	assert.False(t, sched.InFormation(market.SessionUK, at))
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orb.yaml")

	want := Default()
	want.Account.Equity = 75000
	want.Risk.MaxDailyTrades = 3
	want.Journal.Type = "csv"
	require.NoError(t, want.SaveToFile(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 75000.0, got.Account.Equity, 1e-9)
	assert.Equal(t, 3, got.Risk.MaxDailyTrades)
	assert.Equal(t, "csv", got.Journal.Type)
	assert.InDelta(t, 1.5, got.Strategy.Regime.HighVolATRRatio, 1e-9)
}

func TestLoadAppliesEnvSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok-from-env")
	t.Setenv("TELEGRAM_CHAT_ID", "4242")

	path := filepath.Join(t.TempDir(), "orb.yaml")
	require.NoError(t, Default().SaveToFile(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, "tok-from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "4242", cfg.Telegram.ChatID)
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errStr string
	}{
		{"zero equity", func(c *Config) { c.Account.Equity = 0 }, "equity"},
		{"risk too high", func(c *Config) { c.Risk.RiskPerTrade = 0.5 }, "risk_per_trade"},
		{"bad window", func(c *Config) { c.Sessions.Trading["UK"] = "noon-ish" }, "sessions.trading.UK"},
		{"inverted bias EMAs", func(c *Config) { c.Strategy.BiasShortEMA = 30 }, "bias EMAs"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "parquet" }, "journal.type"},
		{"full TP fractions", func(c *Config) { c.Strategy.Exits.TP2Fraction = 0.5 }, "final tranche"},
		{"metrics without addr", func(c *Config) { c.Metrics = MetricsConfig{Enabled: true} }, "metrics.addr"},
		{"no snapshot path", func(c *Config) { c.SnapshotPath = "" }, "snapshot_path"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errStr)
		})
	}
}
