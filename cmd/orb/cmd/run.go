package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dxbquant/orb/broker"
	"github.com/dxbquant/orb/config"
	"github.com/dxbquant/orb/engine"
	"github.com/dxbquant/orb/journal"
	"github.com/dxbquant/orb/metrics"
	"github.com/dxbquant/orb/notify"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the engine over a bar feed",
	Long: `Run the breakout engine, driving it with closed 5-minute bars from a
CSV feed (symbol,time,open,high,low,close,volume with RFC 3339 times).

Orders execute against the built-in paper broker. Telegram
notifications are enabled when TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID
are set in the environment or .env.

Example:
  orb run --config orb.yaml --bars bars/2025-06-02.csv`,
	RunE: runRun,
}

var (
	runConfigPath string
	runBarsPath   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVarP(&runBarsPath, "bars", "b", "", "path to CSV bar feed (required)")
	runCmd.MarkFlagRequired("config")
	runCmd.MarkFlagRequired("bars")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	var ntf notify.Notifier = notify.NewLog(log)
	if cfg.Telegram.Enabled() {
		ntf = notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		log.Info().Msg("telegram notifications enabled")
	}

	if cfg.Metrics.Enabled {
		srv := metrics.Serve(cfg.Metrics.Addr)
		defer srv.Close()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint started")
	}

	brk := broker.NewPaper(broker.Account{
		ID:       cfg.Account.ID,
		Currency: cfg.Account.Currency,
		Equity:   cfg.Account.Equity,
	})

	eng, err := engine.New(cfg, brk, jnl, ntf, log)
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	feed, err := engine.OpenCSV(runBarsPath)
	if err != nil {
		return fmt.Errorf("open bar feed: %w", err)
	}
	defer feed.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("config", runConfigPath).Str("bars", runBarsPath).
		Float64("equity", cfg.Account.Equity).Msg("engine running")

	if err := eng.Run(ctx, feed); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := eng.Stop(context.Background()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	snap := eng.Portfolio().Snapshot()
	fmt.Printf("\nFinal Results:\n")
	fmt.Printf("  Equity: $%.2f\n", snap.Equity)
	fmt.Printf("  Day P/L: $%.2f over %d trades\n", snap.DailyPnL, snap.TradesToday)
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.NewMemory(), nil
	}
}
