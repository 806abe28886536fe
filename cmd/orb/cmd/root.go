package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orb",
	Short: "Opening range breakout engine for UK/US equity sessions",
	Long: `orb is an intraday opening range breakout decision engine.

It classifies the market regime per instrument, tracks each session's
opening range, confirms breakouts against volume and multi-timeframe
bias, sizes positions under portfolio risk limits, and manages staged
take-profit exits with an ATR trailing stop. All session windows are
expressed in the operator timezone (Asia/Dubai by default).`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the process logger: human-readable console output,
// debug level behind --verbose.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
