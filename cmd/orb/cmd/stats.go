package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dxbquant/orb/journal"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize journaled trade performance",
	Long: `Read the SQLite trade journal and print aggregate performance:
win rate, average realized R:R, total P/L, and trade counts broken down
by market condition and session.

Example:
  orb stats --db trades.db`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsDBPath string

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsDBPath, "db", "d", "./trades.db", "path to SQLite journal DB")
}

func runStats(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(statsDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	s, err := j.Stats()
	if err != nil {
		return fmt.Errorf("aggregate stats: %w", err)
	}

	fmt.Printf("Trades: %d\n", s.Trades)
	if s.Trades == 0 {
		return nil
	}
	fmt.Printf("Wins: %d (%.1f%%)\n", s.Wins, s.WinRate)
	fmt.Printf("Avg realized R:R: %.2f\n", s.AvgRR)
	fmt.Printf("Total P/L: $%.2f\n", s.TotalPnL)

	fmt.Println("\nBy condition:")
	printCounts(s.ByCondition)
	fmt.Println("\nBy session:")
	printCounts(s.BySession)
	return nil
}

func printCounts(m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-16s %d\n", k, m[k])
	}
}
