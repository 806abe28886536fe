package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/regime"
)

func longIntent(symbol, sector string) Intent {
	return Intent{
		Symbol:    symbol,
		Sector:    sector,
		Direction: market.Long,
		Condition: regime.Normal,
		Entry:     100,
		Stop:      95,
	}
}

func emptySnapshot(equity float64) Snapshot {
	return Snapshot{
		Equity:      equity,
		Open:        map[string]OpenPosition{},
		SectorCount: map[string]int{},
	}
}

func TestEvaluate_AllowsCleanIntent(t *testing.T) {
	t.Parallel()

	d := Evaluate(DefaultPolicy(), longIntent("AAPL", "Technology"), emptySnapshot(50000))

	require.True(t, d.Allowed)
	assert.Empty(t, d.Violations)
	assert.Greater(t, d.Size.Shares, 0.0)
}

func TestEvaluate_SanityGate(t *testing.T) {
	t.Parallel()

	in := longIntent("AAPL", "Technology")
	in.Stop = 0

	d := Evaluate(DefaultPolicy(), in, emptySnapshot(50000))
	require.False(t, d.Allowed)
	assert.Equal(t, []string{CodeNoStopOrEntry}, d.Reasons())
}

func TestEvaluate_DailyTradeLimit(t *testing.T) {
	t.Parallel()

	snap := emptySnapshot(50000)
	snap.TradesToday = 5

	d := Evaluate(DefaultPolicy(), longIntent("AAPL", "Technology"), snap)
	require.False(t, d.Allowed)
	assert.Contains(t, d.Reasons(), CodeDailyTradeLimit)
}

// Scenario E: daily loss at 3% of equity rejects a fully confirmed
// signal with DAILY_LOSS_LIMIT.
func TestEvaluate_DailyLossLimit(t *testing.T) {
	t.Parallel()

	snap := emptySnapshot(50000)
	snap.DailyPnL = -1500 // exactly 3% of 50k

	d := Evaluate(DefaultPolicy(), longIntent("AAPL", "Technology"), snap)
	require.False(t, d.Allowed)
	assert.Contains(t, d.Reasons(), CodeDailyLossLimit)
}

// Scenario D: two open Energy positions reject a third Energy intent
// with SECTOR_LIMIT.
func TestEvaluate_SectorLimit(t *testing.T) {
	t.Parallel()

	snap := emptySnapshot(50000)
	snap.Open = map[string]OpenPosition{
		"BP.L":   {Symbol: "BP.L", Sector: "Energy", Direction: market.Long},
		"SHEL.L": {Symbol: "SHEL.L", Sector: "Energy", Direction: market.Long},
	}
	snap.SectorCount = map[string]int{"Energy": 2}

	d := Evaluate(DefaultPolicy(), longIntent("HBR.L", "Energy"), snap)
	require.False(t, d.Allowed)
	assert.Contains(t, d.Reasons(), CodeSectorLimit)
}

func TestEvaluate_AlreadyHeld(t *testing.T) {
	t.Parallel()

	snap := emptySnapshot(50000)
	snap.Open = map[string]OpenPosition{
		"AAPL": {Symbol: "AAPL", Sector: "Technology", Direction: market.Long},
	}
	snap.SectorCount = map[string]int{"Technology": 1}

	d := Evaluate(DefaultPolicy(), longIntent("AAPL", "Technology"), snap)
	require.False(t, d.Allowed)
	assert.Contains(t, d.Reasons(), CodeAlreadyHeld)
}

func TestEvaluate_Correlated(t *testing.T) {
	t.Parallel()

	snap := emptySnapshot(50000)
	snap.Open = map[string]OpenPosition{
		"MSFT": {Symbol: "MSFT", Sector: "Technology", Direction: market.Long},
	}
	snap.SectorCount = map[string]int{"Technology": 1}

	in := longIntent("GOOGL", "Technology")
	in.Returns = []float64{0.01, -0.02, 0.015, 0.005, -0.01, 0.02}
	in.OpenReturns = map[string][]float64{
		"MSFT": {0.01, -0.02, 0.015, 0.005, -0.01, 0.02}, // identical: corr 1.0
	}

	d := Evaluate(DefaultPolicy(), in, snap)
	require.False(t, d.Allowed)
	assert.Contains(t, d.Reasons(), CodeCorrelated)
}

func TestEvaluate_UncorrelatedAllowed(t *testing.T) {
	t.Parallel()

	snap := emptySnapshot(50000)
	snap.Open = map[string]OpenPosition{
		"MSFT": {Symbol: "MSFT", Sector: "Technology", Direction: market.Long},
	}
	snap.SectorCount = map[string]int{"Technology": 1}

	in := longIntent("BP.L", "Energy")
	in.Returns = []float64{0.01, -0.02, 0.015, 0.005, -0.01, 0.02}
	in.OpenReturns = map[string][]float64{
		"MSFT": {-0.01, 0.02, -0.015, -0.005, 0.01, -0.02}, // inverted: corr -1.0
	}

	d := Evaluate(DefaultPolicy(), in, snap)
	assert.True(t, d.Allowed)
}

func TestEvaluate_CollectsMultipleViolations(t *testing.T) {
	t.Parallel()

	snap := emptySnapshot(50000)
	snap.TradesToday = 5
	snap.DailyPnL = -2000

	d := Evaluate(DefaultPolicy(), longIntent("AAPL", "Technology"), snap)
	require.False(t, d.Allowed)
	assert.Contains(t, d.Reasons(), CodeDailyTradeLimit)
	assert.Contains(t, d.Reasons(), CodeDailyLossLimit)
}

// Sizing must be idempotent: identical (intent, snapshot) pairs yield
// identical decisions.
func TestEvaluate_Idempotent(t *testing.T) {
	t.Parallel()

	in := longIntent("AAPL", "Technology")
	snap := emptySnapshot(50000)

	first := Evaluate(DefaultPolicy(), in, snap)
	second := Evaluate(DefaultPolicy(), in, snap)

	assert.Equal(t, first, second)
}
