package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxbquant/orb/market"
)

func volBar(v float64) market.Bar {
	return market.Bar{Symbol: "AAPL", Open: 100, High: 101, Low: 99, Close: 100, Volume: v}
}

// warmAnalyzer fills both windows with baseline volume.
func warmAnalyzer(t *testing.T, baseline float64) *Analyzer {
	t.Helper()

	a := NewAnalyzer(5, 20, DefaultThresholds())
	for i := 0; i < 20; i++ {
		a.Update(volBar(baseline))
	}
	require.True(t, a.Ready())
	return a
}

func TestAnalyzer_NotReadyZeroRatios(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(5, 20, DefaultThresholds())
	a.Update(volBar(1000))

	assert.False(t, a.Ready())
	p := a.Profile()
	assert.Zero(t, p.Surge)
	assert.Zero(t, p.Trend)
	assert.False(t, a.Strong())
	assert.False(t, a.SurgeOK())
}

func TestAnalyzer_FlatVolumeIsNotAFactor(t *testing.T) {
	t.Parallel()

	a := warmAnalyzer(t, 1000)

	p := a.Profile()
	assert.InDelta(t, 1.0, p.Surge, 1e-9)
	assert.InDelta(t, 1.0, p.Trend, 1e-9)
	assert.False(t, a.Strong())
	assert.False(t, a.SurgeOK())
}

func TestAnalyzer_SurgeOnly(t *testing.T) {
	t.Parallel()

	a := warmAnalyzer(t, 1000)

	// One bar at ~1.7x the long average: surge factor fires, strong
	// volume does not (short trend barely moves).
	a.Update(volBar(1800))

	p := a.Profile()
	assert.GreaterOrEqual(t, p.Surge, 1.5)
	assert.Less(t, p.Trend, 1.2)
	assert.True(t, a.SurgeOK())
	assert.False(t, a.Strong())
}

func TestAnalyzer_StrongVolume(t *testing.T) {
	t.Parallel()

	a := warmAnalyzer(t, 1000)

	// Sustained heavy volume lifts both the surge and the short trend.
	for i := 0; i < 5; i++ {
		a.Update(volBar(3000))
	}

	p := a.Profile()
	assert.GreaterOrEqual(t, p.Surge, 2.0)
	assert.GreaterOrEqual(t, p.Trend, 1.2)
	assert.True(t, a.Strong())
	assert.True(t, a.SurgeOK())
}

func TestAnalyzer_Reset(t *testing.T) {
	t.Parallel()

	a := warmAnalyzer(t, 1000)
	a.Reset()

	assert.False(t, a.Ready())
	assert.False(t, a.SurgeOK())
}
