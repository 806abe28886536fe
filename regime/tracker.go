package regime

import (
	"math"

	"github.com/dxbquant/orb/indicators"
	"github.com/dxbquant/orb/market"
)

// minWindow is the minimum number of bars before a classification is
// considered meaningful.
const minWindow = 20

// State is a point-in-time classification for one instrument.
type State struct {
	Condition     Condition
	ATR           float64
	ATRRatio      float64
	TrendStrength float64
}

// Tracker is the streaming per-instrument classifier. It owns its own
// indicator state and requires no synchronization: one tracker per
// instrument, updated from the sequential bar pipeline.
type Tracker struct {
	thresholds Thresholds

	atr  *indicators.ATR
	ema  *indicators.EMA
	seen int

	lastClose float64
}

// NewTracker creates a streaming classifier with the given thresholds,
// ATR(14) volatility and EMA(20) trend baseline.
func NewTracker(t Thresholds) *Tracker {
	return &Tracker{
		thresholds: t,
		atr:        indicators.NewATR(14),
		ema:        indicators.NewEMA(20),
	}
}

// Update consumes the next closed bar.
func (t *Tracker) Update(b market.Bar) {
	t.atr.Update(b)
	t.ema.Update(b)
	t.lastClose = b.Close
	t.seen++
}

// Ready reports whether enough bars have been seen to classify.
func (t *Tracker) Ready() bool {
	return t.seen >= minWindow && t.atr.Ready() && t.ema.Ready()
}

// ATR returns the current average true range, used downstream for
// trailing-stop distances.
func (t *Tracker) ATR() float64 {
	return t.atr.Value()
}

// State classifies the current window. Before Ready() it reports NORMAL
// with zero measurements so callers can treat warmup uniformly.
func (t *Tracker) State() State {
	if !t.Ready() {
		return State{Condition: Normal}
	}

	atrRatio := 0.0
	if mean := t.atr.Mean(); mean > 0 {
		atrRatio = t.atr.Value() / mean
	}

	trend := 0.0
	if ema := t.ema.Value(); ema > 0 {
		trend = math.Abs(t.lastClose-ema) / ema
	}

	return State{
		Condition:     t.thresholds.Classify(atrRatio, trend),
		ATR:           t.atr.Value(),
		ATRRatio:      atrRatio,
		TrendStrength: trend,
	}
}

// Reset clears all indicator state, e.g. at a session boundary.
func (t *Tracker) Reset() {
	t.atr.Reset()
	t.ema.Reset()
	t.seen = 0
	t.lastClose = 0
}
