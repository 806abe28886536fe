// Package bias derives trend bias per timeframe from an EMA pair and
// checks multi-timeframe alignment for breakout confirmation.
package bias

import (
	"github.com/dxbquant/orb/indicators"
	"github.com/dxbquant/orb/market"
)

// Label is the trend-bias label for one timeframe.
type Label int

const (
	Neutral Label = iota
	Bullish
	Bearish
)

func (l Label) String() string {
	switch l {
	case Bullish:
		return "BULLISH"
	case Bearish:
		return "BEARISH"
	default:
		return "NEUTRAL"
	}
}

// Matches reports whether the label agrees with a breakout direction.
func (l Label) Matches(d market.Direction) bool {
	return (l == Bullish && d == market.Long) ||
		(l == Bearish && d == market.Short)
}

// Tracker maintains short/medium EMAs for a single timeframe and derives
// the bias label every bar.
type Tracker struct {
	short  *indicators.EMA
	medium *indicators.EMA

	lastClose float64
}

// NewTracker creates a bias tracker with the given EMA periods.
func NewTracker(shortPeriod, mediumPeriod int) *Tracker {
	return &Tracker{
		short:  indicators.NewEMA(shortPeriod),
		medium: indicators.NewEMA(mediumPeriod),
	}
}

// Update consumes the next closed bar for this timeframe.
func (t *Tracker) Update(b market.Bar) {
	t.short.Update(b)
	t.medium.Update(b)
	t.lastClose = b.Close
}

// Ready reports whether both EMAs have completed warmup.
func (t *Tracker) Ready() bool {
	return t.short.Ready() && t.medium.Ready()
}

// Label derives the bias: BULLISH when price is above both EMAs with the
// short above the medium, BEARISH under the mirrored condition, else
// NEUTRAL. Before warmup the label is NEUTRAL.
func (t *Tracker) Label() Label {
	if !t.Ready() {
		return Neutral
	}

	s, m := t.short.Value(), t.medium.Value()
	switch {
	case t.lastClose > s && t.lastClose > m && s > m:
		return Bullish
	case t.lastClose < s && t.lastClose < m && s < m:
		return Bearish
	default:
		return Neutral
	}
}

// Reset clears all indicator state.
func (t *Tracker) Reset() {
	t.short.Reset()
	t.medium.Reset()
	t.lastClose = 0
}
