package bias

import "github.com/dxbquant/orb/market"

// aggregator compacts base-timeframe bars into composite bars of `every`
// base bars each and feeds them to a tracker.
type aggregator struct {
	every   int
	tracker *Tracker

	acc   market.Bar
	count int
}

func (a *aggregator) update(b market.Bar) {
	if a.count == 0 {
		a.acc = b
	} else {
		if b.High > a.acc.High {
			a.acc.High = b.High
		}
		if b.Low < a.acc.Low {
			a.acc.Low = b.Low
		}
		a.acc.Close = b.Close
		a.acc.Time = b.Time
		a.acc.Volume += b.Volume
	}

	a.count++
	if a.count >= a.every {
		a.tracker.Update(a.acc)
		a.count = 0
	}
}

func (a *aggregator) reset() {
	a.count = 0
	a.tracker.Reset()
}

// MultiTF runs two parallel bias trackers on 15-minute- and 1-hour-
// equivalent aggregations of the base bar stream. Alignment of the two
// is one of the four entry confirmation factors.
type MultiTF struct {
	m15 *aggregator
	h1  *aggregator
}

// NewMultiTF creates the two-timeframe tracker. barsPer15m and barsPer1h
// say how many base bars make up each composite (3 and 12 for a
// 5-minute base feed). Both timeframes use the same EMA pair.
func NewMultiTF(shortPeriod, mediumPeriod, barsPer15m, barsPer1h int) *MultiTF {
	return &MultiTF{
		m15: &aggregator{every: barsPer15m, tracker: NewTracker(shortPeriod, mediumPeriod)},
		h1:  &aggregator{every: barsPer1h, tracker: NewTracker(shortPeriod, mediumPeriod)},
	}
}

// Update consumes the next base-timeframe bar.
func (m *MultiTF) Update(b market.Bar) {
	m.m15.update(b)
	m.h1.update(b)
}

// Labels returns the current 15m and 1h bias labels.
func (m *MultiTF) Labels() (Label, Label) {
	return m.m15.tracker.Label(), m.h1.tracker.Label()
}

// Aligned reports whether both timeframes agree on a non-neutral bias
// matching the breakout direction. Disagreement, neutrality, or warmup
// all block the factor.
func (m *MultiTF) Aligned(d market.Direction) bool {
	l15, l1h := m.Labels()
	return l15 == l1h && l15.Matches(d)
}

// Reset clears both timeframes.
func (m *MultiTF) Reset() {
	m.m15.reset()
	m.h1.reset()
}
