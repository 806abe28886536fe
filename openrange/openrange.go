// Package openrange tracks the opening range per instrument per session
// and detects breakout candidates once the range is final.
package openrange

import (
	"errors"
	"time"

	"github.com/dxbquant/orb/market"
)

// ErrNotFormed is returned when the range is requested before the
// formation window has elapsed. Callers defer and retry on a later bar.
var ErrNotFormed = errors.New("opening range not formed")

// Range is the finalized opening range for one instrument and session
// date. Immutable once Final is set.
type Range struct {
	Symbol string
	Date   time.Time // session date, truncated to day
	High   float64
	Low    float64
	Final  bool
}

// Size returns the high-low spread of the range.
func (r Range) Size() float64 {
	return r.High - r.Low
}

// Tracker accumulates the first N bars of a session into an opening
// range, then watches closes for breakouts. One tracker per instrument;
// no synchronization needed.
type Tracker struct {
	window int

	rng  Range
	bars int

	// armed suppresses duplicate candidates: once a breakout fires, no
	// new candidate until price closes back inside the range.
	armed bool
}

// NewTracker creates a tracker that finalizes the range after window bars.
func NewTracker(window int) *Tracker {
	return &Tracker{window: window}
}

// StartSession resets the tracker for a new session date. The range for
// the previous date is discarded; a range is set at most once per
// instrument per session.
func (t *Tracker) StartSession(symbol string, date time.Time) {
	t.rng = Range{
		Symbol: symbol,
		Date:   date.Truncate(24 * time.Hour),
	}
	t.bars = 0
	t.armed = false
}

// Update consumes the next bar. Bars during the formation window extend
// the range; once final, the range never changes.
func (t *Tracker) Update(b market.Bar) {
	if t.rng.Final {
		return
	}

	if t.bars == 0 {
		t.rng.High = b.High
		t.rng.Low = b.Low
	} else {
		if b.High > t.rng.High {
			t.rng.High = b.High
		}
		if b.Low < t.rng.Low {
			t.rng.Low = b.Low
		}
	}

	t.bars++
	if t.bars >= t.window {
		t.rng.Final = true
	}
}

// Formed reports whether the opening range is final for this session.
func (t *Tracker) Formed() bool {
	return t.rng.Final
}

// Range returns the finalized opening range, or ErrNotFormed while the
// formation window is still open.
func (t *Tracker) Range() (Range, error) {
	if !t.rng.Final {
		return Range{}, ErrNotFormed
	}
	return t.rng, nil
}

// Candidate reports a breakout candidate for the given close. It fires
// at most once per excursion: after a candidate is reported, no further
// candidates fire until the close returns inside the range.
func (t *Tracker) Candidate(close float64) (market.Direction, bool) {
	if !t.rng.Final {
		return 0, false
	}

	outside := close > t.rng.High || close < t.rng.Low
	if !outside {
		t.armed = false
		return 0, false
	}
	if t.armed {
		return 0, false
	}
	t.armed = true

	if close > t.rng.High {
		return market.Long, true
	}
	return market.Short, true
}
