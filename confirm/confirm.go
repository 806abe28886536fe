// Package confirm combines regime, bias, and volume inputs into a
// weighted entry decision for a breakout candidate.
package confirm

import (
	"time"

	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/regime"
)

// quorum is how many of the four factors must be true for a Signal.
const quorum = 3

// Factors is the confirming-factor breakdown attached to every Signal
// and every notification.
type Factors struct {
	StrongVolume   bool `json:"volume_strong"`
	BiasAligned    bool `json:"bias_aligned"`
	RegimeSuitable bool `json:"market_suitable"`
	VolumeSurge    bool `json:"volume_surge"`
}

// Count returns how many factors are true.
func (f Factors) Count() int {
	n := 0
	for _, v := range []bool{f.StrongVolume, f.BiasAligned, f.RegimeSuitable, f.VolumeSurge} {
		if v {
			n++
		}
	}
	return n
}

// Signal is a confirmed entry decision. Signals are only ever built by
// Evaluate, so a Signal with fewer than three true factors cannot exist.
type Signal struct {
	Symbol        string
	Direction     market.Direction
	Time          time.Time
	Condition     regime.Condition
	Factors       Factors
	Confirmations int
	TargetRR      float64
}

// Inputs are the per-bar factor measurements for one breakout candidate.
type Inputs struct {
	Symbol    string
	Direction market.Direction
	Time      time.Time

	Condition    regime.Condition
	StrongVolume bool
	BiasAligned  bool
	VolumeSurge  bool
}

// Evaluate applies the entry decision: a WEAK regime disqualifies
// outright, otherwise at least three of the four factors (strong volume,
// bias alignment, regime suitability, minimum surge) must hold. The
// target risk:reward comes from the regime lookup table.
func Evaluate(in Inputs) (Signal, bool) {
	// Absolute gate: no amount of volume or bias outvotes a weak market.
	if !in.Condition.Suitable() {
		return Signal{}, false
	}

	f := Factors{
		StrongVolume:   in.StrongVolume,
		BiasAligned:    in.BiasAligned,
		RegimeSuitable: true,
		VolumeSurge:    in.VolumeSurge,
	}
	count := f.Count()
	if count < quorum {
		return Signal{}, false
	}

	return Signal{
		Symbol:        in.Symbol,
		Direction:     in.Direction,
		Time:          in.Time,
		Condition:     in.Condition,
		Factors:       f,
		Confirmations: count,
		TargetRR:      regime.TargetRR(in.Condition),
	}, true
}
