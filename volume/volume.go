// Package volume computes surge and trend volume ratios per instrument
// and the two boolean volume factors used for entry confirmation.
package volume

import (
	"github.com/dxbquant/orb/indicators"
	"github.com/dxbquant/orb/market"
)

// Profile is the per-bar volume measurement for one instrument.
type Profile struct {
	ShortAvg float64 // short rolling average
	LongAvg  float64 // long rolling average
	Surge    float64 // current volume / long average
	Trend    float64 // short average / long average
}

// Thresholds are the factor cutoffs.
type Thresholds struct {
	StrongSurge float64 `json:"strong_surge" yaml:"strong_surge"` // 2.0
	StrongTrend float64 `json:"strong_trend" yaml:"strong_trend"` // 1.2
	MinSurge    float64 `json:"min_surge" yaml:"min_surge"`       // 1.5
}

// DefaultThresholds returns the standard volume cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StrongSurge: 2.0,
		StrongTrend: 1.2,
		MinSurge:    1.5,
	}
}

// Analyzer maintains short and long rolling volume averages for one
// instrument. Updated every bar from the sequential pipeline; no
// synchronization needed.
type Analyzer struct {
	thresholds Thresholds

	short *indicators.VolumeMA
	long  *indicators.VolumeMA

	lastVolume float64
}

// NewAnalyzer creates an analyzer with the given window lengths
// (5 and 20 by convention).
func NewAnalyzer(shortPeriod, longPeriod int, t Thresholds) *Analyzer {
	return &Analyzer{
		thresholds: t,
		short:      indicators.NewVolumeMA(shortPeriod),
		long:       indicators.NewVolumeMA(longPeriod),
	}
}

// Update consumes the next closed bar.
func (a *Analyzer) Update(b market.Bar) {
	a.short.Update(b)
	a.long.Update(b)
	a.lastVolume = b.Volume
}

// Ready reports whether both windows are full.
func (a *Analyzer) Ready() bool {
	return a.short.Ready() && a.long.Ready()
}

// Profile returns the current measurement. Ratios are zero until Ready.
func (a *Analyzer) Profile() Profile {
	p := Profile{
		ShortAvg: a.short.Value(),
		LongAvg:  a.long.Value(),
	}
	if !a.Ready() || p.LongAvg <= 0 {
		return p
	}
	p.Surge = a.lastVolume / p.LongAvg
	p.Trend = p.ShortAvg / p.LongAvg
	return p
}

// Strong reports the strict volume factor: elevated surge with a rising
// short-term trend.
func (a *Analyzer) Strong() bool {
	p := a.Profile()
	return p.Surge >= a.thresholds.StrongSurge && p.Trend >= a.thresholds.StrongTrend
}

// SurgeOK reports the looser minimum-surge factor.
func (a *Analyzer) SurgeOK() bool {
	return a.Profile().Surge >= a.thresholds.MinSurge
}

// Reset clears both windows, e.g. at a session boundary.
func (a *Analyzer) Reset() {
	a.short.Reset()
	a.long.Reset()
	a.lastVolume = 0
}
