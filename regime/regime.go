// Package regime classifies market conditions from volatility and trend
// strength, and holds the condition-keyed lookup tables used for target
// risk:reward selection and position-size scaling.
package regime

// Condition is the market-condition label for an instrument.
type Condition int

const (
	Weak Condition = iota
	Normal
	Trending
	HighVolatility
)

func (c Condition) String() string {
	switch c {
	case Weak:
		return "WEAK"
	case Normal:
		return "NORMAL"
	case Trending:
		return "TRENDING"
	case HighVolatility:
		return "HIGH_VOLATILITY"
	default:
		return "UNKNOWN"
	}
}

// Suitable reports whether new entries are allowed in this condition.
// WEAK disqualifies entirely.
func (c Condition) Suitable() bool {
	return c != Weak
}

// Thresholds are the classification cutoffs. ATR ratio is current ATR
// divided by its long-run mean; trend strength is |close-EMA|/EMA.
type Thresholds struct {
	HighVolATRRatio  float64 `json:"high_vol_atr_ratio" yaml:"high_vol_atr_ratio"`
	TrendingATRRatio float64 `json:"trending_atr_ratio" yaml:"trending_atr_ratio"`
	TrendingStrength float64 `json:"trending_strength" yaml:"trending_strength"`
	WeakATRRatio     float64 `json:"weak_atr_ratio" yaml:"weak_atr_ratio"`
}

// DefaultThresholds returns the standard classification cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighVolATRRatio:  1.5,
		TrendingATRRatio: 1.2,
		TrendingStrength: 0.015,
		WeakATRRatio:     0.8,
	}
}

// Classify maps a (volatility, trend) measurement pair to a Condition.
// Pure function: identical inputs always produce identical labels.
//
// HIGH_VOLATILITY wins on elevated ATR ratio regardless of trend;
// TRENDING needs trend strength above the cutoff with a moderate ATR
// ratio; an ATR ratio at or below the weak cutoff is WEAK; everything
// else is NORMAL.
func (t Thresholds) Classify(atrRatio, trendStrength float64) Condition {
	switch {
	case atrRatio > t.HighVolATRRatio:
		return HighVolatility
	case atrRatio > t.TrendingATRRatio && trendStrength > t.TrendingStrength:
		return Trending
	case atrRatio <= t.WeakATRRatio:
		return Weak
	default:
		return Normal
	}
}

// targetRR maps a condition to the target risk:reward ratio for entries.
// WEAK is absent on purpose: weak regimes are blocked upstream and never
// reach R:R selection.
var targetRR = map[Condition]float64{
	Normal:         2.5,
	Trending:       3.0,
	HighVolatility: 4.0,
}

// TargetRR returns the target risk:reward for entries in the given
// condition, defaulting to 2.0 when no mapping exists.
func TargetRR(c Condition) float64 {
	if rr, ok := targetRR[c]; ok {
		return rr
	}
	return 2.0
}

// riskMultiplier scales the base risk-per-trade by market condition.
var riskMultiplier = map[Condition]float64{
	Weak:           0.5,
	Normal:         1.0,
	Trending:       1.2,
	HighVolatility: 0.8,
}

// RiskMultiplier returns the position-size scaling factor for the given
// condition, defaulting to 1.0.
func RiskMultiplier(c Condition) float64 {
	if m, ok := riskMultiplier[c]; ok {
		return m
	}
	return 1.0
}
