package risk

import "math"

// Size is the result of position sizing.
type Size struct {
	Shares     float64 // whole shares
	RiskAmount float64 // account currency at risk if the stop is hit
	Value      float64 // entry notional
}

// Inputs are the sizing parameters. Multiplier is the regime-derived
// scaling factor.
type Inputs struct {
	Equity     float64
	RiskPct    float64
	Multiplier float64
	Entry      float64
	Stop       float64

	// MaxValuePct caps the position's entry notional as a fraction of
	// equity. Zero disables the cap.
	MaxValuePct float64
}

// Calculate sizes a position from risk inputs. Pure and idempotent:
// identical inputs always yield identical sizes.
func Calculate(in Inputs) Size {
	riskPerShare := math.Abs(in.Entry - in.Stop)
	if riskPerShare <= 0 || in.Entry <= 0 || in.Equity <= 0 {
		return Size{}
	}

	riskAmount := in.Equity * in.RiskPct * in.Multiplier
	shares := math.Floor(riskAmount / riskPerShare)

	if in.MaxValuePct > 0 {
		maxShares := math.Floor(in.Equity * in.MaxValuePct / in.Entry)
		if shares > maxShares {
			shares = maxShares
		}
	}
	if shares <= 0 {
		return Size{}
	}

	return Size{
		Shares:     shares,
		RiskAmount: shares * riskPerShare,
		Value:      shares * in.Entry,
	}
}
