package risk

// Policy holds the portfolio-level risk limits. All fields are
// configurable; Default matches the production settings.
type Policy struct {
	// Risk per trade as a fraction of equity, before the regime
	// multiplier is applied.
	RiskPerTrade float64 `json:"risk_per_trade" yaml:"risk_per_trade"`

	// Circuit breakers, reset at each session boundary.
	MaxDailyTrades  int     `json:"max_daily_trades" yaml:"max_daily_trades"`
	MaxDailyLossPct float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`

	// Exposure limits.
	SectorCap            int     `json:"sector_cap" yaml:"sector_cap"`
	CorrelationThreshold float64 `json:"correlation_threshold" yaml:"correlation_threshold"`

	// Cap on position value as a fraction of equity.
	MaxPositionValuePct float64 `json:"max_position_value_pct" yaml:"max_position_value_pct"`
}

// DefaultPolicy returns the standard limits.
func DefaultPolicy() Policy {
	return Policy{
		RiskPerTrade:         0.01,
		MaxDailyTrades:       5,
		MaxDailyLossPct:      0.03,
		SectorCap:            2,
		CorrelationThreshold: 0.7,
		MaxPositionValuePct:  0.02,
	}
}
