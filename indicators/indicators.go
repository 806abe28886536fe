// Package indicators provides streaming technical indicators for the
// decision pipeline.
package indicators

import "github.com/dxbquant/orb/market"

// Indicator computes a single streaming value from closed bars.
// It is deterministic: identical bar sequences produce identical values.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "ATR(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. If !Ready() it returns 0;
	// callers should always check Ready().
	Value() float64
}
