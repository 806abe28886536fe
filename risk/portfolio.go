package risk

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dxbquant/orb/market"
)

// ErrCorrupt reports a persisted portfolio snapshot that fails invariant
// checks on load. Portfolio-wide limits cannot be enforced with corrupt
// counters, so callers must treat this as fatal for the engine.
var ErrCorrupt = errors.New("portfolio state corrupt")

// OpenPosition is the portfolio's view of one open position: just enough
// to enforce the exposure limits.
type OpenPosition struct {
	Symbol    string           `json:"symbol"`
	Sector    string           `json:"sector"`
	Direction market.Direction `json:"direction"`
}

// State is the serializable portfolio snapshot used for recovery.
type State struct {
	AsOf        time.Time               `json:"as_of"`
	Equity      float64                 `json:"equity"`
	TradesToday int                     `json:"trades_today"`
	DailyPnL    float64                 `json:"daily_pnl"`
	Open        map[string]OpenPosition `json:"open"`
}

// Portfolio is the only state shared across instruments. All access
// goes through its mutex; Admit performs check-and-reserve in a single
// critical section so two concurrent signals can never both pass
// against stale counters.
type Portfolio struct {
	mu sync.Mutex

	equity      float64
	tradesToday int
	dailyPnL    float64
	open        map[string]OpenPosition
}

// NewPortfolio creates an empty portfolio with the given starting equity.
func NewPortfolio(equity float64) *Portfolio {
	return &Portfolio{
		equity: equity,
		open:   make(map[string]OpenPosition),
	}
}

// Admit atomically evaluates the intent and, when allowed, reserves the
// position slot and daily trade count. The returned decision carries
// the sizing or the violation codes.
func (pf *Portfolio) Admit(p Policy, intent Intent) Decision {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	d := Evaluate(p, intent, pf.snapshotLocked())
	if d.Allowed {
		pf.open[intent.Symbol] = OpenPosition{
			Symbol:    intent.Symbol,
			Sector:    intent.Sector,
			Direction: intent.Direction,
		}
		pf.tradesToday++
	}
	return d
}

// Cancel removes a reservation whose order the execution collaborator
// rejected. The daily trade count is not rolled back: the attempt was
// made, and the count stays monotonic within the session.
func (pf *Portfolio) Cancel(symbol string) {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	delete(pf.open, symbol)
}

// Release removes a closed position and books its realized P&L into the
// daily total and equity.
func (pf *Portfolio) Release(symbol string, realizedPnL float64) {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	delete(pf.open, symbol)
	pf.dailyPnL += realizedPnL
	pf.equity += realizedPnL
}

// ResetDaily zeroes the daily counters at a session boundary.
func (pf *Portfolio) ResetDaily() {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	pf.tradesToday = 0
	pf.dailyPnL = 0
}

// Equity returns the current account equity.
func (pf *Portfolio) Equity() float64 {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	return pf.equity
}

// Snapshot returns a copy of the current state for reporting or
// persistence.
func (pf *Portfolio) Snapshot() State {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	open := make(map[string]OpenPosition, len(pf.open))
	for k, v := range pf.open {
		open[k] = v
	}
	return State{
		AsOf:        time.Now().UTC(),
		Equity:      pf.equity,
		TradesToday: pf.tradesToday,
		DailyPnL:    pf.dailyPnL,
		Open:        open,
	}
}

// Restore loads a persisted snapshot, validating its invariants first.
// A snapshot that fails validation returns ErrCorrupt and leaves the
// portfolio untouched.
func (pf *Portfolio) Restore(s State) error {
	if err := validateState(s); err != nil {
		return err
	}

	pf.mu.Lock()
	defer pf.mu.Unlock()

	pf.equity = s.Equity
	pf.tradesToday = s.TradesToday
	pf.dailyPnL = s.DailyPnL
	pf.open = make(map[string]OpenPosition, len(s.Open))
	for k, v := range s.Open {
		pf.open[k] = v
	}
	return nil
}

func validateState(s State) error {
	if s.Equity <= 0 {
		return fmt.Errorf("%w: non-positive equity %.2f", ErrCorrupt, s.Equity)
	}
	if s.TradesToday < 0 {
		return fmt.Errorf("%w: negative daily trade count %d", ErrCorrupt, s.TradesToday)
	}
	for sym, op := range s.Open {
		if op.Symbol != sym {
			return fmt.Errorf("%w: open position keyed %q holds symbol %q", ErrCorrupt, sym, op.Symbol)
		}
		if op.Direction != market.Long && op.Direction != market.Short {
			return fmt.Errorf("%w: open position %s has no direction", ErrCorrupt, sym)
		}
	}
	return nil
}

// snapshotLocked builds the evaluation snapshot. Caller holds the lock.
func (pf *Portfolio) snapshotLocked() Snapshot {
	open := make(map[string]OpenPosition, len(pf.open))
	sectors := make(map[string]int)
	for k, v := range pf.open {
		open[k] = v
		sectors[v.Sector]++
	}
	return Snapshot{
		Equity:      pf.equity,
		TradesToday: pf.tradesToday,
		DailyPnL:    pf.dailyPnL,
		Open:        open,
		SectorCount: sectors,
	}
}
