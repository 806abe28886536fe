package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/risk"
)

// SaveState writes the portfolio snapshot atomically: a temp file next
// to the target, then rename. A crash mid-write never leaves a
// half-written snapshot behind.
func SaveState(path string, s risk.State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadState reads a persisted snapshot. Unparseable JSON is reported as
// corrupt state, not an I/O error.
func LoadState(path string) (risk.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return risk.State{}, err
	}

	var s risk.State
	if err := json.Unmarshal(data, &s); err != nil {
		return risk.State{}, fmt.Errorf("%w: %v", risk.ErrCorrupt, err)
	}
	return s, nil
}

// persist saves the current portfolio state. Persistence failure is
// logged, never fatal: the engine keeps trading on in-memory state.
func (e *Engine) persist() {
	if err := SaveState(e.cfg.SnapshotPath, e.pf.Snapshot()); err != nil {
		e.log.Error().Err(err).Str("path", e.cfg.SnapshotPath).Msg("snapshot write failed")
	}
}

// recover restores portfolio state from the snapshot file, if any.
// Restored open-position markers keep their risk reservations (blocking
// duplicate entries) but their exit ladders are gone, so they are
// flagged for manual reconciliation.
func (e *Engine) recover() error {
	s, err := LoadState(e.cfg.SnapshotPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := e.pf.Restore(s); err != nil {
		return err
	}

	// The US window wraps midnight, so its session date is the trading
	// day even for a snapshot taken in the post-midnight tail.
	e.day = e.sched.SessionDate(market.SessionUS, s.AsOf)
	e.log.Info().Time("as_of", s.AsOf).Float64("equity", s.Equity).
		Int("trades_today", s.TradesToday).Int("open", len(s.Open)).
		Msg("portfolio state restored")
	for sym := range s.Open {
		e.log.Warn().Str("symbol", sym).Msg("restored open position has no exit state; reconcile manually")
	}
	return nil
}
