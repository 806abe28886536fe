// Package lifecycle manages open positions through staged take-profits,
// breakeven adjustment, and an ATR-proportional trailing stop.
package lifecycle

import (
	"math"
	"time"

	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/pkg/id"
	"github.com/dxbquant/orb/regime"
)

// Status is the position lifecycle state.
type Status int

const (
	Open Status = iota
	PartialClosed1
	PartialClosed2
	Closed
)

func (s Status) String() string {
	switch s {
	case Open:
		return "OPEN"
	case PartialClosed1:
		return "PARTIALLY_CLOSED_1"
	case PartialClosed2:
		return "PARTIALLY_CLOSED_2"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Position is one live trade. Mutated only by the Manager from the
// sequential bar pipeline.
type Position struct {
	ID        string
	Symbol    string
	Sector    string
	Session   market.Session
	Direction market.Direction
	Condition regime.Condition

	Shares      float64
	Entry       float64
	InitialStop float64
	Stop        float64 // current stop; only ever tightens

	TP1, TP2, TP3 float64
	TargetRR      float64

	OpenTime time.Time
	Status   Status

	// RemainingFrac is the open fraction of the original size: 1.0 at
	// entry, 0 once closed. Closed fractions always sum to 1.0 over a
	// full lifecycle.
	RemainingFrac float64

	trailing     bool
	trailExtreme float64

	exitValue  float64 // sum of fraction*price over staged closes
	closedFrac float64
}

// NewPosition opens a position at the fill price with the given stop
// and take-profit ladder.
func NewPosition(symbol, sector string, sess market.Session, dir market.Direction,
	cond regime.Condition, shares, fill, stop, tp1, tp2, tp3, targetRR float64,
	openTime time.Time) *Position {

	return &Position{
		ID:            id.New(),
		Symbol:        symbol,
		Sector:        sector,
		Session:       sess,
		Direction:     dir,
		Condition:     cond,
		Shares:        shares,
		Entry:         fill,
		InitialStop:   stop,
		Stop:          stop,
		TP1:           tp1,
		TP2:           tp2,
		TP3:           tp3,
		TargetRR:      targetRR,
		OpenTime:      openTime,
		Status:        Open,
		RemainingFrac: 1.0,
	}
}

// Targets builds the take-profit ladder for an entry: TP1 at the target
// R:R, TP2 one R further, TP3 at twice the opening-range size. The
// levels are strictly ordered by distance from entry; a degenerate TP3
// is pushed one R beyond TP2.
func Targets(dir market.Direction, entry, stop, targetRR, rangeSize float64) (tp1, tp2, tp3 float64) {
	risk := math.Abs(entry - stop)
	sign := dir.Sign()

	tp1 = entry + sign*targetRR*risk
	tp2 = entry + sign*(targetRR+1)*risk
	tp3 = entry + sign*2*rangeSize
	if sign*(tp3-tp2) <= 0 {
		tp3 = entry + sign*(targetRR+2)*risk
	}
	return tp1, tp2, tp3
}

// hitStop reports whether the bar touched the current stop.
func (p *Position) hitStop(b market.Bar) bool {
	if p.Direction == market.Long {
		return b.Low <= p.Stop
	}
	return b.High >= p.Stop
}

// hitLevel reports whether the bar reached a take-profit level.
func (p *Position) hitLevel(level float64, b market.Bar) bool {
	if p.Direction == market.Long {
		return b.High >= level
	}
	return b.Low <= level
}

// bookExit records a staged close of the given fraction at price.
func (p *Position) bookExit(frac, price float64) {
	p.exitValue += frac * price
	p.closedFrac += frac
	p.RemainingFrac -= frac
	if p.RemainingFrac < 0 {
		p.RemainingFrac = 0
	}
}

// ExitAvg is the weighted average exit price over all staged closes.
func (p *Position) ExitAvg() float64 {
	if p.closedFrac == 0 {
		return 0
	}
	return p.exitValue / p.closedFrac
}

// RealizedRR is the achieved risk:reward over the whole position:
// (weighted exit − entry) / (entry − initial stop). The initial risk in
// the denominator is signed by direction, so a winning short is
// positive too.
func (p *Position) RealizedRR() float64 {
	denom := p.Entry - p.InitialStop
	if denom == 0 {
		return 0
	}
	return (p.ExitAvg() - p.Entry) / denom
}

// PnL is the realized profit over all staged closes, in account
// currency.
func (p *Position) PnL() float64 {
	return (p.exitValue - p.closedFrac*p.Entry) * p.Direction.Sign() * p.Shares
}
