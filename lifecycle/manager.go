package lifecycle

import (
	"time"

	"github.com/dxbquant/orb/journal"
	"github.com/dxbquant/orb/market"
)

// Close reasons recorded in the journal.
const (
	ReasonStopLoss     = "StopLoss"
	ReasonTrailingStop = "TrailingStop"
	ReasonTakeProfit3  = "TakeProfit3"
	ReasonEndOfDay     = "EndOfDay"
)

// EventType identifies what happened to a position on a bar.
type EventType int

const (
	EventTP1 EventType = iota
	EventTP2
	EventClosed
)

func (e EventType) String() string {
	switch e {
	case EventTP1:
		return "TP1"
	case EventTP2:
		return "TP2"
	case EventClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Event is emitted by the Manager whenever a position transitions.
// Fraction is the share of the original size closed by this event.
// Record is set only on EventClosed.
type Event struct {
	Type     EventType
	Position *Position
	Price    float64
	Time     time.Time
	Fraction float64
	Reason   string
	Record   *journal.PerformanceRecord
}

// Config holds the staged-exit parameters.
type Config struct {
	TP1Fraction  float64 `yaml:"tp1_fraction" json:"tp1_fraction"`
	TP2Fraction  float64 `yaml:"tp2_fraction" json:"tp2_fraction"`
	TrailATRMult float64 `yaml:"trail_atr_mult" json:"trail_atr_mult"`
}

func DefaultConfig() Config {
	return Config{
		TP1Fraction:  0.5,
		TP2Fraction:  0.25,
		TrailATRMult: 1.5,
	}
}

// Manager advances positions through the exit ladder on each bar.
type Manager struct {
	cfg Config
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// OnBar evaluates one bar against the position. The trailing stop is
// tightened first from the extreme of earlier bars, then the stop is
// checked before any take-profit on the same bar; the current bar's
// extreme is only observed afterwards, so a bar never trails itself
// into its own stop. atr is the current ATR for the symbol and drives
// the trailing distance; pass 0 while the indicator is warming up.
//
// At most one transition happens per bar. Fills are assumed at the
// triggered level.
func (m *Manager) OnBar(p *Position, b market.Bar, atr float64) []Event {
	if p.Status == Closed {
		return nil
	}

	if p.trailing && atr > 0 {
		p.tightenStop(atr * m.cfg.TrailATRMult)
	}
	defer func() {
		if p.Status != Closed && p.trailing {
			p.observeExtreme(b)
		}
	}()

	var events []Event
	switch p.Status {
	case Open:
		if p.hitStop(b) {
			return append(events, m.closeRemaining(p, p.Stop, b.Time, ReasonStopLoss))
		}
		if p.hitLevel(p.TP1, b) {
			p.bookExit(m.cfg.TP1Fraction, p.TP1)
			p.Stop = p.Entry
			p.trailing = true
			p.trailExtreme = favorableExtreme(p, b)
			p.Status = PartialClosed1
			events = append(events, Event{
				Type: EventTP1, Position: p, Price: p.TP1, Time: b.Time,
				Fraction: m.cfg.TP1Fraction,
			})
		}

	case PartialClosed1:
		if p.hitStop(b) {
			return append(events, m.closeRemaining(p, p.Stop, b.Time, ReasonTrailingStop))
		}
		if p.hitLevel(p.TP2, b) {
			p.bookExit(m.cfg.TP2Fraction, p.TP2)
			p.Status = PartialClosed2
			events = append(events, Event{
				Type: EventTP2, Position: p, Price: p.TP2, Time: b.Time,
				Fraction: m.cfg.TP2Fraction,
			})
		}

	case PartialClosed2:
		if p.hitStop(b) {
			return append(events, m.closeRemaining(p, p.Stop, b.Time, ReasonTrailingStop))
		}
		if p.hitLevel(p.TP3, b) {
			return append(events, m.closeRemaining(p, p.TP3, b.Time, ReasonTakeProfit3))
		}
	}
	return events
}

// Flatten force-closes the remaining fraction at price, used for the
// end-of-day sweep. Returns a zero Event and false if the position was
// already closed.
func (m *Manager) Flatten(p *Position, price float64, t time.Time) (Event, bool) {
	if p.Status == Closed {
		return Event{}, false
	}
	return m.closeRemaining(p, price, t, ReasonEndOfDay), true
}

// tightenStop ratchets the stop toward the stored favorable extreme.
// The stop only ever tightens.
func (p *Position) tightenStop(dist float64) {
	if p.Direction == market.Long {
		if c := p.trailExtreme - dist; c > p.Stop {
			p.Stop = c
		}
		return
	}
	if c := p.trailExtreme + dist; c < p.Stop {
		p.Stop = c
	}
}

// observeExtreme folds the bar into the favorable extreme the trail is
// anchored on.
func (p *Position) observeExtreme(b market.Bar) {
	if p.Direction == market.Long {
		if b.High > p.trailExtreme {
			p.trailExtreme = b.High
		}
		return
	}
	if b.Low < p.trailExtreme {
		p.trailExtreme = b.Low
	}
}

func favorableExtreme(p *Position, b market.Bar) float64 {
	if p.Direction == market.Long {
		return b.High
	}
	return b.Low
}

func (m *Manager) closeRemaining(p *Position, price float64, t time.Time, reason string) Event {
	frac := p.RemainingFrac
	p.bookExit(frac, price)
	p.Status = Closed
	p.trailing = false

	rec := &journal.PerformanceRecord{
		TradeID:     p.ID,
		Symbol:      p.Symbol,
		Session:     string(p.Session),
		Sector:      p.Sector,
		Direction:   p.Direction.String(),
		Condition:   p.Condition.String(),
		Entry:       p.Entry,
		InitialStop: p.InitialStop,
		ExitAvg:     p.ExitAvg(),
		Shares:      p.Shares,
		PnL:         p.PnL(),
		TargetRR:    p.TargetRR,
		RealizedRR:  p.RealizedRR(),
		Win:         p.PnL() > 0,
		Reason:      reason,
		OpenTime:    p.OpenTime,
		CloseTime:   t,
	}
	return Event{
		Type: EventClosed, Position: p, Price: price, Time: t,
		Fraction: frac, Reason: reason, Record: rec,
	}
}
