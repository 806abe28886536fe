// Package engine wires the analysis trackers, risk gate, execution and
// journaling into the bar-driven decision pipeline.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dxbquant/orb/broker"
	"github.com/dxbquant/orb/config"
	"github.com/dxbquant/orb/confirm"
	"github.com/dxbquant/orb/journal"
	"github.com/dxbquant/orb/lifecycle"
	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/metrics"
	"github.com/dxbquant/orb/notify"
	"github.com/dxbquant/orb/risk"
	"github.com/dxbquant/orb/session"
)

var (
	ErrUnknownSymbol = errors.New("symbol not in universe")
	ErrStaleBar      = errors.New("bar not newer than last processed")
	ErrMalformedBar  = errors.New("malformed bar")
)

// gapWarn is the bar-to-bar spacing beyond which a feed gap is logged.
const gapWarn = 15 * time.Minute

// marker is the optional broker capability of accepting bar marks; the
// paper broker implements it to fill at bar closes.
type marker interface {
	Mark(symbol string, price float64, t time.Time)
}

// Engine drives the full decision pipeline for every instrument in the
// universe. Bars must arrive through OnBar in time order from a single
// goroutine; the portfolio is the only shared state.
type Engine struct {
	cfg   *config.Config
	sched *session.Scheduler

	pf    *risk.Portfolio
	brk   broker.Broker
	jnl   journal.Journal
	ntf   notify.Notifier
	exits *lifecycle.Manager
	log   zerolog.Logger

	instruments map[string]*instrument
	day         time.Time
}

// New builds an engine from validated configuration, restoring the
// portfolio snapshot when one exists. A snapshot that fails invariant
// checks aborts startup: limits cannot be enforced over corrupt
// counters.
func New(cfg *config.Config, brk broker.Broker, jnl journal.Journal,
	ntf notify.Notifier, log zerolog.Logger) (*Engine, error) {

	sched, err := cfg.Sessions.Scheduler()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		sched:       sched,
		pf:          risk.NewPortfolio(cfg.Account.Equity),
		brk:         brk,
		jnl:         jnl,
		ntf:         ntf,
		exits:       lifecycle.NewManager(cfg.Strategy.Exits),
		log:         log,
		instruments: make(map[string]*instrument, len(market.Instruments)),
	}
	for sym, inst := range market.Instruments {
		e.instruments[sym] = newInstrument(inst, cfg.Strategy)
	}

	if err := e.recover(); err != nil {
		return nil, err
	}
	return e, nil
}

// Portfolio exposes the shared state for reporting.
func (e *Engine) Portfolio() *risk.Portfolio { return e.pf }

// OnBar processes one closed bar. Malformed, stale or unknown-symbol
// bars are rejected without touching any tracker state; the caller logs
// and moves on to the next bar.
func (e *Engine) OnBar(ctx context.Context, b market.Bar) error {
	ins, ok := e.instruments[b.Symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, b.Symbol)
	}
	if b.High < b.Low || b.Close <= 0 || b.Time.IsZero() {
		return fmt.Errorf("%w: %s at %s", ErrMalformedBar, b.Symbol, b.Time)
	}
	if !ins.lastBar.IsZero() && !b.Time.After(ins.lastBar) {
		return fmt.Errorf("%w: %s %s <= %s", ErrStaleBar, b.Symbol, b.Time, ins.lastBar)
	}
	if !ins.lastBar.IsZero() && b.Time.Sub(ins.lastBar) > gapWarn {
		e.log.Warn().Str("symbol", b.Symbol).
			Time("prev", ins.lastBar).Time("bar", b.Time).
			Msg("feed gap")
	}
	ins.lastBar = b.Time
	ins.lastClose = b.Close
	metrics.BarsTotal.WithLabelValues(b.Symbol).Inc()

	e.rollDay(ins, b.Time)

	if m, ok := e.brk.(marker); ok {
		m.Mark(b.Symbol, b.Close, b.Time)
	}

	// Streaming context updates on every bar, in or out of session.
	ins.regime.Update(b)
	ins.bias.Update(b)
	ins.vol.Update(b)
	ins.returns.Push(b.Close)
	if e.sched.InFormation(ins.inst.Session, b.Time) {
		ins.rng.Update(b)
	}

	// Open positions are managed on every bar; once the session closes
	// the remainder is flattened at the close instead.
	if ins.position != nil {
		if !e.sched.Eligible(ins.inst.Session, b.Time) {
			e.flatten(ctx, ins, b.Close, b.Time)
		} else {
			evs := e.exits.OnBar(ins.position, b, ins.regime.ATR())
			e.applyEvents(ctx, ins, evs)
		}
	}

	e.tryEntry(ctx, ins, b)
	return nil
}

// rollDay resets per-session trackers on a new session date and the
// daily portfolio counters on a new trading day.
func (e *Engine) rollDay(ins *instrument, t time.Time) {
	date := e.sched.SessionDate(ins.inst.Session, t)
	if !date.Equal(ins.sessionDate) {
		ins.sessionDate = date
		ins.rng.StartSession(ins.inst.Symbol, date)
	}

	if date.After(e.day) {
		if !e.day.IsZero() {
			e.pf.ResetDaily()
			e.persist()
			e.log.Info().Time("day", date).Msg("daily counters reset")
		}
		e.day = date
	}
}

// tryEntry runs the breakout-to-order path for the bar.
func (e *Engine) tryEntry(ctx context.Context, ins *instrument, b market.Bar) {
	sess := ins.inst.Session
	if ins.position != nil ||
		!e.sched.Eligible(sess, b.Time) ||
		e.sched.InFormation(sess, b.Time) ||
		!ins.rng.Formed() {
		return
	}

	dir, ok := ins.rng.Candidate(b.Close)
	if !ok {
		return
	}

	st := ins.regime.State()
	sig, ok := confirm.Evaluate(confirm.Inputs{
		Symbol:       ins.inst.Symbol,
		Direction:    dir,
		Time:         b.Time,
		Condition:    st.Condition,
		StrongVolume: ins.vol.Strong(),
		BiasAligned:  ins.bias.Aligned(dir),
		VolumeSurge:  ins.vol.SurgeOK(),
	})
	if !ok {
		e.log.Debug().Str("symbol", ins.inst.Symbol).
			Stringer("direction", dir).Stringer("condition", st.Condition).
			Msg("breakout not confirmed")
		return
	}

	metrics.SignalsTotal.WithLabelValues(sig.Symbol, sig.Direction.String(), sig.Condition.String()).Inc()
	e.notify(ctx, notify.Signal(sig))
	e.log.Info().Str("symbol", sig.Symbol).
		Stringer("direction", sig.Direction).Stringer("condition", sig.Condition).
		Int("confirmations", sig.Confirmations).Float64("target_rr", sig.TargetRR).
		Msg("signal confirmed")

	rng, err := ins.rng.Range()
	if err != nil {
		return // unreachable after Formed, kept for safety
	}
	stop := rng.Low
	if dir == market.Short {
		stop = rng.High
	}

	intent := risk.Intent{
		Symbol:      ins.inst.Symbol,
		Sector:      ins.inst.Sector,
		Direction:   dir,
		Condition:   sig.Condition,
		Entry:       b.Close,
		Stop:        stop,
		Returns:     ins.returns.Values(),
		OpenReturns: e.openReturns(),
	}
	d := e.pf.Admit(e.cfg.Risk, intent)
	if !d.Allowed {
		for _, v := range d.Violations {
			metrics.RejectionsTotal.WithLabelValues(v.Code).Inc()
		}
		e.notify(ctx, notify.Rejected(intent.Symbol, d.Reasons()))
		e.log.Warn().Str("symbol", intent.Symbol).
			Strs("reasons", d.Reasons()).Msg("entry rejected")
		return
	}

	tp1, tp2, tp3 := lifecycle.Targets(dir, b.Close, stop, sig.TargetRR, rng.Size())
	fill, err := e.brk.CreateMarketOrder(ctx, broker.OrderRequest{
		Symbol:    intent.Symbol,
		Direction: dir,
		Shares:    d.Size.Shares,
		Stop:      stop,
		TP1:       tp1, TP2: tp2, TP3: tp3,
	})
	if err != nil {
		e.pf.Cancel(intent.Symbol)
		e.log.Error().Err(err).Str("symbol", intent.Symbol).Msg("order rejected by broker")
		return
	}

	ins.position = lifecycle.NewPosition(
		intent.Symbol, intent.Sector, sess, dir, sig.Condition,
		fill.Shares, fill.Price, stop, tp1, tp2, tp3, sig.TargetRR, fill.Time,
	)
	metrics.OpenPositions.Inc()
	e.notify(ctx, notify.Opened(ins.position))
	e.log.Info().Str("symbol", intent.Symbol).Str("trade_id", ins.position.ID).
		Float64("shares", fill.Shares).Float64("entry", fill.Price).Float64("stop", stop).
		Msg("position opened")
	e.persist()
}

// applyEvents reconciles lifecycle transitions with the broker, journal
// and portfolio.
func (e *Engine) applyEvents(ctx context.Context, ins *instrument, evs []lifecycle.Event) {
	for _, ev := range evs {
		p := ev.Position
		shares := p.Shares * ev.Fraction
		if shares > 0 {
			if _, err := e.brk.ClosePosition(ctx, p.Symbol, shares); err != nil {
				e.log.Error().Err(err).Str("symbol", p.Symbol).Msg("close order failed")
			}
		}

		switch ev.Type {
		case lifecycle.EventTP1, lifecycle.EventTP2:
			e.notify(ctx, notify.TPHit(ev))
			e.log.Info().Str("symbol", p.Symbol).Stringer("stage", ev.Type).
				Float64("price", ev.Price).Float64("stop", p.Stop).
				Msg("take profit hit")

		case lifecycle.EventClosed:
			rec := *ev.Record
			if err := e.jnl.Record(rec); err != nil {
				e.log.Error().Err(err).Str("trade_id", rec.TradeID).Msg("journal write failed")
			}
			e.pf.Release(p.Symbol, rec.PnL)
			ins.position = nil

			metrics.OpenPositions.Dec()
			metrics.TradesTotal.WithLabelValues(rec.Session, rec.Reason, strconv.FormatBool(rec.Win)).Inc()
			metrics.Equity.Set(e.pf.Equity())
			metrics.DailyPnL.Set(e.pf.Snapshot().DailyPnL)

			e.notify(ctx, notify.Closed(rec))
			e.log.Info().Str("symbol", p.Symbol).Str("trade_id", rec.TradeID).
				Str("reason", rec.Reason).Float64("pnl", rec.PnL).
				Float64("realized_rr", rec.RealizedRR).Msg("position closed")
			e.persist()
		}
	}
}

// flatten closes the open position at the given price, used at session
// close and on shutdown.
func (e *Engine) flatten(ctx context.Context, ins *instrument, price float64, t time.Time) {
	ev, ok := e.exits.Flatten(ins.position, price, t)
	if !ok {
		return
	}
	e.applyEvents(ctx, ins, []lifecycle.Event{ev})
}

// Stop flattens any remaining positions at their last close, sends the
// daily summary, persists state and closes the journal.
func (e *Engine) Stop(ctx context.Context) error {
	for _, ins := range e.instruments {
		if ins.position != nil && !ins.lastBar.IsZero() {
			e.flatten(ctx, ins, ins.lastClose, ins.lastBar)
		}
	}

	if stats, err := e.jnl.Stats(); err == nil {
		e.notify(ctx, notify.Summary(stats))
	}
	e.persist()
	return e.jnl.Close()
}

// openReturns collects the trailing return windows of all symbols with
// an open position, for the correlation check.
func (e *Engine) openReturns() map[string][]float64 {
	out := make(map[string][]float64)
	for sym := range e.pf.Snapshot().Open {
		if ins, ok := e.instruments[sym]; ok {
			out[sym] = ins.returns.Values()
		}
	}
	return out
}

func (e *Engine) notify(ctx context.Context, ev notify.Event) {
	if err := e.ntf.Notify(ctx, ev); err != nil {
		e.log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("notification failed")
	}
}
