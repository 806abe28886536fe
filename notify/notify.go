// Package notify pushes trade events to the operator. Delivery failure
// is never fatal to the engine; callers log the error and move on.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dxbquant/orb/confirm"
	"github.com/dxbquant/orb/journal"
	"github.com/dxbquant/orb/lifecycle"
)

type Kind string

const (
	KindSignal   Kind = "signal"
	KindOpened   Kind = "opened"
	KindTPHit    Kind = "tp_hit"
	KindClosed   Kind = "closed"
	KindRejected Kind = "rejected"
	KindSummary  Kind = "summary"
)

type Event struct {
	Kind  Kind
	Title string
	Body  string
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Signal formats a confirmed breakout signal with its factor breakdown.
func Signal(s confirm.Signal) Event {
	var factors []string
	if s.Factors.StrongVolume {
		factors = append(factors, "strong volume")
	}
	if s.Factors.BiasAligned {
		factors = append(factors, "bias aligned")
	}
	if s.Factors.RegimeSuitable {
		factors = append(factors, "regime suitable")
	}
	if s.Factors.VolumeSurge {
		factors = append(factors, "volume surge")
	}

	return Event{
		Kind:  KindSignal,
		Title: fmt.Sprintf("Signal %s %s", s.Direction, s.Symbol),
		Body: fmt.Sprintf("regime %s, target R:R %.1f, %d/4 factors: %s",
			s.Condition, s.TargetRR, s.Confirmations, strings.Join(factors, ", ")),
	}
}

// Opened formats a position entry.
func Opened(p *lifecycle.Position) Event {
	return Event{
		Kind:  KindOpened,
		Title: fmt.Sprintf("Opened %s %s x%.0f @ %.4f", p.Direction, p.Symbol, p.Shares, p.Entry),
		Body: fmt.Sprintf("[%s] stop %.4f, TP %.4f / %.4f / %.4f, target R:R %.1f",
			p.Session, p.Stop, p.TP1, p.TP2, p.TP3, p.TargetRR),
	}
}

// TPHit formats a partial take-profit.
func TPHit(ev lifecycle.Event) Event {
	p := ev.Position
	return Event{
		Kind:  KindTPHit,
		Title: fmt.Sprintf("%s hit on %s @ %.4f", ev.Type, p.Symbol, ev.Price),
		Body: fmt.Sprintf("[%s] remaining %.0f%%, stop now %.4f",
			p.Session, p.RemainingFrac*100, p.Stop),
	}
}

// Closed formats a completed trade from its journal record.
func Closed(r journal.PerformanceRecord) Event {
	outcome := "LOSS"
	if r.Win {
		outcome = "WIN"
	}
	return Event{
		Kind:  KindClosed,
		Title: fmt.Sprintf("Closed %s %s: %s %.2f", r.Direction, r.Symbol, outcome, r.PnL),
		Body: fmt.Sprintf("[%s] %s, realized R:R %.2f (target %.1f), exit avg %.4f",
			r.Session, r.Reason, r.RealizedRR, r.TargetRR, r.ExitAvg),
	}
}

// Rejected formats a risk rejection with its reason codes.
func Rejected(symbol string, reasons []string) Event {
	return Event{
		Kind:  KindRejected,
		Title: fmt.Sprintf("Rejected %s", symbol),
		Body:  strings.Join(reasons, ", "),
	}
}

// Summary formats end-of-day performance stats.
func Summary(s journal.Stats) Event {
	return Event{
		Kind:  KindSummary,
		Title: "Daily summary",
		Body: fmt.Sprintf("%d trades, %d wins (%.1f%%), avg R:R %.2f, P&L %.2f",
			s.Trades, s.Wins, s.WinRate, s.AvgRR, s.TotalPnL),
	}
}

// Noop discards all events.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }
