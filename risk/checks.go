package risk

import (
	"fmt"

	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/regime"
)

// Rejection reason codes. Every rejected intent carries at least one;
// rejections are reported, never silently dropped.
const (
	CodeNoStopOrEntry   = "NO_STOP_OR_ENTRY"
	CodeDailyTradeLimit = "DAILY_TRADE_LIMIT"
	CodeDailyLossLimit  = "DAILY_LOSS_LIMIT"
	CodeSectorLimit     = "SECTOR_LIMIT"
	CodeAlreadyHeld     = "ALREADY_HELD"
	CodeCorrelated      = "CORRELATED"
	CodeZeroSize        = "ZERO_SIZE"
)

// Violation is one failed risk check.
type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of evaluating a trade intent against the
// policy and the current portfolio snapshot.
type Decision struct {
	Allowed    bool
	Violations []Violation

	Size Size
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Reasons returns the violation codes, for notifications and logs.
func (d Decision) Reasons() []string {
	out := make([]string, len(d.Violations))
	for i, v := range d.Violations {
		out[i] = v.Code
	}
	return out
}

// Intent is a confirmed signal translated into a concrete trade request.
type Intent struct {
	Symbol    string
	Sector    string
	Direction market.Direction
	Condition regime.Condition

	Entry float64
	Stop  float64

	// Returns is the candidate's trailing return window; OpenReturns
	// maps currently open symbols to theirs. Both feed the pairwise
	// correlation check.
	Returns     []float64
	OpenReturns map[string][]float64
}

// Snapshot is a point-in-time copy of the shared portfolio state.
type Snapshot struct {
	Equity      float64
	TradesToday int
	DailyPnL    float64
	Open        map[string]OpenPosition
	SectorCount map[string]int
}

// Evaluate runs every risk check for the intent against the snapshot
// and, if allowed, sizes the position. Pure function of its arguments:
// callers own atomicity (see Portfolio.Admit). All violations are
// collected, not just the first.
func Evaluate(p Policy, intent Intent, snap Snapshot) Decision {
	d := Decision{Allowed: true}

	if intent.Entry <= 0 || intent.Stop <= 0 || intent.Entry == intent.Stop {
		d.add(CodeNoStopOrEntry, "entry and stop must be set and distinct")
		return d
	}

	if snap.TradesToday >= p.MaxDailyTrades {
		d.add(CodeDailyTradeLimit,
			fmt.Sprintf("trades today %d >= max %d", snap.TradesToday, p.MaxDailyTrades))
	}

	lossLimit := -p.MaxDailyLossPct * snap.Equity
	if snap.DailyPnL <= lossLimit {
		d.add(CodeDailyLossLimit,
			fmt.Sprintf("day realized %.2f <= limit %.2f", snap.DailyPnL, lossLimit))
	}

	if _, held := snap.Open[intent.Symbol]; held {
		d.add(CodeAlreadyHeld, fmt.Sprintf("%s already has an open position", intent.Symbol))
	}

	if snap.SectorCount[intent.Sector] >= p.SectorCap {
		d.add(CodeSectorLimit,
			fmt.Sprintf("sector %s holds %d open positions (cap %d)",
				intent.Sector, snap.SectorCount[intent.Sector], p.SectorCap))
	}

	for sym := range snap.Open {
		ret, ok := intent.OpenReturns[sym]
		if !ok {
			continue
		}
		if c := Correlation(intent.Returns, ret); c > p.CorrelationThreshold {
			d.add(CodeCorrelated,
				fmt.Sprintf("%s correlates %.2f with open %s (threshold %.2f)",
					intent.Symbol, c, sym, p.CorrelationThreshold))
			break
		}
	}

	size := Calculate(Inputs{
		Equity:      snap.Equity,
		RiskPct:     p.RiskPerTrade,
		Multiplier:  regime.RiskMultiplier(intent.Condition),
		Entry:       intent.Entry,
		Stop:        intent.Stop,
		MaxValuePct: p.MaxPositionValuePct,
	})
	if size.Shares <= 0 {
		d.add(CodeZeroSize, "calculated position size is zero")
	}
	d.Size = size

	return d
}
