package indicators

import (
	"fmt"
	"math"

	"github.com/dxbquant/orb/market"
)

// ATR is a streaming Average True Range indicator (Wilder smoothing).
// It also tracks the running mean of all true ranges seen, which the
// regime classifier uses to normalize current volatility.
type ATR struct {
	period      int
	atr         float64
	count       int
	warmupSum   float64
	prevBar     market.Bar
	hasPrevious bool

	trSum   float64
	trCount int
}

// NewATR creates an Average True Range indicator with the given period.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

func (a *ATR) Warmup() int {
	// Need period+1 bars because TR requires the previous bar.
	return a.period + 1
}

func (a *ATR) Reset() {
	a.atr = 0
	a.count = 0
	a.warmupSum = 0
	a.hasPrevious = false
	a.trSum = 0
	a.trCount = 0
}

func (a *ATR) Update(b market.Bar) {
	if !a.hasPrevious {
		a.prevBar = b
		a.hasPrevious = true
		return
	}

	tr := trueRange(b, a.prevBar)
	a.trSum += tr
	a.trCount++

	if a.count < a.period {
		// During warmup, accumulate sum for the initial average.
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
	} else {
		// Wilder's smoothing.
		a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
	}

	a.prevBar = b
}

func (a *ATR) Ready() bool {
	return a.count >= a.period
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}

// Mean returns the running mean of all true ranges processed so far.
func (a *ATR) Mean() float64 {
	if a.trCount == 0 {
		return 0
	}
	return a.trSum / float64(a.trCount)
}

// trueRange calculates the True Range for a bar given the previous bar.
func trueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
