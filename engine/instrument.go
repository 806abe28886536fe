package engine

import (
	"time"

	"github.com/dxbquant/orb/bias"
	"github.com/dxbquant/orb/config"
	"github.com/dxbquant/orb/lifecycle"
	"github.com/dxbquant/orb/market"
	"github.com/dxbquant/orb/openrange"
	"github.com/dxbquant/orb/regime"
	"github.com/dxbquant/orb/risk"
	"github.com/dxbquant/orb/volume"
)

// returnWindowBars is how many trailing per-bar returns feed the
// cross-instrument correlation check.
const returnWindowBars = 50

// instrument is the per-symbol analysis arena. Each instrument owns its
// own tracker state and is only ever touched by the sequential bar
// pipeline, so none of it needs locking.
type instrument struct {
	inst market.Instrument

	rng     *openrange.Tracker
	bias    *bias.MultiTF
	vol     *volume.Analyzer
	regime  *regime.Tracker
	returns *risk.ReturnWindow

	position *lifecycle.Position

	sessionDate time.Time
	lastBar     time.Time
	lastClose   float64
}

func newInstrument(inst market.Instrument, s config.StrategyConfig) *instrument {
	return &instrument{
		inst:    inst,
		rng:     openrange.NewTracker(s.OpeningRangeBars),
		bias:    bias.NewMultiTF(s.BiasShortEMA, s.BiasMediumEMA, 3, 12),
		vol:     volume.NewAnalyzer(s.VolumeShortPeriod, s.VolumeLongPeriod, s.Volume),
		regime:  regime.NewTracker(s.Regime),
		returns: risk.NewReturnWindow(returnWindowBars),
	}
}
