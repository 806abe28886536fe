package market

import "time"

// Bar is a single OHLCV bar for one instrument. Bars arrive strictly
// time-ordered per instrument; missing bars are tolerated upstream.
type Bar struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range returns the high-low spread of the bar.
func (b Bar) Range() float64 {
	return b.High - b.Low
}
