// Package journal persists closed-trade outcomes and aggregates them
// into rolling statistics. Records are append-only; stats are computed
// on demand and feed reporting only, never strategy logic.
package journal

import "time"

// PerformanceRecord is one closed trade outcome.
type PerformanceRecord struct {
	TradeID   string
	Symbol    string
	Session   string
	Sector    string
	Direction string
	Condition string // market condition at entry

	Entry       float64
	InitialStop float64
	ExitAvg     float64 // weighted average exit across staged closes
	Shares      float64
	PnL         float64

	TargetRR   float64
	RealizedRR float64
	Win        bool
	Reason     string

	OpenTime  time.Time
	CloseTime time.Time
}

// Stats is the aggregated view over all recorded trades.
type Stats struct {
	Trades   int
	Wins     int
	WinRate  float64 // percent
	AvgRR    float64
	TotalPnL float64

	ByCondition map[string]int
	BySession   map[string]int
}

// Journal is the persistence interface for closed trades.
type Journal interface {
	Record(PerformanceRecord) error
	Stats() (Stats, error)
	Close() error
}

// aggregate folds records into Stats; shared by the in-memory and CSV
// backends.
func aggregate(records []PerformanceRecord) Stats {
	s := Stats{
		ByCondition: make(map[string]int),
		BySession:   make(map[string]int),
	}

	var rrSum float64
	for _, r := range records {
		s.Trades++
		if r.Win {
			s.Wins++
		}
		rrSum += r.RealizedRR
		s.TotalPnL += r.PnL
		s.ByCondition[r.Condition]++
		s.BySession[r.Session]++
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades) * 100
		s.AvgRR = rrSum / float64(s.Trades)
	}
	return s
}
