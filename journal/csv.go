package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

// CSVJournal appends records to a CSV file, keeping a copy in memory so
// Stats stays cheap.
type CSVJournal struct {
	mu      sync.Mutex
	w       *csv.Writer
	f       *os.File
	records []PerformanceRecord
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	header := []string{
		"trade_id", "symbol", "session", "sector", "direction", "condition",
		"entry", "initial_stop", "exit_avg", "shares", "pnl",
		"target_rr", "realized_rr", "win", "reason", "open_time", "close_time",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) Record(r PerformanceRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.w.Write([]string{
		r.TradeID, r.Symbol, r.Session, r.Sector, r.Direction, r.Condition,
		f(r.Entry), f(r.InitialStop), f(r.ExitAvg), f(r.Shares), f(r.PnL),
		f(r.TargetRR), f(r.RealizedRR), strconv.FormatBool(r.Win), r.Reason,
		r.OpenTime.Format(time.RFC3339), r.CloseTime.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}

	j.records = append(j.records, r)
	return nil
}

func (j *CSVJournal) Stats() (Stats, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return aggregate(j.records), nil
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.w.Flush()
	return j.f.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
