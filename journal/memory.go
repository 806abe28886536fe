package journal

import "sync"

// MemoryJournal keeps records in memory. Used in tests and dry runs.
type MemoryJournal struct {
	mu      sync.Mutex
	records []PerformanceRecord
}

func NewMemory() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Record(r PerformanceRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, r)
	return nil
}

func (j *MemoryJournal) Stats() (Stats, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return aggregate(j.records), nil
}

// Records returns a copy of everything recorded so far.
func (j *MemoryJournal) Records() []PerformanceRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]PerformanceRecord, len(j.records))
	copy(out, j.records)
	return out
}

func (j *MemoryJournal) Close() error { return nil }
