package ytd

import (
	"context"
	"sync"
)

type recordKey struct {
	staffNumber int
	period      int
}

// MemoryStore is an in-process StoreAPI for tests and dry runs. The
// mutex serializes writers per the same uniqueness boundary the SQL
// backends get from their unique key.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey]Record)}
}

func (s *MemoryStore) WriteRecord(_ context.Context, rec Record) error {
	if err := rec.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{rec.StaffNumber, rec.Period}] = rec
	return nil
}

func (s *MemoryStore) PeriodRecord(_ context.Context, staffNumber, period int) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[recordKey{staffNumber, period}]; ok {
		return rec, nil
	}
	return Record{StaffNumber: staffNumber, Period: period}, nil
}

func (s *MemoryStore) Cumulative(_ context.Context, staffNumber, upToPeriod int) (Cumulative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agg := Cumulative{StaffNumber: staffNumber}
	for key, rec := range s.records {
		if key.staffNumber != staffNumber || key.period > upToPeriod {
			continue
		}
		agg.Tier1 += rec.Tier1
		agg.Tier2 += rec.Tier2
		agg.GrossPay += rec.GrossPay
	}
	return agg, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
