package records

import (
	"context"
	"slices"
	"sync"
	"time"
)

// memoryStore keeps records in a map keyed by the natural key
type memoryStore struct {
	mu      sync.RWMutex
	records map[Key]Record
	now     func() time.Time
}

// NewMemoryStore creates an in-process Store
func NewMemoryStore() Store {
	return &memoryStore{
		records: make(map[Key]Record),
		now:     time.Now,
	}
}

func (m *memoryStore) UpsertRecords(_ context.Context, recs []Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	affected := 0
	for _, r := range Dedupe(recs) {
		if r.Validate() != nil {
			continue
		}
		if existing, ok := m.records[r.Key()]; ok && !existing.Synthetic && r.Synthetic {
			continue
		}
		r.FallbackFields = slices.Clone(r.FallbackFields)
		r.UpdatedAt = now
		m.records[r.Key()] = r
		affected++
	}
	return affected, nil
}

func (m *memoryStore) FindRecords(_ context.Context, q Query) ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, 0)
	for _, r := range m.records {
		if r.DistrictCode != q.DistrictCode {
			continue
		}
		if q.FinancialYear != "" && r.FinancialYear != q.FinancialYear {
			continue
		}
		r.FallbackFields = slices.Clone(r.FallbackFields)
		out = append(out, r)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, Compare)
	if q.SortDesc {
		slices.Reverse(out)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}
