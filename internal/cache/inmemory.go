package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryStore keeps entries in a map behind a RWMutex. Expired entries are
// filtered on read and removed by DeleteExpired.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     Clock
	// generation counts Delete and ClearPattern calls
	generation uint64
}

// NewMemoryStore creates an in-process Store
func NewMemoryStore(opts ...Option) Store {
	o := newOptions(opts)
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		now:     o.now,
	}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || !entry.expiresAt.After(m.now()) {
		return nil, false, nil
	}
	return slices.Clone(entry.value), true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.set(key, value, ttl)
	return nil
}

func (m *memoryStore) SetIfGeneration(_ context.Context, key string, value []byte, ttl time.Duration, gen uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		return false, nil
	}
	m.set(key, value, ttl)
	return true, nil
}

// set must be called with mu held
func (m *memoryStore) set(key string, value []byte, ttl time.Duration) {
	m.entries[key] = memoryEntry{
		value:     slices.Clone(value),
		expiresAt: m.now().Add(ttl),
	}
}

func (m *memoryStore) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	delete(m.entries, key)
	return nil
}

func (m *memoryStore) ClearPattern(_ context.Context, pattern string) (int64, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	var deleted int64
	for key := range m.entries {
		if re.MatchString(key) {
			delete(m.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memoryStore) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var deleted int64
	for key, entry := range m.entries {
		if !entry.expiresAt.After(now) {
			delete(m.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memoryStore) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	stats := Stats{Total: int64(len(m.entries))}
	for _, entry := range m.entries {
		if entry.expiresAt.After(now) {
			stats.Active++
		}
	}
	stats.Expired = stats.Total - stats.Active
	return stats, nil
}
