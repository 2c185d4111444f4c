package storage

import (
	"context"
	"log/slog"

	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
)

// MemoryFactory creates in-process storage components. Nothing survives a
// restart; the catalog starts with the seed states and districts.
type MemoryFactory struct {
	records records.Store
	cache   cache.Store
	catalog reference.Catalog
}

var _ Factory = (*MemoryFactory)(nil)

// NewMemoryFactory creates a new memory-backed storage factory.
// Repeated Create calls return the same instances.
func NewMemoryFactory() *MemoryFactory {
	slog.Info("Creating memory-backed storage factory")
	return &MemoryFactory{
		records: records.NewMemoryStore(),
		cache:   cache.NewMemoryStore(),
		catalog: reference.NewMemoryCatalog(reference.SeedStates, reference.SeedDistricts),
	}
}

// CreateRecordStore returns the in-memory record store.
func (m *MemoryFactory) CreateRecordStore(_ context.Context) (records.Store, error) {
	return m.records, nil
}

// CreateCacheStore returns the in-memory cache store.
func (m *MemoryFactory) CreateCacheStore(_ context.Context) (cache.Store, error) {
	return m.cache, nil
}

// CreateCatalog returns the in-memory reference catalog.
func (m *MemoryFactory) CreateCatalog(_ context.Context) (reference.Catalog, error) {
	return m.catalog, nil
}

// Cleanup is a no-op for memory storage.
func (*MemoryFactory) Cleanup() {}
