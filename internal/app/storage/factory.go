// Package storage provides factory functions for creating storage-dependent components.
// It implements the Abstract Factory pattern so the record store, the cache store and
// the reference catalog are always created on the same backend.
package storage

import (
	"context"
	"fmt"

	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
)

// Factory creates storage-dependent components as a family.
//
// It also manages the lifecycle of storage resources (e.g., database connections).
type Factory interface {
	// CreateRecordStore creates the store of normalized monthly records
	CreateRecordStore(ctx context.Context) (records.Store, error)

	// CreateCacheStore creates the response cache
	CreateCacheStore(ctx context.Context) (cache.Store, error)

	// CreateCatalog creates the catalog of states and districts
	CreateCatalog(ctx context.Context) (reference.Catalog, error)

	// Cleanup releases any resources held by this factory.
	// For database factories, this closes the connection pool.
	// Should be called when the application shuts down.
	Cleanup()
}

// NewStorageFactory creates a storage factory based on the configured storage type.
func NewStorageFactory(ctx context.Context, cfg *config.Config) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		return NewDatabaseFactory(ctx, cfg)
	case config.StorageTypeMemory:
		return NewMemoryFactory(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.GetStorageType())
	}
}
