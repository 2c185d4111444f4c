package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
	"github.com/stacklok/mgnrega-dashboard-server/internal/db"
	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
)

// DatabaseFactory creates database-backed storage components.
// All components created by this factory share one PostgreSQL pool.
type DatabaseFactory struct {
	pool *pgxpool.Pool
}

var _ Factory = (*DatabaseFactory)(nil)

// NewDatabaseFactory creates a new database-backed storage factory.
// It establishes a connection pool to the configured PostgreSQL database.
func NewDatabaseFactory(ctx context.Context, cfg *config.Config) (*DatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.Database == nil {
		return nil, fmt.Errorf("database configuration is required for database storage type")
	}

	slog.Info("Creating database-backed storage factory",
		"host", cfg.Database.Host,
		"database", cfg.Database.Database,
	)

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	return &DatabaseFactory{pool: pool}, nil
}

// NewDatabaseFactoryFromPool wraps an existing pool. Cleanup closes it.
func NewDatabaseFactoryFromPool(pool *pgxpool.Pool) *DatabaseFactory {
	return &DatabaseFactory{pool: pool}
}

// CreateRecordStore creates a database-backed record store.
func (d *DatabaseFactory) CreateRecordStore(_ context.Context) (records.Store, error) {
	slog.Debug("Creating database-backed record store")
	return records.NewDBStore(d.pool)
}

// CreateCacheStore creates a database-backed cache store.
func (d *DatabaseFactory) CreateCacheStore(_ context.Context) (cache.Store, error) {
	slog.Debug("Creating database-backed cache store")
	return cache.NewDBStore(d.pool)
}

// CreateCatalog creates a database-backed reference catalog.
func (d *DatabaseFactory) CreateCatalog(_ context.Context) (reference.Catalog, error) {
	slog.Debug("Creating database-backed reference catalog")
	return reference.NewDBCatalog(d.pool)
}

// Cleanup closes the database connection pool.
func (d *DatabaseFactory) Cleanup() {
	if d.pool != nil {
		slog.Info("Closing database connection pool")
		d.pool.Close()
	}
}
