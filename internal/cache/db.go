package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/mgnrega-dashboard-server/internal/db/sqlc"
)

// dbStore keeps entries in the api_cache table. Every operation is a single
// statement and the current time is passed in, so expiry follows the
// injected clock rather than the database clock. The generation is local
// to the process: invalidations hold genMu exclusively while conditional
// writes hold it shared.
type dbStore struct {
	pool *pgxpool.Pool
	now  Clock

	genMu      sync.RWMutex
	generation uint64
}

// NewDBStore creates a Store backed by PostgreSQL.
// The caller is responsible for closing the pool when done.
func NewDBStore(pool *pgxpool.Pool, opts ...Option) (Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	o := newOptions(opts)
	return &dbStore{pool: pool, now: o.now}, nil
}

func (d *dbStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := sqlc.New(d.pool).GetCacheEntry(ctx, sqlc.GetCacheEntryParams{
		CacheKey: key,
		Now:      d.now(),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry %s: %w", key, err)
	}
	return data, true, nil
}

func (d *dbStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := d.now()
	err := sqlc.New(d.pool).UpsertCacheEntry(ctx, sqlc.UpsertCacheEntryParams{
		CacheKey:  key,
		Data:      value,
		ExpiresAt: now.Add(ttl),
		Now:       now,
	})
	if err != nil {
		return fmt.Errorf("failed to set cache entry %s: %w", key, err)
	}
	return nil
}

func (d *dbStore) Generation() uint64 {
	d.genMu.RLock()
	defer d.genMu.RUnlock()
	return d.generation
}

func (d *dbStore) SetIfGeneration(ctx context.Context, key string, value []byte, ttl time.Duration, gen uint64) (bool, error) {
	d.genMu.RLock()
	defer d.genMu.RUnlock()

	if d.generation != gen {
		return false, nil
	}
	if err := d.Set(ctx, key, value, ttl); err != nil {
		return false, err
	}
	return true, nil
}

func (d *dbStore) Delete(ctx context.Context, key string) error {
	d.genMu.Lock()
	defer d.genMu.Unlock()
	d.generation++

	if err := sqlc.New(d.pool).DeleteCacheEntry(ctx, key); err != nil {
		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}
	return nil
}

func (d *dbStore) ClearPattern(ctx context.Context, pattern string) (int64, error) {
	// Reject what Go cannot parse before PostgreSQL sees it; the supported
	// syntax is the common subset of RE2 and POSIX ARE.
	if _, err := compilePattern(pattern); err != nil {
		return 0, err
	}

	d.genMu.Lock()
	defer d.genMu.Unlock()
	d.generation++

	deleted, err := sqlc.New(d.pool).DeleteCacheEntriesMatching(ctx, pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache pattern %s: %w", pattern, err)
	}
	return deleted, nil
}

func (d *dbStore) DeleteExpired(ctx context.Context) (int64, error) {
	deleted, err := sqlc.New(d.pool).DeleteExpiredCacheEntries(ctx, d.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	return deleted, nil
}

func (d *dbStore) Stats(ctx context.Context) (Stats, error) {
	row, err := sqlc.New(d.pool).GetCacheStats(ctx, d.now())
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get cache stats: %w", err)
	}
	return Stats{
		Total:   row.Total,
		Active:  row.Active,
		Expired: row.Total - row.Active,
	}, nil
}
