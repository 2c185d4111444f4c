package cache

import (
	"context"
	"time"

	"github.com/stacklok/mgnrega-dashboard-server/internal/telemetry"
)

// instrumentedStore records hit and miss counts for every lookup
type instrumentedStore struct {
	Store
	metrics *telemetry.CacheMetrics
}

// WithMetrics wraps s so that Get records lookups on metrics.
// A nil metrics returns s unchanged.
func WithMetrics(s Store, metrics *telemetry.CacheMetrics) Store {
	if metrics == nil {
		return s
	}
	return &instrumentedStore{Store: s, metrics: metrics}
}

func (i *instrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := i.Store.Get(ctx, key)
	if err == nil {
		i.metrics.RecordLookup(ctx, Kind(key), found)
	}
	return value, found, err
}

func (i *instrumentedStore) Generation() uint64 {
	return Generation(i.Store)
}

func (i *instrumentedStore) SetIfGeneration(ctx context.Context, key string, value []byte, ttl time.Duration, gen uint64) (bool, error) {
	if g, ok := i.Store.(Generational); ok {
		return g.SetIfGeneration(ctx, key, value, ttl, gen)
	}
	return true, i.Store.Set(ctx, key, value, ttl)
}
