// Package cache provides the TTL key/value store that shields read traffic
// and upstream quota. Entries whose expiry is not strictly after now are
// treated as absent whether or not they were physically removed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidPattern is returned by ClearPattern for a pattern that is not a valid regular expression
var ErrInvalidPattern = errors.New("invalid cache key pattern")

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/stacklok/mgnrega-dashboard-server/internal/cache Store

// Store is a TTL key/value store. Errors only report store failures;
// a missing or expired key is reported through the found flag.
type Store interface {
	// Get returns the value of key if it exists and has not expired
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set creates or overwrites key, expiring it ttl from now
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ClearPattern removes every key matching the regular expression pattern
	// and returns how many entries were removed
	ClearPattern(ctx context.Context, pattern string) (int64, error)

	// DeleteExpired physically removes expired entries
	DeleteExpired(ctx context.Context) (int64, error)

	// Stats returns entry counts
	Stats(ctx context.Context) (Stats, error)
}

// Generational is implemented by stores that count invalidations. The
// generation advances on every Delete and ClearPattern, so a writer that
// read it before loading a value can refuse to cache data that an
// invalidation has since superseded.
type Generational interface {
	// Generation returns the current invalidation generation
	Generation() uint64

	// SetIfGeneration behaves like Set but only writes while the generation
	// is still gen. It reports whether the entry was written.
	SetIfGeneration(ctx context.Context, key string, value []byte, ttl time.Duration, gen uint64) (bool, error)
}

// Generation returns the invalidation generation of s, or 0 for stores that
// do not track one
func Generation(s Store) uint64 {
	if g, ok := s.(Generational); ok {
		return g.Generation()
	}
	return 0
}

// Stats is a snapshot of the entry counts of a Store
type Stats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Expired int64 `json:"expired"`
}

// Clock returns the current time
type Clock func() time.Time

// Option configures a Store implementation
type Option func(*options)

type options struct {
	now Clock
}

// WithClock overrides the clock used for expiry decisions
func WithClock(now Clock) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	return re, nil
}

// GetJSON reads key and decodes it into a T. An undecodable payload is
// reported as an error with found=false.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var v T
	data, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return v, true, nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	return s.Set(ctx, key, data, ttl)
}

// SetJSONIfGeneration encodes v and stores it under key unless the store has
// been invalidated since gen was read. Stores without generations always write.
func SetJSONIfGeneration(ctx context.Context, s Store, key string, v any, ttl time.Duration, gen uint64) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	if g, ok := s.(Generational); ok {
		return g.SetIfGeneration(ctx, key, data, ttl, gen)
	}
	return true, s.Set(ctx, key, data, ttl)
}
