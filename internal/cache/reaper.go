package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultReapInterval is used when NewReaper is given a non-positive interval
const DefaultReapInterval = 10 * time.Minute

// Reaper periodically removes expired entries from a Store
type Reaper struct {
	store    Store
	interval time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewReaper creates a Reaper running every interval. A non-positive
// interval is replaced by DefaultReapInterval.
func NewReaper(store Store, interval time.Duration) *Reaper {
	if interval <= 0 {
		slog.Warn("Invalid cache reap interval, using default", "interval", interval, "default", DefaultReapInterval)
		interval = DefaultReapInterval
	}
	return &Reaper{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the reaper loop. It blocks until ctx is cancelled or Stop is
// called. Only the first call runs the loop.
func (r *Reaper) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("Starting cache reaper", "interval", r.interval)

	for {
		select {
		case <-ticker.C:
			r.reap(ctx)
		case <-ctx.Done():
			slog.Info("Cache reaper stopping")
			return
		case <-r.stop:
			slog.Info("Cache reaper stopping")
			return
		}
	}
}

// Stop ends the loop and waits for it to exit
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	if r.started.Load() {
		<-r.done
	}
}

func (r *Reaper) reap(ctx context.Context) {
	deleted, err := r.store.DeleteExpired(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to reap expired cache entries", "error", err)
		return
	}
	if deleted > 0 {
		slog.DebugContext(ctx, "Reaped expired cache entries", "count", deleted)
	}
}
