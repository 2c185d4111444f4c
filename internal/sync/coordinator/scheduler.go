package coordinator

import (
	"context"
	"errors"
	"log/slog"
	gosync "sync"
	"sync/atomic"
	"time"

	pkgsync "github.com/stacklok/mgnrega-dashboard-server/internal/sync"
)

// DefaultInterval is used when NewScheduler is given a non-positive interval
const DefaultInterval = 24 * time.Hour

// Syncer starts a sync run
type Syncer interface {
	StartSync(ctx context.Context) (*Result, error)
}

var _ Syncer = (*Coordinator)(nil)

// Scheduler triggers a sync every interval. Failures are logged and never
// stop the loop.
type Scheduler struct {
	syncer     Syncer
	interval   time.Duration
	runOnStart bool

	started  atomic.Bool
	stopOnce gosync.Once
	stop     chan struct{}
	done     chan struct{}
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithRunOnStart triggers one sync as soon as Start is called
func WithRunOnStart(enabled bool) SchedulerOption {
	return func(s *Scheduler) {
		s.runOnStart = enabled
	}
}

// NewScheduler creates a Scheduler for syncer
func NewScheduler(syncer Syncer, interval time.Duration, opts ...SchedulerOption) *Scheduler {
	if interval <= 0 {
		slog.Warn("Invalid sync interval, using default", "interval", interval, "default", DefaultInterval)
		interval = DefaultInterval
	}
	s := &Scheduler{
		syncer:   syncer,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the scheduling loop. It blocks until ctx is cancelled or Stop
// is called. Only the first call runs the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("scheduler already started")
	}
	defer func() {
		close(s.done)
		slog.Info("Sync scheduler shutting down")
	}()

	slog.Info("Starting sync scheduler", "interval", s.interval, "run_on_start", s.runOnStart)

	if s.runOnStart {
		s.trigger(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.trigger(ctx)
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		}
	}
}

// Stop ends the loop and waits for an in-flight trigger to return
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.started.Load() {
		<-s.done
	}
	return nil
}

func (s *Scheduler) trigger(ctx context.Context) {
	slog.InfoContext(ctx, "Scheduled sync started")
	result, err := s.syncer.StartSync(ctx)
	switch {
	case errors.Is(err, pkgsync.ErrSyncInProgress):
		slog.WarnContext(ctx, "Scheduled sync skipped, another sync is running")
	case err != nil:
		slog.ErrorContext(ctx, "Scheduled sync failed", "error", err)
	default:
		slog.InfoContext(ctx, "Scheduled sync completed",
			"records_processed", result.RecordsProcessed,
			"source", result.Source)
	}
}
