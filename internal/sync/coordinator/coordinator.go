package coordinator

import (
	"context"
	"log/slog"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
	"github.com/stacklok/mgnrega-dashboard-server/internal/status"
	pkgsync "github.com/stacklok/mgnrega-dashboard-server/internal/sync"
	"github.com/stacklok/mgnrega-dashboard-server/internal/telemetry"
)

// TracerName is the name of the tracer used for sync run spans
const TracerName = "github.com/stacklok/mgnrega-dashboard-server/sync/coordinator"

// Result is returned by a successful StartSync
type Result struct {
	Success          bool                  `json:"success"`
	RunID            uuid.UUID             `json:"runId"`
	RecordsProcessed int                   `json:"recordsProcessed"`
	SyncTime         time.Time             `json:"syncTime"`
	DurationMs       int64                 `json:"durationMs"`
	Source           sources.Kind          `json:"source"`
	Stats            status.SyncStatistics `json:"stats"`
}

// Coordinator runs syncs one at a time and keeps their statistics
type Coordinator struct {
	manager pkgsync.Manager
	cache   cache.Store

	running atomic.Bool

	mu           gosync.Mutex
	stats        status.SyncStatistics
	lastSyncTime *time.Time
	lastRun      *status.SyncRun

	metrics *telemetry.SyncMetrics
	tracer  trace.Tracer
	now     func() time.Time
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithSyncMetrics sets the sync metrics for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(c *Coordinator) {
		c.metrics = metrics
	}
}

// WithTracerProvider enables a span per run
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) {
		if tp != nil {
			c.tracer = tp.Tracer(TracerName)
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Coordinator. store is the cache invalidated after each
// successful run.
func New(manager pkgsync.Manager, store cache.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		manager: manager,
		cache:   store,
		tracer:  noop.NewTracerProvider().Tracer(TracerName),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSync runs one sync if none is running. Otherwise it returns
// pkgsync.ErrSyncInProgress immediately. Failed runs return a *pkgsync.Error.
func (c *Coordinator) StartSync(ctx context.Context) (*Result, error) {
	if !c.running.CompareAndSwap(false, true) {
		c.metrics.RecordSyncRejected(ctx)
		slog.InfoContext(ctx, "Sync request rejected, another sync is running")
		return nil, pkgsync.ErrSyncInProgress
	}
	defer c.running.Store(false)

	ctx = context.WithoutCancel(ctx)
	run := status.SyncRun{ID: uuid.New(), StartedAt: c.now()}

	ctx, span := c.tracer.Start(ctx, "sync.run", trace.WithAttributes(attribute.String("sync.run_id", run.ID.String())))
	defer span.End()

	c.mu.Lock()
	c.stats.TotalRuns++
	c.mu.Unlock()

	slog.InfoContext(ctx, "Starting data sync", "run_id", run.ID)

	// Record a failure unless the run completes; covers panics in the manager.
	run.Outcome = status.OutcomeFailure
	run.Reason = "sync terminated unexpectedly"
	defer func() {
		if run.Outcome == status.OutcomeFailure {
			run.FinishedAt = c.now()
			c.finish(run)
		}
	}()

	result, syncErr := c.manager.PerformSync(ctx)
	if syncErr != nil {
		run.Reason = syncErr.Message
		span.RecordError(syncErr)
		span.SetStatus(codes.Error, string(syncErr.Stage))
		c.metrics.RecordSyncDuration(ctx, "unknown", c.now().Sub(run.StartedAt), false)
		slog.ErrorContext(ctx, "Data sync failed",
			"run_id", run.ID,
			"stage", syncErr.Stage,
			"error", syncErr.Message)
		return nil, syncErr
	}

	run.FinishedAt = c.now()
	run.Outcome = status.OutcomeSuccess
	run.Reason = ""
	run.Source = result.Source
	run.RecordsFetched = result.Fetched
	run.RecordsRejected = result.Rejected
	run.RecordsIngested = result.Ingested
	stats := c.finish(run)

	c.invalidate(ctx)

	span.SetAttributes(
		attribute.String("sync.source", string(result.Source)),
		attribute.Int("records.ingested", result.Ingested))
	c.metrics.RecordSyncDuration(ctx, string(result.Source), run.Duration(), true)
	slog.InfoContext(ctx, "Data sync completed",
		"run_id", run.ID,
		"source", result.Source,
		"fetched", result.Fetched,
		"rejected", result.Rejected,
		"ingested", result.Ingested,
		"failed_chunks", result.FailedChunks,
		"duration", run.Duration())

	return &Result{
		Success:          true,
		RunID:            run.ID,
		RecordsProcessed: result.Ingested,
		SyncTime:         run.FinishedAt,
		DurationMs:       run.Duration().Milliseconds(),
		Source:           result.Source,
		Stats:            stats,
	}, nil
}

// finish folds run into the statistics and returns a copy of them
func (c *Coordinator) finish(run status.SyncRun) status.SyncStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Record(run)
	if run.Outcome == status.OutcomeSuccess {
		finished := run.FinishedAt
		c.lastSyncTime = &finished
	}
	c.lastRun = &run
	return c.statsLocked()
}

// invalidate drops cache entries derived from the records. Errors are logged.
func (c *Coordinator) invalidate(ctx context.Context) {
	cleared, err := c.cache.ClearPattern(ctx, cache.DistrictDataPattern)
	if err != nil {
		slog.WarnContext(ctx, "Failed to invalidate district data cache", "error", err)
	}
	if err := c.cache.Delete(ctx, cache.StatesKey); err != nil {
		slog.WarnContext(ctx, "Failed to invalidate states cache", "error", err)
	}
	slog.DebugContext(ctx, "Invalidated cache after sync", "district_entries", cleared)
}

// Status returns a snapshot of the synchronizer
func (c *Coordinator) Status() status.SyncStatus {
	inProgress := c.running.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := status.SyncStatus{
		InProgress: inProgress,
		CanSync:    !inProgress,
		Stats:      c.statsLocked(),
	}
	if c.lastSyncTime != nil {
		t := *c.lastSyncTime
		s.LastSyncTime = &t
	}
	if c.lastRun != nil {
		run := *c.lastRun
		s.LastRun = &run
	}
	return s
}

// statsLocked copies the statistics. c.mu must be held.
func (c *Coordinator) statsLocked() status.SyncStatistics {
	stats := c.stats
	if stats.LastRunTime != nil {
		t := *stats.LastRunTime
		stats.LastRunTime = &t
	}
	return stats
}
