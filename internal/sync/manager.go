package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/ingest"
	"github.com/stacklok/mgnrega-dashboard-server/internal/normalize"
	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
	"github.com/stacklok/mgnrega-dashboard-server/internal/telemetry"
)

// TracerName is the name of the tracer used for sync spans
const TracerName = "github.com/stacklok/mgnrega-dashboard-server/sync"

// apiEndpoint names the upstream endpoint in API response cache keys
const apiEndpoint = "monthly"

var (
	// ErrSyncInProgress is returned when a sync is requested while another runs
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNoValidRecords is returned when every fetched record was rejected
	ErrNoValidRecords = errors.New("no valid records to ingest")
)

// Stage names the step of a run
type Stage string

const (
	// StageFetch retrieves raw records
	StageFetch Stage = "fetch"
	// StageNormalize converts raw records
	StageNormalize Stage = "normalize"
	// StageIngest writes records to the store
	StageIngest Stage = "ingest"
)

// Error is a failure that ended a run
type Error struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result contains the outcome of a successful run
type Result struct {
	Source   sources.Kind
	Fetched  int
	Rejected int
	Ingested int
	Chunks   int
	// FailedChunks were skipped after a storage error
	FailedChunks int
}

//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/stacklok/mgnrega-dashboard-server/internal/sync Manager

// Manager executes sync runs
type Manager interface {
	// PerformSync runs fetch, normalization and ingestion once
	PerformSync(ctx context.Context) (*Result, *Error)
}

// defaultSyncManager is the default implementation of Manager
type defaultSyncManager struct {
	source         sources.Source
	fallback       sources.Source
	params         sources.Params
	cache          cache.Store
	apiResponseTTL time.Duration
	normalizer     *normalize.Normalizer
	pipeline       *ingest.Pipeline
	metrics        *telemetry.SyncMetrics
	tracer         trace.Tracer
}

// Option configures the manager
type Option func(*defaultSyncManager)

// WithFallbackSource replaces the synthetic fallback source
func WithFallbackSource(s sources.Source) Option {
	return func(m *defaultSyncManager) {
		m.fallback = s
	}
}

// WithAPIResponseTTL sets how long upstream responses are cached
func WithAPIResponseTTL(ttl time.Duration) Option {
	return func(m *defaultSyncManager) {
		if ttl > 0 {
			m.apiResponseTTL = ttl
		}
	}
}

// WithSyncMetrics sets the metrics recorder
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(m *defaultSyncManager) {
		m.metrics = metrics
	}
}

// WithTracerProvider enables spans around each stage
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *defaultSyncManager) {
		if tp != nil {
			m.tracer = tp.Tracer(TracerName)
		}
	}
}

// NewManager creates a Manager reading from source with params
func NewManager(
	source sources.Source,
	params sources.Params,
	store cache.Store,
	normalizer *normalize.Normalizer,
	pipeline *ingest.Pipeline,
	opts ...Option,
) Manager {
	m := &defaultSyncManager{
		source:         source,
		fallback:       sources.NewSyntheticSource(),
		params:         params,
		cache:          store,
		apiResponseTTL: 30 * time.Minute,
		normalizer:     normalizer,
		pipeline:       pipeline,
		tracer:         noop.NewTracerProvider().Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PerformSync executes one run
func (m *defaultSyncManager) PerformSync(ctx context.Context) (*Result, *Error) {
	raws, kind, syncErr := m.fetch(ctx)
	if syncErr != nil {
		return nil, syncErr
	}

	recs, rejected, syncErr := m.normalize(ctx, raws, kind)
	if syncErr != nil {
		return nil, syncErr
	}

	ctx, span := m.tracer.Start(ctx, "sync.ingest", trace.WithAttributes(attribute.Int("records.count", len(recs))))
	defer span.End()

	summary, err := m.pipeline.UpsertBatch(ctx, recs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingestion failed")
		return nil, &Error{
			Stage:   StageIngest,
			Message: fmt.Sprintf("Ingestion failed: %v", err),
			Err:     err,
		}
	}
	span.SetAttributes(attribute.Int("records.ingested", summary.Ingested))

	return &Result{
		Source:       kind,
		Fetched:      len(raws),
		Rejected:     rejected,
		Ingested:     summary.Ingested,
		Chunks:       summary.Chunks,
		FailedChunks: summary.FailedChunks,
	}, nil
}

// fetch reads through the API response cache. Upstream failures switch to
// the fallback source, whose payloads are never cached.
func (m *defaultSyncManager) fetch(ctx context.Context) ([]sources.RawRecord, sources.Kind, *Error) {
	ctx, span := m.tracer.Start(ctx, "sync.fetch")
	defer span.End()

	key := cache.APIResponseKey(apiEndpoint, m.params.CacheParams())

	cached, found, err := cache.GetJSON[[]sources.RawRecord](ctx, m.cache, key)
	if err != nil {
		slog.WarnContext(ctx, "API response cache unavailable, fetching upstream", "error", err)
	}
	if found && len(cached) > 0 {
		slog.InfoContext(ctx, "Using cached API response", "records", len(cached))
		span.SetAttributes(attribute.String("sync.source", string(sources.KindCached)))
		return cached, sources.KindCached, nil
	}

	raws, err := m.source.Fetch(ctx, m.params)
	if err == nil {
		if err := cache.SetJSON(ctx, m.cache, key, raws, m.apiResponseTTL); err != nil {
			slog.WarnContext(ctx, "Failed to cache API response", "error", err)
		}
		span.SetAttributes(attribute.String("sync.source", string(sources.KindReal)))
		return raws, sources.KindReal, nil
	}

	kind, _ := sources.IsFetchError(err)
	slog.WarnContext(ctx, "Upstream fetch failed, using synthetic data",
		"fetch_error_kind", kind,
		"error", err)
	span.AddEvent("upstream fetch failed", trace.WithAttributes(attribute.String("fetch.error_kind", string(kind))))

	raws, err = m.fallback.Fetch(ctx, m.params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, "", &Error{
			Stage:   StageFetch,
			Message: fmt.Sprintf("Fetch failed: %v", err),
			Err:     err,
		}
	}
	span.SetAttributes(attribute.String("sync.source", string(sources.KindSynthetic)))
	return raws, sources.KindSynthetic, nil
}

func (m *defaultSyncManager) normalize(
	ctx context.Context, raws []sources.RawRecord, kind sources.Kind,
) ([]records.Record, int, *Error) {
	_, span := m.tracer.Start(ctx, "sync.normalize", trace.WithAttributes(attribute.Int("records.fetched", len(raws))))
	defer span.End()

	batch := m.normalizer.NormalizeAll(ctx, raws)
	if batch.Rejected > 0 {
		m.metrics.RecordRejectedRecords(ctx, batch.Rejected)
		slog.WarnContext(ctx, "Rejected malformed records", "rejected", batch.Rejected, "fetched", len(raws))
	}
	span.SetAttributes(attribute.Int("records.rejected", batch.Rejected))

	if len(batch.Records) == 0 {
		span.SetStatus(codes.Error, "no valid records")
		return nil, batch.Rejected, &Error{
			Stage:   StageNormalize,
			Message: fmt.Sprintf("Normalization failed: all %d fetched records were rejected", len(raws)),
			Err:     ErrNoValidRecords,
		}
	}

	if kind == sources.KindSynthetic {
		for i := range batch.Records {
			batch.Records[i].Synthetic = true
		}
	}
	return batch.Records, batch.Rejected, nil
}
