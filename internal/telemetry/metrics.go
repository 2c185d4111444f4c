// Package telemetry provides OpenTelemetry instrumentation for the dashboard server.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMetricsMeterName is the name used for the sync metrics meter
	SyncMetricsMeterName = "github.com/stacklok/mgnrega-dashboard-server/sync"

	// IngestMetricsMeterName is the name used for the ingestion metrics meter
	IngestMetricsMeterName = "github.com/stacklok/mgnrega-dashboard-server/ingest"

	// CacheMetricsMeterName is the name used for the cache metrics meter
	CacheMetricsMeterName = "github.com/stacklok/mgnrega-dashboard-server/cache"
)

// SyncMetrics holds the OpenTelemetry instruments for sync runs
type SyncMetrics struct {
	syncDuration    metric.Float64Histogram
	recordsRejected metric.Int64Counter
	syncRejected    metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	syncDuration, err := meter.Float64Histogram(
		"mgnrega_sync_duration_seconds",
		metric.WithDescription("Duration of sync runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 15, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	recordsRejected, err := meter.Int64Counter(
		"mgnrega_sync_records_rejected_total",
		metric.WithDescription("Raw records dropped by normalization"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	syncRejected, err := meter.Int64Counter(
		"mgnrega_sync_rejected_total",
		metric.WithDescription("Sync triggers rejected because a run was already in progress"),
		metric.WithUnit("{trigger}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		syncDuration:    syncDuration,
		recordsRejected: recordsRejected,
		syncRejected:    syncRejected,
	}, nil
}

// RecordSyncDuration records the duration of a sync run.
// source is the kind of data the run used (real, cached or synthetic).
func (m *SyncMetrics) RecordSyncDuration(ctx context.Context, source string, duration time.Duration, success bool) {
	if m == nil || m.syncDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.Bool("success", success),
	}

	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordRejectedRecords records raw records dropped during normalization
func (m *SyncMetrics) RecordRejectedRecords(ctx context.Context, count int) {
	if m == nil || m.recordsRejected == nil || count <= 0 {
		return
	}
	m.recordsRejected.Add(ctx, int64(count))
}

// RecordSyncRejected records a trigger refused by the single-flight guard
func (m *SyncMetrics) RecordSyncRejected(ctx context.Context) {
	if m == nil || m.syncRejected == nil {
		return
	}
	m.syncRejected.Add(ctx, 1)
}

// IngestMetrics holds the OpenTelemetry instruments for the ingestion pipeline
type IngestMetrics struct {
	recordsIngested metric.Int64Counter
	chunkFailures   metric.Int64Counter
}

// NewIngestMetrics creates a new IngestMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewIngestMetrics(provider metric.MeterProvider) (*IngestMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(IngestMetricsMeterName)

	recordsIngested, err := meter.Int64Counter(
		"mgnrega_ingest_records_total",
		metric.WithDescription("Records confirmed by the persistent store"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	chunkFailures, err := meter.Int64Counter(
		"mgnrega_ingest_chunk_failures_total",
		metric.WithDescription("Upsert chunks that failed and were skipped"),
		metric.WithUnit("{chunk}"),
	)
	if err != nil {
		return nil, err
	}

	return &IngestMetrics{
		recordsIngested: recordsIngested,
		chunkFailures:   chunkFailures,
	}, nil
}

// RecordIngested records rows confirmed by one chunk
func (m *IngestMetrics) RecordIngested(ctx context.Context, count int) {
	if m == nil || m.recordsIngested == nil || count <= 0 {
		return
	}
	m.recordsIngested.Add(ctx, int64(count))
}

// RecordChunkFailure records one failed chunk
func (m *IngestMetrics) RecordChunkFailure(ctx context.Context) {
	if m == nil || m.chunkFailures == nil {
		return
	}
	m.chunkFailures.Add(ctx, 1)
}

// CacheMetrics holds the OpenTelemetry instruments for the response cache
type CacheMetrics struct {
	lookups metric.Int64Counter
}

// NewCacheMetrics creates a new CacheMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewCacheMetrics(provider metric.MeterProvider) (*CacheMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(CacheMetricsMeterName)

	lookups, err := meter.Int64Counter(
		"mgnrega_cache_lookups_total",
		metric.WithDescription("Cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{lookups: lookups}, nil
}

// RecordLookup records a cache hit or miss. kind is the key family
// (for example "district_data" or "api").
func (m *CacheMetrics) RecordLookup(ctx context.Context, kind string, hit bool) {
	if m == nil || m.lookups == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", result),
	))
}
