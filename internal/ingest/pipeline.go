// Package ingest writes normalized records to the record store in chunks.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/telemetry"
)

const (
	// DefaultBatchSize is the number of records per bulk upsert
	DefaultBatchSize = 50
	// DefaultBatchDelay is the pause between two chunks
	DefaultBatchDelay = 100 * time.Millisecond
)

// ErrStoreUnavailable is returned when every chunk of a batch failed
var ErrStoreUnavailable = errors.New("record store unavailable")

// Summary reports the outcome of UpsertBatch
type Summary struct {
	// Ingested is the number of rows the store confirmed
	Ingested     int
	Chunks       int
	FailedChunks int
}

// Pipeline performs chunked idempotent upserts
type Pipeline struct {
	store      records.Store
	batchSize  int
	batchDelay time.Duration
	metrics    *telemetry.IngestMetrics
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithBatchSize sets the chunk size. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithBatchDelay sets the pause between chunks
func WithBatchDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d >= 0 {
			p.batchDelay = d
		}
	}
}

// WithMetrics records ingestion metrics. A nil value disables them.
func WithMetrics(m *telemetry.IngestMetrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline creates a Pipeline writing to store
func NewPipeline(store records.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      store,
		batchSize:  DefaultBatchSize,
		batchDelay: DefaultBatchDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// UpsertBatch writes recs chunk by chunk. A failed chunk is logged and
// skipped. When every chunk fails the error wraps ErrStoreUnavailable and
// the last storage error. Cancelling ctx stops the batch between chunks.
func (p *Pipeline) UpsertBatch(ctx context.Context, recs []records.Record) (Summary, error) {
	var (
		summary Summary
		lastErr error
	)

	for start := 0; start < len(recs); start += p.batchSize {
		if start > 0 && p.batchDelay > 0 {
			if err := sleep(ctx, p.batchDelay); err != nil {
				return summary, fmt.Errorf("ingestion interrupted after %d chunks: %w", summary.Chunks, err)
			}
		}

		end := min(start+p.batchSize, len(recs))
		summary.Chunks++

		n, err := p.store.UpsertRecords(ctx, recs[start:end])
		if err != nil {
			summary.FailedChunks++
			lastErr = err
			p.metrics.RecordChunkFailure(ctx)
			slog.WarnContext(ctx, "Failed to upsert chunk, skipping it",
				"chunk", summary.Chunks,
				"records", end-start,
				"error", err)
			continue
		}

		summary.Ingested += n
		p.metrics.RecordIngested(ctx, n)
		slog.DebugContext(ctx, "Upserted chunk", "chunk", summary.Chunks, "records", end-start, "confirmed", n)
	}

	if summary.Chunks > 0 && summary.FailedChunks == summary.Chunks {
		return summary, fmt.Errorf("%w: all %d chunks failed: %w", ErrStoreUnavailable, summary.Chunks, lastErr)
	}
	return summary, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
