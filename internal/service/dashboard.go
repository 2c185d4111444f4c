package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/normalize"
	"github.com/stacklok/mgnrega-dashboard-server/internal/otel"
	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
	"github.com/stacklok/mgnrega-dashboard-server/internal/status"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sync/coordinator"
)

// TracerName is the name used for the dashboard service tracer
const TracerName = "github.com/stacklok/mgnrega-dashboard-server/service"

const (
	// DefaultTTL applies to cached district data
	DefaultTTL = time.Hour
	// DefaultLongTTL applies to cached reference data
	DefaultLongTTL = 24 * time.Hour
	// DefaultHistoryLimit caps the records returned by GetDistrictData
	DefaultHistoryLimit = 24

	// sharedLoadTimeout bounds a deduplicated store load once it no longer
	// follows the caller's context
	sharedLoadTimeout = 30 * time.Second
)

type dashboardService struct {
	catalog reference.Catalog
	records records.Store
	cache   cache.Store
	syncer  Synchronizer

	defaultTTL   time.Duration
	longTTL      time.Duration
	historyLimit int

	group  singleflight.Group
	tracer trace.Tracer
}

// Option configures the dashboard service
type Option func(*dashboardService)

// WithTTLs sets the TTL of cached district data and of cached reference
// data. Non-positive values keep the defaults.
func WithTTLs(defaultTTL, longTTL time.Duration) Option {
	return func(s *dashboardService) {
		if defaultTTL > 0 {
			s.defaultTTL = defaultTTL
		}
		if longTTL > 0 {
			s.longTTL = longTTL
		}
	}
}

// WithHistoryLimit sets how many monthly records GetDistrictData returns
func WithHistoryLimit(limit int) Option {
	return func(s *dashboardService) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithTracer sets the OpenTelemetry tracer for service spans
func WithTracer(tracer trace.Tracer) Option {
	return func(s *dashboardService) {
		s.tracer = tracer
	}
}

// New creates the dashboard service
func New(
	catalog reference.Catalog,
	recordStore records.Store,
	cacheStore cache.Store,
	syncer Synchronizer,
	opts ...Option,
) DashboardService {
	s := &dashboardService{
		catalog:      catalog,
		records:      recordStore,
		cache:        cacheStore,
		syncer:       syncer,
		defaultTTL:   DefaultTTL,
		longTTL:      DefaultLongTTL,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// readThrough serves key from the cache, loading and storing it on a miss.
// Concurrent misses of one key share a single load, which is detached from
// the cancellation of the caller that started it. A load that overlaps a
// cache invalidation is returned but not cached. Cache failures degrade to
// a miss.
func readThrough[T any](
	ctx context.Context,
	s *dashboardService,
	key string,
	ttl time.Duration,
	load func(context.Context) (T, error),
) (T, error) {
	v, found, err := cache.GetJSON[T](ctx, s.cache, key)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "Cache read failed, loading from store", "key", key, "error", err)
	case found:
		return v, nil
	}

	result := s.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		gen := cache.Generation(s.cache)
		loaded, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		stored, err := cache.SetJSONIfGeneration(loadCtx, s.cache, key, loaded, ttl, gen)
		switch {
		case err != nil:
			slog.WarnContext(loadCtx, "Cache write failed", "key", key, "error", err)
		case !stored:
			slog.DebugContext(loadCtx, "Cache invalidated during load, not caching", "key", key)
		}
		return loaded, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (s *dashboardService) CheckReadiness(ctx context.Context) error {
	if _, err := s.records.Count(ctx); err != nil {
		return fmt.Errorf("record store not ready: %w", err)
	}
	return nil
}

func (s *dashboardService) ListStates(ctx context.Context) ([]reference.State, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "dashboardService.ListStates")
	defer span.End()

	states, err := readThrough(ctx, s, cache.StatesKey, s.longTTL, s.catalog.ListStates)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(states)))
	return states, nil
}

func (s *dashboardService) ListDistricts(ctx context.Context, stateCode string) ([]reference.District, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "dashboardService.ListDistricts",
		trace.WithAttributes(otel.AttrStateCode.String(stateCode)))
	defer span.End()

	districts, err := readThrough(ctx, s, cache.DistrictsKey(stateCode), s.longTTL,
		func(ctx context.Context) ([]reference.District, error) {
			return s.catalog.ListDistricts(ctx, stateCode)
		})
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list districts of %s: %w", stateCode, err)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(districts)))
	return districts, nil
}

func (s *dashboardService) GetDistrictData(ctx context.Context, districtCode, year string) (*DistrictData, error) {
	if year != "" {
		canonical, ok := normalize.CanonicalFinancialYear(year)
		if !ok {
			return nil, fmt.Errorf("%w: financial year %q", ErrInvalidArgument, year)
		}
		year = canonical
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "dashboardService.GetDistrictData",
		trace.WithAttributes(
			otel.AttrDistrictCode.String(districtCode),
			otel.AttrFinancialYear.String(year),
		))
	defer span.End()

	data, err := readThrough(ctx, s, cache.DistrictDataKey(districtCode, year), s.defaultTTL,
		func(ctx context.Context) (*DistrictData, error) {
			return s.loadDistrictData(ctx, districtCode, year)
		})
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(data.HistoricalData)))
	return data, nil
}

func (s *dashboardService) loadDistrictData(ctx context.Context, districtCode, year string) (*DistrictData, error) {
	district, err := s.catalog.GetDistrict(ctx, districtCode)
	if errors.Is(err, reference.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDistrictNotFound, districtCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get district %s: %w", districtCode, err)
	}

	info := DistrictInfo{District: district}
	states, err := s.catalog.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	for _, st := range states {
		if st.Code == district.StateCode {
			info.StateNameHi, info.StateNameEn = st.NameHi, st.NameEn
			break
		}
	}

	history, err := s.records.FindRecords(ctx, records.Query{
		DistrictCode:  districtCode,
		FinancialYear: year,
		SortDesc:      true,
		Limit:         s.historyLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find records of %s: %w", districtCode, err)
	}
	if history == nil {
		history = []records.Record{}
	}

	return &DistrictData{District: info, HistoricalData: history}, nil
}

func (s *dashboardService) NearestDistrict(ctx context.Context, latitude, longitude float64) (reference.District, error) {
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return reference.District{}, err
	}

	ctx, span := otel.StartSpan(ctx, s.tracer, "dashboardService.NearestDistrict")
	defer span.End()

	district, err := s.catalog.NearestDistrict(ctx, latitude, longitude)
	if errors.Is(err, reference.ErrNotFound) {
		return reference.District{}, fmt.Errorf("%w: no district with coordinates", ErrDistrictNotFound)
	}
	if err != nil {
		otel.RecordError(span, err)
		return reference.District{}, fmt.Errorf("failed to find nearest district: %w", err)
	}
	span.SetAttributes(otel.AttrDistrictCode.String(district.Code))
	return district, nil
}

func (s *dashboardService) TriggerSync(ctx context.Context) (*coordinator.Result, error) {
	return s.syncer.StartSync(ctx)
}

func (s *dashboardService) SyncStatus(_ context.Context) status.SyncStatus {
	return s.syncer.Status()
}

func (s *dashboardService) CacheStats(ctx context.Context) (cache.Stats, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return cache.Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return stats, nil
}

func (s *dashboardService) InvalidateCache(ctx context.Context, inv Invalidation) (int64, error) {
	if err := inv.Validate(); err != nil {
		return 0, err
	}

	if inv.Key != "" {
		if err := s.cache.Delete(ctx, inv.Key); err != nil {
			return 0, fmt.Errorf("failed to delete cache key %s: %w", inv.Key, err)
		}
		slog.InfoContext(ctx, "Cache key invalidated", "key", inv.Key)
		return 1, nil
	}

	cleared, err := s.cache.ClearPattern(ctx, inv.Pattern)
	if errors.Is(err, cache.ErrInvalidPattern) {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache pattern %s: %w", inv.Pattern, err)
	}
	slog.InfoContext(ctx, "Cache pattern invalidated", "pattern", inv.Pattern, "cleared", cleared)
	return cleared, nil
}

func (s *dashboardService) ClearDistrictCache(ctx context.Context, districtCode string) (int64, error) {
	cleared, err := s.cache.ClearPattern(ctx, cache.DistrictDataKeyPattern(districtCode))
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache of %s: %w", districtCode, err)
	}
	slog.InfoContext(ctx, "District cache cleared", "district_code", districtCode, "cleared", cleared)
	return cleared, nil
}
