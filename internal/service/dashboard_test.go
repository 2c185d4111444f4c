package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	cachemocks "github.com/stacklok/mgnrega-dashboard-server/internal/cache/mocks"
	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	recordmocks "github.com/stacklok/mgnrega-dashboard-server/internal/records/mocks"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
	refmocks "github.com/stacklok/mgnrega-dashboard-server/internal/reference/mocks"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service/mocks"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
	"github.com/stacklok/mgnrega-dashboard-server/internal/status"
	pkgsync "github.com/stacklok/mgnrega-dashboard-server/internal/sync"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sync/coordinator"
)

var errStore = errors.New("store unavailable")

type fixture struct {
	svc     service.DashboardService
	cache   cache.Store
	records records.Store
	syncer  *mocks.MockSynchronizer
}

func newFixture(t *testing.T, catalog reference.Catalog) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	if catalog == nil {
		catalog = reference.NewMemoryCatalog(reference.SeedStates, reference.SeedDistricts)
	}
	f := &fixture{
		cache:   cache.NewMemoryStore(),
		records: records.NewMemoryStore(),
		syncer:  mocks.NewMockSynchronizer(ctrl),
	}
	f.svc = service.New(catalog, f.records, f.cache, f.syncer)
	return f
}

func (f *fixture) cached(t *testing.T, key string) bool {
	t.Helper()
	_, found, err := f.cache.Get(context.Background(), key)
	require.NoError(t, err)
	return found
}

// seedYears stores every month of each financial year for district
func seedYears(t *testing.T, store records.Store, district string, years ...string) {
	t.Helper()
	var recs []records.Record
	for _, year := range years {
		for i, month := range records.FinancialYearMonths {
			recs = append(recs, records.Record{
				DistrictCode:        district,
				FinancialYear:       year,
				Month:               month,
				HouseholdsWorked:    int64(1000 + i),
				PersonDays:          20000,
				WagesPaid:           decimal.RequireFromString("2380297.50"),
				WorksTakenUp:        40,
				WorksCompleted:      20,
				AvgDaysPerHousehold: decimal.RequireFromString("36.17"),
			})
		}
	}
	n, err := store.UpsertRecords(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, recs, n)
}

func TestListStatesReadsThroughCache(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	catalog := refmocks.NewMockCatalog(ctrl)
	catalog.EXPECT().ListStates(gomock.Any()).Return(reference.SeedStates, nil).Times(1)

	f := newFixture(t, catalog)
	ctx := context.Background()

	first, err := f.svc.ListStates(ctx)
	require.NoError(t, err)
	second, err := f.svc.ListStates(ctx)
	require.NoError(t, err)

	assert.Equal(t, reference.SeedStates, first)
	assert.Equal(t, first, second)
	assert.True(t, f.cached(t, cache.StatesKey))
}

func TestListDistrictsCachedPerState(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()

	up, err := f.svc.ListDistricts(ctx, "up")
	require.NoError(t, err)
	assert.NotEmpty(t, up)
	for _, d := range up {
		assert.Equal(t, "up", d.StateCode)
	}

	mh, err := f.svc.ListDistricts(ctx, "mh")
	require.NoError(t, err)
	assert.Empty(t, mh)

	assert.True(t, f.cached(t, cache.DistrictsKey("up")))
	assert.True(t, f.cached(t, cache.DistrictsKey("mh")))
}

func TestListStatesPropagatesCatalogErrors(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	catalog := refmocks.NewMockCatalog(ctrl)
	catalog.EXPECT().ListStates(gomock.Any()).Return(nil, errStore).Times(2)

	f := newFixture(t, catalog)
	for range 2 {
		_, err := f.svc.ListStates(context.Background())
		require.ErrorIs(t, err, errStore)
	}
	assert.False(t, f.cached(t, cache.StatesKey), "failures are not cached")
}

func TestGetDistrictData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("latest months first with state names", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		seedYears(t, f.records, "up_lucknow", "2022-2023", "2023-2024", "2024-2025")

		data, err := f.svc.GetDistrictData(ctx, "up_lucknow", "")
		require.NoError(t, err)

		assert.Equal(t, "up_lucknow", data.District.Code)
		assert.Equal(t, "Lucknow", data.District.NameEn)
		assert.Equal(t, "Uttar Pradesh", data.District.StateNameEn)
		assert.Equal(t, "उत्तर प्रदेश", data.District.StateNameHi)

		require.Len(t, data.HistoricalData, service.DefaultHistoryLimit)
		assert.Equal(t, "2024-2025", data.HistoricalData[0].FinancialYear)
		assert.Equal(t, "March", data.HistoricalData[0].Month)
		last := data.HistoricalData[len(data.HistoricalData)-1]
		assert.Equal(t, "2023-2024", last.FinancialYear)
		assert.Equal(t, "April", last.Month)

		assert.True(t, f.cached(t, cache.DistrictDataKey("up_lucknow", "")))
	})

	t.Run("year filter accepts the short form", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		seedYears(t, f.records, "up_lucknow", "2022-2023", "2023-2024")

		data, err := f.svc.GetDistrictData(ctx, "up_lucknow", "2022-23")
		require.NoError(t, err)
		require.Len(t, data.HistoricalData, 12)
		for _, r := range data.HistoricalData {
			assert.Equal(t, "2022-2023", r.FinancialYear)
		}
		assert.True(t, f.cached(t, cache.DistrictDataKey("up_lucknow", "2022-2023")))
	})

	t.Run("served from cache until invalidated", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		seedYears(t, f.records, "up_agra", "2023-2024")

		before, err := f.svc.GetDistrictData(ctx, "up_agra", "")
		require.NoError(t, err)
		seedYears(t, f.records, "up_agra", "2024-2025")

		cached, err := f.svc.GetDistrictData(ctx, "up_agra", "")
		require.NoError(t, err)
		assert.Len(t, cached.HistoricalData, len(before.HistoricalData))

		cleared, err := f.svc.ClearDistrictCache(ctx, "up_agra")
		require.NoError(t, err)
		assert.EqualValues(t, 1, cleared)

		fresh, err := f.svc.GetDistrictData(ctx, "up_agra", "")
		require.NoError(t, err)
		assert.Len(t, fresh.HistoricalData, 24)
	})

	t.Run("known district without records", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		data, err := f.svc.GetDistrictData(ctx, "up_kanpur", "")
		require.NoError(t, err)
		assert.NotNil(t, data.HistoricalData)
		assert.Empty(t, data.HistoricalData)
	})

	t.Run("unknown district", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		_, err := f.svc.GetDistrictData(ctx, "up_atlantis", "")
		require.ErrorIs(t, err, service.ErrDistrictNotFound)
		assert.False(t, f.cached(t, cache.DistrictDataKey("up_atlantis", "")))
	})

	t.Run("invalid year", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		_, err := f.svc.GetDistrictData(ctx, "up_lucknow", "2023")
		require.ErrorIs(t, err, service.ErrInvalidArgument)
	})
}

// countingCache counts reads of the wrapped store
type countingCache struct {
	cache.Store
	gets atomic.Int32
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	defer c.gets.Add(1)
	return c.Store.Get(ctx, key)
}

func TestGetDistrictDataDeduplicatesConcurrentMisses(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	catalog := refmocks.NewMockCatalog(ctrl)

	const callers = 8
	var loads atomic.Int32
	release := make(chan struct{})
	catalog.EXPECT().GetDistrict(gomock.Any(), "up_lucknow").DoAndReturn(
		func(context.Context, string) (reference.District, error) {
			loads.Add(1)
			<-release
			return reference.SeedDistricts[0], nil
		}).AnyTimes()
	catalog.EXPECT().ListStates(gomock.Any()).Return(reference.SeedStates, nil).AnyTimes()

	counting := &countingCache{Store: cache.NewMemoryStore()}
	svc := service.New(catalog, records.NewMemoryStore(), counting, mocks.NewMockSynchronizer(ctrl))

	var wg conc.WaitGroup
	for range callers {
		wg.Go(func() {
			data, err := svc.GetDistrictData(context.Background(), "up_lucknow", "")
			if assert.NoError(t, err) {
				assert.Equal(t, "up_lucknow", data.District.Code)
			}
		})
	}

	require.Eventually(t, func() bool { return counting.gets.Load() == callers }, 5*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, loads.Load())
}

func TestCacheFailuresDegradeToStore(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := cachemocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), cache.StatesKey).Return(nil, false, errStore)
	store.EXPECT().Set(gomock.Any(), cache.StatesKey, gomock.Any(), service.DefaultLongTTL).Return(errStore)

	svc := service.New(reference.NewMemoryCatalog(reference.SeedStates, nil),
		records.NewMemoryStore(), store, mocks.NewMockSynchronizer(ctrl))

	states, err := svc.ListStates(context.Background())
	require.NoError(t, err)
	assert.Len(t, states, len(reference.SeedStates))
}

func TestWithTTLs(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := cachemocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil).Times(2)
	store.EXPECT().Set(gomock.Any(), cache.DistrictsKey("up"), gomock.Any(), 48*time.Hour).Return(nil)
	store.EXPECT().Set(gomock.Any(), cache.DistrictDataKey("up_agra", ""), gomock.Any(), 10*time.Minute).Return(nil)

	svc := service.New(reference.NewMemoryCatalog(reference.SeedStates, reference.SeedDistricts),
		records.NewMemoryStore(), store, mocks.NewMockSynchronizer(ctrl),
		service.WithTTLs(10*time.Minute, 48*time.Hour))

	_, err := svc.ListDistricts(context.Background(), "up")
	require.NoError(t, err)
	_, err = svc.GetDistrictData(context.Background(), "up_agra", "")
	require.NoError(t, err)
}

func TestNearestDistrict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name      string
		districts []reference.District
		lat, lon  float64
		wantCode  string
		wantErr   error
	}{
		{name: "inside lucknow", districts: reference.SeedDistricts, lat: 26.85, lon: 80.95, wantCode: "up_lucknow"},
		{name: "near agra", districts: reference.SeedDistricts, lat: 27.2, lon: 78.0, wantCode: "up_agra"},
		{name: "latitude out of range", districts: reference.SeedDistricts, lat: 95, lon: 80, wantErr: service.ErrInvalidArgument},
		{name: "longitude out of range", districts: reference.SeedDistricts, lat: 26, lon: -181, wantErr: service.ErrInvalidArgument},
		{name: "no located districts", districts: []reference.District{{Code: "up_x", StateCode: "up"}}, lat: 26, lon: 80, wantErr: service.ErrDistrictNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, reference.NewMemoryCatalog(reference.SeedStates, tt.districts))
			got, err := f.svc.NearestDistrict(ctx, tt.lat, tt.lon)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestInvalidateCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name      string
		inv       service.Invalidation
		want      int64
		wantErr   error
		remaining []string
	}{
		{
			name:      "single key",
			inv:       service.Invalidation{Key: cache.StatesKey},
			want:      1,
			remaining: []string{"district_data_up_lucknow", "district_data_up_agra_2023-2024", "districts_up"},
		},
		{
			name:      "pattern",
			inv:       service.Invalidation{Pattern: cache.DistrictDataPattern},
			want:      2,
			remaining: []string{cache.StatesKey, "districts_up"},
		},
		{name: "neither", inv: service.Invalidation{}, wantErr: service.ErrInvalidArgument},
		{name: "both", inv: service.Invalidation{Key: "a", Pattern: "b"}, wantErr: service.ErrInvalidArgument},
		{name: "invalid pattern", inv: service.Invalidation{Pattern: "district_data_("}, wantErr: service.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, nil)
			for _, key := range []string{cache.StatesKey, "district_data_up_lucknow", "district_data_up_agra_2023-2024", "districts_up"} {
				require.NoError(t, f.cache.Set(ctx, key, []byte(`[]`), time.Hour))
			}

			got, err := f.svc.InvalidateCache(ctx, tt.inv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			stats, err := f.svc.CacheStats(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.remaining), stats.Total)
			for _, key := range tt.remaining {
				assert.True(t, f.cached(t, key), key)
			}
		})
	}
}

func TestClearDistrictCacheMatchesWholeCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, nil)
	for _, key := range []string{
		cache.DistrictDataKey("up_agra", ""),
		cache.DistrictDataKey("up_agra", "2023-2024"),
		cache.DistrictDataKey("up_agra2", ""),
	} {
		require.NoError(t, f.cache.Set(ctx, key, []byte(`{}`), time.Hour))
	}

	cleared, err := f.svc.ClearDistrictCache(ctx, "up_agra")
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleared)
	assert.True(t, f.cached(t, cache.DistrictDataKey("up_agra2", "")))
}

func TestSyncPassthrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, nil)

	want := &coordinator.Result{Success: true, RecordsProcessed: 30, Source: sources.KindSynthetic}
	gomock.InOrder(
		f.syncer.EXPECT().StartSync(gomock.Any()).Return(want, nil),
		f.syncer.EXPECT().StartSync(gomock.Any()).Return(nil, pkgsync.ErrSyncInProgress),
	)
	f.syncer.EXPECT().Status().Return(status.SyncStatus{InProgress: true})

	got, err := f.svc.TriggerSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = f.svc.TriggerSync(ctx)
	require.ErrorIs(t, err, pkgsync.ErrSyncInProgress)

	assert.True(t, f.svc.SyncStatus(ctx).InProgress)
}

func TestCheckReadiness(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := recordmocks.NewMockStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Count(gomock.Any()).Return(int64(0), nil),
		store.EXPECT().Count(gomock.Any()).Return(int64(0), errStore),
	)

	svc := service.New(reference.NewMemoryCatalog(nil, nil), store, cache.NewMemoryStore(), mocks.NewMockSynchronizer(ctrl))
	require.NoError(t, svc.CheckReadiness(context.Background()))
	require.ErrorIs(t, svc.CheckReadiness(context.Background()), errStore)
}

func TestInvalidationValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, service.Invalidation{Key: "states_data"}.Validate())
	assert.NoError(t, service.Invalidation{Pattern: "^api_"}.Validate())
	assert.ErrorIs(t, service.Invalidation{}.Validate(), service.ErrInvalidArgument)
}

// pausingRecords blocks the first FindRecords until released
type pausingRecords struct {
	records.Store
	entered chan struct{}
	release chan struct{}
	once    atomic.Bool
}

func (p *pausingRecords) FindRecords(ctx context.Context, q records.Query) ([]records.Record, error) {
	recs, err := p.Store.FindRecords(ctx, q)
	if p.once.CompareAndSwap(false, true) {
		close(p.entered)
		<-p.release
	}
	return recs, err
}

func TestGetDistrictDataNotCachedAcrossInvalidation(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	store := records.NewMemoryStore()
	seedYears(t, store, "up_lucknow", "2023-2024")
	paused := &pausingRecords{Store: store, entered: make(chan struct{}), release: make(chan struct{})}
	cacheStore := cache.NewMemoryStore()
	svc := service.New(reference.NewMemoryCatalog(reference.SeedStates, reference.SeedDistricts),
		paused, cacheStore, mocks.NewMockSynchronizer(ctrl))

	var wg conc.WaitGroup
	wg.Go(func() {
		_, err := svc.GetDistrictData(ctx, "up_lucknow", "")
		assert.NoError(t, err)
	})

	<-paused.entered
	_, err := store.UpsertRecords(ctx, []records.Record{{
		DistrictCode:        "up_lucknow",
		FinancialYear:       "2023-2024",
		Month:               records.FinancialYearMonths[0],
		HouseholdsWorked:    9999,
		WagesPaid:           decimal.Zero,
		AvgDaysPerHousehold: decimal.Zero,
	}})
	require.NoError(t, err)
	_, err = cacheStore.ClearPattern(ctx, cache.DistrictDataPattern)
	require.NoError(t, err)
	close(paused.release)
	wg.Wait()

	_, found, err := cacheStore.Get(ctx, cache.DistrictDataKey("up_lucknow", ""))
	require.NoError(t, err)
	assert.False(t, found, "a load that overlapped invalidation must not be cached")

	data, err := svc.GetDistrictData(ctx, "up_lucknow", "")
	require.NoError(t, err)
	var households int64
	for _, rec := range data.HistoricalData {
		if rec.Month == records.FinancialYearMonths[0] {
			households = rec.HouseholdsWorked
		}
	}
	assert.EqualValues(t, 9999, households)
}

func TestGetDistrictDataSharedLoadSurvivesCallerCancel(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	catalog := refmocks.NewMockCatalog(ctrl)

	started := make(chan struct{})
	var startOnce sync.Once
	release := make(chan struct{})
	catalog.EXPECT().GetDistrict(gomock.Any(), "up_agra").DoAndReturn(
		func(ctx context.Context, _ string) (reference.District, error) {
			startOnce.Do(func() { close(started) })
			select {
			case <-release:
				return reference.SeedDistricts[4], nil
			case <-ctx.Done():
				return reference.District{}, ctx.Err()
			}
		}).AnyTimes()
	catalog.EXPECT().ListStates(gomock.Any()).Return(reference.SeedStates, nil).AnyTimes()

	counting := &countingCache{Store: cache.NewMemoryStore()}
	svc := service.New(catalog, records.NewMemoryStore(), counting, mocks.NewMockSynchronizer(ctrl))

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GetDistrictData(firstCtx, "up_agra", "")
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.GetDistrictData(context.Background(), "up_agra", "")
		secondErr <- err
	}()
	require.Eventually(t, func() bool { return counting.gets.Load() == 2 }, 5*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.NoError(t, <-secondErr)
}
