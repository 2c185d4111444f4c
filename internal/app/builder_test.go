package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/mgnrega-dashboard-server/internal/app/storage"
	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sources/mocks"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Type: config.StorageTypeMemory},
		Sync:    config.SyncConfig{Interval: "1h"},
	}
}

// failingSource returns a source whose upstream is always down
func failingSource(t *testing.T) sources.Source {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Fetch(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused")).AnyTimes()
	return source
}

func TestBaseConfigDefaults(t *testing.T) {
	t.Parallel()
	built, err := baseConfig(WithConfig(memoryConfig()))
	require.NoError(t, err)
	assert.Equal(t, defaultHTTPAddress, built.address)
	assert.Equal(t, defaultRequestTimeout, built.requestTimeout)
	assert.Nil(t, built.middlewares)
}

func TestBaseConfigRequiresConfig(t *testing.T) {
	t.Parallel()
	built, err := baseConfig()
	require.ErrorContains(t, err, "config is required")
	assert.Nil(t, built)
}

func TestWithAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr    string
		wantErr bool
	}{
		{addr: ":9090"},
		{addr: "127.0.0.1:9090"},
		{addr: "localhost:3000"},
		{addr: "[::1]:3000"},
		{addr: "", wantErr: true},
		{addr: ":", wantErr: true},
		{addr: "9090", wantErr: true},
		{addr: "not-an-ip:3000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			t.Parallel()
			built, err := baseConfig(WithConfig(memoryConfig()), WithAddress(tt.addr))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, built.address)
		})
	}
}

func TestNewDashboardAppRejectsUnknownStorage(t *testing.T) {
	t.Parallel()
	cfg := memoryConfig()
	cfg.Storage.Type = "s3"

	app, err := NewDashboardApp(context.Background(), WithConfig(cfg))
	require.ErrorContains(t, err, "unknown storage type")
	assert.Nil(t, app)
}

func TestNewDashboardAppSyncsAndServes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	app, err := NewDashboardApp(ctx,
		WithConfig(memoryConfig()),
		WithSource(failingSource(t), sources.Params{Format: "json"}),
		WithMeterProvider(noop.NewMeterProvider()),
		WithTracerProvider(tracenoop.NewTracerProvider()),
	)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	result, err := app.SyncOnce(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, sources.KindSynthetic, result.Source)

	rr := httptest.NewRecorder()
	app.GetHTTPServer().Handler.ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/district-data/up_kanpur", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var data service.DistrictData
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &data))
	assert.Equal(t, "Kanpur", data.District.NameEn)
	assert.Len(t, data.HistoricalData, 6)
}

func TestNewDashboardAppCustomMiddlewares(t *testing.T) {
	t.Parallel()

	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	app, err := NewDashboardApp(context.Background(),
		WithConfig(memoryConfig()),
		WithStorageFactory(storage.NewMemoryFactory()),
		WithSource(failingSource(t), sources.Params{}),
		WithMiddlewares(mw),
	)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	rr := httptest.NewRecorder()
	app.GetHTTPServer().Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)
}

func TestDashboardAppStartStop(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.Sync.OnStartup = true

	app, err := NewDashboardApp(context.Background(),
		WithConfig(cfg),
		WithAddress("127.0.0.1:0"),
		WithSource(failingSource(t), sources.Params{}),
	)
	require.NoError(t, err)

	started := make(chan error, 1)
	go func() {
		started <- app.Start()
	}()

	require.Eventually(t, func() bool {
		return app.GetComponents().Coordinator.Status().LastSyncTime != nil
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, app.Stop(time.Second))
	select {
	case err := <-started:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}

	// Close after Stop is a no-op
	app.Close()
}
