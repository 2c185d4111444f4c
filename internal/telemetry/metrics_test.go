package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// collectMetric collects from reader and returns the named metric from the named meter scope.
func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, meterName, metricName string) metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != meterName {
			continue
		}
		for _, m := range sm.Metrics {
			if m.Name == metricName {
				return m
			}
		}
	}
	t.Fatalf("metric %q not found in meter %q", metricName, meterName)
	return metricdata.Metrics{}
}
