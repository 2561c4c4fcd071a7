package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestProcessRSS(t *testing.T) {
	rss, err := ProcessRSS(context.Background())
	require.NoError(t, err)
	require.Positive(t, rss)
}

func TestAppStatsName(t *testing.T) {
	require.Equal(t, "xtree/app/default", appStatsName(" "))
	require.Equal(t, "xtree/app/stress", appStatsName("stress"))
}

func TestInitAppStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	require.NoError(t, InitAppStats("test"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	found := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != appStatsName("test") {
			continue
		}
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					found[m.Name] += dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					found[m.Name] += dp.Value
				}
			}
		}
	}
	require.Positive(t, found["app.core.goroutines"])
	require.Positive(t, found["app.core.processes"])
	require.Positive(t, found["app.core.rss"])
}
