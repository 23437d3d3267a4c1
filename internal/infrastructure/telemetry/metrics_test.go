package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/telemetry"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{ServiceName: "test-service"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("orders"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestHistogram_Boundaries(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp, err := telemetry.NewMeterProviderWithReader("test-service", reader, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, mp.IsEnabled())

	h, err := telemetry.NewHistogram(mp.Meter("test"), "order_amount", "Order amount", "INR", telemetry.AmountBuckets...)
	require.NoError(t, err)
	h.Record(context.Background(), 750)
	h.Record(context.Background(), 20000)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	hist, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, telemetry.AmountBuckets, hist.DataPoints[0].Bounds)
}

func TestCounter_IncAndAdd(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp, err := telemetry.NewMeterProviderWithReader("test-service", reader, zap.NewNop())
	require.NoError(t, err)

	c, err := telemetry.NewCounter(mp.Meter("test"), "things_total", "Things", "{things}")
	require.NoError(t, err)
	c.Inc(context.Background())
	c.Add(context.Background(), 4)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(5), sum.DataPoints[0].Value)
}
