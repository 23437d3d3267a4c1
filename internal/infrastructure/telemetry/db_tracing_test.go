package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedBatch struct {
	ID          uint   `gorm:"primaryKey"`
	BatchNumber string `gorm:"size:50;uniqueIndex"`
}

func setupTracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedBatch{}))

	recorder := tracetest.NewSpanRecorder()
	cfg.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
	return db, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDBTracingFromConfig(t *testing.T) {
	cfg := DBTracingFromConfig(config.TelemetryConfig{
		Enabled:           true,
		DBTraceEnabled:    true,
		DBSlowQueryThresh: time.Second,
	})
	assert.True(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, time.Second, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)

	cfg = DBTracingFromConfig(config.TelemetryConfig{Enabled: false, DBTraceEnabled: true})
	assert.False(t, cfg.Enabled)
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db, recorder := setupTracedDB(t, DBTracingConfig{Enabled: false})

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedBatch{BatchNumber: "B-1"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestRegisterDBTracing_RecordsSpans(t *testing.T) {
	db, recorder := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: time.Hour})
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&tracedBatch{BatchNumber: "B-1"}).Error)
	var rows []tracedBatch
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)

	spans := recorder.Ended()
	require.GreaterOrEqual(t, len(spans), 2)
	for _, span := range spans {
		table, ok := spanAttr(span, "db.sql.table")
		require.True(t, ok)
		assert.Equal(t, "traced_batches", table.AsString())
		_, slow := spanAttr(span, "db.slow_query")
		assert.False(t, slow)
	}
}

func TestRegisterDBTracing_MarksErrorsAndSlowQueries(t *testing.T) {
	db, recorder := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: time.Nanosecond})
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&tracedBatch{BatchNumber: "B-1"}).Error)
	require.Error(t, db.WithContext(ctx).Create(&tracedBatch{BatchNumber: "B-1"}).Error)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	slow, ok := spanAttr(spans[0], "db.slow_query")
	require.True(t, ok)
	assert.True(t, slow.AsBool())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestRegisterDBTracing_IgnoresRecordNotFound(t *testing.T) {
	db, recorder := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: time.Hour})

	var row tracedBatch
	err := db.WithContext(context.Background()).First(&row, "batch_number = ?", "missing").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}
