package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyExpiry(t *testing.T) {
	tests := []struct {
		days int
		want AlertLevel
	}{
		{-5, AlertExpired},
		{0, AlertExpired},
		{1, AlertCritical},
		{30, AlertCritical},
		{31, AlertWarning},
		{90, AlertWarning},
		{91, AlertInfo},
		{180, AlertInfo},
		{181, AlertNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyExpiry(tt.days), "days=%d", tt.days)
	}
}

func TestBuildExpiryAlerts(t *testing.T) {
	product := uuid.New()
	soon := newTestBatch(t, product, "SOON", 5, date(2025, 2, 1))
	far := newTestBatch(t, product, "FAR", 5, date(2026, 6, 1))
	today := newTestBatch(t, product, "TODAY", 5, date(2025, 1, 15))
	empty := newTestBatch(t, product, "EMPTY", 5, date(2025, 1, 20))
	require.NoError(t, empty.Consume(qty(5)))

	alerts := BuildExpiryAlerts([]*Batch{far, soon, today, empty}, testToday, 90)
	require.Len(t, alerts, 2)
	assert.Equal(t, "TODAY", alerts[0].BatchNumber)
	assert.Equal(t, AlertExpired, alerts[0].Level)
	assert.Equal(t, "SOON", alerts[1].BatchNumber)
	assert.Equal(t, 17, alerts[1].DaysToExpiry)
	assert.Equal(t, AlertCritical, alerts[1].Level)
}

func TestValue(t *testing.T) {
	product := uuid.New()
	expired := newTestBatch(t, product, "EXP", 10, date(2025, 1, 15))
	near := newTestBatch(t, product, "NEAR", 4, date(2025, 4, 15))
	fresh := newTestBatch(t, uuid.New(), "FRESH", 2, nil)

	v := Value([]*Batch{expired, near, fresh}, time.Date(2025, 1, 15, 13, 0, 0, 0, time.UTC))

	assert.True(t, v.Total.Quantity.Equal(qty(16)))
	assert.True(t, v.Total.CostValue.Equal(decimal.NewFromInt(800)))
	assert.True(t, v.Total.MRPValue.Equal(decimal.NewFromInt(1280)))
	assert.True(t, v.Expired.Quantity.Equal(qty(10)))
	assert.True(t, v.NearExpiry.Quantity.Equal(qty(4)))
	assert.Len(t, v.Products, 2)
}
