package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockWriteoff(t *testing.T) {
	batch := newTestBatch(t, uuid.New(), "WO1", 40, date(2025, 3, 1))
	gst := decimal.NewFromInt(12)

	t.Run("expired stock reverses ITC", func(t *testing.T) {
		w, err := NewStockWriteoff(testOrg, "", testToday, WriteoffExpired, "")
		require.NoError(t, err)
		assert.Equal(t, "WO-20250115-000000", w.WriteoffNumber)
		assert.True(t, w.RequiresITCReversal)

		_, err = w.AddItem(batch, qty(10), gst)
		require.NoError(t, err)
		assert.True(t, w.TotalCostValue.Equal(decimal.RequireFromString("500.00")))
		assert.True(t, w.TotalITCReversal.Equal(decimal.RequireFromString("60.00")))
	})

	t.Run("samples keep ITC", func(t *testing.T) {
		w, err := NewStockWriteoff(testOrg, "WO-MANUAL", testToday, WriteoffSample, "")
		require.NoError(t, err)
		assert.False(t, w.RequiresITCReversal)

		_, err = w.AddItem(batch, qty(10), gst)
		require.NoError(t, err)
		assert.True(t, w.TotalCostValue.Equal(decimal.RequireFromString("500.00")))
		assert.True(t, w.TotalITCReversal.IsZero())
	})

	t.Run("every other reason reverses", func(t *testing.T) {
		for _, r := range []WriteoffReason{WriteoffDamaged, WriteoffTheft, WriteoffPersonalUse, WriteoffDestroyed, WriteoffOther} {
			assert.True(t, r.RequiresITCReversal(), string(r))
		}
	})

	t.Run("unknown reason", func(t *testing.T) {
		_, err := NewStockWriteoff(testOrg, "", testToday, WriteoffReason("LOST"), "")
		assert.Error(t, err)
	})
}
