package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

func TestNewBatch(t *testing.T) {
	product := uuid.New()

	t.Run("expiry in the past is rejected", func(t *testing.T) {
		_, err := NewBatch(testOrg, BatchInput{ProductID: product, BatchNumber: "X1", Quantity: qty(1), ExpiryDate: date(2025, 1, 14)}, testToday)
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, shared.ErrorCode(err))
	})

	t.Run("expiry today is accepted but not allocatable", func(t *testing.T) {
		b, err := NewBatch(testOrg, BatchInput{ProductID: product, BatchNumber: "x1", Quantity: qty(1), ExpiryDate: date(2025, 1, 15)}, testToday)
		require.NoError(t, err)
		assert.Equal(t, "X1", b.BatchNumber)
		assert.True(t, b.IsExpired(testToday))
		assert.False(t, b.IsAllocatable(testToday))
	})

	t.Run("requires positive quantity", func(t *testing.T) {
		_, err := NewBatch(testOrg, BatchInput{ProductID: product, BatchNumber: "X1", Quantity: decimal.Zero}, testToday)
		assert.Error(t, err)
	})

	t.Run("manufacturing after expiry", func(t *testing.T) {
		_, err := NewBatch(testOrg, BatchInput{ProductID: product, BatchNumber: "X1", Quantity: qty(1), ManufacturingDate: date(2026, 1, 1), ExpiryDate: date(2025, 6, 1)}, testToday)
		assert.Error(t, err)
	})
}

func TestBatchCounters(t *testing.T) {
	b := newTestBatch(t, uuid.New(), "CNT", 20, date(2026, 1, 1))

	require.NoError(t, b.Consume(qty(8)))
	require.NoError(t, b.CheckInvariant())
	assert.True(t, b.QuantitySold.Equal(qty(8)))

	err := b.Consume(qty(13))
	require.Error(t, err)
	assert.Equal(t, shared.CodeInsufficientStock, shared.ErrorCode(err))

	require.NoError(t, b.Restore(qty(3)))
	assert.True(t, b.QuantityAvailable.Equal(qty(15)))
	require.NoError(t, b.CheckInvariant())

	assert.Error(t, b.Restore(qty(6)))

	require.NoError(t, b.Receive(qty(5)))
	assert.True(t, b.QuantityReceived.Equal(qty(25)))
	require.NoError(t, b.CheckInvariant())
}

func TestApplyMovement(t *testing.T) {
	t.Run("outward writes stock before and after", func(t *testing.T) {
		b := newTestBatch(t, uuid.New(), "MV", 10, date(2026, 1, 1))
		m, err := ApplyMovement(b, MovementSpec{MovementType: MovementSale, QuantityOut: qty(4), ReferenceType: ReferenceManual})
		require.NoError(t, err)
		assert.True(t, m.StockBefore.Equal(qty(10)))
		assert.True(t, m.StockAfter.Equal(qty(6)))
		assert.True(t, m.IsOutward())
		assert.Equal(t, b.ID, *m.BatchID)
	})

	t.Run("outward beyond stock is insufficient", func(t *testing.T) {
		b := newTestBatch(t, uuid.New(), "MV", 10, date(2026, 1, 1))
		_, err := ApplyMovement(b, MovementSpec{MovementType: MovementWriteOff, QuantityOut: qty(11)})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInsufficientStock, shared.ErrorCode(err))
		assert.True(t, b.QuantityAvailable.Equal(qty(10)))
	})

	t.Run("direction must match type", func(t *testing.T) {
		b := newTestBatch(t, uuid.New(), "MV", 10, date(2026, 1, 1))
		_, err := ApplyMovement(b, MovementSpec{MovementType: MovementPurchase, QuantityOut: qty(1)})
		assert.Error(t, err)
		_, err = ApplyMovement(b, MovementSpec{MovementType: MovementSale, QuantityIn: qty(1)})
		assert.Error(t, err)
	})

	t.Run("exactly one side is positive", func(t *testing.T) {
		b := newTestBatch(t, uuid.New(), "MV", 10, date(2026, 1, 1))
		_, err := ApplyMovement(b, MovementSpec{MovementType: MovementAdjustment, QuantityIn: qty(1), QuantityOut: qty(1)})
		assert.Error(t, err)
	})

	t.Run("journal replays to available quantity", func(t *testing.T) {
		b := newTestBatch(t, uuid.New(), "MV", 10, date(2026, 1, 1))
		rows := []*StockMovement{ReceiptMovement(b, testToday, nil)}
		for _, spec := range []MovementSpec{
			{MovementType: MovementSale, QuantityOut: qty(6)},
			{MovementType: MovementReturn, QuantityIn: qty(2)},
			{MovementType: MovementAdjustment, QuantityIn: qty(5)},
			{MovementType: MovementWriteOff, QuantityOut: qty(3)},
		} {
			m, err := ApplyMovement(b, spec)
			require.NoError(t, err)
			rows = append(rows, m)
		}

		net := decimal.Zero
		for _, r := range rows {
			net = net.Add(r.NetQuantity())
		}
		assert.True(t, net.Equal(b.QuantityAvailable), "journal %s, batch %s", net, b.QuantityAvailable)
		require.NoError(t, b.CheckInvariant())
	})
}
