package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

var (
	testOrg   = uuid.New()
	testToday = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func qty(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newTestBatch(t *testing.T, productID uuid.UUID, number string, quantity int64, expiry *time.Time) *Batch {
	t.Helper()
	b, err := NewBatch(testOrg, BatchInput{
		ProductID:   productID,
		BatchNumber: number,
		ExpiryDate:  expiry,
		Quantity:    qty(quantity),
		CostPrice:   decimal.NewFromInt(50),
		MRP:         decimal.NewFromInt(80),
	}, testToday)
	require.NoError(t, err)
	return b
}

func TestPlanAllocation_FEFO(t *testing.T) {
	product := uuid.New()
	b3 := newTestBatch(t, product, "B3", 10, date(2025, 12, 1))
	b1 := newTestBatch(t, product, "B1", 5, date(2025, 6, 1))
	b2 := newTestBatch(t, product, "B2", 10, date(2025, 9, 1))

	line := AllocationLine{LineID: uuid.New(), ProductID: product, Quantity: qty(12)}
	plan, err := PlanAllocation([]AllocationLine{line}, []*Batch{b3, b1, b2}, testToday)
	require.NoError(t, err)
	require.True(t, plan.Satisfied())
	require.Len(t, plan.Allocations, 2)

	assert.Equal(t, b1.ID, plan.Allocations[0].BatchID)
	assert.True(t, plan.Allocations[0].Quantity.Equal(qty(5)))
	assert.Equal(t, b2.ID, plan.Allocations[1].BatchID)
	assert.True(t, plan.Allocations[1].Quantity.Equal(qty(7)))

	// planning leaves the batches untouched
	assert.True(t, b1.QuantityAvailable.Equal(qty(5)))
}

func TestPlanAllocation_Rules(t *testing.T) {
	t.Run("batch expiring today is ineligible", func(t *testing.T) {
		product := uuid.New()
		today := newTestBatch(t, product, "TODAY", 10, date(2025, 1, 15))
		later := newTestBatch(t, product, "LATER", 10, date(2025, 3, 1))

		plan, err := PlanAllocation([]AllocationLine{{LineID: uuid.New(), ProductID: product, Quantity: qty(4)}}, []*Batch{today, later}, testToday)
		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, later.ID, plan.Allocations[0].BatchID)
	})

	t.Run("undated batches come last", func(t *testing.T) {
		product := uuid.New()
		undated := newTestBatch(t, product, "NOEXP", 10, nil)
		dated := newTestBatch(t, product, "EXP", 3, date(2026, 1, 1))

		plan, err := PlanAllocation([]AllocationLine{{LineID: uuid.New(), ProductID: product, Quantity: qty(5)}}, []*Batch{undated, dated}, testToday)
		require.NoError(t, err)
		require.Len(t, plan.Allocations, 2)
		assert.Equal(t, dated.ID, plan.Allocations[0].BatchID)
		assert.Equal(t, undated.ID, plan.Allocations[1].BatchID)
	})

	t.Run("two lines of one product share availability", func(t *testing.T) {
		product := uuid.New()
		b := newTestBatch(t, product, "ONLY", 10, date(2025, 6, 1))
		lines := []AllocationLine{
			{LineID: uuid.New(), ProductID: product, Quantity: qty(6)},
			{LineID: uuid.New(), ProductID: product, Quantity: qty(6)},
		}
		plan, err := PlanAllocation(lines, []*Batch{b}, testToday)
		require.NoError(t, err)
		require.Len(t, plan.Shortages, 1)
		assert.Equal(t, lines[1].LineID, plan.Shortages[0].LineID)
		assert.True(t, plan.Shortages[0].Available.Equal(qty(4)))
	})

	t.Run("specified batch only", func(t *testing.T) {
		product := uuid.New()
		early := newTestBatch(t, product, "EARLY", 10, date(2025, 2, 1))
		chosen := newTestBatch(t, product, "CHOSEN", 10, date(2025, 8, 1))
		id := chosen.ID

		plan, err := PlanAllocation([]AllocationLine{{LineID: uuid.New(), ProductID: product, BatchID: &id, Quantity: qty(8)}}, []*Batch{early, chosen}, testToday)
		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, chosen.ID, plan.Allocations[0].BatchID)
	})

	t.Run("specified batch insufficient", func(t *testing.T) {
		product := uuid.New()
		chosen := newTestBatch(t, product, "CHOSEN", 3, date(2025, 8, 1))
		other := newTestBatch(t, product, "OTHER", 30, date(2025, 8, 1))
		id := chosen.ID

		plan, err := PlanAllocation([]AllocationLine{{LineID: uuid.New(), ProductID: product, BatchID: &id, Quantity: qty(5)}}, []*Batch{chosen, other}, testToday)
		require.NoError(t, err)
		require.Len(t, plan.Shortages, 1)
		assert.Equal(t, "insufficient stock in batch", plan.Shortages[0].Reason)

		err = plan.ShortageError()
		require.Error(t, err)
		assert.Equal(t, shared.CodeInsufficientStock, shared.ErrorCode(err))
	})

	t.Run("specified expired batch", func(t *testing.T) {
		product := uuid.New()
		expired := newTestBatch(t, product, "OLD", 3, date(2025, 1, 15))
		id := expired.ID

		plan, err := PlanAllocation([]AllocationLine{{LineID: uuid.New(), ProductID: product, BatchID: &id, Quantity: qty(1)}}, []*Batch{expired}, testToday)
		require.NoError(t, err)
		require.Len(t, plan.Shortages, 1)
		assert.Equal(t, "batch is expired", plan.Shortages[0].Reason)
	})

	t.Run("non-positive quantity is invalid", func(t *testing.T) {
		_, err := PlanAllocation([]AllocationLine{{LineID: uuid.New(), ProductID: uuid.New(), Quantity: decimal.Zero}}, nil, testToday)
		assert.Error(t, err)
	})
}

func TestAvailableForSale(t *testing.T) {
	product := uuid.New()
	batches := []*Batch{
		newTestBatch(t, product, "A", 5, date(2025, 1, 15)),
		newTestBatch(t, product, "B", 7, date(2025, 5, 1)),
		newTestBatch(t, uuid.New(), "C", 9, nil),
	}
	assert.True(t, AvailableForSale(batches, product, testToday).Equal(qty(7)))
}
