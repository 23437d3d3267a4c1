package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/tests/testutil"
)

func (s *testServer) batch(id uuid.UUID) inventoryapp.BatchResponse {
	s.t.Helper()
	w := s.get("/api/v1/batches/" + id.String())
	testutil.AssertSuccessResponse(s.t, w, http.StatusOK)
	return testutil.DecodeData[inventoryapp.BatchResponse](s.t, w)
}

func TestBatchHandler_Create(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()

	w := s.post("/api/v1/batches", map[string]any{
		"product_id":   f.productID,
		"batch_number": "B-NEW",
		"quantity":     "100",
		"expiry_date":  testutil.Date(2026, 12, 31),
		"cost_price":   "55",
		"mrp":          "120",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	batch := testutil.DecodeData[inventoryapp.BatchResponse](t, w)
	requireDecimal(t, "100", batch.QuantityAvailable)
	require.NotNil(t, batch.DaysToExpiry)
	assert.Equal(t, 74, *batch.DaysToExpiry)
	assert.Equal(t, inventory.AlertWarning, batch.ExpiryLevel)

	t.Run("receipt is journalled", func(t *testing.T) {
		w := s.get("/api/v1/stock/movements?batch_id=" + batch.ID.String())
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		movements := testutil.DecodeData[[]inventoryapp.MovementResponse](t, w)
		require.Len(t, movements, 1)
		assert.Equal(t, inventory.MovementPurchase, movements[0].MovementType)
		requireDecimal(t, "100", movements[0].QuantityIn)
		requireDecimal(t, "100", movements[0].StockAfter)
	})

	t.Run("list by product", func(t *testing.T) {
		w := s.get("/api/v1/batches?product_id=" + f.productID.String())
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Len(t, testutil.DecodeData[[]inventoryapp.BatchResponse](t, w), 3)
	})

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{
			name:   "duplicate number for the product",
			body:   map[string]any{"product_id": f.productID, "batch_number": "B-NEW", "quantity": "1"},
			status: http.StatusConflict,
			code:   "ALREADY_EXISTS",
		},
		{
			name: "already expired",
			body: map[string]any{
				"product_id": f.productID, "batch_number": "B-OLD", "quantity": "1",
				"expiry_date": testutil.Date(2026, 10, 17),
			},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "zero quantity",
			body:   map[string]any{"product_id": f.productID, "batch_number": "B-ZERO", "quantity": "0"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "unknown product",
			body:   map[string]any{"product_id": uuid.New(), "batch_number": "B-X", "quantity": "1"},
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertErrorResponse(t, s.post("/api/v1/batches", tt.body), tt.status, tt.code)
		})
	}

	t.Run("get unknown", func(t *testing.T) {
		testutil.AssertErrorResponse(t, s.get("/api/v1/batches/"+uuid.New().String()), http.StatusNotFound, "NOT_FOUND")
	})
}

func TestStockHandler_MovementsAndAdjust(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()

	t.Run("manual sale", func(t *testing.T) {
		w := s.post("/api/v1/stock/movements", map[string]any{
			"batch_id":      f.nearBatch,
			"movement_type": "sale",
			"quantity_out":  "3",
			"notes":         "counter sale",
		})
		testutil.AssertSuccessResponse(t, w, http.StatusCreated)
		mv := testutil.DecodeData[inventoryapp.MovementResponse](t, w)
		requireDecimal(t, "10", mv.StockBefore)
		requireDecimal(t, "7", mv.StockAfter)
		assert.Equal(t, inventory.ReferenceManual, mv.ReferenceType)
	})

	t.Run("purchase cannot remove stock", func(t *testing.T) {
		w := s.post("/api/v1/stock/movements", map[string]any{
			"batch_id":      f.nearBatch,
			"movement_type": "purchase",
			"quantity_out":  "1",
		})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("unknown movement type", func(t *testing.T) {
		w := s.post("/api/v1/stock/movements", map[string]any{
			"batch_id":      f.nearBatch,
			"movement_type": "gift",
			"quantity_in":   "1",
		})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("adjust down", func(t *testing.T) {
		w := s.post("/api/v1/stock/adjust", map[string]any{
			"batch_id": f.nearBatch,
			"quantity": "-2",
			"reason":   "count correction",
		})
		testutil.AssertSuccessResponse(t, w, http.StatusCreated)
		mv := testutil.DecodeData[inventoryapp.MovementResponse](t, w)
		assert.Equal(t, inventory.MovementAdjustment, mv.MovementType)
		requireDecimal(t, "2", mv.QuantityOut)
		requireDecimal(t, "5", mv.StockAfter)
	})

	t.Run("adjust up", func(t *testing.T) {
		w := s.post("/api/v1/stock/adjust", map[string]any{
			"batch_id": f.farBatch,
			"quantity": "4",
			"reason":   "found in cold room",
		})
		testutil.AssertSuccessResponse(t, w, http.StatusCreated)
		requireDecimal(t, "24", s.batch(f.farBatch).QuantityAvailable)
	})

	t.Run("adjust below zero", func(t *testing.T) {
		w := s.post("/api/v1/stock/adjust", map[string]any{
			"batch_id": f.nearBatch,
			"quantity": "-50",
			"reason":   "typo",
		})
		apiErr := testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK")
		assert.Equal(t, "B-NEAR", apiErr.Details["batch_number"])
		requireDecimal(t, "5", s.batch(f.nearBatch).QuantityAvailable)
	})

	t.Run("adjust by zero", func(t *testing.T) {
		w := s.post("/api/v1/stock/adjust", map[string]any{
			"batch_id": f.nearBatch,
			"quantity": "0",
			"reason":   "nothing",
		})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("journal by product", func(t *testing.T) {
		w := s.get("/api/v1/stock/movements?product_id=" + f.productID.String() + "&movement_type=adjustment")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Len(t, testutil.DecodeData[[]inventoryapp.MovementResponse](t, w), 2)
	})
}

func TestStockHandler_ExpiryAlerts(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()
	testutil.SeedBatch(t, s.db, s.orgID, f.productID, "B-SOON", testutil.Decimal(t, "4"), testutil.Decimal(t, "50"), testutil.DatePtr(2026, 11, 1))
	testutil.SeedBatch(t, s.db, s.orgID, f.productID, "B-GONE", testutil.Decimal(t, "2"), testutil.Decimal(t, "50"), testutil.DatePtr(2026, 10, 1))

	t.Run("default horizon", func(t *testing.T) {
		w := s.get("/api/v1/stock/expiry-alerts")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		alerts := testutil.DecodeData[[]inventory.ExpiryAlert](t, w)
		require.Len(t, alerts, 2)

		assert.Equal(t, "B-GONE", alerts[0].BatchNumber)
		assert.Equal(t, inventory.AlertExpired, alerts[0].Level)
		assert.Equal(t, -17, alerts[0].DaysToExpiry)

		assert.Equal(t, "B-SOON", alerts[1].BatchNumber)
		assert.Equal(t, inventory.AlertCritical, alerts[1].Level)
		assert.Equal(t, 14, alerts[1].DaysToExpiry)
		requireDecimal(t, "200", alerts[1].StockValue)
	})

	t.Run("wider horizon", func(t *testing.T) {
		w := s.get("/api/v1/stock/expiry-alerts?days=365")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Len(t, testutil.DecodeData[[]inventory.ExpiryAlert](t, w), 3)
	})

	t.Run("negative horizon", func(t *testing.T) {
		testutil.AssertErrorResponse(t, s.get("/api/v1/stock/expiry-alerts?days=-1"), http.StatusBadRequest, "VALIDATION")
	})

	t.Run("non-numeric horizon", func(t *testing.T) {
		testutil.AssertErrorResponse(t, s.get("/api/v1/stock/expiry-alerts?days=soon"), http.StatusBadRequest, "VALIDATION")
	})
}

func TestStockHandler_Valuation(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()

	t.Run("today", func(t *testing.T) {
		w := s.get("/api/v1/stock/valuation")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		v := testutil.DecodeData[inventory.Valuation](t, w)
		requireDecimal(t, "30", v.Total.Quantity)
		requireDecimal(t, "1800", v.Total.CostValue)
		requireDecimal(t, "3600", v.Total.MRPValue)
		requireDecimal(t, "0", v.Expired.Quantity)
		requireDecimal(t, "0", v.NearExpiry.Quantity)
		require.Len(t, v.Products, 1)
		assert.Equal(t, f.productID, v.Products[0].ProductID)
		assert.Equal(t, 2, v.Products[0].BatchCount)
	})

	t.Run("as of a later date", func(t *testing.T) {
		w := s.get("/api/v1/stock/valuation?as_of=2027-05-01")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		v := testutil.DecodeData[inventory.Valuation](t, w)
		requireDecimal(t, "10", v.NearExpiry.Quantity)
		requireDecimal(t, "600", v.NearExpiry.CostValue)
		requireDecimal(t, "0", v.Expired.Quantity)
	})

	t.Run("past every expiry", func(t *testing.T) {
		w := s.get("/api/v1/stock/valuation?as_of=2028-07-01")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		v := testutil.DecodeData[inventory.Valuation](t, w)
		requireDecimal(t, "30", v.Expired.Quantity)
	})
}

func TestStockHandler_WriteOff(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()

	w := s.post("/api/v1/stock/writeoff", map[string]any{
		"reason": "DAMAGED",
		"notes":  "water damage in godown",
		"items": []map[string]any{
			{"batch_id": f.nearBatch, "quantity": "2"},
			{"batch_id": f.farBatch, "quantity": "1"},
		},
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	damaged := testutil.DecodeData[inventoryapp.WriteOffResponse](t, w)

	assert.True(t, damaged.RequiresITCReversal)
	assert.Equal(t, "WO-20261018-093000", damaged.WriteoffNumber)
	require.Len(t, damaged.Items, 2)
	requireDecimal(t, "180", damaged.TotalCostValue)
	requireDecimal(t, "21.6", damaged.TotalITCReversal)
	requireDecimal(t, "8", s.batch(f.nearBatch).QuantityAvailable)
	requireDecimal(t, "19", s.batch(f.farBatch).QuantityAvailable)

	t.Run("samples keep their input credit", func(t *testing.T) {
		w := s.post("/api/v1/stock/writeoff", map[string]any{
			"writeoff_number": "WO-SAMPLE-1",
			"reason":          "SAMPLE",
			"items":           []map[string]any{{"batch_id": f.farBatch, "quantity": "1"}},
		})
		testutil.AssertSuccessResponse(t, w, http.StatusCreated)
		sample := testutil.DecodeData[inventoryapp.WriteOffResponse](t, w)
		assert.False(t, sample.RequiresITCReversal)
		requireDecimal(t, "60", sample.TotalCostValue)
		requireDecimal(t, "0", sample.TotalITCReversal)
	})

	t.Run("duplicate number", func(t *testing.T) {
		w := s.post("/api/v1/stock/writeoff", map[string]any{
			"reason": "EXPIRED",
			"items":  []map[string]any{{"batch_id": f.farBatch, "quantity": "1"}},
		})
		testutil.AssertErrorResponse(t, w, http.StatusConflict, "ALREADY_EXISTS")
	})

	t.Run("more than available", func(t *testing.T) {
		w := s.post("/api/v1/stock/writeoff", map[string]any{
			"writeoff_number": "WO-TOO-MANY",
			"reason":          "THEFT",
			"items":           []map[string]any{{"batch_id": f.nearBatch, "quantity": "9"}},
		})
		testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK")
		requireDecimal(t, "8", s.batch(f.nearBatch).QuantityAvailable)
	})

	t.Run("unknown batch", func(t *testing.T) {
		w := s.post("/api/v1/stock/writeoff", map[string]any{
			"writeoff_number": "WO-UNKNOWN",
			"reason":          "OTHER",
			"items":           []map[string]any{{"batch_id": uuid.New(), "quantity": "1"}},
		})
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("unknown reason", func(t *testing.T) {
		w := s.post("/api/v1/stock/writeoff", map[string]any{
			"reason": "LOST_AT_SEA",
			"items":  []map[string]any{{"batch_id": f.farBatch, "quantity": "1"}},
		})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("list and get", func(t *testing.T) {
		w := s.get("/api/v1/stock/writeoff?reason=DAMAGED")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		docs := testutil.DecodeData[[]inventoryapp.WriteOffResponse](t, w)
		require.Len(t, docs, 1)
		assert.Equal(t, damaged.ID, docs[0].ID)

		w = s.get("/api/v1/stock/writeoff/" + damaged.ID.String())
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		got := testutil.DecodeData[inventoryapp.WriteOffResponse](t, w)
		assert.Len(t, got.Items, 2)
		requireDecimal(t, "21.6", got.TotalITCReversal)
	})

	t.Run("write-off movements are journalled", func(t *testing.T) {
		w := s.get("/api/v1/stock/movements?movement_type=write_off")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Len(t, testutil.DecodeData[[]inventoryapp.MovementResponse](t, w), 3)
	})
}
