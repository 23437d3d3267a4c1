package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogapp "github.com/vikasgargbear/production-infra-sub001/internal/application/catalog"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	"github.com/vikasgargbear/production-infra-sub001/tests/testutil"
)

func TestProductHandler_Create(t *testing.T) {
	s := newTestServer(t)

	w := s.post("/api/v1/products", map[string]any{
		"code":          "AMOX250",
		"name":          "Amoxicillin 250mg",
		"generic_name":  "Amoxicillin",
		"hsn_code":      "30041010",
		"unit":          "strip",
		"mrp":           "85",
		"sale_price":    "70",
		"gst_percent":   "12",
		"minimum_stock": "50",
		"reorder_level": "100",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	product := testutil.DecodeData[catalogapp.ProductResponse](t, w)
	assert.Equal(t, "AMOX250", product.Code)
	assert.True(t, product.IsActive)
	requireDecimal(t, "12", product.GSTPercent)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"duplicate code", map[string]any{"code": "AMOX250", "name": "Again", "gst_percent": "12"}, http.StatusConflict, "ALREADY_EXISTS"},
		{"rate outside the slabs", map[string]any{"code": "X1", "name": "Odd rate", "gst_percent": "7"}, http.StatusBadRequest, "VALIDATION"},
		{"alphabetic HSN", map[string]any{"code": "X2", "name": "Bad HSN", "hsn_code": "30AB"}, http.StatusBadRequest, "VALIDATION"},
		{"short HSN", map[string]any{"code": "X3", "name": "Short HSN", "hsn_code": "300"}, http.StatusBadRequest, "VALIDATION"},
		{"missing name", map[string]any{"code": "X4"}, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertErrorResponse(t, s.post("/api/v1/products", tt.body), tt.status, tt.code)
		})
	}
}

func TestProductHandler_ListAndGet(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()
	testutil.SeedProduct(t, s.db, s.orgID, "CETRZ10", testutil.Decimal(t, "30"), testutil.Decimal(t, "5"))

	t.Run("search", func(t *testing.T) {
		w := s.get("/api/v1/products?search=cetrz")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		products := testutil.DecodeData[[]catalogapp.ProductResponse](t, w)
		require.Len(t, products, 1)
		assert.Equal(t, "CETRZ10", products[0].Code)
	})

	t.Run("all", func(t *testing.T) {
		w := s.get("/api/v1/products")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		env := testutil.DecodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(2), env.Meta.Total)
	})

	t.Run("get", func(t *testing.T) {
		w := s.get("/api/v1/products/" + f.productID.String())
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Equal(t, "PARA500", testutil.DecodeData[catalogapp.ProductResponse](t, w).Code)
	})

	t.Run("get unknown", func(t *testing.T) {
		testutil.AssertErrorResponse(t, s.get("/api/v1/products/"+uuid.New().String()), http.StatusNotFound, "NOT_FOUND")
	})
}

func TestProductHandler_Stock(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()
	path := "/api/v1/products/" + f.productID.String() + "/stock"

	w := s.get(path)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	stock := testutil.DecodeData[inventoryapp.CurrentStockResponse](t, w)
	requireDecimal(t, "30", stock.CurrentStock)
	requireDecimal(t, "30", stock.AvailableForSale)
	assert.Equal(t, 2, stock.BatchCount)
	assert.False(t, stock.NeedsReorder)
	assert.False(t, stock.BelowMinimum)

	// selling 25 leaves 5, under both thresholds
	order := s.createOrder(f.orderBody(25))
	testutil.AssertSuccessResponse(t, s.post("/api/v1/orders/"+order.ID.String()+"/approve", nil), http.StatusOK)

	w = s.get(path)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	stock = testutil.DecodeData[inventoryapp.CurrentStockResponse](t, w)
	requireDecimal(t, "5", stock.CurrentStock)
	assert.True(t, stock.NeedsReorder)
	assert.True(t, stock.BelowMinimum)
}
