package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	financeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/tests/testutil"
)

func (s *testServer) invoice(id uuid.UUID) financeapp.InvoiceResponse {
	s.t.Helper()
	w := s.get("/api/v1/invoices/" + id.String())
	testutil.AssertSuccessResponse(s.t, w, http.StatusOK)
	return testutil.DecodeData[financeapp.InvoiceResponse](s.t, w)
}

func TestPaymentHandler_Record_FIFO(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()
	first := s.invoicedOrder(f, 10)
	second := s.invoicedOrder(f, 5)

	w := s.post("/api/v1/payments", map[string]any{
		"customer_id":      f.customerID,
		"amount":           "1500",
		"payment_mode":     "cheque",
		"reference_number": "CHQ-004512",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	payment := testutil.DecodeData[financeapp.PaymentResponse](t, w)

	assert.Equal(t, finance.PaymentCompleted, payment.Status)
	assert.NotEmpty(t, payment.PaymentReference)
	requireDecimal(t, "1500", payment.AllocatedAmount)
	requireDecimal(t, "0", payment.UnallocatedAmount)
	require.Len(t, payment.Allocations, 2)
	require.Len(t, payment.Settlements, 2)

	assert.Equal(t, first.InvoiceID, payment.Settlements[0].InvoiceID)
	requireDecimal(t, "1120", payment.Settlements[0].Amount)
	assert.Equal(t, finance.InvoicePaid, payment.Settlements[0].PaymentStatus)
	assert.Equal(t, second.InvoiceID, payment.Settlements[1].InvoiceID)
	requireDecimal(t, "380", payment.Settlements[1].Amount)
	requireDecimal(t, "180", payment.Settlements[1].BalanceAmount)
	assert.Equal(t, finance.InvoicePartial, payment.Settlements[1].PaymentStatus)

	t.Run("invoice list filters on payment status", func(t *testing.T) {
		w := s.get("/api/v1/invoices?customer_id=" + f.customerID.String() + "&payment_status=partial")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		invoices := testutil.DecodeData[[]financeapp.InvoiceResponse](t, w)
		require.Len(t, invoices, 1)
		assert.Equal(t, second.InvoiceNumber, invoices[0].InvoiceNumber)
	})

	t.Run("payment list and get", func(t *testing.T) {
		w := s.get("/api/v1/payments?customer_id=" + f.customerID.String())
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		env := testutil.DecodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(1), env.Meta.Total)

		w = s.get("/api/v1/payments/" + payment.ID.String())
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		got := testutil.DecodeData[financeapp.PaymentResponse](t, w)
		assert.Equal(t, "CHQ-004512", got.ReferenceNumber)
		assert.Len(t, got.Allocations, 2)
	})

	t.Run("cancel restores the invoices", func(t *testing.T) {
		w := s.post("/api/v1/payments/"+payment.ID.String()+"/cancel", map[string]any{"reason": "cheque bounced"})
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		cancelled := testutil.DecodeData[financeapp.PaymentResponse](t, w)
		assert.Equal(t, finance.PaymentCancelled, cancelled.Status)
		assert.Equal(t, "cheque bounced", cancelled.CancelReason)

		reversals := 0
		for _, a := range cancelled.Allocations {
			if a.IsReversal {
				reversals++
				assert.True(t, a.Amount.IsNegative())
			}
		}
		assert.Equal(t, 2, reversals)

		for _, id := range []uuid.UUID{first.InvoiceID, second.InvoiceID} {
			inv := s.invoice(id)
			assert.Equal(t, finance.InvoiceUnpaid, inv.PaymentStatus)
			requireDecimal(t, "0", inv.PaidAmount)
			requireDecimal(t, inv.TotalAmount.String(), inv.BalanceAmount)
		}
	})

	t.Run("cancel twice", func(t *testing.T) {
		w := s.post("/api/v1/payments/"+payment.ID.String()+"/cancel", map[string]any{"reason": "again"})
		testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "STATE")
	})
}

func TestPaymentHandler_Record_Unallocated(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()
	converted := s.invoicedOrder(f, 10)

	w := s.post("/api/v1/payments", map[string]any{
		"customer_id":  f.customerID,
		"invoice_id":   converted.InvoiceID,
		"amount":       "1500",
		"payment_mode": "online",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	payment := testutil.DecodeData[financeapp.PaymentResponse](t, w)

	requireDecimal(t, "1120", payment.AllocatedAmount)
	requireDecimal(t, "380", payment.UnallocatedAmount)
	assert.Equal(t, finance.InvoicePaid, s.invoice(converted.InvoiceID).PaymentStatus)

	// nothing left to settle
	w = s.post("/api/v1/payments", map[string]any{
		"customer_id":  f.customerID,
		"amount":       "50",
		"payment_mode": "cash",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	advance := testutil.DecodeData[financeapp.PaymentResponse](t, w)
	requireDecimal(t, "0", advance.AllocatedAmount)
	requireDecimal(t, "50", advance.UnallocatedAmount)
	assert.Empty(t, advance.Allocations)
}

func TestPaymentHandler_Record_Validation(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{
			name:   "unknown payment mode",
			body:   map[string]any{"customer_id": f.customerID, "amount": "10", "payment_mode": "barter"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "zero amount",
			body:   map[string]any{"customer_id": f.customerID, "amount": "0", "payment_mode": "cash"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "fractional paise",
			body:   map[string]any{"customer_id": f.customerID, "amount": "10.005", "payment_mode": "cash"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "unknown customer",
			body:   map[string]any{"customer_id": uuid.New(), "amount": "10", "payment_mode": "cash"},
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name: "unknown invoice",
			body: map[string]any{
				"customer_id": f.customerID, "amount": "10", "payment_mode": "cash",
				"allocate_to_invoices": []uuid.UUID{uuid.New()},
			},
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.post("/api/v1/payments", tt.body)
			testutil.AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}

	t.Run("cancel requires a reason", func(t *testing.T) {
		w := s.post("/api/v1/payments/"+uuid.New().String()+"/cancel", map[string]any{})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("get unknown", func(t *testing.T) {
		w := s.get("/api/v1/payments/" + uuid.New().String())
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
	})
}
