package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	financeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/finance"
	partnerapp "github.com/vikasgargbear/production-infra-sub001/internal/application/partner"
	tradeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/trade"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/tests/testutil"
)

// invoicedOrder creates, approves and invoices an order of qty strips
func (s *testServer) invoicedOrder(f salesFixture, qty int64) tradeapp.InvoiceConversionResponse {
	s.t.Helper()
	order := s.createOrder(f.orderBody(qty))
	base := "/api/v1/orders/" + order.ID.String()
	testutil.AssertSuccessResponse(s.t, s.post(base+"/approve", nil), http.StatusOK)
	w := s.post(base+"/convert-to-invoice", nil)
	testutil.AssertSuccessResponse(s.t, w, http.StatusOK)
	return testutil.DecodeData[tradeapp.InvoiceConversionResponse](s.t, w)
}

func TestCustomerHandler_Create(t *testing.T) {
	s := newTestServer(t)

	t.Run("generates codes per name prefix", func(t *testing.T) {
		codes := make([]string, 0, 3)
		for _, name := range []string{"Apollo Pharmacy", "Apex Medicals", "Apollo Clinic"} {
			w := s.post("/api/v1/customers", map[string]any{
				"name":         name,
				"gstin":        "29aapfu0939f1zv",
				"credit_limit": "50000",
				"credit_days":  15,
				"billing_address": map[string]any{
					"line1": "4 MG Road", "city": "Bengaluru", "state": "Karnataka", "pincode": "560001",
				},
			})
			testutil.AssertSuccessResponse(t, w, http.StatusCreated)
			customer := testutil.DecodeData[partnerapp.CustomerResponse](t, w)
			assert.Equal(t, "29", customer.StateCode)
			assert.True(t, customer.IsActive)
			codes = append(codes, customer.Code)
		}
		assert.Equal(t, []string{"APO0001", "APE0001", "APO0002"}, codes)
	})

	t.Run("rejects malformed GSTIN", func(t *testing.T) {
		w := s.post("/api/v1/customers", map[string]any{"name": "Bad GSTIN", "gstin": "12345"})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("rejects malformed pincode", func(t *testing.T) {
		w := s.post("/api/v1/customers", map[string]any{
			"name":            "Bad Pin",
			"billing_address": map[string]any{"pincode": "12"},
		})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("requires a name", func(t *testing.T) {
		w := s.post("/api/v1/customers", map[string]any{"phone": "9876543210"})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})
}

func TestCustomerHandler_GetListUpdate(t *testing.T) {
	s := newTestServer(t)
	seeded := testutil.SeedCustomer(t, s.db, s.orgID, "CUST-0001")
	testutil.SeedCustomer(t, s.db, s.orgID, "CUST-0002")

	t.Run("get", func(t *testing.T) {
		w := s.get("/api/v1/customers/" + seeded.ID.String())
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Equal(t, "CUST-0001", testutil.DecodeData[partnerapp.CustomerResponse](t, w).Code)
	})

	t.Run("get unknown", func(t *testing.T) {
		w := s.get("/api/v1/customers/" + uuid.New().String())
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("list with search", func(t *testing.T) {
		w := s.get("/api/v1/customers?search=cust-0002")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		customers := testutil.DecodeData[[]partnerapp.CustomerResponse](t, w)
		require.Len(t, customers, 1)
		assert.Equal(t, "CUST-0002", customers[0].Code)
	})

	t.Run("update keeps omitted fields", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/v1/customers/"+seeded.ID.String(), map[string]any{
			"credit_limit": "250000",
			"is_active":    false,
		})
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		updated := testutil.DecodeData[partnerapp.CustomerResponse](t, w)
		requireDecimal(t, "250000", updated.CreditLimit)
		assert.False(t, updated.IsActive)
		assert.Equal(t, seeded.Name, updated.Name)
		assert.Equal(t, 30, updated.CreditDays)
	})

	t.Run("inactive customers cannot order", func(t *testing.T) {
		product := testutil.SeedProduct(t, s.db, s.orgID, "ORS", testutil.Decimal(t, "20"), testutil.Decimal(t, "5"))
		w := s.post("/api/v1/orders", map[string]any{
			"customer_id": seeded.ID,
			"items":       []map[string]any{{"product_id": product.ID, "quantity": "1"}},
		})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})
}

func TestCustomerHandler_CreditCheck(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()
	path := "/api/v1/customers/" + f.customerID.String() + "/credit-check"

	// an approved order counts against the limit until it is paid
	order := s.createOrder(f.orderBody(10))
	testutil.AssertSuccessResponse(t, s.post("/api/v1/orders/"+order.ID.String()+"/approve", nil), http.StatusOK)

	t.Run("within limit", func(t *testing.T) {
		w := s.get(path + "?amount=98880")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		check := testutil.DecodeData[financeapp.CreditCheckResponse](t, w)
		assert.True(t, check.OK)
		requireDecimal(t, "1120", check.Outstanding)
		requireDecimal(t, "98880", check.Available)
	})

	t.Run("over limit is reported, not rejected", func(t *testing.T) {
		w := s.get(path + "?amount=98880.01")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.False(t, testutil.DecodeData[financeapp.CreditCheckResponse](t, w).OK)
	})

	t.Run("amount is required", func(t *testing.T) {
		w := s.get(path)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("negative amount", func(t *testing.T) {
		w := s.get(path + "?amount=-1")
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})
}

func TestCustomerHandler_LedgerAndOutstanding(t *testing.T) {
	s := newTestServer(t)
	f := s.seedSales()
	converted := s.invoicedOrder(f, 10)

	w := s.post("/api/v1/payments", map[string]any{
		"customer_id":  f.customerID,
		"amount":       "500",
		"payment_mode": "cash",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)

	t.Run("ledger over the default period", func(t *testing.T) {
		w := s.get("/api/v1/customers/" + f.customerID.String() + "/ledger")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		ledger := testutil.DecodeData[finance.Ledger](t, w)

		assert.Equal(t, testutil.Date(2026, 10, 1), ledger.From.UTC())
		assert.Equal(t, testutil.Date(2026, 10, 18), ledger.To.UTC())
		requireDecimal(t, "0", ledger.OpeningBalance)
		require.Len(t, ledger.Entries, 2)
		assert.Equal(t, finance.LedgerEntryInvoice, ledger.Entries[0].EntryType)
		assert.Equal(t, converted.InvoiceNumber, ledger.Entries[0].Reference)
		requireDecimal(t, "1120", ledger.Entries[0].Debit)
		assert.Equal(t, finance.LedgerEntryPayment, ledger.Entries[1].EntryType)
		requireDecimal(t, "500", ledger.Entries[1].Credit)
		requireDecimal(t, "620", ledger.ClosingBalance)
	})

	t.Run("ledger after the documents carries them as opening", func(t *testing.T) {
		w := s.get("/api/v1/customers/" + f.customerID.String() + "/ledger?from=2026-11-01&to=2026-11-30")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		ledger := testutil.DecodeData[finance.Ledger](t, w)
		requireDecimal(t, "620", ledger.OpeningBalance)
		assert.Empty(t, ledger.Entries)
		requireDecimal(t, "620", ledger.ClosingBalance)
	})

	t.Run("ledger rejects an inverted period", func(t *testing.T) {
		w := s.get("/api/v1/customers/" + f.customerID.String() + "/ledger?from=2026-10-10&to=2026-10-01")
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("ledger rejects a malformed date", func(t *testing.T) {
		w := s.get("/api/v1/customers/" + f.customerID.String() + "/ledger?from=10/01/2026")
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION")
	})

	t.Run("outstanding", func(t *testing.T) {
		w := s.get("/api/v1/customers/" + f.customerID.String() + "/outstanding")
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		out := testutil.DecodeData[finance.Outstanding](t, w)
		require.Len(t, out.Invoices, 1)
		requireDecimal(t, "620", out.TotalOutstanding)
		requireDecimal(t, "0", out.OverdueAmount)
		requireDecimal(t, "620", out.Aging[finance.Aging0To30])
	})
}
