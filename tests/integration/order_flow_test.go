package integration

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogapp "github.com/vikasgargbear/production-infra-sub001/internal/application/catalog"
	financeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/finance"
	gstapp "github.com/vikasgargbear/production-infra-sub001/internal/application/gst"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	partnerapp "github.com/vikasgargbear/production-infra-sub001/internal/application/partner"
	tradeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/trade"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/trade"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/cache"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/storage"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/handler"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/router"
	"github.com/vikasgargbear/production-infra-sub001/tests/testutil"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// apiServer is the routed API, with its production middleware, over postgres
type apiServer struct {
	t      *testing.T
	db     *TestDB
	engine *gin.Engine
	orgID  uuid.UUID
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	tdb := NewTestDB(t)
	orgID := uuid.New()
	testutil.SeedOrganization(t, tdb.DB, orgID)

	log := zap.NewNop()
	repos := persistence.NewGormRepositories(tdb.DB)
	scope := persistence.NewGormTransactionScope(tdb.DB)

	inventoryService := inventoryapp.NewInventoryService(scope, repos, log)
	accounts := financeapp.NewAccountService(scope, repos, log)
	invoices := financeapp.NewInvoiceBuilder(repos, "", log)
	orders := tradeapp.NewOrderService(scope, repos, inventoryService, accounts, invoices, log)

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", handler.NewHealthHandler(handler.PingerFunc(tdb.SqlDB.PingContext)).Check)
	router.NewRouter(engine).
		Use(middleware.OrgContext(log), middleware.Idempotency(store, time.Hour)).
		Register(router.APIGroups(router.Handlers{
			Orders:    handler.NewOrderHandler(orders),
			Invoices:  handler.NewInvoiceHandler(invoices),
			Payments:  handler.NewPaymentHandler(accounts),
			Customers: handler.NewCustomerHandler(partnerapp.NewCustomerService(scope, repos, log), accounts),
			Products:  handler.NewProductHandler(catalogapp.NewProductService(repos.Products(), log), inventoryService),
			Batches:   handler.NewBatchHandler(inventoryService),
			Stock:     handler.NewStockHandler(inventoryService),
			GST:       handler.NewGSTHandler(gstapp.NewService(repos.Invoices(), repos.GSTAdjustments(), storage.NewMemoryArchive(), "", log)),
		})...).
		Setup()

	return &apiServer{t: t, db: tdb, engine: engine, orgID: orgID}
}

func (s *apiServer) do(method, path string, body any, extra map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	headers := testutil.OrgHeaders(s.orgID)
	for k, v := range extra {
		headers[k] = v
	}
	return testutil.PerformRequest(s.t, s.engine, method, path, body, headers)
}

func (s *apiServer) post(path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(http.MethodPost, path, body, nil)
}

// stock seeds a 12% product with 10 strips expiring in 2027 and 20 in 2028
func (s *apiServer) stock() (customerID, productID uuid.UUID) {
	s.t.Helper()
	customer := testutil.SeedCustomer(s.t, s.db.DB, s.orgID, "CUST-0001")
	product := testutil.SeedProduct(s.t, s.db.DB, s.orgID, "PARA500", decimal.NewFromInt(100), decimal.NewFromInt(12))
	testutil.SeedBatch(s.t, s.db.DB, s.orgID, product.ID, "B-NEAR", decimal.NewFromInt(10), decimal.NewFromInt(60), testutil.DatePtr(2027, 6, 30))
	testutil.SeedBatch(s.t, s.db.DB, s.orgID, product.ID, "B-FAR", decimal.NewFromInt(20), decimal.NewFromInt(60), testutil.DatePtr(2028, 6, 30))
	return customer.ID, product.ID
}

func (s *apiServer) createOrder(customerID, productID uuid.UUID, qty int64) tradeapp.OrderResponse {
	s.t.Helper()
	w := s.post("/api/v1/orders", map[string]any{
		"customer_id": customerID,
		"items":       []map[string]any{{"product_id": productID, "quantity": decimal.NewFromInt(qty)}},
	})
	testutil.AssertSuccessResponse(s.t, w, http.StatusCreated)
	return testutil.DecodeData[tradeapp.OrderResponse](s.t, w)
}

func (s *apiServer) available(productID uuid.UUID) decimal.Decimal {
	s.t.Helper()
	var total decimal.Decimal
	row := s.db.DB.Model(&models.BatchModel{}).
		Where("org_id = ? AND product_id = ?", s.orgID, productID).
		Select("COALESCE(SUM(quantity_available), 0)").
		Row()
	require.NoError(s.t, row.Scan(&total))
	return total
}

func TestOrderToCash(t *testing.T) {
	s := newAPIServer(t)
	customerID, productID := s.stock()

	order := s.createOrder(customerID, productID, 15)
	assert.Equal(t, string(trade.OrderStatusPending), order.Status)
	assert.True(t, decimal.NewFromInt(1680).Equal(order.FinalAmount), "got %s", order.FinalAmount)

	// approval takes the earliest expiry first
	w := s.post("/api/v1/orders/"+order.ID.String()+"/approve", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	approved := testutil.DecodeData[tradeapp.ApproveResponse](t, w)
	require.Len(t, approved.Allocations, 2)
	assert.Equal(t, "B-NEAR", approved.Allocations[0].BatchNumber)
	assert.True(t, decimal.NewFromInt(10).Equal(approved.Allocations[0].Quantity))
	assert.Equal(t, "B-FAR", approved.Allocations[1].BatchNumber)
	assert.True(t, decimal.NewFromInt(5).Equal(approved.Allocations[1].Quantity))
	assert.True(t, decimal.NewFromInt(15).Equal(s.available(productID)))

	w = s.post("/api/v1/orders/"+order.ID.String()+"/convert-to-invoice", map[string]any{})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	converted := testutil.DecodeData[tradeapp.InvoiceConversionResponse](t, w)
	assert.Equal(t, string(trade.OrderStatusInvoiced), converted.Order.Status)
	assert.NotEmpty(t, converted.InvoiceNumber)

	w = s.post("/api/v1/payments", map[string]any{
		"customer_id":  customerID,
		"amount":       "1680",
		"payment_mode": "online",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	payment := testutil.DecodeData[financeapp.PaymentResponse](t, w)
	require.Len(t, payment.Settlements, 1)
	assert.Equal(t, finance.InvoicePaid, payment.Settlements[0].PaymentStatus)

	w = s.do(http.MethodGet, "/api/v1/customers/"+customerID.String()+"/outstanding", nil, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	outstanding := testutil.DecodeData[finance.Outstanding](t, w)
	assert.True(t, outstanding.TotalOutstanding.IsZero(), "got %s", outstanding.TotalOutstanding)
}

func TestConcurrentApprovalsNeverOversell(t *testing.T) {
	s := newAPIServer(t)
	customerID, productID := s.stock()

	// three orders of 12 against 30 strips: only two fit
	orders := make([]tradeapp.OrderResponse, 3)
	for i := range orders {
		orders[i] = s.createOrder(customerID, productID, 12)
	}

	codes := make([]int, len(orders))
	var wg sync.WaitGroup
	for i, o := range orders {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			codes[i] = s.post("/api/v1/orders/"+id.String()+"/approve", nil).Code
		}(i, o.ID)
	}
	wg.Wait()

	approved := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			approved++
		default:
			assert.Contains(t, []int{http.StatusUnprocessableEntity, http.StatusConflict}, code)
		}
	}
	assert.Equal(t, 2, approved)
	assert.True(t, decimal.NewFromInt(6).Equal(s.available(productID)), "got %s", s.available(productID))

	var negative int64
	require.NoError(t, s.db.DB.Model(&models.BatchModel{}).
		Where("org_id = ? AND quantity_available < 0", s.orgID).
		Count(&negative).Error)
	assert.Zero(t, negative)
}

func TestPaymentIdempotencyKey(t *testing.T) {
	s := newAPIServer(t)
	customerID, _ := s.stock()

	body := map[string]any{"customer_id": customerID, "amount": "250", "payment_mode": "cash"}
	key := map[string]string{middleware.IdempotencyKeyHeader: "pay-" + uuid.NewString()}

	w := s.do(http.MethodPost, "/api/v1/payments", body, key)
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)

	w = s.do(http.MethodPost, "/api/v1/payments", body, key)
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "CONFLICT")

	var count int64
	require.NoError(t, s.db.DB.Model(&models.PaymentModel{}).Where("org_id = ?", s.orgID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// a rejected request releases its key
	retry := map[string]string{middleware.IdempotencyKeyHeader: "pay-" + uuid.NewString()}
	bad := map[string]any{"customer_id": uuid.New(), "amount": "250", "payment_mode": "cash"}
	testutil.AssertErrorResponse(t, s.do(http.MethodPost, "/api/v1/payments", bad, retry), http.StatusNotFound, "NOT_FOUND")
	testutil.AssertErrorResponse(t, s.do(http.MethodPost, "/api/v1/payments", bad, retry), http.StatusNotFound, "NOT_FOUND")
}

func TestHealthAgainstPostgres(t *testing.T) {
	s := newAPIServer(t)

	w := testutil.PerformRequest(t, s.engine, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
