package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	catalogapp "github.com/vikasgargbear/production-infra-sub001/internal/application/catalog"
	financeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/finance"
	gstapp "github.com/vikasgargbear/production-infra-sub001/internal/application/gst"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	partnerapp "github.com/vikasgargbear/production-infra-sub001/internal/application/partner"
	tradeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/trade"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/storage"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
	"github.com/vikasgargbear/production-infra-sub001/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testNow is the fixed instant every service in the test server sees
var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

// testServer is the full API over an in-memory database
type testServer struct {
	t       *testing.T
	db      *gorm.DB
	engine  *gin.Engine
	orgID   uuid.UUID
	archive *storage.MemoryArchive
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	db := testutil.NewSQLiteDB(t)
	orgID := testutil.TestOrgID()
	testutil.SeedOrganization(t, db, orgID)

	log := zap.NewNop()
	clock := shared.FixedClock{At: testNow}
	repos := persistence.NewGormRepositories(db)
	scope := persistence.NewGormTransactionScope(db)

	inventoryService := inventoryapp.NewInventoryService(scope, repos, log).WithClock(clock)
	accounts := financeapp.NewAccountService(scope, repos, log, financeapp.WithAccountClock(clock))
	invoices := financeapp.NewInvoiceBuilder(repos, "", log).WithClock(clock)
	orderService := tradeapp.NewOrderService(scope, repos, inventoryService, accounts, invoices, log,
		tradeapp.WithOrderClock(clock))
	customerService := partnerapp.NewCustomerService(scope, repos, log)
	productService := catalogapp.NewProductService(repos.Products(), log)
	archive := storage.NewMemoryArchive()
	gstService := gstapp.NewService(repos.Invoices(), repos.GSTAdjustments(), archive, "", log)

	orders := NewOrderHandler(orderService)
	invoiceHandler := NewInvoiceHandler(invoices)
	payments := NewPaymentHandler(accounts)
	customers := NewCustomerHandler(customerService, accounts).WithClock(clock)
	products := NewProductHandler(productService, inventoryService)
	batches := NewBatchHandler(inventoryService)
	stock := NewStockHandler(inventoryService)
	gstHandler := NewGSTHandler(gstService).WithClock(clock)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1", middleware.OrgContext(log))

	api.POST("/orders", orders.Create)
	api.GET("/orders", orders.List)
	api.POST("/orders/validate", orders.Validate)
	api.GET("/orders/:id", orders.Get)
	api.PUT("/orders/:id", orders.Update)
	api.POST("/orders/:id/submit", orders.Submit)
	api.POST("/orders/:id/approve", orders.Approve)
	api.POST("/orders/:id/convert-to-invoice", orders.ConvertToInvoice)
	api.POST("/orders/:id/convert-to-challan", orders.ConvertToChallan)
	api.POST("/orders/:id/deliver", orders.Deliver)
	api.POST("/orders/:id/cancel", orders.Cancel)
	api.POST("/orders/:id/return", orders.Return)

	api.GET("/invoices", invoiceHandler.List)
	api.GET("/invoices/:id", invoiceHandler.Get)

	api.POST("/payments", payments.Record)
	api.GET("/payments", payments.List)
	api.GET("/payments/:id", payments.Get)
	api.POST("/payments/:id/cancel", payments.Cancel)

	api.POST("/customers", customers.Create)
	api.GET("/customers", customers.List)
	api.GET("/customers/:id", customers.Get)
	api.PUT("/customers/:id", customers.Update)
	api.GET("/customers/:id/credit-check", customers.CreditCheck)
	api.GET("/customers/:id/ledger", customers.Ledger)
	api.GET("/customers/:id/outstanding", customers.Outstanding)

	api.POST("/products", products.Create)
	api.GET("/products", products.List)
	api.GET("/products/:id", products.Get)
	api.GET("/products/:id/stock", products.Stock)

	api.POST("/batches", batches.Create)
	api.GET("/batches", batches.List)
	api.GET("/batches/:id", batches.Get)

	api.POST("/stock/movements", stock.RecordMovement)
	api.GET("/stock/movements", stock.ListMovements)
	api.POST("/stock/adjust", stock.Adjust)
	api.GET("/stock/expiry-alerts", stock.ExpiryAlerts)
	api.GET("/stock/valuation", stock.Valuation)
	api.POST("/stock/writeoff", stock.WriteOff)
	api.GET("/stock/writeoff", stock.ListWriteOffs)
	api.GET("/stock/writeoff/:id", stock.GetWriteOff)

	api.POST("/gst/validate-gstin", gstHandler.ValidateGSTIN)
	api.POST("/gst/calculate", gstHandler.Calculate)
	api.GET("/gst/summary", gstHandler.Summary)
	api.GET("/gst/summary/export", gstHandler.ExportSummary)

	return &testServer{t: t, db: db, engine: engine, orgID: orgID, archive: archive}
}

// do sends a request as a caller of the test organization
func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	return testutil.PerformRequest(s.t, s.engine, method, path, body, testutil.OrgHeaders(s.orgID))
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(http.MethodGet, path, nil)
}

func (s *testServer) post(path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(http.MethodPost, path, body)
}

// salesFixture is one customer with one product stocked in two batches
type salesFixture struct {
	customerID uuid.UUID
	productID  uuid.UUID
	nearBatch  uuid.UUID
	farBatch   uuid.UUID
}

// seedSales stocks 30 strips of a 12% product priced 100 in batches expiring
// in 2027 (10 strips) and 2028 (20 strips)
func (s *testServer) seedSales() salesFixture {
	s.t.Helper()
	customer := testutil.SeedCustomer(s.t, s.db, s.orgID, "CUST-0001")
	product := testutil.SeedProduct(s.t, s.db, s.orgID, "PARA500", decimal.NewFromInt(100), decimal.NewFromInt(12))
	near := testutil.SeedBatch(s.t, s.db, s.orgID, product.ID, "B-NEAR", decimal.NewFromInt(10), decimal.NewFromInt(60), testutil.DatePtr(2027, 6, 30))
	far := testutil.SeedBatch(s.t, s.db, s.orgID, product.ID, "B-FAR", decimal.NewFromInt(20), decimal.NewFromInt(60), testutil.DatePtr(2028, 6, 30))
	return salesFixture{
		customerID: customer.ID,
		productID:  product.ID,
		nearBatch:  near.ID,
		farBatch:   far.ID,
	}
}

// orderBody is a create request for qty strips of the fixture product
func (f salesFixture) orderBody(qty int64) map[string]any {
	return map[string]any{
		"customer_id": f.customerID,
		"items": []map[string]any{
			{"product_id": f.productID, "quantity": decimal.NewFromInt(qty)},
		},
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, testutil.Decimal(t, want).Equal(got), "want %s, got %s", want, got.String())
}
