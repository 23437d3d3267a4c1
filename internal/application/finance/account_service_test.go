package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	tradeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/trade"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence"
	"github.com/vikasgargbear/production-infra-sub001/tests/testutil"
	"go.uber.org/zap"
)

var accountsNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type accountFixture struct {
	accounts   *AccountService
	invoices   *InvoiceBuilder
	orders     *tradeapp.OrderService
	orgID      uuid.UUID
	customerID uuid.UUID
	productID  uuid.UUID
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	orgID := testutil.TestOrgID()
	testutil.SeedOrganization(t, db, orgID)
	customer := testutil.SeedCustomer(t, db, orgID, "CUST-0001",
		testutil.WithCreditLimit(decimal.NewFromInt(2000)),
		testutil.WithCreditDays(30),
	)
	product := testutil.SeedProduct(t, db, orgID, "PARA500", decimal.NewFromInt(100), decimal.NewFromInt(12))
	testutil.SeedBatch(t, db, orgID, product.ID, "B-1", decimal.NewFromInt(100), decimal.NewFromInt(60), testutil.DatePtr(2028, 6, 30))

	log := zap.NewNop()
	clock := shared.FixedClock{At: accountsNow}
	repos := persistence.NewGormRepositories(db)
	scope := persistence.NewGormTransactionScope(db)

	accounts := NewAccountService(scope, repos, log, WithAccountClock(clock))
	invoices := NewInvoiceBuilder(repos, "", log).WithClock(clock)
	stock := inventoryapp.NewInventoryService(scope, repos, log).WithClock(clock)

	return &accountFixture{
		accounts:   accounts,
		invoices:   invoices,
		orders:     tradeapp.NewOrderService(scope, repos, stock, accounts, invoices, log, tradeapp.WithOrderClock(clock)),
		orgID:      orgID,
		customerID: customer.ID,
		productID:  product.ID,
	}
}

// approve creates an order of qty strips at 100 + 12% on date and approves it
func (f *accountFixture) approve(t *testing.T, qty int64, date time.Time) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	order, err := f.orders.Create(ctx, f.orgID, tradeapp.CreateOrderRequest{
		CustomerID: f.customerID,
		OrderDate:  &date,
		Items:      []tradeapp.OrderItemInput{{ProductID: f.productID, Quantity: decimal.NewFromInt(qty)}},
	})
	require.NoError(t, err)
	_, err = f.orders.Approve(ctx, f.orgID, order.ID)
	require.NoError(t, err)
	return order.ID
}

func (f *accountFixture) convert(t *testing.T, orderID uuid.UUID, date time.Time) uuid.UUID {
	t.Helper()
	converted, err := f.orders.ConvertToInvoice(context.Background(), f.orgID, orderID, tradeapp.ConvertRequest{Date: &date})
	require.NoError(t, err)
	return converted.InvoiceID
}

// invoice runs an order through approval and invoicing on the given date
func (f *accountFixture) invoice(t *testing.T, qty int64, date time.Time) uuid.UUID {
	t.Helper()
	return f.convert(t, f.approve(t, qty, date), date)
}

func (f *accountFixture) getInvoice(t *testing.T, id uuid.UUID) *InvoiceResponse {
	t.Helper()
	inv, err := f.invoices.Get(context.Background(), f.orgID, id)
	require.NoError(t, err)
	return inv
}

func (f *accountFixture) pay(t *testing.T, amount int64, invoices ...uuid.UUID) *PaymentResponse {
	t.Helper()
	paid := testutil.Date(2026, time.October, 10)
	resp, err := f.accounts.RecordPayment(context.Background(), f.orgID, RecordPaymentRequest{
		CustomerID:         f.customerID,
		PaymentDate:        &paid,
		Amount:             decimal.NewFromInt(amount),
		PaymentMode:        finance.PaymentModeCash,
		AllocateToInvoices: invoices,
	})
	require.NoError(t, err)
	return resp
}

func TestAccountService_RecordPayment_OldestInvoiceFirst(t *testing.T) {
	f := newAccountFixture(t)
	older := f.invoice(t, 5, testutil.Date(2026, time.September, 1))
	newer := f.invoice(t, 10, testutil.Date(2026, time.October, 1))

	payment := f.pay(t, 1000)
	assert.Equal(t, finance.PaymentCompleted, payment.Status)
	assert.True(t, decimal.NewFromInt(1000).Equal(payment.AllocatedAmount))
	assert.True(t, payment.UnallocatedAmount.IsZero())
	require.Len(t, payment.Settlements, 2)
	assert.Equal(t, older, payment.Settlements[0].InvoiceID)
	assert.Equal(t, newer, payment.Settlements[1].InvoiceID)

	first := f.getInvoice(t, older)
	assert.Equal(t, finance.InvoicePaid, first.PaymentStatus)
	assert.True(t, first.BalanceAmount.IsZero())

	second := f.getInvoice(t, newer)
	assert.Equal(t, finance.InvoicePartial, second.PaymentStatus)
	assert.True(t, decimal.NewFromInt(440).Equal(second.PaidAmount), "got %s", second.PaidAmount)
	assert.True(t, decimal.NewFromInt(680).Equal(second.BalanceAmount), "got %s", second.BalanceAmount)

	outstanding, err := f.accounts.Outstanding(context.Background(), f.orgID, f.customerID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(680).Equal(outstanding.TotalOutstanding))
}

func TestAccountService_RecordPayment_OldestOrderFirst(t *testing.T) {
	f := newAccountFixture(t)
	earlier := f.approve(t, 5, testutil.Date(2026, time.September, 1))
	later := f.approve(t, 10, testutil.Date(2026, time.September, 5))

	// the later order is invoiced first
	laterInvoice := f.convert(t, later, testutil.Date(2026, time.September, 10))
	earlierInvoice := f.convert(t, earlier, testutil.Date(2026, time.September, 20))

	payment := f.pay(t, 560)
	require.Len(t, payment.Settlements, 1)
	assert.Equal(t, earlierInvoice, payment.Settlements[0].InvoiceID)
	assert.Equal(t, finance.InvoicePaid, f.getInvoice(t, earlierInvoice).PaymentStatus)
	assert.Equal(t, finance.InvoiceUnpaid, f.getInvoice(t, laterInvoice).PaymentStatus)
}

func TestAccountService_RecordPayment_Overpayment(t *testing.T) {
	f := newAccountFixture(t)
	f.invoice(t, 5, testutil.Date(2026, time.September, 1))

	payment := f.pay(t, 800)
	assert.True(t, decimal.NewFromInt(560).Equal(payment.AllocatedAmount))
	assert.True(t, decimal.NewFromInt(240).Equal(payment.UnallocatedAmount))
}

func TestAccountService_RecordPayment_NamedInvoice(t *testing.T) {
	f := newAccountFixture(t)
	older := f.invoice(t, 5, testutil.Date(2026, time.September, 1))
	newer := f.invoice(t, 10, testutil.Date(2026, time.October, 1))

	payment := f.pay(t, 100, newer)
	require.Len(t, payment.Settlements, 1)
	assert.Equal(t, newer, payment.Settlements[0].InvoiceID)
	assert.Equal(t, finance.InvoiceUnpaid, f.getInvoice(t, older).PaymentStatus)
	assert.Equal(t, finance.InvoicePartial, f.getInvoice(t, newer).PaymentStatus)

	t.Run("unknown invoice", func(t *testing.T) {
		_, err := f.accounts.RecordPayment(context.Background(), f.orgID, RecordPaymentRequest{
			CustomerID:         f.customerID,
			Amount:             decimal.NewFromInt(10),
			PaymentMode:        finance.PaymentModeCash,
			AllocateToInvoices: []uuid.UUID{uuid.New()},
		})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestAccountService_CancelPayment(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	older := f.invoice(t, 5, testutil.Date(2026, time.September, 1))
	newer := f.invoice(t, 10, testutil.Date(2026, time.October, 1))
	payment := f.pay(t, 1000)

	cancelled, err := f.accounts.CancelPayment(ctx, f.orgID, payment.ID, "cheque bounced")
	require.NoError(t, err)
	assert.Equal(t, finance.PaymentCancelled, cancelled.Status)
	assert.Equal(t, "cheque bounced", cancelled.CancelReason)

	for _, id := range []uuid.UUID{older, newer} {
		inv := f.getInvoice(t, id)
		assert.Equal(t, finance.InvoiceUnpaid, inv.PaymentStatus)
		assert.True(t, inv.PaidAmount.IsZero())
	}

	outstanding, err := f.accounts.Outstanding(ctx, f.orgID, f.customerID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1680).Equal(outstanding.TotalOutstanding))

	t.Run("cancelling twice is a state error", func(t *testing.T) {
		_, err := f.accounts.CancelPayment(ctx, f.orgID, payment.ID, "again")
		assert.Equal(t, shared.CodeState, shared.ErrorCode(err))
	})
}

func TestAccountService_Ledger(t *testing.T) {
	f := newAccountFixture(t)
	f.invoice(t, 5, testutil.Date(2026, time.September, 1))
	newer := f.invoice(t, 10, testutil.Date(2026, time.October, 1))
	f.pay(t, 1000)

	ledger, err := f.accounts.Ledger(context.Background(), f.orgID, f.customerID,
		testutil.Date(2026, time.September, 15), testutil.Date(2026, time.October, 31))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(560).Equal(ledger.OpeningBalance), "got %s", ledger.OpeningBalance)
	require.Len(t, ledger.Entries, 2)
	assert.Equal(t, newer, ledger.Entries[0].DocumentID)
	assert.True(t, decimal.NewFromInt(1120).Equal(ledger.Entries[0].Debit))
	assert.True(t, decimal.NewFromInt(1680).Equal(ledger.Entries[0].Balance))
	assert.True(t, decimal.NewFromInt(1000).Equal(ledger.Entries[1].Credit))
	assert.True(t, decimal.NewFromInt(1120).Equal(ledger.TotalDebit))
	assert.True(t, decimal.NewFromInt(1000).Equal(ledger.TotalCredit))
	assert.True(t, decimal.NewFromInt(680).Equal(ledger.ClosingBalance))

	t.Run("reversed period", func(t *testing.T) {
		_, err := f.accounts.Ledger(context.Background(), f.orgID, f.customerID,
			testutil.Date(2026, time.October, 31), testutil.Date(2026, time.October, 1))
		assert.Equal(t, shared.CodeValidation, shared.ErrorCode(err))
	})
}

func TestAccountService_Outstanding_Aging(t *testing.T) {
	f := newAccountFixture(t)
	older := f.invoice(t, 5, testutil.Date(2026, time.September, 1))
	f.invoice(t, 10, testutil.Date(2026, time.October, 1))

	outstanding, err := f.accounts.Outstanding(context.Background(), f.orgID, f.customerID)
	require.NoError(t, err)
	require.Len(t, outstanding.Invoices, 2)

	// 47 days since invoicing against 30 days of credit
	assert.Equal(t, older, outstanding.Invoices[0].InvoiceID)
	assert.Equal(t, 17, outstanding.Invoices[0].DaysOverdue)
	assert.Equal(t, finance.Aging0To30, outstanding.Invoices[0].AgingBucket)
	assert.Equal(t, 0, outstanding.Invoices[1].DaysOverdue)
	assert.True(t, decimal.NewFromInt(560).Equal(outstanding.OverdueAmount))
}

func TestAccountService_CheckCredit(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	f.invoice(t, 15, testutil.Date(2026, time.October, 1))

	// 1680 already owed against a 2000 limit
	check, err := f.accounts.CheckCredit(ctx, f.orgID, f.customerID, decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.True(t, check.OK)
	assert.True(t, decimal.NewFromInt(320).Equal(check.Available), "got %s", check.Available)

	check, err = f.accounts.CheckCredit(ctx, f.orgID, f.customerID, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.False(t, check.OK)
	assert.ErrorIs(t, check.Err(), shared.ErrCreditExceeded)

	_, err = f.accounts.CheckCredit(ctx, f.orgID, f.customerID, decimal.NewFromInt(-1))
	assert.Equal(t, shared.CodeValidation, shared.ErrorCode(err))
}
