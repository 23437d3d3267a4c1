package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/metrics"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/unitofwork"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/trade"
	"go.uber.org/zap"
)

// InvoiceBuilder issues tax invoices for approved orders
type InvoiceBuilder struct {
	repos              unitofwork.Repositories
	defaultSellerGSTIN string
	clock              shared.Clock
	notifier           InvoiceNotifier
	metrics            metrics.Recorder
	logger             *zap.Logger
}

// NewInvoiceBuilder creates a new InvoiceBuilder.
// defaultSellerGSTIN is used for organizations that have no GSTIN on file.
func NewInvoiceBuilder(repos unitofwork.Repositories, defaultSellerGSTIN string, logger *zap.Logger) *InvoiceBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceBuilder{
		repos:              repos,
		defaultSellerGSTIN: defaultSellerGSTIN,
		clock:              shared.SystemClock{},
		metrics:            metrics.Nop{},
		logger:             logger,
	}
}

// WithNotifier sets the notifier for issued invoices
func (b *InvoiceBuilder) WithNotifier(notifier InvoiceNotifier) *InvoiceBuilder {
	b.notifier = notifier
	return b
}

// WithMetrics sets the business metrics recorder
func (b *InvoiceBuilder) WithMetrics(recorder metrics.Recorder) *InvoiceBuilder {
	if recorder != nil {
		b.metrics = recorder
	}
	return b
}

// WithClock replaces the clock
func (b *InvoiceBuilder) WithClock(clock shared.Clock) *InvoiceBuilder {
	b.clock = clock
	return b
}

// GenerateForOrder issues the invoice of a locked order inside the caller's
// transaction and moves the order to invoiced.
//
// The invoice number comes from the monthly series shared by every
// organization. Customer name, addresses and GSTIN are copied onto the
// invoice so later customer edits leave it unchanged. Tax type is decided
// from the seller and buyer GSTIN of this invoice.
func (b *InvoiceBuilder) GenerateForOrder(ctx context.Context, repos unitofwork.Repositories, order *trade.Order, date time.Time) (*finance.Invoice, error) {
	if !trade.Allowed(order.Status, trade.EventInvoice) {
		return nil, shared.NewStateError("order %s cannot be invoiced in status %s", order.OrderNumber, order.Status).
			WithDetails(map[string]any{"status": order.Status, "event": trade.EventInvoice})
	}
	if len(order.Items) == 0 {
		return nil, shared.NewValidationError("order %s has no items", order.OrderNumber)
	}

	customer, err := repos.Customers().FindByID(ctx, order.OrgID, order.CustomerID)
	if err != nil {
		return nil, err
	}
	org, err := repos.Organizations().FindByID(ctx, order.OrgID)
	if err != nil {
		return nil, err
	}
	sellerGSTIN := org.SellerGSTIN()
	if sellerGSTIN == "" {
		sellerGSTIN = b.defaultSellerGSTIN
	}
	if sellerGSTIN == "" {
		return nil, shared.NewValidationError("organization has no GSTIN to invoice under")
	}

	seq, err := repos.Sequences().Next(ctx, uuid.Nil, shared.SequenceInvoice, shared.MonthPeriod(date))
	if err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}

	lines := make([]finance.InvoiceLine, len(order.Items))
	inputs := order.LineInputs()
	for i := range order.Items {
		item := order.Items[i]
		lines[i] = finance.InvoiceLine{
			OrderItemID: &order.Items[i].ID,
			ProductID:   item.ProductID,
			BatchID:     item.BatchID,
			ProductName: item.ProductName,
			MRP:         item.MRP,
			Tax:         inputs[i],
		}
	}

	inv, err := finance.NewInvoice(finance.InvoiceDraft{
		OrgID:           order.OrgID,
		InvoiceNumber:   shared.FormatInvoiceNumber(date, seq),
		OrderID:         order.ID,
		CustomerID:      customer.ID,
		InvoiceDate:     date,
		CreditDays:      customer.CreditDays,
		CustomerName:    customer.Name,
		BillingAddress:  customer.BillingAddress,
		ShippingAddress: customer.ShippingAddress,
		SellerGSTIN:     sellerGSTIN,
		BuyerGSTIN:      customer.GSTIN,
		Lines:           lines,
		HeaderDiscount:  decimal.Zero,
		OtherCharges:    decimal.Zero,
	})
	if err != nil {
		return nil, err
	}
	if order.CreatedBy != nil {
		inv.SetCreatedBy(*order.CreatedBy)
	}
	if err := repos.Invoices().Create(ctx, inv); err != nil {
		return nil, err
	}

	if err := order.MarkInvoiced(inv.InvoiceNumber, b.clock.Now()); err != nil {
		return nil, err
	}
	if err := repos.Orders().Save(ctx, order); err != nil {
		return nil, err
	}

	b.logger.Info("invoice issued",
		zap.String("org_id", order.OrgID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("tax_type", inv.TaxType.String()),
		zap.String("total", inv.TotalAmount.StringFixed(2)),
	)
	return inv, nil
}

// NotifyIssued sends the issue notification. Call it after the transaction
// committed; failures are logged and swallowed.
func (b *InvoiceBuilder) NotifyIssued(ctx context.Context, inv *finance.Invoice) {
	b.metrics.InvoiceIssued(ctx, inv.OrgID, inv.TotalAmount)
	if b.notifier == nil {
		return
	}
	err := b.notifier.NotifyInvoiceIssued(ctx, InvoiceNotification{
		OrgID:         inv.OrgID.String(),
		InvoiceID:     inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		TotalAmount:   inv.TotalAmount.StringFixed(2),
		DueDate:       inv.DueDate.Format("2006-01-02"),
	})
	if err != nil {
		b.logger.Warn("invoice notification failed",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err),
		)
	}
}

// Get retrieves an invoice with its items
func (b *InvoiceBuilder) Get(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := b.repos.Invoices().FindByID(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List lists invoices with filtering and pagination
func (b *InvoiceBuilder) List(ctx context.Context, orgID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if f.OrderBy == "" {
		f.OrderBy = "invoice_date"
	}
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.PaymentStatus != "" {
		f.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.From != nil {
		f.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		f.Filters["to"] = *filter.To
	}

	invoices, total, err := b.repos.Invoices().FindAll(ctx, orgID, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out, total, nil
}
