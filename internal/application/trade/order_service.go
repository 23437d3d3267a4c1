package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/metrics"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/unitofwork"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/catalog"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/trade"
	"go.uber.org/zap"
)

// StockAllocator is the part of the inventory ledger the order pipeline drives
type StockAllocator interface {
	CheckAvailability(ctx context.Context, repos unitofwork.Repositories, orgID uuid.UUID, lines []inventory.AllocationLine) (*inventory.AllocationPlan, error)
	AllocateTx(ctx context.Context, repos unitofwork.Repositories, orgID, orderID uuid.UUID, lines []inventory.AllocationLine) ([]inventory.BatchAllocation, error)
	ReleaseTx(ctx context.Context, repos unitofwork.Repositories, orgID, orderID uuid.UUID, notes string) ([]*inventory.StockMovement, error)
}

// CreditChecker checks an amount against a customer's remaining credit
type CreditChecker interface {
	CheckCreditTx(ctx context.Context, repos unitofwork.Repositories, customer *partner.Customer, amount decimal.Decimal, excludeOrderID *uuid.UUID) (finance.CreditCheck, error)
}

// InvoiceGenerator issues the invoice of an order
type InvoiceGenerator interface {
	GenerateForOrder(ctx context.Context, repos unitofwork.Repositories, order *trade.Order, date time.Time) (*finance.Invoice, error)
	NotifyIssued(ctx context.Context, inv *finance.Invoice)
}

// OrderService coordinates the sales order lifecycle. Every transition runs
// in one transaction with the order row locked; stock, credit and invoicing
// are delegated to the inventory ledger, the customer account and the
// invoice builder.
type OrderService struct {
	scope              unitofwork.TransactionScope
	repos              unitofwork.Repositories
	stock              StockAllocator
	credit             CreditChecker
	invoices           InvoiceGenerator
	defaultSellerGSTIN string
	clock              shared.Clock
	metrics            metrics.Recorder
	logger             *zap.Logger
}

// OrderServiceOption is a functional option for configuring OrderService
type OrderServiceOption func(*OrderService)

// WithOrderClock pins the clock used for dates and timestamps
func WithOrderClock(clock shared.Clock) OrderServiceOption {
	return func(s *OrderService) {
		s.clock = clock
	}
}

// WithOrderMetrics sets the business metrics recorder
func WithOrderMetrics(recorder metrics.Recorder) OrderServiceOption {
	return func(s *OrderService) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithDefaultSellerGSTIN sets the GSTIN used when the organization has none on file
func WithDefaultSellerGSTIN(gstin string) OrderServiceOption {
	return func(s *OrderService) {
		s.defaultSellerGSTIN = gstin
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope unitofwork.TransactionScope,
	repos unitofwork.Repositories,
	stock StockAllocator,
	credit CreditChecker,
	invoices InvoiceGenerator,
	logger *zap.Logger,
	opts ...OrderServiceOption,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &OrderService{
		scope:    scope,
		repos:    repos,
		stock:    stock,
		credit:   credit,
		invoices: invoices,
		clock:    shared.SystemClock{},
		metrics:  metrics.Nop{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a pending (or draft) order. Customer and products must exist
// in the organization. Nothing is reserved until approval.
func (s *OrderService) Create(ctx context.Context, orgID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	orderDate := shared.Today(s.clock)
	if req.OrderDate != nil {
		orderDate = shared.TruncateToDay(req.OrderDate.UTC())
	}

	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		customer, err := s.activeCustomer(ctx, repos, orgID, req.CustomerID)
		if err != nil {
			return err
		}
		inputs, err := s.itemInputs(ctx, repos, orgID, req.Items)
		if err != nil {
			return err
		}
		taxType, err := s.taxType(ctx, repos, orgID, customer)
		if err != nil {
			return err
		}

		seq, err := repos.Sequences().Next(ctx, orgID, shared.SequenceOrder, shared.DayPeriod(orderDate))
		if err != nil {
			return fmt.Errorf("next order number: %w", err)
		}
		order, err = trade.NewOrder(orgID, shared.FormatOrderNumber(orderDate, seq), customer.ID, req.OrderType, orderDate, req.SaveAsDraft)
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			order.SetCreatedBy(*req.CreatedBy)
		}
		if err := order.SetDeliveryDate(req.DeliveryDate); err != nil {
			return err
		}
		order.SetNotes(req.Notes)
		if err := order.SetItems(inputs, taxType, customer.DiscountPercent); err != nil {
			return err
		}
		return repos.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated(ctx, orgID, order.FinalAmount)
	s.logger.Info("order created",
		zap.String("org_id", orgID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()),
		zap.String("final_amount", order.FinalAmount.StringFixed(2)),
	)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Update replaces lines, notes or delivery date of a draft or pending order
// and recomputes every total
func (s *OrderService) Update(ctx context.Context, orgID, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, orgID, orderID)
		if err != nil {
			return err
		}
		if !order.CanModify() {
			return shared.NewStateError("order %s cannot be modified in status %s", order.OrderNumber, order.Status)
		}

		if req.DeliveryDate != nil {
			if err := order.SetDeliveryDate(req.DeliveryDate); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			order.SetNotes(*req.Notes)
		}
		if len(req.Items) > 0 {
			customer, err := repos.Customers().FindByID(ctx, orgID, order.CustomerID)
			if err != nil {
				return err
			}
			inputs, err := s.itemInputs(ctx, repos, orgID, req.Items)
			if err != nil {
				return err
			}
			taxType, err := s.taxType(ctx, repos, orgID, customer)
			if err != nil {
				return err
			}
			if err := order.SetItems(inputs, taxType, customer.DiscountPercent); err != nil {
				return err
			}
			if err := repos.Orders().ReplaceItems(ctx, order); err != nil {
				return err
			}
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Validate runs the checks of Create and Approve without writing anything:
// existence, totals, stock availability per line and the credit check.
func (s *OrderService) Validate(ctx context.Context, orgID uuid.UUID, req CreateOrderRequest) (*ValidationResult, error) {
	customer, err := s.activeCustomer(ctx, s.repos, orgID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	inputs, err := s.itemInputs(ctx, s.repos, orgID, req.Items)
	if err != nil {
		return nil, err
	}
	taxType, err := s.taxType(ctx, s.repos, orgID, customer)
	if err != nil {
		return nil, err
	}

	today := shared.Today(s.clock)
	order, err := trade.NewOrder(orgID, "VALIDATION", customer.ID, req.OrderType, today, false)
	if err != nil {
		return nil, err
	}
	if err := order.SetItems(inputs, taxType, customer.DiscountPercent); err != nil {
		return nil, err
	}

	plan, err := s.stock.CheckAvailability(ctx, s.repos, orgID, allocationLines(order))
	if err != nil {
		return nil, err
	}
	check, err := s.credit.CheckCreditTx(ctx, s.repos, customer, order.FinalAmount, nil)
	if err != nil {
		return nil, err
	}

	return &ValidationResult{
		Valid:       plan.Satisfied() && check.OK,
		Totals:      ToOrderResponse(order),
		Allocations: plan.Allocations,
		Shortages:   plan.Shortages,
		Credit:      check,
	}, nil
}

// Submit moves a draft to pending
func (s *OrderService) Submit(ctx context.Context, orgID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orgID, orderID, func(_ unitofwork.Repositories, order *trade.Order) error {
		return order.Submit()
	})
}

// Approve approves a pending order.
//
// Stock is re-checked against non-expired batches in FEFO order and the
// order's final amount is checked against the customer's remaining credit,
// not counting this order's own balance. If either fails the order stays
// pending and the error carries every failing line or the credit figures.
// On success the stock is allocated in the same transaction.
func (s *OrderService) Approve(ctx context.Context, orgID, orderID uuid.UUID) (*ApproveResponse, error) {
	var order *trade.Order
	var allocations []inventory.BatchAllocation
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, orgID, orderID)
		if err != nil {
			return err
		}
		if _, err := trade.NextStatus(order.Status, trade.EventApprove); err != nil {
			return err
		}
		customer, err := repos.Customers().FindByID(ctx, orgID, order.CustomerID)
		if err != nil {
			return err
		}

		lines := allocationLines(order)
		plan, err := s.stock.CheckAvailability(ctx, repos, orgID, lines)
		if err != nil {
			return err
		}
		if !plan.Satisfied() {
			return plan.ShortageError()
		}
		check, err := s.credit.CheckCreditTx(ctx, repos, customer, order.FinalAmount, &order.ID)
		if err != nil {
			return err
		}
		if err := check.Err(); err != nil {
			return err
		}

		if err := order.Approve(s.clock.Now()); err != nil {
			return err
		}
		allocations, err = s.stock.AllocateTx(ctx, repos, orgID, order.ID, lines)
		if err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		s.logger.Warn("order approval rejected",
			zap.String("org_id", orgID.String()),
			zap.String("order_id", orderID.String()),
			zap.String("code", shared.ErrorCode(err)),
		)
		return nil, err
	}

	s.transitioned(ctx, order)
	return &ApproveResponse{Order: ToOrderResponse(order), Allocations: allocations}, nil
}

// ConvertToInvoice issues the tax invoice of an approved order. The issue
// notification is sent after the transaction committed.
func (s *OrderService) ConvertToInvoice(ctx context.Context, orgID, orderID uuid.UUID, req ConvertRequest) (*InvoiceConversionResponse, error) {
	date := s.documentDate(req.Date)
	var order *trade.Order
	var inv *finance.Invoice
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, orgID, orderID)
		if err != nil {
			return err
		}
		inv, err = s.invoices.GenerateForOrder(ctx, repos, order, date)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invoices.NotifyIssued(ctx, inv)
	s.transitioned(ctx, order)
	return &InvoiceConversionResponse{
		Order:         ToOrderResponse(order),
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
	}, nil
}

// ConvertToChallan ships an approved order under a delivery challan
func (s *OrderService) ConvertToChallan(ctx context.Context, orgID, orderID uuid.UUID, req ConvertRequest) (*OrderResponse, error) {
	date := s.documentDate(req.Date)
	return s.transition(ctx, orgID, orderID, func(repos unitofwork.Repositories, order *trade.Order) error {
		if _, err := trade.NextStatus(order.Status, trade.EventChallan); err != nil {
			return err
		}
		seq, err := repos.Sequences().Next(ctx, orgID, shared.SequenceChallan, shared.DayPeriod(date))
		if err != nil {
			return fmt.Errorf("next challan number: %w", err)
		}
		return order.MarkShipped(shared.FormatChallanNumber(date, seq), s.clock.Now())
	})
}

// Deliver marks an invoiced order delivered
func (s *OrderService) Deliver(ctx context.Context, orgID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orgID, orderID, func(_ unitofwork.Repositories, order *trade.Order) error {
		return order.Deliver(s.clock.Now())
	})
}

// Cancel cancels a draft, pending or approved order. Stock allocated at
// approval is put back with compensating movements.
func (s *OrderService) Cancel(ctx context.Context, orgID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, orgID, orderID, func(repos unitofwork.Repositories, order *trade.Order) error {
		held := order.Status.HoldsAllocation()
		if err := order.Cancel(req.Reason, s.clock.Now()); err != nil {
			return err
		}
		if !held {
			return nil
		}
		_, err := s.stock.ReleaseTx(ctx, repos, orgID, order.ID, "Order cancelled: "+req.Reason)
		return err
	})
}

// ProcessReturn takes back a delivered or invoiced order. Every batch the
// order consumed receives its quantity back and the return record lists them.
func (s *OrderService) ProcessReturn(ctx context.Context, orgID, orderID uuid.UUID, req ReturnRequest) (*ReturnResponse, error) {
	date := s.documentDate(req.ReturnDate)
	var order *trade.Order
	var ret *trade.OrderReturn
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, orgID, orderID)
		if err != nil {
			return err
		}
		if _, err := trade.NextStatus(order.Status, trade.EventReturn); err != nil {
			return err
		}

		seq, err := repos.Sequences().Next(ctx, orgID, shared.SequenceReturn, shared.DayPeriod(date))
		if err != nil {
			return fmt.Errorf("next return number: %w", err)
		}
		ret, err = trade.NewOrderReturn(order, shared.FormatReturnNumber(date, seq), req.RefundMethod, req.Reason, date)
		if err != nil {
			return err
		}

		restored, err := s.stock.ReleaseTx(ctx, repos, orgID, order.ID, "Order returned: "+req.Reason)
		if err != nil {
			return err
		}
		for _, m := range restored {
			if m.BatchID != nil {
				ret.AddItem(m.ProductID, *m.BatchID, m.QuantityIn)
			}
		}
		if err := repos.OrderReturns().Create(ctx, ret); err != nil {
			return err
		}

		if err := order.MarkReturned(s.clock.Now()); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.transitioned(ctx, order)
	s.logger.Info("order returned",
		zap.String("org_id", orgID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("refund_amount", ret.RefundAmount.StringFixed(2)),
	)
	resp := ToReturnResponse(ret, order)
	return &resp, nil
}

// Get retrieves an order with its items
func (s *OrderService) Get(ctx context.Context, orgID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.repos.Orders().FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List lists orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, orgID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if f.OrderBy == "" {
		f.OrderBy = "order_date"
	}
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.From != nil {
		f.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		f.Filters["to"] = *filter.To
	}

	orders, total, err := s.repos.Orders().FindAll(ctx, orgID, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// transition locks the order, applies fn and saves the header
func (s *OrderService) transition(ctx context.Context, orgID, orderID uuid.UUID, fn func(repos unitofwork.Repositories, order *trade.Order) error) (*OrderResponse, error) {
	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, orgID, orderID)
		if err != nil {
			return err
		}
		if err := fn(repos, order); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.transitioned(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) transitioned(ctx context.Context, order *trade.Order) {
	s.metrics.OrderTransitioned(ctx, order.OrgID, order.Status.String())
	s.logger.Info("order transitioned",
		zap.String("org_id", order.OrgID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()),
	)
}

func (s *OrderService) documentDate(date *time.Time) time.Time {
	if date != nil {
		return shared.TruncateToDay(date.UTC())
	}
	return shared.Today(s.clock)
}

func (s *OrderService) activeCustomer(ctx context.Context, repos unitofwork.Repositories, orgID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := repos.Customers().FindByID(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, shared.NewValidationError("customer %s is inactive", customer.Code)
	}
	return customer, nil
}

// itemInputs resolves the requested lines against the catalog. Product name,
// HSN code, MRP and GST rate always come from the product.
func (s *OrderService) itemInputs(ctx context.Context, repos unitofwork.Repositories, orgID uuid.UUID, items []OrderItemInput) ([]trade.ItemInput, error) {
	if len(items) == 0 {
		return nil, shared.NewValidationError("order must have at least one item")
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := repos.Products().FindByIDs(ctx, orgID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	inputs := make([]trade.ItemInput, len(items))
	for i, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewNotFoundError("product").WithDetails(map[string]any{
				"line":       i + 1,
				"product_id": item.ProductID,
			})
		}
		if !product.IsActive {
			return nil, shared.NewValidationError("item %d: product %s is inactive", i+1, product.Code)
		}
		if item.BatchID != nil {
			batch, err := repos.Batches().FindByID(ctx, orgID, *item.BatchID)
			if err != nil {
				return nil, err
			}
			if batch.ProductID != product.ID {
				return nil, shared.NewValidationError("item %d: batch %s does not belong to product %s", i+1, batch.BatchNumber, product.Code)
			}
		}
		price := product.SalePrice
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		inputs[i] = trade.ItemInput{
			ProductID:       product.ID,
			BatchID:         item.BatchID,
			ProductName:     product.Name,
			HSNCode:         product.HSNCode,
			Quantity:        item.Quantity,
			UnitPrice:       price,
			MRP:             product.MRP,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			TaxPercent:      product.GSTPercent,
		}
	}
	return inputs, nil
}

// taxType decides the order's tax type from the organization and customer
// GSTIN. Without any seller GSTIN the sale is treated as intra-state.
func (s *OrderService) taxType(ctx context.Context, repos unitofwork.Repositories, orgID uuid.UUID, customer *partner.Customer) (gst.TaxType, error) {
	org, err := repos.Organizations().FindByID(ctx, orgID)
	if err != nil {
		return "", err
	}
	seller := org.SellerGSTIN()
	if seller == "" {
		seller = s.defaultSellerGSTIN
	}
	if seller == "" {
		return gst.TaxTypeCGSTSGST, nil
	}
	return gst.DetermineType(gst.Parties{SellerGSTIN: seller, BuyerGSTIN: customer.GSTIN})
}

func allocationLines(order *trade.Order) []inventory.AllocationLine {
	lines := make([]inventory.AllocationLine, len(order.Items))
	for i, item := range order.Items {
		lines[i] = inventory.AllocationLine{
			LineID:    item.ID,
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			Quantity:  item.Quantity,
		}
	}
	return lines
}
