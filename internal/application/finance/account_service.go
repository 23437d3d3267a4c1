package finance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/metrics"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/unitofwork"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountService covers the receivable side of a customer: credit checks,
// statements, outstanding invoices and payments.
type AccountService struct {
	scope   unitofwork.TransactionScope
	repos   unitofwork.Repositories
	clock   shared.Clock
	metrics metrics.Recorder
	logger  *zap.Logger
}

// AccountServiceOption is a functional option for configuring AccountService
type AccountServiceOption func(*AccountService)

// WithAccountClock pins the clock used for "today"
func WithAccountClock(clock shared.Clock) AccountServiceOption {
	return func(s *AccountService) {
		s.clock = clock
	}
}

// WithAccountMetrics sets the business metrics recorder
func WithAccountMetrics(recorder metrics.Recorder) AccountServiceOption {
	return func(s *AccountService) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// NewAccountService creates a new AccountService
func NewAccountService(scope unitofwork.TransactionScope, repos unitofwork.Repositories, logger *zap.Logger, opts ...AccountServiceOption) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AccountService{
		scope:   scope,
		repos:   repos,
		clock:   shared.SystemClock{},
		metrics: metrics.Nop{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckCredit reports whether amount fits in the customer's remaining credit
func (s *AccountService) CheckCredit(ctx context.Context, orgID, customerID uuid.UUID, amount decimal.Decimal) (*CreditCheckResponse, error) {
	if amount.IsNegative() {
		return nil, shared.NewValidationError("amount cannot be negative")
	}
	customer, err := s.repos.Customers().FindByID(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	check, err := s.CheckCreditTx(ctx, s.repos, customer, amount, nil)
	if err != nil {
		return nil, err
	}
	return &CreditCheckResponse{CustomerID: customerID, CreditCheck: check}, nil
}

// CheckCreditTx computes the credit check with the given repositories.
// Outstanding is the unpaid part of every order that is neither cancelled
// nor draft; excludeOrderID keeps the order being approved out of the sum.
func (s *AccountService) CheckCreditTx(ctx context.Context, repos unitofwork.Repositories, customer *partner.Customer, amount decimal.Decimal, excludeOrderID *uuid.UUID) (finance.CreditCheck, error) {
	outstanding, err := repos.Orders().SumOutstanding(ctx, customer.OrgID, customer.ID, excludeOrderID)
	if err != nil {
		return finance.CreditCheck{}, fmt.Errorf("sum outstanding: %w", err)
	}
	return finance.CheckCredit(customer.CreditLimit, outstanding, amount), nil
}

// Ledger builds the customer statement over [from, to]
func (s *AccountService) Ledger(ctx context.Context, orgID, customerID uuid.UUID, from, to time.Time) (*finance.Ledger, error) {
	from = shared.TruncateToDay(from.UTC())
	to = shared.TruncateToDay(to.UTC())
	if to.Before(from) {
		return nil, shared.NewValidationError("ledger end date is before start date")
	}
	if _, err := s.repos.Customers().FindByID(ctx, orgID, customerID); err != nil {
		return nil, err
	}

	invoicedBefore, err := s.repos.Invoices().SumTotalBefore(ctx, orgID, customerID, from)
	if err != nil {
		return nil, err
	}
	paidBefore, err := s.repos.Payments().SumCompletedBefore(ctx, orgID, customerID, from)
	if err != nil {
		return nil, err
	}
	invoices, err := s.repos.Invoices().FindByCustomerInPeriod(ctx, orgID, customerID, from, to)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.Payments().FindCompletedByCustomerInPeriod(ctx, orgID, customerID, from, to)
	if err != nil {
		return nil, err
	}

	docs := make([]finance.LedgerDocument, 0, len(invoices)+len(payments))
	for _, inv := range invoices {
		docs = append(docs, finance.LedgerDocument{
			Type:      finance.LedgerEntryInvoice,
			ID:        inv.ID,
			Reference: inv.InvoiceNumber,
			Date:      inv.InvoiceDate,
			Amount:    inv.TotalAmount,
			Narration: "Sales invoice " + inv.InvoiceNumber,
		})
	}
	for _, p := range payments {
		docs = append(docs, finance.LedgerDocument{
			Type:      finance.LedgerEntryPayment,
			ID:        p.ID,
			Reference: p.PaymentReference,
			Date:      p.PaymentDate,
			Amount:    p.Amount,
			Narration: fmt.Sprintf("Payment received (%s)", p.PaymentMode),
		})
	}
	return finance.BuildLedger(customerID, from, to, invoicedBefore.Sub(paidBefore), docs), nil
}

// Outstanding lists the customer's unsettled invoices with overdue days and aging
func (s *AccountService) Outstanding(ctx context.Context, orgID, customerID uuid.UUID) (*finance.Outstanding, error) {
	customer, err := s.repos.Customers().FindByID(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.repos.Invoices().FindUnpaidByCustomer(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	return finance.BuildOutstanding(customerID, invoices, customer.CreditDays, shared.Today(s.clock)), nil
}

// RecordPayment stores a payment and spreads it over invoices.
//
// Named invoices (AllocateToInvoices, or the single InvoiceID) are settled in
// the given order; otherwise the customer's unpaid invoices are settled
// oldest first. No invoice receives more than its balance. The residue stays
// on the payment as unallocated amount.
func (s *AccountService) RecordPayment(ctx context.Context, orgID uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	date := shared.Today(s.clock)
	if req.PaymentDate != nil {
		date = shared.TruncateToDay(req.PaymentDate.UTC())
	}
	named := req.AllocateToInvoices
	if len(named) == 0 && req.InvoiceID != nil {
		named = []uuid.UUID{*req.InvoiceID}
	}

	var resp PaymentResponse
	var payment *finance.Payment
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		customer, err := repos.Customers().FindByID(ctx, orgID, req.CustomerID)
		if err != nil {
			return err
		}

		seq, err := repos.Sequences().Next(ctx, orgID, shared.SequencePayment, shared.DayPeriod(date))
		if err != nil {
			return fmt.Errorf("next payment reference: %w", err)
		}
		payment, err = finance.NewPayment(orgID, shared.FormatPaymentReference(date, seq), finance.PaymentInput{
			CustomerID:      customer.ID,
			InvoiceID:       req.InvoiceID,
			PaymentDate:     date,
			Amount:          req.Amount,
			PaymentMode:     req.PaymentMode,
			ReferenceNumber: req.ReferenceNumber,
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			payment.SetCreatedBy(*req.CreatedBy)
		}

		invoices, strategyType, err := s.allocationTargets(ctx, repos, orgID, customer.ID, named)
		if err != nil {
			return err
		}
		strategy, err := finance.NewReconciliationStrategy(strategyType)
		if err != nil {
			return err
		}
		targets := make([]finance.AllocationTarget, len(invoices))
		byID := make(map[uuid.UUID]*finance.Invoice, len(invoices))
		for i, inv := range invoices {
			targets[i] = finance.TargetFromInvoice(inv)
			byID[inv.ID] = inv
		}
		if strategyType == finance.ReconciliationStrategyTypeFIFO {
			if err := s.stampOrderDates(ctx, repos, orgID, targets, byID); err != nil {
				return err
			}
		}
		plan, err := strategy.Allocate(payment.Amount, targets)
		if err != nil {
			return err
		}
		if _, err := payment.Allocate(plan, byID); err != nil {
			return err
		}

		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}

		settled := make(map[uuid.UUID]decimal.Decimal, len(plan.Allocations))
		settlements := make([]InvoiceSettlement, 0, len(plan.Allocations))
		for _, a := range plan.Allocations {
			inv := byID[a.TargetID]
			if err := repos.Invoices().UpdatePayment(ctx, inv); err != nil {
				return err
			}
			settled[inv.ID] = a.Amount
			settlements = append(settlements, settlementFor(inv, a.Amount))
		}
		if err := s.syncOrders(ctx, repos, orgID, byID, settled, false); err != nil {
			return err
		}

		resp = ToPaymentResponse(payment)
		resp.Settlements = settlements
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentRecorded(ctx, orgID, string(payment.PaymentMode), payment.Amount)
	s.logger.Info("payment recorded",
		zap.String("org_id", orgID.String()),
		zap.String("payment_reference", payment.PaymentReference),
		zap.String("customer_id", payment.CustomerID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("allocated", payment.AllocatedAmount.StringFixed(2)),
		zap.String("unallocated", payment.UnallocatedAmount.StringFixed(2)),
	)
	return &resp, nil
}

// allocationTargets locks the invoices a payment may settle. Named invoices
// must belong to the customer and keep the caller's order.
func (s *AccountService) allocationTargets(ctx context.Context, repos unitofwork.Repositories, orgID, customerID uuid.UUID, named []uuid.UUID) ([]*finance.Invoice, finance.ReconciliationStrategyType, error) {
	if len(named) == 0 {
		invoices, err := repos.Invoices().FindUnpaidByCustomerForUpdate(ctx, orgID, customerID)
		return invoices, finance.ReconciliationStrategyTypeFIFO, err
	}

	locked, err := repos.Invoices().FindByIDsForUpdate(ctx, orgID, sortedUnique(named))
	if err != nil {
		return nil, "", err
	}
	byID := make(map[uuid.UUID]*finance.Invoice, len(locked))
	for _, inv := range locked {
		byID[inv.ID] = inv
	}

	ordered := make([]*finance.Invoice, 0, len(named))
	seen := make(map[uuid.UUID]bool, len(named))
	for _, id := range named {
		if seen[id] {
			continue
		}
		seen[id] = true
		inv, ok := byID[id]
		if !ok {
			return nil, "", shared.NewNotFoundError("invoice").WithDetails(map[string]any{"invoice_id": id})
		}
		if inv.CustomerID != customerID {
			return nil, "", shared.NewValidationError("invoice %s does not belong to this customer", inv.InvoiceNumber)
		}
		ordered = append(ordered, inv)
	}
	return ordered, finance.ReconciliationStrategyTypeManual, nil
}

// CancelPayment cancels a completed payment. Every invoice it settled gets the
// amount back and returns to unpaid or partial; negative reversal rows are
// appended and the originating orders' paid amounts are reduced.
func (s *AccountService) CancelPayment(ctx context.Context, orgID, paymentID uuid.UUID, reason string) (*PaymentResponse, error) {
	var resp PaymentResponse
	var payment *finance.Payment
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		payment, err = repos.Payments().FindByIDForUpdate(ctx, orgID, paymentID)
		if err != nil {
			return err
		}

		net := payment.NetAllocations()
		ids := payment.AllocatedInvoiceIDs()
		byID := make(map[uuid.UUID]*finance.Invoice, len(ids))
		if len(ids) > 0 {
			locked, err := repos.Invoices().FindByIDsForUpdate(ctx, orgID, sortedUnique(ids))
			if err != nil {
				return err
			}
			for _, inv := range locked {
				byID[inv.ID] = inv
			}
		}

		reversals, err := payment.Cancel(reason, s.clock.Now(), byID)
		if err != nil {
			return err
		}
		if err := repos.Payments().AppendAllocations(ctx, reversals); err != nil {
			return err
		}
		if err := repos.Payments().MarkCancelled(ctx, payment); err != nil {
			return err
		}

		restored := make(map[uuid.UUID]decimal.Decimal, len(ids))
		settlements := make([]InvoiceSettlement, 0, len(ids))
		for _, id := range ids {
			inv := byID[id]
			if err := repos.Invoices().UpdatePayment(ctx, inv); err != nil {
				return err
			}
			restored[id] = net[id]
			settlements = append(settlements, settlementFor(inv, net[id].Neg()))
		}
		if err := s.syncOrders(ctx, repos, orgID, byID, restored, true); err != nil {
			return err
		}

		resp = ToPaymentResponse(payment)
		resp.Settlements = settlements
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentCancelled(ctx, orgID)
	s.logger.Info("payment cancelled",
		zap.String("org_id", orgID.String()),
		zap.String("payment_reference", payment.PaymentReference),
		zap.String("reason", reason),
	)
	return &resp, nil
}

// syncOrders mirrors invoice settlement onto the originating orders' paid and
// balance amounts. Orders are locked in id order.
// stampOrderDates copies the originating order date onto each FIFO target
func (s *AccountService) stampOrderDates(ctx context.Context, repos unitofwork.Repositories, orgID uuid.UUID, targets []finance.AllocationTarget, invoices map[uuid.UUID]*finance.Invoice) error {
	dates := make(map[uuid.UUID]time.Time)
	for i := range targets {
		orderID := invoices[targets[i].ID].OrderID
		if orderID == uuid.Nil {
			continue
		}
		date, ok := dates[orderID]
		if !ok {
			order, err := repos.Orders().FindByID(ctx, orgID, orderID)
			if err != nil {
				return fmt.Errorf("load order of invoice %s: %w", targets[i].Number, err)
			}
			date = order.OrderDate
			dates[orderID] = date
		}
		targets[i].OrderDate = date
	}
	return nil
}

func (s *AccountService) syncOrders(ctx context.Context, repos unitofwork.Repositories, orgID uuid.UUID, invoices map[uuid.UUID]*finance.Invoice, amounts map[uuid.UUID]decimal.Decimal, reverse bool) error {
	perOrder := make(map[uuid.UUID]decimal.Decimal)
	for invoiceID, amount := range amounts {
		inv := invoices[invoiceID]
		if inv == nil || inv.OrderID == uuid.Nil {
			continue
		}
		perOrder[inv.OrderID] = perOrder[inv.OrderID].Add(amount)
	}

	orderIDs := make([]uuid.UUID, 0, len(perOrder))
	for id := range perOrder {
		orderIDs = append(orderIDs, id)
	}
	for _, id := range sortedUnique(orderIDs) {
		order, err := repos.Orders().FindByIDForUpdate(ctx, orgID, id)
		if err != nil {
			return err
		}
		amount := perOrder[id]
		if reverse {
			amount = shared.MinDecimal(amount, order.PaidAmount)
			if !amount.IsPositive() {
				continue
			}
			err = order.ReversePayment(amount)
		} else {
			amount = shared.MinDecimal(amount, order.BalanceAmount)
			if !amount.IsPositive() {
				continue
			}
			err = order.ApplyPayment(amount)
		}
		if err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

// GetPayment retrieves a payment with its allocation rows
func (s *AccountService) GetPayment(ctx context.Context, orgID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.repos.Payments().FindByID(ctx, orgID, paymentID)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// ListPayments lists payments with filtering and pagination
func (s *AccountService) ListPayments(ctx context.Context, orgID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "payment_date",
		OrderDir: "desc",
		Filters:  make(map[string]any),
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

	payments, total, err := s.repos.Payments().FindAll(ctx, orgID, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out, total, nil
}

func sortedUnique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
