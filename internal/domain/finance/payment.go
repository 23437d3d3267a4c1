package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// PaymentMode is how the money was received
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeCheque       PaymentMode = "cheque"
	PaymentModeOnline       PaymentMode = "online"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
)

// IsValid checks if the payment mode is known
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCheque, PaymentModeOnline, PaymentModeBankTransfer:
		return true
	}
	return false
}

// PaymentStatus is the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentEvent moves a payment between states
type PaymentEvent string

const (
	PaymentEventCancel PaymentEvent = "cancel"
)

// paymentTransitions is the payment state machine; anything absent is rejected
var paymentTransitions = map[PaymentStatus]map[PaymentEvent]PaymentStatus{
	PaymentCompleted: {PaymentEventCancel: PaymentCancelled},
}

// Payment is money received from a customer. The row is never edited except
// for its status and cancellation stamp.
type Payment struct {
	shared.OrgAggregateRoot
	PaymentReference  string
	CustomerID        uuid.UUID
	InvoiceID         *uuid.UUID
	PaymentDate       time.Time
	Amount            decimal.Decimal
	PaymentMode       PaymentMode
	ReferenceNumber   string
	Status            PaymentStatus
	AllocatedAmount   decimal.Decimal
	UnallocatedAmount decimal.Decimal
	Notes             string
	CancelledAt       *time.Time
	CancelReason      string
	Allocations       []PaymentAllocation
}

// PaymentAllocation is an append-only row applying part of a payment to an
// invoice. Reversals are negative rows flagged IsReversal.
type PaymentAllocation struct {
	ID         uuid.UUID
	OrgID      uuid.UUID
	PaymentID  uuid.UUID
	InvoiceID  uuid.UUID
	Amount     decimal.Decimal
	IsReversal bool
	CreatedAt  time.Time
}

// PaymentInput holds the caller's payment request
type PaymentInput struct {
	CustomerID      uuid.UUID
	InvoiceID       *uuid.UUID
	PaymentDate     time.Time
	Amount          decimal.Decimal
	PaymentMode     PaymentMode
	ReferenceNumber string
	Notes           string
}

// NewPayment validates the request and creates a completed, unallocated payment
func NewPayment(orgID uuid.UUID, reference string, in PaymentInput) (*Payment, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("organization is required")
	}
	if in.CustomerID == uuid.Nil {
		return nil, shared.NewValidationError("customer is required")
	}
	if reference == "" {
		return nil, shared.NewValidationError("payment reference is required")
	}
	if !in.Amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be greater than zero")
	}
	if in.Amount.Exponent() < -shared.MoneyPlaces {
		return nil, shared.NewValidationError("payment amount has more than two decimals")
	}
	if !in.PaymentMode.IsValid() {
		return nil, shared.NewValidationError("invalid payment mode %q", in.PaymentMode)
	}

	return &Payment{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(orgID),
		PaymentReference:  reference,
		CustomerID:        in.CustomerID,
		InvoiceID:         in.InvoiceID,
		PaymentDate:       shared.TruncateToDay(in.PaymentDate.UTC()),
		Amount:            in.Amount,
		PaymentMode:       in.PaymentMode,
		ReferenceNumber:   in.ReferenceNumber,
		Status:            PaymentCompleted,
		AllocatedAmount:   decimal.Zero,
		UnallocatedAmount: in.Amount,
		Notes:             in.Notes,
	}, nil
}

// IsCompleted reports whether the payment counts towards balances
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentCompleted
}

// Allocate applies the planned split to the invoices and records an
// allocation row for each. invoices must hold every target of the plan.
func (p *Payment) Allocate(plan *ReconciliationResult, invoices map[uuid.UUID]*Invoice) ([]PaymentAllocation, error) {
	if !p.IsCompleted() {
		return nil, shared.NewStateError("payment %s is %s", p.PaymentReference, p.Status)
	}
	if plan.TotalAllocated.GreaterThan(p.UnallocatedAmount) {
		return nil, shared.NewValidationError("allocations exceed the unallocated amount of payment %s", p.PaymentReference)
	}

	now := time.Now().UTC()
	rows := make([]PaymentAllocation, 0, len(plan.Allocations))
	for _, a := range plan.Allocations {
		inv, ok := invoices[a.TargetID]
		if !ok {
			return nil, shared.NewNotFoundError("invoice")
		}
		if err := inv.ApplyPayment(a.Amount); err != nil {
			return nil, err
		}
		rows = append(rows, PaymentAllocation{
			ID:        uuid.New(),
			OrgID:     p.OrgID,
			PaymentID: p.ID,
			InvoiceID: inv.ID,
			Amount:    a.Amount,
			CreatedAt: now,
		})
	}

	p.Allocations = append(p.Allocations, rows...)
	p.AllocatedAmount = p.AllocatedAmount.Add(plan.TotalAllocated)
	p.UnallocatedAmount = p.Amount.Sub(p.AllocatedAmount)
	return rows, nil
}

// NetAllocations sums the allocation rows per invoice, reversals included
func (p *Payment) NetAllocations() map[uuid.UUID]decimal.Decimal {
	net := make(map[uuid.UUID]decimal.Decimal)
	for _, a := range p.Allocations {
		net[a.InvoiceID] = net[a.InvoiceID].Add(a.Amount)
	}
	return net
}

// Cancel marks the payment cancelled and takes its allocations back from the
// invoices, returning the negative reversal rows to append
func (p *Payment) Cancel(reason string, at time.Time, invoices map[uuid.UUID]*Invoice) ([]PaymentAllocation, error) {
	next, ok := paymentTransitions[p.Status][PaymentEventCancel]
	if !ok {
		return nil, shared.NewStateError("payment %s is already %s", p.PaymentReference, p.Status)
	}

	net := p.NetAllocations()
	rows := make([]PaymentAllocation, 0, len(net))
	for _, invoiceID := range p.AllocatedInvoiceIDs() {
		amount := net[invoiceID]
		inv, found := invoices[invoiceID]
		if !found {
			return nil, shared.NewNotFoundError("invoice")
		}
		if err := inv.ReversePayment(amount); err != nil {
			return nil, err
		}
		rows = append(rows, PaymentAllocation{
			ID:         uuid.New(),
			OrgID:      p.OrgID,
			PaymentID:  p.ID,
			InvoiceID:  invoiceID,
			Amount:     amount.Neg(),
			IsReversal: true,
			CreatedAt:  at,
		})
	}

	p.Allocations = append(p.Allocations, rows...)
	p.Status = next
	p.CancelledAt = &at
	p.CancelReason = reason
	p.Touch()
	return rows, nil
}

// AllocatedInvoiceIDs lists the invoices the payment currently settles, in allocation order
func (p *Payment) AllocatedInvoiceIDs() []uuid.UUID {
	net := p.NetAllocations()
	ids := make([]uuid.UUID, 0, len(net))
	seen := make(map[uuid.UUID]bool, len(net))
	for _, a := range p.Allocations {
		if seen[a.InvoiceID] || !net[a.InvoiceID].IsPositive() {
			continue
		}
		seen[a.InvoiceID] = true
		ids = append(ids, a.InvoiceID)
	}
	return ids
}
