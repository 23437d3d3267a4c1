package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// ReconciliationStrategyType defines how a payment is spread over invoices
type ReconciliationStrategyType string

const (
	ReconciliationStrategyTypeFIFO   ReconciliationStrategyType = "FIFO"   // oldest invoice first
	ReconciliationStrategyTypeManual ReconciliationStrategyType = "MANUAL" // caller-chosen invoices, in the given order
)

// AllocationTarget is an invoice that can receive part of a payment
type AllocationTarget struct {
	ID     uuid.UUID
	Number string
	Date   time.Time
	// OrderDate is the date of the originating order; zero when unknown
	OrderDate         time.Time
	OutstandingAmount decimal.Decimal
}

// age is the date FIFO ranks a target by
func (t AllocationTarget) age() time.Time {
	if t.OrderDate.IsZero() {
		return t.Date
	}
	return t.OrderDate
}

// TargetFromInvoice builds an allocation target from an invoice
func TargetFromInvoice(inv *Invoice) AllocationTarget {
	return AllocationTarget{
		ID:                inv.ID,
		Number:            inv.InvoiceNumber,
		Date:              inv.InvoiceDate,
		OutstandingAmount: inv.Balance(),
	}
}

// AllocationResult is the amount planned for one target
type AllocationResult struct {
	TargetID     uuid.UUID       `json:"invoice_id"`
	TargetNumber string          `json:"invoice_number"`
	Amount       decimal.Decimal `json:"amount"`
}

// ReconciliationResult is the planned split of a payment
type ReconciliationResult struct {
	Allocations          []AllocationResult
	TotalAllocated       decimal.Decimal
	RemainingAmount      decimal.Decimal
	FullyReconciled      bool
	TargetsFullyPaid     []uuid.UUID
	TargetsPartiallyPaid []uuid.UUID
}

// ReconciliationStrategy plans how an amount is spread over targets
type ReconciliationStrategy interface {
	StrategyType() ReconciliationStrategyType
	Allocate(amount decimal.Decimal, targets []AllocationTarget) (*ReconciliationResult, error)
}

// NewReconciliationStrategy returns the strategy of the given type
func NewReconciliationStrategy(t ReconciliationStrategyType) (ReconciliationStrategy, error) {
	switch t {
	case ReconciliationStrategyTypeFIFO:
		return FIFOReconciliationStrategy{}, nil
	case ReconciliationStrategyTypeManual:
		return ManualReconciliationStrategy{}, nil
	}
	return nil, shared.NewValidationError("unknown reconciliation strategy %q", t)
}

// FIFOReconciliationStrategy settles the oldest invoice first: by the date of
// the originating order, then invoice date, then invoice number
type FIFOReconciliationStrategy struct{}

// StrategyType returns the reconciliation strategy type
func (FIFOReconciliationStrategy) StrategyType() ReconciliationStrategyType {
	return ReconciliationStrategyTypeFIFO
}

// Allocate allocates the amount to targets oldest first
func (FIFOReconciliationStrategy) Allocate(amount decimal.Decimal, targets []AllocationTarget) (*ReconciliationResult, error) {
	sorted := make([]AllocationTarget, len(targets))
	copy(sorted, targets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ai, aj := sorted[i].age(), sorted[j].age(); !ai.Equal(aj) {
			return ai.Before(aj)
		}
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Number < sorted[j].Number
	})
	return allocateInOrder(amount, sorted)
}

// ManualReconciliationStrategy settles the targets in the order given
type ManualReconciliationStrategy struct{}

// StrategyType returns the reconciliation strategy type
func (ManualReconciliationStrategy) StrategyType() ReconciliationStrategyType {
	return ReconciliationStrategyTypeManual
}

// Allocate allocates the amount to targets in their given order
func (ManualReconciliationStrategy) Allocate(amount decimal.Decimal, targets []AllocationTarget) (*ReconciliationResult, error) {
	return allocateInOrder(amount, targets)
}

// allocateInOrder consumes min(remaining, outstanding) from each target in turn.
// No target receives more than its outstanding amount.
func allocateInOrder(amount decimal.Decimal, targets []AllocationTarget) (*ReconciliationResult, error) {
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("allocation amount must be positive")
	}

	res := &ReconciliationResult{
		Allocations:          make([]AllocationResult, 0),
		TotalAllocated:       decimal.Zero,
		TargetsFullyPaid:     make([]uuid.UUID, 0),
		TargetsPartiallyPaid: make([]uuid.UUID, 0),
	}
	remaining := amount
	seen := make(map[uuid.UUID]bool, len(targets))

	for _, target := range targets {
		if remaining.IsZero() {
			break
		}
		if seen[target.ID] || !target.OutstandingAmount.IsPositive() {
			continue
		}
		seen[target.ID] = true

		take := shared.MinDecimal(remaining, target.OutstandingAmount)
		res.Allocations = append(res.Allocations, AllocationResult{
			TargetID:     target.ID,
			TargetNumber: target.Number,
			Amount:       take,
		})
		res.TotalAllocated = res.TotalAllocated.Add(take)
		remaining = remaining.Sub(take)

		if take.Equal(target.OutstandingAmount) {
			res.TargetsFullyPaid = append(res.TargetsFullyPaid, target.ID)
		} else {
			res.TargetsPartiallyPaid = append(res.TargetsPartiallyPaid, target.ID)
		}
	}

	res.RemainingAmount = remaining
	res.FullyReconciled = remaining.IsZero()
	return res, nil
}
