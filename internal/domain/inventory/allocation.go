package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// AllocationLine is one order line to satisfy from stock
type AllocationLine struct {
	LineID    uuid.UUID       `json:"line_id"`
	ProductID uuid.UUID       `json:"product_id"`
	BatchID   *uuid.UUID      `json:"batch_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// BatchAllocation is the quantity taken from one batch for one line
type BatchAllocation struct {
	LineID      uuid.UUID       `json:"line_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPrice   decimal.Decimal `json:"cost_price"`
}

// LineShortage explains why a line could not be fully allocated
type LineShortage struct {
	LineID    uuid.UUID       `json:"line_id"`
	ProductID uuid.UUID       `json:"product_id"`
	BatchID   *uuid.UUID      `json:"batch_id,omitempty"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Reason    string          `json:"reason"`
}

// AllocationPlan is the outcome of planning an order's allocation
type AllocationPlan struct {
	Allocations []BatchAllocation
	Shortages   []LineShortage
}

// Satisfied reports whether every line was fully covered
func (p *AllocationPlan) Satisfied() bool {
	return len(p.Shortages) == 0
}

// ShortageError turns the shortages into an INSUFFICIENT_STOCK error listing every line
func (p *AllocationPlan) ShortageError() error {
	if p.Satisfied() {
		return nil
	}
	return shared.ErrInsufficientStock.WithDetails(map[string]any{
		"lines": p.Shortages,
	})
}

// SortFEFO orders batches first-expire-first-out: expiry ascending with
// undated batches last, then creation time.
func SortFEFO(batches []*Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		ei, ej := batches[i].ExpiryDate, batches[j].ExpiryDate
		switch {
		case ei != nil && ej != nil:
			if !ei.Equal(*ej) {
				return ei.Before(*ej)
			}
		case ei != nil:
			return true
		case ej != nil:
			return false
		}
		return batches[i].CreatedAt.Before(batches[j].CreatedAt)
	})
}

// PlanAllocation decides which batches feed which lines without touching the batches.
//
// A line naming a batch draws from that batch only. Other lines take FEFO order
// over the product's allocatable batches. Quantities already promised to earlier
// lines of the same call are not offered twice.
func PlanAllocation(lines []AllocationLine, candidates []*Batch, today time.Time) (*AllocationPlan, error) {
	byID := make(map[uuid.UUID]*Batch, len(candidates))
	byProduct := make(map[uuid.UUID][]*Batch)
	remaining := make(map[uuid.UUID]decimal.Decimal, len(candidates))
	for _, b := range candidates {
		byID[b.ID] = b
		remaining[b.ID] = b.QuantityAvailable
		if b.IsAllocatable(today) {
			byProduct[b.ProductID] = append(byProduct[b.ProductID], b)
		}
	}
	for _, list := range byProduct {
		SortFEFO(list)
	}

	plan := &AllocationPlan{}
	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			return nil, shared.NewValidationError("allocation quantity must be greater than zero")
		}

		if line.BatchID != nil {
			planSpecifiedBatch(plan, line, byID[*line.BatchID], remaining, today)
			continue
		}

		need := line.Quantity
		for _, b := range byProduct[line.ProductID] {
			if need.IsZero() {
				break
			}
			left := remaining[b.ID]
			if !left.IsPositive() {
				continue
			}
			take := shared.MinDecimal(need, left)
			plan.Allocations = append(plan.Allocations, allocationFor(line, b, take))
			remaining[b.ID] = left.Sub(take)
			need = need.Sub(take)
		}
		if need.IsPositive() {
			plan.Shortages = append(plan.Shortages, LineShortage{
				LineID:    line.LineID,
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: line.Quantity.Sub(need),
				Reason:    "insufficient unexpired stock",
			})
		}
	}
	return plan, nil
}

func planSpecifiedBatch(plan *AllocationPlan, line AllocationLine, b *Batch, remaining map[uuid.UUID]decimal.Decimal, today time.Time) {
	shortage := LineShortage{
		LineID:    line.LineID,
		ProductID: line.ProductID,
		BatchID:   line.BatchID,
		Requested: line.Quantity,
		Available: decimal.Zero,
	}
	switch {
	case b == nil || b.ProductID != line.ProductID:
		shortage.Reason = "batch not found for product"
	case b.IsExpired(today):
		shortage.Reason = "batch is expired"
	case remaining[b.ID].LessThan(line.Quantity):
		shortage.Available = remaining[b.ID]
		shortage.Reason = "insufficient stock in batch"
	default:
		plan.Allocations = append(plan.Allocations, allocationFor(line, b, line.Quantity))
		remaining[b.ID] = remaining[b.ID].Sub(line.Quantity)
		return
	}
	plan.Shortages = append(plan.Shortages, shortage)
}

func allocationFor(line AllocationLine, b *Batch, qty decimal.Decimal) BatchAllocation {
	return BatchAllocation{
		LineID:      line.LineID,
		ProductID:   line.ProductID,
		BatchID:     b.ID,
		BatchNumber: b.BatchNumber,
		ExpiryDate:  b.ExpiryDate,
		Quantity:    qty,
		CostPrice:   b.CostPrice,
	}
}

// AvailableForSale sums allocatable stock of a product
func AvailableForSale(batches []*Batch, productID uuid.UUID, today time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		if b.ProductID == productID && b.IsAllocatable(today) {
			total = total.Add(b.QuantityAvailable)
		}
	}
	return total
}
