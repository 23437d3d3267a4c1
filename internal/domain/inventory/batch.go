package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// Batch is one manufacturing lot of a product.
//
// QuantitySold counts every unit that left the batch (sales, write-offs and
// negative adjustments), so QuantityReceived = QuantityAvailable + QuantitySold
// always holds and neither side goes negative.
type Batch struct {
	shared.OrgAggregateRoot
	ProductID         uuid.UUID
	BatchNumber       string
	ManufacturingDate *time.Time
	ExpiryDate        *time.Time
	QuantityReceived  decimal.Decimal
	QuantityAvailable decimal.Decimal
	QuantitySold      decimal.Decimal
	CostPrice         decimal.Decimal
	MRP               decimal.Decimal
	SupplierName      string
	PurchaseReference string
}

// BatchInput carries the fields needed to receive a new batch
type BatchInput struct {
	ProductID         uuid.UUID
	BatchNumber       string
	ManufacturingDate *time.Time
	ExpiryDate        *time.Time
	Quantity          decimal.Decimal
	CostPrice         decimal.Decimal
	MRP               decimal.Decimal
	SupplierName      string
	PurchaseReference string
}

// NewBatch validates the input and creates a batch holding the received quantity.
// A batch expiring before today is rejected; one expiring today is accepted but
// never allocated.
func NewBatch(orgID uuid.UUID, in BatchInput, today time.Time) (*Batch, error) {
	in.BatchNumber = strings.ToUpper(strings.TrimSpace(in.BatchNumber))

	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("organization is required")
	}
	if in.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("product is required")
	}
	if in.BatchNumber == "" || len(in.BatchNumber) > 50 {
		return nil, shared.NewValidationError("batch number must be 1-50 characters")
	}
	if !in.Quantity.IsPositive() {
		return nil, shared.NewValidationError("received quantity must be greater than zero")
	}
	if in.CostPrice.IsNegative() || in.MRP.IsNegative() {
		return nil, shared.NewValidationError("prices cannot be negative")
	}
	if in.ExpiryDate != nil {
		expiry := shared.TruncateToDay(in.ExpiryDate.UTC())
		if expiry.Before(shared.TruncateToDay(today)) {
			return nil, shared.NewValidationError("expiry date %s is in the past", expiry.Format("2006-01-02"))
		}
		in.ExpiryDate = &expiry
	}
	if in.ManufacturingDate != nil && in.ExpiryDate != nil && in.ManufacturingDate.After(*in.ExpiryDate) {
		return nil, shared.NewValidationError("manufacturing date must be before expiry date")
	}

	return &Batch{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(orgID),
		ProductID:         in.ProductID,
		BatchNumber:       in.BatchNumber,
		ManufacturingDate: in.ManufacturingDate,
		ExpiryDate:        in.ExpiryDate,
		QuantityReceived:  in.Quantity,
		QuantityAvailable: in.Quantity,
		QuantitySold:      decimal.Zero,
		CostPrice:         in.CostPrice,
		MRP:               in.MRP,
		SupplierName:      in.SupplierName,
		PurchaseReference: in.PurchaseReference,
	}, nil
}

// IsExpired reports whether the batch expires on or before today
func (b *Batch) IsExpired(today time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return !shared.TruncateToDay(b.ExpiryDate.UTC()).After(shared.TruncateToDay(today))
}

// IsAllocatable reports whether the batch can feed a sale today
func (b *Batch) IsAllocatable(today time.Time) bool {
	return b.QuantityAvailable.IsPositive() && !b.IsExpired(today)
}

// DaysToExpiry returns the days left until expiry, or nil for batches without expiry
func (b *Batch) DaysToExpiry(today time.Time) *int {
	if b.ExpiryDate == nil {
		return nil
	}
	days := shared.DaysBetween(today, *b.ExpiryDate)
	return &days
}

// Consume takes qty out of the available stock
func (b *Batch) Consume(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("quantity must be greater than zero")
	}
	if qty.GreaterThan(b.QuantityAvailable) {
		return shared.ErrInsufficientStock.WithDetails(map[string]any{
			"batch_id":     b.ID,
			"batch_number": b.BatchNumber,
			"requested":    qty,
			"available":    b.QuantityAvailable,
		})
	}
	b.QuantityAvailable = b.QuantityAvailable.Sub(qty)
	b.QuantitySold = b.QuantitySold.Add(qty)
	b.Touch()
	return nil
}

// Restore puts previously consumed units back into available stock
func (b *Batch) Restore(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("quantity must be greater than zero")
	}
	if qty.GreaterThan(b.QuantitySold) {
		return shared.NewValidationError("cannot restore %s units to batch %s, only %s were taken out", qty, b.BatchNumber, b.QuantitySold)
	}
	b.QuantityAvailable = b.QuantityAvailable.Add(qty)
	b.QuantitySold = b.QuantitySold.Sub(qty)
	b.Touch()
	return nil
}

// Receive adds newly received units
func (b *Batch) Receive(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("quantity must be greater than zero")
	}
	b.QuantityReceived = b.QuantityReceived.Add(qty)
	b.QuantityAvailable = b.QuantityAvailable.Add(qty)
	b.Touch()
	return nil
}

// CheckInvariant verifies received = available + sold with no negative counter
func (b *Batch) CheckInvariant() error {
	if b.QuantityAvailable.IsNegative() || b.QuantitySold.IsNegative() {
		return fmt.Errorf("batch %s has negative counters", b.BatchNumber)
	}
	if !b.QuantityReceived.Equal(b.QuantityAvailable.Add(b.QuantitySold)) {
		return fmt.Errorf("batch %s: received %s != available %s + sold %s",
			b.BatchNumber, b.QuantityReceived, b.QuantityAvailable, b.QuantitySold)
	}
	return nil
}

// StockValue is available quantity at cost
func (b *Batch) StockValue() decimal.Decimal {
	return b.QuantityAvailable.Mul(b.CostPrice)
}
