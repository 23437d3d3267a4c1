package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// MovementType classifies a stock journal row
type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementSale       MovementType = "sale"
	MovementReturn     MovementType = "return"
	MovementAdjustment MovementType = "adjustment"
	MovementTransfer   MovementType = "transfer"
	MovementWriteOff   MovementType = "write_off"
)

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementReturn, MovementAdjustment, MovementTransfer, MovementWriteOff:
		return true
	}
	return false
}

// allowsInward reports whether the type may add stock
func (t MovementType) allowsInward() bool {
	switch t {
	case MovementPurchase, MovementReturn, MovementAdjustment, MovementTransfer:
		return true
	}
	return false
}

// allowsOutward reports whether the type may remove stock
func (t MovementType) allowsOutward() bool {
	switch t {
	case MovementSale, MovementWriteOff, MovementAdjustment, MovementTransfer:
		return true
	}
	return false
}

// Reference types written on movements
const (
	ReferenceBatch       = "batch"
	ReferenceOrder       = "order"
	ReferenceOrderReturn = "order_return"
	ReferenceWriteoff    = "stock_writeoff"
	ReferenceAdjustment  = "stock_adjustment"
	ReferenceManual      = "manual"
)

// StockMovement is an append-only journal row. For every batch
// QuantityAvailable equals the sum of QuantityIn minus QuantityOut over its rows.
type StockMovement struct {
	ID            uuid.UUID
	OrgID         uuid.UUID
	ProductID     uuid.UUID
	BatchID       *uuid.UUID
	MovementType  MovementType
	QuantityIn    decimal.Decimal
	QuantityOut   decimal.Decimal
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	ReferenceType string
	ReferenceID   *uuid.UUID
	MovementDate  time.Time
	Notes         string
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
}

// IsOutward reports whether the row removed stock
func (m *StockMovement) IsOutward() bool {
	return m.QuantityOut.IsPositive()
}

// NetQuantity is QuantityIn - QuantityOut
func (m *StockMovement) NetQuantity() decimal.Decimal {
	return m.QuantityIn.Sub(m.QuantityOut)
}

// MovementSpec describes a movement to apply to a batch. Exactly one of
// QuantityIn and QuantityOut must be positive.
type MovementSpec struct {
	MovementType  MovementType
	QuantityIn    decimal.Decimal
	QuantityOut   decimal.Decimal
	ReferenceType string
	ReferenceID   *uuid.UUID
	MovementDate  time.Time
	Notes         string
	CreatedBy     *uuid.UUID
}

func (s MovementSpec) validate() error {
	if !s.MovementType.IsValid() {
		return shared.NewValidationError("invalid movement type %q", s.MovementType)
	}
	if s.QuantityIn.IsNegative() || s.QuantityOut.IsNegative() {
		return shared.NewValidationError("movement quantities cannot be negative")
	}
	in, out := s.QuantityIn.IsPositive(), s.QuantityOut.IsPositive()
	if in == out {
		return shared.NewValidationError("exactly one of quantity_in and quantity_out must be positive")
	}
	if in && !s.MovementType.allowsInward() {
		return shared.NewValidationError("%s movements cannot add stock", s.MovementType)
	}
	if out && !s.MovementType.allowsOutward() {
		return shared.NewValidationError("%s movements cannot remove stock", s.MovementType)
	}
	return nil
}

// ApplyMovement updates the batch counters and returns the journal row with
// stock before and after. Outward movements need stock before >= quantity.
func ApplyMovement(batch *Batch, spec MovementSpec) (*StockMovement, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	before := batch.QuantityAvailable
	var err error
	switch {
	case spec.QuantityOut.IsPositive():
		err = batch.Consume(spec.QuantityOut)
	case spec.MovementType == MovementReturn:
		err = batch.Restore(spec.QuantityIn)
	default:
		err = batch.Receive(spec.QuantityIn)
	}
	if err != nil {
		return nil, err
	}

	date := spec.MovementDate
	if date.IsZero() {
		date = time.Now().UTC()
	}
	batchID := batch.ID
	return &StockMovement{
		ID:            uuid.New(),
		OrgID:         batch.OrgID,
		ProductID:     batch.ProductID,
		BatchID:       &batchID,
		MovementType:  spec.MovementType,
		QuantityIn:    spec.QuantityIn,
		QuantityOut:   spec.QuantityOut,
		StockBefore:   before,
		StockAfter:    batch.QuantityAvailable,
		ReferenceType: spec.ReferenceType,
		ReferenceID:   spec.ReferenceID,
		MovementDate:  date,
		Notes:         spec.Notes,
		CreatedBy:     spec.CreatedBy,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// ReceiptMovement is the seed purchase row written when a batch is created
func ReceiptMovement(batch *Batch, date time.Time, createdBy *uuid.UUID) *StockMovement {
	batchID := batch.ID
	refID := batch.ID
	return &StockMovement{
		ID:            uuid.New(),
		OrgID:         batch.OrgID,
		ProductID:     batch.ProductID,
		BatchID:       &batchID,
		MovementType:  MovementPurchase,
		QuantityIn:    batch.QuantityReceived,
		QuantityOut:   decimal.Zero,
		StockBefore:   decimal.Zero,
		StockAfter:    batch.QuantityAvailable,
		ReferenceType: ReferenceBatch,
		ReferenceID:   &refID,
		MovementDate:  date,
		Notes:         "Opening receipt for batch " + batch.BatchNumber,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().UTC(),
	}
}
