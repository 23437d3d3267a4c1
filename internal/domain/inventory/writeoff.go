package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// WriteoffReason explains why stock is removed without a sale
type WriteoffReason string

const (
	WriteoffExpired     WriteoffReason = "EXPIRED"
	WriteoffDamaged     WriteoffReason = "DAMAGED"
	WriteoffTheft       WriteoffReason = "THEFT"
	WriteoffSample      WriteoffReason = "SAMPLE"
	WriteoffPersonalUse WriteoffReason = "PERSONAL_USE"
	WriteoffDestroyed   WriteoffReason = "DESTROYED"
	WriteoffOther       WriteoffReason = "OTHER"
)

// IsValid checks if the reason is known
func (r WriteoffReason) IsValid() bool {
	switch r {
	case WriteoffExpired, WriteoffDamaged, WriteoffTheft, WriteoffSample,
		WriteoffPersonalUse, WriteoffDestroyed, WriteoffOther:
		return true
	}
	return false
}

// RequiresITCReversal is fixed per reason. Free samples keep their input credit.
func (r WriteoffReason) RequiresITCReversal() bool {
	return r != WriteoffSample
}

// StockWriteoff is the header of a write-off document
type StockWriteoff struct {
	shared.OrgAggregateRoot
	WriteoffNumber      string
	WriteoffDate        time.Time
	Reason              WriteoffReason
	RequiresITCReversal bool
	TotalCostValue      decimal.Decimal
	TotalITCReversal    decimal.Decimal
	Notes               string
	Items               []StockWriteoffItem
}

// StockWriteoffItem is one batch written off
type StockWriteoffItem struct {
	ID         uuid.UUID
	WriteoffID uuid.UUID
	BatchID    uuid.UUID
	ProductID  uuid.UUID
	Quantity   decimal.Decimal
	CostPrice  decimal.Decimal
	GSTPercent decimal.Decimal
	CostValue  decimal.Decimal
	ITCAmount  decimal.Decimal
}

// NewStockWriteoff creates an empty write-off document
func NewStockWriteoff(orgID uuid.UUID, number string, date time.Time, reason WriteoffReason, notes string) (*StockWriteoff, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("organization is required")
	}
	if !reason.IsValid() {
		return nil, shared.NewValidationError("invalid write-off reason %q", reason)
	}
	if number == "" {
		number = shared.FormatWriteoffNumber(date)
	}
	return &StockWriteoff{
		OrgAggregateRoot:    shared.NewOrgAggregateRoot(orgID),
		WriteoffNumber:      number,
		WriteoffDate:        date,
		Reason:              reason,
		RequiresITCReversal: reason.RequiresITCReversal(),
		TotalCostValue:      decimal.Zero,
		TotalITCReversal:    decimal.Zero,
		Notes:               notes,
	}, nil
}

// AddItem records a batch line. ITC per line is quantity * cost * gst / 100.
func (w *StockWriteoff) AddItem(batch *Batch, qty, gstPercent decimal.Decimal) (*StockWriteoffItem, error) {
	if !qty.IsPositive() {
		return nil, shared.NewValidationError("write-off quantity must be greater than zero")
	}
	costValue := shared.RoundMoney(qty.Mul(batch.CostPrice))
	itc := decimal.Zero
	if w.RequiresITCReversal {
		itc = shared.RoundMoney(shared.Percent(qty.Mul(batch.CostPrice), gstPercent))
	}

	item := StockWriteoffItem{
		ID:         uuid.New(),
		WriteoffID: w.ID,
		BatchID:    batch.ID,
		ProductID:  batch.ProductID,
		Quantity:   qty,
		CostPrice:  batch.CostPrice,
		GSTPercent: gstPercent,
		CostValue:  costValue,
		ITCAmount:  itc,
	}
	w.Items = append(w.Items, item)
	w.TotalCostValue = w.TotalCostValue.Add(costValue)
	w.TotalITCReversal = w.TotalITCReversal.Add(itc)
	return &w.Items[len(w.Items)-1], nil
}
