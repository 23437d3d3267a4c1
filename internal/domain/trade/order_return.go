package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// RefundMethod says how the customer is compensated for a return
type RefundMethod string

const (
	RefundCash         RefundMethod = "cash"
	RefundBankTransfer RefundMethod = "bank_transfer"
	RefundCreditNote   RefundMethod = "credit_note"
	RefundAdjustment   RefundMethod = "adjustment"
)

// IsValid checks if the refund method is known
func (m RefundMethod) IsValid() bool {
	switch m {
	case RefundCash, RefundBankTransfer, RefundCreditNote, RefundAdjustment:
		return true
	}
	return false
}

// OrderReturn records a full return of an order
type OrderReturn struct {
	shared.OrgAggregateRoot
	ReturnNumber string
	OrderID      uuid.UUID
	CustomerID   uuid.UUID
	ReturnDate   time.Time
	RefundMethod RefundMethod
	RefundAmount decimal.Decimal
	Reason       string
	Items        []OrderReturnItem
}

// OrderReturnItem is the quantity of one batch taken back
type OrderReturnItem struct {
	ID        uuid.UUID
	ReturnID  uuid.UUID
	ProductID uuid.UUID
	BatchID   uuid.UUID
	Quantity  decimal.Decimal
}

// NewOrderReturn creates the return record for order. The refund is what the
// customer has paid so far; the unpaid balance is simply not collected.
func NewOrderReturn(order *Order, returnNumber string, method RefundMethod, reason string, date time.Time) (*OrderReturn, error) {
	if returnNumber == "" {
		return nil, shared.NewValidationError("return number is required")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("invalid refund method %q", method)
	}
	r := &OrderReturn{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(order.OrgID),
		ReturnNumber:     returnNumber,
		OrderID:          order.ID,
		CustomerID:       order.CustomerID,
		ReturnDate:       shared.TruncateToDay(date.UTC()),
		RefundMethod:     method,
		RefundAmount:     order.PaidAmount,
		Reason:           reason,
	}
	return r, nil
}

// AddItem records a batch quantity coming back
func (r *OrderReturn) AddItem(productID, batchID uuid.UUID, qty decimal.Decimal) {
	r.Items = append(r.Items, OrderReturnItem{
		ID:        uuid.New(),
		ReturnID:  r.ID,
		ProductID: productID,
		BatchID:   batchID,
		Quantity:  qty,
	})
}

// TotalQuantity sums the returned quantities
func (r *OrderReturn) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Quantity)
	}
	return total
}
