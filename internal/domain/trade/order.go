package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// OrderType distinguishes regular sales from return and replacement orders
type OrderType string

const (
	OrderTypeSales       OrderType = "sales"
	OrderTypeReturn      OrderType = "return"
	OrderTypeReplacement OrderType = "replacement"
)

// IsValid checks if the order type is known
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeSales, OrderTypeReturn, OrderTypeReplacement:
		return true
	}
	return false
}

// OrderItem is a computed order line.
// LineTotal = Quantity*UnitPrice - DiscountAmount + TaxAmount.
type OrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	ProductID       uuid.UUID
	BatchID         *uuid.UUID
	ProductName     string
	HSNCode         string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	MRP             decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxPercent      decimal.Decimal
	TaxableAmount   decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTAmount      decimal.Decimal
	IGSTAmount      decimal.Decimal
	TaxAmount       decimal.Decimal
	LineTotal       decimal.Decimal
}

// ItemInput is an order line as requested by the caller
type ItemInput struct {
	ProductID       uuid.UUID
	BatchID         *uuid.UUID
	ProductName     string
	HSNCode         string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	MRP             decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxPercent      decimal.Decimal
}

// Order is a sales order aggregate
type Order struct {
	shared.OrgAggregateRoot
	OrderNumber    string
	CustomerID     uuid.UUID
	OrderType      OrderType
	Status         OrderStatus
	OrderDate      time.Time
	DeliveryDate   *time.Time
	TaxType        gst.TaxType
	SubtotalAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	RoundOffAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	BalanceAmount  decimal.Decimal
	InvoiceNumber  string
	ChallanNumber  string
	ConfirmedAt    *time.Time
	InvoicedAt     *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	ReturnedAt     *time.Time
	CancelReason   string
	Notes          string
	Items          []OrderItem
}

// NewOrder creates an empty order in pending, or draft when asDraft is set
func NewOrder(orgID uuid.UUID, orderNumber string, customerID uuid.UUID, orderType OrderType, orderDate time.Time, asDraft bool) (*Order, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("organization is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer is required")
	}
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewValidationError("order number is required")
	}
	if orderType == "" {
		orderType = OrderTypeSales
	}
	if !orderType.IsValid() {
		return nil, shared.NewValidationError("invalid order type %q", orderType)
	}

	status := OrderStatusPending
	if asDraft {
		status = OrderStatusDraft
	}
	return &Order{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		OrderNumber:      orderNumber,
		CustomerID:       customerID,
		OrderType:        orderType,
		Status:           status,
		OrderDate:        shared.TruncateToDay(orderDate.UTC()),
		TaxType:          gst.TaxTypeCGSTSGST,
		SubtotalAmount:   decimal.Zero,
		DiscountAmount:   decimal.Zero,
		TaxAmount:        decimal.Zero,
		RoundOffAmount:   decimal.Zero,
		FinalAmount:      decimal.Zero,
		PaidAmount:       decimal.Zero,
		BalanceAmount:    decimal.Zero,
	}, nil
}

// SetItems replaces the lines and recomputes every total.
//
// customerDiscount applies only to lines that carry neither a discount
// percent nor a discount amount of their own.
func (o *Order) SetItems(inputs []ItemInput, taxType gst.TaxType, customerDiscount decimal.Decimal) error {
	if !o.CanModify() {
		return shared.NewStateError("order %s cannot be modified in status %s", o.OrderNumber, o.Status)
	}
	if len(inputs) == 0 {
		return shared.NewValidationError("order must have at least one item")
	}
	if !taxType.IsValid() {
		return shared.NewValidationError("invalid tax type %q", taxType)
	}
	if customerDiscount.IsNegative() || customerDiscount.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("customer discount must be between 0 and 100")
	}

	lines := make([]gst.LineInput, len(inputs))
	for i, in := range inputs {
		if in.ProductID == uuid.Nil {
			return shared.NewValidationError("item %d: product is required", i+1)
		}
		pct := in.DiscountPercent
		if pct.IsZero() && in.DiscountAmount.IsZero() {
			pct = customerDiscount
		}
		lines[i] = gst.LineInput{
			HSNCode:         in.HSNCode,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			DiscountPercent: pct,
			DiscountAmount:  in.DiscountAmount,
			TaxRate:         in.TaxPercent,
		}
	}

	res, err := gst.ComputeInvoiceForType(lines, taxType, decimal.Zero, decimal.Zero)
	if err != nil {
		return err
	}

	items := make([]OrderItem, len(inputs))
	for i, in := range inputs {
		line := res.Items[i]
		items[i] = OrderItem{
			ID:              uuid.New(),
			OrderID:         o.ID,
			ProductID:       in.ProductID,
			BatchID:         in.BatchID,
			ProductName:     in.ProductName,
			HSNCode:         in.HSNCode,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			MRP:             in.MRP,
			DiscountPercent: line.DiscountPercent,
			DiscountAmount:  line.DiscountAmount,
			TaxPercent:      line.TaxRate,
			TaxableAmount:   line.TaxableAmount,
			CGSTAmount:      line.CGSTAmount,
			SGSTAmount:      line.SGSTAmount,
			IGSTAmount:      line.IGSTAmount,
			TaxAmount:       line.TotalTax,
			LineTotal:       line.Total,
		}
	}

	o.Items = items
	o.TaxType = taxType
	o.SubtotalAmount = res.GrossAmount
	o.DiscountAmount = res.LineDiscount
	o.TaxAmount = res.TotalTax
	o.RoundOffAmount = res.RoundOff
	o.FinalAmount = res.TotalAmount
	o.BalanceAmount = o.FinalAmount.Sub(o.PaidAmount)
	o.Touch()
	return nil
}

// LineInputs returns the stored lines as GST engine inputs
func (o *Order) LineInputs() []gst.LineInput {
	lines := make([]gst.LineInput, len(o.Items))
	for i, item := range o.Items {
		lines[i] = gst.LineInput{
			HSNCode:         item.HSNCode,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			TaxRate:         item.TaxPercent,
		}
	}
	return lines
}

// SetNotes updates the free-text notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.Touch()
}

// SetDeliveryDate sets the requested delivery date
func (o *Order) SetDeliveryDate(date *time.Time) error {
	if date != nil {
		d := shared.TruncateToDay(date.UTC())
		if d.Before(o.OrderDate) {
			return shared.NewValidationError("delivery date cannot be before order date")
		}
		date = &d
	}
	o.DeliveryDate = date
	o.Touch()
	return nil
}

// CanModify reports whether lines and notes may still change
func (o *Order) CanModify() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusPending
}

func (o *Order) fire(event OrderEvent) error {
	next, err := NextStatus(o.Status, event)
	if err != nil {
		return err
	}
	o.Status = next
	o.Touch()
	return nil
}

// Submit moves a draft to pending
func (o *Order) Submit() error {
	return o.fire(EventSubmit)
}

// Approve moves a pending order to approved and stamps ConfirmedAt
func (o *Order) Approve(at time.Time) error {
	if err := o.fire(EventApprove); err != nil {
		return err
	}
	o.ConfirmedAt = &at
	return nil
}

// MarkInvoiced records the issued invoice number
func (o *Order) MarkInvoiced(invoiceNumber string, at time.Time) error {
	if invoiceNumber == "" {
		return shared.NewValidationError("invoice number is required")
	}
	if err := o.fire(EventInvoice); err != nil {
		return err
	}
	o.InvoiceNumber = invoiceNumber
	o.InvoicedAt = &at
	return nil
}

// MarkShipped records the delivery challan number
func (o *Order) MarkShipped(challanNumber string, at time.Time) error {
	if challanNumber == "" {
		return shared.NewValidationError("challan number is required")
	}
	if err := o.fire(EventChallan); err != nil {
		return err
	}
	o.ChallanNumber = challanNumber
	o.ShippedAt = &at
	return nil
}

// Deliver moves an invoiced order to delivered
func (o *Order) Deliver(at time.Time) error {
	if err := o.fire(EventDeliver); err != nil {
		return err
	}
	o.DeliveredAt = &at
	return nil
}

// Cancel moves the order to cancelled. The caller releases any allocation
// the order held before the cancel.
func (o *Order) Cancel(reason string, at time.Time) error {
	if err := o.fire(EventCancel); err != nil {
		return err
	}
	o.CancelReason = reason
	o.CancelledAt = &at
	return nil
}

// MarkReturned moves the order to returned
func (o *Order) MarkReturned(at time.Time) error {
	if err := o.fire(EventReturn); err != nil {
		return err
	}
	o.ReturnedAt = &at
	return nil
}

// ApplyPayment adds a settled amount, keeping PaidAmount <= FinalAmount
func (o *Order) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("payment amount must be greater than zero")
	}
	paid := o.PaidAmount.Add(amount)
	if paid.GreaterThan(o.FinalAmount) {
		return shared.NewValidationError("payment of %s exceeds order %s balance %s", amount, o.OrderNumber, o.BalanceAmount)
	}
	o.PaidAmount = paid
	o.BalanceAmount = o.FinalAmount.Sub(paid)
	o.Touch()
	return nil
}

// ReversePayment takes back a previously applied amount
func (o *Order) ReversePayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("reversal amount must be greater than zero")
	}
	if amount.GreaterThan(o.PaidAmount) {
		return shared.NewValidationError("reversal of %s exceeds paid amount %s", amount, o.PaidAmount)
	}
	o.PaidAmount = o.PaidAmount.Sub(amount)
	o.BalanceAmount = o.FinalAmount.Sub(o.PaidAmount)
	o.Touch()
	return nil
}

// CheckInvariant verifies the header arithmetic and every line total
func (o *Order) CheckInvariant() error {
	want := o.SubtotalAmount.Sub(o.DiscountAmount).Add(o.TaxAmount).Add(o.RoundOffAmount)
	if !o.FinalAmount.Equal(want) {
		return fmt.Errorf("order %s: final %s != subtotal - discount + tax + round_off = %s", o.OrderNumber, o.FinalAmount, want)
	}
	if o.PaidAmount.GreaterThan(o.FinalAmount) || o.PaidAmount.IsNegative() {
		return fmt.Errorf("order %s: paid %s outside [0, %s]", o.OrderNumber, o.PaidAmount, o.FinalAmount)
	}
	if !o.BalanceAmount.Equal(o.FinalAmount.Sub(o.PaidAmount)) {
		return fmt.Errorf("order %s: balance %s != final - paid", o.OrderNumber, o.BalanceAmount)
	}
	for _, item := range o.Items {
		gross := shared.RoundMoney(item.Quantity.Mul(item.UnitPrice))
		if !item.LineTotal.Equal(gross.Sub(item.DiscountAmount).Add(item.TaxAmount)) {
			return fmt.Errorf("order %s: line %s total mismatch", o.OrderNumber, item.ID)
		}
	}
	return nil
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// GetItem returns the line with the given id
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}
