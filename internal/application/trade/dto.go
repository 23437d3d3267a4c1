package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/trade"
)

// ==================== Order DTOs ====================

// OrderItemInput is one requested order line. UnitPrice defaults to the
// product's sale price when omitted.
type OrderItemInput struct {
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	BatchID         *uuid.UUID       `json:"batch_id"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
}

// CreateOrderRequest represents a request to create a sales order
type CreateOrderRequest struct {
	CustomerID   uuid.UUID        `json:"customer_id" binding:"required"`
	OrderType    trade.OrderType  `json:"order_type" binding:"omitempty,oneof=sales return replacement"`
	OrderDate    *time.Time       `json:"order_date"`
	DeliveryDate *time.Time       `json:"delivery_date"`
	Items        []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	Notes        string           `json:"notes" binding:"max=1000"`
	SaveAsDraft  bool             `json:"save_as_draft"`
	CreatedBy    *uuid.UUID       `json:"-"`
}

// UpdateOrderRequest replaces the lines and header fields of a draft or pending order
type UpdateOrderRequest struct {
	DeliveryDate *time.Time       `json:"delivery_date"`
	Items        []OrderItemInput `json:"items" binding:"omitempty,dive"`
	Notes        *string          `json:"notes" binding:"omitempty,max=1000"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ConvertRequest carries the document date for invoice and challan conversion
type ConvertRequest struct {
	Date *time.Time `json:"date"`
}

// ReturnRequest represents a request to take back a delivered or invoiced order
type ReturnRequest struct {
	RefundMethod trade.RefundMethod `json:"refund_method" binding:"required,oneof=cash bank_transfer credit_note adjustment"`
	Reason       string             `json:"reason" binding:"required,min=1,max=500"`
	ReturnDate   *time.Time         `json:"return_date"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"-"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft pending confirmed approved invoiced shipped delivered returned cancelled"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchID         *uuid.UUID      `json:"batch_id,omitempty"`
	ProductName     string          `json:"product_name"`
	HSNCode         string          `json:"hsn_code,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	MRP             decimal.Decimal `json:"mrp"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount"`
	IGSTAmount      decimal.Decimal `json:"igst_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrgID          uuid.UUID           `json:"org_id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	OrderType      string              `json:"order_type"`
	Status         string              `json:"status"`
	OrderDate      time.Time           `json:"order_date"`
	DeliveryDate   *time.Time          `json:"delivery_date,omitempty"`
	TaxType        string              `json:"tax_type"`
	SubtotalAmount decimal.Decimal     `json:"subtotal_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	RoundOffAmount decimal.Decimal     `json:"round_off_amount"`
	FinalAmount    decimal.Decimal     `json:"final_amount"`
	PaidAmount     decimal.Decimal     `json:"paid_amount"`
	BalanceAmount  decimal.Decimal     `json:"balance_amount"`
	InvoiceNumber  string              `json:"invoice_number,omitempty"`
	ChallanNumber  string              `json:"challan_number,omitempty"`
	ConfirmedAt    *time.Time          `json:"confirmed_at,omitempty"`
	InvoicedAt     *time.Time          `json:"invoiced_at,omitempty"`
	ShippedAt      *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	ReturnedAt     *time.Time          `json:"returned_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	Version        int                 `json:"version"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ValidationResult is the outcome of an order dry run
type ValidationResult struct {
	Valid       bool                        `json:"valid"`
	Totals      OrderResponse               `json:"totals"`
	Allocations []inventory.BatchAllocation `json:"allocations"`
	Shortages   []inventory.LineShortage    `json:"shortages,omitempty"`
	Credit      finance.CreditCheck         `json:"credit"`
}

// ApproveResponse is the approved order with the batches it was allocated from
type ApproveResponse struct {
	Order       OrderResponse               `json:"order"`
	Allocations []inventory.BatchAllocation `json:"allocations"`
}

// InvoiceConversionResponse is the invoiced order with its new invoice
type InvoiceConversionResponse struct {
	Order         OrderResponse `json:"order"`
	InvoiceID     uuid.UUID     `json:"invoice_id"`
	InvoiceNumber string        `json:"invoice_number"`
}

// ReturnItemResponse is one batch quantity taken back
type ReturnItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	BatchID   uuid.UUID       `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReturnResponse represents a processed return
type ReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	ReturnNumber string               `json:"return_number"`
	OrderID      uuid.UUID            `json:"order_id"`
	CustomerID   uuid.UUID            `json:"customer_id"`
	ReturnDate   time.Time            `json:"return_date"`
	RefundMethod string               `json:"refund_method"`
	RefundAmount decimal.Decimal      `json:"refund_amount"`
	Reason       string               `json:"reason"`
	Items        []ReturnItemResponse `json:"items"`
	Order        OrderResponse        `json:"order"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			BatchID:         item.BatchID,
			ProductName:     item.ProductName,
			HSNCode:         item.HSNCode,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			MRP:             item.MRP,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			TaxPercent:      item.TaxPercent,
			TaxableAmount:   item.TaxableAmount,
			CGSTAmount:      item.CGSTAmount,
			SGSTAmount:      item.SGSTAmount,
			IGSTAmount:      item.IGSTAmount,
			TaxAmount:       item.TaxAmount,
			LineTotal:       item.LineTotal,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		OrgID:          o.OrgID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		OrderType:      string(o.OrderType),
		Status:         o.Status.String(),
		OrderDate:      o.OrderDate,
		DeliveryDate:   o.DeliveryDate,
		TaxType:        o.TaxType.String(),
		SubtotalAmount: o.SubtotalAmount,
		DiscountAmount: o.DiscountAmount,
		TaxAmount:      o.TaxAmount,
		RoundOffAmount: o.RoundOffAmount,
		FinalAmount:    o.FinalAmount,
		PaidAmount:     o.PaidAmount,
		BalanceAmount:  o.BalanceAmount,
		InvoiceNumber:  o.InvoiceNumber,
		ChallanNumber:  o.ChallanNumber,
		ConfirmedAt:    o.ConfirmedAt,
		InvoicedAt:     o.InvoicedAt,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		ReturnedAt:     o.ReturnedAt,
		CancelReason:   o.CancelReason,
		Notes:          o.Notes,
		Items:          items,
		Version:        o.Version,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToReturnResponse converts a domain OrderReturn to ReturnResponse
func ToReturnResponse(r *trade.OrderReturn, o *trade.Order) ReturnResponse {
	items := make([]ReturnItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = ReturnItemResponse{
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			Quantity:  item.Quantity,
		}
	}
	return ReturnResponse{
		ID:           r.ID,
		ReturnNumber: r.ReturnNumber,
		OrderID:      r.OrderID,
		CustomerID:   r.CustomerID,
		ReturnDate:   r.ReturnDate,
		RefundMethod: string(r.RefundMethod),
		RefundAmount: r.RefundAmount,
		Reason:       r.Reason,
		Items:        items,
		Order:        ToOrderResponse(o),
	}
}
