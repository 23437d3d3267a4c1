package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
)

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderItemID     *uuid.UUID      `json:"order_item_id,omitempty"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchID         *uuid.UUID      `json:"batch_id,omitempty"`
	ProductName     string          `json:"product_name"`
	HSNCode         string          `json:"hsn_code,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	MRP             decimal.Decimal `json:"mrp"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	CGSTRate        decimal.Decimal `json:"cgst_rate"`
	SGSTRate        decimal.Decimal `json:"sgst_rate"`
	IGSTRate        decimal.Decimal `json:"igst_rate"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount"`
	IGSTAmount      decimal.Decimal `json:"igst_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID                    `json:"id"`
	OrgID           uuid.UUID                    `json:"org_id"`
	InvoiceNumber   string                       `json:"invoice_number"`
	OrderID         uuid.UUID                    `json:"order_id"`
	CustomerID      uuid.UUID                    `json:"customer_id"`
	InvoiceDate     time.Time                    `json:"invoice_date"`
	DueDate         time.Time                    `json:"due_date"`
	CustomerName    string                       `json:"customer_name"`
	BillingAddress  partner.Address              `json:"billing_address"`
	ShippingAddress partner.Address              `json:"shipping_address"`
	BuyerGSTIN      string                       `json:"buyer_gstin,omitempty"`
	BuyerStateCode  string                       `json:"buyer_state_code,omitempty"`
	SellerGSTIN     string                       `json:"seller_gstin"`
	SellerStateCode string                       `json:"seller_state_code"`
	TaxType         gst.TaxType                  `json:"tax_type"`
	SubtotalAmount  decimal.Decimal              `json:"subtotal_amount"`
	DiscountAmount  decimal.Decimal              `json:"discount_amount"`
	TaxableAmount   decimal.Decimal              `json:"taxable_amount"`
	CGSTAmount      decimal.Decimal              `json:"cgst_amount"`
	SGSTAmount      decimal.Decimal              `json:"sgst_amount"`
	IGSTAmount      decimal.Decimal              `json:"igst_amount"`
	TotalTaxAmount  decimal.Decimal              `json:"total_tax_amount"`
	OtherCharges    decimal.Decimal              `json:"other_charges"`
	RoundOffAmount  decimal.Decimal              `json:"round_off_amount"`
	TotalAmount     decimal.Decimal              `json:"total_amount"`
	PaidAmount      decimal.Decimal              `json:"paid_amount"`
	BalanceAmount   decimal.Decimal              `json:"balance_amount"`
	PaymentStatus   finance.InvoicePaymentStatus `json:"payment_status"`
	Items           []InvoiceItemResponse        `json:"items,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	CustomerID    *uuid.UUID `form:"-"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=unpaid partial paid"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Search        string     `form:"search"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RecordPaymentRequest represents money received from a customer.
// Without AllocateToInvoices (or InvoiceID) the amount is spread FIFO over
// the customer's unpaid invoices.
type RecordPaymentRequest struct {
	CustomerID         uuid.UUID           `json:"customer_id" binding:"required"`
	InvoiceID          *uuid.UUID          `json:"invoice_id"`
	PaymentDate        *time.Time          `json:"payment_date"`
	Amount             decimal.Decimal     `json:"amount" binding:"required"`
	PaymentMode        finance.PaymentMode `json:"payment_mode" binding:"required,oneof=cash cheque online bank_transfer"`
	ReferenceNumber    string              `json:"reference_number" binding:"max=100"`
	AllocateToInvoices []uuid.UUID         `json:"allocate_to_invoices"`
	Notes              string              `json:"notes" binding:"max=500"`
	CreatedBy          *uuid.UUID          `json:"-"`
}

// CancelPaymentRequest carries the reason for a cancellation
type CancelPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// AllocationResponse represents one allocation row
type AllocationResponse struct {
	ID         uuid.UUID       `json:"id"`
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	Amount     decimal.Decimal `json:"amount"`
	IsReversal bool            `json:"is_reversal"`
	CreatedAt  time.Time       `json:"created_at"`
}

// InvoiceSettlement shows an invoice's state after a payment touched it
type InvoiceSettlement struct {
	InvoiceID     uuid.UUID                    `json:"invoice_id"`
	InvoiceNumber string                       `json:"invoice_number"`
	Amount        decimal.Decimal              `json:"amount"`
	PaidAmount    decimal.Decimal              `json:"paid_amount"`
	BalanceAmount decimal.Decimal              `json:"balance_amount"`
	PaymentStatus finance.InvoicePaymentStatus `json:"payment_status"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID             `json:"id"`
	OrgID             uuid.UUID             `json:"org_id"`
	PaymentReference  string                `json:"payment_reference"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	InvoiceID         *uuid.UUID            `json:"invoice_id,omitempty"`
	PaymentDate       time.Time             `json:"payment_date"`
	Amount            decimal.Decimal       `json:"amount"`
	PaymentMode       finance.PaymentMode   `json:"payment_mode"`
	ReferenceNumber   string                `json:"reference_number,omitempty"`
	Status            finance.PaymentStatus `json:"status"`
	AllocatedAmount   decimal.Decimal       `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal       `json:"unallocated_amount"`
	Notes             string                `json:"notes,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason      string                `json:"cancel_reason,omitempty"`
	Allocations       []AllocationResponse  `json:"allocations"`
	Settlements       []InvoiceSettlement   `json:"settlements,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	CustomerID *uuid.UUID `form:"-"`
	Status     string     `form:"status" binding:"omitempty,oneof=completed cancelled"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// CreditCheckResponse is the outcome of a credit check
type CreditCheckResponse struct {
	CustomerID uuid.UUID `json:"customer_id"`
	finance.CreditCheck
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:              inv.ID,
		OrgID:           inv.OrgID,
		InvoiceNumber:   inv.InvoiceNumber,
		OrderID:         inv.OrderID,
		CustomerID:      inv.CustomerID,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		CustomerName:    inv.CustomerName,
		BillingAddress:  inv.BillingAddress,
		ShippingAddress: inv.ShippingAddress,
		BuyerGSTIN:      inv.BuyerGSTIN,
		BuyerStateCode:  inv.BuyerStateCode,
		SellerGSTIN:     inv.SellerGSTIN,
		SellerStateCode: inv.SellerStateCode,
		TaxType:         inv.TaxType,
		SubtotalAmount:  inv.SubtotalAmount,
		DiscountAmount:  inv.DiscountAmount,
		TaxableAmount:   inv.TaxableAmount,
		CGSTAmount:      inv.CGSTAmount,
		SGSTAmount:      inv.SGSTAmount,
		IGSTAmount:      inv.IGSTAmount,
		TotalTaxAmount:  inv.TotalTaxAmount,
		OtherCharges:    inv.OtherCharges,
		RoundOffAmount:  inv.RoundOffAmount,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		BalanceAmount:   inv.Balance(),
		PaymentStatus:   inv.PaymentStatus,
		CreatedAt:       inv.CreatedAt,
	}
	if len(inv.Items) > 0 {
		resp.Items = make([]InvoiceItemResponse, len(inv.Items))
		for i, item := range inv.Items {
			resp.Items[i] = InvoiceItemResponse{
				ID:              item.ID,
				OrderItemID:     item.OrderItemID,
				ProductID:       item.ProductID,
				BatchID:         item.BatchID,
				ProductName:     item.ProductName,
				HSNCode:         item.HSNCode,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				MRP:             item.MRP,
				DiscountPercent: item.DiscountPercent,
				DiscountAmount:  item.DiscountAmount,
				TaxableAmount:   item.TaxableAmount,
				TaxRate:         item.TaxRate,
				CGSTRate:        item.CGSTRate,
				SGSTRate:        item.SGSTRate,
				IGSTRate:        item.IGSTRate,
				CGSTAmount:      item.CGSTAmount,
				SGSTAmount:      item.SGSTAmount,
				IGSTAmount:      item.IGSTAmount,
				TotalAmount:     item.TotalAmount,
			}
		}
	}
	return resp
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocations[i] = AllocationResponse{
			ID:         a.ID,
			InvoiceID:  a.InvoiceID,
			Amount:     a.Amount,
			IsReversal: a.IsReversal,
			CreatedAt:  a.CreatedAt,
		}
	}
	return PaymentResponse{
		ID:                p.ID,
		OrgID:             p.OrgID,
		PaymentReference:  p.PaymentReference,
		CustomerID:        p.CustomerID,
		InvoiceID:         p.InvoiceID,
		PaymentDate:       p.PaymentDate,
		Amount:            p.Amount,
		PaymentMode:       p.PaymentMode,
		ReferenceNumber:   p.ReferenceNumber,
		Status:            p.Status,
		AllocatedAmount:   p.AllocatedAmount,
		UnallocatedAmount: p.UnallocatedAmount,
		Notes:             p.Notes,
		CancelledAt:       p.CancelledAt,
		CancelReason:      p.CancelReason,
		Allocations:       allocations,
		CreatedAt:         p.CreatedAt,
	}
}

func settlementFor(inv *finance.Invoice, amount decimal.Decimal) InvoiceSettlement {
	return InvoiceSettlement{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        amount,
		PaidAmount:    inv.PaidAmount,
		BalanceAmount: inv.Balance(),
		PaymentStatus: inv.PaymentStatus,
	}
}
