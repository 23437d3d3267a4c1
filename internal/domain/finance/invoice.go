package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// InvoicePaymentStatus tracks how much of an invoice has been settled
type InvoicePaymentStatus string

const (
	InvoiceUnpaid  InvoicePaymentStatus = "unpaid"
	InvoicePartial InvoicePaymentStatus = "partial"
	InvoicePaid    InvoicePaymentStatus = "paid"
)

// IsValid checks if the status is known
func (s InvoicePaymentStatus) IsValid() bool {
	switch s {
	case InvoiceUnpaid, InvoicePartial, InvoicePaid:
		return true
	}
	return false
}

// Invoice is an issued tax invoice. Apart from PaidAmount and PaymentStatus
// nothing changes after creation.
type Invoice struct {
	shared.OrgAggregateRoot
	InvoiceNumber   string
	OrderID         uuid.UUID
	CustomerID      uuid.UUID
	InvoiceDate     time.Time
	DueDate         time.Time
	CustomerName    string
	BillingAddress  partner.Address
	ShippingAddress partner.Address
	BuyerGSTIN      string
	BuyerStateCode  string
	SellerGSTIN     string
	SellerStateCode string
	IsExport        bool
	IsSEZ           bool
	TaxType         gst.TaxType
	SubtotalAmount  decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxableAmount   decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTAmount      decimal.Decimal
	IGSTAmount      decimal.Decimal
	TotalTaxAmount  decimal.Decimal
	OtherCharges    decimal.Decimal
	RoundOffAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	PaymentStatus   InvoicePaymentStatus
	Items           []InvoiceItem
}

// InvoiceItem is one invoiced line with its own tax split
type InvoiceItem struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	OrderItemID     *uuid.UUID
	ProductID       uuid.UUID
	BatchID         *uuid.UUID
	ProductName     string
	HSNCode         string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	MRP             decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxableAmount   decimal.Decimal
	TaxRate         decimal.Decimal
	CGSTRate        decimal.Decimal
	SGSTRate        decimal.Decimal
	IGSTRate        decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTAmount      decimal.Decimal
	IGSTAmount      decimal.Decimal
	TotalAmount     decimal.Decimal
}

// InvoiceLine is a line to be invoiced
type InvoiceLine struct {
	OrderItemID *uuid.UUID
	ProductID   uuid.UUID
	BatchID     *uuid.UUID
	ProductName string
	MRP         decimal.Decimal
	Tax         gst.LineInput
}

// InvoiceDraft carries everything needed to issue an invoice, including the
// customer snapshot taken at issue time
type InvoiceDraft struct {
	OrgID           uuid.UUID
	InvoiceNumber   string
	OrderID         uuid.UUID
	CustomerID      uuid.UUID
	InvoiceDate     time.Time
	CreditDays      int
	CustomerName    string
	BillingAddress  partner.Address
	ShippingAddress partner.Address
	SellerGSTIN     string
	BuyerGSTIN      string
	PlaceOfSupply   string
	IsExport        bool
	IsSEZ           bool
	Lines           []InvoiceLine
	HeaderDiscount  decimal.Decimal
	OtherCharges    decimal.Decimal
}

// NewInvoice computes the GST breakup from the seller and buyer GSTINs and
// builds the invoice with its items
func NewInvoice(draft InvoiceDraft) (*Invoice, error) {
	if draft.OrgID == uuid.Nil || draft.CustomerID == uuid.Nil {
		return nil, shared.NewValidationError("organization and customer are required")
	}
	if draft.InvoiceNumber == "" {
		return nil, shared.NewValidationError("invoice number is required")
	}
	if draft.CreditDays < 0 {
		return nil, shared.NewValidationError("credit days cannot be negative")
	}

	inputs := make([]gst.LineInput, len(draft.Lines))
	for i, l := range draft.Lines {
		inputs[i] = l.Tax
	}
	res, err := gst.ComputeInvoice(gst.InvoiceInput{
		Parties: gst.Parties{
			SellerGSTIN:   gst.NormalizeGSTIN(draft.SellerGSTIN),
			BuyerGSTIN:    gst.NormalizeGSTIN(draft.BuyerGSTIN),
			PlaceOfSupply: draft.PlaceOfSupply,
			IsExport:      draft.IsExport,
			IsSEZ:         draft.IsSEZ,
		},
		Items:          inputs,
		HeaderDiscount: draft.HeaderDiscount,
		OtherCharges:   draft.OtherCharges,
	})
	if err != nil {
		return nil, err
	}

	date := shared.TruncateToDay(draft.InvoiceDate.UTC())
	buyerGSTIN := gst.NormalizeGSTIN(draft.BuyerGSTIN)
	sellerGSTIN := gst.NormalizeGSTIN(draft.SellerGSTIN)
	buyerState, _ := gst.ExtractStateCode(buyerGSTIN)
	if buyerState == "" {
		buyerState = draft.PlaceOfSupply
	}
	sellerState, _ := gst.ExtractStateCode(sellerGSTIN)
	inv := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(draft.OrgID),
		InvoiceNumber:    draft.InvoiceNumber,
		OrderID:          draft.OrderID,
		CustomerID:       draft.CustomerID,
		InvoiceDate:      date,
		DueDate:          date.AddDate(0, 0, draft.CreditDays),
		CustomerName:     draft.CustomerName,
		BillingAddress:   draft.BillingAddress,
		ShippingAddress:  draft.ShippingAddress,
		BuyerGSTIN:       buyerGSTIN,
		BuyerStateCode:   buyerState,
		SellerGSTIN:      sellerGSTIN,
		SellerStateCode:  sellerState,
		IsExport:         draft.IsExport,
		IsSEZ:            draft.IsSEZ,
		TaxType:          res.TaxType,
		SubtotalAmount:   res.GrossAmount,
		DiscountAmount:   res.LineDiscount.Add(res.HeaderDiscount),
		TaxableAmount:    res.TaxableAmount,
		CGSTAmount:       res.CGSTAmount,
		SGSTAmount:       res.SGSTAmount,
		IGSTAmount:       res.IGSTAmount,
		TotalTaxAmount:   res.TotalTax,
		OtherCharges:     res.OtherCharges,
		RoundOffAmount:   res.RoundOff,
		TotalAmount:      res.TotalAmount,
		PaidAmount:       decimal.Zero,
		PaymentStatus:    InvoiceUnpaid,
	}
	inv.Items = make([]InvoiceItem, len(draft.Lines))
	for i, l := range draft.Lines {
		line := res.Items[i]
		inv.Items[i] = InvoiceItem{
			ID:              uuid.New(),
			InvoiceID:       inv.ID,
			OrderItemID:     l.OrderItemID,
			ProductID:       l.ProductID,
			BatchID:         l.BatchID,
			ProductName:     l.ProductName,
			HSNCode:         line.HSNCode,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			MRP:             l.MRP,
			DiscountPercent: line.DiscountPercent,
			DiscountAmount:  line.DiscountAmount,
			TaxableAmount:   line.TaxableAmount,
			TaxRate:         line.TaxRate,
			CGSTRate:        line.CGSTRate,
			SGSTRate:        line.SGSTRate,
			IGSTRate:        line.IGSTRate,
			CGSTAmount:      line.CGSTAmount,
			SGSTAmount:      line.SGSTAmount,
			IGSTAmount:      line.IGSTAmount,
			TotalAmount:     line.Total,
		}
	}

	if err := inv.CheckTaxFamily(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Balance is the amount still to be collected
func (i *Invoice) Balance() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// IsSettled reports whether nothing remains to be collected
func (i *Invoice) IsSettled() bool {
	return !i.Balance().IsPositive()
}

// ApplyPayment settles amount against the invoice. It never over-applies.
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("allocation must be greater than zero")
	}
	if amount.GreaterThan(i.Balance()) {
		return shared.NewValidationError("allocation %s exceeds invoice %s balance %s", amount, i.InvoiceNumber, i.Balance())
	}
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.refreshStatus()
	return nil
}

// ReversePayment takes back a previously applied amount
func (i *Invoice) ReversePayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("reversal must be greater than zero")
	}
	if amount.GreaterThan(i.PaidAmount) {
		return shared.NewValidationError("reversal %s exceeds invoice %s paid amount %s", amount, i.InvoiceNumber, i.PaidAmount)
	}
	i.PaidAmount = i.PaidAmount.Sub(amount)
	i.refreshStatus()
	return nil
}

func (i *Invoice) refreshStatus() {
	switch {
	case i.PaidAmount.IsZero():
		i.PaymentStatus = InvoiceUnpaid
	case i.PaidAmount.GreaterThanOrEqual(i.TotalAmount):
		i.PaymentStatus = InvoicePaid
	default:
		i.PaymentStatus = InvoicePartial
	}
	i.Touch()
}

// CheckTaxFamily verifies exactly one of CGST+SGST, IGST or no tax is present
func (i *Invoice) CheckTaxFamily() error {
	intra := i.CGSTAmount.Add(i.SGSTAmount).IsPositive()
	inter := i.IGSTAmount.IsPositive()
	if intra && inter {
		return fmt.Errorf("invoice %s carries both CGST/SGST and IGST", i.InvoiceNumber)
	}
	return nil
}

// DaysOverdue is max(0, today - invoice date - creditDays)
func (i *Invoice) DaysOverdue(today time.Time, creditDays int) int {
	days := shared.DaysBetween(i.InvoiceDate, today) - creditDays
	if days < 0 {
		return 0
	}
	return days
}

// Transaction converts the invoice for period summaries
func (i *Invoice) Transaction() gst.Transaction {
	tx := gst.Transaction{
		InvoiceNumber: i.InvoiceNumber,
		InvoiceDate:   i.InvoiceDate,
		BuyerGSTIN:    i.BuyerGSTIN,
		TaxType:       i.TaxType,
		IsExport:      i.IsExport || i.IsSEZ,
		TaxableAmount: i.TaxableAmount,
		CGSTAmount:    i.CGSTAmount,
		SGSTAmount:    i.SGSTAmount,
		IGSTAmount:    i.IGSTAmount,
		TotalAmount:   i.TotalAmount,
		Lines:         make([]gst.SummaryLine, len(i.Items)),
	}
	for n, item := range i.Items {
		tx.Lines[n] = gst.SummaryLine{
			HSNCode:       item.HSNCode,
			Quantity:      item.Quantity,
			TaxRate:       item.TaxRate,
			TaxableAmount: item.TaxableAmount,
			CGSTAmount:    item.CGSTAmount,
			SGSTAmount:    item.SGSTAmount,
			IGSTAmount:    item.IGSTAmount,
		}
	}
	return tx
}
