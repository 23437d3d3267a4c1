package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
)

// InvoiceModel is the persistence model for an issued invoice
type InvoiceModel struct {
	OrgAggregateModel
	InvoiceNumber   string                       `gorm:"type:varchar(30);not null;uniqueIndex"`
	OrderID         uuid.UUID                    `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID                    `gorm:"type:uuid;not null;index"`
	InvoiceDate     time.Time                    `gorm:"type:date;not null;index"`
	DueDate         time.Time                    `gorm:"type:date;not null"`
	CustomerName    string                       `gorm:"type:varchar(200);not null"`
	BillingAddress  AddressColumns               `gorm:"embedded;embeddedPrefix:billing_"`
	ShippingAddress AddressColumns               `gorm:"embedded;embeddedPrefix:shipping_"`
	BuyerGSTIN      string                       `gorm:"column:buyer_gstin;type:varchar(15)"`
	BuyerStateCode  string                       `gorm:"type:varchar(2)"`
	SellerGSTIN     string                       `gorm:"column:seller_gstin;type:varchar(15)"`
	SellerStateCode string                       `gorm:"type:varchar(2)"`
	IsExport        bool                         `gorm:"not null"`
	IsSEZ           bool                         `gorm:"column:is_sez;not null"`
	TaxType         gst.TaxType                  `gorm:"type:varchar(20);not null"`
	SubtotalAmount  decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount  decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	TaxableAmount   decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	CGSTAmount      decimal.Decimal              `gorm:"column:cgst_amount;type:decimal(18,2);not null;default:0"`
	SGSTAmount      decimal.Decimal              `gorm:"column:sgst_amount;type:decimal(18,2);not null;default:0"`
	IGSTAmount      decimal.Decimal              `gorm:"column:igst_amount;type:decimal(18,2);not null;default:0"`
	TotalTaxAmount  decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	OtherCharges    decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	RoundOffAmount  decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount     decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount      decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus   finance.InvoicePaymentStatus `gorm:"type:varchar(20);not null;index"`
	Items           []InvoiceItemModel           `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is one invoiced line
type InvoiceItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo          int             `gorm:"not null;default:0"`
	OrderItemID     *uuid.UUID      `gorm:"type:uuid"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID         *uuid.UUID      `gorm:"type:uuid"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	HSNCode         string          `gorm:"column:hsn_code;type:varchar(8)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MRP             decimal.Decimal `gorm:"column:mrp;type:decimal(18,2);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxableAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CGSTRate        decimal.Decimal `gorm:"column:cgst_rate;type:decimal(5,2);not null;default:0"`
	SGSTRate        decimal.Decimal `gorm:"column:sgst_rate;type:decimal(5,2);not null;default:0"`
	IGSTRate        decimal.Decimal `gorm:"column:igst_rate;type:decimal(5,2);not null;default:0"`
	CGSTAmount      decimal.Decimal `gorm:"column:cgst_amount;type:decimal(18,2);not null;default:0"`
	SGSTAmount      decimal.Decimal `gorm:"column:sgst_amount;type:decimal(18,2);not null;default:0"`
	IGSTAmount      decimal.Decimal `gorm:"column:igst_amount;type:decimal(18,2);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		InvoiceNumber:    m.InvoiceNumber,
		OrderID:          m.OrderID,
		CustomerID:       m.CustomerID,
		InvoiceDate:      m.InvoiceDate.UTC(),
		DueDate:          m.DueDate.UTC(),
		CustomerName:     m.CustomerName,
		BillingAddress:   m.BillingAddress.toDomain(),
		ShippingAddress:  m.ShippingAddress.toDomain(),
		BuyerGSTIN:       m.BuyerGSTIN,
		BuyerStateCode:   m.BuyerStateCode,
		SellerGSTIN:      m.SellerGSTIN,
		SellerStateCode:  m.SellerStateCode,
		IsExport:         m.IsExport,
		IsSEZ:            m.IsSEZ,
		TaxType:          m.TaxType,
		SubtotalAmount:   m.SubtotalAmount,
		DiscountAmount:   m.DiscountAmount,
		TaxableAmount:    m.TaxableAmount,
		CGSTAmount:       m.CGSTAmount,
		SGSTAmount:       m.SGSTAmount,
		IGSTAmount:       m.IGSTAmount,
		TotalTaxAmount:   m.TotalTaxAmount,
		OtherCharges:     m.OtherCharges,
		RoundOffAmount:   m.RoundOffAmount,
		TotalAmount:      m.TotalAmount,
		PaidAmount:       m.PaidAmount,
		PaymentStatus:    m.PaymentStatus,
		Items:            make([]finance.InvoiceItem, len(m.Items)),
	}
	for i, it := range m.Items {
		inv.Items[i] = finance.InvoiceItem{
			ID:              it.ID,
			InvoiceID:       it.InvoiceID,
			OrderItemID:     it.OrderItemID,
			ProductID:       it.ProductID,
			BatchID:         it.BatchID,
			ProductName:     it.ProductName,
			HSNCode:         it.HSNCode,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			MRP:             it.MRP,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
			TaxableAmount:   it.TaxableAmount,
			TaxRate:         it.TaxRate,
			CGSTRate:        it.CGSTRate,
			SGSTRate:        it.SGSTRate,
			IGSTRate:        it.IGSTRate,
			CGSTAmount:      it.CGSTAmount,
			SGSTAmount:      it.SGSTAmount,
			IGSTAmount:      it.IGSTAmount,
			TotalAmount:     it.TotalAmount,
		}
	}
	return inv
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber:   inv.InvoiceNumber,
		OrderID:         inv.OrderID,
		CustomerID:      inv.CustomerID,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		CustomerName:    inv.CustomerName,
		BillingAddress:  addressColumns(inv.BillingAddress),
		ShippingAddress: addressColumns(inv.ShippingAddress),
		BuyerGSTIN:      inv.BuyerGSTIN,
		BuyerStateCode:  inv.BuyerStateCode,
		SellerGSTIN:     inv.SellerGSTIN,
		SellerStateCode: inv.SellerStateCode,
		IsExport:        inv.IsExport,
		IsSEZ:           inv.IsSEZ,
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
		PaymentStatus:   inv.PaymentStatus,
		Items:           make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromDomainOrgAggregateRoot(inv.OrgAggregateRoot)
	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:              it.ID,
			InvoiceID:       inv.ID,
			LineNo:          i + 1,
			OrderItemID:     it.OrderItemID,
			ProductID:       it.ProductID,
			BatchID:         it.BatchID,
			ProductName:     it.ProductName,
			HSNCode:         it.HSNCode,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			MRP:             it.MRP,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
			TaxableAmount:   it.TaxableAmount,
			TaxRate:         it.TaxRate,
			CGSTRate:        it.CGSTRate,
			SGSTRate:        it.SGSTRate,
			IGSTRate:        it.IGSTRate,
			CGSTAmount:      it.CGSTAmount,
			SGSTAmount:      it.SGSTAmount,
			IGSTAmount:      it.IGSTAmount,
			TotalAmount:     it.TotalAmount,
		}
	}
	return m
}

// PaymentModel is the persistence model for a customer payment
type PaymentModel struct {
	OrgAggregateModel
	PaymentReference  string                   `gorm:"type:varchar(30);not null;index"`
	CustomerID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	InvoiceID         *uuid.UUID               `gorm:"type:uuid"`
	PaymentDate       time.Time                `gorm:"type:date;not null;index"`
	Amount            decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	PaymentMode       finance.PaymentMode      `gorm:"type:varchar(20);not null"`
	ReferenceNumber   string                   `gorm:"type:varchar(100)"`
	Status            finance.PaymentStatus    `gorm:"type:varchar(20);not null;index"`
	AllocatedAmount   decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	UnallocatedAmount decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	Notes             string                   `gorm:"type:text"`
	CancelledAt       *time.Time
	CancelReason      string                   `gorm:"type:text"`
	Allocations       []PaymentAllocationModel `gorm:"foreignKey:PaymentID;references:ID"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentAllocationModel is an append-only allocation row
type PaymentAllocationModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrgID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsReversal bool            `gorm:"not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain PaymentAllocation
func (m *PaymentAllocationModel) ToDomain() finance.PaymentAllocation {
	return finance.PaymentAllocation{
		ID:         m.ID,
		OrgID:      m.OrgID,
		PaymentID:  m.PaymentID,
		InvoiceID:  m.InvoiceID,
		Amount:     m.Amount,
		IsReversal: m.IsReversal,
		CreatedAt:  m.CreatedAt,
	}
}

// PaymentAllocationModelFromDomain creates a new persistence model from a domain PaymentAllocation
func PaymentAllocationModelFromDomain(a finance.PaymentAllocation) PaymentAllocationModel {
	return PaymentAllocationModel{
		ID:         a.ID,
		OrgID:      a.OrgID,
		PaymentID:  a.PaymentID,
		InvoiceID:  a.InvoiceID,
		Amount:     a.Amount,
		IsReversal: a.IsReversal,
		CreatedAt:  a.CreatedAt,
	}
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *finance.Payment {
	p := &finance.Payment{
		OrgAggregateRoot:  m.ToDomainOrgAggregateRoot(),
		PaymentReference:  m.PaymentReference,
		CustomerID:        m.CustomerID,
		InvoiceID:         m.InvoiceID,
		PaymentDate:       m.PaymentDate.UTC(),
		Amount:            m.Amount,
		PaymentMode:       m.PaymentMode,
		ReferenceNumber:   m.ReferenceNumber,
		Status:            m.Status,
		AllocatedAmount:   m.AllocatedAmount,
		UnallocatedAmount: m.UnallocatedAmount,
		Notes:             m.Notes,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Allocations:       make([]finance.PaymentAllocation, len(m.Allocations)),
	}
	for i := range m.Allocations {
		p.Allocations[i] = m.Allocations[i].ToDomain()
	}
	return p
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{
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
		Allocations:       make([]PaymentAllocationModel, len(p.Allocations)),
	}
	m.FromDomainOrgAggregateRoot(p.OrgAggregateRoot)
	for i, a := range p.Allocations {
		m.Allocations[i] = PaymentAllocationModelFromDomain(a)
	}
	return m
}
