package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	OrgAggregateModel
	OrderNumber    string            `gorm:"type:varchar(30);not null;index"`
	CustomerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderType      trade.OrderType   `gorm:"type:varchar(20);not null"`
	Status         trade.OrderStatus `gorm:"type:varchar(20);not null;index"`
	OrderDate      time.Time         `gorm:"type:date;not null;index"`
	DeliveryDate   *time.Time        `gorm:"type:date"`
	TaxType        gst.TaxType       `gorm:"type:varchar(20);not null"`
	SubtotalAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	RoundOffAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	FinalAmount    decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount     decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceAmount  decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	InvoiceNumber  string            `gorm:"type:varchar(30)"`
	ChallanNumber  string            `gorm:"type:varchar(30)"`
	ConfirmedAt    *time.Time
	InvoicedAt     *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	ReturnedAt     *time.Time
	CancelReason   string           `gorm:"type:text"`
	Notes          string           `gorm:"type:text"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one computed order line
type OrderItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo          int             `gorm:"not null;default:0"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID         *uuid.UUID      `gorm:"type:uuid"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	HSNCode         string          `gorm:"column:hsn_code;type:varchar(8)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MRP             decimal.Decimal `gorm:"column:mrp;type:decimal(18,2);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxableAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CGSTAmount      decimal.Decimal `gorm:"column:cgst_amount;type:decimal(18,2);not null;default:0"`
	SGSTAmount      decimal.Decimal `gorm:"column:sgst_amount;type:decimal(18,2);not null;default:0"`
	IGSTAmount      decimal.Decimal `gorm:"column:igst_amount;type:decimal(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		OrderNumber:      m.OrderNumber,
		CustomerID:       m.CustomerID,
		OrderType:        m.OrderType,
		Status:           m.Status,
		OrderDate:        m.OrderDate.UTC(),
		DeliveryDate:     utcDate(m.DeliveryDate),
		TaxType:          m.TaxType,
		SubtotalAmount:   m.SubtotalAmount,
		DiscountAmount:   m.DiscountAmount,
		TaxAmount:        m.TaxAmount,
		RoundOffAmount:   m.RoundOffAmount,
		FinalAmount:      m.FinalAmount,
		PaidAmount:       m.PaidAmount,
		BalanceAmount:    m.BalanceAmount,
		InvoiceNumber:    m.InvoiceNumber,
		ChallanNumber:    m.ChallanNumber,
		ConfirmedAt:      m.ConfirmedAt,
		InvoicedAt:       m.InvoicedAt,
		ShippedAt:        m.ShippedAt,
		DeliveredAt:      m.DeliveredAt,
		CancelledAt:      m.CancelledAt,
		ReturnedAt:       m.ReturnedAt,
		CancelReason:     m.CancelReason,
		Notes:            m.Notes,
		Items:            make([]trade.OrderItem, len(m.Items)),
	}
	for i, it := range m.Items {
		o.Items[i] = trade.OrderItem{
			ID:              it.ID,
			OrderID:         it.OrderID,
			ProductID:       it.ProductID,
			BatchID:         it.BatchID,
			ProductName:     it.ProductName,
			HSNCode:         it.HSNCode,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			MRP:             it.MRP,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
			TaxPercent:      it.TaxPercent,
			TaxableAmount:   it.TaxableAmount,
			CGSTAmount:      it.CGSTAmount,
			SGSTAmount:      it.SGSTAmount,
			IGSTAmount:      it.IGSTAmount,
			TaxAmount:       it.TaxAmount,
			LineTotal:       it.LineTotal,
		}
	}
	return o
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		OrderType:      o.OrderType,
		Status:         o.Status,
		OrderDate:      o.OrderDate,
		DeliveryDate:   o.DeliveryDate,
		TaxType:        o.TaxType,
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
	}
	m.FromDomainOrgAggregateRoot(o.OrgAggregateRoot)
	m.Items = OrderItemModelsFromDomain(o)
	return m
}

// OrderItemModelsFromDomain converts the lines of an order, keeping their order
func OrderItemModelsFromDomain(o *trade.Order) []OrderItemModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemModel{
			ID:              it.ID,
			OrderID:         o.ID,
			LineNo:          i + 1,
			ProductID:       it.ProductID,
			BatchID:         it.BatchID,
			ProductName:     it.ProductName,
			HSNCode:         it.HSNCode,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			MRP:             it.MRP,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
			TaxPercent:      it.TaxPercent,
			TaxableAmount:   it.TaxableAmount,
			CGSTAmount:      it.CGSTAmount,
			SGSTAmount:      it.SGSTAmount,
			IGSTAmount:      it.IGSTAmount,
			TaxAmount:       it.TaxAmount,
			LineTotal:       it.LineTotal,
		}
	}
	return items
}

// OrderReturnModel records a full return of an order
type OrderReturnModel struct {
	OrgAggregateModel
	ReturnNumber string                 `gorm:"type:varchar(30);not null;index"`
	OrderID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerID   uuid.UUID              `gorm:"type:uuid;not null"`
	ReturnDate   time.Time              `gorm:"type:date;not null"`
	RefundMethod trade.RefundMethod     `gorm:"type:varchar(20);not null"`
	RefundAmount decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Reason       string                 `gorm:"type:text"`
	Items        []OrderReturnItemModel `gorm:"foreignKey:ReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderReturnModel) TableName() string {
	return "order_returns"
}

// OrderReturnItemModel is one batch quantity taken back
type OrderReturnItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReturnID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,3);not null"`
}

// TableName returns the table name for GORM
func (OrderReturnItemModel) TableName() string {
	return "order_return_items"
}

// ToDomain converts the persistence model to a domain OrderReturn
func (m *OrderReturnModel) ToDomain() *trade.OrderReturn {
	r := &trade.OrderReturn{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		ReturnNumber:     m.ReturnNumber,
		OrderID:          m.OrderID,
		CustomerID:       m.CustomerID,
		ReturnDate:       m.ReturnDate.UTC(),
		RefundMethod:     m.RefundMethod,
		RefundAmount:     m.RefundAmount,
		Reason:           m.Reason,
		Items:            make([]trade.OrderReturnItem, len(m.Items)),
	}
	for i, it := range m.Items {
		r.Items[i] = trade.OrderReturnItem{
			ID:        it.ID,
			ReturnID:  it.ReturnID,
			ProductID: it.ProductID,
			BatchID:   it.BatchID,
			Quantity:  it.Quantity,
		}
	}
	return r
}

// OrderReturnModelFromDomain creates a new persistence model from a domain OrderReturn
func OrderReturnModelFromDomain(r *trade.OrderReturn) *OrderReturnModel {
	m := &OrderReturnModel{
		ReturnNumber: r.ReturnNumber,
		OrderID:      r.OrderID,
		CustomerID:   r.CustomerID,
		ReturnDate:   r.ReturnDate,
		RefundMethod: r.RefundMethod,
		RefundAmount: r.RefundAmount,
		Reason:       r.Reason,
		Items:        make([]OrderReturnItemModel, len(r.Items)),
	}
	m.FromDomainOrgAggregateRoot(r.OrgAggregateRoot)
	for i, it := range r.Items {
		m.Items[i] = OrderReturnItemModel{
			ID:        it.ID,
			ReturnID:  r.ID,
			ProductID: it.ProductID,
			BatchID:   it.BatchID,
			Quantity:  it.Quantity,
		}
	}
	return m
}
