package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// BatchModel is the persistence model for the Batch aggregate
type BatchModel struct {
	OrgAggregateModel
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber       string          `gorm:"type:varchar(50);not null"`
	ManufacturingDate *time.Time      `gorm:"type:date"`
	ExpiryDate        *time.Time      `gorm:"type:date;index"`
	QuantityReceived  decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	QuantityAvailable decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	QuantitySold      decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MRP               decimal.Decimal `gorm:"column:mrp;type:decimal(18,2);not null;default:0"`
	SupplierName      string          `gorm:"type:varchar(200)"`
	PurchaseReference string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model to a domain Batch
func (m *BatchModel) ToDomain() *inventory.Batch {
	return &inventory.Batch{
		OrgAggregateRoot:  m.ToDomainOrgAggregateRoot(),
		ProductID:         m.ProductID,
		BatchNumber:       m.BatchNumber,
		ManufacturingDate: utcDate(m.ManufacturingDate),
		ExpiryDate:        utcDate(m.ExpiryDate),
		QuantityReceived:  m.QuantityReceived,
		QuantityAvailable: m.QuantityAvailable,
		QuantitySold:      m.QuantitySold,
		CostPrice:         m.CostPrice,
		MRP:               m.MRP,
		SupplierName:      m.SupplierName,
		PurchaseReference: m.PurchaseReference,
	}
}

// BatchModelFromDomain creates a new persistence model from a domain Batch
func BatchModelFromDomain(b *inventory.Batch) *BatchModel {
	m := &BatchModel{
		ProductID:         b.ProductID,
		BatchNumber:       b.BatchNumber,
		ManufacturingDate: b.ManufacturingDate,
		ExpiryDate:        b.ExpiryDate,
		QuantityReceived:  b.QuantityReceived,
		QuantityAvailable: b.QuantityAvailable,
		QuantitySold:      b.QuantitySold,
		CostPrice:         b.CostPrice,
		MRP:               b.MRP,
		SupplierName:      b.SupplierName,
		PurchaseReference: b.PurchaseReference,
	}
	m.FromDomainOrgAggregateRoot(b.OrgAggregateRoot)
	return m
}

// StockMovementModel is one row of the append-only stock journal
type StockMovementModel struct {
	ID            uuid.UUID              `gorm:"type:uuid;primaryKey"`
	OrgID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	BatchID       *uuid.UUID             `gorm:"type:uuid;index"`
	MovementType  inventory.MovementType `gorm:"type:varchar(20);not null"`
	QuantityIn    decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	QuantityOut   decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	StockBefore   decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	StockAfter    decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	ReferenceType string                 `gorm:"type:varchar(30)"`
	ReferenceID   *uuid.UUID             `gorm:"type:uuid;index"`
	MovementDate  time.Time              `gorm:"not null;index"`
	Notes         string                 `gorm:"type:text"`
	CreatedBy     *uuid.UUID             `gorm:"type:uuid"`
	CreatedAt     time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:            m.ID,
		OrgID:         m.OrgID,
		ProductID:     m.ProductID,
		BatchID:       m.BatchID,
		MovementType:  m.MovementType,
		QuantityIn:    m.QuantityIn,
		QuantityOut:   m.QuantityOut,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		MovementDate:  m.MovementDate.UTC(),
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement
func StockMovementModelFromDomain(s *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:            s.ID,
		OrgID:         s.OrgID,
		ProductID:     s.ProductID,
		BatchID:       s.BatchID,
		MovementType:  s.MovementType,
		QuantityIn:    s.QuantityIn,
		QuantityOut:   s.QuantityOut,
		StockBefore:   s.StockBefore,
		StockAfter:    s.StockAfter,
		ReferenceType: s.ReferenceType,
		ReferenceID:   s.ReferenceID,
		MovementDate:  s.MovementDate,
		Notes:         s.Notes,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
	}
}

// StockWriteoffModel is the header of a write-off document
type StockWriteoffModel struct {
	OrgAggregateModel
	WriteoffNumber      string                   `gorm:"type:varchar(50);not null;index"`
	WriteoffDate        time.Time                `gorm:"not null;index"`
	Reason              inventory.WriteoffReason `gorm:"type:varchar(20);not null"`
	RequiresITCReversal bool                     `gorm:"column:requires_itc_reversal;not null"`
	TotalCostValue      decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	TotalITCReversal    decimal.Decimal          `gorm:"column:total_itc_reversal;type:decimal(18,2);not null;default:0"`
	Notes               string                   `gorm:"type:text"`
	Items               []StockWriteoffItemModel `gorm:"foreignKey:WriteoffID;references:ID"`
}

// TableName returns the table name for GORM
func (StockWriteoffModel) TableName() string {
	return "stock_writeoffs"
}

// StockWriteoffItemModel is one batch line of a write-off
type StockWriteoffItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WriteoffID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	CostPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GSTPercent decimal.Decimal `gorm:"column:gst_percent;type:decimal(5,2);not null"`
	CostValue  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ITCAmount  decimal.Decimal `gorm:"column:itc_amount;type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (StockWriteoffItemModel) TableName() string {
	return "stock_writeoff_items"
}

// ToDomain converts the persistence model to a domain StockWriteoff
func (m *StockWriteoffModel) ToDomain() *inventory.StockWriteoff {
	w := &inventory.StockWriteoff{
		OrgAggregateRoot:    m.ToDomainOrgAggregateRoot(),
		WriteoffNumber:      m.WriteoffNumber,
		WriteoffDate:        m.WriteoffDate.UTC(),
		Reason:              m.Reason,
		RequiresITCReversal: m.RequiresITCReversal,
		TotalCostValue:      m.TotalCostValue,
		TotalITCReversal:    m.TotalITCReversal,
		Notes:               m.Notes,
		Items:               make([]inventory.StockWriteoffItem, len(m.Items)),
	}
	for i, it := range m.Items {
		w.Items[i] = inventory.StockWriteoffItem{
			ID:         it.ID,
			WriteoffID: it.WriteoffID,
			BatchID:    it.BatchID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			CostPrice:  it.CostPrice,
			GSTPercent: it.GSTPercent,
			CostValue:  it.CostValue,
			ITCAmount:  it.ITCAmount,
		}
	}
	return w
}

// StockWriteoffModelFromDomain creates a new persistence model from a domain StockWriteoff
func StockWriteoffModelFromDomain(w *inventory.StockWriteoff) *StockWriteoffModel {
	m := &StockWriteoffModel{
		WriteoffNumber:      w.WriteoffNumber,
		WriteoffDate:        w.WriteoffDate,
		Reason:              w.Reason,
		RequiresITCReversal: w.RequiresITCReversal,
		TotalCostValue:      w.TotalCostValue,
		TotalITCReversal:    w.TotalITCReversal,
		Notes:               w.Notes,
		Items:               make([]StockWriteoffItemModel, len(w.Items)),
	}
	m.FromDomainOrgAggregateRoot(w.OrgAggregateRoot)
	for i, it := range w.Items {
		m.Items[i] = StockWriteoffItemModel{
			ID:         it.ID,
			WriteoffID: w.ID,
			BatchID:    it.BatchID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			CostPrice:  it.CostPrice,
			GSTPercent: it.GSTPercent,
			CostValue:  it.CostValue,
			ITCAmount:  it.ITCAmount,
		}
	}
	return m
}

func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := shared.TruncateToDay(t.UTC())
	return &d
}
