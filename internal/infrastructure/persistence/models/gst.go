package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
)

// GSTAdjustmentModel is an append-only GST ledger row
type GSTAdjustmentModel struct {
	BaseModel
	OrgID          uuid.UUID          `gorm:"type:uuid;not null;index"`
	AdjustmentType gst.AdjustmentType `gorm:"type:varchar(30);not null"`
	ReferenceType  string             `gorm:"type:varchar(30);not null"`
	ReferenceID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	AdjustmentDate time.Time          `gorm:"not null;index"`
	TaxableValue   decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Reason         string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GSTAdjustmentModel) TableName() string {
	return "gst_adjustments"
}

// ToDomain converts the persistence model to a domain Adjustment
func (m *GSTAdjustmentModel) ToDomain() *gst.Adjustment {
	return &gst.Adjustment{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrgID:          m.OrgID,
		AdjustmentType: m.AdjustmentType,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		AdjustmentDate: m.AdjustmentDate.UTC(),
		TaxableValue:   m.TaxableValue,
		TaxAmount:      m.TaxAmount,
		Reason:         m.Reason,
	}
}

// GSTAdjustmentModelFromDomain creates a new persistence model from a domain Adjustment
func GSTAdjustmentModelFromDomain(a *gst.Adjustment) *GSTAdjustmentModel {
	m := &GSTAdjustmentModel{
		OrgID:          a.OrgID,
		AdjustmentType: a.AdjustmentType,
		ReferenceType:  a.ReferenceType,
		ReferenceID:    a.ReferenceID,
		AdjustmentDate: a.AdjustmentDate,
		TaxableValue:   a.TaxableValue,
		TaxAmount:      a.TaxAmount,
		Reason:         a.Reason,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
