package models

import (
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	OrgAggregateModel
	Code         string          `gorm:"type:varchar(50);not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	GenericName  string          `gorm:"type:varchar(200)"`
	Manufacturer string          `gorm:"type:varchar(200)"`
	HSNCode      string          `gorm:"column:hsn_code;type:varchar(8);index"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	MRP          decimal.Decimal `gorm:"column:mrp;type:decimal(18,2);not null;default:0"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GSTPercent   decimal.Decimal `gorm:"column:gst_percent;type:decimal(5,2);not null;default:0"`
	MinimumStock decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	IsActive     bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Code:             m.Code,
		Name:             m.Name,
		GenericName:      m.GenericName,
		Manufacturer:     m.Manufacturer,
		HSNCode:          m.HSNCode,
		Unit:             m.Unit,
		MRP:              m.MRP,
		SalePrice:        m.SalePrice,
		GSTPercent:       m.GSTPercent,
		MinimumStock:     m.MinimumStock,
		ReorderLevel:     m.ReorderLevel,
		IsActive:         m.IsActive,
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Code:         p.Code,
		Name:         p.Name,
		GenericName:  p.GenericName,
		Manufacturer: p.Manufacturer,
		HSNCode:      p.HSNCode,
		Unit:         p.Unit,
		MRP:          p.MRP,
		SalePrice:    p.SalePrice,
		GSTPercent:   p.GSTPercent,
		MinimumStock: p.MinimumStock,
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
	}
	m.FromDomainOrgAggregateRoot(p.OrgAggregateRoot)
	return m
}
