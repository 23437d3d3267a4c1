package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code         string          `json:"code" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	GenericName  string          `json:"generic_name" binding:"max=200"`
	Manufacturer string          `json:"manufacturer" binding:"max=200"`
	HSNCode      string          `json:"hsn_code" binding:"omitempty,numeric,min=4,max=8"`
	Unit         string          `json:"unit" binding:"max=20"`
	MRP          decimal.Decimal `json:"mrp"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	GSTPercent   decimal.Decimal `json:"gst_percent"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string  `form:"search"`
	HSNCode    string  `form:"hsn_code"`
	GSTPercent *string `form:"gst_percent"`
	IsActive   *bool   `form:"is_active"`
	Page       int     `form:"page" binding:"min=0"`
	PageSize   int     `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string  `form:"order_by"`
	OrderDir   string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrgID        uuid.UUID       `json:"org_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	GenericName  string          `json:"generic_name,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	HSNCode      string          `json:"hsn_code,omitempty"`
	Unit         string          `json:"unit"`
	MRP          decimal.Decimal `json:"mrp"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	GSTPercent   decimal.Decimal `json:"gst_percent"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		OrgID:        p.OrgID,
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
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
