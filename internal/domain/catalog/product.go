package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

var hsnPattern = regexp.MustCompile(`^[0-9]{4}([0-9]{2}){0,2}$`)

// gstSlabs are the GST rates a product can carry
var gstSlabs = []int64{0, 5, 12, 18, 28}

// IsValidGSTSlab reports whether rate is one of 0, 5, 12, 18 or 28
func IsValidGSTSlab(rate decimal.Decimal) bool {
	for _, s := range gstSlabs {
		if rate.Equal(decimal.NewFromInt(s)) {
			return true
		}
	}
	return false
}

// Product is a sellable item. The order pipeline only reads products.
type Product struct {
	shared.OrgAggregateRoot
	Code         string
	Name         string
	GenericName  string
	Manufacturer string
	HSNCode      string
	Unit         string
	MRP          decimal.Decimal
	SalePrice    decimal.Decimal
	GSTPercent   decimal.Decimal
	MinimumStock decimal.Decimal
	ReorderLevel decimal.Decimal
	IsActive     bool
}

// ProductInput carries the fields to create a product
type ProductInput struct {
	Code         string
	Name         string
	GenericName  string
	Manufacturer string
	HSNCode      string
	Unit         string
	MRP          decimal.Decimal
	SalePrice    decimal.Decimal
	GSTPercent   decimal.Decimal
	MinimumStock decimal.Decimal
	ReorderLevel decimal.Decimal
}

// NewProduct validates input and creates an active product
func NewProduct(orgID uuid.UUID, in ProductInput) (*Product, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)

	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("organization is required")
	}
	if in.Code == "" || len(in.Code) > 50 {
		return nil, shared.NewValidationError("product code must be 1-50 characters")
	}
	if in.Name == "" {
		return nil, shared.NewValidationError("product name is required")
	}
	if in.HSNCode != "" && !hsnPattern.MatchString(in.HSNCode) {
		return nil, shared.NewValidationError("HSN code must have 4, 6 or 8 digits")
	}
	if !IsValidGSTSlab(in.GSTPercent) {
		return nil, shared.NewValidationError("GST percent must be one of 0, 5, 12, 18, 28")
	}
	if in.MRP.IsNegative() || in.SalePrice.IsNegative() {
		return nil, shared.NewValidationError("prices cannot be negative")
	}
	if in.SalePrice.GreaterThan(in.MRP) && in.MRP.IsPositive() {
		return nil, shared.NewValidationError("sale price cannot exceed MRP")
	}
	if in.MinimumStock.IsNegative() || in.ReorderLevel.IsNegative() {
		return nil, shared.NewValidationError("stock thresholds cannot be negative")
	}
	if in.Unit == "" {
		in.Unit = "strip"
	}

	return &Product{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Code:             in.Code,
		Name:             in.Name,
		GenericName:      in.GenericName,
		Manufacturer:     in.Manufacturer,
		HSNCode:          in.HSNCode,
		Unit:             in.Unit,
		MRP:              shared.RoundMoney(in.MRP),
		SalePrice:        shared.RoundMoney(in.SalePrice),
		GSTPercent:       in.GSTPercent,
		MinimumStock:     in.MinimumStock,
		ReorderLevel:     in.ReorderLevel,
		IsActive:         true,
	}, nil
}

// NeedsReorder reports whether current stock has fallen to the reorder level
func (p *Product) NeedsReorder(currentStock decimal.Decimal) bool {
	return p.ReorderLevel.IsPositive() && currentStock.LessThanOrEqual(p.ReorderLevel)
}

// BelowMinimum reports whether current stock is under the minimum threshold
func (p *Product) BelowMinimum(currentStock decimal.Decimal) bool {
	return currentStock.LessThan(p.MinimumStock)
}
