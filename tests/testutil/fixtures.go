package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Seller defaults used by SeedOrganization
const (
	SellerGSTIN     = "27AABCU9603R1ZM"
	SellerStateCode = "27"
)

func orgAggregate(orgID uuid.UUID) models.OrgAggregateModel {
	now := time.Now().UTC()
	return models.OrgAggregateModel{
		AggregateModel: models.AggregateModel{
			BaseModel: models.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Version:   1,
		},
		OrgID: orgID,
	}
}

// SeedOrganization inserts a Maharashtra-registered organization with the given ID
func SeedOrganization(t *testing.T, db *gorm.DB, orgID uuid.UUID) *models.OrganizationModel {
	t.Helper()

	now := time.Now().UTC()
	org := &models.OrganizationModel{
		BaseModel: models.BaseModel{ID: orgID, CreatedAt: now, UpdatedAt: now},
		Name:      "Test Pharma Distributors",
		GSTIN:     SellerGSTIN,
		StateCode: SellerStateCode,
		Address: models.AddressColumns{
			Line1:   "12 Market Road",
			City:    "Mumbai",
			State:   "Maharashtra",
			Pincode: "400001",
		},
	}
	require.NoError(t, db.Create(org).Error, "Failed to seed organization")
	return org
}

// CustomerOption customizes a seeded customer
type CustomerOption func(*models.CustomerModel)

// WithCustomerGSTIN sets the customer GSTIN and billing state
func WithCustomerGSTIN(gstin string) CustomerOption {
	return func(m *models.CustomerModel) {
		m.GSTIN = gstin
	}
}

// WithCreditLimit sets the customer credit limit
func WithCreditLimit(limit decimal.Decimal) CustomerOption {
	return func(m *models.CustomerModel) {
		m.CreditLimit = limit
	}
}

// WithCreditDays sets the customer credit period
func WithCreditDays(days int) CustomerOption {
	return func(m *models.CustomerModel) {
		m.CreditDays = days
	}
}

// SeedCustomer inserts an active intra-state customer with a 100000 credit limit
func SeedCustomer(t *testing.T, db *gorm.DB, orgID uuid.UUID, code string, opts ...CustomerOption) *models.CustomerModel {
	t.Helper()

	c := &models.CustomerModel{
		OrgAggregateModel: orgAggregate(orgID),
		Code:              code,
		Name:              "Customer " + code,
		Phone:             "9876543210",
		GSTIN:             "27AAPFU0939F1ZV",
		BillingAddress: models.AddressColumns{
			Line1:   "1 Station Road",
			City:    "Pune",
			State:   "Maharashtra",
			Pincode: "411001",
		},
		CreditLimit:     decimal.NewFromInt(100000),
		CreditDays:      30,
		CreditRating:    partner.CreditRatingB,
		DiscountPercent: decimal.Zero,
		IsActive:        true,
	}
	for _, opt := range opts {
		opt(c)
	}
	require.NoError(t, db.Create(c).Error, "Failed to seed customer")
	return c
}

// SeedProduct inserts an active product taxed at gstPercent
func SeedProduct(t *testing.T, db *gorm.DB, orgID uuid.UUID, code string, price, gstPercent decimal.Decimal) *models.ProductModel {
	t.Helper()

	p := &models.ProductModel{
		OrgAggregateModel: orgAggregate(orgID),
		Code:              code,
		Name:              "Product " + code,
		GenericName:       "Paracetamol",
		Manufacturer:      "Acme Labs",
		HSNCode:           "30049099",
		Unit:              "strip",
		MRP:               price.Mul(decimal.NewFromFloat(1.2)).Round(2),
		SalePrice:         price,
		GSTPercent:        gstPercent,
		MinimumStock:      decimal.NewFromInt(10),
		ReorderLevel:      decimal.NewFromInt(20),
		IsActive:          true,
	}
	require.NoError(t, db.Create(p).Error, "Failed to seed product")
	return p
}

// SeedBatch inserts a batch of productID holding qty units at costPrice
func SeedBatch(t *testing.T, db *gorm.DB, orgID, productID uuid.UUID, number string, qty, costPrice decimal.Decimal, expiry *time.Time) *models.BatchModel {
	t.Helper()

	b := &models.BatchModel{
		OrgAggregateModel: orgAggregate(orgID),
		ProductID:         productID,
		BatchNumber:       number,
		ExpiryDate:        expiry,
		QuantityReceived:  qty,
		QuantityAvailable: qty,
		QuantitySold:      decimal.Zero,
		CostPrice:         costPrice,
		MRP:               costPrice.Mul(decimal.NewFromInt(2)),
		SupplierName:      "Acme Labs",
	}
	require.NoError(t, db.Create(b).Error, "Failed to seed batch")
	return b
}

// Decimal parses s and fails the test on error
func Decimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
