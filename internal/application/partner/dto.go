package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
)

// AddressInput is a postal address in requests
type AddressInput struct {
	Line1   string `json:"line1" binding:"max=200"`
	Line2   string `json:"line2" binding:"max=200"`
	City    string `json:"city" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
	Pincode string `json:"pincode" binding:"omitempty,pincode"`
}

func (a AddressInput) toDomain() partner.Address {
	return partner.Address{
		Line1:   a.Line1,
		Line2:   a.Line2,
		City:    a.City,
		State:   a.State,
		Pincode: a.Pincode,
	}
}

// CreateCustomerRequest represents a request to create a customer.
// The customer code is generated from the name.
type CreateCustomerRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	ContactPerson   string          `json:"contact_person" binding:"max=100"`
	Phone           string          `json:"phone" binding:"max=20"`
	Email           string          `json:"email" binding:"omitempty,email"`
	GSTIN           string          `json:"gstin" binding:"omitempty,gstin"`
	BillingAddress  AddressInput    `json:"billing_address"`
	ShippingAddress AddressInput    `json:"shipping_address"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CreditDays      int             `json:"credit_days" binding:"min=0,max=365"`
	CreditRating    string          `json:"credit_rating" binding:"omitempty,oneof=A B C D"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Notes           string          `json:"notes" binding:"max=1000"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

func (r CreateCustomerRequest) profile() partner.CustomerProfile {
	return partner.CustomerProfile{
		Name:            r.Name,
		ContactPerson:   r.ContactPerson,
		Phone:           r.Phone,
		Email:           r.Email,
		GSTIN:           r.GSTIN,
		BillingAddress:  r.BillingAddress.toDomain(),
		ShippingAddress: r.ShippingAddress.toDomain(),
		CreditLimit:     r.CreditLimit,
		CreditDays:      r.CreditDays,
		CreditRating:    partner.CreditRating(r.CreditRating),
		DiscountPercent: r.DiscountPercent,
		Notes:           r.Notes,
	}
}

// UpdateCustomerRequest replaces the customer profile. Omitted fields keep
// their current value.
type UpdateCustomerRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	ContactPerson   *string          `json:"contact_person" binding:"omitempty,max=100"`
	Phone           *string          `json:"phone" binding:"omitempty,max=20"`
	Email           *string          `json:"email" binding:"omitempty,email"`
	GSTIN           *string          `json:"gstin" binding:"omitempty,gstin"`
	BillingAddress  *AddressInput    `json:"billing_address"`
	ShippingAddress *AddressInput    `json:"shipping_address"`
	CreditLimit     *decimal.Decimal `json:"credit_limit"`
	CreditDays      *int             `json:"credit_days" binding:"omitempty,min=0,max=365"`
	CreditRating    *string          `json:"credit_rating" binding:"omitempty,oneof=A B C D"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	Notes           *string          `json:"notes" binding:"omitempty,max=1000"`
	IsActive        *bool            `json:"is_active"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	HasGSTIN *bool  `form:"has_gstin"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrgID           uuid.UUID       `json:"org_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	ContactPerson   string          `json:"contact_person,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	GSTIN           string          `json:"gstin,omitempty"`
	StateCode       string          `json:"state_code,omitempty"`
	BillingAddress  partner.Address `json:"billing_address"`
	ShippingAddress partner.Address `json:"shipping_address"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CreditDays      int             `json:"credit_days"`
	CreditRating    string          `json:"credit_rating"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	IsActive        bool            `json:"is_active"`
	Notes           string          `json:"notes,omitempty"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		OrgID:           c.OrgID,
		Code:            c.Code,
		Name:            c.Name,
		ContactPerson:   c.ContactPerson,
		Phone:           c.Phone,
		Email:           c.Email,
		GSTIN:           c.GSTIN,
		StateCode:       c.StateCode(),
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		CreditLimit:     c.CreditLimit,
		CreditDays:      c.CreditDays,
		CreditRating:    string(c.CreditRating),
		DiscountPercent: c.DiscountPercent,
		IsActive:        c.IsActive,
		Notes:           c.Notes,
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
