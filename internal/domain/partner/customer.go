package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// CreditRating is an internal grade of the customer's payment behaviour
type CreditRating string

const (
	CreditRatingA CreditRating = "A"
	CreditRatingB CreditRating = "B"
	CreditRatingC CreditRating = "C"
	CreditRatingD CreditRating = "D"
)

// IsValid checks if the rating is known
func (r CreditRating) IsValid() bool {
	switch r {
	case CreditRatingA, CreditRatingB, CreditRatingC, CreditRatingD:
		return true
	}
	return false
}

// Customer is a buyer of the distributor.
// The GSTIN, when present, decides intra or inter-state taxation.
type Customer struct {
	shared.OrgAggregateRoot
	Code            string
	Name            string
	ContactPerson   string
	Phone           string
	Email           string
	GSTIN           string
	BillingAddress  Address
	ShippingAddress Address
	CreditLimit     decimal.Decimal
	CreditDays      int
	CreditRating    CreditRating
	DiscountPercent decimal.Decimal
	IsActive        bool
	Notes           string
}

// CustomerProfile carries the mutable customer fields
type CustomerProfile struct {
	Name            string
	ContactPerson   string
	Phone           string
	Email           string
	GSTIN           string
	BillingAddress  Address
	ShippingAddress Address
	CreditLimit     decimal.Decimal
	CreditDays      int
	CreditRating    CreditRating
	DiscountPercent decimal.Decimal
	Notes           string
}

func (p *CustomerProfile) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.GSTIN = gst.NormalizeGSTIN(p.GSTIN)
	if p.CreditRating == "" {
		p.CreditRating = CreditRatingB
	}
}

func (p CustomerProfile) validate() error {
	if p.Name == "" {
		return shared.NewValidationError("customer name is required")
	}
	if len(p.Name) > 200 {
		return shared.NewValidationError("customer name cannot exceed 200 characters")
	}
	if p.GSTIN != "" && !gst.ValidateGSTIN(p.GSTIN) {
		return shared.NewValidationError("invalid GSTIN %q", p.GSTIN)
	}
	if err := p.BillingAddress.Validate(); err != nil {
		return err
	}
	if err := p.ShippingAddress.Validate(); err != nil {
		return err
	}
	if p.CreditLimit.IsNegative() {
		return shared.NewValidationError("credit limit cannot be negative")
	}
	if p.CreditDays < 0 {
		return shared.NewValidationError("credit days cannot be negative")
	}
	if !p.CreditRating.IsValid() {
		return shared.NewValidationError("invalid credit rating %q", p.CreditRating)
	}
	if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("discount percent must be between 0 and 100")
	}
	return nil
}

// NewCustomer creates an active customer with a pre-generated code
func NewCustomer(orgID uuid.UUID, code string, profile CustomerProfile) (*Customer, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("organization is required")
	}
	if code == "" {
		return nil, shared.NewValidationError("customer code is required")
	}
	profile.normalize()
	if err := profile.validate(); err != nil {
		return nil, err
	}

	c := &Customer{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Code:             code,
		IsActive:         true,
	}
	c.apply(profile)
	return c, nil
}

// Update replaces the mutable profile. The code never changes.
func (c *Customer) Update(profile CustomerProfile) error {
	profile.normalize()
	if err := profile.validate(); err != nil {
		return err
	}
	c.apply(profile)
	c.Touch()
	return nil
}

func (c *Customer) apply(p CustomerProfile) {
	c.Name = p.Name
	c.ContactPerson = p.ContactPerson
	c.Phone = p.Phone
	c.Email = p.Email
	c.GSTIN = p.GSTIN
	c.BillingAddress = p.BillingAddress
	c.ShippingAddress = p.ShippingAddress
	if c.ShippingAddress.IsZero() {
		c.ShippingAddress = p.BillingAddress
	}
	c.CreditLimit = shared.RoundMoney(p.CreditLimit)
	c.CreditDays = p.CreditDays
	c.CreditRating = p.CreditRating
	c.DiscountPercent = p.DiscountPercent
	c.Notes = p.Notes
}

// Deactivate blocks new orders for the customer
func (c *Customer) Deactivate() {
	c.IsActive = false
	c.Touch()
}

// Activate re-enables the customer
func (c *Customer) Activate() {
	c.IsActive = true
	c.Touch()
}

// IsB2B reports whether the customer is GST registered
func (c *Customer) IsB2B() bool {
	return c.GSTIN != ""
}

// StateCode returns the GSTIN state code, or empty for unregistered buyers
func (c *Customer) StateCode() string {
	code, _ := gst.ExtractStateCode(c.GSTIN)
	return code
}
