package models

import (
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
)

// OrganizationModel is the persistence model for the Organization entity
type OrganizationModel struct {
	BaseModel
	Name      string         `gorm:"type:varchar(200);not null"`
	GSTIN     string         `gorm:"column:gstin;type:varchar(15)"`
	StateCode string         `gorm:"type:varchar(2)"`
	Address   AddressColumns `gorm:"embedded;embeddedPrefix:address_"`
	Phone     string         `gorm:"type:varchar(20)"`
	Email     string         `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *OrganizationModel) ToDomain() *partner.Organization {
	return &partner.Organization{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		GSTIN:      m.GSTIN,
		StateCode:  m.StateCode,
		Address:    m.Address.toDomain(),
		Phone:      m.Phone,
		Email:      m.Email,
	}
}

// FromDomain populates the persistence model from a domain Organization
func (m *OrganizationModel) FromDomain(o *partner.Organization) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Name = o.Name
	m.GSTIN = o.GSTIN
	m.StateCode = o.StateCode
	m.Address = addressColumns(o.Address)
	m.Phone = o.Phone
	m.Email = o.Email
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization
func OrganizationModelFromDomain(o *partner.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	OrgAggregateModel
	Code            string               `gorm:"type:varchar(20);not null;index"`
	Name            string               `gorm:"type:varchar(200);not null"`
	ContactPerson   string               `gorm:"type:varchar(100)"`
	Phone           string               `gorm:"type:varchar(20)"`
	Email           string               `gorm:"type:varchar(200)"`
	GSTIN           string               `gorm:"column:gstin;type:varchar(15);index"`
	BillingAddress  AddressColumns       `gorm:"embedded;embeddedPrefix:billing_"`
	ShippingAddress AddressColumns       `gorm:"embedded;embeddedPrefix:shipping_"`
	CreditLimit     decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	CreditDays      int                  `gorm:"not null;default:0"`
	CreditRating    partner.CreditRating `gorm:"type:varchar(1);not null;default:'B'"`
	DiscountPercent decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:0"`
	IsActive        bool                 `gorm:"not null"`
	Notes           string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Code:             m.Code,
		Name:             m.Name,
		ContactPerson:    m.ContactPerson,
		Phone:            m.Phone,
		Email:            m.Email,
		GSTIN:            m.GSTIN,
		BillingAddress:   m.BillingAddress.toDomain(),
		ShippingAddress:  m.ShippingAddress.toDomain(),
		CreditLimit:      m.CreditLimit,
		CreditDays:       m.CreditDays,
		CreditRating:     m.CreditRating,
		DiscountPercent:  m.DiscountPercent,
		IsActive:         m.IsActive,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainOrgAggregateRoot(c.OrgAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.ContactPerson = c.ContactPerson
	m.Phone = c.Phone
	m.Email = c.Email
	m.GSTIN = c.GSTIN
	m.BillingAddress = addressColumns(c.BillingAddress)
	m.ShippingAddress = addressColumns(c.ShippingAddress)
	m.CreditLimit = c.CreditLimit
	m.CreditDays = c.CreditDays
	m.CreditRating = c.CreditRating
	m.DiscountPercent = c.DiscountPercent
	m.IsActive = c.IsActive
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
