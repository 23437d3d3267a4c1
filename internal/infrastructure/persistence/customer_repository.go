package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements partner.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by its ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "organization")
	}
	return model.ToDomain(), nil
}

// Create inserts an organization. Registration lives outside the pipeline;
// this is used by seeding and tests.
func (r *GormOrganizationRepository) Create(ctx context.Context, org *partner.Organization) error {
	return translateError(r.db.WithContext(ctx).Create(models.OrganizationModelFromDomain(org)).Error, "organization")
}

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID within an organization
func (r *GormCustomerRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "customer")
	}
	return model.ToDomain(), nil
}

// FindByCode finds a customer by its code within an organization
func (r *GormCustomerRepository) FindByCode(ctx context.Context, orgID uuid.UUID, code string) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, translateError(err, "customer")
	}
	return model.ToDomain(), nil
}

// FindAll lists customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(OrgScope(orgID), Search(filter.Search, "name", "code", "phone", "gstin"))

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "has_gstin":
			if value == true {
				query = query.Where("gstin <> ''")
			} else {
				query = query.Where("(gstin = '' OR gstin IS NULL)")
			}
		}
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CustomerModel
	if err := query.
		Scopes(SortBy(filter, CustomerSortFields, "name"), Paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, total, nil
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(models.CustomerModelFromDomain(customer)).Error, "customer")
}

// Update saves a customer with optimistic locking (version check).
// The code and organization never change.
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"name":             customer.Name,
		"contact_person":   customer.ContactPerson,
		"phone":            customer.Phone,
		"email":            customer.Email,
		"gstin":            customer.GSTIN,
		"credit_limit":     customer.CreditLimit,
		"credit_days":      customer.CreditDays,
		"credit_rating":    customer.CreditRating,
		"discount_percent": customer.DiscountPercent,
		"is_active":        customer.IsActive,
		"notes":            customer.Notes,
		"version":          gorm.Expr("version + 1"),
		"updated_at":       now,
	}
	addressUpdates(updates, "billing_", customer.BillingAddress)
	addressUpdates(updates, "shipping_", customer.ShippingAddress)

	result := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(OrgScope(customer.OrgID)).
		Where("id = ? AND version = ?", customer.ID, customer.Version).
		Updates(updates)
	if result.Error != nil {
		return translateError(result.Error, "customer")
	}
	if result.RowsAffected == 0 {
		return versionConflict("customer", customer.ID, customer.Version)
	}
	customer.Version++
	customer.UpdatedAt = now
	return nil
}

func addressUpdates(updates map[string]any, prefix string, a partner.Address) {
	updates[prefix+"line1"] = a.Line1
	updates[prefix+"line2"] = a.Line2
	updates[prefix+"city"] = a.City
	updates[prefix+"state"] = a.State
	updates[prefix+"pincode"] = a.Pincode
}

var (
	_ partner.OrganizationRepository = (*GormOrganizationRepository)(nil)
	_ partner.CustomerRepository     = (*GormCustomerRepository)(nil)
)
