package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/unitofwork"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	scope  unitofwork.TransactionScope
	repos  unitofwork.Repositories
	logger *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(scope unitofwork.TransactionScope, repos unitofwork.Repositories, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		scope:  scope,
		repos:  repos,
		logger: logger,
	}
}

// GenerateCode returns the next customer code for name: the first three
// letters of the name followed by a four digit counter kept per prefix.
func (s *CustomerService) GenerateCode(ctx context.Context, repos unitofwork.Repositories, orgID uuid.UUID, name string) (string, error) {
	prefix := partner.CodePrefix(name)
	seq, err := repos.Sequences().Next(ctx, orgID, shared.SequenceCustomer, prefix)
	if err != nil {
		return "", fmt.Errorf("next customer code: %w", err)
	}
	return partner.FormatCustomerCode(name, seq), nil
}

// Create creates a new customer with a generated code
func (s *CustomerService) Create(ctx context.Context, orgID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	var customer *partner.Customer
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		code, err := s.GenerateCode(ctx, repos, orgID, req.Name)
		if err != nil {
			return err
		}
		customer, err = partner.NewCustomer(orgID, code, req.profile())
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			customer.SetCreatedBy(*req.CreatedBy)
		}
		return repos.Customers().Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("org_id", orgID.String()),
		zap.String("customer_code", customer.Code),
	)
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Get retrieves a customer by ID
func (s *CustomerService) Get(ctx context.Context, orgID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.repos.Customers().FindByID(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List lists customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, orgID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}
	if filter.HasGSTIN != nil {
		f.Filters["has_gstin"] = *filter.HasGSTIN
	}

	customers, total, err := s.repos.Customers().FindAll(ctx, orgID, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out, total, nil
}

// Update changes the customer profile. The code is never regenerated.
func (s *CustomerService) Update(ctx context.Context, orgID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	var customer *partner.Customer
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		customer, err = repos.Customers().FindByID(ctx, orgID, customerID)
		if err != nil {
			return err
		}
		if err := customer.Update(mergeProfile(customer, req)); err != nil {
			return err
		}
		if req.IsActive != nil {
			if *req.IsActive {
				customer.Activate()
			} else {
				customer.Deactivate()
			}
		}
		return repos.Customers().Update(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

func mergeProfile(c *partner.Customer, req UpdateCustomerRequest) partner.CustomerProfile {
	p := partner.CustomerProfile{
		Name:            c.Name,
		ContactPerson:   c.ContactPerson,
		Phone:           c.Phone,
		Email:           c.Email,
		GSTIN:           c.GSTIN,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		CreditLimit:     c.CreditLimit,
		CreditDays:      c.CreditDays,
		CreditRating:    c.CreditRating,
		DiscountPercent: c.DiscountPercent,
		Notes:           c.Notes,
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.ContactPerson != nil {
		p.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.GSTIN != nil {
		p.GSTIN = *req.GSTIN
	}
	if req.BillingAddress != nil {
		p.BillingAddress = req.BillingAddress.toDomain()
	}
	if req.ShippingAddress != nil {
		p.ShippingAddress = req.ShippingAddress.toDomain()
	}
	if req.CreditLimit != nil {
		p.CreditLimit = *req.CreditLimit
	}
	if req.CreditDays != nil {
		p.CreditDays = *req.CreditDays
	}
	if req.CreditRating != nil {
		p.CreditRating = partner.CreditRating(*req.CreditRating)
	}
	if req.DiscountPercent != nil {
		p.DiscountPercent = *req.DiscountPercent
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	return p
}
