package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence.
// Every lookup is scoped to an organization.
type CustomerRepository interface {
	// FindByID finds a customer by ID within an organization
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Customer, error)

	// FindByCode finds a customer by its code within an organization
	FindByCode(ctx context.Context, orgID uuid.UUID, code string) (*Customer, error)

	// FindAll lists customers matching the filter
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)

	// Create inserts a new customer
	Create(ctx context.Context, customer *Customer) error

	// Update saves a customer with optimistic locking (version check)
	Update(ctx context.Context, customer *Customer) error
}
