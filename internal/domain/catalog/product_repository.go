package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID within an organization
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Product, error)

	// FindByIDs finds several products at once; missing ids are simply absent
	FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAll lists products matching the filter
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Product, int64, error)

	// ExistsByCode checks whether a code is already used in the organization
	ExistsByCode(ctx context.Context, orgID uuid.UUID, code string) (bool, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error
}
