package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// Organization is the tenant root. It is created by registration, outside the
// sales pipeline, and only read here for the seller identity.
type Organization struct {
	shared.BaseEntity
	Name      string
	GSTIN     string
	StateCode string
	Address   Address
	Phone     string
	Email     string
}

// SellerGSTIN returns the GSTIN the organization invoices under
func (o *Organization) SellerGSTIN() string {
	return o.GSTIN
}

// OrganizationRepository reads organizations
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
}
