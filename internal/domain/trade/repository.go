package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence.
// Every method is scoped to an organization.
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate finds an order and locks its row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its number
	FindByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*Order, error)

	// FindAll lists orders. Supported filters: status, customer_id, from, to.
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Order, int64, error)

	// SumOutstanding returns the sum of final_amount - paid_amount over the
	// customer's orders that are neither cancelled nor draft, skipping excludeOrderID
	SumOutstanding(ctx context.Context, orgID, customerID uuid.UUID, excludeOrderID *uuid.UUID) (decimal.Decimal, error)

	// Create inserts the order and its items
	Create(ctx context.Context, order *Order) error

	// Save writes header changes with optimistic locking (version check).
	// A stale version yields a CONFLICT error.
	Save(ctx context.Context, order *Order) error

	// ReplaceItems swaps the stored lines for order.Items
	ReplaceItems(ctx context.Context, order *Order) error
}

// OrderReturnRepository persists return records
type OrderReturnRepository interface {
	// Create inserts the return and its items
	Create(ctx context.Context, ret *OrderReturn) error

	// FindByOrder returns the returns recorded against an order
	FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) ([]OrderReturn, error)
}
