package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// BatchRepository defines persistence for batches. All calls are organization scoped.
type BatchRepository interface {
	// FindByID finds a batch by ID
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Batch, error)

	// FindByIDForUpdate finds a batch and locks its row for the transaction
	FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Batch, error)

	// FindByIDsForUpdate locks several batches, acquiring locks in id order
	FindByIDsForUpdate(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*Batch, error)

	// LockByProducts locks every batch of the given products in id order.
	// This is the candidate set for FEFO allocation.
	LockByProducts(ctx context.Context, orgID uuid.UUID, productIDs []uuid.UUID) ([]*Batch, error)

	// FindByProducts reads every batch of the given products without locking
	FindByProducts(ctx context.Context, orgID uuid.UUID, productIDs []uuid.UUID) ([]*Batch, error)

	// FindAll lists batches matching the filter
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Batch, int64, error)

	// FindWithStock returns every batch with available quantity above zero
	FindWithStock(ctx context.Context, orgID uuid.UUID) ([]*Batch, error)

	// ExistsByNumber checks (product, batch number) uniqueness
	ExistsByNumber(ctx context.Context, orgID, productID uuid.UUID, batchNumber string) (bool, error)

	// SumAvailable sums quantity_available over all batches of a product
	SumAvailable(ctx context.Context, orgID, productID uuid.UUID) (decimal.Decimal, error)

	// Create inserts a new batch
	Create(ctx context.Context, batch *Batch) error

	// UpdateQuantities writes the three counters of a locked batch
	UpdateQuantities(ctx context.Context, batch *Batch) error
}

// MovementRepository persists the append-only stock journal
type MovementRepository interface {
	// Create appends one row
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch appends several rows
	CreateBatch(ctx context.Context, movements []*StockMovement) error

	// FindByReference returns rows written for a source document, oldest first
	FindByReference(ctx context.Context, orgID uuid.UUID, referenceType string, referenceID uuid.UUID) ([]StockMovement, error)

	// FindAll lists rows matching the filter, newest first
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]StockMovement, int64, error)
}

// WriteoffRepository persists write-off documents with their items
type WriteoffRepository interface {
	Create(ctx context.Context, writeoff *StockWriteoff) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*StockWriteoff, error)
	ExistsByNumber(ctx context.Context, orgID uuid.UUID, number string) (bool, error)
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]StockWriteoff, int64, error)
}
