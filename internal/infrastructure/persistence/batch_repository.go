package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBatchRepository implements inventory.BatchRepository using GORM.
// Locking reads always acquire rows in id order so concurrent allocations
// over overlapping products cannot deadlock.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by ID
func (r *GormBatchRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*inventory.Batch, error) {
	var model models.BatchModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "batch")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a batch and locks its row
func (r *GormBatchRepository) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*inventory.Batch, error) {
	var model models.BatchModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), ForUpdate).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "batch")
	}
	return model.ToDomain(), nil
}

// FindByIDsForUpdate locks several batches in id order.
// A missing id yields NOT_FOUND.
func (r *GormBatchRepository) FindByIDsForUpdate(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*inventory.Batch, error) {
	if len(ids) == 0 {
		return []*inventory.Batch{}, nil
	}
	batches, err := r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), ForUpdate).
		Where("id IN ?", ids).
		Order("id"))
	if err != nil {
		return nil, err
	}
	if len(batches) != len(uniqueUUIDs(ids)) {
		return nil, shared.NewNotFoundError("batch")
	}
	return batches, nil
}

// LockByProducts locks every batch of the given products in id order
func (r *GormBatchRepository) LockByProducts(ctx context.Context, orgID uuid.UUID, productIDs []uuid.UUID) ([]*inventory.Batch, error) {
	if len(productIDs) == 0 {
		return []*inventory.Batch{}, nil
	}
	return r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), ForUpdate).
		Where("product_id IN ?", productIDs).
		Order("id"))
}

// FindByProducts reads every batch of the given products without locking
func (r *GormBatchRepository) FindByProducts(ctx context.Context, orgID uuid.UUID, productIDs []uuid.UUID) ([]*inventory.Batch, error) {
	if len(productIDs) == 0 {
		return []*inventory.Batch{}, nil
	}
	return r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Where("product_id IN ?", productIDs).
		Order("id"))
}

// FindAll lists batches matching the filter
func (r *GormBatchRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]inventory.Batch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BatchModel{}).
		Scopes(OrgScope(orgID), Search(filter.Search, "batch_number", "supplier_name"))

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("quantity_available > 0")
			} else {
				query = query.Where("quantity_available = 0")
			}
		}
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BatchModel
	if err := query.
		Scopes(SortBy(filter, BatchSortFields, "expiry_date"), Paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	batches := make([]inventory.Batch, len(rows))
	for i := range rows {
		batches[i] = *rows[i].ToDomain()
	}
	return batches, total, nil
}

// FindWithStock returns every batch with available quantity above zero
func (r *GormBatchRepository) FindWithStock(ctx context.Context, orgID uuid.UUID) ([]*inventory.Batch, error) {
	return r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Where("quantity_available > 0").
		Order("expiry_date").Order("id"))
}

// ExistsByNumber checks (product, batch number) uniqueness
func (r *GormBatchRepository) ExistsByNumber(ctx context.Context, orgID, productID uuid.UUID, batchNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BatchModel{}).
		Scopes(OrgScope(orgID)).
		Where("product_id = ? AND batch_number = ?", productID, strings.ToUpper(strings.TrimSpace(batchNumber))).
		Count(&count).Error
	return count > 0, err
}

// SumAvailable sums quantity_available over all batches of a product
func (r *GormBatchRepository) SumAvailable(ctx context.Context, orgID, productID uuid.UUID) (decimal.Decimal, error) {
	return sumDecimal(r.db.WithContext(ctx).Model(&models.BatchModel{}).
		Scopes(OrgScope(orgID)).
		Where("product_id = ?", productID), "quantity_available")
}

// Create inserts a new batch
func (r *GormBatchRepository) Create(ctx context.Context, batch *inventory.Batch) error {
	return translateError(r.db.WithContext(ctx).Create(models.BatchModelFromDomain(batch)).Error, "batch")
}

// UpdateQuantities writes the three counters of a locked batch, guarded by
// the version the batch was read at
func (r *GormBatchRepository) UpdateQuantities(ctx context.Context, batch *inventory.Batch) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.BatchModel{}).
		Scopes(OrgScope(batch.OrgID)).
		Where("id = ? AND version = ?", batch.ID, batch.Version).
		Updates(map[string]any{
			"quantity_received":  batch.QuantityReceived,
			"quantity_available": batch.QuantityAvailable,
			"quantity_sold":      batch.QuantitySold,
			"version":            gorm.Expr("version + 1"),
			"updated_at":         now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return versionConflict("batch", batch.ID, batch.Version)
	}
	batch.Version++
	batch.UpdatedAt = now
	return nil
}

func (r *GormBatchRepository) find(query *gorm.DB) ([]*inventory.Batch, error) {
	var rows []models.BatchModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	batches := make([]*inventory.Batch, len(rows))
	for i := range rows {
		batches[i] = rows[i].ToDomain()
	}
	return batches, nil
}

func uniqueUUIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
