package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWriteoffRepository implements inventory.WriteoffRepository using GORM
type GormWriteoffRepository struct {
	db *gorm.DB
}

// NewGormWriteoffRepository creates a new GormWriteoffRepository
func NewGormWriteoffRepository(db *gorm.DB) *GormWriteoffRepository {
	return &GormWriteoffRepository{db: db}
}

// Create inserts the write-off and its items
func (r *GormWriteoffRepository) Create(ctx context.Context, writeoff *inventory.StockWriteoff) error {
	return translateError(r.db.WithContext(ctx).Create(models.StockWriteoffModelFromDomain(writeoff)).Error, "stock write-off")
}

// FindByID finds a write-off with its items
func (r *GormWriteoffRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*inventory.StockWriteoff, error) {
	var model models.StockWriteoffModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "stock write-off")
	}
	return model.ToDomain(), nil
}

// ExistsByNumber checks write-off number uniqueness
func (r *GormWriteoffRepository) ExistsByNumber(ctx context.Context, orgID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockWriteoffModel{}).
		Scopes(OrgScope(orgID)).
		Where("writeoff_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// FindAll lists write-offs. Supported filters: reason, from, to.
func (r *GormWriteoffRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]inventory.StockWriteoff, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockWriteoffModel{}).
		Scopes(OrgScope(orgID), DateRange(filter, "writeoff_date"), Search(filter.Search, "writeoff_number", "notes"))
	if reason, ok := filter.Filters["reason"]; ok {
		query = query.Where("reason = ?", reason)
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockWriteoffModel
	if err := query.
		Preload("Items").
		Scopes(SortBy(filter, WriteoffSortFields, "writeoff_date"), Paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	writeoffs := make([]inventory.StockWriteoff, len(rows))
	for i := range rows {
		writeoffs[i] = *rows[i].ToDomain()
	}
	return writeoffs, total, nil
}

var _ inventory.WriteoffRepository = (*GormWriteoffRepository)(nil)
