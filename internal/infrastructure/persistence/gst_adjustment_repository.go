package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormGSTAdjustmentRepository implements gst.AdjustmentRepository using GORM
type GormGSTAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormGSTAdjustmentRepository creates a new GormGSTAdjustmentRepository
func NewGormGSTAdjustmentRepository(db *gorm.DB) *GormGSTAdjustmentRepository {
	return &GormGSTAdjustmentRepository{db: db}
}

// Create appends an adjustment row
func (r *GormGSTAdjustmentRepository) Create(ctx context.Context, adj *gst.Adjustment) error {
	return r.db.WithContext(ctx).Create(models.GSTAdjustmentModelFromDomain(adj)).Error
}

// FindByReference returns the adjustments raised by a source document
func (r *GormGSTAdjustmentRepository) FindByReference(ctx context.Context, orgID uuid.UUID, referenceType string, referenceID uuid.UUID) ([]gst.Adjustment, error) {
	return r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("adjustment_date").Order("id"))
}

// FindByPeriod returns adjustments dated within [from, to]
func (r *GormGSTAdjustmentRepository) FindByPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]gst.Adjustment, error) {
	return r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), dayRange("adjustment_date", from, to)).
		Order("adjustment_date").Order("id"))
}

func (r *GormGSTAdjustmentRepository) find(query *gorm.DB) ([]gst.Adjustment, error) {
	var rows []models.GSTAdjustmentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	adjustments := make([]gst.Adjustment, len(rows))
	for i := range rows {
		adjustments[i] = *rows[i].ToDomain()
	}
	return adjustments, nil
}

var _ gst.AdjustmentRepository = (*GormGSTAdjustmentRepository)(nil)
