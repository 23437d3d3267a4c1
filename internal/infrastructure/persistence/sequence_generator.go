package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceGenerator implements shared.SequenceGenerator on the
// number_sequences table. The increment takes the row lock, so two
// transactions asking for the same series are serialized and a rolled
// back caller gives its value back.
type GormSequenceGenerator struct {
	db *gorm.DB
}

// NewGormSequenceGenerator creates a new GormSequenceGenerator
func NewGormSequenceGenerator(db *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db}
}

// Next returns the next value of the (org, kind, period) series, starting at 1
func (g *GormSequenceGenerator) Next(ctx context.Context, orgID uuid.UUID, kind shared.SequenceKind, period string) (int64, error) {
	db := g.db.WithContext(ctx)
	now := time.Now().UTC()

	seed := models.NumberSequenceModel{OrgID: orgID, Kind: string(kind), Period: period, UpdatedAt: now}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	if err := db.Model(&models.NumberSequenceModel{}).
		Where("org_id = ? AND kind = ? AND period = ?", orgID, string(kind), period).
		Updates(map[string]any{
			"last_value": gorm.Expr("last_value + 1"),
			"updated_at": now,
		}).Error; err != nil {
		return 0, err
	}

	var row models.NumberSequenceModel
	if err := db.Where("org_id = ? AND kind = ? AND period = ?", orgID, string(kind), period).
		First(&row).Error; err != nil {
		return 0, err
	}
	return row.LastValue, nil
}

var _ shared.SequenceGenerator = (*GormSequenceGenerator)(nil)
