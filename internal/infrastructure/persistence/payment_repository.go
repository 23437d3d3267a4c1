package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements finance.PaymentRepository using GORM.
// Allocation rows are append-only; a cancellation writes reversal rows.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func allocationsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at").Order("id")
}

// Create inserts the payment and its allocation rows
func (r *GormPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	return translateError(r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(payment)).Error, "payment")
}

// FindByID finds a payment with its allocation rows
func (r *GormPaymentRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Preload("Allocations", allocationsInOrder).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "payment")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds and locks a payment
func (r *GormPaymentRepository) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), ForUpdate).
		Preload("Allocations", allocationsInOrder).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "payment")
	}
	return model.ToDomain(), nil
}

// FindAll lists payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]finance.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Scopes(OrgScope(orgID), DateRange(filter, "payment_date"), Search(filter.Search, "payment_reference", "reference_number"))

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PaymentModel
	if err := query.
		Preload("Allocations", allocationsInOrder).
		Scopes(SortBy(filter, PaymentSortFields, "payment_date"), Paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	payments := make([]finance.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, total, nil
}

// FindCompletedByCustomerInPeriod returns completed payments dated within [from, to]
func (r *GormPaymentRepository) FindCompletedByCustomerInPeriod(ctx context.Context, orgID, customerID uuid.UUID, from, to time.Time) ([]finance.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), dayRange("payment_date", from, to)).
		Where("customer_id = ? AND status = ?", customerID, finance.PaymentCompleted).
		Order("payment_date").Order("payment_reference").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	payments := make([]finance.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

// SumCompletedBefore sums completed payments of the customer dated before date
func (r *GormPaymentRepository) SumCompletedBefore(ctx context.Context, orgID, customerID uuid.UUID, date time.Time) (decimal.Decimal, error) {
	return sumDecimal(r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Scopes(OrgScope(orgID)).
		Where("customer_id = ? AND status = ? AND payment_date < ?",
			customerID, finance.PaymentCompleted, shared.TruncateToDay(date.UTC())), "amount")
}

// AppendAllocations inserts allocation rows
func (r *GormPaymentRepository) AppendAllocations(ctx context.Context, rows []finance.PaymentAllocation) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([]models.PaymentAllocationModel, len(rows))
	for i, a := range rows {
		batch[i] = models.PaymentAllocationModelFromDomain(a)
	}
	return r.db.WithContext(ctx).Create(&batch).Error
}

// MarkCancelled writes the cancellation columns under a version check
func (r *GormPaymentRepository) MarkCancelled(ctx context.Context, payment *finance.Payment) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Scopes(OrgScope(payment.OrgID)).
		Where("id = ? AND version = ?", payment.ID, payment.Version).
		Updates(map[string]any{
			"status":        payment.Status,
			"cancelled_at":  payment.CancelledAt,
			"cancel_reason": payment.CancelReason,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return versionConflict("payment", payment.ID, payment.Version)
	}
	payment.Version++
	payment.UpdatedAt = now
	return nil
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
