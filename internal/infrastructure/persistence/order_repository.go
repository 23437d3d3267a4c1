package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/trade"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("line_no")
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Preload("Items", orderedItems).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an order and locks its header row
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), ForUpdate).
		Preload("Items", orderedItems).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Preload("Items", orderedItems).
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindAll lists order headers. Items are not loaded.
func (r *GormOrderRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(OrgScope(orgID), DateRange(filter, "order_date"), Search(filter.Search, "order_number", "invoice_number"))

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := query.
		Scopes(SortBy(filter, OrderSortFields, "created_at"), Paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// SumOutstanding returns the customer's open balance over live orders
func (r *GormOrderRepository) SumOutstanding(ctx context.Context, orgID, customerID uuid.UUID, excludeOrderID *uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(OrgScope(orgID)).
		Where("customer_id = ?", customerID).
		Where("status NOT IN ?", []trade.OrderStatus{trade.OrderStatusCancelled, trade.OrderStatusDraft})
	if excludeOrderID != nil {
		query = query.Where("id <> ?", *excludeOrderID)
	}
	return sumDecimal(query, "final_amount - paid_amount")
}

// Create inserts the order and its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return translateError(r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error, "order")
}

// Save writes the header with optimistic locking. Items are left alone;
// see ReplaceItems.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(OrgScope(order.OrgID)).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"status":           order.Status,
			"order_type":       order.OrderType,
			"delivery_date":    order.DeliveryDate,
			"tax_type":         order.TaxType,
			"subtotal_amount":  order.SubtotalAmount,
			"discount_amount":  order.DiscountAmount,
			"tax_amount":       order.TaxAmount,
			"round_off_amount": order.RoundOffAmount,
			"final_amount":     order.FinalAmount,
			"paid_amount":      order.PaidAmount,
			"balance_amount":   order.BalanceAmount,
			"invoice_number":   order.InvoiceNumber,
			"challan_number":   order.ChallanNumber,
			"confirmed_at":     order.ConfirmedAt,
			"invoiced_at":      order.InvoicedAt,
			"shipped_at":       order.ShippedAt,
			"delivered_at":     order.DeliveredAt,
			"cancelled_at":     order.CancelledAt,
			"returned_at":      order.ReturnedAt,
			"cancel_reason":    order.CancelReason,
			"notes":            order.Notes,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return versionConflict("order", order.ID, order.Version)
	}
	order.Version++
	order.UpdatedAt = now
	return nil
}

// ReplaceItems deletes the stored lines and inserts order.Items in their place
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, order *trade.Order) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", order.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	items := models.OrderItemModelsFromDomain(order)
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// GormOrderReturnRepository implements trade.OrderReturnRepository using GORM
type GormOrderReturnRepository struct {
	db *gorm.DB
}

// NewGormOrderReturnRepository creates a new GormOrderReturnRepository
func NewGormOrderReturnRepository(db *gorm.DB) *GormOrderReturnRepository {
	return &GormOrderReturnRepository{db: db}
}

// Create inserts the return and its items
func (r *GormOrderReturnRepository) Create(ctx context.Context, ret *trade.OrderReturn) error {
	return translateError(r.db.WithContext(ctx).Create(models.OrderReturnModelFromDomain(ret)).Error, "order return")
}

// FindByOrder returns the returns recorded against an order, oldest first
func (r *GormOrderReturnRepository) FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) ([]trade.OrderReturn, error) {
	var rows []models.OrderReturnModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Preload("Items").
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	returns := make([]trade.OrderReturn, len(rows))
	for i := range rows {
		returns[i] = *rows[i].ToDomain()
	}
	return returns, nil
}

var (
	_ trade.OrderRepository       = (*GormOrderRepository)(nil)
	_ trade.OrderReturnRepository = (*GormOrderReturnRepository)(nil)
)
