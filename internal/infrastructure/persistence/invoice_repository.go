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

// GormInvoiceRepository implements finance.InvoiceRepository using GORM.
// Issued invoices are immutable apart from their payment columns.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var unsettled = []finance.InvoicePaymentStatus{finance.InvoiceUnpaid, finance.InvoicePartial}

// Create inserts the invoice header and its items
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *finance.Invoice) error {
	return translateError(r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error, "invoice")
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Preload("Items", orderedItems).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "invoice")
	}
	return model.ToDomain(), nil
}

// FindByOrder finds the invoice issued for an order
func (r *GormInvoiceRepository) FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Preload("Items", orderedItems).
		Where("order_id = ?", orderID).
		First(&model).Error; err != nil {
		return nil, translateError(err, "invoice")
	}
	return model.ToDomain(), nil
}

// FindByIDsForUpdate locks the given invoices in id order
func (r *GormInvoiceRepository) FindByIDsForUpdate(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*finance.Invoice, error) {
	if len(ids) == 0 {
		return []*finance.Invoice{}, nil
	}
	invoices, err := r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), ForUpdate).
		Where("id IN ?", ids).
		Order("id"))
	if err != nil {
		return nil, err
	}
	if len(invoices) != len(uniqueUUIDs(ids)) {
		return nil, shared.NewNotFoundError("invoice")
	}
	return invoices, nil
}

// FindUnpaidByCustomerForUpdate locks the customer's unsettled invoices, oldest first
func (r *GormInvoiceRepository) FindUnpaidByCustomerForUpdate(ctx context.Context, orgID, customerID uuid.UUID) ([]*finance.Invoice, error) {
	return r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), ForUpdate).
		Where("customer_id = ? AND payment_status IN ?", customerID, unsettled).
		Order("invoice_date").Order("invoice_number"))
}

// FindUnpaidByCustomer lists unsettled invoices without locking
func (r *GormInvoiceRepository) FindUnpaidByCustomer(ctx context.Context, orgID, customerID uuid.UUID) ([]*finance.Invoice, error) {
	return r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID)).
		Where("customer_id = ? AND payment_status IN ?", customerID, unsettled).
		Order("invoice_date").Order("invoice_number"))
}

// FindAll lists invoice headers matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]finance.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(OrgScope(orgID), DateRange(filter, "invoice_date"), Search(filter.Search, "invoice_number", "customer_name", "buyer_gstin"))

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		}
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvoiceModel
	if err := query.
		Scopes(SortBy(filter, InvoiceSortFields, "invoice_date"), Paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	invoices := make([]finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, total, nil
}

// FindByPeriod returns invoices dated within [from, to] with their items
func (r *GormInvoiceRepository) FindByPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]*finance.Invoice, error) {
	return r.find(r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), dayRange("invoice_date", from, to)).
		Preload("Items", orderedItems).
		Order("invoice_date").Order("invoice_number"))
}

// FindByCustomerInPeriod returns the customer's invoices dated within [from, to]
func (r *GormInvoiceRepository) FindByCustomerInPeriod(ctx context.Context, orgID, customerID uuid.UUID, from, to time.Time) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(OrgScope(orgID), dayRange("invoice_date", from, to)).
		Where("customer_id = ?", customerID).
		Order("invoice_date").Order("invoice_number").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// SumTotalBefore sums total_amount of the customer's invoices dated before date
func (r *GormInvoiceRepository) SumTotalBefore(ctx context.Context, orgID, customerID uuid.UUID, date time.Time) (decimal.Decimal, error) {
	return sumDecimal(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(OrgScope(orgID)).
		Where("customer_id = ? AND invoice_date < ?", customerID, shared.TruncateToDay(date.UTC())), "total_amount")
}

// UpdatePayment writes paid_amount and payment_status under a version check
func (r *GormInvoiceRepository) UpdatePayment(ctx context.Context, invoice *finance.Invoice) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(OrgScope(invoice.OrgID)).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version).
		Updates(map[string]any{
			"paid_amount":    invoice.PaidAmount,
			"payment_status": invoice.PaymentStatus,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return versionConflict("invoice", invoice.ID, invoice.Version)
	}
	invoice.Version++
	invoice.UpdatedAt = now
	return nil
}

func (r *GormInvoiceRepository) find(query *gorm.DB) ([]*finance.Invoice, error) {
	var rows []models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]*finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].ToDomain()
	}
	return invoices, nil
}

// dayRange keeps rows whose column falls on a day within [from, to]
func dayRange(column string, from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?",
			shared.TruncateToDay(from.UTC()),
			shared.TruncateToDay(to.UTC()).AddDate(0, 0, 1))
	}
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
