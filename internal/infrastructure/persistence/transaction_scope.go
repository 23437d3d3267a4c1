package persistence

import (
	"context"

	"github.com/vikasgargbear/production-infra-sub001/internal/application/unitofwork"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/catalog"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements unitofwork.TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error (or panics) the transaction is rolled back,
// otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos unitofwork.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx))
	})
}

// GormRepositories hands out repositories bound to one *gorm.DB, which is
// either the pool or an open transaction.
type GormRepositories struct {
	db *gorm.DB
}

// NewGormRepositories binds every repository to db
func NewGormRepositories(db *gorm.DB) *GormRepositories {
	return &GormRepositories{db: db}
}

func (r *GormRepositories) Organizations() partner.OrganizationRepository {
	return NewGormOrganizationRepository(r.db)
}

func (r *GormRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.db)
}

func (r *GormRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.db)
}

func (r *GormRepositories) Batches() inventory.BatchRepository {
	return NewGormBatchRepository(r.db)
}

func (r *GormRepositories) Movements() inventory.MovementRepository {
	return NewGormMovementRepository(r.db)
}

func (r *GormRepositories) Writeoffs() inventory.WriteoffRepository {
	return NewGormWriteoffRepository(r.db)
}

func (r *GormRepositories) Orders() trade.OrderRepository {
	return NewGormOrderRepository(r.db)
}

func (r *GormRepositories) OrderReturns() trade.OrderReturnRepository {
	return NewGormOrderReturnRepository(r.db)
}

func (r *GormRepositories) Invoices() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.db)
}

func (r *GormRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.db)
}

func (r *GormRepositories) GSTAdjustments() gst.AdjustmentRepository {
	return NewGormGSTAdjustmentRepository(r.db)
}

func (r *GormRepositories) Sequences() shared.SequenceGenerator {
	return NewGormSequenceGenerator(r.db)
}

var (
	_ unitofwork.TransactionScope = (*GormTransactionScope)(nil)
	_ unitofwork.Repositories     = (*GormRepositories)(nil)
)
