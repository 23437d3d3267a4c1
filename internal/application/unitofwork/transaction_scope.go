// Package unitofwork defines the transaction boundary shared by the
// application services. One mutating request runs inside one Execute call.
package unitofwork

import (
	"context"

	"github.com/vikasgargbear/production-infra-sub001/internal/domain/catalog"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/finance"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/partner"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/trade"
)

// TransactionScope runs a function inside one database transaction.
// If the function returns an error the transaction is rolled back,
// otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to every repository of the pipeline.
// Inside Execute all of them share the transaction; outside they run
// on the plain connection pool.
type Repositories interface {
	Organizations() partner.OrganizationRepository
	Customers() partner.CustomerRepository
	Products() catalog.ProductRepository
	Batches() inventory.BatchRepository
	Movements() inventory.MovementRepository
	Writeoffs() inventory.WriteoffRepository
	Orders() trade.OrderRepository
	OrderReturns() trade.OrderReturnRepository
	Invoices() finance.InvoiceRepository
	Payments() finance.PaymentRepository
	GSTAdjustments() gst.AdjustmentRepository
	Sequences() shared.SequenceGenerator
}
