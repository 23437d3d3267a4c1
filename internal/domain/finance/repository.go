package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence.
// Every method is scoped to an organization.
type InvoiceRepository interface {
	// Create inserts the invoice header and its items
	Create(ctx context.Context, invoice *Invoice) error

	// FindByID finds an invoice with its items
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error)

	// FindByOrder finds the invoice issued for an order
	FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) (*Invoice, error)

	// FindByIDsForUpdate locks the given invoices in id order
	FindByIDsForUpdate(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*Invoice, error)

	// FindUnpaidByCustomerForUpdate locks the customer's unsettled invoices,
	// oldest first by invoice date then number
	FindUnpaidByCustomerForUpdate(ctx context.Context, orgID, customerID uuid.UUID) ([]*Invoice, error)

	// FindUnpaidByCustomer lists unsettled invoices without locking
	FindUnpaidByCustomer(ctx context.Context, orgID, customerID uuid.UUID) ([]*Invoice, error)

	// FindAll lists invoices. Supported filters: customer_id, payment_status, from, to.
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)

	// FindByPeriod returns invoices dated within [from, to] with their items
	FindByPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]*Invoice, error)

	// FindByCustomerInPeriod returns the customer's invoices dated within [from, to] without items
	FindByCustomerInPeriod(ctx context.Context, orgID, customerID uuid.UUID, from, to time.Time) ([]Invoice, error)

	// SumTotalBefore sums total_amount of the customer's invoices dated before date
	SumTotalBefore(ctx context.Context, orgID, customerID uuid.UUID, date time.Time) (decimal.Decimal, error)

	// UpdatePayment writes paid_amount and payment_status, the only mutable columns
	UpdatePayment(ctx context.Context, invoice *Invoice) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create inserts the payment and its allocation rows
	Create(ctx context.Context, payment *Payment) error

	// FindByID finds a payment with its allocation rows
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Payment, error)

	// FindByIDForUpdate finds and locks a payment
	FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Payment, error)

	// FindAll lists payments. Supported filters: customer_id, status, from, to.
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Payment, int64, error)

	// FindCompletedByCustomerInPeriod returns completed payments dated within [from, to]
	FindCompletedByCustomerInPeriod(ctx context.Context, orgID, customerID uuid.UUID, from, to time.Time) ([]Payment, error)

	// SumCompletedBefore sums completed payments of the customer dated before date
	SumCompletedBefore(ctx context.Context, orgID, customerID uuid.UUID, date time.Time) (decimal.Decimal, error)

	// AppendAllocations inserts allocation rows; existing rows are never changed
	AppendAllocations(ctx context.Context, rows []PaymentAllocation) error

	// MarkCancelled writes status, cancelled_at and cancel_reason
	MarkCancelled(ctx context.Context, payment *Payment) error
}
