// Package metrics declares the business counters the application services report.
package metrics

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recorder receives business events worth counting. Implementations must not
// block and must never fail the calling operation.
type Recorder interface {
	OrderCreated(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal)
	OrderTransitioned(ctx context.Context, orgID uuid.UUID, status string)
	InvoiceIssued(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal)
	PaymentRecorded(ctx context.Context, orgID uuid.UUID, mode string, amount decimal.Decimal)
	PaymentCancelled(ctx context.Context, orgID uuid.UUID)
	StockAllocated(ctx context.Context, orgID uuid.UUID, batches int, quantity decimal.Decimal)
	StockWrittenOff(ctx context.Context, orgID uuid.UUID, reason string, itcReversal decimal.Decimal)
}

// Nop discards every event
type Nop struct{}

func (Nop) OrderCreated(context.Context, uuid.UUID, decimal.Decimal) {}
func (Nop) OrderTransitioned(context.Context, uuid.UUID, string) {}
func (Nop) InvoiceIssued(context.Context, uuid.UUID, decimal.Decimal) {}
func (Nop) PaymentRecorded(context.Context, uuid.UUID, string, decimal.Decimal) {}
func (Nop) PaymentCancelled(context.Context, uuid.UUID) {}
func (Nop) StockAllocated(context.Context, uuid.UUID, int, decimal.Decimal) {}
func (Nop) StockWrittenOff(context.Context, uuid.UUID, string, decimal.Decimal) {}

var _ Recorder = Nop{}
