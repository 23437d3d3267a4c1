package telemetry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/application/metrics"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when BusinessMetrics is built without a meter
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// BusinessMetrics counts orders, invoices, payments and stock movements.
// Amounts are recorded in rupees as histogram samples and in paise on the
// running totals.
type BusinessMetrics struct {
	ordersCreated     *Counter
	orderAmount       *Histogram
	orderTransitions  *Counter
	invoicesIssued    *Counter
	invoicedPaise     *Counter
	paymentsRecorded  *Counter
	collectedPaise    *Counter
	paymentsCancelled *Counter
	allocations       *Counter
	batchesPerOrder   *Histogram
	writeOffs         *Counter
	itcReversedPaise  *Counter
}

// NewBusinessMetrics creates the business instruments on the given meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	counters := []struct {
		target      **Counter
		name        string
		description string
		unit        string
	}{
		{&bm.ordersCreated, "pharma_orders_created_total", "Sales orders created", "{orders}"},
		{&bm.orderTransitions, "pharma_order_transitions_total", "Order state transitions by target status", "{transitions}"},
		{&bm.invoicesIssued, "pharma_invoices_issued_total", "Invoices issued", "{invoices}"},
		{&bm.invoicedPaise, "pharma_invoiced_amount_total", "Invoiced amount in paise", "{paise}"},
		{&bm.paymentsRecorded, "pharma_payments_recorded_total", "Customer payments recorded", "{payments}"},
		{&bm.collectedPaise, "pharma_collected_amount_total", "Collected amount in paise", "{paise}"},
		{&bm.paymentsCancelled, "pharma_payments_cancelled_total", "Customer payments cancelled", "{payments}"},
		{&bm.allocations, "pharma_stock_allocations_total", "Orders allocated against batches", "{allocations}"},
		{&bm.writeOffs, "pharma_stock_writeoffs_total", "Stock write-offs by reason", "{writeoffs}"},
		{&bm.itcReversedPaise, "pharma_itc_reversed_amount_total", "Input tax credit reversed on write-offs in paise", "{paise}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	if bm.orderAmount, err = NewHistogram(meter, "pharma_order_amount", "Final amount of created orders", "INR", AmountBuckets...); err != nil {
		return nil, err
	}
	if bm.batchesPerOrder, err = NewHistogram(meter, "pharma_batches_per_allocation", "Batches drawn by one allocation", "{batches}", 1, 2, 3, 5, 8, 13); err != nil {
		return nil, err
	}
	return bm, nil
}

func paise(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// OrderCreated implements metrics.Recorder
func (bm *BusinessMetrics) OrderCreated(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal) {
	org := AttrOrgID.String(orgID.String())
	bm.ordersCreated.Inc(ctx, org)
	bm.orderAmount.Record(ctx, amount.InexactFloat64(), org)
}

// OrderTransitioned implements metrics.Recorder
func (bm *BusinessMetrics) OrderTransitioned(ctx context.Context, orgID uuid.UUID, status string) {
	bm.orderTransitions.Inc(ctx, AttrOrgID.String(orgID.String()), AttrOrderStatus.String(status))
}

// InvoiceIssued implements metrics.Recorder
func (bm *BusinessMetrics) InvoiceIssued(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal) {
	org := AttrOrgID.String(orgID.String())
	bm.invoicesIssued.Inc(ctx, org)
	bm.invoicedPaise.Add(ctx, paise(amount), org)
}

// PaymentRecorded implements metrics.Recorder
func (bm *BusinessMetrics) PaymentRecorded(ctx context.Context, orgID uuid.UUID, mode string, amount decimal.Decimal) {
	org := AttrOrgID.String(orgID.String())
	bm.paymentsRecorded.Inc(ctx, org, AttrPaymentMode.String(mode))
	bm.collectedPaise.Add(ctx, paise(amount), org)
}

// PaymentCancelled implements metrics.Recorder
func (bm *BusinessMetrics) PaymentCancelled(ctx context.Context, orgID uuid.UUID) {
	bm.paymentsCancelled.Inc(ctx, AttrOrgID.String(orgID.String()))
}

// StockAllocated implements metrics.Recorder
func (bm *BusinessMetrics) StockAllocated(ctx context.Context, orgID uuid.UUID, batches int, _ decimal.Decimal) {
	org := AttrOrgID.String(orgID.String())
	bm.allocations.Inc(ctx, org)
	bm.batchesPerOrder.Record(ctx, float64(batches), org)
}

// StockWrittenOff implements metrics.Recorder
func (bm *BusinessMetrics) StockWrittenOff(ctx context.Context, orgID uuid.UUID, reason string, itcReversal decimal.Decimal) {
	org := AttrOrgID.String(orgID.String())
	bm.writeOffs.Inc(ctx, org, AttrReason.String(reason))
	if itcReversal.IsPositive() {
		bm.itcReversedPaise.Add(ctx, paise(itcReversal), org)
	}
}

var _ metrics.Recorder = (*BusinessMetrics)(nil)
