package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SequenceKind names an independent number series
type SequenceKind string

const (
	SequenceOrder    SequenceKind = "order"
	SequenceInvoice  SequenceKind = "invoice"
	SequencePayment  SequenceKind = "payment"
	SequenceCustomer SequenceKind = "customer"
	SequenceReturn   SequenceKind = "return"
	SequenceChallan  SequenceKind = "challan"
)

// SequenceGenerator hands out monotonic 1-based values per (org, kind, period).
// Implementations must be atomic inside the caller's transaction.
type SequenceGenerator interface {
	Next(ctx context.Context, orgID uuid.UUID, kind SequenceKind, period string) (int64, error)
}

// DayPeriod is the period key for daily series
func DayPeriod(t time.Time) string {
	return t.Format("20060102")
}

// MonthPeriod is the period key for monthly series
func MonthPeriod(t time.Time) string {
	return t.Format("2006-01")
}

// FormatOrderNumber renders ORD-YYYYMMDD-NNNN
func FormatOrderNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%04d", DayPeriod(date), seq)
}

// FormatInvoiceNumber renders INV-YYYY-MM-NNNNN
func FormatInvoiceNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%05d", MonthPeriod(date), seq)
}

// FormatPaymentReference renders PAY-YYYYMMDD-NNNNN
func FormatPaymentReference(date time.Time, seq int64) string {
	return fmt.Sprintf("PAY-%s-%05d", DayPeriod(date), seq)
}

// FormatReturnNumber renders RET-YYYYMMDD-NNNN
func FormatReturnNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("RET-%s-%04d", DayPeriod(date), seq)
}

// FormatChallanNumber renders DC-YYYYMMDD-NNNN
func FormatChallanNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("DC-%s-%04d", DayPeriod(date), seq)
}

// FormatWriteoffNumber renders WO-YYYYMMDD-HHMMSS
func FormatWriteoffNumber(at time.Time) string {
	return "WO-" + at.Format("20060102-150405")
}
