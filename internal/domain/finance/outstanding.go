package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aging bucket labels, by days overdue
const (
	Aging0To30  = "0-30"
	Aging31To60 = "31-60"
	Aging61To90 = "61-90"
	AgingOver90 = "90+"
)

// AgingBuckets lists the bucket labels in display order
var AgingBuckets = []string{Aging0To30, Aging31To60, Aging61To90, AgingOver90}

// AgingBucket returns the bucket label for a number of days overdue
func AgingBucket(daysOverdue int) string {
	switch {
	case daysOverdue <= 30:
		return Aging0To30
	case daysOverdue <= 60:
		return Aging31To60
	case daysOverdue <= 90:
		return Aging61To90
	default:
		return AgingOver90
	}
}

// OutstandingInvoice is an invoice with money still to collect
type OutstandingInvoice struct {
	InvoiceID         uuid.UUID       `json:"invoice_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	InvoiceDate       time.Time       `json:"invoice_date"`
	DueDate           time.Time       `json:"due_date"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	DaysOverdue       int             `json:"days_overdue"`
	AgingBucket       string          `json:"aging_bucket"`
}

// Outstanding summarises what a customer owes
type Outstanding struct {
	CustomerID       uuid.UUID                  `json:"customer_id"`
	AsOf             time.Time                  `json:"as_of"`
	Invoices         []OutstandingInvoice       `json:"invoices"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	OverdueAmount    decimal.Decimal            `json:"overdue_amount"`
	Aging            map[string]decimal.Decimal `json:"aging"`
}

// BuildOutstanding lists unsettled invoices by date with their overdue days.
// days_overdue = max(0, today - invoice_date - creditDays).
func BuildOutstanding(customerID uuid.UUID, invoices []*Invoice, creditDays int, today time.Time) *Outstanding {
	out := &Outstanding{
		CustomerID:       customerID,
		AsOf:             today,
		Invoices:         make([]OutstandingInvoice, 0),
		TotalOutstanding: decimal.Zero,
		OverdueAmount:    decimal.Zero,
		Aging:            make(map[string]decimal.Decimal, len(AgingBuckets)),
	}
	for _, b := range AgingBuckets {
		out.Aging[b] = decimal.Zero
	}

	for _, inv := range invoices {
		balance := inv.Balance()
		if !balance.IsPositive() {
			continue
		}
		days := inv.DaysOverdue(today, creditDays)
		bucket := AgingBucket(days)
		out.Invoices = append(out.Invoices, OutstandingInvoice{
			InvoiceID:         inv.ID,
			InvoiceNumber:     inv.InvoiceNumber,
			InvoiceDate:       inv.InvoiceDate,
			DueDate:           inv.DueDate,
			TotalAmount:       inv.TotalAmount,
			PaidAmount:        inv.PaidAmount,
			OutstandingAmount: balance,
			DaysOverdue:       days,
			AgingBucket:       bucket,
		})
		out.TotalOutstanding = out.TotalOutstanding.Add(balance)
		if days > 0 {
			out.OverdueAmount = out.OverdueAmount.Add(balance)
		}
		out.Aging[bucket] = out.Aging[bucket].Add(balance)
	}

	sort.SliceStable(out.Invoices, func(i, j int) bool {
		a, b := out.Invoices[i], out.Invoices[j]
		if !a.InvoiceDate.Equal(b.InvoiceDate) {
			return a.InvoiceDate.Before(b.InvoiceDate)
		}
		return a.InvoiceNumber < b.InvoiceNumber
	})
	return out
}
