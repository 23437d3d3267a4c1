package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryType is the kind of document behind a ledger row
type LedgerEntryType string

const (
	LedgerEntryInvoice LedgerEntryType = "invoice"
	LedgerEntryPayment LedgerEntryType = "payment"
)

// rank puts invoices before payments on the same day
func (t LedgerEntryType) rank() int {
	if t == LedgerEntryInvoice {
		return 0
	}
	return 1
}

// LedgerDocument is an invoice (debit) or completed payment (credit) for the ledger
type LedgerDocument struct {
	Type      LedgerEntryType
	ID        uuid.UUID
	Reference string
	Date      time.Time
	Amount    decimal.Decimal
	Narration string
}

// LedgerEntry is one row of a customer statement
type LedgerEntry struct {
	Date        time.Time       `json:"date"`
	EntryType   LedgerEntryType `json:"entry_type"`
	DocumentID  uuid.UUID       `json:"document_id"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Ledger is a customer statement over [From, To]
type Ledger struct {
	CustomerID     uuid.UUID       `json:"customer_id"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Entries        []LedgerEntry   `json:"entries"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// BuildLedger walks the documents by date, invoices before payments on the
// same day, carrying a running balance from opening
func BuildLedger(customerID uuid.UUID, from, to time.Time, opening decimal.Decimal, docs []LedgerDocument) *Ledger {
	sorted := make([]LedgerDocument, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Type.rank() != b.Type.rank() {
			return a.Type.rank() < b.Type.rank()
		}
		return a.Reference < b.Reference
	})

	l := &Ledger{
		CustomerID:     customerID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Entries:        make([]LedgerEntry, 0, len(sorted)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	balance := opening
	for _, doc := range sorted {
		e := LedgerEntry{
			Date:        doc.Date,
			EntryType:   doc.Type,
			DocumentID:  doc.ID,
			Reference:   doc.Reference,
			Description: doc.Narration,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if doc.Type == LedgerEntryInvoice {
			e.Debit = doc.Amount
			l.TotalDebit = l.TotalDebit.Add(doc.Amount)
			balance = balance.Add(doc.Amount)
		} else {
			e.Credit = doc.Amount
			l.TotalCredit = l.TotalCredit.Add(doc.Amount)
			balance = balance.Sub(doc.Amount)
		}
		e.Balance = balance
		l.Entries = append(l.Entries, e)
	}
	l.ClosingBalance = balance
	return l
}

// CheckClosure verifies closing = opening + debits - credits
func (l *Ledger) CheckClosure() error {
	want := l.OpeningBalance.Add(l.TotalDebit).Sub(l.TotalCredit)
	if !l.ClosingBalance.Equal(want) {
		return fmt.Errorf("ledger closing %s != opening %s + debit %s - credit %s",
			l.ClosingBalance, l.OpeningBalance, l.TotalDebit, l.TotalCredit)
	}
	return nil
}
