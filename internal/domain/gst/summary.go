package gst

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SummaryLine is one HSN-coded line of a filed transaction
type SummaryLine struct {
	HSNCode       string
	Quantity      decimal.Decimal
	TaxRate       decimal.Decimal
	TaxableAmount decimal.Decimal
	CGSTAmount    decimal.Decimal
	SGSTAmount    decimal.Decimal
	IGSTAmount    decimal.Decimal
}

// Transaction is an issued outward supply as seen by the return summary
type Transaction struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	BuyerGSTIN    string
	TaxType       TaxType
	IsExport      bool
	TaxableAmount decimal.Decimal
	CGSTAmount    decimal.Decimal
	SGSTAmount    decimal.Decimal
	IGSTAmount    decimal.Decimal
	TotalAmount   decimal.Decimal
	Lines         []SummaryLine
}

func (t Transaction) totalTax() decimal.Decimal {
	return t.CGSTAmount.Add(t.SGSTAmount).Add(t.IGSTAmount)
}

// Bucket accumulates invoices of one GSTR category
type Bucket struct {
	Count         int             `json:"count"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	InvoiceValue  decimal.Decimal `json:"invoice_value"`
}

func newBucket() Bucket {
	return Bucket{
		TaxableAmount: decimal.Zero,
		CGSTAmount:    decimal.Zero,
		SGSTAmount:    decimal.Zero,
		IGSTAmount:    decimal.Zero,
		TotalTax:      decimal.Zero,
		InvoiceValue:  decimal.Zero,
	}
}

func (b *Bucket) add(t Transaction) {
	b.Count++
	b.TaxableAmount = b.TaxableAmount.Add(t.TaxableAmount)
	b.CGSTAmount = b.CGSTAmount.Add(t.CGSTAmount)
	b.SGSTAmount = b.SGSTAmount.Add(t.SGSTAmount)
	b.IGSTAmount = b.IGSTAmount.Add(t.IGSTAmount)
	b.TotalTax = b.TotalTax.Add(t.totalTax())
	b.InvoiceValue = b.InvoiceValue.Add(t.TotalAmount)
}

// HSNSummary aggregates lines sharing an HSN code and rate
type HSNSummary struct {
	HSNCode       string          `json:"hsn_code"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Quantity      decimal.Decimal `json:"quantity"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
}

// PeriodSummary is the outward-supply summary used for GSTR filing
type PeriodSummary struct {
	B2B      Bucket       `json:"b2b"`
	B2C      Bucket       `json:"b2c"`
	Exports  Bucket       `json:"exports"`
	NilRated Bucket       `json:"nil_rated"`
	Total    Bucket       `json:"total"`
	HSN      []HSNSummary `json:"hsn"`
}

// Classify returns the bucket name a transaction belongs to
func Classify(t Transaction) string {
	switch {
	case t.IsExport:
		return "exports"
	case t.totalTax().IsZero():
		return "nil_rated"
	case t.BuyerGSTIN != "":
		return "b2b"
	default:
		return "b2c"
	}
}

// Summarize classifies transactions into b2b, b2c, exports and nil-rated buckets
// and builds the HSN-wise summary.
func Summarize(transactions []Transaction) PeriodSummary {
	s := PeriodSummary{
		B2B:      newBucket(),
		B2C:      newBucket(),
		Exports:  newBucket(),
		NilRated: newBucket(),
		Total:    newBucket(),
	}

	type hsnKey struct {
		code string
		rate string
	}
	hsn := make(map[hsnKey]*HSNSummary)

	for _, t := range transactions {
		switch Classify(t) {
		case "exports":
			s.Exports.add(t)
		case "nil_rated":
			s.NilRated.add(t)
		case "b2b":
			s.B2B.add(t)
		default:
			s.B2C.add(t)
		}
		s.Total.add(t)

		for _, l := range t.Lines {
			k := hsnKey{code: l.HSNCode, rate: l.TaxRate.String()}
			row, ok := hsn[k]
			if !ok {
				row = &HSNSummary{
					HSNCode:       l.HSNCode,
					TaxRate:       l.TaxRate,
					Quantity:      decimal.Zero,
					TaxableAmount: decimal.Zero,
					CGSTAmount:    decimal.Zero,
					SGSTAmount:    decimal.Zero,
					IGSTAmount:    decimal.Zero,
				}
				hsn[k] = row
			}
			row.Quantity = row.Quantity.Add(l.Quantity)
			row.TaxableAmount = row.TaxableAmount.Add(l.TaxableAmount)
			row.CGSTAmount = row.CGSTAmount.Add(l.CGSTAmount)
			row.SGSTAmount = row.SGSTAmount.Add(l.SGSTAmount)
			row.IGSTAmount = row.IGSTAmount.Add(l.IGSTAmount)
		}
	}

	s.HSN = make([]HSNSummary, 0, len(hsn))
	for _, row := range hsn {
		s.HSN = append(s.HSN, *row)
	}
	sort.Slice(s.HSN, func(i, j int) bool {
		if s.HSN[i].HSNCode != s.HSN[j].HSNCode {
			return s.HSN[i].HSNCode < s.HSN[j].HSNCode
		}
		return s.HSN[i].TaxRate.LessThan(s.HSN[j].TaxRate)
	})
	return s
}
