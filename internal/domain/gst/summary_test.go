package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{
			InvoiceNumber: "INV-2025-01-00001", BuyerGSTIN: "27AAECP1234F1Z5", TaxType: TaxTypeCGSTSGST,
			TaxableAmount: d("900"), CGSTAmount: d("54"), SGSTAmount: d("54"), IGSTAmount: d("0"), TotalAmount: d("1008"),
			Lines: []SummaryLine{{HSNCode: "3004", Quantity: d("10"), TaxRate: d("12"), TaxableAmount: d("900"), CGSTAmount: d("54"), SGSTAmount: d("54"), IGSTAmount: d("0")}},
		},
		{
			InvoiceNumber: "INV-2025-01-00002", BuyerGSTIN: "29AAACD1234E1Z5", TaxType: TaxTypeIGST,
			TaxableAmount: d("900"), CGSTAmount: d("0"), SGSTAmount: d("0"), IGSTAmount: d("108"), TotalAmount: d("1008"),
			Lines: []SummaryLine{{HSNCode: "3004", Quantity: d("10"), TaxRate: d("12"), TaxableAmount: d("900"), CGSTAmount: d("0"), SGSTAmount: d("0"), IGSTAmount: d("108")}},
		},
		{
			InvoiceNumber: "INV-2025-01-00003", TaxType: TaxTypeCGSTSGST,
			TaxableAmount: d("100"), CGSTAmount: d("2.5"), SGSTAmount: d("2.5"), IGSTAmount: d("0"), TotalAmount: d("105"),
			Lines: []SummaryLine{{HSNCode: "3003", Quantity: d("1"), TaxRate: d("5"), TaxableAmount: d("100"), CGSTAmount: d("2.5"), SGSTAmount: d("2.5"), IGSTAmount: d("0")}},
		},
		{
			InvoiceNumber: "INV-2025-01-00004", BuyerGSTIN: "29AAACD1234E1Z5", TaxType: TaxTypeExempt, IsExport: true,
			TaxableAmount: d("500"), CGSTAmount: d("0"), SGSTAmount: d("0"), IGSTAmount: d("0"), TotalAmount: d("500"),
		},
		{
			InvoiceNumber: "INV-2025-01-00005", TaxType: TaxTypeCGSTSGST,
			TaxableAmount: d("40"), CGSTAmount: d("0"), SGSTAmount: d("0"), IGSTAmount: d("0"), TotalAmount: d("40"),
		},
	}

	s := Summarize(txs)

	assert.Equal(t, 2, s.B2B.Count)
	assertAmount(t, "1800", s.B2B.TaxableAmount)
	assertAmount(t, "216", s.B2B.TotalTax)
	assert.Equal(t, 1, s.B2C.Count)
	assertAmount(t, "5", s.B2C.TotalTax)
	assert.Equal(t, 1, s.Exports.Count)
	assertAmount(t, "500", s.Exports.InvoiceValue)
	assert.Equal(t, 1, s.NilRated.Count)
	assert.Equal(t, 5, s.Total.Count)
	assertAmount(t, "2661", s.Total.InvoiceValue)

	require.Len(t, s.HSN, 2)
	assert.Equal(t, "3003", s.HSN[0].HSNCode)
	assert.Equal(t, "3004", s.HSN[1].HSNCode)
	assertAmount(t, "20", s.HSN[1].Quantity)
	assertAmount(t, "108", s.HSN[1].IGSTAmount)
}
