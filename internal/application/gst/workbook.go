package gst

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	hsnSheet     = "HSN"
)

// RenderSummaryWorkbook writes a two-sheet workbook: category totals and the
// HSN-wise summary
func RenderSummaryWorkbook(s *SummaryResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(hsnSheet); err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Period", s.From.Format("2006-01-02") + " to " + s.To.Format("2006-01-02")},
		{},
		{"Category", "Invoices", "Taxable", "CGST", "SGST", "IGST", "Total Tax", "Invoice Value"},
	}
	buckets := []struct {
		name string
		b    gst.Bucket
	}{
		{"B2B", s.Summary.B2B},
		{"B2C", s.Summary.B2C},
		{"Exports", s.Summary.Exports},
		{"Nil rated", s.Summary.NilRated},
		{"Total", s.Summary.Total},
	}
	for _, row := range buckets {
		rows = append(rows, []any{
			row.name, row.b.Count,
			money(row.b.TaxableAmount), money(row.b.CGSTAmount), money(row.b.SGSTAmount),
			money(row.b.IGSTAmount), money(row.b.TotalTax), money(row.b.InvoiceValue),
		})
	}
	rows = append(rows,
		[]any{},
		[]any{"ITC reversals", s.ITCReversalCount, money(s.ITCReversalValue), "", "", "", money(s.ITCReversalTax)},
	)
	if err := writeRows(f, summarySheet, rows); err != nil {
		return nil, err
	}

	hsnRows := [][]any{{"HSN", "Rate", "Quantity", "Taxable", "CGST", "SGST", "IGST"}}
	for _, h := range s.Summary.HSN {
		hsnRows = append(hsnRows, []any{
			h.HSNCode, money(h.TaxRate), h.Quantity.InexactFloat64(),
			money(h.TaxableAmount), money(h.CGSTAmount), money(h.SGSTAmount), money(h.IGSTAmount),
		})
	}
	if err := writeRows(f, hsnSheet, hsnRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
