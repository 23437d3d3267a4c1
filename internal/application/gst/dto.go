package gst

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/gst"
)

// ValidateGSTINRequest carries a GSTIN to check
type ValidateGSTINRequest struct {
	GSTIN string `json:"gstin" binding:"required"`
}

// GSTINResponse describes a checked GSTIN
type GSTINResponse struct {
	GSTIN     string `json:"gstin"`
	Valid     bool   `json:"valid"`
	StateCode string `json:"state_code,omitempty"`
	StateName string `json:"state_name,omitempty"`
	PAN       string `json:"pan,omitempty"`
}

// CalculateItem is one line of a calculation request
type CalculateItem struct {
	HSNCode         string          `json:"hsn_code"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
}

// CalculateRequest computes invoice totals without storing anything
type CalculateRequest struct {
	SellerGSTIN    string          `json:"seller_gstin" binding:"omitempty,gstin"`
	BuyerGSTIN     string          `json:"buyer_gstin" binding:"omitempty,gstin"`
	PlaceOfSupply  string          `json:"place_of_supply" binding:"omitempty,len=2,numeric"`
	IsExport       bool            `json:"is_export"`
	IsSEZ          bool            `json:"is_sez"`
	Items          []CalculateItem `json:"items" binding:"required,min=1,dive"`
	HeaderDiscount decimal.Decimal `json:"header_discount"`
	OtherCharges   decimal.Decimal `json:"other_charges"`
}

func (r CalculateRequest) toInput(defaultSeller string) gst.InvoiceInput {
	seller := r.SellerGSTIN
	if seller == "" {
		seller = defaultSeller
	}
	items := make([]gst.LineInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = gst.LineInput{
			HSNCode:         it.HSNCode,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
			TaxRate:         it.TaxRate,
		}
	}
	return gst.InvoiceInput{
		Parties: gst.Parties{
			SellerGSTIN:   gst.NormalizeGSTIN(seller),
			BuyerGSTIN:    gst.NormalizeGSTIN(r.BuyerGSTIN),
			PlaceOfSupply: r.PlaceOfSupply,
			IsExport:      r.IsExport,
			IsSEZ:         r.IsSEZ,
		},
		Items:          items,
		HeaderDiscount: r.HeaderDiscount,
		OtherCharges:   r.OtherCharges,
	}
}

// SummaryResponse is the GSTR outward summary of a period with the ITC
// reversals booked in the same period
type SummaryResponse struct {
	From             time.Time         `json:"from"`
	To               time.Time         `json:"to"`
	InvoiceCount     int               `json:"invoice_count"`
	Summary          gst.PeriodSummary `json:"summary"`
	ITCReversalCount int               `json:"itc_reversal_count"`
	ITCReversalValue decimal.Decimal   `json:"itc_reversal_taxable_value"`
	ITCReversalTax   decimal.Decimal   `json:"itc_reversal_tax"`
}

// ExportResponse points at an archived summary workbook
type ExportResponse struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	Size       int    `json:"size"`
}
