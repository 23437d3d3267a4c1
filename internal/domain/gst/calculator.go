package gst

import (
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

var (
	two        = decimal.NewFromInt(2)
	hundredPct = decimal.NewFromInt(100)
)

// LineInput is one taxable line before computation
type LineInput struct {
	HSNCode         string          `json:"hsn_code,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
}

// LineResult is a computed line. Every monetary field is quantized to 2 decimals.
type LineResult struct {
	HSNCode         string          `json:"hsn_code,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	CGSTRate        decimal.Decimal `json:"cgst_rate"`
	SGSTRate        decimal.Decimal `json:"sgst_rate"`
	IGSTRate        decimal.Decimal `json:"igst_rate"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount"`
	IGSTAmount      decimal.Decimal `json:"igst_amount"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	Total           decimal.Decimal `json:"total"`
}

// AsInput turns a computed line back into an input line
func (r LineResult) AsInput() LineInput {
	return LineInput{
		HSNCode:         r.HSNCode,
		Quantity:        r.Quantity,
		UnitPrice:       r.UnitPrice,
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		TaxRate:         r.TaxRate,
	}
}

func (l LineInput) validate() error {
	if !l.Quantity.IsPositive() {
		return shared.NewValidationError("quantity must be greater than zero")
	}
	if l.UnitPrice.IsNegative() {
		return shared.NewValidationError("unit price cannot be negative")
	}
	if l.DiscountPercent.IsNegative() || l.DiscountPercent.GreaterThan(hundredPct) {
		return shared.NewValidationError("discount percent must be between 0 and 100")
	}
	if l.DiscountAmount.IsNegative() {
		return shared.NewValidationError("discount amount cannot be negative")
	}
	if l.TaxRate.IsNegative() {
		return shared.NewValidationError("tax rate cannot be negative")
	}
	return nil
}

// ComputeLine computes discount, taxable value and the GST split of one line.
// A positive discount percent recomputes the discount from the gross amount and
// overrides any supplied discount amount.
func ComputeLine(line LineInput, taxType TaxType) (LineResult, error) {
	if err := line.validate(); err != nil {
		return LineResult{}, err
	}
	if !taxType.IsValid() {
		return LineResult{}, shared.NewValidationError("unknown tax type %q", taxType)
	}

	gross := shared.RoundMoney(line.Quantity.Mul(line.UnitPrice))
	discount := shared.RoundMoney(line.DiscountAmount)
	if line.DiscountPercent.IsPositive() {
		discount = shared.RoundMoney(shared.Percent(gross, line.DiscountPercent))
	}
	if discount.GreaterThan(gross) {
		return LineResult{}, shared.NewValidationError("discount %s exceeds line amount %s", discount.StringFixed(2), gross.StringFixed(2))
	}
	taxable := gross.Sub(discount)

	res := LineResult{
		HSNCode:         line.HSNCode,
		Quantity:        line.Quantity,
		UnitPrice:       line.UnitPrice,
		GrossAmount:     gross,
		DiscountPercent: line.DiscountPercent,
		DiscountAmount:  discount,
		TaxableAmount:   taxable,
		TaxRate:         line.TaxRate,
		CGSTRate:        decimal.Zero,
		SGSTRate:        decimal.Zero,
		IGSTRate:        decimal.Zero,
		CGSTAmount:      decimal.Zero,
		SGSTAmount:      decimal.Zero,
		IGSTAmount:      decimal.Zero,
	}

	switch taxType {
	case TaxTypeCGSTSGST:
		half := line.TaxRate.Div(two)
		res.CGSTRate = half
		res.SGSTRate = half
		res.CGSTAmount = shared.RoundMoney(shared.Percent(taxable, half))
		res.SGSTAmount = shared.RoundMoney(shared.Percent(taxable, half))
	case TaxTypeIGST:
		res.IGSTRate = line.TaxRate
		res.IGSTAmount = shared.RoundMoney(shared.Percent(taxable, line.TaxRate))
	}

	res.TotalTax = res.CGSTAmount.Add(res.SGSTAmount).Add(res.IGSTAmount)
	res.Total = taxable.Add(res.TotalTax)
	return res, nil
}

// InvoiceInput is the input of a whole-invoice computation
type InvoiceInput struct {
	Parties
	Items          []LineInput     `json:"items"`
	HeaderDiscount decimal.Decimal `json:"header_discount"`
	OtherCharges   decimal.Decimal `json:"other_charges"`
}

// InvoiceResult aggregates computed lines into invoice totals
type InvoiceResult struct {
	TaxType        TaxType         `json:"tax_type"`
	Items          []LineResult    `json:"items"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	LineDiscount   decimal.Decimal `json:"line_discount"`
	HeaderDiscount decimal.Decimal `json:"header_discount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount"`
	IGSTAmount     decimal.Decimal `json:"igst_amount"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	OtherCharges   decimal.Decimal `json:"other_charges"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	RoundOff       decimal.Decimal `json:"round_off"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// Inputs returns the computed lines as inputs, for recomputation
func (r InvoiceResult) Inputs() []LineInput {
	out := make([]LineInput, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.AsInput()
	}
	return out
}

// ComputeInvoice determines the tax type from the parties and aggregates all lines
func ComputeInvoice(in InvoiceInput) (InvoiceResult, error) {
	taxType, err := DetermineType(in.Parties)
	if err != nil {
		return InvoiceResult{}, err
	}
	return ComputeInvoiceForType(in.Items, taxType, in.HeaderDiscount, in.OtherCharges)
}

// ComputeInvoiceForType aggregates lines under an already decided tax type.
//
// The header discount is subtracted from the taxable total without being spread
// back over the lines, so line taxes are not recomputed for it. Other charges are
// added after tax. RoundOff is the signed difference between the total rounded to
// the rupee and the computed grand total.
func ComputeInvoiceForType(items []LineInput, taxType TaxType, headerDiscount, otherCharges decimal.Decimal) (InvoiceResult, error) {
	if len(items) == 0 {
		return InvoiceResult{}, shared.NewValidationError("invoice must have at least one item")
	}
	if headerDiscount.IsNegative() {
		return InvoiceResult{}, shared.NewValidationError("header discount cannot be negative")
	}
	if otherCharges.IsNegative() {
		return InvoiceResult{}, shared.NewValidationError("other charges cannot be negative")
	}

	res := InvoiceResult{
		TaxType:        taxType,
		Items:          make([]LineResult, 0, len(items)),
		GrossAmount:    decimal.Zero,
		LineDiscount:   decimal.Zero,
		HeaderDiscount: shared.RoundMoney(headerDiscount),
		TaxableAmount:  decimal.Zero,
		CGSTAmount:     decimal.Zero,
		SGSTAmount:     decimal.Zero,
		IGSTAmount:     decimal.Zero,
		OtherCharges:   shared.RoundMoney(otherCharges),
	}

	for i, item := range items {
		line, err := ComputeLine(item, taxType)
		if err != nil {
			return InvoiceResult{}, shared.NewValidationError("item %d: %s", i+1, err.Error())
		}
		res.Items = append(res.Items, line)
		res.GrossAmount = res.GrossAmount.Add(line.GrossAmount)
		res.LineDiscount = res.LineDiscount.Add(line.DiscountAmount)
		res.TaxableAmount = res.TaxableAmount.Add(line.TaxableAmount)
		res.CGSTAmount = res.CGSTAmount.Add(line.CGSTAmount)
		res.SGSTAmount = res.SGSTAmount.Add(line.SGSTAmount)
		res.IGSTAmount = res.IGSTAmount.Add(line.IGSTAmount)
	}

	if res.HeaderDiscount.GreaterThan(res.TaxableAmount) {
		return InvoiceResult{}, shared.NewValidationError("header discount exceeds taxable amount")
	}
	res.TaxableAmount = res.TaxableAmount.Sub(res.HeaderDiscount)
	res.TotalTax = res.CGSTAmount.Add(res.SGSTAmount).Add(res.IGSTAmount)
	res.GrandTotal = res.TaxableAmount.Add(res.TotalTax).Add(res.OtherCharges)
	res.TotalAmount = shared.RoundMoney(shared.RoundRupee(res.GrandTotal))
	res.RoundOff = res.TotalAmount.Sub(res.GrandTotal)
	return res, nil
}
