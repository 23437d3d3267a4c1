package gst

import (
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// TaxType selects which GST components apply to a supply
type TaxType string

const (
	TaxTypeCGSTSGST TaxType = "CGST_SGST"
	TaxTypeIGST     TaxType = "IGST"
	TaxTypeExempt   TaxType = "EXEMPT"
)

// IsValid checks if the tax type is known
func (t TaxType) IsValid() bool {
	switch t {
	case TaxTypeCGSTSGST, TaxTypeIGST, TaxTypeExempt:
		return true
	}
	return false
}

// String returns the string representation
func (t TaxType) String() string {
	return string(t)
}

// Parties describes seller and buyer for the place-of-supply decision
type Parties struct {
	SellerGSTIN string
	BuyerGSTIN  string
	// PlaceOfSupply is a two digit state code that overrides the buyer GSTIN state
	PlaceOfSupply string
	IsExport      bool
	IsSEZ         bool
}

// DetermineType decides between CGST+SGST, IGST and exempt supply.
//
// Exports and SEZ supplies are exempt. A buyer without GSTIN and without a
// place-of-supply override is treated as an intra-state B2C sale. Otherwise the
// seller and buyer state codes are compared.
func DetermineType(p Parties) (TaxType, error) {
	if p.IsExport || p.IsSEZ {
		return TaxTypeExempt, nil
	}

	buyerState := ""
	switch {
	case p.PlaceOfSupply != "":
		if !IsValidStateCode(p.PlaceOfSupply) {
			return "", shared.NewValidationError("invalid place of supply state code %q", p.PlaceOfSupply)
		}
		buyerState = p.PlaceOfSupply
	case p.BuyerGSTIN != "":
		code, ok := ExtractStateCode(p.BuyerGSTIN)
		if !ok {
			return "", shared.NewValidationError("invalid buyer GSTIN %q", p.BuyerGSTIN)
		}
		buyerState = code
	default:
		return TaxTypeCGSTSGST, nil
	}

	sellerState, ok := ExtractStateCode(p.SellerGSTIN)
	if !ok {
		return "", shared.NewValidationError("invalid seller GSTIN %q", p.SellerGSTIN)
	}

	if sellerState == buyerState {
		return TaxTypeCGSTSGST, nil
	}
	return TaxTypeIGST, nil
}
