package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// NearExpiryWindowDays is the horizon counted as near expiry in valuations
const NearExpiryWindowDays = 90

// ValuationBucket sums quantity and value of a slice of stock
type ValuationBucket struct {
	Quantity  decimal.Decimal `json:"quantity"`
	CostValue decimal.Decimal `json:"cost_value"`
	MRPValue  decimal.Decimal `json:"mrp_value"`
}

func newValuationBucket() ValuationBucket {
	return ValuationBucket{Quantity: decimal.Zero, CostValue: decimal.Zero, MRPValue: decimal.Zero}
}

func (v *ValuationBucket) add(b *Batch) {
	v.Quantity = v.Quantity.Add(b.QuantityAvailable)
	v.CostValue = v.CostValue.Add(b.QuantityAvailable.Mul(b.CostPrice))
	v.MRPValue = v.MRPValue.Add(b.QuantityAvailable.Mul(b.MRP))
}

func (v *ValuationBucket) round() {
	v.CostValue = shared.RoundMoney(v.CostValue)
	v.MRPValue = shared.RoundMoney(v.MRPValue)
}

// ProductValuation is the valuation of one product
type ProductValuation struct {
	ProductID  uuid.UUID       `json:"product_id"`
	BatchCount int             `json:"batch_count"`
	Total      ValuationBucket `json:"total"`
}

// Valuation reports stock value at a date, split into expired
// (expiry <= date) and near expiry (date < expiry <= date+90).
type Valuation struct {
	AsOf       time.Time          `json:"as_of"`
	Total      ValuationBucket    `json:"total"`
	Expired    ValuationBucket    `json:"expired"`
	NearExpiry ValuationBucket    `json:"near_expiry"`
	Products   []ProductValuation `json:"products"`
}

// Value computes the valuation of the given batches at asOf
func Value(batches []*Batch, asOf time.Time) Valuation {
	asOf = shared.TruncateToDay(asOf)
	horizon := asOf.AddDate(0, 0, NearExpiryWindowDays)

	v := Valuation{
		AsOf:       asOf,
		Total:      newValuationBucket(),
		Expired:    newValuationBucket(),
		NearExpiry: newValuationBucket(),
	}
	perProduct := make(map[uuid.UUID]*ProductValuation)

	for _, b := range batches {
		if !b.QuantityAvailable.IsPositive() {
			continue
		}
		v.Total.add(b)
		if b.ExpiryDate != nil {
			expiry := shared.TruncateToDay(*b.ExpiryDate)
			switch {
			case !expiry.After(asOf):
				v.Expired.add(b)
			case !expiry.After(horizon):
				v.NearExpiry.add(b)
			}
		}

		pv, ok := perProduct[b.ProductID]
		if !ok {
			pv = &ProductValuation{ProductID: b.ProductID, Total: newValuationBucket()}
			perProduct[b.ProductID] = pv
		}
		pv.BatchCount++
		pv.Total.add(b)
	}

	v.Total.round()
	v.Expired.round()
	v.NearExpiry.round()
	v.Products = make([]ProductValuation, 0, len(perProduct))
	for _, pv := range perProduct {
		pv.Total.round()
		v.Products = append(v.Products, *pv)
	}
	sort.Slice(v.Products, func(i, j int) bool {
		return v.Products[i].ProductID.String() < v.Products[j].ProductID.String()
	})
	return v
}
