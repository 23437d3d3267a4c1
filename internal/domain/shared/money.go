package shared

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for every monetary amount
const MoneyPlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney quantizes an amount to two decimals using half-even rounding
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyPlaces)
}

// RoundRupee rounds an amount to the nearest whole rupee using half-even rounding
func RoundRupee(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(0)
}

// Percent returns amount * pct / 100 without rounding
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// MinDecimal returns the smaller of a and b
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// SumDecimals adds up all values
func SumDecimals(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
