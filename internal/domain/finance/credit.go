package finance

import (
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// CreditCheck is the outcome of checking an amount against a credit limit
type CreditCheck struct {
	OK          bool            `json:"ok"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Available   decimal.Decimal `json:"available"`
	Requested   decimal.Decimal `json:"requested"`
}

// CheckCredit computes available = limit - outstanding and fails when amount > available
func CheckCredit(creditLimit, outstanding, amount decimal.Decimal) CreditCheck {
	available := creditLimit.Sub(outstanding)
	return CreditCheck{
		OK:          !amount.GreaterThan(available),
		CreditLimit: creditLimit,
		Outstanding: outstanding,
		Available:   available,
		Requested:   amount,
	}
}

// Err returns a CREDIT_EXCEEDED error carrying the figures, or nil when the check passed
func (c CreditCheck) Err() error {
	if c.OK {
		return nil
	}
	return shared.ErrCreditExceeded.WithDetails(map[string]any{
		"credit_limit": c.CreditLimit,
		"outstanding":  c.Outstanding,
		"available":    c.Available,
		"requested":    c.Requested,
	})
}
