package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertLevel grades how close a batch is to expiry
type AlertLevel string

const (
	AlertExpired  AlertLevel = "expired"
	AlertCritical AlertLevel = "critical"
	AlertWarning  AlertLevel = "warning"
	AlertInfo     AlertLevel = "info"
	AlertNormal   AlertLevel = "normal"
)

// ClassifyExpiry maps days to expiry onto an alert level
func ClassifyExpiry(daysToExpiry int) AlertLevel {
	switch {
	case daysToExpiry <= 0:
		return AlertExpired
	case daysToExpiry <= 30:
		return AlertCritical
	case daysToExpiry <= 90:
		return AlertWarning
	case daysToExpiry <= 180:
		return AlertInfo
	default:
		return AlertNormal
	}
}

// ExpiryAlert describes one batch approaching or past expiry
type ExpiryAlert struct {
	BatchID      uuid.UUID       `json:"batch_id"`
	BatchNumber  string          `json:"batch_number"`
	ProductID    uuid.UUID       `json:"product_id"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	DaysToExpiry int             `json:"days_to_expiry"`
	Level        AlertLevel      `json:"level"`
	Quantity     decimal.Decimal `json:"quantity"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// BuildExpiryAlerts returns batches with stock that expire within daysAhead,
// already expired ones included, soonest first.
func BuildExpiryAlerts(batches []*Batch, today time.Time, daysAhead int) []ExpiryAlert {
	alerts := make([]ExpiryAlert, 0)
	sorted := make([]*Batch, 0, len(batches))
	for _, b := range batches {
		if b.ExpiryDate != nil && b.QuantityAvailable.IsPositive() {
			sorted = append(sorted, b)
		}
	}
	SortFEFO(sorted)

	for _, b := range sorted {
		days := *b.DaysToExpiry(today)
		if days > daysAhead {
			continue
		}
		alerts = append(alerts, ExpiryAlert{
			BatchID:      b.ID,
			BatchNumber:  b.BatchNumber,
			ProductID:    b.ProductID,
			ExpiryDate:   *b.ExpiryDate,
			DaysToExpiry: days,
			Level:        ClassifyExpiry(days),
			Quantity:     b.QuantityAvailable,
			StockValue:   b.StockValue().RoundBank(2),
		})
	}
	return alerts
}
