package gst

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// AdjustmentType classifies a GST ledger adjustment
type AdjustmentType string

const (
	// AdjustmentITCReversal pays back input tax credit on goods that left the
	// business without a taxable supply
	AdjustmentITCReversal AdjustmentType = "itc_reversal"
)

// Adjustment is an append-only GST ledger row
type Adjustment struct {
	shared.BaseEntity
	OrgID          uuid.UUID
	AdjustmentType AdjustmentType
	ReferenceType  string
	ReferenceID    uuid.UUID
	AdjustmentDate time.Time
	TaxableValue   decimal.Decimal
	TaxAmount      decimal.Decimal
	Reason         string
}

// NewITCReversal creates an ITC reversal adjustment for a source document
func NewITCReversal(orgID uuid.UUID, referenceType string, referenceID uuid.UUID, date time.Time, taxableValue, taxAmount decimal.Decimal, reason string) (*Adjustment, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("organization is required")
	}
	if taxAmount.IsNegative() || taxableValue.IsNegative() {
		return nil, shared.NewValidationError("ITC reversal amounts cannot be negative")
	}
	return &Adjustment{
		BaseEntity:     shared.NewBaseEntity(),
		OrgID:          orgID,
		AdjustmentType: AdjustmentITCReversal,
		ReferenceType:  referenceType,
		ReferenceID:    referenceID,
		AdjustmentDate: date,
		TaxableValue:   shared.RoundMoney(taxableValue),
		TaxAmount:      shared.RoundMoney(taxAmount),
		Reason:         reason,
	}, nil
}

// AdjustmentRepository persists GST adjustments. Rows are never updated.
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *Adjustment) error
	FindByReference(ctx context.Context, orgID uuid.UUID, referenceType string, referenceID uuid.UUID) ([]Adjustment, error)
	FindByPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]Adjustment, error)
}
