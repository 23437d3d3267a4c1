package models

import (
	"time"

	"github.com/google/uuid"
)

// NumberSequenceModel holds the last value handed out for one series
type NumberSequenceModel struct {
	OrgID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(20);primaryKey"`
	Period    string    `gorm:"type:varchar(20);primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NumberSequenceModel) TableName() string {
	return "number_sequences"
}

// All returns every model of the schema, in dependency order
func All() []any {
	return []any{
		&OrganizationModel{},
		&CustomerModel{},
		&ProductModel{},
		&BatchModel{},
		&StockMovementModel{},
		&StockWriteoffModel{},
		&StockWriteoffItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&OrderReturnModel{},
		&OrderReturnItemModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&PaymentModel{},
		&PaymentAllocationModel{},
		&GSTAdjustmentModel{},
		&NumberSequenceModel{},
	}
}
