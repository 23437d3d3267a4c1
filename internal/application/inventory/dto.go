package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/inventory"
)

// CreateBatchRequest represents a request to receive a new batch
type CreateBatchRequest struct {
	ProductID         uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber       string          `json:"batch_number" binding:"required,max=50"`
	ManufacturingDate *time.Time      `json:"manufacturing_date"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	MRP               decimal.Decimal `json:"mrp"`
	SupplierName      string          `json:"supplier_name" binding:"max=200"`
	PurchaseReference string          `json:"purchase_reference" binding:"max=100"`
	CreatedBy         *uuid.UUID      `json:"-"`
}

// BatchResponse represents a batch in API responses
type BatchResponse struct {
	ID                uuid.UUID            `json:"id"`
	OrgID             uuid.UUID            `json:"org_id"`
	ProductID         uuid.UUID            `json:"product_id"`
	BatchNumber       string               `json:"batch_number"`
	ManufacturingDate *time.Time           `json:"manufacturing_date,omitempty"`
	ExpiryDate        *time.Time           `json:"expiry_date,omitempty"`
	DaysToExpiry      *int                 `json:"days_to_expiry,omitempty"`
	ExpiryLevel       inventory.AlertLevel `json:"expiry_level,omitempty"`
	QuantityReceived  decimal.Decimal      `json:"quantity_received"`
	QuantityAvailable decimal.Decimal      `json:"quantity_available"`
	QuantitySold      decimal.Decimal      `json:"quantity_sold"`
	CostPrice         decimal.Decimal      `json:"cost_price"`
	MRP               decimal.Decimal      `json:"mrp"`
	SupplierName      string               `json:"supplier_name,omitempty"`
	PurchaseReference string               `json:"purchase_reference,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// BatchListFilter represents filter options for the batch list
type BatchListFilter struct {
	ProductID *uuid.UUID `form:"-"`
	HasStock  *bool      `form:"has_stock"`
	Search    string     `form:"search"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CurrentStockResponse is the derived stock of a product
type CurrentStockResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	AvailableForSale decimal.Decimal `json:"available_for_sale"`
	BatchCount       int             `json:"batch_count"`
	NeedsReorder     bool            `json:"needs_reorder"`
	BelowMinimum     bool            `json:"below_minimum"`
}

// AllocationResponse lists the batch quantities taken for an order
type AllocationResponse struct {
	OrderID     uuid.UUID                   `json:"order_id"`
	Allocations []inventory.BatchAllocation `json:"allocations"`
}

// ReleaseResponse lists the quantities put back when an allocation is released
type ReleaseResponse struct {
	OrderID  uuid.UUID          `json:"order_id"`
	Restored []MovementResponse `json:"restored"`
}

// RecordMovementRequest represents a manual journal entry against a batch.
// Exactly one of QuantityIn and QuantityOut must be positive.
type RecordMovementRequest struct {
	BatchID       uuid.UUID              `json:"batch_id" binding:"required"`
	MovementType  inventory.MovementType `json:"movement_type" binding:"required,oneof=purchase sale return adjustment transfer write_off"`
	QuantityIn    decimal.Decimal        `json:"quantity_in"`
	QuantityOut   decimal.Decimal        `json:"quantity_out"`
	ReferenceType string                 `json:"reference_type" binding:"max=50"`
	ReferenceID   *uuid.UUID             `json:"reference_id"`
	MovementDate  *time.Time             `json:"movement_date"`
	Notes         string                 `json:"notes" binding:"max=500"`
	CreatedBy     *uuid.UUID             `json:"-"`
}

// AdjustStockRequest corrects a batch by a signed quantity
type AdjustStockRequest struct {
	BatchID   uuid.UUID       `json:"batch_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason" binding:"required,max=500"`
	CreatedBy *uuid.UUID      `json:"-"`
}

// MovementResponse represents a stock journal row in API responses
type MovementResponse struct {
	ID            uuid.UUID              `json:"id"`
	ProductID     uuid.UUID              `json:"product_id"`
	BatchID       *uuid.UUID             `json:"batch_id,omitempty"`
	MovementType  inventory.MovementType `json:"movement_type"`
	QuantityIn    decimal.Decimal        `json:"quantity_in"`
	QuantityOut   decimal.Decimal        `json:"quantity_out"`
	StockBefore   decimal.Decimal        `json:"stock_before"`
	StockAfter    decimal.Decimal        `json:"stock_after"`
	ReferenceType string                 `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID             `json:"reference_id,omitempty"`
	MovementDate  time.Time              `json:"movement_date"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// MovementListFilter represents filter options for the journal
type MovementListFilter struct {
	ProductID     *uuid.UUID `form:"-"`
	BatchID       *uuid.UUID `form:"-"`
	MovementType  string     `form:"movement_type"`
	ReferenceType string     `form:"reference_type"`
	ReferenceID   *uuid.UUID `form:"-"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// WriteOffItemRequest is one batch line of a write-off
type WriteOffItemRequest struct {
	BatchID  uuid.UUID       `json:"batch_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// WriteOffRequest represents a request to write stock off
type WriteOffRequest struct {
	WriteoffNumber string                   `json:"writeoff_number" binding:"max=50"`
	WriteoffDate   *time.Time               `json:"writeoff_date"`
	Reason         inventory.WriteoffReason `json:"reason" binding:"required,oneof=EXPIRED DAMAGED THEFT SAMPLE PERSONAL_USE DESTROYED OTHER"`
	Notes          string                   `json:"notes" binding:"max=500"`
	Items          []WriteOffItemRequest    `json:"items" binding:"required,min=1,dive"`
	CreatedBy      *uuid.UUID               `json:"-"`
}

// WriteOffItemResponse is one written-off batch line
type WriteOffItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	BatchID    uuid.UUID       `json:"batch_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	GSTPercent decimal.Decimal `json:"gst_percent"`
	CostValue  decimal.Decimal `json:"cost_value"`
	ITCAmount  decimal.Decimal `json:"itc_amount"`
}

// WriteOffResponse represents a write-off document in API responses
type WriteOffResponse struct {
	ID                  uuid.UUID                `json:"id"`
	WriteoffNumber      string                   `json:"writeoff_number"`
	WriteoffDate        time.Time                `json:"writeoff_date"`
	Reason              inventory.WriteoffReason `json:"reason"`
	RequiresITCReversal bool                     `json:"requires_itc_reversal"`
	TotalCostValue      decimal.Decimal          `json:"total_cost_value"`
	TotalITCReversal    decimal.Decimal          `json:"total_itc_reversal"`
	Notes               string                   `json:"notes,omitempty"`
	Items               []WriteOffItemResponse   `json:"items"`
	CreatedAt           time.Time                `json:"created_at"`
}

// WriteOffListFilter represents filter options for write-off documents
type WriteOffListFilter struct {
	Reason   string     `form:"reason"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// ToBatchResponse converts a domain batch to a response. today drives the expiry fields.
func ToBatchResponse(b *inventory.Batch, today time.Time) BatchResponse {
	resp := BatchResponse{
		ID:                b.ID,
		OrgID:             b.OrgID,
		ProductID:         b.ProductID,
		BatchNumber:       b.BatchNumber,
		ManufacturingDate: b.ManufacturingDate,
		ExpiryDate:        b.ExpiryDate,
		QuantityReceived:  b.QuantityReceived,
		QuantityAvailable: b.QuantityAvailable,
		QuantitySold:      b.QuantitySold,
		CostPrice:         b.CostPrice,
		MRP:               b.MRP,
		SupplierName:      b.SupplierName,
		PurchaseReference: b.PurchaseReference,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if days := b.DaysToExpiry(today); days != nil {
		resp.DaysToExpiry = days
		resp.ExpiryLevel = inventory.ClassifyExpiry(*days)
	}
	return resp
}

// ToMovementResponse converts a journal row to a response
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		BatchID:       m.BatchID,
		MovementType:  m.MovementType,
		QuantityIn:    m.QuantityIn,
		QuantityOut:   m.QuantityOut,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		MovementDate:  m.MovementDate,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of journal rows
func ToMovementResponses(rows []inventory.StockMovement) []MovementResponse {
	out := make([]MovementResponse, len(rows))
	for i := range rows {
		out[i] = ToMovementResponse(&rows[i])
	}
	return out
}

// ToWriteOffResponse converts a write-off document to a response
func ToWriteOffResponse(w *inventory.StockWriteoff) WriteOffResponse {
	items := make([]WriteOffItemResponse, len(w.Items))
	for i, item := range w.Items {
		items[i] = WriteOffItemResponse{
			ID:         item.ID,
			BatchID:    item.BatchID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			CostPrice:  item.CostPrice,
			GSTPercent: item.GSTPercent,
			CostValue:  item.CostValue,
			ITCAmount:  item.ITCAmount,
		}
	}
	return WriteOffResponse{
		ID:                  w.ID,
		WriteoffNumber:      w.WriteoffNumber,
		WriteoffDate:        w.WriteoffDate,
		Reason:              w.Reason,
		RequiresITCReversal: w.RequiresITCReversal,
		TotalCostValue:      w.TotalCostValue,
		TotalITCReversal:    w.TotalITCReversal,
		Notes:               w.Notes,
		Items:               items,
		CreatedAt:           w.CreatedAt,
	}
}
