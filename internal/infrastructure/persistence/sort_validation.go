package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"credit_limit": true,
	"credit_days":  true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"name":        true,
	"hsn_code":    true,
	"sale_price":  true,
	"mrp":         true,
	"gst_percent": true,
}

// BatchSortFields contains allowed sort fields for batches
var BatchSortFields = map[string]bool{
	"created_at":         true,
	"batch_number":       true,
	"expiry_date":        true,
	"quantity_available": true,
	"cost_price":         true,
}

// MovementSortFields contains allowed sort fields for the stock journal
var MovementSortFields = map[string]bool{
	"created_at":    true,
	"movement_date": true,
	"movement_type": true,
}

// WriteoffSortFields contains allowed sort fields for write-offs
var WriteoffSortFields = map[string]bool{
	"created_at":       true,
	"writeoff_date":    true,
	"writeoff_number":  true,
	"total_cost_value": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"order_date":     true,
	"status":         true,
	"final_amount":   true,
	"balance_amount": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":     true,
	"invoice_number": true,
	"invoice_date":   true,
	"due_date":       true,
	"total_amount":   true,
	"payment_status": true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"created_at":        true,
	"payment_reference": true,
	"payment_date":      true,
	"amount":            true,
	"status":            true,
}
