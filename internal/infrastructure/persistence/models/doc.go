// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// of ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models hold all GORM annotations and table mappings
// 3. ToDomain / XModelFromDomain convert between the two
// 4. Repositories only ever read and write models
//
// Structure:
// - base.go: BaseModel, OrgAggregateModel, address columns
// - partner.go: organizations, customers
// - catalog.go: products
// - inventory.go: batches, stock journal, write-offs
// - trade.go: orders and returns
// - finance.go: invoices, payments and allocations
// - gst.go: GST adjustments
// - sequence.go: document number series
package models
