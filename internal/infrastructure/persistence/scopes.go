package persistence

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrgScope restricts a query to one organization
func OrgScope(orgID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("org_id = ?", orgID)
	}
}

// ForUpdate takes row locks for the rest of the transaction. Dialects
// without row locking (sqlite) ignore the clause.
func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Paginate applies offset and limit from a normalized filter
func Paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Page > 0 && filter.PageSize > 0 {
			return db.Offset(filter.Offset()).Limit(filter.PageSize)
		}
		return db
	}
}

// SortBy orders by a whitelisted column, falling back to defaultField.
// The primary key is appended so pages are stable.
func SortBy(filter shared.Filter, allowed map[string]bool, defaultField string) func(db *gorm.DB) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(field + " " + dir).Order("id " + dir)
	}
}

// DateRange applies the optional from / to filters on a date column
func DateRange(filter shared.Filter, column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from, ok := filter.Filters["from"].(time.Time); ok {
			db = db.Where(column+" >= ?", shared.TruncateToDay(from.UTC()))
		}
		if to, ok := filter.Filters["to"].(time.Time); ok {
			db = db.Where(column+" < ?", shared.TruncateToDay(to.UTC()).AddDate(0, 0, 1))
		}
		return db
	}
}

// Search matches a term case-insensitively against the given columns
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, c := range columns {
			conds[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

// sumDecimal returns SUM(column) over the query, zero when no row matches
func sumDecimal(query *gorm.DB, column string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := query.Select("SUM(" + column + ")").Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// translateError maps driver errors onto domain errors
func translateError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.CodeAlreadyExists, entity+" already exists")
	}
	return err
}

// versionConflict reports a stale optimistic lock
func versionConflict(entity string, id uuid.UUID, version int) error {
	return shared.ErrConcurrencyConflict.WithDetails(map[string]any{
		"entity":  entity,
		"id":      id,
		"version": version,
	})
}
