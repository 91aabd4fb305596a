package persistence

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
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

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"grand_total":    true,
	"balance":        true,
	"status":         true,
}

// SupplierBillSortFields contains allowed sort fields for supplier bills
var SupplierBillSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"bill_number": true,
	"bill_date":   true,
	"total":       true,
	"due_amount":  true,
	"status":      true,
}

// SalarySortFields contains allowed sort fields for salaries
var SalarySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"salary_month": true,
	"total_salary": true,
}

// paginate applies whitelisted ordering and the page window of filter.
// The id tiebreaker keeps pages stable when the sort column has duplicates.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if field != "id" {
		query = query.Order("id ASC")
	}
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
