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

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"full_name":     true,
	"role":          true,
	"branch_id":     true,
	"active":        true,
	"last_login_at": true,
}

// BranchSortFields contains allowed sort fields for branches
var BranchSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"active":     true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"category":   true,
	"price":      true,
	"stock":      true,
	"visible":    true,
	"drop_id":    true,
}

// DropSortFields contains allowed sort fields for drops
var DropSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"status":      true,
	"featured":    true,
	"launch_date": true,
	"end_date":    true,
}

// StockEntrySortFields contains allowed sort fields for stock entries
var StockEntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"variant_id": true,
	"branch_id":  true,
	"quantity":   true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"variant_id":   true,
	"branch_id":    true,
	"type":         true,
	"quantity":     true,
	"reference_id": true,
}

// CashRegisterSortFields contains allowed sort fields for cash registers
var CashRegisterSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"branch_id":  true,
	"status":     true,
	"opened_at":  true,
	"closed_at":  true,
}

// CashMovementSortFields contains allowed sort fields for cash movements
var CashMovementSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"register_id":    true,
	"type":           true,
	"payment_method": true,
	"amount":         true,
}

// OrderSortFields contains allowed sort fields for storefront orders
var OrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"user_id":    true,
	"status":     true,
	"total":      true,
}

// SaleSortFields contains allowed sort fields for POS sales
var SaleSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"branch_id":    true,
	"register_id":  true,
	"sale_date":    true,
	"payment_type": true,
	"subtotal":     true,
	"total":        true,
}
