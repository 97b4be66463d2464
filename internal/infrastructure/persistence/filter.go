package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mfg-erp/backend/internal/domain/shared"
)

// sortableColumns is the allow-list for ORDER BY; anything else falls back
// to created_at to keep user input out of the SQL.
var sortableColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"order_number":   true,
	"invoice_number": true,
	"order_date":     true,
	"invoice_date":   true,
	"status":         true,
	"grand_total":    true,
}

// applyFilter applies sorting, pagination and field filters to a query
func applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	db = applyFilterWithoutPagination(db, filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return db.Offset((page - 1) * pageSize).Limit(pageSize)
}

// applyFilterWithoutPagination applies sorting and field filters only,
// used for counting before pagination
func applyFilterWithoutPagination(db *gorm.DB, filter shared.Filter) *gorm.DB {
	for field, value := range filter.Filters {
		if sortableColumns[field] {
			db = db.Where(fmt.Sprintf("%s = ?", field), value)
		}
	}

	orderBy := filter.OrderBy
	if !sortableColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	return db.Order(fmt.Sprintf("%s %s", orderBy, dir))
}

// applySearch adds a case-insensitive match over the given columns
func applySearch(db *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + search + "%"
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conds[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}
