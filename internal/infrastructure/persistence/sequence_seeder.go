package persistence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
)

// GormSequenceSeeder recovers the highest issued document sequence from the
// document tables. Used to reseed the Redis counters after a flush.
type GormSequenceSeeder struct {
	db *gorm.DB
}

// NewGormSequenceSeeder creates a sequence seeder backed by the database
func NewGormSequenceSeeder(db *gorm.DB) *GormSequenceSeeder {
	return &GormSequenceSeeder{db: db}
}

var _ numbering.SequenceSeeder = (*GormSequenceSeeder)(nil)

// LastSequence returns the highest sequence issued for a prefix and year,
// or 0 when no document exists yet
func (s *GormSequenceSeeder) LastSequence(ctx context.Context, prefix string, year int) (int64, error) {
	table, column, err := documentTable(prefix)
	if err != nil {
		return 0, err
	}

	var max string
	err = s.db.WithContext(ctx).
		Table(table).
		Where(column+" LIKE ?", fmt.Sprintf("%s-%d-%%", prefix, year)).
		Select("COALESCE(MAX(" + column + "), '')").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == "" {
		return 0, nil
	}

	idx := strings.LastIndex(max, "-")
	if idx < 0 || idx == len(max)-1 {
		return 0, fmt.Errorf("malformed document number %q in %s", max, table)
	}
	seq, err := strconv.ParseInt(max[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed document number %q in %s: %w", max, table, err)
	}
	return seq, nil
}

func documentTable(prefix string) (table, column string, err error) {
	switch prefix {
	case numbering.PrefixPurchaseOrder:
		return "purchase_orders", "order_number", nil
	case numbering.PrefixSalesOrder:
		return "sales_orders", "order_number", nil
	case numbering.PrefixWorkOrder:
		return "work_orders", "work_order_number", nil
	case numbering.PrefixInvoice:
		return "invoices", "invoice_number", nil
	default:
		return "", "", fmt.Errorf("unknown document prefix %q", prefix)
	}
}
