package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FinishedGood represents a manufactured, sellable product
type FinishedGood struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:varchar(500)"`
	UnitID       uuid.UUID       `gorm:"type:uuid;not null"`
	UnitCode     string          `gorm:"type:varchar(10);not null"`
	HSNCode      string          `gorm:"type:varchar(20)"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	CGSTPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:9"`
	SGSTPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:9"`
	IGSTPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (FinishedGood) TableName() string {
	return "finished_goods"
}

// NewFinishedGood creates a new finished good
func NewFinishedGood(code, name string, unitID uuid.UUID, unitCode string, sellingPrice decimal.Decimal) (*FinishedGood, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION", "Finished good code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "Finished good name cannot be empty")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Unit is required")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Selling price cannot be negative")
	}

	return &FinishedGood{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		UnitID:            unitID,
		UnitCode:          unitCode,
		SellingPrice:      sellingPrice,
		CGSTPercent:       decimal.NewFromInt(9),
		SGSTPercent:       decimal.NewFromInt(9),
		IGSTPercent:       decimal.Zero,
		IsActive:          true,
	}, nil
}

// UpdatePrice updates the selling price
func (g *FinishedGood) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Selling price cannot be negative")
	}
	g.SellingPrice = price
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// SetGSTRates sets the split tax rates. CGST+SGST applies to intra-state
// sales, IGST to inter-state; callers keep them mutually exclusive per
// transaction.
func (g *FinishedGood) SetGSTRates(cgst, sgst, igst decimal.Decimal) error {
	for _, p := range []decimal.Decimal{cgst, sgst, igst} {
		if p.IsNegative() {
			return shared.NewDomainError("VALIDATION", "Tax percent cannot be negative")
		}
	}
	g.CGSTPercent = cgst
	g.SGSTPercent = sgst
	g.IGSTPercent = igst
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// Deactivate removes the product from use on new documents
func (g *FinishedGood) Deactivate() {
	g.IsActive = false
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}
