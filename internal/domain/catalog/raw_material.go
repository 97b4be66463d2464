package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RawMaterial represents a purchasable input material.
// UnitCost is the standard cost used for BOM material-cost estimation until
// an actual purchase price overrides it.
type RawMaterial struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:varchar(500)"`
	UnitID       uuid.UUID       `gorm:"type:uuid;not null"`
	UnitCode     string          `gorm:"type:varchar(10);not null"`
	HSNCode      string          `gorm:"type:varchar(20)"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TaxPercent   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:18"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RawMaterial) TableName() string {
	return "raw_materials"
}

// NewRawMaterial creates a new raw material
func NewRawMaterial(code, name string, unitID uuid.UUID, unitCode string, unitCost decimal.Decimal) (*RawMaterial, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION", "Raw material code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "Raw material name cannot be empty")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Unit is required")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Unit cost cannot be negative")
	}

	return &RawMaterial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		UnitID:            unitID,
		UnitCode:          unitCode,
		UnitCost:          unitCost,
		TaxPercent:        decimal.NewFromInt(18),
		IsActive:          true,
	}, nil
}

// UpdateCost updates the standard unit cost
func (m *RawMaterial) UpdateCost(unitCost decimal.Decimal) error {
	if unitCost.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Unit cost cannot be negative")
	}
	m.UnitCost = unitCost
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// SetReorderLevel sets the quantity below which restocking is flagged
func (m *RawMaterial) SetReorderLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Reorder level cannot be negative")
	}
	m.ReorderLevel = level
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Deactivate removes the material from use on new documents
func (m *RawMaterial) Deactivate() {
	m.IsActive = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}
