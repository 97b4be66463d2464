package catalog

import (
	"strings"
	"time"

	"github.com/mfg-erp/backend/internal/domain/shared"
)

// UnitOfMeasurement represents a unit in which materials and goods are
// counted (pcs, kg, m, ltr).
type UnitOfMeasurement struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(50);not null"`
	Description string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (UnitOfMeasurement) TableName() string {
	return "units_of_measurement"
}

// NewUnitOfMeasurement creates a new unit
func NewUnitOfMeasurement(code, name string) (*UnitOfMeasurement, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION", "Unit code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "Unit name cannot be empty")
	}

	return &UnitOfMeasurement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToLower(code),
		Name:              name,
	}, nil
}

// Rename updates the display name
func (u *UnitOfMeasurement) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION", "Unit name cannot be empty")
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}
