package partner

import (
	"strings"
	"time"

	"github.com/mfg-erp/backend/internal/domain/shared"
)

// WarehouseType distinguishes raw-material stores from finished-goods stores
type WarehouseType string

const (
	WarehouseTypeRawMaterial   WarehouseType = "RAW_MATERIAL"
	WarehouseTypeFinishedGoods WarehouseType = "FINISHED_GOODS"
	WarehouseTypeGeneral       WarehouseType = "GENERAL"
)

// Warehouse represents a physical storage location
type Warehouse struct {
	shared.BaseAggregateRoot
	Code     string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string        `gorm:"type:varchar(200);not null"`
	Type     WarehouseType `gorm:"type:varchar(20);not null;default:'GENERAL'"`
	Address  string        `gorm:"type:text"`
	City     string        `gorm:"type:varchar(100)"`
	IsActive bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string, whType WarehouseType) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION", "Warehouse code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "Warehouse name cannot be empty")
	}
	switch whType {
	case WarehouseTypeRawMaterial, WarehouseTypeFinishedGoods, WarehouseTypeGeneral:
	default:
		return nil, shared.NewDomainError("VALIDATION", "Invalid warehouse type")
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Type:              whType,
		IsActive:          true,
	}, nil
}

// Deactivate marks the warehouse as unusable for new documents
func (w *Warehouse) Deactivate() {
	w.IsActive = false
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}
