package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies why stock changed
type MovementType string

const (
	MovementPurchaseReceipt MovementType = "PURCHASE_RECEIPT"
	MovementProductionIn    MovementType = "PRODUCTION_IN"
	MovementProductionOut   MovementType = "PRODUCTION_OUT"
	MovementSaleDelivery    MovementType = "SALE_DELIVERY"
	MovementAdjustment      MovementType = "ADJUSTMENT"
)

// ReferenceType names the document that caused a movement
type ReferenceType string

const (
	ReferencePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	ReferenceSalesOrder    ReferenceType = "SALES_ORDER"
	ReferenceWorkOrder     ReferenceType = "WORK_ORDER"
	ReferenceManual        ReferenceType = "MANUAL"
)

// StockMovement is an append-only ledger entry recording one stock change.
// Quantity is signed: positive for inbound, negative for outbound.
type StockMovement struct {
	shared.BaseEntity
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemType      ItemType        `gorm:"type:varchar(20);not null"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementType  MovementType    `gorm:"type:varchar(30);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	ReferenceType ReferenceType   `gorm:"type:varchar(30);not null"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid;index"`
	Notes         string          `gorm:"type:varchar(500)"`
	MovedAt       time.Time       `gorm:"not null"`
	MovedBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records one stock change against its causing document
func NewStockMovement(warehouseID uuid.UUID, itemType ItemType, itemID uuid.UUID,
	movementType MovementType, quantity decimal.Decimal,
	referenceType ReferenceType, referenceID *uuid.UUID) (*StockMovement, error) {

	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Warehouse ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Item ID cannot be empty")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("VALIDATION", "Movement quantity cannot be zero")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		WarehouseID:   warehouseID,
		ItemType:      itemType,
		ItemID:        itemID,
		MovementType:  movementType,
		Quantity:      quantity,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		MovedAt:       time.Now(),
	}, nil
}

// IsInbound reports whether the movement adds stock
func (m *StockMovement) IsInbound() bool {
	return m.Quantity.IsPositive()
}
