package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemType tags which catalog an item reference points into
type ItemType string

const (
	ItemTypeRawMaterial  ItemType = "RAW_MATERIAL"
	ItemTypeFinishedGood ItemType = "FINISHED_GOOD"
)

// StockItem tracks the on-hand and reserved quantity of one item in one
// warehouse. Available quantity is always derived, never stored.
type StockItem struct {
	shared.BaseAggregateRoot
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_loc,priority:1"`
	ItemType    ItemType        `gorm:"type:varchar(20);not null;uniqueIndex:idx_stock_item_loc,priority:2"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_loc,priority:3"`
	ItemName    string          `gorm:"type:varchar(200);not null"`
	ItemCode    string          `gorm:"type:varchar(50);not null"`
	Unit        string          `gorm:"type:varchar(10);not null"`
	OnHand      decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0"`
	Reserved    decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates an empty stock record for an item in a warehouse
func NewStockItem(warehouseID uuid.UUID, itemType ItemType, itemID uuid.UUID, itemName, itemCode, unit string) (*StockItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Warehouse ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Item ID cannot be empty")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		ItemType:          itemType,
		ItemID:            itemID,
		ItemName:          itemName,
		ItemCode:          itemCode,
		Unit:              unit,
		OnHand:            decimal.Zero,
		Reserved:          decimal.Zero,
	}, nil
}

// Available returns the quantity free for new reservations
func (s *StockItem) Available() decimal.Decimal {
	return s.OnHand.Sub(s.Reserved)
}

// Receive adds received quantity to the on-hand balance
func (s *StockItem) Receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Receive quantity must be positive")
	}
	s.OnHand = s.OnHand.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Reserve earmarks available quantity for a sales order or work order.
// Shortfall returns an InsufficientStockError carrying item and quantity
// details for the caller to surface.
func (s *StockItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Reserve quantity must be positive")
	}
	available := s.Available()
	if quantity.GreaterThan(available) {
		return shared.NewInsufficientStockError(s.ItemName, s.ItemCode, quantity, available)
	}
	s.Reserved = s.Reserved.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Release returns previously reserved quantity to the available pool
func (s *StockItem) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Release quantity must be positive")
	}
	if quantity.GreaterThan(s.Reserved) {
		return shared.NewDomainError("VALIDATION", "Cannot release more than reserved quantity")
	}
	s.Reserved = s.Reserved.Sub(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Issue consumes quantity out of stock (production consumption, delivery).
// Reserved quantity is drawn down first when the issue was reserved.
func (s *StockItem) Issue(quantity decimal.Decimal, fromReservation bool) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Issue quantity must be positive")
	}
	if fromReservation {
		if quantity.GreaterThan(s.Reserved) {
			return shared.NewDomainError("VALIDATION", "Cannot issue more than reserved quantity")
		}
		s.Reserved = s.Reserved.Sub(quantity)
	} else if quantity.GreaterThan(s.Available()) {
		return shared.NewInsufficientStockError(s.ItemName, s.ItemCode, quantity, s.Available())
	}
	if quantity.GreaterThan(s.OnHand) {
		return shared.NewInsufficientStockError(s.ItemName, s.ItemCode, quantity, s.OnHand)
	}
	s.OnHand = s.OnHand.Sub(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
