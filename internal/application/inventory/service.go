package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfg-erp/backend/internal/domain/inventory"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// StockPosting describes one stock change requested by another context
type StockPosting struct {
	WarehouseID   uuid.UUID
	ItemType      inventory.ItemType
	ItemID        uuid.UUID
	ItemName      string
	ItemCode      string
	Unit          string
	Quantity      decimal.Decimal
	MovementType  inventory.MovementType
	ReferenceType inventory.ReferenceType
	ReferenceID   *uuid.UUID
}

// Service orchestrates stock records and the movement ledger.
// Procurement, sales and manufacturing post their stock effects through it.
type Service struct {
	items     inventory.StockItemRepository
	movements inventory.StockMovementRepository
	log       *zap.Logger
}

// NewService creates an inventory application service
func NewService(items inventory.StockItemRepository, movements inventory.StockMovementRepository, log *zap.Logger) *Service {
	return &Service{items: items, movements: movements, log: log}
}

// GetStock returns the stock record for an item in a warehouse
func (s *Service) GetStock(ctx context.Context, warehouseID uuid.UUID, itemType inventory.ItemType, itemID uuid.UUID) (*inventory.StockItem, error) {
	return s.items.FindByLocation(ctx, warehouseID, itemType, itemID)
}

// ListByWarehouse returns all stock records in a warehouse
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	return s.items.FindByWarehouse(ctx, warehouseID, filter)
}

// ListByItem returns stock records for an item across warehouses
func (s *Service) ListByItem(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID) ([]inventory.StockItem, error) {
	return s.items.FindByItem(ctx, itemType, itemID)
}

// ListMovements returns the movement history for an item
func (s *Service) ListMovements(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	return s.movements.FindByItem(ctx, itemType, itemID, filter)
}

// ListMovementsByReference returns the movements posted by a source document
func (s *Service) ListMovementsByReference(ctx context.Context, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	return s.movements.FindByReference(ctx, referenceType, referenceID)
}

// Receive adds quantity to stock, creating the record on first receipt,
// and appends a ledger entry
func (s *Service) Receive(ctx context.Context, posting StockPosting, userID uuid.UUID) error {
	item, created, err := s.findOrCreate(ctx, posting)
	if err != nil {
		return err
	}

	expected := item.Version
	if err := item.Receive(posting.Quantity); err != nil {
		return err
	}
	if created {
		if err := s.items.Save(ctx, item); err != nil {
			return err
		}
	} else if err := s.items.SaveWithLock(ctx, item, expected); err != nil {
		return err
	}

	return s.appendMovement(ctx, posting, posting.Quantity, userID)
}

// Reserve earmarks available stock for a confirmed order.
// Shortfall surfaces the domain InsufficientStockError unchanged.
func (s *Service) Reserve(ctx context.Context, posting StockPosting, userID uuid.UUID) error {
	item, err := s.items.FindByLocation(ctx, posting.WarehouseID, posting.ItemType, posting.ItemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewInsufficientStockError(posting.ItemName, posting.ItemCode,
				posting.Quantity, decimal.Zero)
		}
		return err
	}

	expected := item.Version
	if err := item.Reserve(posting.Quantity); err != nil {
		return err
	}
	return s.items.SaveWithLock(ctx, item, expected)
}

// Release returns reserved stock to the available pool
func (s *Service) Release(ctx context.Context, posting StockPosting, userID uuid.UUID) error {
	item, err := s.items.FindByLocation(ctx, posting.WarehouseID, posting.ItemType, posting.ItemID)
	if err != nil {
		return err
	}

	expected := item.Version
	if err := item.Release(posting.Quantity); err != nil {
		return err
	}
	return s.items.SaveWithLock(ctx, item, expected)
}

// Issue removes quantity from stock and appends an outbound ledger entry.
// fromReservation consumes the reserved pool, otherwise free stock is used.
func (s *Service) Issue(ctx context.Context, posting StockPosting, fromReservation bool, userID uuid.UUID) error {
	item, err := s.items.FindByLocation(ctx, posting.WarehouseID, posting.ItemType, posting.ItemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewInsufficientStockError(posting.ItemName, posting.ItemCode,
				posting.Quantity, decimal.Zero)
		}
		return err
	}

	expected := item.Version
	if err := item.Issue(posting.Quantity, fromReservation); err != nil {
		return err
	}
	if err := s.items.SaveWithLock(ctx, item, expected); err != nil {
		return err
	}

	return s.appendMovement(ctx, posting, posting.Quantity.Neg(), userID)
}

// Adjust applies a manual correction, signed quantity, and records it
func (s *Service) Adjust(ctx context.Context, posting StockPosting, userID uuid.UUID) error {
	if posting.Quantity.IsZero() {
		return shared.NewDomainError("VALIDATION", "Adjustment quantity cannot be zero")
	}

	posting.MovementType = inventory.MovementAdjustment
	posting.ReferenceType = inventory.ReferenceManual

	if posting.Quantity.IsPositive() {
		return s.Receive(ctx, posting, userID)
	}

	item, err := s.items.FindByLocation(ctx, posting.WarehouseID, posting.ItemType, posting.ItemID)
	if err != nil {
		return err
	}
	expected := item.Version
	if err := item.Issue(posting.Quantity.Neg(), false); err != nil {
		return err
	}
	if err := s.items.SaveWithLock(ctx, item, expected); err != nil {
		return err
	}
	return s.appendMovement(ctx, posting, posting.Quantity, userID)
}

func (s *Service) findOrCreate(ctx context.Context, posting StockPosting) (*inventory.StockItem, bool, error) {
	item, err := s.items.FindByLocation(ctx, posting.WarehouseID, posting.ItemType, posting.ItemID)
	if err == nil {
		return item, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	item, err = inventory.NewStockItem(posting.WarehouseID, posting.ItemType, posting.ItemID,
		posting.ItemName, posting.ItemCode, posting.Unit)
	if err != nil {
		return nil, false, err
	}
	s.log.Info("created stock record",
		zap.String("warehouse_id", posting.WarehouseID.String()),
		zap.String("item_code", posting.ItemCode),
	)
	return item, true, nil
}

func (s *Service) appendMovement(ctx context.Context, posting StockPosting, signedQty decimal.Decimal, userID uuid.UUID) error {
	movement, err := inventory.NewStockMovement(posting.WarehouseID, posting.ItemType, posting.ItemID,
		posting.MovementType, signedQty, posting.ReferenceType, posting.ReferenceID)
	if err != nil {
		return err
	}
	movement.MovedBy = &userID
	return s.movements.Save(ctx, movement)
}
