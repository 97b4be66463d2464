package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// StockItemRepository defines the interface for stock record persistence
type StockItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	FindByLocation(ctx context.Context, warehouseID uuid.UUID, itemType ItemType, itemID uuid.UUID) (*StockItem, error)
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockItem, error)
	FindByItem(ctx context.Context, itemType ItemType, itemID uuid.UUID) ([]StockItem, error)
	Save(ctx context.Context, item *StockItem) error
	SaveWithLock(ctx context.Context, item *StockItem, expectedVersion int) error
}

// StockMovementRepository defines the interface for the movement ledger
type StockMovementRepository interface {
	FindByItem(ctx context.Context, itemType ItemType, itemID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	FindByReference(ctx context.Context, referenceType ReferenceType, referenceID uuid.UUID) ([]StockMovement, error)
	Save(ctx context.Context, movement *StockMovement) error
}
