package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfg-erp/backend/internal/domain/inventory"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// GormStockItemRepository implements inventory.StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new stock item repository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)

// FindByID finds a stock record by ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByLocation finds the stock record for an item in a warehouse.
// At most one row exists per (warehouse, item_type, item_id).
func (r *GormStockItemRepository) FindByLocation(ctx context.Context, warehouseID uuid.UUID, itemType inventory.ItemType, itemID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND item_type = ? AND item_id = ? AND is_deleted = false",
			warehouseID, itemType, itemID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByWarehouse returns all stock records in a warehouse
func (r *GormStockItemRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND is_deleted = false", warehouseID)
	query = applySearch(query, filter.Search, "item_code", "item_name")
	query = applyFilter(query, filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByItem returns stock records for an item across all warehouses
func (r *GormStockItemRepository) FindByItem(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	err := r.db.WithContext(ctx).
		Where("item_type = ? AND item_id = ? AND is_deleted = false", itemType, itemID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists a stock record
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock updates a stock record only if the stored version matches.
// Returns ErrConcurrencyConflict when another writer got there first.
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Where("id = ? AND version = ?", item.ID, expectedVersion).
		Select("*").
		Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GormStockMovementRepository implements inventory.StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new stock movement repository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)

// FindByItem returns the movement history for an item, newest first
func (r *GormStockMovementRepository) FindByItem(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).
		Where("item_type = ? AND item_id = ?", itemType, itemID)
	query = applyFilter(query, filter)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByReference returns the movements posted by a source document
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// Save appends a movement to the ledger. Movements are never updated.
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}
