package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfg-erp/backend/internal/domain/manufacturing"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// GormBomRepository implements manufacturing.BomRepository using GORM
type GormBomRepository struct {
	db *gorm.DB
}

// NewGormBomRepository creates a new BOM repository
func NewGormBomRepository(db *gorm.DB) *GormBomRepository {
	return &GormBomRepository{db: db}
}

var _ manufacturing.BomRepository = (*GormBomRepository)(nil)

// FindByID finds a BOM with its components
func (r *GormBomRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.BomHeader, error) {
	var bom manufacturing.BomHeader
	err := r.db.WithContext(ctx).
		Preload("Components").
		Where("id = ? AND is_deleted = false", id).
		First(&bom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// FindByCode finds a BOM by its unique code
func (r *GormBomRepository) FindByCode(ctx context.Context, code string) (*manufacturing.BomHeader, error) {
	var bom manufacturing.BomHeader
	err := r.db.WithContext(ctx).
		Preload("Components").
		Where("code = ? AND is_deleted = false", code).
		First(&bom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// FindByFinishedGood returns all BOM versions for a finished good
func (r *GormBomRepository) FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) ([]manufacturing.BomHeader, error) {
	var boms []manufacturing.BomHeader
	err := r.db.WithContext(ctx).
		Preload("Components").
		Where("finished_good_id = ? AND is_deleted = false", finishedGoodID).
		Order("bom_version DESC").
		Find(&boms).Error
	if err != nil {
		return nil, err
	}
	return boms, nil
}

// FindActiveByFinishedGood returns the active BOM for a finished good.
// At most one version per product is active at a time.
func (r *GormBomRepository) FindActiveByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) (*manufacturing.BomHeader, error) {
	var bom manufacturing.BomHeader
	err := r.db.WithContext(ctx).
		Preload("Components").
		Where("finished_good_id = ? AND is_active = true AND is_deleted = false", finishedGoodID).
		First(&bom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// FindAll returns a page of BOMs with the total count
func (r *GormBomRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.BomHeader], error) {
	base := r.db.WithContext(ctx).
		Model(&manufacturing.BomHeader{}).
		Where("is_deleted = false")
	base = applySearch(base, filter.Search, "code", "name", "finished_good_name")

	var total int64
	if err := applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var boms []manufacturing.BomHeader
	query := applyFilter(base.Session(&gorm.Session{}), filter).Preload("Components")
	if err := query.Find(&boms).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(boms, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByCode checks whether a BOM with the code exists
func (r *GormBomRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&manufacturing.BomHeader{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// Save persists a BOM and its components
func (r *GormBomRepository) Save(ctx context.Context, bom *manufacturing.BomHeader) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Components").Save(bom).Error; err != nil {
			return err
		}
		return replaceBomComponents(tx, bom)
	})
}

// SaveWithLock persists a BOM only if the stored version matches
func (r *GormBomRepository) SaveWithLock(ctx context.Context, bom *manufacturing.BomHeader, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&manufacturing.BomHeader{}).
			Where("id = ? AND version = ?", bom.ID, expectedVersion).
			Select("*").
			Omit("Components").
			Updates(bom)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return replaceBomComponents(tx, bom)
	})
}

// Delete soft-deletes a BOM
func (r *GormBomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&manufacturing.BomHeader{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func replaceBomComponents(tx *gorm.DB, bom *manufacturing.BomHeader) error {
	if err := tx.Where("bom_id = ?", bom.ID).
		Delete(&manufacturing.BomComponent{}).Error; err != nil {
		return err
	}
	if len(bom.Components) == 0 {
		return nil
	}
	return tx.Create(&bom.Components).Error
}

// GormWorkOrderRepository implements manufacturing.WorkOrderRepository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new work order repository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

var _ manufacturing.WorkOrderRepository = (*GormWorkOrderRepository)(nil)

// FindByID finds a work order by ID
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.WorkOrder, error) {
	var wo manufacturing.WorkOrder
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&wo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// FindByWorkOrderNumber finds a work order by its document number
func (r *GormWorkOrderRepository) FindByWorkOrderNumber(ctx context.Context, workOrderNumber string) (*manufacturing.WorkOrder, error) {
	var wo manufacturing.WorkOrder
	err := r.db.WithContext(ctx).
		Where("work_order_number = ? AND is_deleted = false", workOrderNumber).
		First(&wo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// FindAll returns a page of work orders with the total count
func (r *GormWorkOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.WorkOrder], error) {
	base := r.db.WithContext(ctx).
		Model(&manufacturing.WorkOrder{}).
		Where("is_deleted = false")
	base = applySearch(base, filter.Search, "work_order_number", "finished_good_name")

	var total int64
	if err := applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []manufacturing.WorkOrder
	query := applyFilter(base.Session(&gorm.Session{}), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByStatus returns work orders in the given status
func (r *GormWorkOrderRepository) FindByStatus(ctx context.Context, status manufacturing.WorkOrderStatus, filter shared.Filter) ([]manufacturing.WorkOrder, error) {
	var orders []manufacturing.WorkOrder
	query := r.db.WithContext(ctx).
		Where("status = ? AND is_deleted = false", status)
	query = applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByFinishedGood returns work orders producing a finished good
func (r *GormWorkOrderRepository) FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID, filter shared.Filter) ([]manufacturing.WorkOrder, error) {
	var orders []manufacturing.WorkOrder
	query := r.db.WithContext(ctx).
		Where("finished_good_id = ? AND is_deleted = false", finishedGoodID)
	query = applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ExistsByWorkOrderNumber checks whether a work order number is already taken
func (r *GormWorkOrderRepository) ExistsByWorkOrderNumber(ctx context.Context, workOrderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&manufacturing.WorkOrder{}).
		Where("work_order_number = ?", workOrderNumber).
		Count(&count).Error
	return count > 0, err
}

// Save persists a work order
func (r *GormWorkOrderRepository) Save(ctx context.Context, workOrder *manufacturing.WorkOrder) error {
	return r.db.WithContext(ctx).Save(workOrder).Error
}

// SaveWithLock persists a work order only if the stored version matches
func (r *GormWorkOrderRepository) SaveWithLock(ctx context.Context, workOrder *manufacturing.WorkOrder, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&manufacturing.WorkOrder{}).
		Where("id = ? AND version = ?", workOrder.ID, expectedVersion).
		Select("*").
		Updates(workOrder)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete soft-deletes a work order
func (r *GormWorkOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&manufacturing.WorkOrder{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// CountByStatus returns the number of work orders in the given status
func (r *GormWorkOrderRepository) CountByStatus(ctx context.Context, status manufacturing.WorkOrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&manufacturing.WorkOrder{}).
		Where("status = ? AND is_deleted = false", status).
		Count(&count).Error
	return count, err
}
