package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfg-erp/backend/internal/domain/sales"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// GormSalesOrderRepository implements sales.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new sales order repository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

var _ sales.SalesOrderRepository = (*GormSalesOrderRepository)(nil)

// FindByID finds a sales order with its line items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND is_deleted = false", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a sales order by its document number
func (r *GormSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ? AND is_deleted = false", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll returns a page of sales orders with the total count
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[sales.SalesOrder], error) {
	base := r.db.WithContext(ctx).
		Model(&sales.SalesOrder{}).
		Where("is_deleted = false")
	base = applySearch(base, filter.Search, "order_number", "customer_name")

	var total int64
	if err := applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []sales.SalesOrder
	query := applyFilter(base.Session(&gorm.Session{}), filter).Preload("Items")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByCustomer returns sales orders for a customer
func (r *GormSalesOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ? AND is_deleted = false", customerID)
	query = applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus returns sales orders in the given status
func (r *GormSalesOrderRepository) FindByStatus(ctx context.Context, status sales.SalesOrderStatus, filter shared.Filter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND is_deleted = false", status)
	query = applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ExistsByOrderNumber checks whether an order number is already taken
func (r *GormSalesOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sales.SalesOrder{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	return count > 0, err
}

// Save persists a sales order and its line items
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *sales.SalesOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return replaceSalesOrderItems(tx, order)
	})
}

// SaveWithLock persists a sales order only if the stored version matches
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *sales.SalesOrder, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sales.SalesOrder{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Select("*").
			Omit("Items").
			Updates(order)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return replaceSalesOrderItems(tx, order)
	})
}

// Delete soft-deletes a sales order
func (r *GormSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&sales.SalesOrder{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// CountByStatus returns the number of orders in the given status
func (r *GormSalesOrderRepository) CountByStatus(ctx context.Context, status sales.SalesOrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sales.SalesOrder{}).
		Where("status = ? AND is_deleted = false", status).
		Count(&count).Error
	return count, err
}

func replaceSalesOrderItems(tx *gorm.DB, order *sales.SalesOrder) error {
	if err := tx.Where("order_id = ?", order.ID).
		Delete(&sales.SalesOrderItem{}).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	return tx.Create(&order.Items).Error
}
