package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfg-erp/backend/internal/domain/catalog"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// GormRawMaterialRepository implements catalog.RawMaterialRepository using GORM
type GormRawMaterialRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialRepository creates a new raw material repository
func NewGormRawMaterialRepository(db *gorm.DB) *GormRawMaterialRepository {
	return &GormRawMaterialRepository{db: db}
}

var _ catalog.RawMaterialRepository = (*GormRawMaterialRepository)(nil)

// FindByID finds a raw material by ID
func (r *GormRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	var material catalog.RawMaterial
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByCode finds a raw material by its unique code
func (r *GormRawMaterialRepository) FindByCode(ctx context.Context, code string) (*catalog.RawMaterial, error) {
	var material catalog.RawMaterial
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_deleted = false", code).
		First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindAll returns raw materials matching the filter
func (r *GormRawMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.RawMaterial, error) {
	var materials []catalog.RawMaterial
	query := r.db.WithContext(ctx).Where("is_deleted = false")
	query = applySearch(query, filter.Search, "code", "name")
	query = applyFilter(query, filter)
	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// ExistsByCode checks whether a raw material with the code exists
func (r *GormRawMaterialRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.RawMaterial{}).
		Where("code = ? AND is_deleted = false", code).
		Count(&count).Error
	return count > 0, err
}

// Save persists a raw material
func (r *GormRawMaterialRepository) Save(ctx context.Context, material *catalog.RawMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// Delete soft-deletes a raw material
func (r *GormRawMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&catalog.RawMaterial{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// GormFinishedGoodRepository implements catalog.FinishedGoodRepository using GORM
type GormFinishedGoodRepository struct {
	db *gorm.DB
}

// NewGormFinishedGoodRepository creates a new finished good repository
func NewGormFinishedGoodRepository(db *gorm.DB) *GormFinishedGoodRepository {
	return &GormFinishedGoodRepository{db: db}
}

var _ catalog.FinishedGoodRepository = (*GormFinishedGoodRepository)(nil)

// FindByID finds a finished good by ID
func (r *GormFinishedGoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.FinishedGood, error) {
	var good catalog.FinishedGood
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&good).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindByCode finds a finished good by its unique code
func (r *GormFinishedGoodRepository) FindByCode(ctx context.Context, code string) (*catalog.FinishedGood, error) {
	var good catalog.FinishedGood
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_deleted = false", code).
		First(&good).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindAll returns finished goods matching the filter
func (r *GormFinishedGoodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.FinishedGood, error) {
	var goods []catalog.FinishedGood
	query := r.db.WithContext(ctx).Where("is_deleted = false")
	query = applySearch(query, filter.Search, "code", "name")
	query = applyFilter(query, filter)
	if err := query.Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// ExistsByCode checks whether a finished good with the code exists
func (r *GormFinishedGoodRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.FinishedGood{}).
		Where("code = ? AND is_deleted = false", code).
		Count(&count).Error
	return count > 0, err
}

// Save persists a finished good
func (r *GormFinishedGoodRepository) Save(ctx context.Context, good *catalog.FinishedGood) error {
	return r.db.WithContext(ctx).Save(good).Error
}

// Delete soft-deletes a finished good
func (r *GormFinishedGoodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&catalog.FinishedGood{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// GormUnitRepository implements catalog.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new unit repository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

var _ catalog.UnitRepository = (*GormUnitRepository)(nil)

// FindByID finds a unit by ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.UnitOfMeasurement, error) {
	var unit catalog.UnitOfMeasurement
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByCode finds a unit by its unique code
func (r *GormUnitRepository) FindByCode(ctx context.Context, code string) (*catalog.UnitOfMeasurement, error) {
	var unit catalog.UnitOfMeasurement
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_deleted = false", code).
		First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindAll returns units matching the filter
func (r *GormUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.UnitOfMeasurement, error) {
	var units []catalog.UnitOfMeasurement
	query := r.db.WithContext(ctx).Where("is_deleted = false")
	query = applySearch(query, filter.Search, "code", "name")
	query = applyFilter(query, filter)
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// ExistsByCode checks whether a unit with the code exists
func (r *GormUnitRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&catalog.UnitOfMeasurement{}).
		Where("code = ? AND is_deleted = false", code).
		Count(&count).Error
	return count > 0, err
}

// Save persists a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *catalog.UnitOfMeasurement) error {
	return r.db.WithContext(ctx).Save(unit).Error
}
