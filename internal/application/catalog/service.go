package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfg-erp/backend/internal/domain/catalog"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// CreateRawMaterialCommand carries the fields for raw material creation
type CreateRawMaterialCommand struct {
	Code         string
	Name         string
	Description  string
	UnitID       uuid.UUID
	HSNCode      string
	UnitCost     decimal.Decimal
	TaxPercent   *decimal.Decimal
	ReorderLevel decimal.Decimal
}

// CreateFinishedGoodCommand carries the fields for finished good creation
type CreateFinishedGoodCommand struct {
	Code         string
	Name         string
	Description  string
	UnitID       uuid.UUID
	HSNCode      string
	SellingPrice decimal.Decimal
	CGSTPercent  *decimal.Decimal
	SGSTPercent  *decimal.Decimal
	IGSTPercent  *decimal.Decimal
}

// Service manages the raw material, finished good and unit catalogs
type Service struct {
	materials catalog.RawMaterialRepository
	goods     catalog.FinishedGoodRepository
	units     catalog.UnitRepository
	log       *zap.Logger
}

// NewService creates a catalog application service
func NewService(materials catalog.RawMaterialRepository, goods catalog.FinishedGoodRepository,
	units catalog.UnitRepository, log *zap.Logger) *Service {
	return &Service{materials: materials, goods: goods, units: units, log: log}
}

// CreateUnit registers a new unit of measurement
func (s *Service) CreateUnit(ctx context.Context, code, name, description string, userID uuid.UUID) (*catalog.UnitOfMeasurement, error) {
	exists, err := s.units.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("Unit", "code", code)
	}

	unit, err := catalog.NewUnitOfMeasurement(code, name)
	if err != nil {
		return nil, err
	}
	unit.Description = description
	unit.SetCreatedBy(userID)

	if err := s.units.Save(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnit returns a unit by ID
func (s *Service) GetUnit(ctx context.Context, id uuid.UUID) (*catalog.UnitOfMeasurement, error) {
	return s.units.FindByID(ctx, id)
}

// ListUnits returns units matching the filter
func (s *Service) ListUnits(ctx context.Context, filter shared.Filter) ([]catalog.UnitOfMeasurement, error) {
	return s.units.FindAll(ctx, filter)
}

// CreateRawMaterial registers a new raw material with a unique code.
// The unit must exist; its code is denormalized onto the material.
func (s *Service) CreateRawMaterial(ctx context.Context, cmd CreateRawMaterialCommand, userID uuid.UUID) (*catalog.RawMaterial, error) {
	exists, err := s.materials.ExistsByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("Raw material", "code", cmd.Code)
	}

	unit, err := s.units.FindByID(ctx, cmd.UnitID)
	if err != nil {
		return nil, shared.NewNotFoundError("Unit", "id", cmd.UnitID)
	}

	material, err := catalog.NewRawMaterial(cmd.Code, cmd.Name, unit.ID, unit.Code, cmd.UnitCost)
	if err != nil {
		return nil, err
	}
	material.Description = cmd.Description
	material.HSNCode = cmd.HSNCode
	if cmd.TaxPercent != nil {
		material.TaxPercent = *cmd.TaxPercent
	}
	if !cmd.ReorderLevel.IsZero() {
		if err := material.SetReorderLevel(cmd.ReorderLevel); err != nil {
			return nil, err
		}
	}
	material.SetCreatedBy(userID)

	if err := s.materials.Save(ctx, material); err != nil {
		return nil, err
	}
	s.log.Info("raw material created", zap.String("code", material.Code))
	return material, nil
}

// GetRawMaterial returns a raw material by ID
func (s *Service) GetRawMaterial(ctx context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	return s.materials.FindByID(ctx, id)
}

// ListRawMaterials returns raw materials matching the filter
func (s *Service) ListRawMaterials(ctx context.Context, filter shared.Filter) ([]catalog.RawMaterial, error) {
	return s.materials.FindAll(ctx, filter)
}

// UpdateRawMaterialCost updates the standard unit cost
func (s *Service) UpdateRawMaterialCost(ctx context.Context, id uuid.UUID, unitCost decimal.Decimal) (*catalog.RawMaterial, error) {
	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := material.UpdateCost(unitCost); err != nil {
		return nil, err
	}
	if err := s.materials.Save(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// DeleteRawMaterial soft-deletes a raw material
func (s *Service) DeleteRawMaterial(ctx context.Context, id uuid.UUID) error {
	if _, err := s.materials.FindByID(ctx, id); err != nil {
		return err
	}
	return s.materials.Delete(ctx, id)
}

// CreateFinishedGood registers a new finished good with a unique code
func (s *Service) CreateFinishedGood(ctx context.Context, cmd CreateFinishedGoodCommand, userID uuid.UUID) (*catalog.FinishedGood, error) {
	exists, err := s.goods.ExistsByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("Finished good", "code", cmd.Code)
	}

	unit, err := s.units.FindByID(ctx, cmd.UnitID)
	if err != nil {
		return nil, shared.NewNotFoundError("Unit", "id", cmd.UnitID)
	}

	good, err := catalog.NewFinishedGood(cmd.Code, cmd.Name, unit.ID, unit.Code, cmd.SellingPrice)
	if err != nil {
		return nil, err
	}
	good.Description = cmd.Description
	good.HSNCode = cmd.HSNCode
	if cmd.CGSTPercent != nil {
		good.CGSTPercent = *cmd.CGSTPercent
	}
	if cmd.SGSTPercent != nil {
		good.SGSTPercent = *cmd.SGSTPercent
	}
	if cmd.IGSTPercent != nil {
		good.IGSTPercent = *cmd.IGSTPercent
	}
	good.SetCreatedBy(userID)

	if err := s.goods.Save(ctx, good); err != nil {
		return nil, err
	}
	s.log.Info("finished good created", zap.String("code", good.Code))
	return good, nil
}

// GetFinishedGood returns a finished good by ID
func (s *Service) GetFinishedGood(ctx context.Context, id uuid.UUID) (*catalog.FinishedGood, error) {
	return s.goods.FindByID(ctx, id)
}

// ListFinishedGoods returns finished goods matching the filter
func (s *Service) ListFinishedGoods(ctx context.Context, filter shared.Filter) ([]catalog.FinishedGood, error) {
	return s.goods.FindAll(ctx, filter)
}

// UpdateFinishedGoodPrice updates the selling price
func (s *Service) UpdateFinishedGoodPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*catalog.FinishedGood, error) {
	good, err := s.goods.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := good.UpdatePrice(price); err != nil {
		return nil, err
	}
	if err := s.goods.Save(ctx, good); err != nil {
		return nil, err
	}
	return good, nil
}

// DeleteFinishedGood soft-deletes a finished good
func (s *Service) DeleteFinishedGood(ctx context.Context, id uuid.UUID) error {
	if _, err := s.goods.FindByID(ctx, id); err != nil {
		return err
	}
	return s.goods.Delete(ctx, id)
}
