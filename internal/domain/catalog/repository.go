package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// RawMaterialRepository defines the interface for raw material persistence
type RawMaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)
	FindByCode(ctx context.Context, code string) (*RawMaterial, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RawMaterial, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, material *RawMaterial) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FinishedGoodRepository defines the interface for finished good persistence
type FinishedGoodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinishedGood, error)
	FindByCode(ctx context.Context, code string) (*FinishedGood, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]FinishedGood, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, good *FinishedGood) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnitRepository defines the interface for unit persistence
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UnitOfMeasurement, error)
	FindByCode(ctx context.Context, code string) (*UnitOfMeasurement, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]UnitOfMeasurement, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, unit *UnitOfMeasurement) error
}
