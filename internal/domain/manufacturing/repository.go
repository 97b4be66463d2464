package manufacturing

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// BomRepository defines the interface for BOM persistence
type BomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BomHeader, error)
	FindByCode(ctx context.Context, code string) (*BomHeader, error)
	FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) ([]BomHeader, error)
	FindActiveByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) (*BomHeader, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[BomHeader], error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, bom *BomHeader) error
	SaveWithLock(ctx context.Context, bom *BomHeader, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkOrderRepository defines the interface for work order persistence
type WorkOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	FindByWorkOrderNumber(ctx context.Context, workOrderNumber string) (*WorkOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[WorkOrder], error)
	FindByStatus(ctx context.Context, status WorkOrderStatus, filter shared.Filter) ([]WorkOrder, error)
	FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID, filter shared.Filter) ([]WorkOrder, error)
	ExistsByWorkOrderNumber(ctx context.Context, workOrderNumber string) (bool, error)
	Save(ctx context.Context, workOrder *WorkOrder) error
	SaveWithLock(ctx context.Context, workOrder *WorkOrder, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status WorkOrderStatus) (int64, error)
}
