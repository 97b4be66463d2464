package manufacturing

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	inventoryapp "github.com/mfg-erp/backend/internal/application/inventory"
	"github.com/mfg-erp/backend/internal/domain/catalog"
	"github.com/mfg-erp/backend/internal/domain/inventory"
	"github.com/mfg-erp/backend/internal/domain/manufacturing"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
)

type mockBomRepo struct{ mock.Mock }

func (m *mockBomRepo) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.BomHeader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manufacturing.BomHeader), args.Error(1)
}

func (m *mockBomRepo) FindByCode(ctx context.Context, code string) (*manufacturing.BomHeader, error) {
	args := m.Called(ctx, code)
	return nil, args.Error(1)
}

func (m *mockBomRepo) FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) ([]manufacturing.BomHeader, error) {
	args := m.Called(ctx, finishedGoodID)
	return nil, args.Error(1)
}

func (m *mockBomRepo) FindActiveByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID) (*manufacturing.BomHeader, error) {
	args := m.Called(ctx, finishedGoodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manufacturing.BomHeader), args.Error(1)
}

func (m *mockBomRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.BomHeader], error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *mockBomRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockBomRepo) Save(ctx context.Context, bom *manufacturing.BomHeader) error {
	return m.Called(ctx, bom).Error(0)
}

func (m *mockBomRepo) SaveWithLock(ctx context.Context, bom *manufacturing.BomHeader, expectedVersion int) error {
	return m.Called(ctx, bom, expectedVersion).Error(0)
}

func (m *mockBomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockWorkOrderRepo struct{ mock.Mock }

func (m *mockWorkOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manufacturing.WorkOrder), args.Error(1)
}

func (m *mockWorkOrderRepo) FindByWorkOrderNumber(ctx context.Context, workOrderNumber string) (*manufacturing.WorkOrder, error) {
	args := m.Called(ctx, workOrderNumber)
	return nil, args.Error(1)
}

func (m *mockWorkOrderRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.WorkOrder], error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *mockWorkOrderRepo) FindByStatus(ctx context.Context, status manufacturing.WorkOrderStatus, filter shared.Filter) ([]manufacturing.WorkOrder, error) {
	args := m.Called(ctx, status, filter)
	return nil, args.Error(1)
}

func (m *mockWorkOrderRepo) FindByFinishedGood(ctx context.Context, finishedGoodID uuid.UUID, filter shared.Filter) ([]manufacturing.WorkOrder, error) {
	args := m.Called(ctx, finishedGoodID, filter)
	return nil, args.Error(1)
}

func (m *mockWorkOrderRepo) ExistsByWorkOrderNumber(ctx context.Context, workOrderNumber string) (bool, error) {
	args := m.Called(ctx, workOrderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockWorkOrderRepo) Save(ctx context.Context, workOrder *manufacturing.WorkOrder) error {
	return m.Called(ctx, workOrder).Error(0)
}

func (m *mockWorkOrderRepo) SaveWithLock(ctx context.Context, workOrder *manufacturing.WorkOrder, expectedVersion int) error {
	return m.Called(ctx, workOrder, expectedVersion).Error(0)
}

func (m *mockWorkOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockWorkOrderRepo) CountByStatus(ctx context.Context, status manufacturing.WorkOrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type mockGoodsRepo struct{ mock.Mock }

func (m *mockGoodsRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.FinishedGood, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.FinishedGood), args.Error(1)
}

func (m *mockGoodsRepo) FindByCode(ctx context.Context, code string) (*catalog.FinishedGood, error) {
	args := m.Called(ctx, code)
	return nil, args.Error(1)
}

func (m *mockGoodsRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.FinishedGood, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *mockGoodsRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockGoodsRepo) Save(ctx context.Context, good *catalog.FinishedGood) error {
	return m.Called(ctx, good).Error(0)
}

func (m *mockGoodsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockMaterialRepo struct{ mock.Mock }

func (m *mockMaterialRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.RawMaterial), args.Error(1)
}

func (m *mockMaterialRepo) FindByCode(ctx context.Context, code string) (*catalog.RawMaterial, error) {
	args := m.Called(ctx, code)
	return nil, args.Error(1)
}

func (m *mockMaterialRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.RawMaterial, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *mockMaterialRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockMaterialRepo) Save(ctx context.Context, material *catalog.RawMaterial) error {
	return m.Called(ctx, material).Error(0)
}

func (m *mockMaterialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockStockItemRepo struct{ mock.Mock }

func (m *mockStockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *mockStockItemRepo) FindByLocation(ctx context.Context, warehouseID uuid.UUID, itemType inventory.ItemType, itemID uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, warehouseID, itemType, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *mockStockItemRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	args := m.Called(ctx, warehouseID, filter)
	return nil, args.Error(1)
}

func (m *mockStockItemRepo) FindByItem(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID) ([]inventory.StockItem, error) {
	args := m.Called(ctx, itemType, itemID)
	return nil, args.Error(1)
}

func (m *mockStockItemRepo) Save(ctx context.Context, item *inventory.StockItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockStockItemRepo) SaveWithLock(ctx context.Context, item *inventory.StockItem, expectedVersion int) error {
	return m.Called(ctx, item, expectedVersion).Error(0)
}

type mockMovementRepo struct{ mock.Mock }

func (m *mockMovementRepo) FindByItem(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, itemType, itemID, filter)
	return nil, args.Error(1)
}

func (m *mockMovementRepo) FindByReference(ctx context.Context, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, referenceType, referenceID)
	return nil, args.Error(1)
}

func (m *mockMovementRepo) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

type fixture struct {
	boms       *mockBomRepo
	workOrders *mockWorkOrderRepo
	goods      *mockGoodsRepo
	materials  *mockMaterialRepo
	stockRepo  *mockStockItemRepo
	movements  *mockMovementRepo
	svc        *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := &fixture{
		boms:       &mockBomRepo{},
		workOrders: &mockWorkOrderRepo{},
		goods:      &mockGoodsRepo{},
		materials:  &mockMaterialRepo{},
		stockRepo:  &mockStockItemRepo{},
		movements:  &mockMovementRepo{},
	}
	stock := inventoryapp.NewService(f.stockRepo, f.movements, zap.NewNop())
	numbers := numbering.NewGenerator(rdb, nil, zap.NewNop())
	f.svc = NewService(f.boms, f.workOrders, f.goods, f.materials, stock, numbers, zap.NewNop())
	return f
}

// testProduction builds a BOM with one steel component and a work order for
// it already in progress at a warehouse.
func testProduction(t *testing.T) (*manufacturing.BomHeader, *manufacturing.WorkOrder, uuid.UUID) {
	t.Helper()

	finishedGoodID := uuid.New()
	warehouseID := uuid.New()

	bom, err := manufacturing.NewBomHeader("BOM-TABLE", "Table v1", finishedGoodID,
		"Table", "FG-TABLE", decimal.NewFromInt(1), "pcs")
	require.NoError(t, err)
	_, err = bom.AddComponent(uuid.New(), "Steel Sheet", "RM-STEEL", "kg",
		decimal.NewFromInt(4), decimal.Zero, decimal.NewFromInt(50))
	require.NoError(t, err)

	wo, err := manufacturing.NewWorkOrder("WO-2026-00001", finishedGoodID, "Table", "FG-TABLE",
		bom.ID, decimal.NewFromInt(10), "pcs")
	require.NoError(t, err)
	require.NoError(t, wo.SetWarehouse(warehouseID))
	require.NoError(t, wo.Release())
	require.NoError(t, wo.Start())

	return bom, wo, warehouseID
}

func TestService_CompleteWorkOrder(t *testing.T) {
	t.Run("posts stock and then persists completion", func(t *testing.T) {
		f := newFixture(t)
		bom, wo, warehouseID := testProduction(t)
		component := bom.Components[0]

		materialStock, err := inventory.NewStockItem(warehouseID, inventory.ItemTypeRawMaterial,
			component.RawMaterialID, component.MaterialName, component.MaterialCode, component.Unit)
		require.NoError(t, err)
		require.NoError(t, materialStock.Receive(decimal.NewFromInt(100)))

		f.workOrders.On("FindByID", mock.Anything, wo.ID).Return(wo, nil)
		f.workOrders.On("SaveWithLock", mock.Anything, wo, mock.Anything).Return(nil)
		f.boms.On("FindByID", mock.Anything, wo.BomID).Return(bom, nil)
		f.stockRepo.On("FindByLocation", mock.Anything, warehouseID,
			inventory.ItemTypeRawMaterial, component.RawMaterialID).Return(materialStock, nil)
		f.stockRepo.On("FindByLocation", mock.Anything, warehouseID,
			inventory.ItemTypeFinishedGood, wo.FinishedGoodID).Return(nil, shared.ErrNotFound)
		f.stockRepo.On("SaveWithLock", mock.Anything, materialStock, mock.Anything).Return(nil)
		f.stockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.movements.On("Save", mock.Anything, mock.Anything).Return(nil)

		completed, err := f.svc.CompleteWorkOrder(context.Background(), wo.ID,
			decimal.NewFromInt(9), decimal.NewFromInt(1), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, manufacturing.WorkOrderStatusCompleted, completed.Status)
		// 10 produced * 4 kg per unit
		assert.True(t, materialStock.OnHand.Equal(decimal.NewFromInt(60)), "on hand = %s", materialStock.OnHand)
		f.workOrders.AssertCalled(t, "SaveWithLock", mock.Anything, wo, mock.Anything)
	})

	t.Run("material shortfall leaves the work order unsaved", func(t *testing.T) {
		f := newFixture(t)
		bom, wo, warehouseID := testProduction(t)
		component := bom.Components[0]

		f.workOrders.On("FindByID", mock.Anything, wo.ID).Return(wo, nil)
		f.boms.On("FindByID", mock.Anything, wo.BomID).Return(bom, nil)
		f.stockRepo.On("FindByLocation", mock.Anything, warehouseID,
			inventory.ItemTypeRawMaterial, component.RawMaterialID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.CompleteWorkOrder(context.Background(), wo.ID,
			decimal.NewFromInt(9), decimal.NewFromInt(1), uuid.New())
		require.Error(t, err)
		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "RM-STEEL", stockErr.ItemCode)
		f.workOrders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects completion without a warehouse", func(t *testing.T) {
		f := newFixture(t)
		bom, _, _ := testProduction(t)

		wo, err := manufacturing.NewWorkOrder("WO-2026-00002", bom.FinishedGoodID, "Table", "FG-TABLE",
			bom.ID, decimal.NewFromInt(5), "pcs")
		require.NoError(t, err)
		require.NoError(t, wo.Release())
		require.NoError(t, wo.Start())

		f.workOrders.On("FindByID", mock.Anything, wo.ID).Return(wo, nil)

		_, err = f.svc.CompleteWorkOrder(context.Background(), wo.ID,
			decimal.NewFromInt(5), decimal.Zero, uuid.New())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BUSINESS_RULE", domainErr.Code)
	})
}
