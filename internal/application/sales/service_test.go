package sales

import (
	"context"
	"testing"
	"time"

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
	"github.com/mfg-erp/backend/internal/domain/partner"
	"github.com/mfg-erp/backend/internal/domain/sales"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
)

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesOrder), args.Error(1)
}

func (m *mockOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*sales.SalesOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesOrder), args.Error(1)
}

func (m *mockOrderRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[sales.SalesOrder], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[sales.SalesOrder]), args.Error(1)
}

func (m *mockOrderRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	args := m.Called(ctx, customerID, filter)
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindByStatus(ctx context.Context, status sales.SalesOrderStatus, filter shared.Filter) ([]sales.SalesOrder, error) {
	args := m.Called(ctx, status, filter)
	return nil, args.Error(1)
}

func (m *mockOrderRepo) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepo) Save(ctx context.Context, order *sales.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) SaveWithLock(ctx context.Context, order *sales.SalesOrder, expectedVersion int) error {
	return m.Called(ctx, order, expectedVersion).Error(0)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrderRepo) CountByStatus(ctx context.Context, status sales.SalesOrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *mockCustomerRepo) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	return nil, args.Error(1)
}

func (m *mockCustomerRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *mockCustomerRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockCustomerRepo) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCustomerRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
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
	orders    *mockOrderRepo
	customers *mockCustomerRepo
	goods     *mockGoodsRepo
	stockRepo *mockStockItemRepo
	movements *mockMovementRepo
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := &fixture{
		orders:    &mockOrderRepo{},
		customers: &mockCustomerRepo{},
		goods:     &mockGoodsRepo{},
		stockRepo: &mockStockItemRepo{},
		movements: &mockMovementRepo{},
	}
	stock := inventoryapp.NewService(f.stockRepo, f.movements, zap.NewNop())
	numbers := numbering.NewGenerator(rdb, nil, zap.NewNop())
	f.svc = NewService(f.orders, f.customers, f.goods, stock, numbers, zap.NewNop())
	return f
}

func draftOrder(t *testing.T) *sales.SalesOrder {
	t.Helper()
	order, err := sales.NewSalesOrder("SO-2026-00001", uuid.New(), "Acme Traders", time.Now())
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Chair", "FG-CHAIR", "pcs",
		decimal.NewFromInt(5), decimal.NewFromInt(200),
		decimal.Zero, decimal.NewFromInt(9), decimal.NewFromInt(9), decimal.Zero)
	require.NoError(t, err)
	return order
}

func TestService_Confirm(t *testing.T) {
	t.Run("reserves stock at the order warehouse", func(t *testing.T) {
		f := newFixture(t)
		order := draftOrder(t)
		warehouseID := uuid.New()
		require.NoError(t, order.SetWarehouse(warehouseID))

		item := order.Items[0]
		stockItem, err := inventory.NewStockItem(warehouseID, inventory.ItemTypeFinishedGood,
			item.FinishedGoodID, item.ProductName, item.ProductCode, item.Unit)
		require.NoError(t, err)
		require.NoError(t, stockItem.Receive(decimal.NewFromInt(20)))

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("SaveWithLock", mock.Anything, order, mock.Anything).Return(nil)
		f.stockRepo.On("FindByLocation", mock.Anything, warehouseID,
			inventory.ItemTypeFinishedGood, item.FinishedGoodID).Return(stockItem, nil)
		f.stockRepo.On("SaveWithLock", mock.Anything, stockItem, mock.Anything).Return(nil)

		confirmed, err := f.svc.Confirm(context.Background(), order.ID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, sales.SalesOrderStatusConfirmed, confirmed.Status)
		assert.True(t, stockItem.Reserved.Equal(decimal.NewFromInt(5)), "reserved = %s", stockItem.Reserved)
	})

	t.Run("confirms without warehouse and skips reservation", func(t *testing.T) {
		f := newFixture(t)
		order := draftOrder(t)

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("SaveWithLock", mock.Anything, order, mock.Anything).Return(nil)

		confirmed, err := f.svc.Confirm(context.Background(), order.ID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, sales.SalesOrderStatusConfirmed, confirmed.Status)
		f.stockRepo.AssertNotCalled(t, "FindByLocation",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("shortfall aborts confirmation", func(t *testing.T) {
		f := newFixture(t)
		order := draftOrder(t)
		warehouseID := uuid.New()
		require.NoError(t, order.SetWarehouse(warehouseID))

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.stockRepo.On("FindByLocation", mock.Anything, warehouseID,
			inventory.ItemTypeFinishedGood, order.Items[0].FinishedGoodID).
			Return(nil, shared.ErrNotFound)

		_, err := f.svc.Confirm(context.Background(), order.ID, uuid.New())
		require.Error(t, err)
		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "FG-CHAIR", stockErr.ItemCode)
		f.orders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}
