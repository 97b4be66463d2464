package billing

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

	"github.com/mfg-erp/backend/internal/domain/billing"
	"github.com/mfg-erp/backend/internal/domain/catalog"
	"github.com/mfg-erp/backend/internal/domain/partner"
	"github.com/mfg-erp/backend/internal/domain/sales"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
)

type mockInvoiceRepo struct{ mock.Mock }

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.Invoice]), args.Error(1)
}

func (m *mockInvoiceRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, customerID, filter)
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) FindByPaymentStatus(ctx context.Context, status billing.PaymentStatus, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, status, filter)
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) Save(ctx context.Context, invoice *billing.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockInvoiceRepo) SaveWithLock(ctx context.Context, invoice *billing.Invoice, expectedVersion int) error {
	return m.Called(ctx, invoice, expectedVersion).Error(0)
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
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

type mockGoodRepo struct{ mock.Mock }

func (m *mockGoodRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.FinishedGood, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.FinishedGood), args.Error(1)
}

func (m *mockGoodRepo) FindByCode(ctx context.Context, code string) (*catalog.FinishedGood, error) {
	args := m.Called(ctx, code)
	return nil, args.Error(1)
}

func (m *mockGoodRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.FinishedGood, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *mockGoodRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockGoodRepo) Save(ctx context.Context, good *catalog.FinishedGood) error {
	return m.Called(ctx, good).Error(0)
}

func (m *mockGoodRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockSalesOrderRepo struct{ mock.Mock }

func (m *mockSalesOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesOrder), args.Error(1)
}

func (m *mockSalesOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*sales.SalesOrder, error) {
	args := m.Called(ctx, orderNumber)
	return nil, args.Error(1)
}

func (m *mockSalesOrderRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[sales.SalesOrder], error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *mockSalesOrderRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	args := m.Called(ctx, customerID, filter)
	return nil, args.Error(1)
}

func (m *mockSalesOrderRepo) FindByStatus(ctx context.Context, status sales.SalesOrderStatus, filter shared.Filter) ([]sales.SalesOrder, error) {
	args := m.Called(ctx, status, filter)
	return nil, args.Error(1)
}

func (m *mockSalesOrderRepo) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockSalesOrderRepo) Save(ctx context.Context, order *sales.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockSalesOrderRepo) SaveWithLock(ctx context.Context, order *sales.SalesOrder, expectedVersion int) error {
	return m.Called(ctx, order, expectedVersion).Error(0)
}

func (m *mockSalesOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSalesOrderRepo) CountByStatus(ctx context.Context, status sales.SalesOrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	invoices  *mockInvoiceRepo
	customers *mockCustomerRepo
	goods     *mockGoodRepo
	orders    *mockSalesOrderRepo
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := &fixture{
		invoices:  &mockInvoiceRepo{},
		customers: &mockCustomerRepo{},
		goods:     &mockGoodRepo{},
		orders:    &mockSalesOrderRepo{},
	}
	numbers := numbering.NewGenerator(rdb, nil, zap.NewNop())
	f.svc = NewService(f.invoices, f.customers, f.goods, f.orders, numbers, zap.NewNop())
	return f
}

func testCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer("CUST-01", "Sharma Traders")
	require.NoError(t, err)
	return customer
}

func testGood(t *testing.T) *catalog.FinishedGood {
	t.Helper()
	good, err := catalog.NewFinishedGood("FG-CHAIR", "Office Chair", uuid.New(), "pcs", decimal.NewFromInt(2500))
	require.NoError(t, err)
	return good
}

func testIssuedInvoice(t *testing.T) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice("INV-2026-00001", uuid.New(), "Sharma Traders", time.Now())
	require.NoError(t, err)
	_, err = invoice.AddItem(uuid.New(), "Office Chair", "FG-CHAIR", "9401", "pcs",
		decimal.NewFromInt(4), decimal.NewFromInt(2500),
		decimal.NewFromInt(9), decimal.NewFromInt(9), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, invoice.Issue())
	return invoice
}

func TestService_CreateInvoice(t *testing.T) {
	t.Run("drafts with catalog defaults", func(t *testing.T) {
		f := newFixture(t)
		customer := testCustomer(t)
		good := testGood(t)

		f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		f.goods.On("FindByID", mock.Anything, good.ID).Return(good, nil)
		f.invoices.On("Save", mock.Anything, mock.Anything).Return(nil)

		invoice, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceCommand{
			CustomerID: customer.ID,
			Items: []LineInput{{
				FinishedGoodID: good.ID,
				Quantity:       decimal.NewFromInt(2),
			}},
		}, uuid.New())
		require.NoError(t, err)

		assert.Regexp(t, `^INV-\d{4}-00001$`, invoice.InvoiceNumber)
		assert.Equal(t, billing.InvoiceStatusDraft, invoice.Status)
		require.Len(t, invoice.Items, 1)
		assert.True(t, invoice.Items[0].UnitPrice.Equal(good.SellingPrice))
		f.invoices.AssertExpectations(t)
	})

	t.Run("line overrides win over catalog", func(t *testing.T) {
		f := newFixture(t)
		customer := testCustomer(t)
		good := testGood(t)
		override := decimal.NewFromInt(2100)

		f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		f.goods.On("FindByID", mock.Anything, good.ID).Return(good, nil)
		f.invoices.On("Save", mock.Anything, mock.Anything).Return(nil)

		invoice, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceCommand{
			CustomerID: customer.ID,
			Items: []LineInput{{
				FinishedGoodID: good.ID,
				Quantity:       decimal.NewFromInt(1),
				UnitPrice:      &override,
			}},
		}, uuid.New())
		require.NoError(t, err)
		assert.True(t, invoice.Items[0].UnitPrice.Equal(override))
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.customers.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceCommand{CustomerID: id}, uuid.New())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestService_RecordPayment(t *testing.T) {
	t.Run("partial payment leaves balance due", func(t *testing.T) {
		f := newFixture(t)
		invoice := testIssuedInvoice(t)

		f.invoices.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		f.invoices.On("SaveWithLock", mock.Anything, invoice, mock.Anything).Return(nil)

		updated, err := f.svc.RecordPayment(context.Background(), invoice.ID, RecordPaymentCommand{
			Amount: decimal.NewFromInt(5000),
			Mode:   billing.PaymentModeUPI,
		}, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, billing.PaymentStatusPartiallyPaid, updated.PaymentStatus)
		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(5000)))
		require.Len(t, updated.Payments, 1)
		assert.Equal(t, billing.PaymentModeUPI, updated.Payments[0].Mode)
	})

	t.Run("full payment marks paid", func(t *testing.T) {
		f := newFixture(t)
		invoice := testIssuedInvoice(t)

		f.invoices.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		f.invoices.On("SaveWithLock", mock.Anything, invoice, mock.Anything).Return(nil)

		updated, err := f.svc.RecordPayment(context.Background(), invoice.ID, RecordPaymentCommand{
			Amount: invoice.GrandTotal,
			Mode:   billing.PaymentModeBankTransfer,
		}, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatusPaid, updated.PaymentStatus)
	})

	t.Run("overpayment marks paid with negative balance", func(t *testing.T) {
		f := newFixture(t)
		invoice := testIssuedInvoice(t)

		f.invoices.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		f.invoices.On("SaveWithLock", mock.Anything, invoice, mock.Anything).Return(nil)

		updated, err := f.svc.RecordPayment(context.Background(), invoice.ID, RecordPaymentCommand{
			Amount: invoice.GrandTotal.Add(decimal.NewFromInt(100)),
			Mode:   billing.PaymentModeCash,
		}, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatusPaid, updated.PaymentStatus)
		assert.True(t, updated.BalanceAmount().IsNegative())
	})

	t.Run("draft invoice cannot take payments", func(t *testing.T) {
		f := newFixture(t)
		invoice, err := billing.NewInvoice("INV-2026-00009", uuid.New(), "Sharma Traders", time.Now())
		require.NoError(t, err)

		f.invoices.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err = f.svc.RecordPayment(context.Background(), invoice.ID, RecordPaymentCommand{
			Amount: decimal.NewFromInt(100),
			Mode:   billing.PaymentModeCash,
		}, uuid.New())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestService_CreateFromSalesOrder(t *testing.T) {
	f := newFixture(t)
	customer := testCustomer(t)
	good := testGood(t)

	order, err := sales.NewSalesOrder("SO-2026-00001", customer.ID, customer.Name, time.Now())
	require.NoError(t, err)
	_, err = order.AddItem(good.ID, good.Name, good.Code, "pcs",
		decimal.NewFromInt(3), decimal.NewFromInt(2400), decimal.Zero,
		decimal.NewFromInt(9), decimal.NewFromInt(9), decimal.Zero)
	require.NoError(t, err)

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.goods.On("FindByID", mock.Anything, good.ID).Return(good, nil)
	f.invoices.On("Save", mock.Anything, mock.Anything).Return(nil)

	invoice, err := f.svc.CreateFromSalesOrder(context.Background(), order.ID, uuid.New())
	require.NoError(t, err)

	require.NotNil(t, invoice.SalesOrderID)
	assert.Equal(t, order.ID, *invoice.SalesOrderID)
	require.Len(t, invoice.Items, 1)
	// order line pricing carries over, not the current catalog price
	assert.True(t, invoice.Items[0].UnitPrice.Equal(decimal.NewFromInt(2400)))
	assert.True(t, invoice.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
}
