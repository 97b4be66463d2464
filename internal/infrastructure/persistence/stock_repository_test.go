package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mfg-erp/backend/internal/domain/inventory"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestGormStockItemRepository_FindByID(t *testing.T) {
	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormStockItemRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stock_items"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the stored record", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormStockItemRepository(db)

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "item_code", "on_hand", "reserved", "version"}).
			AddRow(id, "RM-STEEL", "120", "20", 3)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stock_items"`)).
			WillReturnRows(rows)

		item, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "RM-STEEL", item.ItemCode)
		assert.True(t, item.Available().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, 3, item.Version)
	})
}

func TestGormStockItemRepository_SaveWithLock(t *testing.T) {
	t.Run("stale version returns concurrency conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormStockItemRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "stock_items"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		item := &inventory.StockItem{}
		item.ID = uuid.New()
		err := repo.SaveWithLock(context.Background(), item, 2)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matching version updates the row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormStockItemRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "stock_items"`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		item := &inventory.StockItem{}
		item.ID = uuid.New()
		assert.NoError(t, repo.SaveWithLock(context.Background(), item, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
