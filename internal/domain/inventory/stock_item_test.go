package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStock(t *testing.T) *StockItem {
	t.Helper()
	s, err := NewStockItem(uuid.New(), ItemTypeRawMaterial, uuid.New(), "Steel Sheet", "RM-STEEL", "kg")
	require.NoError(t, err)
	return s
}

func TestNewStockItem(t *testing.T) {
	t.Run("creates empty record", func(t *testing.T) {
		s := newTestStock(t)
		assert.True(t, s.OnHand.IsZero())
		assert.True(t, s.Reserved.IsZero())
		assert.True(t, s.Available().IsZero())
	})

	t.Run("rejects nil warehouse", func(t *testing.T) {
		_, err := NewStockItem(uuid.Nil, ItemTypeRawMaterial, uuid.New(), "Steel", "RM-01", "kg")
		assert.Error(t, err)
	})
}

func TestStockItem_Receive(t *testing.T) {
	s := newTestStock(t)

	require.NoError(t, s.Receive(decimal.NewFromInt(100)))
	assert.Equal(t, "100", s.OnHand.String())

	assert.Error(t, s.Receive(decimal.Zero))
	assert.Error(t, s.Receive(decimal.NewFromInt(-5)))
}

func TestStockItem_Reserve(t *testing.T) {
	t.Run("reserves within available", func(t *testing.T) {
		s := newTestStock(t)
		require.NoError(t, s.Receive(decimal.NewFromInt(100)))

		require.NoError(t, s.Reserve(decimal.NewFromInt(60)))
		assert.Equal(t, "60", s.Reserved.String())
		assert.Equal(t, "40", s.Available().String())
	})

	t.Run("rejects reservation beyond available", func(t *testing.T) {
		s := newTestStock(t)
		require.NoError(t, s.Receive(decimal.NewFromInt(100)))
		require.NoError(t, s.Reserve(decimal.NewFromInt(60)))

		err := s.Reserve(decimal.NewFromInt(50))
		require.Error(t, err)

		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "RM-STEEL", stockErr.ItemCode)
		assert.Equal(t, "50", stockErr.Requested.String())
		assert.Equal(t, "40", stockErr.Available.String())
	})
}

func TestStockItem_Release(t *testing.T) {
	s := newTestStock(t)
	require.NoError(t, s.Receive(decimal.NewFromInt(100)))
	require.NoError(t, s.Reserve(decimal.NewFromInt(60)))

	require.NoError(t, s.Release(decimal.NewFromInt(20)))
	assert.Equal(t, "40", s.Reserved.String())
	assert.Equal(t, "60", s.Available().String())

	assert.Error(t, s.Release(decimal.NewFromInt(50)))
}

func TestStockItem_Issue(t *testing.T) {
	t.Run("issues from reservation", func(t *testing.T) {
		s := newTestStock(t)
		require.NoError(t, s.Receive(decimal.NewFromInt(100)))
		require.NoError(t, s.Reserve(decimal.NewFromInt(60)))

		require.NoError(t, s.Issue(decimal.NewFromInt(60), true))
		assert.Equal(t, "40", s.OnHand.String())
		assert.True(t, s.Reserved.IsZero())
	})

	t.Run("issues unreserved stock", func(t *testing.T) {
		s := newTestStock(t)
		require.NoError(t, s.Receive(decimal.NewFromInt(100)))

		require.NoError(t, s.Issue(decimal.NewFromInt(30), false))
		assert.Equal(t, "70", s.OnHand.String())
	})

	t.Run("rejects unreserved issue that would eat reservations", func(t *testing.T) {
		s := newTestStock(t)
		require.NoError(t, s.Receive(decimal.NewFromInt(100)))
		require.NoError(t, s.Reserve(decimal.NewFromInt(80)))

		err := s.Issue(decimal.NewFromInt(30), false)
		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
	})
}

func TestNewStockMovement(t *testing.T) {
	refID := uuid.New()

	t.Run("records inbound receipt", func(t *testing.T) {
		m, err := NewStockMovement(uuid.New(), ItemTypeRawMaterial, uuid.New(),
			MovementPurchaseReceipt, decimal.NewFromInt(50), ReferencePurchaseOrder, &refID)
		require.NoError(t, err)
		assert.True(t, m.IsInbound())
	})

	t.Run("records outbound consumption", func(t *testing.T) {
		m, err := NewStockMovement(uuid.New(), ItemTypeRawMaterial, uuid.New(),
			MovementProductionOut, decimal.NewFromInt(-20), ReferenceWorkOrder, &refID)
		require.NoError(t, err)
		assert.False(t, m.IsInbound())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockMovement(uuid.New(), ItemTypeRawMaterial, uuid.New(),
			MovementAdjustment, decimal.Zero, ReferenceManual, nil)
		assert.Error(t, err)
	})
}
