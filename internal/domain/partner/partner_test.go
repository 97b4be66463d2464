package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	t.Run("creates active supplier with uppercased code", func(t *testing.T) {
		s, err := NewSupplier("sup-001", "Steel Traders")
		require.NoError(t, err)
		assert.Equal(t, "SUP-001", s.Code)
		assert.Equal(t, SupplierStatusActive, s.Status)
		assert.True(t, s.IsActive())
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewSupplier("", "Steel Traders")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSupplier("SUP-001", "")
		assert.Error(t, err)
	})
}

func TestSupplier_Deactivate(t *testing.T) {
	s, err := NewSupplier("SUP-001", "Steel Traders")
	require.NoError(t, err)

	s.Deactivate()
	assert.False(t, s.IsActive())
	assert.Equal(t, 2, s.GetVersion())
}

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer("cust-001", "Acme Industries")
	require.NoError(t, err)
	assert.Equal(t, "CUST-001", c.Code)
	assert.True(t, c.IsActive())
}

func TestCustomer_SetCreditTerms(t *testing.T) {
	c, err := NewCustomer("CUST-001", "Acme Industries")
	require.NoError(t, err)

	require.NoError(t, c.SetCreditTerms(30, decimal.NewFromInt(100000)))
	assert.Equal(t, 30, c.CreditDays)

	assert.Error(t, c.SetCreditTerms(-1, decimal.Zero))
	assert.Error(t, c.SetCreditTerms(0, decimal.NewFromInt(-5)))
}

func TestNewWarehouse(t *testing.T) {
	t.Run("creates active warehouse", func(t *testing.T) {
		w, err := NewWarehouse("wh-01", "Main Store", WarehouseTypeRawMaterial)
		require.NoError(t, err)
		assert.Equal(t, "WH-01", w.Code)
		assert.True(t, w.IsActive)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewWarehouse("WH-01", "Main Store", WarehouseType("BOGUS"))
		assert.Error(t, err)
	})
}
