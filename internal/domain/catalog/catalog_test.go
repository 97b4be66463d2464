package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawMaterial(t *testing.T) {
	unitID := uuid.New()

	t.Run("creates material with default 18% tax", func(t *testing.T) {
		m, err := NewRawMaterial("rm-steel", "Steel Sheet", unitID, "kg", decimal.NewFromInt(55))
		require.NoError(t, err)
		assert.Equal(t, "RM-STEEL", m.Code)
		assert.Equal(t, "18", m.TaxPercent.String())
		assert.True(t, m.IsActive)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := NewRawMaterial("RM-01", "Steel", unitID, "kg", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("rejects nil unit", func(t *testing.T) {
		_, err := NewRawMaterial("RM-01", "Steel", uuid.Nil, "kg", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestRawMaterial_UpdateCost(t *testing.T) {
	m, err := NewRawMaterial("RM-01", "Steel", uuid.New(), "kg", decimal.NewFromInt(55))
	require.NoError(t, err)

	require.NoError(t, m.UpdateCost(decimal.NewFromInt(60)))
	assert.Equal(t, "60", m.UnitCost.String())
	assert.Error(t, m.UpdateCost(decimal.NewFromInt(-60)))
}

func TestNewFinishedGood(t *testing.T) {
	g, err := NewFinishedGood("fg-chair", "Office Chair", uuid.New(), "pcs", decimal.NewFromInt(2500))
	require.NoError(t, err)
	assert.Equal(t, "FG-CHAIR", g.Code)
	assert.Equal(t, "9", g.CGSTPercent.String())
	assert.Equal(t, "9", g.SGSTPercent.String())
	assert.True(t, g.IGSTPercent.IsZero())
}

func TestFinishedGood_SetGSTRates(t *testing.T) {
	g, err := NewFinishedGood("FG-01", "Chair", uuid.New(), "pcs", decimal.NewFromInt(2500))
	require.NoError(t, err)

	require.NoError(t, g.SetGSTRates(decimal.Zero, decimal.Zero, decimal.NewFromInt(18)))
	assert.Equal(t, "18", g.IGSTPercent.String())

	assert.Error(t, g.SetGSTRates(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero))
}

func TestNewUnitOfMeasurement(t *testing.T) {
	u, err := NewUnitOfMeasurement("KG", "Kilogram")
	require.NoError(t, err)
	assert.Equal(t, "kg", u.Code)

	_, err = NewUnitOfMeasurement("", "Kilogram")
	assert.Error(t, err)
}
