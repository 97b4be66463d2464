package manufacturing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChairBom(t *testing.T) *BomHeader {
	t.Helper()
	bom, err := NewBomHeader("BOM-CHAIR", "Office Chair BOM", uuid.New(), "Office Chair", "FG-CHAIR",
		decimal.NewFromInt(1), "pcs")
	require.NoError(t, err)
	return bom
}

func TestNewBomHeader(t *testing.T) {
	t.Run("creates active version 1", func(t *testing.T) {
		bom := newChairBom(t)
		assert.Equal(t, "BOM-CHAIR", bom.Code)
		assert.Equal(t, 1, bom.BomVersion)
		assert.True(t, bom.IsActive)
	})

	t.Run("rejects zero output quantity", func(t *testing.T) {
		_, err := NewBomHeader("BOM-1", "X", uuid.New(), "X", "FG-X", decimal.Zero, "pcs")
		assert.Error(t, err)
	})
}

func TestBomComponent_QuantityWithWastage(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		wastage  string
		want     string
	}{
		{"zero wastage leaves quantity untouched", "10", "0", "10"},
		{"five percent", "10", "5", "10.5"},
		{"fractional", "8", "2.5", "8.2"},
		{"large rate", "4", "25", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewBomComponent(uuid.New(), uuid.New(), "Steel", "RM-01", "kg",
				decimal.RequireFromString(tt.quantity),
				decimal.RequireFromString(tt.wastage),
				decimal.Zero)
			require.NoError(t, err)

			got := c.QuantityWithWastage()
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
			assert.True(t, got.GreaterThanOrEqual(c.Quantity))
		})
	}

	t.Run("rejects wastage of 100 or more", func(t *testing.T) {
		_, err := NewBomComponent(uuid.New(), uuid.New(), "Steel", "RM-01", "kg",
			decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative wastage", func(t *testing.T) {
		_, err := NewBomComponent(uuid.New(), uuid.New(), "Steel", "RM-01", "kg",
			decimal.NewFromInt(10), decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestBomHeader_EstimatedMaterialCost(t *testing.T) {
	bom := newChairBom(t)

	_, err := bom.AddComponent(uuid.New(), "Steel Frame", "RM-STEEL", "kg",
		decimal.NewFromInt(4), decimal.NewFromInt(5), decimal.NewFromInt(55))
	require.NoError(t, err)
	_, err = bom.AddComponent(uuid.New(), "Fabric", "RM-FABRIC", "m",
		decimal.NewFromInt(2), decimal.Zero, decimal.NewFromInt(100))
	require.NoError(t, err)

	// steel: 4 * 1.05 = 4.2 kg * 55 = 231; fabric: 2 * 100 = 200
	cost := bom.EstimatedMaterialCost()
	assert.True(t, cost.Equal(decimal.RequireFromString("431")), "cost = %s", cost)
}

func TestBomHeader_Components(t *testing.T) {
	t.Run("rejects duplicate material", func(t *testing.T) {
		bom := newChairBom(t)
		materialID := uuid.New()
		_, err := bom.AddComponent(materialID, "Steel", "RM-01", "kg",
			decimal.NewFromInt(4), decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		_, err = bom.AddComponent(materialID, "Steel", "RM-01", "kg",
			decimal.NewFromInt(2), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("update and remove", func(t *testing.T) {
		bom := newChairBom(t)
		c, err := bom.AddComponent(uuid.New(), "Steel", "RM-01", "kg",
			decimal.NewFromInt(4), decimal.Zero, decimal.NewFromInt(55))
		require.NoError(t, err)

		require.NoError(t, bom.UpdateComponent(c.ID, decimal.NewFromInt(5), decimal.NewFromInt(2), decimal.NewFromInt(60)))
		assert.Equal(t, "5", bom.Components[0].Quantity.String())

		require.NoError(t, bom.RemoveComponent(c.ID))
		assert.Zero(t, bom.ComponentCount())

		assert.Error(t, bom.RemoveComponent(uuid.New()))
	})
}

func TestBomHeader_Explode(t *testing.T) {
	bom := newChairBom(t)
	_, err := bom.AddComponent(uuid.New(), "Steel", "RM-01", "kg",
		decimal.NewFromInt(4), decimal.NewFromInt(5), decimal.Zero)
	require.NoError(t, err)

	reqs, err := bom.Explode(decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	// 4 * 1.05 = 4.2 per unit, * 10 = 42
	assert.True(t, reqs[0].Quantity.Equal(decimal.RequireFromString("42")), "qty = %s", reqs[0].Quantity)

	_, err = bom.Explode(decimal.Zero)
	assert.Error(t, err)

	empty := newChairBom(t)
	_, err = empty.Explode(decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestBomHeader_Duplicate(t *testing.T) {
	bom := newChairBom(t)
	_, err := bom.AddComponent(uuid.New(), "Steel", "RM-01", "kg",
		decimal.NewFromInt(4), decimal.NewFromInt(5), decimal.NewFromInt(55))
	require.NoError(t, err)

	copied := bom.Duplicate()

	assert.Equal(t, "BOM-CHAIR-2", copied.Code)
	assert.Equal(t, 2, copied.BomVersion)
	assert.False(t, copied.IsActive)
	assert.NotEqual(t, bom.ID, copied.ID)
	require.Len(t, copied.Components, 1)
	assert.NotEqual(t, bom.Components[0].ID, copied.Components[0].ID)
	assert.Equal(t, copied.ID, copied.Components[0].BomID)
	assert.True(t, copied.Components[0].Quantity.Equal(bom.Components[0].Quantity))

	// mutating the copy leaves the original untouched
	copied.Components[0].Quantity = decimal.NewFromInt(99)
	assert.Equal(t, "4", bom.Components[0].Quantity.String())
}
