package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuantity(t *testing.T) {
	t.Run("creates valid quantity", func(t *testing.T) {
		q, err := NewQuantity(decimal.NewFromFloat(10.5), "kg")
		require.NoError(t, err)
		assert.Equal(t, "10.5", q.Amount().String())
		assert.Equal(t, "kg", q.Unit())
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewQuantity(decimal.NewFromInt(-1), "kg")
		assert.Error(t, err)
	})
}

func TestQuantity_AddSubtract(t *testing.T) {
	a := MustNewQuantity(decimal.NewFromInt(10), "kg")
	b := MustNewQuantity(decimal.NewFromInt(4), "kg")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "14", sum.Amount().String())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "6", diff.Amount().String())

	t.Run("rejects unit mismatch", func(t *testing.T) {
		c := MustNewQuantity(decimal.NewFromInt(1), "pcs")
		_, err := a.Add(c)
		assert.Error(t, err)
	})

	t.Run("rejects negative result", func(t *testing.T) {
		_, err := b.Subtract(a)
		assert.Error(t, err)
	})
}

func TestQuantity_WithWastage(t *testing.T) {
	tests := []struct {
		name    string
		qty     string
		wastage string
		want    string
		wantErr bool
	}{
		{"zero wastage returns quantity unchanged", "10", "0", "10", false},
		{"five percent wastage", "10", "5", "10.5", false},
		{"fractional wastage is exact", "8", "2.5", "8.2", false},
		{"negative wastage rejected", "10", "-1", "", true},
		{"hundred percent rejected", "10", "100", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, err := decimal.NewFromString(tt.qty)
			require.NoError(t, err)
			wastage, err := decimal.NewFromString(tt.wastage)
			require.NoError(t, err)

			got, err := MustNewQuantity(qty, "kg").WithWastage(wastage)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Amount().String())

			// quantityWithWastage >= quantity, equal iff wastage == 0
			lt, err := got.LessThan(MustNewQuantity(qty, "kg"))
			require.NoError(t, err)
			assert.False(t, lt)
		})
	}
}

func TestQuantity_Multiply(t *testing.T) {
	q := MustNewQuantity(decimal.NewFromInt(3), "m")
	doubled, err := q.Multiply(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "6", doubled.Amount().String())

	_, err = q.Multiply(decimal.NewFromInt(-2))
	assert.Error(t, err)
}
