package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), INR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, INR, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyINR(decimal.NewFromFloat(100.50))
	b := NewMoneyINR(decimal.NewFromFloat(50.25))

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "150.75", sum.Amount().String())
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "50.25", diff.Amount().String())
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		usd, _ := NewMoney(decimal.NewFromInt(10), USD)
		_, err := a.Add(usd)
		assert.Error(t, err)
		_, err = a.Subtract(usd)
		assert.Error(t, err)
	})

	t.Run("multiply", func(t *testing.T) {
		m := a.Multiply(decimal.NewFromInt(3))
		assert.Equal(t, "301.5", m.Amount().String())
	})
}

func TestMoney_CalculatePercentage(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		percent string
		want    string
	}{
		{"18 percent GST", "1000", "18", "180"},
		{"9 percent split", "1000", "9", "90"},
		{"fractional percent is exact", "250", "5", "12.5"},
		{"zero percent", "1000", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			percent, err := decimal.NewFromString(tt.percent)
			require.NoError(t, err)

			got := NewMoneyINR(amount).CalculatePercentage(percent)
			assert.Equal(t, tt.want, got.Amount().String())
		})
	}
}

func TestMoney_ApplyDiscount(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromInt(1000))
	discounted := m.ApplyDiscount(decimal.NewFromInt(10))
	assert.Equal(t, "900", discounted.Amount().String())
}

func TestMoney_RoundHalfUp(t *testing.T) {
	tests := []struct {
		amount string
		places int32
		want   string
	}{
		{"1180.50", 0, "1181"},
		{"1180.49", 0, "1180"},
		{"1180.00", 0, "1180"},
		{"1442.505", 2, "1442.51"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			got := NewMoneyINR(amount).RoundHalfUp(tt.places)
			assert.Equal(t, tt.want, got.Amount().String())
		})
	}
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyINR(decimal.NewFromInt(100))
	b := NewMoneyINR(decimal.NewFromInt(200))

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	assert.True(t, a.Equals(NewMoneyINR(decimal.NewFromInt(100))))
	assert.False(t, a.Equals(b))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("123.45"))
	assert.Equal(t, "123.45", m.Amount().String())
	assert.Equal(t, DefaultCurrency, m.Currency())

	var nilMoney Money
	require.NoError(t, nilMoney.Scan(nil))
	assert.True(t, nilMoney.IsZero())
}
