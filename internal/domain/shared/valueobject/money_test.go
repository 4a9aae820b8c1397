package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), INR)
	require.NoError(t, err)
	assert.Equal(t, INR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))

	_, err = NewMoney(decimal.NewFromInt(100), "")
	assert.Error(t, err)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("1234.56", INR)
	require.NoError(t, err)
	assert.Equal(t, "1234.56", m.StringFixed(2))

	_, err = NewMoneyFromString("not-a-number", INR)
	assert.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyINRFromFloat(100.50)
	b := NewMoneyINRFromFloat(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "150.00", sum.StringFixed(2))

	usd, _ := NewMoneyFromFloat(10, USD)
	_, err = a.Add(usd)
	assert.Error(t, err)
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyINRFromFloat(100)
	b := NewMoneyINRFromFloat(30)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "70.00", diff.StringFixed(2))
}

func TestMoney_Multiply(t *testing.T) {
	m := NewMoneyINRFromFloat(12.5)
	assert.Equal(t, "25.00", m.MultiplyByInt(2).StringFixed(2))
	assert.Equal(t, "6.25", m.Multiply(decimal.NewFromFloat(0.5)).StringFixed(2))
}

func TestMoney_CalculatePercentage(t *testing.T) {
	m := NewMoneyINRFromFloat(10000)

	tax := m.CalculatePercentage(decimal.NewFromInt(9))
	assert.Equal(t, "900.00", tax.StringFixed(2))

	zero := m.CalculatePercentage(decimal.Zero)
	assert.True(t, zero.IsZero())
}

func TestMoney_Units(t *testing.T) {
	m := NewMoneyINRFromFloat(1234.99)
	assert.Equal(t, int64(1234), m.Units())

	assert.Equal(t, int64(0), ZeroINR().Units())
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroINR().IsZero())
	assert.True(t, NewMoneyINRFromFloat(1).IsPositive())
	assert.True(t, NewMoneyINRFromFloat(-1).IsNegative())

	ok, err := NewMoneyINRFromFloat(2).GreaterThanOrEqual(NewMoneyINRFromFloat(2))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyINRFromFloat(99.99)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}
