package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), GBP)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	assert.Equal(t, GBP, m.Currency())

	_, err = NewMoney(decimal.NewFromInt(1), "")
	assert.Error(t, err)
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyGBP(decimal.NewFromFloat(650.50))
	b := NewMoneyGBP(decimal.NewFromFloat(149.50))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(800)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(501)))

	_, err = a.Add(Zero(USD))
	assert.Error(t, err)
	_, err = a.Subtract(Zero(USD))
	assert.Error(t, err)
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyGBP(decimal.NewFromInt(10))
	b := NewMoneyGBP(decimal.NewFromInt(5))

	gt, err := a.GreaterThan(b)
	require.NoError(t, err)
	assert.True(t, gt)

	_, err = a.GreaterThan(Zero(EUR))
	assert.Error(t, err)

	assert.True(t, a.Equals(NewMoneyGBP(decimal.NewFromInt(10))))
	assert.False(t, a.Equals(b))
	assert.True(t, ZeroGBP().IsZero())
	assert.True(t, a.IsPositive())

	neg, err := ZeroGBP().Subtract(a)
	require.NoError(t, err)
	assert.True(t, neg.IsNegative())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m, err := NewMoneyGBPFromString("745.23")
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"745.23","currency":"GBP"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyRoundAndMultiply(t *testing.T) {
	m := NewMoneyGBP(decimal.NewFromFloat(10.005))
	rounded := m.Round(2)
	assert.Equal(t, "10.01 GBP", rounded.String())

	doubled := m.Multiply(decimal.NewFromInt(2))
	assert.True(t, doubled.Amount().Equal(decimal.NewFromFloat(20.01)))
}
