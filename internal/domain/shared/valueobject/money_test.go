package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency Currency
		wantErr  bool
	}{
		{
			name:     "valid PKR amount",
			amount:   decimal.NewFromInt(100),
			currency: PKR,
			wantErr:  false,
		},
		{
			name:     "empty currency",
			amount:   decimal.NewFromInt(100),
			currency: "",
			wantErr:  true,
		},
		{
			name:     "negative amount is allowed",
			amount:   decimal.NewFromInt(-50),
			currency: PKR,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Amount().Equal(tt.amount))
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyPKRFromInt(2999)
	b := NewMoneyPKRFromInt(4998)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(7997)))
	assert.Equal(t, PKR, sum.Currency())

	// Different currencies must not mix
	usd, err := NewMoney(decimal.NewFromInt(10), USD)
	require.NoError(t, err)
	_, err = a.Add(usd)
	assert.Error(t, err)
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyPKRFromInt(8197)
	b := NewMoneyPKRFromInt(200)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(7997)))

	usd, _ := NewMoney(decimal.NewFromInt(10), USD)
	_, err = a.Subtract(usd)
	assert.Error(t, err)
}

func TestMoney_MultiplyByInt(t *testing.T) {
	unit := NewMoneyPKRFromInt(2499)
	line := unit.MultiplyByInt(2)
	assert.True(t, line.Amount().Equal(decimal.NewFromInt(4998)))
	assert.Equal(t, PKR, line.Currency())
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroPKR().IsZero())
	assert.True(t, NewMoneyPKRFromInt(1).IsPositive())
	assert.True(t, NewMoneyPKRFromInt(-1).IsNegative())
}

func TestMoney_Equals(t *testing.T) {
	a := NewMoneyPKRFromFloat(99.90)
	b, err := NewMoneyPKRFromString("99.90")
	require.NoError(t, err)
	assert.True(t, a.Equals(b))

	usd, _ := NewMoney(decimal.NewFromFloat(99.90), USD)
	assert.False(t, a.Equals(usd))
}

func TestMoney_GreaterThan(t *testing.T) {
	a := NewMoneyPKRFromInt(100)
	b := NewMoneyPKRFromInt(50)

	gt, err := a.GreaterThan(b)
	require.NoError(t, err)
	assert.True(t, gt)

	usd, _ := NewMoney(decimal.NewFromInt(10), USD)
	_, err = a.GreaterThan(usd)
	assert.Error(t, err)
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyPKRFromInt(8197)
	assert.Equal(t, "PKR 8197.00", m.String())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyPKRFromFloat(2999.50)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_UnmarshalJSON_DefaultsCurrency(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"200"}`), &m))
	assert.Equal(t, PKR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(200)))
}
