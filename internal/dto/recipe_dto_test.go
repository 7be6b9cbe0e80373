package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceMarshalsWithTwoDecimals(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"6.00", `"6.00"`},
		{"6", `"6.00"`},
		{"12.5", `"12.50"`},
		{"0", `"0.00"`},
		{"999.99", `"999.99"`},
	}

	for _, tc := range cases {
		b, err := json.Marshal(Price{Decimal: decimal.RequireFromString(tc.in)})
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(b), "input %s", tc.in)
	}
}

func TestPriceRoundTripsExactly(t *testing.T) {
	in := decimal.RequireFromString("6.00")
	b, err := json.Marshal(RecipeResponse{Price: Price{Decimal: in}, Tags: []uint{}, Ingredients: []uint{}})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":"6.00"`)

	var back RecipeResponse
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Price.Equal(in))
}
