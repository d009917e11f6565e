package lock

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals uint8
		expected string
		wantErr  bool
	}{
		{name: "one ether", amount: "1", decimals: 18, expected: "1000000000000000000"},
		{name: "half usdc", amount: "0.5", decimals: 6, expected: "500000"},
		{name: "leading dot", amount: ".25", decimals: 2, expected: "25"},
		{name: "trailing dot", amount: "3.", decimals: 2, expected: "300"},
		{name: "zero", amount: "0", decimals: 18, expected: "0"},
		{name: "zero decimals", amount: "42", decimals: 0, expected: "42"},
		{name: "excess digits round down", amount: "1.234", decimals: 2, expected: "123"},
		{name: "excess digits round half up", amount: "1.235", decimals: 2, expected: "124"},
		{name: "carry into whole", amount: "0.999", decimals: 2, expected: "100"},
		{name: "whitespace trimmed", amount: " 2 ", decimals: 1, expected: "20"},
		{name: "empty", amount: "", decimals: 18, wantErr: true},
		{name: "negative", amount: "-1", decimals: 18, wantErr: true},
		{name: "letters", amount: "1e18", decimals: 18, wantErr: true},
		{name: "lone dot", amount: ".", decimals: 18, wantErr: true},
		{name: "two dots", amount: "1.2.3", decimals: 18, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := ParseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value.String())
		})
	}
}

func TestFormatUnits(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)

	assert.Equal(t, "1", FormatUnits(oneEther, 18))
	assert.Equal(t, "0.5", FormatUnits(big.NewInt(500000), 6))
	assert.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
	assert.Equal(t, "12.34", FormatUnits(big.NewInt(1234), 2))
	assert.Equal(t, "7", FormatUnits(big.NewInt(7), 0))
	assert.Equal(t, "0", FormatUnits(nil, 18))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, amount := range []string{"1", "0.5", "123.456", "0.000000000000000001"} {
		value, err := ParseUnits(amount, 18)
		require.NoError(t, err)
		assert.Equal(t, amount, FormatUnits(value, 18))
	}
}
