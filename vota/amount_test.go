package vota_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorahacksglobal/appchain-grant-vota/vota"
)

func TestTokenAmount(t *testing.T) {
	cases := []struct {
		amount   string
		decimals int
		expected string
	}{
		{"0.4", 18, "400000000000000000"},
		{"1", 18, "1000000000000000000"},
		{"100", 18, "100000000000000000000"},
		{"1.5", 6, "1500000"},
		{"7", 0, "7"},
	}

	for _, tc := range cases {
		amount, err := vota.TokenAmount(tc.amount, tc.decimals)
		require.NoError(t, err, "amount: %s", tc.amount)
		assert.Equal(t, tc.expected, amount.String(), "amount: %s", tc.amount)
	}
}

func TestTokenAmount_Invalid(t *testing.T) {
	_, err := vota.TokenAmount("0.4", 0)
	assert.Error(t, err)

	_, err = vota.TokenAmount("-1", 18)
	assert.Error(t, err)

	_, err = vota.TokenAmount("lots", 18)
	assert.Error(t, err)

	_, err = vota.TokenAmount("1", -1)
	assert.Error(t, err)
}
