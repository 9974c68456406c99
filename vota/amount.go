package vota

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// TokenAmount converts a decimal token amount, ex. "0.4", into base units for a denom with the given decimals.
func TokenAmount(amount string, decimals int) (sdkmath.Uint, error) {
	if decimals < 0 {
		return sdkmath.ZeroUint(), fmt.Errorf("negative decimals: %d", decimals)
	}

	value, err := sdkmath.LegacyNewDecFromStr(amount)
	if err != nil {
		return sdkmath.ZeroUint(), fmt.Errorf("invalid token amount %q: %w", amount, err)
	}
	if value.IsNegative() {
		return sdkmath.ZeroUint(), fmt.Errorf("negative token amount %q", amount)
	}

	scaled := value.Mul(sdkmath.LegacyNewDec(10).Power(uint64(decimals)))
	if !scaled.IsInteger() {
		return sdkmath.ZeroUint(), fmt.Errorf("token amount %q has more than %d decimals", amount, decimals)
	}

	return sdkmath.NewUintFromBigInt(scaled.TruncateInt().BigInt()), nil
}
