package util

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ErrDenomNotFound is returned when a balance list holds no coin of the requested denom.
var ErrDenomNotFound = fmt.Errorf("denom not found")

func ExtractCoin(targetDenom string, coins []sdk.Coin) (*sdk.Coin, error) {
	for _, coin := range coins {
		if strings.EqualFold(targetDenom, coin.Denom) {
			return &coin, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDenomNotFound, targetDenom)
}

// DisplayAmount renders a base unit amount in whole tokens, ex. 1500000000000000000 with 18 decimals is "1.5".
func DisplayAmount(amount sdkmath.Int, decimals int) string {
	if decimals <= 0 || decimals > sdkmath.LegacyPrecision {
		return amount.String()
	}

	display := sdkmath.LegacyNewDecFromIntWithPrec(amount, int64(decimals)).String()
	display = strings.TrimRight(display, "0")
	return strings.TrimSuffix(display, ".")
}
