package util

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// NumberToBigInt converts an integral JSON number of arbitrary size (ex. a u128 emitted by a contract) into a big.Int.
func NumberToBigInt(num json.Number) (*big.Int, error) {
	raw := strings.TrimSpace(string(num))
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("unexpected non-integer value: %q", raw)
	}
	return n, nil
}
