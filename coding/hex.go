package coding

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHex decodes a hex string with or without a 0x prefix. Tx hashes reported by CometBFT are upper case, which
// is accepted as well.
func DecodeHex(in string) ([]byte, error) {
	normalized := strings.TrimSpace(in)
	if strings.HasPrefix(normalized, "0x") || strings.HasPrefix(normalized, "0X") {
		normalized = normalized[2:]
	}

	return hex.DecodeString(normalized)
}

// Checksum returns the lower case hex sha256 of the payload, the same form wasmd reports for stored code.
func Checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// PayloadFingerprint pretty prints a payload in an identifiable and succinct way.
func PayloadFingerprint(payload []byte) string {
	if len(payload) < 8 {
		return NormalizeMaybeEmptyBytes(payload)
	}

	return fmt.Sprintf("[%s...%s]", hex.EncodeToString(payload[0:4]), hex.EncodeToString(payload[len(payload)-4:]))
}

// NormalizeMaybeEmptyBytes returns "[]" rather than no output for empty byte arrays.
func NormalizeMaybeEmptyBytes(bytes []byte) string {
	if len(bytes) > 0 {
		return hex.EncodeToString(bytes)
	}
	return "[]"
}
