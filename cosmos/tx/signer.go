package tx

import (
	"fmt"

	"github.com/dorahacksglobal/appchain-grant-vota/crypto"
)

// Get a signer given a SLIP44 value.
func GetSoftSigner(slip44 uint32, mnemonic string) (crypto.BytesSigner, error) {
	switch slip44 {
	case crypto.CosmosCoinType, 564:
		keyPair, err := crypto.NewKeyPairFromMnemonic(mnemonic, slip44)
		if err != nil {
			return nil, err
		}
		return keyPair, nil
	}

	return nil, fmt.Errorf("unsupported slip44 value: %d", slip44)
}
