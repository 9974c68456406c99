package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cosmos/go-bip39"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// CosmosCoinType is the SLIP44 coin type used by the Vota chains.
const CosmosCoinType = 118

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

type KeyPair struct {
	Public  cryptotypes.PubKey
	Private cryptotypes.PrivKey
}

var _ BytesSigner = (*KeyPair)(nil)

// NewCosmosKeyPairFromMnemonic returns a key pair derived from the given mnemonic at m/44'/118'/0'/0/0.
func NewCosmosKeyPairFromMnemonic(mnemonic string) (*KeyPair, error) {
	return NewKeyPairFromMnemonic(mnemonic, CosmosCoinType)
}

// NewKeyPairFromMnemonic returns the first secp256k1 key pair of the given coin type.
func NewKeyPairFromMnemonic(mnemonic string, coinType uint32) (*KeyPair, error) {
	normalized := strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(normalized) {
		return nil, ErrInvalidMnemonic
	}

	bip44Path := hd.CreateHDPath(coinType, 0, 0).String()

	algo := hd.Secp256k1
	derivedPriv, err := algo.Derive()(normalized, keyring.DefaultBIP39Passphrase, bip44Path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key at %s: %w", bip44Path, err)
	}
	privKey := algo.Generate()(derivedPriv)

	return &KeyPair{
		Public:  privKey.PubKey(),
		Private: privKey,
	}, nil
}

func (kp *KeyPair) GetAddress(prefix string) string {
	address := sdk.AccAddress(kp.Public.Address())
	encoded, err := bech32.ConvertAndEncode(prefix, address)
	if err != nil {
		panic(fmt.Errorf("failed to bech32 encode address with prefix %q: %w", prefix, err))
	}
	return encoded
}

func (kp *KeyPair) SignBytes(
	bytesToSign []byte,
) ([]byte, error) {
	return kp.Private.Sign(bytesToSign)
}

func (kp *KeyPair) GetPublicKey() cryptotypes.PubKey {
	return kp.Public
}
