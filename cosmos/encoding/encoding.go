package encoding

import (
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// Config bundles everything needed to encode, decode and sign the messages this module sends.
type Config struct {
	InterfaceRegistry codectypes.InterfaceRegistry
	Codec             *codec.ProtoCodec
	TxConfig          client.TxConfig
}

// MakeConfig registers the std, auth, bank and wasm interfaces.
func MakeConfig() *Config {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(interfaceRegistry)
	authtypes.RegisterInterfaces(interfaceRegistry)
	banktypes.RegisterInterfaces(interfaceRegistry)
	wasmtypes.RegisterInterfaces(interfaceRegistry)

	cdc := codec.NewProtoCodec(interfaceRegistry)
	txConfig := authtx.NewTxConfig(cdc, authtx.DefaultSignModes)

	return &Config{
		InterfaceRegistry: interfaceRegistry,
		Codec:             cdc,
		TxConfig:          txConfig,
	}
}

// SetAddressPrefix points the SDK's global bech32 configuration at the chain's prefix. Message signer resolution in
// the SDK validates addresses against this configuration.
func SetAddressPrefix(accountPrefix string) {
	sdkConfig := sdk.GetConfig()
	sdkConfig.SetBech32PrefixForAccount(accountPrefix, accountPrefix+sdk.PrefixPublic)
	sdkConfig.SetBech32PrefixForValidator(accountPrefix+sdk.PrefixValidator+sdk.PrefixOperator, accountPrefix+sdk.PrefixValidator+sdk.PrefixOperator+sdk.PrefixPublic)
	sdkConfig.SetBech32PrefixForConsensusNode(accountPrefix+sdk.PrefixValidator+sdk.PrefixConsensus, accountPrefix+sdk.PrefixValidator+sdk.PrefixConsensus+sdk.PrefixPublic)
}
