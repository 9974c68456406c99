package runner

import (
	"context"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/chainclient"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/tx"
	"github.com/dorahacksglobal/appchain-grant-vota/vota"
)

// BalanceReader is the read-only chain client.
type BalanceReader interface {
	ChainID(ctx context.Context) (string, error)
	Height(ctx context.Context) (int64, error)
	GetAllBalances(ctx context.Context, address string) (sdk.Coins, error)
}

// TokenSender is the signing chain client.
type TokenSender interface {
	SendTokens(ctx context.Context, recipient string, amount sdk.Coins, fee *tx.Fee, memo string) (*tx.Result, error)
}

// ContractReader is the read-only contract client.
type ContractReader interface {
	ContractInfo(ctx context.Context, contractAddress string) (*wasmtypes.ContractInfo, error)
}

// ContractDeployer is the signing contract client.
type ContractDeployer interface {
	vota.Executor

	Upload(ctx context.Context, wasmCode []byte, fee *tx.Fee, memo string) (*chainclient.UploadResult, error)
	Instantiate(ctx context.Context, codeID uint64, msg any, label string, options chainclient.InstantiateOptions, fee *tx.Fee) (*chainclient.InstantiateResult, error)
}

// ChainClients are the four connections a run uses, each opened independently.
type ChainClients struct {
	Read            BalanceReader
	Signing         TokenSender
	ReadContract    ContractReader
	SigningContract ContractDeployer
}

var (
	_ BalanceReader    = (*chainclient.QueryClient)(nil)
	_ TokenSender      = (*chainclient.SigningClient)(nil)
	_ ContractReader   = (*chainclient.WasmQueryClient)(nil)
	_ ContractDeployer = (*chainclient.SigningWasmClient)(nil)
)

// Deployment is the contract the run talks to. Zero values mean "not deployed yet".
type Deployment struct {
	CodeID          uint64
	ContractAddress string
}
