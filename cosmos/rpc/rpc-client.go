package rpc

import (
	"context"
	"errors"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// ErrTxNotFound is returned from GetTx when the node has not indexed the transaction (yet).
var ErrTxNotFound = errors.New("transaction not found")

// RpcClient is the set of node RPCs the runner and its tx pipeline use.
type RpcClient interface {
	ChainID(ctx context.Context) (string, error)
	Height(ctx context.Context) (int64, error)

	Broadcast(ctx context.Context, txBytes []byte) (*txtypes.BroadcastTxResponse, error)
	GetTx(ctx context.Context, txHash string) (*coretypes.ResultTx, error)
	Simulate(ctx context.Context, txBytes []byte) (*txtypes.SimulateResponse, error)

	Account(ctx context.Context, address string) (authtypes.AccountI, error)

	GetAllBalances(ctx context.Context, address string) (sdk.Coins, error)

	SmartContractState(ctx context.Context, contractAddress string, queryData []byte) ([]byte, error)
	ContractInfo(ctx context.Context, contractAddress string) (*wasmtypes.ContractInfo, error)

	Close() error
}
