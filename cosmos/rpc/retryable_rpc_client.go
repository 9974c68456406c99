package rpc

import (
	"context"
	"errors"
	"time"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	retry "github.com/avast/retry-go/v4"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// Implements retryable rpcs and returns the last error
type retryableRpcClient struct {
	wrappedClient RpcClient

	attempts retry.Option
	delay    retry.Option
}

// Ensure that retryableRpcClient implements RpcClient
var _ RpcClient = (*retryableRpcClient)(nil)

// NewRetryableRpcClient wraps rpcClient. One attempt means no retries.
func NewRetryableRpcClient(attempts uint, delay time.Duration, rpcClient RpcClient) (RpcClient, error) {
	if attempts == 0 {
		// retry-go treats zero as "until success"
		attempts = 1
	}

	return &retryableRpcClient{
		wrappedClient: rpcClient,

		attempts: retry.Attempts(attempts),
		delay:    retry.Delay(delay),
	}, nil
}

// doWithRetry runs fn under the client's retry policy. A missing transaction is an answer, not a failure.
func doWithRetry[T any](ctx context.Context, r *retryableRpcClient, fn func() (T, error)) (T, error) {
	return retry.DoWithData(
		fn,
		r.delay,
		r.attempts,
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrTxNotFound)
		}),
	)
}

// RpcClient Interface

func (r *retryableRpcClient) ChainID(ctx context.Context) (string, error) {
	return doWithRetry(ctx, r, func() (string, error) {
		return r.wrappedClient.ChainID(ctx)
	})
}

func (r *retryableRpcClient) Height(ctx context.Context) (int64, error) {
	return doWithRetry(ctx, r, func() (int64, error) {
		return r.wrappedClient.Height(ctx)
	})
}

func (r *retryableRpcClient) Broadcast(ctx context.Context, txBytes []byte) (*txtypes.BroadcastTxResponse, error) {
	return doWithRetry(ctx, r, func() (*txtypes.BroadcastTxResponse, error) {
		return r.wrappedClient.Broadcast(ctx, txBytes)
	})
}

func (r *retryableRpcClient) GetTx(ctx context.Context, txHash string) (*coretypes.ResultTx, error) {
	return doWithRetry(ctx, r, func() (*coretypes.ResultTx, error) {
		return r.wrappedClient.GetTx(ctx, txHash)
	})
}

func (r *retryableRpcClient) Simulate(ctx context.Context, txBytes []byte) (*txtypes.SimulateResponse, error) {
	return doWithRetry(ctx, r, func() (*txtypes.SimulateResponse, error) {
		return r.wrappedClient.Simulate(ctx, txBytes)
	})
}

func (r *retryableRpcClient) Account(ctx context.Context, address string) (authtypes.AccountI, error) {
	return doWithRetry(ctx, r, func() (authtypes.AccountI, error) {
		return r.wrappedClient.Account(ctx, address)
	})
}

func (r *retryableRpcClient) GetAllBalances(ctx context.Context, address string) (sdk.Coins, error) {
	return doWithRetry(ctx, r, func() (sdk.Coins, error) {
		return r.wrappedClient.GetAllBalances(ctx, address)
	})
}

func (r *retryableRpcClient) SmartContractState(ctx context.Context, contractAddress string, queryData []byte) ([]byte, error) {
	return doWithRetry(ctx, r, func() ([]byte, error) {
		return r.wrappedClient.SmartContractState(ctx, contractAddress, queryData)
	})
}

func (r *retryableRpcClient) ContractInfo(ctx context.Context, contractAddress string) (*wasmtypes.ContractInfo, error) {
	return doWithRetry(ctx, r, func() (*wasmtypes.ContractInfo, error) {
		return r.wrappedClient.ContractInfo(ctx, contractAddress)
	})
}

func (r *retryableRpcClient) Close() error {
	return r.wrappedClient.Close()
}
