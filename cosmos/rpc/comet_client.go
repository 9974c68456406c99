package rpc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	rpctypes "github.com/cometbft/cometbft/rpc/jsonrpc/types"
	gogogrpc "github.com/cosmos/gogoproto/grpc"
	grpclib "google.golang.org/grpc"

	"github.com/cosmos/cosmos-sdk/client"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/dorahacksglobal/appchain-grant-vota/coding"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/encoding"
	"github.com/dorahacksglobal/appchain-grant-vota/grpc"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

// Page size to use
const pageSize = 100

// cometClient talks to a CometBFT RPC endpoint. Module queries are routed through ABCI unless a gRPC endpoint is
// given, in which case they go over a native gRPC connection.
type cometClient struct {
	cdc   *encoding.Config
	comet *rpchttp.HTTP
	conn  *grpclib.ClientConn

	authClient authtypes.QueryClient
	bankClient banktypes.QueryClient
	txClient   txtypes.ServiceClient
	wasmClient wasmtypes.QueryClient

	log *log.Logger
}

// A struct that came back from an RPC query
type paginatedRpcResponse[dataType any] struct {
	data    []dataType
	nextKey []byte
}

// Ensure that cometClient implements RpcClient
var _ RpcClient = (*cometClient)(nil)

// NewCometClient makes a new RpcClient. grpcUrl may be empty.
func NewCometClient(rpcUrl, grpcUrl string, cdc *encoding.Config, log *log.Logger) (RpcClient, error) {
	comet, err := rpchttp.New(rpcUrl, "/websocket")
	if err != nil {
		log.Error("unable to create rpc client", "rpc_url", rpcUrl, "error", err)
		return nil, fmt.Errorf("failed to create rpc client for %s: %w", rpcUrl, err)
	}

	var queryConn gogogrpc.ClientConn = client.Context{}.
		WithClient(comet).
		WithCodec(cdc.Codec).
		WithInterfaceRegistry(cdc.InterfaceRegistry).
		WithTxConfig(cdc.TxConfig)

	var conn *grpclib.ClientConn
	if grpcUrl != "" {
		conn, err = grpc.GetGrpcConnection(grpcUrl)
		if err != nil {
			log.Error("unable to connect to gRPC", "grpc_url", grpcUrl, "error", err)
			return nil, err
		}
		queryConn = conn
	}

	return &cometClient{
		cdc:   cdc,
		comet: comet,
		conn:  conn,

		authClient: authtypes.NewQueryClient(queryConn),
		bankClient: banktypes.NewQueryClient(queryConn),
		txClient:   txtypes.NewServiceClient(queryConn),
		wasmClient: wasmtypes.NewQueryClient(queryConn),

		log: log,
	}, nil
}

func (r *cometClient) ChainID(ctx context.Context) (string, error) {
	status, err := r.comet.Status(ctx)
	if err != nil {
		return "", err
	}
	return status.NodeInfo.Network, nil
}

func (r *cometClient) Height(ctx context.Context) (int64, error) {
	status, err := r.comet.Status(ctx)
	if err != nil {
		return 0, err
	}
	return status.SyncInfo.LatestBlockHeight, nil
}

func (r *cometClient) Broadcast(ctx context.Context, txBytes []byte) (*txtypes.BroadcastTxResponse, error) {
	result, err := r.comet.BroadcastTxSync(ctx, txBytes)
	if err != nil {
		return nil, err
	}

	return &txtypes.BroadcastTxResponse{
		TxResponse: sdk.NewResponseFormatBroadcastTx(result),
	}, nil
}

func (r *cometClient) GetTx(ctx context.Context, txHash string) (*coretypes.ResultTx, error) {
	hash, err := coding.DecodeHex(txHash)
	if err != nil {
		return nil, fmt.Errorf("invalid tx hash %q: %w", txHash, err)
	}

	result, err := r.comet.Tx(ctx, hash, false)
	if err != nil {
		var rpcError *rpctypes.RPCError
		if errors.As(err, &rpcError) && strings.Contains(rpcError.Data, "not found") {
			return nil, fmt.Errorf("%w: %s", ErrTxNotFound, txHash)
		}
		return nil, err
	}

	return result, nil
}

func (r *cometClient) Simulate(ctx context.Context, txBytes []byte) (*txtypes.SimulateResponse, error) {
	query := &txtypes.SimulateRequest{
		TxBytes: txBytes,
	}
	return r.txClient.Simulate(ctx, query)
}

func (r *cometClient) Account(ctx context.Context, address string) (authtypes.AccountI, error) {
	query := &authtypes.QueryAccountRequest{Address: address}
	res, err := r.authClient.Account(ctx, query)
	if err != nil {
		return nil, err
	}

	// Deserialize response
	var account authtypes.AccountI
	if err := r.cdc.InterfaceRegistry.UnpackAny(res.Account, &account); err != nil {
		return nil, err
	}

	return account, nil
}

func (r *cometClient) GetAllBalances(ctx context.Context, address string) (sdk.Coins, error) {
	getBalancesFunc := func(ctx context.Context, pageKey []byte) (*paginatedRpcResponse[sdk.Coin], error) {
		pagination := &query.PageRequest{
			Key:   pageKey,
			Limit: pageSize,
		}

		request := &banktypes.QueryAllBalancesRequest{
			Address:    address,
			Pagination: pagination,
		}

		response, err := r.bankClient.AllBalances(ctx, request)
		if err != nil {
			return nil, err
		}

		var nextKey []byte
		if response.Pagination != nil {
			nextKey = response.Pagination.NextKey
		}

		return &paginatedRpcResponse[sdk.Coin]{
			data:    response.Balances,
			nextKey: nextKey,
		}, nil
	}

	balances, err := retrievePaginatedData(ctx, r.log, "balances", getBalancesFunc)
	if err != nil {
		return nil, err
	}
	r.log.Debug("retrieved balances", "num_balances", len(balances), "address", address)

	return sdk.NewCoins(balances...), nil
}

func (r *cometClient) SmartContractState(ctx context.Context, contractAddress string, queryData []byte) ([]byte, error) {
	request := &wasmtypes.QuerySmartContractStateRequest{
		Address:   contractAddress,
		QueryData: queryData,
	}

	response, err := r.wasmClient.SmartContractState(ctx, request)
	if err != nil {
		return nil, err
	}

	return response.Data, nil
}

func (r *cometClient) ContractInfo(ctx context.Context, contractAddress string) (*wasmtypes.ContractInfo, error) {
	request := &wasmtypes.QueryContractInfoRequest{
		Address: contractAddress,
	}

	response, err := r.wasmClient.ContractInfo(ctx, request)
	if err != nil {
		return nil, err
	}

	info := response.ContractInfo
	return &info, nil
}

func (r *cometClient) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

// Pagination
// NOTE: Implemented as a private standalone func since go doesn't support generics on struct methods.
func retrievePaginatedData[DataType any](
	ctx context.Context,
	log *log.Logger,
	noun string,
	retrievePageFn func(
		ctx context.Context,
		nextKey []byte,
	) (*paginatedRpcResponse[DataType], error),
) ([]DataType, error) {
	// Running list of data
	data := []DataType{}

	// Loop through all pages
	var nextKey []byte
	for {
		rpcResponse, err := retrievePageFn(ctx, nextKey)
		if err != nil {
			return nil, err
		}

		data = append(data, rpcResponse.data...)
		log.Debug(fmt.Sprintf("fetched page of %s", noun), "num_in_page", len(rpcResponse.data), "total_fetched", len(data))

		// Update next key or break out of loop if we have finished
		if len(rpcResponse.nextKey) == 0 {
			break
		}
		nextKey = rpcResponse.nextKey
	}

	return data, nil
}
