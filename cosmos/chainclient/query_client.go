package chainclient

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/rpc"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

// QueryClient answers read-only chain queries.
type QueryClient struct {
	rpcClient rpc.RpcClient
	network   *chains.NetworkData
	logger    *log.Logger
}

// ConnectQueryClient opens a read-only client on its own connection.
func ConnectQueryClient(opts *Options) (*QueryClient, error) {
	rpcClient, err := dial(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect query client: %w", err)
	}

	return NewQueryClient(rpcClient, opts.Network, opts.Logger), nil
}

func NewQueryClient(rpcClient rpc.RpcClient, network *chains.NetworkData, logger *log.Logger) *QueryClient {
	return &QueryClient{
		rpcClient: rpcClient,
		network:   network,
		logger:    logger,
	}
}

func (c *QueryClient) ChainID(ctx context.Context) (string, error) {
	return c.rpcClient.ChainID(ctx)
}

func (c *QueryClient) Height(ctx context.Context) (int64, error) {
	return c.rpcClient.Height(ctx)
}

func (c *QueryClient) GetAllBalances(ctx context.Context, address string) (sdk.Coins, error) {
	return c.rpcClient.GetAllBalances(ctx, address)
}

func (c *QueryClient) Network() *chains.NetworkData {
	return c.network
}

func (c *QueryClient) Close() error {
	return c.rpcClient.Close()
}
