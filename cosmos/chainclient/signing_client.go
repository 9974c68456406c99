package chainclient

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/rpc"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/tx"
	"github.com/dorahacksglobal/appchain-grant-vota/crypto"
)

// SigningClient signs and broadcasts transactions for a single signer.
type SigningClient struct {
	*QueryClient

	signer      crypto.BytesSigner
	broadcaster *tx.Broadcaster
}

// ConnectSigningClient opens a signing client on its own connection. The chain id used for signing is read from the
// node.
func ConnectSigningClient(ctx context.Context, opts *Options, signer crypto.BytesSigner) (*SigningClient, error) {
	rpcClient, err := dial(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect signing client: %w", err)
	}

	client, err := newSigningClient(ctx, opts, rpcClient, signer)
	if err != nil {
		_ = rpcClient.Close()
		return nil, err
	}
	return client, nil
}

func newSigningClient(ctx context.Context, opts *Options, rpcClient rpc.RpcClient, signer crypto.BytesSigner) (*SigningClient, error) {
	network := opts.Network
	logger := opts.Logger

	chainID, err := rpcClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}
	if chainID != network.ChainID {
		logger.Warn("node reports a different chain id than configured, signing for the node's chain", "configured", network.ChainID, "node", chainID)
	}

	gasPrice, err := tx.ParseGasPrice(network.GasPrice)
	if err != nil {
		return nil, err
	}
	gasPriceProvider, err := tx.NewInMemoryGasPriceProvider()
	if err != nil {
		return nil, err
	}
	if err := gasPriceProvider.SetGasPrice(network.Name, gasPrice); err != nil {
		return nil, err
	}
	if err := gasPriceProvider.SetGasFactor(network.Name, opts.GasAdjustment); err != nil {
		return nil, err
	}

	txLogger := logger.ApplyPrefix("[tx]")
	signingMetadataProvider, err := tx.NewSigningMetadataProvider(chainID, rpcClient)
	if err != nil {
		return nil, err
	}
	simulationManager, err := tx.NewSimulationManager(rpcClient, opts.Encoding.TxConfig)
	if err != nil {
		return nil, err
	}
	txProvider, err := tx.NewTxProvider(network.Name, signer, gasPriceProvider, txLogger, simulationManager, opts.Encoding.TxConfig)
	if err != nil {
		return nil, err
	}

	broadcaster, err := tx.NewDefaultBroadcaster(
		network.AccountPrefix,
		signer,
		txLogger,
		rpcClient,
		signingMetadataProvider,
		txProvider,
		opts.TxPollAttempts,
		opts.TxPollDelay,
		opts.RpcRetryAttempts,
		opts.RpcRetryDelay,
	)
	if err != nil {
		return nil, err
	}

	return &SigningClient{
		QueryClient: NewQueryClient(rpcClient, network, logger),

		signer:      signer,
		broadcaster: broadcaster,
	}, nil
}

// Address is the bech32 address of the signer on this network.
func (c *SigningClient) Address() string {
	return c.signer.GetAddress(c.network.AccountPrefix)
}

// SignAndBroadcast signs msgs with the client's signer and waits for inclusion. A nil fee means auto gas.
func (c *SigningClient) SignAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee *tx.Fee, memo string) (*tx.Result, error) {
	return c.broadcaster.SignAndBroadcast(ctx, msgs, fee, memo)
}

// SendTokens transfers amount from the signer to recipient.
func (c *SigningClient) SendTokens(ctx context.Context, recipient string, amount sdk.Coins, fee *tx.Fee, memo string) (*tx.Result, error) {
	msg := &banktypes.MsgSend{
		FromAddress: c.Address(),
		ToAddress:   recipient,
		Amount:      amount,
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid send: %w", err)
	}

	return c.SignAndBroadcast(ctx, []sdk.Msg{msg}, fee, memo)
}
