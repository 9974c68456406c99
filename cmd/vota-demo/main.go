package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	"github.com/dorahacksglobal/appchain-grant-vota/config"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/chainclient"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/encoding"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/tx"
	"github.com/dorahacksglobal/appchain-grant-vota/crypto"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
	"github.com/dorahacksglobal/appchain-grant-vota/runner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %s\n", err)
		os.Exit(1)
	}

	logger := log.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	network, err := cfg.ResolveNetwork(ctx, logger)
	if err != nil {
		return err
	}
	encoding.SetAddressPrefix(network.AccountPrefix)

	signer, err := tx.GetSoftSigner(network.CoinType, cfg.Mnemonic)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	address := signer.GetAddress(network.AccountPrefix)
	logger.Info("derived address", "address", address, "network", network.Name)

	clients, closeAll, err := connect(ctx, cfg, network, signer, logger)
	if err != nil {
		return err
	}
	defer closeAll()

	demoRunner, err := runner.NewRunner(cfg, network, address, clients, logger)
	if err != nil {
		return err
	}
	return demoRunner.Run(ctx)
}

// connect opens the four clients, each on its own connection. The returned func closes whatever was opened.
func connect(ctx context.Context, cfg *config.Config, network *chains.NetworkData, signer crypto.BytesSigner, logger *log.Logger) (runner.ChainClients, func(), error) {
	opts := &chainclient.Options{
		Network:  network,
		Encoding: encoding.MakeConfig(),
		Logger:   logger,

		GasAdjustment: cfg.GasAdjustment,

		RpcRetryAttempts: cfg.RpcRetryAttempts,
		RpcRetryDelay:    cfg.RpcRetryDelay,

		TxPollAttempts: cfg.TxPollAttempts,
		TxPollDelay:    cfg.TxPollDelay,
	}

	var closers []func() error
	closeAll := func() {
		for _, closer := range closers {
			if err := closer(); err != nil {
				logger.Warn("failed to close client", "error", err)
			}
		}
	}

	queryClient, err := chainclient.ConnectQueryClient(opts)
	if err != nil {
		return runner.ChainClients{}, func() {}, err
	}
	closers = append(closers, queryClient.Close)

	signingClient, err := chainclient.ConnectSigningClient(ctx, opts, signer)
	if err != nil {
		closeAll()
		return runner.ChainClients{}, func() {}, err
	}
	closers = append(closers, signingClient.Close)

	wasmQueryClient, err := chainclient.ConnectWasmQueryClient(opts)
	if err != nil {
		closeAll()
		return runner.ChainClients{}, func() {}, err
	}
	closers = append(closers, wasmQueryClient.Close)

	signingWasmClient, err := chainclient.ConnectSigningWasmClient(ctx, opts, signer)
	if err != nil {
		closeAll()
		return runner.ChainClients{}, func() {}, err
	}
	closers = append(closers, signingWasmClient.Close)

	return runner.ChainClients{
		Read:            queryClient,
		Signing:         signingClient,
		ReadContract:    wasmQueryClient,
		SigningContract: signingWasmClient,
	}, closeAll, nil
}
