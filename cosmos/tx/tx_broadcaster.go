package tx

import (
	"context"
	"errors"
	"fmt"
	"time"

	coretypes "github.com/cometbft/cometbft/rpc/core/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"

	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/rpc"
	"github.com/dorahacksglobal/appchain-grant-vota/crypto"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

// Broadcaster wraps TxBroadcaster. You probably just want to use NewDefaultBroadcaster.
type Broadcaster struct {
	logger  *log.Logger
	wrapped TxBroadcaster
}

// NewDefaultBroadcaster builds a retryable broadcaster that polls for inclusion.
func NewDefaultBroadcaster(
	bech32Prefix string,
	signer crypto.BytesSigner,
	logger *log.Logger,
	rpcClient rpc.RpcClient,
	signingMetadataProvider *SigningMetadataProvider,
	txProvider TxProvider,

	txPollAttempts uint,
	txPollDelay time.Duration,

	retryAttempts uint,
	retryDelay time.Duration,
) (*Broadcaster, error) {
	txb1, err := NewDefaultTxBroadcaster(bech32Prefix, signer, logger, rpcClient, signingMetadataProvider, txProvider)
	if err != nil {
		return nil, err
	}

	txb2, err := NewPollingTxBroadcaster(txPollAttempts, txPollDelay, logger, txb1)
	if err != nil {
		return nil, err
	}

	txb3, err := NewRetryableBroadcaster(retryAttempts, retryDelay, logger, txb2)
	if err != nil {
		return nil, err
	}

	return NewBroadcaster(logger, txb3), nil
}

func NewBroadcaster(logger *log.Logger, wrapped TxBroadcaster) *Broadcaster {
	return &Broadcaster{
		logger:  logger,
		wrapped: wrapped,
	}
}

// SignAndBroadcast signs msgs, broadcasts them and waits until the transaction is in a block. A transaction that
// lands with a non-zero code is returned together with an ErrTxFailed error.
func (b *Broadcaster) SignAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee *Fee, memo string) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	broadcastResult, err := b.wrapped.signAndBroadcast(ctx, msgs, fee, memo)
	if err != nil {
		b.logger.Error("failed to sign and broadcast", "error", err)
		return nil, err
	}

	isSuccess, err := IsSuccess(broadcastResult)
	if err != nil {
		return nil, err
	}

	txResponse := broadcastResult.TxResponse
	logger := b.logger.With("tx_hash", txResponse.TxHash)
	if !isSuccess {
		logger = logger.With("codespace", txResponse.Codespace, "code", txResponse.Code)
		if IsGasRelatedError(txResponse.Codespace, txResponse.Code) {
			logger.Error("node rejected the transaction due to gas, consider raising GAS_PRICE or GAS_ADJUSTMENT", "raw_log", txResponse.RawLog)
		} else {
			logger.Error("node rejected the transaction", "raw_log", txResponse.RawLog)
		}
		return nil, fmt.Errorf("%w: %s (codespace=%s code=%d)", ErrBroadcastRejected, txResponse.RawLog, txResponse.Codespace, txResponse.Code)
	}

	// Check for inclusion
	txStatus, err := b.wrapped.checkTxStatus(ctx, txResponse.TxHash)
	if err != nil {
		logger.Error("failed to get tx status", "error", err)
		return nil, err
	}
	if txStatus == nil {
		err := fmt.Errorf("%w: %s", ErrTxNotIncluded, txResponse.TxHash)
		logger.Error("gave up waiting for the transaction", "error", err)
		return nil, err
	}

	result := NewResult(txStatus)
	if result.Code != 0 {
		logger.Error("transaction landed on chain but failed", "codespace", result.Codespace, "code", result.Code, "raw_log", result.RawLog)
		return result, fmt.Errorf("%w: %s (codespace=%s code=%d)", ErrTxFailed, result.RawLog, result.Codespace, result.Code)
	}

	logger.Info("transaction landed on chain", "height", result.Height, "gas_wanted", result.GasWanted, "gas_used", result.GasUsed)
	return result, nil
}

// NewResult flattens a CometBFT tx lookup.
func NewResult(txStatus *coretypes.ResultTx) *Result {
	return &Result{
		TxHash:    txStatus.Hash.String(),
		Height:    txStatus.Height,
		Code:      txStatus.TxResult.Code,
		Codespace: txStatus.TxResult.Codespace,
		GasWanted: txStatus.TxResult.GasWanted,
		GasUsed:   txStatus.TxResult.GasUsed,
		Data:      txStatus.TxResult.Data,
		RawLog:    txStatus.TxResult.Log,
		Events:    txStatus.TxResult.Events,
	}
}

// TxBroadcaster signs, broadcasts and looks up transactions. Implementations decorate each other.
type TxBroadcaster interface {
	// Pass back a broadcast result, or error.
	signAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee *Fee, memo string) (*txtypes.BroadcastTxResponse, error)

	// Pass back a tx status. If tx status is "not found" then pass back (nil, nil)
	checkTxStatus(ctx context.Context, txHash string) (*coretypes.ResultTx, error)
}

// default broadcaster simply broadcasts transactions
type defaultBroadcaster struct {
	// Parameters
	bech32Prefix string
	signer       crypto.BytesSigner

	// Services
	logger                  *log.Logger
	rpcClient               rpc.RpcClient
	signingMetadataProvider *SigningMetadataProvider
	txProvider              TxProvider
}

var _ TxBroadcaster = (*defaultBroadcaster)(nil)

func NewDefaultTxBroadcaster(
	bech32Prefix string,
	signer crypto.BytesSigner,
	logger *log.Logger,
	rpcClient rpc.RpcClient,
	signingMetadataProvider *SigningMetadataProvider,
	txProvider TxProvider,
) (TxBroadcaster, error) {
	broadcaster := &defaultBroadcaster{
		bech32Prefix: bech32Prefix,
		signer:       signer,

		logger:                  logger,
		rpcClient:               rpcClient,
		signingMetadataProvider: signingMetadataProvider,
		txProvider:              txProvider,
	}

	return broadcaster, nil
}

func (b *defaultBroadcaster) signAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee *Fee, memo string) (*txtypes.BroadcastTxResponse, error) {
	// Get the signer's metadata
	senderAddress := b.signer.GetAddress(b.bech32Prefix)
	signingMetadata, err := b.signingMetadataProvider.SigningMetadataForAccount(ctx, senderAddress)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("received signer metadata", "account_number", signingMetadata.AccountNumber(), "sequence", signingMetadata.Sequence())

	// Formulate and sign the message
	signedMessage, gasWanted, err := b.txProvider.ProvideTx(ctx, msgs, memo, fee, signingMetadata)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("signed transaction", "num_msgs", len(msgs), "gas_wanted", gasWanted)

	// Attempt to broadcast
	result, err := b.rpcClient.Broadcast(ctx, signedMessage)
	if err != nil {
		return nil, err
	}

	if result.TxResponse != nil {
		b.logger.Info("📣 broadcasted transaction", "tx_hash", result.TxResponse.TxHash, "codespace", result.TxResponse.Codespace, "code", result.TxResponse.Code)
	}

	return result, nil
}

func (b *defaultBroadcaster) checkTxStatus(ctx context.Context, txHash string) (*coretypes.ResultTx, error) {
	txStatus, err := b.rpcClient.GetTx(ctx, txHash)
	if err == nil {
		b.logger.Debug("got a settled tx status", "tx_hash", txHash, "code", txStatus.TxResult.Code)
		return txStatus, nil
	}

	if errors.Is(err, rpc.ErrTxNotFound) {
		// No error, but nothing was found
		b.logger.Debug("tx not included in chain", "tx_hash", txHash)
		return nil, nil
	}

	b.logger.Debug("error querying tx status", "tx_hash", txHash, "error", err)
	return nil, err
}

// Polling broadcaster polls for tx inclusion
type pollingTxBroadcaster struct {
	// Parameters
	attempts uint
	delay    time.Duration

	// Services
	logger             *log.Logger
	wrappedBroadcaster TxBroadcaster
}

var _ TxBroadcaster = (*pollingTxBroadcaster)(nil)

func NewPollingTxBroadcaster(
	attempts uint,
	delay time.Duration,
	logger *log.Logger,
	wrappedBroadcaster TxBroadcaster,
) (TxBroadcaster, error) {
	if attempts == 0 {
		return nil, fmt.Errorf("polling broadcaster needs at least one attempt")
	}

	broadcaster := &pollingTxBroadcaster{
		attempts: attempts,
		delay:    delay,

		logger:             logger,
		wrappedBroadcaster: wrappedBroadcaster,
	}

	return broadcaster, nil
}

func (b *pollingTxBroadcaster) signAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee *Fee, memo string) (*txtypes.BroadcastTxResponse, error) {
	// Pass through, there's no polling to be done on initial broadcast.
	return b.wrappedBroadcaster.signAndBroadcast(ctx, msgs, fee, memo)
}

func (b *pollingTxBroadcaster) checkTxStatus(ctx context.Context, txHash string) (*coretypes.ResultTx, error) {
	logger := b.logger.With("tx_hash", txHash)
	logger.Info("polling for inclusion")

	var i uint
	for i = 0; i < b.attempts; i++ {
		// Give the tx time to settle before every lookup
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.delay):
		}

		txStatus, err := b.wrappedBroadcaster.checkTxStatus(ctx, txHash)
		if err != nil {
			// something more fundamental has gone wrong.
			return nil, err
		}
		if txStatus != nil {
			return txStatus, nil
		}

		logger.Info("transaction still not included", "attempt", i+1, "max_attempts", b.attempts)
	}

	logger.Error("polling finished without finding the transaction", "attempts", b.attempts)

	// Not found is reported as (nil, nil)
	return nil, nil
}

// Retrying broadcaster retries signing and broadcasting, as well as status lookups, on errors.
type retryableTxBroadcaster struct {
	// Parameters
	attempts uint
	delay    time.Duration

	// Services
	logger             *log.Logger
	wrappedBroadcaster TxBroadcaster
}

var _ TxBroadcaster = (*retryableTxBroadcaster)(nil)

func NewRetryableBroadcaster(
	attempts uint,
	delay time.Duration,
	logger *log.Logger,
	wrappedBroadcaster TxBroadcaster,
) (TxBroadcaster, error) {
	if attempts == 0 {
		attempts = 1
	}

	broadcaster := &retryableTxBroadcaster{
		attempts: attempts,
		delay:    delay,

		logger:             logger,
		wrappedBroadcaster: wrappedBroadcaster,
	}

	return broadcaster, nil
}

func (b *retryableTxBroadcaster) signAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee *Fee, memo string) (*txtypes.BroadcastTxResponse, error) {
	logger := b.logger.With("max_attempts", b.attempts)

	var i uint
	for i = 0; ; i++ {
		// Ditch if context has timed out
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := b.wrappedBroadcaster.signAndBroadcast(ctx, msgs, fee, memo)
		if err == nil {
			return result, nil
		}
		logger := logger.With("attempt", i+1, "error", err.Error())

		// Give up if all attempts are exhausted.
		if i+1 >= b.attempts {
			if b.attempts > 1 {
				logger.Error("failed in all attempts to sign and broadcast")
			}
			return result, err
		}

		logger.Warn("failed to sign and broadcast, will retry")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.delay):
		}
	}
}

func (b *retryableTxBroadcaster) checkTxStatus(ctx context.Context, txHash string) (*coretypes.ResultTx, error) {
	logger := b.logger.With("max_attempts", b.attempts, "tx_hash", txHash)

	var i uint
	for i = 0; ; i++ {
		// Ditch if context has timed out
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := b.wrappedBroadcaster.checkTxStatus(ctx, txHash)
		if err == nil {
			return result, nil
		}
		logger := logger.With("attempt", i+1, "error", err.Error())

		// Give up if all attempts are exhausted.
		if i+1 >= b.attempts {
			if b.attempts > 1 {
				logger.Error("failed in all attempts to check tx status")
			}
			return result, err
		}

		logger.Warn("failed to check tx status, will retry")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.delay):
		}
	}
}

// Helpers

func IsSuccess(broadcastResult *txtypes.BroadcastTxResponse) (bool, error) {
	if broadcastResult == nil {
		return false, fmt.Errorf("received nil broadcast tx result")
	}
	if broadcastResult.TxResponse == nil {
		return false, fmt.Errorf("received nil tx response in broadcast tx result")
	}

	// Note: Zero codes do not have a codespace on them
	return broadcastResult.TxResponse.Code == 0, nil
}
