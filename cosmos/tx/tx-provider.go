package tx

import (
	"context"
	"fmt"

	"github.com/dorahacksglobal/appchain-grant-vota/crypto"
	"github.com/dorahacksglobal/appchain-grant-vota/log"

	"github.com/cosmos/cosmos-sdk/client"
	cosmostx "github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
)

type TxProvider interface {
	// ProvideTx builds and signs a transaction. A nil fee is replaced by a simulated gas limit priced at the chain's
	// gas price. Returns the encoded transaction and the gas limit it carries.
	ProvideTx(ctx context.Context, messages []sdk.Msg, memo string, fee *Fee, metadata *SigningMetadata) ([]byte, uint64, error)
}

// txProvider is the default implementation of the TxProvider interface
type txProvider struct {
	chainName   string
	bytesSigner crypto.BytesSigner

	gasPriceProvider  GasPriceProvider
	logger            *log.Logger
	simulationManager SimulationManager

	txConfig client.TxConfig
}

// Assert type conformance
var _ TxProvider = (*txProvider)(nil)

func NewTxProvider(
	chainName string,
	bytesSigner crypto.BytesSigner,
	gasPriceProvider GasPriceProvider,
	logger *log.Logger,
	simulationManager SimulationManager,
	txConfig client.TxConfig,
) (TxProvider, error) {
	return &txProvider{
		chainName:   chainName,
		bytesSigner: bytesSigner,

		gasPriceProvider:  gasPriceProvider,
		logger:            logger,
		simulationManager: simulationManager,

		txConfig: txConfig,
	}, nil
}

// TxProvider Interface

func (txp *txProvider) ProvideTx(ctx context.Context, messages []sdk.Msg, memo string, fee *Fee, metadata *SigningMetadata) ([]byte, uint64, error) {
	txFactory := cosmostx.Factory{}.
		WithChainID(metadata.ChainID()).
		WithTxConfig(txp.txConfig).
		WithAccountNumber(metadata.AccountNumber()).
		WithSequence(metadata.Sequence()).
		WithMemo(memo)

	// Build a transaction
	txb, err := txFactory.BuildUnsignedTx(messages...)
	if err != nil {
		return nil, 0, err
	}

	// Simulation needs a signature slot with the right public key
	signatureProto := signing.SignatureV2{
		PubKey: txp.bytesSigner.GetPublicKey(),
		Data: &signing.SingleSignatureData{
			SignMode:  signing.SignMode_SIGN_MODE_DIRECT,
			Signature: nil,
		},
		Sequence: metadata.Sequence(),
	}
	err = txb.SetSignatures(signatureProto)
	if err != nil {
		return nil, 0, err
	}

	if fee == nil {
		fee, err = txp.autoFee(ctx, txb.GetTx())
		if err != nil {
			return nil, 0, err
		}
	}
	txb.SetGasLimit(fee.GasLimit)
	txb.SetFeeAmount(fee.Amount)
	txp.logger.Debug("set transaction fee", "gas_limit", fee.GasLimit, "fee", fee.Amount.String())

	// Shim metadata into the format Cosmos SDK wants
	signerData := authsigning.SignerData{
		Address:       metadata.Address(),
		ChainID:       metadata.ChainID(),
		AccountNumber: metadata.AccountNumber(),
		Sequence:      metadata.Sequence(),
		PubKey:        txp.bytesSigner.GetPublicKey(),
	}

	// Encode to bytes to sign
	signMode := signing.SignMode_SIGN_MODE_DIRECT
	unsignedTxBytes, err := txp.txConfig.SignModeHandler().GetSignBytes(signMode, signerData, txb.GetTx())
	if err != nil {
		return nil, 0, err
	}

	// Sign the bytes
	signatureBytes, err := txp.bytesSigner.SignBytes(unsignedTxBytes)
	if err != nil {
		return nil, 0, err
	}

	// Reconstruct the signature proto
	signatureProto = signing.SignatureV2{
		PubKey: txp.bytesSigner.GetPublicKey(),
		Data: &signing.SingleSignatureData{
			SignMode:  signMode,
			Signature: signatureBytes,
		},
		Sequence: metadata.Sequence(),
	}
	err = txb.SetSignatures(signatureProto)
	if err != nil {
		return nil, 0, err
	}

	// Encode to bytes
	encoder := txp.txConfig.TxEncoder()
	txBytes, err := encoder(txb.GetTx())
	if err != nil {
		return nil, 0, err
	}
	return txBytes, fee.GasLimit, nil
}

func (txp *txProvider) autoFee(ctx context.Context, tx authsigning.Tx) (*Fee, error) {
	gasPrice, err := txp.gasPriceProvider.GetGasPrice(txp.chainName)
	if err != nil {
		return nil, err
	}

	gasFactor, err := txp.gasPriceProvider.GetGasFactor(txp.chainName)
	if err != nil {
		return nil, err
	}

	simulationResult, err := txp.simulationManager.SimulateTx(ctx, tx, gasFactor)
	if err != nil {
		return nil, err
	}
	if simulationResult.GasRecommendation == 0 {
		return nil, fmt.Errorf("simulation recommended zero gas")
	}
	txp.logger.Info("simulated gas", "gas_used", simulationResult.GasUsed, "gas_limit", simulationResult.GasRecommendation, "gas_factor", gasFactor)

	return &Fee{
		Amount:   CalculateFee(gasPrice, simulationResult.GasRecommendation),
		GasLimit: simulationResult.GasRecommendation,
	}, nil
}
