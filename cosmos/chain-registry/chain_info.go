package registry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	"github.com/dorahacksglobal/appchain-grant-vota/crypto"
)

func parseChainResponse(responseBytes []byte) (*ChainInfo, error) {
	var chainInfo ChainInfo
	err := json.Unmarshal(responseBytes, &chainInfo)
	if err != nil {
		return nil, err
	}
	return &chainInfo, nil
}

// Convenience helper methods

func (ci *ChainInfo) FeeToken() (*FeeToken, error) {
	feeTokens := ci.Fees.FeeTokens
	if len(feeTokens) == 0 {
		return nil, ErrNoFeeTokenFound
	}
	return &feeTokens[0], nil
}

// GasPrice renders the fee token's gas price as a decimal coin. The average price is preferred, then the low and fixed
// minimum prices.
func (ci *ChainInfo) GasPrice() (string, error) {
	feeToken, err := ci.FeeToken()
	if err != nil {
		return "", err
	}

	price := feeToken.AverageGasPrice
	if price <= 0 {
		price = feeToken.LowGasPrice
	}
	if price <= 0 {
		price = feeToken.FixedMinGasPrice
	}

	rendered := strconv.FormatFloat(price, 'f', -1, 64) + feeToken.Denom
	if _, err := sdk.ParseDecCoin(rendered); err != nil {
		return "", fmt.Errorf("invalid gas price %q in registry: %w", rendered, err)
	}
	return rendered, nil
}

func (ci *ChainInfo) RpcUrl() (string, error) {
	for _, api := range ci.APIs.RPC {
		if address := strings.TrimSpace(api.Address); address != "" {
			return address, nil
		}
	}
	return "", ErrNoApiFound
}

// GrpcUrl returns the first gRPC endpoint, or an empty string if the registry lists none.
func (ci *ChainInfo) GrpcUrl() string {
	for _, api := range ci.APIs.GRPC {
		if address := strings.TrimSpace(api.Address); address != "" {
			return address
		}
	}
	return ""
}

// ToNetworkData merges chain info with the fee token's asset into a network definition.
func (ci *ChainInfo) ToNetworkData(assetList *AssetList) (*chains.NetworkData, error) {
	feeToken, err := ci.FeeToken()
	if err != nil {
		return nil, err
	}

	gasPrice, err := ci.GasPrice()
	if err != nil {
		return nil, err
	}

	rpcUrl, err := ci.RpcUrl()
	if err != nil {
		return nil, err
	}

	asset, err := assetList.ExtractAssetByBase(feeToken.Denom)
	if err != nil {
		return nil, err
	}

	decimals, err := asset.Decimals()
	if err != nil {
		return nil, err
	}

	coinType := ci.Slip44
	if coinType == 0 {
		coinType = crypto.CosmosCoinType
	}

	network := &chains.NetworkData{
		Name:          ci.ChainName,
		ChainID:       ci.ChainID,
		IsMainnet:     strings.EqualFold(ci.NetworkType, "mainnet"),
		RpcUrl:        rpcUrl,
		GrpcUrl:       ci.GrpcUrl(),
		AccountPrefix: ci.Bech32Prefix,
		CoinType:      coinType,
		Denom:         feeToken.Denom,
		Decimals:      decimals,
		GasPrice:      gasPrice,
	}
	if err := network.Validate(); err != nil {
		return nil, fmt.Errorf("incomplete registry entry for %s: %w", ci.ChainName, err)
	}
	return network, nil
}
