package registry

import (
	"context"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
)

type ChainRegistryClient interface {
	ChainInfo(ctx context.Context, chainName string) (*ChainInfo, error)
	AssetList(ctx context.Context, chainName string) (*AssetList, error)
	Network(ctx context.Context, chainName string) (*chains.NetworkData, error)
}
