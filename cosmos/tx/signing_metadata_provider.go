package tx

import (
	"context"
	"fmt"

	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/rpc"
)

// SigningMetadataProvider looks up the account number and sequence needed to sign for an address.
type SigningMetadataProvider struct {
	chainID string

	rpcClient rpc.RpcClient
}

func NewSigningMetadataProvider(chainID string, rpcClient rpc.RpcClient) (*SigningMetadataProvider, error) {
	if chainID == "" {
		return nil, fmt.Errorf("signing metadata provider needs a chain id")
	}

	return &SigningMetadataProvider{
		chainID:   chainID,
		rpcClient: rpcClient,
	}, nil
}

func (smp *SigningMetadataProvider) SigningMetadataForAccount(ctx context.Context, address string) (*SigningMetadata, error) {
	account, err := smp.rpcClient.Account(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", address, err)
	}

	return NewSigningMetadata(address, account.GetAccountNumber(), account.GetSequence(), smp.chainID), nil
}
