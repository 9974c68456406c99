package registry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

// Implements a retryable and returns the last error
type retryableChainRegistryClient struct {
	wrappedClient ChainRegistryClient

	attempts retry.Option
	delay    retry.Option

	logger *log.Logger
}

// Ensure that retryableChainRegistryClient implements ChainRegistryClient
var _ ChainRegistryClient = (*retryableChainRegistryClient)(nil)

// NewRetryableChainRegistryClient wraps a client so that each call is attempted up to attempts times.
func NewRetryableChainRegistryClient(attempts uint, delay time.Duration, chainRegistryClient ChainRegistryClient, logger *log.Logger) ChainRegistryClient {
	if attempts == 0 {
		attempts = 1
	}

	return &retryableChainRegistryClient{
		wrappedClient: chainRegistryClient,

		attempts: retry.Attempts(attempts),
		delay:    retry.Delay(delay),

		logger: logger,
	}
}

// ChainRegistryClient Interface

func (r *retryableChainRegistryClient) ChainInfo(ctx context.Context, chainName string) (*ChainInfo, error) {
	return doWithRetry(ctx, r, "chain_info", func() (*ChainInfo, error) {
		return r.wrappedClient.ChainInfo(ctx, chainName)
	})
}

func (r *retryableChainRegistryClient) AssetList(ctx context.Context, chainName string) (*AssetList, error) {
	return doWithRetry(ctx, r, "asset_list", func() (*AssetList, error) {
		return r.wrappedClient.AssetList(ctx, chainName)
	})
}

// Network retries each fetch on its own rather than the combined lookup.
func (r *retryableChainRegistryClient) Network(ctx context.Context, chainName string) (*chains.NetworkData, error) {
	return resolveNetwork(ctx, r, chainName)
}

func doWithRetry[T any](ctx context.Context, r *retryableChainRegistryClient, method string, fn func() (T, error)) (T, error) {
	return retry.DoWithData(func() (T, error) {
		result, err := fn()
		if err != nil {
			r.logger.Error("failed call in registry client, will retry", "error", err.Error(), "method", method)
		}
		return result, err
	}, r.delay, r.attempts, retry.Context(ctx), retry.LastErrorOnly(true))
}
