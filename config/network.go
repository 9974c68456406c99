package config

import (
	"context"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	registry "github.com/dorahacksglobal/appchain-grant-vota/cosmos/chain-registry"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

// ResolveNetwork picks the network in order of precedence: NETWORK_FILE, then CHAIN_REGISTRY_NAME, then the built in
// table. Endpoint and gas price overrides are applied last.
func (c *Config) ResolveNetwork(ctx context.Context, logger *log.Logger) (*chains.NetworkData, error) {
	if !c.UsesChainRegistry() {
		return c.Network()
	}

	registryLogger := logger.ApplyPrefix("[registry]")
	client := registry.NewRetryableChainRegistryClient(
		c.RpcRetryAttempts,
		c.RpcRetryDelay,
		registry.NewChainRegistryClient(registryLogger, c.ChainRegistryBaseUrl),
		registryLogger,
	)

	network, err := client.Network(ctx, c.ChainRegistryName)
	if err != nil {
		return nil, err
	}
	registryLogger.Info("loaded network from chain registry", "chain_name", network.Name, "chain_id", network.ChainID)
	return c.ApplyOverrides(network), nil
}
