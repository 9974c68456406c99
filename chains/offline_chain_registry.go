package chains

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	MainnetName = "vota-mainnet"
	TestnetName = "vota-testnet"
)

var ErrUnknownNetwork = errors.New("unknown network")

// OfflineChainRegistry holds the networks known without asking any remote registry.
type OfflineChainRegistry struct {
	ChainIDToData map[string]*NetworkData
	NameToData    map[string]*NetworkData
}

func NewOfflineChainRegistry() *OfflineChainRegistry {
	chainRegistry := &OfflineChainRegistry{
		ChainIDToData: make(map[string]*NetworkData),
		NameToData:    make(map[string]*NetworkData),
	}

	chainRegistry.Add(&NetworkData{
		Name:          MainnetName,
		ChainID:       "vota-ash",
		IsMainnet:     true,
		RpcUrl:        "https://vota-rpc.dorafactory.org",
		AccountPrefix: "dora",
		CoinType:      118,
		Denom:         "peaka",
		Decimals:      18,
		GasPrice:      "1000000000peaka",
	})
	chainRegistry.Add(&NetworkData{
		Name:          TestnetName,
		ChainID:       "cvota-testnet",
		IsMainnet:     false,
		RpcUrl:        "https://vota-testnet-rpc.dorafactory.org",
		AccountPrefix: "dora",
		CoinType:      118,
		Denom:         "peaka",
		Decimals:      18,
		GasPrice:      "1000000000peaka",
	})

	return chainRegistry
}

// Add registers a network, replacing any network with the same name or chain id.
func (cr *OfflineChainRegistry) Add(network *NetworkData) {
	cr.NameToData[network.Name] = network
	cr.ChainIDToData[network.ChainID] = network
}

// Select returns the mainnet or the testnet definition.
func (cr *OfflineChainRegistry) Select(isMainnet bool) (*NetworkData, error) {
	name := TestnetName
	if isMainnet {
		name = MainnetName
	}

	network, found := cr.NameToData[name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return network, nil
}

// LoadNetworkFile reads a single network definition from a YAML file, for chains outside the built in table
// (ex. a localnet).
func LoadNetworkFile(path string) (*NetworkData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var network NetworkData
	if err := yaml.UnmarshalStrict(data, &network); err != nil {
		return nil, fmt.Errorf("failed to parse network file %s: %w", path, err)
	}

	if err := network.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network file %s: %w", path, err)
	}

	if network.CoinType == 0 {
		network.CoinType = 118
	}
	if network.Name == "" {
		network.Name = network.ChainID
	}

	return &network, nil
}

// Validate checks that the fields needed to connect and sign are present.
func (n *NetworkData) Validate() error {
	missing := []string{}
	if strings.TrimSpace(n.ChainID) == "" {
		missing = append(missing, "chain_id")
	}
	if strings.TrimSpace(n.RpcUrl) == "" {
		missing = append(missing, "rpc_url")
	}
	if strings.TrimSpace(n.AccountPrefix) == "" {
		missing = append(missing, "account_prefix")
	}
	if strings.TrimSpace(n.Denom) == "" {
		missing = append(missing, "denom")
	}
	if strings.TrimSpace(n.GasPrice) == "" {
		missing = append(missing, "gas_price")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
