package config_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorahacksglobal/appchain-grant-vota/config"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

const registryChainJson = `{
  "chain_name": "doravota",
  "network_type": "mainnet",
  "chain_id": "vota-registry",
  "bech32_prefix": "dora",
  "slip44": 118,
  "fees": {"fee_tokens": [{"denom": "peaka", "average_gas_price": 100000000000}]},
  "apis": {"rpc": [{"address": "https://registry-rpc.example"}]}
}`

const registryAssetListJson = `{
  "chain_name": "doravota",
  "assets": [{"base": "peaka", "display": "dora", "denom_units": [{"denom": "peaka", "exponent": 0}, {"denom": "dora", "exponent": 18}]}]
}`

const localnetYaml = `name: localnet
chain_id: vota-local
rpc_url: http://localhost:26657
account_prefix: dora
denom: peaka
decimals: 18
gas_price: 1peaka
`

func newRegistry(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/doravota/chain.json", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(registryChainJson))
	})
	mux.HandleFunc("/doravota/assetlist.json", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(registryAssetListJson))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &calls
}

func registryConfig(serverUrl string) *config.Config {
	return &config.Config{
		ChainRegistryName:    "doravota",
		ChainRegistryBaseUrl: serverUrl,
		RpcRetryAttempts:     1,
		RpcRetryDelay:        time.Millisecond,
	}
}

func TestResolveNetwork_NetworkFileWinsOverRegistry(t *testing.T) {
	server, calls := newRegistry(t)
	networkFile := filepath.Join(t.TempDir(), "localnet.yaml")
	require.NoError(t, os.WriteFile(networkFile, []byte(localnetYaml), 0o600))

	cfg := registryConfig(server.URL)
	cfg.NetworkFile = networkFile

	network, err := cfg.ResolveNetwork(context.Background(), log.Default())
	require.NoError(t, err)
	assert.Equal(t, "vota-local", network.ChainID)
	assert.Equal(t, int32(0), calls.Load())
}

func TestResolveNetwork_RegistryWinsOverTable(t *testing.T) {
	server, calls := newRegistry(t)
	cfg := registryConfig(server.URL)

	network, err := cfg.ResolveNetwork(context.Background(), log.Default())
	require.NoError(t, err)
	assert.Equal(t, "vota-registry", network.ChainID)
	assert.True(t, network.IsMainnet)
	assert.Equal(t, "https://registry-rpc.example", network.RpcUrl)
	assert.Equal(t, "100000000000peaka", network.GasPrice)
	assert.Equal(t, int32(2), calls.Load())
}

func TestResolveNetwork_OverridesApplyToRegistryNetwork(t *testing.T) {
	server, _ := newRegistry(t)
	cfg := registryConfig(server.URL)
	cfg.RpcEndpoint = "http://localhost:26657"
	cfg.GasPrice = "2peaka"

	network, err := cfg.ResolveNetwork(context.Background(), log.Default())
	require.NoError(t, err)
	assert.Equal(t, "vota-registry", network.ChainID)
	assert.Equal(t, "http://localhost:26657", network.RpcUrl)
	assert.Equal(t, "2peaka", network.GasPrice)
}

func TestResolveNetwork_FallsBackToTable(t *testing.T) {
	cfg := &config.Config{Mainnet: true, GasPrice: "3peaka"}

	network, err := cfg.ResolveNetwork(context.Background(), log.Default())
	require.NoError(t, err)
	assert.Equal(t, "vota-ash", network.ChainID)
	assert.Equal(t, "3peaka", network.GasPrice)
}

func TestResolveNetwork_RegistryFailureIsReturned(t *testing.T) {
	server, _ := newRegistry(t)
	cfg := registryConfig(server.URL)
	cfg.ChainRegistryName = "nosuchchain"

	_, err := cfg.ResolveNetwork(context.Background(), log.Default())
	assert.ErrorContains(t, err, "404")
}
