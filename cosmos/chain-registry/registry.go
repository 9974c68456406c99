package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

// DefaultBaseUrl serves the raw files of the public Cosmos chain registry.
const DefaultBaseUrl = "https://raw.githubusercontent.com/cosmos/chain-registry/master"

// Default implementation. Chain names may carry a directory, ex. "testnets/doravotatestnet".
type chainRegistryClient struct {
	baseUrl    string
	httpClient *http.Client

	log *log.Logger
}

// Type assertion
var _ ChainRegistryClient = (*chainRegistryClient)(nil)

// NewChainRegistryClient makes a new default registry client.
func NewChainRegistryClient(log *log.Logger, baseUrl string) *chainRegistryClient {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	return &chainRegistryClient{
		baseUrl:    strings.TrimSuffix(baseUrl, "/"),
		httpClient: &http.Client{},
		log:        log,
	}
}

// ChainRegistryClient interface

func (rc *chainRegistryClient) ChainInfo(ctx context.Context, chainName string) (*ChainInfo, error) {
	url := fmt.Sprintf("%s/%s/chain.json", rc.baseUrl, chainName)

	bytes, err := rc.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	return parseChainResponse(bytes)
}

func (rc *chainRegistryClient) AssetList(ctx context.Context, chainName string) (*AssetList, error) {
	url := fmt.Sprintf("%s/%s/assetlist.json", rc.baseUrl, chainName)

	bytes, err := rc.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	return parseAssetListResponse(bytes)
}

func (rc *chainRegistryClient) Network(ctx context.Context, chainName string) (*chains.NetworkData, error) {
	return resolveNetwork(ctx, rc, chainName)
}

func resolveNetwork(ctx context.Context, client ChainRegistryClient, chainName string) (*chains.NetworkData, error) {
	chainInfo, err := client.ChainInfo(ctx, chainName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain info for %s: %w", chainName, err)
	}

	assetList, err := client.AssetList(ctx, chainName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset list for %s: %w", chainName, err)
	}

	return chainInfo.ToNetworkData(assetList)
}

// Private helpers

func (rc *chainRegistryClient) makeRequest(ctx context.Context, url string) ([]byte, error) {
	rc.log.Debug("making GET request to url", "url", url)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	resp, err := rc.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		if err == nil {
			rc.log.Debug("received bad response from chain registry", "response", string(data), "status_code", resp.StatusCode)
		}
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	if err != nil {
		return nil, err
	}

	rc.log.Debug("received http 200 response from chain registry")
	return data, nil
}
