package chains

// NetworkData describes a network the runner can talk to. It is selected once at startup and never mutated.
type NetworkData struct {
	Name      string `yaml:"name"`
	ChainID   string `yaml:"chain_id"`
	IsMainnet bool   `yaml:"mainnet"`

	RpcUrl  string `yaml:"rpc_url"`
	GrpcUrl string `yaml:"grpc_url,omitempty"`

	AccountPrefix string `yaml:"account_prefix"`
	CoinType      uint32 `yaml:"coin_type"`

	Denom    string `yaml:"denom"`
	Decimals int    `yaml:"decimals"`

	// Price per gas unit as a decimal coin, ex. "1000000000peaka".
	GasPrice string `yaml:"gas_price"`
}
