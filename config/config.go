package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/dorahacksglobal/appchain-grant-vota/arrays"
	"github.com/dorahacksglobal/appchain-grant-vota/chains"
)

const defaultEnvFile = ".env"

var (
	ErrMissingMnemonic = errors.New("MNEMONIC is not set")
	ErrInvalidCodeID   = errors.New("invalid CODEID")
	ErrInvalidVote     = errors.New("invalid vote")
)

// Config is the runner configuration, read from the environment.
type Config struct {
	Mainnet  bool   `env:"MAINNET" envDefault:"false"`
	Mnemonic string `env:"MNEMONIC,unset"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Raw CODEID, parsed by Load. Empty or zero means "not deployed yet".
	RawCodeID       string `env:"CODEID"`
	CodeID          uint64
	ContractAddress string `env:"CONTRACT_ADDRESS"`

	WasmPath       string   `env:"WASM_PATH" envDefault:"./artifacts/appchain_grant_vota.wasm"`
	ContractLabel  string   `env:"CONTRACT_LABEL" envDefault:"QuadraticGrantTestInstance"`
	ContractAdmins []string `env:"CONTRACT_ADMINS" envSeparator:"," envDefault:"dora1kw5qfnrxk9sw5gcyk3emktwtca94e5a4dau8y3,dora1pntxsj79xkjm9q096fj9ry9wvtexmtk6ms6fag,dora1apfd8sm69x9prca2rranp32pdagh9s9um2fplu"`

	NetworkFile          string `env:"NETWORK_FILE"`
	ChainRegistryName    string `env:"CHAIN_REGISTRY_NAME"`
	ChainRegistryBaseUrl string `env:"CHAIN_REGISTRY_URL" envDefault:"https://raw.githubusercontent.com/cosmos/chain-registry/master"`
	GrpcEndpoint string `env:"GRPC_ENDPOINT"`
	RpcEndpoint  string `env:"RPC_ENDPOINT"`

	GasPrice      string  `env:"GAS_PRICE"`
	GasAdjustment float64 `env:"GAS_ADJUSTMENT" envDefault:"1.4"`

	Actions       []string `env:"ACTIONS" envSeparator:"," envDefault:"set_beneficiary"`
	Beneficiary   string   `env:"BENEFICIARY" envDefault:"dora1apfd8sm69x9prca2rranp32pdagh9s9um2fplu"`
	RawVotes      []string `env:"VOTES" envSeparator:","`
	Votes         []Vote
	VoteBatchSize int      `env:"VOTE_BATCH_SIZE" envDefault:"0"`
	SendTo        string   `env:"SEND_TO"`
	NewMember     string   `env:"NEW_MEMBER"`

	QueryProjectID uint64 `env:"QUERY_PROJECT_ID" envDefault:"1"`
	QueryRoundID   uint64 `env:"QUERY_ROUND_ID" envDefault:"1"`

	TxPollAttempts   uint          `env:"TX_POLL_ATTEMPTS" envDefault:"20"`
	TxPollDelay      time.Duration `env:"TX_POLL_DELAY" envDefault:"3s"`
	RpcRetryAttempts uint          `env:"RPC_RETRY_ATTEMPTS" envDefault:"1"`
	RpcRetryDelay    time.Duration `env:"RPC_RETRY_DELAY" envDefault:"1s"`
}

// Vote is a single project vote, written as "<project id>:<amount in base units>".
type Vote struct {
	ProjectID uint64
	Amount    sdkmath.Uint
}

// ParseVote parses one "<project id>:<amount>" entry.
func ParseVote(input string) (Vote, error) {
	raw := strings.TrimSpace(input)
	projectPart, amountPart, found := strings.Cut(raw, ":")
	if !found {
		return Vote{}, fmt.Errorf("%w: %q, expected <project id>:<amount>", ErrInvalidVote, raw)
	}

	projectID, err := strconv.ParseUint(strings.TrimSpace(projectPart), 10, 64)
	if err != nil {
		return Vote{}, fmt.Errorf("%w: bad project id in %q: %s", ErrInvalidVote, raw, err)
	}

	amount, err := sdkmath.ParseUint(strings.TrimSpace(amountPart))
	if err != nil {
		return Vote{}, fmt.Errorf("%w: bad amount in %q: %s", ErrInvalidVote, raw, err)
	}
	if amount.IsZero() {
		return Vote{}, fmt.Errorf("%w: zero amount in %q", ErrInvalidVote, raw)
	}

	return Vote{ProjectID: projectID, Amount: amount}, nil
}

// Load reads an optional dotenv file (ENV_FILE, default .env) and then parses the environment. Values already in the
// environment win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile(path string) error {
	if !FileExists(path) {
		return nil
	}

	if err := godotenv.Load(ExpandHomeDir(path)); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() error {
	c.Mnemonic = strings.TrimSpace(c.Mnemonic)
	if c.Mnemonic == "" {
		return ErrMissingMnemonic
	}

	rawCodeID := strings.TrimSpace(c.RawCodeID)
	if rawCodeID != "" {
		codeID, err := strconv.ParseUint(rawCodeID, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q: %s", ErrInvalidCodeID, rawCodeID, err)
		}
		c.CodeID = codeID
	}

	c.ContractAddress = strings.TrimSpace(c.ContractAddress)
	c.WasmPath = ExpandHomeDir(c.WasmPath)
	c.NetworkFile = ExpandHomeDir(c.NetworkFile)
	c.ChainRegistryName = strings.Trim(strings.TrimSpace(c.ChainRegistryName), "/")

	c.Actions = normalizeList(c.Actions, strings.ToLower)

	c.Votes = nil
	for _, rawVote := range normalizeList(c.RawVotes, func(s string) string { return s }) {
		vote, err := ParseVote(rawVote)
		if err != nil {
			return err
		}
		c.Votes = append(c.Votes, vote)
	}
	c.ContractAdmins = normalizeList(c.ContractAdmins, func(s string) string { return s })

	if c.GasAdjustment <= 0 {
		return fmt.Errorf("GAS_ADJUSTMENT must be positive, got %f", c.GasAdjustment)
	}
	if c.RpcRetryAttempts == 0 {
		c.RpcRetryAttempts = 1
	}

	return nil
}

// HasCodeID reports whether a code id was supplied.
func (c *Config) HasCodeID() bool {
	return c.CodeID != 0
}

// HasContractAddress reports whether a contract address was supplied.
func (c *Config) HasContractAddress() bool {
	return c.ContractAddress != ""
}

// UsesChainRegistry reports whether the network should be fetched from a chain registry. A network file wins.
func (c *Config) UsesChainRegistry() bool {
	return c.NetworkFile == "" && c.ChainRegistryName != ""
}

// Network resolves the network to use: a custom network file when set, otherwise mainnet or testnet from the
// built in table. Endpoint and gas price overrides are applied to a copy.
func (c *Config) Network() (*chains.NetworkData, error) {
	var network *chains.NetworkData
	if c.NetworkFile != "" {
		loaded, err := chains.LoadNetworkFile(c.NetworkFile)
		if err != nil {
			return nil, err
		}
		network = loaded
	} else {
		selected, err := chains.NewOfflineChainRegistry().Select(c.Mainnet)
		if err != nil {
			return nil, err
		}
		network = selected
	}

	return c.ApplyOverrides(network), nil
}

// ApplyOverrides returns a copy of network with the endpoint and gas price overrides applied.
func (c *Config) ApplyOverrides(network *chains.NetworkData) *chains.NetworkData {
	resolved := *network
	if c.RpcEndpoint != "" {
		resolved.RpcUrl = c.RpcEndpoint
	}
	if c.GrpcEndpoint != "" {
		resolved.GrpcUrl = c.GrpcEndpoint
	}
	if c.GasPrice != "" {
		resolved.GasPrice = c.GasPrice
	}
	return &resolved
}

func normalizeList(input []string, transform func(string) string) []string {
	trimmed := arrays.Map(input, func(s string) string { return transform(strings.TrimSpace(s)) })
	return arrays.Filter(trimmed, func(s string) bool { return s != "" })
}
