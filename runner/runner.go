package runner

import (
	"context"
	"fmt"
	"os"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	"github.com/dorahacksglobal/appchain-grant-vota/config"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
	"github.com/dorahacksglobal/appchain-grant-vota/util"
	"github.com/dorahacksglobal/appchain-grant-vota/vota"
)

// Runner drives one linear demo session against a deployed, or freshly deployed, grant voting contract.
type Runner struct {
	cfg     *config.Config
	network *chains.NetworkData
	address string
	clients ChainClients

	readFile func(path string) ([]byte, error)
	logger   *log.Logger
}

// NewRunner creates a runner acting as address, the account derived from the configured mnemonic.
func NewRunner(cfg *config.Config, network *chains.NetworkData, address string, clients ChainClients, logger *log.Logger) (*Runner, error) {
	if address == "" {
		return nil, fmt.Errorf("no sender address given")
	}
	if clients.Read == nil || clients.Signing == nil || clients.ReadContract == nil || clients.SigningContract == nil {
		return nil, fmt.Errorf("all four chain clients are required")
	}

	return &Runner{
		cfg:     cfg,
		network: network,
		address: address,
		clients: clients,

		readFile: readWasmFile,
		logger:   logger.ApplyPrefix("[runner]"),
	}, nil
}

func readWasmFile(path string) ([]byte, error) {
	resolvedPath, err := config.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(resolvedPath)
}

// Run checks the balance, resolves the deployment, builds the contract handle and runs the configured actions, in
// that order. The first failure ends the run.
func (r *Runner) Run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = util.InterfaceToError(recovered)
			r.logger.Error("run panicked", "error", err)
		}
	}()

	actions, err := ParseActions(r.cfg.Actions)
	if err != nil {
		return err
	}
	r.logger.Info("starting run", "address", r.address, "network", r.network.Name, "chain_id", r.network.ChainID, "actions", r.cfg.Actions)

	if _, err := r.CheckBalance(ctx, r.address); err != nil {
		return err
	}

	deployment, err := r.ResolveDeployment(ctx)
	if err != nil {
		return err
	}
	if err := r.DescribeContract(ctx, deployment); err != nil {
		return err
	}

	handle, err := r.NewHandle(deployment.ContractAddress)
	if err != nil {
		return err
	}

	for _, action := range actions {
		if err := r.runAction(ctx, handle, action); err != nil {
			return fmt.Errorf("action %s failed: %w", action, err)
		}
	}

	r.logger.Info("run finished", "num_actions", len(actions))
	return nil
}

// ResolveDeployment uploads and instantiates only what the configuration does not already supply.
func (r *Runner) ResolveDeployment(ctx context.Context) (*Deployment, error) {
	deployment := &Deployment{
		CodeID:          r.cfg.CodeID,
		ContractAddress: r.cfg.ContractAddress,
	}

	if !r.cfg.HasCodeID() {
		codeID, err := r.UploadContract(ctx, r.cfg.WasmPath)
		if err != nil {
			return nil, err
		}
		deployment.CodeID = codeID
	}

	if !r.cfg.HasContractAddress() {
		contractAddress, err := r.InitContract(ctx, deployment.CodeID)
		if err != nil {
			return nil, err
		}
		deployment.ContractAddress = contractAddress
	}

	return deployment, nil
}

// DescribeContract reads the contract's on-chain info and logs the code id the chain reports for it.
func (r *Runner) DescribeContract(ctx context.Context, deployment *Deployment) error {
	info, err := r.clients.ReadContract.ContractInfo(ctx, deployment.ContractAddress)
	if err != nil {
		return fmt.Errorf("failed to fetch contract info for %s: %w", deployment.ContractAddress, err)
	}

	r.logger.Info("using contract", "contract_address", deployment.ContractAddress, "code_id", info.CodeID, "label", info.Label, "admin", info.Admin)
	if info.CodeID != deployment.CodeID {
		r.logger.Warn("contract was instantiated from a different code id than configured", "configured", deployment.CodeID, "chain", info.CodeID)
	}
	return nil
}

// NewHandle binds the signing contract client to contractAddress. The handle always acts as the runner's address.
func (r *Runner) NewHandle(contractAddress string) (*vota.Client, error) {
	executorAddress := r.clients.SigningContract.Address()
	if executorAddress != r.address {
		return nil, fmt.Errorf("signing contract client acts as %s, expected %s", executorAddress, r.address)
	}

	return vota.NewClient(r.clients.SigningContract, contractAddress, r.network.Denom, r.logger.ApplyPrefix("[vota]"))
}
