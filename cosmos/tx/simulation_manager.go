package tx

import (
	"context"
	"fmt"
	"math"

	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/rpc"

	"github.com/cosmos/cosmos-sdk/client"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
)

// SimulationManager manages simulating gas from transactions.
type SimulationManager interface {
	SimulateTx(ctx context.Context, tx authsigning.Tx, gasFactor float64) (*SimulationResult, error)
	SimulateTxBytes(ctx context.Context, txBytes []byte, gasFactor float64) (*SimulationResult, error)
}

// simulationManager is the default implementation
type simulationManager struct {
	txConfig  client.TxConfig
	rpcClient rpc.RpcClient
}

// Ensure type conformance
var _ SimulationManager = (*simulationManager)(nil)

// NewSimulationManager makes a new default simulationManager
func NewSimulationManager(rpcClient rpc.RpcClient, txConfig client.TxConfig) (SimulationManager, error) {
	return &simulationManager{
		txConfig:  txConfig,
		rpcClient: rpcClient,
	}, nil
}

// Simulation Manager interface

func (sm *simulationManager) SimulateTx(ctx context.Context, tx authsigning.Tx, gasFactor float64) (*SimulationResult, error) {
	// Form transaction bytes
	encoder := sm.txConfig.TxEncoder()
	txBytes, err := encoder(tx)
	if err != nil {
		return nil, err
	}

	return sm.SimulateTxBytes(ctx, txBytes, gasFactor)
}

func (sm *simulationManager) SimulateTxBytes(ctx context.Context, txBytes []byte, gasFactor float64) (*SimulationResult, error) {
	simulationResponse, err := sm.rpcClient.Simulate(ctx, txBytes)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}
	if simulationResponse.GasInfo == nil {
		return nil, fmt.Errorf("simulation returned no gas info")
	}

	gasUsed := simulationResponse.GasInfo.GasUsed
	return &SimulationResult{
		GasUsed:           gasUsed,
		GasRecommendation: RecommendGas(gasUsed, gasFactor),
	}, nil
}

// RecommendGas scales simulated gas by gasFactor, rounding up.
func RecommendGas(gasUsed uint64, gasFactor float64) uint64 {
	return uint64(math.Ceil(float64(gasUsed) * gasFactor))
}
