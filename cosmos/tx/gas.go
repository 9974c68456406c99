package tx

import (
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GasPriceProvider is a simple KV store for gas, keyed by chain name.
type GasPriceProvider interface {
	HasGasPrice(chainName string) (bool, error)
	GetGasPrice(chainName string) (sdk.DecCoin, error)
	SetGasPrice(chainName string, gasPrice sdk.DecCoin) error

	HasGasFactor(chainName string) (bool, error)
	GetGasFactor(chainName string) (float64, error)
	SetGasFactor(chainName string, gasFactor float64) error
}

// InMemoryGasPriceProvider stores gas prices in memory.
type InMemoryGasPriceProvider struct {
	prices  map[string]sdk.DecCoin
	factors map[string]float64

	lock *sync.Mutex
}

var _ GasPriceProvider = (*InMemoryGasPriceProvider)(nil)

func NewInMemoryGasPriceProvider() (GasPriceProvider, error) {
	provider := &InMemoryGasPriceProvider{
		prices:  make(map[string]sdk.DecCoin),
		factors: make(map[string]float64),

		lock: &sync.Mutex{},
	}
	return provider, nil
}

func (gp *InMemoryGasPriceProvider) HasGasPrice(chainName string) (bool, error) {
	gp.lock.Lock()
	defer gp.lock.Unlock()

	_, found := gp.prices[chainName]
	return found, nil
}

func (gp *InMemoryGasPriceProvider) GetGasPrice(chainName string) (sdk.DecCoin, error) {
	gp.lock.Lock()
	defer gp.lock.Unlock()

	gasPrice, found := gp.prices[chainName]
	if !found {
		return sdk.DecCoin{}, fmt.Errorf("%w: %s", ErrNoGasPrice, chainName)
	}

	return gasPrice, nil
}

func (gp *InMemoryGasPriceProvider) SetGasPrice(chainName string, gasPrice sdk.DecCoin) error {
	if err := gasPrice.Validate(); err != nil {
		return fmt.Errorf("invalid gas price for %s: %w", chainName, err)
	}

	gp.lock.Lock()
	defer gp.lock.Unlock()

	gp.prices[chainName] = gasPrice
	return nil
}

func (gp *InMemoryGasPriceProvider) HasGasFactor(chainName string) (bool, error) {
	gp.lock.Lock()
	defer gp.lock.Unlock()

	_, found := gp.factors[chainName]
	return found, nil
}

func (gp *InMemoryGasPriceProvider) GetGasFactor(chainName string) (float64, error) {
	gp.lock.Lock()
	defer gp.lock.Unlock()

	gasFactor, found := gp.factors[chainName]
	if !found {
		return 0, fmt.Errorf("%w: %s", ErrNoGasFactor, chainName)
	}

	return gasFactor, nil
}

func (gp *InMemoryGasPriceProvider) SetGasFactor(chainName string, gasFactor float64) error {
	if gasFactor <= 0 {
		return fmt.Errorf("gas factor must be positive, got %f", gasFactor)
	}

	gp.lock.Lock()
	defer gp.lock.Unlock()

	gp.factors[chainName] = gasFactor
	return nil
}

// ParseGasPrice parses a price per gas unit such as "1000000000peaka".
func ParseGasPrice(raw string) (sdk.DecCoin, error) {
	gasPrice, err := sdk.ParseDecCoin(raw)
	if err != nil {
		return sdk.DecCoin{}, fmt.Errorf("invalid gas price %q: %w", raw, err)
	}
	return gasPrice, nil
}

// CalculateFee prices gasLimit units at gasPrice, rounding up to a whole base unit.
func CalculateFee(gasPrice sdk.DecCoin, gasLimit uint64) sdk.Coins {
	amount := gasPrice.Amount.MulInt(sdkmath.NewIntFromUint64(gasLimit)).Ceil().RoundInt()
	return sdk.NewCoins(sdk.NewCoin(gasPrice.Denom, amount))
}

// Helper function to know if an error had to do with gas.
func IsGasRelatedError(codespace string, code uint32) bool {
	return IsGasPriceError(codespace, code) || isGasAmountError(codespace, code)
}

// Helper function to determine if an error is related to too small of a gas price
func IsGasPriceError(codespace string, code uint32) bool {
	return codespace == "sdk" && code == 13
}

// Helper function to determine if an error is related to to few gas units
func isGasAmountError(codespace string, code uint32) bool {
	return codespace == "sdk" && code == 11
}
