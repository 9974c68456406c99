package tx

import (
	abci "github.com/cometbft/cometbft/abci/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

type SimulationResult struct {
	GasUsed           uint64
	GasRecommendation uint64
}

type SigningMetadata struct {
	address       string
	accountNumber uint64
	sequence      uint64
	chainID       string
}

func NewSigningMetadata(address string, accountNumber, sequence uint64, chainID string) *SigningMetadata {
	return &SigningMetadata{
		address:       address,
		accountNumber: accountNumber,
		sequence:      sequence,
		chainID:       chainID,
	}
}

func (sm *SigningMetadata) Address() string {
	return sm.address
}

func (sm *SigningMetadata) AccountNumber() uint64 {
	return sm.accountNumber
}

func (sm *SigningMetadata) Sequence() uint64 {
	return sm.sequence
}

func (sm *SigningMetadata) ChainID() string {
	return sm.chainID
}

// Fee is an explicit fee. A nil *Fee means "simulate and price the gas".
type Fee struct {
	Amount   sdk.Coins
	GasLimit uint64
}

// Result is a transaction that landed in a block.
type Result struct {
	TxHash    string
	Height    int64
	Code      uint32
	Codespace string
	GasWanted int64
	GasUsed   int64
	Data      []byte
	RawLog    string
	Events    []abci.Event
}
