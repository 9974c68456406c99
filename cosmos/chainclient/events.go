package chainclient

import (
	"errors"
	"fmt"
	"strconv"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	abci "github.com/cometbft/cometbft/abci/types"
)

var (
	ErrCodeIDNotFound          = errors.New("code id not found in transaction events")
	ErrContractAddressNotFound = errors.New("contract address not found in transaction events")
)

// FindAttribute returns the value of the first attribute named key on an event of type eventType.
func FindAttribute(events []abci.Event, eventType, key string) (string, bool) {
	for _, event := range events {
		if event.Type != eventType {
			continue
		}
		for _, attribute := range event.Attributes {
			if attribute.Key == key {
				return attribute.Value, true
			}
		}
	}
	return "", false
}

// CodeIDFromEvents extracts the code id assigned by a store code transaction.
func CodeIDFromEvents(events []abci.Event) (uint64, error) {
	rawCodeID, found := FindAttribute(events, wasmtypes.EventTypeStoreCode, wasmtypes.AttributeKeyCodeID)
	if !found {
		return 0, ErrCodeIDNotFound
	}

	codeID, err := strconv.ParseUint(rawCodeID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable value %q", ErrCodeIDNotFound, rawCodeID)
	}
	return codeID, nil
}

// ContractAddressFromEvents extracts the address of a freshly instantiated contract.
func ContractAddressFromEvents(events []abci.Event) (string, error) {
	address, found := FindAttribute(events, wasmtypes.EventTypeInstantiate, wasmtypes.AttributeKeyContractAddr)
	if !found || address == "" {
		return "", ErrContractAddressNotFound
	}
	return address, nil
}
