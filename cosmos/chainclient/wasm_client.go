package chainclient

import (
	"context"
	"encoding/json"
	"fmt"

	wasmioutils "github.com/CosmWasm/wasmd/x/wasm/ioutils"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/dorahacksglobal/appchain-grant-vota/coding"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/rpc"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/tx"
	"github.com/dorahacksglobal/appchain-grant-vota/crypto"
)

// WasmQueryClient answers read-only queries against CosmWasm contracts.
type WasmQueryClient struct {
	*QueryClient
}

// ConnectWasmQueryClient opens a read-only contract client on its own connection.
func ConnectWasmQueryClient(opts *Options) (*WasmQueryClient, error) {
	queryClient, err := ConnectQueryClient(opts)
	if err != nil {
		return nil, err
	}
	return &WasmQueryClient{QueryClient: queryClient}, nil
}

func (c *WasmQueryClient) QuerySmart(ctx context.Context, contractAddress string, query any, response any) error {
	return querySmart(ctx, c.rpcClient, contractAddress, query, response)
}

func (c *WasmQueryClient) ContractInfo(ctx context.Context, contractAddress string) (*wasmtypes.ContractInfo, error) {
	return c.rpcClient.ContractInfo(ctx, contractAddress)
}

// SigningWasmClient stores, instantiates and executes CosmWasm contracts.
type SigningWasmClient struct {
	*SigningClient
}

// ConnectSigningWasmClient opens a signing contract client on its own connection.
func ConnectSigningWasmClient(ctx context.Context, opts *Options, signer crypto.BytesSigner) (*SigningWasmClient, error) {
	signingClient, err := ConnectSigningClient(ctx, opts, signer)
	if err != nil {
		return nil, err
	}
	return &SigningWasmClient{SigningClient: signingClient}, nil
}

// UploadResult describes a stored wasm blob.
type UploadResult struct {
	CodeID         uint64
	Checksum       string
	OriginalSize   int
	CompressedSize int
	Result         *tx.Result
}

// Upload stores wasmCode on chain. Uncompressed code is gzipped before it is sent.
func (c *SigningWasmClient) Upload(ctx context.Context, wasmCode []byte, fee *tx.Fee, memo string) (*UploadResult, error) {
	payload, err := CompressWasm(wasmCode)
	if err != nil {
		return nil, err
	}
	checksum := coding.Checksum(wasmCode)

	c.logger.Info("uploading wasm code", "checksum", checksum, "original_size", len(wasmCode), "compressed_size", len(payload))
	msg := &wasmtypes.MsgStoreCode{
		Sender:       c.Address(),
		WASMByteCode: payload,
	}

	result, err := c.SignAndBroadcast(ctx, []sdk.Msg{msg}, fee, memo)
	if err != nil {
		return nil, err
	}

	codeID, err := CodeIDFromEvents(result.Events)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", result.TxHash, err)
	}

	return &UploadResult{
		CodeID:         codeID,
		Checksum:       checksum,
		OriginalSize:   len(wasmCode),
		CompressedSize: len(payload),
		Result:         result,
	}, nil
}

// InstantiateOptions are the optional parts of an instantiation.
type InstantiateOptions struct {
	Admin string
	Funds sdk.Coins
	Memo  string
}

// InstantiateResult describes a freshly created contract.
type InstantiateResult struct {
	ContractAddress string
	Result          *tx.Result
}

// Instantiate creates a contract from codeID. msg is marshalled to JSON.
func (c *SigningWasmClient) Instantiate(ctx context.Context, codeID uint64, msg any, label string, options InstantiateOptions, fee *tx.Fee) (*InstantiateResult, error) {
	rawMsg, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode instantiate message: %w", err)
	}

	instantiateMsg := &wasmtypes.MsgInstantiateContract{
		Sender: c.Address(),
		Admin:  options.Admin,
		CodeID: codeID,
		Label:  label,
		Msg:    rawMsg,
		Funds:  options.Funds,
	}

	result, err := c.SignAndBroadcast(ctx, []sdk.Msg{instantiateMsg}, fee, options.Memo)
	if err != nil {
		return nil, err
	}

	contractAddress, err := ContractAddressFromEvents(result.Events)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", result.TxHash, err)
	}

	return &InstantiateResult{
		ContractAddress: contractAddress,
		Result:          result,
	}, nil
}

// Execute runs msg, marshalled to JSON, on contractAddress with funds attached.
func (c *SigningWasmClient) Execute(ctx context.Context, contractAddress string, msg any, funds sdk.Coins, fee *tx.Fee, memo string) (*tx.Result, error) {
	rawMsg, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode execute message: %w", err)
	}

	executeMsg := &wasmtypes.MsgExecuteContract{
		Sender:   c.Address(),
		Contract: contractAddress,
		Msg:      rawMsg,
		Funds:    funds,
	}

	return c.SignAndBroadcast(ctx, []sdk.Msg{executeMsg}, fee, memo)
}

func (c *SigningWasmClient) QuerySmart(ctx context.Context, contractAddress string, query any, response any) error {
	return querySmart(ctx, c.rpcClient, contractAddress, query, response)
}

func (c *SigningWasmClient) ContractInfo(ctx context.Context, contractAddress string) (*wasmtypes.ContractInfo, error) {
	return c.rpcClient.ContractInfo(ctx, contractAddress)
}

// CompressWasm gzips wasm byte code unless it already is gzipped.
func CompressWasm(wasmCode []byte) ([]byte, error) {
	if len(wasmCode) == 0 {
		return nil, fmt.Errorf("empty wasm code")
	}
	if wasmioutils.IsGzip(wasmCode) {
		return wasmCode, nil
	}

	compressed, err := wasmioutils.GzipIt(wasmCode)
	if err != nil {
		return nil, fmt.Errorf("failed to gzip wasm code: %w", err)
	}
	return compressed, nil
}

func querySmart(ctx context.Context, rpcClient rpc.RpcClient, contractAddress string, query any, response any) error {
	rawQuery, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	data, err := rpcClient.SmartContractState(ctx, contractAddress, rawQuery)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, response); err != nil {
		return fmt.Errorf("failed to decode query response %s: %w", coding.PayloadFingerprint(data), err)
	}
	return nil
}
