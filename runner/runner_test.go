package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	"github.com/dorahacksglobal/appchain-grant-vota/config"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/chainclient"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/tx"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

const (
	sender      = "dora1sender"
	beneficiary = "dora1apfd8sm69x9prca2rranp32pdagh9s9um2fplu"
)

var wasmArtifact = []byte("\x00asm\x01\x00\x00\x00")

// fakeChain implements all four clients and records every remote call in order.
type fakeChain struct {
	calls []string

	executions []string
	funds      []sdk.Coins

	uploadedCode       []byte
	instantiatedCodeID uint64
	instantiateMsg     string
	instantiateOptions chainclient.InstantiateOptions
	instantiateLabel   string

	sentTo  string
	sentFee *tx.Fee

	executorAddress string
	executeEvents   []abci.Event
	uploadErr       error
	contractInfoErr error
	executePanics   bool
}

func newFakeChain() *fakeChain {
	return &fakeChain{executorAddress: sender}
}

func (f *fakeChain) ChainID(context.Context) (string, error) {
	f.calls = append(f.calls, "chain_id")
	return "cvota-testnet", nil
}

func (f *fakeChain) Height(context.Context) (int64, error) {
	f.calls = append(f.calls, "height")
	return 1234, nil
}

func (f *fakeChain) GetAllBalances(_ context.Context, address string) (sdk.Coins, error) {
	f.calls = append(f.calls, "balances:"+address)
	return sdk.NewCoins(sdk.NewInt64Coin("peaka", 5000000)), nil
}

func (f *fakeChain) SendTokens(_ context.Context, recipient string, _ sdk.Coins, fee *tx.Fee, _ string) (*tx.Result, error) {
	f.calls = append(f.calls, "send")
	f.sentTo = recipient
	f.sentFee = fee
	return &tx.Result{TxHash: "SEND"}, nil
}

func (f *fakeChain) ContractInfo(_ context.Context, contractAddress string) (*wasmtypes.ContractInfo, error) {
	f.calls = append(f.calls, "contract_info")
	if f.contractInfoErr != nil {
		return nil, f.contractInfoErr
	}
	return &wasmtypes.ContractInfo{CodeID: 42, Creator: sender, Label: "QuadraticGrantTestInstance"}, nil
}

func (f *fakeChain) Address() string {
	return f.executorAddress
}

func (f *fakeChain) Upload(_ context.Context, wasmCode []byte, _ *tx.Fee, _ string) (*chainclient.UploadResult, error) {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploadedCode = wasmCode
	return &chainclient.UploadResult{CodeID: 7, Checksum: "abcd", Result: &tx.Result{TxHash: "UPLOAD"}}, nil
}

func (f *fakeChain) Instantiate(_ context.Context, codeID uint64, msg any, label string, options chainclient.InstantiateOptions, _ *tx.Fee) (*chainclient.InstantiateResult, error) {
	f.calls = append(f.calls, "instantiate")
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	f.instantiatedCodeID = codeID
	f.instantiateMsg = string(raw)
	f.instantiateLabel = label
	f.instantiateOptions = options
	return &chainclient.InstantiateResult{ContractAddress: "dora1fresh", Result: &tx.Result{TxHash: "INIT"}}, nil
}

func (f *fakeChain) Execute(_ context.Context, contractAddress string, msg any, funds sdk.Coins, _ *tx.Fee, _ string) (*tx.Result, error) {
	if f.executePanics {
		panic("boom")
	}
	f.calls = append(f.calls, "execute:"+contractAddress)
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	f.executions = append(f.executions, string(raw))
	f.funds = append(f.funds, funds)
	return &tx.Result{TxHash: "EXEC", Events: f.executeEvents}, nil
}

func (f *fakeChain) QuerySmart(_ context.Context, _ string, query any, response any) error {
	f.calls = append(f.calls, "query")
	return json.Unmarshal([]byte(`3`), response)
}

func testConfig() *config.Config {
	return &config.Config{
		WasmPath:       "./artifacts/appchain_grant_vota.wasm",
		ContractLabel:  "QuadraticGrantTestInstance",
		ContractAdmins: []string{"dora1kw5qfnrxk9sw5gcyk3emktwtca94e5a4dau8y3", "dora1pntxsj79xkjm9q096fj9ry9wvtexmtk6ms6fag", beneficiary},
		Actions:        []string{"set_beneficiary"},
		Beneficiary:    beneficiary,
		QueryProjectID: 1,
		QueryRoundID:   1,
	}
}

func newTestRunner(t *testing.T, cfg *config.Config, chain *fakeChain) (*Runner, *bytes.Buffer) {
	t.Helper()

	network, err := chains.NewOfflineChainRegistry().Select(false)
	require.NoError(t, err)

	output := &bytes.Buffer{}
	clients := ChainClients{Read: chain, Signing: chain, ReadContract: chain, SigningContract: chain}
	r, err := NewRunner(cfg, network, sender, clients, log.NewLoggerWithWriter("info", output))
	require.NoError(t, err)

	r.readFile = func(path string) ([]byte, error) {
		if path != cfg.WasmPath {
			return nil, errors.New("unexpected path " + path)
		}
		return wasmArtifact, nil
	}
	return r, output
}

func TestRun_FreshDeployment(t *testing.T) {
	chain := newFakeChain()
	r, _ := newTestRunner(t, testConfig(), chain)

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{
		"chain_id", "height", "balances:" + sender,
		"upload",
		"instantiate",
		"contract_info",
		"execute:dora1fresh",
	}, chain.calls)

	assert.Equal(t, wasmArtifact, chain.uploadedCode)
	assert.Equal(t, uint64(7), chain.instantiatedCodeID)
	assert.JSONEq(t, `{"admins":["dora1kw5qfnrxk9sw5gcyk3emktwtca94e5a4dau8y3","dora1pntxsj79xkjm9q096fj9ry9wvtexmtk6ms6fag","dora1apfd8sm69x9prca2rranp32pdagh9s9um2fplu"]}`, chain.instantiateMsg)
	assert.Equal(t, "QuadraticGrantTestInstance", chain.instantiateLabel)
	assert.Equal(t, sender, chain.instantiateOptions.Admin)
	assert.Equal(t, "QuadraticGrantTestInstance", chain.instantiateOptions.Memo)
	assert.True(t, chain.instantiateOptions.Funds.Empty())

	require.Len(t, chain.executions, 1)
	assert.JSONEq(t, `{"set_beneficiary":{"address":"dora1apfd8sm69x9prca2rranp32pdagh9s9um2fplu"}}`, chain.executions[0])
}

func TestRun_ExistingDeploymentSkipsUploadAndInstantiate(t *testing.T) {
	cfg := testConfig()
	cfg.CodeID = 42
	cfg.ContractAddress = "dora1xyz"

	chain := newFakeChain()
	r, _ := newTestRunner(t, cfg, chain)

	require.NoError(t, r.Run(context.Background()))

	assert.NotContains(t, chain.calls, "upload")
	assert.NotContains(t, chain.calls, "instantiate")
	assert.Contains(t, chain.calls, "execute:dora1xyz")
}

func TestRun_LooksUpContractInfo(t *testing.T) {
	cfg := testConfig()
	cfg.CodeID = 42
	cfg.ContractAddress = "dora1xyz"

	chain := newFakeChain()
	r, output := newTestRunner(t, cfg, chain)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"chain_id", "height", "balances:" + sender, "contract_info", "execute:dora1xyz"}, chain.calls)
	assert.Contains(t, output.String(), "code_id=42")
	assert.NotContains(t, output.String(), "different code id")
}

func TestRun_ContractInfoReportsCodeIDMismatch(t *testing.T) {
	cfg := testConfig()
	cfg.CodeID = 41
	cfg.ContractAddress = "dora1xyz"

	chain := newFakeChain()
	r, output := newTestRunner(t, cfg, chain)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, output.String(), "different code id")
}

func TestRun_ContractInfoFailureAborts(t *testing.T) {
	cfg := testConfig()
	cfg.CodeID = 42
	cfg.ContractAddress = "dora1missing"

	chain := newFakeChain()
	chain.contractInfoErr = errors.New("contract not found")
	r, _ := newTestRunner(t, cfg, chain)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract not found")
	assert.Empty(t, chain.executions)
}

func TestRun_CodeIDWithoutAddressInstantiatesOnly(t *testing.T) {
	cfg := testConfig()
	cfg.CodeID = 42

	chain := newFakeChain()
	r, _ := newTestRunner(t, cfg, chain)

	require.NoError(t, r.Run(context.Background()))

	assert.NotContains(t, chain.calls, "upload")
	assert.Equal(t, uint64(42), chain.instantiatedCodeID)
	assert.Contains(t, chain.calls, "execute:dora1fresh")
}

func TestRun_AddressWithoutCodeIDUploadsOnly(t *testing.T) {
	cfg := testConfig()
	cfg.ContractAddress = "dora1xyz"

	chain := newFakeChain()
	r, _ := newTestRunner(t, cfg, chain)

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, chain.calls, "upload")
	assert.NotContains(t, chain.calls, "instantiate")
	assert.Contains(t, chain.calls, "execute:dora1xyz")
}

func TestRun_UnknownActionFailsBeforeAnyRemoteCall(t *testing.T) {
	cfg := testConfig()
	cfg.Actions = []string{"set_beneficiary", "withdraw"}

	chain := newFakeChain()
	r, _ := newTestRunner(t, cfg, chain)

	err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Empty(t, chain.calls)
}

func TestRun_UploadFailureAborts(t *testing.T) {
	chain := newFakeChain()
	chain.uploadErr = errors.New("out of gas")
	r, _ := newTestRunner(t, testConfig(), chain)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of gas")
	assert.NotContains(t, chain.calls, "instantiate")
	assert.Empty(t, chain.executions)
}

func TestRun_HandleActsAsMnemonicAddress(t *testing.T) {
	chain := newFakeChain()
	chain.executorAddress = "dora1someoneelse"
	cfg := testConfig()
	cfg.CodeID = 42
	cfg.ContractAddress = "dora1xyz"
	r, _ := newTestRunner(t, cfg, chain)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, chain.executions)

	chain.executorAddress = sender
	handle, err := r.NewHandle("dora1xyz")
	require.NoError(t, err)
	assert.Equal(t, sender, handle.Sender())
}

func TestRun_PanicIsReturnedAsError(t *testing.T) {
	chain := newFakeChain()
	chain.executePanics = true
	cfg := testConfig()
	cfg.CodeID = 42
	cfg.ContractAddress = "dora1xyz"
	r, _ := newTestRunner(t, cfg, chain)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRun_ActionsRunInOrder(t *testing.T) {
	cfg := testConfig()
	cfg.CodeID = 42
	cfg.ContractAddress = "dora1xyz"
	cfg.Actions = []string{"vote", "end_round", "round_id", "contract_info", "send_coins"}

	chain := newFakeChain()
	r, _ := newTestRunner(t, cfg, chain)

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{
		"chain_id", "height", "balances:" + sender,
		"contract_info",
		"execute:dora1xyz",
		"execute:dora1xyz",
		"query",
		"contract_info",
		"send",
	}, chain.calls)

	// Without configured votes, 0.4 token goes to project 1
	assert.JSONEq(t, `{"batch_vote":{"project_ids":[1],"amounts":["400000000000000000"]}}`, chain.executions[0])
	assert.Equal(t, "400000000000000000peaka", chain.funds[0].String())
	assert.JSONEq(t, `{"end_round":{}}`, chain.executions[1])

	assert.Equal(t, sender, chain.sentTo)
	require.NotNil(t, chain.sentFee)
	assert.Equal(t, uint64(200000), chain.sentFee.GasLimit)
	assert.Equal(t, "100000peaka", chain.sentFee.Amount.String())
}

func TestRun_VotesAreBatched(t *testing.T) {
	cfg := testConfig()
	cfg.CodeID = 42
	cfg.ContractAddress = "dora1xyz"
	cfg.Actions = []string{"vote"}
	cfg.VoteBatchSize = 2
	cfg.Votes = []config.Vote{
		{ProjectID: 1, Amount: sdkmath.NewUint(100)},
		{ProjectID: 2, Amount: sdkmath.NewUint(200)},
		{ProjectID: 3, Amount: sdkmath.NewUint(300)},
	}

	chain := newFakeChain()
	r, _ := newTestRunner(t, cfg, chain)

	require.NoError(t, r.Run(context.Background()))

	require.Len(t, chain.executions, 2)
	assert.JSONEq(t, `{"batch_vote":{"project_ids":[1,2],"amounts":["100","200"]}}`, chain.executions[0])
	assert.Equal(t, "300peaka", chain.funds[0].String())
	assert.JSONEq(t, `{"batch_vote":{"project_ids":[3],"amounts":["300"]}}`, chain.executions[1])
	assert.Equal(t, "300peaka", chain.funds[1].String())
}

func TestRun_AddMemberRequiresAddress(t *testing.T) {
	cfg := testConfig()
	cfg.CodeID = 42
	cfg.ContractAddress = "dora1xyz"
	cfg.Actions = []string{"add_member"}

	chain := newFakeChain()
	r, _ := newTestRunner(t, cfg, chain)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, chain.executions)
}

func TestVote_LogsFourthEventFromEnd(t *testing.T) {
	chain := newFakeChain()
	chain.executeEvents = []abci.Event{
		{Type: "message"},
		{Type: "execute"},
		{Type: "wasm-batch_vote", Attributes: []abci.EventAttribute{{Key: "round_id", Value: "1"}}},
		{Type: "transfer"},
		{Type: "coin_spent"},
		{Type: "coin_received"},
	}
	r, output := newTestRunner(t, testConfig(), chain)

	handle, err := r.NewHandle("dora1xyz")
	require.NoError(t, err)

	_, err = r.Vote(context.Background(), handle, 1, sdkmath.NewUint(100))
	require.NoError(t, err)
	assert.Contains(t, output.String(), "wasm-batch_vote round_id=1")

	output.Reset()
	_, err = r.EndRound(context.Background(), handle)
	require.NoError(t, err)
	assert.Contains(t, output.String(), "event=coin_received")
}

func TestVote_FewEventsIsNotAnError(t *testing.T) {
	chain := newFakeChain()
	chain.executeEvents = []abci.Event{{Type: "message"}}
	r, output := newTestRunner(t, testConfig(), chain)

	handle, err := r.NewHandle("dora1xyz")
	require.NoError(t, err)

	_, err = r.Vote(context.Background(), handle, 1, sdkmath.NewUint(100))
	require.NoError(t, err)
	assert.Contains(t, output.String(), "fewer events than expected")
}

func TestFormatEvent(t *testing.T) {
	event := abci.Event{
		Type: "wasm",
		Attributes: []abci.EventAttribute{
			{Key: "action", Value: "end_round"},
			{Key: "round_id", Value: "2"},
		},
	}
	assert.Equal(t, "wasm action=end_round round_id=2", FormatEvent(event))
}

func TestParseActions(t *testing.T) {
	actions, err := ParseActions([]string{"vote", "end_round"})
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionVote, ActionEndRound}, actions)

	_, err = ParseActions([]string{"Vote"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestReadWasmFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.wasm")
	require.NoError(t, os.WriteFile(path, []byte("\x00asm"), 0o600))

	contents, err := readWasmFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00asm"), contents)

	_, err = readWasmFile(filepath.Join(t.TempDir(), "missing.wasm"))
	assert.Error(t, err)
}
