package runner

import (
	"context"
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/dorahacksglobal/appchain-grant-vota/arrays"
	"github.com/dorahacksglobal/appchain-grant-vota/config"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/chainclient"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/tx"
	cosmosutil "github.com/dorahacksglobal/appchain-grant-vota/cosmos/util"
	"github.com/dorahacksglobal/appchain-grant-vota/vota"
)

// Fixed parameters of the bank send demo
const (
	sendAmount    = 100000
	sendFeeAmount = 100000
	sendGasLimit  = 200000
	sendMemo      = "test send coin"
)

// Vote used when none are configured: 0.4 token to project 1.
const (
	defaultVoteProjectID = 1
	defaultVoteAmount    = "0.4"
)

// CheckBalance logs the chain id, height and every balance held by address.
func (r *Runner) CheckBalance(ctx context.Context, address string) (sdk.Coins, error) {
	chainID, err := r.clients.Read.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}
	height, err := r.clients.Read.Height(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch height: %w", err)
	}
	r.logger.Info("connected", "chain_id", chainID, "height", height)

	if chainID != r.network.ChainID {
		r.logger.Warn("node chain id differs from the network table", "expected", r.network.ChainID, "node", chainID)
	}

	balances, err := r.clients.Read.GetAllBalances(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balances of %s: %w", address, err)
	}

	r.logger.Info("balances", "address", address, "balances", balances.String())
	if coin, err := cosmosutil.ExtractCoin(r.network.Denom, balances); err == nil {
		r.logger.Info("fee denom balance", "denom", coin.Denom, "amount", cosmosutil.DisplayAmount(coin.Amount, r.network.Decimals))
	} else {
		r.logger.Warn("account holds none of the fee denom, transactions will fail", "denom", r.network.Denom)
	}

	return balances, nil
}

// SendCoins sends 100000 base units to recipient with a fixed fee.
func (r *Runner) SendCoins(ctx context.Context, recipient string) (*tx.Result, error) {
	amount := sdk.NewCoins(sdk.NewInt64Coin(r.network.Denom, sendAmount))
	fee := &tx.Fee{
		Amount:   sdk.NewCoins(sdk.NewInt64Coin(r.network.Denom, sendFeeAmount)),
		GasLimit: sendGasLimit,
	}

	result, err := r.clients.Signing.SendTokens(ctx, recipient, amount, fee, sendMemo)
	if err != nil {
		return nil, err
	}
	r.logResult("send coins", result)
	return result, nil
}

// UploadContract stores the wasm artifact at path and returns its code id.
func (r *Runner) UploadContract(ctx context.Context, path string) (uint64, error) {
	wasmCode, err := r.readFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read wasm artifact: %w", err)
	}

	upload, err := r.clients.SigningContract.Upload(ctx, wasmCode, nil, "")
	if err != nil {
		return 0, fmt.Errorf("failed to upload contract: %w", err)
	}

	r.logger.Info("stored contract", "code_id", upload.CodeID, "checksum", upload.Checksum, "original_size", upload.OriginalSize, "compressed_size", upload.CompressedSize)
	r.logResult("store code", upload.Result)
	return upload.CodeID, nil
}

// InitContract instantiates codeID with the configured admins. The runner's account is the contract admin.
func (r *Runner) InitContract(ctx context.Context, codeID uint64) (string, error) {
	if codeID == 0 {
		return "", fmt.Errorf("cannot instantiate without a code id")
	}

	msg := &vota.InstantiateMsg{Admins: r.cfg.ContractAdmins}
	options := chainclient.InstantiateOptions{
		Admin: r.address,
		Memo:  r.cfg.ContractLabel,
	}

	instantiation, err := r.clients.SigningContract.Instantiate(ctx, codeID, msg, r.cfg.ContractLabel, options, nil)
	if err != nil {
		return "", fmt.Errorf("failed to instantiate contract: %w", err)
	}

	r.logger.Info("instantiated contract", "code_id", codeID, "contract_address", instantiation.ContractAddress)
	r.logResult("instantiate", instantiation.Result)
	return instantiation.ContractAddress, nil
}

// Vote casts a single vote and logs the fourth event from the end of the result.
func (r *Runner) Vote(ctx context.Context, handle *vota.Client, projectID uint64, amount sdkmath.Uint) (*tx.Result, error) {
	return r.BatchVote(ctx, handle, []vota.Vote{{ProjectID: projectID, Amount: amount}})
}

// BatchVote casts votes in one transaction and logs the fourth event from the end of the result.
func (r *Runner) BatchVote(ctx context.Context, handle *vota.Client, votes []vota.Vote) (*tx.Result, error) {
	result, err := handle.BatchVote(ctx, votes)
	if err != nil {
		return nil, err
	}

	r.logResult("batch vote", result)
	r.logEventFromEnd("batch vote", result.Events, 4)
	return result, nil
}

// EndRound closes the current round and logs the last event of the result.
func (r *Runner) EndRound(ctx context.Context, handle *vota.Client) (*tx.Result, error) {
	result, err := handle.EndRound(ctx)
	if err != nil {
		return nil, err
	}

	r.logResult("end round", result)
	r.logEventFromEnd("end round", result.Events, 1)
	return result, nil
}

// SetBeneficiary points vote funds at address.
func (r *Runner) SetBeneficiary(ctx context.Context, handle *vota.Client, address string) (*tx.Result, error) {
	result, err := handle.SetBeneficiary(ctx, address)
	if err != nil {
		return nil, err
	}

	r.logResult("set beneficiary", result)
	return result, nil
}

// AddMember makes admin a contract admin.
func (r *Runner) AddMember(ctx context.Context, handle *vota.Client, admin string) (*tx.Result, error) {
	result, err := handle.AddMember(ctx, admin)
	if err != nil {
		return nil, err
	}

	r.logResult("add member", result)
	return result, nil
}

func (r *Runner) runAction(ctx context.Context, handle *vota.Client, action Action) error {
	r.logger.Debug("running action", "action", action)

	switch action {
	case ActionSetBeneficiary:
		_, err := r.SetBeneficiary(ctx, handle, r.cfg.Beneficiary)
		return err

	case ActionVote:
		return r.castConfiguredVotes(ctx, handle)

	case ActionEndRound:
		_, err := r.EndRound(ctx, handle)
		return err

	case ActionAddMember:
		if r.cfg.NewMember == "" {
			return fmt.Errorf("NEW_MEMBER is not set")
		}
		_, err := r.AddMember(ctx, handle, r.cfg.NewMember)
		return err

	case ActionSendCoins:
		recipient := r.cfg.SendTo
		if recipient == "" {
			recipient = r.address
		}
		_, err := r.SendCoins(ctx, recipient)
		return err

	case ActionAdminList:
		admins, err := handle.AdminList(ctx)
		if err != nil {
			return err
		}
		r.logger.Info("admin list", "admins", admins)
		return nil

	case ActionRoundID:
		roundID, err := handle.RoundID(ctx)
		if err != nil {
			return err
		}
		r.logger.Info("round id", "round_id", roundID)
		return nil

	case ActionProject:
		tally, err := handle.Project(ctx, r.cfg.QueryProjectID, r.cfg.QueryRoundID)
		if err != nil {
			return err
		}
		r.logger.Info("project", "project_id", r.cfg.QueryProjectID, "round_id", r.cfg.QueryRoundID, "tally", formatTally(tally))
		return nil

	case ActionProjectVoter:
		tally, err := handle.ProjectVoter(ctx, r.cfg.QueryRoundID, r.cfg.QueryProjectID, r.address)
		if err != nil {
			return err
		}
		r.logger.Info("project voter", "project_id", r.cfg.QueryProjectID, "round_id", r.cfg.QueryRoundID, "voter", r.address, "tally", formatTally(tally))
		return nil

	case ActionContractInfo:
		info, err := r.clients.ReadContract.ContractInfo(ctx, handle.ContractAddress())
		if err != nil {
			return err
		}
		r.logger.Info("contract info", "code_id", info.CodeID, "creator", info.Creator, "admin", info.Admin, "label", info.Label)
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

func (r *Runner) castConfiguredVotes(ctx context.Context, handle *vota.Client) error {
	votes, err := r.configuredVotes()
	if err != nil {
		return err
	}

	total := arrays.Reduce(votes, func(sum sdkmath.Uint, vote vota.Vote) sdkmath.Uint { return sum.Add(vote.Amount) }, sdkmath.ZeroUint())
	r.logger.Info("casting votes", "num_votes", len(votes), "total", cosmosutil.DisplayAmount(sdkmath.NewIntFromBigInt(total.BigInt()), r.network.Decimals), "denom", r.network.Denom)

	for _, batch := range arrays.Batch(votes, r.cfg.VoteBatchSize) {
		if _, err := r.BatchVote(ctx, handle, batch); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) configuredVotes() ([]vota.Vote, error) {
	if len(r.cfg.Votes) == 0 {
		amount, err := vota.TokenAmount(defaultVoteAmount, r.network.Decimals)
		if err != nil {
			return nil, err
		}
		return []vota.Vote{{ProjectID: defaultVoteProjectID, Amount: amount}}, nil
	}

	return arrays.Map(r.cfg.Votes, func(vote config.Vote) vota.Vote {
		return vota.Vote{ProjectID: vote.ProjectID, Amount: vote.Amount}
	}), nil
}

func (r *Runner) logResult(operation string, result *tx.Result) {
	if result == nil {
		return
	}
	r.logger.Info(fmt.Sprintf("%s result", operation), "tx_hash", result.TxHash, "height", result.Height, "gas_wanted", result.GasWanted, "gas_used", result.GasUsed, "num_events", len(result.Events))
}

func (r *Runner) logEventFromEnd(operation string, events []abci.Event, offset int) {
	event, found := arrays.FromEnd(events, offset)
	if !found {
		r.logger.Warn(fmt.Sprintf("%s result has fewer events than expected", operation), "num_events", len(events), "offset", offset)
		return
	}
	r.logger.Info(fmt.Sprintf("%s event", operation), "event", FormatEvent(event))
}

// FormatEvent renders an event as "type key=value ...".
func FormatEvent(event abci.Event) string {
	parts := make([]string, 0, len(event.Attributes)+1)
	parts = append(parts, event.Type)
	for _, attribute := range event.Attributes {
		parts = append(parts, fmt.Sprintf("%s=%s", attribute.Key, attribute.Value))
	}
	return strings.Join(parts, " ")
}

func formatTally(tally vota.Tally) string {
	coins := sdk.NewCoins()
	for denom, amount := range tally {
		coins = coins.Add(sdk.NewCoin(denom, sdkmath.NewIntFromBigInt(amount.BigInt())))
	}
	return coins.String()
}
