package vota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/tx"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
	"github.com/dorahacksglobal/appchain-grant-vota/util"
)

var (
	ErrNoVotes  = errors.New("no votes given")
	ErrZeroVote = errors.New("vote amount must be positive")
)

// Executor signs contract executions and answers contract queries.
type Executor interface {
	Address() string
	Execute(ctx context.Context, contractAddress string, msg any, funds sdk.Coins, fee *tx.Fee, memo string) (*tx.Result, error)
	QuerySmart(ctx context.Context, contractAddress string, query any, response any) error
}

// Vote is a contribution to one project.
type Vote struct {
	ProjectID uint64
	Amount    sdkmath.Uint
}

// Tally maps a denom to an accumulated amount.
type Tally map[string]sdkmath.Uint

// Client is a handle on one deployed grant voting contract, acting as the executor's account.
type Client struct {
	executor        Executor
	contractAddress string
	denom           string

	logger *log.Logger
}

// NewClient binds executor to contractAddress. Votes are paid in denom.
func NewClient(executor Executor, contractAddress, denom string, logger *log.Logger) (*Client, error) {
	if contractAddress == "" {
		return nil, fmt.Errorf("no contract address given")
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return nil, err
	}

	return &Client{
		executor:        executor,
		contractAddress: contractAddress,
		denom:           denom,

		logger: logger.With("contract", contractAddress),
	}, nil
}

func (c *Client) ContractAddress() string {
	return c.contractAddress
}

// Sender is the address every execution is signed by.
func (c *Client) Sender() string {
	return c.executor.Address()
}

// Vote casts a single project vote.
func (c *Client) Vote(ctx context.Context, projectID uint64, amount sdkmath.Uint) (*tx.Result, error) {
	return c.BatchVote(ctx, []Vote{{ProjectID: projectID, Amount: amount}})
}

// BatchVote casts votes in one transaction, attaching their sum as funds.
func (c *Client) BatchVote(ctx context.Context, votes []Vote) (*tx.Result, error) {
	msg, funds, err := c.batchVoteMsg(votes)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("casting votes", "num_votes", len(votes), "funds", funds.String())
	return c.execute(ctx, &ExecuteMsg{BatchVote: msg}, funds)
}

func (c *Client) batchVoteMsg(votes []Vote) (*BatchVoteMsg, sdk.Coins, error) {
	if len(votes) == 0 {
		return nil, nil, ErrNoVotes
	}

	msg := &BatchVoteMsg{
		ProjectIDs: make([]uint64, 0, len(votes)),
		Amounts:    make([]sdkmath.Uint, 0, len(votes)),
	}
	total := sdkmath.ZeroUint()
	for _, vote := range votes {
		if vote.Amount == (sdkmath.Uint{}) || vote.Amount.IsZero() {
			return nil, nil, fmt.Errorf("%w: project %d", ErrZeroVote, vote.ProjectID)
		}
		msg.ProjectIDs = append(msg.ProjectIDs, vote.ProjectID)
		msg.Amounts = append(msg.Amounts, vote.Amount)
		total = total.Add(vote.Amount)
	}

	funds := sdk.NewCoins(sdk.NewCoin(c.denom, sdkmath.NewIntFromBigInt(total.BigInt())))
	return msg, funds, nil
}

// EndRound closes the current round. Only admins may call it.
func (c *Client) EndRound(ctx context.Context) (*tx.Result, error) {
	return c.execute(ctx, &ExecuteMsg{EndRound: &EndRoundMsg{}}, nil)
}

// SetBeneficiary redirects future vote funds to address. Only admins may call it.
func (c *Client) SetBeneficiary(ctx context.Context, address string) (*tx.Result, error) {
	return c.execute(ctx, &ExecuteMsg{SetBeneficiary: &SetBeneficiaryMsg{Address: address}}, nil)
}

// AddMember grants admin rights to admin. Only admins may call it.
func (c *Client) AddMember(ctx context.Context, admin string) (*tx.Result, error) {
	return c.execute(ctx, &ExecuteMsg{AddMember: &AddMemberMsg{Admin: admin}}, nil)
}

func (c *Client) execute(ctx context.Context, msg *ExecuteMsg, funds sdk.Coins) (*tx.Result, error) {
	// Contract executions are priced by simulation
	return c.executor.Execute(ctx, c.contractAddress, msg, funds, nil, "")
}

func (c *Client) AdminList(ctx context.Context) ([]string, error) {
	var response AdminListResponse
	if err := c.executor.QuerySmart(ctx, c.contractAddress, &QueryMsg{AdminList: &AdminListQuery{}}, &response); err != nil {
		return nil, err
	}
	return response.Admins, nil
}

func (c *Client) RoundID(ctx context.Context) (uint64, error) {
	var roundID uint64
	if err := c.executor.QuerySmart(ctx, c.contractAddress, &QueryMsg{RoundID: &RoundIDQuery{}}, &roundID); err != nil {
		return 0, err
	}
	return roundID, nil
}

// Project returns the amounts a project received in a round, per denom.
func (c *Client) Project(ctx context.Context, projectID, roundID uint64) (Tally, error) {
	query := &QueryMsg{Project: &ProjectQuery{ProjectID: projectID, RoundID: roundID}}
	return c.queryTally(ctx, query)
}

// ProjectVoter returns what voter gave a project in a round, per denom.
func (c *Client) ProjectVoter(ctx context.Context, roundID, projectID uint64, voter string) (Tally, error) {
	query := &QueryMsg{ProjectVoter: &ProjectVoterQuery{RoundID: roundID, ProjectID: projectID, Voter: voter}}
	return c.queryTally(ctx, query)
}

// Tallies are u128 JSON numbers, which do not fit a float64.
func (c *Client) queryTally(ctx context.Context, query *QueryMsg) (Tally, error) {
	var raw map[string]json.Number
	if err := c.executor.QuerySmart(ctx, c.contractAddress, query, &raw); err != nil {
		return nil, err
	}

	tally := make(Tally, len(raw))
	for denom, number := range raw {
		amount, err := util.NumberToBigInt(number)
		if err != nil {
			return nil, fmt.Errorf("invalid amount for %s: %w", denom, err)
		}
		if amount.Sign() < 0 {
			return nil, fmt.Errorf("negative amount for %s: %s", denom, number)
		}
		tally[denom] = sdkmath.NewUintFromBigInt(amount)
	}
	return tally, nil
}
