package runner

import (
	"errors"
	"fmt"
)

// Action is a contract interaction run after the deployment is resolved.
type Action string

const (
	ActionSetBeneficiary Action = "set_beneficiary"
	ActionVote           Action = "vote"
	ActionEndRound       Action = "end_round"
	ActionAddMember      Action = "add_member"
	ActionSendCoins      Action = "send_coins"
	ActionAdminList      Action = "admin_list"
	ActionRoundID        Action = "round_id"
	ActionProject        Action = "project"
	ActionProjectVoter   Action = "project_voter"
	ActionContractInfo   Action = "contract_info"
)

var ErrUnknownAction = errors.New("unknown action")

var knownActions = map[Action]bool{
	ActionSetBeneficiary: true,
	ActionVote:           true,
	ActionEndRound:       true,
	ActionAddMember:      true,
	ActionSendCoins:      true,
	ActionAdminList:      true,
	ActionRoundID:        true,
	ActionProject:        true,
	ActionProjectVoter:   true,
	ActionContractInfo:   true,
}

// ParseActions validates names, keeping their order. Nothing is sent to the chain for an invalid list.
func ParseActions(names []string) ([]Action, error) {
	actions := make([]Action, 0, len(names))
	for _, name := range names {
		action := Action(name)
		if !knownActions[action] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
		}
		actions = append(actions, action)
	}
	return actions, nil
}
