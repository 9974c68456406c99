package vota

import (
	sdkmath "cosmossdk.io/math"
)

// InstantiateMsg creates a contract governed by admins. The instantiating account becomes the initial beneficiary.
type InstantiateMsg struct {
	Admins []string `json:"admins"`
}

// ExecuteMsg is the contract's execute surface. Exactly one field is set.
type ExecuteMsg struct {
	BatchVote      *BatchVoteMsg      `json:"batch_vote,omitempty"`
	EndRound       *EndRoundMsg       `json:"end_round,omitempty"`
	SetBeneficiary *SetBeneficiaryMsg `json:"set_beneficiary,omitempty"`
	AddMember      *AddMemberMsg      `json:"add_member,omitempty"`
}

// BatchVoteMsg pairs project ids with amounts by position.
type BatchVoteMsg struct {
	ProjectIDs []uint64       `json:"project_ids"`
	Amounts    []sdkmath.Uint `json:"amounts"`
}

type EndRoundMsg struct{}

type SetBeneficiaryMsg struct {
	Address string `json:"address"`
}

type AddMemberMsg struct {
	Admin string `json:"admin"`
}

// QueryMsg is the contract's query surface. Exactly one field is set.
type QueryMsg struct {
	AdminList    *AdminListQuery    `json:"admin_list,omitempty"`
	RoundID      *RoundIDQuery      `json:"round_id,omitempty"`
	Project      *ProjectQuery      `json:"project,omitempty"`
	ProjectVoter *ProjectVoterQuery `json:"project_voter,omitempty"`
}

type AdminListQuery struct{}

type RoundIDQuery struct{}

type ProjectQuery struct {
	ProjectID uint64 `json:"project_id"`
	RoundID   uint64 `json:"round_id"`
}

type ProjectVoterQuery struct {
	RoundID   uint64 `json:"round_id"`
	ProjectID uint64 `json:"project_id"`
	Voter     string `json:"voter"`
}

type AdminListResponse struct {
	Admins []string `json:"admins"`
}
