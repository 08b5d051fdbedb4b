package usecase

import (
	"context"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// EligibilityResult explains whether an address can use sponsored
// transactions
type EligibilityResult struct {
	Address        common.Address       `json:"address"`
	Eligible       bool                 `json:"eligible"`
	Reason         models.DeclineReason `json:"reason,omitempty"`
	VotingPower    *big.Int             `json:"votingPower"`
	MinVotingPower *big.Int             `json:"minVotingPower"`
	Blocked        bool                 `json:"blocked"`
	Paused         bool                 `json:"paused"`
	Stats          models.UserStats     `json:"stats"`
}

// CheckEligibility evaluates the paymaster's eligibility rules for an
// address. The answer is informational; sponsorship is decided again when a
// transaction is submitted.
type CheckEligibility struct {
	chain Chain
}

// NewCheckEligibility creates a new CheckEligibility use case
func NewCheckEligibility(chain Chain) *CheckEligibility {
	return &CheckEligibility{chain: chain}
}

// Run executes the use case
func (uc *CheckEligibility) Run(_ context.Context, addr common.Address) (*EligibilityResult, error) {
	pm := uc.chain.Paymaster()
	reason := pm.Eligibility(addr)
	return &EligibilityResult{
		Address:        addr,
		Eligible:       reason == models.DeclineNone,
		Reason:         reason,
		VotingPower:    uc.chain.Token().VotingPower(addr),
		MinVotingPower: pm.Parameters().MinVotingPower,
		Blocked:        pm.IsBlocked(addr),
		Paused:         pm.Paused(),
		Stats:          pm.UserStats(addr),
	}, nil
}
