package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// DelegateVotesParams contains parameters for delegating voting power
type DelegateVotesParams struct {
	// Delegatee receives the sender's voting power. Zero means the sender
	// itself unless Undelegate is set.
	Delegatee  common.Address
	Undelegate bool
}

// DelegateVotesResult contains the result of a delegation
type DelegateVotesResult struct {
	Receipt     *ledger.Receipt
	Delegator   common.Address
	Delegatee   common.Address
	VotingPower *big.Int // of the delegatee after the change
	Eligible    bool     // whether the sender can now use sponsored transactions
}

// DelegateVotes activates or moves the sender's voting power
type DelegateVotes struct {
	tx       *Transactor
	chain    Chain
	tokenABI *bindings.GovernanceToken
}

// NewDelegateVotes creates a new DelegateVotes use case
func NewDelegateVotes(tx *Transactor, chain Chain) *DelegateVotes {
	return &DelegateVotes{tx: tx, chain: chain, tokenABI: bindings.NewGovernanceToken()}
}

// Run executes the delegation
func (uc *DelegateVotes) Run(ctx context.Context, params DelegateVotesParams) (*DelegateVotesResult, error) {
	sender := uc.tx.Sender()
	delegatee := params.Delegatee
	switch {
	case params.Undelegate:
		delegatee = common.Address{}
	case delegatee == (common.Address{}):
		delegatee = sender
	}

	receipt, err := uc.tx.Send(ctx, Call{
		To:    uc.chain.TokenAddress(),
		Data:  uc.tokenABI.PackDelegate(delegatee),
		Label: fmt.Sprintf("Delegating votes to %s", delegatee.Hex()),
	})
	if err != nil {
		return nil, err
	}

	return &DelegateVotesResult{
		Receipt:     receipt,
		Delegator:   sender,
		Delegatee:   delegatee,
		VotingPower: uc.chain.Token().VotingPower(delegatee),
		Eligible:    uc.chain.Paymaster().IsEligible(sender),
	}, nil
}
