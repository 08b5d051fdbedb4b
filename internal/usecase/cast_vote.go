package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/ledger"
)

// CastVoteParams contains parameters for voting
type CastVoteParams struct {
	// ProposalID zero picks an active proposal interactively
	ProposalID uint64
	Support    bool
}

// CastVoteResult contains the result of a vote
type CastVoteResult struct {
	Receipt  *ledger.Receipt
	Proposal *ProposalView
	Support  bool
	Weight   *big.Int
}

// CastVote votes on a proposal with the sender's current voting power
type CastVote struct {
	tx       *Transactor
	chain    Chain
	selector ProposalSelector
	tokenABI *bindings.GovernanceToken
}

// NewCastVote creates a new CastVote use case
func NewCastVote(tx *Transactor, chain Chain, selector ProposalSelector) *CastVote {
	return &CastVote{tx: tx, chain: chain, selector: selector, tokenABI: bindings.NewGovernanceToken()}
}

// Run executes the vote
func (uc *CastVote) Run(ctx context.Context, params CastVoteParams) (*CastVoteResult, error) {
	proposal, err := resolveProposal(ctx, uc.chain, uc.selector, params.ProposalID,
		"Select a proposal to vote on", models.ProposalStatusActive)
	if err != nil {
		return nil, err
	}

	side := "against"
	if params.Support {
		side = "for"
	}
	receipt, err := uc.tx.Send(ctx, Call{
		To:    uc.chain.TokenAddress(),
		Data:  uc.tokenABI.PackVote(new(big.Int).SetUint64(proposal.ID), params.Support),
		Label: fmt.Sprintf("Voting %s proposal #%d", side, proposal.ID),
	})
	if err != nil {
		return nil, err
	}

	token := uc.chain.Token()
	info, err := token.GetVoteInfo(proposal.ID, uc.tx.Sender())
	if err != nil {
		return nil, err
	}
	updated, err := token.GetProposal(proposal.ID)
	if err != nil {
		return nil, err
	}
	return &CastVoteResult{
		Receipt:  receipt,
		Proposal: newProposalView(updated, uc.chain.Now()),
		Support:  params.Support,
		Weight:   info.Weight,
	}, nil
}
