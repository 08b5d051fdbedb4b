package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/ledger"
)

// ProposalActionParams identifies the proposal to execute or cancel
type ProposalActionParams struct {
	// ProposalID zero picks a proposal interactively
	ProposalID uint64
}

// ProposalActionResult contains the proposal after the action
type ProposalActionResult struct {
	Receipt  *ledger.Receipt
	Proposal *ProposalView
}

// ExecuteProposal marks a proposal whose voting period has ended as executed
type ExecuteProposal struct {
	tx       *Transactor
	chain    Chain
	selector ProposalSelector
	tokenABI *bindings.GovernanceToken
}

// NewExecuteProposal creates a new ExecuteProposal use case
func NewExecuteProposal(tx *Transactor, chain Chain, selector ProposalSelector) *ExecuteProposal {
	return &ExecuteProposal{tx: tx, chain: chain, selector: selector, tokenABI: bindings.NewGovernanceToken()}
}

// Run executes the use case
func (uc *ExecuteProposal) Run(ctx context.Context, params ProposalActionParams) (*ProposalActionResult, error) {
	proposal, err := resolveProposal(ctx, uc.chain, uc.selector, params.ProposalID,
		"Select a proposal to execute", models.ProposalStatusExpired)
	if err != nil {
		return nil, err
	}
	receipt, err := uc.tx.Send(ctx, Call{
		To:    uc.chain.TokenAddress(),
		Data:  uc.tokenABI.PackExecuteProposal(new(big.Int).SetUint64(proposal.ID)),
		Label: fmt.Sprintf("Executing proposal #%d", proposal.ID),
	})
	if err != nil {
		return nil, err
	}
	return proposalActionResult(uc.chain, receipt, proposal.ID)
}

// CancelProposal cancels a proposal as the token owner
type CancelProposal struct {
	tx       *Transactor
	chain    Chain
	selector ProposalSelector
	tokenABI *bindings.GovernanceToken
}

// NewCancelProposal creates a new CancelProposal use case
func NewCancelProposal(tx *Transactor, chain Chain, selector ProposalSelector) *CancelProposal {
	return &CancelProposal{tx: tx, chain: chain, selector: selector, tokenABI: bindings.NewGovernanceToken()}
}

// Run executes the use case
func (uc *CancelProposal) Run(ctx context.Context, params ProposalActionParams) (*ProposalActionResult, error) {
	proposal, err := resolveProposal(ctx, uc.chain, uc.selector, params.ProposalID,
		"Select a proposal to cancel", models.ProposalStatusActive, models.ProposalStatusExpired)
	if err != nil {
		return nil, err
	}
	receipt, err := uc.tx.Send(ctx, Call{
		To:    uc.chain.TokenAddress(),
		Data:  uc.tokenABI.PackCancelProposal(new(big.Int).SetUint64(proposal.ID)),
		Label: fmt.Sprintf("Canceling proposal #%d", proposal.ID),
	})
	if err != nil {
		return nil, err
	}
	return proposalActionResult(uc.chain, receipt, proposal.ID)
}

func proposalActionResult(chain Chain, receipt *ledger.Receipt, id uint64) (*ProposalActionResult, error) {
	proposal, err := chain.Token().GetProposal(id)
	if err != nil {
		return nil, err
	}
	return &ProposalActionResult{
		Receipt:  receipt,
		Proposal: newProposalView(proposal, chain.Now()),
	}, nil
}
