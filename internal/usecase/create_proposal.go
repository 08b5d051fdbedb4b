package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/ledger"
)

// CreateProposalParams contains parameters for creating a proposal
type CreateProposalParams struct {
	Description string
	// Deadline ends voting at an absolute time; Duration ends it relative to
	// the current ledger time. With neither, the token's default voting
	// period applies.
	Deadline time.Time
	Duration time.Duration
}

// CreateProposalResult contains the created proposal
type CreateProposalResult struct {
	Receipt  *ledger.Receipt
	Proposal *ProposalView
}

// CreateProposal opens a new governance proposal
type CreateProposal struct {
	tx       *Transactor
	chain    Chain
	tokenABI *bindings.GovernanceToken
}

// NewCreateProposal creates a new CreateProposal use case
func NewCreateProposal(tx *Transactor, chain Chain) *CreateProposal {
	return &CreateProposal{tx: tx, chain: chain, tokenABI: bindings.NewGovernanceToken()}
}

// Run executes the use case
func (uc *CreateProposal) Run(ctx context.Context, params CreateProposalParams) (*CreateProposalResult, error) {
	if !params.Deadline.IsZero() && params.Duration != 0 {
		return nil, fmt.Errorf("deadline and duration are mutually exclusive")
	}
	description := strings.TrimSpace(params.Description)

	deadline := params.Deadline
	if params.Duration != 0 {
		deadline = uc.chain.Now().Add(params.Duration)
	}

	var data []byte
	if deadline.IsZero() {
		data = uc.tokenABI.PackCreateProposalDefault(description)
	} else {
		data = uc.tokenABI.PackCreateProposal(description, big.NewInt(deadline.Unix()))
	}

	receipt, err := uc.tx.Send(ctx, Call{
		To:    uc.chain.TokenAddress(),
		Data:  data,
		Label: "Creating proposal",
	})
	if err != nil {
		return nil, err
	}

	id, err := uc.tokenABI.UnpackCreateProposal(receipt.ReturnData)
	if err != nil {
		return nil, err
	}
	proposal, err := uc.chain.Token().GetProposal(id.Uint64())
	if err != nil {
		return nil, err
	}
	return &CreateProposalResult{
		Receipt:  receipt,
		Proposal: newProposalView(proposal, uc.chain.Now()),
	}, nil
}
