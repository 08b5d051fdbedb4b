package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/governance"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ShowProposalParams contains parameters for showing a proposal
type ShowProposalParams struct {
	// ProposalID zero picks a proposal interactively
	ProposalID uint64
	// Voter, when set, adds that address's vote receipt to the result
	Voter common.Address
}

// VoteRecord is one vote cast on a proposal, read from the VoteCast logs
type VoteRecord struct {
	Voter       common.Address `json:"voter"`
	Support     bool           `json:"support"`
	Weight      *big.Int       `json:"weight"`
	BlockNumber uint64         `json:"blockNumber"`
	TxHash      common.Hash    `json:"transactionHash"`
}

// ShowProposalResult contains a proposal with its votes
type ShowProposalResult struct {
	Proposal    *ProposalView
	Votes       []VoteRecord
	Voter       common.Address
	VoteReceipt *models.VoteReceipt
	Now         time.Time
	// Executable reports whether executeProposal would succeed now
	Executable bool
}

// ShowProposal shows a proposal's details and vote history
type ShowProposal struct {
	chain    Chain
	selector ProposalSelector
	tokenABI *bindings.GovernanceToken
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(chain Chain, selector ProposalSelector) *ShowProposal {
	return &ShowProposal{chain: chain, selector: selector, tokenABI: bindings.NewGovernanceToken()}
}

// Run executes the use case
func (uc *ShowProposal) Run(ctx context.Context, params ShowProposalParams) (*ShowProposalResult, error) {
	proposal, err := resolveProposal(ctx, uc.chain, uc.selector, params.ProposalID, "Select a proposal")
	if err != nil {
		return nil, err
	}
	token := uc.chain.Token()
	now := uc.chain.Now()

	result := &ShowProposalResult{
		Proposal: newProposalView(proposal, now),
		Votes:    uc.votes(proposal.ID),
		Now:      now,
	}
	if result.Proposal.Status == models.ProposalStatusExpired {
		result.Executable = token.Config().ExecutionPolicy != governance.ExecutionMajority || proposal.Passing()
	}
	if params.Voter != (common.Address{}) {
		receipt, err := token.GetVoteInfo(proposal.ID, params.Voter)
		if err != nil {
			return nil, err
		}
		result.Voter = params.Voter
		result.VoteReceipt = &receipt
	}
	return result, nil
}

func (uc *ShowProposal) votes(id uint64) []VoteRecord {
	logs := uc.chain.FilterLogs(ethereum.FilterQuery{
		Addresses: []common.Address{uc.chain.TokenAddress()},
		Topics: [][]common.Hash{
			{uc.tokenABI.ABI().Events["VoteCast"].ID},
			{common.BigToHash(new(big.Int).SetUint64(id))},
		},
	})

	votes := make([]VoteRecord, 0, len(logs))
	for i := range logs {
		event, err := uc.chain.DecodeLog(&logs[i])
		if err != nil {
			continue
		}
		vote, ok := event.(*domain.VoteCastEvent)
		if !ok {
			continue
		}
		votes = append(votes, VoteRecord{
			Voter:       vote.Voter,
			Support:     vote.Support,
			Weight:      vote.Weight,
			BlockNumber: logs[i].BlockNumber,
			TxHash:      logs[i].TxHash,
		})
	}
	return votes
}
