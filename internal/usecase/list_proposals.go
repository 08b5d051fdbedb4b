package usecase

import (
	"context"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/samber/lo"
)

// ListProposalsParams contains parameters for listing proposals
type ListProposalsParams struct {
	// Status keeps only proposals in this state; empty lists all
	Status models.ProposalStatus
}

// ListProposalsResult contains the listed proposals and a per-state count
type ListProposalsResult struct {
	Proposals []*ProposalView
	Summary   map[models.ProposalStatus]int
	Now       time.Time
}

// ListProposals lists governance proposals in id order
type ListProposals struct {
	chain Chain
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(chain Chain) *ListProposals {
	return &ListProposals{chain: chain}
}

// Run executes the use case
func (uc *ListProposals) Run(_ context.Context, params ListProposalsParams) (*ListProposalsResult, error) {
	now := uc.chain.Now()
	views := lo.Map(uc.chain.Token().Proposals(), func(p *models.Proposal, _ int) *ProposalView {
		return newProposalView(p, now)
	})

	result := &ListProposalsResult{
		Summary: lo.CountValuesBy(views, func(v *ProposalView) models.ProposalStatus { return v.Status }),
		Now:     now,
	}
	result.Proposals = lo.Filter(views, func(v *ProposalView, _ int) bool {
		return params.Status == "" || v.Status == params.Status
	})
	return result, nil
}
