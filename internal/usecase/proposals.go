package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/samber/lo"
)

// ProposalView is a proposal with its lifecycle state at ledger time
type ProposalView struct {
	*models.Proposal
	Status models.ProposalStatus `json:"status"`
}

func newProposalView(p *models.Proposal, now time.Time) *ProposalView {
	return &ProposalView{Proposal: p, Status: p.Status(now)}
}

// resolveProposal returns proposal id, or asks the selector to pick one of
// the proposals in the given states when id is zero
func resolveProposal(ctx context.Context, chain Chain, selector ProposalSelector, id uint64, prompt string, states ...models.ProposalStatus) (*models.Proposal, error) {
	token := chain.Token()
	if id != 0 {
		return token.GetProposal(id)
	}
	if selector == nil {
		return nil, fmt.Errorf("proposal id is required")
	}

	now := chain.Now()
	candidates := lo.Filter(token.Proposals(), func(p *models.Proposal, _ int) bool {
		return len(states) == 0 || lo.Contains(states, p.Status(now))
	})
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no proposals to choose from")
	}
	return selector.SelectProposal(ctx, candidates, prompt)
}
