package governance

import (
	"math/big"
	"strings"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ProposalCount returns the number of proposals ever created
func (t *Token) ProposalCount() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return uint64(len(t.state.Proposals))
}

// GetProposal returns a copy of the proposal with the given id
func (t *Token) GetProposal(id uint64) (*models.Proposal, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, err := t.proposal(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Proposals returns copies of all proposals in id order
func (t *Token) Proposals() []*models.Proposal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*models.Proposal, len(t.state.Proposals))
	for i, p := range t.state.Proposals {
		out[i] = p.Clone()
	}
	return out
}

// GetVoteInfo returns voter's receipt for a proposal. Addresses that have not
// voted get a zero receipt.
func (t *Token) GetVoteInfo(id uint64, voter common.Address) (models.VoteReceipt, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, err := t.proposal(id); err != nil {
		return models.VoteReceipt{}, err
	}
	r, ok := t.state.Receipts[id][voter]
	if !ok {
		return models.VoteReceipt{Weight: new(big.Int)}, nil
	}
	return models.VoteReceipt{Voted: r.Voted, Support: r.Support, Weight: new(big.Int).Set(r.Weight)}, nil
}

func (t *Token) proposal(id uint64) (*models.Proposal, error) {
	if id == 0 || id > uint64(len(t.state.Proposals)) {
		return nil, domain.ErrProposalNotFound
	}
	return t.state.Proposals[id-1], nil
}

// CreateProposal opens a proposal that closes at deadline. A zero deadline
// uses the default voting period. The proposer needs at least the proposal
// threshold in voting power.
func (t *Token) CreateProposal(proposer common.Address, description string, deadline time.Time) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Paused {
		return 0, domain.ErrEnforcedPause
	}
	if strings.TrimSpace(description) == "" {
		return 0, domain.ErrEmptyDescription
	}
	if t.votes(proposer).Cmp(t.cfg.ProposalThreshold) < 0 {
		return 0, domain.ErrInsufficientVotingPower
	}

	now := t.clock.Now()
	if deadline.IsZero() {
		deadline = now.Add(t.cfg.DefaultVotingPeriod)
	}
	if err := t.checkDeadline(now, deadline); err != nil {
		return 0, err
	}

	id := uint64(len(t.state.Proposals)) + 1
	t.state.Proposals = append(t.state.Proposals, &models.Proposal{
		ID:           id,
		Description:  description,
		Proposer:     proposer,
		CreatedAt:    now,
		Deadline:     deadline,
		ForVotes:     new(big.Int),
		AgainstVotes: new(big.Int),
	})
	t.emitEvent(&domain.ProposalCreatedEvent{
		ProposalId:  new(big.Int).SetUint64(id),
		Proposer:    proposer,
		Description: description,
		Deadline:    big.NewInt(deadline.Unix()),
	})

	t.logger.Info("proposal created", "id", id, "proposer", proposer, "deadline", deadline)
	return id, nil
}

func (t *Token) checkDeadline(now, deadline time.Time) error {
	if !deadline.After(now) {
		return domain.ErrDeadlineInPast
	}
	period := deadline.Sub(now)
	if t.cfg.MinVotingPeriod > 0 && period < t.cfg.MinVotingPeriod {
		return domain.ErrDeadlineTooSoon
	}
	if t.cfg.MaxVotingPeriod > 0 && period > t.cfg.MaxVotingPeriod {
		return domain.ErrDeadlineTooFar
	}
	return nil
}

// Vote records voter's vote with their current voting power as weight
func (t *Token) Vote(voter common.Address, id uint64, support bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Paused {
		return domain.ErrEnforcedPause
	}
	p, err := t.proposal(id)
	if err != nil {
		return err
	}
	if p.Canceled {
		return domain.ErrProposalCanceled
	}
	if p.Executed {
		return domain.ErrProposalExecuted
	}
	if r, ok := t.state.Receipts[id][voter]; ok && r.Voted {
		return domain.ErrAlreadyVoted
	}
	if !t.cfg.AllowLateVotes && !t.clock.Now().Before(p.Deadline) {
		return domain.ErrVotingClosed
	}
	weight := new(big.Int).Set(t.votes(voter))
	if weight.Sign() == 0 {
		return domain.ErrNoVotingPower
	}

	receipts, ok := t.state.Receipts[id]
	if !ok {
		receipts = make(map[common.Address]*models.VoteReceipt)
		t.state.Receipts[id] = receipts
	}
	receipts[voter] = &models.VoteReceipt{Voted: true, Support: support, Weight: weight}
	if support {
		p.ForVotes.Add(p.ForVotes, weight)
	} else {
		p.AgainstVotes.Add(p.AgainstVotes, weight)
	}
	t.emitEvent(&domain.VoteCastEvent{
		ProposalId: new(big.Int).SetUint64(id),
		Voter:      voter,
		Support:    support,
		Weight:     new(big.Int).Set(weight),
	})

	t.logger.Info("vote cast", "id", id, "voter", voter, "support", support, "weight", weight)
	return nil
}

// ExecuteProposal marks a proposal executed once its deadline has passed.
// Under the majority policy the for tally must exceed the against tally.
func (t *Token) ExecuteProposal(caller common.Address, id uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Paused {
		return domain.ErrEnforcedPause
	}
	p, err := t.proposal(id)
	if err != nil {
		return err
	}
	if p.Canceled {
		return domain.ErrProposalCanceled
	}
	if p.Executed {
		return domain.ErrProposalExecuted
	}
	if t.clock.Now().Before(p.Deadline) {
		return domain.ErrVotingNotEnded
	}
	if t.cfg.ExecutionPolicy == ExecutionMajority && !p.Passing() {
		return domain.ErrProposalDefeated
	}

	p.Executed = true
	t.emitEvent(&domain.ProposalExecutedEvent{ProposalId: new(big.Int).SetUint64(id)})

	t.logger.Info("proposal executed", "id", id, "caller", caller, "for", p.ForVotes, "against", p.AgainstVotes)
	return nil
}
