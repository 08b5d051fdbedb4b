package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalStatus represents the lifecycle state of a governance proposal
type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusExecuted ProposalStatus = "executed"
	ProposalStatusCanceled ProposalStatus = "canceled"
	ProposalStatusExpired  ProposalStatus = "expired"
)

// Proposal is a governance proposal record
type Proposal struct {
	ID           uint64         `json:"id"`
	Description  string         `json:"description"`
	Proposer     common.Address `json:"proposer"`
	CreatedAt    time.Time      `json:"createdAt"`
	Deadline     time.Time      `json:"deadline"`
	ForVotes     *big.Int       `json:"forVotes"`
	AgainstVotes *big.Int       `json:"againstVotes"`
	Executed     bool           `json:"executed"`
	Canceled     bool           `json:"canceled"`
}

// Status derives the lifecycle state at the given time. Executed and
// canceled are terminal; otherwise the proposal is active until its deadline
// and expired afterwards.
func (p *Proposal) Status(now time.Time) ProposalStatus {
	switch {
	case p.Executed:
		return ProposalStatusExecuted
	case p.Canceled:
		return ProposalStatusCanceled
	case now.Before(p.Deadline):
		return ProposalStatusActive
	default:
		return ProposalStatusExpired
	}
}

// Passing reports whether the for tally exceeds the against tally
func (p *Proposal) Passing() bool {
	return p.ForVotes.Cmp(p.AgainstVotes) > 0
}

// TotalVotes returns forVotes + againstVotes
func (p *Proposal) TotalVotes() *big.Int {
	return new(big.Int).Add(p.ForVotes, p.AgainstVotes)
}

// Clone returns a deep copy
func (p *Proposal) Clone() *Proposal {
	c := *p
	c.ForVotes = new(big.Int).Set(p.ForVotes)
	c.AgainstVotes = new(big.Int).Set(p.AgainstVotes)
	return &c
}

// VoteReceipt records one address's vote on one proposal
type VoteReceipt struct {
	Voted   bool     `json:"voted"`
	Support bool     `json:"support"`
	Weight  *big.Int `json:"weight"`
}
