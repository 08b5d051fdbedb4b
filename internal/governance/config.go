package governance

import (
	"fmt"
	"math/big"
	"time"
)

// ExecutionPolicy decides whether a proposal's tally gates its execution
type ExecutionPolicy string

const (
	// ExecutionMajority requires forVotes > againstVotes
	ExecutionMajority ExecutionPolicy = "majority"
	// ExecutionUnconditional executes any proposal whose deadline has passed
	ExecutionUnconditional ExecutionPolicy = "unconditional"
)

// Config holds the tunable governance rules of a token
type Config struct {
	Name   string
	Symbol string

	// ProposalThreshold is the voting power needed to create a proposal
	ProposalThreshold *big.Int

	// DefaultVotingPeriod applies when a proposal is created without a deadline
	DefaultVotingPeriod time.Duration
	// MinVotingPeriod and MaxVotingPeriod bound caller-supplied deadlines; zero disables a bound
	MinVotingPeriod time.Duration
	MaxVotingPeriod time.Duration

	ExecutionPolicy ExecutionPolicy
	AllowLateVotes  bool
}

// DefaultConfig returns the rules the token was deployed with
func DefaultConfig() Config {
	return Config{
		Name:                "Blooming Blockchain Service Token",
		Symbol:              "BLOOM",
		ProposalThreshold:   big.NewInt(1),
		DefaultVotingPeriod: 7 * 24 * time.Hour,
		MinVotingPeriod:     time.Hour,
		MaxVotingPeriod:     30 * 24 * time.Hour,
		ExecutionPolicy:     ExecutionMajority,
		AllowLateVotes:      false,
	}
}

// Validate checks the configuration for internal consistency
func (c Config) Validate() error {
	if c.ProposalThreshold == nil || c.ProposalThreshold.Sign() <= 0 {
		return fmt.Errorf("proposal threshold must be positive")
	}
	if c.DefaultVotingPeriod <= 0 {
		return fmt.Errorf("default voting period must be positive")
	}
	if c.MinVotingPeriod < 0 || c.MaxVotingPeriod < 0 {
		return fmt.Errorf("voting period bounds must not be negative")
	}
	if c.MaxVotingPeriod > 0 && c.MinVotingPeriod > c.MaxVotingPeriod {
		return fmt.Errorf("min voting period %s exceeds max voting period %s", c.MinVotingPeriod, c.MaxVotingPeriod)
	}
	if c.MinVotingPeriod > 0 && c.DefaultVotingPeriod < c.MinVotingPeriod {
		return fmt.Errorf("default voting period %s is below min voting period %s", c.DefaultVotingPeriod, c.MinVotingPeriod)
	}
	if c.MaxVotingPeriod > 0 && c.DefaultVotingPeriod > c.MaxVotingPeriod {
		return fmt.Errorf("default voting period %s exceeds max voting period %s", c.DefaultVotingPeriod, c.MaxVotingPeriod)
	}
	switch c.ExecutionPolicy {
	case ExecutionMajority, ExecutionUnconditional:
	default:
		return fmt.Errorf("unknown execution policy %q", c.ExecutionPolicy)
	}
	return nil
}
