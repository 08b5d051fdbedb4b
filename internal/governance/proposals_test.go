package governance

import (
	"math/big"
	"testing"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGovernanceLifecycle(t *testing.T) {
	tt := newTestToken(t)
	tt.mintAndDelegate(t, alice, 100)
	tt.mintAndDelegate(t, bob, 50)

	id, err := tt.CreateProposal(alice, "Fund community garden", tt.clock.Now().Add(7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, uint64(1), tt.ProposalCount())

	require.NoError(t, tt.Vote(alice, id, true))
	require.NoError(t, tt.Vote(bob, id, false))

	p, err := tt.GetProposal(id)
	require.NoError(t, err)
	assert.Equal(t, domain.Tokens(100), p.ForVotes)
	assert.Equal(t, domain.Tokens(50), p.AgainstVotes)
	assert.Equal(t, models.ProposalStatusActive, p.Status(tt.clock.Now()))

	receipt, err := tt.GetVoteInfo(id, bob)
	require.NoError(t, err)
	assert.True(t, receipt.Voted)
	assert.False(t, receipt.Support)
	assert.Equal(t, domain.Tokens(50), receipt.Weight)

	err = tt.ExecuteProposal(carol, id)
	assert.ErrorIs(t, err, domain.ErrVotingNotEnded)

	tt.clock.Advance(7*24*time.Hour + time.Second)
	require.NoError(t, tt.ExecuteProposal(carol, id))

	p, err = tt.GetProposal(id)
	require.NoError(t, err)
	assert.True(t, p.Executed)
	assert.Equal(t, models.ProposalStatusExecuted, p.Status(tt.clock.Now()))

	require.NoError(t, tt.admin.MintForExchange(carol, domain.Tokens(1), ""))
	require.NoError(t, tt.Delegate(carol, carol))
	err = tt.Vote(carol, id, true)
	assert.ErrorIs(t, err, domain.ErrProposalExecuted)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestCreateProposal(t *testing.T) {
	t.Run("default deadline", func(t *testing.T) {
		tt := newTestToken(t)
		tt.mintAndDelegate(t, alice, 1)

		id, err := tt.CreateProposal(alice, "default period", time.Time{})
		require.NoError(t, err)
		p, err := tt.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, tt.clock.Now().Add(7*24*time.Hour), p.Deadline)
		assert.Equal(t, alice, p.Proposer)
		assert.Equal(t, 0, p.ForVotes.Sign())
	})

	t.Run("emits ProposalCreated", func(t *testing.T) {
		tt := newTestToken(t)
		tt.mintAndDelegate(t, alice, 1)
		tt.events = nil

		deadline := tt.clock.Now().Add(48 * time.Hour)
		_, err := tt.CreateProposal(alice, "emit", deadline)
		require.NoError(t, err)
		require.Len(t, tt.events, 1)
		ev := tt.events[0].(*domain.ProposalCreatedEvent)
		assert.Equal(t, big.NewInt(1), ev.ProposalId)
		assert.Equal(t, big.NewInt(deadline.Unix()), ev.Deadline)
	})

	tests := []struct {
		name     string
		proposer func(*testing.T, *testToken)
		desc     string
		deadline func(now time.Time) time.Time
		want     error
	}{
		{
			name:     "no voting power",
			desc:     "x",
			deadline: func(now time.Time) time.Time { return now.Add(24 * time.Hour) },
			want:     domain.ErrInsufficientVotingPower,
		},
		{
			name:     "undelegated balance does not count",
			proposer: func(t *testing.T, tt *testToken) { _ = tt.admin.MintForExchange(alice, domain.Tokens(5), "") },
			desc:     "x",
			deadline: func(now time.Time) time.Time { return now.Add(24 * time.Hour) },
			want:     domain.ErrInsufficientVotingPower,
		},
		{
			name:     "empty description",
			proposer: func(t *testing.T, tt *testToken) { tt.mintAndDelegate(t, alice, 1) },
			desc:     "   ",
			deadline: func(now time.Time) time.Time { return now.Add(24 * time.Hour) },
			want:     domain.ErrEmptyDescription,
		},
		{
			name:     "deadline in the past",
			proposer: func(t *testing.T, tt *testToken) { tt.mintAndDelegate(t, alice, 1) },
			desc:     "x",
			deadline: func(now time.Time) time.Time { return now.Add(-time.Second) },
			want:     domain.ErrDeadlineInPast,
		},
		{
			name:     "deadline equal to now",
			proposer: func(t *testing.T, tt *testToken) { tt.mintAndDelegate(t, alice, 1) },
			desc:     "x",
			deadline: func(now time.Time) time.Time { return now },
			want:     domain.ErrDeadlineInPast,
		},
		{
			name:     "deadline too soon",
			proposer: func(t *testing.T, tt *testToken) { tt.mintAndDelegate(t, alice, 1) },
			desc:     "x",
			deadline: func(now time.Time) time.Time { return now.Add(30 * time.Minute) },
			want:     domain.ErrDeadlineTooSoon,
		},
		{
			name:     "deadline too far",
			proposer: func(t *testing.T, tt *testToken) { tt.mintAndDelegate(t, alice, 1) },
			desc:     "x",
			deadline: func(now time.Time) time.Time { return now.Add(31 * 24 * time.Hour) },
			want:     domain.ErrDeadlineTooFar,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := newTestToken(t)
			if tc.proposer != nil {
				tc.proposer(t, tt)
			}
			_, err := tt.CreateProposal(alice, tc.desc, tc.deadline(tt.clock.Now()))
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, uint64(0), tt.ProposalCount())
		})
	}
}

func TestVote(t *testing.T) {
	setup := func(t *testing.T, mutate ...func(*Config)) (*testToken, uint64) {
		tt := newTestToken(t, mutate...)
		tt.mintAndDelegate(t, alice, 10)
		tt.mintAndDelegate(t, bob, 5)
		id, err := tt.CreateProposal(alice, "vote on me", tt.clock.Now().Add(24*time.Hour))
		require.NoError(t, err)
		return tt, id
	}

	t.Run("double vote", func(t *testing.T) {
		tt, id := setup(t)
		require.NoError(t, tt.Vote(alice, id, true))
		err := tt.Vote(alice, id, false)
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

		p, _ := tt.GetProposal(id)
		assert.Equal(t, domain.Tokens(10), p.ForVotes)
		assert.Equal(t, 0, p.AgainstVotes.Sign())
	})

	t.Run("weight is fixed at vote time", func(t *testing.T) {
		tt, id := setup(t)
		require.NoError(t, tt.Vote(alice, id, true))
		require.NoError(t, tt.Transfer(alice, bob, domain.Tokens(10)))

		p, _ := tt.GetProposal(id)
		assert.Equal(t, domain.Tokens(10), p.ForVotes)

		receipt, err := tt.GetVoteInfo(id, alice)
		require.NoError(t, err)
		assert.Equal(t, domain.Tokens(10), receipt.Weight)
	})

	t.Run("zero voting power", func(t *testing.T) {
		tt, id := setup(t)
		err := tt.Vote(carol, id, true)
		assert.ErrorIs(t, err, domain.ErrNoVotingPower)

		receipt, err := tt.GetVoteInfo(id, carol)
		require.NoError(t, err)
		assert.False(t, receipt.Voted)
	})

	t.Run("unknown proposal", func(t *testing.T) {
		tt, _ := setup(t)
		assert.ErrorIs(t, tt.Vote(alice, 0, true), domain.ErrProposalNotFound)
		assert.ErrorIs(t, tt.Vote(alice, 2, true), domain.ErrNotFound)
	})

	t.Run("canceled proposal", func(t *testing.T) {
		tt, id := setup(t)
		require.NoError(t, tt.admin.CancelProposal(id))
		assert.ErrorIs(t, tt.Vote(alice, id, true), domain.ErrProposalCanceled)
	})

	t.Run("late vote rejected by default", func(t *testing.T) {
		tt, id := setup(t)
		tt.clock.Advance(24 * time.Hour)
		assert.ErrorIs(t, tt.Vote(alice, id, true), domain.ErrVotingClosed)
	})

	t.Run("late vote allowed when configured", func(t *testing.T) {
		tt, id := setup(t, func(c *Config) { c.AllowLateVotes = true })
		tt.clock.Advance(48 * time.Hour)
		require.NoError(t, tt.Vote(alice, id, true))
	})

	t.Run("paused", func(t *testing.T) {
		tt, id := setup(t)
		require.NoError(t, tt.admin.Pause())
		assert.ErrorIs(t, tt.Vote(alice, id, true), domain.ErrEnforcedPause)
	})
}

func TestExecuteProposal(t *testing.T) {
	setup := func(t *testing.T, mutate ...func(*Config)) (*testToken, uint64) {
		tt := newTestToken(t, mutate...)
		tt.mintAndDelegate(t, alice, 10)
		tt.mintAndDelegate(t, bob, 20)
		id, err := tt.CreateProposal(alice, "execute me", tt.clock.Now().Add(24*time.Hour))
		require.NoError(t, err)
		return tt, id
	}

	t.Run("defeated under majority", func(t *testing.T) {
		tt, id := setup(t)
		require.NoError(t, tt.Vote(alice, id, true))
		require.NoError(t, tt.Vote(bob, id, false))
		tt.clock.Advance(25 * time.Hour)

		err := tt.ExecuteProposal(alice, id)
		assert.ErrorIs(t, err, domain.ErrProposalDefeated)
		p, _ := tt.GetProposal(id)
		assert.False(t, p.Executed)
		assert.Equal(t, models.ProposalStatusExpired, p.Status(tt.clock.Now()))
	})

	t.Run("tie is defeated", func(t *testing.T) {
		tt, id := setup(t)
		tt.clock.Advance(25 * time.Hour)
		assert.ErrorIs(t, tt.ExecuteProposal(alice, id), domain.ErrProposalDefeated)
	})

	t.Run("unconditional policy executes regardless of tally", func(t *testing.T) {
		tt, id := setup(t, func(c *Config) { c.ExecutionPolicy = ExecutionUnconditional })
		require.NoError(t, tt.Vote(bob, id, false))
		tt.clock.Advance(25 * time.Hour)
		require.NoError(t, tt.ExecuteProposal(carol, id))
	})

	t.Run("executes exactly at the deadline", func(t *testing.T) {
		tt, id := setup(t)
		require.NoError(t, tt.Vote(bob, id, true))
		tt.clock.Advance(24 * time.Hour)
		require.NoError(t, tt.ExecuteProposal(carol, id))
		assert.ErrorIs(t, tt.ExecuteProposal(carol, id), domain.ErrProposalExecuted)
	})

	t.Run("canceled cannot execute", func(t *testing.T) {
		tt, id := setup(t)
		require.NoError(t, tt.Vote(bob, id, true))
		require.NoError(t, tt.admin.CancelProposal(id))
		tt.clock.Advance(25 * time.Hour)
		assert.ErrorIs(t, tt.ExecuteProposal(carol, id), domain.ErrProposalCanceled)
	})

	t.Run("not found", func(t *testing.T) {
		tt, _ := setup(t)
		assert.ErrorIs(t, tt.ExecuteProposal(carol, 9), domain.ErrProposalNotFound)
	})
}

func TestCancelProposal(t *testing.T) {
	tt := newTestToken(t)
	tt.mintAndDelegate(t, alice, 10)
	first, err := tt.CreateProposal(alice, "first", time.Time{})
	require.NoError(t, err)
	second, err := tt.CreateProposal(alice, "second", tt.clock.Now().Add(2*time.Hour))
	require.NoError(t, err)

	notOwner := &Admin{token: tt.Token, holder: alice}
	assert.ErrorIs(t, notOwner.CancelProposal(first), domain.ErrNotOwner)

	require.NoError(t, tt.admin.CancelProposal(first))
	assert.ErrorIs(t, tt.admin.CancelProposal(first), domain.ErrProposalCanceled)

	require.NoError(t, tt.Vote(alice, second, true))
	tt.clock.Advance(3 * time.Hour)
	require.NoError(t, tt.ExecuteProposal(alice, second))
	assert.ErrorIs(t, tt.admin.CancelProposal(second), domain.ErrProposalExecuted)

	for _, p := range tt.Proposals() {
		assert.False(t, p.Executed && p.Canceled, "proposal %d is both executed and canceled", p.ID)
	}
	p, _ := tt.GetProposal(first)
	assert.Equal(t, models.ProposalStatusCanceled, p.Status(tt.clock.Now()))

	assert.ErrorIs(t, tt.admin.CancelProposal(42), domain.ErrProposalNotFound)
}

func TestPause(t *testing.T) {
	tt := newTestToken(t)
	tt.mintAndDelegate(t, alice, 10)

	require.NoError(t, tt.admin.Pause())
	assert.True(t, tt.Paused())
	assert.ErrorIs(t, tt.admin.Pause(), domain.ErrEnforcedPause)

	_, err := tt.CreateProposal(alice, "paused", time.Time{})
	assert.ErrorIs(t, err, domain.ErrEnforcedPause)
	assert.ErrorIs(t, tt.admin.BatchMint(nil, nil, ""), domain.ErrEnforcedPause)

	// delegation keeps working while paused
	require.NoError(t, tt.Delegate(alice, bob))

	require.NoError(t, tt.admin.Unpause())
	assert.False(t, tt.Paused())
	assert.ErrorIs(t, tt.admin.Unpause(), domain.ErrExpectedPause)

	_, err = tt.CreateProposal(bob, "resumed", time.Time{})
	require.NoError(t, err)
}
