package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	owner = ledger.DefaultOwner
	alice = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

// MockStateStore is a mock implementation of StateStore
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Load(ctx context.Context) (*ledger.State, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.State), args.Error(1)
}

func (m *MockStateStore) Save(ctx context.Context, state *ledger.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockProposalSelector is a mock implementation of ProposalSelector
type MockProposalSelector struct {
	mock.Mock
}

func (m *MockProposalSelector) SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error) {
	args := m.Called(ctx, proposals, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

type fixture struct {
	chain *ledger.Ledger
	store *MockStateStore
	cfg   *config.RuntimeConfig
	tx    *usecase.Transactor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := domain.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	chain, err := ledger.New(ledger.DefaultConfig(owner), ledger.WithClock(clock))
	require.NoError(t, err)

	store := new(MockStateStore)
	store.On("Save", mock.Anything, mock.AnythingOfType("*ledger.State")).Return(nil)

	cfg := &config.RuntimeConfig{From: owner, Store: config.StoreJSON}
	return &fixture{
		chain: chain,
		store: store,
		cfg:   cfg,
		tx:    usecase.NewTransactor(chain, store, cfg, usecase.NopProgress{}),
	}
}

func (f *fixture) as(addr common.Address) {
	f.cfg.From = addr
}

func (f *fixture) mint(t *testing.T, to common.Address, tokens int64) {
	t.Helper()
	from := f.cfg.From
	f.as(owner)
	defer f.as(from)
	_, err := usecase.NewMintTokens(f.tx, f.chain).Run(context.Background(), usecase.MintTokensParams{
		Allocations: []usecase.Allocation{{Recipient: to, Amount: domain.Tokens(tokens)}},
	})
	require.NoError(t, err)
}

func eventNames(events []domain.ParsedEvent) []string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.ContractEventName()
	}
	return names
}

func TestMintTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("single allocation", func(t *testing.T) {
		f := newFixture(t)
		result, err := usecase.NewMintTokens(f.tx, f.chain).Run(ctx, usecase.MintTokensParams{
			Allocations: []usecase.Allocation{{Recipient: alice, Amount: domain.Tokens(100)}},
			Reason:      "points exchange",
		})
		require.NoError(t, err)
		assert.Equal(t, "mintForExchange(address,uint256,string)", result.Receipt.Method)
		assert.Equal(t, []string{"Transfer", "TokensMinted"}, eventNames(result.Events))
		assert.Equal(t, 0, domain.Tokens(100).Cmp(f.chain.Token().BalanceOf(alice)))
		f.store.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("batch file", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(t.TempDir(), "batch.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`reason: quarterly rewards
allocations:
  - recipient: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
    amount: "100"
  - recipient: "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
    amount: "12.5"
`), 0644))

		result, err := usecase.NewMintTokens(f.tx, f.chain).Run(ctx, usecase.MintTokensParams{File: path})
		require.NoError(t, err)
		assert.Equal(t, "batchMint(address[],uint256[],string)", result.Receipt.Method)
		assert.Equal(t, "quarterly rewards", result.Reason)
		assert.Len(t, result.Allocations, 2)

		want, err := domain.ParseTokenAmount("112.5")
		require.NoError(t, err)
		assert.Equal(t, 0, want.Cmp(result.Total))
		assert.Equal(t, 0, want.Cmp(f.chain.Token().TotalSupply()))
	})

	t.Run("non-owner reverts and still persists", func(t *testing.T) {
		f := newFixture(t)
		f.as(alice)
		require.NoError(t, f.chain.SetBalance(alice, big.NewInt(params.Ether)))

		_, err := usecase.NewMintTokens(f.tx, f.chain).Run(ctx, usecase.MintTokensParams{
			Allocations: []usecase.Allocation{{Recipient: alice, Amount: domain.Tokens(1)}},
		})
		assert.ErrorIs(t, err, domain.ErrNotOwner)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, 0, f.chain.Token().TotalSupply().Sign())
		f.store.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("nothing to mint", func(t *testing.T) {
		f := newFixture(t)
		_, err := usecase.NewMintTokens(f.tx, f.chain).Run(ctx, usecase.MintTokensParams{})
		assert.Error(t, err)
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestLoadMintBatch(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid recipient",
			content: "allocations:\n  - recipient: nope\n    amount: \"1\"\n",
			wantErr: "invalid recipient",
		},
		{
			name:    "invalid amount",
			content: "allocations:\n  - recipient: \"0x70997970C51812dc3A010C7d01b50e0d17dc79C8\"\n    amount: lots\n",
			wantErr: "allocation 0",
		},
		{
			name:    "not yaml",
			content: "allocations: [",
			wantErr: "failed to parse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "batch.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, _, err := usecase.LoadMintBatch(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, _, err := usecase.LoadMintBatch(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGovernanceFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	selector := new(MockProposalSelector)

	f.mint(t, alice, 100)
	f.mint(t, bob, 50)
	require.NoError(t, f.chain.SetBalance(alice, big.NewInt(params.Ether)))
	require.NoError(t, f.chain.SetBalance(bob, big.NewInt(params.Ether)))

	f.as(alice)
	delegated, err := usecase.NewDelegateVotes(f.tx, f.chain).Run(ctx, usecase.DelegateVotesParams{})
	require.NoError(t, err)
	assert.Equal(t, alice, delegated.Delegatee)
	assert.Equal(t, 0, domain.Tokens(100).Cmp(delegated.VotingPower))
	assert.True(t, delegated.Eligible)

	f.as(bob)
	_, err = usecase.NewDelegateVotes(f.tx, f.chain).Run(ctx, usecase.DelegateVotesParams{})
	require.NoError(t, err)

	f.as(alice)
	created, err := usecase.NewCreateProposal(f.tx, f.chain).Run(ctx, usecase.CreateProposalParams{
		Description: "  Plant more trees  ",
		Duration:    2 * time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), created.Proposal.ID)
	assert.Equal(t, "Plant more trees", created.Proposal.Description)
	assert.Equal(t, models.ProposalStatusActive, created.Proposal.Status)

	voted, err := usecase.NewCastVote(f.tx, f.chain, selector).Run(ctx, usecase.CastVoteParams{ProposalID: 1, Support: true})
	require.NoError(t, err)
	assert.Equal(t, 0, domain.Tokens(100).Cmp(voted.Weight))

	f.as(bob)
	_, err = usecase.NewCastVote(f.tx, f.chain, selector).Run(ctx, usecase.CastVoteParams{ProposalID: 1})
	require.NoError(t, err)

	_, err = usecase.NewCastVote(f.tx, f.chain, selector).Run(ctx, usecase.CastVoteParams{ProposalID: 1})
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	shown, err := usecase.NewShowProposal(f.chain, selector).Run(ctx, usecase.ShowProposalParams{ProposalID: 1, Voter: bob})
	require.NoError(t, err)
	require.Len(t, shown.Votes, 2)
	assert.Equal(t, alice, shown.Votes[0].Voter)
	assert.True(t, shown.Votes[0].Support)
	assert.Equal(t, bob, shown.Votes[1].Voter)
	assert.False(t, shown.Votes[1].Support)
	require.NotNil(t, shown.VoteReceipt)
	assert.True(t, shown.VoteReceipt.Voted)
	assert.False(t, shown.Executable)

	_, err = usecase.NewExecuteProposal(f.tx, f.chain, selector).Run(ctx, usecase.ProposalActionParams{ProposalID: 1})
	assert.ErrorIs(t, err, domain.ErrVotingNotEnded)

	_, err = usecase.NewAdvanceTime(f.tx, f.chain).Run(ctx, 3*time.Hour)
	require.NoError(t, err)

	listed, err := usecase.NewListProposals(f.chain).Run(ctx, usecase.ListProposalsParams{Status: models.ProposalStatusExpired})
	require.NoError(t, err)
	require.Len(t, listed.Proposals, 1)
	assert.Equal(t, 1, listed.Summary[models.ProposalStatusExpired])

	selector.On("SelectProposal", mock.Anything,
		mock.MatchedBy(func(ps []*models.Proposal) bool { return len(ps) == 1 && ps[0].ID == 1 }),
		"Select a proposal to execute",
	).Return(&models.Proposal{ID: 1}, nil)

	executed, err := usecase.NewExecuteProposal(f.tx, f.chain, selector).Run(ctx, usecase.ProposalActionParams{})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusExecuted, executed.Proposal.Status)
	selector.AssertExpectations(t)

	listed, err = usecase.NewListProposals(f.chain).Run(ctx, usecase.ListProposalsParams{})
	require.NoError(t, err)
	assert.Equal(t, map[models.ProposalStatus]int{models.ProposalStatusExecuted: 1}, listed.Summary)
}

func TestProposalSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := usecase.NewCastVote(f.tx, f.chain, nil).Run(ctx, usecase.CastVoteParams{})
	assert.ErrorContains(t, err, "proposal id is required")

	selector := new(MockProposalSelector)
	_, err = usecase.NewCastVote(f.tx, f.chain, selector).Run(ctx, usecase.CastVoteParams{})
	assert.ErrorContains(t, err, "no proposals")

	f.mint(t, owner, 10)
	_, err = usecase.NewDelegateVotes(f.tx, f.chain).Run(ctx, usecase.DelegateVotesParams{})
	require.NoError(t, err)
	_, err = usecase.NewCreateProposal(f.tx, f.chain).Run(ctx, usecase.CreateProposalParams{Description: "default period"})
	require.NoError(t, err)

	canceled := errors.New("selection cancelled")
	selector.On("SelectProposal", mock.Anything, mock.Anything, "Select a proposal to vote on").Return(nil, canceled)
	_, err = usecase.NewCastVote(f.tx, f.chain, selector).Run(ctx, usecase.CastVoteParams{})
	assert.ErrorIs(t, err, canceled)

	_, err = usecase.NewShowProposal(f.chain, selector).Run(ctx, usecase.ShowProposalParams{ProposalID: 7})
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
}

func TestCreateProposal_Deadlines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mint(t, owner, 10)
	_, err := usecase.NewDelegateVotes(f.tx, f.chain).Run(ctx, usecase.DelegateVotesParams{})
	require.NoError(t, err)
	uc := usecase.NewCreateProposal(f.tx, f.chain)

	result, err := uc.Run(ctx, usecase.CreateProposalParams{Description: "default"})
	require.NoError(t, err)
	assert.Equal(t, "createProposal(string)", result.Receipt.Method)
	assert.True(t, f.chain.Now().Add(7*24*time.Hour).Equal(result.Proposal.Deadline))

	deadline := f.chain.Now().Add(48 * time.Hour)
	result, err = uc.Run(ctx, usecase.CreateProposalParams{Description: "absolute", Deadline: deadline})
	require.NoError(t, err)
	assert.True(t, deadline.Equal(result.Proposal.Deadline))

	_, err = uc.Run(ctx, usecase.CreateProposalParams{Description: "both", Deadline: deadline, Duration: time.Hour})
	assert.Error(t, err)

	_, err = uc.Run(ctx, usecase.CreateProposalParams{Description: "too short", Duration: time.Minute})
	assert.ErrorIs(t, err, domain.ErrDeadlineTooSoon)

	_, err = uc.Run(ctx, usecase.CreateProposalParams{Description: "   ", Duration: 2 * time.Hour})
	assert.ErrorIs(t, err, domain.ErrEmptyDescription)
}

func TestSponsoredVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mint(t, owner, 10)
	f.mint(t, alice, 5)
	_, err := usecase.NewDelegateVotes(f.tx, f.chain).Run(ctx, usecase.DelegateVotesParams{})
	require.NoError(t, err)
	_, err = usecase.NewCreateProposal(f.tx, f.chain).Run(ctx, usecase.CreateProposalParams{Description: "gasless", Duration: 24 * time.Hour})
	require.NoError(t, err)

	f.as(alice)
	f.cfg.Sponsored = true

	// alice holds no native balance, so an unsponsored delegation is rejected
	_, err = usecase.NewDelegateVotes(f.tx, f.chain).Run(ctx, usecase.DelegateVotesParams{})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	require.NoError(t, f.chain.SetBalance(alice, big.NewInt(params.Ether)))
	_, err = usecase.NewDelegateVotes(f.tx, f.chain).Run(ctx, usecase.DelegateVotesParams{})
	require.NoError(t, err)
	require.NoError(t, f.chain.SetBalance(alice, big.NewInt(0)))

	voted, err := usecase.NewCastVote(f.tx, f.chain, nil).Run(ctx, usecase.CastVoteParams{ProposalID: 1, Support: true})
	require.NoError(t, err)
	assert.True(t, voted.Receipt.Sponsored())
	assert.Equal(t, f.chain.PaymasterAddress(), voted.Receipt.Payer)

	account, err := usecase.NewShowAccount(f.chain, f.tx).Run(ctx, usecase.ShowAccountParams{})
	require.NoError(t, err)
	assert.Equal(t, alice, account.Address)
	assert.Equal(t, uint64(1), account.Sponsorship.TxCount)
	assert.True(t, account.Eligible)
}

func TestManagePaymaster(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := usecase.NewManagePaymaster(f.tx, f.chain)
	pm := f.chain.Paymaster()

	result, err := uc.Run(ctx, usecase.ManagePaymasterParams{Action: usecase.PaymasterBlock, User: alice})
	require.NoError(t, err)
	assert.Equal(t, []string{"UserBlocked"}, eventNames(result.Events))
	assert.True(t, pm.IsBlocked(alice))

	eligibility, err := usecase.NewCheckEligibility(f.chain).Run(ctx, alice)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.Equal(t, models.DeclineUserBlocked, eligibility.Reason)

	before := pm.Parameters()
	_, err = uc.Run(ctx, usecase.ManagePaymasterParams{Action: usecase.PaymasterParams, MaxGasLimit: 500_000})
	require.NoError(t, err)
	after := pm.Parameters()
	assert.Equal(t, uint64(500_000), after.MaxGasLimit)
	assert.Equal(t, 0, before.MaxGasPrice.Cmp(after.MaxGasPrice))
	assert.Equal(t, 0, before.MinVotingPower.Cmp(after.MinVotingPower))

	_, err = uc.Run(ctx, usecase.ManagePaymasterParams{Action: usecase.PaymasterMinVotingPower, MinVotingPower: domain.Tokens(3)})
	require.NoError(t, err)
	assert.Equal(t, 0, domain.Tokens(3).Cmp(pm.Parameters().MinVotingPower))

	balance := pm.Balance()
	result, err = uc.Run(ctx, usecase.ManagePaymasterParams{Action: usecase.PaymasterFund, Amount: big.NewInt(params.Ether)})
	require.NoError(t, err)
	assert.Equal(t, []string{"FundsReceived"}, eventNames(result.Events))
	assert.Equal(t, 0, new(big.Int).Add(balance, big.NewInt(params.Ether)).Cmp(result.Paymaster.Stats.Balance))

	result, err = uc.Run(ctx, usecase.ManagePaymasterParams{Action: usecase.PaymasterWithdraw, Recipient: bob})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Paymaster.Stats.Balance.Sign())
	assert.Equal(t, 0, new(big.Int).Add(balance, big.NewInt(params.Ether)).Cmp(f.chain.NativeBalance(bob)))

	_, err = uc.Run(ctx, usecase.ManagePaymasterParams{Action: usecase.PaymasterWithdraw})
	assert.ErrorIs(t, err, domain.ErrNoFunds)

	_, err = uc.Run(ctx, usecase.ManagePaymasterParams{Action: "explode"})
	assert.ErrorContains(t, err, "invalid paymaster action")

	_, err = uc.Run(ctx, usecase.ManagePaymasterParams{Action: usecase.PaymasterFund})
	assert.Error(t, err)

	f.as(bob)
	_, err = uc.Run(ctx, usecase.ManagePaymasterParams{Action: usecase.PaymasterPause})
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.False(t, pm.Paused())

	info, err := usecase.NewShowPaymaster(f.chain).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, owner, info.Owner)
	assert.Equal(t, f.chain.TokenAddress(), info.GovernanceToken)
	assert.Len(t, info.AllowedFunctions, 4)
}

func TestTransactor_SaveFailure(t *testing.T) {
	f := newFixture(t)
	store := new(MockStateStore)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	tx := usecase.NewTransactor(f.chain, store, f.cfg, usecase.NopProgress{})

	_, err := usecase.NewMintTokens(tx, f.chain).Run(context.Background(), usecase.MintTokensParams{
		Allocations: []usecase.Allocation{{Recipient: alice, Amount: domain.Tokens(1)}},
	})
	assert.ErrorContains(t, err, "failed to save state")
	assert.ErrorContains(t, err, "disk full")
}

func TestDevTools(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	advanced, err := usecase.NewAdvanceTime(f.tx, f.chain).Run(ctx, 90*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, advanced.Now.Sub(advanced.Previous))
	f.store.AssertNumberOfCalls(t, "Save", 1)

	_, err = usecase.NewAdvanceTime(f.tx, f.chain).Run(ctx, -time.Second)
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.store.AssertNumberOfCalls(t, "Save", 1)

	funded, err := usecase.NewFundAccount(f.tx, f.chain).Run(ctx, alice, big.NewInt(params.Ether))
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(params.Ether).Cmp(funded.Balance))

	_, err = usecase.NewFundAccount(f.tx, f.chain).Run(ctx, f.chain.PaymasterAddress(), big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)
}

func TestRelayTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.chain.SetBalance(alice, big.NewInt(params.Ether)))
	uc := usecase.NewRelayTransaction(f.tx, f.chain)

	aliceKey, err := crypto.HexToECDSA("59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d")
	require.NoError(t, err)
	require.Equal(t, alice, crypto.PubkeyToAddress(aliceKey.PublicKey))

	tx := &ledger.Transaction{
		From: alice,
		To:   f.chain.PaymasterAddress(),
		Data: []byte{0xde, 0xad, 0xbe, 0xef},
	}
	prepared, err := uc.SigningHash(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), prepared.Nonce)
	assert.Equal(t, f.chain.ChainID(), prepared.ChainID)

	require.NoError(t, f.chain.Sign(tx, aliceKey))
	result, err := uc.Run(ctx, tx)
	require.NoError(t, err, "a revert is a result")
	assert.False(t, result.Receipt.Succeeded())
	assert.NotEmpty(t, result.Receipt.RevertReason)
	assert.Equal(t, prepared.Hash, result.Receipt.TxHash)

	t.Run("unsigned", func(t *testing.T) {
		_, err := uc.Run(ctx, &ledger.Transaction{
			From: owner,
			To:   f.chain.TokenAddress(),
			Data: bindings.NewGovernanceToken().PackMintForExchange(bob, domain.Tokens(1_000_000), "free"),
		})
		assert.ErrorIs(t, err, domain.ErrMissingSignature)
		assert.Equal(t, 0, f.chain.Token().BalanceOf(bob).Sign())
	})

	t.Run("replayed signature", func(t *testing.T) {
		_, err := uc.Run(ctx, tx)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "the signature commits to the old nonce")
	})

	t.Run("invalid transaction", func(t *testing.T) {
		_, err := uc.Run(ctx, &ledger.Transaction{From: alice, Signature: tx.Signature})
		assert.ErrorIs(t, err, domain.ErrInvalidTransaction)
	})
}
