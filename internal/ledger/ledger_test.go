package ledger

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = DefaultOwner
	alice = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	carol = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")

	tokenABI = bindings.NewGovernanceToken()
	pmABI    = bindings.NewGovernancePaymaster()
)

type testLedger struct {
	*Ledger
	clock    *domain.ManualClock
	registry *prometheus.Registry
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()
	tl := &testLedger{
		clock:    domain.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		registry: prometheus.NewRegistry(),
	}
	l, err := New(DefaultConfig(owner), WithClock(tl.clock), WithPromRegistry(tl.registry))
	require.NoError(t, err)
	tl.Ledger = l
	return tl
}

func (tl *testLedger) send(t *testing.T, from, to common.Address, data []byte) *Receipt {
	t.Helper()
	r, err := tl.Submit(context.Background(), &Transaction{From: from, To: to, Data: data})
	require.NoError(t, err)
	return r
}

func (tl *testLedger) mustSend(t *testing.T, from, to common.Address, data []byte) *Receipt {
	t.Helper()
	r := tl.send(t, from, to, data)
	require.True(t, r.Succeeded(), "reverted: %s", r.RevertReason)
	return r
}

func (tl *testLedger) sponsored(t *testing.T, from common.Address, data []byte) *Receipt {
	t.Helper()
	pm := tl.PaymasterAddress()
	r, err := tl.Submit(context.Background(), &Transaction{
		From:           from,
		To:             tl.TokenAddress(),
		Data:           data,
		GasPrice:       big.NewInt(params.GWei),
		GasLimit:       250_000,
		Paymaster:      &pm,
		PaymasterInput: pmABI.PackGeneralFlow(nil),
	})
	require.NoError(t, err)
	return r
}

func eventNames(t *testing.T, tl *testLedger, logs []*types.Log) []string {
	t.Helper()
	names := make([]string, 0, len(logs))
	for _, log := range logs {
		ev, err := tl.DecodeLog(log)
		require.NoError(t, err)
		names = append(names, ev.ContractEventName())
	}
	return names
}

func TestGenesis(t *testing.T) {
	tl := newTestLedger(t)

	assert.NotEqual(t, tl.TokenAddress(), tl.PaymasterAddress())
	assert.Equal(t, owner, tl.Token().Owner())
	assert.Equal(t, owner, tl.Paymaster().Owner())
	assert.Equal(t, tl.TokenAddress(), tl.Paymaster().GovernanceToken())
	assert.Equal(t, new(big.Int).Mul(big.NewInt(10), big.NewInt(params.Ether)), tl.NativeBalance(tl.PaymasterAddress()))
	assert.Equal(t, uint64(0), tl.BlockNumber())
	assert.Empty(t, tl.Receipts())

	_, err := New(DefaultConfig(common.Address{}))
	assert.ErrorIs(t, err, domain.ErrZeroAddress)
}

func TestSubmit_GovernanceScenario(t *testing.T) {
	tl := newTestLedger(t)
	token := tl.TokenAddress()

	tl.mustSend(t, owner, token, tokenABI.PackMintForExchange(alice, domain.Tokens(100), "points"))
	tl.mustSend(t, owner, token, tokenABI.PackMintForExchange(bob, domain.Tokens(50), "points"))
	require.NoError(t, tl.SetBalance(alice, big.NewInt(params.Ether)))
	require.NoError(t, tl.SetBalance(bob, big.NewInt(params.Ether)))
	require.NoError(t, tl.SetBalance(carol, big.NewInt(params.Ether)))

	tl.mustSend(t, alice, token, tokenABI.PackDelegate(alice))
	tl.mustSend(t, bob, token, tokenABI.PackDelegateVoting(bob))

	deadline := tl.Now().Add(7 * 24 * time.Hour)
	r := tl.mustSend(t, alice, token, tokenABI.PackCreateProposal("Fund the garden", big.NewInt(deadline.Unix())))
	id, err := tokenABI.UnpackCreateProposal(r.ReturnData)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), id)
	assert.Equal(t, []string{"ProposalCreated"}, eventNames(t, tl, r.Logs))

	tl.mustSend(t, alice, token, tokenABI.PackVote(id, true))
	tl.mustSend(t, bob, token, tokenABI.PackVote(id, false))

	r = tl.send(t, carol, token, tokenABI.PackExecuteProposal(id))
	assert.False(t, r.Succeeded())
	assert.ErrorIs(t, r.Err, domain.ErrVotingNotEnded)
	assert.Empty(t, r.Logs)

	_, err = tl.AdvanceTime(7*24*time.Hour + time.Minute)
	require.NoError(t, err)
	tl.mustSend(t, carol, token, tokenABI.PackExecuteProposal(id))

	ret, err := tl.Call(context.Background(), carol, token, tokenABI.PackGetProposal(id))
	require.NoError(t, err)
	out, err := tokenABI.UnpackGetProposal(ret)
	require.NoError(t, err)
	assert.True(t, out.Executed)
	assert.Equal(t, domain.Tokens(100), out.ForVotes)
	assert.Equal(t, domain.Tokens(50), out.AgainstVotes)

	tl.mustSend(t, owner, token, tokenABI.PackMintForExchange(carol, domain.Tokens(1), ""))
	tl.mustSend(t, carol, token, tokenABI.PackDelegate(carol))
	r = tl.send(t, carol, token, tokenABI.PackVote(id, true))
	assert.ErrorIs(t, r.Err, domain.ErrProposalExecuted)
	assert.ErrorIs(t, r.Err, domain.ErrStateConflict)
	assert.Equal(t, "proposal already executed", r.RevertReason)
}

func TestSubmit_EligibilityScenario(t *testing.T) {
	tl := newTestLedger(t)
	token := tl.TokenAddress()
	pm := tl.Paymaster()
	require.NoError(t, tl.SetBalance(carol, big.NewInt(params.Ether)))

	assert.False(t, pm.IsEligible(carol))

	tl.mustSend(t, owner, token, tokenABI.PackMintForExchange(carol, domain.Tokens(5), "points"))
	assert.False(t, pm.IsEligible(carol), "undelegated balance carries no voting power")

	// not yet eligible when the delegation is submitted, so carol pays
	r := tl.sponsored(t, carol, tokenABI.PackDelegate(carol))
	require.True(t, r.Succeeded(), r.RevertReason)
	assert.False(t, r.Sponsored())
	assert.Equal(t, models.DeclineInsufficientVotingPower, r.Sponsorship.Reason)
	assert.Equal(t, carol, r.Payer)

	assert.True(t, pm.IsEligible(carol))

	ret, err := tl.Call(context.Background(), carol, tl.PaymasterAddress(), pmABI.PackIsEligible(carol))
	require.NoError(t, err)
	assert.Equal(t, byte(1), ret[31])

	tl.mustSend(t, owner, tl.PaymasterAddress(), pmABI.PackBlockUser(carol))
	assert.False(t, pm.IsEligible(carol))
}

func TestSubmit_Sponsored(t *testing.T) {
	tl := newTestLedger(t)
	token := tl.TokenAddress()

	tl.mustSend(t, owner, token, tokenABI.PackMintForExchange(carol, domain.Tokens(5), "points"))
	require.NoError(t, tl.SetBalance(carol, big.NewInt(params.Ether)))
	tl.mustSend(t, carol, token, tokenABI.PackDelegate(carol))
	require.NoError(t, tl.SetBalance(carol, big.NewInt(0)))
	assert.True(t, tl.Paymaster().IsEligible(carol))

	pmBefore := tl.NativeBalance(tl.PaymasterAddress())
	r := tl.sponsored(t, carol, tokenABI.PackCreateProposal("sponsored proposal", big.NewInt(tl.Now().Add(48*time.Hour).Unix())))
	require.True(t, r.Succeeded(), r.RevertReason)
	require.True(t, r.Sponsored())
	assert.Equal(t, tl.PaymasterAddress(), r.Payer)

	cost := new(big.Int).Mul(big.NewInt(params.GWei), big.NewInt(250_000))
	assert.Equal(t, cost, r.GasCharged)
	assert.Equal(t, new(big.Int).Sub(pmBefore, cost), tl.NativeBalance(tl.PaymasterAddress()))
	assert.Equal(t, 0, tl.NativeBalance(carol).Sign())
	assert.Equal(t, []string{"TransactionSponsored", "ProposalCreated"}, eventNames(t, tl, r.Logs))

	stats := tl.Paymaster().UserStats(carol)
	assert.Equal(t, uint64(1), stats.TxCount)

	// a sponsored call that reverts still pays and keeps the sponsorship log
	r = tl.sponsored(t, carol, tokenABI.PackVote(big.NewInt(99), true))
	assert.False(t, r.Succeeded())
	assert.True(t, r.Sponsored())
	assert.ErrorIs(t, r.Err, domain.ErrProposalNotFound)
	assert.Equal(t, []string{"TransactionSponsored"}, eventNames(t, tl, r.Logs))

	// transfers are not sponsored and carol has no funds for gas
	pm := tl.PaymasterAddress()
	_, err := tl.Submit(context.Background(), &Transaction{
		From:           carol,
		To:             token,
		Data:           tokenABI.PackTransfer(alice, big.NewInt(1)),
		Paymaster:      &pm,
		PaymasterInput: pmABI.PackGeneralFlow(nil),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, 2.0, testutil.ToFloat64(tl.metrics.gasPayer.WithLabelValues("paymaster")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tl.metrics.transactions.WithLabelValues("rejected")))
}

func TestSubmit_Rejections(t *testing.T) {
	tl := newTestLedger(t)
	ctx := context.Background()

	_, err := tl.Submit(ctx, &Transaction{From: alice})
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)

	stranger := common.HexToAddress("0x1234")
	_, err = tl.Submit(ctx, &Transaction{From: owner, To: tl.TokenAddress(), Paymaster: &stranger})
	assert.ErrorIs(t, err, domain.ErrUnknownPaymaster)

	_, err = tl.Submit(ctx, &Transaction{From: alice, To: bob, Value: big.NewInt(1)})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = tl.Submit(canceled, &Transaction{From: owner, To: bob})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, uint64(0), tl.BlockNumber())
}

func TestSubmit_ValueTransfers(t *testing.T) {
	tl := newTestLedger(t)
	ctx := context.Background()
	ether := big.NewInt(params.Ether)

	r, err := tl.Submit(ctx, &Transaction{From: owner, To: alice, Value: ether})
	require.NoError(t, err)
	require.True(t, r.Succeeded())
	assert.Equal(t, ether, tl.NativeBalance(alice))

	before := tl.NativeBalance(tl.PaymasterAddress())
	r, err = tl.Submit(ctx, &Transaction{From: alice, To: tl.PaymasterAddress(), Value: big.NewInt(1000)})
	require.NoError(t, err)
	require.True(t, r.Succeeded())
	assert.Equal(t, new(big.Int).Add(before, big.NewInt(1000)), tl.NativeBalance(tl.PaymasterAddress()))
	assert.Equal(t, []string{"FundsReceived"}, eventNames(t, tl, r.Logs))

	balance := tl.NativeBalance(alice)
	r, err = tl.Submit(ctx, &Transaction{From: alice, To: tl.TokenAddress(), Value: big.NewInt(1), Data: tokenABI.PackDelegate(alice)})
	require.NoError(t, err)
	assert.False(t, r.Succeeded())
	assert.ErrorIs(t, r.Err, domain.ErrNonPayable)
	assert.Equal(t, alice, r.Payer)
	assert.Equal(t, new(big.Int).Sub(balance, r.GasCharged), tl.NativeBalance(alice), "only gas is charged on revert")
	assert.Equal(t, common.Address{}, tl.Token().Delegates(alice))
}

func TestFilterLogs(t *testing.T) {
	tl := newTestLedger(t)
	token := tl.TokenAddress()

	tl.mustSend(t, owner, token, tokenABI.PackMintForExchange(alice, domain.Tokens(10), "points"))
	require.NoError(t, tl.SetBalance(alice, big.NewInt(params.Ether)))
	tl.mustSend(t, alice, token, tokenABI.PackDelegate(alice))
	r := tl.mustSend(t, alice, token, tokenABI.PackCreateProposal("one", big.NewInt(tl.Now().Add(2*time.Hour).Unix())))
	id, err := tokenABI.UnpackCreateProposal(r.ReturnData)
	require.NoError(t, err)
	voteBlock := tl.mustSend(t, alice, token, tokenABI.PackVote(id, true)).BlockNumber
	_, err = tl.Submit(context.Background(), &Transaction{From: alice, To: tl.PaymasterAddress(), Value: big.NewInt(1)})
	require.NoError(t, err)

	voteCast := tokenABI.ABI().Events["VoteCast"].ID

	tests := []struct {
		name  string
		query ethereum.FilterQuery
		want  []string
	}{
		{
			name:  "paymaster only",
			query: ethereum.FilterQuery{Addresses: []common.Address{tl.PaymasterAddress()}},
			want:  []string{"FundsReceived"},
		},
		{
			name:  "by topic",
			query: ethereum.FilterQuery{Topics: [][]common.Hash{{voteCast}}},
			want:  []string{"VoteCast"},
		},
		{
			name: "block range",
			query: ethereum.FilterQuery{
				Addresses: []common.Address{token},
				FromBlock: new(big.Int).SetUint64(voteBlock),
				ToBlock:   new(big.Int).SetUint64(voteBlock),
			},
			want: []string{"VoteCast"},
		},
		{
			name:  "wildcards then second indexed address",
			query: ethereum.FilterQuery{Topics: [][]common.Hash{{}, {}, {common.BytesToHash(alice.Bytes())}}},
			want:  []string{"Transfer", "ProposalCreated", "VoteCast"},
		},
		{
			name:  "no match",
			query: ethereum.FilterQuery{Addresses: []common.Address{bob}},
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := tl.FilterLogs(tt.query)
			names := make([]string, 0, len(logs))
			for i := range logs {
				ev, err := tl.DecodeLog(&logs[i])
				require.NoError(t, err)
				names = append(names, ev.ContractEventName())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	tl := newTestLedger(t)
	token := tl.TokenAddress()

	tl.mustSend(t, owner, token, tokenABI.PackMintForExchange(carol, domain.Tokens(5), "points"))
	require.NoError(t, tl.SetBalance(carol, big.NewInt(params.Ether)))
	tl.mustSend(t, carol, token, tokenABI.PackDelegate(carol))
	r := tl.sponsored(t, carol, tokenABI.PackCreateProposal("persist me", big.NewInt(tl.Now().Add(3*time.Hour).Unix())))
	require.True(t, r.Sponsored())
	_, err := tl.AdvanceTime(time.Hour)
	require.NoError(t, err)

	raw, err := json.Marshal(tl.Snapshot())
	require.NoError(t, err)
	var state State
	require.NoError(t, json.Unmarshal(raw, &state))

	restored, err := New(DefaultConfig(owner), WithState(&state), WithClock(tl.clock))
	require.NoError(t, err)

	assert.Equal(t, tl.TokenAddress(), restored.TokenAddress())
	assert.Equal(t, tl.PaymasterAddress(), restored.PaymasterAddress())
	assert.Equal(t, tl.BlockNumber(), restored.BlockNumber())
	assert.Equal(t, tl.Nonce(carol), restored.Nonce(carol))
	assert.True(t, tl.Now().Equal(restored.Now()))
	assert.Equal(t, 0, tl.NativeBalance(carol).Cmp(restored.NativeBalance(carol)))
	assert.Equal(t, 0, tl.NativeBalance(tl.PaymasterAddress()).Cmp(restored.NativeBalance(restored.PaymasterAddress())))
	assert.Equal(t, 0, domain.Tokens(5).Cmp(restored.Token().VotingPower(carol)))
	assert.Equal(t, tl.Paymaster().UserStats(carol).TxCount, restored.Paymaster().UserStats(carol).TxCount)

	p, err := restored.Token().GetProposal(1)
	require.NoError(t, err)
	assert.Equal(t, "persist me", p.Description)

	receipts := restored.Receipts()
	require.Len(t, receipts, len(tl.Receipts()))
	last := receipts[len(receipts)-1]
	assert.Equal(t, r.TxHash, last.TxHash)
	assert.True(t, last.Sponsored())
	assert.Equal(t, []string{"TransactionSponsored", "ProposalCreated"}, eventNames(t, &testLedger{Ledger: restored}, last.Logs))

	// the restored ledger keeps producing blocks
	next := (&testLedger{Ledger: restored}).mustSend(t, carol, token, tokenABI.PackVote(big.NewInt(1), true))
	assert.Equal(t, tl.BlockNumber()+1, next.BlockNumber)
}
