package api

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bloom-dao/bloomgov/internal/adapters/fs"
	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	alice = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")

	aliceKey = mustKey("59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d")
	bobKey   = mustKey("5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a")
)

func mustKey(hex string) *ecdsa.PrivateKey {
	key, err := crypto.HexToECDSA(hex)
	if err != nil {
		panic(err)
	}
	return key
}

type testEnv struct {
	chain    *ledger.Ledger
	store    *fs.StateStoreAdapter
	server   *Server
	http     *httptest.Server
	tokenABI *bindings.GovernanceToken
	pmABI    *bindings.GovernancePaymaster
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := domain.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	reg := prometheus.NewRegistry()
	chain, err := ledger.New(ledger.DefaultConfig(ledger.DefaultOwner), ledger.WithClock(clock), ledger.WithPromRegistry(reg))
	require.NoError(t, err)

	cfg := &config.RuntimeConfig{DataDir: t.TempDir(), From: ledger.DefaultOwner}
	store := fs.NewStateStoreAdapter(cfg)
	tx := usecase.NewTransactor(chain, store, cfg, usecase.NopProgress{})

	server := New(Config{ListenAddress: "127.0.0.1:0"}, Services{
		Chain:            chain,
		ListProposals:    usecase.NewListProposals(chain),
		ShowProposal:     usecase.NewShowProposal(chain, nil),
		ShowAccount:      usecase.NewShowAccount(chain, tx),
		ShowPaymaster:    usecase.NewShowPaymaster(chain),
		CheckEligibility: usecase.NewCheckEligibility(chain),
		RelayTransaction: usecase.NewRelayTransaction(tx, chain),
	}, reg, nil)

	env := &testEnv{
		chain:    chain,
		store:    store,
		server:   server,
		http:     httptest.NewServer(server.Handler()),
		tokenABI: bindings.NewGovernanceToken(),
		pmABI:    bindings.NewGovernancePaymaster(),
	}
	t.Cleanup(env.http.Close)
	return env
}

// seed gives alice 10 delegated tokens, one ether and an open proposal
func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.chain.SetBalance(alice, big.NewInt(params.Ether)))
	for _, tx := range []*ledger.Transaction{
		{From: ledger.DefaultOwner, To: e.chain.TokenAddress(), Data: e.tokenABI.PackMintForExchange(alice, domain.Tokens(10), "points")},
		{From: alice, To: e.chain.TokenAddress(), Data: e.tokenABI.PackDelegate(alice)},
		{From: alice, To: e.chain.TokenAddress(), Data: e.tokenABI.PackCreateProposalDefault("Plant trees in the park")},
	} {
		r, err := e.chain.Submit(ctx, tx)
		require.NoError(t, err)
		require.True(t, r.Succeeded(), r.RevertReason)
	}
}

func (e *testEnv) get(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(e.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) post(t *testing.T, body any, out any) int {
	t.Helper()
	return e.postTo(t, "/api/transactions", body, out)
}

func (e *testEnv) postTo(t *testing.T, path string, body any, out any) int {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}
	resp, err := http.Post(e.http.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) signed(t *testing.T, tx *ledger.Transaction, key *ecdsa.PrivateKey) *ledger.Transaction {
	t.Helper()
	require.NoError(t, e.chain.Sign(tx, key))
	return tx
}

func (e *testEnv) sponsoredVote(t *testing.T, support bool) *ledger.Transaction {
	t.Helper()
	pm := e.chain.PaymasterAddress()
	return e.signed(t, &ledger.Transaction{
		From:           alice,
		To:             e.chain.TokenAddress(),
		Data:           hexutil.Bytes(e.tokenABI.PackVote(big.NewInt(1), support)),
		Paymaster:      &pm,
		PaymasterInput: e.pmABI.PackGeneralFlow(nil),
	}, aliceKey)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	var resp HealthResponse
	assert.Equal(t, http.StatusOK, env.get(t, "/health", &resp))
	assert.True(t, resp.IsHealthy)
	assert.Equal(t, uint64(0), resp.BlockNumber)
}

func TestRelayTransaction(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	vote := env.sponsoredVote(t, true)
	var ok TransactionResponse
	require.Equal(t, http.StatusOK, env.post(t, vote, &ok))
	require.NotNil(t, ok.Receipt)
	assert.Equal(t, uint64(1), ok.Receipt.Status)
	assert.Equal(t, env.chain.PaymasterAddress(), ok.Receipt.Payer)
	assert.Contains(t, eventNames(ok.Events), "VoteCast")
	assert.Empty(t, ok.Error)
	assert.FileExists(t, env.store.Path(), "relayed transactions are persisted")

	t.Run("revert maps to the error category", func(t *testing.T) {
		var conflict TransactionResponse
		assert.Equal(t, http.StatusConflict, env.post(t, env.sponsoredVote(t, false), &conflict))
		assert.Equal(t, "already voted", conflict.Error)
		require.NotNil(t, conflict.Receipt)
		assert.Equal(t, uint64(0), conflict.Receipt.Status)

		var forbidden TransactionResponse
		status := env.post(t, env.signed(t, &ledger.Transaction{
			From: alice,
			To:   env.chain.PaymasterAddress(),
			Data: env.pmABI.PackPause(),
		}, aliceKey), &forbidden)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "caller is not the owner", forbidden.Error)
	})

	t.Run("rejected transaction", func(t *testing.T) {
		var resp ErrorResponse
		status := env.post(t, env.signed(t, &ledger.Transaction{
			From: bob,
			To:   env.chain.TokenAddress(),
			Data: env.tokenABI.PackDelegate(bob),
		}, bobKey), &resp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unsigned owner mint", func(t *testing.T) {
		var resp ErrorResponse
		status := env.post(t, &ledger.Transaction{
			From: ledger.DefaultOwner,
			To:   env.chain.TokenAddress(),
			Data: env.tokenABI.PackMintForExchange(bob, domain.Tokens(1_000_000), "free"),
		}, &resp)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "transaction is not signed", resp.Message)
		assert.Equal(t, 0, env.chain.Token().BalanceOf(bob).Sign())
	})

	t.Run("owner mint signed by another key", func(t *testing.T) {
		mint := &ledger.Transaction{
			From: ledger.DefaultOwner,
			To:   env.chain.TokenAddress(),
			Data: env.tokenABI.PackMintForExchange(bob, domain.Tokens(1_000_000), "free"),
		}
		hash, err := env.chain.SigningHash(mint)
		require.NoError(t, err)
		mint.Signature, err = crypto.Sign(hash.Bytes(), bobKey)
		require.NoError(t, err)

		var resp ErrorResponse
		assert.Equal(t, http.StatusForbidden, env.post(t, mint, &resp))
		assert.Equal(t, "signer does not match sender", resp.Message)
		assert.Equal(t, 0, env.chain.Token().BalanceOf(bob).Sign())
	})

	t.Run("replayed transaction", func(t *testing.T) {
		var resp ErrorResponse
		assert.Equal(t, http.StatusForbidden, env.post(t, vote, &resp))
	})

	t.Run("malformed body", func(t *testing.T) {
		var resp ErrorResponse
		assert.Equal(t, http.StatusBadRequest, env.post(t, `{"from": 12`, &resp))
		assert.Equal(t, http.StatusBadRequest, env.post(t, `{"from":"0x70997970C51812dc3A010C7d01b50e0d17dc79C8","nonce":1}`, &resp))
		assert.Contains(t, resp.Message, "invalid transaction")
	})
}

func TestSigningHash(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	tx := &ledger.Transaction{
		From: alice,
		To:   env.chain.TokenAddress(),
		Data: env.tokenABI.PackVote(big.NewInt(1), true),
	}
	var prepared usecase.SigningHashResult
	require.Equal(t, http.StatusOK, env.postTo(t, "/api/transactions/hash", tx, &prepared))
	assert.Equal(t, env.chain.Nonce(alice), prepared.Nonce)
	assert.Equal(t, env.chain.ChainID(), prepared.ChainID)

	sig, err := crypto.Sign(prepared.Hash.Bytes(), aliceKey)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	tx.Signature = sig

	var resp TransactionResponse
	require.Equal(t, http.StatusOK, env.post(t, tx, &resp))
	require.NotNil(t, resp.Receipt)
	assert.Equal(t, prepared.Hash, resp.Receipt.TxHash)
	assert.Equal(t, uint64(1), resp.Receipt.Status)

	var bad ErrorResponse
	assert.Equal(t, http.StatusBadRequest, env.postTo(t, "/api/transactions/hash", &ledger.Transaction{From: alice}, &bad))
	assert.Equal(t, http.StatusBadRequest, env.postTo(t, "/api/transactions/hash", `{"to": 1}`, &bad))
}

func TestDefaultListenAddress(t *testing.T) {
	s := New(Config{}, Services{}, nil, nil)
	assert.Equal(t, "127.0.0.1:8080", s.config.ListenAddress)
}

func TestProposalEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	require.Equal(t, http.StatusOK, env.post(t, env.sponsoredVote(t, true), nil))

	var list ProposalListResponse
	require.Equal(t, http.StatusOK, env.get(t, "/api/proposals", &list))
	require.Len(t, list.Proposals, 1)
	assert.Equal(t, "Plant trees in the park", list.Proposals[0].Description)
	assert.Equal(t, models.ProposalStatusActive, list.Proposals[0].Status)
	assert.Equal(t, 1, list.Summary[models.ProposalStatusActive])

	var expired ProposalListResponse
	require.Equal(t, http.StatusOK, env.get(t, "/api/proposals?status=expired", &expired))
	assert.Empty(t, expired.Proposals)
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/proposals?status=pending", nil))

	var detail ProposalResponse
	require.Equal(t, http.StatusOK, env.get(t, "/api/proposals/1", &detail))
	assert.Equal(t, uint64(1), detail.Proposal.ID)
	assert.False(t, detail.Executable)
	require.Len(t, detail.Votes, 1)
	assert.Equal(t, alice, detail.Votes[0].Voter)
	assert.Equal(t, 0, domain.Tokens(10).Cmp(detail.Votes[0].Weight))

	var vote VoteReceiptResponse
	require.Equal(t, http.StatusOK, env.get(t, fmt.Sprintf("/api/proposals/1/votes/%s", alice.Hex()), &vote))
	assert.True(t, vote.Voted)
	assert.True(t, vote.Support)
	assert.Equal(t, alice, vote.Voter)

	var notFound ErrorResponse
	assert.Equal(t, http.StatusNotFound, env.get(t, "/api/proposals/9", &notFound))
	assert.Equal(t, "proposal not found", notFound.Message)
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/proposals/abc", nil))
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/proposals/0", nil))
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/proposals/1/votes/alice", nil))
}

func TestAccountAndPaymasterEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	require.Equal(t, http.StatusOK, env.post(t, env.sponsoredVote(t, true), nil))

	var power VotingPowerResponse
	require.Equal(t, http.StatusOK, env.get(t, "/api/votes/power/"+alice.Hex(), &power))
	assert.Equal(t, 0, domain.Tokens(10).Cmp(power.VotingPower))
	assert.Equal(t, alice, power.Delegate)

	var account usecase.AccountInfo
	require.Equal(t, http.StatusOK, env.get(t, "/api/accounts/"+bob.Hex(), &account))
	assert.Equal(t, bob, account.Address)
	assert.Equal(t, 0, account.Balance.Sign())
	assert.False(t, account.Eligible)
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/accounts/0x1234", nil))

	var stats models.PaymasterStats
	require.Equal(t, http.StatusOK, env.get(t, "/api/paymaster/stats", &stats))
	assert.Equal(t, uint64(1), stats.TotalTransactions)
	assert.Positive(t, stats.TotalGasPaid.Sign())
	assert.False(t, stats.Paused)

	var params models.PaymasterParameters
	require.Equal(t, http.StatusOK, env.get(t, "/api/paymaster/parameters", &params))
	assert.Equal(t, uint64(1_000_000), params.MaxGasLimit)

	var user UserResponse
	require.Equal(t, http.StatusOK, env.get(t, "/api/paymaster/users/"+alice.Hex(), &user))
	assert.Equal(t, uint64(1), user.TxCount)
	assert.False(t, user.Blocked)

	var eligible, ineligible usecase.EligibilityResult
	require.Equal(t, http.StatusOK, env.get(t, "/api/paymaster/eligibility/"+alice.Hex(), &eligible))
	assert.True(t, eligible.Eligible)
	require.Equal(t, http.StatusOK, env.get(t, "/api/paymaster/eligibility/"+bob.Hex(), &ineligible))
	assert.False(t, ineligible.Eligible)
	assert.Equal(t, models.DeclineInsufficientVotingPower, ineligible.Reason)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.get(t, "/health", nil))

	resp, err := http.Get(env.http.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `bloomgov_api_requests_total{code="200",route="GET /health"} 1`)
	assert.Contains(t, string(body), "bloomgov_ledger_block_number")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, statusFor(domain.ErrNotOwner))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("wrapped: %w", domain.ErrZeroAmount)))
	assert.Equal(t, http.StatusConflict, statusFor(domain.ErrAlreadyVoted))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.ErrProposalNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestStartStop(t *testing.T) {
	env := newTestEnv(t)
	env.http.Close()
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, env.server.Start(ctx))
	assert.ErrorContains(t, env.server.Start(ctx), "already started")

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + env.server.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, env.server.Stop(stopCtx))
	cancel()
}

func eventNames(events []EventResponse) []string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Event
	}
	return names
}
