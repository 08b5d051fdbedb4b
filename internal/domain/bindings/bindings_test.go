package bindings

import (
	"math/big"
	"testing"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectorOf(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

func TestGovernanceToken_MethodSelectors(t *testing.T) {
	token := NewGovernanceToken()

	tests := []struct {
		name string
		sig  string
	}{
		{"vote", "vote(uint256,bool)"},
		{"createProposal", "createProposal(string,uint256)"},
		{"createProposal0", "createProposal(string)"},
		{"delegate", "delegate(address)"},
		{"delegateVoting", "delegateVoting(address)"},
		{"mintForExchange", "mintForExchange(address,uint256,string)"},
		{"batchMint", "batchMint(address[],uint256[],string)"},
		{"transfer", "transfer(address,uint256)"},
	}

	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			method, ok := token.ABI().Methods[tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.sig, method.Sig)
			assert.Equal(t, selectorOf(tt.sig), method.ID)
		})
	}
}

func TestGovernancePaymaster_GeneralFlowSelector(t *testing.T) {
	pm := NewGovernancePaymaster()

	sel := pm.GeneralFlowSelector()
	assert.Equal(t, "8c5a3445", common.Bytes2Hex(sel[:]))

	input := pm.PackGeneralFlow(nil)
	got, ok := Selector(input)
	require.True(t, ok)
	assert.Equal(t, sel, got)
}

func TestDecodeCall(t *testing.T) {
	token := NewGovernanceToken()

	t.Run("vote", func(t *testing.T) {
		method, args, err := token.DecodeCall(token.PackVote(big.NewInt(7), true))
		require.NoError(t, err)
		assert.Equal(t, "vote(uint256,bool)", method.Sig)
		require.Len(t, args, 2)
		assert.Equal(t, big.NewInt(7), args[0])
		assert.Equal(t, true, args[1])
	})

	t.Run("default period overload", func(t *testing.T) {
		method, args, err := token.DecodeCall(token.PackCreateProposalDefault("fund the garden"))
		require.NoError(t, err)
		assert.Equal(t, "createProposal(string)", method.Sig)
		assert.Equal(t, "fund the garden", args[0])
	})

	t.Run("short calldata", func(t *testing.T) {
		_, _, err := token.DecodeCall([]byte{0x01})
		assert.ErrorIs(t, err, domain.ErrInvalidCalldata)
	})

	t.Run("unknown selector", func(t *testing.T) {
		_, _, err := token.DecodeCall([]byte{0xde, 0xad, 0xbe, 0xef})
		assert.ErrorIs(t, err, domain.ErrUnknownFunction)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestEventLogs(t *testing.T) {
	token := NewGovernanceToken()
	pm := NewGovernancePaymaster()
	addr := common.HexToAddress("0x1000000000000000000000000000000000000001")
	voter := common.HexToAddress("0x2000000000000000000000000000000000000002")

	t.Run("vote cast", func(t *testing.T) {
		event := &domain.VoteCastEvent{
			ProposalId: big.NewInt(3),
			Voter:      voter,
			Support:    true,
			Weight:     domain.Tokens(100),
		}
		log, err := token.PackLog(addr, event)
		require.NoError(t, err)
		assert.Equal(t, addr, log.Address)
		require.Len(t, log.Topics, 3)
		assert.Equal(t, crypto.Keccak256Hash([]byte("VoteCast(uint256,address,bool,uint256)")), log.Topics[0])
		assert.Equal(t, common.BytesToHash(voter.Bytes()), log.Topics[2])

		decoded, err := token.UnpackLog(log)
		require.NoError(t, err)
		assert.Equal(t, event, decoded)
	})

	t.Run("tokens minted", func(t *testing.T) {
		event := &domain.TokensMintedEvent{To: voter, Amount: domain.Tokens(5), Reason: "points exchange"}
		log, err := token.PackLog(addr, event)
		require.NoError(t, err)

		decoded, err := token.UnpackLog(log)
		require.NoError(t, err)
		assert.Equal(t, event, decoded)
	})

	t.Run("indexed only", func(t *testing.T) {
		event := &domain.ProposalExecutedEvent{ProposalId: big.NewInt(1)}
		log, err := token.PackLog(addr, event)
		require.NoError(t, err)
		assert.Empty(t, log.Data)

		decoded, err := token.UnpackLog(log)
		require.NoError(t, err)
		assert.Equal(t, event, decoded)
	})

	t.Run("paymaster sponsorship", func(t *testing.T) {
		event := &domain.TransactionSponsoredEvent{
			User:     voter,
			Selector: [4]byte{0xc9, 0xd2, 0x7a, 0xfe},
			GasPrice: big.NewInt(250_000_000),
			GasLimit: big.NewInt(300_000),
			Cost:     big.NewInt(75_000_000_000_000),
		}
		log, err := pm.PackLog(addr, event)
		require.NoError(t, err)

		decoded, err := pm.UnpackLog(log)
		require.NoError(t, err)
		assert.Equal(t, event, decoded)
	})

	t.Run("single bool", func(t *testing.T) {
		event := &domain.PaymasterPausedEvent{Paused: true}
		log, err := pm.PackLog(addr, event)
		require.NoError(t, err)

		decoded, err := pm.UnpackLog(log)
		require.NoError(t, err)
		assert.Equal(t, event, decoded)
	})

	t.Run("event from other contract", func(t *testing.T) {
		_, err := token.PackLog(addr, &domain.UserBlockedEvent{User: voter})
		assert.Error(t, err)
	})
}

func TestUnpackCreateProposal(t *testing.T) {
	token := NewGovernanceToken()
	ret, err := token.ABI().Methods["createProposal"].Outputs.Pack(big.NewInt(42))
	require.NoError(t, err)

	id, err := token.UnpackCreateProposal(ret)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id.Uint64())
}
