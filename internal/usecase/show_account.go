package usecase

import (
	"context"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ShowAccountParams contains parameters for showing an account
type ShowAccountParams struct {
	// Address defaults to the configured sender
	Address common.Address
}

// AccountInfo is the governance view of one address
type AccountInfo struct {
	Address       common.Address       `json:"address"`
	Balance       *big.Int             `json:"balance"`
	VotingPower   *big.Int             `json:"votingPower"`
	Delegate      common.Address       `json:"delegate"`
	NativeBalance *big.Int             `json:"nativeBalance"`
	Nonce         uint64               `json:"nonce"`
	Eligible      bool                 `json:"eligible"`
	Eligibility   models.DeclineReason `json:"eligibility,omitempty"`
	Sponsorship   models.UserStats     `json:"sponsorship"`
}

// ShowAccount shows token balance, voting power and sponsorship state of an
// address
type ShowAccount struct {
	chain Chain
	tx    *Transactor
}

// NewShowAccount creates a new ShowAccount use case
func NewShowAccount(chain Chain, tx *Transactor) *ShowAccount {
	return &ShowAccount{chain: chain, tx: tx}
}

// Run executes the use case
func (uc *ShowAccount) Run(_ context.Context, params ShowAccountParams) (*AccountInfo, error) {
	addr := params.Address
	if addr == (common.Address{}) {
		addr = uc.tx.Sender()
	}
	return accountInfo(uc.chain, addr), nil
}

func accountInfo(chain Chain, addr common.Address) *AccountInfo {
	token := chain.Token()
	pm := chain.Paymaster()
	reason := pm.Eligibility(addr)
	return &AccountInfo{
		Address:       addr,
		Balance:       token.BalanceOf(addr),
		VotingPower:   token.VotingPower(addr),
		Delegate:      token.Delegates(addr),
		NativeBalance: chain.NativeBalance(addr),
		Nonce:         chain.Nonce(addr),
		Eligible:      reason == models.DeclineNone,
		Eligibility:   reason,
		Sponsorship:   pm.UserStats(addr),
	}
}
