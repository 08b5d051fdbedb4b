package usecase

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AdvanceTimeResult contains ledger time before and after the jump
type AdvanceTimeResult struct {
	Previous time.Time
	Now      time.Time
}

// AdvanceTime moves ledger time forward, like anvil's evm_increaseTime
type AdvanceTime struct {
	tx    *Transactor
	chain Chain
}

// NewAdvanceTime creates a new AdvanceTime use case
func NewAdvanceTime(tx *Transactor, chain Chain) *AdvanceTime {
	return &AdvanceTime{tx: tx, chain: chain}
}

// Run executes the use case
func (uc *AdvanceTime) Run(ctx context.Context, d time.Duration) (*AdvanceTimeResult, error) {
	result := &AdvanceTimeResult{Previous: uc.chain.Now()}
	err := uc.tx.Persist(ctx, func() error {
		now, err := uc.chain.AdvanceTime(d)
		result.Now = now
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FundAccountResult contains the new native balance
type FundAccountResult struct {
	Address common.Address
	Balance *big.Int
}

// FundAccount sets the native balance of an address, like anvil's
// anvil_setBalance
type FundAccount struct {
	tx    *Transactor
	chain Chain
}

// NewFundAccount creates a new FundAccount use case
func NewFundAccount(tx *Transactor, chain Chain) *FundAccount {
	return &FundAccount{tx: tx, chain: chain}
}

// Run executes the use case
func (uc *FundAccount) Run(ctx context.Context, addr common.Address, amount *big.Int) (*FundAccountResult, error) {
	if amount == nil {
		return nil, fmt.Errorf("amount is required")
	}
	err := uc.tx.Persist(ctx, func() error {
		return uc.chain.SetBalance(addr, amount)
	})
	if err != nil {
		return nil, err
	}
	return &FundAccountResult{Address: addr, Balance: uc.chain.NativeBalance(addr)}, nil
}
