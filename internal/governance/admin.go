package governance

import (
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

// Admin is the owner capability of a Token. Owner-only operations exist
// only on this type. A capability stops working once ownership moves to
// another address.
type Admin struct {
	token  *Token
	holder common.Address
}

// Admin returns the owner capability if caller is the current owner
func (t *Token) Admin(caller common.Address) (*Admin, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if caller != t.state.Owner {
		return nil, domain.ErrNotOwner
	}
	return &Admin{token: t, holder: caller}, nil
}

// Address returns the owner address the capability was issued to
func (a *Admin) Address() common.Address {
	return a.holder
}

// authorize must be called with the token lock held
func (a *Admin) authorize() error {
	if a.holder != a.token.state.Owner {
		return domain.ErrNotOwner
	}
	return nil
}

func validateMint(recipient common.Address, amount *big.Int) error {
	if recipient == (common.Address{}) {
		return domain.ErrMintToZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}
	return nil
}

// MintForExchange mints amount to recipient, recording reason in the
// TokensMinted audit event.
func (a *Admin) MintForExchange(recipient common.Address, amount *big.Int, reason string) error {
	t := a.token
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := a.authorize(); err != nil {
		return err
	}
	if t.state.Paused {
		return domain.ErrEnforcedPause
	}
	if err := validateMint(recipient, amount); err != nil {
		return err
	}

	t.mint(recipient, amount)
	t.emitEvent(&domain.TokensMintedEvent{To: recipient, Amount: new(big.Int).Set(amount), Reason: reason})

	t.logger.Info("tokens minted", "to", recipient, "amount", amount, "reason", reason)
	return nil
}

// BatchMint mints to every (recipient, amount) pair or to none of them
func (a *Admin) BatchMint(recipients []common.Address, amounts []*big.Int, reason string) error {
	t := a.token
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := a.authorize(); err != nil {
		return err
	}
	if t.state.Paused {
		return domain.ErrEnforcedPause
	}
	if len(recipients) != len(amounts) {
		return domain.ErrLengthMismatch
	}
	for i := range recipients {
		if err := validateMint(recipients[i], amounts[i]); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	for i := range recipients {
		t.mint(recipients[i], amounts[i])
		t.emitEvent(&domain.TokensMintedEvent{To: recipients[i], Amount: new(big.Int).Set(amounts[i]), Reason: reason})
	}

	t.logger.Info("batch minted", "count", len(recipients), "reason", reason)
	return nil
}

// CancelProposal cancels a proposal that has not been executed
func (a *Admin) CancelProposal(id uint64) error {
	t := a.token
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := a.authorize(); err != nil {
		return err
	}
	if t.state.Paused {
		return domain.ErrEnforcedPause
	}
	p, err := t.proposal(id)
	if err != nil {
		return err
	}
	if p.Executed {
		return domain.ErrProposalExecuted
	}
	if p.Canceled {
		return domain.ErrProposalCanceled
	}

	p.Canceled = true
	t.emitEvent(&domain.ProposalCanceledEvent{ProposalId: new(big.Int).SetUint64(id)})

	t.logger.Info("proposal canceled", "id", id)
	return nil
}

// Pause halts minting, transfers and all proposal operations
func (a *Admin) Pause() error {
	t := a.token
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := a.authorize(); err != nil {
		return err
	}
	if t.state.Paused {
		return domain.ErrEnforcedPause
	}
	t.state.Paused = true
	t.emitEvent(&domain.PausedEvent{Account: a.holder})
	return nil
}

// Unpause resumes normal operation
func (a *Admin) Unpause() error {
	t := a.token
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := a.authorize(); err != nil {
		return err
	}
	if !t.state.Paused {
		return domain.ErrExpectedPause
	}
	t.state.Paused = false
	t.emitEvent(&domain.UnpausedEvent{Account: a.holder})
	return nil
}

// TransferOwnership hands the owner role to newOwner, revoking this
// capability.
func (a *Admin) TransferOwnership(newOwner common.Address) error {
	t := a.token
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := a.authorize(); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return fmt.Errorf("new owner: %w", domain.ErrZeroAddress)
	}
	previous := t.state.Owner
	t.state.Owner = newOwner
	t.emitEvent(&domain.OwnershipTransferredEvent{PreviousOwner: previous, NewOwner: newOwner})
	return nil
}
