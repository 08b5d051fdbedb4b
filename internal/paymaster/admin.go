package paymaster

import (
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

// Admin is the owner capability of a Paymaster. It stops working once
// ownership moves to another address.
type Admin struct {
	paymaster *Paymaster
	holder    common.Address
}

// Admin returns the owner capability if caller is the current owner
func (p *Paymaster) Admin(caller common.Address) (*Admin, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if caller != p.state.Owner {
		return nil, domain.ErrNotOwner
	}
	return &Admin{paymaster: p, holder: caller}, nil
}

// Address returns the owner address the capability was issued to
func (a *Admin) Address() common.Address {
	return a.holder
}

// lock takes the paymaster write lock and checks the capability is still
// held by the owner. The returned func releases the lock.
func (a *Admin) lock() (*Paymaster, func(), error) {
	p := a.paymaster
	p.mu.Lock()
	if a.holder != p.state.Owner {
		p.mu.Unlock()
		return nil, nil, domain.ErrNotOwner
	}
	return p, p.mu.Unlock, nil
}

func validateParameters(maxGasPrice *big.Int, maxGasLimit uint64, minVotingPower *big.Int) error {
	if maxGasPrice == nil || maxGasPrice.Sign() <= 0 {
		return domain.ErrInvalidGasPrice
	}
	if maxGasLimit == 0 {
		return domain.ErrInvalidGasLimit
	}
	if minVotingPower == nil || minVotingPower.Sign() <= 0 {
		return domain.ErrInvalidMinVotingPower
	}
	return nil
}

// Pause stops all sponsorship. Pausing a paused paymaster is a no-op that
// still emits PaymasterPaused.
func (a *Admin) Pause() error {
	return a.setPaused(true)
}

// Unpause resumes sponsorship
func (a *Admin) Unpause() error {
	return a.setPaused(false)
}

func (a *Admin) setPaused(paused bool) error {
	p, unlock, err := a.lock()
	if err != nil {
		return err
	}
	defer unlock()

	p.state.Paused = paused
	p.emitEvent(&domain.PaymasterPausedEvent{Paused: paused})
	p.logger.Info("paymaster pause state changed", "paused", paused)
	return nil
}

// UpdateParameters replaces all three sponsorship limits
func (a *Admin) UpdateParameters(maxGasPrice *big.Int, maxGasLimit uint64, minVotingPower *big.Int) error {
	p, unlock, err := a.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := validateParameters(maxGasPrice, maxGasLimit, minVotingPower); err != nil {
		return err
	}
	p.state.Parameters.MaxGasPrice = new(big.Int).Set(maxGasPrice)
	p.state.Parameters.MaxGasLimit = maxGasLimit
	p.state.Parameters.MinVotingPower = new(big.Int).Set(minVotingPower)
	p.emitEvent(&domain.ParametersUpdatedEvent{
		MaxGasPrice:    new(big.Int).Set(maxGasPrice),
		MaxGasLimit:    new(big.Int).SetUint64(maxGasLimit),
		MinVotingPower: new(big.Int).Set(minVotingPower),
	})
	p.logger.Info("parameters updated", "maxGasPrice", maxGasPrice, "maxGasLimit", maxGasLimit, "minVotingPower", minVotingPower)
	return nil
}

// UpdateMinVotingPower changes only the voting power requirement
func (a *Admin) UpdateMinVotingPower(value *big.Int) error {
	p, unlock, err := a.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if value == nil || value.Sign() <= 0 {
		return domain.ErrInvalidMinVotingPower
	}
	old := p.state.Parameters.MinVotingPower
	p.state.Parameters.MinVotingPower = new(big.Int).Set(value)
	p.emitEvent(&domain.VotingPowerRequirementUpdatedEvent{
		OldRequirement: new(big.Int).Set(old),
		NewRequirement: new(big.Int).Set(value),
	})
	return nil
}

// BlockUser denies user any further sponsorship
func (a *Admin) BlockUser(user common.Address) error {
	p, unlock, err := a.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if user == (common.Address{}) {
		return domain.ErrInvalidUser
	}
	p.state.Blocked[user] = true
	p.emitEvent(&domain.UserBlockedEvent{User: user})
	p.logger.Info("user blocked", "user", user)
	return nil
}

// UnblockUser lifts a block
func (a *Admin) UnblockUser(user common.Address) error {
	p, unlock, err := a.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if user == (common.Address{}) {
		return domain.ErrInvalidUser
	}
	delete(p.state.Blocked, user)
	p.emitEvent(&domain.UserUnblockedEvent{User: user})
	p.logger.Info("user unblocked", "user", user)
	return nil
}

// Withdraw drains the whole balance and returns the amount the host must
// credit to recipient.
func (a *Admin) Withdraw(recipient common.Address) (*big.Int, error) {
	p, unlock, err := a.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if recipient == (common.Address{}) {
		return nil, domain.ErrInvalidRecipient
	}
	if p.state.Balance.Sign() == 0 {
		return nil, domain.ErrNoFunds
	}
	amount := new(big.Int).Set(p.state.Balance)
	p.state.Balance.SetInt64(0)
	p.emitEvent(&domain.FundsWithdrawnEvent{Recipient: recipient, Amount: new(big.Int).Set(amount)})
	p.metrics.setBalance(p.state.Balance)

	p.logger.Info("funds withdrawn", "recipient", recipient, "amount", amount)
	return amount, nil
}

// TransferOwnership hands the owner role to newOwner, revoking this
// capability.
func (a *Admin) TransferOwnership(newOwner common.Address) error {
	p, unlock, err := a.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if newOwner == (common.Address{}) {
		return fmt.Errorf("new owner: %w", domain.ErrZeroAddress)
	}
	previous := p.state.Owner
	p.state.Owner = newOwner
	p.emitEvent(&domain.OwnershipTransferredEvent{PreviousOwner: previous, NewOwner: newOwner})
	return nil
}
