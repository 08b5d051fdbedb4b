package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ParsedEvent is the interface for all contract events. Field names of the
// implementations follow the camel-cased ABI argument names so the bindings
// can pack and unpack them by reflection.
type ParsedEvent interface {
	ContractEventName() string
	String() string
}

// short renders an address prefix for log lines
func short(addr common.Address) string {
	return addr.Hex()[:10] + "..."
}

// TransferEvent is the ERC20 Transfer event; minting uses the zero address as sender
type TransferEvent struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

func (TransferEvent) ContractEventName() string { return "Transfer" }

func (e *TransferEvent) String() string {
	return fmt.Sprintf("Transfer: from=%s to=%s value=%s", short(e.From), short(e.To), e.Value)
}

// ApprovalEvent is the ERC20 Approval event
type ApprovalEvent struct {
	Owner   common.Address
	Spender common.Address
	Value   *big.Int
}

func (ApprovalEvent) ContractEventName() string { return "Approval" }

func (e *ApprovalEvent) String() string {
	return fmt.Sprintf("Approval: owner=%s spender=%s value=%s", short(e.Owner), short(e.Spender), e.Value)
}

// DelegateChangedEvent records a change of delegatee
type DelegateChangedEvent struct {
	Delegator    common.Address
	FromDelegate common.Address
	ToDelegate   common.Address
}

func (DelegateChangedEvent) ContractEventName() string { return "DelegateChanged" }

func (e *DelegateChangedEvent) String() string {
	return fmt.Sprintf("DelegateChanged: delegator=%s from=%s to=%s",
		short(e.Delegator), short(e.FromDelegate), short(e.ToDelegate))
}

// DelegateVotesChangedEvent records a change of a delegatee's voting power
type DelegateVotesChangedEvent struct {
	Delegate      common.Address
	PreviousVotes *big.Int
	NewVotes      *big.Int
}

func (DelegateVotesChangedEvent) ContractEventName() string { return "DelegateVotesChanged" }

func (e *DelegateVotesChangedEvent) String() string {
	return fmt.Sprintf("DelegateVotesChanged: delegate=%s %s -> %s", short(e.Delegate), e.PreviousVotes, e.NewVotes)
}

// TokensMintedEvent is the audit record of a points-to-token exchange
type TokensMintedEvent struct {
	To     common.Address
	Amount *big.Int
	Reason string
}

func (TokensMintedEvent) ContractEventName() string { return "TokensMinted" }

func (e *TokensMintedEvent) String() string {
	return fmt.Sprintf("TokensMinted: to=%s amount=%s reason=%q", short(e.To), e.Amount, e.Reason)
}

// ProposalCreatedEvent is emitted when a proposal is created
type ProposalCreatedEvent struct {
	ProposalId  *big.Int
	Proposer    common.Address
	Description string
	Deadline    *big.Int
}

func (ProposalCreatedEvent) ContractEventName() string { return "ProposalCreated" }

func (e *ProposalCreatedEvent) String() string {
	return fmt.Sprintf("ProposalCreated: id=%s proposer=%s deadline=%s", e.ProposalId, short(e.Proposer), e.Deadline)
}

// VoteCastEvent is emitted for every recorded vote
type VoteCastEvent struct {
	ProposalId *big.Int
	Voter      common.Address
	Support    bool
	Weight     *big.Int
}

func (VoteCastEvent) ContractEventName() string { return "VoteCast" }

func (e *VoteCastEvent) String() string {
	return fmt.Sprintf("VoteCast: id=%s voter=%s support=%t weight=%s", e.ProposalId, short(e.Voter), e.Support, e.Weight)
}

// ProposalExecutedEvent is emitted when a proposal is executed
type ProposalExecutedEvent struct {
	ProposalId *big.Int
}

func (ProposalExecutedEvent) ContractEventName() string { return "ProposalExecuted" }

func (e *ProposalExecutedEvent) String() string {
	return fmt.Sprintf("ProposalExecuted: id=%s", e.ProposalId)
}

// ProposalCanceledEvent is emitted when the owner cancels a proposal
type ProposalCanceledEvent struct {
	ProposalId *big.Int
}

func (ProposalCanceledEvent) ContractEventName() string { return "ProposalCanceled" }

func (e *ProposalCanceledEvent) String() string {
	return fmt.Sprintf("ProposalCanceled: id=%s", e.ProposalId)
}

// PausedEvent is emitted when the token is paused
type PausedEvent struct {
	Account common.Address
}

func (PausedEvent) ContractEventName() string { return "Paused" }

func (e *PausedEvent) String() string {
	return fmt.Sprintf("Paused: by=%s", short(e.Account))
}

// UnpausedEvent is emitted when the token is unpaused
type UnpausedEvent struct {
	Account common.Address
}

func (UnpausedEvent) ContractEventName() string { return "Unpaused" }

func (e *UnpausedEvent) String() string {
	return fmt.Sprintf("Unpaused: by=%s", short(e.Account))
}

// OwnershipTransferredEvent is emitted by both contracts on owner change
type OwnershipTransferredEvent struct {
	PreviousOwner common.Address
	NewOwner      common.Address
}

func (OwnershipTransferredEvent) ContractEventName() string { return "OwnershipTransferred" }

func (e *OwnershipTransferredEvent) String() string {
	return fmt.Sprintf("OwnershipTransferred: %s -> %s", short(e.PreviousOwner), short(e.NewOwner))
}

// PaymasterPausedEvent is emitted when sponsorship is paused or resumed
type PaymasterPausedEvent struct {
	Paused bool
}

func (PaymasterPausedEvent) ContractEventName() string { return "PaymasterPaused" }

func (e *PaymasterPausedEvent) String() string {
	return fmt.Sprintf("PaymasterPaused: paused=%t", e.Paused)
}

// ParametersUpdatedEvent is emitted when the sponsorship limits change
type ParametersUpdatedEvent struct {
	MaxGasPrice    *big.Int
	MaxGasLimit    *big.Int
	MinVotingPower *big.Int
}

func (ParametersUpdatedEvent) ContractEventName() string { return "ParametersUpdated" }

func (e *ParametersUpdatedEvent) String() string {
	return fmt.Sprintf("ParametersUpdated: maxGasPrice=%s maxGasLimit=%s minVotingPower=%s",
		e.MaxGasPrice, e.MaxGasLimit, e.MinVotingPower)
}

// VotingPowerRequirementUpdatedEvent is emitted when minVotingPower changes
type VotingPowerRequirementUpdatedEvent struct {
	OldRequirement *big.Int
	NewRequirement *big.Int
}

func (VotingPowerRequirementUpdatedEvent) ContractEventName() string {
	return "VotingPowerRequirementUpdated"
}

func (e *VotingPowerRequirementUpdatedEvent) String() string {
	return fmt.Sprintf("VotingPowerRequirementUpdated: %s -> %s", e.OldRequirement, e.NewRequirement)
}

// UserBlockedEvent is emitted when an address is denied sponsorship
type UserBlockedEvent struct {
	User common.Address
}

func (UserBlockedEvent) ContractEventName() string { return "UserBlocked" }

func (e *UserBlockedEvent) String() string {
	return fmt.Sprintf("UserBlocked: user=%s", short(e.User))
}

// UserUnblockedEvent is emitted when a block is lifted
type UserUnblockedEvent struct {
	User common.Address
}

func (UserUnblockedEvent) ContractEventName() string { return "UserUnblocked" }

func (e *UserUnblockedEvent) String() string {
	return fmt.Sprintf("UserUnblocked: user=%s", short(e.User))
}

// FundsWithdrawnEvent is emitted when the owner drains the paymaster
type FundsWithdrawnEvent struct {
	Recipient common.Address
	Amount    *big.Int
}

func (FundsWithdrawnEvent) ContractEventName() string { return "FundsWithdrawn" }

func (e *FundsWithdrawnEvent) String() string {
	return fmt.Sprintf("FundsWithdrawn: recipient=%s amount=%s", short(e.Recipient), e.Amount)
}

// FundsReceivedEvent is emitted when the paymaster accepts a deposit
type FundsReceivedEvent struct {
	Sender common.Address
	Amount *big.Int
}

func (FundsReceivedEvent) ContractEventName() string { return "FundsReceived" }

func (e *FundsReceivedEvent) String() string {
	return fmt.Sprintf("FundsReceived: sender=%s amount=%s", short(e.Sender), e.Amount)
}

// TransactionSponsoredEvent is emitted for every approved sponsorship
type TransactionSponsoredEvent struct {
	User     common.Address
	Selector [4]byte
	GasPrice *big.Int
	GasLimit *big.Int
	Cost     *big.Int
}

func (TransactionSponsoredEvent) ContractEventName() string { return "TransactionSponsored" }

func (e *TransactionSponsoredEvent) String() string {
	return fmt.Sprintf("TransactionSponsored: user=%s selector=0x%x cost=%s", short(e.User), e.Selector, e.Cost)
}
