package domain

import (
	"errors"
)

// Error categories. Every rule violation raised by the token, the paymaster
// or the ledger wraps exactly one of these, so callers classify failures with
// errors.Is instead of matching messages.
var (
	// ErrUnauthorized is returned when the caller lacks the owner capability
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation is returned for malformed input or calls made while paused
	ErrValidation = errors.New("validation failed")

	// ErrStateConflict is returned when the current state forbids the operation
	ErrStateConflict = errors.New("state conflict")

	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")
)

// RevertError is a rule violation that aborts a call. Its message is the
// revert reason recorded in transaction receipts.
type RevertError struct {
	Kind   error
	Reason string
}

func (e *RevertError) Error() string {
	return e.Reason
}

func (e *RevertError) Unwrap() error {
	return e.Kind
}

func newRevert(kind error, reason string) error {
	return &RevertError{Kind: kind, Reason: reason}
}

// Authorization errors
var (
	ErrNotOwner         = newRevert(ErrUnauthorized, "caller is not the owner")
	ErrMissingSignature = newRevert(ErrUnauthorized, "transaction is not signed")
	ErrInvalidSignature = newRevert(ErrUnauthorized, "invalid signature")
	ErrSignerMismatch   = newRevert(ErrUnauthorized, "signer does not match sender")
)

// Validation errors
var (
	ErrZeroAddress            = newRevert(ErrValidation, "zero address")
	ErrMintToZeroAddress      = newRevert(ErrValidation, "cannot mint to zero address")
	ErrZeroAmount             = newRevert(ErrValidation, "amount must be greater than 0")
	ErrLengthMismatch         = newRevert(ErrValidation, "recipients and amounts length mismatch")
	ErrEnforcedPause          = newRevert(ErrValidation, "contract is paused")
	ErrExpectedPause          = newRevert(ErrValidation, "contract is not paused")
	ErrEmptyDescription       = newRevert(ErrValidation, "description must not be empty")
	ErrDeadlineInPast         = newRevert(ErrValidation, "deadline must be in the future")
	ErrDeadlineTooSoon        = newRevert(ErrValidation, "voting period is shorter than the minimum")
	ErrDeadlineTooFar         = newRevert(ErrValidation, "voting period is longer than the maximum")
	ErrInsufficientBalance    = newRevert(ErrValidation, "transfer amount exceeds balance")
	ErrInsufficientAllowance  = newRevert(ErrValidation, "insufficient allowance")
	ErrInvalidGasPrice        = newRevert(ErrValidation, "gas price must be > 0")
	ErrInvalidGasLimit        = newRevert(ErrValidation, "gas limit must be > 0")
	ErrInvalidMinVotingPower  = newRevert(ErrValidation, "min voting power must be > 0")
	ErrInvalidUser            = newRevert(ErrValidation, "invalid user address")
	ErrInvalidRecipient       = newRevert(ErrValidation, "invalid recipient")
	ErrInvalidGovernanceToken = newRevert(ErrValidation, "invalid governance token")
	ErrInvalidTransaction     = newRevert(ErrValidation, "invalid transaction")
	ErrInvalidCalldata        = newRevert(ErrValidation, "invalid calldata")
	ErrUnknownFunction        = newRevert(ErrValidation, "function selector not recognized")
	ErrNonPayable             = newRevert(ErrValidation, "function is not payable")
	ErrUnknownPaymaster       = newRevert(ErrValidation, "unknown paymaster")
	ErrInsufficientFunds      = newRevert(ErrValidation, "insufficient funds for gas and value")
)

// State-conflict errors
var (
	ErrInsufficientVotingPower = newRevert(ErrStateConflict, "insufficient voting power")
	ErrNoVotingPower           = newRevert(ErrStateConflict, "no voting power")
	ErrAlreadyVoted            = newRevert(ErrStateConflict, "already voted")
	ErrProposalCanceled        = newRevert(ErrStateConflict, "proposal is canceled")
	ErrProposalExecuted        = newRevert(ErrStateConflict, "proposal already executed")
	ErrVotingClosed            = newRevert(ErrStateConflict, "voting period has ended")
	ErrVotingNotEnded          = newRevert(ErrStateConflict, "voting period has not ended")
	ErrProposalDefeated        = newRevert(ErrStateConflict, "proposal did not pass")
	ErrNoFunds                 = newRevert(ErrStateConflict, "no funds to withdraw")
)

// Not-found errors
var (
	ErrProposalNotFound = newRevert(ErrNotFound, "proposal not found")
)

// KindOf returns the category sentinel wrapped by err, or nil when err does
// not belong to any category.
func KindOf(err error) error {
	for _, kind := range []error{ErrUnauthorized, ErrValidation, ErrStateConflict, ErrNotFound} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// RevertReason extracts the revert reason from err, falling back to the full
// error message.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}
	var revert *RevertError
	if errors.As(err, &revert) {
		return revert.Reason
	}
	return err.Error()
}
