package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PaymasterParameters are the owner-tunable sponsorship limits
type PaymasterParameters struct {
	MaxGasPrice    *big.Int `json:"maxGasPrice"`
	MaxGasLimit    uint64   `json:"maxGasLimit"`
	MinVotingPower *big.Int `json:"minVotingPower"`
}

// Clone returns a deep copy
func (p PaymasterParameters) Clone() PaymasterParameters {
	return PaymasterParameters{
		MaxGasPrice:    new(big.Int).Set(p.MaxGasPrice),
		MaxGasLimit:    p.MaxGasLimit,
		MinVotingPower: new(big.Int).Set(p.MinVotingPower),
	}
}

// PaymasterStats is the global sponsorship accounting
type PaymasterStats struct {
	TotalTransactions uint64   `json:"totalTransactions"`
	TotalGasPaid      *big.Int `json:"totalGasPaid"`
	Balance           *big.Int `json:"balance"`
	Paused            bool     `json:"paused"`
}

// UserStats is the per-address sponsorship accounting
type UserStats struct {
	TxCount uint64   `json:"txCount"`
	GasPaid *big.Int `json:"gasPaid"`
}

// DeclineReason explains a negative sponsorship decision
type DeclineReason string

const (
	DeclineNone                     DeclineReason = ""
	DeclinePaused                   DeclineReason = "paused"
	DeclineUnsupportedFlow          DeclineReason = "unsupported_flow"
	DeclineUnsupportedTarget        DeclineReason = "unsupported_target"
	DeclineFunctionNotAllowed       DeclineReason = "function_not_allowed"
	DeclineUserBlocked              DeclineReason = "user_blocked"
	DeclineInsufficientVotingPower  DeclineReason = "insufficient_voting_power"
	DeclineGasPriceTooHigh          DeclineReason = "gas_price_too_high"
	DeclineGasLimitTooHigh          DeclineReason = "gas_limit_too_high"
	DeclineInsufficientPaymasterBal DeclineReason = "insufficient_paymaster_balance"
)

// SponsorshipRequest is what the host hands the paymaster for one transaction
type SponsorshipRequest struct {
	From           common.Address
	To             common.Address
	Data           []byte
	GasPrice       *big.Int
	GasLimit       uint64
	PaymasterInput []byte
}

// SponsorshipDecision is the paymaster's verdict on a request
type SponsorshipDecision struct {
	Approved bool          `json:"approved"`
	Reason   DeclineReason `json:"reason,omitempty"`
	Cost     *big.Int      `json:"cost,omitempty"`
}
