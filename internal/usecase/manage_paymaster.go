package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/bindings"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// PaymasterAction is an administrative paymaster operation
type PaymasterAction string

const (
	PaymasterPause          PaymasterAction = "pause"
	PaymasterUnpause        PaymasterAction = "unpause"
	PaymasterBlock          PaymasterAction = "block"
	PaymasterUnblock        PaymasterAction = "unblock"
	PaymasterParams         PaymasterAction = "params"
	PaymasterMinVotingPower PaymasterAction = "min-power"
	PaymasterWithdraw       PaymasterAction = "withdraw"
	PaymasterFund           PaymasterAction = "fund"
)

// ManagePaymasterParams contains parameters for a paymaster operation.
// Only the fields of the chosen action are read.
type ManagePaymasterParams struct {
	Action PaymasterAction

	User common.Address // block, unblock

	// params: unset values keep their current setting
	MaxGasPrice    *big.Int
	MaxGasLimit    uint64
	MinVotingPower *big.Int // params, min-power

	Recipient common.Address // withdraw, defaults to the sender
	Amount    *big.Int       // fund
}

// ManagePaymasterResult contains the paymaster state after the operation
type ManagePaymasterResult struct {
	Action    PaymasterAction
	Receipt   *ledger.Receipt
	Paymaster *PaymasterInfo
	Events    []domain.ParsedEvent
}

// ManagePaymaster performs owner operations on the paymaster and funds it
type ManagePaymaster struct {
	tx    *Transactor
	chain Chain
	pmABI *bindings.GovernancePaymaster
}

// NewManagePaymaster creates a new ManagePaymaster use case
func NewManagePaymaster(tx *Transactor, chain Chain) *ManagePaymaster {
	return &ManagePaymaster{tx: tx, chain: chain, pmABI: bindings.NewGovernancePaymaster()}
}

// Run executes the operation
func (uc *ManagePaymaster) Run(ctx context.Context, params ManagePaymasterParams) (*ManagePaymasterResult, error) {
	call, err := uc.call(params)
	if err != nil {
		return nil, err
	}
	call.To = uc.chain.PaymasterAddress()

	receipt, err := uc.tx.Send(ctx, call)
	if err != nil {
		return nil, err
	}
	return &ManagePaymasterResult{
		Action:    params.Action,
		Receipt:   receipt,
		Paymaster: paymasterInfo(uc.chain),
		Events:    uc.tx.Events(receipt),
	}, nil
}

func (uc *ManagePaymaster) call(params ManagePaymasterParams) (Call, error) {
	switch params.Action {
	case PaymasterPause:
		return Call{Data: uc.pmABI.PackPause(), Label: "Pausing paymaster"}, nil
	case PaymasterUnpause:
		return Call{Data: uc.pmABI.PackUnpause(), Label: "Unpausing paymaster"}, nil
	case PaymasterBlock:
		return Call{Data: uc.pmABI.PackBlockUser(params.User), Label: fmt.Sprintf("Blocking %s", params.User.Hex())}, nil
	case PaymasterUnblock:
		return Call{Data: uc.pmABI.PackUnblockUser(params.User), Label: fmt.Sprintf("Unblocking %s", params.User.Hex())}, nil
	case PaymasterParams:
		current := uc.chain.Paymaster().Parameters()
		price, limit, power := current.MaxGasPrice, current.MaxGasLimit, current.MinVotingPower
		if params.MaxGasPrice != nil {
			price = params.MaxGasPrice
		}
		if params.MaxGasLimit != 0 {
			limit = params.MaxGasLimit
		}
		if params.MinVotingPower != nil {
			power = params.MinVotingPower
		}
		return Call{
			Data:  uc.pmABI.PackUpdateParameters(price, new(big.Int).SetUint64(limit), power),
			Label: "Updating sponsorship parameters",
		}, nil
	case PaymasterMinVotingPower:
		if params.MinVotingPower == nil {
			return Call{}, fmt.Errorf("min voting power is required")
		}
		return Call{
			Data:  uc.pmABI.PackUpdateMinVotingPower(params.MinVotingPower),
			Label: "Updating minimum voting power",
		}, nil
	case PaymasterWithdraw:
		recipient := params.Recipient
		if recipient == (common.Address{}) {
			recipient = uc.tx.Sender()
		}
		return Call{Data: uc.pmABI.PackWithdraw(recipient), Label: fmt.Sprintf("Withdrawing paymaster balance to %s", recipient.Hex())}, nil
	case PaymasterFund:
		if params.Amount == nil || params.Amount.Sign() <= 0 {
			return Call{}, fmt.Errorf("fund amount must be greater than 0")
		}
		return Call{Value: params.Amount, Label: "Funding paymaster"}, nil
	}
	return Call{}, fmt.Errorf("invalid paymaster action: %s", params.Action)
}
