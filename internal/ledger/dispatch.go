package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/paymaster"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// execute runs the call part of a transaction. It returns the ABI-encoded
// return data and the signature of the called method.
func (l *Ledger) execute(from, to common.Address, value *big.Int, data []byte) ([]byte, string, error) {
	switch to {
	case l.state.TokenAddress:
		return l.callToken(from, value, data)
	case l.state.PaymasterAddress:
		return l.callPaymaster(from, value, data)
	}
	l.debit(from, value)
	l.credit(to, value)
	return nil, "", nil
}

func (l *Ledger) callToken(from common.Address, value *big.Int, data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", domain.ErrNonPayable
	}
	method, args, err := l.tokenABI.DecodeCall(data)
	if err != nil {
		return nil, "", err
	}
	if value.Sign() > 0 && !method.IsPayable() {
		return nil, method.Sig, domain.ErrNonPayable
	}
	if method.IsConstant() {
		ret, err := l.tokenView(from, method, args)
		return ret, method.Sig, err
	}
	ret, err := l.tokenWrite(from, method, args)
	return ret, method.Sig, err
}

func (l *Ledger) callPaymaster(from common.Address, value *big.Int, data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		l.debit(from, value)
		return nil, "receive()", l.paymaster.Deposit(from, value)
	}
	method, args, err := l.pmABI.DecodeCall(data)
	if err != nil {
		return nil, "", err
	}
	if value.Sign() > 0 && !method.IsPayable() {
		return nil, method.Sig, domain.ErrNonPayable
	}
	if method.IsConstant() {
		ret, err := l.paymasterView(method, args)
		return ret, method.Sig, err
	}
	ret, err := l.paymasterWrite(from, method, args)
	return ret, method.Sig, err
}

// Call executes a view function against the latest state without creating
// a transaction.
func (l *Ledger) Call(ctx context.Context, from, to common.Address, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	switch to {
	case l.state.TokenAddress:
		method, args, err := l.tokenABI.DecodeCall(data)
		if err != nil {
			return nil, err
		}
		if !method.IsConstant() {
			return nil, fmt.Errorf("%w: %s is not a view function", domain.ErrInvalidTransaction, method.Sig)
		}
		return l.tokenView(from, method, args)
	case l.state.PaymasterAddress:
		method, args, err := l.pmABI.DecodeCall(data)
		if err != nil {
			return nil, err
		}
		if !method.IsConstant() {
			return nil, fmt.Errorf("%w: %s is not a view function", domain.ErrInvalidTransaction, method.Sig)
		}
		return l.paymasterView(method, args)
	}
	return nil, fmt.Errorf("%w: no contract at %s", domain.ErrInvalidTransaction, to.Hex())
}

func proposalID(v *big.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, domain.ErrProposalNotFound
	}
	return v.Uint64(), nil
}

func unixDeadline(v *big.Int) (time.Time, error) {
	if !v.IsInt64() {
		return time.Time{}, domain.ErrDeadlineTooFar
	}
	return time.Unix(v.Int64(), 0).UTC(), nil
}

func packOutputs(method *abi.Method, values ...any) ([]byte, error) {
	out, err := method.Outputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s result: %w", method.Sig, err)
	}
	return out, nil
}

func (l *Ledger) tokenWrite(from common.Address, method *abi.Method, args []any) ([]byte, error) {
	t := l.token
	switch method.Sig {
	case "transfer(address,uint256)":
		if err := t.Transfer(from, args[0].(common.Address), args[1].(*big.Int)); err != nil {
			return nil, err
		}
		return packOutputs(method, true)
	case "approve(address,uint256)":
		if err := t.Approve(from, args[0].(common.Address), args[1].(*big.Int)); err != nil {
			return nil, err
		}
		return packOutputs(method, true)
	case "transferFrom(address,address,uint256)":
		if err := t.TransferFrom(from, args[0].(common.Address), args[1].(common.Address), args[2].(*big.Int)); err != nil {
			return nil, err
		}
		return packOutputs(method, true)
	case "delegate(address)", "delegateVoting(address)":
		return nil, t.Delegate(from, args[0].(common.Address))
	case "createProposal(string,uint256)":
		deadline, err := unixDeadline(args[1].(*big.Int))
		if err != nil {
			return nil, err
		}
		id, err := t.CreateProposal(from, args[0].(string), deadline)
		if err != nil {
			return nil, err
		}
		return packOutputs(method, new(big.Int).SetUint64(id))
	case "createProposal(string)":
		id, err := t.CreateProposal(from, args[0].(string), time.Time{})
		if err != nil {
			return nil, err
		}
		return packOutputs(method, new(big.Int).SetUint64(id))
	case "vote(uint256,bool)":
		id, err := proposalID(args[0].(*big.Int))
		if err != nil {
			return nil, err
		}
		return nil, t.Vote(from, id, args[1].(bool))
	case "executeProposal(uint256)":
		id, err := proposalID(args[0].(*big.Int))
		if err != nil {
			return nil, err
		}
		return nil, t.ExecuteProposal(from, id)
	}

	admin, err := t.Admin(from)
	if err != nil {
		return nil, err
	}
	switch method.Sig {
	case "mintForExchange(address,uint256,string)":
		return nil, admin.MintForExchange(args[0].(common.Address), args[1].(*big.Int), args[2].(string))
	case "batchMint(address[],uint256[],string)":
		return nil, admin.BatchMint(args[0].([]common.Address), args[1].([]*big.Int), args[2].(string))
	case "cancelProposal(uint256)":
		id, err := proposalID(args[0].(*big.Int))
		if err != nil {
			return nil, err
		}
		return nil, admin.CancelProposal(id)
	case "pause()":
		return nil, admin.Pause()
	case "unpause()":
		return nil, admin.Unpause()
	case "transferOwnership(address)":
		return nil, admin.TransferOwnership(args[0].(common.Address))
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, method.Sig)
}

func (l *Ledger) tokenView(from common.Address, method *abi.Method, args []any) ([]byte, error) {
	t := l.token
	switch method.Sig {
	case "name()":
		return packOutputs(method, t.Name())
	case "symbol()":
		return packOutputs(method, t.Symbol())
	case "decimals()":
		return packOutputs(method, t.Decimals())
	case "totalSupply()":
		return packOutputs(method, t.TotalSupply())
	case "balanceOf(address)":
		return packOutputs(method, t.BalanceOf(args[0].(common.Address)))
	case "allowance(address,address)":
		return packOutputs(method, t.Allowance(args[0].(common.Address), args[1].(common.Address)))
	case "owner()":
		return packOutputs(method, t.Owner())
	case "paused()":
		return packOutputs(method, t.Paused())
	case "delegates(address)":
		return packOutputs(method, t.Delegates(args[0].(common.Address)))
	case "getVotes(address)", "getVotingPower(address)":
		return packOutputs(method, t.VotingPower(args[0].(common.Address)))
	case "proposalCount()":
		return packOutputs(method, new(big.Int).SetUint64(t.ProposalCount()))
	case "getProposal(uint256)":
		id, err := proposalID(args[0].(*big.Int))
		if err != nil {
			return nil, err
		}
		p, err := t.GetProposal(id)
		if err != nil {
			return nil, err
		}
		return packOutputs(method, p.Description, p.Proposer, big.NewInt(p.Deadline.Unix()),
			p.ForVotes, p.AgainstVotes, p.Executed, p.Canceled)
	case "getVoteInfo(uint256,address)":
		id, err := proposalID(args[0].(*big.Int))
		if err != nil {
			return nil, err
		}
		r, err := t.GetVoteInfo(id, args[1].(common.Address))
		if err != nil {
			return nil, err
		}
		return packOutputs(method, r.Voted, r.Support, r.Weight)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, method.Sig)
}

func (l *Ledger) paymasterWrite(from common.Address, method *abi.Method, args []any) ([]byte, error) {
	admin, err := l.paymaster.Admin(from)
	if err != nil {
		return nil, err
	}
	switch method.Sig {
	case "updateParameters(uint256,uint256,uint256)":
		limit := args[1].(*big.Int)
		if !limit.IsUint64() {
			return nil, fmt.Errorf("%w: gas limit out of range", domain.ErrInvalidCalldata)
		}
		return nil, admin.UpdateParameters(args[0].(*big.Int), limit.Uint64(), args[2].(*big.Int))
	case "updateMinVotingPower(uint256)":
		return nil, admin.UpdateMinVotingPower(args[0].(*big.Int))
	case "blockUser(address)":
		return nil, admin.BlockUser(args[0].(common.Address))
	case "unblockUser(address)":
		return nil, admin.UnblockUser(args[0].(common.Address))
	case "pause()":
		return nil, admin.Pause()
	case "unpause()":
		return nil, admin.Unpause()
	case "withdraw(address)":
		recipient := args[0].(common.Address)
		amount, err := admin.Withdraw(recipient)
		if err != nil {
			return nil, err
		}
		if recipient == l.state.PaymasterAddress {
			return nil, l.paymaster.Deposit(recipient, amount)
		}
		l.credit(recipient, amount)
		return nil, nil
	case "transferOwnership(address)":
		return nil, admin.TransferOwnership(args[0].(common.Address))
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, method.Sig)
}

func (l *Ledger) paymasterView(method *abi.Method, args []any) ([]byte, error) {
	pm := l.paymaster
	switch method.Sig {
	case "owner()":
		return packOutputs(method, pm.Owner())
	case "governanceToken()":
		return packOutputs(method, pm.GovernanceToken())
	case "paused()":
		return packOutputs(method, pm.Paused())
	case "isAllowedGovernanceFunction(bytes4)", "isFunctionSupported(bytes4)":
		return packOutputs(method, paymaster.IsAllowedGovernanceFunction(args[0].([4]byte)))
	case "isEligible(address)":
		return packOutputs(method, pm.IsEligible(args[0].(common.Address)))
	case "blockedUsers(address)":
		return packOutputs(method, pm.IsBlocked(args[0].(common.Address)))
	case "getParameters()":
		p := pm.Parameters()
		return packOutputs(method, p.MaxGasPrice, new(big.Int).SetUint64(p.MaxGasLimit), p.MinVotingPower)
	case "getStats()":
		s := pm.Stats()
		return packOutputs(method, new(big.Int).SetUint64(s.TotalTransactions), s.TotalGasPaid, s.Balance, s.Paused)
	case "getUserStats(address)":
		s := pm.UserStats(args[0].(common.Address))
		return packOutputs(method, new(big.Int).SetUint64(s.TxCount), s.GasPaid)
	case "getBalance()":
		return packOutputs(method, pm.Balance())
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, method.Sig)
}
