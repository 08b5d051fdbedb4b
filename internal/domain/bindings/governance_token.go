package bindings

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// GovernanceTokenMetaData contains the ABI of the GovernanceToken contract.
var GovernanceTokenMetaData = bind.MetaData{
	ABI: "[{\"type\":\"function\",\"name\":\"createProposal\",\"inputs\":[{\"name\":\"description\",\"type\":\"string\",\"internalType\":\"string\"},{\"name\":\"deadline\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"createProposal\",\"inputs\":[{\"name\":\"description\",\"type\":\"string\",\"internalType\":\"string\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"name\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"string\",\"internalType\":\"string\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"symbol\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"string\",\"internalType\":\"string\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"decimals\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"uint8\",\"internalType\":\"uint8\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"totalSupply\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"balanceOf\",\"inputs\":[{\"name\":\"account\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"allowance\",\"inputs\":[{\"name\":\"owner\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"spender\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"transfer\",\"inputs\":[{\"name\":\"to\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"value\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"approve\",\"inputs\":[{\"name\":\"spender\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"value\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"transferFrom\",\"inputs\":[{\"name\":\"from\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"to\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"value\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"owner\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"address\",\"internalType\":\"address\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"paused\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"transferOwnership\",\"inputs\":[{\"name\":\"newOwner\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"mintForExchange\",\"inputs\":[{\"name\":\"recipient\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"amount\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"reason\",\"type\":\"string\",\"internalType\":\"string\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"batchMint\",\"inputs\":[{\"name\":\"recipients\",\"type\":\"address[]\",\"internalType\":\"address[]\"},{\"name\":\"amounts\",\"type\":\"uint256[]\",\"internalType\":\"uint256[]\"},{\"name\":\"reason\",\"type\":\"string\",\"internalType\":\"string\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"delegate\",\"inputs\":[{\"name\":\"delegatee\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"delegateVoting\",\"inputs\":[{\"name\":\"delegatee\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"delegates\",\"inputs\":[{\"name\":\"account\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"address\",\"internalType\":\"address\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"getVotes\",\"inputs\":[{\"name\":\"account\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"getVotingPower\",\"inputs\":[{\"name\":\"account\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"vote\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"support\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"executeProposal\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"cancelProposal\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"proposalCount\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"getProposal\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[{\"name\":\"description\",\"type\":\"string\",\"internalType\":\"string\"},{\"name\":\"proposer\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"deadline\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"forVotes\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"againstVotes\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"executed\",\"type\":\"bool\",\"internalType\":\"bool\"},{\"name\":\"canceled\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"getVoteInfo\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"voter\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"voted\",\"type\":\"bool\",\"internalType\":\"bool\"},{\"name\":\"support\",\"type\":\"bool\",\"internalType\":\"bool\"},{\"name\":\"weight\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"pause\",\"inputs\":[],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"unpause\",\"inputs\":[],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"event\",\"name\":\"Transfer\",\"inputs\":[{\"name\":\"from\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"to\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"value\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"Approval\",\"inputs\":[{\"name\":\"owner\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"spender\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"value\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"DelegateChanged\",\"inputs\":[{\"name\":\"delegator\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"fromDelegate\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"toDelegate\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"DelegateVotesChanged\",\"inputs\":[{\"name\":\"delegate\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"previousVotes\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false},{\"name\":\"newVotes\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"TokensMinted\",\"inputs\":[{\"name\":\"to\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"amount\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false},{\"name\":\"reason\",\"type\":\"string\",\"internalType\":\"string\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"ProposalCreated\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":true},{\"name\":\"proposer\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"description\",\"type\":\"string\",\"internalType\":\"string\",\"indexed\":false},{\"name\":\"deadline\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"VoteCast\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":true},{\"name\":\"voter\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"support\",\"type\":\"bool\",\"internalType\":\"bool\",\"indexed\":false},{\"name\":\"weight\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"ProposalExecuted\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":true}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"ProposalCanceled\",\"inputs\":[{\"name\":\"proposalId\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":true}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"Paused\",\"inputs\":[{\"name\":\"account\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"Unpaused\",\"inputs\":[{\"name\":\"account\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"OwnershipTransferred\",\"inputs\":[{\"name\":\"previousOwner\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"newOwner\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true}],\"anonymous\":false}]",
	ID:  "GovernanceToken",
}

// GovernanceToken is a Go binding around the GovernanceToken contract ABI.
type GovernanceToken struct {
	abi abi.ABI
}

// NewGovernanceToken creates a new instance of GovernanceToken.
func NewGovernanceToken() *GovernanceToken {
	parsed, err := GovernanceTokenMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &GovernanceToken{abi: *parsed}
}

// ABI returns the parsed contract ABI.
func (c *GovernanceToken) ABI() *abi.ABI {
	return &c.abi
}

// DecodeCall resolves calldata to its method and arguments.
func (c *GovernanceToken) DecodeCall(data []byte) (*abi.Method, []any, error) {
	return decodeCall(&c.abi, data)
}

// PackLog encodes a token event as a log emitted by addr.
func (c *GovernanceToken) PackLog(addr common.Address, event domain.ParsedEvent) (*types.Log, error) {
	return packEventLog(&c.abi, addr, event)
}

// UnpackLog decodes a log emitted by the token.
func (c *GovernanceToken) UnpackLog(log *types.Log) (domain.ParsedEvent, error) {
	return unpackEventLog(&c.abi, log)
}

// PackMintForExchange is the Go binding used to pack the parameters required for calling
// the contract method mintForExchange.
//
// Solidity: function mintForExchange(address recipient, uint256 amount, string reason) returns()
func (c *GovernanceToken) PackMintForExchange(recipient common.Address, amount *big.Int, reason string) []byte {
	return mustPack(&c.abi, "mintForExchange", recipient, amount, reason)
}

// PackBatchMint is the Go binding used to pack the parameters required for calling
// the contract method batchMint.
//
// Solidity: function batchMint(address[] recipients, uint256[] amounts, string reason) returns()
func (c *GovernanceToken) PackBatchMint(recipients []common.Address, amounts []*big.Int, reason string) []byte {
	return mustPack(&c.abi, "batchMint", recipients, amounts, reason)
}

// PackTransfer packs transfer(address,uint256).
func (c *GovernanceToken) PackTransfer(to common.Address, value *big.Int) []byte {
	return mustPack(&c.abi, "transfer", to, value)
}

// PackApprove packs approve(address,uint256).
func (c *GovernanceToken) PackApprove(spender common.Address, value *big.Int) []byte {
	return mustPack(&c.abi, "approve", spender, value)
}

// PackTransferFrom packs transferFrom(address,address,uint256).
func (c *GovernanceToken) PackTransferFrom(from, to common.Address, value *big.Int) []byte {
	return mustPack(&c.abi, "transferFrom", from, to, value)
}

// PackDelegate packs delegate(address).
func (c *GovernanceToken) PackDelegate(delegatee common.Address) []byte {
	return mustPack(&c.abi, "delegate", delegatee)
}

// PackDelegateVoting packs delegateVoting(address).
func (c *GovernanceToken) PackDelegateVoting(delegatee common.Address) []byte {
	return mustPack(&c.abi, "delegateVoting", delegatee)
}

// PackCreateProposal packs createProposal(string,uint256).
//
// Solidity: function createProposal(string description, uint256 deadline) returns(uint256)
func (c *GovernanceToken) PackCreateProposal(description string, deadline *big.Int) []byte {
	return mustPack(&c.abi, "createProposal", description, deadline)
}

// PackCreateProposalDefault packs createProposal(string), which uses the
// contract's default voting period.
func (c *GovernanceToken) PackCreateProposalDefault(description string) []byte {
	return mustPack(&c.abi, "createProposal0", description)
}

// UnpackCreateProposal unpacks the proposal id returned by either
// createProposal overload.
func (c *GovernanceToken) UnpackCreateProposal(data []byte) (*big.Int, error) {
	out, err := c.abi.Unpack("createProposal", data)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// PackVote packs vote(uint256,bool).
//
// Solidity: function vote(uint256 proposalId, bool support) returns()
func (c *GovernanceToken) PackVote(proposalID *big.Int, support bool) []byte {
	return mustPack(&c.abi, "vote", proposalID, support)
}

// PackExecuteProposal packs executeProposal(uint256).
func (c *GovernanceToken) PackExecuteProposal(proposalID *big.Int) []byte {
	return mustPack(&c.abi, "executeProposal", proposalID)
}

// PackCancelProposal packs cancelProposal(uint256).
func (c *GovernanceToken) PackCancelProposal(proposalID *big.Int) []byte {
	return mustPack(&c.abi, "cancelProposal", proposalID)
}

// PackPause packs pause().
func (c *GovernanceToken) PackPause() []byte {
	return mustPack(&c.abi, "pause")
}

// PackUnpause packs unpause().
func (c *GovernanceToken) PackUnpause() []byte {
	return mustPack(&c.abi, "unpause")
}

// PackTransferOwnership packs transferOwnership(address).
func (c *GovernanceToken) PackTransferOwnership(newOwner common.Address) []byte {
	return mustPack(&c.abi, "transferOwnership", newOwner)
}

// PackGetVotingPower packs getVotingPower(address).
func (c *GovernanceToken) PackGetVotingPower(account common.Address) []byte {
	return mustPack(&c.abi, "getVotingPower", account)
}

// PackGetProposal packs getProposal(uint256).
func (c *GovernanceToken) PackGetProposal(proposalID *big.Int) []byte {
	return mustPack(&c.abi, "getProposal", proposalID)
}

// GetProposalOutput is the return tuple of getProposal.
type GetProposalOutput struct {
	Description  string
	Proposer     common.Address
	Deadline     *big.Int
	ForVotes     *big.Int
	AgainstVotes *big.Int
	Executed     bool
	Canceled     bool
}

// UnpackGetProposal unpacks the return data of getProposal.
func (c *GovernanceToken) UnpackGetProposal(data []byte) (*GetProposalOutput, error) {
	out := new(GetProposalOutput)
	if err := c.abi.UnpackIntoInterface(out, "getProposal", data); err != nil {
		return nil, fmt.Errorf("failed to unpack getProposal: %w", err)
	}
	return out, nil
}
