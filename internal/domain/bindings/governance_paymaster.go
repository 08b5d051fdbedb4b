package bindings

import (
	"errors"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// GovernancePaymasterMetaData contains the ABI of the GovernancePaymaster contract.
var GovernancePaymasterMetaData = bind.MetaData{
	ABI: "[{\"type\":\"receive\",\"stateMutability\":\"payable\"},{\"type\":\"function\",\"name\":\"owner\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"address\",\"internalType\":\"address\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"transferOwnership\",\"inputs\":[{\"name\":\"newOwner\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"governanceToken\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"address\",\"internalType\":\"address\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"paused\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"isAllowedGovernanceFunction\",\"inputs\":[{\"name\":\"selector\",\"type\":\"bytes4\",\"internalType\":\"bytes4\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"pure\"},{\"type\":\"function\",\"name\":\"isFunctionSupported\",\"inputs\":[{\"name\":\"selector\",\"type\":\"bytes4\",\"internalType\":\"bytes4\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"pure\"},{\"type\":\"function\",\"name\":\"isEligible\",\"inputs\":[{\"name\":\"user\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"blockedUsers\",\"inputs\":[{\"name\":\"user\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"getParameters\",\"inputs\":[],\"outputs\":[{\"name\":\"maxGasPrice\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"maxGasLimit\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"minVotingPower\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"updateParameters\",\"inputs\":[{\"name\":\"maxGasPrice\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"maxGasLimit\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"minVotingPower\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"updateMinVotingPower\",\"inputs\":[{\"name\":\"newMinVotingPower\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"blockUser\",\"inputs\":[{\"name\":\"user\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"unblockUser\",\"inputs\":[{\"name\":\"user\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"pause\",\"inputs\":[],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"unpause\",\"inputs\":[],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"withdraw\",\"inputs\":[{\"name\":\"recipient\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"getStats\",\"inputs\":[],\"outputs\":[{\"name\":\"totalTransactions\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"totalGasPaid\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"balance\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"isPaused\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"getUserStats\",\"inputs\":[{\"name\":\"user\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"txCount\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"gasPaid\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"getBalance\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"event\",\"name\":\"PaymasterPaused\",\"inputs\":[{\"name\":\"paused\",\"type\":\"bool\",\"internalType\":\"bool\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"ParametersUpdated\",\"inputs\":[{\"name\":\"maxGasPrice\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false},{\"name\":\"maxGasLimit\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false},{\"name\":\"minVotingPower\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"VotingPowerRequirementUpdated\",\"inputs\":[{\"name\":\"oldRequirement\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false},{\"name\":\"newRequirement\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"UserBlocked\",\"inputs\":[{\"name\":\"user\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"UserUnblocked\",\"inputs\":[{\"name\":\"user\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"FundsWithdrawn\",\"inputs\":[{\"name\":\"recipient\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"amount\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"FundsReceived\",\"inputs\":[{\"name\":\"sender\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"amount\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"TransactionSponsored\",\"inputs\":[{\"name\":\"user\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"selector\",\"type\":\"bytes4\",\"internalType\":\"bytes4\",\"indexed\":false},{\"name\":\"gasPrice\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false},{\"name\":\"gasLimit\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false},{\"name\":\"cost\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"OwnershipTransferred\",\"inputs\":[{\"name\":\"previousOwner\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"newOwner\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true}],\"anonymous\":false}]",
	ID:  "GovernancePaymaster",
}

// PaymasterFlowMetaData contains the ABI of the zkSync IPaymasterFlow interface.
var PaymasterFlowMetaData = bind.MetaData{
	ABI: "[{\"type\":\"function\",\"name\":\"general\",\"inputs\":[{\"name\":\"input\",\"type\":\"bytes\",\"internalType\":\"bytes\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"}]",
	ID:  "IPaymasterFlow",
}

// GovernancePaymaster is a Go binding around the GovernancePaymaster contract ABI.
type GovernancePaymaster struct {
	abi  abi.ABI
	flow abi.ABI
}

// NewGovernancePaymaster creates a new instance of GovernancePaymaster.
func NewGovernancePaymaster() *GovernancePaymaster {
	parsed, err := GovernancePaymasterMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	flow, err := PaymasterFlowMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &GovernancePaymaster{abi: *parsed, flow: *flow}
}

// ABI returns the parsed contract ABI.
func (c *GovernancePaymaster) ABI() *abi.ABI {
	return &c.abi
}

// DecodeCall resolves calldata to its method and arguments.
func (c *GovernancePaymaster) DecodeCall(data []byte) (*abi.Method, []any, error) {
	return decodeCall(&c.abi, data)
}

// PackLog encodes a paymaster event as a log emitted by addr.
func (c *GovernancePaymaster) PackLog(addr common.Address, event domain.ParsedEvent) (*types.Log, error) {
	return packEventLog(&c.abi, addr, event)
}

// UnpackLog decodes a log emitted by the paymaster.
func (c *GovernancePaymaster) UnpackLog(log *types.Log) (domain.ParsedEvent, error) {
	return unpackEventLog(&c.abi, log)
}

// GeneralFlowSelector returns the selector of IPaymasterFlow.general(bytes).
func (c *GovernancePaymaster) GeneralFlowSelector() [4]byte {
	var sel [4]byte
	copy(sel[:], c.flow.Methods["general"].ID)
	return sel
}

// PackGeneralFlow builds the paymasterInput for the general paymaster flow.
//
// Solidity: function general(bytes input)
func (c *GovernancePaymaster) PackGeneralFlow(input []byte) []byte {
	if input == nil {
		input = []byte{}
	}
	return mustPack(&c.flow, "general", input)
}

// PackUpdateParameters packs updateParameters(uint256,uint256,uint256).
func (c *GovernancePaymaster) PackUpdateParameters(maxGasPrice, maxGasLimit, minVotingPower *big.Int) []byte {
	return mustPack(&c.abi, "updateParameters", maxGasPrice, maxGasLimit, minVotingPower)
}

// PackUpdateMinVotingPower packs updateMinVotingPower(uint256).
func (c *GovernancePaymaster) PackUpdateMinVotingPower(value *big.Int) []byte {
	return mustPack(&c.abi, "updateMinVotingPower", value)
}

// PackBlockUser packs blockUser(address).
func (c *GovernancePaymaster) PackBlockUser(user common.Address) []byte {
	return mustPack(&c.abi, "blockUser", user)
}

// PackUnblockUser packs unblockUser(address).
func (c *GovernancePaymaster) PackUnblockUser(user common.Address) []byte {
	return mustPack(&c.abi, "unblockUser", user)
}

// PackPause packs pause().
func (c *GovernancePaymaster) PackPause() []byte {
	return mustPack(&c.abi, "pause")
}

// PackUnpause packs unpause().
func (c *GovernancePaymaster) PackUnpause() []byte {
	return mustPack(&c.abi, "unpause")
}

// PackWithdraw packs withdraw(address).
func (c *GovernancePaymaster) PackWithdraw(recipient common.Address) []byte {
	return mustPack(&c.abi, "withdraw", recipient)
}

// PackTransferOwnership packs transferOwnership(address).
func (c *GovernancePaymaster) PackTransferOwnership(newOwner common.Address) []byte {
	return mustPack(&c.abi, "transferOwnership", newOwner)
}

// PackIsEligible packs isEligible(address).
func (c *GovernancePaymaster) PackIsEligible(user common.Address) []byte {
	return mustPack(&c.abi, "isEligible", user)
}

// PackGetStats packs getStats().
func (c *GovernancePaymaster) PackGetStats() []byte {
	return mustPack(&c.abi, "getStats")
}

// GetStatsOutput is the return tuple of getStats.
type GetStatsOutput struct {
	TotalTransactions *big.Int
	TotalGasPaid      *big.Int
	Balance           *big.Int
	IsPaused          bool
}

// UnpackGetStats unpacks the return data of getStats.
func (c *GovernancePaymaster) UnpackGetStats(data []byte) (*GetStatsOutput, error) {
	out := new(GetStatsOutput)
	if err := c.abi.UnpackIntoInterface(out, "getStats", data); err != nil {
		return nil, err
	}
	return out, nil
}
