package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/fatih/color"
)

// PaymasterRenderer renders paymaster state and admin operations
type PaymasterRenderer struct {
	out    io.Writer
	symbol string
}

// NewPaymasterRenderer creates a new paymaster renderer
func NewPaymasterRenderer(out io.Writer, symbol string) *PaymasterRenderer {
	return &PaymasterRenderer{out: out, symbol: symbol}
}

// RenderStatus renders paymaster configuration and accounting
func (r *PaymasterRenderer) RenderStatus(info *usecase.PaymasterInfo) error {
	headerStyle.Fprintf(r.out, "Paymaster: %s\n", info.Address.Hex())
	field(r.out, "Owner", formatAddress(info.Owner))
	field(r.out, "Governance token", formatAddress(info.GovernanceToken))
	if info.Stats.Paused {
		field(r.out, "State", color.New(color.FgRed, color.Bold).Sprint("paused"))
	} else {
		field(r.out, "State", color.New(color.FgGreen).Sprint("active"))
	}
	field(r.out, "Balance", FormatEther(info.Stats.Balance))
	field(r.out, "Sponsored txs", info.Stats.TotalTransactions)
	field(r.out, "Gas paid", FormatEther(info.Stats.TotalGasPaid))

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Parameters:")
	field(r.out, "Max gas price", FormatGwei(info.Parameters.MaxGasPrice))
	field(r.out, "Max gas limit", info.Parameters.MaxGasLimit)
	field(r.out, "Min voting power", FormatTokens(info.Parameters.MinVotingPower, r.symbol))
	field(r.out, "Allowed functions", strings.Join(info.AllowedFunctions, ", "))
	return nil
}

// RenderEligibility renders a sponsorship eligibility check
func (r *PaymasterRenderer) RenderEligibility(result *usecase.EligibilityResult) error {
	if result.Eligible {
		fmt.Fprintln(r.out, FormatSuccess(result.Address.Hex()+" is eligible for sponsored transactions"))
	} else {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is not eligible: %s", result.Address.Hex(), DeclineTitle(result.Reason))))
	}
	field(r.out, "Voting power", FormatTokens(result.VotingPower, r.symbol))
	field(r.out, "Required", FormatTokens(result.MinVotingPower, r.symbol))
	field(r.out, "Blocked", result.Blocked)
	field(r.out, "Paused", result.Paused)
	field(r.out, "Sponsored txs", result.Stats.TxCount)
	field(r.out, "Sponsored gas", FormatEther(result.Stats.GasPaid))
	return nil
}

// RenderManage renders the outcome of an admin operation
func (r *PaymasterRenderer) RenderManage(result *usecase.ManagePaymasterResult) error {
	var msg string
	switch result.Action {
	case usecase.PaymasterPause:
		msg = "Paymaster paused"
	case usecase.PaymasterUnpause:
		msg = "Paymaster unpaused"
	case usecase.PaymasterBlock:
		msg = "User blocked"
	case usecase.PaymasterUnblock:
		msg = "User unblocked"
	case usecase.PaymasterParams, usecase.PaymasterMinVotingPower:
		msg = "Paymaster parameters updated"
	case usecase.PaymasterWithdraw:
		msg = "Funds withdrawn"
	case usecase.PaymasterFund:
		msg = "Paymaster funded"
	default:
		msg = string(result.Action)
	}
	fmt.Fprintln(r.out, FormatSuccess(msg))
	field(r.out, "Balance", FormatEther(result.Paymaster.Stats.Balance))
	renderReceipt(r.out, result.Receipt, result.Events)
	return nil
}

// RenderUser renders the sponsorship record of an address
func (r *PaymasterRenderer) RenderUser(result *usecase.EligibilityResult) error {
	headerStyle.Fprintf(r.out, "User: %s\n", result.Address.Hex())
	field(r.out, "Sponsored txs", result.Stats.TxCount)
	field(r.out, "Sponsored gas", FormatEther(result.Stats.GasPaid))
	if result.Blocked {
		field(r.out, "Blocked", color.New(color.FgRed).Sprint("yes"))
	} else {
		field(r.out, "Blocked", "no")
	}
	return nil
}
