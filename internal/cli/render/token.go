package render

import (
	"fmt"
	"io"

	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

// TokenRenderer renders token operations and account balances
type TokenRenderer struct {
	out    io.Writer
	symbol string
}

// NewTokenRenderer creates a new token renderer
func NewTokenRenderer(out io.Writer, symbol string) *TokenRenderer {
	return &TokenRenderer{out: out, symbol: symbol}
}

// RenderMint renders a mint or batch mint
func (r *TokenRenderer) RenderMint(result *usecase.MintTokensResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Minted %s to %d recipient(s)",
		FormatTokens(result.Total, r.symbol), len(result.Allocations))))
	if result.Reason != "" {
		field(r.out, "Reason", result.Reason)
	}
	for _, a := range result.Allocations {
		fmt.Fprintf(r.out, "  %s  %s\n", formatAddress(a.Recipient), amountStyle.Sprint(FormatTokens(a.Amount, r.symbol)))
	}
	renderReceipt(r.out, result.Receipt, result.Events)
	return nil
}

// RenderTransfer renders a token transfer
func (r *TokenRenderer) RenderTransfer(result *usecase.TransferTokensResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Transferred %s to %s",
		FormatTokens(result.Amount, r.symbol), result.To.Hex())))
	field(r.out, "Sender balance", FormatTokens(result.SenderBalance, r.symbol))
	renderReceipt(r.out, result.Receipt, nil)
	return nil
}

// RenderDelegate renders a delegation change
func (r *TokenRenderer) RenderDelegate(result *usecase.DelegateVotesResult) error {
	if result.Delegatee == (common.Address{}) {
		fmt.Fprintln(r.out, FormatSuccess("Removed delegation of "+result.Delegator.Hex()))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Delegated voting power of %s to %s",
			result.Delegator.Hex(), result.Delegatee.Hex())))
		field(r.out, "Voting power", amountStyle.Sprint(FormatTokens(result.VotingPower, r.symbol)))
	}
	if result.Eligible {
		field(r.out, "Sponsorship", sponsorStyle.Sprint("eligible"))
	} else {
		field(r.out, "Sponsorship", "not eligible")
	}
	renderReceipt(r.out, result.Receipt, nil)
	return nil
}

// RenderAccount renders the governance view of an address
func (r *TokenRenderer) RenderAccount(info *usecase.AccountInfo) error {
	headerStyle.Fprintf(r.out, "Account: %s\n", info.Address.Hex())
	field(r.out, "Balance", amountStyle.Sprint(FormatTokens(info.Balance, r.symbol)))
	field(r.out, "Voting power", amountStyle.Sprint(FormatTokens(info.VotingPower, r.symbol)))
	field(r.out, "Delegate", formatAddress(info.Delegate))
	field(r.out, "Native balance", FormatEther(info.NativeBalance))
	field(r.out, "Nonce", info.Nonce)
	if info.Eligible {
		field(r.out, "Sponsorship", sponsorStyle.Sprint("eligible"))
	} else {
		field(r.out, "Sponsorship", "not eligible ("+DeclineTitle(info.Eligibility)+")")
	}
	field(r.out, "Sponsored txs", info.Sponsorship.TxCount)
	field(r.out, "Sponsored gas", FormatEther(info.Sponsorship.GasPaid))
	return nil
}
