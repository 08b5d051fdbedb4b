package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle    = color.New(color.FgCyan, color.Bold)
	labelStyle     = color.New(color.Faint)
	addressStyle   = color.New(color.FgWhite)
	amountStyle    = color.New(color.FgYellow, color.Bold)
	timestampStyle = color.New(color.Faint)
	forStyle       = color.New(color.FgGreen)
	againstStyle   = color.New(color.FgRed)
	sponsorStyle   = color.New(color.FgMagenta)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatTokens renders a token amount with its symbol
func FormatTokens(amount *big.Int, symbol string) string {
	return fmt.Sprintf("%s %s", domain.FormatTokenAmount(amount), symbol)
}

// FormatEther renders a wei amount in ether
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0 ETH"
	}
	v := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return fmt.Sprintf("%s ETH", strings.TrimRight(strings.TrimRight(v.Text('f', 9), "0"), "."))
}

// FormatGwei renders a wei amount in gwei
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "0 gwei"
	}
	v := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.GWei))
	return fmt.Sprintf("%s gwei", strings.TrimRight(strings.TrimRight(v.Text('f', 9), "0"), "."))
}

// StatusTitle renders a proposal status as a colored title, "Active"
func StatusTitle(status models.ProposalStatus) string {
	title := cases.Title(language.English).String(string(status))
	switch status {
	case models.ProposalStatusActive:
		return color.New(color.FgGreen, color.Bold).Sprint(title)
	case models.ProposalStatusExecuted:
		return color.New(color.FgBlue, color.Bold).Sprint(title)
	case models.ProposalStatusCanceled:
		return color.New(color.FgRed).Sprint(title)
	default:
		return color.New(color.FgYellow).Sprint(title)
	}
}

// DeclineTitle renders a decline reason as words, "User Blocked"
func DeclineTitle(reason models.DeclineReason) string {
	if reason == models.DeclineNone {
		return "-"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(reason), "_", " "))
}

func formatAddress(addr common.Address) string {
	if addr == (common.Address{}) {
		return labelStyle.Sprint("none")
	}
	return addressStyle.Sprint(addr.Hex())
}

func formatTime(t time.Time) string {
	return timestampStyle.Sprint(t.UTC().Format("2006-01-02 15:04:05 UTC"))
}

func formatSupport(support bool) string {
	if support {
		return forStyle.Sprint("for")
	}
	return againstStyle.Sprint("against")
}

func field(out io.Writer, label string, value any) {
	fmt.Fprintf(out, "  %s %v\n", labelStyle.Sprintf("%-18s", label+":"), value)
}

// renderReceipt prints the transaction summary shared by write commands
func renderReceipt(out io.Writer, receipt *ledger.Receipt, events []domain.ParsedEvent) {
	if receipt == nil {
		return
	}
	fmt.Fprintln(out)
	field(out, "Transaction", receipt.TxHash.Hex())
	field(out, "Block", receipt.BlockNumber)
	payer := "sender"
	if receipt.Sponsored() {
		payer = sponsorStyle.Sprint("paymaster")
	}
	field(out, "Gas", fmt.Sprintf("%s paid by %s", FormatEther(receipt.GasCharged), payer))
	if receipt.Sponsorship != nil && !receipt.Sponsorship.Approved {
		field(out, "Sponsorship", FormatWarning("declined: "+DeclineTitle(receipt.Sponsorship.Reason)))
	}
	if len(events) > 0 {
		fmt.Fprintf(out, "  %s\n", labelStyle.Sprint("Events:"))
		for _, event := range events {
			fmt.Fprintf(out, "    - %s\n", event.String())
		}
	}
}
