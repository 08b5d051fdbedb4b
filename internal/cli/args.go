package cli

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/bloom-dao/bloomgov/internal/app"
	"github.com/bloom-dao/bloomgov/internal/cli/render"
	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// parseProposalID reads an optional proposal id argument; zero means pick
// one interactively
func parseProposalID(args []string) (uint64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid proposal id %q", args[0])
	}
	return id, nil
}

func parseSupport(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "for", "yes", "y", "true":
		return true, nil
	case "against", "no", "n", "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid vote %q (valid: for, against)", s)
	}
}

// parseEther parses an ether amount such as "0.5" into wei
func parseEther(s string) (*big.Int, error) {
	v, err := domain.ParseUnits(s, 18)
	if err != nil {
		return nil, fmt.Errorf("invalid ether amount: %w", err)
	}
	return v, nil
}

// renderJSON writes result as JSON when --json is set and reports whether it
// did
func renderJSON[T any](cmd *cobra.Command, a *app.App, result T) (bool, error) {
	if !a.Config.JSON {
		return false, nil
	}
	return true, render.NewJSONRenderer[T](cmd.OutOrStdout()).Render(result)
}
