package cli

import (
	"fmt"
	"time"

	"github.com/bloom-dao/bloomgov/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewDevCmd creates the dev command with subcommands
func NewDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
		Long:  `Development utilities for moving ledger time and funding test accounts.`,
	}

	cmd.AddCommand(newDevAdvanceCmd())
	cmd.AddCommand(newDevFundCmd())

	return cmd
}

func newDevAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <duration>",
		Short: "Move ledger time forward",
		Example: `  # End a one week voting period
  bloomgov dev advance 168h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			d, err := time.ParseDuration(args[0])
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[0], err)
			}

			result, err := app.AdvanceTime.Run(cmd.Context(), d)
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewDevRenderer(cmd.OutOrStdout()).RenderAdvance(result)
		},
	}
}

func newDevFundCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "fund <address> <ether>",
		Short:   "Set the native balance of an address",
		Example: `  bloomgov dev fund 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 10`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := parseEther(args[1])
			if err != nil {
				return err
			}

			result, err := app.FundAccount.Run(cmd.Context(), addr, amount)
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewDevRenderer(cmd.OutOrStdout()).RenderFund(result)
		},
	}
}
