package cli

import (
	"github.com/bloom-dao/bloomgov/internal/cli/render"
	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// NewTokenCmd creates the token command with subcommands
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint, move and delegate governance tokens",
	}

	cmd.AddCommand(newTokenMintCmd())
	cmd.AddCommand(newTokenBatchMintCmd())
	cmd.AddCommand(newTokenTransferCmd())
	cmd.AddCommand(newTokenDelegateCmd())
	cmd.AddCommand(newTokenBalanceCmd())

	return cmd
}

func newTokenMintCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "mint <recipient> <amount>",
		Short: "Mint tokens in exchange for points",
		Long: `Mint governance tokens to a recipient as the token owner. Amounts are whole
tokens with up to 18 decimals, or base units with a "wei" suffix.`,
		Example: `  # Mint 100 BLOOM for an exchange of points
  bloomgov token mint 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 100 --reason "points exchange"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			recipient, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := domain.ParseTokenAmount(args[1])
			if err != nil {
				return err
			}

			result, err := app.MintTokens.Run(cmd.Context(), usecase.MintTokensParams{
				Allocations: []usecase.Allocation{{Recipient: recipient, Amount: amount}},
				Reason:      reason,
			})
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderMint(result)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the TokensMinted event")

	return cmd
}

func newTokenBatchMintCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "batch-mint <file>",
		Short: "Mint tokens to many recipients in one transaction",
		Long: `Mint tokens to every allocation of a YAML batch file in a single atomic
transaction. Either all allocations are minted or none are.`,
		Example: `  # allocations.yaml:
  #   reason: season 1 rewards
  #   allocations:
  #     - recipient: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
  #       amount: "100"
  bloomgov token batch-mint allocations.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.MintTokens.Run(cmd.Context(), usecase.MintTokensParams{
				File:   args[0],
				Reason: reason,
			})
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderMint(result)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Overrides the reason in the batch file")

	return cmd
}

func newTokenTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <to> <amount>",
		Short: "Transfer tokens from the sender",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			to, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := domain.ParseTokenAmount(args[1])
			if err != nil {
				return err
			}

			result, err := app.TransferTokens.Run(cmd.Context(), usecase.TransferTokensParams{To: to, Amount: amount})
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderTransfer(result)
		},
	}
}

func newTokenDelegateCmd() *cobra.Command {
	var undelegate bool

	cmd := &cobra.Command{
		Use:   "delegate [delegatee]",
		Short: "Delegate voting power",
		Long: `Delegate the sender's voting power. Without an address the sender delegates to
itself, which activates its own voting power. Voting power is what makes an
account eligible for sponsored transactions.`,
		Example: `  # Activate your own voting power
  bloomgov token delegate --from 0x70997970C51812dc3A010C7d01b50e0d17dc79C8

  # Give up voting power
  bloomgov token delegate --undelegate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var delegatee common.Address
			if len(args) == 1 {
				if delegatee, err = parseAddress(args[0]); err != nil {
					return err
				}
			}

			result, err := app.DelegateVotes.Run(cmd.Context(), usecase.DelegateVotesParams{
				Delegatee:  delegatee,
				Undelegate: undelegate,
			})
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderDelegate(result)
		},
	}

	cmd.Flags().BoolVar(&undelegate, "undelegate", false, "Remove the current delegation")

	return cmd
}

func newTokenBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "balance [address]",
		Aliases: []string{"account"},
		Short:   "Show balance, voting power and sponsorship of an address",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var params usecase.ShowAccountParams
			if len(args) == 1 {
				if params.Address, err = parseAddress(args[0]); err != nil {
					return err
				}
			}

			info, err := app.ShowAccount.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, info); ok {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderAccount(info)
		},
	}
}
